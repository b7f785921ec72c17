package transport

import (
	"sync"

	"golang.org/x/time/rate"

	"dropzone/internal/wire"
)

// RateLimitConfig configures the token buckets applied per endpoint.
type RateLimitConfig struct {
	// GlobalRatePerSecond/GlobalBurst bound the total datagram rate from a
	// single endpoint, regardless of message type.
	GlobalRatePerSecond float64
	GlobalBurst         int

	// InputRatePerSecond/InputBurst bound player_input specifically, since
	// it is sent far more often than any other inbound message.
	InputRatePerSecond float64
	InputBurst         int
}

// DefaultRateLimitConfig mirrors the player update rate: inputs arrive at
// most once per simulation tick, everything else is comparatively rare.
func DefaultRateLimitConfig(playerUpdateRate int) RateLimitConfig {
	inputRate := float64(playerUpdateRate) * 1.5
	return RateLimitConfig{
		GlobalRatePerSecond: inputRate + 20,
		GlobalBurst:         int(inputRate) + 40,
		InputRatePerSecond:  inputRate,
		InputBurst:          int(inputRate) / 2,
		// a burst that rounds down to 0 is raised to 1 by newEndpointLimiter
	}
}

// endpointLimiter holds one endpoint's token buckets: a global bucket for
// all datagrams and a dedicated bucket for the high-frequency input message.
type endpointLimiter struct {
	mu      sync.Mutex
	global  *rate.Limiter
	input   *rate.Limiter
}

func newEndpointLimiter(cfg RateLimitConfig) *endpointLimiter {
	burst := cfg.GlobalBurst
	if burst < 1 {
		burst = 1
	}
	inputBurst := cfg.InputBurst
	if inputBurst < 1 {
		inputBurst = 1
	}
	return &endpointLimiter{
		global: rate.NewLimiter(rate.Limit(cfg.GlobalRatePerSecond), burst),
		input:  rate.NewLimiter(rate.Limit(cfg.InputRatePerSecond), inputBurst),
	}
}

// Allow reports whether a datagram of msgType may be accepted right now,
// consuming a token from both the global and (for player_input) the
// dedicated bucket.
func (l *endpointLimiter) Allow(msgType wire.MessageType) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.global.Allow() {
		return false
	}
	if msgType == wire.MessagePlayerInput {
		return l.input.Allow()
	}
	return true
}
