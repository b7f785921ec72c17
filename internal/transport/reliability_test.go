package transport

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestState() *endpointState {
	return &endpointState{
		addr:    &net.UDPAddr{IP: net.ParseIP("127.0.0.1"), Port: 9000},
		pending: make(map[uint32]*pendingMessage),
	}
}

func TestPendingRetriesUntilExhausted(t *testing.T) {
	state := newTestState()
	cfg := ReliabilityConfig{RetryDelay: 10 * time.Millisecond, MaxRetries: 2}

	base := time.Now()
	state.trackPending("msg-1", []byte("payload"), base)

	retry, expired := state.duePending(base.Add(20*time.Millisecond), cfg)
	require.Len(t, retry, 1)
	require.Empty(t, expired)
	require.Equal(t, 1, retry[0].attempts)

	retry, expired = state.duePending(base.Add(40*time.Millisecond), cfg)
	require.Len(t, retry, 1)
	require.Empty(t, expired)
	require.Equal(t, 2, retry[0].attempts)

	retry, expired = state.duePending(base.Add(60*time.Millisecond), cfg)
	require.Empty(t, retry)
	require.Len(t, expired, 1)
	require.Empty(t, state.pending)
}

func TestAcknowledgeRemovesPending(t *testing.T) {
	state := newTestState()
	cfg := ReliabilityConfig{RetryDelay: 10 * time.Millisecond, MaxRetries: 3}
	base := time.Now()
	state.trackPending("msg-1", []byte("payload"), base)

	state.acknowledge("msg-1")

	retry, expired := state.duePending(base.Add(time.Second), cfg)
	require.Empty(t, retry)
	require.Empty(t, expired)
}

func TestRecordInputRejectsReplay(t *testing.T) {
	state := newTestState()

	require.True(t, state.recordInput(5))
	require.True(t, state.recordInput(7))
	require.False(t, state.recordInput(6))
	require.False(t, state.recordInput(7))
}

func TestEndpointLimiterBoundsInputBurst(t *testing.T) {
	cfg := RateLimitConfig{
		GlobalRatePerSecond: 1000,
		GlobalBurst:         1000,
		InputRatePerSecond:  1,
		InputBurst:          1,
	}
	limiter := newEndpointLimiter(cfg)

	allowed := 0
	for i := 0; i < 5; i++ {
		if limiter.Allow("player_input") {
			allowed++
		}
	}
	require.Equal(t, 1, allowed)
}

func TestRegistryBindReplacesPriorAddrBinding(t *testing.T) {
	registry := NewRegistry(DefaultRateLimitConfig(60))
	now := time.Now()

	first := &net.UDPAddr{IP: net.ParseIP("127.0.0.1"), Port: 1}
	second := &net.UDPAddr{IP: net.ParseIP("127.0.0.1"), Port: 2}

	registry.Bind("player-1", first, now)
	registry.Bind("player-1", second, now)

	_, foundOld := registry.Lookup(first)
	require.False(t, foundOld)

	state, foundNew := registry.Lookup(second)
	require.True(t, foundNew)
	require.Equal(t, "player-1", state.playerID)
}
