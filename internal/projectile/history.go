// Package projectile steps in-flight projectiles, lag-compensates hit
// detection against a position-history ring per player, and applies the
// resulting damage.
package projectile

import (
	"time"

	"dropzone/internal/entities"
)

// historySample is one recorded (position, time) pair for a player.
type historySample struct {
	position entities.Vector2
	at       time.Time
}

const historyCapacity = 32 // comfortably covers LagCompensationMaxMs at any reasonable tick rate

// History is one player's ring of recent positions, used to rewind hit
// detection to the position they occupied when a projectile's client
// reported it fired.
type History struct {
	samples []historySample
	next    int
	full    bool
}

// NewHistory constructs an empty position-history ring.
func NewHistory() *History {
	return &History{samples: make([]historySample, historyCapacity)}
}

// Record appends the player's current position at now, overwriting the
// oldest entry once the ring is full.
func (h *History) Record(position entities.Vector2, now time.Time) {
	h.samples[h.next] = historySample{position: position, at: now}
	h.next = (h.next + 1) % len(h.samples)
	if h.next == 0 {
		h.full = true
	}
}

// ordered returns the ring's samples oldest-first.
func (h *History) ordered() []historySample {
	if !h.full {
		return h.samples[:h.next]
	}
	ordered := make([]historySample, 0, len(h.samples))
	ordered = append(ordered, h.samples[h.next:]...)
	ordered = append(ordered, h.samples[:h.next]...)
	return ordered
}

// PositionAt returns the player's interpolated position at target time,
// bracketing between the two nearest recorded samples. If target predates
// every sample, the oldest sample is returned; if it postdates every
// sample, current is returned unmodified.
func (h *History) PositionAt(target time.Time, current entities.Vector2) entities.Vector2 {
	samples := h.ordered()
	if len(samples) == 0 {
		return current
	}
	if !target.After(samples[0].at) {
		return samples[0].position
	}
	for i := 1; i < len(samples); i++ {
		if target.After(samples[i].at) {
			continue
		}
		prev, next := samples[i-1], samples[i]
		span := next.at.Sub(prev.at)
		if span <= 0 {
			return prev.position
		}
		t := target.Sub(prev.at).Seconds() / span.Seconds()
		return entities.Vector2{
			X: prev.position.X + (next.position.X-prev.position.X)*t,
			Y: prev.position.Y + (next.position.Y-prev.position.Y)*t,
		}
	}
	return current
}
