// Package status_effects defines telemetry events for the typed
// status-effect system (poison, slow, speed, shield, regen, stealth, burn,
// strength_boost). The world's status-effect code does not call these
// helpers, so neither event is published.
package status_effects

import (
	"context"

	"dropzone/logging"
)

const (
	// EventApplied is emitted when a status effect is applied to an actor,
	// including replacement of an existing instance of the same type.
	EventApplied logging.EventType = "status_effects.applied"
	// EventExpired is emitted when a status effect's duration elapses and
	// any modifier it applied (movement speed, shield) is restored.
	EventExpired logging.EventType = "status_effects.expired"
)

// AppliedPayload captures details about a status effect application.
type AppliedPayload struct {
	StatusEffect string `json:"statusEffect"`
	SourceID     string `json:"sourceId,omitempty"`
	DurationMs   int64  `json:"durationMs,omitempty"`
	Replaced     bool   `json:"replaced,omitempty"`
}

// ExpiredPayload captures details about a status effect's expiry.
type ExpiredPayload struct {
	StatusEffect string `json:"statusEffect"`
}

// Applied publishes a status effect application event.
func Applied(ctx context.Context, pub logging.Publisher, tick uint64, actor, target logging.EntityRef, payload AppliedPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventApplied,
		Tick:     tick,
		Actor:    actor,
		Targets:  []logging.EntityRef{target},
		Severity: logging.SeverityInfo,
		Category: "status_effects",
		Payload:  payload,
	})
}

// Expired publishes a status effect expiry event.
func Expired(ctx context.Context, pub logging.Publisher, tick uint64, target logging.EntityRef, payload ExpiredPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventExpired,
		Tick:     tick,
		Targets:  []logging.EntityRef{target},
		Severity: logging.SeverityDebug,
		Category: "status_effects",
		Payload:  payload,
	})
}
