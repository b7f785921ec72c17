// Package ai defines telemetry events for mob AI state transitions.
package ai

import (
	"context"

	"dropzone/logging"
)

// EventStateChanged is emitted whenever a mob's AI state machine transitions.
const EventStateChanged logging.EventType = "ai.state_changed"

// StateChangedPayload captures the transition.
type StateChangedPayload struct {
	MobType string `json:"mobType"`
	From    string `json:"from"`
	To      string `json:"to"`
}

// StateChanged publishes an AI state transition event.
func StateChanged(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload StateChangedPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventStateChanged,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityDebug,
		Category: "ai",
		Payload:  payload,
	})
}
