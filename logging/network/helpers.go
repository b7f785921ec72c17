// Package network defines telemetry events for the UDP transport: input
// acknowledgement progression and datagram-level rejections.
package network

import (
	"context"

	"dropzone/logging"
)

const (
	// EventAckAdvanced is emitted when a client acknowledgement advances
	// the server's record of the player's last-processed sequence.
	EventAckAdvanced logging.EventType = "network.ack_advanced"
	// EventAckRegression is emitted when a client reports an
	// acknowledgement older than one previously recorded.
	EventAckRegression logging.EventType = "network.ack_regression"
	// EventMalformedPayload is emitted when a datagram fails to decode.
	EventMalformedPayload logging.EventType = "network.malformed_payload"
	// EventUnsupportedType is emitted when a datagram's type discriminator
	// is not recognized.
	EventUnsupportedType logging.EventType = "network.unsupported_type"
	// EventRateLimitExceeded is emitted when a sender's token bucket is
	// exhausted and a datagram is dropped. The world also emits it when a
	// movement input is refused because the player is casting or the input
	// fails validation.
	EventRateLimitExceeded logging.EventType = "network.rate_limit_exceeded"
	// EventDeliveryFailed is emitted when a reliable message exhausts its
	// retry budget without being acknowledged.
	EventDeliveryFailed logging.EventType = "network.delivery_failed"
)

// AckPayload captures acknowledgement progression details.
type AckPayload struct {
	Previous uint32 `json:"previous"`
	Ack      uint32 `json:"ack"`
}

// RejectPayload captures a dropped-datagram reason.
type RejectPayload struct {
	MessageType string `json:"messageType,omitempty"`
	Reason      string `json:"reason,omitempty"`
}

// AckAdvanced publishes a debug event when a client acknowledgement advances.
func AckAdvanced(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload AckPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventAckAdvanced,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityDebug,
		Category: "network",
		Payload:  payload,
	})
}

// AckRegression publishes a warning when a client acknowledgement regresses.
func AckRegression(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload AckPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventAckRegression,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityWarn,
		Category: "network",
		Payload:  payload,
	})
}

// MalformedPayload publishes a decode-failure event.
func MalformedPayload(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload RejectPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventMalformedPayload,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityWarn,
		Category: "network",
		Payload:  payload,
	})
}

// UnsupportedType publishes an unknown-discriminator event.
func UnsupportedType(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload RejectPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventUnsupportedType,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityWarn,
		Category: "network",
		Payload:  payload,
	})
}

// DeliveryFailed publishes a warning when a reliable message is dropped
// after exhausting its retry budget.
func DeliveryFailed(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload RejectPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventDeliveryFailed,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityWarn,
		Category: "network",
		Payload:  payload,
	})
}

// RateLimitExceeded publishes a dropped-due-to-rate-limit event.
func RateLimitExceeded(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload RejectPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventRateLimitExceeded,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityDebug,
		Category: "network",
		Payload:  payload,
	})
}
