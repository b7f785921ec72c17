// Package session defines telemetry events for the connection/session
// lifecycle: joins, disconnects, reconnection outcomes, and expiry sweeps.
package session

import (
	"context"

	"dropzone/logging"
)

const (
	// EventPlayerJoined is emitted when a connect handshake admits a player
	// into a lobby or world.
	EventPlayerJoined logging.EventType = "session.player_joined"
	// EventPlayerDisconnected marks the end of a player's connection, by
	// timeout or graceful disconnect. The server's disconnect path does not
	// publish it.
	EventPlayerDisconnected logging.EventType = "session.player_disconnected"
	// EventReconnectFailed is emitted when a reconnect request is rejected.
	EventReconnectFailed logging.EventType = "session.reconnect_failed"
	// EventReconnectSucceeded is emitted when saved state is restored.
	EventReconnectSucceeded logging.EventType = "session.reconnect_succeeded"
	// EventExpired marks a session purged by the TTL sweep. The sweep logs
	// expired sessions through the process logger and does not publish it.
	EventExpired logging.EventType = "session.expired"
)

// PlayerJoinedPayload captures handshake outcome metadata.
type PlayerJoinedPayload struct {
	WorldID  string  `json:"worldId"`
	Class    string  `json:"class"`
	TeamID   string  `json:"teamId"`
	SpawnX   float64 `json:"spawnX"`
	SpawnY   float64 `json:"spawnY"`
	Reconnected bool `json:"reconnected,omitempty"`
}

// PlayerDisconnectedPayload captures why a player left.
type PlayerDisconnectedPayload struct {
	Reason string `json:"reason"`
}

// ReconnectFailedPayload captures the rejection reason.
type ReconnectFailedPayload struct {
	Reason string `json:"reason"`
}

// ExpiredPayload captures the elapsed idle time before expiry.
type ExpiredPayload struct {
	IdleSeconds float64 `json:"idleSeconds"`
}

// PlayerJoined publishes a join event.
func PlayerJoined(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload PlayerJoinedPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventPlayerJoined,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityInfo,
		Category: "session",
		Payload:  payload,
	})
}

// PlayerDisconnected publishes a disconnect event.
func PlayerDisconnected(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload PlayerDisconnectedPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventPlayerDisconnected,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityInfo,
		Category: "session",
		Payload:  payload,
	})
}

// ReconnectFailed publishes a failed reconnect attempt.
func ReconnectFailed(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload ReconnectFailedPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventReconnectFailed,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityWarn,
		Category: "session",
		Payload:  payload,
	})
}

// ReconnectSucceeded publishes a successful reconnect.
func ReconnectSucceeded(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventReconnectSucceeded,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityInfo,
		Category: "session",
	})
}

// Expired publishes a TTL sweep expiry.
func Expired(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload ExpiredPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventExpired,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityInfo,
		Category: "session",
		Payload:  payload,
	})
}
