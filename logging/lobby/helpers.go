// Package lobby defines telemetry events for matchmaking: team joins and
// the transition into an active world.
package lobby

import (
	"context"

	"dropzone/logging"
)

const (
	// EventPlayerJoined is emitted when a player joins a waiting lobby.
	EventPlayerJoined logging.EventType = "lobby.player_joined"
	// EventReadyToStart is emitted when a lobby's start condition fires.
	EventReadyToStart logging.EventType = "lobby.ready_to_start"
)

// PlayerJoinedPayload captures the lobby's composition after a join.
type PlayerJoinedPayload struct {
	LobbyID     string `json:"lobbyId"`
	TeamID      string `json:"teamId"`
	TotalPlayers int   `json:"totalPlayers"`
}

// ReadyToStartPayload captures the reason the lobby started.
type ReadyToStartPayload struct {
	LobbyID      string `json:"lobbyId"`
	Reason       string `json:"reason"`
	TotalPlayers int    `json:"totalPlayers"`
}

// PlayerJoined publishes a lobby join event.
func PlayerJoined(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload PlayerJoinedPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventPlayerJoined,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityInfo,
		Category: "lobby",
		Payload:  payload,
	})
}

// ReadyToStart publishes a lobby start event.
func ReadyToStart(ctx context.Context, pub logging.Publisher, tick uint64, payload ReadyToStartPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventReadyToStart,
		Tick:     tick,
		Severity: logging.SeverityInfo,
		Category: "lobby",
		Payload:  payload,
	})
}
