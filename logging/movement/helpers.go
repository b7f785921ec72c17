// Package movement defines typed telemetry events published by the
// movement system: room transitions and PvP-encounter detection, mirroring
// the other per-domain logging packages' const-plus-payload-plus-publisher
// shape.
package movement

import (
	"context"

	"dropzone/logging"
)

const (
	// EventRoomChanged is emitted when a player's computed RoomID changes
	// as a result of a successful move.
	EventRoomChanged logging.EventType = "movement.room_changed"
	// EventPvPEncounter is emitted the first tick two or more teams are
	// known to occupy the same room, not on every tick they continue to.
	EventPvPEncounter logging.EventType = "movement.pvp_encounter"
)

// RoomChangedPayload describes a player's room transition.
type RoomChangedPayload struct {
	FromRoomID string `json:"fromRoomId,omitempty"`
	ToRoomID   string `json:"toRoomId"`
}

// PvPEncounterPayload describes which teams are sharing a room.
type PvPEncounterPayload struct {
	RoomID  string   `json:"roomId"`
	TeamIDs []string `json:"teamIds"`
}

// RoomChanged publishes a room-transition event for actor.
func RoomChanged(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload RoomChangedPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventRoomChanged,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityInfo,
		Category: "movement",
		Payload:  payload,
	})
}

// PvPEncounter publishes a room's team-occupancy transition into contested.
func PvPEncounter(ctx context.Context, pub logging.Publisher, tick uint64, payload PvPEncounterPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventPvPEncounter,
		Tick:     tick,
		Severity: logging.SeverityInfo,
		Category: "movement",
		Payload:  payload,
	})
}
