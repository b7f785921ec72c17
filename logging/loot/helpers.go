// Package loot defines telemetry events for spawn, pickup, and cleanup of
// ground items.
package loot

import (
	"context"

	"dropzone/logging"
)

const (
	// EventDropped is emitted when a loot item is placed in the world.
	EventDropped logging.EventType = "loot.dropped"
	// EventPickedUp is emitted when a player successfully grabs a loot item.
	EventPickedUp logging.EventType = "loot.picked_up"
	// EventPickupFailed is emitted when a grab attempt is rejected.
	EventPickupFailed logging.EventType = "loot.pickup_failed"
	// EventExpired is emitted when cleanup removes a stale or
	// density-capped item.
	EventExpired logging.EventType = "loot.expired"
)

// DroppedPayload describes a spawn/drop event.
type DroppedPayload struct {
	ItemID   string `json:"itemId"`
	ItemType string `json:"itemType"`
	Rarity   int    `json:"rarity"`
	Source   string `json:"source"`
	RoomID   string `json:"roomId"`
}

// PickedUpPayload describes a successful pickup.
type PickedUpPayload struct {
	ItemID   string `json:"itemId"`
	ItemType string `json:"itemType"`
}

// PickupFailedPayload describes why a pickup was rejected.
type PickupFailedPayload struct {
	ItemID string `json:"itemId"`
	Reason string `json:"reason"`
}

// ExpiredPayload describes a cleanup removal.
type ExpiredPayload struct {
	ItemID string `json:"itemId"`
	Reason string `json:"reason"`
}

// Dropped publishes a loot spawn/drop event.
func Dropped(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload DroppedPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventDropped,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityInfo,
		Category: "loot",
		Payload:  payload,
	})
}

// PickedUp publishes a successful pickup event.
func PickedUp(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload PickedUpPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventPickedUp,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityInfo,
		Category: "loot",
		Payload:  payload,
	})
}

// PickupFailed publishes a rejected pickup attempt.
func PickupFailed(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload PickupFailedPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventPickupFailed,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityWarn,
		Category: "loot",
		Payload:  payload,
	})
}

// Expired publishes a cleanup removal event.
func Expired(ctx context.Context, pub logging.Publisher, tick uint64, payload ExpiredPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventExpired,
		Tick:     tick,
		Severity: logging.SeverityDebug,
		Category: "loot",
		Payload:  payload,
	})
}
