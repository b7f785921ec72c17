package loot

import (
	"context"

	"dropzone/internal/entities"
	"dropzone/logging"
	lootlog "dropzone/logging/loot"
)

// GrabRejection enumerates why ProcessLootGrab refused a pickup.
type GrabRejection string

const (
	GrabAccepted        GrabRejection = ""
	GrabPlayerDead      GrabRejection = "player_dead"
	GrabItemMissing     GrabRejection = "item_missing"
	GrabOutOfRange      GrabRejection = "out_of_range"
	GrabWrongRoom       GrabRejection = "wrong_room"
	GrabInventoryFull   GrabRejection = "inventory_full"
)

// ProcessLootGrab resolves one player's pickup attempt against store,
// mutating the player's inventory and removing the item from the world on
// success.
func ProcessLootGrab(
	ctx context.Context,
	pub logging.Publisher,
	tick uint64,
	store *Store,
	player *entities.Player,
	grabRange float64,
	maxInventorySize int,
	itemID string,
) GrabRejection {
	actor := logging.EntityRef{Kind: "player", ID: player.ID}

	if !player.Alive {
		lootlog.PickupFailed(ctx, pub, tick, actor, lootlog.PickupFailedPayload{ItemID: itemID, Reason: string(GrabPlayerDead)})
		return GrabPlayerDead
	}

	item, ok := store.Lookup(itemID)
	if !ok {
		lootlog.PickupFailed(ctx, pub, tick, actor, lootlog.PickupFailedPayload{ItemID: itemID, Reason: string(GrabItemMissing)})
		return GrabItemMissing
	}

	if item.RoomID != player.RoomID {
		lootlog.PickupFailed(ctx, pub, tick, actor, lootlog.PickupFailedPayload{ItemID: itemID, Reason: string(GrabWrongRoom)})
		return GrabWrongRoom
	}

	if player.Position.Distance(item.Position) > grabRange {
		lootlog.PickupFailed(ctx, pub, tick, actor, lootlog.PickupFailedPayload{ItemID: itemID, Reason: string(GrabOutOfRange)})
		return GrabOutOfRange
	}

	if len(player.Inventory) >= maxInventorySize {
		lootlog.PickupFailed(ctx, pub, tick, actor, lootlog.PickupFailedPayload{ItemID: itemID, Reason: string(GrabInventoryFull)})
		return GrabInventoryFull
	}

	player.Inventory = append(player.Inventory, entities.InventoryItem{
		ID:       item.ID,
		Name:     item.Name,
		ItemType: item.ItemType,
		Rarity:   item.Rarity,
		Quantity: item.Quantity,
	})
	store.Remove(item)

	lootlog.PickedUp(ctx, pub, tick, actor, lootlog.PickedUpPayload{ItemID: item.ID, ItemType: item.ItemType})
	return GrabAccepted
}
