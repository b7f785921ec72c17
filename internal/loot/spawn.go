package loot

import (
	"context"
	"math"
	"math/rand"
	"time"

	"dropzone/internal/entities"
	"dropzone/logging"
	lootlog "dropzone/logging/loot"
)

// scatterOffset nudges a drop a short random distance from its source so
// multiple rolls from one trigger don't all land on the exact same point.
func scatterOffset(rng *rand.Rand, center entities.Vector2, maxRadius float64) entities.Vector2 {
	angle := rng.Float64() * 2 * math.Pi
	dist := rng.Float64() * maxRadius
	return entities.Vector2{
		X: center.X + math.Cos(angle)*dist,
		Y: center.Y + math.Sin(angle)*dist,
	}
}

func logDrop(ctx context.Context, pub logging.Publisher, tick uint64, item *entities.LootItem, source string) {
	lootlog.Dropped(ctx, pub, tick, logging.EntityRef{}, lootlog.DroppedPayload{
		ItemID:   item.ID,
		ItemType: item.ItemType,
		Rarity:   item.Rarity,
		Source:   source,
		RoomID:   item.RoomID,
	})
}

// SpawnPeriodic rolls table for room (the caller picks a random
// non-completed one) while it is under the per-room cap, placing results
// around the room's center.
func SpawnPeriodic(ctx context.Context, pub logging.Publisher, tick uint64, store *Store, table Table, rng *rand.Rand, room *entities.Room, maxLootPerRoom int, now time.Time) []*entities.LootItem {
	if store.Count(room.ID) >= maxLootPerRoom {
		return nil
	}
	center := entities.Vector2{X: room.Position.X + room.Size.X/2, Y: room.Position.Y + room.Size.Y/2}
	var dropped []*entities.LootItem
	for _, rolled := range Roll(table, rng, 0) {
		pos := scatterOffset(rng, center, 1.5)
		item := store.Add(rolled, pos, room.ID, now)
		logDrop(ctx, pub, tick, item, "periodic")
		dropped = append(dropped, item)
	}
	return dropped
}

// SpawnFromMobDeath rolls table (selected by the killed mob's type) up to
// maxDrops times, boosted by luckModifier (e.g. a Scout killer's bonus).
func SpawnFromMobDeath(ctx context.Context, pub logging.Publisher, tick uint64, store *Store, table Table, rng *rand.Rand, mob *entities.Mob, maxDrops int, luckModifier float64, now time.Time) []*entities.LootItem {
	rolled := Roll(table, rng, luckModifier)
	if len(rolled) > maxDrops {
		rolled = rolled[:maxDrops]
	}
	var dropped []*entities.LootItem
	for _, roll := range rolled {
		pos := scatterOffset(rng, mob.Position, 1.0)
		item := store.Add(roll, pos, mob.RoomID, now)
		logDrop(ctx, pub, tick, item, "mob_death")
		dropped = append(dropped, item)
	}
	return dropped
}

// SpawnFromBossDeath guarantees at least one item of minRarity or higher
// from table, in addition to the boss's normal roll table.
func SpawnFromBossDeath(ctx context.Context, pub logging.Publisher, tick uint64, store *Store, table Table, minRarity int, mob *entities.Mob, now time.Time) *entities.LootItem {
	rolled, ok := RollGuaranteedRarity(table, minRarity)
	if !ok {
		return nil
	}
	item := store.Add(rolled, mob.Position, mob.RoomID, now)
	logDrop(ctx, pub, tick, item, "boss_death")
	return item
}

// SpawnFromRoomCompletion rolls the room-completion table, with a double
// roll on the room's first-ever completion.
func SpawnFromRoomCompletion(ctx context.Context, pub logging.Publisher, tick uint64, store *Store, table Table, rng *rand.Rand, room *entities.Room, firstCompletion bool, now time.Time) []*entities.LootItem {
	rolls := 1
	if firstCompletion {
		rolls = 2
	}
	var dropped []*entities.LootItem
	for i := 0; i < rolls; i++ {
		for _, roll := range Roll(table, rng, 0) {
			pos := scatterOffset(rng, room.Position, 2.0)
			item := store.Add(roll, pos, room.ID, now)
			logDrop(ctx, pub, tick, item, "room_completion")
			dropped = append(dropped, item)
		}
	}
	return dropped
}

// SpawnFromPlayerDeath drops up to maxDrops items from the dying player's
// inventory, scattered around their death position, and clears them from
// the inventory.
func SpawnFromPlayerDeath(ctx context.Context, pub logging.Publisher, tick uint64, store *Store, rng *rand.Rand, player *entities.Player, maxDrops int, now time.Time) []*entities.LootItem {
	if len(player.Inventory) == 0 {
		return nil
	}
	count := len(player.Inventory)
	if count > maxDrops {
		count = maxDrops
	}
	dropped := make([]*entities.LootItem, 0, count)
	for i := 0; i < count; i++ {
		stack := player.Inventory[i]
		pos := scatterOffset(rng, player.Position, 1.5)
		item := store.Add(Rolled{
			ItemName: stack.Name,
			ItemType: stack.ItemType,
			Rarity:   stack.Rarity,
			Quantity: stack.Quantity,
		}, pos, player.RoomID, now)
		logDrop(ctx, pub, tick, item, "player_death")
		dropped = append(dropped, item)
	}
	player.Inventory = player.Inventory[count:]
	return dropped
}
