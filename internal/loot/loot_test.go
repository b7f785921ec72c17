package loot

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"dropzone/internal/entities"
)

func TestRollRespectsDropChance(t *testing.T) {
	table := Table{Entries: []Entry{
		{ItemName: "always", DropChance: 1.0, QtyMin: 1, QtyMax: 1},
		{ItemName: "never", DropChance: 0, QtyMin: 1, QtyMax: 1},
	}}
	rolled := Roll(table, rand.New(rand.NewSource(1)), 0)
	require.Len(t, rolled, 1)
	require.Equal(t, "always", rolled[0].ItemName)
}

func TestRollLuckModifierBoostsChance(t *testing.T) {
	table := Table{Entries: []Entry{{ItemName: "item", DropChance: 0.5, QtyMin: 1, QtyMax: 1}}}
	rng := rand.New(rand.NewSource(42))
	// With luck pushing chance to 1.0, every roll should hit.
	for i := 0; i < 20; i++ {
		rolled := Roll(table, rng, 0.5)
		require.Len(t, rolled, 1)
	}
}

func TestRollGuaranteedRarityPicksHighest(t *testing.T) {
	table := Table{Entries: []Entry{
		{ItemName: "low", Rarity: 1},
		{ItemName: "high", Rarity: 4},
		{ItemName: "mid", Rarity: 2},
	}}
	rolled, ok := RollGuaranteedRarity(table, 3)
	require.True(t, ok)
	require.Equal(t, "high", rolled.ItemName)
}

func TestStoreAddAndCleanupByAge(t *testing.T) {
	store := NewStore()
	now := time.Unix(1000, 0)
	item := store.Add(Rolled{ItemName: "x", Quantity: 1}, entities.Vector2{}, "room-1", now)
	require.Equal(t, 1, store.Count("room-1"))

	store.Cleanup(nil, nil, 0, now.Add(20*time.Minute), 10*time.Minute, 0)
	_, ok := store.Lookup(item.ID)
	require.False(t, ok)
	require.Equal(t, 0, store.Count("room-1"))
}

func TestStoreCleanupEnforcesRoomDensityCap(t *testing.T) {
	store := NewStore()
	now := time.Unix(1000, 0)
	for i := 0; i < 5; i++ {
		store.Add(Rolled{ItemName: "x", Quantity: 1}, entities.Vector2{}, "room-1", now.Add(time.Duration(i)*time.Second))
	}
	store.Cleanup(nil, nil, 0, now.Add(2*time.Second), time.Hour, 3)
	require.Equal(t, 3, store.Count("room-1"))
}

func TestProcessLootGrabRejectsOutOfRange(t *testing.T) {
	store := NewStore()
	now := time.Unix(0, 0)
	item := store.Add(Rolled{ItemName: "x", Quantity: 1}, entities.Vector2{X: 10, Y: 0}, "room-1", now)

	player := &entities.Player{ID: "p1", RoomID: "room-1", Position: entities.Vector2{X: 0, Y: 0}}
	player.Alive = true

	rejection := ProcessLootGrab(nil, nil, 0, store, player, 3.0, 20, item.ID)
	require.Equal(t, GrabOutOfRange, rejection)
}

func TestProcessLootGrabSucceedsAndAppendsInventory(t *testing.T) {
	store := NewStore()
	now := time.Unix(0, 0)
	item := store.Add(Rolled{ItemName: "x", ItemType: "material", Quantity: 2}, entities.Vector2{X: 1, Y: 0}, "room-1", now)

	player := &entities.Player{ID: "p1", RoomID: "room-1", Position: entities.Vector2{X: 0, Y: 0}}
	player.Alive = true

	rejection := ProcessLootGrab(nil, nil, 0, store, player, 3.0, 20, item.ID)
	require.Equal(t, GrabAccepted, rejection)
	require.Len(t, player.Inventory, 1)
	require.Equal(t, "x", player.Inventory[0].Name)

	_, ok := store.Lookup(item.ID)
	require.False(t, ok)
}

func TestProcessLootGrabRejectsWhenInventoryFull(t *testing.T) {
	store := NewStore()
	now := time.Unix(0, 0)
	item := store.Add(Rolled{ItemName: "x", Quantity: 1}, entities.Vector2{}, "room-1", now)

	player := &entities.Player{ID: "p1", RoomID: "room-1"}
	player.Alive = true
	player.Inventory = make([]entities.InventoryItem, 2)

	rejection := ProcessLootGrab(nil, nil, 0, store, player, 3.0, 2, item.ID)
	require.Equal(t, GrabInventoryFull, rejection)
}

func TestSpawnFromPlayerDeathCapsAndClearsInventory(t *testing.T) {
	store := NewStore()
	now := time.Unix(0, 0)
	rng := rand.New(rand.NewSource(7))
	player := &entities.Player{ID: "p1", RoomID: "room-1"}
	player.Inventory = []entities.InventoryItem{
		{Name: "a"}, {Name: "b"}, {Name: "c"}, {Name: "d"},
	}

	dropped := SpawnFromPlayerDeath(nil, nil, 0, store, rng, player, 3, now)
	require.Len(t, dropped, 3)
	require.Len(t, player.Inventory, 1)
	require.Equal(t, "d", player.Inventory[0].Name)
}
