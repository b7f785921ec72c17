package entities

import "time"

// LootItem is a pickup placed in the world by a spawn table roll, a mob
// death, or a player death.
type LootItem struct {
	ID         string
	Name       string
	ItemType   string
	Rarity     int
	Quantity   int
	Position   Vector2
	RoomID     string
	SpawnedAt  time.Time
	Properties map[string]string
}
