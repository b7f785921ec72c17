package loot

import (
	"context"
	"fmt"
	"sort"
	"time"

	"dropzone/internal/entities"
	"dropzone/logging"
	lootlog "dropzone/logging/loot"
)

// Store tracks every ground item in a world, indexed by id and by the room
// it was dropped in, mirroring the teacher's ground-item map plus tile
// index, keyed by room instead of tile since this domain has no free-form
// tile grid.
type Store struct {
	byID     map[string]*entities.LootItem
	byRoom   map[string][]*entities.LootItem
	nextID   uint64
}

// NewStore constructs an empty ground-item store.
func NewStore() *Store {
	return &Store{
		byID:   make(map[string]*entities.LootItem),
		byRoom: make(map[string][]*entities.LootItem),
	}
}

// Items returns every ground item in roomID.
func (s *Store) Items(roomID string) []*entities.LootItem {
	return s.byRoom[roomID]
}

// Count returns how many ground items currently sit in roomID.
func (s *Store) Count(roomID string) int {
	return len(s.byRoom[roomID])
}

// Lookup finds a ground item by id.
func (s *Store) Lookup(itemID string) (*entities.LootItem, bool) {
	item, ok := s.byID[itemID]
	return item, ok
}

// Add places a rolled drop in the world at position, inside roomID, and
// returns the resulting item.
func (s *Store) Add(rolled Rolled, position entities.Vector2, roomID string, now time.Time) *entities.LootItem {
	s.nextID++
	item := &entities.LootItem{
		ID:         fmt.Sprintf("loot-%d", s.nextID),
		Name:       rolled.ItemName,
		ItemType:   rolled.ItemType,
		Rarity:     rolled.Rarity,
		Quantity:   rolled.Quantity,
		Position:   position,
		RoomID:     roomID,
		SpawnedAt:  now,
		Properties: rolled.Properties,
	}
	s.byID[item.ID] = item
	s.byRoom[roomID] = append(s.byRoom[roomID], item)
	return item
}

// Remove deletes item from the store.
func (s *Store) Remove(item *entities.LootItem) {
	delete(s.byID, item.ID)
	room := s.byRoom[item.RoomID]
	for i, candidate := range room {
		if candidate.ID == item.ID {
			s.byRoom[item.RoomID] = append(room[:i], room[i+1:]...)
			break
		}
	}
	if len(s.byRoom[item.RoomID]) == 0 {
		delete(s.byRoom, item.RoomID)
	}
}

// Cleanup removes items older than maxAge, then trims each room down to
// maxPerRoom by evicting its oldest remaining items, reporting every
// removal as a loot.expired telemetry event.
func (s *Store) Cleanup(ctx context.Context, pub logging.Publisher, tick uint64, now time.Time, maxAge time.Duration, maxPerRoom int) {
	for _, item := range s.snapshot() {
		if now.Sub(item.SpawnedAt) > maxAge {
			s.Remove(item)
			lootlog.Expired(ctx, pub, tick, lootlog.ExpiredPayload{ItemID: item.ID, Reason: "expired"})
		}
	}

	if maxPerRoom <= 0 {
		return
	}
	for _, items := range s.byRoom {
		if len(items) <= maxPerRoom {
			continue
		}
		sorted := append([]*entities.LootItem(nil), items...)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i].SpawnedAt.Before(sorted[j].SpawnedAt) })
		excess := len(sorted) - maxPerRoom
		for _, item := range sorted[:excess] {
			s.Remove(item)
			lootlog.Expired(ctx, pub, tick, lootlog.ExpiredPayload{ItemID: item.ID, Reason: "room_density_cap"})
		}
	}
}

func (s *Store) snapshot() []*entities.LootItem {
	items := make([]*entities.LootItem, 0, len(s.byID))
	for _, item := range s.byID {
		items = append(items, item)
	}
	return items
}
