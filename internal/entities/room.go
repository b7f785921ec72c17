package entities

// RoomCoord identifies a room by its position on the generation grid.
type RoomCoord struct {
	X int
	Y int
}

// Room is a generated area of the world grid.
type Room struct {
	ID       string
	Coord    RoomCoord
	Position Vector2
	Size     Vector2
	Neighbors []RoomCoord

	Completed       bool
	CompletingTeam  string
	SpawnedLootIDs  []string

	// PvPActive tracks whether two or more teams are currently known to
	// share this room, so the world only emits a PvP-encounter event on the
	// false-to-true transition instead of every tick both teams remain.
	PvPActive bool
}

// Contains reports whether point lies within the room's axis-aligned bounds.
func (r *Room) Contains(point Vector2) bool {
	return point.X >= r.Position.X && point.X <= r.Position.X+r.Size.X &&
		point.Y >= r.Position.Y && point.Y <= r.Position.Y+r.Size.Y
}

// ExtractionPoint is a room position where a player may complete an
// extraction action over a configured duration to win.
type ExtractionPoint struct {
	ID                    string
	Position              Vector2
	RoomID                string
	Active                bool
	RequiredExtractionSec int
}
