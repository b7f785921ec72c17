package world

import "dropzone/internal/entities"

const (
	ExtractionActionBegin  = "begin"
	ExtractionActionCancel = "cancel"
)

// ExtractionProgress tracks one player's in-progress extraction attempt.
type ExtractionProgress struct {
	ExtractionID string
	StartedAt    uint64
}

// ExtractionTracker holds every active extraction attempt in a world.
type ExtractionTracker struct {
	byPlayer map[string]*ExtractionProgress
}

// NewExtractionTracker constructs an empty tracker.
func NewExtractionTracker() *ExtractionTracker {
	return &ExtractionTracker{byPlayer: make(map[string]*ExtractionProgress)}
}

// Begin starts (or restarts) playerID's extraction attempt at point. It
// does not check where the player stands; Advance drops the attempt if the
// player is not in the point's room.
func (t *ExtractionTracker) Begin(playerID string, point entities.ExtractionPoint, tick uint64) {
	t.byPlayer[playerID] = &ExtractionProgress{ExtractionID: point.ID, StartedAt: tick}
}

// Cancel drops playerID's in-progress extraction, if any.
func (t *ExtractionTracker) Cancel(playerID string) {
	delete(t.byPlayer, playerID)
}

// Progress returns playerID's active extraction attempt, if any.
func (t *ExtractionTracker) Progress(playerID string) (*ExtractionProgress, bool) {
	progress, ok := t.byPlayer[playerID]
	return progress, ok
}

// Advance checks every tracked attempt against the player's current
// position and the extraction point's room, canceling attempts where the
// player left the point's room or died, and returns the ids of players who
// have now held an uninterrupted attempt for at least requiredTicks.
func Advance(t *ExtractionTracker, tick uint64, requiredTicks uint64, players map[string]*entities.Player, points map[string]entities.ExtractionPoint) []string {
	var completed []string
	for playerID, progress := range t.byPlayer {
		player, ok := players[playerID]
		if !ok || !player.Alive {
			delete(t.byPlayer, playerID)
			continue
		}
		point, ok := points[progress.ExtractionID]
		if !ok || !point.Active || player.RoomID != point.RoomID {
			delete(t.byPlayer, playerID)
			continue
		}
		if tick-progress.StartedAt >= requiredTicks {
			completed = append(completed, playerID)
			delete(t.byPlayer, playerID)
		}
	}
	return completed
}
