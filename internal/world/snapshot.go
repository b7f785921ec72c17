package world

import "dropzone/internal/entities"

// PlayerSnapshot is one player's exported view for a client-facing update.
type PlayerSnapshot struct {
	ID           string
	Position     entities.Vector2
	Velocity     entities.Vector2
	AimDirection float64
	Health       float64
	MaxHealth    float64
	Alive        bool
	Casting      bool
	Changed      bool
}

// MobSnapshot is one mob's exported view for a client-facing update.
type MobSnapshot struct {
	ID       string
	Position entities.Vector2
	Health   float64
	State    string
	Alive    bool
	Changed  bool
}

// LootSnapshot is one ground item's exported view for a client-facing
// update.
type LootSnapshot struct {
	ID       string
	Name     string
	Position entities.Vector2
}

// Snapshot is everything the transport layer needs to build a world_update
// payload, with per-entity change flags for delta compression.
type Snapshot struct {
	Players []PlayerSnapshot
	Mobs    []MobSnapshot
	Loot    []LootSnapshot
}

// BuildSnapshot copies out the current world state, flagging every player
// and mob whose state has moved enough since its last confirmed-sent
// baseline to warrant inclusion in the next update. It does not update that
// baseline itself — call MarkSnapshotSent once the snapshot has actually
// been handed to the transport, so a tick with no reachable recipients
// doesn't silently consume the delta. Locked so it never races a
// concurrent Step; the tick engine calls it from the same goroutine
// immediately after Step returns, so in practice the lock is uncontended
// there, but a reconnect or game-started handshake may call it from the
// transport goroutine too.
func (w *World) BuildSnapshot() Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()

	snap := Snapshot{
		Players: make([]PlayerSnapshot, 0, len(w.Players)),
		Mobs:    make([]MobSnapshot, 0, len(w.Mobs)),
	}
	for _, p := range w.Players {
		snap.Players = append(snap.Players, PlayerSnapshot{
			ID:           p.ID,
			Position:     p.Position,
			Velocity:     p.Velocity,
			AimDirection: p.AimDirection,
			Health:       p.Health,
			MaxHealth:    p.MaxHealth,
			Alive:        p.Alive,
			Casting:      p.IsCasting,
			Changed:      p.HasSignificantChange(),
		})
	}
	for _, m := range w.Mobs {
		snap.Mobs = append(snap.Mobs, MobSnapshot{
			ID:       m.ID,
			Position: m.Position,
			Health:   m.Health,
			State:    string(m.State),
			Alive:    m.Alive,
			Changed:  m.HasSignificantChange(),
		})
	}
	for _, room := range w.Rooms {
		for _, item := range w.LootStore.Items(room.ID) {
			snap.Loot = append(snap.Loot, LootSnapshot{ID: item.ID, Name: item.Name, Position: item.Position})
		}
	}
	return snap
}

// MarkSnapshotSent records the delta-compression baseline for every entity
// snap flagged as changed. The caller is responsible for only calling this
// once the snapshot has actually been delivered to at least one recipient;
// otherwise a tick where every SendTo fails would wrongly consume the delta
// with nobody having received it.
func (w *World) MarkSnapshotSent(snap Snapshot) {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, ps := range snap.Players {
		if !ps.Changed {
			continue
		}
		if p, ok := w.Players[ps.ID]; ok {
			p.MarkSent()
		}
	}
	for _, ms := range snap.Mobs {
		if !ms.Changed {
			continue
		}
		if m, ok := w.Mobs[ms.ID]; ok {
			m.MarkSent()
		}
	}
}

// ConnectedPlayerIDs returns every player currently placed in the world,
// locked against a concurrent Step.
func (w *World) ConnectedPlayerIDs() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	ids := make([]string, 0, len(w.Players))
	for id := range w.Players {
		ids = append(ids, id)
	}
	return ids
}

// HasPlayer reports whether playerID is currently placed in the world.
func (w *World) HasPlayer(playerID string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, ok := w.Players[playerID]
	return ok
}

// PlayerPosition returns a player's current position, locked against a
// concurrent Step. Used by the transport layer to fill a reconnect or
// game-started response without duplicating World's internals.
func (w *World) PlayerPosition(playerID string) (entities.Vector2, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	p, ok := w.Players[playerID]
	if !ok {
		return entities.Vector2{}, false
	}
	return p.Position, true
}

// PlayerSnapshotFor copies out a single player's entity, locked against a
// concurrent Step. Used on disconnect to preserve state for the
// reconnection window without reaching into World's internals from another
// package.
func (w *World) PlayerSnapshotFor(playerID string) (*entities.Player, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	p, ok := w.Players[playerID]
	if !ok {
		return nil, false
	}
	return p.Clone(), true
}
