package app

import (
	"time"

	"dropzone/internal/wire"
	"dropzone/internal/world"
)

// Broadcast implements tick.Broadcaster: called once per world per tick
// with that tick's step result. Only every worldUpdateInterval-th tick
// actually produces a datagram, so the wire rate tracks
// Networking.WorldUpdateRate rather than the (much higher) simulation tick
// rate.
func (a *App) Broadcast(worldID string, tickNum uint64, result world.StepResult) {
	interval := uint64(1)
	if a.cfg.TickRate > 0 && a.cfg.Networking.WorldUpdateRate > 0 {
		interval = uint64(a.cfg.TickRate / a.cfg.Networking.WorldUpdateRate)
		if interval == 0 {
			interval = 1
		}
	}
	if tickNum%interval != 0 {
		return
	}

	a.mu.Lock()
	wr, ok := a.worlds[worldID]
	a.mu.Unlock()
	if !ok {
		return
	}

	snap := wr.world.BuildSnapshot()

	players := make([]wire.PlayerStateUpdate, 0, len(snap.Players))
	for _, p := range snap.Players {
		if !p.Changed {
			continue
		}
		players = append(players, wire.PlayerStateUpdate{
			PlayerID:     p.ID,
			Position:     p.Position,
			Velocity:     p.Velocity,
			AimDirection: float32(p.AimDirection),
			Health:       p.Health,
			MaxHealth:    p.MaxHealth,
			Alive:        p.Alive,
			Moving:       p.Velocity.Length() > 1e-6,
			Casting:      p.Casting,
		})
	}

	mobUpdates := make([]wire.MobUpdate, 0, len(snap.Mobs))
	for _, m := range snap.Mobs {
		if !m.Changed {
			continue
		}
		mobUpdates = append(mobUpdates, wire.MobUpdate{
			MobID:    m.ID,
			Position: m.Position,
			Health:   m.Health,
			State:    m.State,
			Removed:  !m.Alive,
		})
	}

	lootUpdates := make([]wire.LootUpdate, 0, len(snap.Loot))
	for _, l := range snap.Loot {
		lootUpdates = append(lootUpdates, wire.LootUpdate{LootID: l.ID, Name: l.Name, Position: l.Position})
	}

	now := time.Now()
	frame := int64(tickNum)
	delivered := false

	for _, snapPlayer := range snap.Players {
		addr, ok := a.server.Registry().AddrFor(snapPlayer.ID)
		if !ok {
			continue
		}
		ack, _ := wr.lastProcessed(snapPlayer.ID)
		payload := wire.WorldUpdatePayload{
			AcknowledgedInputs: map[string]uint32{snapPlayer.ID: ack},
			ServerTime:         float32(now.UnixMilli()) / 1000,
			FrameNumber:        frame,
			Players:            players,
			LootUpdates:        lootUpdates,
			MobUpdates:         mobUpdates,
		}
		if err := a.server.SendTo(snapPlayer.ID, addr, wire.MessageWorldUpdate, payload); err == nil {
			a.counters.AddBytesSent(estimatePayloadSize(payload))
			delivered = true
		}
	}

	// Only reset the delta baseline once the snapshot actually reached
	// someone; if every SendTo failed this tick (e.g. a world briefly with
	// no reachable players), the changed entities stay flagged so the next
	// tick's snapshot still carries them.
	if delivered {
		wr.world.MarkSnapshotSent(snap)
	}

	a.counters.RecordWorldTick(worldID)
	for range result.DeadPlayers {
		a.counters.IncPlayerDeaths()
	}
	for range result.CompletedExtractions {
		a.counters.IncExtractions()
	}
}

// estimatePayloadSize is a rough byte count for the bytes-sent counter; the
// exact wire size already went through the codec inside SendTo, but that
// result isn't returned to the caller.
func estimatePayloadSize(payload wire.WorldUpdatePayload) uint64 {
	const perPlayer = 48
	const perMob = 40
	const perLoot = 32
	return uint64(len(payload.Players)*perPlayer + len(payload.MobUpdates)*perMob + len(payload.LootUpdates)*perLoot)
}
