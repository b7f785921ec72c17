package app

import "time"

// PlayerDiagnostics is one connected player's heartbeat and input-ack state,
// the in-process equivalent of an admin-facing health readout.
type PlayerDiagnostics struct {
	PlayerID      string
	WorldID       string
	LastHeartbeat time.Time
	LastProcessed uint32
}

// DiagnosticsSnapshot reports heartbeat and input-ack state for every
// connected player. There is no HTTP surface for it; a future admin tool
// can call it directly in-process.
func (a *App) DiagnosticsSnapshot() []PlayerDiagnostics {
	a.mu.Lock()
	playerWorld := make(map[string]string, len(a.playerWorld))
	for id, worldID := range a.playerWorld {
		playerWorld[id] = worldID
	}
	a.mu.Unlock()

	out := make([]PlayerDiagnostics, 0, len(playerWorld))
	for playerID, worldID := range playerWorld {
		entry := PlayerDiagnostics{PlayerID: playerID, WorldID: worldID}
		if lastSeen, ok := a.server.Registry().LastSeen(playerID); ok {
			entry.LastHeartbeat = lastSeen
		}
		if wr, ok := a.worldRuntimeFor(playerID); ok {
			entry.LastProcessed, _ = wr.lastProcessed(playerID)
		}
		out = append(out, entry)
	}
	return out
}
