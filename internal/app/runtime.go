// Package app wires the transport, session, lobby, and tick-engine packages
// into a running UDP server: decoding datagrams, routing them into the
// right match instance, and driving that instance's fixed-rate simulation.
package app

import (
	"sync"

	"dropzone/internal/combat"
	"dropzone/internal/inputbuf"
	"dropzone/internal/movement"
	"dropzone/internal/world"
)

// worldRuntime is one active match: the simulation state plus the inbound
// command queue the tick engine drains once per tick.
type worldRuntime struct {
	mu      sync.Mutex
	world   *world.World
	pending map[string]world.Command

	buffers map[string]*inputbuf.Buffer
}

func newWorldRuntime(w *world.World, playerIDs []string) *worldRuntime {
	buffers := make(map[string]*inputbuf.Buffer, len(playerIDs))
	for _, id := range playerIDs {
		buffers[id] = inputbuf.New()
	}
	return &worldRuntime{
		world:   w,
		pending: make(map[string]world.Command),
		buffers: buffers,
	}
}

func (wr *worldRuntime) commandForLocked(playerID string) world.Command {
	cmd, ok := wr.pending[playerID]
	if !ok {
		cmd = world.Command{PlayerID: playerID}
	}
	return cmd
}

func (wr *worldRuntime) queueMove(playerID string, move movement.Input) {
	wr.mu.Lock()
	defer wr.mu.Unlock()
	cmd := wr.commandForLocked(playerID)
	m := move
	cmd.Move = &m
	wr.pending[playerID] = cmd
}

func (wr *worldRuntime) queueAttack(playerID string, aim float64) {
	wr.mu.Lock()
	defer wr.mu.Unlock()
	cmd := wr.commandForLocked(playerID)
	cmd.Attack = &combat.AttackRequest{AttackerAim: aim}
	wr.pending[playerID] = cmd
}

func (wr *worldRuntime) queueSpawn(playerID string, spawn world.ProjectileSpawnRequest) {
	wr.mu.Lock()
	defer wr.mu.Unlock()
	cmd := wr.commandForLocked(playerID)
	s := spawn
	cmd.Spawn = &s
	wr.pending[playerID] = cmd
}

func (wr *worldRuntime) queueAbility(playerID string, ability world.AbilityRequest) {
	wr.mu.Lock()
	defer wr.mu.Unlock()
	cmd := wr.commandForLocked(playerID)
	a := ability
	cmd.Ability = &a
	wr.pending[playerID] = cmd
}

func (wr *worldRuntime) queueLootGrab(playerID, lootID string) {
	wr.mu.Lock()
	defer wr.mu.Unlock()
	cmd := wr.commandForLocked(playerID)
	cmd.LootGrab = lootID
	wr.pending[playerID] = cmd
}

func (wr *worldRuntime) queueItemUse(playerID string, use world.ItemUseRequest) {
	wr.mu.Lock()
	defer wr.mu.Unlock()
	cmd := wr.commandForLocked(playerID)
	u := use
	cmd.UseItem = &u
	wr.pending[playerID] = cmd
}

func (wr *worldRuntime) queueExtraction(playerID string, extraction world.ExtractionCommand) {
	wr.mu.Lock()
	defer wr.mu.Unlock()
	cmd := wr.commandForLocked(playerID)
	e := extraction
	cmd.Extraction = &e
	wr.pending[playerID] = cmd
}

// drainCommands returns and clears the pending command set, for the tick
// engine to apply. A player with no pending command this tick is simply
// absent from the slice; World treats that as "no input".
func (wr *worldRuntime) drainCommands() []world.Command {
	wr.mu.Lock()
	defer wr.mu.Unlock()
	out := make([]world.Command, 0, len(wr.pending))
	for _, cmd := range wr.pending {
		out = append(out, cmd)
	}
	wr.pending = make(map[string]world.Command)
	return out
}

func (wr *worldRuntime) bufferFor(playerID string) *inputbuf.Buffer {
	wr.mu.Lock()
	defer wr.mu.Unlock()
	buf, ok := wr.buffers[playerID]
	if !ok {
		buf = inputbuf.New()
		wr.buffers[playerID] = buf
	}
	return buf
}

func (wr *worldRuntime) lastProcessed(playerID string) (uint32, bool) {
	wr.mu.Lock()
	defer wr.mu.Unlock()
	buf, ok := wr.buffers[playerID]
	if !ok {
		return 0, false
	}
	return buf.LastProcessed(), true
}
