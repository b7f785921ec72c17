// Package telemetry holds process-wide operational counters: server
// health numbers an operator cares about (active worlds, tick duration,
// bytes sent) distinct from the structured gameplay events the logging
// package routes to sinks.
package telemetry

import (
	"sync"
	"sync/atomic"
)

// simpleCounter is a sync.Map-backed set of named uint64 counters,
// allowing new keys to appear without pre-registration.
type simpleCounter struct {
	data sync.Map
}

func (c *simpleCounter) add(key string, delta uint64) {
	if delta == 0 {
		return
	}
	current, _ := c.data.LoadOrStore(key, &atomic.Uint64{})
	current.(*atomic.Uint64).Add(delta)
}

func (c *simpleCounter) snapshot() map[string]uint64 {
	result := make(map[string]uint64)
	c.data.Range(func(key, value any) bool {
		result[key.(string)] = value.(*atomic.Uint64).Load()
		return true
	})
	return result
}

// Counters tracks the server's operational metrics across every active
// world: throughput, tick health, and cumulative gameplay totals.
type Counters struct {
	activeWorlds  atomic.Int64
	activePlayers atomic.Int64

	bytesSentTotal    atomic.Uint64
	tickDurationMicros atomic.Int64

	matchesStartedTotal   atomic.Uint64
	extractionsTotal      atomic.Uint64
	mobKillsTotal         atomic.Uint64
	playerDeathsTotal     atomic.Uint64
	tickBudgetOverrunsTotal atomic.Uint64

	perWorld simpleCounter // worldID -> per-world tick count, for spot-checking a stalled world
}

// Snapshot is the JSON-serializable view of Counters for a metrics
// endpoint or periodic log line.
type Snapshot struct {
	ActiveWorlds          int64             `json:"activeWorlds"`
	ActivePlayers         int64             `json:"activePlayers"`
	BytesSentTotal        uint64            `json:"bytesSentTotal"`
	LastTickDurationMicros int64            `json:"lastTickDurationMicros"`
	MatchesStartedTotal   uint64            `json:"matchesStartedTotal"`
	ExtractionsTotal      uint64            `json:"extractionsTotal"`
	MobKillsTotal         uint64            `json:"mobKillsTotal"`
	PlayerDeathsTotal     uint64            `json:"playerDeathsTotal"`
	TickBudgetOverrunsTotal uint64          `json:"tickBudgetOverrunsTotal"`
	WorldTickCounts       map[string]uint64 `json:"worldTickCounts,omitempty"`
}

// SetActiveWorlds records the current number of running match instances.
func (c *Counters) SetActiveWorlds(n int) { c.activeWorlds.Store(int64(n)) }

// SetActivePlayers records the current number of connected players.
func (c *Counters) SetActivePlayers(n int) { c.activePlayers.Store(int64(n)) }

// AddBytesSent accumulates outbound UDP payload bytes.
func (c *Counters) AddBytesSent(n uint64) { c.bytesSentTotal.Add(n) }

// RecordTickDuration stores the most recent tick's wall-clock cost.
func (c *Counters) RecordTickDuration(micros int64) { c.tickDurationMicros.Store(micros) }

// RecordWorldTick increments worldID's tick counter, for spotting a world
// whose goroutine has wedged mid-tick.
func (c *Counters) RecordWorldTick(worldID string) { c.perWorld.add(worldID, 1) }

// IncMatchesStarted counts one lobby handing its roster off to a new world.
func (c *Counters) IncMatchesStarted() { c.matchesStartedTotal.Add(1) }

// IncExtractions counts one player completing an extraction.
func (c *Counters) IncExtractions() { c.extractionsTotal.Add(1) }

// IncMobKills counts one mob reaching zero health.
func (c *Counters) IncMobKills() { c.mobKillsTotal.Add(1) }

// IncPlayerDeaths counts one player reaching zero health.
func (c *Counters) IncPlayerDeaths() { c.playerDeathsTotal.Add(1) }

// IncTickBudgetOverruns counts one tick that exceeded its time budget.
func (c *Counters) IncTickBudgetOverruns() { c.tickBudgetOverrunsTotal.Add(1) }

// Snapshot captures every counter's current value.
func (c *Counters) Snapshot() Snapshot {
	return Snapshot{
		ActiveWorlds:            c.activeWorlds.Load(),
		ActivePlayers:           c.activePlayers.Load(),
		BytesSentTotal:          c.bytesSentTotal.Load(),
		LastTickDurationMicros:  c.tickDurationMicros.Load(),
		MatchesStartedTotal:     c.matchesStartedTotal.Load(),
		ExtractionsTotal:        c.extractionsTotal.Load(),
		MobKillsTotal:           c.mobKillsTotal.Load(),
		PlayerDeathsTotal:       c.playerDeathsTotal.Load(),
		TickBudgetOverrunsTotal: c.tickBudgetOverrunsTotal.Load(),
		WorldTickCounts:         c.perWorld.snapshot(),
	}
}
