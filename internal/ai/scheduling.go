package ai

import "hash/fnv"

// FrequencyFor returns how often (in ticks) a mob at distanceToNearestPlayer
// should run its AI decision, per the priority scheduling tiers: closer
// mobs think every tick, distant ones think rarely.
func FrequencyFor(distanceToNearestPlayer float64) uint64 {
	switch {
	case distanceToNearestPlayer < 10:
		return 1
	case distanceToNearestPlayer < 30:
		return 3
	case distanceToNearestPlayer < 50:
		return 6
	default:
		return 30
	}
}

// ShouldUpdate reports whether mobID should run its AI decision on tick,
// given its current frequency. Mobs are staggered by hashing their id so a
// room's population doesn't all recompute on the same tick.
func ShouldUpdate(mobID string, tick uint64, frequency uint64) bool {
	if frequency <= 1 {
		return true
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(mobID))
	offset := uint64(h.Sum32()) % frequency
	return (tick+offset)%frequency == 0
}
