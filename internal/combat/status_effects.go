package combat

import (
	"dropzone/internal/entities"
	"dropzone/stats"
)

// statusEffectSourceID scopes a status effect's stats-layer modifier so
// reapplying the same type replaces rather than stacks it.
func statusEffectSourceID(effectType entities.StatusEffectType) string {
	return "status:" + string(effectType)
}

// effectDuration is how long each status effect type lasts, expressed in
// ticks at the caller's tick rate; durationTicks is computed by the caller
// from a millisecond duration so this package stays tick-rate agnostic.
type effectDuration struct {
	durationTicks uint64
	tickEvery     uint64 // 0 = no periodic tick (e.g. slow/speed/shield/stealth)
}

// NewEffectDuration builds an effectDuration for callers outside this
// package (e.g. projectile status payloads), which only know a tick count
// and periodic-tick interval, not the unexported field layout.
func NewEffectDuration(durationTicks, tickEvery uint64) effectDuration {
	return effectDuration{durationTicks: durationTicks, tickEvery: tickEvery}
}

// Apply attaches or replaces a status effect on target. Effects of the same
// type replace the existing instance rather than stacking, per the shared
// status-effect contract. slow/speed additionally push a temporary layer
// modifier onto the combatant's stats component so DerivedMoveSpeedMultiplier
// reflects the effect until it expires.
func Apply(target *entities.Combatant, effectType entities.StatusEffectType, magnitude float64, sourceID string, tick uint64, dur effectDuration) (replaced bool) {
	for i, existing := range target.StatusEffects {
		if existing.Type == effectType {
			target.StatusEffects[i] = newInstance(effectType, magnitude, sourceID, tick, dur)
			replaced = true
			applyStatsLayer(target, effectType, magnitude, tick, dur)
			return replaced
		}
	}
	target.StatusEffects = append(target.StatusEffects, newInstance(effectType, magnitude, sourceID, tick, dur))
	applyStatsLayer(target, effectType, magnitude, tick, dur)
	return false
}

func newInstance(effectType entities.StatusEffectType, magnitude float64, sourceID string, tick uint64, dur effectDuration) *entities.StatusEffectInstance {
	inst := &entities.StatusEffectInstance{
		Type:      effectType,
		SourceID:  sourceID,
		Magnitude: magnitude,
		AppliedAt: tick,
		ExpiresAt: tick + dur.durationTicks,
		TickEvery: dur.tickEvery,
	}
	if dur.tickEvery > 0 {
		inst.NextTickAt = tick + dur.tickEvery
	}
	return inst
}

// applyStatsLayer wires slow/speed/strength_boost into the layered stats
// engine's temporary layer, which culls itself once the tick passes
// ExpiresAtTick (see stats.Component.cullExpired), giving slow/speed their
// "restored on expiry" behavior for free.
func applyStatsLayer(target *entities.Combatant, effectType entities.StatusEffectType, magnitude float64, tick uint64, dur effectDuration) {
	delta := stats.NewStatDelta()
	switch effectType {
	case entities.StatusEffectSlow:
		delta.Mul[stats.StatSpeed] = 1 - magnitude
	case entities.StatusEffectSpeed:
		delta.Mul[stats.StatSpeed] = 1 + magnitude
	case entities.StatusEffectStrengthBoost:
		delta.Add[stats.StatStrength] = magnitude
	default:
		return
	}
	target.Stats.Apply(stats.CommandStatChange{
		Layer:         stats.LayerTemporary,
		Source:        stats.SourceKey{Kind: stats.SourceKindTemporary, ID: statusEffectSourceID(effectType)},
		Delta:         delta,
		ExpiresAtTick: tick + dur.durationTicks,
	})
}

// TickResult reports what a periodic status effect did this tick, for the
// caller to translate into damage/heal application and telemetry.
type TickResult struct {
	Effect      *entities.StatusEffectInstance
	HealthDelta float64 // negative for poison/burn, positive for regen
}

// Advance processes every status effect on target for the current tick:
// fires due periodic ticks (poison/regen/burn), adds shield for the shield
// type, and drops expired instances (culling their stats-layer modifier
// implicitly via the stats component's own expiry).
func Advance(target *entities.Combatant, tick uint64, maxShield float64) []TickResult {
	var results []TickResult
	kept := target.StatusEffects[:0]
	for _, inst := range target.StatusEffects {
		if inst.DueToTick(tick) {
			results = append(results, TickResult{Effect: inst, HealthDelta: periodicDelta(inst)})
			inst.NextTickAt += inst.TickEvery
		}
		if inst.Type == entities.StatusEffectShield {
			target.Shield += inst.Magnitude
			if target.Shield > maxShield {
				target.Shield = maxShield
			}
		}
		if !inst.Expired(tick) {
			kept = append(kept, inst)
		}
	}
	target.StatusEffects = kept
	return results
}

// periodicDelta returns the per-tick health change for poison/burn
// (negative) or regen (positive); other types have no periodic effect.
func periodicDelta(inst *entities.StatusEffectInstance) float64 {
	switch inst.Type {
	case entities.StatusEffectPoison, entities.StatusEffectBurn:
		return -inst.Magnitude
	case entities.StatusEffectRegen:
		return inst.Magnitude
	default:
		return 0
	}
}
