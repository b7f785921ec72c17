package projectile

import (
	"time"

	"dropzone/internal/combat"
	"dropzone/internal/entities"
)

// Target is a candidate projectile victim: its current position plus the
// history needed for lag compensation.
type Target struct {
	ID      string
	TeamID  string
	Combat  *entities.Combatant
	Current entities.Vector2
	History *History
}

// HitResult reports one projectile-target collision, ready for the caller
// to turn into a CombatEvent.
type HitResult struct {
	TargetID       string
	ShieldAbsorbed float64
	HealthDamage   float64
	Destroyed      bool
}

// Advance moves proj by direction*speed*dt, reports whether it should be
// destroyed for exceeding range or lifetime, and otherwise resolves hits
// against targets not on proj's team.
func Advance(proj *entities.Projectile, dt float64, now time.Time, lagCompensationMax time.Duration, hitboxRadius float64, maxDamageReduction float64, targets []Target) (hits []HitResult, destroy bool) {
	proj.Position = proj.Position.Add(proj.Direction.Scale(proj.Speed * dt))
	proj.Traveled += proj.Speed * dt

	if proj.Traveled >= proj.MaxRange {
		return nil, true
	}
	if now.Sub(proj.SpawnedAt) > proj.MaxLifetime {
		return nil, true
	}

	for _, target := range targets {
		if !target.Combat.Alive || target.TeamID == proj.TeamID {
			continue
		}
		if _, already := proj.HitTargets[target.ID]; already {
			continue
		}

		hitPosition := target.Current
		latency := now.Sub(proj.ClientTimestamp)
		if target.History != nil && latency <= lagCompensationMax {
			hitPosition = target.History.PositionAt(proj.ClientTimestamp, target.Current)
		}

		if proj.Position.Distance(hitPosition) > proj.Radius+hitboxRadius {
			continue
		}

		amount := combat.DistanceFalloff(proj.Damage, proj.Traveled, proj.MaxRange)
		reduction := combat.ReductionFor(target.Combat.Stats, proj.DamageType)
		if reduction > maxDamageReduction {
			reduction = maxDamageReduction
		}
		amount *= 1 - reduction

		shieldAbsorbed, healthDamage := combat.ApplyDamage(target.Combat, amount)

		if proj.StatusEffect != nil {
			dur := combat.NewEffectDuration(ticksFromMillis(proj.StatusEffect.DurationMs), tickIntervalFor(proj.StatusEffect.Type))
			combat.Apply(target.Combat, proj.StatusEffect.Type, proj.StatusEffect.Magnitude, proj.OwnerID, tickFromTime(now), dur)
		}

		destroyed := proj.RecordHit(target.ID)
		hits = append(hits, HitResult{TargetID: target.ID, ShieldAbsorbed: shieldAbsorbed, HealthDamage: healthDamage, Destroyed: destroyed})
		if destroyed {
			return hits, true
		}
	}

	return hits, false
}

// ticksPerSecond assumes the simulation's fixed tick rate; projectile hits
// carry a millisecond duration and a wall-clock time, but the status effect
// contract is tick-based.
const ticksPerSecond = 60

func ticksFromMillis(ms int64) uint64 {
	return uint64(ms) * ticksPerSecond / 1000
}

func tickFromTime(now time.Time) uint64 {
	return uint64(now.UnixMilli()) * ticksPerSecond / 1000
}

// tickIntervalFor returns the periodic-tick interval for a projectile's
// carried status effect; only burn/poison/regen tick periodically.
func tickIntervalFor(effectType entities.StatusEffectType) uint64 {
	switch effectType {
	case entities.StatusEffectBurn, entities.StatusEffectPoison, entities.StatusEffectRegen:
		return ticksPerSecond
	default:
		return 0
	}
}
