// Package combat resolves melee attacks, the typed status-effect registry,
// and death handling shared by players and mobs.
package combat

import (
	"math/rand"

	"dropzone/internal/entities"
	"dropzone/stats"
)

// ClassBaseDamage is the flat base melee damage per class before weapon,
// strength, and variance are added.
var ClassBaseDamage = map[entities.Class]float64{
	entities.ClassTank:    35,
	entities.ClassScout:   25,
	entities.ClassSupport: 20,
}

const (
	strengthDamageScalar = 2.0
	critMultiplier       = 2.0
	damageVariance       = 0.20 // ±20%
	falloffRangeFraction = 0.80 // falloff begins past 80% of max range
	falloffMinMultiplier = 0.5
)

// Rolled is the resolved damage amount and whether it was a critical hit.
type Rolled struct {
	Amount   float64
	Critical bool
}

// RollMelee computes one target's damage for a melee attack: base + weapon
// + strength scalar, ±20% variance, attacker crit check, then the
// defender's damage reduction.
func RollMelee(attackerClass entities.Class, weaponDamage, strength float64, attackerStats, defenderStats stats.Component, rng *rand.Rand) Rolled {
	base := ClassBaseDamage[attackerClass] + weaponDamage + strength*strengthDamageScalar
	variance := 1 + (rng.Float64()*2-1)*damageVariance
	amount := base * variance

	critChance := attackerStats.GetDerived(stats.DerivedCritChance)
	critical := rng.Float64() < critChance
	if critical {
		amount *= critMultiplier
	}

	reduction := defenderStats.GetDerived(stats.DerivedPhysicalDamageReduction)
	amount *= 1 - reduction

	return Rolled{Amount: amount, Critical: critical}
}

// ApplyDamage subtracts amount from target's shield first, then health,
// clamped at 0. Returns the amount actually absorbed by the shield and the
// amount applied to health.
func ApplyDamage(target *entities.Combatant, amount float64) (shieldAbsorbed, healthDamage float64) {
	if amount <= 0 {
		return 0, 0
	}
	if target.Shield > 0 {
		shieldAbsorbed = amount
		if shieldAbsorbed > target.Shield {
			shieldAbsorbed = target.Shield
		}
		target.Shield -= shieldAbsorbed
		amount -= shieldAbsorbed
	}
	healthDamage = amount
	target.Health -= healthDamage
	if target.Health < 0 {
		healthDamage += target.Health // subtract the overshoot back out
		target.Health = 0
	}
	return shieldAbsorbed, healthDamage
}

// DistanceFalloff scales damage down once a projectile has traveled past
// falloffRangeFraction of its max range, linearly down to
// falloffMinMultiplier at full range.
func DistanceFalloff(amount, traveled, maxRange float64) float64 {
	if maxRange <= 0 {
		return amount
	}
	fraction := traveled / maxRange
	if fraction <= falloffRangeFraction {
		return amount
	}
	t := (fraction - falloffRangeFraction) / (1 - falloffRangeFraction)
	if t > 1 {
		t = 1
	}
	multiplier := 1 - t*(1-falloffMinMultiplier)
	return amount * multiplier
}

// ReductionFor returns the derived damage-reduction stat matching
// damageType; true damage ignores reduction entirely.
func ReductionFor(defenderStats stats.Component, damageType entities.DamageType) float64 {
	switch damageType {
	case entities.DamageTypePhysical:
		return defenderStats.GetDerived(stats.DerivedPhysicalDamageReduction)
	case entities.DamageTypeMagical:
		return defenderStats.GetDerived(stats.DerivedMagicalDamageReduction)
	default:
		return 0
	}
}
