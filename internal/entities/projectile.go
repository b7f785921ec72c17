package entities

import "time"

// DamageType distinguishes which derived reduction stat applies to a hit.
type DamageType string

const (
	DamageTypePhysical DamageType = "physical"
	DamageTypeMagical  DamageType = "magical"
	DamageTypeTrue     DamageType = "true"
)

// Projectile is a server-simulated skillshot.
type Projectile struct {
	ID     string
	OwnerID string
	TeamID  string

	Position  Vector2
	Direction Vector2
	Speed     float64
	MaxRange  float64
	Radius    float64

	Traveled float64

	Pierce      bool
	MaxPierce   int
	HitTargets  map[string]struct{}

	Damage       float64
	DamageType   DamageType
	StatusEffect *StatusEffectPayload

	ClientTimestamp time.Time
	SpawnedAt       time.Time
	MaxLifetime     time.Duration
}

// StatusEffectPayload describes a status effect a projectile or ability
// applies on hit, independent of the runtime instance it becomes.
type StatusEffectPayload struct {
	Type       StatusEffectType
	DurationMs int64
	Magnitude  float64
}

// HitCount returns the number of distinct targets already struck.
func (p *Projectile) HitCount() int {
	return len(p.HitTargets)
}

// RecordHit marks targetID as struck and reports whether the projectile
// should be destroyed as a result (no pierce, or pierce budget exhausted).
func (p *Projectile) RecordHit(targetID string) (destroy bool) {
	if p.HitTargets == nil {
		p.HitTargets = make(map[string]struct{})
	}
	p.HitTargets[targetID] = struct{}{}
	if !p.Pierce {
		return true
	}
	return len(p.HitTargets) >= p.MaxPierce
}
