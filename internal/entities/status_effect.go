package entities

// StatusEffectType enumerates the typed status effects a combatant can
// carry. Applying an effect of a type that is already present replaces the
// existing instance rather than stacking.
type StatusEffectType string

const (
	StatusEffectPoison         StatusEffectType = "poison"
	StatusEffectSlow           StatusEffectType = "slow"
	StatusEffectSpeed          StatusEffectType = "speed"
	StatusEffectShield         StatusEffectType = "shield"
	StatusEffectRegen          StatusEffectType = "regen"
	StatusEffectStealth        StatusEffectType = "stealth"
	StatusEffectBurn           StatusEffectType = "burn"
	StatusEffectStrengthBoost  StatusEffectType = "strength_boost"
)

// StatusEffectInstance is a live application of a status effect on a
// combatant. NextTickAt anchors periodic ticks (poison/regen/burn) to the
// tick the effect was applied, not to a wall-clock modulus.
type StatusEffectInstance struct {
	Type       StatusEffectType
	SourceID   string
	Magnitude  float64
	AppliedAt  uint64
	ExpiresAt  uint64
	NextTickAt uint64
	TickEvery  uint64
}

// Expired reports whether the instance's duration has elapsed as of tick.
func (s *StatusEffectInstance) Expired(tick uint64) bool {
	return tick >= s.ExpiresAt
}

// DueToTick reports whether the instance should fire its periodic effect
// (poison/regen/burn) at tick.
func (s *StatusEffectInstance) DueToTick(tick uint64) bool {
	return s.TickEvery > 0 && tick >= s.NextTickAt
}
