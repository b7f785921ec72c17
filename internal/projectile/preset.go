package projectile

import (
	"time"

	"dropzone/internal/entities"
)

// Preset captures an ability's fixed projectile shape.
type Preset struct {
	Speed       float64
	MaxRange    float64
	Radius      float64
	Damage      float64
	DamageType  entities.DamageType
	Pierce      bool
	MaxPierce   int
	MaxLifetime time.Duration
	Status      *entities.StatusEffectPayload
}

// Presets enumerates the fixed projectile shapes abilities can spawn.
var Presets = map[string]Preset{
	"arrow": {
		Speed: 20, MaxRange: 15, Radius: 0.2, Damage: 18,
		DamageType: entities.DamageTypePhysical, MaxLifetime: 2 * time.Second,
	},
	"piercing_arrow": {
		Speed: 22, MaxRange: 18, Radius: 0.2, Damage: 14,
		DamageType: entities.DamageTypePhysical, Pierce: true, MaxPierce: 3,
		MaxLifetime: 2 * time.Second,
	},
	"fireball": {
		Speed: 12, MaxRange: 12, Radius: 0.6, Damage: 30,
		DamageType: entities.DamageTypeMagical, MaxLifetime: 3 * time.Second,
		Status: &entities.StatusEffectPayload{Type: entities.StatusEffectBurn, DurationMs: 3000, Magnitude: 4},
	},
	"ice_bolt": {
		Speed: 16, MaxRange: 14, Radius: 0.4, Damage: 16,
		DamageType: entities.DamageTypeMagical, MaxLifetime: 2 * time.Second,
		Status: &entities.StatusEffectPayload{Type: entities.StatusEffectSlow, DurationMs: 2000, Magnitude: 0.30},
	},
}

// IsPreset reports whether name names one of the fixed projectile presets,
// distinguishing a projectile-firing ability from a non-projectile one at
// the dispatch layer before either Spawn or the ability catalog is
// consulted.
func IsPreset(name string) bool {
	_, ok := Presets[name]
	return ok
}

// Spawn constructs a live projectile from a named preset.
func Spawn(id, ownerID, teamID string, position, direction entities.Vector2, presetName string, clientTimestamp time.Time, now time.Time) (*entities.Projectile, bool) {
	preset, ok := Presets[presetName]
	if !ok {
		return nil, false
	}
	return &entities.Projectile{
		ID:              id,
		OwnerID:         ownerID,
		TeamID:          teamID,
		Position:        position,
		Direction:       direction.Normalized(),
		Speed:           preset.Speed,
		MaxRange:        preset.MaxRange,
		Radius:          preset.Radius,
		Pierce:          preset.Pierce,
		MaxPierce:       preset.MaxPierce,
		HitTargets:      make(map[string]struct{}),
		Damage:          preset.Damage,
		DamageType:      preset.DamageType,
		StatusEffect:    preset.Status,
		ClientTimestamp: clientTimestamp,
		SpawnedAt:       now,
		MaxLifetime:     preset.MaxLifetime,
	}, true
}
