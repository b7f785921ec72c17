// Package combat defines typed telemetry events published by the combat
// system: melee overlap resolution, per-target damage, and defeats.
package combat

import (
	"context"

	"dropzone/logging"
)

const (
	// EventAttackOverlap is emitted once per melee swing that hits at least
	// one target, and once per swing refused because the attacker is
	// casting or on cooldown; a swing that finds no target emits nothing.
	EventAttackOverlap logging.EventType = "combat.attack_overlap"
	// EventDamage is emitted for each target that takes damage from a
	// player's or mob's melee hit or from a projectile hit. Status-effect
	// ticks (poison, burn) do not emit it.
	EventDamage logging.EventType = "combat.damage"
	// EventDefeat is emitted when a target's health reaches zero.
	EventDefeat logging.EventType = "combat.defeat"
	// EventAbilityUsed is emitted for every non-projectile ability attempt,
	// accepted or rejected, so cooldown/mana misuse is visible in telemetry
	// the same way a rejected movement or attack is.
	EventAbilityUsed logging.EventType = "combat.ability_used"
)

// AttackOverlapPayload captures the targets inside an attacker's melee cone.
type AttackOverlapPayload struct {
	Ability       string   `json:"ability"`
	PlayerTargets []string `json:"playerTargets,omitempty"`
	MobTargets    []string `json:"mobTargets,omitempty"`
}

// DamagePayload captures a single damage application.
type DamagePayload struct {
	Ability      string  `json:"ability,omitempty"`
	DamageType   string  `json:"damageType,omitempty"`
	Amount       float64 `json:"amount"`
	Critical     bool    `json:"critical,omitempty"`
	ShieldAbsorb float64 `json:"shieldAbsorb,omitempty"`
	TargetHealth float64 `json:"targetHealth"`
}

// DefeatPayload describes the killing blow.
type DefeatPayload struct {
	Ability    string `json:"ability,omitempty"`
	DamageType string `json:"damageType,omitempty"`
}

// AbilityPayload captures one ability-use attempt, successful or not.
type AbilityPayload struct {
	Ability  string `json:"ability"`
	Rejected bool   `json:"rejected,omitempty"`
	Reason   string `json:"reason,omitempty"`
}

// AbilityUsed publishes an ability-use attempt.
func AbilityUsed(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload AbilityPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventAbilityUsed,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityInfo,
		Category: "combat",
		Payload:  payload,
	})
}

// AttackOverlap publishes a melee cone resolution event.
func AttackOverlap(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, players, mobs []logging.EntityRef, payload AttackOverlapPayload) {
	if pub == nil {
		return
	}
	targets := make([]logging.EntityRef, 0, len(players)+len(mobs))
	targets = append(targets, players...)
	targets = append(targets, mobs...)
	pub.Publish(ctx, logging.Event{
		Type:     EventAttackOverlap,
		Tick:     tick,
		Actor:    actor,
		Targets:  targets,
		Severity: logging.SeverityInfo,
		Category: "combat",
		Payload:  payload,
	})
}

// Damage publishes a damage event for a single target.
func Damage(ctx context.Context, pub logging.Publisher, tick uint64, actor, target logging.EntityRef, payload DamagePayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventDamage,
		Tick:     tick,
		Actor:    actor,
		Targets:  []logging.EntityRef{target},
		Severity: logging.SeverityInfo,
		Category: "combat",
		Payload:  payload,
	})
}

// Defeat publishes a defeat event for the eliminated target.
func Defeat(ctx context.Context, pub logging.Publisher, tick uint64, actor, target logging.EntityRef, payload DefeatPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventDefeat,
		Tick:     tick,
		Actor:    actor,
		Targets:  []logging.EntityRef{target},
		Severity: logging.SeverityInfo,
		Category: "combat",
		Payload:  payload,
	})
}
