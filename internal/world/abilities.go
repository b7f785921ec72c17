package world

import (
	"context"

	"dropzone/internal/combat"
	"dropzone/internal/entities"
	"dropzone/internal/movement"
	"dropzone/logging"
	combatlog "dropzone/logging/combat"
)

// AbilityRequest is one tick's non-projectile ability-cast intent. Target is
// a world-space point: a destination for dash/charge, or an ally's
// approximate position for heal/buff.
type AbilityRequest struct {
	Name   string
	Target entities.Vector2
}

// abilityDef is one ability's fixed tuning, mirroring the per-preset table
// in internal/projectile for the non-projectile half of a class's kit.
// Cooldown/cost/duration numbers aren't named anywhere in the balance
// config, so they're fixed constants here rather than config fields, the
// same way ClassAttackEffect's magnitudes are fixed in internal/combat.
type abilityDef struct {
	classes       map[entities.Class]bool
	manaCost      float64
	cooldownTicks uint64
	castTicks     uint64 // non-zero means the ability locks movement/attack while it resolves
	magnitude     float64
	durationTicks uint64
	radius        float64 // ally-targeting radius for heal/buff
}

var abilityCatalog = map[string]abilityDef{
	"dash": {
		classes:       map[entities.Class]bool{entities.ClassScout: true},
		manaCost:      15,
		cooldownTicks: 3 * 60,
		magnitude:     6,
	},
	"stealth": {
		classes:       map[entities.Class]bool{entities.ClassScout: true},
		manaCost:      25,
		cooldownTicks: 10 * 60,
		durationTicks: 5 * 60,
	},
	"charge": {
		classes:       map[entities.Class]bool{entities.ClassTank: true},
		manaCost:      20,
		cooldownTicks: 6 * 60,
		castTicks:     15,
		magnitude:     8,
	},
	"shield": {
		classes:       map[entities.Class]bool{entities.ClassTank: true},
		manaCost:      30,
		cooldownTicks: 12 * 60,
		magnitude:     40,
		durationTicks: 8 * 60,
	},
	"heal": {
		classes:       map[entities.Class]bool{entities.ClassSupport: true},
		manaCost:      25,
		cooldownTicks: 5 * 60,
		castTicks:     30,
		magnitude:     35,
		radius:        10,
	},
	"buff": {
		classes:       map[entities.Class]bool{entities.ClassSupport: true},
		manaCost:      20,
		cooldownTicks: 8 * 60,
		durationTicks: 6 * 60,
		magnitude:     0.25,
		radius:        10,
	},
}

// applyAbilities resolves every queued non-projectile ability cast, gating
// on class eligibility, the casting lock, cooldown, and mana, in that
// order. It runs after applyMelee and before spawnProjectiles, keeping
// every combat-phase mutation grouped in the tick's fixed order.
func (w *World) applyAbilities(ctx context.Context, pub logging.Publisher, tick uint64, commands []Command) {
	for _, cmd := range commands {
		if cmd.Ability == nil {
			continue
		}
		caster, ok := w.Players[cmd.PlayerID]
		if !ok || !caster.Alive {
			continue
		}
		actor := logging.EntityRef{Kind: "player", ID: caster.ID}

		def, ok := abilityCatalog[cmd.Ability.Name]
		if !ok {
			continue
		}
		if !def.classes[caster.Class] {
			combatlog.AbilityUsed(ctx, pub, tick, actor, combatlog.AbilityPayload{Ability: cmd.Ability.Name, Rejected: true, Reason: "wrong_class"})
			continue
		}
		if tick < caster.CastEndsAt {
			combatlog.AbilityUsed(ctx, pub, tick, actor, combatlog.AbilityPayload{Ability: cmd.Ability.Name, Rejected: true, Reason: "casting"})
			continue
		}
		if readyTick, onCooldown := caster.Cooldowns[cmd.Ability.Name]; onCooldown && tick < readyTick {
			combatlog.AbilityUsed(ctx, pub, tick, actor, combatlog.AbilityPayload{Ability: cmd.Ability.Name, Rejected: true, Reason: "cooldown"})
			continue
		}
		if caster.Mana < def.manaCost {
			combatlog.AbilityUsed(ctx, pub, tick, actor, combatlog.AbilityPayload{Ability: cmd.Ability.Name, Rejected: true, Reason: "mana"})
			continue
		}

		caster.Mana -= def.manaCost
		caster.Cooldowns[cmd.Ability.Name] = tick + def.cooldownTicks
		if def.castTicks > 0 {
			caster.IsCasting = true
			caster.CastEndsAt = tick + def.castTicks
		}
		caster.ForceNextSnapshot = true

		w.resolveAbility(tick, caster, cmd.Ability.Name, def, cmd.Ability.Target)
		combatlog.AbilityUsed(ctx, pub, tick, actor, combatlog.AbilityPayload{Ability: cmd.Ability.Name})
	}
}

func (w *World) resolveAbility(tick uint64, caster *entities.Player, name string, def abilityDef, target entities.Vector2) {
	switch name {
	case "dash", "charge":
		direction := target.Sub(caster.Position)
		if direction.Length() < 1e-6 {
			direction = entities.Vector2{X: 1}
		} else {
			direction = direction.Normalized()
		}
		destination := caster.Position.Add(direction.Scale(def.magnitude))
		resolved, rejection := movement.Teleport(caster.Position, destination, w.balance.TeleportMaxDistance, w.bounds, w.grid, w.balance.PlayerCollisionRadius, caster.ID)
		if rejection == movement.RejectionNone {
			caster.Position = resolved
		}
	case "stealth":
		caster.IsStealthed = true
		combat.Apply(&caster.Combatant, entities.StatusEffectStealth, 0, caster.ID, tick, combat.NewEffectDuration(def.durationTicks, 0))
	case "shield":
		// Advance clamps accumulated shield to MaxShield every tick, which
		// otherwise defaults to zero for every combatant; raise the cap to
		// the cast's own magnitude so the shield isn't clamped back to zero
		// the instant it's applied.
		caster.MaxShield = def.magnitude
		combat.Apply(&caster.Combatant, entities.StatusEffectShield, def.magnitude, caster.ID, tick, combat.NewEffectDuration(def.durationTicks, def.durationTicks))
	case "heal":
		if ally, ok := w.nearestAlly(caster, def.radius); ok {
			ally.Health += def.magnitude
			if ally.Health > ally.MaxHealth {
				ally.Health = ally.MaxHealth
			}
			ally.ForceNextSnapshot = true
		}
	case "buff":
		if ally, ok := w.nearestAlly(caster, def.radius); ok {
			combat.Apply(&ally.Combatant, entities.StatusEffectStrengthBoost, def.magnitude, caster.ID, tick, combat.NewEffectDuration(def.durationTicks, 0))
			ally.ForceNextSnapshot = true
		}
	}
}

// nearestAlly returns the closest living, same-team player within radius of
// caster, excluding caster itself.
func (w *World) nearestAlly(caster *entities.Player, radius float64) (*entities.Player, bool) {
	var best *entities.Player
	bestDist := radius
	for _, p := range w.Players {
		if p.ID == caster.ID || !p.Alive || p.TeamID != caster.TeamID {
			continue
		}
		d := caster.Position.Distance(p.Position)
		if d <= bestDist {
			best = p
			bestDist = d
		}
	}
	return best, best != nil
}

// clearExpiredStealth drops IsStealthed once the stealth status effect
// instance itself has expired, keeping the boolean flag (read by combat
// targeting and snapshot delta-compression) in sync with the effect list
// advanceStatusEffects already maintains.
func clearExpiredStealth(player *entities.Player) {
	if !player.IsStealthed {
		return
	}
	for _, effect := range player.StatusEffects {
		if effect.Type == entities.StatusEffectStealth {
			return
		}
	}
	player.IsStealthed = false
}
