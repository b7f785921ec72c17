package combat

import (
	"testing"

	"github.com/stretchr/testify/require"

	"dropzone/internal/entities"
	"dropzone/internal/spatial"
	"dropzone/stats"
)

func TestAcquireTargetsRespectsConeAndRange(t *testing.T) {
	grid := spatial.New(10)
	grid.Build([]spatial.Entry{
		{ID: "front", Position: entities.Vector2{X: 2, Y: 0}, Radius: 0.5},
		{ID: "behind", Position: entities.Vector2{X: -2, Y: 0}, Radius: 0.5},
		{ID: "far", Position: entities.Vector2{X: 10, Y: 0}, Radius: 0.5},
	})
	candidates := map[string]Candidate{
		"front":  {ID: "front", Position: entities.Vector2{X: 2, Y: 0}},
		"behind": {ID: "behind", Position: entities.Vector2{X: -2, Y: 0}},
		"far":    {ID: "far", Position: entities.Vector2{X: 10, Y: 0}},
	}

	req := AttackRequest{
		AttackerID:       "attacker",
		AttackerPosition: entities.Vector2{X: 0, Y: 0},
		AttackerAim:      0,
		MeleeRange:       2.5,
		MeleeConeCos:     0.7,
	}
	hits := AcquireTargets(req, grid, candidates)
	require.Equal(t, []string{"front"}, hits)
}

func TestAcquireTargetsExcludesUndetectedStealth(t *testing.T) {
	grid := spatial.New(10)
	grid.Build([]spatial.Entry{{ID: "hidden", Position: entities.Vector2{X: 2, Y: 0}, Radius: 0.5}})
	candidates := map[string]Candidate{
		"hidden": {ID: "hidden", Position: entities.Vector2{X: 2, Y: 0}, IsStealthed: true},
	}
	req := AttackRequest{
		AttackerPosition: entities.Vector2{X: 0, Y: 0},
		MeleeRange:       2.5,
		MeleeConeCos:     0.7,
		StealthDetection: 1.0,
	}
	require.Empty(t, AcquireTargets(req, grid, candidates))
}

func TestApplyDamageDrainsShieldFirst(t *testing.T) {
	target := &entities.Combatant{Health: 50, Shield: 10}
	shieldAbsorbed, healthDamage := ApplyDamage(target, 15)
	require.Equal(t, 10.0, shieldAbsorbed)
	require.Equal(t, 5.0, healthDamage)
	require.Equal(t, 45.0, target.Health)
	require.Equal(t, 0.0, target.Shield)
}

func TestApplyDamageClampsAtZero(t *testing.T) {
	target := &entities.Combatant{Health: 5}
	_, healthDamage := ApplyDamage(target, 20)
	require.Equal(t, 5.0, healthDamage)
	require.Equal(t, 0.0, target.Health)
}

func TestDistanceFalloffReducesPastEightyPercent(t *testing.T) {
	require.Equal(t, 100.0, DistanceFalloff(100, 5, 10))
	require.InDelta(t, 87.5, DistanceFalloff(100, 9, 10), 1e-6)
	require.InDelta(t, 50.0, DistanceFalloff(100, 10, 10), 1e-6)
}

func TestApplyStatusEffectReplacesNotStacks(t *testing.T) {
	target := &entities.Combatant{Stats: stats.NewComponent(stats.DefaultBase(stats.ArchetypeScout))}
	Apply(target, entities.StatusEffectPoison, 5, "attacker", 0, effectDuration{durationTicks: 60, tickEvery: 60})
	replaced := Apply(target, entities.StatusEffectPoison, 8, "attacker", 10, effectDuration{durationTicks: 60, tickEvery: 60})

	require.True(t, replaced)
	require.Len(t, target.StatusEffects, 1)
	require.Equal(t, 8.0, target.StatusEffects[0].Magnitude)
}

func TestAdvanceFiresPoisonAndExpires(t *testing.T) {
	target := &entities.Combatant{Health: 100, MaxHealth: 100, Stats: stats.NewComponent(stats.DefaultBase(stats.ArchetypeScout))}
	Apply(target, entities.StatusEffectPoison, 5, "attacker", 0, effectDuration{durationTicks: 2, tickEvery: 1})

	results := Advance(target, 1, 0)
	require.Len(t, results, 1)
	require.Equal(t, -5.0, results[0].HealthDelta)
	require.Len(t, target.StatusEffects, 1)

	results = Advance(target, 2, 0)
	require.Empty(t, target.StatusEffects)
}

func TestSlowModifiesMoveSpeedMultiplierUntilExpiry(t *testing.T) {
	target := &entities.Combatant{Stats: stats.NewComponent(stats.DefaultBase(stats.ArchetypeScout))}
	target.Stats.Resolve(0)
	baseline := target.Stats.GetDerived(stats.DerivedMoveSpeedMultiplier)

	Apply(target, entities.StatusEffectSlow, 0.30, "attacker", 0, effectDuration{durationTicks: 5})
	target.Stats.Resolve(1)
	require.Less(t, target.Stats.GetDerived(stats.DerivedMoveSpeedMultiplier), baseline)

	target.Stats.Resolve(10)
	require.InDelta(t, baseline, target.Stats.GetDerived(stats.DerivedMoveSpeedMultiplier), 1e-9)
}
