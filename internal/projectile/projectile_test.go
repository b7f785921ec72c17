package projectile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"dropzone/internal/entities"
	"dropzone/stats"
)

func newCombatant(health float64) *entities.Combatant {
	return &entities.Combatant{
		Health:    health,
		MaxHealth: health,
		Alive:     true,
		Stats:     stats.NewComponent(stats.DefaultBase(stats.ArchetypeScout)),
	}
}

func TestSpawnNormalizesDirectionFromPreset(t *testing.T) {
	now := time.Unix(0, 0)
	proj, ok := Spawn("p1", "owner", "red", entities.Vector2{}, entities.Vector2{X: 3, Y: 4}, "arrow", now, now)
	require.True(t, ok)
	require.InDelta(t, 1.0, proj.Direction.Length(), 1e-9)
	require.Equal(t, entities.DamageTypePhysical, proj.DamageType)
}

func TestAdvanceDestroysPastMaxRange(t *testing.T) {
	now := time.Unix(0, 0)
	proj, _ := Spawn("p1", "owner", "red", entities.Vector2{}, entities.Vector2{X: 1, Y: 0}, "arrow", now, now)
	proj.Traveled = proj.MaxRange - 0.01

	_, destroy := Advance(proj, 1.0, now, 200*time.Millisecond, 0.5, 1.0, nil)
	require.True(t, destroy)
}

func TestAdvanceDestroysPastLifetime(t *testing.T) {
	spawnedAt := time.Unix(0, 0)
	proj, _ := Spawn("p1", "owner", "red", entities.Vector2{}, entities.Vector2{X: 1, Y: 0}, "arrow", spawnedAt, spawnedAt)

	_, destroy := Advance(proj, 0.01, spawnedAt.Add(3*time.Second), 200*time.Millisecond, 0.5, 1.0, nil)
	require.True(t, destroy)
}

func TestAdvanceSkipsSameTeamAndDeadTargets(t *testing.T) {
	now := time.Unix(0, 0)
	proj, _ := Spawn("p1", "owner", "red", entities.Vector2{}, entities.Vector2{X: 1, Y: 0}, "arrow", now, now)

	ally := newCombatant(100)
	dead := newCombatant(100)
	dead.Alive = false

	targets := []Target{
		{ID: "ally", TeamID: "red", Combat: ally, Current: entities.Vector2{X: 0.1, Y: 0}},
		{ID: "dead", TeamID: "blue", Combat: dead, Current: entities.Vector2{X: 0.1, Y: 0}},
	}

	hits, destroy := Advance(proj, 0.01, now, 200*time.Millisecond, 0.5, 1.0, targets)
	require.Empty(t, hits)
	require.False(t, destroy)
}

func TestAdvanceHitsEnemyAndAppliesStatusEffect(t *testing.T) {
	now := time.Unix(0, 0)
	proj, _ := Spawn("p1", "owner", "red", entities.Vector2{}, entities.Vector2{X: 1, Y: 0}, "ice_bolt", now, now)
	proj.ClientTimestamp = now

	enemy := newCombatant(100)
	targets := []Target{
		{ID: "enemy", TeamID: "blue", Combat: enemy, Current: proj.Position.Add(proj.Direction.Scale(proj.Speed * 0.01))},
	}

	hits, destroy := Advance(proj, 0.01, now, 200*time.Millisecond, 0.5, 1.0, targets)
	require.Len(t, hits, 1)
	require.True(t, destroy) // no pierce on ice_bolt
	require.Less(t, enemy.Health, 100.0)
	require.Len(t, enemy.StatusEffects, 1)
	require.Equal(t, entities.StatusEffectSlow, enemy.StatusEffects[0].Type)
}

func TestAdvanceIgnoresAlreadyHitTarget(t *testing.T) {
	now := time.Unix(0, 0)
	proj, _ := Spawn("p1", "owner", "red", entities.Vector2{}, entities.Vector2{X: 1, Y: 0}, "piercing_arrow", now, now)
	proj.HitTargets["enemy"] = struct{}{}

	enemy := newCombatant(100)
	targets := []Target{
		{ID: "enemy", TeamID: "blue", Combat: enemy, Current: proj.Position},
	}

	hits, _ := Advance(proj, 0.01, now, 200*time.Millisecond, 0.5, 1.0, targets)
	require.Empty(t, hits)
	require.Equal(t, 100.0, enemy.Health)
}

func TestAdvanceUsesHistoryForLagCompensation(t *testing.T) {
	now := time.Unix(10, 0)
	clientSentAt := now.Add(-50 * time.Millisecond)

	proj, _ := Spawn("p1", "owner", "red", entities.Vector2{}, entities.Vector2{X: 1, Y: 0}, "arrow", clientSentAt, now)
	proj.Traveled = 0

	history := NewHistory()
	history.Record(entities.Vector2{X: 0.1, Y: 0}, clientSentAt)
	history.Record(entities.Vector2{X: 5, Y: 0}, now)

	enemy := newCombatant(100)
	targets := []Target{
		{ID: "enemy", TeamID: "blue", Combat: enemy, Current: entities.Vector2{X: 5, Y: 0}, History: history},
	}

	// At client send time the enemy's real position (0.1, 0) was within
	// hit range of the projectile's muzzle, even though their current
	// position (5, 0) is far away.
	hits, _ := Advance(proj, 0.01, now, 200*time.Millisecond, 0.5, 1.0, targets)
	require.Len(t, hits, 1)
}
