package ai

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"dropzone/internal/entities"
)

func testConfig() Config {
	return Config{
		DetectionRange:   10,
		AttackRange:      2,
		AttackCooldown:   30,
		FleeThreshold:    0.2,
		EnrageThreshold:  0.1,
		PatrolRadius:     20,
		PatrolArriveDist: 1,
		PatrolInterval:   60,
	}
}

func aliveMob(state entities.AIState) *entities.Mob {
	return &entities.Mob{
		ID:        "mob-1",
		Type:      entities.MobTypeGrunt,
		Position:  entities.Vector2{X: 0, Y: 0},
		State:     state,
		Combatant: entities.Combatant{Alive: true, Health: 100, MaxHealth: 100},
	}
}

func TestIdleTransitionsToAlertWhenPlayerInRange(t *testing.T) {
	mob := aliveMob(entities.AIStateIdle)
	bb := &Blackboard{}
	candidates := []Candidate{{ID: "p1", Position: entities.Vector2{X: 5, Y: 0}, Alive: true}}

	action := Decide(mob, bb, 0, testConfig(), candidates, rand.New(rand.NewSource(1)))
	require.Equal(t, entities.AIStateAlert, action.NewState)
	require.Equal(t, "p1", bb.TargetID)
}

func TestIdlePatrolsWhenNoPlayerInRange(t *testing.T) {
	mob := aliveMob(entities.AIStateIdle)
	bb := &Blackboard{}

	action := Decide(mob, bb, 0, testConfig(), nil, rand.New(rand.NewSource(1)))
	require.Equal(t, entities.AIStatePatrol, action.NewState)
	require.True(t, action.HasMove)
}

func TestPursuingTransitionsToAttackingInRange(t *testing.T) {
	mob := aliveMob(entities.AIStatePursuing)
	bb := &Blackboard{TargetID: "p1"}
	candidates := []Candidate{{ID: "p1", Position: entities.Vector2{X: 1, Y: 0}, Alive: true}}

	action := Decide(mob, bb, 0, testConfig(), candidates, rand.New(rand.NewSource(1)))
	require.Equal(t, entities.AIStateAttacking, action.NewState)
}

func TestPursuingLosesTargetReturnsIdle(t *testing.T) {
	mob := aliveMob(entities.AIStatePursuing)
	bb := &Blackboard{TargetID: "gone"}

	action := Decide(mob, bb, 0, testConfig(), nil, rand.New(rand.NewSource(1)))
	require.Equal(t, entities.AIStateIdle, action.NewState)
}

func TestLowHealthTransitionsToFleeing(t *testing.T) {
	mob := aliveMob(entities.AIStatePursuing)
	mob.Health = 10 // 10% of 100, below FleeThreshold 0.2
	bb := &Blackboard{TargetID: "p1"}
	candidates := []Candidate{{ID: "p1", Position: entities.Vector2{X: 1, Y: 0}, Alive: true}}

	action := Decide(mob, bb, 0, testConfig(), candidates, rand.New(rand.NewSource(1)))
	require.Equal(t, entities.AIStateFleeing, action.NewState)
	require.True(t, action.HasMove)
}

func TestBossEntersEnrageInsteadOfFleeing(t *testing.T) {
	mob := aliveMob(entities.AIStatePursuing)
	mob.Type = entities.MobTypeBoss
	mob.Health = 5 // below EnrageThreshold 0.1
	bb := &Blackboard{TargetID: "p1"}
	candidates := []Candidate{{ID: "p1", Position: entities.Vector2{X: 1, Y: 0}, Alive: true}}

	action := Decide(mob, bb, 0, testConfig(), candidates, rand.New(rand.NewSource(1)))
	require.Equal(t, entities.AIStateEnraged, action.NewState)
}

func TestDeadMobStaysDead(t *testing.T) {
	mob := aliveMob(entities.AIStateAttacking)
	mob.Alive = false

	action := Decide(mob, &Blackboard{}, 0, testConfig(), nil, rand.New(rand.NewSource(1)))
	require.Equal(t, entities.AIStateDead, action.NewState)
}

func TestSelectTargetBreaksTiesByClassPreference(t *testing.T) {
	candidates := []Candidate{
		{ID: "tank", Position: entities.Vector2{X: 5, Y: 0}, Class: entities.ClassTank, Alive: true},
		{ID: "support", Position: entities.Vector2{X: 0, Y: 5}, Class: entities.ClassSupport, Alive: true},
	}
	target, ok := SelectTarget(entities.Vector2{}, candidates)
	require.True(t, ok)
	require.Equal(t, "support", target.ID)
}

func TestFrequencyForTiersByDistance(t *testing.T) {
	require.Equal(t, uint64(1), FrequencyFor(5))
	require.Equal(t, uint64(3), FrequencyFor(20))
	require.Equal(t, uint64(6), FrequencyFor(40))
	require.Equal(t, uint64(30), FrequencyFor(100))
}

func TestShouldUpdateStaggersAcrossMobs(t *testing.T) {
	// Over a full period, each mob should update exactly once regardless
	// of its hash-derived offset.
	count := 0
	for tick := uint64(0); tick < 6; tick++ {
		if ShouldUpdate("mob-a", tick, 6) {
			count++
		}
	}
	require.Equal(t, 1, count)
}
