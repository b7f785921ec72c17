package movement

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"dropzone/internal/entities"
	"dropzone/internal/spatial"
)

func TestAdvanceRejectsOversizedInput(t *testing.T) {
	player := entities.NewPlayer("p1", "Nova", entities.ClassScout, entities.Vector2{})
	input := Input{Move: entities.Vector2{X: 2, Y: 0}, Speed: 5}

	pos, _, _, rejection := Advance(player, input, 1.0/60, Bounds{MaxX: 100, MaxY: 100}, nil, 0.5, 1.1)
	require.Equal(t, RejectionRejected, rejection)
	require.Equal(t, player.Position, pos)
}

func TestAdvanceClampsAtBounds(t *testing.T) {
	player := entities.NewPlayer("p1", "Nova", entities.ClassScout, entities.Vector2{X: 0.4, Y: 5})
	input := Input{Move: entities.Vector2{X: -1, Y: 0}, Speed: 5}

	pos, vel, _, rejection := Advance(player, input, 1.0, Bounds{MinX: 0, MinY: 0, MaxX: 100, MaxY: 100}, nil, 0.5, 1.1)
	require.Equal(t, RejectionOutOfBounds, rejection)
	require.Equal(t, 0.5, pos.X)
	require.Equal(t, entities.Vector2{}, vel)
}

func TestAdvanceConsumesMatchingManaWhileSprinting(t *testing.T) {
	player := entities.NewPlayer("p1", "Nova", entities.ClassScout, entities.Vector2{X: 10, Y: 10})
	input := Input{Move: entities.Vector2{X: 1, Y: 0}, Speed: 5, Sprinting: true, SprintMul: 1.5, ManaPerSec: 10}

	_, _, manaSpent, rejection := Advance(player, input, 0.5, Bounds{MaxX: 100, MaxY: 100}, nil, 0.5, 1.1)
	require.Equal(t, RejectionNone, rejection)
	require.Equal(t, 5.0, manaSpent)
}

func TestResolveCollisionsPushesOutOfOverlap(t *testing.T) {
	grid := spatial.New(10)
	other := entities.Vector2{X: 0.5, Y: 0}
	grid.Build([]spatial.Entry{{ID: "other", Position: other, Radius: 0.5}})

	resolved := ResolveCollisions(entities.Vector2{X: 0, Y: 0}, 0.5, "self", grid)
	require.InDelta(t, 1.0, resolved.Distance(other), 1e-9)
}

func TestAntiCheatFlagsExcessiveSpeed(t *testing.T) {
	ac := NewAntiCheat(10, 1.2, 1.5, 5)
	base := time.Now()
	ac.Evaluate(entities.Vector2{}, base, 5)

	verdict := ac.Evaluate(entities.Vector2{X: 100, Y: 0}, base.Add(time.Second), 5)
	require.True(t, verdict.Reject)
}

func TestAntiCheatDecaysSuspicionAfterValidStreak(t *testing.T) {
	ac := NewAntiCheat(10, 1.2, 1.5, 2)
	base := time.Now()
	ac.Evaluate(entities.Vector2{}, base, 5)
	ac.Evaluate(entities.Vector2{X: 100, Y: 0}, base.Add(time.Second), 5)
	require.Equal(t, 1, ac.Suspicion())

	t2 := base.Add(2 * time.Second)
	ac.Evaluate(entities.Vector2{X: 101, Y: 0}, t2, 5)
	t3 := t2.Add(time.Second)
	ac.Evaluate(entities.Vector2{X: 102, Y: 0}, t3, 5)

	require.Equal(t, 0, ac.Suspicion())
}
