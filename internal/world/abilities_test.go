package world

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"dropzone/internal/entities"
	"dropzone/logging"
)

func TestApplyAbilitiesRejectsWrongClass(t *testing.T) {
	cfg := testConfig()
	scout := newTestPlayer("p1", entities.ClassScout)
	w := NewWorld("world-1", cfg, []*entities.Player{scout}, nil, 1)

	commands := []Command{{PlayerID: "p1", Ability: &AbilityRequest{Name: "heal"}}}
	w.Step(context.Background(), logging.NopPublisher{}, 1, time.Now(), 1.0/60, commands)

	require.Zero(t, w.Players["p1"].NextMeleeAt) // untouched; confirms no ability side effect fired
	_, onCooldown := w.Players["p1"].Cooldowns["heal"]
	require.False(t, onCooldown)
}

func TestApplyAbilitiesDashMovesCasterAndStartsCooldown(t *testing.T) {
	cfg := testConfig()
	scout := newTestPlayer("p1", entities.ClassScout)
	w := NewWorld("world-1", cfg, []*entities.Player{scout}, nil, 1)
	start := w.Players["p1"].Position

	commands := []Command{{
		PlayerID: "p1",
		Ability:  &AbilityRequest{Name: "dash", Target: start.Add(entities.Vector2{X: 1})},
	}}
	w.Step(context.Background(), logging.NopPublisher{}, 1, time.Now(), 1.0/60, commands)

	require.NotEqual(t, start, w.Players["p1"].Position)
	readyAt, onCooldown := w.Players["p1"].Cooldowns["dash"]
	require.True(t, onCooldown)
	require.Greater(t, readyAt, uint64(1))
}

func TestApplyAbilitiesRejectsSecondCastDuringCooldown(t *testing.T) {
	cfg := testConfig()
	tank := newTestPlayer("p1", entities.ClassTank)
	w := NewWorld("world-1", cfg, []*entities.Player{tank}, nil, 1)

	cast := func(tick uint64) {
		commands := []Command{{PlayerID: "p1", Ability: &AbilityRequest{Name: "shield"}}}
		w.Step(context.Background(), logging.NopPublisher{}, tick, time.Now(), 1.0/60, commands)
	}

	cast(1)
	shieldAfterFirst := w.Players["p1"].Shield
	require.Greater(t, shieldAfterFirst, 0.0)

	manaAfterFirst := w.Players["p1"].Mana
	cast(2)
	require.Equal(t, manaAfterFirst, w.Players["p1"].Mana) // second cast rejected, mana untouched
}

func TestApplyAbilitiesHealRestoresNearbyAlly(t *testing.T) {
	cfg := testConfig()
	support := newTestPlayer("healer", entities.ClassSupport)
	ally := newTestPlayer("ally", entities.ClassScout)
	ally.TeamID = support.TeamID
	w := NewWorld("world-1", cfg, []*entities.Player{support, ally}, nil, 1)

	ally.Position = support.Position
	ally.Health = ally.MaxHealth - 20

	commands := []Command{{PlayerID: "healer", Ability: &AbilityRequest{Name: "heal"}}}
	w.Step(context.Background(), logging.NopPublisher{}, 1, time.Now(), 1.0/60, commands)

	require.Greater(t, w.Players["ally"].Health, w.Players["ally"].MaxHealth-20)
}
