package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"dropzone/internal/entities"
)

func TestReconnectWithoutPriorSessionIsInvalid(t *testing.T) {
	mgr := NewManager(5 * time.Minute)
	_, _, err := mgr.Reconnect("nonexistent-token", time.Now())
	require.ErrorIs(t, err, ReasonInvalid)
}

func TestReconnectWhileActiveIsAlreadyActive(t *testing.T) {
	mgr := NewManager(5 * time.Minute)
	now := time.Now()
	sess := mgr.Create("player-1", now)

	_, _, err := mgr.Reconnect(sess.Token, now)
	require.ErrorIs(t, err, ReasonAlreadyActive)
}

func TestReconnectAfterExpiryFails(t *testing.T) {
	mgr := NewManager(time.Minute)
	now := time.Now()
	sess := mgr.Create("player-1", now)
	player := entities.NewPlayer("player-1", "Nova", entities.ClassScout, entities.Vector2{})
	mgr.Disconnect("player-1", "world-1", "room-1", player, now)

	_, _, err := mgr.Reconnect(sess.Token, now.Add(2*time.Minute))
	require.ErrorIs(t, err, ReasonExpired)
}

func TestReconnectRestoresSavedState(t *testing.T) {
	mgr := NewManager(5 * time.Minute)
	now := time.Now()
	sess := mgr.Create("player-1", now)
	player := entities.NewPlayer("player-1", "Nova", entities.ClassScout, entities.Vector2{X: 3, Y: 4})
	player.Health = 42
	mgr.Disconnect("player-1", "world-1", "room-1", player, now)

	restored, saved, err := mgr.Reconnect(sess.Token, now.Add(time.Second))
	require.NoError(t, err)
	require.True(t, restored.Active)
	require.Equal(t, "world-1", saved.WorldID)
	require.Equal(t, float64(42), saved.Player.Health)
	require.Equal(t, 3.0, saved.Player.Position.X)

	// Saved state is consumed on reconnect and cannot be replayed.
	_, _, err = mgr.Reconnect(sess.Token, now.Add(2*time.Second))
	require.ErrorIs(t, err, ReasonAlreadyActive)
}

func TestSweepPurgesExpiredSessions(t *testing.T) {
	mgr := NewManager(time.Minute)
	now := time.Now()
	sess := mgr.Create("player-1", now)
	player := entities.NewPlayer("player-1", "Nova", entities.ClassScout, entities.Vector2{})
	mgr.Disconnect("player-1", "world-1", "room-1", player, now)

	purged := mgr.Sweep(now.Add(2 * time.Minute))
	require.Equal(t, []string{"player-1"}, purged)

	_, _, err := mgr.Reconnect(sess.Token, now.Add(2*time.Minute))
	require.ErrorIs(t, err, ReasonInvalid)
}
