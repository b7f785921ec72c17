package lobby

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"dropzone/internal/config"
)

func testCfg() config.Lobby {
	return config.Lobby{
		MaxWaitTimeSeconds:         30,
		AbsoluteMaxWaitTimeSeconds: 60,
		MinPlayersToStart:          4,
		MinTeamsToStart:            2,
		EmptyLobbyCleanupMinutes:   5,
		MaxPlayers:                 12,
	}
}

const testMaxTeamSize = 6

func TestJoinTracksPlayersAndTeams(t *testing.T) {
	now := time.Unix(0, 0)
	l := newLobby("lobby-1", now, testMaxTeamSize, 12)
	require.NoError(t, l.Join("p1", "team-a", now))
	require.NoError(t, l.Join("p2", "team-a", now))
	require.NoError(t, l.Join("p3", "team-b", now))

	require.Equal(t, 3, l.PlayerCount())
	require.Equal(t, 2, l.TeamCount())
}

func TestJoinMovesPlayerBetweenTeams(t *testing.T) {
	now := time.Unix(0, 0)
	l := newLobby("lobby-1", now, testMaxTeamSize, 12)
	require.NoError(t, l.Join("p1", "team-a", now))
	require.NoError(t, l.Join("p1", "team-b", now))

	require.Equal(t, 1, l.PlayerCount())
	require.Equal(t, 1, l.TeamCount())
}

func TestJoinRejectsFullTeam(t *testing.T) {
	now := time.Unix(0, 0)
	l := newLobby("lobby-1", now, 2, 12)
	require.NoError(t, l.Join("p1", "team-a", now))
	require.NoError(t, l.Join("p2", "team-a", now))

	err := l.Join("p3", "team-a", now)
	require.ErrorIs(t, err, ErrTeamFull)
	require.Equal(t, 2, l.PlayerCount())
}

func TestJoinRejectsFullLobby(t *testing.T) {
	now := time.Unix(0, 0)
	l := newLobby("lobby-1", now, 6, 2)
	require.NoError(t, l.Join("p1", "team-a", now))
	require.NoError(t, l.Join("p2", "team-b", now))

	err := l.Join("p3", "team-c", now)
	require.ErrorIs(t, err, ErrLobbyFull)
}

func TestJoinRejectsAfterStarted(t *testing.T) {
	now := time.Unix(0, 0)
	l := newLobby("lobby-1", now, testMaxTeamSize, 12)
	require.NoError(t, l.Join("p1", "team-a", now))
	l.MarkStarted()

	err := l.Join("p2", "team-a", now)
	require.ErrorIs(t, err, ErrLobbyClosed)
}

func TestReadyToStartImmediateWhenMinimumsMet(t *testing.T) {
	now := time.Unix(0, 0)
	l := newLobby("lobby-1", now, testMaxTeamSize, 12)
	cfg := testCfg()
	for i, team := range []string{"team-a", "team-a", "team-b", "team-b"} {
		require.NoError(t, l.Join(playerName(i), team, now))
	}

	reason, ready := l.ReadyToStart(cfg, now)
	require.True(t, ready)
	require.Equal(t, StartImmediate, reason)
}

func TestReadyToStartTimedWithMinimumAfterSoftWait(t *testing.T) {
	now := time.Unix(0, 0)
	l := newLobby("lobby-1", now, testMaxTeamSize, 12)
	cfg := testCfg()
	cfg.MinTeamsToStart = 5 // unreachable, forces the timed path
	for i := 0; i < 4; i++ {
		require.NoError(t, l.Join(playerName(i), "team-a", now))
	}

	_, readyEarly := l.ReadyToStart(cfg, now.Add(10*time.Second))
	require.False(t, readyEarly)

	reason, ready := l.ReadyToStart(cfg, now.Add(31*time.Second))
	require.True(t, ready)
	require.Equal(t, StartTimedWithMin, reason)
}

func TestReadyToStartHardTimeoutWithAnyPlayers(t *testing.T) {
	now := time.Unix(0, 0)
	l := newLobby("lobby-1", now, testMaxTeamSize, 12)
	cfg := testCfg()
	require.NoError(t, l.Join("p1", "team-a", now))

	reason, ready := l.ReadyToStart(cfg, now.Add(61*time.Second))
	require.True(t, ready)
	require.Equal(t, StartHardTimeout, reason)
}

func TestReadyToStartFalseWhenEmpty(t *testing.T) {
	now := time.Unix(0, 0)
	l := newLobby("lobby-1", now, testMaxTeamSize, 12)
	cfg := testCfg()

	_, ready := l.ReadyToStart(cfg, now.Add(time.Hour))
	require.False(t, ready)
}

func TestManagerFindOrCreateReusesOpenLobby(t *testing.T) {
	now := time.Unix(0, 0)
	m := NewManager(testCfg(), testMaxTeamSize)
	first := m.FindOrCreate("team-a", now)
	require.NoError(t, first.Join("p1", "team-a", now))

	second := m.FindOrCreate("team-a", now)
	require.Same(t, first, second)
}

func TestManagerFindOrCreateSkipsStartedLobby(t *testing.T) {
	now := time.Unix(0, 0)
	m := NewManager(testCfg(), testMaxTeamSize)
	first := m.FindOrCreate("team-a", now)
	first.MarkStarted()

	second := m.FindOrCreate("team-a", now)
	require.NotSame(t, first, second)
}

func TestManagerFindOrCreateSkipsLobbyWhereTeamIsFull(t *testing.T) {
	now := time.Unix(0, 0)
	cfg := testCfg()
	m := NewManager(cfg, 1)
	first := m.FindOrCreate("team-a", now)
	require.NoError(t, first.Join("p1", "team-a", now))

	second := m.FindOrCreate("team-a", now)
	require.NotSame(t, first, second)

	// A different team still fits in the first lobby.
	third := m.FindOrCreate("team-b", now)
	require.Same(t, first, third)
}

func TestManagerFindOrCreateSkipsFullLobby(t *testing.T) {
	now := time.Unix(0, 0)
	cfg := testCfg()
	cfg.MaxPlayers = 1
	m := NewManager(cfg, testMaxTeamSize)
	first := m.FindOrCreate("team-a", now)
	require.NoError(t, first.Join("p1", "team-a", now))

	second := m.FindOrCreate("team-b", now)
	require.NotSame(t, first, second)
}

func TestManagerCleanupRemovesIdleEmptyLobbies(t *testing.T) {
	now := time.Unix(0, 0)
	m := NewManager(testCfg(), testMaxTeamSize)
	l := m.FindOrCreate("team-a", now)
	require.NoError(t, l.Join("p1", "team-a", now))
	l.Leave("p1")

	removed := m.Cleanup(now.Add(4 * time.Minute))
	require.Empty(t, removed)

	removed = m.Cleanup(now.Add(6 * time.Minute))
	require.Equal(t, []string{l.ID}, removed)
}

func playerName(i int) string {
	return string(rune('a' + i))
}
