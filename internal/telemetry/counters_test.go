package telemetry

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCountersAccumulateAcrossCalls(t *testing.T) {
	var c Counters
	c.SetActiveWorlds(3)
	c.SetActivePlayers(10)
	c.AddBytesSent(100)
	c.AddBytesSent(50)
	c.IncMatchesStarted()
	c.IncExtractions()
	c.IncExtractions()
	c.RecordWorldTick("world-1")
	c.RecordWorldTick("world-1")
	c.RecordWorldTick("world-2")

	snap := c.Snapshot()
	require.Equal(t, int64(3), snap.ActiveWorlds)
	require.Equal(t, int64(10), snap.ActivePlayers)
	require.Equal(t, uint64(150), snap.BytesSentTotal)
	require.Equal(t, uint64(1), snap.MatchesStartedTotal)
	require.Equal(t, uint64(2), snap.ExtractionsTotal)
	require.Equal(t, uint64(2), snap.WorldTickCounts["world-1"])
	require.Equal(t, uint64(1), snap.WorldTickCounts["world-2"])
}

func TestRecordTickDurationStoresLatest(t *testing.T) {
	var c Counters
	c.RecordTickDuration(1000)
	c.RecordTickDuration(2000)
	require.Equal(t, int64(2000), c.Snapshot().LastTickDurationMicros)
}
