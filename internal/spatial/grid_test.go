package spatial

import (
	"testing"

	"github.com/stretchr/testify/require"

	"dropzone/internal/entities"
)

func TestNearbyFiltersByExactDistance(t *testing.T) {
	grid := New(10)
	grid.Build([]Entry{
		{ID: "a", Position: entities.Vector2{X: 0, Y: 0}},
		{ID: "b", Position: entities.Vector2{X: 5, Y: 0}},
		{ID: "c", Position: entities.Vector2{X: 40, Y: 40}},
	})

	results := grid.Nearby(entities.Vector2{X: 0, Y: 0}, 6)
	ids := map[string]bool{}
	for _, entry := range results {
		ids[entry.ID] = true
	}
	require.True(t, ids["a"])
	require.True(t, ids["b"])
	require.False(t, ids["c"])
}

func TestBuildReplacesPriorContents(t *testing.T) {
	grid := New(10)
	grid.Build([]Entry{{ID: "a", Position: entities.Vector2{X: 0, Y: 0}}})
	grid.Build([]Entry{{ID: "b", Position: entities.Vector2{X: 0, Y: 0}}})

	results := grid.Nearby(entities.Vector2{X: 0, Y: 0}, 1)
	require.Len(t, results, 1)
	require.Equal(t, "b", results[0].ID)
}
