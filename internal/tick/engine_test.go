package tick

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"dropzone/internal/config"
	"dropzone/internal/entities"
	"dropzone/internal/world"
	"dropzone/logging"
)

type countingBroadcaster struct {
	calls atomic.Int64
}

func (c *countingBroadcaster) Broadcast(worldID string, tick uint64, result world.StepResult) {
	c.calls.Add(1)
}

func newTestWorld(t *testing.T) *world.World {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.WorldGen.WorldSizeX = 1
	cfg.WorldGen.WorldSizeY = 1
	cfg.WorldGen.MobsPerRoom = 0
	cfg.WorldGen.InitialLootCount = 0
	player := entities.NewPlayer("p1", "p1", entities.ClassScout, entities.Vector2{})
	return world.NewWorld("world-1", cfg, []*entities.Player{player}, nil, 1)
}

func TestEngineStepsRegisteredWorldsEachTick(t *testing.T) {
	w := newTestWorld(t)
	broadcaster := &countingBroadcaster{}

	handles := []WorldHandle{{
		ID:       "world-1",
		World:    w,
		Commands: func() []world.Command { return nil },
	}}

	engine := NewEngine(1000, logging.NopPublisher{}, broadcaster, func() []WorldHandle { return handles })

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	engine.Run(ctx)

	require.Greater(t, broadcaster.calls.Load(), int64(0))
	require.Greater(t, engine.CurrentTick(), uint64(0))
}

func TestEngineSkipsWorldsNotInCurrentHandleList(t *testing.T) {
	calls := 0
	handles := func() []WorldHandle { return nil }
	engine := NewEngine(1000, logging.NopPublisher{}, nil, handles)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	engine.Run(ctx)

	require.Equal(t, 0, calls)
	require.Greater(t, engine.CurrentTick(), uint64(0))
}
