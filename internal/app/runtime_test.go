package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"dropzone/internal/config"
	"dropzone/internal/entities"
	"dropzone/internal/movement"
	"dropzone/internal/world"
)

func newTestRuntime(t *testing.T) *worldRuntime {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.WorldGen.WorldSizeX = 1
	cfg.WorldGen.WorldSizeY = 1
	cfg.WorldGen.MobsPerRoom = 0
	cfg.WorldGen.InitialLootCount = 0
	player := entities.NewPlayer("p1", "p1", entities.ClassScout, entities.Vector2{})
	w := world.NewWorld("world-1", cfg, []*entities.Player{player}, nil, 1)
	return newWorldRuntime(w, []string{"p1"})
}

func TestQueueMoveOverwritesPendingCommand(t *testing.T) {
	wr := newTestRuntime(t)

	wr.queueMove("p1", movement.Input{Move: entities.Vector2{X: 1}, Speed: 5})
	wr.queueMove("p1", movement.Input{Move: entities.Vector2{X: -1}, Speed: 5})

	commands := wr.drainCommands()
	require.Len(t, commands, 1)
	require.NotNil(t, commands[0].Move)
	require.Equal(t, -1.0, commands[0].Move.Move.X)
}

func TestQueuedMoveAndAttackMergeIntoOneCommand(t *testing.T) {
	wr := newTestRuntime(t)

	wr.queueMove("p1", movement.Input{Move: entities.Vector2{X: 1}, Speed: 5})
	wr.queueAttack("p1", 1.5)

	commands := wr.drainCommands()
	require.Len(t, commands, 1)
	require.NotNil(t, commands[0].Move)
	require.NotNil(t, commands[0].Attack)
	require.Equal(t, 1.5, commands[0].Attack.AttackerAim)

	// A second drain with nothing queued returns no commands.
	require.Empty(t, wr.drainCommands())
}

func TestBufferForCreatesAndReusesBuffer(t *testing.T) {
	wr := newTestRuntime(t)

	buf := wr.bufferFor("p1")
	require.NotNil(t, buf)

	ready := buf.Push(1, "payload-1", time.Now())
	require.Len(t, ready, 1)

	again := wr.bufferFor("p1")
	require.Same(t, buf, again)

	seq, ok := wr.lastProcessed("p1")
	require.True(t, ok)
	require.Equal(t, uint32(1), seq)
}

func TestQueueItemUseAndExtraction(t *testing.T) {
	wr := newTestRuntime(t)

	wr.queueItemUse("p1", world.ItemUseRequest{ItemID: "potion-1", ItemType: "heal_potion"})
	wr.queueExtraction("p1", world.ExtractionCommand{Action: world.ExtractionActionBegin, ExtractionID: "ext-1"})

	commands := wr.drainCommands()
	require.Len(t, commands, 1)
	require.Equal(t, "potion-1", commands[0].UseItem.ItemID)
	require.Equal(t, world.ExtractionActionBegin, commands[0].Extraction.Action)
}
