package world

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"dropzone/internal/combat"
	"dropzone/internal/config"
	"dropzone/internal/entities"
	"dropzone/internal/loot"
	"dropzone/internal/movement"
	"dropzone/logging"
)

func testConfig() config.Config {
	cfg := config.DefaultConfig()
	cfg.WorldGen.WorldSizeX = 2
	cfg.WorldGen.WorldSizeY = 2
	cfg.WorldGen.MobsPerRoom = 1
	cfg.WorldGen.InitialLootCount = 2
	return cfg
}

func newTestPlayer(id string, class entities.Class) *entities.Player {
	player := entities.NewPlayer(id, id, class, entities.Vector2{})
	player.TeamID = "team-" + id
	return player
}

func TestNewWorldPlacesPlayersInFirstRoomWithMobsAndLoot(t *testing.T) {
	cfg := testConfig()
	players := []*entities.Player{newTestPlayer("p1", entities.ClassScout)}
	w := NewWorld("world-1", cfg, players, nil, 1)

	require.Equal(t, 4, len(w.Rooms))
	require.Equal(t, 4, len(w.Mobs)) // MobsPerRoom=1 across 4 rooms
	require.NotEmpty(t, w.Players["p1"].RoomID)
	require.Equal(t, w.roomsByID[w.Players["p1"].RoomID], w.Rooms[entities.RoomCoord{X: 0, Y: 0}])
}

func TestStepAppliesMovementWithinBounds(t *testing.T) {
	cfg := testConfig()
	players := []*entities.Player{newTestPlayer("p1", entities.ClassScout)}
	w := NewWorld("world-1", cfg, players, nil, 1)
	start := w.Players["p1"].Position

	commands := []Command{{
		PlayerID: "p1",
		Move:     &movement.Input{Move: entities.Vector2{X: 1, Y: 0}, Speed: 5, SprintMul: 1},
	}}

	result := w.Step(context.Background(), logging.NopPublisher{}, 1, time.Now(), 1.0/60, commands)
	require.Empty(t, result.DeadPlayers)
	require.NotEqual(t, start, w.Players["p1"].Position)
}

func TestStepResolvesMeleeDamageBetweenOpposingTeams(t *testing.T) {
	cfg := testConfig()
	attacker := newTestPlayer("attacker", entities.ClassTank)
	victim := newTestPlayer("victim", entities.ClassScout)
	w := NewWorld("world-1", cfg, []*entities.Player{attacker, victim}, nil, 1)

	victim.Position = attacker.Position
	victim.TeamID = "other-team"
	startHealth := victim.Health

	commands := []Command{{
		PlayerID: "attacker",
		Attack: &combat.AttackRequest{
			AttackerAim: 0,
		},
	}}

	w.Step(context.Background(), logging.NopPublisher{}, 1, time.Now(), 1.0/60, commands)
	require.Less(t, w.Players["victim"].Health, startHealth)
}

func TestStepProcessesLootGrabWithinRange(t *testing.T) {
	cfg := testConfig()
	player := newTestPlayer("p1", entities.ClassScout)
	w := NewWorld("world-1", cfg, []*entities.Player{player}, nil, 1)

	now := time.Now()
	item := w.LootStore.Add(lootRolledStub(), player.Position, player.RoomID, now)

	commands := []Command{{PlayerID: "p1", LootGrab: item.ID}}
	w.Step(context.Background(), logging.NopPublisher{}, 1, now, 1.0/60, commands)

	require.Len(t, w.Players["p1"].Inventory, 1)
	_, stillThere := w.LootStore.Lookup(item.ID)
	require.False(t, stillThere)
}

func TestStepCompletesRoomWhenAllMobsDeadAndPlayerPresent(t *testing.T) {
	cfg := testConfig()
	cfg.WorldGen.MobsPerRoom = 1
	player := newTestPlayer("p1", entities.ClassScout)
	w := NewWorld("world-1", cfg, []*entities.Player{player}, nil, 1)

	for _, mob := range w.Mobs {
		if mob.RoomID == player.RoomID {
			mob.Alive = false
			mob.Health = 0
		}
	}

	result := w.Step(context.Background(), logging.NopPublisher{}, 1, time.Now(), 1.0/60, nil)
	require.Contains(t, result.CompletedRooms, player.RoomID)
}

func TestStepCompletesExtractionAfterRequiredTicks(t *testing.T) {
	cfg := testConfig()
	cfg.Balance.ExtractionTimeSeconds = 0
	player := newTestPlayer("p1", entities.ClassScout)
	w := NewWorld("world-1", cfg, []*entities.Player{player}, nil, 1)

	var pointID string
	for id, point := range w.ExtractionPoints {
		if point.RoomID == player.RoomID {
			pointID = id
			break
		}
	}
	require.NotEmpty(t, pointID)

	commands := []Command{{PlayerID: "p1", Extraction: &ExtractionCommand{Action: ExtractionActionBegin, ExtractionID: pointID}}}
	result := w.Step(context.Background(), logging.NopPublisher{}, 100, time.Now(), 1.0/60, commands)
	require.Contains(t, result.CompletedExtractions, "p1")
}

func lootRolledStub() loot.Rolled {
	return loot.Rolled{ItemName: "test-item", ItemType: "misc", Rarity: 1, Quantity: 1}
}
