package app

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"

	"dropzone/internal/config"
	"dropzone/internal/entities"
	"dropzone/internal/lobby"
	"dropzone/internal/loot"
	"dropzone/internal/session"
	"dropzone/internal/telemetry"
	"dropzone/internal/tick"
	"dropzone/internal/transport"
	"dropzone/internal/wire"
	"dropzone/internal/world"
	"dropzone/logging"
	logginglobby "dropzone/logging/lobby"
	loggingsinks "dropzone/logging/sinks"
)

// Config bundles the dependencies a caller supplies to Run, mirroring the
// teacher's thin Config-struct-plus-Logger entry point.
type Config struct {
	Logger *log.Logger
}

// App owns every long-lived piece of server state: the UDP socket, the
// session/lobby managers, the active match instances, and the tick engine
// driving them.
type App struct {
	cfg    config.Config
	logger *log.Logger
	router *logging.Router
	pub    logging.Publisher

	sessions  *session.Manager
	lobbies   *lobby.Manager
	counters  *telemetry.Counters
	lootTable loot.Tables

	server *transport.Server
	engine *tick.Engine

	mu          sync.Mutex
	worlds      map[string]*worldRuntime
	playerWorld map[string]string
	pending     map[string]*entities.Player // connected, not yet placed in a world
	rngSeed     int64
}

// Run constructs the server from its default configuration and blocks until
// ctx is cancelled or a fatal transport error occurs.
func Run(ctx context.Context, appCfg Config) error {
	logger := appCfg.Logger
	if logger == nil {
		logger = log.New(os.Stderr, "", log.LstdFlags)
	}

	cfg := config.DefaultConfig()
	config.ApplyEnvOverrides(&cfg)

	zapLogger, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("app: construct zap logger: %w", err)
	}
	defer zapLogger.Sync()

	logConfig := logging.DefaultConfig()
	sinks := map[string]logging.Sink{
		"console": loggingsinks.NewConsoleSink(os.Stdout, logConfig.Console),
	}
	router, err := logging.NewRouter(logConfig, logging.SystemClock{}, zapLogger.Sugar(), sinks)
	if err != nil {
		return fmt.Errorf("app: construct logging router: %w", err)
	}
	defer func() {
		if cerr := router.Close(ctx); cerr != nil {
			logger.Printf("failed to close logging router: %v", cerr)
		}
	}()

	tables := loot.DefaultTables()
	if cfg.LootTablePath != "" {
		loaded, err := loot.Load(cfg.LootTablePath)
		if err != nil {
			logger.Printf("failed to load loot table %q, falling back to defaults: %v", cfg.LootTablePath, err)
		} else {
			tables = loaded
		}
	}

	a := &App{
		cfg:         cfg,
		logger:      logger,
		router:      router,
		pub:         router,
		sessions:    session.NewManager(cfg.SessionTTL),
		lobbies:     lobby.NewManager(cfg.Lobby, cfg.Balance.MaxTeamSize),
		counters:    &telemetry.Counters{},
		lootTable:   tables,
		worlds:      make(map[string]*worldRuntime),
		playerWorld: make(map[string]string),
		pending:     make(map[string]*entities.Player),
		rngSeed:     time.Now().UnixNano(),
	}

	server, err := transport.Listen(transport.Config{
		Port:                 cfg.Networking.UDPPort,
		MaxPacketSize:        cfg.Networking.MaxPacketSize,
		CompressionThreshold: cfg.Networking.CompressionThreshold,
		ClientTimeout:        time.Duration(cfg.Networking.ClientTimeoutSeconds) * time.Second,
		ReliableRetries:      cfg.Networking.ReliableMessageRetries,
		PlayerUpdateRate:     cfg.Networking.PlayerUpdateRate,
	}, router, a.handleEnvelope)
	if err != nil {
		return fmt.Errorf("app: start transport: %w", err)
	}
	a.server = server
	defer server.Close()

	a.engine = tick.NewEngine(cfg.TickRate, router, a, a.worldHandles)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		a.engine.Run(runCtx)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		a.runMaintenance(runCtx)
	}()

	logger.Printf("server listening on udp :%d", cfg.Networking.UDPPort)
	err = server.Run(runCtx)
	cancel()
	wg.Wait()
	server.DrainPending()
	return err
}

// worldHandles implements the tick engine's per-tick world enumeration.
func (a *App) worldHandles() []tick.WorldHandle {
	a.mu.Lock()
	defer a.mu.Unlock()
	handles := make([]tick.WorldHandle, 0, len(a.worlds))
	for id, wr := range a.worlds {
		wr := wr
		handles = append(handles, tick.WorldHandle{
			ID:       id,
			World:    wr.world,
			Commands: wr.drainCommands,
		})
	}
	return handles
}

// runMaintenance drives the periodic housekeeping the simulation loop
// doesn't itself do: lobby promotion, session/endpoint sweeps, and reliable
// message retries.
func (a *App) runMaintenance(ctx context.Context) {
	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			a.promoteReadyLobbies(now)
			a.server.RetryPending(ctx)
			a.sweepTimeouts(now)
			a.sweepSessions(now)
			a.sweepEmptyWorlds()
			for _, removed := range a.lobbies.Cleanup(now) {
				a.logger.Printf("lobby %s removed after sitting idle", removed)
			}
			a.counters.SetActiveWorlds(a.activeWorldCount())
			a.counters.SetActivePlayers(len(a.playerWorld))
		}
	}
}

// sweepEmptyWorlds retires any world every one of whose players has
// disconnected, so a finished or abandoned match doesn't keep ticking
// forever.
func (a *App) sweepEmptyWorlds() {
	a.mu.Lock()
	empty := make([]string, 0)
	for id, wr := range a.worlds {
		if len(wr.world.ConnectedPlayerIDs()) == 0 {
			empty = append(empty, id)
		}
	}
	for _, id := range empty {
		delete(a.worlds, id)
	}
	a.mu.Unlock()
}

func (a *App) activeWorldCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.worlds)
}

// promoteReadyLobbies hands any lobby that has met a start condition off to
// a freshly constructed world.
func (a *App) promoteReadyLobbies(now time.Time) {
	for _, l := range a.lobbies.Lobbies() {
		reason, ready := l.ReadyToStart(a.cfg.Lobby, now)
		if !ready {
			continue
		}

		playerIDs := l.PlayerIDs()

		logginglobby.ReadyToStart(context.Background(), a.pub, 0, logginglobby.ReadyToStartPayload{
			LobbyID:      l.ID,
			Reason:       string(reason),
			TotalPlayers: len(playerIDs),
		})

		if a.startWorld(playerIDs) {
			l.MarkStarted()
		} else {
			l.MarkError()
		}
		a.lobbies.Remove(l.ID)
	}
}

// startWorld hands a lobby's roster off to a freshly constructed world,
// reporting false if every one of its players had already disconnected
// (the pending entry removed on disconnect) by the time the lobby was
// promoted.
func (a *App) startWorld(playerIDs []string) bool {
	a.mu.Lock()
	players := make([]*entities.Player, 0, len(playerIDs))
	for _, id := range playerIDs {
		if p, ok := a.pending[id]; ok {
			players = append(players, p)
			delete(a.pending, id)
		}
	}
	a.rngSeed++
	seed := a.rngSeed
	a.mu.Unlock()

	if len(players) == 0 {
		return false
	}

	worldID := newWorldID(seed)
	w := world.NewWorld(worldID, a.cfg, players, a.lootTable, seed)

	a.mu.Lock()
	a.worlds[worldID] = newWorldRuntime(w, playerIDs)
	for _, id := range playerIDs {
		a.playerWorld[id] = worldID
	}
	a.mu.Unlock()

	a.counters.IncMatchesStarted()

	for _, player := range players {
		addr, ok := a.server.Registry().AddrFor(player.ID)
		if !ok {
			continue
		}
		a.server.SendTo(player.ID, addr, wire.MessageGameStarted, wire.GameStartedPayload{
			WorldID:       worldID,
			SpawnPosition: player.Position,
		})
	}
	return true
}

func newWorldID(seed int64) string {
	return fmt.Sprintf("world-%d", seed)
}

func (a *App) sweepTimeouts(now time.Time) {
	for _, playerID := range a.server.SweepTimeouts() {
		a.disconnectPlayer(playerID, "timeout", now)
	}
}

func (a *App) sweepSessions(now time.Time) {
	for _, playerID := range a.sessions.Sweep(now) {
		a.logger.Printf("session for player %s expired", playerID)
	}
}

// disconnectPlayer removes a player from its active world (if any),
// preserves its state for the reconnection window, and frees its transport
// binding.
func (a *App) disconnectPlayer(playerID, reason string, now time.Time) {
	a.mu.Lock()
	worldID, inWorld := a.playerWorld[playerID]
	var wr *worldRuntime
	if inWorld {
		wr = a.worlds[worldID]
		delete(a.playerWorld, playerID)
	}
	delete(a.pending, playerID)
	a.mu.Unlock()

	a.server.Registry().Remove(playerID)

	if wr == nil {
		return
	}
	player, ok := wr.world.PlayerSnapshotFor(playerID)
	if !ok {
		return
	}
	wr.world.RemovePlayer(playerID)
	a.sessions.Disconnect(playerID, worldID, player.RoomID, player, now)
}
