package world

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"dropzone/internal/ai"
	"dropzone/internal/combat"
	"dropzone/internal/config"
	"dropzone/internal/entities"
	"dropzone/internal/loot"
	"dropzone/internal/movement"
	"dropzone/internal/projectile"
	"dropzone/internal/spatial"
	"dropzone/logging"
	combatlog "dropzone/logging/combat"
	logmovement "dropzone/logging/movement"
	lognetwork "dropzone/logging/network"
	"dropzone/stats"
)

// ProjectileSpawnRequest is one tick's ability-fired skillshot.
type ProjectileSpawnRequest struct {
	OwnerID         string
	Preset          string
	Direction       entities.Vector2
	ClientTimestamp time.Time
}

// ExtractionCommand is one tick's extraction start/cancel intent.
type ExtractionCommand struct {
	Action       string
	ExtractionID string
}

// ItemUseRequest is one tick's consumable-item use intent.
type ItemUseRequest struct {
	ItemID   string
	ItemType string
}

// Command bundles one player's resolved intents for a single tick. The
// tick engine is responsible for routing decoded messages into this shape;
// World only knows how to apply it.
type Command struct {
	PlayerID   string
	Move       *movement.Input
	Attack     *combat.AttackRequest
	Spawn      *ProjectileSpawnRequest
	Ability    *AbilityRequest
	LootGrab   string
	Extraction *ExtractionCommand
	UseItem    *ItemUseRequest
}

// StepResult reports what happened during one tick, for the caller to
// translate into a WorldUpdate snapshot and session bookkeeping.
type StepResult struct {
	DeadPlayers          []string
	CompletedExtractions []string
	CompletedRooms       []string
}

// World owns every entity and subsystem for one active match instance.
// mu guards every field below it against the two goroutines that touch a
// running world: the tick engine's Step call, and the transport handler's
// rare out-of-band mutations (a reconnecting player rejoining, an item
// consumed outside the command queue).
type World struct {
	ID string

	mu sync.Mutex

	Rooms            map[entities.RoomCoord]*entities.Room
	roomsByID        map[string]*entities.Room
	ExtractionPoints map[string]entities.ExtractionPoint

	Players     map[string]*entities.Player
	Mobs        map[string]*entities.Mob
	Projectiles map[string]*entities.Projectile

	LootStore  *loot.Store
	lootTables loot.Tables

	extraction  *ExtractionTracker
	histories   map[string]*projectile.History
	blackboards map[string]*ai.Blackboard
	antiCheats  map[string]*movement.AntiCheat

	grid   *spatial.Grid
	bounds movement.Bounds

	balance config.Balance
	lootCfg config.Loot
	genCfg  config.WorldGen
	aiCfg   ai.Config

	tickRate                  int
	playerAttackCooldownTicks uint64

	rng *rand.Rand

	nextProjectileID uint64
	ticksSinceLoot   uint64
	completed        bool
}

// NewWorld generates the room grid, seeds mobs and initial loot, and places
// players into the first room. tables may be nil, in which case
// loot.DefaultTables() is used.
func NewWorld(id string, cfg config.Config, players []*entities.Player, tables loot.Tables, seed int64) *World {
	if tables == nil {
		tables = loot.DefaultTables()
	}
	rooms := GenerateRooms(cfg.WorldGen)
	points := GenerateExtractionPoints(cfg.WorldGen, rooms, cfg.Balance.ExtractionTimeSeconds)

	roomsByID := make(map[string]*entities.Room, len(rooms))
	for _, room := range rooms {
		roomsByID[room.ID] = room
	}
	pointsByID := make(map[string]entities.ExtractionPoint, len(points))
	for _, point := range points {
		pointsByID[point.ID] = point
	}

	worldBounds := movement.Bounds{
		MinX: 0, MinY: 0,
		MaxX: float64(cfg.WorldGen.WorldSizeX) * cfg.WorldGen.RoomSpacing,
		MaxY: float64(cfg.WorldGen.WorldSizeY) * cfg.WorldGen.RoomSpacing,
	}

	w := &World{
		ID:               id,
		Rooms:            rooms,
		roomsByID:        roomsByID,
		ExtractionPoints: pointsByID,
		Players:          make(map[string]*entities.Player, len(players)),
		Mobs:             make(map[string]*entities.Mob),
		Projectiles:      make(map[string]*entities.Projectile),
		LootStore:        loot.NewStore(),
		lootTables:       tables,
		extraction:       NewExtractionTracker(),
		histories:        make(map[string]*projectile.History),
		blackboards:      make(map[string]*ai.Blackboard),
		antiCheats:       make(map[string]*movement.AntiCheat),
		grid:             spatial.New(10),
		bounds:           worldBounds,
		balance:                   cfg.Balance,
		lootCfg:                   cfg.Loot,
		genCfg:                    cfg.WorldGen,
		tickRate:                  cfg.TickRate,
		playerAttackCooldownTicks: uint64(cfg.Balance.AttackCooldownMs) * uint64(cfg.TickRate) / 1000,
		aiCfg: ai.Config{
			DetectionRange:   15,
			AttackRange:      cfg.Balance.MeleeRange,
			AttackCooldown:   uint64(cfg.Balance.AttackCooldownMs) * uint64(cfg.TickRate) / 1000,
			FleeThreshold:    0.2,
			EnrageThreshold:  0.1,
			PatrolRadius:     cfg.WorldGen.RoomSizeX / 2,
			PatrolArriveDist: 1.0,
			PatrolInterval:   uint64(cfg.TickRate) * 3,
		},
		rng: rand.New(rand.NewSource(seed)),
	}

	startRoom := rooms[entities.RoomCoord{X: 0, Y: 0}]
	for _, player := range players {
		player.RoomID = startRoom.ID
		player.Position = entities.Vector2{
			X: startRoom.Position.X + startRoom.Size.X/2,
			Y: startRoom.Position.Y + startRoom.Size.Y/2,
		}
		w.Players[player.ID] = player
		w.histories[player.ID] = projectile.NewHistory()
		w.antiCheats[player.ID] = movement.NewAntiCheat(
			cfg.Balance.AntiCheatWindowSize,
			cfg.Balance.SuspicionTolerance,
			cfg.Balance.RejectTolerance,
			cfg.Balance.SuspicionDecayStreak,
		)
	}

	w.spawnMobs()
	w.spawnInitialLoot()

	return w
}

func (w *World) spawnMobs() {
	mobID := 0
	for _, room := range w.Rooms {
		for i := 0; i < w.genCfg.MobsPerRoom; i++ {
			mobID++
			spawn := entities.Vector2{
				X: room.Position.X + w.rng.Float64()*room.Size.X,
				Y: room.Position.Y + w.rng.Float64()*room.Size.Y,
			}
			mobType := entities.MobTypeGrunt
			if w.rng.Float64() < 0.2 {
				mobType = entities.MobTypeRanged
			}
			mob := entities.NewMob(fmt.Sprintf("mob-%d", mobID), mobType, room.ID, spawn)
			mob.Position = spawn
			mob.State = entities.AIStateIdle
			w.Mobs[mob.ID] = mob
			w.blackboards[mob.ID] = &ai.Blackboard{PatrolOrigin: spawn, PatrolTarget: spawn}
		}
	}
}

func (w *World) spawnInitialLoot() {
	table := w.lootTables["common"]
	roomList := make([]*entities.Room, 0, len(w.Rooms))
	for _, room := range w.Rooms {
		roomList = append(roomList, room)
	}
	if len(roomList) == 0 {
		return
	}
	now := time.Now()
	for i := 0; i < w.genCfg.InitialLootCount; i++ {
		room := roomList[w.rng.Intn(len(roomList))]
		for _, rolled := range loot.Roll(table, w.rng, 0) {
			pos := entities.Vector2{
				X: room.Position.X + w.rng.Float64()*room.Size.X,
				Y: room.Position.Y + w.rng.Float64()*room.Size.Y,
			}
			w.LootStore.Add(rolled, pos, room.ID, now)
		}
	}
}

// Step advances the world by one tick, running every subsystem in the
// fixed order: movement, melee, abilities, projectiles, combat status
// ticks, loot, AI,
// room/extraction progression.
func (w *World) Step(ctx context.Context, pub logging.Publisher, tick uint64, now time.Time, dt float64, commands []Command) StepResult {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.rebuildGrid()
	w.applyMovement(ctx, pub, tick, now, dt, commands)
	w.applyMelee(ctx, pub, tick, commands)
	w.applyAbilities(ctx, pub, tick, commands)
	w.spawnProjectiles(now, commands)
	deadFromProjectiles := w.stepProjectiles(ctx, pub, tick, now, dt)
	deadFromStatus := w.advanceStatusEffects(ctx, pub, tick)
	w.applyLootGrabs(ctx, pub, tick, commands)
	w.applyItemUse(commands)
	w.runLootTimers(ctx, pub, tick, now, dt)
	w.runAI(ctx, pub, tick)
	completedRooms := w.checkRoomCompletion(ctx, pub, tick, now)
	completedExtractions := w.advanceExtractions(ctx, pub, tick, commands)

	dead := append(deadFromProjectiles, deadFromStatus...)
	return StepResult{
		DeadPlayers:          dead,
		CompletedExtractions: completedExtractions,
		CompletedRooms:       completedRooms,
	}
}

func (w *World) rebuildGrid() {
	entries := make([]spatial.Entry, 0, len(w.Players)+len(w.Mobs))
	for _, player := range w.Players {
		if !player.Alive {
			continue
		}
		entries = append(entries, spatial.Entry{ID: player.ID, Position: player.Position, Radius: w.balance.PlayerCollisionRadius})
	}
	for _, mob := range w.Mobs {
		if !mob.Alive {
			continue
		}
		entries = append(entries, spatial.Entry{ID: mob.ID, Position: mob.Position, Radius: w.balance.MobCollisionRadius})
	}
	w.grid.Build(entries)
}

func (w *World) applyMovement(ctx context.Context, pub logging.Publisher, tick uint64, now time.Time, dt float64, commands []Command) {
	for _, player := range w.Players {
		if tick >= player.CastEndsAt {
			player.IsCasting = false
		}
	}

	for _, cmd := range commands {
		if cmd.Move == nil {
			continue
		}
		player, ok := w.Players[cmd.PlayerID]
		if !ok || !player.Alive {
			continue
		}
		if player.IsCasting {
			lognetwork.RateLimitExceeded(ctx, pub, tick, logging.EntityRef{Kind: "player", ID: player.ID}, lognetwork.RejectPayload{Reason: "casting"})
			continue
		}
		w.histories[player.ID].Record(player.Position, now)

		position, velocity, manaSpent, rejection := movement.Advance(player, *cmd.Move, dt, w.bounds, w.grid, w.balance.PlayerCollisionRadius, w.balance.MaxInputMagnitude)
		if rejection == movement.RejectionRejected {
			lognetwork.RateLimitExceeded(ctx, pub, tick, logging.EntityRef{Kind: "player", ID: player.ID}, lognetwork.RejectPayload{Reason: "movement_rejected"})
			continue
		}

		if ac, ok := w.antiCheats[player.ID]; ok {
			verdict := ac.Evaluate(position, now, cmd.Move.Speed*cmd.Move.SprintMul)
			if verdict.Reject {
				continue
			}
		}

		player.Position = position
		player.Velocity = velocity
		player.Mana -= manaSpent
		if player.Mana < 0 {
			player.Mana = 0
		}
		player.IsSprinting = cmd.Move.Sprinting
	}

	w.updateRoomOccupancy(ctx, pub, tick)
}

// roomAt returns the room whose bounds contain pos, if any.
func (w *World) roomAt(pos entities.Vector2) (*entities.Room, bool) {
	for _, room := range w.Rooms {
		if room.Contains(pos) {
			return room, true
		}
	}
	return nil, false
}

// updateRoomOccupancy recomputes every living player's RoomID from its
// current position, emits a RoomChanged event on transition, and emits a
// PvPEncounter event the first tick a room is found to hold more than one
// team. It runs once per tick, after every player's position for the tick
// is final, so melee targeting, room completion, extraction cancellation,
// and AI target filtering all see a current room for every player.
func (w *World) updateRoomOccupancy(ctx context.Context, pub logging.Publisher, tick uint64) {
	occupancy := make(map[string]map[string]bool, len(w.Rooms))
	for _, player := range w.Players {
		if !player.Alive {
			continue
		}
		if room, ok := w.roomAt(player.Position); ok && room.ID != player.RoomID {
			from := player.RoomID
			player.LastRoomID = from
			player.RoomID = room.ID
			logmovement.RoomChanged(ctx, pub, tick, logging.EntityRef{Kind: "player", ID: player.ID}, logmovement.RoomChangedPayload{
				FromRoomID: from,
				ToRoomID:   room.ID,
			})
		}
		teams := occupancy[player.RoomID]
		if teams == nil {
			teams = make(map[string]bool)
			occupancy[player.RoomID] = teams
		}
		teams[player.TeamID] = true
	}

	for _, room := range w.Rooms {
		contested := len(occupancy[room.ID]) >= 2
		if contested && !room.PvPActive {
			teamIDs := make([]string, 0, len(occupancy[room.ID]))
			for teamID := range occupancy[room.ID] {
				teamIDs = append(teamIDs, teamID)
			}
			logmovement.PvPEncounter(ctx, pub, tick, logmovement.PvPEncounterPayload{RoomID: room.ID, TeamIDs: teamIDs})
		}
		room.PvPActive = contested
	}
}

func (w *World) applyMelee(ctx context.Context, pub logging.Publisher, tick uint64, commands []Command) {
	candidates := make(map[string]combat.Candidate, len(w.Players)+len(w.Mobs))
	for _, player := range w.Players {
		if player.Alive {
			candidates[player.ID] = combat.Candidate{ID: player.ID, Position: player.Position, RoomID: player.RoomID, IsStealthed: player.IsStealthed}
		}
	}
	for _, mob := range w.Mobs {
		if mob.Alive {
			candidates[mob.ID] = combat.Candidate{ID: mob.ID, Position: mob.Position, RoomID: mob.RoomID}
		}
	}

	for _, cmd := range commands {
		if cmd.Attack == nil {
			continue
		}
		attacker, ok := w.Players[cmd.PlayerID]
		if !ok || !attacker.Alive {
			continue
		}
		if attacker.IsCasting || tick < attacker.NextMeleeAt {
			combatlog.AttackOverlap(ctx, pub, tick, logging.EntityRef{Kind: "player", ID: attacker.ID}, nil, nil, combatlog.AttackOverlapPayload{Ability: string(combat.AttackCannotAttack)})
			continue
		}
		attacker.NextMeleeAt = tick + w.playerAttackCooldownTicks

		req := *cmd.Attack
		req.AttackerID = attacker.ID
		req.AttackerPosition = attacker.Position
		req.AttackerClass = attacker.Class
		req.AttackerRoomID = attacker.RoomID
		req.MeleeRange = w.balance.MeleeRange
		req.MeleeConeCos = w.balance.MeleeConeCos
		req.StealthDetection = w.balance.StealthDetectionRange

		targets := combat.AcquireTargets(req, w.grid, candidates)
		if len(targets) == 0 {
			continue
		}

		var playerTargets, mobTargets []logging.EntityRef
		for _, targetID := range targets {
			w.resolveMeleeHit(ctx, pub, tick, attacker, targetID)
			if _, ok := w.Players[targetID]; ok {
				playerTargets = append(playerTargets, logging.EntityRef{Kind: "player", ID: targetID})
			} else {
				mobTargets = append(mobTargets, logging.EntityRef{Kind: "mob", ID: targetID})
			}
		}
		combatlog.AttackOverlap(ctx, pub, tick, logging.EntityRef{Kind: "player", ID: attacker.ID}, playerTargets, mobTargets, combatlog.AttackOverlapPayload{})
	}
}

func (w *World) resolveMeleeHit(ctx context.Context, pub logging.Publisher, tick uint64, attacker *entities.Player, targetID string) {
	var target *entities.Combatant
	if targetPlayer, ok := w.Players[targetID]; ok {
		target = &targetPlayer.Combatant
	} else if targetMob, ok := w.Mobs[targetID]; ok {
		target = &targetMob.Combatant
	} else {
		return
	}

	rolled := combat.RollMelee(attacker.Class, 0, attacker.Stats.GetTotal(stats.StatStrength), attacker.Stats, target.Stats, combat.Rng)
	shieldAbsorbed, healthDamage := combat.ApplyDamage(target, rolled.Amount)

	if effect, ok := combat.ClassAttackEffect[attacker.Class]; ok {
		combat.Apply(target, effect.Type, effect.Magnitude, attacker.ID, tick, combat.NewEffectDuration(3*60, 60))
	}

	combatlog.Damage(ctx, pub, tick, logging.EntityRef{Kind: "player", ID: attacker.ID}, logging.EntityRef{Kind: "entity", ID: targetID}, combatlog.DamagePayload{
		DamageType:   string(entities.DamageTypePhysical),
		Amount:       healthDamage,
		Critical:     rolled.Critical,
		ShieldAbsorb: shieldAbsorbed,
		TargetHealth: target.Health,
	})

	w.checkDeath(ctx, pub, tick, target, targetID, attacker.ID)
}

func (w *World) checkDeath(ctx context.Context, pub logging.Publisher, tick uint64, target *entities.Combatant, targetID, killerID string) {
	event, died := combat.CheckDeath(target, killerID, tick)
	if !died {
		return
	}
	combatlog.Defeat(ctx, pub, tick, logging.EntityRef{Kind: "entity", ID: targetID}, logging.EntityRef{Kind: "entity", ID: event.KillerID}, combatlog.DefeatPayload{})

	if player, ok := w.Players[targetID]; ok {
		player.DiedAt = tick
		player.ForceNextSnapshot = true
		loot.SpawnFromPlayerDeath(ctx, pub, tick, w.LootStore, w.rng, player, w.lootCfg.PlayerDeathMaxDrops, time.Now())
		return
	}

	if mob, ok := w.Mobs[targetID]; ok {
		mob.State = entities.AIStateDead
		mob.ForceNextSnapshot = true
		luck := 0.0
		if killer, ok := w.Players[killerID]; ok && killer.Class == entities.ClassScout {
			luck = w.lootCfg.ScoutLuckBonus
		}
		table := w.lootTables[string(mob.Type)]
		if mob.Type == entities.MobTypeBoss {
			loot.SpawnFromBossDeath(ctx, pub, tick, w.LootStore, table, w.lootCfg.BossGuaranteedRarity, mob, time.Now())
		}
		loot.SpawnFromMobDeath(ctx, pub, tick, w.LootStore, table, w.rng, mob, w.lootCfg.MaxDropsPerMob, luck, time.Now())
	}
}

func (w *World) spawnProjectiles(now time.Time, commands []Command) {
	for _, cmd := range commands {
		if cmd.Spawn == nil {
			continue
		}
		attacker, ok := w.Players[cmd.PlayerID]
		if !ok || !attacker.Alive {
			continue
		}
		w.nextProjectileID++
		id := fmt.Sprintf("proj-%d", w.nextProjectileID)
		proj, ok := projectile.Spawn(id, attacker.ID, attacker.TeamID, attacker.Position, cmd.Spawn.Direction, cmd.Spawn.Preset, cmd.Spawn.ClientTimestamp, now)
		if ok {
			w.Projectiles[proj.ID] = proj
		}
	}
}

func (w *World) stepProjectiles(ctx context.Context, pub logging.Publisher, tick uint64, now time.Time, dt float64) []string {
	var dead []string
	lagMax := time.Duration(w.balance.LagCompensationMaxMs) * time.Millisecond

	for id, proj := range w.Projectiles {
		targets := make([]projectile.Target, 0, len(w.Players))
		for _, player := range w.Players {
			if !player.Alive {
				continue
			}
			targets = append(targets, projectile.Target{
				ID: player.ID, TeamID: player.TeamID, Combat: &player.Combatant,
				Current: player.Position, History: w.histories[player.ID],
			})
		}

		hits, destroy := projectile.Advance(proj, dt, now, lagMax, w.balance.PlayerHitboxRadius, 1.0, targets)
		for _, hit := range hits {
			combatlog.Damage(ctx, pub, tick, logging.EntityRef{Kind: "player", ID: proj.OwnerID}, logging.EntityRef{Kind: "player", ID: hit.TargetID}, combatlog.DamagePayload{
				DamageType:   string(proj.DamageType),
				Amount:       hit.HealthDamage,
				ShieldAbsorb: hit.ShieldAbsorbed,
			})
			if target, ok := w.Players[hit.TargetID]; ok {
				w.checkDeath(ctx, pub, tick, &target.Combatant, hit.TargetID, proj.OwnerID)
				if !target.Alive {
					dead = append(dead, hit.TargetID)
				}
			}
		}
		if destroy {
			delete(w.Projectiles, id)
		}
	}
	return dead
}

func (w *World) advanceStatusEffects(ctx context.Context, pub logging.Publisher, tick uint64) []string {
	var dead []string
	for id, player := range w.Players {
		if !player.Alive {
			continue
		}
		results := combat.Advance(&player.Combatant, tick, player.MaxShield)
		for _, result := range results {
			player.Health += result.HealthDelta
			if player.Health > player.MaxHealth {
				player.Health = player.MaxHealth
			}
			if player.Health < 0 {
				player.Health = 0
			}
		}
		if len(results) > 0 {
			w.checkDeath(ctx, pub, tick, &player.Combatant, id, "")
			if !player.Alive {
				dead = append(dead, id)
			}
		}
		clearExpiredStealth(player)
	}
	for id, mob := range w.Mobs {
		if !mob.Alive {
			continue
		}
		results := combat.Advance(&mob.Combatant, tick, mob.MaxShield)
		for _, result := range results {
			mob.Health += result.HealthDelta
			if mob.Health > mob.MaxHealth {
				mob.Health = mob.MaxHealth
			}
			if mob.Health < 0 {
				mob.Health = 0
			}
		}
		if len(results) > 0 {
			w.checkDeath(ctx, pub, tick, &mob.Combatant, id, "")
		}
	}
	return dead
}

func (w *World) applyLootGrabs(ctx context.Context, pub logging.Publisher, tick uint64, commands []Command) {
	for _, cmd := range commands {
		if cmd.LootGrab == "" {
			continue
		}
		player, ok := w.Players[cmd.PlayerID]
		if !ok {
			continue
		}
		loot.ProcessLootGrab(ctx, pub, tick, w.LootStore, player, w.lootCfg.LootGrabRange, w.balance.MaxInventorySize, cmd.LootGrab)
	}
}

// applyItemUse consumes one inventory stack per queued use_item command.
// Only the two potion types the balance table seeds are recognized; an
// unknown item type is consumed with no effect rather than rejected, since
// the client is the one that already validated the item exists.
func (w *World) applyItemUse(commands []Command) {
	for _, cmd := range commands {
		if cmd.UseItem == nil {
			continue
		}
		player, ok := w.Players[cmd.PlayerID]
		if !ok || !player.Alive {
			continue
		}
		idx := -1
		for i, item := range player.Inventory {
			if item.ID == cmd.UseItem.ItemID {
				idx = i
				break
			}
		}
		if idx == -1 {
			continue
		}

		switch player.Inventory[idx].ItemType {
		case "heal_potion":
			player.Health += w.balance.BaseHealth * 0.5
			if player.Health > player.MaxHealth {
				player.Health = player.MaxHealth
			}
		case "mana_potion":
			player.Mana += player.MaxMana * 0.5
			if player.Mana > player.MaxMana {
				player.Mana = player.MaxMana
			}
		}

		player.Inventory[idx].Quantity--
		if player.Inventory[idx].Quantity <= 0 {
			player.Inventory = append(player.Inventory[:idx], player.Inventory[idx+1:]...)
		}
		player.ForceNextSnapshot = true
	}
}

// AddPlayer inserts a player into the world and seeds its per-player
// bookkeeping (lag-compensation history, anti-cheat tracker). Locked
// because it may be called from the transport handler's goroutine while
// the tick engine is mid-Step for a different world, or between ticks for
// this one.
func (w *World) AddPlayer(player *entities.Player) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.Players[player.ID] = player
	w.histories[player.ID] = projectile.NewHistory()
	w.antiCheats[player.ID] = movement.NewAntiCheat(
		w.balance.AntiCheatWindowSize, w.balance.SuspicionTolerance, w.balance.RejectTolerance, w.balance.SuspicionDecayStreak,
	)
}

// RemovePlayer drops a player and its bookkeeping from the world, e.g. on
// disconnect.
func (w *World) RemovePlayer(playerID string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.Players, playerID)
	delete(w.histories, playerID)
	delete(w.antiCheats, playerID)
}

func (w *World) runLootTimers(ctx context.Context, pub logging.Publisher, tick uint64, now time.Time, dt float64) {
	w.ticksSinceLoot++
	intervalTicks := uint64(w.genCfg.LootRespawnIntervalSeconds) * uint64(1/dt)
	if intervalTicks == 0 || w.ticksSinceLoot < intervalTicks {
		w.LootStore.Cleanup(ctx, pub, tick, now, time.Duration(w.lootCfg.LootExpirationTimeMinutes)*time.Minute, w.lootCfg.MaxLootPerRoom)
		return
	}
	w.ticksSinceLoot = 0

	candidates := make([]*entities.Room, 0, len(w.Rooms))
	for _, room := range w.Rooms {
		if !room.Completed {
			candidates = append(candidates, room)
		}
	}
	if len(candidates) > 0 {
		room := candidates[w.rng.Intn(len(candidates))]
		loot.SpawnPeriodic(ctx, pub, tick, w.LootStore, w.lootTables["common"], w.rng, room, w.lootCfg.MaxLootPerRoom, now)
	}
	w.LootStore.Cleanup(ctx, pub, tick, now, time.Duration(w.lootCfg.LootExpirationTimeMinutes)*time.Minute, w.lootCfg.MaxLootPerRoom)
}

func (w *World) runAI(ctx context.Context, pub logging.Publisher, tick uint64) {
	for id, mob := range w.Mobs {
		if !mob.Alive {
			continue
		}
		bb, ok := w.blackboards[id]
		if !ok {
			bb = &ai.Blackboard{}
			w.blackboards[id] = bb
		}

		nearestDist := 1e9
		candidates := make([]ai.Candidate, 0, len(w.Players))
		for _, player := range w.Players {
			if player.RoomID != mob.RoomID {
				continue
			}
			candidates = append(candidates, ai.Candidate{ID: player.ID, Position: player.Position, Class: player.Class, Alive: player.Alive})
			if d := mob.Position.Distance(player.Position); player.Alive && d < nearestDist {
				nearestDist = d
			}
		}

		frequency := ai.FrequencyFor(nearestDist)
		if !ai.ShouldUpdate(id, tick, frequency) {
			continue
		}

		action := ai.Decide(mob, bb, tick, w.aiCfg, candidates, w.rng)
		mob.State = action.NewState
		if action.HasMove {
			delta := action.MoveDirection.Scale(w.balance.MovementSpeed * 0.5)
			proposed := mob.Position.Add(delta.Scale(1.0 / float64(frequency)))
			mob.Position = movement.ResolveCollisions(proposed, w.balance.MobCollisionRadius, mob.ID, w.grid)
		}
		if action.AttackTargetID != "" {
			if target, ok := w.Players[action.AttackTargetID]; ok && target.Alive {
				// Mobs have no Class of their own; ClassTank's base damage
				// stands in as the generic melee hit a mob deals.
				rolled := combat.RollMelee(entities.ClassTank, 0, mob.Stats.GetTotal(stats.StatStrength), mob.Stats, target.Stats, combat.Rng)
				_, healthDamage := combat.ApplyDamage(&target.Combatant, rolled.Amount)
				combatlog.Damage(ctx, pub, tick, logging.EntityRef{Kind: "mob", ID: mob.ID}, logging.EntityRef{Kind: "player", ID: target.ID}, combatlog.DamagePayload{
					Amount: healthDamage, TargetHealth: target.Health,
				})
				w.checkDeath(ctx, pub, tick, &target.Combatant, target.ID, mob.ID)
			}
		}
	}
}

func (w *World) checkRoomCompletion(ctx context.Context, pub logging.Publisher, tick uint64, now time.Time) []string {
	var completed []string
	for _, room := range w.Rooms {
		if room.Completed {
			continue
		}
		aliveMobs := false
		for _, mob := range w.Mobs {
			if mob.RoomID == room.ID && mob.Alive {
				aliveMobs = true
				break
			}
		}
		if aliveMobs {
			continue
		}
		playerPresent := false
		for _, player := range w.Players {
			if player.RoomID == room.ID && player.Alive {
				playerPresent = true
				break
			}
		}
		if !playerPresent {
			continue
		}
		room.Completed = true
		completed = append(completed, room.ID)
		loot.SpawnFromRoomCompletion(ctx, pub, tick, w.LootStore, w.lootTables["room_completion"], w.rng, room, true, now)
	}
	return completed
}

func (w *World) advanceExtractions(ctx context.Context, pub logging.Publisher, tick uint64, commands []Command) []string {
	for _, cmd := range commands {
		if cmd.Extraction == nil {
			continue
		}
		switch cmd.Extraction.Action {
		case ExtractionActionBegin:
			if point, ok := w.ExtractionPoints[cmd.Extraction.ExtractionID]; ok {
				w.extraction.Begin(cmd.PlayerID, point, tick)
			}
		case ExtractionActionCancel:
			w.extraction.Cancel(cmd.PlayerID)
		}
	}

	requiredTicks := uint64(w.balance.ExtractionTimeSeconds) * 60
	return Advance(w.extraction, tick, requiredTicks, w.Players, w.ExtractionPoints)
}
