// Package config captures server tuning as a literal Go struct, following
// the teacher's pattern of a DefaultConfig() plus a handful of
// environment-variable overrides read at process start rather than a
// config file loader.
package config

import (
	"os"
	"strconv"
	"time"
)

// Networking holds transport-level tuning.
type Networking struct {
	UDPPort                int
	WorldUpdateRate        int
	PlayerUpdateRate       int
	ReliableMessageRetries int
	ClientTimeoutSeconds   int
	MaxPacketSize          int
	SocketTimeoutMs        int
	CompressionThreshold   int
}

// Balance holds gameplay tuning shared by movement and combat.
type Balance struct {
	MovementSpeed         float64
	SprintMultiplier      float64
	BaseHealth            float64
	AttackRange           float64
	MeleeRange            float64
	MeleeConeCos          float64
	AttackCooldownMs      int
	ExtractionTimeSeconds int
	MaxInventorySize      int
	MaxTeamSize           int

	MaxInputMagnitude     float64
	ManaPerSprintSecond   float64
	PlayerCollisionRadius float64
	MobCollisionRadius    float64
	TeleportMaxDistance   float64
	StealthDetectionRange float64
	LagCompensationMaxMs  int
	PlayerHitboxRadius    float64

	// Anti-cheat sliding-window thresholds (§4.6): flag at SuspicionTolerance
	// × allowed speed, reject at RejectTolerance × allowed speed or on a
	// detected teleport, decay suspicion after SuspicionDecayStreak
	// consecutive valid movements.
	AntiCheatWindowSize     int
	SuspicionTolerance      float64
	RejectTolerance         float64
	SuspicionDecayStreak    int
}

// WorldGen holds room-grid generation tuning.
type WorldGen struct {
	WorldSizeX                 int
	WorldSizeY                 int
	RoomSizeX                  float64
	RoomSizeY                  float64
	RoomSpacing                float64
	MobsPerRoom                int
	InitialLootCount           int
	LootRespawnIntervalSeconds int
}

// Loot holds the loot system's caps and timers (§4.9).
type Loot struct {
	MaxLootPerRoom             int
	MaxDropsPerMob             int
	LootGrabRange              float64
	LootExpirationTimeMinutes  int
	ScoutLuckBonus             float64
	BossGuaranteedRarity       int
	PlayerDeathMaxDrops        int
}

// Lobby holds matchmaking tuning.
type Lobby struct {
	MaxWaitTimeSeconds         int
	AbsoluteMaxWaitTimeSeconds int
	MinPlayersToStart          int
	MinTeamsToStart            int
	EmptyLobbyCleanupMinutes   int
	// MaxPlayers caps total players queued in a single lobby, independent of
	// the per-team cap (Balance.MaxTeamSize).
	MaxPlayers int
}

// Config is the full set of tunable server parameters.
type Config struct {
	TickRate int

	Networking Networking
	Balance    Balance
	WorldGen   WorldGen
	Loot       Loot
	Lobby      Lobby

	SessionTTL      time.Duration
	InputGapTimeout time.Duration
	InputBufferCap  int

	LootTablePath string
}

// DefaultConfig returns the parameter defaults named throughout the design.
func DefaultConfig() Config {
	return Config{
		TickRate: 60,
		Networking: Networking{
			UDPPort:                7001,
			WorldUpdateRate:        20,
			PlayerUpdateRate:       60,
			ReliableMessageRetries: 3,
			ClientTimeoutSeconds:   30,
			MaxPacketSize:          1400,
			SocketTimeoutMs:        5000,
			CompressionThreshold:   1200,
		},
		Balance: Balance{
			MovementSpeed:         5.0,
			SprintMultiplier:      1.5,
			BaseHealth:            100,
			AttackRange:           1.5,
			MeleeRange:            2.5,
			MeleeConeCos:          0.7,
			AttackCooldownMs:      1000,
			ExtractionTimeSeconds: 30,
			MaxInventorySize:      20,
			MaxTeamSize:           6,

			MaxInputMagnitude:     1.1,
			ManaPerSprintSecond:   10.0,
			PlayerCollisionRadius: 0.5,
			MobCollisionRadius:    0.5,
			TeleportMaxDistance:   8.0,
			StealthDetectionRange: 3.0,
			LagCompensationMaxMs:  200,
			PlayerHitboxRadius:    0.5,

			AntiCheatWindowSize:  10,
			SuspicionTolerance:   1.2,
			RejectTolerance:      1.5,
			SuspicionDecayStreak: 5,
		},
		WorldGen: WorldGen{
			WorldSizeX:                 4,
			WorldSizeY:                 4,
			RoomSizeX:                  50,
			RoomSizeY:                  50,
			RoomSpacing:                60,
			MobsPerRoom:                3,
			InitialLootCount:           12,
			LootRespawnIntervalSeconds: 120,
		},
		Loot: Loot{
			MaxLootPerRoom:            8,
			MaxDropsPerMob:            2,
			LootGrabRange:             3.0,
			LootExpirationTimeMinutes: 10,
			ScoutLuckBonus:            0.1,
			BossGuaranteedRarity:      3,
			PlayerDeathMaxDrops:       3,
		},
		Lobby: Lobby{
			MaxWaitTimeSeconds:         30,
			AbsoluteMaxWaitTimeSeconds: 60,
			MinPlayersToStart:          4,
			MinTeamsToStart:            2,
			EmptyLobbyCleanupMinutes:   5,
			MaxPlayers:                 12,
		},
		SessionTTL:      5 * time.Minute,
		InputGapTimeout: 100 * time.Millisecond,
		InputBufferCap:  100,
		LootTablePath:   "",
	}
}

// ApplyEnvOverrides mutates cfg in place using the small set of environment
// variables an operator can reasonably tune at process start, mirroring the
// teacher's os.Getenv + strconv pattern.
func ApplyEnvOverrides(cfg *Config) {
	if v, ok := intEnv("UDP_PORT"); ok {
		cfg.Networking.UDPPort = v
	}
	if v, ok := intEnv("TICK_RATE"); ok {
		cfg.TickRate = v
	}
	if v, ok := intEnv("WORLD_UPDATE_RATE"); ok {
		cfg.Networking.WorldUpdateRate = v
	}
	if v, ok := intEnv("CLIENT_TIMEOUT_SECONDS"); ok {
		cfg.Networking.ClientTimeoutSeconds = v
	}
	if v, ok := durationEnvSeconds("SESSION_TTL_SECONDS"); ok {
		cfg.SessionTTL = v
	}
	if v, ok := os.LookupEnv("LOOT_TABLE_PATH"); ok && v != "" {
		cfg.LootTablePath = v
	}
}

func intEnv(name string) (int, bool) {
	raw, ok := os.LookupEnv(name)
	if !ok || raw == "" {
		return 0, false
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return parsed, true
}

func durationEnvSeconds(name string) (time.Duration, bool) {
	seconds, ok := intEnv(name)
	if !ok {
		return 0, false
	}
	return time.Duration(seconds) * time.Second, true
}
