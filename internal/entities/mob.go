package entities

import "dropzone/stats"

// MobType enumerates the mob tiers that seed AI behavior and stats.
type MobType string

const (
	MobTypeGrunt  MobType = "grunt"
	MobTypeRanged MobType = "ranged"
	MobTypeBoss   MobType = "boss"
)

// Archetype maps a mob type to its stats seed.
func (t MobType) Archetype() stats.Archetype {
	switch t {
	case MobTypeRanged:
		return stats.ArchetypeMobRanged
	case MobTypeBoss:
		return stats.ArchetypeMobBoss
	default:
		return stats.ArchetypeMobGrunt
	}
}

// AIState enumerates the mob behavior state machine's states.
type AIState string

const (
	AIStateSpawning  AIState = "spawning"
	AIStateIdle      AIState = "idle"
	AIStatePatrol    AIState = "patrol"
	AIStateAlert     AIState = "alert"
	AIStatePursuing  AIState = "pursuing"
	AIStateAttacking AIState = "attacking"
	AIStateStunned   AIState = "stunned"
	AIStateFleeing   AIState = "fleeing"
	AIStateCasting   AIState = "casting"
	AIStateEnraged   AIState = "enraged"
	AIStateGuarding  AIState = "guarding"
	AIStateDead      AIState = "dead"
)

// Mob is a server-controlled hostile actor.
type Mob struct {
	Combatant

	ID     string
	Type   MobType
	RoomID string

	Position     Vector2
	PatrolTarget Vector2
	SpawnPoint   Vector2

	State      AIState
	TargetID   string
	NextUpdateTick uint64

	DiedAt uint64

	LastSentPosition Vector2
	LastSentHealth   float64
	LastSentState    AIState
	ForceNextSnapshot bool
}

// NewMob constructs a mob seeded with its type's archetype stats.
func NewMob(id string, mobType MobType, roomID string, spawn Vector2) *Mob {
	comp := stats.NewComponent(stats.DefaultBase(mobType.Archetype()))
	comp.Resolve(0)
	maxHealth := comp.GetDerived(stats.DerivedMaxHealth)
	return &Mob{
		Combatant: Combatant{
			Health:    maxHealth,
			MaxHealth: maxHealth,
			Stats:     comp,
			Cooldowns: make(map[string]uint64),
			Alive:     true,
		},
		ID:         id,
		Type:       mobType,
		RoomID:     roomID,
		Position:   spawn,
		SpawnPoint: spawn,
		State:      AIStateSpawning,
	}
}

// HasSignificantChange mirrors Player.HasSignificantChange for mobs.
func (m *Mob) HasSignificantChange() bool {
	if m.ForceNextSnapshot {
		return true
	}
	if m.Position.Distance(m.LastSentPosition) > 0.01 {
		return true
	}
	if m.Health != m.LastSentHealth {
		return true
	}
	return m.State != m.LastSentState
}

// MarkSent records the fields used for the next delta comparison.
func (m *Mob) MarkSent() {
	m.LastSentPosition = m.Position
	m.LastSentHealth = m.Health
	m.LastSentState = m.State
	m.ForceNextSnapshot = false
}
