package entities

import "dropzone/stats"

// Class enumerates the player archetypes.
type Class string

const (
	ClassScout   Class = "scout"
	ClassTank    Class = "tank"
	ClassSupport Class = "support"
)

// Archetype maps a class to its stats seed.
func (c Class) Archetype() stats.Archetype {
	switch c {
	case ClassTank:
		return stats.ArchetypeTank
	case ClassSupport:
		return stats.ArchetypeSupport
	default:
		return stats.ArchetypeScout
	}
}

// Valid reports whether c is one of the known classes.
func (c Class) Valid() bool {
	switch c {
	case ClassScout, ClassTank, ClassSupport:
		return true
	default:
		return false
	}
}

// InventoryItem is a single stack held by a player.
type InventoryItem struct {
	ID       string
	Name     string
	ItemType string
	Rarity   int
	Quantity int
}

// Combatant holds the fields shared by players and mobs: health, shield,
// status effects, stats, and ability cooldowns.
type Combatant struct {
	Health        float64
	MaxHealth     float64
	Shield        float64
	MaxShield     float64
	Stats         stats.Component
	StatusEffects []*StatusEffectInstance
	Cooldowns     map[string]uint64 // ability name -> tick when usable again
	Alive         bool
}

// Player is the authoritative record of a connected client's avatar.
type Player struct {
	Combatant

	ID          string
	DisplayName string
	TeamID      string
	Class       Class
	Endpoint    string // transport-level address, opaque to the simulation

	Position     Vector2
	Velocity     Vector2
	AimDirection float64

	Mana    float64
	MaxMana float64

	RoomID        string
	WorldID       string
	Inventory     []InventoryItem
	IsSprinting   bool
	IsCasting     bool
	IsStealthed   bool
	DiedAt        uint64
	LastInputSeq  uint32
	LastRoomID    string

	// NextMeleeAt is the tick a new melee swing becomes allowed again, set
	// to tick+cooldownTicks on every accepted attack.
	NextMeleeAt uint64
	// CastEndsAt is the tick a cast-type ability's lockout ends. While
	// tick < CastEndsAt the player can neither move nor attack.
	CastEndsAt uint64

	// Snapshot bookkeeping for delta compression.
	LastSentPosition Vector2
	LastSentVelocity Vector2
	LastSentAim      float64
	LastSentHealth   float64
	LastSentAlive    bool
	LastSentMoving   bool
	LastSentCasting  bool
	LastSentMaxHealth float64
	ForceNextSnapshot bool
}

// NewPlayer constructs a player seeded with class archetype stats and spawn
// position. The caller is responsible for assigning ID/TeamID/WorldID.
func NewPlayer(id, displayName string, class Class, spawn Vector2) *Player {
	comp := stats.NewComponent(stats.DefaultBase(class.Archetype()))
	comp.Resolve(0)
	maxHealth := comp.GetDerived(stats.DerivedMaxHealth)
	maxMana := comp.GetDerived(stats.DerivedMaxMana)
	return &Player{
		Combatant: Combatant{
			Health:    maxHealth,
			MaxHealth: maxHealth,
			Stats:     comp,
			Cooldowns: make(map[string]uint64),
			Alive:     true,
		},
		ID:          id,
		DisplayName: displayName,
		Class:       class,
		Position:    spawn,
		Mana:        maxMana,
		MaxMana:     maxMana,
		Inventory:   make([]InventoryItem, 0, 4),
	}
}

// InventoryFull reports whether the player's inventory is at capacity.
func (p *Player) InventoryFull(maxSize int) bool {
	return len(p.Inventory) >= maxSize
}

// HasSignificantChange reports whether the player's state has moved enough
// since the last sent snapshot to warrant inclusion in the next one.
func (p *Player) HasSignificantChange() bool {
	if p.ForceNextSnapshot {
		return true
	}
	if p.Position.Distance(p.LastSentPosition) > 0.01 {
		return true
	}
	if p.Velocity.Sub(p.LastSentVelocity).Length() > 0.01 {
		return true
	}
	if angularDeltaDegrees(p.AimDirection, p.LastSentAim) > 0.5 {
		return true
	}
	if p.Health != p.LastSentHealth {
		return true
	}
	if p.MaxHealth != p.LastSentMaxHealth {
		return true
	}
	if p.Alive != p.LastSentAlive {
		return true
	}
	moving := p.Velocity.Length() > 1e-6
	if moving != p.LastSentMoving {
		return true
	}
	if p.IsCasting != p.LastSentCasting {
		return true
	}
	return false
}

// MarkSent records the fields used for the next delta comparison.
func (p *Player) MarkSent() {
	p.LastSentPosition = p.Position
	p.LastSentVelocity = p.Velocity
	p.LastSentAim = p.AimDirection
	p.LastSentHealth = p.Health
	p.LastSentMaxHealth = p.MaxHealth
	p.LastSentAlive = p.Alive
	p.LastSentMoving = p.Velocity.Length() > 1e-6
	p.LastSentCasting = p.IsCasting
	p.ForceNextSnapshot = false
}

// Clone returns a deep copy of the player, suitable for storing as a
// session's saved state across a disconnect.
func (p *Player) Clone() *Player {
	clone := *p
	clone.Combatant.Stats = p.Stats.Clone()
	clone.Cooldowns = make(map[string]uint64, len(p.Cooldowns))
	for k, v := range p.Cooldowns {
		clone.Cooldowns[k] = v
	}
	clone.StatusEffects = make([]*StatusEffectInstance, len(p.StatusEffects))
	for i, effect := range p.StatusEffects {
		copied := *effect
		clone.StatusEffects[i] = &copied
	}
	clone.Inventory = append([]InventoryItem(nil), p.Inventory...)
	return &clone
}

func angularDeltaDegrees(a, b float64) float64 {
	const radToDeg = 180.0 / 3.14159265358979323846
	delta := (a - b) * radToDeg
	for delta > 180 {
		delta -= 360
	}
	for delta < -180 {
		delta += 360
	}
	if delta < 0 {
		delta = -delta
	}
	return delta
}
