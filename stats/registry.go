package stats

// Archetype identifies the default stat seed used to initialise a component.
type Archetype uint8

const (
	ArchetypeScout Archetype = iota
	ArchetypeTank
	ArchetypeSupport
	ArchetypeMobGrunt
	ArchetypeMobRanged
	ArchetypeMobBoss
)

// archetypeBase seeds the primary attributes for each class/mob tier. The
// derived combat numbers these produce (move speed multiplier, crit chance)
// are tuned to land on the class balance table: Scout moves at 1.1x and
// crits at 20%, Tank at 0.9x/5%, Support at 1.0x/8%.
var archetypeBase = map[Archetype]ValueSet{
	ArchetypeScout: {
		StatStrength:    8,
		StatVitality:    8,
		StatWillpower:   8,
		StatAgility:     15,
		StatSpeed:       2,
		StatArmor:       2,
		StatMagicResist: 2,
	},
	ArchetypeTank: {
		StatStrength:    12,
		StatVitality:    16,
		StatWillpower:   6,
		StatAgility:     0,
		StatSpeed:       -2,
		StatArmor:       10,
		StatMagicResist: 4,
	},
	ArchetypeSupport: {
		StatStrength:    6,
		StatVitality:    9,
		StatWillpower:   14,
		StatAgility:     3,
		StatSpeed:       0,
		StatArmor:       3,
		StatMagicResist: 8,
	},
	ArchetypeMobGrunt: {
		StatStrength:    10,
		StatVitality:    6,
		StatWillpower:   0,
		StatAgility:     0,
		StatSpeed:       -1,
		StatArmor:       1,
		StatMagicResist: 0,
	},
	ArchetypeMobRanged: {
		StatStrength:    5,
		StatVitality:    4,
		StatWillpower:   0,
		StatAgility:     4,
		StatSpeed:       1,
		StatArmor:       0,
		StatMagicResist: 1,
	},
	ArchetypeMobBoss: {
		StatStrength:    24,
		StatVitality:    40,
		StatWillpower:   0,
		StatAgility:     2,
		StatSpeed:       -1,
		StatArmor:       6,
		StatMagicResist: 6,
	},
}

// DefaultBase returns a copy of the base values for the given archetype.
func DefaultBase(archetype Archetype) ValueSet {
	base := archetypeBase[archetype]
	return base
}

// DefaultComponent constructs and resolves a component using the archetype defaults.
func DefaultComponent(archetype Archetype) Component {
	comp := NewComponent(DefaultBase(archetype))
	comp.Resolve(0)
	return comp
}

// DefaultDerived returns the resolved derived stats for the given archetype.
func DefaultDerived(archetype Archetype) DerivedSet {
	comp := DefaultComponent(archetype)
	return comp.DerivedValues()
}

// DefaultMaxHealth returns the resolved max health for the given archetype.
func DefaultMaxHealth(archetype Archetype) float64 {
	derived := DefaultDerived(archetype)
	return derived[DerivedMaxHealth]
}

// Formula tuning values, chosen so the unmodified class archetypes reproduce
// the class balance table exactly (move speed 1.1/0.9/1.0, crit chance
// 0.20/0.05/0.08 for Scout/Tank/Support) while still composing correctly
// once equipment and temporary buffs stack additional stat points on top.
const (
	baseHealthFlat        = 100.0
	vitalityHealthScalar  = 5.0
	baseManaFlat          = 45.0
	willpowerManaScalar   = 3.5
	strengthDamageScalar  = 2.0
	baseCritChance        = 0.05
	agilityCritScalar     = 0.01
	baseMoveSpeedMult     = 1.0
	speedMoveScalar       = 0.05
	armorReductionScalar  = 0.01
	resistReductionScalar = 0.01
	maxDamageReduction    = 0.75
	baseCooldownRate      = 1.0
	willpowerCooldownRate = 0.01
)
