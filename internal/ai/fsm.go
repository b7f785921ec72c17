package ai

import (
	"math"
	"math/rand"

	"dropzone/internal/entities"
)

// Config holds the tunable thresholds driving state transitions.
type Config struct {
	DetectionRange   float64
	AttackRange      float64
	AttackCooldown   uint64 // ticks
	FleeThreshold    float64
	EnrageThreshold  float64
	PatrolRadius     float64
	PatrolArriveDist float64
	PatrolInterval   uint64 // ticks between picking a new patrol point
}

// Action is what the tick engine should do as a result of one AI decision:
// move along MoveDirection (if HasMove), optionally attack AttackTargetID,
// and adopt NewState.
type Action struct {
	NewState       entities.AIState
	MoveDirection  entities.Vector2
	HasMove        bool
	AttackTargetID string
}

// Decide runs one state-machine step for mob, consulting and updating its
// blackboard, and returns the action for the tick engine to apply.
func Decide(mob *entities.Mob, bb *Blackboard, tick uint64, cfg Config, candidates []Candidate, rng *rand.Rand) Action {
	if !mob.Alive {
		return Action{NewState: entities.AIStateDead}
	}

	healthFraction := 1.0
	if mob.MaxHealth > 0 {
		healthFraction = mob.Health / mob.MaxHealth
	}

	// Any state can flee once health drops below threshold, except a boss,
	// which enrages instead of running.
	if healthFraction < cfg.FleeThreshold && mob.State != entities.AIStateFleeing {
		if mob.Type == entities.MobTypeBoss && healthFraction < cfg.EnrageThreshold {
			return enrage(mob, bb, candidates)
		}
		if mob.Type != entities.MobTypeBoss {
			return flee(mob, bb, candidates, rng)
		}
	}

	switch mob.State {
	case entities.AIStateSpawning, entities.AIStateIdle, entities.AIStatePatrol:
		return decideIdleOrPatrol(mob, bb, tick, cfg, candidates, rng)
	case entities.AIStateAlert:
		return decideAlert(mob, bb, cfg, candidates)
	case entities.AIStatePursuing:
		return decidePursuing(mob, bb, tick, cfg, candidates)
	case entities.AIStateAttacking:
		return decideAttacking(mob, bb, tick, cfg, candidates)
	case entities.AIStateFleeing:
		return flee(mob, bb, candidates, rng)
	case entities.AIStateEnraged:
		return decidePursuing(mob, bb, tick, cfg, candidates)
	default:
		return Action{NewState: mob.State}
	}
}

func decideIdleOrPatrol(mob *entities.Mob, bb *Blackboard, tick uint64, cfg Config, candidates []Candidate, rng *rand.Rand) Action {
	if target, ok := nearestWithinRange(mob.Position, candidates, cfg.DetectionRange); ok {
		bb.TargetID = target.ID
		bb.LastKnownPos = target.Position
		return Action{NewState: entities.AIStateAlert}
	}

	if bb.PatrolOrigin == (entities.Vector2{}) {
		bb.PatrolOrigin = mob.Position
	}
	arrived := mob.Position.Distance(bb.PatrolTarget) < cfg.PatrolArriveDist
	if bb.NextPatrolAt <= tick || arrived {
		bb.PatrolTarget = randomPointAround(bb.PatrolOrigin, cfg.PatrolRadius, rng)
		bb.NextPatrolAt = tick + cfg.PatrolInterval
	}

	direction := directionTo(mob.Position, bb.PatrolTarget)
	return Action{NewState: entities.AIStatePatrol, MoveDirection: direction, HasMove: true}
}

func decideAlert(mob *entities.Mob, bb *Blackboard, cfg Config, candidates []Candidate) Action {
	target, ok := findCandidate(candidates, bb.TargetID)
	if !ok {
		return Action{NewState: entities.AIStateIdle}
	}
	bb.LastKnownPos = target.Position
	return Action{NewState: entities.AIStatePursuing}
}

func decidePursuing(mob *entities.Mob, bb *Blackboard, tick uint64, cfg Config, candidates []Candidate) Action {
	target, ok := findCandidate(candidates, bb.TargetID)
	if !ok {
		return Action{NewState: entities.AIStateIdle}
	}
	bb.LastKnownPos = target.Position

	dist := mob.Position.Distance(target.Position)
	if dist <= cfg.AttackRange && bb.NextAttackAt <= tick {
		return Action{NewState: entities.AIStateAttacking}
	}

	direction := directionTo(mob.Position, target.Position)
	state := entities.AIStatePursuing
	if mob.State == entities.AIStateEnraged {
		state = entities.AIStateEnraged
	}
	return Action{NewState: state, MoveDirection: direction, HasMove: true}
}

func decideAttacking(mob *entities.Mob, bb *Blackboard, tick uint64, cfg Config, candidates []Candidate) Action {
	target, ok := findCandidate(candidates, bb.TargetID)
	if !ok {
		return Action{NewState: entities.AIStateIdle}
	}
	dist := mob.Position.Distance(target.Position)
	if dist > cfg.AttackRange {
		return Action{NewState: entities.AIStatePursuing}
	}
	bb.NextAttackAt = tick + cfg.AttackCooldown
	return Action{NewState: entities.AIStateAttacking, AttackTargetID: target.ID}
}

func flee(mob *entities.Mob, bb *Blackboard, candidates []Candidate, rng *rand.Rand) Action {
	threat, ok := nearestWithinRange(mob.Position, candidates, math.MaxFloat64)
	if !ok {
		return Action{NewState: entities.AIStateFleeing}
	}
	away := mob.Position.Sub(threat.Position)
	direction := away.Normalized()
	if direction == (entities.Vector2{}) {
		direction = randomUnitVector(rng)
	}
	return Action{NewState: entities.AIStateFleeing, MoveDirection: direction, HasMove: true}
}

func enrage(mob *entities.Mob, bb *Blackboard, candidates []Candidate) Action {
	if target, ok := findCandidate(candidates, bb.TargetID); ok {
		bb.LastKnownPos = target.Position
	}
	return Action{NewState: entities.AIStateEnraged}
}

func nearestWithinRange(position entities.Vector2, candidates []Candidate, maxRange float64) (Candidate, bool) {
	target, ok := SelectTarget(position, candidates)
	if !ok {
		return Candidate{}, false
	}
	if position.Distance(target.Position) > maxRange {
		return Candidate{}, false
	}
	return target, true
}

func findCandidate(candidates []Candidate, id string) (Candidate, bool) {
	for _, candidate := range candidates {
		if candidate.ID == id && candidate.Alive {
			return candidate, true
		}
	}
	return Candidate{}, false
}

func directionTo(from, to entities.Vector2) entities.Vector2 {
	return to.Sub(from).Normalized()
}

func randomPointAround(center entities.Vector2, radius float64, rng *rand.Rand) entities.Vector2 {
	angle := rng.Float64() * 2 * math.Pi
	dist := radius * math.Sqrt(rng.Float64())
	return entities.Vector2{X: center.X + math.Cos(angle)*dist, Y: center.Y + math.Sin(angle)*dist}
}

func randomUnitVector(rng *rand.Rand) entities.Vector2 {
	angle := rng.Float64() * 2 * math.Pi
	return entities.Vector2{X: math.Cos(angle), Y: math.Sin(angle)}
}
