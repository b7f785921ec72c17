// Package ai drives the mob behavior state machine: detection, pursuit,
// attack, flee, and boss enrage transitions, plus the distance-based update
// scheduler that keeps far-away mobs cheap to simulate.
package ai

import "dropzone/internal/entities"

// Blackboard is one mob's AI memory between ticks, mirroring the teacher's
// per-NPC scratch state kept alongside the FSM.
type Blackboard struct {
	PatrolOrigin entities.Vector2
	PatrolTarget entities.Vector2
	NextPatrolAt uint64

	TargetID      string
	LastKnownPos  entities.Vector2
	NextAttackAt  uint64
}
