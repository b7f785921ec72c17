package combat

import (
	"math"
	"math/rand"
	"time"

	"dropzone/internal/entities"
	"dropzone/internal/spatial"
)

// AttackRejection enumerates why an attack attempt was refused outright
// (before target acquisition even runs).
type AttackRejection string

const (
	AttackAccepted     AttackRejection = ""
	AttackCannotAttack AttackRejection = "CannotAttack"
)

// AttackRequest is one player's melee attack attempt.
type AttackRequest struct {
	AttackerID       string
	AttackerPosition entities.Vector2
	AttackerAim      float64 // radians
	AttackerClass    entities.Class
	AttackerRoomID   string
	MeleeRange       float64
	MeleeConeCos     float64
	StealthDetection float64
}

// Candidate is a potential melee target discovered via the spatial grid.
type Candidate struct {
	ID          string
	Position    entities.Vector2
	RoomID      string
	IsStealthed bool
}

// AcquireTargets returns the ids of candidates within MeleeRange and within
// the attacker's forward cone, excluding stealthed targets the attacker
// cannot detect.
func AcquireTargets(req AttackRequest, grid *spatial.Grid, candidates map[string]Candidate) []string {
	aimVector := entities.Vector2{X: math.Cos(req.AttackerAim), Y: math.Sin(req.AttackerAim)}

	var hits []string
	for _, entry := range grid.Nearby(req.AttackerPosition, req.MeleeRange) {
		if entry.ID == req.AttackerID {
			continue
		}
		candidate, ok := candidates[entry.ID]
		if !ok {
			continue
		}
		if candidate.RoomID != req.AttackerRoomID {
			continue
		}
		toTarget := candidate.Position.Sub(req.AttackerPosition)
		dist := toTarget.Length()
		if dist > req.MeleeRange {
			continue
		}
		if candidate.IsStealthed && dist > req.StealthDetection {
			continue
		}
		if dist > 1e-6 {
			cos := aimVector.Dot(toTarget.Normalized())
			if cos < req.MeleeConeCos {
				continue
			}
		}
		hits = append(hits, entry.ID)
	}
	return hits
}

// ClassAttackEffect is the status effect a class's melee attack applies to
// each target it hits, in addition to damage.
var ClassAttackEffect = map[entities.Class]struct {
	Type      entities.StatusEffectType
	Magnitude float64
}{
	entities.ClassTank:  {Type: entities.StatusEffectSlow, Magnitude: 0.30},
	entities.ClassScout: {Type: entities.StatusEffectPoison, Magnitude: 0.20},
}

// Rng is the shared, package-level source for damage variance and crit
// rolls. Combat call sites are single-threaded per world tick, so a
// package-level generator avoids threading one through every call.
var Rng = rand.New(rand.NewSource(time.Now().UnixNano()))
