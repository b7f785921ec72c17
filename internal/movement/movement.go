// Package movement advances authoritative player positions from per-tick
// input, clamps to world bounds, resolves circle-circle overlap against
// neighboring players and mobs, and flags anomalous movement.
package movement

import (
	"dropzone/internal/entities"
	"dropzone/internal/spatial"
)

// Rejection enumerates movement's non-fatal failure modes.
type Rejection string

const (
	RejectionNone        Rejection = ""
	RejectionBlocked     Rejection = "Blocked"
	RejectionOutOfBounds Rejection = "OutOfBounds"
	RejectionRejected    Rejection = "Rejected"
)

// Bounds is the rectangular world area positions are clamped to.
type Bounds struct {
	MinX, MinY, MaxX, MaxY float64
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Input is one tick's worth of movement intent for a player.
type Input struct {
	Move       entities.Vector2
	Sprinting  bool
	Speed      float64 // base × class modifier × status modifier, pre-sprint
	SprintMul  float64
	ManaPerSec float64
}

// Advance computes a player's proposed position for this tick and resolves
// it against world bounds and neighbor collisions. It does not mutate
// player; the caller applies Position/Velocity/Mana on acceptance.
func Advance(player *entities.Player, input Input, dt float64, bounds Bounds, grid *spatial.Grid, selfRadius float64, maxInputMagnitude float64) (position entities.Vector2, velocity entities.Vector2, manaSpent float64, rejection Rejection) {
	if input.Move.Length() > maxInputMagnitude {
		return player.Position, entities.Vector2{}, 0, RejectionRejected
	}

	direction := input.Move.Normalized()
	speed := input.Speed
	sprinting := input.Sprinting && player.Mana > 0
	if sprinting {
		speed *= input.SprintMul
		manaSpent = input.ManaPerSec * dt
	}

	delta := direction.Scale(speed * dt)
	proposed := player.Position.Add(delta)

	clamped := entities.Vector2{
		X: clamp(proposed.X, bounds.MinX+selfRadius, bounds.MaxX-selfRadius),
		Y: clamp(proposed.Y, bounds.MinY+selfRadius, bounds.MaxY-selfRadius),
	}
	if clamped != proposed {
		return clamped, entities.Vector2{}, manaSpent, RejectionOutOfBounds
	}

	resolved := ResolveCollisions(clamped, selfRadius, player.ID, grid)
	velocity = resolved.Sub(player.Position).Scale(1.0 / dt)
	return resolved, velocity, manaSpent, RejectionNone
}

// Teleport resolves a dash/charge-style instant relocation: target is
// clamped to at most maxDistance from from, then clamped to bounds. If the
// clamped destination still overlaps a neighbor, points stepping back
// toward from along the same direction (six equal steps, the last being
// from itself) are tried in turn; if every one overlaps, the teleport is
// rejected (leaving the caster in place rather than stacking it on top of
// another entity).
func Teleport(from, target entities.Vector2, maxDistance float64, bounds Bounds, grid *spatial.Grid, selfRadius float64, selfID string) (entities.Vector2, Rejection) {
	delta := target.Sub(from)
	dist := delta.Length()
	if dist > maxDistance {
		delta = delta.Normalized().Scale(maxDistance)
		dist = maxDistance
	}
	if dist < 1e-6 {
		return from, RejectionNone
	}
	direction := delta.Normalized()

	clamp2 := func(p entities.Vector2) entities.Vector2 {
		return entities.Vector2{
			X: clamp(p.X, bounds.MinX+selfRadius, bounds.MaxX-selfRadius),
			Y: clamp(p.Y, bounds.MinY+selfRadius, bounds.MaxY-selfRadius),
		}
	}

	const spiralSteps = 6
	for i := 0; i <= spiralSteps; i++ {
		frac := 1.0 - float64(i)/float64(spiralSteps)
		candidate := clamp2(from.Add(direction.Scale(dist * frac)))
		if !overlapsAny(candidate, selfRadius, selfID, grid) {
			return candidate, RejectionNone
		}
	}
	return from, RejectionBlocked
}

// overlapsAny reports whether point, if occupied by selfID, would overlap
// any other entity tracked in grid.
func overlapsAny(point entities.Vector2, selfRadius float64, selfID string, grid *spatial.Grid) bool {
	if grid == nil {
		return false
	}
	const maxNeighborRadius = 2.0
	for _, entry := range grid.Nearby(point, selfRadius+maxNeighborRadius) {
		if entry.ID == selfID || entry.Radius <= 0 {
			continue
		}
		if point.Distance(entry.Position) < selfRadius+entry.Radius {
			return true
		}
	}
	return false
}

// ResolveCollisions pushes point out of any overlapping neighbor found via
// grid, by the penetration depth along the collision normal. Exported so
// mob movement (internal/ai) can reuse the same pushout logic.
func ResolveCollisions(point entities.Vector2, selfRadius float64, selfID string, grid *spatial.Grid) entities.Vector2 {
	if grid == nil {
		return point
	}
	const maxNeighborRadius = 2.0
	searchRadius := selfRadius + maxNeighborRadius
	for _, entry := range grid.Nearby(point, searchRadius) {
		if entry.ID == selfID || entry.Radius <= 0 {
			continue
		}
		dist := point.Distance(entry.Position)
		minDist := selfRadius + entry.Radius
		if dist >= minDist {
			continue
		}
		if dist == 0 {
			point = point.Add(entities.Vector2{X: minDist})
			continue
		}
		overlap := minDist - dist
		normal := point.Sub(entry.Position).Scale(1.0 / dist)
		point = point.Add(normal.Scale(overlap))
	}
	return point
}
