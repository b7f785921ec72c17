package ai

import "dropzone/internal/entities"

// Candidate is a potential mob target.
type Candidate struct {
	ID       string
	Position entities.Vector2
	Class    entities.Class
	Alive    bool
}

// classPreference ranks classes by how attractive they are as a target when
// two candidates are equidistant: Support first (lowest health pool, most
// disruptive to deny), then Scout, then Tank.
var classPreference = map[entities.Class]int{
	entities.ClassSupport: 0,
	entities.ClassScout:   1,
	entities.ClassTank:    2,
}

// SelectTarget returns the nearest alive candidate to position, breaking
// exact-distance ties by class preference. Returns false if no candidate is
// alive.
func SelectTarget(position entities.Vector2, candidates []Candidate) (Candidate, bool) {
	var best Candidate
	bestDist := -1.0
	found := false

	for _, candidate := range candidates {
		if !candidate.Alive {
			continue
		}
		dist := position.Distance(candidate.Position)
		if !found {
			best, bestDist, found = candidate, dist, true
			continue
		}
		if dist < bestDist {
			best, bestDist = candidate, dist
			continue
		}
		if dist == bestDist && classPreference[candidate.Class] < classPreference[best.Class] {
			best = candidate
		}
	}
	return best, found
}
