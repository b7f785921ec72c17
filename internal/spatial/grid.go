// Package spatial provides a uniform grid spatial index, rebuilt once per
// tick, used by movement, melee combat, and mob collision resolution to find
// nearby entities without scanning the full population.
package spatial

import (
	"math"

	"dropzone/internal/entities"
)

const defaultCellSize = 10.0

type cellKey struct {
	X int
	Y int
}

// Entry is one indexed entity: an opaque id, the position it occupied when
// the grid was built, and its collision radius (0 for entries that don't
// participate in collision, e.g. loot).
type Entry struct {
	ID       string
	Position entities.Vector2
	Radius   float64
}

// Grid is a uniform-cell spatial index over a single tick's entity
// positions. It is rebuilt from scratch each tick rather than mutated
// incrementally, since the full population of live entities is known
// up front at the start of the tick's query phase.
type Grid struct {
	cellSize float64
	cells    map[cellKey][]Entry
}

// New constructs an empty grid with the given cell size (spec default 10
// units); a non-positive size falls back to the default.
func New(cellSize float64) *Grid {
	if cellSize <= 0 {
		cellSize = defaultCellSize
	}
	return &Grid{cellSize: cellSize, cells: make(map[cellKey][]Entry)}
}

// Build replaces the grid's contents with entries, bucketing each by cell.
func (g *Grid) Build(entries []Entry) {
	for k := range g.cells {
		delete(g.cells, k)
	}
	for _, entry := range entries {
		key := g.cellFor(entry.Position)
		g.cells[key] = append(g.cells[key], entry)
	}
}

func (g *Grid) cellFor(pos entities.Vector2) cellKey {
	return cellKey{X: int(math.Floor(pos.X / g.cellSize)), Y: int(math.Floor(pos.Y / g.cellSize))}
}

// Nearby returns every indexed entry within radius of point, visiting the
// ceil(radius/cellSize) ring of cells around point's cell and filtering by
// exact Euclidean distance.
func (g *Grid) Nearby(point entities.Vector2, radius float64) []Entry {
	center := g.cellFor(point)
	ringRadius := int(math.Ceil(radius / g.cellSize))

	var results []Entry
	for dy := -ringRadius; dy <= ringRadius; dy++ {
		for dx := -ringRadius; dx <= ringRadius; dx++ {
			bucket, ok := g.cells[cellKey{X: center.X + dx, Y: center.Y + dy}]
			if !ok {
				continue
			}
			for _, entry := range bucket {
				if entry.Position.Distance(point) <= radius {
					results = append(results, entry)
				}
			}
		}
	}
	return results
}
