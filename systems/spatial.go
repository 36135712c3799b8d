// Package systems implements the node store, spatial index and growth engine.
package systems

import (
	"github.com/pthm-cable/hyphae/components"
	"github.com/pthm-cable/hyphae/geom"
)

// SpatialGrid buckets node indices by grid cell so overlap tests only look at
// the 3x3 block of cells around a candidate.
//
// The plane is unbounded: cells are keyed by coordinate rather than stored in
// a fixed array, so a play-area resize never invalidates the index.
// Neighbourhood queries are only complete while the sum of any two radii
// stays within the cell size.
type SpatialGrid struct {
	cellW, cellH float64
	cells        map[components.Cell][]int
	count        int
}

// NewSpatialGrid creates an empty grid with the given cell size.
func NewSpatialGrid(cellW, cellH float64) *SpatialGrid {
	return &SpatialGrid{
		cellW: cellW,
		cellH: cellH,
		cells: make(map[components.Cell][]int),
	}
}

// CellSize returns the cell width and height.
func (g *SpatialGrid) CellSize() (w, h float64) { return g.cellW, g.cellH }

// CellOf returns the cell containing p.
func (g *SpatialGrid) CellOf(p geom.Vec2) components.Cell {
	return components.CellOf(p, g.cellW, g.cellH)
}

// Clear removes all indices, keeping bucket allocations for reuse.
func (g *SpatialGrid) Clear() {
	for k, bucket := range g.cells {
		g.cells[k] = bucket[:0]
	}
	g.count = 0
}

// Insert records node index idx in cell.
func (g *SpatialGrid) Insert(idx int, cell components.Cell) {
	g.cells[cell] = append(g.cells[cell], idx)
	g.count++
}

// Len returns the number of indexed nodes.
func (g *SpatialGrid) Len() int { return g.count }

// QueryNeighborhoodInto appends to dst every index stored in cell or in one of
// its eight neighbours, and returns the extended slice.
// Reuse dst across calls to avoid allocations.
func (g *SpatialGrid) QueryNeighborhoodInto(dst []int, cell components.Cell) []int {
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			dst = append(dst, g.cells[components.Cell{X: cell.X + dx, Y: cell.Y + dy}]...)
		}
	}
	return dst
}

// QueryNeighborhood returns the indices in the 3x3 block around cell.
func (g *SpatialGrid) QueryNeighborhood(cell components.Cell) []int {
	return g.QueryNeighborhoodInto(nil, cell)
}
