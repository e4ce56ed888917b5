package main

const (
	SpatialCellSize = 80.0 // matches the special attack radius
	SpatialCols     = 30   // ceil(WorldMaxX / SpatialCellSize)
	SpatialRows     = 15   // ceil(WorldMaxY / SpatialCellSize)
)

// Entity kinds stored in the grid
const (
	KindPlayer byte = 'p'
	KindPickup byte = 'k'
)

// EntityRef identifies an entity in the grid
type EntityRef struct {
	Kind byte
	Idx  int // index into the snapshot slice the grid was built from
}

// SpatialGrid is a fixed-size grid for broad-phase hit queries
type SpatialGrid struct {
	cells [SpatialCols * SpatialRows][]EntityRef
}

// Clear resets all cells (keeps allocated capacity)
func (g *SpatialGrid) Clear() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
}

func cellCoord(v float64, n int) int {
	c := int(v / SpatialCellSize)
	if c < 0 {
		return 0
	}
	if c >= n {
		return n - 1
	}
	return c
}

// Insert adds a point entity to the cell containing (x, y)
func (g *SpatialGrid) Insert(x, y float64, ref EntityRef) {
	idx := cellCoord(y, SpatialRows)*SpatialCols + cellCoord(x, SpatialCols)
	g.cells[idx] = append(g.cells[idx], ref)
}

// QueryBuf appends every ref in cells overlapping the square of half-size
// radius around (x, y) to buf. Each point entity is returned at most once.
func (g *SpatialGrid) QueryBuf(x, y, radius float64, buf []EntityRef) []EntityRef {
	minCX := cellCoord(x-radius, SpatialCols)
	maxCX := cellCoord(x+radius, SpatialCols)
	minCY := cellCoord(y-radius, SpatialRows)
	maxCY := cellCoord(y+radius, SpatialRows)
	for cy := minCY; cy <= maxCY; cy++ {
		for cx := minCX; cx <= maxCX; cx++ {
			buf = append(buf, g.cells[cy*SpatialCols+cx]...)
		}
	}
	return buf
}
