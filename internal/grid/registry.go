package grid

import (
	"fmt"
	"math"
	"sync"
)

// DefaultTileSize is the width of a cell in degrees.
const DefaultTileSize = 1e-4

// Registry interns cells so repeated lookups of the same (i, j) return the
// same instance. It lives for the whole process and never evicts.
// Safe for concurrent use; the SSH server shares one registry between
// sessions.
type Registry struct {
	tileSize float64

	mu    sync.RWMutex
	cells map[string]*Cell
}

// NewRegistry creates a registry for the given tile size.
// Panics if tileSize is not positive, since every cell index would be
// meaningless.
func NewRegistry(tileSize float64) *Registry {
	if tileSize <= 0 || math.IsNaN(tileSize) || math.IsInf(tileSize, 0) {
		panic(fmt.Sprintf("grid: invalid tile size %v", tileSize))
	}
	return &Registry{
		tileSize: tileSize,
		cells:    make(map[string]*Cell),
	}
}

// TileSize returns the configured cell width in degrees.
func (r *Registry) TileSize() float64 {
	return r.tileSize
}

// Canonicalize returns the cell containing the location.
func (r *Registry) Canonicalize(loc LatLng) Cell {
	i := int(math.Floor(loc.Lat / r.tileSize))
	j := int(math.Floor(loc.Lng / r.tileSize))
	return r.OfCellIndex(i, j)
}

// OfCellIndex returns the interned cell for (i, j).
func (r *Registry) OfCellIndex(i, j int) Cell {
	return *r.intern(i, j)
}

// Ref returns the shared pointer for (i, j). Two calls with the same indices
// return the same pointer.
func (r *Registry) Ref(i, j int) *Cell {
	return r.intern(i, j)
}

func (r *Registry) intern(i, j int) *Cell {
	key := CellKey(Cell{I: i, J: j})

	r.mu.RLock()
	c, ok := r.cells[key]
	r.mu.RUnlock()
	if ok {
		return c
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	// Re-check in case another session interned it first.
	if c, ok = r.cells[key]; ok {
		return c
	}
	c = &Cell{I: i, J: j}
	r.cells[key] = c
	return c
}

// Len returns the number of interned cells.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.cells)
}

// Center returns the midpoint of the cell.
func (r *Registry) Center(c Cell) LatLng {
	return LatLng{
		Lat: (float64(c.I) + 0.5) * r.tileSize,
		Lng: (float64(c.J) + 0.5) * r.tileSize,
	}
}
