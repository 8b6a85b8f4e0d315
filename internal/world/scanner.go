// Package world runs a game session: it scans the neighborhood around the
// player, merges generated caches with player-made overrides, applies the
// coin economy and hands every mutation to a saver.
package world

import (
	"github.com/vovakirdan/geocoin/internal/cache"
	"github.com/vovakirdan/geocoin/internal/grid"
)

// Scanner enumerates the caches inside a square window around a cell.
type Scanner struct {
	registry *grid.Registry
	gen      *cache.Generator
}

// NewScanner creates a scanner. Cells it returns are interned in registry.
func NewScanner(registry *grid.Registry, gen *cache.Generator) *Scanner {
	return &Scanner{registry: registry, gen: gen}
}

// ActiveCaches returns every cell within radius (inclusive, Chebyshev
// distance) of center that holds a cache, in row-major order.
// The result is freshly computed on every call.
func (s *Scanner) ActiveCaches(center grid.Cell, radius int) []grid.Cell {
	if radius < 0 {
		return nil
	}

	var cells []grid.Cell
	for i := center.I - radius; i <= center.I+radius; i++ {
		for j := center.J - radius; j <= center.J+radius; j++ {
			c := s.registry.OfCellIndex(i, j)
			if s.gen.Exists(c) {
				cells = append(cells, c)
			}
		}
	}
	return cells
}
