// Package cache decides where caches exist and what they hold when first
// generated. Generation is pure: it reads only the oracle and the cell
// indices, so the world can be rebuilt at any time and come out identical.
package cache

import (
	"fmt"
	"math"

	"github.com/vovakirdan/geocoin/internal/grid"
	"github.com/vovakirdan/geocoin/internal/oracle"
)

// Params configures cache generation.
type Params struct {
	SpawnProbability float64 // Chance that a cell holds a cache, in (0, 1]
	PointScale       int     // pointValue = floor(v * PointScale)
	CoinScale        int     // coinCount = floor(v * CoinScale)
}

// DefaultParams returns the standard generation parameters.
func DefaultParams() Params {
	return Params{
		SpawnProbability: 0.1,
		PointScale:       100,
		CoinScale:        10,
	}
}

// Record is the economic state of one cache.
// PointValue is fixed at generation; CoinCount moves with play.
type Record struct {
	Cell       grid.Cell `json:"cell"`
	PointValue int       `json:"pointValue"`
	CoinCount  int       `json:"coinCount"`
}

// Equal reports whether two records are field-by-field equal.
func (r Record) Equal(other Record) bool {
	return r == other
}

// UnknownCellError reports a lookup for a cell that has no cache.
// The generator is total over all cells, so seeing this means a caller asked
// about a cell it never checked with Exists.
type UnknownCellError struct {
	Cell grid.Cell
}

func (e *UnknownCellError) Error() string {
	return fmt.Sprintf("cache: no cache at cell %s", e.Cell)
}

// Generator answers existence and initial-value questions for cells.
type Generator struct {
	oracle oracle.Oracle
	params Params
}

// NewGenerator creates a generator backed by the given oracle.
func NewGenerator(o oracle.Oracle, p Params) *Generator {
	return &Generator{oracle: o, params: p}
}

// Params returns the generation parameters.
func (g *Generator) Params() Params {
	return g.params
}

// ExistenceKey is the oracle key deciding whether a cell holds a cache.
func ExistenceKey(c grid.Cell) string {
	return oracle.Key(c.I, c.J)
}

// ValueKey is the oracle key for a cache's point value.
func ValueKey(c grid.Cell) string {
	return oracle.Key(c.I, c.J, oracle.TagInitialValue)
}

// CoinKey is the oracle key for a cache's initial coin count.
func CoinKey(c grid.Cell) string {
	return oracle.Key(c.I, c.J, oracle.TagCoinCount)
}

// Exists reports whether the cell holds a cache.
func (g *Generator) Exists(c grid.Cell) bool {
	return g.oracle.Value(ExistenceKey(c)) < g.params.SpawnProbability
}

// InitialRecord derives the freshly generated state of the cell's cache.
// It does not check Exists; callers scan first.
func (g *Generator) InitialRecord(c grid.Cell) Record {
	return Record{
		Cell:       c,
		PointValue: scale(g.oracle.Value(ValueKey(c)), g.params.PointScale),
		CoinCount:  scale(g.oracle.Value(CoinKey(c)), g.params.CoinScale),
	}
}

// Lookup returns the initial record, or UnknownCellError when no cache
// exists at the cell.
func (g *Generator) Lookup(c grid.Cell) (Record, error) {
	if !g.Exists(c) {
		return Record{}, &UnknownCellError{Cell: c}
	}
	return g.InitialRecord(c), nil
}

// Tokens returns the identities of the coins minted by the cache at
// generation time.
func (g *Generator) Tokens(c grid.Cell) []grid.Token {
	return grid.TokensOf(c, g.InitialRecord(c).CoinCount)
}

// scale maps an oracle value in [0, 1) onto [0, n).
func scale(v float64, n int) int {
	if n <= 0 {
		return 0
	}
	s := int(math.Floor(v * float64(n)))
	// Guard against a misbehaving oracle returning exactly 1.
	if s >= n {
		s = n - 1
	}
	if s < 0 {
		s = 0
	}
	return s
}
