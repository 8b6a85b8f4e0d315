// Package grid defines the discrete coordinate model of the world: geographic
// locations, the tile cells they fall into, and the token identities anchored
// to those cells.
package grid

import (
	"fmt"
	"strconv"
	"strings"
)

// LatLng is a continuous geographic coordinate in degrees.
type LatLng struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lng float64 `json:"lng" yaml:"lng"`
}

// String returns a compact representation of the location.
func (l LatLng) String() string {
	return fmt.Sprintf("(%.6f,%.6f)", l.Lat, l.Lng)
}

// Cell is a discrete tile coordinate. I indexes latitude, J longitude.
type Cell struct {
	I int `json:"i"`
	J int `json:"j"`
}

// C is a convenience constructor for Cell.
func C(i, j int) Cell {
	return Cell{I: i, J: j}
}

// String returns the canonical key of the cell.
func (c Cell) String() string {
	return CellKey(c)
}

// Add returns the cell offset by (di, dj).
func (c Cell) Add(di, dj int) Cell {
	return Cell{I: c.I + di, J: c.J + dj}
}

// Chebyshev returns the king-move distance to another cell.
// A cell is inside a square scan window of radius r when the distance is <= r.
func (c Cell) Chebyshev(other Cell) int {
	di := c.I - other.I
	dj := c.J - other.J
	if di < 0 {
		di = -di
	}
	if dj < 0 {
		dj = -dj
	}
	if di > dj {
		return di
	}
	return dj
}

// CellKey returns the canonical "i:j" key used by the registry, the state
// store and the persisted blob.
func CellKey(c Cell) string {
	return strconv.Itoa(c.I) + ":" + strconv.Itoa(c.J)
}

// ParseCellKey is the inverse of CellKey.
func ParseCellKey(key string) (Cell, error) {
	is, js, ok := strings.Cut(key, ":")
	if !ok {
		return Cell{}, fmt.Errorf("grid: malformed cell key %q", key)
	}
	i, err := strconv.Atoi(is)
	if err != nil {
		return Cell{}, fmt.Errorf("grid: malformed cell key %q: %w", key, err)
	}
	j, err := strconv.Atoi(js)
	if err != nil {
		return Cell{}, fmt.Errorf("grid: malformed cell key %q: %w", key, err)
	}
	return Cell{I: i, J: j}, nil
}

// Token is one collectible unit minted by a cache at generation time.
// Its identity never changes; the economy only moves counts around.
type Token struct {
	Cell   Cell
	Serial int
}

// ID returns the stable "i:j#serial" identifier of the token.
func (t Token) ID() string {
	return CellKey(t.Cell) + "#" + strconv.Itoa(t.Serial)
}

// TokensOf enumerates the identities of n tokens minted at cell.
func TokensOf(c Cell, n int) []Token {
	if n <= 0 {
		return nil
	}
	tokens := make([]Token, n)
	for s := range n {
		tokens[s] = Token{Cell: c, Serial: s}
	}
	return tokens
}
