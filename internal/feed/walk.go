package feed

import (
	"context"
	"time"

	"github.com/vovakirdan/geocoin/internal/core"
	"github.com/vovakirdan/geocoin/internal/grid"
	"github.com/vovakirdan/geocoin/internal/oracle"
)

// walkDirections are the headings a walk picks from.
var walkDirections = [...]core.Direction{core.DirNorth, core.DirSouth, core.DirEast, core.DirWest}

// Walk is a reproducible random walk: each step moves one tile in a heading
// chosen by the oracle, so the same oracle and start always trace the same
// path.
type Walk struct {
	Oracle   oracle.Oracle
	Start    grid.LatLng
	Step     float64 // Degrees per step, usually the tile size
	Interval time.Duration
	Steps    int // Stop after this many updates; 0 walks until cancelled
}

// Heading returns the direction of the n-th step.
func (w *Walk) Heading(n int) core.Direction {
	v := w.Oracle.Value(oracle.Key("walk", n))
	idx := int(v * float64(len(walkDirections)))
	if idx >= len(walkDirections) {
		idx = len(walkDirections) - 1
	}
	return walkDirections[idx]
}

// Subscribe implements Feed. The first update is the position after one
// step, not the start itself.
func (w *Walk) Subscribe(ctx context.Context, h Handler) *Subscription {
	loc := w.Start
	return Run(ctx, w.Interval, func(n int) (grid.LatLng, bool) {
		if w.Steps > 0 && n >= w.Steps {
			return grid.LatLng{}, false
		}
		di, dj := w.Heading(n).Delta()
		loc = grid.LatLng{
			Lat: loc.Lat + float64(di)*w.Step,
			Lng: loc.Lng + float64(dj)*w.Step,
		}
		return loc, true
	}, h)
}
