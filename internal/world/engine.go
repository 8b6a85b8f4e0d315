package world

import (
	"errors"
	"io"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/geocoin/internal/cache"
	"github.com/vovakirdan/geocoin/internal/core"
	"github.com/vovakirdan/geocoin/internal/grid"
	"github.com/vovakirdan/geocoin/internal/memento"
)

// DefaultRadius is the half-width of the scan window in cells.
const DefaultRadius = 8

// Deps are the collaborators an engine is built from.
// Registry and Generator are required; the rest are optional.
type Deps struct {
	Registry  *grid.Registry
	Generator *cache.Generator
	Store     *memento.Store // nil creates an empty store
	Saver     Saver          // nil disables persistence
	Scores    ScoreRecorder  // nil disables score history
	Logger    *log.Logger    // nil discards logs
}

// Options tune an engine.
type Options struct {
	Radius int         // Scan window half-width, in cells
	Start  grid.LatLng // Location of a fresh or reset session
	Player string      // Name used for score history
}

// Engine owns one game session. Every operation runs to completion before
// returning and the engine is not safe for concurrent use; shells serialize
// key presses and location updates into a single event loop.
type Engine struct {
	registry *grid.Registry
	gen      *cache.Generator
	store    *memento.Store
	scanner  *Scanner
	saver    Saver
	scores   ScoreRecorder
	logger   *log.Logger
	opts     Options

	session Session
	active  []grid.Cell
}

// NewEngine creates an engine with a fresh session at opts.Start.
func NewEngine(deps Deps, opts Options) *Engine {
	store := deps.Store
	if store == nil {
		store = memento.New()
	}
	logger := deps.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if opts.Radius < 0 {
		opts.Radius = 0
	}

	e := &Engine{
		registry: deps.Registry,
		gen:      deps.Generator,
		store:    store,
		scanner:  NewScanner(deps.Registry, deps.Generator),
		saver:    deps.Saver,
		scores:   deps.Scores,
		logger:   logger,
		opts:     opts,
		session:  NewSession(opts.Start),
	}
	e.rescan()
	return e
}

// Restore installs a previously saved session and its overrides.
// Nothing is persisted; the data just came from storage.
func (e *Engine) Restore(session Session, entries []memento.Entry) error {
	if session.Coins < 0 || session.Points < 0 {
		return errors.New("world: restored session has negative totals")
	}
	if err := e.store.Restore(entries); err != nil {
		return err
	}
	e.session = session.Clone()
	e.rescan()
	e.logger.Debug("session restored",
		"cell", e.PlayerCell(),
		"overrides", e.store.Len(),
		"points", e.session.Points,
		"coins", e.session.Coins,
	)
	return nil
}

// Session returns a copy of the player state.
func (e *Engine) Session() Session {
	return e.session.Clone()
}

// Store exposes the override store, mainly for snapshots.
func (e *Engine) Store() *memento.Store {
	return e.store
}

// Registry returns the cell registry the engine canonicalizes with.
func (e *Engine) Registry() *grid.Registry {
	return e.registry
}

// Radius returns the scan window half-width.
func (e *Engine) Radius() int {
	return e.opts.Radius
}

// PlayerCell returns the cell the player stands in.
func (e *Engine) PlayerCell() grid.Cell {
	return e.registry.Canonicalize(e.session.Location)
}

// MoveTo handles a location update: the player jumps to loc, the location is
// appended to the history, the neighborhood is rescanned and the state saved.
func (e *Engine) MoveTo(loc grid.LatLng) {
	e.session.Location = loc
	e.session.History = append(e.session.History, loc)
	e.rescan()
	e.logger.Debug("moved", "location", loc, "cell", e.PlayerCell(), "caches", len(e.active))
	e.persist()
}

// MoveBy steps the player one tile in the given direction.
func (e *Engine) MoveBy(dir core.Direction) {
	di, dj := dir.Delta()
	if di == 0 && dj == 0 {
		return
	}
	tile := e.registry.TileSize()
	e.MoveTo(grid.LatLng{
		Lat: e.session.Location.Lat + float64(di)*tile,
		Lng: e.session.Location.Lng + float64(dj)*tile,
	})
}

// Caches returns the active caches around the player with their live state.
func (e *Engine) Caches() []CacheView {
	here := e.PlayerCell()
	views := make([]CacheView, 0, len(e.active))
	for _, c := range e.active {
		rec, opened := e.record(c)
		views = append(views, CacheView{
			Record:   rec,
			Opened:   opened,
			Distance: here.Chebyshev(c),
		})
	}
	return views
}

// Cache returns the live record of the cache at c.
func (e *Engine) Cache(c grid.Cell) (CacheView, error) {
	if _, ok := e.store.Get(c); !ok && !e.gen.Exists(c) {
		return CacheView{}, &cache.UnknownCellError{Cell: c}
	}
	rec, opened := e.record(c)
	return CacheView{Record: rec, Opened: opened, Distance: e.PlayerCell().Chebyshev(c)}, nil
}

// Tokens returns the identities of the coins the cache at c minted at
// generation. Deposits never add identities, so the list does not follow the
// live coin count.
func (e *Engine) Tokens(c grid.Cell) []grid.Token {
	return e.gen.Tokens(c)
}

// Open materializes the cache at c in the store, the way a popup does when
// the player first looks at it. Opening an already opened cache is a no-op.
func (e *Engine) Open(c grid.Cell) (cache.Record, error) {
	rec, created, err := e.materialize(c)
	if err != nil {
		return cache.Record{}, err
	}
	if created {
		e.persist()
	}
	return rec, nil
}

// Collect moves n coins from the cache at c into the wallet and awards the
// cache's point value per coin. Refused, returning false, when the cache
// holds fewer than n coins or n is not positive.
func (e *Engine) Collect(c grid.Cell, n int) bool {
	rec, created, err := e.materialize(c)
	if err != nil {
		e.logger.Error("collect on unknown cell", "err", err)
		return false
	}
	if n <= 0 || rec.CoinCount < n {
		e.refuse(&InsufficientFundsError{Op: "collect", Cell: c, Requested: n, Available: rec.CoinCount}, created)
		return false
	}

	rec.CoinCount -= n
	e.store.Put(rec)
	e.session.Coins += n
	e.session.Points += n * rec.PointValue

	e.logger.Debug("collected", "cell", c, "coins", n, "cache_left", rec.CoinCount, "wallet", e.session.Coins)
	e.persist()
	return true
}

// Deposit moves n coins from the wallet into the cache at c. Points are
// untouched. Refused when the wallet holds fewer than n coins.
func (e *Engine) Deposit(c grid.Cell, n int) bool {
	rec, created, err := e.materialize(c)
	if err != nil {
		e.logger.Error("deposit on unknown cell", "err", err)
		return false
	}
	if n <= 0 || e.session.Coins < n {
		e.refuse(&InsufficientFundsError{Op: "deposit", Cell: c, Requested: n, Available: e.session.Coins}, created)
		return false
	}

	rec.CoinCount += n
	e.store.Put(rec)
	e.session.Coins -= n

	e.logger.Debug("deposited", "cell", c, "coins", n, "cache_now", rec.CoinCount, "wallet", e.session.Coins)
	e.persist()
	return true
}

// Reset records the final score, drops every override and returns the
// player to a zeroed session at the start location.
func (e *Engine) Reset() {
	if e.scores != nil && e.session.Points > 0 {
		if _, err := e.scores.SaveScore(e.opts.Player, e.session.Points); err != nil {
			e.logger.Warn("could not record score", "err", err)
		}
	}

	e.store.Clear()
	e.session = NewSession(e.opts.Start)
	e.rescan()
	e.logger.Info("session reset", "cell", e.PlayerCell())
	e.persist()
}

// record merges the store override with the generated initial state.
func (e *Engine) record(c grid.Cell) (cache.Record, bool) {
	if rec, ok := e.store.Get(c); ok {
		return rec, true
	}
	return e.gen.InitialRecord(c), false
}

// materialize returns the override for c, creating it from the generator on
// first touch. created reports whether the store gained an entry.
func (e *Engine) materialize(c grid.Cell) (rec cache.Record, created bool, err error) {
	if rec, ok := e.store.Get(c); ok {
		return rec, false, nil
	}
	rec, err = e.gen.Lookup(c)
	if err != nil {
		return cache.Record{}, false, err
	}
	e.store.Put(rec)
	return rec, true, nil
}

func (e *Engine) rescan() {
	e.active = e.scanner.ActiveCaches(e.PlayerCell(), e.opts.Radius)
}

// refuse logs a rejected economy move. The cache may still have been opened
// by the attempt, in which case that is saved.
func (e *Engine) refuse(err *InsufficientFundsError, opened bool) {
	e.logger.Debug("economy move refused", "err", err)
	if opened {
		e.persist()
	}
}

func (e *Engine) persist() {
	if e.saver == nil {
		return
	}
	if err := e.saver.Save(e.session.Clone(), e.store); err != nil {
		e.logger.Warn("could not save session", "err", err)
	}
}
