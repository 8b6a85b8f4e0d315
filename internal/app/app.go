// Package app assembles engines from configuration. The world parts are
// shared; every player gets their own engine, store and save slot.
package app

import (
	"context"
	"fmt"
	"io"
	"regexp"

	"github.com/cespare/xxhash/v2"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/geocoin/internal/cache"
	"github.com/vovakirdan/geocoin/internal/config"
	"github.com/vovakirdan/geocoin/internal/feed"
	"github.com/vovakirdan/geocoin/internal/grid"
	"github.com/vovakirdan/geocoin/internal/memento"
	"github.com/vovakirdan/geocoin/internal/oracle"
	"github.com/vovakirdan/geocoin/internal/persist"
	"github.com/vovakirdan/geocoin/internal/world"
)

// World holds the parts every session of one world shares.
type World struct {
	Config    config.Config
	Oracle    oracle.Oracle
	Registry  *grid.Registry
	Generator *cache.Generator
}

// NewWorld builds the shared world from a validated config.
func NewWorld(cfg config.Config) *World {
	o := oracle.New(cfg.World.Seed)
	return &World{
		Config:    cfg,
		Oracle:    o,
		Registry:  grid.NewRegistry(cfg.World.TileSize),
		Generator: cache.NewGenerator(o, cfg.World.Params()),
	}
}

// Session is one player's engine bound to its save slot.
type Session struct {
	Engine  *world.Engine
	Manager *persist.Manager
	Resumed bool
}

// SessionOptions select the slot and the identity of a session.
type SessionOptions struct {
	Slot     persist.Slot
	SlotName string
	Player   string
	Scores   world.ScoreRecorder // nil disables score history
	Logger   *log.Logger         // nil discards
}

// OpenSession creates an engine and resumes it from its slot when a valid
// save exists. A missing or corrupt save leaves a fresh session.
func (w *World) OpenSession(ctx context.Context, opts SessionOptions) (*Session, error) {
	if !persist.ValidSlotName(opts.SlotName) {
		return nil, fmt.Errorf("app: invalid slot name %q", opts.SlotName)
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	mgr := persist.NewManager(opts.Slot, opts.SlotName, logger)
	e := world.NewEngine(world.Deps{
		Registry:  w.Registry,
		Generator: w.Generator,
		Store:     memento.New(),
		Saver:     mgr,
		Scores:    opts.Scores,
		Logger:    logger,
	}, world.Options{
		Radius: w.Config.World.Radius,
		Start:  w.Config.Player.Start(),
		Player: opts.Player,
	})

	resumed := mgr.Resume(ctx, e)
	return &Session{Engine: e, Manager: mgr, Resumed: resumed}, nil
}

// Feed builds the configured location feed starting at from.
// Returns nil without error when the feed is "none" or empty.
func (w *World) Feed(from grid.LatLng, steps int) (feed.Feed, error) {
	name := w.Config.Feed.Name
	if name == "" || name == "none" {
		return nil, nil
	}
	return feed.Create(name, feed.Options{
		Oracle:    w.Oracle,
		Start:     from,
		TileSize:  w.Config.World.TileSize,
		Interval:  w.Config.Feed.Interval,
		TrackPath: w.Config.Feed.Track,
		Steps:     steps,
	})
}

var unsafeSlotChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

const (
	slotPrefix     = "user-"
	maxSlotNameLen = 64
)

// SlotForUser derives a save slot name from a login name. A login that had
// to be altered to fit a slot name gets a hash of the original appended, so
// two logins never share a slot.
func SlotForUser(user string) string {
	name := slotPrefix + unsafeSlotChars.ReplaceAllString(user, "_")
	if name == slotPrefix+user && len(name) <= maxSlotNameLen {
		return name
	}
	suffix := fmt.Sprintf("-%016x", xxhash.Sum64String(user))
	if len(name) > maxSlotNameLen-len(suffix) {
		name = name[:maxSlotNameLen-len(suffix)]
	}
	return name + suffix
}
