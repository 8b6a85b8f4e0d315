package feed

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/vovakirdan/geocoin/internal/grid"
	"github.com/vovakirdan/geocoin/internal/oracle"
)

// Options carry what a factory may need to build a feed.
type Options struct {
	Oracle    oracle.Oracle
	Start     grid.LatLng
	TileSize  float64
	Interval  time.Duration
	TrackPath string
	Steps     int
}

// Factory builds a feed from options.
type Factory func(opts Options) (Feed, error)

var (
	factories = make(map[string]Factory)
	mu        sync.RWMutex
)

func init() {
	Register("walk", func(opts Options) (Feed, error) {
		if opts.Oracle == nil {
			return nil, errors.New("feed: walk needs an oracle")
		}
		return &Walk{
			Oracle:   opts.Oracle,
			Start:    opts.Start,
			Step:     opts.TileSize,
			Interval: opts.Interval,
			Steps:    opts.Steps,
		}, nil
	})

	Register("replay", func(opts Options) (Feed, error) {
		if opts.TrackPath == "" {
			return nil, errors.New("feed: replay needs a track file")
		}
		track, err := LoadTrack(opts.TrackPath)
		if err != nil {
			return nil, err
		}
		if opts.Steps > 0 && opts.Steps < len(track) {
			track = track[:opts.Steps]
		}
		return &Replay{Track: track, Interval: opts.Interval}, nil
	})
}

// Register adds a feed factory under name.
// Panics if the name is already registered.
func Register(name string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[name]; exists {
		panic(fmt.Sprintf("feed: %q already registered", name))
	}
	factories[name] = f
}

// Create builds the feed registered under name.
func Create(name string, opts Options) (Feed, error) {
	mu.RLock()
	f, ok := factories[name]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("feed: unknown feed %q", name)
	}
	return f(opts)
}

// List returns the registered feed names, sorted.
func List() []string {
	mu.RLock()
	defer mu.RUnlock()

	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Exists reports whether a feed is registered under name.
func Exists(name string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[name]
	return ok
}
