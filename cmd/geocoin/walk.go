package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/geocoin/internal/app"
	"github.com/vovakirdan/geocoin/internal/grid"
)

var (
	flagWalkFeed     string
	flagWalkSteps    int
	flagWalkInterval time.Duration
	flagWalkCollect  bool
)

var walkCmd = &cobra.Command{
	Use:   "walk",
	Short: "Drive the saved session from a location feed",
	Long: `Play without a screen: a location feed moves the player and every
update is saved, exactly as in the play screen.

With --collect, every coin of a cache in the player's own cell is picked
up on arrival.

Examples:
  geocoin walk --steps 50
  geocoin walk --feed replay --steps 0
  geocoin walk --interval 100ms --collect`,
	Args: cobra.NoArgs,
	Run:  runWalk,
}

func init() {
	walkCmd.Flags().StringVar(&flagWalkFeed, "feed", "walk", "Location feed: "+feedNames())
	walkCmd.Flags().IntVar(&flagWalkSteps, "steps", 20, "Stop after this many updates (0 runs until the feed ends or Ctrl+C)")
	walkCmd.Flags().DurationVar(&flagWalkInterval, "interval", 0, "Delay between updates (default: from config)")
	walkCmd.Flags().BoolVar(&flagWalkCollect, "collect", false, "Collect every coin in the player's cell")
}

func runWalk(_ *cobra.Command, _ []string) {
	cfg := loadConfig()
	cfg.Feed.Name = flagWalkFeed
	if flagWalkInterval > 0 {
		cfg.Feed.Interval = flagWalkInterval
	}
	if cfg.Feed.Name == "none" {
		fatal("walk needs a feed (available: %s)", feedNames())
	}

	logger := newLogger(os.Stderr, "geocoin")
	store := openStore(cfg)
	defer store.Close()

	w := app.NewWorld(cfg)
	sess := openSession(w, store, logger)
	e := sess.Engine
	before := e.Session()

	f, err := w.Feed(before.Location, flagWalkSteps)
	if err != nil {
		fatal("%v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	moves, collected := 0, 0
	sub := f.Subscribe(ctx, func(loc grid.LatLng) {
		e.MoveTo(loc)
		moves++
		here := e.PlayerCell()
		logger.Info("moved", "cell", here, "caches", len(e.Caches()))

		if !flagWalkCollect {
			return
		}
		view, viewErr := e.Cache(here)
		if viewErr != nil || view.Record.CoinCount == 0 {
			return
		}
		n := view.Record.CoinCount
		if e.Collect(here, n) {
			collected += n
			logger.Info("collected", "cell", here, "coins", n)
		}
	})
	sub.Wait()

	after := e.Session()
	fmt.Println()
	fmt.Printf("Moves:     %d\n", moves)
	fmt.Printf("Now at:    %s (cell %s)\n", after.Location, e.PlayerCell())
	fmt.Printf("Collected: %d coins\n", collected)
	fmt.Printf("Points:    %d (%+d)\n", after.Points, after.Points-before.Points)
	fmt.Printf("Wallet:    %d coins\n", after.Coins)
}
