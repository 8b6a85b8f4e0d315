package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/geocoin/internal/app"
	"github.com/vovakirdan/geocoin/internal/feed"
	"github.com/vovakirdan/geocoin/internal/grid"
	"github.com/vovakirdan/geocoin/internal/platform/tui"
	"github.com/vovakirdan/geocoin/internal/storage"
)

var (
	flagPlayFeed string
	flagAutoFeed bool
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play in the terminal",
	Long: `Open the play screen on the saved session.

Controls:
  Arrows/hjkl  - Step one tile
  Tab/Shift+Tab - Select next/previous cache
  c / C        - Collect one / all coins from the selected cache
  d / D        - Deposit one / all coins into the selected cache
  f            - Toggle the location feed
  R R          - Reset the game (records your score)
  ?            - Show all keys
  q/Ctrl+C     - Quit

Logs go to the log file from the config, not the terminal.

Examples:
  geocoin play
  geocoin play --slot weekend
  geocoin play --feed walk --auto-feed`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagPlayFeed, "feed", "", "Location feed: "+feedNames()+" or none (overrides config)")
	playCmd.Flags().BoolVar(&flagAutoFeed, "auto-feed", false, "Start the feed right away")
}

func runPlay(_ *cobra.Command, _ []string) {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fatal("play needs a terminal; try 'geocoin walk' for headless play")
	}

	cfg := loadConfig()
	if flagPlayFeed != "" {
		cfg.Feed.Name = flagPlayFeed
	}

	logPath, err := storage.ExpandHome(cfg.Storage.LogFile)
	if err != nil {
		fatal("%v", err)
	}
	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		fatal("creating log directory: %v", err)
	}
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		fatal("opening log file: %v", err)
	}
	defer logFile.Close()
	logger := newLogger(logFile, "geocoin")

	store := openStore(cfg)
	defer store.Close()

	w := app.NewWorld(cfg)
	sess := openSession(w, store, logger)

	width, height := 80, 24 // Defaults
	if tw, th, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = tw
		height = th
	}

	opts := tui.Options{
		Title:    fmt.Sprintf("GEOCOIN · %s", cfg.Storage.Slot),
		AutoFeed: flagAutoFeed,
		Logger:   logger,
		Width:    width,
		Height:   height,
	}
	if cfg.Feed.Name != "" && cfg.Feed.Name != "none" {
		if !feed.Exists(cfg.Feed.Name) {
			fatal("unknown feed %q (available: %s)", cfg.Feed.Name, feedNames())
		}
		opts.Feed = func(from grid.LatLng) (feed.Feed, error) {
			return w.Feed(from, 0)
		}
	}

	if err := tui.Run(sess.Engine, opts); err != nil {
		fatal("%v", err)
	}
}
