// geocoin is a location-based coin collecting game for the terminal.
//
// Usage:
//
//	geocoin play             - Play in the terminal
//	geocoin serve            - Start SSH server for remote play
//	geocoin list             - List location feeds and saved slots
//	geocoin scan [lat lng]   - List caches around a location
//	geocoin status           - Show the saved session
//	geocoin collect <cell>   - Collect coins from a nearby cache
//	geocoin deposit <cell>   - Deposit coins into a nearby cache
//	geocoin walk             - Drive the session from a location feed
//	geocoin reset            - Start the saved session over
//	geocoin export <file>    - Write a compressed copy of the save
//	geocoin import <file>    - Replace the save with an exported copy
//	geocoin scores           - Show the score history
//
// Global flags:
//
//	--config <path>    - Config file (default: ~/.geocoin/config.yaml)
//	--db <path>        - Database path (default: ~/.geocoin/geocoin.db)
//	--slot <name>      - Save slot (default: default)
//	--log-level <lvl>  - debug, info, warn or error
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/geocoin/internal/app"
	"github.com/vovakirdan/geocoin/internal/config"
	"github.com/vovakirdan/geocoin/internal/storage"
)

var (
	// Global flags
	flagConfig   string
	flagDBPath   string
	flagSlot     string
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "geocoin",
	Short: "geocoin - collect coins hidden around the world",
	Long: `geocoin is a location-based game. The world is split into small
tiles and some tiles hold a cache of coins. Walk around, collect coins to
earn points and deposit them into other caches.

The world is generated from a seed, so everyone with the same config sees
the same caches. Your session is saved after every move.

Examples:
  geocoin play
  geocoin scan 36.9895 -122.0628
  geocoin walk --steps 50
  geocoin serve --ssh :2222`,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to database (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagSlot, "slot", "", "Save slot name (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	// Add subcommands
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(collectCmd)
	rootCmd.AddCommand(depositCmd)
	rootCmd.AddCommand(walkCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(scoresCmd)
}

// fatal prints an error and exits.
func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

// loadConfig loads the config and applies the global flag overrides.
func loadConfig() config.Config {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		fatal("%v", err)
	}
	if flagDBPath != "" {
		cfg.Storage.DBPath = flagDBPath
	}
	if flagSlot != "" {
		cfg.Storage.Slot = flagSlot
	}
	return cfg
}

// newLogger creates a logger at the level given by --log-level.
func newLogger(w io.Writer, prefix string) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		fatal("%v", err)
	}
	logger.SetLevel(level)
	return logger
}

// openStore opens the database named by the config.
func openStore(cfg config.Config) *storage.Store {
	store, err := storage.Open(cfg.Storage.DBPath)
	if err != nil {
		fatal("opening database: %v", err)
	}
	return store
}

// openSession opens the configured slot of the local player.
func openSession(w *app.World, store *storage.Store, logger *log.Logger) *app.Session {
	cfg := w.Config
	sess, err := w.OpenSession(context.Background(), app.SessionOptions{
		Slot:     store,
		SlotName: cfg.Storage.Slot,
		Player:   cfg.Player.Name,
		Scores:   store,
		Logger:   logger,
	})
	if err != nil {
		fatal("%v", err)
	}
	return sess
}
