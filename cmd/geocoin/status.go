package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/geocoin/internal/app"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the saved session",
	Long: `Print the player state stored in the save slot: location, points,
wallet and the caches the player has opened.`,
	Args: cobra.NoArgs,
	Run:  runStatus,
}

func runStatus(_ *cobra.Command, _ []string) {
	cfg := loadConfig()
	store := openStore(cfg)
	defer store.Close()

	sess := openSession(app.NewWorld(cfg), store, log.New(io.Discard))
	e := sess.Engine
	s := e.Session()

	fmt.Printf("Slot:     %s\n", cfg.Storage.Slot)
	if !sess.Resumed {
		fmt.Println("          (no saved session, showing a fresh one)")
	}
	fmt.Printf("Player:   %s\n", cfg.Player.Name)
	fmt.Printf("Location: %s (cell %s)\n", s.Location, e.PlayerCell())
	fmt.Printf("Points:   %d\n", s.Points)
	fmt.Printf("Wallet:   %d coins\n", s.Coins)
	fmt.Printf("Moves:    %d\n", len(s.History))
	fmt.Println()

	entries := e.Store().Entries()
	if len(entries) == 0 {
		fmt.Println("No caches opened yet.")
		return
	}

	fmt.Printf("Opened caches (%d):\n", len(entries))
	fmt.Println()
	fmt.Printf("  %-12s  %-5s  %s\n", "Cache", "Value", "Coins")
	fmt.Printf("  %-12s  %-5s  %s\n", "-----", "-----", "-----")
	for _, entry := range entries {
		rec := entry.Record
		fmt.Printf("  %-12s  %-5d  %d\n", rec.Cell, rec.PointValue, rec.CoinCount)
	}
}
