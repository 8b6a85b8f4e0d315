package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/geocoin/internal/app"
)

var flagResetYes bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Start the saved session over",
	Long: `Reset the save slot: points and wallet go back to zero, every cache
returns to its generated state and the player returns to the start.

A session with points is recorded in the score history first.`,
	Args: cobra.NoArgs,
	Run:  runReset,
}

func init() {
	resetCmd.Flags().BoolVarP(&flagResetYes, "yes", "y", false, "Do not ask for confirmation")
}

func runReset(_ *cobra.Command, _ []string) {
	cfg := loadConfig()
	logger := newLogger(os.Stderr, "geocoin")
	store := openStore(cfg)
	defer store.Close()

	sess := openSession(app.NewWorld(cfg), store, logger)
	s := sess.Engine.Session()

	if !flagResetYes {
		fmt.Printf("Reset slot %q with %d points and %d coins? [y/N] ", cfg.Storage.Slot, s.Points, s.Coins)
		var answer string
		_, _ = fmt.Scanln(&answer)
		if answer != "y" && answer != "Y" && answer != "yes" {
			fmt.Println("Aborted.")
			return
		}
	}

	sess.Engine.Reset()
	if s.Points > 0 {
		fmt.Printf("Recorded a score of %d for %s.\n", s.Points, cfg.Player.Name)
	}
	fmt.Printf("Slot %q reset.\n", cfg.Storage.Slot)
}
