package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/geocoin/internal/platform/tui"
)

var (
	flagScoresPlayer      string
	flagScoresAll         bool
	flagScoresInteractive bool
	flagScoresClear       bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show the score history",
	Long: `Display the best recorded scores. A score is recorded whenever a
session with points is reset.

Examples:
  geocoin scores
  geocoin scores --all
  geocoin scores --player alice
  geocoin scores -i`,
	Args: cobra.NoArgs,
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().StringVar(&flagScoresPlayer, "player", "", "Player name (default: from config)")
	scoresCmd.Flags().BoolVar(&flagScoresAll, "all", false, "Show every player")
	scoresCmd.Flags().BoolVarP(&flagScoresInteractive, "interactive", "i", false, "Browse scores in a table")
	scoresCmd.Flags().BoolVar(&flagScoresClear, "clear", false, "Delete the player's score history")
}

func runScores(_ *cobra.Command, _ []string) {
	cfg := loadConfig()
	player := cfg.Player.Name
	if flagScoresPlayer != "" {
		player = flagScoresPlayer
	}

	store := openStore(cfg)
	defer store.Close()

	if flagScoresClear {
		if err := store.ClearScores(player); err != nil {
			fatal("clearing scores: %v", err)
		}
		fmt.Printf("Cleared scores of %s.\n", player)
		return
	}

	if flagScoresInteractive {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			fatal("--interactive needs a terminal")
		}
		width, height := 80, 24 // Defaults
		if tw, th, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
			width = tw
			height = th
		}
		if err := tui.RunScoreboard(store, player, width, height); err != nil {
			fatal("%v", err)
		}
		return
	}

	filter := player
	if flagScoresAll {
		filter = ""
	}
	scores, err := store.TopScores(filter, 10)
	if err != nil {
		fatal("retrieving scores: %v", err)
	}

	if filter == "" {
		fmt.Println("High Scores - everyone")
	} else {
		fmt.Printf("High Scores - %s\n", player)
	}
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Println("Scores are recorded when you reset a session with points.")
		return
	}

	// Print header
	fmt.Printf("  %-4s  %-16s  %-10s  %s\n", "Rank", "Player", "Score", "Date")
	fmt.Printf("  %-4s  %-16s  %-10s  %s\n", "----", "------", "-----", "----")

	for i, entry := range scores {
		dateStr := entry.CreatedAt.Format("2006-01-02 15:04")
		fmt.Printf("  %-4d  %-16s  %-10d  %s\n", i+1, entry.Player, entry.Score, dateStr)
	}

	if filter != "" {
		best, err := store.HighScore(player)
		if err == nil {
			fmt.Println()
			fmt.Printf("Best: %d\n", best)
		}
	}
}
