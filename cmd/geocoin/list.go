package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/geocoin/internal/feed"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List location feeds and saved slots",
	Long:  `Shows the registered location feeds and the save slots in the database.`,
	Args:  cobra.NoArgs,
	Run:   runList,
}

// feedNames returns the registered feed names joined for help text.
func feedNames() string {
	return strings.Join(feed.List(), ", ")
}

func runList(_ *cobra.Command, _ []string) {
	cfg := loadConfig()

	fmt.Println("Location feeds:")
	fmt.Println()
	for _, name := range feed.List() {
		marker := " "
		if name == cfg.Feed.Name {
			marker = "*"
		}
		fmt.Printf("  %s %s\n", marker, name)
	}
	fmt.Println()

	store := openStore(cfg)
	defer store.Close()

	slots, err := store.Slots(context.Background())
	if err != nil {
		fatal("listing slots: %v", err)
	}
	if len(slots) == 0 {
		fmt.Println("No saved slots.")
		return
	}

	fmt.Println("Saved slots:")
	fmt.Println()

	// Calculate column widths
	maxNameLen := 4 // "Slot" header
	for _, s := range slots {
		if len(s.Name) > maxNameLen {
			maxNameLen = len(s.Name)
		}
	}

	fmt.Printf("  %-*s  %-8s  %s\n", maxNameLen, "Slot", "Size", "Updated")
	fmt.Printf("  %-*s  %-8s  %s\n", maxNameLen, "----", "----", "-------")
	for _, s := range slots {
		fmt.Printf("  %-*s  %-8d  %s\n", maxNameLen, s.Name, s.Size, s.UpdatedAt.Format("2006-01-02 15:04"))
	}

	fmt.Println()
	fmt.Println("Run 'geocoin play --slot <name>' to continue a slot.")
}
