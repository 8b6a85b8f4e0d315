package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/geocoin/internal/persist"
)

var exportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Write a compressed copy of the save",
	Long: `Write the save slot to a zstd-compressed archive that 'geocoin import'
can read back, on this machine or another.

Examples:
  geocoin export backup.geo
  geocoin export --slot weekend weekend.geo`,
	Args: cobra.ExactArgs(1),
	Run:  runExport,
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace the save with an exported copy",
	Long: `Read an archive written by 'geocoin export' into the save slot.
The archive is checked before anything is overwritten.

Examples:
  geocoin import backup.geo
  geocoin import --slot restored backup.geo`,
	Args: cobra.ExactArgs(1),
	Run:  runImport,
}

func runExport(_ *cobra.Command, args []string) {
	cfg := loadConfig()
	store := openStore(cfg)
	defer store.Close()

	blob, err := store.Load(context.Background(), cfg.Storage.Slot)
	if errors.Is(err, persist.ErrSlotEmpty) {
		fatal("slot %q has no saved session", cfg.Storage.Slot)
	}
	if err != nil {
		fatal("reading slot: %v", err)
	}

	out, err := os.Create(args[0])
	if err != nil {
		fatal("%v", err)
	}
	if err := persist.WriteArchive(out, blob); err != nil {
		out.Close()
		fatal("%v", err)
	}
	if err := out.Close(); err != nil {
		fatal("%v", err)
	}

	fmt.Printf("Exported slot %q to %s\n", cfg.Storage.Slot, args[0])
}

func runImport(_ *cobra.Command, args []string) {
	cfg := loadConfig()
	if !persist.ValidSlotName(cfg.Storage.Slot) {
		fatal("invalid slot name %q", cfg.Storage.Slot)
	}

	in, err := os.Open(args[0])
	if err != nil {
		fatal("%v", err)
	}
	blob, err := persist.ReadArchive(in)
	in.Close()
	if err != nil {
		fatal("%v", err)
	}

	session, entries, err := persist.Restore(blob)
	if err != nil {
		fatal("archive rejected: %v", err)
	}

	store := openStore(cfg)
	defer store.Close()
	if err := store.Save(context.Background(), cfg.Storage.Slot, blob); err != nil {
		fatal("writing slot: %v", err)
	}

	fmt.Printf("Imported %s into slot %q: %d points, %d coins, %d opened caches\n",
		args[0], cfg.Storage.Slot, session.Points, session.Coins, len(entries))
}
