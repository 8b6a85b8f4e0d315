package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/geocoin/internal/app"
	"github.com/vovakirdan/geocoin/internal/grid"
	"github.com/vovakirdan/geocoin/internal/world"
)

var flagScanRadius int

var scanCmd = &cobra.Command{
	Use:   "scan [lat lng]",
	Short: "List caches around a location",
	Long: `List the caches within the scan radius of a location.

Without arguments the saved player location is used. Coin counts include
what you collected or deposited in the saved slot. Scanning never moves
the player or changes the save.

Examples:
  geocoin scan
  geocoin scan 36.9895 -122.0628
  geocoin scan --radius 3`,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) != 0 && len(args) != 2 {
			return fmt.Errorf("accepts 0 or 2 arg(s), received %d", len(args))
		}
		return nil
	},
	Run: runScan,
}

func init() {
	scanCmd.Flags().IntVar(&flagScanRadius, "radius", 0, "Scan radius in cells (default: from config)")
}

func runScan(_ *cobra.Command, args []string) {
	cfg := loadConfig()
	store := openStore(cfg)
	defer store.Close()

	w := app.NewWorld(cfg)
	sess := openSession(w, store, log.New(io.Discard))

	center := sess.Engine.Session().Location
	if len(args) == 2 {
		loc, err := parseLatLng(args[0], args[1])
		if err != nil {
			fatal("%v", err)
		}
		center = loc
	}

	radius := cfg.World.Radius
	if flagScanRadius > 0 {
		radius = flagScanRadius
	}

	here := w.Registry.Canonicalize(center)
	cells := world.NewScanner(w.Registry, w.Generator).ActiveCaches(here, radius)

	fmt.Printf("Caches within %d cells of %s (cell %s)\n", radius, center, here)
	fmt.Println()

	if len(cells) == 0 {
		fmt.Println("No caches found.")
		return
	}

	fmt.Printf("  %-12s  %-4s  %-5s  %-5s  %-6s  %s\n", "Cache", "Dist", "Value", "Coins", "State", "Location")
	fmt.Printf("  %-12s  %-4s  %-5s  %-5s  %-6s  %s\n", "-----", "----", "-----", "-----", "-----", "--------")

	for _, c := range cells {
		view, err := sess.Engine.Cache(c)
		if err != nil {
			continue
		}
		state := "new"
		if view.Opened {
			state = "opened"
		}
		fmt.Printf("  %-12s  %-4d  %-5d  %-5d  %-6s  %s\n",
			c, here.Chebyshev(c), view.Record.PointValue, view.Record.CoinCount, state, w.Registry.Center(c))
	}
}

// parseLatLng parses a latitude and longitude pair in degrees.
func parseLatLng(latStr, lngStr string) (grid.LatLng, error) {
	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil || lat < -90 || lat > 90 {
		return grid.LatLng{}, fmt.Errorf("invalid latitude %q", latStr)
	}
	lng, err := strconv.ParseFloat(lngStr, 64)
	if err != nil || lng < -180 || lng > 180 {
		return grid.LatLng{}, fmt.Errorf("invalid longitude %q", lngStr)
	}
	return grid.LatLng{Lat: lat, Lng: lng}, nil
}
