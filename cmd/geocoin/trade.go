package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/geocoin/internal/app"
	"github.com/vovakirdan/geocoin/internal/grid"
	"github.com/vovakirdan/geocoin/internal/world"
)

var flagTradeCount int

var collectCmd = &cobra.Command{
	Use:   "collect <cell>",
	Short: "Collect coins from a nearby cache",
	Long: `Move coins from a cache within the scan radius into the wallet.
Each coin earns the cache's point value. A count of 0 takes them all.

The cell is given as i:j, as printed by 'geocoin scan'.

Examples:
  geocoin collect 369894:-1220628
  geocoin collect 369894:-1220628 --count 2`,
	Args: cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		runTrade(args[0], true)
	},
}

var depositCmd = &cobra.Command{
	Use:   "deposit <cell>",
	Short: "Deposit coins into a nearby cache",
	Long: `Move coins from the wallet into a cache within the scan radius.
Points are not affected. A count of 0 deposits the whole wallet.

Examples:
  geocoin deposit 369894:-1220628
  geocoin deposit 369894:-1220628 --count 1`,
	Args: cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		runTrade(args[0], false)
	},
}

func init() {
	collectCmd.Flags().IntVarP(&flagTradeCount, "count", "n", 1, "Number of coins (0 for all)")
	depositCmd.Flags().IntVarP(&flagTradeCount, "count", "n", 1, "Number of coins (0 for all)")
}

func runTrade(cellArg string, collect bool) {
	target, err := grid.ParseCellKey(cellArg)
	if err != nil {
		fatal("%v", err)
	}
	if flagTradeCount < 0 {
		fatal("count must not be negative")
	}

	cfg := loadConfig()
	logger := newLogger(os.Stderr, "geocoin")
	store := openStore(cfg)
	defer store.Close()

	e := openSession(app.NewWorld(cfg), store, logger).Engine

	view, ok := findNearby(e, target)
	if !ok {
		fatal("no cache at %s within %d cells of the player (cell %s)", target, e.Radius(), e.PlayerCell())
	}

	n := flagTradeCount
	var done bool
	if collect {
		if n == 0 {
			n = view.Record.CoinCount
		}
		done = e.Collect(target, n)
	} else {
		if n == 0 {
			n = e.Session().Coins
		}
		done = e.Deposit(target, n)
	}

	after, _ := e.Cache(target)
	s := e.Session()
	if !done {
		fmt.Printf("Refused: cache %s holds %d coins, wallet holds %d.\n", target, after.Record.CoinCount, s.Coins)
		os.Exit(1)
	}

	verb := "Deposited"
	if collect {
		verb = "Collected"
	}
	fmt.Printf("%s %d coins at %s. Cache: %d, wallet: %d, points: %d\n",
		verb, n, target, after.Record.CoinCount, s.Coins, s.Points)
}

// findNearby returns the active cache at c, if it is within the scan window.
func findNearby(e *world.Engine, c grid.Cell) (world.CacheView, bool) {
	for _, view := range e.Caches() {
		if view.Record.Cell == c {
			return view, true
		}
	}
	return world.CacheView{}, false
}
