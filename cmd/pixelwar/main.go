// pixelwar is a zero-player territorial war between generated species on a
// grid of colored cells.
//
// Usage:
//
//	pixelwar run [scenario]      - Watch a simulation in the terminal
//	pixelwar run --headless      - Run without a UI and log the census
//	pixelwar list                - List available scenarios
//	pixelwar species             - Print a generated population
//	pixelwar inspect <x> <y>     - Report on one cell after some ticks
//	pixelwar history             - Browse recorded runs
//	pixelwar serve               - Serve the viewer over SSH
//
// Global flags:
//
//	--seed <value>       - RNG seed for a reproducible run
//	--fps <rate>         - Viewer frame rate (default: 30)
//	--db <path>          - Run history database (default: ~/.pixelwar/history.db)
//	--config <path>      - Simulation config YAML
//	--aggression <name>  - Combat preset: calm, normal, savage, fixed
//	--species <n>        - Override the population size
//	--log-level <level>  - debug, info, warn, error
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	// Import scenarios to register them
	_ "github.com/vovakirdan/pixelwar/internal/scenarios/classic"
	_ "github.com/vovakirdan/pixelwar/internal/scenarios/duel"
	_ "github.com/vovakirdan/pixelwar/internal/scenarios/islands"
	_ "github.com/vovakirdan/pixelwar/internal/scenarios/melee"
)

var (
	// Global flags
	flagSeed       int64
	flagFPS        int
	flagDBPath     string
	flagConfig     string
	flagAggression string
	flagSpecies    int
	flagLogLevel   string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "pixelwar",
	Short: "Pixelwar - artificial life on a grid of colored cells",
	Long: `Pixelwar fills a grid with randomly generated species and lets them
fight over territory. Every cell belongs to one species; cells attack their
neighbors, conquered cells change sides and old cells are reborn.

Available commands:
  run      - Watch a simulation (or run it headless)
  list     - Show all scenarios
  species  - Print a generated population
  inspect  - Report on one cell
  history  - Browse recorded runs
  serve    - Start the SSH server

Examples:
  pixelwar run
  pixelwar run islands --species 12 --seed 42
  pixelwar run --headless --ticks 5000 --csv ./out
  pixelwar inspect 10 4 --ticks 200
  pixelwar serve --ssh :2222`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 30, "Viewer frame rate")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.pixelwar/history.db", "Path to run history database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to simulation config YAML")
	rootCmd.PersistentFlags().StringVar(&flagAggression, "aggression", "", "Aggression preset: calm, normal, savage, fixed")
	rootCmd.PersistentFlags().IntVar(&flagSpecies, "species", 0, "Number of species (0 = from config)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(speciesCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(serveCmd)
}
