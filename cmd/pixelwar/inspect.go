package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/pixelwar/internal/registry"
	"github.com/vovakirdan/pixelwar/internal/sim"
)

var (
	flagInspectTicks    int
	flagInspectScenario string
	flagInspectWidth    int
	flagInspectHeight   int
	flagInspectBoard    bool
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <x> <y>",
	Short: "Report on one cell after some ticks",
	Long: `Run a simulation for --ticks ticks and print the species, live state
and enemy neighbors of the cell at (x, y). Coordinates start at (0, 0) in
the top-left corner.

Examples:
  pixelwar inspect 3 4 --seed 42
  pixelwar inspect 0 0 --ticks 500 --scenario islands --board`,
	Args: cobra.ExactArgs(2),
	RunE: runInspect,
}

func init() {
	inspectCmd.Flags().IntVar(&flagInspectTicks, "ticks", 0, "Ticks to run before inspecting")
	inspectCmd.Flags().StringVar(&flagInspectScenario, "scenario", "", "Scenario to run (default: from config)")
	inspectCmd.Flags().IntVar(&flagInspectWidth, "width", 40, "Board width in cells")
	inspectCmd.Flags().IntVar(&flagInspectHeight, "height", 20, "Board height in cells")
	inspectCmd.Flags().BoolVar(&flagInspectBoard, "board", false, "Also print the board as letters")
}

func runInspect(_ *cobra.Command, args []string) error {
	x, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid x %q: %w", args[0], err)
	}
	y, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid y %q: %w", args[1], err)
	}

	cfg, err := loadSimConfig()
	if err != nil {
		return err
	}
	var scenarioArgs []string
	if flagInspectScenario != "" {
		scenarioArgs = []string{flagInspectScenario}
	}
	scenario, err := resolveScenario(scenarioArgs, cfg)
	if err != nil {
		return err
	}

	seed := runSeed()
	s, err := registry.Start(scenario, cfg, flagInspectWidth, flagInspectHeight, seed)
	if err != nil {
		return err
	}
	if flagInspectTicks > 0 {
		s.Run(flagInspectTicks)
	}

	rep, err := s.Grid().Inspect(x, y)
	if err != nil {
		return err
	}

	fmt.Printf("%s  seed %d  tick %d\n", scenario, seed, s.Tick())
	if flagInspectBoard {
		fmt.Println(sim.RenderASCII(s.Grid()))
		fmt.Println()
	}
	fmt.Println(rep)
	fmt.Printf("  death chance %.1f%%\n", s.DeathChance(rep.Cell)*100)
	combat := s.Config().Combat
	fmt.Printf("  engagement > %d, cadence < %d, draw within %d, rout beyond %d\n",
		combat.EngagementThreshold, combat.CadenceThreshold, combat.TieBand, combat.RoutThreshold)
	return nil
}
