package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/pixelwar/internal/platform/tui"
	"github.com/vovakirdan/pixelwar/internal/storage"
)

var (
	flagHistoryLimit int
	flagHistoryPlain bool
	flagHistoryClear bool
	flagHistoryRun   int64
)

var historyCmd = &cobra.Command{
	Use:   "history [scenario]",
	Short: "Browse recorded runs",
	Long: `Show runs recorded in the history database.

Without --plain this opens an interactive table; tab switches between
scenarios.

Examples:
  pixelwar history
  pixelwar history duel --plain
  pixelwar history --run 12
  pixelwar history islands --clear`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&flagHistoryLimit, "limit", 20, "Number of runs to print with --plain")
	historyCmd.Flags().BoolVar(&flagHistoryPlain, "plain", false, "Print runs instead of opening the table")
	historyCmd.Flags().BoolVar(&flagHistoryClear, "clear", false, "Delete the recorded runs of the scenario")
	historyCmd.Flags().Int64Var(&flagHistoryRun, "run", 0, "Print the census samples of one run")
}

func runHistory(_ *cobra.Command, args []string) error {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("opening history database: %w", err)
	}
	defer store.Close()

	scenario := ""
	if len(args) > 0 {
		scenario = args[0]
	}

	switch {
	case flagHistoryClear:
		if scenario == "" {
			return fmt.Errorf("--clear needs a scenario")
		}
		if err := store.ClearRuns(scenario); err != nil {
			return err
		}
		fmt.Printf("Cleared runs of %s.\n", scenario)
		return nil

	case flagHistoryRun > 0:
		return printRun(store, flagHistoryRun)

	case flagHistoryPlain:
		return printRuns(store, scenario)
	}

	width, height := 80, 24
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width, height = w, h
	}
	return tui.RunHistory(store, width, height)
}

// printRuns lists recent runs as plain text.
func printRuns(store *storage.Store, scenario string) error {
	runs, err := store.RecentRuns(scenario, flagHistoryLimit)
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Println("Run 'pixelwar run --headless' to record one.")
		return nil
	}

	fmt.Printf("  %-5s  %-9s  %-20s  %-9s  %-8s  %-5s  %-10s  %s\n",
		"#", "Scenario", "Seed", "Size", "Ticks", "Left", "Winner", "Date")
	fmt.Printf("  %-5s  %-9s  %-20s  %-9s  %-8s  %-5s  %-10s  %s\n",
		"-", "--------", "----", "----", "-----", "----", "------", "----")
	for _, r := range runs {
		winner := "-"
		if r.Dominant != "" {
			winner = fmt.Sprintf("%s %.0f%%", r.Dominant, r.DominantShare*100)
		}
		fmt.Printf("  %-5d  %-9s  %-20d  %-9s  %-8d  %-5d  %-10s  %s\n",
			r.ID, r.Scenario, r.Seed, fmt.Sprintf("%dx%d", r.Width, r.Height),
			r.Ticks, r.Survivors, winner, r.CreatedAt.Format("2006-01-02 15:04"))
	}

	stats, err := store.GetScenarioStats()
	if err != nil {
		return err
	}
	if st, ok := stats[scenario]; ok {
		fmt.Println()
		fmt.Printf("%s: %d runs, avg %.0f ticks, avg %.1f survivors, %d monocultures\n",
			st.Scenario, st.Runs, st.AvgTicks, st.AvgSurvivors, st.Monocultures)
	}
	return nil
}

// printRun prints one run and its census samples.
func printRun(store *storage.Store, id int64) error {
	run, err := store.RunByID(id)
	if err != nil {
		return err
	}
	if run == nil {
		return fmt.Errorf("no run with id %d", id)
	}

	fmt.Printf("Run #%d  %s  seed %d  %dx%d  %d species  %s\n",
		run.ID, run.Scenario, run.Seed, run.Width, run.Height, run.Species, run.Aggression)
	fmt.Printf("%d ticks in %s, %d survivors\n", run.Ticks, run.Duration, run.Survivors)
	fmt.Println()

	points, err := store.RunCensus(id)
	if err != nil {
		return err
	}
	if len(points) == 0 {
		fmt.Println("No census samples.")
		return nil
	}

	fmt.Printf("  %-8s  %-5s  %-10s  %-8s  %s\n", "Tick", "Left", "Dominant", "Entropy", "Health")
	for _, p := range points {
		fmt.Printf("  %-8d  %-5d  %-10s  %-8.3f  %.1f\n",
			p.Tick, p.Survivors, fmt.Sprintf("%s %.0f%%", p.Dominant, p.DominantShare*100), p.Entropy, p.HealthMean)
	}
	return nil
}
