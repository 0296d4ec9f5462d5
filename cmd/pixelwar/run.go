package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/pixelwar/internal/config"
	"github.com/vovakirdan/pixelwar/internal/platform/tui"
	"github.com/vovakirdan/pixelwar/internal/registry"
	"github.com/vovakirdan/pixelwar/internal/telemetry"
)

var (
	flagWidth       int
	flagHeight      int
	flagHeadless    bool
	flagTicks       int
	flagCSVDir      string
	flagLogEvery    int
	flagStopOnMono  bool
	flagNoHistory   bool
	flagScreenshots string
)

var runCmd = &cobra.Command{
	Use:   "run [scenario]",
	Short: "Run a simulation",
	Long: `Start a simulation of the given scenario (default: classic).

The board fills the terminal unless --width/--height are set.

Controls:
  Space/P      - Pause
  N/.          - Single step
  +/-          - Faster / slower
  Arrows/hjkl  - Move the cursor
  I/Enter      - Inspect the cell under the cursor
  R            - Restart with a new seed
  Ctrl+S       - Save a PNG screenshot
  Q/Esc        - Quit

With --headless the simulation runs without a UI for --ticks ticks and logs
a census every --log-every ticks. --csv writes the same samples to
census.csv and species.csv.

Examples:
  pixelwar run
  pixelwar run duel --aggression savage
  pixelwar run islands --width 200 --height 100 --headless --ticks 10000
  pixelwar run --headless --ticks 2000 --csv ./out --seed 7`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRun,
}

func init() {
	runCmd.Flags().IntVar(&flagWidth, "width", 0, "Board width in cells (0 = fit terminal)")
	runCmd.Flags().IntVar(&flagHeight, "height", 0, "Board height in cells (0 = fit terminal)")
	runCmd.Flags().BoolVar(&flagHeadless, "headless", false, "Run without the terminal UI")
	runCmd.Flags().IntVar(&flagTicks, "ticks", 1000, "Ticks to run in headless mode")
	runCmd.Flags().StringVar(&flagCSVDir, "csv", "", "Directory for census CSV output (headless)")
	runCmd.Flags().IntVar(&flagLogEvery, "log-every", 100, "Ticks between census samples")
	runCmd.Flags().BoolVar(&flagStopOnMono, "stop-on-winner", false, "Stop a headless run once one species is left")
	runCmd.Flags().BoolVar(&flagNoHistory, "no-history", false, "Do not record the run in the history database")
	runCmd.Flags().StringVar(&flagScreenshots, "screenshots", "", "Screenshot directory (default: ~/.pixelwar/screenshots)")
}

func runRun(_ *cobra.Command, args []string) error {
	logger := newLogger("pixelwar", flagHeadless)

	cfg, err := loadSimConfig()
	if err != nil {
		return err
	}
	scenario, err := resolveScenario(args, cfg)
	if err != nil {
		return err
	}
	w, h := boardSize(flagWidth, flagHeight, cfg, !flagHeadless)

	opts := tui.Options{
		Scenario:      scenario,
		Config:        cfg,
		Aggression:    string(aggressionOrDefault()),
		Seed:          runSeed(),
		Width:         w,
		Height:        h,
		FPS:           flagFPS,
		SampleEvery:   flagLogEvery,
		Logger:        logger,
		ScreenshotDir: flagScreenshots,
	}
	if !flagNoHistory {
		opts.Store = openStore(logger)
		if opts.Store != nil {
			defer opts.Store.Close()
		}
	}

	if flagHeadless {
		return runHeadless(opts, logger)
	}
	// The viewer owns the terminal; keep log output off it
	logger.SetOutput(io.Discard)
	return tui.Run(opts)
}

// runHeadless steps the simulation without a UI.
func runHeadless(opts tui.Options, logger *log.Logger) error {
	s, err := registry.Start(opts.Scenario, opts.Config, opts.Width, opts.Height, opts.Seed)
	if err != nil {
		return err
	}

	om, err := telemetry.NewOutputManager(flagCSVDir)
	if err != nil {
		return err
	}
	defer om.Close()
	if err := om.WriteConfig(opts.Config); err != nil {
		return err
	}

	logger.Info("simulation started",
		"scenario", opts.Scenario,
		"seed", opts.Seed,
		"size", fmt.Sprintf("%dx%d", opts.Width, opts.Height),
		"species", s.Population().Len(),
	)

	rec := telemetry.NewRecorder(opts.SampleEvery)
	for i := 0; i < flagTicks; i++ {
		res := s.Step()
		c, win, ok := rec.Observe(res, s.Grid())
		if !ok {
			continue
		}
		logger.Info("census", append(c.Keyvals(),
			"captures", win.Captures,
			"capture_rate", fmt.Sprintf("%.2f", win.CaptureRate()),
			"deaths", win.Deaths,
		)...)
		if err := om.WriteCensus(c, win); err != nil {
			return err
		}
		if flagStopOnMono && c.Survivors == 1 {
			logger.Info("one species left", "tick", c.Tick)
			break
		}
	}

	final := telemetry.TakeCensus(s.Tick(), s.Grid())
	if d, ok := final.Dominant(); ok {
		logger.Info("simulation finished",
			"ticks", final.Tick,
			"survivors", final.Survivors,
			"dominant", d.Name,
			"share", fmt.Sprintf("%.1f%%", d.Share*100),
			"samples", len(rec.Samples()),
			"elapsed", rec.Elapsed().Round(time.Millisecond),
		)
	}

	if opts.Store != nil {
		run, points := rec.Record(telemetry.RunMeta{
			Scenario:   opts.Scenario,
			Seed:       opts.Seed,
			Aggression: opts.Aggression,
		}, s.Grid(), final)
		id, err := opts.Store.SaveRun(run, points)
		if err != nil {
			logger.Warn("could not save run", "error", err)
		} else {
			logger.Debug("run recorded", "id", id)
		}
	}
	if om != nil {
		fmt.Fprintf(os.Stdout, "census written to %s\n", om.Dir())
	}
	return nil
}

// aggressionOrDefault names the preset in effect.
func aggressionOrDefault() config.AggressionPreset {
	if flagAggression == "" {
		return config.AggressionNormal
	}
	return config.AggressionPreset(flagAggression)
}
