package main

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/vovakirdan/pixelwar/internal/config"
	"github.com/vovakirdan/pixelwar/internal/platform/tui"
	"github.com/vovakirdan/pixelwar/internal/registry"
	"github.com/vovakirdan/pixelwar/internal/storage"
)

// Board size used when there is no terminal to fit.
const (
	headlessWidth  = 120
	headlessHeight = 80
)

// newLogger returns the command logger at the --log-level level.
func newLogger(prefix string, timestamps bool) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: timestamps,
		TimeFormat:      time.TimeOnly,
		Prefix:          prefix,
	})
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		logger.Warn("unknown log level, using info", "level", flagLogLevel)
		level = log.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}

// loadSimConfig loads the config file and applies the global overrides.
func loadSimConfig() (config.SimConfig, error) {
	cfg, err := config.LoadSim(flagConfig)
	if err != nil {
		return cfg, err
	}

	preset, err := config.ParseAggressionPreset(flagAggression)
	if err != nil {
		return cfg, err
	}
	config.ApplyAggressionPreset(&cfg, preset)

	if flagSpecies > 0 {
		cfg.Board.Species = flagSpecies
	}
	return cfg, cfg.Validate()
}

// resolveScenario picks the scenario from args, then the config, then classic.
func resolveScenario(args []string, cfg config.SimConfig) (string, error) {
	id := cfg.Board.Scenario
	if len(args) > 0 {
		id = args[0]
	}
	if id == "" {
		id = "classic"
	}
	if !registry.Exists(id) {
		return "", fmt.Errorf("unknown scenario %q (run 'pixelwar list' to see available scenarios)", id)
	}
	return id, nil
}

// boardSize resolves the board dimensions: flags, then config, then the
// terminal size when fit is set, then the headless default.
func boardSize(flagW, flagH int, cfg config.SimConfig, fit bool) (int, int) {
	w, h := cfg.Board.Width, cfg.Board.Height
	if flagW > 0 {
		w = flagW
	}
	if flagH > 0 {
		h = flagH
	}
	if w > 0 && h > 0 {
		return w, h
	}

	fw, fh := headlessWidth, headlessHeight
	if fit {
		if tw, th, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
			fw, fh = tui.FitBoard(tw, th)
		}
	}
	if w <= 0 {
		w = fw
	}
	if h <= 0 {
		h = fh
	}
	return w, h
}

// openStore opens the history database, returning nil with a warning on failure.
func openStore(logger *log.Logger) *storage.Store {
	if flagDBPath == "" {
		return nil
	}
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open history database", "error", err)
		return nil
	}
	return store
}

// runSeed returns --seed, or a time-based seed when it is unset.
func runSeed() int64 {
	if flagSeed != 0 {
		return flagSeed
	}
	return time.Now().UnixNano()
}
