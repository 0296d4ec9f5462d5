// Package duel implements a two-species scenario with the board split
// down the middle.
package duel

import (
	"math/rand"

	"github.com/vovakirdan/pixelwar/internal/config"
	"github.com/vovakirdan/pixelwar/internal/registry"
	"github.com/vovakirdan/pixelwar/internal/sim"
)

// Scenario pits two species against each other along a vertical front.
// The configured species count is ignored.
type Scenario struct{}

// New creates a duel scenario.
func New() *Scenario {
	return &Scenario{}
}

// ID returns the unique identifier for this scenario.
func (s *Scenario) ID() string {
	return "duel"
}

// Title returns the display name for this scenario.
func (s *Scenario) Title() string {
	return "Duel"
}

// Description explains the starting layout.
func (s *Scenario) Description() string {
	return "Two species, one per half of the board"
}

// Build gives the left half to the first species and the right half to the
// second. On a board one column wide the second species gets nothing.
func (s *Scenario) Build(cfg config.SimConfig, w, h int, rng *rand.Rand) (*sim.Grid, error) {
	pop, err := sim.GeneratePopulation(2, cfg.Stats, rng)
	if err != nil {
		return nil, err
	}
	grid, err := sim.NewUniformGrid(w, h, pop, 0, cfg.Stats.ModifierRange, rng)
	if err != nil {
		return nil, err
	}

	for y := 0; y < h; y++ {
		for x := (w + 1) / 2; x < w; x++ {
			if err := grid.Place(x, y, 1, sim.RollModifiers(rng, cfg.Stats.ModifierRange)); err != nil {
				return nil, err
			}
		}
	}
	return grid, nil
}

func init() {
	registry.Register("duel", func() registry.Scenario {
		return New()
	})
}
