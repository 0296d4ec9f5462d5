// Package classic implements the default scenario: every cell starts as a
// uniformly random species.
package classic

import (
	"math/rand"

	"github.com/vovakirdan/pixelwar/internal/config"
	"github.com/vovakirdan/pixelwar/internal/registry"
	"github.com/vovakirdan/pixelwar/internal/sim"
)

// Scenario scatters the configured number of species at random.
type Scenario struct{}

// New creates a classic scenario.
func New() *Scenario {
	return &Scenario{}
}

// ID returns the unique identifier for this scenario.
func (s *Scenario) ID() string {
	return "classic"
}

// Title returns the display name for this scenario.
func (s *Scenario) Title() string {
	return "Classic"
}

// Description explains the starting layout.
func (s *Scenario) Description() string {
	return "Every cell starts as a random species"
}

// Build generates the population and a randomly assigned board.
func (s *Scenario) Build(cfg config.SimConfig, w, h int, rng *rand.Rand) (*sim.Grid, error) {
	pop, err := sim.GeneratePopulation(cfg.Board.Species, cfg.Stats, rng)
	if err != nil {
		return nil, err
	}
	return sim.NewGrid(w, h, pop, cfg.Stats.ModifierRange, rng)
}

func init() {
	registry.Register("classic", func() registry.Scenario {
		return New()
	})
}
