// Package islands implements a scenario where each species starts as one
// contiguous territory around a random capital.
package islands

import (
	"math/rand"

	"github.com/vovakirdan/pixelwar/internal/config"
	"github.com/vovakirdan/pixelwar/internal/registry"
	"github.com/vovakirdan/pixelwar/internal/sim"
)

// Scenario partitions the board into nearest-capital regions.
type Scenario struct{}

// New creates an islands scenario.
func New() *Scenario {
	return &Scenario{}
}

// ID returns the unique identifier for this scenario.
func (s *Scenario) ID() string {
	return "islands"
}

// Title returns the display name for this scenario.
func (s *Scenario) Title() string {
	return "Islands"
}

// Description explains the starting layout.
func (s *Scenario) Description() string {
	return "Each species holds one territory around a random capital"
}

// Build drops one capital per species and hands every cell to the nearest
// capital. Ties go to the species with the lower ID.
func (s *Scenario) Build(cfg config.SimConfig, w, h int, rng *rand.Rand) (*sim.Grid, error) {
	pop, err := sim.GeneratePopulation(cfg.Board.Species, cfg.Stats, rng)
	if err != nil {
		return nil, err
	}
	grid, err := sim.NewUniformGrid(w, h, pop, 0, cfg.Stats.ModifierRange, rng)
	if err != nil {
		return nil, err
	}

	capitals := make([]sim.Coord, pop.Len())
	for i := range capitals {
		capitals[i] = sim.C(rng.Intn(w), rng.Intn(h))
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			owner := nearest(capitals, x, y)
			if owner == 0 {
				continue
			}
			if err := grid.Place(x, y, sim.GenomeID(owner), sim.RollModifiers(rng, cfg.Stats.ModifierRange)); err != nil {
				return nil, err
			}
		}
	}
	return grid, nil
}

// nearest returns the index of the capital closest to (x, y).
func nearest(capitals []sim.Coord, x, y int) int {
	best, bestDist := 0, -1
	for i, c := range capitals {
		dx, dy := c.X-x, c.Y-y
		d := dx*dx + dy*dy
		if bestDist < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

func init() {
	registry.Register("islands", func() registry.Scenario {
		return New()
	})
}
