// Package melee implements a scenario that tiles species in small blocks
// so the whole board starts on a front line.
package melee

import (
	"math/rand"

	"github.com/vovakirdan/pixelwar/internal/config"
	"github.com/vovakirdan/pixelwar/internal/registry"
	"github.com/vovakirdan/pixelwar/internal/sim"
)

// BlockSize is the side of each single-species tile.
const BlockSize = 2

// Scenario tiles the board with BlockSize×BlockSize blocks in a rotating
// species order.
type Scenario struct{}

// New creates a melee scenario.
func New() *Scenario {
	return &Scenario{}
}

// ID returns the unique identifier for this scenario.
func (s *Scenario) ID() string {
	return "melee"
}

// Title returns the display name for this scenario.
func (s *Scenario) Title() string {
	return "Melee"
}

// Description explains the starting layout.
func (s *Scenario) Description() string {
	return "Species tiled in small blocks, every block borders an enemy"
}

// Build assigns block (bx, by) the species at position (bx + 2*by) mod n of
// a shuffled species order. With three or more species no two blocks that
// share an edge have the same owner.
func (s *Scenario) Build(cfg config.SimConfig, w, h int, rng *rand.Rand) (*sim.Grid, error) {
	pop, err := sim.GeneratePopulation(cfg.Board.Species, cfg.Stats, rng)
	if err != nil {
		return nil, err
	}
	order := rng.Perm(pop.Len())

	grid, err := sim.NewUniformGrid(w, h, pop, sim.GenomeID(order[0]), cfg.Stats.ModifierRange, rng)
	if err != nil {
		return nil, err
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			id := sim.GenomeID(order[BlockOwner(x, y, pop.Len())])
			if err := grid.Place(x, y, id, sim.RollModifiers(rng, cfg.Stats.ModifierRange)); err != nil {
				return nil, err
			}
		}
	}
	return grid, nil
}

// BlockOwner returns the slot in the species order that owns cell (x, y).
func BlockOwner(x, y, n int) int {
	bx, by := x/BlockSize, y/BlockSize
	return (bx + 2*by) % n
}

func init() {
	registry.Register("melee", func() registry.Scenario {
		return New()
	})
}
