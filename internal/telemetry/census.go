// Package telemetry derives per-species statistics from a running board and
// exports them for offline analysis.
package telemetry

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/vovakirdan/pixelwar/internal/sim"
)

// SpeciesCount is one species' share of the board at a point in time.
type SpeciesCount struct {
	ID         sim.GenomeID
	Name       string
	Cells      int
	Share      float64 // Fraction of the board in [0, 1]
	MeanHealth float64
}

// Census is a snapshot of the board's species composition.
type Census struct {
	Tick      uint64
	Cells     int
	Species   []SpeciesCount // Surviving species, largest first
	Survivors int

	// Shannon entropy of species shares in nats. 0 when one species owns
	// everything, ln(n) for n equal shares.
	Entropy float64

	HealthMean float64 // Over all cells
	HealthStd  float64
}

// TakeCensus counts every cell on the grid. It only reads the grid and must
// be called between ticks.
func TakeCensus(tick uint64, g *sim.Grid) Census {
	pop := g.Population()
	counts := make([]int, pop.Len())
	healthSum := make([]float64, pop.Len())
	health := make([]float64, 0, g.Len())

	g.Each(func(_ sim.Coord, cell sim.Cell) {
		counts[cell.Genome]++
		healthSum[cell.Genome] += float64(cell.Health)
		health = append(health, float64(cell.Health))
	})

	c := Census{Tick: tick, Cells: g.Len()}
	shares := make([]float64, 0, pop.Len())
	for id, n := range counts {
		if n == 0 {
			continue
		}
		share := float64(n) / float64(g.Len())
		shares = append(shares, share)
		c.Species = append(c.Species, SpeciesCount{
			ID:         sim.GenomeID(id),
			Name:       pop.Genome(sim.GenomeID(id)).Name,
			Cells:      n,
			Share:      share,
			MeanHealth: healthSum[id] / float64(n),
		})
	}

	sort.SliceStable(c.Species, func(i, j int) bool {
		return c.Species[i].Cells > c.Species[j].Cells
	})

	c.Survivors = len(c.Species)
	c.Entropy = stat.Entropy(shares)
	c.HealthMean, c.HealthStd = stat.PopMeanStdDev(health, nil)
	return c
}

// Dominant returns the largest species. ok is false for an empty census.
func (c Census) Dominant() (SpeciesCount, bool) {
	if len(c.Species) == 0 {
		return SpeciesCount{}, false
	}
	return c.Species[0], true
}

// EffectiveSpecies is exp(entropy): the number of equally sized species
// that would give the same diversity.
func (c Census) EffectiveSpecies() float64 {
	return math.Exp(c.Entropy)
}

// Top returns at most n of the largest species.
func (c Census) Top(n int) []SpeciesCount {
	if n > len(c.Species) {
		n = len(c.Species)
	}
	return c.Species[:n]
}

// Keyvals returns the census as structured logging fields.
func (c Census) Keyvals() []any {
	kv := []any{
		"tick", c.Tick,
		"survivors", c.Survivors,
		"entropy", round2(c.Entropy),
		"health_mean", round2(c.HealthMean),
	}
	if d, ok := c.Dominant(); ok {
		kv = append(kv, "dominant", d.Name, "share", round2(d.Share))
	}
	return kv
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
