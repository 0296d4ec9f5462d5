package sim

import (
	"math/rand"
	"testing"

	"github.com/vovakirdan/pixelwar/internal/config"
)

// forcedConfig removes all noise and makes every cadence roll pass. Cells
// with desire above 20 always engage; outcomes depend only on stats.
func forcedConfig() config.SimConfig {
	cfg := config.DefaultSimConfig()
	cfg.Combat = config.CombatConfig{
		EngagementThreshold: 20,
		DesireNoise:         0,
		CadenceThreshold:    1,
		StrengthNoise:       0,
		TieBand:             5,
		DrawDamage:          3,
		RoutThreshold:       60,
		DamageScale:         1.0,
	}
	cfg.Aging.Enabled = false
	return cfg
}

// twoSpecies builds a population with an attacker species A and a passive
// species B whose desire never clears the engagement threshold.
func twoSpecies(t *testing.T, strengthA, strengthB uint16) *Population {
	t.Helper()
	pop, err := NewPopulation([]Genome{
		{Name: "A", Hue: 0, Health: 50, Strength: strengthA, Desire: 50, Frequency: 50, Expectancy: 1000},
		{Name: "B", Hue: 180, Health: 50, Strength: strengthB, Desire: 0, Frequency: 50, Expectancy: 1000},
	})
	if err != nil {
		t.Fatalf("NewPopulation() failed: %v", err)
	}
	return pop
}

// surrounded builds a 3x3 board of species B with species A in the center.
func surrounded(t *testing.T, pop *Population, modRange int, seed int64) (*Grid, *rand.Rand) {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	g, err := NewUniformGrid(3, 3, pop, 1, modRange, rng)
	if err != nil {
		t.Fatalf("NewUniformGrid() failed: %v", err)
	}
	if err := g.Place(1, 1, 0, Modifiers{}); err != nil {
		t.Fatalf("Place() failed: %v", err)
	}
	return g, rng
}

func newSim(t *testing.T, cfg config.SimConfig, g *Grid, rng *rand.Rand) *Simulation {
	t.Helper()
	s, err := New(cfg, g, rng)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	return s
}
