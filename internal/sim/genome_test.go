package sim

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/vovakirdan/pixelwar/internal/config"
)

func TestGeneratePopulation(t *testing.T) {
	ranges := config.DefaultSimConfig().Stats
	pop, err := GeneratePopulation(16, ranges, rand.New(rand.NewSource(7)))
	if err != nil {
		t.Fatalf("GeneratePopulation() failed: %v", err)
	}

	if pop.Len() != 16 {
		t.Fatalf("Len() = %d, expected 16", pop.Len())
	}

	inRange := func(v uint16, r config.StatRange) bool {
		return int(v) >= r.Min && int(v) <= r.Max
	}
	seenHue := make(map[float64]bool)
	for i, g := range pop.All() {
		if g.Name != SpeciesName(i) {
			t.Errorf("genome %d name = %q, expected %q", i, g.Name, SpeciesName(i))
		}
		if id, ok := pop.ByName(g.Name); !ok || int(id) != i {
			t.Errorf("ByName(%q) = %d, %v", g.Name, id, ok)
		}
		if g.Hue < 0 || g.Hue >= 360 {
			t.Errorf("genome %s hue %f outside [0, 360)", g.Name, g.Hue)
		}
		if seenHue[g.Hue] {
			t.Errorf("genome %s repeats hue %f", g.Name, g.Hue)
		}
		seenHue[g.Hue] = true

		if !inRange(g.Health, ranges.Health) || !inRange(g.Strength, ranges.Strength) ||
			!inRange(g.Desire, ranges.Desire) || !inRange(g.Frequency, ranges.Frequency) ||
			!inRange(g.Expectancy, ranges.Expectancy) {
			t.Errorf("genome %s stats out of range: %+v", g.Name, g)
		}
	}
}

func TestGeneratePopulationCapacity(t *testing.T) {
	ranges := config.DefaultSimConfig().Stats

	pop, err := GeneratePopulation(MaxPopulation, ranges, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("GeneratePopulation(%d) failed: %v", MaxPopulation, err)
	}
	all := pop.All()
	if all[0].Name != "AA" || all[len(all)-1].Name != "ZZ" {
		t.Errorf("names span %q..%q, expected AA..ZZ", all[0].Name, all[len(all)-1].Name)
	}

	for _, n := range []int{0, -1, MaxPopulation + 1} {
		if _, err := GeneratePopulation(n, ranges, rand.New(rand.NewSource(1))); !errors.Is(err, ErrConfig) {
			t.Errorf("GeneratePopulation(%d) error = %v, expected ErrConfig", n, err)
		}
	}
}

func TestGeneratePopulationDeterministic(t *testing.T) {
	ranges := config.DefaultSimConfig().Stats
	a, _ := GeneratePopulation(8, ranges, rand.New(rand.NewSource(99)))
	b, _ := GeneratePopulation(8, ranges, rand.New(rand.NewSource(99)))
	ga, gb := a.All(), b.All()
	for i := range ga {
		if ga[i] != gb[i] {
			t.Errorf("genome %d differs between identical seeds: %+v vs %+v", i, ga[i], gb[i])
		}
	}
}

func TestNewPopulationRejects(t *testing.T) {
	tests := []struct {
		name    string
		genomes []Genome
	}{
		{"empty", nil},
		{"unnamed", []Genome{{Name: ""}}},
		{"duplicate", []Genome{{Name: "AA"}, {Name: "AA"}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewPopulation(tc.genomes); !errors.Is(err, ErrConfig) {
				t.Errorf("NewPopulation() error = %v, expected ErrConfig", err)
			}
		})
	}
}

func TestPopulationIsolatedFromInput(t *testing.T) {
	genomes := []Genome{{Name: "A", Health: 30}}
	pop, err := NewPopulation(genomes)
	if err != nil {
		t.Fatalf("NewPopulation() failed: %v", err)
	}
	genomes[0].Health = 99
	if pop.Genome(0).Health != 30 {
		t.Error("population should not alias the caller's slice")
	}
	all := pop.All()
	all[0].Health = 99
	if pop.Genome(0).Health != 30 {
		t.Error("All() should return a copy")
	}
}

func TestSpeciesName(t *testing.T) {
	tests := map[int]string{0: "AA", 1: "AB", 25: "AZ", 26: "BA", 675: "ZZ"}
	for i, want := range tests {
		if got := SpeciesName(i); got != want {
			t.Errorf("SpeciesName(%d) = %q, expected %q", i, got, want)
		}
	}
}

func TestPaletteFollowsHue(t *testing.T) {
	pop, err := NewPopulation([]Genome{
		{Name: "R", Hue: 0},
		{Name: "G", Hue: 120},
		{Name: "B", Hue: 240},
	})
	if err != nil {
		t.Fatalf("NewPopulation() failed: %v", err)
	}

	red, green, blue := pop.Color(0), pop.Color(1), pop.Color(2)
	if red.R <= red.G || red.R <= red.B {
		t.Errorf("hue 0 should be red-dominant, got %+v", red)
	}
	if green.G <= green.R || green.G <= green.B {
		t.Errorf("hue 120 should be green-dominant, got %+v", green)
	}
	if blue.B <= blue.R || blue.B <= blue.G {
		t.Errorf("hue 240 should be blue-dominant, got %+v", blue)
	}
	if red.A != 0xff {
		t.Errorf("palette colors should be opaque, got alpha %d", red.A)
	}
}
