package sim

import (
	"fmt"
	"image/color"
	"math"
	"math/rand"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/vovakirdan/pixelwar/internal/config"
)

// Species names are two letters, AA through ZZ.
const nameAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// MaxPopulation is the capacity of the naming scheme.
const MaxPopulation = len(nameAlphabet) * len(nameAlphabet)

// goldenAngle spaces consecutive hues as far apart as possible.
const goldenAngle = 137.50776405003785

// Saturation and lightness are fixed; only the hue identifies a species.
const (
	paletteSaturation = 0.85
	paletteLightness  = 0.5
)

// GenomeID is a stable handle into a Population.
type GenomeID uint16

// Genome is an immutable species definition. Every cell of a species
// perturbs these baselines with its own modifiers.
type Genome struct {
	Name       string
	Hue        float64 // Degrees in [0, 360), rendering only
	Health     uint16
	Strength   uint16
	Desire     uint16
	Frequency  uint16
	Expectancy uint16
}

// Population is the read-only arena of genomes shared by a simulation.
type Population struct {
	genomes []Genome
	byName  map[string]GenomeID
	palette []color.RGBA
}

// SpeciesName returns the name assigned to the i-th generated species.
func SpeciesName(i int) string {
	n := len(nameAlphabet)
	return string([]byte{nameAlphabet[i/n], nameAlphabet[i%n]})
}

// GeneratePopulation creates n genomes with sequential names, stats drawn
// uniformly from the configured ranges and golden-angle spaced hues.
func GeneratePopulation(n int, ranges config.StatRanges, rng *rand.Rand) (*Population, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: population size %d", ErrConfig, n)
	}
	if n > MaxPopulation {
		return nil, fmt.Errorf("%w: population size %d exceeds naming capacity %d", ErrConfig, n, MaxPopulation)
	}

	offset := rng.Float64() * 360
	genomes := make([]Genome, n)
	for i := range genomes {
		genomes[i] = Genome{
			Name:       SpeciesName(i),
			Hue:        math.Mod(offset+float64(i)*goldenAngle, 360),
			Health:     rollStat(rng, ranges.Health),
			Strength:   rollStat(rng, ranges.Strength),
			Desire:     rollStat(rng, ranges.Desire),
			Frequency:  rollStat(rng, ranges.Frequency),
			Expectancy: rollStat(rng, ranges.Expectancy),
		}
	}
	return NewPopulation(genomes)
}

// NewPopulation wraps an explicit list of genomes.
// Names must be non-empty and unique.
func NewPopulation(genomes []Genome) (*Population, error) {
	if len(genomes) == 0 {
		return nil, fmt.Errorf("%w: empty population", ErrConfig)
	}
	if len(genomes) > MaxPopulation {
		return nil, fmt.Errorf("%w: population size %d exceeds naming capacity %d", ErrConfig, len(genomes), MaxPopulation)
	}

	p := &Population{
		genomes: make([]Genome, len(genomes)),
		byName:  make(map[string]GenomeID, len(genomes)),
		palette: make([]color.RGBA, len(genomes)),
	}
	copy(p.genomes, genomes)

	for i, g := range p.genomes {
		if g.Name == "" {
			return nil, fmt.Errorf("%w: genome %d has no name", ErrConfig, i)
		}
		if _, dup := p.byName[g.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate species name %q", ErrConfig, g.Name)
		}
		p.byName[g.Name] = GenomeID(i)
		p.palette[i] = hueColor(g.Hue)
	}
	return p, nil
}

// Len returns the number of species.
func (p *Population) Len() int {
	return len(p.genomes)
}

// Genome returns the genome for a handle. The handle must come from this population.
func (p *Population) Genome(id GenomeID) Genome {
	return p.genomes[id]
}

// ByName looks up a species by name.
func (p *Population) ByName(name string) (GenomeID, bool) {
	id, ok := p.byName[name]
	return id, ok
}

// All returns a copy of every genome in handle order.
func (p *Population) All() []Genome {
	out := make([]Genome, len(p.genomes))
	copy(out, p.genomes)
	return out
}

// Color returns the display color of a species.
func (p *Population) Color(id GenomeID) color.RGBA {
	return p.palette[id]
}

// rollStat draws a baseline uniformly from an inclusive range.
func rollStat(rng *rand.Rand, r config.StatRange) uint16 {
	if r.Max <= r.Min {
		return uint16(r.Min)
	}
	return uint16(r.Min + rng.Intn(r.Max-r.Min+1))
}

// hueColor converts a hue to RGB at the fixed palette saturation and lightness.
func hueColor(hue float64) color.RGBA {
	r, g, b := colorful.Hsl(hue, paletteSaturation, paletteLightness).Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}
