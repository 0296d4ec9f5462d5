package sim

import "math/rand"

// Modifiers are a cell's individual deviations from its species baselines.
type Modifiers struct {
	Health     int8
	Strength   int8
	Desire     int8
	Frequency  int8
	Expectancy int8
}

// RollModifiers draws five independent modifiers uniformly from [-n, n].
func RollModifiers(rng *rand.Rand, n int) Modifiers {
	roll := func() int8 {
		return int8(rng.Intn(2*n+1) - n)
	}
	return Modifiers{
		Health:     roll(),
		Strength:   roll(),
		Desire:     roll(),
		Frequency:  roll(),
		Expectancy: roll(),
	}
}

// Within reports whether every modifier lies in [-n, n].
func (m Modifiers) Within(n int) bool {
	for _, v := range [...]int8{m.Health, m.Strength, m.Desire, m.Frequency, m.Expectancy} {
		if int(v) < -n || int(v) > n {
			return false
		}
	}
	return true
}

// Stats are a cell's effective values: species baseline plus modifier.
type Stats struct {
	Health     int
	Strength   int
	Desire     int
	Frequency  int
	Expectancy int
}

// Cell is one board slot: its owning species plus live state.
type Cell struct {
	Genome GenomeID
	Mods   Modifiers
	Health int    // Always > 0 between ticks
	Age    uint32 // Ticks survived under the current owner
	Fought bool   // Engaged during the current tick

	reborn bool // Changed owner during the current tick
}

// Stats returns the cell's effective stats for its genome.
func (c Cell) Stats(g Genome) Stats {
	return Stats{
		Health:     int(g.Health) + int(c.Mods.Health),
		Strength:   int(g.Strength) + int(c.Mods.Strength),
		Desire:     int(g.Desire) + int(c.Mods.Desire),
		Frequency:  int(g.Frequency) + int(c.Mods.Frequency),
		Expectancy: int(g.Expectancy) + int(c.Mods.Expectancy),
	}
}

// Alive reports whether the cell holds positive health.
func (c Cell) Alive() bool {
	return c.Health > 0
}

// Reborn reports whether the cell changed owner during the last tick.
func (c Cell) Reborn() bool {
	return c.reborn
}

// assign hands the cell to a species with the given modifiers, restoring
// full health and clearing its age.
func (c *Cell) assign(id GenomeID, g Genome, mods Modifiers) {
	c.Genome = id
	c.Mods = mods
	c.Health = startingHealth(g, mods)
	c.Age = 0
	c.reborn = true
}

// startingHealth is base health plus modifier. Grids only accept genomes
// whose health exceeds the modifier range, so the result is always positive.
func startingHealth(g Genome, mods Modifiers) int {
	return int(g.Health) + int(mods.Health)
}
