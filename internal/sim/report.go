package sim

import (
	"fmt"
	"strings"
)

// EnemyNeighbor describes one enemy cell adjacent to an inspected cell.
type EnemyNeighbor struct {
	Dir     Direction
	At      Coord
	Species string
	Health  int
}

// CellReport is the diagnostic view of one cell.
type CellReport struct {
	At      Coord
	Species string
	Genome  Genome
	Cell    Cell
	Stats   Stats
	Enemies []EnemyNeighbor // Canonical direction order
}

// Inspect reports the species and enemy neighbors of the cell at (x, y)
// without modifying anything.
func (g *Grid) Inspect(x, y int) (CellReport, error) {
	cell, err := g.CellAt(x, y)
	if err != nil {
		return CellReport{}, err
	}
	genome := g.pop.Genome(cell.Genome)

	rep := CellReport{
		At:      C(x, y),
		Species: genome.Name,
		Genome:  genome,
		Cell:    cell,
		Stats:   cell.Stats(genome),
	}

	var buf [NumDirections]neighbor
	n := g.enemyNeighbors(rep.At, &buf)
	rep.Enemies = make([]EnemyNeighbor, 0, n)
	for _, nb := range buf[:n] {
		other := g.cells[nb.idx]
		rep.Enemies = append(rep.Enemies, EnemyNeighbor{
			Dir:     nb.dir,
			At:      nb.at,
			Species: g.pop.Genome(other.Genome).Name,
			Health:  other.Health,
		})
	}
	return rep, nil
}

// String formats the report as a short multi-line summary.
func (r CellReport) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "cell %v species %s\n", r.At, r.Species)
	fmt.Fprintf(&sb, "  health %d/%d  age %d/%d\n", r.Cell.Health, r.Stats.Health, r.Cell.Age, r.Stats.Expectancy)
	fmt.Fprintf(&sb, "  strength %d  desire %d  frequency %d\n", r.Stats.Strength, r.Stats.Desire, r.Stats.Frequency)
	if len(r.Enemies) == 0 {
		sb.WriteString("  no enemy neighbors")
		return sb.String()
	}
	sb.WriteString("  enemies:")
	for _, e := range r.Enemies {
		fmt.Fprintf(&sb, " %s=%s", e.Dir, e.Species)
	}
	return sb.String()
}
