package sim

import (
	"fmt"
	"math"
	"math/rand"
)

// Grid is the board: a dense rectangle of cells stored in row-major order,
// index = y*W + x. Dimensions are fixed at construction.
type Grid struct {
	W int
	H int

	cells    []Cell
	pop      *Population
	modRange int
}

// neighbor is an in-bounds enemy neighbor found during a sweep.
type neighbor struct {
	dir Direction
	at  Coord
	idx int
}

// NewGrid allocates a w×h board where every cell independently receives a
// uniformly random species from pop and freshly rolled modifiers in
// [-modRange, modRange].
func NewGrid(w, h int, pop *Population, modRange int, rng *rand.Rand) (*Grid, error) {
	g, err := newEmptyGrid(w, h, pop, modRange)
	if err != nil {
		return nil, err
	}
	for i := range g.cells {
		id := GenomeID(rng.Intn(pop.Len()))
		g.cells[i].assign(id, pop.Genome(id), RollModifiers(rng, modRange))
		g.cells[i].reborn = false
	}
	return g, nil
}

// NewUniformGrid allocates a w×h board owned entirely by one species.
// Scenarios paint territories on top of it with Place.
func NewUniformGrid(w, h int, pop *Population, id GenomeID, modRange int, rng *rand.Rand) (*Grid, error) {
	g, err := newEmptyGrid(w, h, pop, modRange)
	if err != nil {
		return nil, err
	}
	if int(id) >= pop.Len() {
		return nil, fmt.Errorf("%w: genome %d not in population of %d", ErrConfig, id, pop.Len())
	}
	for i := range g.cells {
		g.cells[i].assign(id, pop.Genome(id), RollModifiers(rng, modRange))
		g.cells[i].reborn = false
	}
	return g, nil
}

func newEmptyGrid(w, h int, pop *Population, modRange int) (*Grid, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: board %dx%d has no cells", ErrConfig, w, h)
	}
	if w > math.MaxInt32/h {
		return nil, fmt.Errorf("%w: board %dx%d too large", ErrConfig, w, h)
	}
	if pop == nil || pop.Len() == 0 {
		return nil, fmt.Errorf("%w: empty population", ErrConfig)
	}
	if modRange < 0 || modRange > math.MaxInt8 {
		return nil, fmt.Errorf("%w: modifier range %d", ErrConfig, modRange)
	}
	// Effective health must stay positive for every modifier roll.
	for _, gn := range pop.genomes {
		if int(gn.Health) <= modRange {
			return nil, fmt.Errorf("%w: species %s health %d must exceed modifier range %d", ErrConfig, gn.Name, gn.Health, modRange)
		}
	}
	return &Grid{
		W:        w,
		H:        h,
		cells:    make([]Cell, w*h),
		pop:      pop,
		modRange: modRange,
	}, nil
}

// index converts an in-bounds coordinate to a flat array index.
func (g *Grid) index(c Coord) int {
	return c.Y*g.W + c.X
}

// InBounds returns true if the coordinate is within the grid boundaries.
func (g *Grid) InBounds(c Coord) bool {
	return c.X >= 0 && c.X < g.W && c.Y >= 0 && c.Y < g.H
}

// Len returns the number of cells.
func (g *Grid) Len() int {
	return len(g.cells)
}

// Population returns the species arena the grid references.
func (g *Grid) Population() *Population {
	return g.pop
}

// ModifierRange returns the bound used when rolling modifiers.
func (g *Grid) ModifierRange() int {
	return g.modRange
}

// CellAt returns a copy of the cell at (x, y).
func (g *Grid) CellAt(x, y int) (Cell, error) {
	c := C(x, y)
	if !g.InBounds(c) {
		return Cell{}, fmt.Errorf("%w: %v on %dx%d board", ErrOutOfBounds, c, g.W, g.H)
	}
	return g.cells[g.index(c)], nil
}

// CellAtMut returns a pointer to the cell at (x, y) for in-place mutation.
// The pointer stays valid for the lifetime of the grid.
func (g *Grid) CellAtMut(x, y int) (*Cell, error) {
	c := C(x, y)
	if !g.InBounds(c) {
		return nil, fmt.Errorf("%w: %v on %dx%d board", ErrOutOfBounds, c, g.W, g.H)
	}
	return &g.cells[g.index(c)], nil
}

// Place hands the cell at (x, y) to species id with the given modifiers,
// exactly as a capture would. Modifiers must lie within the grid's range.
func (g *Grid) Place(x, y int, id GenomeID, mods Modifiers) error {
	cell, err := g.CellAtMut(x, y)
	if err != nil {
		return err
	}
	if int(id) >= g.pop.Len() {
		return fmt.Errorf("%w: genome %d not in population of %d", ErrConfig, id, g.pop.Len())
	}
	if !mods.Within(g.modRange) {
		return fmt.Errorf("%w: modifiers %+v outside range %d", ErrConfig, mods, g.modRange)
	}
	cell.assign(id, g.pop.Genome(id), mods)
	cell.reborn = false
	return nil
}

// NeighborsOf returns the in-bounds neighbors of (x, y) that belong to a
// different species, keyed by direction. Same-species neighbors are never
// combat candidates and are omitted.
func (g *Grid) NeighborsOf(x, y int) (map[Direction]*Cell, error) {
	c := C(x, y)
	if !g.InBounds(c) {
		return nil, fmt.Errorf("%w: %v on %dx%d board", ErrOutOfBounds, c, g.W, g.H)
	}

	var buf [NumDirections]neighbor
	n := g.enemyNeighbors(c, &buf)
	out := make(map[Direction]*Cell, n)
	for _, nb := range buf[:n] {
		out[nb.dir] = &g.cells[nb.idx]
	}
	return out, nil
}

// enemyNeighbors fills out with the enemy neighbors of an in-bounds c in
// canonical direction order and returns how many were found.
func (g *Grid) enemyNeighbors(c Coord, out *[NumDirections]neighbor) int {
	own := g.cells[g.index(c)].Genome
	n := 0
	for _, d := range AllDirections() {
		at := c.Step(d)
		if !g.InBounds(at) {
			continue
		}
		idx := g.index(at)
		if g.cells[idx].Genome == own {
			continue
		}
		out[n] = neighbor{dir: d, at: at, idx: idx}
		n++
	}
	return n
}

// Each calls fn for every cell in row-major order.
func (g *Grid) Each(fn func(c Coord, cell Cell)) {
	for y := 0; y < g.H; y++ {
		for x := 0; x < g.W; x++ {
			fn(C(x, y), g.cells[y*g.W+x])
		}
	}
}

// Counts returns the number of cells owned by each species, indexed by GenomeID.
func (g *Grid) Counts() []int {
	counts := make([]int, g.pop.Len())
	for _, cell := range g.cells {
		counts[cell.Genome]++
	}
	return counts
}

// clone returns a deep copy of the grid sharing the same population.
func (g *Grid) clone() *Grid {
	cells := make([]Cell, len(g.cells))
	copy(cells, g.cells)
	return &Grid{
		W:        g.W,
		H:        g.H,
		cells:    cells,
		pop:      g.pop,
		modRange: g.modRange,
	}
}

// Equal returns true if two grids have the same dimensions and cell state.
func (g *Grid) Equal(other *Grid) bool {
	if g.W != other.W || g.H != other.H {
		return false
	}
	for i, cell := range g.cells {
		if cell != other.cells[i] {
			return false
		}
	}
	return true
}

// beginTick clears per-tick flags on every cell.
func (g *Grid) beginTick() {
	for i := range g.cells {
		g.cells[i].Fought = false
		g.cells[i].reborn = false
	}
}
