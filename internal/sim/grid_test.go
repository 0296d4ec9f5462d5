package sim

import (
	"errors"
	"math/rand"
	"strings"
	"testing"

	"github.com/vovakirdan/pixelwar/internal/config"
)

func randomGrid(t *testing.T, w, h, species int, seed int64) *Grid {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	pop, err := GeneratePopulation(species, config.DefaultSimConfig().Stats, rng)
	if err != nil {
		t.Fatalf("GeneratePopulation() failed: %v", err)
	}
	g, err := NewGrid(w, h, pop, 10, rng)
	if err != nil {
		t.Fatalf("NewGrid() failed: %v", err)
	}
	return g
}

func TestNewGridRejects(t *testing.T) {
	pop := twoSpecies(t, 1, 1)
	rng := rand.New(rand.NewSource(1))

	tests := []struct {
		name     string
		w, h     int
		pop      *Population
		modRange int
	}{
		{"zero width", 0, 5, pop, 10},
		{"zero height", 5, 0, pop, 10},
		{"negative", -1, 5, pop, 10},
		{"no population", 5, 5, nil, 10},
		{"negative modifier range", 5, 5, pop, -1},
		{"modifier range overflow", 5, 5, pop, 128},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewGrid(tc.w, tc.h, tc.pop, tc.modRange, rng); !errors.Is(err, ErrConfig) {
				t.Errorf("NewGrid() error = %v, expected ErrConfig", err)
			}
		})
	}
}

func TestNewGridInitialCells(t *testing.T) {
	g := randomGrid(t, 20, 15, 6, 42)

	if g.Len() != 300 {
		t.Fatalf("Len() = %d, expected 300", g.Len())
	}
	pop := g.Population()
	g.Each(func(c Coord, cell Cell) {
		if int(cell.Genome) >= pop.Len() {
			t.Fatalf("cell %v has unknown genome %d", c, cell.Genome)
		}
		if !cell.Mods.Within(10) {
			t.Errorf("cell %v modifiers %+v out of range", c, cell.Mods)
		}
		if want := startingHealth(pop.Genome(cell.Genome), cell.Mods); cell.Health != want {
			t.Errorf("cell %v health = %d, expected %d", c, cell.Health, want)
		}
		if cell.Age != 0 || cell.Fought || cell.Reborn() {
			t.Errorf("cell %v should start fresh, got %+v", c, cell)
		}
	})

	total := 0
	for _, n := range g.Counts() {
		total += n
	}
	if total != g.Len() {
		t.Errorf("Counts() sums to %d, expected %d", total, g.Len())
	}
}

func TestCellAccessorsOutOfBounds(t *testing.T) {
	g := randomGrid(t, 4, 3, 2, 1)

	for _, c := range []Coord{{-1, 0}, {0, -1}, {4, 0}, {0, 3}, {100, 100}} {
		if _, err := g.CellAt(c.X, c.Y); !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("CellAt(%v) error = %v, expected ErrOutOfBounds", c, err)
		}
		if _, err := g.CellAtMut(c.X, c.Y); !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("CellAtMut(%v) error = %v, expected ErrOutOfBounds", c, err)
		}
		if _, err := g.NeighborsOf(c.X, c.Y); !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("NeighborsOf(%v) error = %v, expected ErrOutOfBounds", c, err)
		}
		if _, err := g.Inspect(c.X, c.Y); !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("Inspect(%v) error = %v, expected ErrOutOfBounds", c, err)
		}
	}
}

func TestCellAtMutAliasesGrid(t *testing.T) {
	g := randomGrid(t, 3, 3, 2, 1)
	cell, err := g.CellAtMut(2, 1)
	if err != nil {
		t.Fatalf("CellAtMut() failed: %v", err)
	}
	cell.Health = 7
	got, _ := g.CellAt(2, 1)
	if got.Health != 7 {
		t.Errorf("mutation through CellAtMut not visible, health = %d", got.Health)
	}
}

func TestNeighborsOfBounds(t *testing.T) {
	g := randomGrid(t, 12, 9, 4, 7)

	for y := 0; y < g.H; y++ {
		for x := 0; x < g.W; x++ {
			nbs, err := g.NeighborsOf(x, y)
			if err != nil {
				t.Fatalf("NeighborsOf(%d, %d) failed: %v", x, y, err)
			}

			edgeX := x == 0 || x == g.W-1
			edgeY := y == 0 || y == g.H-1
			limit := 8
			switch {
			case edgeX && edgeY:
				limit = 3
			case edgeX || edgeY:
				limit = 5
			}
			if len(nbs) > limit {
				t.Errorf("cell (%d, %d) has %d neighbors, limit %d", x, y, len(nbs), limit)
			}

			self, _ := g.CellAt(x, y)
			for d, nb := range nbs {
				at := C(x, y).Step(d)
				if !g.InBounds(at) {
					t.Errorf("cell (%d, %d) reports out-of-bounds neighbor %v", x, y, d)
					continue
				}
				want, _ := g.CellAtMut(at.X, at.Y)
				if nb != want {
					t.Errorf("neighbor %v of (%d, %d) is not the cell at %v", d, x, y, at)
				}
				if nb.Genome == self.Genome {
					t.Errorf("neighbor %v of (%d, %d) shares its species", d, x, y)
				}
			}
		}
	}
}

func TestNeighborsOfSurrounded(t *testing.T) {
	pop := twoSpecies(t, 50, 50)
	g, _ := surrounded(t, pop, 0, 1)

	nbs, err := g.NeighborsOf(1, 1)
	if err != nil {
		t.Fatalf("NeighborsOf(1, 1) failed: %v", err)
	}
	if len(nbs) != 8 {
		t.Fatalf("center has %d enemy neighbors, expected 8", len(nbs))
	}
	for _, d := range AllDirections() {
		nb, ok := nbs[d]
		if !ok {
			t.Errorf("missing neighbor %v", d)
			continue
		}
		if nb.Genome != 1 {
			t.Errorf("neighbor %v has genome %d, expected B", d, nb.Genome)
		}
	}
}

func TestGridRejectsFragileGenomes(t *testing.T) {
	pop, err := NewPopulation([]Genome{
		{Name: "A", Health: 50},
		{Name: "B", Health: 10},
	})
	if err != nil {
		t.Fatalf("NewPopulation() failed: %v", err)
	}
	rng := rand.New(rand.NewSource(1))

	if _, err := NewGrid(4, 4, pop, 10, rng); !errors.Is(err, ErrConfig) {
		t.Errorf("NewGrid() error = %v, expected ErrConfig for health <= modifier range", err)
	}
	if _, err := NewUniformGrid(4, 4, pop, 0, 10, rng); !errors.Is(err, ErrConfig) {
		t.Errorf("NewUniformGrid() error = %v, expected ErrConfig", err)
	}
	if _, err := NewGrid(4, 4, pop, 9, rng); err != nil {
		t.Errorf("NewGrid() with range 9 failed: %v", err)
	}
}

func TestPlaceRejectsModifiersOutOfRange(t *testing.T) {
	pop := twoSpecies(t, 1, 1)
	g, _ := NewUniformGrid(2, 2, pop, 0, 5, rand.New(rand.NewSource(1)))

	if err := g.Place(0, 0, 1, Modifiers{Health: -6}); !errors.Is(err, ErrConfig) {
		t.Errorf("Place() error = %v, expected ErrConfig", err)
	}
	if err := g.Place(0, 0, 1, Modifiers{Health: -5}); err != nil {
		t.Fatalf("Place() failed: %v", err)
	}
	cell, _ := g.CellAt(0, 0)
	if cell.Health != 45 {
		t.Errorf("health = %d, expected base 50 + modifier -5", cell.Health)
	}
}

func TestNeighborsOfUniformBoard(t *testing.T) {
	pop := twoSpecies(t, 1, 1)
	g, err := NewUniformGrid(5, 5, pop, 0, 0, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("NewUniformGrid() failed: %v", err)
	}
	nbs, _ := g.NeighborsOf(2, 2)
	if len(nbs) != 0 {
		t.Errorf("uniform board should have no enemy neighbors, got %d", len(nbs))
	}

	_ = g.Place(3, 3, 1, Modifiers{})
	nbs, _ = g.NeighborsOf(2, 2)
	if len(nbs) != 1 || nbs[SouthEast] == nil {
		t.Errorf("expected a single south-east enemy, got %v", nbs)
	}
}

func TestSingleCellGrid(t *testing.T) {
	g := randomGrid(t, 1, 1, 3, 1)
	nbs, err := g.NeighborsOf(0, 0)
	if err != nil {
		t.Fatalf("NeighborsOf() failed: %v", err)
	}
	if len(nbs) != 0 {
		t.Errorf("1x1 board has %d neighbors", len(nbs))
	}
}

func TestPlaceRejectsUnknownGenome(t *testing.T) {
	g := randomGrid(t, 2, 2, 2, 1)
	if err := g.Place(0, 0, 5, Modifiers{}); !errors.Is(err, ErrConfig) {
		t.Errorf("Place() error = %v, expected ErrConfig", err)
	}
	if err := g.Place(2, 0, 0, Modifiers{}); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("Place() error = %v, expected ErrOutOfBounds", err)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	g := randomGrid(t, 6, 6, 3, 9)
	c := g.clone()
	if !g.Equal(c) {
		t.Fatal("clone should equal the original")
	}
	cell, _ := c.CellAtMut(0, 0)
	cell.Health++
	if g.Equal(c) {
		t.Error("mutating the clone should not affect the original")
	}
}

func TestColorBufferIsPure(t *testing.T) {
	g := randomGrid(t, 8, 5, 4, 3)
	before := g.clone()

	a := g.ColorBuffer()
	b := g.ColorBuffer()
	if len(a) != g.W*g.H {
		t.Fatalf("buffer length = %d, expected %d", len(a), g.W*g.H)
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("buffers differ at %d", i)
		}
	}
	if !g.Equal(before) {
		t.Error("ColorBuffer() mutated the grid")
	}

	g.Each(func(c Coord, cell Cell) {
		if got := a[c.Y*g.W+c.X]; got != g.Population().Color(cell.Genome) {
			t.Errorf("pixel %v = %+v, expected species color", c, got)
		}
	})
}

func TestRenderASCII(t *testing.T) {
	pop := twoSpecies(t, 1, 1)
	g, _ := NewUniformGrid(3, 2, pop, 1, 0, rand.New(rand.NewSource(1)))
	_ = g.Place(1, 0, 0, Modifiers{})

	if got, want := RenderASCII(g), "BAB\nBBB"; got != want {
		t.Errorf("RenderASCII() = %q, expected %q", got, want)
	}

	wide := randomGrid(t, 3, 2, 30, 1)
	lines := strings.Split(RenderASCII(wide), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(lines))
	}
	for _, line := range lines {
		if fields := strings.Fields(line); len(fields) != 3 {
			t.Errorf("row %q should hold 3 two-letter names", line)
		}
	}
}

func TestInspect(t *testing.T) {
	pop := twoSpecies(t, 1, 1)
	g, _ := NewUniformGrid(3, 3, pop, 1, 0, rand.New(rand.NewSource(1)))
	_ = g.Place(0, 0, 0, Modifiers{})

	rep, err := g.Inspect(1, 1)
	if err != nil {
		t.Fatalf("Inspect() failed: %v", err)
	}
	if rep.Species != "B" {
		t.Errorf("species = %q, expected B", rep.Species)
	}
	if len(rep.Enemies) != 1 || rep.Enemies[0].Dir != NorthWest || rep.Enemies[0].Species != "A" {
		t.Errorf("unexpected enemies %+v", rep.Enemies)
	}
	if out := rep.String(); !strings.Contains(out, "NW=A") {
		t.Errorf("report %q should list the north-west enemy", out)
	}

	rep, _ = g.Inspect(2, 2)
	if !strings.Contains(rep.String(), "no enemy neighbors") {
		t.Errorf("isolated cell report = %q", rep.String())
	}
}

func TestDirections(t *testing.T) {
	seen := make(map[[2]int]bool)
	for _, d := range AllDirections() {
		dx, dy := d.Delta()
		if dx == 0 && dy == 0 {
			t.Errorf("%v has a zero offset", d)
		}
		seen[[2]int{dx, dy}] = true

		ox, oy := d.Opposite().Delta()
		if ox != -dx || oy != -dy {
			t.Errorf("%v opposite %v does not point back", d, d.Opposite())
		}
	}
	if len(seen) != NumDirections {
		t.Errorf("expected %d distinct offsets, got %d", NumDirections, len(seen))
	}
	if North.String() != "N" || SouthWest.String() != "SW" {
		t.Errorf("unexpected names %q %q", North, SouthWest)
	}
	if got := C(3, 4).Step(NorthEast); got != C(4, 3) {
		t.Errorf("Step(NE) = %v", got)
	}
}
