package sim

import (
	"fmt"
	"image/color"
	"math/rand"

	"github.com/vovakirdan/pixelwar/internal/config"
)

// State is the scheduler state.
type State uint8

const (
	StateIdle     State = iota // Between ticks; the grid is stable
	StateStepping              // A tick is in progress
)

// String returns the string representation of a state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateStepping:
		return "stepping"
	default:
		return "unknown"
	}
}

// TickResult contains information about what happened during a tick.
type TickResult struct {
	Tick        uint64
	Engagements []Engagement
	Draws       int
	Hits        int
	Routs       int
	Captures    int
	Deaths      int // Old-age respawns
}

// EngagementHook observes every engagement as it is applied.
type EngagementHook func(Engagement)

// Simulation drives ticks over a grid. It is single-threaded: callers must
// not read the grid while Step is running.
type Simulation struct {
	cfg      config.SimConfig
	pop      *Population
	grid     *Grid
	resolver *Resolver
	rng      *rand.Rand
	tick     uint64
	state    State
	hook     EngagementHook
}

// New creates a simulation over an existing grid. rng must be the same
// source the grid was built from for a run to be reproducible from its seed.
func New(cfg config.SimConfig, grid *Grid, rng *rand.Rand) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}
	if grid == nil {
		return nil, fmt.Errorf("%w: nil grid", ErrConfig)
	}
	if rng == nil {
		return nil, fmt.Errorf("%w: nil random source", ErrConfig)
	}
	return &Simulation{
		cfg:      cfg,
		pop:      grid.pop,
		grid:     grid,
		resolver: NewResolver(cfg.Combat, rng),
		rng:      rng,
	}, nil
}

// Build generates a population and a randomly assigned w×h board from one
// seed. A fixed seed reproduces the entire run.
func Build(cfg config.SimConfig, w, h int, seed int64) (*Simulation, error) {
	rng := rand.New(rand.NewSource(seed))
	pop, err := GeneratePopulation(cfg.Board.Species, cfg.Stats, rng)
	if err != nil {
		return nil, err
	}
	grid, err := NewGrid(w, h, pop, cfg.Stats.ModifierRange, rng)
	if err != nil {
		return nil, err
	}
	return New(cfg, grid, rng)
}

// SetEngagementHook installs an observer called after each engagement.
func (s *Simulation) SetEngagementHook(h EngagementHook) {
	s.hook = h
}

// Grid returns the board. Read it only while the simulation is idle.
func (s *Simulation) Grid() *Grid {
	return s.grid
}

// Population returns the species arena.
func (s *Simulation) Population() *Population {
	return s.pop
}

// Config returns the configuration the simulation runs with.
func (s *Simulation) Config() config.SimConfig {
	return s.cfg
}

// Tick returns the number of completed ticks.
func (s *Simulation) Tick() uint64 {
	return s.tick
}

// State returns the scheduler state.
func (s *Simulation) State() State {
	return s.state
}

// ColorBuffer returns the current frame for the renderer.
func (s *Simulation) ColorBuffer() []color.RGBA {
	if s.state != StateIdle {
		panic("sim: color buffer read during a tick")
	}
	return s.grid.ColorBuffer()
}

// Step advances the simulation by one tick.
//
// Tick phases:
//  1. Clear every cell's fought flag.
//  2. Visit cells in row-major order as attackers; outcomes are applied in
//     place, so later cells see neighbors already changed this tick.
//  3. Age every cell that kept its owner and roll old-age death for those
//     past their expectancy.
func (s *Simulation) Step() TickResult {
	if s.state != StateIdle {
		panic("sim: tick started while another is in progress")
	}
	s.state = StateStepping
	defer func() { s.state = StateIdle }()

	result := TickResult{Tick: s.tick + 1}
	g := s.grid
	g.beginTick()

	var buf [NumDirections]neighbor
	for y := 0; y < g.H; y++ {
		for x := 0; x < g.W; x++ {
			at := C(x, y)
			if g.cells[g.index(at)].Fought {
				continue
			}
			n := g.enemyNeighbors(at, &buf)
			if n == 0 {
				continue
			}
			eng, ok := s.resolver.attack(g, at, buf[:n])
			if !ok {
				continue
			}
			result.record(eng)
			if s.hook != nil {
				s.hook(eng)
			}
		}
	}

	result.Deaths = s.age()

	for i := range g.cells {
		if !g.cells[i].Alive() {
			panic(fmt.Sprintf("sim: cell %d ended tick %d with health %d", i, result.Tick, g.cells[i].Health))
		}
	}

	s.tick++
	return result
}

// Run advances the simulation n ticks and returns the last result.
func (s *Simulation) Run(n int) TickResult {
	var last TickResult
	for i := 0; i < n; i++ {
		last = s.Step()
	}
	return last
}

// age runs the aging pass and returns the number of old-age deaths.
func (s *Simulation) age() int {
	deaths := 0
	for i := range s.grid.cells {
		cell := &s.grid.cells[i]
		if cell.reborn {
			continue
		}
		cell.Age++
		if s.rollDeath(*cell) {
			id := GenomeID(s.rng.Intn(s.pop.Len()))
			cell.assign(id, s.pop.Genome(id), RollModifiers(s.rng, s.grid.modRange))
			deaths++
		}
	}
	return deaths
}

// rollDeath applies the rising death chance past a cell's expectancy.
// Randomness is only consumed for cells that are past it.
func (s *Simulation) rollDeath(cell Cell) bool {
	p := s.DeathChance(cell)
	switch {
	case p <= 0:
		return false
	case p >= 1:
		return true
	default:
		return s.rng.Float64() < p
	}
}

// DeathChance returns the per-tick old-age death probability for a cell.
func (s *Simulation) DeathChance(cell Cell) float64 {
	over := int(cell.Age) - cell.Stats(s.pop.Genome(cell.Genome)).Expectancy
	if over <= 0 || !s.cfg.Aging.Enabled {
		return 0
	}
	p := float64(over) * s.cfg.Aging.DeathRamp
	if p > 1 {
		return 1
	}
	return p
}

func (r *TickResult) record(e Engagement) {
	r.Engagements = append(r.Engagements, e)
	switch e.Kind {
	case OutcomeDraw:
		r.Draws++
	case OutcomeHit:
		r.Hits++
	case OutcomeRout:
		r.Routs++
	}
	if e.Captured {
		r.Captures++
	}
}
