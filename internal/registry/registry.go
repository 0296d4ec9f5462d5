// Package registry provides a global registry for board scenarios.
// Scenarios register themselves in init() functions, allowing the CLI and
// the SSH server to discover and start them without hardcoded dependencies.
package registry

import (
	"fmt"
	"math/rand"
	"sort"
	"sync"

	"github.com/vovakirdan/pixelwar/internal/config"
	"github.com/vovakirdan/pixelwar/internal/sim"
)

// Scenario lays out the starting board of a simulation.
// Scenarios contain pure setup logic with no rendering or storage concerns.
type Scenario interface {
	// ID returns a unique identifier (e.g., "classic", "duel").
	// Used for CLI flags and run history.
	ID() string

	// Title returns a human-readable name for display.
	Title() string

	// Description explains the starting layout in one sentence.
	Description() string

	// Build generates the population and the w×h starting grid.
	// All randomness must come from rng so a seed reproduces the board.
	Build(cfg config.SimConfig, w, h int, rng *rand.Rand) (*sim.Grid, error)
}

// ScenarioInfo contains metadata about a registered scenario.
type ScenarioInfo struct {
	ID          string
	Title       string
	Description string
}

// Factory is a function that creates a new instance of a scenario.
type Factory func() Scenario

var (
	factories = make(map[string]Factory)
	infos     = make(map[string]ScenarioInfo)
	mu        sync.RWMutex
)

// Register adds a scenario factory to the registry.
// Typically called from a scenario's init() function.
// Panics if a scenario with the same ID is already registered.
func Register(id string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		panic(fmt.Sprintf("registry: scenario %q already registered", id))
	}

	factories[id] = f

	s := f()
	infos[id] = ScenarioInfo{ID: id, Title: s.Title(), Description: s.Description()}
}

// List returns information about all registered scenarios, sorted by ID.
func List() []ScenarioInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]ScenarioInfo, 0, len(infos))
	for _, info := range infos {
		result = append(result, info)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Create instantiates a scenario by its ID.
// Returns an error if the ID is not registered.
func Create(id string) (Scenario, error) {
	mu.RLock()
	defer mu.RUnlock()

	f, ok := factories[id]
	if !ok {
		return nil, fmt.Errorf("registry: unknown scenario %q", id)
	}

	return f(), nil
}

// Exists checks if a scenario with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[id]
	return ok
}

// Start builds the named scenario and wraps it in a simulation. The seed
// drives both the board layout and every later tick.
func Start(id string, cfg config.SimConfig, w, h int, seed int64) (*sim.Simulation, error) {
	s, err := Create(id)
	if err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(seed))
	grid, err := s.Build(cfg, w, h, rng)
	if err != nil {
		return nil, fmt.Errorf("registry: build %s: %w", id, err)
	}

	return sim.New(cfg, grid, rng)
}
