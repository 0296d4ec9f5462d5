package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "nested", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// Check that the file was created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreReopenKeepsRuns(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	if _, err := store.SaveRun(RunRecord{Scenario: "classic", Seed: 1, Width: 4, Height: 4, Species: 2}, nil); err != nil {
		t.Fatalf("SaveRun() failed: %v", err)
	}
	store.Close()

	store, err = Open(dbPath)
	if err != nil {
		t.Fatalf("second Open() failed: %v", err)
	}
	defer store.Close()

	runs, err := store.RecentRuns("", 10)
	if err != nil {
		t.Fatalf("RecentRuns() failed: %v", err)
	}
	if len(runs) != 1 {
		t.Errorf("Expected 1 run after reopen, got %d", len(runs))
	}
}

func TestStoreSaveAndRetrieveRun(t *testing.T) {
	store := openTestStore(t)

	run := RunRecord{
		Scenario:      "duel",
		Seed:          -42,
		Width:         80,
		Height:        24,
		Species:       2,
		Aggression:    "savage",
		Ticks:         1500,
		Survivors:     1,
		Dominant:      "AB",
		DominantShare: 1,
		Entropy:       0,
		Duration:      2500 * time.Millisecond,
	}
	census := []CensusPoint{
		{Tick: 500, Survivors: 2, Dominant: "AA", DominantShare: 0.6, Entropy: 0.67, HealthMean: 120},
		{Tick: 1000, Survivors: 2, Dominant: "AB", DominantShare: 0.9, Entropy: 0.33, HealthMean: 130},
		{Tick: 1500, Survivors: 1, Dominant: "AB", DominantShare: 1, Entropy: 0, HealthMean: 140},
	}

	id, err := store.SaveRun(run, census)
	if err != nil {
		t.Fatalf("SaveRun() failed: %v", err)
	}

	got, err := store.RunByID(id)
	if err != nil {
		t.Fatalf("RunByID() failed: %v", err)
	}
	if got == nil {
		t.Fatal("RunByID() returned nil for a saved run")
	}

	if got.Scenario != "duel" || got.Seed != -42 || got.Width != 80 || got.Height != 24 {
		t.Errorf("Unexpected run identity: %+v", got)
	}
	if got.Ticks != 1500 || got.Survivors != 1 || got.Dominant != "AB" || got.Aggression != "savage" {
		t.Errorf("Unexpected run outcome: %+v", got)
	}
	if got.Duration != 2500*time.Millisecond {
		t.Errorf("Expected duration 2.5s, got %v", got.Duration)
	}
	if got.CreatedAt.IsZero() {
		t.Error("Expected created_at to be set")
	}

	points, err := store.RunCensus(id)
	if err != nil {
		t.Fatalf("RunCensus() failed: %v", err)
	}
	if len(points) != 3 {
		t.Fatalf("Expected 3 census points, got %d", len(points))
	}
	if points[0].Tick != 500 || points[2].Tick != 1500 {
		t.Errorf("Census not in tick order: %+v", points)
	}
	if points[1].Dominant != "AB" || points[1].HealthMean != 130 {
		t.Errorf("Unexpected census point: %+v", points[1])
	}
}

func TestStoreRunByIDMissing(t *testing.T) {
	store := openTestStore(t)

	got, err := store.RunByID(999)
	if err != nil {
		t.Fatalf("RunByID() failed: %v", err)
	}
	if got != nil {
		t.Errorf("Expected nil for missing run, got %+v", got)
	}
}

func TestStoreEmptyDominant(t *testing.T) {
	store := openTestStore(t)

	id, err := store.SaveRun(RunRecord{Scenario: "classic", Width: 1, Height: 1, Species: 1}, nil)
	if err != nil {
		t.Fatalf("SaveRun() failed: %v", err)
	}
	got, _ := store.RunByID(id)
	if got.Dominant != "" {
		t.Errorf("Expected empty dominant, got %q", got.Dominant)
	}
	if got.Aggression != "" {
		t.Errorf("Expected empty aggression to round-trip, got %q", got.Aggression)
	}
}

func TestStoreRecentRuns(t *testing.T) {
	store := openTestStore(t)

	for i := 0; i < 5; i++ {
		scenario := "classic"
		if i%2 == 1 {
			scenario = "islands"
		}
		if _, err := store.SaveRun(RunRecord{Scenario: scenario, Seed: int64(i), Width: 2, Height: 2, Species: 2}, nil); err != nil {
			t.Fatalf("SaveRun() failed: %v", err)
		}
	}

	all, err := store.RecentRuns("", 3)
	if err != nil {
		t.Fatalf("RecentRuns() failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("Expected 3 runs with limit, got %d", len(all))
	}
	// Newest first
	if all[0].Seed != 4 || all[1].Seed != 3 || all[2].Seed != 2 {
		t.Errorf("Runs not newest first: %d %d %d", all[0].Seed, all[1].Seed, all[2].Seed)
	}

	islands, err := store.RecentRuns("islands", 0)
	if err != nil {
		t.Fatalf("RecentRuns() failed: %v", err)
	}
	if len(islands) != 2 {
		t.Errorf("Expected 2 islands runs, got %d", len(islands))
	}
	for _, r := range islands {
		if r.Scenario != "islands" {
			t.Errorf("Filter leaked scenario %q", r.Scenario)
		}
	}
}

func TestStoreClearRuns(t *testing.T) {
	store := openTestStore(t)

	id, _ := store.SaveRun(RunRecord{Scenario: "melee", Width: 2, Height: 2, Species: 3}, []CensusPoint{{Tick: 1, Dominant: "AA"}})
	store.SaveRun(RunRecord{Scenario: "classic", Width: 2, Height: 2, Species: 3}, nil)

	if err := store.ClearRuns("melee"); err != nil {
		t.Fatalf("ClearRuns() failed: %v", err)
	}

	melee, _ := store.RecentRuns("melee", 10)
	if len(melee) != 0 {
		t.Errorf("Expected 0 melee runs after clear, got %d", len(melee))
	}
	points, _ := store.RunCensus(id)
	if len(points) != 0 {
		t.Errorf("Expected census of cleared run to be gone, got %d points", len(points))
	}

	classic, _ := store.RecentRuns("classic", 10)
	if len(classic) != 1 {
		t.Errorf("Expected classic runs to remain, got %d", len(classic))
	}
}

func TestStoreScenarioStats(t *testing.T) {
	store := openTestStore(t)

	store.SaveRun(RunRecord{Scenario: "duel", Width: 2, Height: 2, Species: 2, Ticks: 100, Survivors: 1}, nil)
	store.SaveRun(RunRecord{Scenario: "duel", Width: 2, Height: 2, Species: 2, Ticks: 300, Survivors: 2}, nil)
	store.SaveRun(RunRecord{Scenario: "classic", Width: 2, Height: 2, Species: 8, Ticks: 50, Survivors: 5}, nil)

	stats, err := store.GetScenarioStats()
	if err != nil {
		t.Fatalf("GetScenarioStats() failed: %v", err)
	}

	duel := stats["duel"]
	if duel == nil {
		t.Fatal("Expected stats for duel")
	}
	if duel.Runs != 2 || duel.AvgTicks != 200 || duel.AvgSurvivors != 1.5 || duel.Monocultures != 1 {
		t.Errorf("Unexpected duel stats: %+v", duel)
	}
	if stats["classic"] == nil || stats["classic"].Runs != 1 {
		t.Errorf("Unexpected classic stats: %+v", stats["classic"])
	}
	if _, ok := stats["melee"]; ok {
		t.Error("Scenario without runs should not appear in stats")
	}
}
