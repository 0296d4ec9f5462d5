package tui

import (
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/pixelwar/internal/storage"
)

func TestHistoryModelFilters(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("storage.Open() failed: %v", err)
	}
	defer store.Close()

	for _, run := range []storage.RunRecord{
		{Scenario: "classic", Seed: 1, Width: 10, Height: 10, Ticks: 100, Survivors: 3, Dominant: "AA", DominantShare: 0.5},
		{Scenario: "elsewhere", Seed: 2, Width: 8, Height: 8, Ticks: 50, Survivors: 1, Dominant: "AB", DominantShare: 1},
	} {
		if _, err := store.SaveRun(run, nil); err != nil {
			t.Fatalf("SaveRun() failed: %v", err)
		}
	}

	m := NewHistoryModel(store, 100, 30)
	if m.Filter() != "" {
		t.Errorf("initial filter = %q, expected all runs", m.Filter())
	}
	if len(m.Runs()) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(m.Runs()))
	}
	if !strings.Contains(m.View(), "2 runs") {
		t.Error("summary should count every run")
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(HistoryModel)
	if m.Filter() != "classic" {
		t.Fatalf("filter after tab = %q, expected classic", m.Filter())
	}
	if len(m.Runs()) != 1 || m.Runs()[0].Seed != 1 {
		t.Errorf("classic filter listed %+v", m.Runs())
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	m = next.(HistoryModel)
	if m.Filter() != "" {
		t.Errorf("filter after shift+tab = %q, expected all runs", m.Filter())
	}
}

func TestHistoryModelWithoutStore(t *testing.T) {
	m := NewHistoryModel(nil, 80, 24)
	if len(m.Runs()) != 0 {
		t.Error("no store should list no runs")
	}
	if !strings.Contains(m.View(), "history is disabled") {
		t.Error("view should say history is disabled")
	}

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil || next.View() != "" {
		t.Error("q should quit")
	}
}
