package duel

import (
	"math/rand"
	"testing"

	"github.com/vovakirdan/pixelwar/internal/config"
	"github.com/vovakirdan/pixelwar/internal/registry"
)

func TestRegistered(t *testing.T) {
	if !registry.Exists("duel") {
		t.Fatal("duel should register itself")
	}
}

func TestBuildSplitsBoard(t *testing.T) {
	tests := []struct {
		w, h        int
		left, right int
	}{
		{10, 4, 20, 20},
		{5, 2, 6, 4},
		{1, 3, 3, 0},
	}
	for _, tc := range tests {
		grid, err := New().Build(config.DefaultSimConfig(), tc.w, tc.h, rand.New(rand.NewSource(3)))
		if err != nil {
			t.Fatalf("Build(%dx%d) failed: %v", tc.w, tc.h, err)
		}
		if grid.Population().Len() != 2 {
			t.Fatalf("population = %d, expected 2", grid.Population().Len())
		}
		counts := grid.Counts()
		if counts[0] != tc.left || counts[1] != tc.right {
			t.Errorf("%dx%d counts = %v, expected [%d %d]", tc.w, tc.h, counts, tc.left, tc.right)
		}

		for y := 0; y < tc.h; y++ {
			cell, _ := grid.CellAt(0, y)
			if cell.Genome != 0 {
				t.Errorf("left column row %d owned by %d", y, cell.Genome)
			}
		}
	}
}
