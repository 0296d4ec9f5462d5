package melee

import (
	"math/rand"
	"testing"

	"github.com/vovakirdan/pixelwar/internal/config"
	"github.com/vovakirdan/pixelwar/internal/registry"
)

func TestRegistered(t *testing.T) {
	if !registry.Exists("melee") {
		t.Fatal("melee should register itself")
	}
}

func TestBlockOwner(t *testing.T) {
	for n := 3; n <= 8; n++ {
		for by := 0; by < 6; by++ {
			for bx := 0; bx < 6; bx++ {
				x, y := bx*BlockSize, by*BlockSize
				own := BlockOwner(x, y, n)
				if BlockOwner(x+BlockSize-1, y+BlockSize-1, n) != own {
					t.Fatalf("block (%d, %d) is not uniform", bx, by)
				}
				if own == BlockOwner(x+BlockSize, y, n) {
					t.Errorf("n=%d block (%d, %d) matches its east neighbor", n, bx, by)
				}
				if own == BlockOwner(x, y+BlockSize, n) {
					t.Errorf("n=%d block (%d, %d) matches its south neighbor", n, bx, by)
				}
			}
		}
	}
}

func TestBuildEveryCellFights(t *testing.T) {
	cfg := config.DefaultSimConfig()
	cfg.Board.Species = 4

	grid, err := New().Build(cfg, 12, 8, rand.New(rand.NewSource(2)))
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}
	for y := 0; y < grid.H; y++ {
		for x := 0; x < grid.W; x++ {
			if (x == 0 || x == grid.W-1) && (y == 0 || y == grid.H-1) {
				continue // Board corners only touch their own block
			}
			nbs, _ := grid.NeighborsOf(x, y)
			if len(nbs) == 0 {
				t.Errorf("cell (%d, %d) has no enemy neighbor", x, y)
			}
		}
	}
}

func TestBuildSingleSpecies(t *testing.T) {
	cfg := config.DefaultSimConfig()
	cfg.Board.Species = 1

	grid, err := New().Build(cfg, 4, 4, rand.New(rand.NewSource(2)))
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}
	if grid.Counts()[0] != 16 {
		t.Errorf("single species should own the board, got %v", grid.Counts())
	}
}
