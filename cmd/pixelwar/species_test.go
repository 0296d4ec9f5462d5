package main

import (
	"testing"

	"github.com/vovakirdan/pixelwar/internal/sim"
)

func TestSelectSpecies(t *testing.T) {
	pop, err := sim.NewPopulation([]sim.Genome{
		{Name: "AA", Health: 40},
		{Name: "AB", Health: 20},
		{Name: "AC", Health: 30},
	})
	if err != nil {
		t.Fatalf("NewPopulation() failed: %v", err)
	}

	all, err := selectSpecies(pop, "")
	if err != nil {
		t.Fatalf("selectSpecies() failed: %v", err)
	}
	if len(all) != 3 || all[0] != 0 || all[2] != 2 {
		t.Errorf("selectSpecies(\"\") = %v, expected every id in order", all)
	}

	one, err := selectSpecies(pop, "AB")
	if err != nil {
		t.Fatalf("selectSpecies(AB) failed: %v", err)
	}
	if len(one) != 1 || one[0] != 1 {
		t.Errorf("selectSpecies(AB) = %v, expected [1]", one)
	}

	if _, err := selectSpecies(pop, "ZZ"); err == nil {
		t.Error("unknown species name should fail")
	}
}
