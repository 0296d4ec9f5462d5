package main

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/pixelwar/internal/platform/tui"
	"github.com/vovakirdan/pixelwar/internal/registry"
	"github.com/vovakirdan/pixelwar/internal/sim"
	"github.com/vovakirdan/pixelwar/internal/telemetry"
)

var (
	flagSpeciesBoard int
	flagSpeciesName  string
)

var speciesCmd = &cobra.Command{
	Use:   "species [scenario]",
	Short: "Print the species generated for a seed",
	Long: `Generate the population of a scenario and print each species' genome
together with the share of the starting board it owns.

Use the same --seed, --species and --config as a run to see its species.

Examples:
  pixelwar species --seed 42
  pixelwar species duel --seed 42
  pixelwar species --seed 42 --name AB`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSpecies,
}

func init() {
	speciesCmd.Flags().IntVar(&flagSpeciesBoard, "board", 64, "Side of the square board used for the starting shares")
	speciesCmd.Flags().StringVar(&flagSpeciesName, "name", "", "Print only the species with this name")
}

func runSpecies(_ *cobra.Command, args []string) error {
	cfg, err := loadSimConfig()
	if err != nil {
		return err
	}
	scenario, err := resolveScenario(args, cfg)
	if err != nil {
		return err
	}

	seed := runSeed()
	s, err := registry.Start(scenario, cfg, flagSpeciesBoard, flagSpeciesBoard, seed)
	if err != nil {
		return err
	}
	pop := s.Population()
	census := telemetry.TakeCensus(0, s.Grid())
	shares := make(map[string]float64, len(census.Species))
	for _, sc := range census.Species {
		shares[sc.Name] = sc.Share
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		Headers("", "Name", "Health", "Strength", "Desire", "Frequency", "Expectancy", "Start")

	ids, err := selectSpecies(pop, flagSpeciesName)
	if err != nil {
		return err
	}
	for _, id := range ids {
		g := pop.Genome(id)
		swatch := lipgloss.NewStyle().
			Foreground(lipgloss.Color(tui.HexColor(pop.Color(id)))).
			Render("██")
		t.Row(
			swatch,
			g.Name,
			strconv.Itoa(int(g.Health)),
			strconv.Itoa(int(g.Strength)),
			strconv.Itoa(int(g.Desire)),
			strconv.Itoa(int(g.Frequency)),
			strconv.Itoa(int(g.Expectancy)),
			fmt.Sprintf("%.1f%%", shares[g.Name]*100),
		)
	}

	fmt.Printf("%s  seed %d  %d species\n", scenario, seed, pop.Len())
	fmt.Println(t.Render())
	return nil
}

// selectSpecies returns every species id, or only the one called name.
func selectSpecies(pop *sim.Population, name string) ([]sim.GenomeID, error) {
	if name != "" {
		id, ok := pop.ByName(name)
		if !ok {
			return nil, fmt.Errorf("no species named %q", name)
		}
		return []sim.GenomeID{id}, nil
	}
	ids := make([]sim.GenomeID, 0, pop.Len())
	for i := range pop.All() {
		ids = append(ids, sim.GenomeID(i))
	}
	return ids, nil
}
