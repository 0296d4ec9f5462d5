package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/vovakirdan/pixelwar/internal/config"
)

// SummaryRecord is one row of census.csv.
type SummaryRecord struct {
	Tick          uint64  `csv:"tick"`
	Survivors     int     `csv:"survivors"`
	Dominant      string  `csv:"dominant"`
	DominantShare float64 `csv:"dominant_share"`
	Entropy       float64 `csv:"entropy"`
	HealthMean    float64 `csv:"health_mean"`
	HealthStd     float64 `csv:"health_std"`
	Engagements   int     `csv:"engagements"`
	Captures      int     `csv:"captures"`
	Routs         int     `csv:"routs"`
	Deaths        int     `csv:"deaths"`
}

// SpeciesRecord is one row of species.csv.
type SpeciesRecord struct {
	Tick       uint64  `csv:"tick"`
	Species    string  `csv:"species"`
	Cells      int     `csv:"cells"`
	Share      float64 `csv:"share"`
	MeanHealth float64 `csv:"mean_health"`
}

// NewSummaryRecord combines a census with the activity since the last sample.
func NewSummaryRecord(c Census, w Window) SummaryRecord {
	r := SummaryRecord{
		Tick:        c.Tick,
		Survivors:   c.Survivors,
		Entropy:     c.Entropy,
		HealthMean:  c.HealthMean,
		HealthStd:   c.HealthStd,
		Engagements: w.Engagements,
		Captures:    w.Captures,
		Routs:       w.Routs,
		Deaths:      w.Deaths,
	}
	if d, ok := c.Dominant(); ok {
		r.Dominant = d.Name
		r.DominantShare = d.Share
	}
	return r
}

// SpeciesRecords flattens a census into one row per surviving species.
func SpeciesRecords(c Census) []SpeciesRecord {
	out := make([]SpeciesRecord, len(c.Species))
	for i, s := range c.Species {
		out[i] = SpeciesRecord{
			Tick:       c.Tick,
			Species:    s.Name,
			Cells:      s.Cells,
			Share:      s.Share,
			MeanHealth: s.MeanHealth,
		}
	}
	return out
}

// OutputManager writes census samples of a headless run as CSV.
type OutputManager struct {
	dir         string
	censusFile  *os.File
	speciesFile *os.File

	censusHeaderWritten  bool
	speciesHeaderWritten bool
}

// NewOutputManager creates the output directory and its CSV files.
// Returns nil if dir is empty (output disabled); every method is a no-op on nil.
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}

	f, err := os.Create(filepath.Join(dir, "census.csv"))
	if err != nil {
		return nil, fmt.Errorf("creating census.csv: %w", err)
	}
	om.censusFile = f

	f, err = os.Create(filepath.Join(dir, "species.csv"))
	if err != nil {
		om.censusFile.Close()
		return nil, fmt.Errorf("creating species.csv: %w", err)
	}
	om.speciesFile = f

	return om, nil
}

// WriteConfig saves the run configuration as YAML next to the CSV files.
func (om *OutputManager) WriteConfig(cfg config.SimConfig) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// WriteCensus appends one sample to census.csv and species.csv.
func (om *OutputManager) WriteCensus(c Census, w Window) error {
	if om == nil {
		return nil
	}

	summary := []SummaryRecord{NewSummaryRecord(c, w)}
	if err := writeRecords(om.censusFile, summary, &om.censusHeaderWritten); err != nil {
		return fmt.Errorf("writing census: %w", err)
	}

	species := SpeciesRecords(c)
	if len(species) == 0 {
		return nil
	}
	if err := writeRecords(om.speciesFile, species, &om.speciesHeaderWritten); err != nil {
		return fmt.Errorf("writing species: %w", err)
	}
	return nil
}

// writeRecords marshals rows, emitting the header only on the first call.
func writeRecords(f *os.File, records any, headerWritten *bool) error {
	if *headerWritten {
		return gocsv.MarshalWithoutHeaders(records, f)
	}
	if err := gocsv.Marshal(records, f); err != nil {
		return err
	}
	*headerWritten = true
	return nil
}

// Dir returns the output directory path.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close flushes and closes all output files.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}

	var firstErr error
	for _, f := range []*os.File{om.censusFile, om.speciesFile} {
		if f == nil {
			continue
		}
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
