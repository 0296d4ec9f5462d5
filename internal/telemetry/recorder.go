package telemetry

import (
	"time"

	"github.com/vovakirdan/pixelwar/internal/sim"
	"github.com/vovakirdan/pixelwar/internal/storage"
)

// RunMeta identifies a run for the history database.
type RunMeta struct {
	Scenario   string
	Seed       int64
	Aggression string
}

// Recorder samples a census every N ticks and turns the samples into a
// history record when the run ends.
type Recorder struct {
	every   uint64
	started time.Time
	window  Window
	samples []Census
}

// NewRecorder creates a recorder that samples every `every` ticks.
// Values below 1 are treated as 1.
func NewRecorder(every int) *Recorder {
	if every < 1 {
		every = 1
	}
	return &Recorder{every: uint64(every), started: time.Now()}
}

// Observe folds a tick result into the current window. When the tick lands
// on a sample boundary it takes a census of g and returns it together with
// the finished window.
func (r *Recorder) Observe(res sim.TickResult, g *sim.Grid) (Census, Window, bool) {
	r.window.Add(res)
	if res.Tick%r.every != 0 {
		return Census{}, Window{}, false
	}
	c := TakeCensus(res.Tick, g)
	w := r.window
	r.samples = append(r.samples, c)
	r.window.Reset()
	return c, w, true
}

// Samples returns the censuses taken so far.
func (r *Recorder) Samples() []Census {
	return r.samples
}

// Elapsed returns the wall-clock time since the recorder was created.
func (r *Recorder) Elapsed() time.Duration {
	return time.Since(r.started)
}

// Record builds the history entry for a run whose final state is final.
func (r *Recorder) Record(meta RunMeta, g *sim.Grid, final Census) (storage.RunRecord, []storage.CensusPoint) {
	run := storage.RunRecord{
		Scenario:   meta.Scenario,
		Seed:       meta.Seed,
		Width:      g.W,
		Height:     g.H,
		Species:    g.Population().Len(),
		Aggression: meta.Aggression,
		Ticks:      final.Tick,
		Survivors:  final.Survivors,
		Entropy:    final.Entropy,
		Duration:   r.Elapsed(),
	}
	if d, ok := final.Dominant(); ok {
		run.Dominant = d.Name
		run.DominantShare = d.Share
	}

	points := make([]storage.CensusPoint, 0, len(r.samples))
	for _, c := range r.samples {
		p := storage.CensusPoint{
			Tick:       c.Tick,
			Survivors:  c.Survivors,
			Entropy:    c.Entropy,
			HealthMean: c.HealthMean,
		}
		if d, ok := c.Dominant(); ok {
			p.Dominant = d.Name
			p.DominantShare = d.Share
		}
		points = append(points, p)
	}
	return run, points
}
