package telemetry

import "github.com/vovakirdan/pixelwar/internal/sim"

// Window accumulates tick results between two census samples.
type Window struct {
	StartTick   uint64
	EndTick     uint64
	Ticks       int
	Engagements int
	Draws       int
	Hits        int
	Routs       int
	Captures    int
	Deaths      int
}

// Add folds one tick into the window.
func (w *Window) Add(res sim.TickResult) {
	if w.Ticks == 0 {
		w.StartTick = res.Tick
	}
	w.EndTick = res.Tick
	w.Ticks++
	w.Engagements += len(res.Engagements)
	w.Draws += res.Draws
	w.Hits += res.Hits
	w.Routs += res.Routs
	w.Captures += res.Captures
	w.Deaths += res.Deaths
}

// Reset clears the window for the next interval.
func (w *Window) Reset() {
	*w = Window{}
}

// CaptureRate is captures per engagement, 0 for a quiet window.
func (w Window) CaptureRate() float64 {
	if w.Engagements == 0 {
		return 0
	}
	return float64(w.Captures) / float64(w.Engagements)
}
