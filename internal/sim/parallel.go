package sim

import (
	"context"
	"sync"
	"time"

	"github.com/san-kum/particles/internal/field"
	"github.com/san-kum/particles/internal/surface"
)

// RunResult is the outcome of one headless member of an ensemble.
type RunResult struct {
	Seed    int64              `json:"seed"`
	Frames  int                `json:"frames"`
	Links   int                `json:"links"`
	Elapsed time.Duration      `json:"elapsed_ns"`
	Metrics map[string]float64 `json:"metrics"`
}

// FPS is frames stepped per wall-clock second.
func (r *RunResult) FPS() float64 {
	if r.Elapsed <= 0 {
		return 0
	}
	return float64(r.Frames) / r.Elapsed.Seconds()
}

// Ensemble runs independent fields with consecutive seeds, one goroutine
// each. Fields are never shared between goroutines.
type Ensemble struct {
	viewport   field.Viewport
	numRuns    int
	seedStart  int64
	script     Script
	newSurface func() field.Surface
	newMetrics func() []field.Metric
}

func NewEnsemble(vp field.Viewport, numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{
		viewport:   vp,
		numRuns:    numRuns,
		seedStart:  seedStart,
		script:     NoPointer,
		newSurface: func() field.Surface { return surface.Discard },
	}
}

func (e *Ensemble) WithScript(s Script) *Ensemble {
	if s != nil {
		e.script = s
	}
	return e
}

// WithSurface sets the factory for each member's surface.
func (e *Ensemble) WithSurface(fn func() field.Surface) *Ensemble {
	if fn != nil {
		e.newSurface = fn
	}
	return e
}

// WithMetrics sets the factory for each member's metrics. Metrics hold state
// so every member gets fresh instances.
func (e *Ensemble) WithMetrics(fn func() []field.Metric) *Ensemble {
	e.newMetrics = fn
	return e
}

func (e *Ensemble) Run(ctx context.Context, frames int) ([]*RunResult, error) {
	results := make([]*RunResult, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			results[idx], errs[idx] = e.runOne(ctx, e.seedStart+int64(idx), frames)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}

func (e *Ensemble) runOne(ctx context.Context, seed int64, frames int) (*RunResult, error) {
	f, err := field.New(e.newSurface(), e.viewport, field.WithSeed(seed))
	if err != nil {
		return nil, err
	}
	if e.newMetrics != nil {
		for _, m := range e.newMetrics() {
			f.AddMetric(m)
		}
	}

	res := &RunResult{Seed: seed}
	start := time.Now()
	err = Drive(ctx, f, frames, e.script, func(st field.FrameStats) error {
		res.Frames++
		res.Links += st.Links
		return nil
	})
	res.Elapsed = time.Since(start)
	if err != nil {
		return nil, err
	}
	res.Metrics = f.Metrics()
	return res, nil
}
