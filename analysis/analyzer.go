// Package analysis drives libcava plans with samples read from Go, like WAV
// files or a portaudio stream, instead of libcava's own input threads.
package analysis

import (
	"github.com/noriah/gocava/cava"

	"github.com/pkg/errors"
)

// SampleScale maps normalized samples onto the 16 bit range libcava's own
// inputs feed.
const SampleScale = 32767

// Analyzer feeds interleaved samples to a plan and keeps the last frame.
type Analyzer struct {
	plan      *cava.Plan
	out       []float64
	frameSize int
}

// New creates a plan for cfg. framerate sets how many samples make one frame.
func New(cfg cava.PlanConfig, framerate int) (*Analyzer, error) {
	if framerate <= 0 {
		return nil, errors.Errorf("framerate must be greater than 0, got %d", framerate)
	}

	plan, err := cava.NewPlan(cfg)
	if err != nil {
		return nil, err
	}

	frames := cfg.Rate / framerate
	if frames < 1 {
		frames = 1
	}

	return &Analyzer{
		plan:      plan,
		out:       make([]float64, cfg.OutputSize()),
		frameSize: frames * cfg.Channels,
	}, nil
}

// Config returns the plan configuration.
func (a *Analyzer) Config() cava.PlanConfig {
	return a.plan.Config()
}

// FrameSize is the number of interleaved samples in one frame.
func (a *Analyzer) FrameSize() int {
	return a.frameSize
}

// Feed executes the plan on samples, splitting them into chunks the plan can
// take, and returns the resulting values. The returned slice is reused by the
// next call. An empty feed still runs the plan so bars fall off.
func (a *Analyzer) Feed(samples []float64) ([]float64, error) {
	cfg := a.plan.Config()

	if len(samples)%cfg.Channels != 0 {
		return nil, errors.Errorf("%d samples do not fill %d channel frames",
			len(samples), cfg.Channels)
	}

	if len(samples) == 0 {
		if err := a.plan.Execute(nil, 0, a.out); err != nil {
			return nil, err
		}
		return a.out, nil
	}

	chunk := cfg.InputSize()

	for len(samples) > 0 {
		n := len(samples)
		if n > chunk {
			n = chunk
		}

		if err := a.plan.Execute(samples[:n], n, a.out); err != nil {
			return nil, err
		}

		samples = samples[n:]
	}

	return a.out, nil
}

// Close destroys the plan.
func (a *Analyzer) Close() {
	a.plan.Destroy()
}
