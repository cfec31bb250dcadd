package cava

import "strings"

// MaxBars is the largest bar count libcava supports.
const MaxBars = 256

// PlanConfig holds the arguments of cava_init.
type PlanConfig struct {
	Bars           int     // bars per channel
	Rate           int     // sample rate in Hz
	Channels       int     // 1 or 2
	Autosens       bool    // keep output in the 0-1 range
	NoiseReduction float64 // 0 fast and noisy, 1 slow and smooth
	LowCutoff      int     // Hz
	HighCutoff     int     // Hz
}

// DefaultPlanConfig returns the configuration libcava's own defaults use.
func DefaultPlanConfig() PlanConfig {
	return PlanConfig{
		Bars:           20,
		Rate:           44100,
		Channels:       2,
		Autosens:       true,
		NoiseReduction: 0.77,
		LowCutoff:      50,
		HighCutoff:     10000,
	}
}

// Validate checks the configuration before it is handed to libcava.
func (c PlanConfig) Validate() error {
	const op = "init"

	switch {
	case c.Bars < 1:
		return invalidParam(op, "bars must be greater than 0")

	case c.Bars > MaxBars:
		return invalidParam(op, "bars must not exceed %d, got %d", MaxBars, c.Bars)

	case c.Channels < 1 || c.Channels > 2:
		return invalidParam(op, "channels must be 1 or 2, got %d", c.Channels)

	case c.Rate <= 0:
		return invalidParam(op, "rate must be greater than 0")

	case c.LowCutoff <= 0:
		return invalidParam(op, "low cutoff must be greater than 0")

	case c.HighCutoff <= 0:
		return invalidParam(op, "high cutoff must be greater than 0")

	case c.HighCutoff <= c.LowCutoff:
		return invalidParam(op, "high cutoff (%d) must be greater than low cutoff (%d)",
			c.HighCutoff, c.LowCutoff)

	case c.Rate/2 <= c.HighCutoff:
		return invalidParam(op, "rate (%d) must be greater than 2 * high cutoff (%d)",
			c.Rate, c.HighCutoff)

	case c.NoiseReduction < 0 || c.NoiseReduction > 1:
		return invalidParam(op, "noise reduction must be between 0.0 and 1.0, got %g",
			c.NoiseReduction)
	}

	return nil
}

// WithChannels returns the configuration for a different channel count,
// keeping the total number of bars.
func (c PlanConfig) WithChannels(channels int) PlanConfig {
	total := c.Bars
	if c.Channels > 1 {
		total *= c.Channels
	}

	c.Bars = ChannelBars(total, channels)
	c.Channels = channels
	return c
}

// ChannelBars splits a total bar count across channels, keeping at least
// one bar per channel.
func ChannelBars(total, channels int) int {
	if channels > 1 {
		total /= channels
	}
	if total < 1 {
		return 1
	}
	return total
}

// InputSize is the number of interleaved samples the plan accepts per call.
func (c PlanConfig) InputSize() int {
	return BufferSize(c.Rate, c.Channels)
}

// OutputSize is the number of values the plan writes per call.
func (c PlanConfig) OutputSize() int {
	return c.Bars * c.Channels
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// SessionConfig describes one visualization session driven by libcava's own
// input thread.
type SessionConfig struct {
	Bars           int // total bars; split between channels in stereo
	Autosens       bool
	Stereo         bool
	NoiseReduction float64
	Monstercat     float64
	Waves          int
	Framerate      int
	Input          InputMethod
	Source         string
	LowCutoff      int
	HighCutoff     int
	Rate           int
}

// Channels is 2 in stereo and 1 otherwise.
func (c SessionConfig) Channels() int {
	if c.Stereo {
		return 2
	}
	return 1
}

// PlanConfig returns the per channel plan configuration of the session.
func (c SessionConfig) PlanConfig() PlanConfig {
	return PlanConfig{
		Bars:           ChannelBars(c.Bars, c.Channels()),
		Rate:           c.Rate,
		Channels:       c.Channels(),
		Autosens:       c.Autosens,
		NoiseReduction: c.NoiseReduction,
		LowCutoff:      c.LowCutoff,
		HighCutoff:     c.HighCutoff,
	}
}

// Validate checks the session configuration.
func (c SessionConfig) Validate() error {
	const op = "session"

	pc := c.PlanConfig()
	pc.Bars = c.Bars
	if err := pc.Validate(); err != nil {
		return err
	}

	switch {
	case c.Framerate <= 0:
		return invalidParam(op, "framerate must be greater than 0")

	case c.Monstercat < 0:
		return invalidParam(op, "monstercat must be >= 0.0")

	case c.Waves < 0:
		return invalidParam(op, "waves must be >= 0")

	case !c.Input.Valid():
		return invalidParam(op, "unknown input method %d", int(c.Input))

	case strings.IndexByte(c.Source, 0) >= 0:
		return invalidParam(op, "source contains a null byte")
	}

	return nil
}
