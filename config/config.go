package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/noriah/gocava/cava"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Clamping ranges for bars and framerate.
const (
	MinBars      = 1
	MaxBars      = cava.MaxBars
	MinFramerate = 1
	MaxFramerate = 360
)

// Output names.
const (
	OutputTerminal  = "terminal"
	OutputRaw       = "raw"
	OutputWebSocket = "websocket"
)

// Config holds every user facing setting.
type Config struct {
	// Bars is the total number of frequency bars. Stereo splits it in halves.
	Bars int `yaml:"bars"`
	// Autosens keeps values in the 0-1 range.
	Autosens bool `yaml:"autosens"`
	// Stereo visualizes left and right channels separately.
	Stereo bool `yaml:"stereo"`
	// NoiseReduction 0.0 is fast and noisy, 1.0 slow and smooth.
	NoiseReduction float64 `yaml:"noise_reduction"`
	// Monstercat smoothing across adjacent bars (0 is off).
	Monstercat float64 `yaml:"monstercat"`
	// Waves smoothing (0 is off).
	Waves int `yaml:"waves"`
	// Framerate is the number of frames per second.
	Framerate int `yaml:"framerate"`
	// Input is the libcava input method name (see list-inputs).
	Input string `yaml:"input"`
	// Source is the device for the input method, "auto" to detect.
	Source string `yaml:"source"`
	// LowCutoff in Hz.
	LowCutoff int `yaml:"low_cutoff"`
	// HighCutoff in Hz.
	HighCutoff int `yaml:"high_cutoff"`
	// SampleRate in Hz.
	SampleRate int `yaml:"samplerate"`

	// Output is one of terminal, raw or websocket.
	Output string `yaml:"output"`
	// Listen is the websocket listen address.
	Listen string `yaml:"listen"`
	// AsciiRange is the max value printed by the raw output. 0 prints floats.
	AsciiRange int `yaml:"ascii_range"`
	// BarWidth is the width of terminal bars in columns.
	BarWidth int `yaml:"bar_width"`
	// SpaceWidth is the space between terminal bars in columns.
	SpaceWidth int `yaml:"space_width"`
	// LogLevel is a zap level name.
	LogLevel string `yaml:"log_level"`
}

// NewZeroConfig returns a zero config
// it is the "default"
func NewZeroConfig() Config {
	return Config{
		Bars:           20,
		Autosens:       true,
		Stereo:         false,
		NoiseReduction: 0.77,
		Framerate:      60,
		Input:          cava.InputPipeWire.String(),
		Source:         "auto",
		LowCutoff:      50,
		HighCutoff:     10000,
		SampleRate:     44100,
		Output:         OutputTerminal,
		Listen:         "127.0.0.1:8765",
		AsciiRange:     1000,
		BarWidth:       2,
		SpaceWidth:     1,
		LogLevel:       "info",
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/gocava/config.yaml.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "gocava", "config.yaml")
}

// Load reads a YAML file over the defaults. A missing file at the default
// path is not an error.
func Load(path string) (Config, error) {
	cfg := NewZeroConfig()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, errors.Wrap(err, "failed to read config")
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "failed to parse config %q", path)
	}

	return cfg, nil
}

// Clamped lists the fields Sanitize had to clamp.
type Clamped struct {
	Field string
	From  int
	To    int
}

// Sanitize clamps bars and framerate into range and checks everything else.
func (cfg *Config) Sanitize() ([]Clamped, error) {
	var clamped []Clamped

	clamp := func(field string, v *int, lo, hi int) {
		from := *v
		switch {
		case *v < lo:
			*v = lo
		case *v > hi:
			*v = hi
		default:
			return
		}
		clamped = append(clamped, Clamped{field, from, *v})
	}

	clamp("bars", &cfg.Bars, MinBars, MaxBars)
	clamp("framerate", &cfg.Framerate, MinFramerate, MaxFramerate)

	switch {
	case cfg.LowCutoff <= 0:
		return clamped, errors.New("low_cutoff must be greater than 0")

	case cfg.HighCutoff <= 0:
		return clamped, errors.New("high_cutoff must be greater than 0")

	case cfg.SampleRate <= 0:
		return clamped, errors.New("samplerate must be greater than 0")

	case cfg.HighCutoff <= cfg.LowCutoff:
		return clamped, errors.Errorf("high_cutoff (%d) must be greater than low_cutoff (%d)",
			cfg.HighCutoff, cfg.LowCutoff)

	case cfg.SampleRate/2 <= cfg.HighCutoff:
		return clamped, errors.Errorf("samplerate (%d) must be greater than 2 * high_cutoff (%d)",
			cfg.SampleRate, cfg.HighCutoff)

	case cfg.NoiseReduction < 0 || cfg.NoiseReduction > 1:
		return clamped, errors.Errorf("noise_reduction must be between 0.0 and 1.0, got %g",
			cfg.NoiseReduction)

	case cfg.Monstercat < 0:
		return clamped, errors.New("monstercat must be >= 0.0")

	case cfg.Waves < 0:
		return clamped, errors.New("waves must be >= 0")

	case cfg.BarWidth < 1:
		return clamped, errors.New("bar_width must be at least 1")

	case cfg.SpaceWidth < 0:
		return clamped, errors.New("space_width must not be negative")

	case cfg.AsciiRange < 0:
		return clamped, errors.New("ascii_range must not be negative")
	}

	if _, err := cava.ParseInputMethod(cfg.Input); err != nil {
		return clamped, err
	}

	switch strings.ToLower(cfg.Output) {
	case OutputTerminal, OutputRaw, OutputWebSocket:
	default:
		return clamped, errors.Errorf("unknown output %q", cfg.Output)
	}

	return clamped, nil
}

// Session converts the config to a libcava session configuration. The config
// should be sanitized first.
func (cfg Config) Session() (cava.SessionConfig, error) {
	method, err := cava.ParseInputMethod(cfg.Input)
	if err != nil {
		return cava.SessionConfig{}, err
	}

	return cava.SessionConfig{
		Bars:           cfg.Bars,
		Autosens:       cfg.Autosens,
		Stereo:         cfg.Stereo,
		NoiseReduction: cfg.NoiseReduction,
		Monstercat:     cfg.Monstercat,
		Waves:          cfg.Waves,
		Framerate:      cfg.Framerate,
		Input:          method,
		Source:         cfg.Source,
		LowCutoff:      cfg.LowCutoff,
		HighCutoff:     cfg.HighCutoff,
		Rate:           cfg.SampleRate,
	}, nil
}

// Plan converts the config to a plan configuration for samples fed from Go.
// Bars is split across channels the same way a session splits it.
func (cfg Config) Plan(channels int) cava.PlanConfig {
	return cava.PlanConfig{
		Bars:           cava.ChannelBars(cfg.Bars, channels),
		Rate:           cfg.SampleRate,
		Channels:       channels,
		Autosens:       cfg.Autosens,
		NoiseReduction: cfg.NoiseReduction,
		LowCutoff:      cfg.LowCutoff,
		HighCutoff:     cfg.HighCutoff,
	}
}
