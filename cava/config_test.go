package cava

import "testing"

func TestPlanConfigValidate(t *testing.T) {
	valid := DefaultPlanConfig()

	if err := valid.Validate(); err != nil {
		t.Fatalf("default config rejected: %v", err)
	}

	tests := []struct {
		name string
		mod  func(*PlanConfig)
	}{
		{"zero bars", func(c *PlanConfig) { c.Bars = 0 }},
		{"too many bars", func(c *PlanConfig) { c.Bars = MaxBars + 1 }},
		{"zero channels", func(c *PlanConfig) { c.Channels = 0 }},
		{"three channels", func(c *PlanConfig) { c.Channels = 3 }},
		{"zero rate", func(c *PlanConfig) { c.Rate = 0 }},
		{"zero low cutoff", func(c *PlanConfig) { c.LowCutoff = 0 }},
		{"zero high cutoff", func(c *PlanConfig) { c.HighCutoff = 0 }},
		{"high equals low", func(c *PlanConfig) { c.HighCutoff = c.LowCutoff }},
		{"high below low", func(c *PlanConfig) { c.HighCutoff = c.LowCutoff - 1 }},
		{"nyquist", func(c *PlanConfig) { c.Rate = c.HighCutoff * 2 }},
		{"noise reduction below zero", func(c *PlanConfig) { c.NoiseReduction = -0.1 }},
		{"noise reduction above one", func(c *PlanConfig) { c.NoiseReduction = 1.1 }},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cfg := valid
			test.mod(&cfg)

			err := cfg.Validate()
			if !IsKind(err, KindInvalidParameter) {
				t.Errorf("expected invalid parameter, got %v", err)
			}
		})
	}
}

func TestPlanConfigSizes(t *testing.T) {
	cfg := DefaultPlanConfig()

	if got := cfg.OutputSize(); got != 40 {
		t.Errorf("OutputSize() = %d, want 40", got)
	}

	if got := cfg.InputSize(); got != BufferSize(44100, 2) {
		t.Errorf("InputSize() = %d, want %d", got, BufferSize(44100, 2))
	}
}

func TestSessionConfig(t *testing.T) {
	cfg := SessionConfig{
		Bars:           20,
		Autosens:       true,
		Stereo:         true,
		NoiseReduction: 0.77,
		Framerate:      60,
		Input:          InputPipeWire,
		Source:         "auto",
		LowCutoff:      50,
		HighCutoff:     10000,
		Rate:           44100,
	}

	if err := cfg.Validate(); err != nil {
		t.Fatalf("valid session rejected: %v", err)
	}

	pc := cfg.PlanConfig()
	if pc.Bars != 10 || pc.Channels != 2 {
		t.Errorf("stereo plan should split bars, got %d bars x %d channels", pc.Bars, pc.Channels)
	}

	bad := []SessionConfig{cfg, cfg, cfg, cfg, cfg}
	bad[0].Framerate = 0
	bad[1].Monstercat = -1
	bad[2].Input = InputMethod(42)
	bad[3].Source = "in\x00valid"
	bad[4].Bars = MaxBars + 1

	for i, c := range bad {
		if err := c.Validate(); !IsKind(err, KindInvalidParameter) {
			t.Errorf("case %d: expected invalid parameter, got %v", i, err)
		}
	}
}

func TestPlanConfigWithChannels(t *testing.T) {
	tests := []struct {
		bars, channels, to, want int
	}{
		{20, 1, 2, 10},
		{10, 2, 1, 20},
		{20, 2, 2, 20},
		{1, 1, 2, 1},
		{15, 1, 2, 7},
	}

	for _, test := range tests {
		cfg := DefaultPlanConfig()
		cfg.Bars = test.bars
		cfg.Channels = test.channels

		got := cfg.WithChannels(test.to)
		if got.Bars != test.want || got.Channels != test.to {
			t.Errorf("%d bars x %d channels to %d: got %d bars x %d channels, want %d bars",
				test.bars, test.channels, test.to, got.Bars, got.Channels, test.want)
		}
	}
}
