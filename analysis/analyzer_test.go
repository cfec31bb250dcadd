package analysis

import (
	"math"
	"testing"

	"github.com/noriah/gocava/cava"
)

func sine(freq float64, rate, frames, channels int) []float64 {
	out := make([]float64, frames*channels)
	for i := 0; i < frames; i++ {
		v := math.Sin(2*math.Pi*freq*float64(i)/float64(rate)) * SampleScale
		for c := 0; c < channels; c++ {
			out[i*channels+c] = v
		}
	}
	return out
}

func TestAnalyzerFeed(t *testing.T) {
	cfg := cava.DefaultPlanConfig()

	anlz, err := New(cfg, 60)
	if err != nil {
		t.Fatalf("failed to create analyzer: %v", err)
	}
	defer anlz.Close()

	if want := (44100 / 60) * 2; anlz.FrameSize() != want {
		t.Errorf("frame size = %d, want %d", anlz.FrameSize(), want)
	}

	var values []float64
	for i := 0; i < 30; i++ {
		values, err = anlz.Feed(sine(440, cfg.Rate, 735, cfg.Channels))
		if err != nil {
			t.Fatalf("feed %d failed: %v", i, err)
		}
	}

	if len(values) != cfg.OutputSize() {
		t.Fatalf("got %d values, want %d", len(values), cfg.OutputSize())
	}

	var sum float64
	for _, v := range values {
		if math.IsNaN(v) || v < 0 {
			t.Fatalf("bad value %v", v)
		}
		sum += v
	}

	if sum == 0 {
		t.Error("tone produced no energy")
	}
}

func TestAnalyzerChunks(t *testing.T) {
	cfg := cava.DefaultPlanConfig()

	anlz, err := New(cfg, 1)
	if err != nil {
		t.Fatal(err)
	}
	defer anlz.Close()

	// one second of audio is larger than the plan input
	samples := sine(1000, cfg.Rate, cfg.Rate, cfg.Channels)
	if len(samples) <= cfg.InputSize() {
		t.Fatalf("test input too small: %d <= %d", len(samples), cfg.InputSize())
	}

	if _, err := anlz.Feed(samples); err != nil {
		t.Errorf("feed failed: %v", err)
	}
}

func TestAnalyzerFeedEmpty(t *testing.T) {
	anlz, err := New(cava.DefaultPlanConfig(), 60)
	if err != nil {
		t.Fatal(err)
	}
	defer anlz.Close()

	values, err := anlz.Feed(nil)
	if err != nil {
		t.Fatalf("empty feed failed: %v", err)
	}

	if len(values) != anlz.Config().OutputSize() {
		t.Errorf("got %d values", len(values))
	}
}

func TestAnalyzerRejectsPartialFrame(t *testing.T) {
	anlz, err := New(cava.DefaultPlanConfig(), 60)
	if err != nil {
		t.Fatal(err)
	}
	defer anlz.Close()

	if _, err := anlz.Feed(make([]float64, 3)); err == nil {
		t.Error("expected error for a partial stereo frame")
	}
}

func TestAnalyzerClosed(t *testing.T) {
	anlz, err := New(cava.DefaultPlanConfig(), 60)
	if err != nil {
		t.Fatal(err)
	}

	anlz.Close()
	anlz.Close()

	if _, err := anlz.Feed(make([]float64, 2)); !cava.IsKind(err, cava.KindClosed) {
		t.Errorf("feed after close returned %v", err)
	}
}

func TestNewRejects(t *testing.T) {
	if _, err := New(cava.DefaultPlanConfig(), 0); err == nil {
		t.Error("zero framerate should fail")
	}

	cfg := cava.DefaultPlanConfig()
	cfg.Bars = 0

	if _, err := New(cfg, 60); !cava.IsKind(err, cava.KindInvalidParameter) {
		t.Errorf("expected invalid parameter, got %v", err)
	}
}

func TestScaleInts(t *testing.T) {
	tests := []struct {
		name     string
		src      []int
		in, out  int
		bitDepth int
		want     []float64
	}{
		{"16 bit stereo", []int{32768, -32768}, 2, 2, 16, []float64{SampleScale, -SampleScale}},
		{"8 bit mono", []int{64}, 1, 1, 8, []float64{SampleScale / 2}},
		{"24 bit", []int{1 << 22}, 1, 1, 24, []float64{SampleScale / 2}},
		{"drops extra channels", []int{1 << 14, 0, 0, 1 << 14, 0, 0}, 3, 2, 16,
			[]float64{SampleScale / 2, 0, 0, SampleScale / 2}},
		{"drops partial frame", []int{0, 0, 1}, 2, 2, 16, []float64{0, 0}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := scaleInts(nil, test.src, test.in, test.out, test.bitDepth)
			if len(got) != len(test.want) {
				t.Fatalf("got %v, want %v", got, test.want)
			}

			for i := range got {
				if math.Abs(got[i]-test.want[i]) > 1e-9 {
					t.Errorf("got[%d] = %v, want %v", i, got[i], test.want[i])
				}
			}
		})
	}
}
