package analysis

import (
	"context"
	"os"

	"github.com/noriah/gocava/cava"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/pkg/errors"
)

// FrameFunc receives each frame of bar values. The slice is reused after
// the call returns.
type FrameFunc func(values []float64) error

// ErrInvalidWAV is returned for files that are not PCM WAV.
var ErrInvalidWAV = errors.New("not a valid wav file")

// AnalyzeWAV decodes the WAV file at path and calls fn once per frame. The
// rate and channel count come from the file; files with more than two
// channels are read as stereo. The total bar count of cfg is kept and split
// across the file's channels.
func AnalyzeWAV(ctx context.Context, path string, cfg cava.PlanConfig, framerate int, fn FrameFunc) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "failed to open wav")
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return errors.Wrap(ErrInvalidWAV, path)
	}

	format := dec.Format()
	fileChans := format.NumChannels

	channels := fileChans
	if channels > 2 {
		channels = 2
	}

	cfg = cfg.WithChannels(channels)
	cfg.Rate = format.SampleRate

	anlz, err := New(cfg, framerate)
	if err != nil {
		return err
	}
	defer anlz.Close()

	frames := anlz.FrameSize() / cfg.Channels

	buf := &audio.IntBuffer{
		Format:         format,
		Data:           make([]int, frames*fileChans),
		SourceBitDepth: int(dec.BitDepth),
	}

	samples := make([]float64, 0, anlz.FrameSize())

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		n, err := dec.PCMBuffer(buf)
		if err != nil {
			return errors.Wrap(err, "failed to decode wav")
		}

		if n == 0 {
			return nil
		}

		samples = scaleInts(samples[:0], buf.Data[:n], fileChans, cfg.Channels, int(dec.BitDepth))

		values, err := anlz.Feed(samples)
		if err != nil {
			return err
		}

		if err := fn(values); err != nil {
			return err
		}
	}
}

// scaleInts converts interleaved PCM integers of the given bit depth to the
// 16 bit scale, keeping the first outChans of every inChans frame.
func scaleInts(dst []float64, src []int, inChans, outChans, bitDepth int) []float64 {
	scale := SampleScale / float64(int(1)<<(bitDepth-1))

	// drop a trailing partial frame
	src = src[:len(src)-len(src)%inChans]

	for i := 0; i < len(src); i += inChans {
		for c := 0; c < outChans; c++ {
			dst = append(dst, float64(src[i+c])*scale)
		}
	}

	return dst
}
