// Package capture feeds a portaudio input stream to a libcava plan.
package capture

import (
	"context"

	"github.com/noriah/gocava/analysis"
	"github.com/noriah/gocava/cava"

	"github.com/gordonklaus/portaudio"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Config configures a portaudio capture.
type Config struct {
	// Device is a portaudio device name. Empty or "auto" picks the default
	// input device.
	Device    string
	Plan      cava.PlanConfig
	Framerate int
	Logger    *zap.Logger
}

// ErrBadDevice is returned when the named device does not exist or cannot
// record.
var ErrBadDevice = errors.New("device not found")

// Run records from a portaudio input device and calls fn once per frame
// until ctx is done. If the device records fewer channels than the plan
// asks for, the plan's total bar count is kept.
func Run(ctx context.Context, cfg Config, fn analysis.FrameFunc) error {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	if err := portaudio.Initialize(); err != nil {
		return errors.Wrap(err, "failed to initialize portaudio")
	}
	defer portaudio.Terminate()

	dev, err := findDevice(cfg.Device)
	if err != nil {
		return err
	}

	if dev.MaxInputChannels < 1 {
		return errors.Wrap(ErrBadDevice, dev.Name)
	}

	if dev.MaxInputChannels < cfg.Plan.Channels {
		cfg.Plan = cfg.Plan.WithChannels(dev.MaxInputChannels)
	}

	anlz, err := analysis.New(cfg.Plan, cfg.Framerate)
	if err != nil {
		return err
	}
	defer anlz.Close()

	buffer := make([]float32, anlz.FrameSize())

	params := portaudio.StreamParameters{
		Input: portaudio.StreamDeviceParameters{
			Device:   dev,
			Channels: cfg.Plan.Channels,
			Latency:  dev.DefaultLowInputLatency,
		},
		SampleRate:      float64(cfg.Plan.Rate),
		FramesPerBuffer: len(buffer) / cfg.Plan.Channels,
	}

	stream, err := portaudio.OpenStream(params, buffer)
	if err != nil {
		return errors.Wrap(err, "failed to open stream")
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return errors.Wrap(err, "failed to start stream")
	}
	defer stream.Stop()

	log.Info("capturing",
		zap.String("device", dev.Name),
		zap.Int("channels", cfg.Plan.Channels),
		zap.Int("rate", cfg.Plan.Rate))

	samples := make([]float64, len(buffer))

	for ctx.Err() == nil {
		if err := stream.Read(); err != nil {
			if errors.Is(err, portaudio.InputOverflowed) {
				log.Debug("input overflowed")
			} else {
				return errors.Wrap(err, "failed to read stream")
			}
		}

		for i, s := range buffer {
			samples[i] = float64(s) * analysis.SampleScale
		}

		values, err := anlz.Feed(samples)
		if err != nil {
			return err
		}

		if err := fn(values); err != nil {
			return err
		}
	}

	return nil
}

func findDevice(name string) (*portaudio.DeviceInfo, error) {
	if name == "" || name == "auto" {
		dev, err := portaudio.DefaultInputDevice()
		if err != nil {
			return nil, errors.Wrap(err, "no default input device")
		}
		return dev, nil
	}

	devices, err := portaudio.Devices()
	if err != nil {
		return nil, errors.Wrap(err, "failed to list devices")
	}

	for _, dev := range devices {
		if dev.Name == name && dev.MaxInputChannels > 0 {
			return dev, nil
		}
	}

	return nil, errors.Wrap(ErrBadDevice, name)
}
