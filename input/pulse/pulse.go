// Package pulse lists PulseAudio sources.
package pulse

import (
	"github.com/noriah/gocava/cava"
	"github.com/noriah/gocava/input"

	"github.com/lawl/pulseaudio"
	"github.com/pkg/errors"
)

func init() {
	input.RegisterBackend(cava.InputPulse.String(), Backend{})
}

// MonitorSuffix names the monitor source of a sink.
const MonitorSuffix = ".monitor"

type Backend struct{}

func (p Backend) Init() error {
	return nil
}

func (p Backend) Close() error {
	return nil
}

func (p Backend) Method() cava.InputMethod {
	return cava.InputPulse
}

func (p Backend) Devices() ([]input.Device, error) {
	c, err := pulseaudio.NewClient()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create client")
	}
	defer c.Close()

	s, err := c.Sources()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get sources")
	}

	var devices = make([]input.Device, len(s))
	for i, source := range s {
		devices[i] = input.NamedDevice(source.Name)
	}

	return devices, nil
}

// DefaultDevice is the monitor of the default sink, which is what libcava
// records with "auto".
func (p Backend) DefaultDevice() (input.Device, error) {
	c, err := pulseaudio.NewClient()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create client")
	}
	defer c.Close()

	info, err := c.ServerInfo()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get server info")
	}

	return input.NamedDevice(monitorOf(info.DefaultSink)), nil
}

func monitorOf(sink string) string {
	if sink == "" {
		return "auto"
	}
	return sink + MonitorSuffix
}
