// Package portaudio lists PortAudio input devices.
package portaudio

import (
	"sync"

	"github.com/noriah/gocava/cava"
	"github.com/noriah/gocava/input"

	"github.com/gordonklaus/portaudio"
	"github.com/pkg/errors"
)

var GlobalBackend = &Backend{}

func init() {
	input.RegisterBackend(cava.InputPortAudio.String(), GlobalBackend)
}

// Backend represents the Portaudio backend. A zero-value instance is a
// valid instance.
type Backend struct {
	mu          sync.Mutex
	initialized bool
}

func (b *Backend) Init() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.initialized {
		return nil
	}

	if err := portaudio.Initialize(); err != nil {
		return errors.Wrap(err, "failed to initialize portaudio")
	}

	b.initialized = true
	return nil
}

func (b *Backend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.initialized {
		return nil
	}

	b.initialized = false
	return portaudio.Terminate()
}

func (b *Backend) Method() cava.InputMethod {
	return cava.InputPortAudio
}

func (b *Backend) Devices() ([]input.Device, error) {
	devices, err := portaudio.Devices()
	if err != nil {
		return nil, errors.Wrap(err, "failed to list devices")
	}

	var gDevices []input.Device
	for _, device := range devices {
		if device.MaxInputChannels > 0 {
			gDevices = append(gDevices, Device{device})
		}
	}

	return gDevices, nil
}

func (b *Backend) DefaultDevice() (input.Device, error) {
	defaultHost, err := portaudio.DefaultHostApi()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get default host API")
	}

	if defaultHost.DefaultInputDevice == nil {
		return nil, errors.New("no default input device found")
	}

	return Device{defaultHost.DefaultInputDevice}, nil
}

// Device represents a Portaudio device.
type Device struct {
	*portaudio.DeviceInfo
}

// String returns the device name.
func (d Device) String() string {
	return d.Name
}
