// Package input lists the capture methods libcava supports and the devices
// each of them can record from.
package input

import (
	"os/exec"
	"runtime"

	"github.com/noriah/gocava/cava"

	"github.com/pkg/errors"
)

// Device is a capture source a backend knows about. String is the source
// name handed to libcava.
type Device interface {
	String() string
}

// Backend describes one libcava input method.
type Backend interface {
	// Init should do nothing if called more than once.
	Init() error
	Close() error

	Method() cava.InputMethod
	Devices() ([]Device, error)
	DefaultDevice() (Device, error)
}

type NamedBackend struct {
	Name string
	Backend
}

var Backends []NamedBackend

// RegisterBackend registers a backend globally. This function is not
// thread-safe, and most packages should call it on init().
func RegisterBackend(name string, b Backend) {
	Backends = append(Backends, NamedBackend{
		Name:    name,
		Backend: b,
	})
}

// Get all installed backend names.
func GetAllBackendNames() []string {
	out := make([]string, len(Backends))
	for i, backend := range Backends {
		out[i] = backend.Name
	}
	return out
}

// DefaultBackend picks the backend most likely to work on this platform.
func DefaultBackend() string {
	switch runtime.GOOS {
	case "windows":
		if HasBackend("winscap") {
			return "winscap"
		}

	case "darwin":
		if HasBackend("portaudio") {
			return "portaudio"
		}

	case "linux":
		if path, _ := exec.LookPath("pw-dump"); path != "" {
			if HasBackend("pipewire") {
				return "pipewire"
			}
		}

		if path, _ := exec.LookPath("pactl"); path != "" {
			if HasBackend("pulse") {
				return "pulse"
			}
		}

		if HasBackend("alsa") {
			return "alsa"
		}

	case "freebsd", "openbsd", "netbsd":
		if HasBackend("sndio") {
			return "sndio"
		}

		if HasBackend("oss") {
			return "oss"
		}
	}

	if HasBackend("fifo") {
		return "fifo"
	}

	return ""
}

// FindBackend is a helper function that finds a backend. It returns nil if the
// backend is not found.
func FindBackend(name string) Backend {
	for _, backend := range Backends {
		if backend.Name == name {
			return backend
		}
	}
	return nil
}

func HasBackend(name string) bool {
	return FindBackend(name) != nil
}

func InitBackend(bknd string) (Backend, error) {
	backend := FindBackend(bknd)
	if backend == nil {
		return nil, errors.Errorf("backend not found: %q; check list-inputs", bknd)
	}

	if err := backend.Init(); err != nil {
		return nil, errors.Wrap(err, "failed to initialize input backend")
	}

	return backend, nil
}

// GetDevice resolves a device name. Empty and "auto" resolve to the
// backend default.
func GetDevice(backend Backend, device string) (Device, error) {
	if device == "" || device == "auto" {
		def, err := backend.DefaultDevice()
		if err != nil {
			return nil, errors.Wrap(err, "failed to get default device")
		}
		return def, nil
	}

	devices, err := backend.Devices()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get devices")
	}

	for idx := range devices {
		if devices[idx].String() == device {
			return devices[idx], nil
		}
	}

	return nil, errors.Errorf("device %q not found; check list-devices", device)
}

// NamedDevice is a device known only by name.
type NamedDevice string

func (d NamedDevice) String() string {
	return string(d)
}
