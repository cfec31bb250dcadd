// Package simple registers the input methods whose devices cannot be listed.
// Each of them only knows libcava's default source.
package simple

import (
	"github.com/noriah/gocava/cava"
	"github.com/noriah/gocava/input"
)

func init() {
	for _, b := range defaults {
		input.RegisterBackend(b.method.String(), b)
	}
}

var defaults = []Backend{
	{cava.InputSndio, "default"},
	{cava.InputOss, "/dev/dsp"},
	{cava.InputJack, "default"},
	{cava.InputShmem, "/squeezelite-00:00:00:00:00:00"},
	{cava.InputWinscap, "auto"},
}

// Backend is an input method with a fixed default source.
type Backend struct {
	method cava.InputMethod
	source string
}

func (b Backend) Init() error  { return nil }
func (b Backend) Close() error { return nil }

func (b Backend) Method() cava.InputMethod {
	return b.method
}

func (b Backend) Devices() ([]input.Device, error) {
	return []input.Device{input.NamedDevice(b.source)}, nil
}

func (b Backend) DefaultDevice() (input.Device, error) {
	return input.NamedDevice(b.source), nil
}
