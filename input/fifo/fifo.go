// Package fifo reads raw PCM from a named pipe, like the one MPD writes.
package fifo

import (
	"os"

	"github.com/noriah/gocava/cava"
	"github.com/noriah/gocava/input"

	"github.com/pkg/errors"
)

func init() {
	input.RegisterBackend(cava.InputFifo.String(), Backend{})
}

// DefaultPath is MPD's fifo output.
const DefaultPath = "/tmp/mpd.fifo"

type Backend struct{}

func (b Backend) Init() error {
	return nil
}

func (b Backend) Close() error {
	return nil
}

func (b Backend) Method() cava.InputMethod {
	return cava.InputFifo
}

// Devices lists the default fifo if it exists.
func (b Backend) Devices() ([]input.Device, error) {
	if err := checkFifo(DefaultPath); err != nil {
		return nil, nil
	}
	return []input.Device{input.NamedDevice(DefaultPath)}, nil
}

func (b Backend) DefaultDevice() (input.Device, error) {
	return input.NamedDevice(DefaultPath), nil
}

// ErrNotFifo is returned for paths that are not named pipes.
var ErrNotFifo = errors.New("not a named pipe")

func checkFifo(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	if info.Mode()&os.ModeNamedPipe == 0 {
		return errors.Wrap(ErrNotFifo, path)
	}

	return nil
}
