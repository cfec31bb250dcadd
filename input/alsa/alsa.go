// Package alsa lists ALSA capture devices from /proc/asound/pcm.
package alsa

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/noriah/gocava/cava"
	"github.com/noriah/gocava/input"

	"github.com/pkg/errors"
)

func init() {
	input.RegisterBackend(cava.InputAlsa.String(), Backend{})
}

// PCMPath lists the PCM devices of every card.
const PCMPath = "/proc/asound/pcm"

// DefaultDevice is the loopback capture libcava records from by default.
const DefaultDevice = "hw:Loopback,1"

type Backend struct{}

func (b Backend) Init() error {
	return nil
}

func (b Backend) Close() error {
	return nil
}

func (b Backend) Method() cava.InputMethod {
	return cava.InputAlsa
}

func (b Backend) Devices() ([]input.Device, error) {
	f, err := os.Open(PCMPath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open pcm list")
	}
	defer f.Close()

	return parsePCM(f)
}

func (b Backend) DefaultDevice() (input.Device, error) {
	return input.NamedDevice(DefaultDevice), nil
}

// Device is an ALSA PCM that can capture.
type Device struct {
	Card   int
	Device int
	Name   string
}

// String returns the hw:card,device name.
func (d Device) String() string {
	return "hw:" + strconv.Itoa(d.Card) + "," + strconv.Itoa(d.Device)
}

// parsePCM reads lines like
//
//	00-01: ALC257 Analog : ALC257 Analog : playback 1 : capture 1
//
// and keeps the ones that can capture.
func parsePCM(r io.Reader) ([]input.Device, error) {
	var devices []input.Device

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		fields := strings.Split(scanner.Text(), ":")
		if len(fields) < 3 {
			continue
		}

		capture := false
		for _, f := range fields[3:] {
			if strings.HasPrefix(strings.TrimSpace(f), "capture") {
				capture = true
			}
		}

		if !capture {
			continue
		}

		cardStr, devStr, ok := strings.Cut(strings.TrimSpace(fields[0]), "-")
		if !ok {
			continue
		}

		card, err := strconv.Atoi(cardStr)
		if err != nil {
			return nil, errors.Wrapf(err, "bad card number %q", cardStr)
		}

		dev, err := strconv.Atoi(devStr)
		if err != nil {
			return nil, errors.Wrapf(err, "bad device number %q", devStr)
		}

		devices = append(devices, Device{
			Card:   card,
			Device: dev,
			Name:   strings.TrimSpace(fields[1]),
		})
	}

	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to read pcm list")
	}

	return devices, nil
}
