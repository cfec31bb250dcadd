// Package pipewire lists PipeWire sinks and output streams using pw-dump.
package pipewire

import (
	"context"

	"github.com/noriah/gocava/cava"
	"github.com/noriah/gocava/input"
)

func init() {
	input.RegisterBackend(cava.InputPipeWire.String(), Backend{})
}

type Backend struct{}

func (p Backend) Init() error {
	return nil
}

func (p Backend) Close() error {
	return nil
}

func (p Backend) Method() cava.InputMethod {
	return cava.InputPipeWire
}

func (p Backend) Devices() ([]input.Device, error) {
	pwObjs, err := pwDump(context.Background())
	if err != nil {
		return nil, err
	}

	return sinkDevices(pwObjs), nil
}

func (p Backend) DefaultDevice() (input.Device, error) {
	return input.NamedDevice("auto"), nil
}

func sinkDevices(objs pwObjects) []input.Device {
	sinks := objs.Filter(func(o pwObject) bool {
		return o.Type == pwInterfaceNode &&
			(o.Info.Props.MediaClass == pwAudioSink ||
				o.Info.Props.MediaClass == pwStreamOutputAudio)
	})

	devices := make([]input.Device, 0, len(sinks))
	for _, sink := range sinks {
		if sink.Info.Props.NodeName == "" {
			continue
		}
		devices = append(devices, input.NamedDevice(sink.Info.Props.NodeName))
	}

	return devices
}
