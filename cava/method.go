package cava

import (
	"strings"

	"github.com/pkg/errors"
)

// InputMethod selects the capture backend libcava runs on its input thread.
// The values match libcava's enum input_method.
type InputMethod int

// Input methods
const (
	InputFifo InputMethod = iota
	InputPortAudio
	InputPipeWire
	InputAlsa
	InputPulse
	InputSndio
	InputOss
	InputJack
	InputShmem
	InputWinscap
	inputMax
)

var inputNames = [inputMax]string{
	"fifo",
	"portaudio",
	"pipewire",
	"alsa",
	"pulse",
	"sndio",
	"oss",
	"jack",
	"shmem",
	"winscap",
}

func (m InputMethod) String() string {
	if !m.Valid() {
		return "unknown"
	}
	return inputNames[m]
}

// Valid reports whether m is a known input method.
func (m InputMethod) Valid() bool {
	return m >= InputFifo && m < inputMax
}

// InputMethods returns every known input method in libcava order.
func InputMethods() []InputMethod {
	out := make([]InputMethod, inputMax)
	for i := range out {
		out[i] = InputMethod(i)
	}
	return out
}

// ParseInputMethod parses a method name as printed by String.
func ParseInputMethod(name string) (InputMethod, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range inputNames {
		if n == name {
			return InputMethod(i), nil
		}
	}

	return 0, errors.Errorf("unknown input method %q", name)
}

// MarshalText implements encoding.TextMarshaler.
func (m InputMethod) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, errors.Errorf("invalid input method %d", int(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *InputMethod) UnmarshalText(text []byte) error {
	v, err := ParseInputMethod(string(text))
	if err != nil {
		return err
	}
	*m = v
	return nil
}
