package input

import (
	"testing"

	"github.com/noriah/gocava/cava"

	"github.com/pkg/errors"
)

type testBackend struct {
	inits   int
	devices []Device
	err     error
}

func (tb *testBackend) Init() error              { tb.inits++; return nil }
func (tb *testBackend) Close() error             { return nil }
func (tb *testBackend) Method() cava.InputMethod { return cava.InputFifo }

func (tb *testBackend) Devices() ([]Device, error) {
	return tb.devices, tb.err
}

func (tb *testBackend) DefaultDevice() (Device, error) {
	return NamedDevice("default"), nil
}

func withBackends(t *testing.T, backends ...NamedBackend) {
	t.Helper()

	saved := Backends
	Backends = backends
	t.Cleanup(func() { Backends = saved })
}

func TestRegistry(t *testing.T) {
	withBackends(t)

	tb := &testBackend{}
	RegisterBackend("fifo", tb)

	if !HasBackend("fifo") || HasBackend("pulse") {
		t.Error("unexpected HasBackend result")
	}

	if names := GetAllBackendNames(); len(names) != 1 || names[0] != "fifo" {
		t.Errorf("names = %v", names)
	}

	if _, err := InitBackend("pulse"); err == nil {
		t.Error("expected error for a missing backend")
	}

	if _, err := InitBackend("fifo"); err != nil || tb.inits != 1 {
		t.Errorf("init failed: %v", err)
	}

	if got := DefaultBackend(); got == "" {
		t.Error("fifo should be the fallback default")
	}
}

func TestGetDevice(t *testing.T) {
	tb := &testBackend{devices: []Device{NamedDevice("a"), NamedDevice("b")}}

	for _, name := range []string{"", "auto"} {
		dev, err := GetDevice(tb, name)
		if err != nil || dev.String() != "default" {
			t.Errorf("GetDevice(%q) = %v, %v", name, dev, err)
		}
	}

	dev, err := GetDevice(tb, "b")
	if err != nil || dev.String() != "b" {
		t.Errorf("GetDevice(b) = %v, %v", dev, err)
	}

	if _, err := GetDevice(tb, "c"); err == nil {
		t.Error("expected error for an unknown device")
	}

	tb.err = errors.New("boom")
	if _, err := GetDevice(tb, "a"); err == nil {
		t.Error("expected listing error")
	}
}
