package cava

// #include <stdlib.h>
// #include "cavabind.h"
// #include "glue.h"
import "C"

import (
	"strings"
	"sync"
	"unsafe"
)

// perReadChunk is how many frames libcava's input thread reads at once.
const perReadChunk = 512

// InputConfig describes the capture side of a session.
type InputConfig struct {
	Rate     int
	Channels int
	Source   string
}

// Input owns a struct audio_data and the thread libcava captures audio on.
type Input struct {
	mu     sync.Mutex
	data   *C.struct_audio_data
	buf    *C.double
	source *C.char
	size   int
	done   chan struct{}
}

// NewInput allocates the capture buffer and initializes the audio mutex and
// condition variable.
func NewInput(cfg InputConfig) (*Input, error) {
	const op = "input"

	switch {
	case cfg.Rate <= 0:
		return nil, invalidParam(op, "rate must be greater than 0")
	case cfg.Channels < 1 || cfg.Channels > 2:
		return nil, invalidParam(op, "channels must be 1 or 2, got %d", cfg.Channels)
	case strings.IndexByte(cfg.Source, 0) >= 0:
		return nil, invalidParam(op, "source contains a null byte")
	}

	size := BufferSize(cfg.Rate, cfg.Channels)

	buf := (*C.double)(C.calloc(C.size_t(size), C.size_t(unsafe.Sizeof(C.double(0)))))
	if buf == nil {
		return nil, &Error{Op: op, Kind: KindAllocation}
	}

	source := C.CString(cfg.Source)

	var code C.int
	data := C.gocava_audio_new(
		buf,
		C.int(perReadChunk*cfg.Channels),
		C.int(size),
		C.uint(cfg.Rate),
		C.uint(cfg.Channels),
		source,
		&code,
	)
	if data == nil {
		C.free(unsafe.Pointer(source))
		C.free(unsafe.Pointer(buf))
		return nil, &Error{Op: op, Kind: KindMutex, Code: int(code),
			Detail: "failed to initialize audio lock"}
	}

	return &Input{
		data:   data,
		buf:    buf,
		source: source,
		size:   size,
	}, nil
}

// Start runs libcava's input function for the configured method on its own
// thread. Calling Start on a running input does nothing.
func (i *Input) Start(p *Params) error {
	const op = "start_input"

	i.mu.Lock()
	defer i.mu.Unlock()

	if i.data == nil {
		return &Error{Op: op, Kind: KindClosed}
	}

	if i.done != nil {
		return nil
	}

	p.mu.Lock()
	params := p.cParams
	p.mu.Unlock()

	if params == nil {
		return &Error{Op: op, Kind: KindClosed, Detail: "params closed"}
	}

	fn := C.get_input(i.data, params)
	if fn == nil {
		return &Error{Op: op, Kind: KindNoInput,
			Detail: "no input function for " + p.cfg.Input.String()}
	}

	done := make(chan struct{})
	data := i.data

	go func() {
		defer close(done)
		C.gocava_run_input(fn, data)
	}()

	i.done = done

	return nil
}

// Running reports whether the input thread has been started and not exited.
func (i *Input) Running() bool {
	i.mu.Lock()
	done := i.done
	i.mu.Unlock()

	if done == nil {
		return false
	}

	select {
	case <-done:
		return false
	default:
		return true
	}
}

// Lock locks the audio mutex shared with the input thread.
func (i *Input) Lock() error {
	if ret := C.gocava_audio_lock(i.data); ret != 0 {
		return &Error{Op: "lock", Kind: KindMutex, Code: int(ret)}
	}
	return nil
}

// Unlock unlocks the audio mutex.
func (i *Input) Unlock() error {
	if ret := C.gocava_audio_unlock(i.data); ret != 0 {
		return &Error{Op: "unlock", Kind: KindMutex, Code: int(ret)}
	}
	return nil
}

// SamplesCounter returns how many samples arrived since the last reset.
// The audio mutex should be held.
func (i *Input) SamplesCounter() int {
	return int(i.data.samples_counter)
}

// ResetSamplesCounter sets the sample counter back to zero. The audio mutex
// should be held.
func (i *Input) ResetSamplesCounter() {
	i.data.samples_counter = 0
}

// BufferSize returns the length of the capture buffer in samples.
func (i *Input) BufferSize() int {
	return i.size
}

// Close asks the input thread to terminate, waits for it and frees the
// audio data. Calls after the first do nothing.
func (i *Input) Close() {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.data == nil {
		return
	}

	i.data.terminate = 1

	if i.done != nil {
		<-i.done
		i.done = nil
	}

	C.gocava_audio_free(i.data)
	C.free(unsafe.Pointer(i.buf))
	C.free(unsafe.Pointer(i.source))

	i.data = nil
	i.buf = nil
	i.source = nil
}
