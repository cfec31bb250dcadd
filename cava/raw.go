package cava

// #include "cavabind.h"
// #include "glue.h"
import "C"

import (
	"sync"
	"unsafe"
)

// Raw owns a struct audio_raw. Its buffers belong to libcava and are valid
// between a successful Init and the next Clean or Destroy.
type Raw struct {
	mu   sync.Mutex
	cRaw *C.struct_audio_raw
	rec  *RawRecord

	// initialized is set while libcava's buffers are live.
	initialized bool
	// cleaned is set after Clean until the next Init. Pointer fields of the
	// record dangle while it is set.
	cleaned bool
	// owned is set once Init succeeds, so Destroy hands the record back to
	// audio_raw_destroy exactly once.
	owned bool
}

// NewRaw allocates a zeroed record with number_of_bars preset.
func NewRaw(bars int) (*Raw, error) {
	const op = "raw"

	if bars < 1 || bars > MaxBars {
		return nil, invalidParam(op, "bars must be between 1 and %d, got %d", MaxBars, bars)
	}

	c := C.gocava_raw_new(C.int(bars))
	if c == nil {
		return nil, &Error{Op: op, Kind: KindAllocation}
	}

	return &Raw{
		cRaw: c,
		rec:  (*RawRecord)(unsafe.Pointer(c)),
	}, nil
}

// Init calls audio_raw_init, which sizes the record's buffers from p and
// creates the plan bound to that configuration.
func (r *Raw) Init(in *Input, p *Params) (*Plan, error) {
	const op = "audio_raw_init"

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cRaw == nil {
		return nil, &Error{Op: op, Kind: KindClosed}
	}

	if r.initialized {
		return nil, invalidParam(op, "record already initialized")
	}

	in.mu.Lock()
	defer in.mu.Unlock()
	p.mu.Lock()
	defer p.mu.Unlock()

	if in.data == nil || p.cParams == nil {
		return nil, &Error{Op: op, Kind: KindClosed, Detail: "input or params closed"}
	}

	var cPlan *C.struct_cava_plan

	ret := C.audio_raw_init(in.data, r.cRaw, p.cParams, &cPlan)
	if err := StatusError(op, int(ret)); err != nil {
		return nil, err
	}

	r.initialized = true
	r.cleaned = false
	r.owned = true

	if cPlan == nil {
		return nil, &Error{Op: op, Kind: KindNullPlan}
	}

	return newPlan(cPlan, p.cfg.PlanConfig()), nil
}

// Initialized reports whether Init succeeded and neither Clean nor Destroy
// has run since.
func (r *Raw) Initialized() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.initialized
}

// Clean calls audio_raw_clean, which frees the buffers Init allocated. The
// record stays owned and may be passed to Init again.
func (r *Raw) Clean() error {
	const op = "audio_raw_clean"

	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.initialized {
		return &Error{Op: op, Kind: KindUninitialized}
	}

	r.initialized = false
	r.cleaned = true

	return StatusError(op, int(C.audio_raw_clean(r.cRaw)))
}

// Destroy calls audio_raw_destroy if Init ever succeeded, including after
// Clean, and frees the record. Calls after the first do nothing.
func (r *Raw) Destroy() error {
	const op = "audio_raw_destroy"

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cRaw == nil {
		return nil
	}

	var err error
	if r.owned {
		err = StatusError(op, int(C.audio_raw_destroy(r.cRaw)))
	}

	C.gocava_raw_free(r.cRaw)
	r.cRaw = nil
	r.rec = nil
	r.initialized = false
	r.cleaned = false
	r.owned = false

	return err
}

// Record returns a copy of the record. Pointer fields are only valid while
// the record is initialized; after Clean the record is not readable until
// the next Init.
func (r *Raw) Record() (RawRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.rec == nil {
		return RawRecord{}, &Error{Op: "record", Kind: KindClosed}
	}

	if r.cleaned {
		return RawRecord{}, &Error{Op: "record", Kind: KindUninitialized}
	}

	return *r.rec, nil
}

// Values copies the latest output of the plan into dst, growing it as
// needed, and returns it.
func (r *Raw) Values(dst []float64) ([]float64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.initialized {
		return dst[:0], &Error{Op: "values", Kind: KindUninitialized}
	}

	n := int(r.rec.NumberOfBars)
	if cap(dst) < n {
		dst = make([]float64, n)
	}
	dst = dst[:n]

	if r.rec.Out != nil && n > 0 {
		copy(dst, unsafe.Slice(r.rec.Out, n))
	}

	return dst, nil
}

// Bars copies the integer bar heights of the last frame.
func (r *Raw) Bars() ([]int32, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.initialized {
		return nil, &Error{Op: "bars", Kind: KindUninitialized}
	}

	n := int(r.rec.NumberOfBars)
	out := make([]int32, n)

	if r.rec.Bars != nil && n > 0 {
		copy(out, unsafe.Slice(r.rec.Bars, n))
	}

	return out, nil
}
