package cava

// #include "cavabind.h"
import "C"

import (
	"runtime"
	"sync"
	"unsafe"
)

// Plan holds a libcava analysis plan. The C plan is opaque; only its address
// is kept.
type Plan struct {
	mu    sync.Mutex
	cPlan *C.struct_cava_plan
	cfg   PlanConfig
}

// NewPlan validates cfg and creates a plan with cava_init.
func NewPlan(cfg PlanConfig) (*Plan, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	p := C.cava_init(
		C.int(cfg.Bars),
		C.uint(cfg.Rate),
		C.int(cfg.Channels),
		C.int(boolInt(cfg.Autosens)),
		C.double(cfg.NoiseReduction),
		C.int(cfg.LowCutoff),
		C.int(cfg.HighCutoff),
	)
	if p == nil {
		return nil, &Error{Op: "init", Kind: KindNullPlan}
	}

	return newPlan(p, cfg), nil
}

func newPlan(p *C.struct_cava_plan, cfg PlanConfig) *Plan {
	plan := &Plan{
		cPlan: p,
		cfg:   cfg,
	}

	// Rely on the runtime if the owner forgets Destroy.
	runtime.SetFinalizer(plan, (*Plan).Destroy)

	return plan
}

// Config returns the configuration the plan was created with.
func (p *Plan) Config() PlanConfig {
	return p.cfg
}

// Execute feeds newSamples interleaved samples from in to the plan and writes
// Config().OutputSize() values to out.
func (p *Plan) Execute(in []float64, newSamples int, out []float64) error {
	const op = "execute"

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cPlan == nil {
		return &Error{Op: op, Kind: KindClosed}
	}

	switch {
	case newSamples < 0 || newSamples > len(in):
		return &Error{Op: op, Kind: KindShortBuffer,
			Detail: "new sample count outside input buffer"}

	case newSamples > p.cfg.InputSize():
		return &Error{Op: op, Kind: KindShortBuffer,
			Detail: "new sample count exceeds plan input size"}

	case len(out) < p.cfg.OutputSize():
		return &Error{Op: op, Kind: KindShortBuffer,
			Detail: "output buffer smaller than bars * channels"}
	}

	var inC *C.double
	if len(in) > 0 {
		inC = (*C.double)(unsafe.Pointer(&in[0]))
	}

	C.cava_execute(inC, C.int(newSamples), (*C.double)(unsafe.Pointer(&out[0])), p.cPlan)

	return nil
}

// Destroy releases the plan. Calls after the first do nothing.
func (p *Plan) Destroy() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cPlan == nil {
		return
	}

	C.cava_destroy(p.cPlan)

	p.cPlan = nil
	runtime.SetFinalizer(p, nil)
}

// Destroyed reports whether Destroy has been called.
func (p *Plan) Destroyed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cPlan == nil
}

// lockHandle returns the C plan with the plan mutex held. The caller must
// call p.mu.Unlock.
func (p *Plan) lockHandle() (*C.struct_cava_plan, error) {
	p.mu.Lock()
	if p.cPlan == nil {
		p.mu.Unlock()
		return nil, &Error{Op: "execute", Kind: KindClosed}
	}
	return p.cPlan, nil
}
