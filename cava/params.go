package cava

// #include <stdlib.h>
// #include "cavabind.h"
// #include "glue.h"
import "C"

import (
	"sync"
	"unsafe"
)

const (
	rawTarget  = "/dev/stdout"
	dataFormat = "binary"
)

// Params holds a struct config_params in C memory.
type Params struct {
	mu      sync.Mutex
	cParams *C.struct_config_params
	strs    []*C.char
	cfg     SessionConfig
}

// NewParams builds the libcava configuration for a raw output session.
func NewParams(cfg SessionConfig) (*Params, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	p := &Params{cfg: cfg}

	target := p.cString(rawTarget)
	format := p.cString(dataFormat)
	source := p.cString(cfg.Source)

	in := C.struct_gocava_params{
		raw_target:      target,
		data_format:     format,
		audio_source:    source,
		noise_reduction: C.double(cfg.NoiseReduction),
		monstercat:      C.double(cfg.Monstercat),
		lower_cut_off:   C.uint(cfg.LowCutoff),
		upper_cut_off:   C.uint(cfg.HighCutoff),
		input:           C.int(cfg.Input),
		bars:            C.int(cfg.Bars),
		autosens:        C.int(boolInt(cfg.Autosens)),
		stereo:          C.int(boolInt(cfg.Stereo)),
		framerate:       C.int(cfg.Framerate),
		samplerate:      C.int(cfg.Rate),
		channels:        C.int(cfg.Channels()),
		waves:           C.int(cfg.Waves),
	}

	p.cParams = C.gocava_params_new(&in)
	if p.cParams == nil {
		p.freeStrings()
		return nil, &Error{Op: "params", Kind: KindAllocation}
	}

	return p, nil
}

func (p *Params) cString(s string) *C.char {
	cs := C.CString(s)
	p.strs = append(p.strs, cs)
	return cs
}

func (p *Params) freeStrings() {
	for _, s := range p.strs {
		C.free(unsafe.Pointer(s))
	}
	p.strs = nil
}

// Config returns the session configuration the params were built from.
func (p *Params) Config() SessionConfig {
	return p.cfg
}

// Close frees the params. Calls after the first do nothing.
func (p *Params) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cParams == nil {
		return
	}

	C.free(unsafe.Pointer(p.cParams))
	p.cParams = nil
	p.freeStrings()
}
