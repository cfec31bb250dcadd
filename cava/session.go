package cava

// #include "cavabind.h"
// #include "glue.h"
import "C"

import (
	"sync"

	"go.uber.org/multierr"
)

// Session bundles params, input, raw record and plan. It acquires them in
// order and releases them in reverse on Close, including when opening fails
// halfway.
type Session struct {
	mu     sync.Mutex
	params *Params
	input  *Input
	raw    *Raw
	plan   *Plan
	closed bool
}

// OpenSession sets up libcava for cfg and starts capturing.
func OpenSession(cfg SessionConfig) (_ *Session, err error) {
	params, err := NewParams(cfg)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			params.Close()
		}
	}()

	input, err := NewInput(InputConfig{
		Rate:     cfg.Rate,
		Channels: cfg.Channels(),
		Source:   cfg.Source,
	})
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			input.Close()
		}
	}()

	raw, err := NewRaw(cfg.Bars)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			raw.Destroy()
		}
	}()

	plan, err := raw.Init(input, params)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			plan.Destroy()
		}
	}()

	if err = input.Start(params); err != nil {
		return nil, err
	}

	return &Session{
		params: params,
		input:  input,
		raw:    raw,
		plan:   plan,
	}, nil
}

// Analyze executes the plan on the samples captured since the last call.
func (s *Session) Analyze() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return &Error{Op: "analyze", Kind: KindClosed}
	}

	if err := s.input.Lock(); err != nil {
		return err
	}

	handle, err := s.plan.lockHandle()
	if err != nil {
		return multierr.Append(err, s.input.Unlock())
	}

	s.raw.mu.Lock()
	C.gocava_execute_raw(s.input.data, s.raw.cRaw, handle)
	s.raw.mu.Unlock()

	s.plan.mu.Unlock()

	if s.input.SamplesCounter() > 0 {
		s.input.ResetSamplesCounter()
	}

	return s.input.Unlock()
}

// Values copies the latest frame into dst. See Raw.Values.
func (s *Session) Values(dst []float64) ([]float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return dst[:0], &Error{Op: "values", Kind: KindClosed}
	}

	return s.raw.Values(dst)
}

// Config returns the configuration the session was opened with.
func (s *Session) Config() SessionConfig {
	return s.params.Config()
}

// InputRunning reports whether libcava's input thread is still alive.
func (s *Session) InputRunning() bool {
	return s.input.Running()
}

// Close stops capturing and releases everything the session holds.
// Calls after the first do nothing.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	s.input.Close()
	s.plan.Destroy()
	err := s.raw.Destroy()
	s.params.Close()

	return err
}
