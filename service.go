// Package gocava runs a libcava visualization session in the background and
// publishes its bar values.
package gocava

import (
	"context"
	"sync"

	"github.com/noriah/gocava/cava"
	"github.com/noriah/gocava/config"
	"github.com/noriah/gocava/processor"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// ErrServiceClosed is returned by setters called after Close.
var ErrServiceClosed = errors.New("service closed")

// Session is what the service drives once per frame.
type Session interface {
	processor.Analyzer
	Close() error
}

// Opener opens a session for a configuration.
type Opener func(cava.SessionConfig) (Session, error)

// Option configures a Service.
type Option func(*Service)

// WithOpener replaces the session opener.
func WithOpener(open Opener) Option {
	return func(s *Service) { s.open = open }
}

// WithOutputs adds outputs that receive every frame alongside subscribers.
func WithOutputs(outs ...processor.Output) Option {
	return func(s *Service) { s.outputs = append(s.outputs, outs...) }
}

// WithThreaded writes frames to the outputs in parallel.
func WithThreaded(threaded bool) Option {
	return func(s *Service) { s.threaded = threaded }
}

// Service owns a session and the processor loop driving it. Every setter
// restarts the loop with the new configuration.
type Service struct {
	log      *zap.Logger
	open     Opener
	outputs  []processor.Output
	threaded bool

	// restart serializes setters, Close and the loop lifecycle.
	restart sync.Mutex
	parent  context.Context
	cancel  context.CancelFunc
	done    chan struct{}
	sess    Session
	closed  bool

	mu     sync.RWMutex
	cfg    config.Config
	values []float64
	subs   map[int]chan []float64
	nextID int
}

// New sanitizes cfg, opens a session and starts the visualization loop. The
// loop stops when ctx is done or Close is called. Sessions are opened with
// OpenCava unless WithOpener says otherwise.
func New(ctx context.Context, cfg config.Config, log *zap.Logger, opts ...Option) (*Service, error) {
	if log == nil {
		log = zap.NewNop()
	}

	s := &Service{
		log:    log.Named("service"),
		open:   OpenCava,
		parent: ctx,
		subs:   make(map[int]chan []float64),
	}

	for _, opt := range opts {
		opt(s)
	}

	if err := s.sanitize(&cfg); err != nil {
		return nil, err
	}

	s.restart.Lock()
	defer s.restart.Unlock()

	if err := s.start(cfg); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Service) sanitize(cfg *config.Config) error {
	clamped, err := cfg.Sanitize()
	if err != nil {
		return errors.Wrap(err, "invalid config")
	}

	for _, c := range clamped {
		s.log.Info("clamped config value",
			zap.String("field", c.Field),
			zap.Int("from", c.From),
			zap.Int("to", c.To))
	}

	return nil
}

// start opens a session for cfg and runs the processor. Caller holds restart.
func (s *Service) start(cfg config.Config) error {
	sessCfg, err := cfg.Session()
	if err != nil {
		return err
	}

	sess, err := s.open(sessCfg)
	if err != nil {
		return errors.Wrap(err, "failed to open session")
	}

	procCfg := processor.Config{
		FrameRate: cfg.Framerate,
		Analyzer:  sess,
		Outputs:   append([]processor.Output{(*frameSink)(s)}, s.outputs...),
		Logger:    s.log,
	}

	var vis processor.Processor
	if s.threaded {
		vis = processor.NewThreaded(procCfg)
	} else {
		vis = processor.New(procCfg)
	}

	ctx, cancel := context.WithCancel(s.parent)
	ctx = vis.Start(ctx)

	done := make(chan struct{})

	go func() {
		defer close(done)
		defer vis.Stop()
		vis.Process(ctx)
	}()

	s.mu.Lock()
	s.cfg = cfg
	s.mu.Unlock()

	s.sess = sess
	s.cancel = cancel
	s.done = done

	s.log.Debug("visualization started",
		zap.Int("bars", cfg.Bars),
		zap.Int("framerate", cfg.Framerate),
		zap.String("input", cfg.Input),
		zap.String("source", cfg.Source))

	return nil
}

// stop cancels the loop, waits for it and closes the session. Caller holds
// restart.
func (s *Service) stop() error {
	if s.sess == nil {
		return nil
	}

	s.cancel()
	<-s.done

	err := s.sess.Close()
	s.sess = nil

	return err
}

// update applies mod to a copy of the current configuration and restarts the
// loop with it. If the new configuration fails to start, the previous one is
// restored.
func (s *Service) update(mod func(*config.Config)) error {
	s.restart.Lock()
	defer s.restart.Unlock()

	if s.closed {
		return ErrServiceClosed
	}

	prev := s.Config()

	next := prev
	mod(&next)

	if err := s.sanitize(&next); err != nil {
		return err
	}

	if err := s.stop(); err != nil {
		s.log.Warn("failed to close session", zap.Error(err))
	}

	err := s.start(next)
	if err == nil {
		return nil
	}

	s.log.Error("restart failed, restoring previous config", zap.Error(err))

	if rerr := s.start(prev); rerr != nil {
		return multierr.Append(err, errors.Wrap(rerr, "failed to restore previous config"))
	}

	return err
}

// Config returns the active configuration.
func (s *Service) Config() config.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// SetBars sets the total bar count. Values outside 1-256 are clamped.
func (s *Service) SetBars(bars int) error {
	return s.update(func(c *config.Config) { c.Bars = bars })
}

// SetAutosens toggles automatic sensitivity.
func (s *Service) SetAutosens(autosens bool) error {
	return s.update(func(c *config.Config) { c.Autosens = autosens })
}

// SetStereo toggles split left and right channels.
func (s *Service) SetStereo(stereo bool) error {
	return s.update(func(c *config.Config) { c.Stereo = stereo })
}

// SetNoiseReduction sets the smoothing filter strength in [0, 1].
func (s *Service) SetNoiseReduction(nr float64) error {
	return s.update(func(c *config.Config) { c.NoiseReduction = nr })
}

// SetMonstercat sets monstercat smoothing. Must not be negative.
func (s *Service) SetMonstercat(monstercat float64) error {
	return s.update(func(c *config.Config) { c.Monstercat = monstercat })
}

// SetWaves sets wave smoothing. Monstercat wins if both are set.
func (s *Service) SetWaves(waves int) error {
	return s.update(func(c *config.Config) { c.Waves = waves })
}

// SetFramerate sets the frames per second. Values outside 1-360 are clamped.
func (s *Service) SetFramerate(fps int) error {
	return s.update(func(c *config.Config) { c.Framerate = fps })
}

// SetInput sets the capture method.
func (s *Service) SetInput(method cava.InputMethod) error {
	return s.update(func(c *config.Config) { c.Input = method.String() })
}

// SetSource sets the capture device, "auto" to detect.
func (s *Service) SetSource(source string) error {
	return s.update(func(c *config.Config) { c.Source = source })
}

// SetLowCutoff sets the lowest frequency in Hz.
func (s *Service) SetLowCutoff(hz int) error {
	return s.update(func(c *config.Config) { c.LowCutoff = hz })
}

// SetHighCutoff sets the highest frequency in Hz.
func (s *Service) SetHighCutoff(hz int) error {
	return s.update(func(c *config.Config) { c.HighCutoff = hz })
}

// SetSamplerate sets the capture rate in Hz.
func (s *Service) SetSamplerate(rate int) error {
	return s.update(func(c *config.Config) { c.SampleRate = rate })
}

// Values returns a copy of the latest frame. In stereo the first half holds
// the left channel.
func (s *Service) Values() []float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]float64(nil), s.values...)
}

// Subscribe returns a channel receiving a copy of every frame. Frames are
// dropped while the receiver is behind. The channel is closed by the returned
// func or by Close.
func (s *Service) Subscribe() (<-chan []float64, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan []float64, 1)

	if s.subs == nil {
		close(ch)
		return ch, func() {}
	}

	id := s.nextID
	s.nextID++
	s.subs[id] = ch

	var once sync.Once

	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()

			if c, ok := s.subs[id]; ok {
				delete(s.subs, id)
				close(c)
			}
		})
	}
}

// Close stops the loop, releases the session and closes all subscriptions.
func (s *Service) Close() error {
	s.restart.Lock()
	defer s.restart.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	err := s.stop()

	s.mu.Lock()
	for id, ch := range s.subs {
		delete(s.subs, id)
		close(ch)
	}
	s.subs = nil
	s.mu.Unlock()

	return err
}

// frameSink is the output the service registers with its processor.
type frameSink Service

func (fs *frameSink) Write(frame []float64) error {
	s := (*Service)(fs)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.values = append(s.values[:0], frame...)

	for _, ch := range s.subs {
		select {
		case ch <- append([]float64(nil), frame...):
		default:
		}
	}

	return nil
}
