package gocava

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/noriah/gocava/cava"
	"github.com/noriah/gocava/config"

	"github.com/pkg/errors"
)

type fakeSession struct {
	mu     sync.Mutex
	cfg    cava.SessionConfig
	frames int
	closed bool
}

func (fs *fakeSession) Analyze() error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if fs.closed {
		return cava.ErrClosed
	}
	fs.frames++
	return nil
}

func (fs *fakeSession) Values(dst []float64) ([]float64, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	dst = dst[:0]
	for i := 0; i < fs.cfg.Bars; i++ {
		dst = append(dst, float64(fs.frames))
	}
	return dst, nil
}

func (fs *fakeSession) Close() error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.closed = true
	return nil
}

type fakeOpener struct {
	mu       sync.Mutex
	sessions []*fakeSession
	fail     func(cava.SessionConfig) bool
}

func (fo *fakeOpener) open(cfg cava.SessionConfig) (Session, error) {
	if fo.fail != nil && fo.fail(cfg) {
		return nil, &cava.Error{Op: "get_input", Kind: cava.KindNoInput}
	}

	fo.mu.Lock()
	defer fo.mu.Unlock()

	sess := &fakeSession{cfg: cfg}
	fo.sessions = append(fo.sessions, sess)
	return sess, nil
}

func (fo *fakeOpener) last() *fakeSession {
	fo.mu.Lock()
	defer fo.mu.Unlock()
	return fo.sessions[len(fo.sessions)-1]
}

func (fo *fakeOpener) count() int {
	fo.mu.Lock()
	defer fo.mu.Unlock()
	return len(fo.sessions)
}

func testConfig() config.Config {
	cfg := config.NewZeroConfig()
	cfg.Framerate = 200
	cfg.Bars = 8
	return cfg
}

func newTestService(t *testing.T, cfg config.Config) (*Service, *fakeOpener) {
	t.Helper()

	fo := &fakeOpener{}

	svc, err := New(context.Background(), cfg, nil, WithOpener(fo.open))
	if err != nil {
		t.Fatalf("failed to start service: %v", err)
	}

	t.Cleanup(func() { svc.Close() })

	return svc, fo
}

func waitFrame(t *testing.T, ch <-chan []float64) []float64 {
	t.Helper()

	select {
	case frame, ok := <-ch:
		if !ok {
			t.Fatal("subscription closed")
		}
		return frame
	case <-time.After(5 * time.Second):
		t.Fatal("no frame received")
	}
	return nil
}

func TestServiceValues(t *testing.T) {
	svc, _ := newTestService(t, testConfig())

	ch, unsub := svc.Subscribe()
	defer unsub()

	frame := waitFrame(t, ch)
	if len(frame) != 8 {
		t.Fatalf("frame has %d values, want 8", len(frame))
	}

	if got := svc.Values(); len(got) != 8 {
		t.Errorf("Values() has %d values, want 8", len(got))
	}
}

func TestServiceRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.HighCutoff = cfg.LowCutoff

	fo := &fakeOpener{}
	if _, err := New(context.Background(), cfg, nil, WithOpener(fo.open)); err == nil {
		t.Fatal("expected error")
	}

	if fo.count() != 0 {
		t.Error("session opened for an invalid config")
	}
}

func TestServiceSetterRestarts(t *testing.T) {
	svc, fo := newTestService(t, testConfig())

	first := fo.last()

	if err := svc.SetBars(16); err != nil {
		t.Fatalf("SetBars failed: %v", err)
	}

	if fo.count() != 2 {
		t.Fatalf("opened %d sessions, want 2", fo.count())
	}

	if !first.closed {
		t.Error("previous session was not closed")
	}

	if fo.last().cfg.Bars != 16 {
		t.Errorf("new session has %d bars", fo.last().cfg.Bars)
	}

	if svc.Config().Bars != 16 {
		t.Errorf("config has %d bars", svc.Config().Bars)
	}
}

func TestServiceSetterClamps(t *testing.T) {
	svc, fo := newTestService(t, testConfig())

	if err := svc.SetBars(1000); err != nil {
		t.Fatalf("SetBars failed: %v", err)
	}

	if got := fo.last().cfg.Bars; got != config.MaxBars {
		t.Errorf("bars = %d, want %d", got, config.MaxBars)
	}

	if err := svc.SetFramerate(0); err != nil {
		t.Fatalf("SetFramerate failed: %v", err)
	}

	if got := svc.Config().Framerate; got != config.MinFramerate {
		t.Errorf("framerate = %d, want %d", got, config.MinFramerate)
	}
}

func TestServiceSetterRejects(t *testing.T) {
	svc, fo := newTestService(t, testConfig())

	tests := []struct {
		name string
		set  func() error
	}{
		{"negative monstercat", func() error { return svc.SetMonstercat(-0.1) }},
		{"zero low cutoff", func() error { return svc.SetLowCutoff(0) }},
		{"zero high cutoff", func() error { return svc.SetHighCutoff(0) }},
		{"zero samplerate", func() error { return svc.SetSamplerate(0) }},
		{"noise reduction", func() error { return svc.SetNoiseReduction(1.5) }},
		{"negative waves", func() error { return svc.SetWaves(-1) }},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if err := test.set(); err == nil {
				t.Error("expected error")
			}
		})
	}

	// rejected values never restart the loop
	if fo.count() != 1 {
		t.Errorf("opened %d sessions, want 1", fo.count())
	}
}

func TestServiceRestoresOnFailure(t *testing.T) {
	fo := &fakeOpener{
		fail: func(cfg cava.SessionConfig) bool { return cfg.Input == cava.InputAlsa },
	}

	svc, err := New(context.Background(), testConfig(), nil, WithOpener(fo.open))
	if err != nil {
		t.Fatal(err)
	}
	defer svc.Close()

	err = svc.SetInput(cava.InputAlsa)
	if !errors.Is(err, cava.ErrNoInput) {
		t.Fatalf("expected no input error, got %v", err)
	}

	if got := svc.Config().Input; got != cava.InputPipeWire.String() {
		t.Errorf("input = %q, want previous config restored", got)
	}

	if fo.count() != 2 || fo.last().closed {
		t.Error("previous config was not reopened")
	}
}

func TestServiceClose(t *testing.T) {
	fo := &fakeOpener{}

	svc, err := New(context.Background(), testConfig(), nil, WithOpener(fo.open))
	if err != nil {
		t.Fatal(err)
	}

	ch, unsub := svc.Subscribe()

	if err := svc.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	if !fo.last().closed {
		t.Error("session not closed")
	}

	// drain a frame that may have been buffered before close
	for range ch {
	}

	unsub()

	if err := svc.Close(); err != nil {
		t.Errorf("second close failed: %v", err)
	}

	if err := svc.SetStereo(true); !errors.Is(err, ErrServiceClosed) {
		t.Errorf("setter after close returned %v", err)
	}

	late, _ := svc.Subscribe()
	if _, ok := <-late; ok {
		t.Error("subscription after close should be closed")
	}
}

func TestServiceStopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	fo := &fakeOpener{}

	svc, err := New(ctx, testConfig(), nil, WithOpener(fo.open))
	if err != nil {
		t.Fatal(err)
	}

	cancel()

	select {
	case <-svc.done:
	case <-time.After(5 * time.Second):
		t.Fatal("loop kept running after cancel")
	}

	if err := svc.Close(); err != nil {
		t.Errorf("close failed: %v", err)
	}
}

func TestServiceStereoSplitsBars(t *testing.T) {
	svc, fo := newTestService(t, testConfig())

	if err := svc.SetStereo(true); err != nil {
		t.Fatal(err)
	}

	sc := fo.last().cfg
	if sc.Channels() != 2 || sc.PlanConfig().Bars != 4 {
		t.Errorf("unexpected stereo session config %+v", sc)
	}
}
