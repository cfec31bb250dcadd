package processor

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Output receives one frame of bar values per tick.
type Output interface {
	Write([]float64) error
}

// Analyzer runs the spectrum analysis. cava.Session satisfies it.
type Analyzer interface {
	Analyze() error
	Values([]float64) ([]float64, error)
}

type Processor interface {
	Start(ctx context.Context) context.Context
	Stop()
	Process(ctx context.Context)
}

type Config struct {
	FrameRate int         // target framerate
	Analyzer  Analyzer    // spectrum analyzer
	Outputs   []Output    // frame outputs
	Logger    *zap.Logger // nil logs nothing
}

type processor struct {
	frameRate int

	frame []float64

	anlz Analyzer
	outs []Output
	log  *zap.Logger
}

func New(cfg Config) *processor {
	return &processor{
		frameRate: cfg.FrameRate,
		anlz:      cfg.Analyzer,
		outs:      cfg.Outputs,
		log:       logger(cfg.Logger),
	}
}

func logger(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l.Named("processor")
}

func frameDuration(rate int) time.Duration {
	if rate <= 0 {
		// if we do not have a framerate set, allow at most 1 second per frame
		rate = 1
	}
	return time.Second / time.Duration(rate)
}

func (vis *processor) Start(ctx context.Context) context.Context {
	return ctx
}

func (vis *processor) Stop() {}

// step analyzes new samples and refreshes the frame buffer. It returns false
// if the frame should be skipped.
func (vis *processor) step() bool {
	if err := vis.anlz.Analyze(); err != nil {
		vis.log.Warn("analysis failed", zap.Error(err))
		return false
	}

	frame, err := vis.anlz.Values(vis.frame)
	if err != nil {
		vis.log.Warn("failed to read values", zap.Error(err))
		return false
	}
	vis.frame = frame

	return true
}

// Process runs analysis once per tick and writes each frame to every output
// until ctx is done.
func (vis *processor) Process(ctx context.Context) {
	dur := frameDuration(vis.frameRate)
	ticker := time.NewTicker(dur)
	defer ticker.Stop()

	for {
		if vis.step() {
			for _, out := range vis.outs {
				if err := out.Write(vis.frame); err != nil {
					vis.log.Warn("output write failed", zap.Error(err))
				}
			}
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
