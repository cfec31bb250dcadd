package main

import (
	"context"
	"os"
	"strings"

	"github.com/noriah/gocava/config"
	"github.com/noriah/gocava/display"
	"github.com/noriah/gocava/transport"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// output is where frames end up.
type output interface {
	Start(ctx context.Context) context.Context
	Write(values []float64) error
	Close() error
}

func openOutput(cfg *config.Config, stereo bool, log *zap.Logger) (output, error) {
	switch strings.ToLower(cfg.Output) {
	case config.OutputTerminal:
		d := display.New(display.Config{
			BarWidth:   cfg.BarWidth,
			SpaceWidth: cfg.SpaceWidth,
			BaseThick:  1,
			Stereo:     stereo,
			Autosens:   cfg.Autosens,
			Framerate:  cfg.Framerate,
		})

		if err := d.Init(); err != nil {
			return nil, err
		}

		return &terminalOutput{d}, nil

	case config.OutputRaw:
		return transportOutput{transport.NewWriter(os.Stdout, cfg.AsciiRange)}, nil

	case config.OutputWebSocket:
		ws, err := transport.NewWebSocket(cfg.Listen, log)
		if err != nil {
			return nil, err
		}
		return transportOutput{ws}, nil
	}

	return nil, errors.Errorf("unknown output %q", cfg.Output)
}

type terminalOutput struct {
	*display.Display
}

func (t *terminalOutput) Close() error {
	t.Display.Stop()
	return t.Display.Close()
}

type transportOutput struct {
	transport.Transport
}

func (transportOutput) Start(ctx context.Context) context.Context {
	return ctx
}

// newLogger logs to stderr so raw frames on stdout stay clean.
func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, errors.Wrapf(err, "bad log level %q", level)
	}

	zcfg := zap.NewProductionConfig()
	if lvl == zapcore.DebugLevel {
		zcfg = zap.NewDevelopmentConfig()
	}

	zcfg.Level = zap.NewAtomicLevelAt(lvl)
	zcfg.Encoding = "console"
	zcfg.OutputPaths = []string{"stderr"}
	zcfg.ErrorOutputPaths = []string{"stderr"}

	return zcfg.Build()
}
