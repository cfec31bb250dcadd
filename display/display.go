// Package display draws bar values on the terminal with termbox.
package display

import (
	"context"
	"math"
	"sync"

	"github.com/noriah/gocava/util"

	"github.com/nsf/termbox-go"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
)

// Scaling constants for values that are not kept in 0-1 by autosens.
const (
	// ScalingSlowWindow in seconds
	ScalingSlowWindow = 5

	// ScalingFastWindow in seconds
	ScalingFastWindow = ScalingSlowWindow * 0.2

	// ScalingDumpPercent is how much we erase on rescale
	ScalingDumpPercent = 0.75

	// ScalingResetDeviation standard deviations from the mean before reset
	ScalingResetDeviation = 1
)

// Config configures the display.
type Config struct {
	BarWidth   int  // columns per bar
	SpaceWidth int  // columns between bars
	BaseThick  int  // rows of the base line
	Stereo     bool // first half of the values is the left channel
	Autosens   bool // values are already kept near 0-1
	Framerate  int  // frames per second, sizes the scaling windows
}

// Display draws frames written by the processor.
type Display struct {
	mu  sync.Mutex
	cfg Config

	slowWindow *util.MovingWindow
	fastWindow *util.MovingWindow
}

// New sets up the display. Init must be called before Write.
func New(cfg Config) *Display {
	if cfg.Framerate < 1 {
		cfg.Framerate = 1
	}

	d := &Display{
		slowWindow: util.NewMovingWindow(ScalingSlowWindow * cfg.Framerate),
		fastWindow: util.NewMovingWindow(int(ScalingFastWindow * float64(cfg.Framerate))),
	}

	d.SetWidths(cfg.BarWidth, cfg.SpaceWidth)
	d.cfg.BaseThick = cfg.BaseThick
	d.cfg.Stereo = cfg.Stereo
	d.cfg.Autosens = cfg.Autosens
	d.cfg.Framerate = cfg.Framerate

	return d
}

// Init takes over the terminal.
func (d *Display) Init() error {
	if err := termbox.Init(); err != nil {
		return errors.Wrap(err, "failed to initialize termbox")
	}

	termbox.SetInputMode(termbox.InputEsc)
	termbox.HideCursor()

	return termbox.Clear(StyleDefault, StyleDefaultBack)
}

// Close will stop display and clean up the terminal
func (d *Display) Close() error {
	termbox.Close()
	return nil
}

// Start polls terminal events. The returned context is cancelled when the
// user quits with q or Ctrl-C.
func (d *Display) Start(ctx context.Context) context.Context {
	dispCtx, dispCancel := context.WithCancel(ctx)
	go d.eventPoller(dispCtx, dispCancel)
	return dispCtx
}

// Stop wakes the event poller so it can see the context is done.
func (d *Display) Stop() {
	termbox.Interrupt()
}

func (d *Display) eventPoller(ctx context.Context, fn context.CancelFunc) {
	defer fn()

	for {
		ev := termbox.PollEvent()

		select {
		case <-ctx.Done():
			return
		default:
		}

		switch ev.Type {
		case termbox.EventKey:
			switch ev.Key {
			case termbox.KeyCtrlC:
				return

			case termbox.KeyArrowUp:
				d.SetWidths(d.cfg.BarWidth+1, d.cfg.SpaceWidth)

			case termbox.KeyArrowRight:
				d.SetWidths(d.cfg.BarWidth, d.cfg.SpaceWidth+1)

			case termbox.KeyArrowDown:
				d.SetWidths(d.cfg.BarWidth-1, d.cfg.SpaceWidth)

			case termbox.KeyArrowLeft:
				d.SetWidths(d.cfg.BarWidth, d.cfg.SpaceWidth-1)

			default:
				switch ev.Ch {
				case 'q', 'Q':
					return
				}
			}

		case termbox.EventError:
			return
		}
	}
}

// SetWidths takes a bar width and spacing width
func (d *Display) SetWidths(bar, space int) {
	if bar < 1 {
		bar = 1
	}

	if space < 0 {
		space = 0
	}

	d.mu.Lock()
	d.cfg.BarWidth = bar
	d.cfg.SpaceWidth = space
	d.mu.Unlock()
}

// Write draws one frame.
func (d *Display) Write(values []float64) error {
	d.mu.Lock()
	cfg := d.cfg
	d.mu.Unlock()

	if err := termbox.Clear(StyleDefault, StyleDefaultBack); err != nil {
		return err
	}

	scale := d.scale(values)

	if cfg.Stereo {
		left, right := splitChannels(values)
		drawUpDown(left, right, cfg, scale)
	} else {
		drawUp(values, cfg, scale)
	}

	return termbox.Flush()
}

// scale returns the value drawn at full height.
func (d *Display) scale(values []float64) float64 {
	if d.cfg.Autosens || len(values) == 0 {
		return 1
	}

	peak := floats.Max(values)
	if peak <= 0 {
		return math.Max(d.slowWindow.Mean(), 1)
	}

	d.fastWindow.Update(peak)
	vMean, vSD := d.slowWindow.Update(peak)

	if length := d.slowWindow.Len(); length >= d.fastWindow.Cap() {
		if math.Abs(d.fastWindow.Mean()-vMean) > (ScalingResetDeviation * vSD) {
			vMean, vSD = d.slowWindow.Drop(int(float64(length) * ScalingDumpPercent))
		}
	}

	return math.Max(vMean+(1.5*vSD), 1)
}

// splitChannels returns the left and right halves of a stereo frame.
func splitChannels(values []float64) ([]float64, []float64) {
	half := len(values) / 2
	return values[:half], values[half:]
}
