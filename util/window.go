package util

import (
	"gonum.org/v1/gonum/stat"
)

// MovingWindow keeps the last Cap() values and their mean and standard
// deviation. Values are stored oldest first.
type MovingWindow struct {
	values   []float64
	capacity int

	average float64
	stddev  float64
}

// NewMovingWindow returns a new moving window.
func NewMovingWindow(size int) *MovingWindow {
	if size < 1 {
		size = 1
	}

	return &MovingWindow{
		values:   make([]float64, 0, size),
		capacity: size,
	}
}

func (mw *MovingWindow) calcFinal() (float64, float64) {
	switch len(mw.values) {
	case 0:
		mw.average, mw.stddev = 0, 0
	case 1:
		mw.average, mw.stddev = mw.values[0], 0
	default:
		mw.average, mw.stddev = stat.MeanStdDev(mw.values, nil)
	}

	return mw.average, mw.stddev
}

// Update pushes value, evicting the oldest one when full.
func (mw *MovingWindow) Update(value float64) (float64, float64) {
	if len(mw.values) == mw.capacity {
		copy(mw.values, mw.values[1:])
		mw.values[len(mw.values)-1] = value
	} else {
		mw.values = append(mw.values, value)
	}

	return mw.calcFinal()
}

// Drop removes the count oldest values.
func (mw *MovingWindow) Drop(count int) (float64, float64) {
	if count > len(mw.values) {
		count = len(mw.values)
	}

	if count > 0 {
		n := copy(mw.values, mw.values[count:])
		mw.values = mw.values[:n]
	}

	return mw.calcFinal()
}

// Recalculate drops every value.
func (mw *MovingWindow) Recalculate() (float64, float64) {
	return mw.Drop(len(mw.values))
}

// Len returns how many items in the window
func (mw *MovingWindow) Len() int {
	return len(mw.values)
}

// Cap returns max size of window
func (mw *MovingWindow) Cap() int {
	return mw.capacity
}

// Mean is the moving window average
func (mw *MovingWindow) Mean() float64 {
	return mw.average
}

// StdDev is the moving window standard deviation
func (mw *MovingWindow) StdDev() float64 {
	return mw.stddev
}

// Stats returns the statistics of this window
func (mw *MovingWindow) Stats() (float64, float64) {
	return mw.average, mw.stddev
}
