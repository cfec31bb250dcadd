// Package transport sends frames of bar values out of the process.
package transport

import "io"

// Transport receives every frame. Implementations must be safe for use by
// one writer and a concurrent Close.
type Transport interface {
	Write(values []float64) error
	io.Closer
}

// Frame is the JSON form of one frame.
type Frame struct {
	Seq    uint64    `json:"seq"`
	Values []float64 `json:"values"`
}
