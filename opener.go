//go:build cgo

package gocava

import "github.com/noriah/gocava/cava"

// OpenCava opens a libcava session.
func OpenCava(cfg cava.SessionConfig) (Session, error) {
	return cava.OpenSession(cfg)
}
