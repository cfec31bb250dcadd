//go:build !cgo

package gocava

import (
	"github.com/noriah/gocava/cava"

	"github.com/pkg/errors"
)

// ErrNoLibcava is returned by OpenCava in builds without cgo.
var ErrNoLibcava = errors.New("built without cgo, libcava is unavailable")

// OpenCava fails without cgo. Use WithOpener to supply sessions.
func OpenCava(cava.SessionConfig) (Session, error) {
	return nil, ErrNoLibcava
}
