package cava

// #cgo pkg-config: fftw3
// #cgo LDFLAGS: -lcava -lpthread -lm
// #include "cavabind.h"
// #include "glue.h"
import "C"
