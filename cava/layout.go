package cava

// #include "cavabind.h"
// #include "glue.h"
import "C"

import "unsafe"

// RawRecord and struct audio_raw must have the same size. Either array length
// goes negative and fails to compile if they drift apart.
var (
	_ [unsafe.Sizeof(RawRecord{}) - unsafe.Sizeof(C.struct_audio_raw{})]struct{}
	_ [unsafe.Sizeof(C.struct_audio_raw{}) - unsafe.Sizeof(RawRecord{})]struct{}
)

// cRawLayout returns the field offsets and size of struct audio_raw as the C
// compiler lays it out.
func cRawLayout() ([]uintptr, uintptr) {
	var (
		offsets [C.GOCAVA_RAW_FIELDS]C.size_t
		size    C.size_t
	)

	C.gocava_raw_layout(&offsets[0], &size)

	out := make([]uintptr, len(offsets))
	for i, o := range offsets {
		out[i] = uintptr(o)
	}

	return out, uintptr(size)
}

// planHandleSize is the Go size of the opaque plan type. It has no fields.
func planHandleSize() uintptr {
	var p *C.struct_cava_plan
	return unsafe.Sizeof(*p)
}
