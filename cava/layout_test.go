//go:build cgo

package cava

import (
	"reflect"
	"testing"
	"unsafe"
)

func TestRawRecordLayout(t *testing.T) {
	offsets, size := cRawLayout()

	typ := reflect.TypeOf(RawRecord{})

	if typ.NumField() != len(rawFieldNames) {
		t.Fatalf("RawRecord has %d fields, audio_raw has %d", typ.NumField(), len(rawFieldNames))
	}

	if len(offsets) != typ.NumField() {
		t.Fatalf("C layout has %d offsets, want %d", len(offsets), typ.NumField())
	}

	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		if field.Offset != offsets[i] {
			t.Errorf("%s (%s): Go offset %d, C offset %d",
				field.Name, rawFieldNames[i], field.Offset, offsets[i])
		}
	}

	if got := unsafe.Sizeof(RawRecord{}); got != size {
		t.Errorf("RawRecord size %d, audio_raw size %d", got, size)
	}
}

func TestRawRecordFieldWidths(t *testing.T) {
	widths := map[reflect.Kind]uintptr{
		reflect.Int32:   4,
		reflect.Float64: 8,
		reflect.Ptr:     unsafe.Sizeof(uintptr(0)),
	}

	typ := reflect.TypeOf(RawRecord{})
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)

		want, ok := widths[field.Type.Kind()]
		if !ok {
			t.Errorf("%s has unexpected kind %s", field.Name, field.Type.Kind())
			continue
		}

		if field.Type.Size() != want {
			t.Errorf("%s is %d bytes, want %d", field.Name, field.Type.Size(), want)
		}
	}
}

func TestPlanHandleIsOpaque(t *testing.T) {
	if size := planHandleSize(); size != 0 {
		t.Errorf("plan handle has size %d, want 0", size)
	}
}
