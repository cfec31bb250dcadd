package cava

import (
	"testing"

	"github.com/pkg/errors"
)

func TestStatusError(t *testing.T) {
	if err := StatusError("audio_raw_init", 0); err != nil {
		t.Fatalf("status 0 should be success, got %v", err)
	}

	err := StatusError("audio_raw_init", -1)
	if err == nil {
		t.Fatal("expected error for status -1")
	}

	var cErr *Error
	if !errors.As(err, &cErr) {
		t.Fatalf("expected *Error, got %T", err)
	}

	if cErr.Kind != KindStatus || cErr.Code != -1 {
		t.Errorf("unexpected error %+v", cErr)
	}

	if want := "cava audio_raw_init: status (code -1)"; err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestErrorIs(t *testing.T) {
	err := errors.Wrap(&Error{Op: "execute", Kind: KindClosed}, "analyze")

	if !errors.Is(err, ErrClosed) {
		t.Error("wrapped closed error should match ErrClosed")
	}

	if errors.Is(err, ErrShortBuffer) {
		t.Error("closed error should not match ErrShortBuffer")
	}

	if !errors.Is(err, &Error{Op: "execute", Kind: KindClosed}) {
		t.Error("matching op should match")
	}

	if errors.Is(err, &Error{Op: "init", Kind: KindClosed}) {
		t.Error("different op should not match")
	}

	if !IsKind(err, KindClosed) {
		t.Error("IsKind should see through wrapping")
	}

	if IsKind(errors.New("plain"), KindClosed) {
		t.Error("plain errors have no kind")
	}
}

func TestErrorDetail(t *testing.T) {
	err := invalidParam("init", "bars must not exceed %d, got %d", MaxBars, 300)

	want := "cava init: invalid_parameter: bars must not exceed 256, got 300"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}
