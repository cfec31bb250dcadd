package cava

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Kind categorizes a failure at the libcava boundary.
type Kind string

const (
	KindInvalidParameter Kind = "invalid_parameter" // rejected before any C call
	KindNullPlan         Kind = "null_plan"         // libcava returned no plan
	KindStatus           Kind = "status"            // non-zero status code
	KindClosed           Kind = "closed"            // use after destroy
	KindShortBuffer      Kind = "short_buffer"      // buffer smaller than the plan expects
	KindNoInput          Kind = "no_input"          // get_input returned nothing
	KindMutex            Kind = "mutex"             // pthread failure
	KindAllocation       Kind = "allocation"        // C allocation returned NULL
	KindUninitialized    Kind = "uninitialized"     // raw record used before init
)

// Error is returned by every operation in this package.
type Error struct {
	Op     string
	Kind   Kind
	Code   int
	Detail string
}

// Error implements the error interface
func (e *Error) Error() string {
	var sb strings.Builder

	sb.WriteString("cava")
	if e.Op != "" {
		sb.WriteString(" ")
		sb.WriteString(e.Op)
	}
	sb.WriteString(": ")
	sb.WriteString(string(e.Kind))

	if e.Kind == KindStatus || e.Kind == KindMutex {
		fmt.Fprintf(&sb, " (code %d)", e.Code)
	}

	if e.Detail != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Detail)
	}

	return sb.String()
}

// Is matches errors of the same kind. A target with an Op set also has to
// match the operation.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}

	if t.Kind != e.Kind {
		return false
	}

	return t.Op == "" || t.Op == e.Op
}

// Sentinels for use with errors.Is.
var (
	ErrInvalidParameter = &Error{Kind: KindInvalidParameter}
	ErrNullPlan         = &Error{Kind: KindNullPlan}
	ErrStatus           = &Error{Kind: KindStatus}
	ErrClosed           = &Error{Kind: KindClosed}
	ErrShortBuffer      = &Error{Kind: KindShortBuffer}
	ErrNoInput          = &Error{Kind: KindNoInput}
	ErrMutex            = &Error{Kind: KindMutex}
	ErrAllocation       = &Error{Kind: KindAllocation}
	ErrUninitialized    = &Error{Kind: KindUninitialized}
)

// IsKind reports whether err is an *Error of kind k.
func IsKind(err error, k Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == k
}

// StatusError converts a libcava status code. Zero is success.
func StatusError(op string, code int) error {
	if code == 0 {
		return nil
	}

	return &Error{Op: op, Kind: KindStatus, Code: code}
}

func invalidParam(op, format string, args ...interface{}) error {
	return &Error{Op: op, Kind: KindInvalidParameter, Detail: fmt.Sprintf(format, args...)}
}
