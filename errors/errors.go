package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Kind categorizes the error.
type Kind string

const (
	// KindInvalidArgument marks input that cannot be interpreted under the
	// library's contract: objects without exchange-protocol support,
	// non-contiguous layouts, unregistered conversion types, malformed
	// variable-length payloads.
	KindInvalidArgument Kind = "invalid_argument"

	// KindUnsupported marks well-formed requests with no implemented path,
	// such as a memory-type pair with no transfer route or a missing
	// device bridge.
	KindUnsupported Kind = "unsupported"
)

// Error is the structured error type used throughout the library.
type Error struct {
	Kind   Kind
	Detail string
	Cause  error
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteByte('[')
	b.WriteString(string(e.Kind))
	b.WriteString("] ")
	b.WriteString(e.Detail)
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the cause chain.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches errors by kind, so sentinel-style checks work through
// errors.Is with a bare &Error{Kind: ...}.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind && (t.Detail == "" || t.Detail == e.Detail)
}

// InvalidArgumentf constructs a KindInvalidArgument error.
func InvalidArgumentf(format string, args ...any) *Error {
	return &Error{Kind: KindInvalidArgument, Detail: fmt.Sprintf(format, args...)}
}

// Unsupportedf constructs a KindUnsupported error.
func Unsupportedf(format string, args ...any) *Error {
	return &Error{Kind: KindUnsupported, Detail: fmt.Sprintf(format, args...)}
}

// Wrap attaches a cause to a kinded error.
func Wrap(kind Kind, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Detail: fmt.Sprintf(format, args...), Cause: cause}
}

// IsInvalidArgument reports whether err is (or wraps) a KindInvalidArgument error.
func IsInvalidArgument(err error) bool {
	return isKind(err, KindInvalidArgument)
}

// IsUnsupported reports whether err is (or wraps) a KindUnsupported error.
func IsUnsupported(err error) bool {
	return isKind(err, KindUnsupported)
}

func isKind(err error, kind Kind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == kind
}
