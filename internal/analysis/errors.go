package analysis

import (
	"errors"
	"fmt"
)

// ErrorKind classifies why a sheet could not be analyzed
type ErrorKind int

const (
	// KindUnsupported means the sheet layout is structurally unsupported
	KindUnsupported ErrorKind = iota
	// KindNoData means the sheet holds only provisional data
	KindNoData
	// KindOther covers failures outside the sheet layout, e.g. a closed store
	KindOther
)

func (k ErrorKind) String() string {
	switch k {
	case KindUnsupported:
		return "unsupported"
	case KindNoData:
		return "no_data"
	default:
		return "other"
	}
}

// Error is a per-sheet analysis failure. A failed sheet contributes nothing
// beyond the rows already merged before the failure.
type Error struct {
	Kind   ErrorKind
	Reason string
	Cause  error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindUnsupported:
		return "Format unsupported: " + e.Reason
	case KindNoData:
		return "No non-provisional data"
	default:
		return fmt.Sprintf("Other: %v", e.Cause)
	}
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches errors of the same kind without a specific reason, so
// errors.Is(err, ErrNoData) holds for every NoData failure.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind && t.Reason == "" && t.Cause == nil
}

// ErrNoData is returned when a provisional marker precedes any timestamp
var ErrNoData = &Error{Kind: KindNoData}

// Unsupported creates a structural failure with a human-readable reason
func Unsupported(reason string) *Error {
	return &Error{Kind: KindUnsupported, Reason: reason}
}

// Unsupportedf is Unsupported with formatting
func Unsupportedf(format string, args ...any) *Error {
	return Unsupported(fmt.Sprintf(format, args...))
}

// OtherFailure wraps an error that is not about the sheet layout
func OtherFailure(err error) *Error {
	return &Error{Kind: KindOther, Cause: err}
}

// KindOf returns the kind of an analysis error; other errors count as KindOther
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindOther
}
