// Package tcerr defines the error taxonomy shared by every component of the
// sparse tensor core.
package tcerr

import (
	"errors"
	"fmt"
)

// Kind classifies a core failure. Every exported operation that can fail
// returns an error whose Kind can be recovered with As, instead of
// propagating via panic/longjmp.
type Kind int

const (
	// Unknown is never the Kind of an *Error this package constructs; it
	// is the zero value of Kind, and KindOf reports it for errors that are
	// not (and do not wrap) an *Error, so a missing classification is
	// obvious in tests.
	Unknown Kind = iota
	// BadInput marks a malformed or inconsistent tensor, or an
	// out-of-range configuration value (rank <= 0, unknown policy, ...).
	BadInput
	// OutOfMemory marks an allocation failure for a COO tensor, a CSF
	// tree, factor matrices, or workspace scratch.
	OutOfMemory
	// NumericalFailure marks a dense solver that failed to converge, or
	// that produced a non-finite value.
	NumericalFailure
	// NotImplemented marks an unsupported option combination, such as
	// tiling requested alongside an allocation policy that doesn't
	// support it.
	NotImplemented
)

func (k Kind) String() string {
	switch k {
	case BadInput:
		return "BadInput"
	case OutOfMemory:
		return "OutOfMemory"
	case NumericalFailure:
		return "NumericalFailure"
	case NotImplemented:
		return "NotImplemented"
	default:
		return "Unknown"
	}
}

// Error is the concrete error type returned by this module. Op names the
// failing operation (e.g. "csf.Build", "tucker.Decompose") so a caller's
// single diagnostic line can identify the failing component per spec §7.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error with the same Kind, so callers can
// write errors.Is(err, tcerr.New(tcerr.NumericalFailure, "", "")) or, more
// idiomatically, compare with Kind via errors.As.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Kind == t.Kind
}

// New creates an *Error of the given kind for operation op.
func New(kind Kind, op, msg string) *Error {
	var err error
	if msg != "" {
		err = errors.New(msg)
	}
	return &Error{Kind: kind, Op: op, Err: err}
}

// Wrap wraps an existing error as the given kind for operation op.
func Wrap(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// KindOf extracts the Kind from err, or Unknown if err is not (or does not
// wrap) an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Unknown
}
