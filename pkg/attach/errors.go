package attach

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies attachment failures. Every kind is recoverable by
// correcting the inputs.
type ErrorKind int

const (
	KindUnresolvableSelection ErrorKind = iota + 1
	KindTooFewReferences
	KindTooManyReferences
	KindWrongReferenceKind
	KindUnsupportedCurveKind
	KindUnsupportedSurfaceKind
	KindDegenerateCurvature
	KindCoincidentReferences
	KindDegenerateConfiguration
	KindInvalidFoldChain
	KindKernelComputationFailure
	KindUnknownMode
)

func (k ErrorKind) String() string {
	switch k {
	case KindUnresolvableSelection:
		return "UnresolvableSelection"
	case KindTooFewReferences:
		return "TooFewReferences"
	case KindTooManyReferences:
		return "TooManyReferences"
	case KindWrongReferenceKind:
		return "WrongReferenceKind"
	case KindUnsupportedCurveKind:
		return "UnsupportedCurveKind"
	case KindUnsupportedSurfaceKind:
		return "UnsupportedSurfaceKind"
	case KindDegenerateCurvature:
		return "DegenerateCurvature"
	case KindCoincidentReferences:
		return "CoincidentReferences"
	case KindDegenerateConfiguration:
		return "DegenerateConfiguration"
	case KindInvalidFoldChain:
		return "InvalidFoldChain"
	case KindKernelComputationFailure:
		return "KernelComputationFailure"
	case KindUnknownMode:
		return "UnknownMode"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// Sentinels for errors.Is. They match any *Error of the same kind.
var (
	ErrUnresolvableSelection    = &Error{Kind: KindUnresolvableSelection}
	ErrTooFewReferences         = &Error{Kind: KindTooFewReferences}
	ErrTooManyReferences        = &Error{Kind: KindTooManyReferences}
	ErrWrongReferenceKind       = &Error{Kind: KindWrongReferenceKind}
	ErrUnsupportedCurveKind     = &Error{Kind: KindUnsupportedCurveKind}
	ErrUnsupportedSurfaceKind   = &Error{Kind: KindUnsupportedSurfaceKind}
	ErrDegenerateCurvature      = &Error{Kind: KindDegenerateCurvature}
	ErrCoincidentReferences     = &Error{Kind: KindCoincidentReferences}
	ErrDegenerateConfiguration  = &Error{Kind: KindDegenerateConfiguration}
	ErrInvalidFoldChain         = &Error{Kind: KindInvalidFoldChain}
	ErrKernelComputationFailure = &Error{Kind: KindKernelComputationFailure}
	ErrUnknownMode              = &Error{Kind: KindUnknownMode}
)

// ErrNotAttached is returned by Recompute for a deactivated attachment. It is
// a status, not a failure: the placement stays under direct control.
var ErrNotAttached = errors.New("attach: not attached")

// Error is a structured attachment failure.
type Error struct {
	Kind ErrorKind
	Mode ModeID
	// Slot is the 1-based reference position at fault, 0 if none.
	Slot     int
	Expected Kinds
	Got      RefKind
	Message  string
	Err      error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("attach: ")
	b.WriteString(e.Kind.String())
	if e.Mode != "" {
		fmt.Fprintf(&b, " (mode %s)", e.Mode)
	}
	if e.Slot > 0 {
		fmt.Fprintf(&b, ": reference %d", e.Slot)
		if e.Kind == KindWrongReferenceKind {
			fmt.Fprintf(&b, " is %s, want %s", e.Got, e.Expected)
		}
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error with the same Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

func newError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// kernelFailure wraps an error from the geometry kernel, keeping its message.
func kernelFailure(op string, err error) *Error {
	return &Error{Kind: KindKernelComputationFailure, Message: op, Err: err}
}

// ErrorKindOf returns the kind of an attachment error, or 0 if err is not one.
func ErrorKindOf(err error) ErrorKind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return 0
}
