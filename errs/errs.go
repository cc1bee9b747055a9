// Package errs classifies ktmap failures into the four categories the
// mapping engine reports to its caller: malformed input, an out-of-range
// literal or index, a precondition violated by the caller, or an internal
// invariant that failed after the fact. Every error surfaced across a
// package boundary in ktmap is wrapped in one of these, so the top-level
// driver can print a single diagnostic line naming both the category and
// the underlying cause.
package errs

import "fmt"

// Kind names one of the four failure categories.
type Kind int

const (
	// InputMalformed covers unreadable files, bad magic/headers, missing or
	// ill-formed body lines, and AIGER integrity-constraint violations.
	InputMalformed Kind = iota
	// OutOfRange covers a literal or index decoded during enumeration that
	// falls outside the known arrays.
	OutOfRange
	// Precondition covers API misuse: calling an accessor before the data
	// it reads has been computed, an invalid configuration value, or an
	// operation applied to operands that don't satisfy its contract.
	Precondition
	// InternalInvariant covers a postcondition failing after a computation
	// that should have guaranteed it.
	InternalInvariant
)

func (k Kind) String() string {
	switch k {
	case InputMalformed:
		return "input malformed"
	case OutOfRange:
		return "out of range"
	case Precondition:
		return "precondition violated"
	case InternalInvariant:
		return "internal invariant failed"
	default:
		return "unknown error"
	}
}

// E is a classified ktmap error.
type E struct {
	Kind Kind
	Err  error
}

func (e *E) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Err)
}

func (e *E) Unwrap() error {
	return e.Err
}

// New wraps err under kind k.
func New(k Kind, err error) error {
	return &E{Kind: k, Err: err}
}

// Wrapf is a convenience for New(k, fmt.Errorf(format, args...)).
func Wrapf(k Kind, format string, args ...interface{}) error {
	return &E{Kind: k, Err: fmt.Errorf(format, args...)}
}
