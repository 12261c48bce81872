package judge

import (
	"errors"
	"fmt"

	"github.com/hcollier/penjudge/internal/protocol"
)

// Kind partitions run failures into the three disjoint categories the process
// boundary dispatches on. Sentinel output and exit codes are a pure function
// of the Kind.
type Kind int

const (
	// KindProtocol marks malformed or out-of-contract contestant input.
	KindProtocol Kind = iota
	// KindVerdict marks a well-formed run whose answers were not correct
	// enough to pass.
	KindVerdict
	// KindInternal marks unexpected judge faults, including panics recovered
	// at the boundary.
	KindInternal
)

// String returns the lowercase category name.
func (k Kind) String() string {
	switch k {
	case KindProtocol:
		return "protocol"
	case KindVerdict:
		return "verdict"
	case KindInternal:
		return "internal"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Error tags an underlying failure with its Kind.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string { return e.Err.Error() }

func (e *Error) Unwrap() error { return e.Err }

// KindOf classifies err. Anything that did not come out of the judge tagged
// is reported as KindInternal.
func KindOf(err error) Kind {
	var je *Error
	if errors.As(err, &je) {
		return je.Kind
	}
	return KindInternal
}

func protocolErr(err error) *Error { return &Error{Kind: KindProtocol, Err: err} }

func verdictErr(err error) *Error { return &Error{Kind: KindVerdict, Err: err} }

// OutOfBoundsError reports a move or guess outside its valid range. Token is
// the offending value as the contestant's decimal literal.
type OutOfBoundsError struct {
	Token string
}

func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf("Request out of bounds: %s.", e.Token)
}

// TooManyRoundsError reports a contestant exceeding the round budget.
type TooManyRoundsError struct{}

func (e *TooManyRoundsError) Error() string { return "Too many rounds" }

// SamePenTwiceError reports a guess pair naming the same pen twice.
type SamePenTwiceError struct{}

func (e *SamePenTwiceError) Error() string { return "Taking the same pen twice" }

// AdditionalInputError reports input remaining after the final guess line.
type AdditionalInputError struct {
	Extra string
}

func (e *AdditionalInputError) Error() string {
	return fmt.Sprintf("Additional input after all cases finish: %s.", protocol.Truncate(e.Extra))
}

// TooFewCorrectError is the verdict failure: the contestant played within the
// protocol but too few cases satisfied the correctness predicate.
type TooFewCorrectError struct {
	Correct int
}

func (e *TooFewCorrectError) Error() string {
	return fmt.Sprintf("Too few correct answers: %d.", e.Correct)
}
