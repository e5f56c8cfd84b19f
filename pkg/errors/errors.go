// Package errors provides the error taxonomy used across segboost: a thin
// wrapper over github.com/cockroachdb/errors that adds the typed
// constructors callers switch on (errors.As) and a mapping from any
// wrapped error down to the stable C-style error code the boosting
// package's entry point returns.
package errors

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Code is the stable boundary error code returned by GenerateTermUpdate
// and friends.
type Code int

const (
	// None indicates success.
	None Code = iota
	// IllegalParamVal indicates a bad handle or an out-of-range parameter.
	IllegalParamVal
	// OutOfMemory indicates an allocation or overflow failure anywhere
	// in the call.
	OutOfMemory
	// UnexpectedInternal indicates an unsupported path or an invariant
	// violation.
	UnexpectedInternal
)

func (c Code) String() string {
	switch c {
	case None:
		return "None"
	case IllegalParamVal:
		return "IllegalParamVal"
	case OutOfMemory:
		return "OutOfMemory"
	case UnexpectedInternal:
		return "UnexpectedInternal"
	default:
		return "Unknown"
	}
}

// ValueError reports an invalid parameter value. Maps to IllegalParamVal.
type ValueError struct {
	Op      string
	Message string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

// NewValueError constructs a ValueError.
func NewValueError(op, message string) error {
	return errors.WithStack(&ValueError{Op: op, Message: message})
}

// DimensionError reports a shape mismatch. Maps to IllegalParamVal.
type DimensionError struct {
	Op       string
	Expected int
	Got      int
	Axis     int
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("%s: dimension mismatch at axis %d: expected %d, got %d", e.Op, e.Axis, e.Expected, e.Got)
}

// NewDimensionError constructs a DimensionError.
func NewDimensionError(op string, expected, got, axis int) error {
	return errors.WithStack(&DimensionError{Op: op, Expected: expected, Got: got, Axis: axis})
}

// OverflowError reports that a size computation would overflow the
// machine word, or that an allocation failed. Maps to OutOfMemory.
type OverflowError struct {
	Op     string
	Detail string
}

func (e *OverflowError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Detail)
}

// NewOverflowError constructs an OverflowError.
func NewOverflowError(op, detail string) error {
	return errors.WithStack(&OverflowError{Op: op, Detail: detail})
}

// InternalError reports an unsupported path or invariant violation.
// Maps to UnexpectedInternal.
type InternalError struct {
	Op     string
	Detail string
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Detail)
}

// NewInternalError constructs an InternalError.
func NewInternalError(op, detail string) error {
	return errors.WithStack(&InternalError{Op: op, Detail: detail})
}

// Newf wraps cockroachdb/errors.Newf for ad-hoc formatted errors that do
// not need a typed constructor.
func Newf(format string, args ...interface{}) error {
	return errors.Newf(format, args...)
}

// Wrapf attaches additional context to err while preserving its type for
// errors.As/errors.Is.
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// ToCode classifies err into the stable boundary error code. Unrecognized
// errors (including nil) map to None only when err is nil; any other
// unrecognized error maps to UnexpectedInternal.
func ToCode(err error) Code {
	if err == nil {
		return None
	}
	var valueErr *ValueError
	if errors.As(err, &valueErr) {
		return IllegalParamVal
	}
	var dimErr *DimensionError
	if errors.As(err, &dimErr) {
		return IllegalParamVal
	}
	var overflowErr *OverflowError
	if errors.As(err, &overflowErr) {
		return OutOfMemory
	}
	var internalErr *InternalError
	if errors.As(err, &internalErr) {
		return UnexpectedInternal
	}
	return UnexpectedInternal
}
