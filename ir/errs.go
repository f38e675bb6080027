package ir

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrShape               = errors.New("shape error")
	ErrInvalidCast         = errors.New("invalid cast")
	ErrCyclicDependency    = errors.New("cyclic dependency")
	ErrUnresolvedReference = errors.New("unresolved reference")
	ErrConstraint          = errors.New("constraint violated")
	ErrKind                = errors.New("wrong node kind")
	ErrNotFound            = errors.New("not found")
	ErrNonExhaustive       = errors.New("non-exhaustive switch")
	ErrDestroyed           = errors.New("node destroyed")
	ErrPath                = errors.New("bad path")

	errInternal = errors.New("internal error")
)

func at(path string) string {
	if path == "" {
		return "<root>"
	}
	return path
}

// ShapeError reports a payload that does not have the shape the schema
// declares at Path.
type ShapeError struct {
	Path     string
	Wire     []any
	Expected string
	Actual   string
	Message  string
}

func (e *ShapeError) Error() string {
	b := &strings.Builder{}
	fmt.Fprintf(b, "%s at %s", ErrShape, at(e.Path))
	if e.Expected != "" {
		fmt.Fprintf(b, ": expected %s", e.Expected)
		if e.Actual != "" {
			fmt.Fprintf(b, ", got %s", e.Actual)
		}
	}
	if e.Message != "" {
		b.WriteString(": " + e.Message)
	}
	return b.String()
}

func (e *ShapeError) Unwrap() error {
	return ErrShape
}

// CastError reports a cast of a state group to a variant it does not hold.
type CastError struct {
	Path      string
	Actual    string
	Requested string
}

func (e *CastError) Error() string {
	return fmt.Sprintf("%s at %s: variant is %q, not %q", ErrInvalidCast, at(e.Path), e.Actual, e.Requested)
}

func (e *CastError) Unwrap() error {
	return ErrInvalidCast
}

// CycleError reports a reference that was needed again while it was being
// resolved.
type CycleError struct {
	Path  string
	Entry string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("%s: reference %q at %s is already resolving", ErrCyclicDependency, e.Entry, at(e.Path))
}

func (e *CycleError) Unwrap() error {
	return ErrCyclicDependency
}

// ReferenceError reports a reference without a target. Err, if set, is the
// failure that prevented the lookup.
type ReferenceError struct {
	Path    string
	Entry   string
	Message string
	Err     error
}

func (e *ReferenceError) Error() string {
	msg := fmt.Sprintf("%s %q at %s", ErrUnresolvedReference, e.Entry, at(e.Path))
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ReferenceError) Is(target error) bool {
	return target == ErrUnresolvedReference
}

func (e *ReferenceError) Unwrap() error {
	return e.Err
}

// ConstraintError reports a record check that evaluated to false or
// failed to evaluate.
type ConstraintError struct {
	Path string
	Expr string
	Err  error
}

func (e *ConstraintError) Error() string {
	msg := fmt.Sprintf("%s at %s: %s", ErrConstraint, at(e.Path), e.Expr)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ConstraintError) Is(target error) bool {
	return target == ErrConstraint
}

func (e *ConstraintError) Unwrap() error {
	return e.Err
}

// describe names the payload kind of v for shape errors.
func describe(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		return fmt.Sprintf("string %q", x)
	case bool:
		return "bool"
	case int64, float64:
		return "number"
	case []any:
		return fmt.Sprintf("list of %d", len(x))
	default:
		if isMap(v) {
			return "mapping"
		}
		return fmt.Sprintf("%T", v)
	}
}
