package schema

import (
	"errors"
	"fmt"
)

var (
	ErrSchema      = errors.New("schema error")
	ErrParse       = fmt.Errorf("%w: parse", ErrSchema)
	ErrUnknownType = fmt.Errorf("%w: unknown type", ErrSchema)
	ErrAliasCycle  = fmt.Errorf("%w: alias cycle", ErrSchema)
	ErrUninhabited = fmt.Errorf("%w: uninhabited type", ErrSchema)
	ErrOrdering    = fmt.Errorf("%w: bad ordering", ErrSchema)
	ErrReference   = fmt.Errorf("%w: bad reference", ErrSchema)
	ErrCheck       = fmt.Errorf("%w: bad check", ErrSchema)
)

// Error locates a schema problem. At is a definition name followed by the
// field, variant and element steps leading to the offending type.
type Error struct {
	Schema  string
	At      string
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Err != nil {
		msg = e.Err.Error() + ": " + msg
	}
	if e.At != "" {
		msg = e.At + ": " + msg
	}
	if e.Schema != "" {
		return fmt.Sprintf("schema %q: %s", e.Schema, msg)
	}
	return "schema: " + msg
}

func (e *Error) Unwrap() error {
	return e.Err
}
