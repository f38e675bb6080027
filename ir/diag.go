package ir

import (
	"errors"
	"fmt"
)

// Phase is the stage of a decode call.
type Phase int

const (
	Decoding Phase = iota
	Resolving
	Done
)

func (p Phase) String() string {
	s, ok := map[Phase]string{
		Decoding:  "decoding",
		Resolving: "resolving",
		Done:      "done",
	}[p]
	if ok {
		return s
	}
	return "<unknown phase>"
}

func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Phase) UnmarshalText(d []byte) error {
	pp, ok := map[string]Phase{
		"decoding":  Decoding,
		"resolving": Resolving,
		"done":      Done,
	}[string(d)]
	if !ok {
		return fmt.Errorf("unrecognized phase %q", d)
	}
	*p = pp
	return nil
}

// Diagnostic is one problem found while decoding or resolving. Path is the
// structural address of the node; Wire is its address in the payload, as
// keys and indices, for locating it in source text.
type Diagnostic struct {
	Phase Phase
	Path  string
	Wire  []any
	Err   error
}

func (d Diagnostic) Error() string {
	return d.Err.Error()
}

func (d Diagnostic) Unwrap() error {
	return d.Err
}

type Diagnostics []Diagnostic

func (ds Diagnostics) HasErrors() bool {
	return len(ds) != 0
}

// Err joins all diagnostics, or returns nil if there are none.
func (ds Diagnostics) Err() error {
	if len(ds) == 0 {
		return nil
	}
	errs := make([]error, len(ds))
	for i := range ds {
		errs[i] = ds[i]
	}
	return errors.Join(errs...)
}

// Filter returns the diagnostics whose error matches target.
func (ds Diagnostics) Filter(target error) Diagnostics {
	var res Diagnostics
	for _, d := range ds {
		if errors.Is(d.Err, target) {
			res = append(res, d)
		}
	}
	return res
}
