package ir

import (
	"fmt"
	"slices"

	"github.com/signadot/docgraph/schema"
)

// StateGroup is a node holding exactly one of its declared variants.
type StateGroup struct {
	Node
}

func (n Node) StateGroup() (StateGroup, error) {
	if n.Kind() != schema.StateGroupKind {
		return StateGroup{}, n.kindErr("state group")
	}
	return StateGroup{n}, nil
}

func (sg StateGroup) Variant() string {
	return sg.e().variant
}

// Bare reports whether the payload named the variant without a pair.
func (sg StateGroup) Bare() bool {
	return sg.e().bare
}

// Child forces and returns the payload of the active variant.
func (sg StateGroup) Child() (Node, error) {
	id, err := sg.doc.force(sg.id, sg.e().cells[0])
	if err != nil {
		return Node{}, err
	}
	return sg.with(id), nil
}

// Cast returns the child if the active variant is name.
func (sg StateGroup) Cast(name string) (Node, error) {
	if v := sg.Variant(); v != name {
		return Node{}, &CastError{Path: sg.Path(), Actual: v, Requested: name}
	}
	return sg.Child()
}

// Cases maps every variant of a state group to a handler of its child.
type Cases[T any] map[string]func(Node) (T, error)

// Const is a handler that ignores the child and returns v.
func Const[T any](v T) func(Node) (T, error) {
	return func(Node) (T, error) { return v, nil }
}

// Switch calls the handler for the active variant of sg. cases must have a
// handler for each declared variant and none other, whichever variant is
// active.
func Switch[T any](sg StateGroup, cases Cases[T]) (T, error) {
	var zero T
	declared := sg.Type().VariantNames()
	var missing, extra []string
	for _, v := range declared {
		if cases[v] == nil {
			missing = append(missing, v)
		}
	}
	for v := range cases {
		if !slices.Contains(declared, v) {
			extra = append(extra, v)
		}
	}
	if len(missing) != 0 || len(extra) != 0 {
		slices.Sort(extra)
		return zero, fmt.Errorf("%w at %s: missing %v, undeclared %v", ErrNonExhaustive, sg, missing, extra)
	}
	child, err := sg.Child()
	if err != nil {
		return zero, err
	}
	return cases[sg.Variant()](child)
}
