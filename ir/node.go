package ir

import (
	"errors"
	"fmt"

	"github.com/signadot/docgraph/schema"
)

// Node is a handle to one decoded node. The zero Node is invalid. Two
// handles are the same node iff Is reports true.
type Node struct {
	doc *Document
	id  ID
}

func (n Node) Valid() bool {
	return n.doc != nil && n.id >= 0 && int(n.id) < len(n.doc.entries)
}

func (n Node) ID() ID { return n.id }
func (n Node) Document() *Document { return n.doc }
func (n Node) Type() *schema.Type { return n.e().typ }
func (n Node) Kind() schema.Kind { return n.e().typ.Kind }
func (n Node) RefCount() int { return n.e().refs }
func (n Node) Destroyed() bool { return n.e().destroyed }
func (n Node) e() *entry { return n.doc.entries[n.id] }
func (n Node) Is(o Node) bool { return n.doc == o.doc && n.id == o.id }
func (n Node) Root() Node { return n.doc.Root() }
func (n Node) String() string { return at(n.Path()) }
func (n Node) with(id ID) Node { return Node{doc: n.doc, id: id} }
func (n Node) IsRoot() bool { return n.e().parent == NoID }
func (n Node) Key() string { return n.e().key }
func (n Node) Path() string { return n.doc.path(n.id) }
func (n Node) WirePath() []any { return n.doc.wire(n.id) }

func (n Node) kindErr(want string) error {
	return fmt.Errorf("%w: %s is a %s, not a %s", ErrKind, at(n.Path()), n.Kind(), want)
}

// Parent returns the owning container, or an invalid Node for the root.
func (n Node) Parent() Node {
	p := n.e().parent
	if p == NoID {
		return Node{}
	}
	return n.with(p)
}

// Index is the position of n in its parent set, or -1.
func (n Node) Index() int {
	e := n.e()
	if e.parent == NoID || n.doc.entries[e.parent].typ.Kind != schema.SetKind {
		return -1
	}
	return e.index
}

// Children materializes and returns the children of n in order: record
// fields in schema order, dictionary entries in insertion order, set
// members, or the state group child. Children that fail to decode are
// left out and their errors joined.
func (n Node) Children() ([]Node, error) {
	e := n.e()
	if e.typ.Kind == schema.SetKind {
		res := make([]Node, 0, len(e.members))
		for _, id := range e.members {
			if !n.doc.entries[id].destroyed {
				res = append(res, n.with(id))
			}
		}
		return res, nil
	}
	var errs []error
	res := make([]Node, 0, len(e.cells))
	for _, c := range e.cells {
		id, err := n.doc.force(n.id, c)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		res = append(res, n.with(id))
	}
	return res, errors.Join(errs...)
}

// Visit calls f on n and its descendants in pre-order. Returning false
// from f skips the descendants of that node.
func Visit(n Node, f func(Node) (bool, error)) error {
	descend, err := f(n)
	if err != nil || !descend {
		return err
	}
	kids, err := n.Children()
	if err != nil {
		return err
	}
	for _, k := range kids {
		if err := Visit(k, f); err != nil {
			return err
		}
	}
	return nil
}

// Field returns the named field of a record node.
func (n Node) Field(name string) (Node, error) {
	r, err := n.Record()
	if err != nil {
		return Node{}, err
	}
	return r.Field(name)
}

// Value returns the value of a text, number or bool node: a string, an
// int64 or float64, or a bool.
func (n Node) Value() (any, error) {
	if !n.Kind().IsLeaf() || n.Kind() == schema.ReferenceKind {
		return nil, n.kindErr("scalar")
	}
	return n.e().value, nil
}

func (n Node) Text() (string, error) {
	if n.Kind() != schema.TextKind {
		return "", n.kindErr("text")
	}
	return n.e().value.(string), nil
}

func (n Node) Bool() (bool, error) {
	if n.Kind() != schema.BoolKind {
		return false, n.kindErr("bool")
	}
	return n.e().value.(bool), nil
}

// Number returns a number node as a float64.
func (n Node) Number() (float64, error) {
	if n.Kind() != schema.NumberKind {
		return 0, n.kindErr("number")
	}
	switch x := n.e().value.(type) {
	case int64:
		return float64(x), nil
	default:
		return x.(float64), nil
	}
}

// Int returns a number node holding an integer.
func (n Node) Int() (int64, error) {
	if n.Kind() != schema.NumberKind {
		return 0, n.kindErr("number")
	}
	i, ok := n.e().value.(int64)
	if !ok {
		return 0, fmt.Errorf("%w: %s is not an integer", ErrKind, at(n.Path()))
	}
	return i, nil
}
