package ir

import (
	"fmt"

	"github.com/signadot/docgraph/schema"
)

// Set is an unordered collection of nodes with identity membership.
type Set struct {
	Node
}

func (n Node) Set() (Set, error) {
	if n.Kind() != schema.SetKind {
		return Set{}, n.kindErr("set")
	}
	return Set{n}, nil
}

func (s Set) Len() int {
	return len(s.e().members)
}

func (s Set) Members() []Node {
	ids := s.e().members
	res := make([]Node, len(ids))
	for i, id := range ids {
		res[i] = s.with(id)
	}
	return res
}

// Member returns the member decoded from index i of the payload.
func (s Set) Member(i int) (Node, error) {
	ids := s.e().members
	if i < 0 || i >= len(ids) {
		return Node{}, fmt.Errorf("%w: %s has no member %d", ErrNotFound, s, i)
	}
	return s.with(ids[i]), nil
}

// Has reports whether n is a member of s.
func (s Set) Has(n Node) bool {
	if n.doc != s.doc || !n.Valid() {
		return false
	}
	return n.e().parent == s.id
}
