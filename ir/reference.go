package ir

import (
	"fmt"
	"slices"

	"github.com/signadot/docgraph/schema"
)

// RefState is the resolution state of a reference.
type RefState int

const (
	RefUnresolved RefState = iota
	RefResolving
	RefResolved
	RefFailed
	RefDetached
)

func (s RefState) String() string {
	r, ok := map[RefState]string{
		RefUnresolved: "unresolved",
		RefResolving:  "resolving",
		RefResolved:   "resolved",
		RefFailed:     "failed",
		RefDetached:   "detached",
	}[s]
	if ok {
		return r
	}
	return "<unknown ref state>"
}

type refState struct {
	state    RefState
	entries  []string
	compound bool
	target   Node
	err      error
}

// Reference is a node naming another node by entry key. Its target is
// looked up on first use and memoized.
type Reference struct {
	Node
}

func (n Node) Reference() (Reference, error) {
	if n.Kind() != schema.ReferenceKind {
		return Reference{}, n.kindErr("reference")
	}
	return Reference{n}, nil
}

// Entry returns the last entry key, the key of the target in its own
// dictionary.
func (r Reference) Entry() string {
	es := r.e().ref.entries
	return es[len(es)-1]
}

// Entries returns every entry key, one per dictionary of the reference path.
func (r Reference) Entries() []string {
	return slices.Clone(r.e().ref.entries)
}

func (r Reference) State() RefState {
	return r.e().ref.state
}

// Err returns the failure of a failed reference.
func (r Reference) Err() error {
	return r.e().ref.err
}

// Target resolves the reference if needed and returns its target. The
// target's reference count is incremented when resolution succeeds.
func (r Reference) Target() (Node, error) {
	return r.doc.resolveRef(r.id)
}

// Detach releases a resolved reference: the target's reference count is
// decremented and the memoized target cleared. A later Target resolves
// again. It reports whether anything was released.
func (r Reference) Detach() bool {
	rs := r.e().ref
	if rs.state != RefResolved {
		return false
	}
	rs.target.e().refs--
	rs.state, rs.target = RefDetached, Node{}
	return true
}

func (r Reference) String() string {
	return fmt.Sprintf("%s -> %v", r.Node, r.e().ref.entries)
}
