package ir

import (
	"fmt"

	"github.com/signadot/docgraph/debug"
	"github.com/signadot/docgraph/schema"
)

// Resolve finishes the document: in lazy mode it materializes every node,
// then resolves every reference in decode order and runs record checks.
// Failures never stop the pass; each is reported once. Resolve returns the
// diagnostics it added and does nothing once the document is Done.
func (d *Document) Resolve() Diagnostics {
	if d.resolved {
		return nil
	}
	d.resolved = true
	start := len(d.diags)
	d.phase = Resolving
	if d.lazy {
		d.materialize(d.root)
	}
	for i := 0; i < len(d.queue); i++ {
		id := d.queue[i]
		if d.entries[id].destroyed {
			continue
		}
		d.resolveRef(id)
	}
	for _, id := range d.checked {
		if d.entries[id].destroyed {
			continue
		}
		d.runChecks(id)
	}
	d.phase = Done
	return d.diags[start:]
}

func (d *Document) materialize(id ID) {
	e := d.entries[id]
	if e.destroyed {
		return
	}
	for _, c := range e.cells {
		if cid, err := d.force(id, c); err == nil {
			d.materialize(cid)
		}
	}
	for _, m := range e.members {
		d.materialize(m)
	}
}

func (d *Document) resolveRef(id ID) (Node, error) {
	e := d.entries[id]
	r := e.ref
	switch r.state {
	case RefResolved:
		return r.target, nil
	case RefFailed:
		return Node{}, r.err
	case RefResolving:
		return Node{}, &CycleError{Path: d.path(id), Entry: r.entries[len(r.entries)-1]}
	}
	if e.destroyed {
		return Node{}, ErrDestroyed
	}
	r.state = RefResolving
	target, err := d.lookup(id)
	if err != nil {
		r.state, r.err = RefFailed, err
		d.report(Diagnostic{Phase: Resolving, Path: d.path(id), Wire: d.wire(id), Err: err})
		return Node{}, err
	}
	r.state, r.target = RefResolved, target
	target.e().refs++
	if debug.Resolve() {
		debug.Logf("resolve %s -> %s (refs %d)", at(d.path(id)), target, target.RefCount())
	}
	return target, nil
}

// lookup finds the target of reference id. The first dictionary is field
// Path[0] of the closest ancestor record declaring it as a dictionary, or
// the parameter of that name; with Via it is field Path[0] of the target
// of the sibling reference Via. Each further entry is looked up in field
// Path[i] of the previous target.
func (d *Document) lookup(id ID) (Node, error) {
	e := d.entries[id]
	r, spec := e.ref, e.typ.Ref
	fail := func(entry, msg string, err error) (Node, error) {
		return Node{}, &ReferenceError{Path: d.path(id), Entry: entry, Message: msg, Err: err}
	}
	var (
		dict Node
		err  error
	)
	if spec.Via != "" {
		sib, err := Node{d, e.parent}.Field(spec.Via)
		if err != nil {
			return fail(r.entries[0], fmt.Sprintf("via %q", spec.Via), err)
		}
		anchor, err := d.resolveRef(sib.id)
		if err != nil {
			return fail(r.entries[0], fmt.Sprintf("via %q", spec.Via), err)
		}
		if dict, err = dictField(anchor, spec.Path[0]); err != nil {
			return fail(r.entries[0], "", err)
		}
	} else {
		dict, err = d.anchor(e.parent, spec.Path[0])
		if err != nil {
			return fail(r.entries[0], "", err)
		}
	}
	var target Node
	for i, key := range r.entries {
		if i > 0 {
			if dict, err = dictField(target, spec.Path[i]); err != nil {
				return fail(key, "", err)
			}
		}
		dv, err := dict.Dictionary()
		if err != nil {
			return fail(key, "", err)
		}
		if !dv.Has(key) {
			return fail(key, fmt.Sprintf("no such entry in %s", dict), nil)
		}
		if target, err = dv.Get(key); err != nil {
			return fail(key, "", err)
		}
	}
	return target, nil
}

// anchor finds the dictionary field name on the closest record at or above
// from, falling back to the decode parameter name.
func (d *Document) anchor(from ID, name string) (Node, error) {
	for a := from; a != NoID; a = d.entries[a].parent {
		t := d.entries[a].typ
		if t.Kind != schema.RecordKind {
			continue
		}
		f := t.Field(name)
		if f == nil || f.Type.Kind != schema.DictionaryKind {
			continue
		}
		return Node{d, a}.Field(name)
	}
	if p, ok := d.params[name]; ok {
		if !p.Valid() || p.Kind() != schema.DictionaryKind {
			return Node{}, fmt.Errorf("%w: parameter %q is not a dictionary", ErrKind, name)
		}
		return p, nil
	}
	return Node{}, fmt.Errorf("%w: no dictionary %q in scope", ErrNotFound, name)
}

func dictField(n Node, name string) (Node, error) {
	f, err := n.Field(name)
	if err != nil {
		return Node{}, err
	}
	if f.Kind() != schema.DictionaryKind {
		return Node{}, f.kindErr("dictionary")
	}
	return f, nil
}
