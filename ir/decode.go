package ir

import (
	"errors"
	"fmt"
	"slices"

	"github.com/signadot/docgraph/debug"
	"github.com/signadot/docgraph/format"
	"github.com/signadot/docgraph/schema"
)

func isMap(v any) bool {
	_, ok := v.(*format.Map)
	return ok
}

// decodeValue allocates the node for raw under parent and decodes it. The
// node's descendants are allocated after it, so a failed subtree occupies a
// contiguous range of IDs.
func (d *Document) decodeValue(parent ID, key string, index int, t *schema.Type, raw any) (ID, error) {
	id := d.alloc(&entry{typ: t, parent: parent, key: key, index: index})
	if debug.Decode() {
		debug.Logf("decode %s %s", t, at(d.path(id)))
	}
	var err error
	switch t.Kind {
	case schema.RecordKind:
		err = d.decodeRecord(id, raw)
	case schema.StateGroupKind:
		err = d.decodeStateGroup(id, raw)
	case schema.DictionaryKind:
		err = d.decodeDictionary(id, raw)
	case schema.SetKind:
		err = d.decodeSet(id, raw)
	case schema.ReferenceKind:
		err = d.decodeReference(id, raw)
	case schema.TextKind, schema.NumberKind, schema.BoolKind:
		err = d.decodeScalar(id, raw)
	default:
		err = fmt.Errorf("%w: cannot decode %s", errInternal, t)
	}
	return id, err
}

func (d *Document) shapeErr(id ID, expected string, raw any) error {
	return d.reportShape(&ShapeError{
		Path:     d.path(id),
		Wire:     d.wire(id),
		Expected: expected,
		Actual:   describe(raw),
	})
}

func (d *Document) reportShape(se *ShapeError) error {
	d.report(Diagnostic{Phase: Decoding, Path: se.Path, Wire: se.Wire, Err: se})
	return se
}

func (d *Document) decodeRecord(id ID, raw any) error {
	e := d.entries[id]
	m, ok := raw.(*format.Map)
	if !ok {
		return d.shapeErr(id, "mapping for "+e.typ.String(), raw)
	}
	var errs []error
	for _, k := range m.Keys {
		if e.typ.Field(k) != nil {
			continue
		}
		errs = append(errs, d.reportShape(&ShapeError{
			Path:    d.childPath(id, k, 0),
			Wire:    d.childWire(id, k, 0),
			Message: fmt.Sprintf("unknown field %q", k),
		}))
	}
	e.cells = make([]*cell, len(e.typ.Fields))
	for i, f := range e.typ.Fields {
		c := &cell{typ: f.Type, key: f.Name}
		e.cells[i] = c
		v, ok := m.Values[f.Name]
		if !ok {
			err := d.reportShape(&ShapeError{
				Path:    d.path(id),
				Wire:    d.wire(id),
				Message: fmt.Sprintf("missing field %q", f.Name),
			})
			c.state, c.id, c.err = forced, NoID, err
			errs = append(errs, err)
			continue
		}
		c.raw = v
		if d.lazy {
			continue
		}
		if _, err := d.force(id, c); err != nil {
			errs = append(errs, err)
		}
	}
	if len(e.typ.Checks) != 0 {
		d.checked = append(d.checked, id)
	}
	return errors.Join(errs...)
}

// decodeStateGroup accepts a bare variant name, meaning an empty record
// payload, or a [variant, payload] pair.
func (d *Document) decodeStateGroup(id ID, raw any) error {
	e := d.entries[id]
	var (
		name    string
		payload any
	)
	switch x := raw.(type) {
	case string:
		name, payload, e.bare = x, format.NewMap(), true
	case []any:
		if len(x) == 2 {
			name, _ = x[0].(string)
			payload = x[1]
		}
	}
	if name == "" {
		return d.shapeErr(id, "variant name or [variant, payload]", raw)
	}
	v := e.typ.Variant(name)
	if v == nil {
		se := &ShapeError{
			Path:    d.path(id),
			Wire:    d.wire(id),
			Message: fmt.Sprintf("unknown variant %q, want one of %v", name, e.typ.VariantNames()),
		}
		if !e.bare {
			se.Wire = append(se.Wire, 0)
		}
		return d.reportShape(se)
	}
	e.variant = name
	c := &cell{typ: v.Type, key: name, raw: payload}
	e.cells = []*cell{c}
	if d.lazy {
		return nil
	}
	_, err := d.force(id, c)
	return err
}

func (d *Document) decodeDictionary(id ID, raw any) error {
	e := d.entries[id]
	m, ok := raw.(*format.Map)
	if !ok {
		return d.shapeErr(id, "mapping", raw)
	}
	e.keys = slices.Clone(m.Keys)
	e.pos = make(map[string]int, len(m.Keys))
	e.cells = make([]*cell, len(m.Keys))
	var errs []error
	for i, k := range m.Keys {
		e.pos[k] = i
		c := &cell{typ: e.typ.Elem, key: k, raw: m.Values[k]}
		e.cells[i] = c
		if d.lazy {
			continue
		}
		if _, err := d.force(id, c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// decodeSet materializes every member, also in lazy mode.
func (d *Document) decodeSet(id ID, raw any) error {
	list, ok := raw.([]any)
	if !ok {
		return d.shapeErr(id, "list", raw)
	}
	var errs []error
	members := make([]ID, len(list))
	for i, v := range list {
		mid, err := d.decodeValue(id, "", i, d.entries[id].typ.Elem, v)
		if err != nil {
			errs = append(errs, err)
		}
		members[i] = mid
	}
	d.entries[id].members = members
	return errors.Join(errs...)
}

// decodeReference stores the entry keys and queues the reference. It never
// resolves.
func (d *Document) decodeReference(id ID, raw any) error {
	e := d.entries[id]
	spec := e.typ.Ref
	r := &refState{}
	if len(spec.Path) == 1 {
		s, ok := raw.(string)
		if !ok {
			return d.shapeErr(id, "entry key", raw)
		}
		r.entries = []string{s}
	} else {
		list, ok := raw.([]any)
		if !ok || len(list) != len(spec.Path) {
			return d.shapeErr(id, fmt.Sprintf("list of %d entry keys", len(spec.Path)), raw)
		}
		r.compound = true
		for _, v := range list {
			s, ok := v.(string)
			if !ok {
				return d.shapeErr(id, fmt.Sprintf("list of %d entry keys", len(spec.Path)), raw)
			}
			r.entries = append(r.entries, s)
		}
	}
	e.ref = r
	d.queue = append(d.queue, id)
	return nil
}

func (d *Document) decodeScalar(id ID, raw any) error {
	e := d.entries[id]
	ok := false
	switch e.typ.Kind {
	case schema.TextKind:
		_, ok = raw.(string)
	case schema.BoolKind:
		_, ok = raw.(bool)
	case schema.NumberKind:
		switch raw.(type) {
		case int64, float64:
			ok = true
		}
	}
	if !ok {
		return d.shapeErr(id, e.typ.Kind.String(), raw)
	}
	e.value = raw
	return nil
}
