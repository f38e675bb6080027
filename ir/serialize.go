package ir

import (
	"github.com/signadot/docgraph/format"
	"github.com/signadot/docgraph/schema"
)

// Serialize returns the payload for n. It has no side effects: references
// serialize to their entry keys without resolving and lazy cells that were
// never forced serialize from their raw payload without being decoded.
//
// Records and dictionaries become *format.Map (schema field order and
// insertion order), state groups a [variant, payload] pair or the bare
// variant name they were decoded from, sets a []any.
func Serialize(n Node) (any, error) {
	d, e := n.doc, n.e()
	switch e.typ.Kind {
	case schema.RecordKind:
		res := format.NewMap()
		for i, f := range e.typ.Fields {
			v, err := serializeCell(d, e.cells[i])
			if err != nil {
				return nil, err
			}
			res.Set(f.Name, v)
		}
		return res, nil
	case schema.DictionaryKind:
		res := format.NewMap()
		for i, k := range e.keys {
			v, err := serializeCell(d, e.cells[i])
			if err != nil {
				return nil, err
			}
			res.Set(k, v)
		}
		return res, nil
	case schema.StateGroupKind:
		if e.bare {
			return e.variant, nil
		}
		v, err := serializeCell(d, e.cells[0])
		if err != nil {
			return nil, err
		}
		return []any{e.variant, v}, nil
	case schema.SetKind:
		res := make([]any, len(e.members))
		for i, id := range e.members {
			v, err := Serialize(n.with(id))
			if err != nil {
				return nil, err
			}
			res[i] = v
		}
		return res, nil
	case schema.ReferenceKind:
		if !e.ref.compound {
			return e.ref.entries[0], nil
		}
		res := make([]any, len(e.ref.entries))
		for i, k := range e.ref.entries {
			res[i] = k
		}
		return res, nil
	default:
		return e.value, nil
	}
}

func serializeCell(d *Document, c *cell) (any, error) {
	switch c.state {
	case forced:
		if c.err != nil {
			return nil, c.err
		}
		return Serialize(Node{doc: d, id: c.id})
	default:
		return format.Normalize(c.raw)
	}
}
