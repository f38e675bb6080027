package ir

import (
	"fmt"

	"github.com/signadot/docgraph/schema"
)

// Record is a node with the fields its schema record declares.
type Record struct {
	Node
}

func (n Node) Record() (Record, error) {
	if n.Kind() != schema.RecordKind {
		return Record{}, n.kindErr("record")
	}
	return Record{n}, nil
}

// Field forces and returns the named field.
func (r Record) Field(name string) (Node, error) {
	i := r.Type().FieldIndex(name)
	if i < 0 {
		return Node{}, fmt.Errorf("%w: %s has no field %q", ErrNotFound, r, name)
	}
	id, err := r.doc.force(r.id, r.e().cells[i])
	if err != nil {
		return Node{}, err
	}
	return r.with(id), nil
}

// Forced reports whether the named field has been materialized.
func (r Record) Forced(name string) bool {
	i := r.Type().FieldIndex(name)
	return i >= 0 && r.e().cells[i].state == forced
}

func (r Record) FieldNames() []string {
	fields := r.Type().Fields
	res := make([]string, len(fields))
	for i, f := range fields {
		res[i] = f.Name
	}
	return res
}
