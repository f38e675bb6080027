package ir

import (
	"fmt"

	"github.com/expr-lang/expr"

	"github.com/signadot/docgraph/debug"
	"github.com/signadot/docgraph/format"
	"github.com/signadot/docgraph/schema"
)

// checkEnv builds the expression environment of a record: its serialized
// fields by name, then refs (its reference count), path, and
// resolved(field), which reports whether a reference field has a target.
// The helpers shadow fields of the same name.
func (d *Document) checkEnv(id ID) (map[string]any, error) {
	n := Node{doc: d, id: id}
	e := d.entries[id]
	env := make(map[string]any, len(e.typ.Fields)+3)
	for i, f := range e.typ.Fields {
		v, err := serializeCell(d, e.cells[i])
		if err != nil {
			return nil, err
		}
		env[f.Name] = format.Plain(v)
	}
	env["refs"] = e.refs
	env["path"] = n.Path()
	env["resolved"] = func(field string) bool {
		i := e.typ.FieldIndex(field)
		if i < 0 || e.typ.Fields[i].Type.Kind != schema.ReferenceKind {
			return false
		}
		c := e.cells[i]
		if c.state != forced || c.err != nil {
			return false
		}
		return d.entries[c.id].ref.state == RefResolved
	}
	return env, nil
}

func (d *Document) runChecks(id ID) {
	e := d.entries[id]
	path := d.path(id)
	env, envErr := d.checkEnv(id)
	for _, chk := range e.typ.Checks {
		ok, err := false, envErr
		if err == nil {
			ok, err = evalCheck(chk, env)
		}
		if debug.Resolve() {
			debug.Logf("check %s %q: %t %v", at(path), chk.Expr, ok, err)
		}
		if ok {
			continue
		}
		d.report(Diagnostic{
			Phase: Resolving,
			Path:  path,
			Wire:  d.wire(id),
			Err:   &ConstraintError{Path: path, Expr: chk.Expr, Err: err},
		})
	}
}

func evalCheck(chk *schema.Check, env map[string]any) (bool, error) {
	out, err := expr.Run(chk.Program(), env)
	if err != nil {
		return false, err
	}
	b, ok := out.(bool)
	if !ok {
		return false, fmt.Errorf("result is %T, not bool", out)
	}
	return b, nil
}
