package schema

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/expr-lang/expr"
)

// Schema is a set of named type definitions with a designated root record.
type Schema struct {
	Name   string
	Root   string
	Define map[string]*Type

	root *Type
}

// New builds and compiles a schema.
func New(name, root string, define map[string]*Type) (*Schema, error) {
	s := &Schema{Name: name, Root: root, Define: define}
	if err := s.Compile(); err != nil {
		return nil, err
	}
	return s, nil
}

// MustNew is like New but panics on error. It is meant for schemas
// declared in Go source.
func MustNew(name, root string, define map[string]*Type) *Schema {
	s, err := New(name, root, define)
	if err != nil {
		panic(err)
	}
	return s
}

// RootType returns the compiled root record, or nil if s is not compiled.
func (s *Schema) RootType() *Type {
	return s.root
}

// Definitions returns the definition names in sorted order.
func (s *Schema) Definitions() []string {
	return slices.Sorted(maps.Keys(s.Define))
}

// Compile links named types, checks the structure of every reachable type
// and compiles record checks. Compiling an already compiled schema is a
// no-op.
func (s *Schema) Compile() error {
	if s.root != nil {
		return nil
	}
	c := &compiler{s: s, linked: map[*Type]bool{}, where: map[*Type]string{}}
	names := s.Definitions()
	for _, name := range names {
		if t := s.Define[name]; t != nil && t.Kind != NamedKind && t.Name == "" {
			t.Name = name
		}
	}
	resolved := make(map[string]*Type, len(names))
	for _, name := range names {
		t, err := c.lookup(name, nil)
		if err != nil {
			c.errs = append(c.errs, err)
			continue
		}
		resolved[name] = t
	}
	if len(c.errs) != 0 {
		return errors.Join(c.errs...)
	}
	for _, name := range names {
		c.link(resolved[name], name)
	}
	root, ok := resolved[s.Root]
	switch {
	case !ok:
		c.fail(s.Root, ErrUnknownType, "root %q is not defined", s.Root)
	case root.Kind != RecordKind:
		c.fail(s.Root, ErrSchema, "root must be a record, not %s", root.Kind)
	}
	if len(c.errs) != 0 {
		return errors.Join(c.errs...)
	}
	for _, t := range c.dicts {
		c.checkOrderings(t)
	}
	for _, t := range c.records {
		c.checkVia(t)
	}
	c.checkInhabited()
	if len(c.errs) != 0 {
		return errors.Join(c.errs...)
	}
	s.Define = resolved
	s.root = root
	return nil
}

type compiler struct {
	s       *Schema
	errs    []error
	linked  map[*Type]bool
	where   map[*Type]string
	all     []*Type
	dicts   []*Type
	records []*Type
}

func (c *compiler) fail(at string, err error, msg string, args ...any) {
	c.errs = append(c.errs, &Error{
		Schema:  c.s.Name,
		At:      at,
		Message: fmt.Sprintf(msg, args...),
		Err:     err,
	})
}

// lookup follows alias chains starting at name.
func (c *compiler) lookup(name string, chain []string) (*Type, error) {
	t, ok := c.s.Define[name]
	if !ok || t == nil {
		return nil, &Error{Schema: c.s.Name, At: name, Message: "not defined", Err: ErrUnknownType}
	}
	if t.Kind != NamedKind {
		return t, nil
	}
	if slices.Contains(chain, name) {
		return nil, &Error{
			Schema:  c.s.Name,
			At:      name,
			Message: fmt.Sprintf("%v", append(chain, name)),
			Err:     ErrAliasCycle,
		}
	}
	return c.lookup(t.Name, append(chain, name))
}

func (c *compiler) resolve(t *Type, at string) *Type {
	if t == nil {
		c.fail(at, ErrSchema, "missing type")
		return nil
	}
	if t.Kind != NamedKind {
		return t
	}
	r, err := c.lookup(t.Name, nil)
	if err != nil {
		c.fail(at, ErrUnknownType, "%q", t.Name)
		return nil
	}
	return r
}

func (c *compiler) link(t *Type, at string) {
	if t == nil || c.linked[t] {
		return
	}
	c.linked[t] = true
	c.where[t] = at
	c.all = append(c.all, t)
	if len(t.Checks) != 0 && t.Kind != RecordKind {
		c.fail(at, ErrCheck, "checks are only allowed on records")
	}
	switch t.Kind {
	case RecordKind:
		seen := map[string]bool{}
		for _, f := range t.Fields {
			if f.Name == "" || seen[f.Name] {
				c.fail(at, ErrSchema, "empty or duplicate field name %q", f.Name)
				continue
			}
			seen[f.Name] = true
			f.Type = c.resolve(f.Type, at+"."+f.Name)
			c.link(f.Type, at+"."+f.Name)
		}
		for _, chk := range t.Checks {
			prg, err := expr.Compile(chk.Expr)
			if err != nil {
				c.fail(at, ErrCheck, "%q: %v", chk.Expr, err)
				continue
			}
			chk.program = prg
		}
		c.records = append(c.records, t)
	case StateGroupKind:
		if len(t.Variants) == 0 {
			c.fail(at, ErrSchema, "state group without variants")
		}
		seen := map[string]bool{}
		for _, v := range t.Variants {
			if v.Name == "" || seen[v.Name] {
				c.fail(at, ErrSchema, "empty or duplicate variant name %q", v.Name)
				continue
			}
			seen[v.Name] = true
			if v.Type == nil {
				v.Type = Record()
			}
			v.Type = c.resolve(v.Type, at+"?"+v.Name)
			c.link(v.Type, at+"?"+v.Name)
		}
	case DictionaryKind, SetKind:
		t.Elem = c.resolve(t.Elem, at+"[*]")
		c.link(t.Elem, at+"[*]")
		if t.Kind == DictionaryKind {
			c.dicts = append(c.dicts, t)
		} else if len(t.Orderings) != 0 {
			c.fail(at, ErrOrdering, "sets have no orderings")
		}
	case ReferenceKind:
		if t.Ref == nil || len(t.Ref.Path) == 0 {
			c.fail(at, ErrReference, "reference without a dictionary path")
			return
		}
		for _, p := range t.Ref.Path {
			if p == "" {
				c.fail(at, ErrReference, "empty dictionary name in %v", t.Ref.Path)
			}
		}
	case TextKind, NumberKind, BoolKind:
	default:
		c.fail(at, ErrSchema, "invalid kind %s", t.Kind)
	}
}

func (c *compiler) checkOrderings(t *Type) {
	at := c.where[t]
	if len(t.Orderings) == 0 {
		return
	}
	if t.Elem == nil || t.Elem.Kind != RecordKind {
		c.fail(at, ErrOrdering, "orderings need record entries")
		return
	}
	seen := map[string]bool{}
	for _, o := range t.Orderings {
		if o.Name == "" || seen[o.Name] {
			c.fail(at, ErrOrdering, "empty or duplicate ordering name %q", o.Name)
			continue
		}
		seen[o.Name] = true
		f := t.Elem.Field(o.Field)
		if f == nil {
			c.fail(at, ErrOrdering, "%s: no field %q in entries", o.Name, o.Field)
			continue
		}
		if !IsSuccessor(f.Type) {
			c.fail(at, ErrOrdering, "%s: field %q is not a successor state group", o.Name, o.Field)
		}
	}
}

// IsSuccessor reports whether t has the shape built by Successor.
func IsSuccessor(t *Type) bool {
	if t == nil || t.Kind != StateGroupKind || len(t.Variants) != 2 {
		return false
	}
	no, yes := t.Variant(SuccessorNo), t.Variant(SuccessorYes)
	if no == nil || yes == nil || no.Type == nil || yes.Type == nil {
		return false
	}
	if no.Type.Kind != RecordKind || len(no.Type.Fields) != 0 || yes.Type.Kind != RecordKind {
		return false
	}
	next := yes.Type.Field(SuccessorNext)
	if next == nil || next.Type == nil || next.Type.Kind != ReferenceKind || next.Type.Ref == nil {
		return false
	}
	return next.Type.Ref.Via == "" && len(next.Type.Ref.Path) == 1
}

func (c *compiler) checkVia(t *Type) {
	at := c.where[t]
	for _, f := range t.Fields {
		if f.Type == nil || f.Type.Kind != ReferenceKind || f.Type.Ref == nil || f.Type.Ref.Via == "" {
			continue
		}
		via := f.Type.Ref.Via
		sib := t.Field(via)
		switch {
		case via == f.Name:
			c.fail(at+"."+f.Name, ErrReference, "reference is looked up via itself")
		case sib == nil:
			c.fail(at+"."+f.Name, ErrReference, "via field %q does not exist", via)
		case sib.Type == nil || sib.Type.Kind != ReferenceKind:
			c.fail(at+"."+f.Name, ErrReference, "via field %q is not a reference", via)
		}
	}
}

// checkInhabited rejects types that admit no finite value, such as a
// record that must contain itself. It computes the least fixpoint of
// "has a finite value" over all linked types.
func (c *compiler) checkInhabited() {
	ok := make(map[*Type]bool, len(c.all))
	for changed := true; changed; {
		changed = false
		for _, t := range c.all {
			if ok[t] || !inhabitedStep(t, ok) {
				continue
			}
			ok[t] = true
			changed = true
		}
	}
	for _, t := range c.all {
		if !ok[t] {
			c.fail(c.where[t], ErrUninhabited, "%s has no finite value", t)
		}
	}
}

func inhabitedStep(t *Type, ok map[*Type]bool) bool {
	switch t.Kind {
	case RecordKind:
		for _, f := range t.Fields {
			if !ok[f.Type] {
				return false
			}
		}
		return true
	case StateGroupKind:
		for _, v := range t.Variants {
			if ok[v.Type] {
				return true
			}
		}
		return false
	default:
		return true
	}
}
