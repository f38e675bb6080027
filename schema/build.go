package schema

const (
	SuccessorNo   = "no"
	SuccessorYes  = "yes"
	SuccessorNext = "next"
)

func Record(fields ...*Field) *Type {
	return &Type{Kind: RecordKind, Fields: fields}
}

func F(name string, t *Type) *Field {
	return &Field{Name: name, Type: t}
}

func StateGroup(variants ...*Variant) *Type {
	return &Type{Kind: StateGroupKind, Variants: variants}
}

func V(name string, t *Type) *Variant {
	return &Variant{Name: name, Type: t}
}

func Dictionary(elem *Type, orderings ...*Ordering) *Type {
	return &Type{Kind: DictionaryKind, Elem: elem, Orderings: orderings}
}

func O(name, field string) *Ordering {
	return &Ordering{Name: name, Field: field}
}

func Set(elem *Type) *Type {
	return &Type{Kind: SetKind, Elem: elem}
}

// Reference builds a reference looked up through the dictionaries named by
// path, starting from the closest ancestor record that has path[0].
func Reference(path ...string) *Type {
	return &Type{Kind: ReferenceKind, Ref: &RefSpec{Path: path}}
}

// ReferenceVia builds a reference whose first dictionary is field path[0]
// of the target of the sibling reference field via.
func ReferenceVia(via string, path ...string) *Type {
	return &Type{Kind: ReferenceKind, Ref: &RefSpec{Via: via, Path: path}}
}

func Text() *Type   { return &Type{Kind: TextKind} }
func Number() *Type { return &Type{Kind: NumberKind} }
func Bool() *Type   { return &Type{Kind: BoolKind} }

// Named refers to the definition name; it is linked when the schema is
// compiled.
func Named(name string) *Type {
	return &Type{Kind: NamedKind, Name: name}
}

// Successor builds the "has successor" state group used by dictionary
// orderings: either no successor, or yes with a next reference into the
// dictionary found through path.
func Successor(path ...string) *Type {
	return StateGroup(
		V(SuccessorNo, nil),
		V(SuccessorYes, Record(F(SuccessorNext, Reference(path...)))),
	)
}

// WithChecks adds constraint expressions to a record type.
func (t *Type) WithChecks(exprs ...string) *Type {
	for _, e := range exprs {
		t.Checks = append(t.Checks, &Check{Expr: e})
	}
	return t
}
