package schema

import (
	"fmt"

	"github.com/expr-lang/expr/vm"
)

type Kind int

const (
	InvalidKind Kind = iota
	RecordKind
	StateGroupKind
	DictionaryKind
	SetKind
	ReferenceKind
	TextKind
	NumberKind
	BoolKind
	NamedKind
)

func (k Kind) String() string {
	s, ok := map[Kind]string{
		RecordKind:     "record",
		StateGroupKind: "stategroup",
		DictionaryKind: "dictionary",
		SetKind:        "set",
		ReferenceKind:  "reference",
		TextKind:       "text",
		NumberKind:     "number",
		BoolKind:       "bool",
		NamedKind:      "named",
	}[k]
	if ok {
		return s
	}
	return "<unknown kind>"
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(d []byte) error {
	kk, ok := map[string]Kind{
		"record":     RecordKind,
		"stategroup": StateGroupKind,
		"dictionary": DictionaryKind,
		"set":        SetKind,
		"reference":  ReferenceKind,
		"text":       TextKind,
		"number":     NumberKind,
		"bool":       BoolKind,
		"named":      NamedKind,
	}[string(d)]
	if !ok {
		return fmt.Errorf("unrecognized kind %q", d)
	}
	*k = kk
	return nil
}

// Kinds returns the kinds of compiled types.
func Kinds() []Kind {
	return []Kind{RecordKind, StateGroupKind, DictionaryKind, SetKind, ReferenceKind, TextKind, NumberKind, BoolKind}
}

// IsLeaf reports whether nodes of kind k have no decoded children.
func (k Kind) IsLeaf() bool {
	switch k {
	case ReferenceKind, TextKind, NumberKind, BoolKind:
		return true
	default:
		return false
	}
}

// Type describes the shape of one node. Which fields are meaningful depends
// on Kind:
//
//   - RecordKind: Fields, Checks
//   - StateGroupKind: Variants
//   - DictionaryKind: Elem, Orderings
//   - SetKind: Elem
//   - ReferenceKind: Ref
//   - NamedKind: Name, the definition it stands for
//
// NamedKind types only exist before a Schema is compiled; compilation
// replaces them with the definitions they name.
type Type struct {
	Kind      Kind
	Name      string
	Fields    []*Field
	Variants  []*Variant
	Elem      *Type
	Orderings []*Ordering
	Ref       *RefSpec
	Checks    []*Check
}

type Field struct {
	Name string
	Type *Type
}

// Variant is one alternative of a state group. A nil Type is an empty
// record.
type Variant struct {
	Name string
	Type *Type
}

// Ordering names a linked traversal over the entries of a dictionary.
// Field is the successor state group in the element record.
type Ordering struct {
	Name  string
	Field string
}

// RefSpec says where a reference looks for its target.
//
// Path holds one dictionary field name per entry segment: the first
// dictionary is found on the closest ancestor record having that field
// (or, with Via set, on the target of the sibling reference field Via),
// and each further segment looks in the named dictionary field of the
// previous target.
type RefSpec struct {
	Via  string
	Path []string
}

// Check is a boolean expr-lang expression evaluated against a decoded
// record once its references are resolved.
type Check struct {
	Expr    string
	program *vm.Program
}

// Program returns the compiled expression, or nil before compilation.
func (c *Check) Program() *vm.Program {
	return c.program
}

func (t *Type) Field(name string) *Field {
	for _, f := range t.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

func (t *Type) FieldIndex(name string) int {
	for i, f := range t.Fields {
		if f.Name == name {
			return i
		}
	}
	return -1
}

func (t *Type) Variant(name string) *Variant {
	for _, v := range t.Variants {
		if v.Name == name {
			return v
		}
	}
	return nil
}

func (t *Type) Ordering(name string) *Ordering {
	for _, o := range t.Orderings {
		if o.Name == name {
			return o
		}
	}
	return nil
}

// VariantNames returns the declared variant names in declaration order.
func (t *Type) VariantNames() []string {
	res := make([]string, len(t.Variants))
	for i, v := range t.Variants {
		res[i] = v.Name
	}
	return res
}

func (t *Type) String() string {
	if t == nil {
		return "<nil type>"
	}
	if t.Name != "" {
		return t.Kind.String() + " " + t.Name
	}
	return t.Kind.String()
}
