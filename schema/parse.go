package schema

import (
	"fmt"
	"strings"

	"github.com/signadot/docgraph/format"
)

// Parse builds and compiles a schema from a schema document payload:
//
//	name: interface
//	root: interface
//	define:
//	  interface:
//	    record:
//	      types: {dictionary: type, orderings: {chain: has next}}
//	  type:
//	    record:
//	      has next: successor(types)
//	      base: ref(types)
//
// Type expressions are either strings (text, number, bool, a definition
// name, ref(a, b), ref(@sibling, a), successor(a)) or mappings with exactly
// one of record, stategroup, dictionary or set.
func Parse(raw any) (*Schema, error) {
	doc, ok := raw.(*format.Map)
	if !ok {
		return nil, fmt.Errorf("%w: schema document must be a mapping, got %T", ErrParse, raw)
	}
	s := &Schema{Define: map[string]*Type{}}
	for _, k := range doc.Keys {
		v := doc.Values[k]
		switch k {
		case "name":
			s.Name, ok = v.(string)
		case "root":
			s.Root, ok = v.(string)
		case "define":
			var defs *format.Map
			defs, ok = v.(*format.Map)
			if !ok {
				break
			}
			for _, name := range defs.Keys {
				t, err := parseType(defs.Values[name], name)
				if err != nil {
					return nil, err
				}
				s.Define[name] = t
			}
		default:
			return nil, fmt.Errorf("%w: unknown key %q", ErrParse, k)
		}
		if !ok {
			return nil, fmt.Errorf("%w: bad value for %q: %v", ErrParse, k, v)
		}
	}
	if s.Root == "" {
		return nil, fmt.Errorf("%w: missing root", ErrParse)
	}
	if err := s.Compile(); err != nil {
		return nil, err
	}
	return s, nil
}

// ParseBytes parses a schema document written in f.
func ParseBytes(d []byte, f format.Format) (*Schema, error) {
	raw, err := format.Parse(d, f)
	if err != nil {
		return nil, err
	}
	return Parse(raw)
}

// LoadFile parses the schema document at path, choosing the format from
// its extension.
func LoadFile(path string) (*Schema, error) {
	raw, _, err := format.ParseFile(path)
	if err != nil {
		return nil, err
	}
	s, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

func parseType(v any, at string) (*Type, error) {
	switch x := v.(type) {
	case nil:
		return Record(), nil
	case string:
		return parseTypeString(x, at)
	case *format.Map:
		return parseTypeMap(x, at)
	default:
		return nil, parseErr(at, "type expression must be a string or mapping, got %T", v)
	}
}

func parseTypeString(s, at string) (*Type, error) {
	head, args, err := callArgs(s)
	if err != nil {
		return nil, parseErr(at, "%v", err)
	}
	if args == nil {
		switch head {
		case "text":
			return Text(), nil
		case "number":
			return Number(), nil
		case "bool":
			return Bool(), nil
		default:
			return Named(head), nil
		}
	}
	switch head {
	case "ref":
		if len(args) > 0 && strings.HasPrefix(args[0], "@") {
			return ReferenceVia(args[0][1:], args[1:]...), nil
		}
		return Reference(args...), nil
	case "successor":
		return Successor(args...), nil
	default:
		return nil, parseErr(at, "unknown type function %q", head)
	}
}

func parseTypeMap(m *format.Map, at string) (*Type, error) {
	var (
		t      *Type
		checks []string
		orders *format.Map
	)
	for _, k := range m.Keys {
		v := m.Values[k]
		switch k {
		case "record":
			fields, ok := v.(*format.Map)
			if !ok && v != nil {
				return nil, parseErr(at, "record fields must be a mapping")
			}
			rec := Record()
			if fields == nil {
				fields = format.NewMap()
			}
			for _, name := range fields.Keys {
				ft, err := parseType(fields.Values[name], at+"."+name)
				if err != nil {
					return nil, err
				}
				rec.Fields = append(rec.Fields, F(name, ft))
			}
			t = setKind(t, rec)
		case "stategroup":
			variants, ok := v.(*format.Map)
			if !ok {
				return nil, parseErr(at, "stategroup variants must be a mapping")
			}
			sg := StateGroup()
			for _, name := range variants.Keys {
				vt, err := parseType(variants.Values[name], at+"?"+name)
				if err != nil {
					return nil, err
				}
				sg.Variants = append(sg.Variants, V(name, vt))
			}
			t = setKind(t, sg)
		case "dictionary", "set":
			elem, err := parseType(v, at+"[*]")
			if err != nil {
				return nil, err
			}
			if k == "set" {
				t = setKind(t, Set(elem))
			} else {
				t = setKind(t, Dictionary(elem))
			}
		case "orderings":
			var ok bool
			if orders, ok = v.(*format.Map); !ok {
				return nil, parseErr(at, "orderings must be a mapping of name to field")
			}
		case "check":
			switch x := v.(type) {
			case string:
				checks = append(checks, x)
			case []any:
				for _, e := range x {
					s, ok := e.(string)
					if !ok {
						return nil, parseErr(at, "checks must be strings")
					}
					checks = append(checks, s)
				}
			default:
				return nil, parseErr(at, "check must be a string or list of strings")
			}
		default:
			return nil, parseErr(at, "unknown key %q", k)
		}
		if t != nil && t.Kind == InvalidKind {
			return nil, parseErr(at, "more than one of record, stategroup, dictionary, set")
		}
	}
	if t == nil {
		return nil, parseErr(at, "missing one of record, stategroup, dictionary, set")
	}
	if orders != nil {
		if t.Kind != DictionaryKind {
			return nil, parseErr(at, "orderings are only allowed on dictionaries")
		}
		for _, name := range orders.Keys {
			field, ok := orders.Values[name].(string)
			if !ok {
				return nil, parseErr(at, "ordering %q must name a field", name)
			}
			t.Orderings = append(t.Orderings, O(name, field))
		}
	}
	if len(checks) != 0 {
		t.WithChecks(checks...)
	}
	return t, nil
}

// setKind returns t if it is the first kind seen, or an invalid marker.
func setKind(prev, t *Type) *Type {
	if prev != nil {
		return &Type{Kind: InvalidKind}
	}
	return t
}

// callArgs splits "head(a, b)" into head and trimmed args. args is nil when
// s has no parentheses.
func callArgs(s string) (string, []string, error) {
	open := strings.IndexByte(s, '(')
	if open < 0 {
		return strings.TrimSpace(s), nil, nil
	}
	if !strings.HasSuffix(s, ")") {
		return "", nil, fmt.Errorf("unbalanced parentheses in %q", s)
	}
	head := strings.TrimSpace(s[:open])
	inner := strings.TrimSpace(s[open+1 : len(s)-1])
	args := []string{}
	if inner == "" {
		return head, args, nil
	}
	for _, a := range strings.Split(inner, ",") {
		args = append(args, strings.TrimSpace(a))
	}
	return head, args, nil
}

func parseErr(at, msg string, args ...any) error {
	return &Error{At: at, Message: fmt.Sprintf(msg, args...), Err: ErrParse}
}
