package ir

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/signadot/docgraph/schema"
)

// Paths address nodes structurally:
//
//	field.sub        record fields
//	types[key]       dictionary entries
//	members{2}       set members
//	kind?variant     the child of a state group
//
// The root is the empty path. Names containing any of ".[]{}?' " or empty
// names are written in single quotes with \' for quotes.

func (d *Document) path(id ID) string {
	e := d.entries[id]
	if e.parent == NoID {
		return ""
	}
	return d.childPath(e.parent, e.key, e.index)
}

func (d *Document) childPath(parent ID, key string, index int) string {
	if parent == NoID {
		return ""
	}
	p := d.entries[parent]
	prefix := d.path(parent)
	switch p.typ.Kind {
	case schema.RecordKind:
		if prefix == "" {
			return pathString(key)
		}
		return prefix + "." + pathString(key)
	case schema.DictionaryKind:
		return prefix + "[" + pathString(key) + "]"
	case schema.SetKind:
		return prefix + "{" + strconv.Itoa(index) + "}"
	case schema.StateGroupKind:
		return prefix + "?" + pathString(key)
	default:
		panic("parent but not in container")
	}
}

func pathString(f string) string {
	if f != "" && strings.IndexAny(f, "'.[]{}? ") == -1 {
		return f
	}
	return "'" + strings.ReplaceAll(f, "'", "\\'") + "'"
}

// wire returns the payload address of id: string keys for mappings, int
// indices for lists. A state group child is at index 1 of its pair, or at
// the state group itself when it was written as a bare name.
func (d *Document) wire(id ID) []any {
	e := d.entries[id]
	if e.parent == NoID {
		return []any{}
	}
	return d.childWire(e.parent, e.key, e.index)
}

func (d *Document) childWire(parent ID, key string, index int) []any {
	if parent == NoID {
		return []any{}
	}
	p := d.entries[parent]
	w := d.wire(parent)
	switch p.typ.Kind {
	case schema.RecordKind, schema.DictionaryKind:
		return append(w, key)
	case schema.SetKind:
		return append(w, index)
	case schema.StateGroupKind:
		if p.bare {
			return w
		}
		return append(w, 1)
	default:
		panic("parent but not in container")
	}
}

type StepKind int

const (
	FieldStep StepKind = iota
	EntryStep
	MemberStep
	VariantStep
)

// Step is one segment of a parsed path.
type Step struct {
	Kind  StepKind
	Name  string
	Index int
}

func (s Step) String() string {
	switch s.Kind {
	case FieldStep:
		return "." + pathString(s.Name)
	case EntryStep:
		return "[" + pathString(s.Name) + "]"
	case MemberStep:
		return "{" + strconv.Itoa(s.Index) + "}"
	default:
		return "?" + pathString(s.Name)
	}
}

// ParsePath splits a path as produced by Node.Path into steps. A leading
// '.' is optional.
func ParsePath(p string) ([]Step, error) {
	var res []Step
	if p != "" && strings.IndexByte(".[{?", p[0]) == -1 {
		p = "." + p
	}
	for p != "" {
		var (
			step Step
			err  error
		)
		switch p[0] {
		case '.':
			step.Kind = FieldStep
			step.Name, p, err = parseName(p[1:], ".[{?")
		case '?':
			step.Kind = VariantStep
			step.Name, p, err = parseName(p[1:], ".[{?")
		case '[':
			step.Kind = EntryStep
			step.Name, p, err = parseName(p[1:], "]")
			if err == nil {
				p, err = expect(p, ']')
			}
		case '{':
			i := strings.IndexByte(p, '}')
			if i == -1 {
				return nil, fmt.Errorf("%w: expected '{' <index> '}'", ErrPath)
			}
			step.Kind = MemberStep
			step.Index, err = strconv.Atoi(p[1:i])
			p = p[i+1:]
		default:
			return nil, fmt.Errorf("%w: expected one of '.', '[', '{', '?' at %q", ErrPath, p)
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrPath, err)
		}
		res = append(res, step)
	}
	return res, nil
}

func expect(p string, c byte) (string, error) {
	if len(p) == 0 || p[0] != c {
		return "", fmt.Errorf("expected %q", c)
	}
	return p[1:], nil
}

func parseName(frag, stop string) (name, rest string, err error) {
	if len(frag) == 0 || frag[0] != '\'' {
		i := strings.IndexAny(frag, stop)
		if i == -1 {
			i = len(frag)
		}
		if i == 0 {
			return "", "", fmt.Errorf("expected name")
		}
		return frag[:i], frag[i:], nil
	}
	escaped := false
	res := make([]byte, 0, len(frag))
	for i := 1; i < len(frag); i++ {
		c := frag[i]
		switch {
		case c == '\\' && !escaped:
			escaped = true
		case c == '\'' && !escaped:
			return string(res), frag[i+1:], nil
		default:
			escaped = false
			res = append(res, c)
		}
	}
	return "", "", fmt.Errorf("end of string scanning for \"'\"")
}

// Find follows path from n, forcing nodes on the way. Variant steps cast
// the state group.
func Find(n Node, path string) (Node, error) {
	steps, err := ParsePath(path)
	if err != nil {
		return Node{}, err
	}
	res := n
	for _, s := range steps {
		switch s.Kind {
		case FieldStep:
			res, err = res.Field(s.Name)
		case EntryStep:
			var dict Dictionary
			if dict, err = res.Dictionary(); err == nil {
				res, err = dict.Get(s.Name)
			}
		case MemberStep:
			var set Set
			if set, err = res.Set(); err == nil {
				res, err = set.Member(s.Index)
			}
		case VariantStep:
			var sg StateGroup
			if sg, err = res.StateGroup(); err == nil {
				res, err = sg.Cast(s.Name)
			}
		}
		if err != nil {
			return Node{}, err
		}
	}
	return res, nil
}
