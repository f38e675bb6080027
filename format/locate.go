package format

import (
	"fmt"

	"github.com/goccy/go-yaml"
	"github.com/goccy/go-yaml/ast"
	"github.com/goccy/go-yaml/parser"
)

// Locator maps wire paths to positions in a parsed YAML or JSON text.
type Locator struct {
	file *ast.File
}

func NewLocator(src []byte) (*Locator, error) {
	file, err := parser.ParseBytes(src, 0)
	if err != nil {
		return nil, err
	}
	return &Locator{file: file}, nil
}

// Locate returns the 1-based line and column of the value at wire.
// Segments of wire are mapping keys (string) or sequence indices (int).
// When wire does not exist, the closest existing ancestor is located
// instead.
func (l *Locator) Locate(wire []any) (int, int, error) {
	for n := len(wire); n >= 0; n-- {
		path, err := buildPath(wire[:n])
		if err != nil {
			return 0, 0, err
		}
		node, err := path.FilterFile(l.file)
		if err != nil || node == nil {
			continue
		}
		if line, col, ok := position(node); ok {
			return line, col, nil
		}
	}
	return 1, 1, nil
}

// Locate locates wire in src; see Locator.Locate.
func Locate(src []byte, wire []any) (int, int, error) {
	l, err := NewLocator(src)
	if err != nil {
		return 0, 0, err
	}
	return l.Locate(wire)
}

func buildPath(wire []any) (*yaml.Path, error) {
	b := (&yaml.PathBuilder{}).Root()
	for _, seg := range wire {
		switch x := seg.(type) {
		case string:
			b = b.Child(x)
		case int:
			b = b.Index(uint(x))
		default:
			return nil, fmt.Errorf("%w: path segment %v (%T)", ErrBadPayload, seg, seg)
		}
	}
	return b.Build(), nil
}

func position(node ast.Node) (int, int, bool) {
	tk := node.GetToken()
	if tk == nil || tk.Position == nil {
		return 0, 0, false
	}
	return tk.Position.Line, tk.Position.Column, true
}
