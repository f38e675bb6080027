package libdiff

import (
	"fmt"
	"strconv"
	"strings"
)

type Op int

const (
	InsertOp Op = iota
	DeleteOp
	ReplaceOp
	// ReorderOp replaces a mapping whose keys are the same but in a
	// different order.
	ReorderOp
)

func (op Op) String() string {
	s, ok := map[Op]string{
		InsertOp:  "insert",
		DeleteOp:  "delete",
		ReplaceOp: "replace",
		ReorderOp: "reorder",
	}[op]
	if ok {
		return s
	}
	return "<unknown op>"
}

// Change is one step of a diff. From is the value removed (nil for
// inserts) and To the value added (nil for deletes).
type Change struct {
	Op   Op
	Path []any
	From any
	To   any
}

func (c Change) String() string {
	return fmt.Sprintf("%s %s", c.Op, Pointer(c.Path))
}

// Pointer renders a wire path as a JSON pointer.
func Pointer(path []any) string {
	b := &strings.Builder{}
	for _, seg := range path {
		b.WriteByte('/')
		switch x := seg.(type) {
		case int:
			b.WriteString(strconv.Itoa(x))
		case string:
			x = strings.ReplaceAll(x, "~", "~0")
			b.WriteString(strings.ReplaceAll(x, "/", "~1"))
		default:
			fmt.Fprintf(b, "%v", x)
		}
	}
	return b.String()
}
