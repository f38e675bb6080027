package libdiff

import (
	"fmt"

	"github.com/signadot/docgraph/format"
)

// ToPatch renders cs as an RFC 6902 JSON patch document. Reorders become
// replacements of the whole mapping.
func ToPatch(cs []Change) ([]byte, error) {
	ops := make([]any, 0, len(cs))
	for _, c := range cs {
		op := format.MapOf("op", "", "path", Pointer(c.Path))
		switch c.Op {
		case InsertOp:
			op.Set("op", "add")
			op.Set("value", c.To)
		case DeleteOp:
			op.Set("op", "remove")
		case ReplaceOp, ReorderOp:
			op.Set("op", "replace")
			op.Set("value", c.To)
		default:
			return nil, fmt.Errorf("cannot patch %s", c)
		}
		ops = append(ops, op)
	}
	return format.Marshal(ops, format.JSONFormat)
}
