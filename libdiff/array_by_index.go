package libdiff

import (
	"fmt"

	"github.com/signadot/docgraph/format"

	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
)

// DiffArrayByIndex appends the changes turning from into to.
//
// Each element is summarized as a rune: scalars by type and value,
// mappings and arrays by kind alone. The rune sequences are diffed, and
// elements matched as equal are compared recursively, so an edited
// mapping in an array is a change inside it rather than a replacement.
func DiffArrayByIndex(path []any, from, to []any, res []Change) []Change {
	m := map[string]rune{}
	fromRunes := summarize(m, from)
	toRunes := summarize(m, to)
	diffs := diffpatch.New().DiffMainRunes(fromRunes, toRunes, false)

	fi, ti, ri := 0, 0, 0
	for i := range diffs {
		n := len([]rune(diffs[i].Text))
		switch diffs[i].Type {
		case diffpatch.DiffDelete:
			for range n {
				res = append(res, Change{Op: DeleteOp, Path: child(path, ri), From: from[fi]})
				fi++
			}
		case diffpatch.DiffInsert:
			for range n {
				res = append(res, Change{Op: InsertOp, Path: child(path, ri), To: to[ti]})
				ti++
				ri++
			}
		case diffpatch.DiffEqual:
			for range n {
				res = diff(child(path, ri), from[fi], to[ti], res)
				fi++
				ti++
				ri++
			}
		}
	}
	return res
}

func summarize(m map[string]rune, vs []any) []rune {
	res := make([]rune, len(vs))
	for i, v := range vs {
		var s string
		switch x := v.(type) {
		case *format.Map:
			s = "map"
		case []any:
			s = "array"
		default:
			s = fmt.Sprintf("%T-%v", x, x)
		}
		r, ok := m[s]
		if !ok {
			// stay clear of the surrogate range
			r = rune(0xE000 + len(m))
			m[s] = r
		}
		res[i] = r
	}
	return res
}
