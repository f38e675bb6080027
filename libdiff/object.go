package libdiff

import (
	"slices"

	"github.com/signadot/docgraph/format"
)

// Diff returns the changes turning from into to. Both must be normalized
// payloads. It returns nil when they are equal.
func Diff(from, to any) []Change {
	return diff(nil, from, to, nil)
}

func diff(path []any, from, to any, res []Change) []Change {
	switch f := from.(type) {
	case *format.Map:
		t, ok := to.(*format.Map)
		if !ok {
			break
		}
		return diffMap(path, f, t, res)
	case []any:
		t, ok := to.([]any)
		if !ok {
			break
		}
		return DiffArrayByIndex(path, f, t, res)
	default:
		if sameScalar(from, to) {
			return res
		}
	}
	return append(res, Change{Op: ReplaceOp, Path: clonePath(path), From: from, To: to})
}

func diffMap(path []any, from, to *format.Map, res []Change) []Change {
	var common []string
	for _, k := range from.Keys {
		if !to.Has(k) {
			v, _ := from.Get(k)
			res = append(res, Change{Op: DeleteOp, Path: child(path, k), From: v})
			continue
		}
		common = append(common, k)
	}
	toCommon := make([]string, 0, len(common))
	for _, k := range to.Keys {
		if from.Has(k) {
			toCommon = append(toCommon, k)
		}
	}
	if !slices.Equal(common, toCommon) {
		return append(res, Change{Op: ReorderOp, Path: clonePath(path), From: from, To: to})
	}
	for _, k := range to.Keys {
		tv, _ := to.Get(k)
		fv, ok := from.Get(k)
		if !ok {
			res = append(res, Change{Op: InsertOp, Path: child(path, k), To: tv})
			continue
		}
		res = diff(child(path, k), fv, tv, res)
	}
	return res
}

func sameScalar(a, b any) bool {
	switch a.(type) {
	case nil, string, int64, float64, bool:
		return a == b
	}
	return false
}

func child(path []any, seg any) []any {
	res := make([]any, len(path), len(path)+1)
	copy(res, path)
	return append(res, seg)
}

func clonePath(path []any) []any {
	if path == nil {
		return []any{}
	}
	return slices.Clone(path)
}
