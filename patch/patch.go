package patch

import (
	"errors"
	"fmt"
	"slices"

	"github.com/signadot/docgraph/format"
	"github.com/signadot/docgraph/libdiff"

	jsonpatch "github.com/evanphx/json-patch"
)

var ErrPatch = errors.New("patch error")

// Apply applies the JSON patch document p to the normalized payload doc
// and returns the patched payload. doc is not modified.
func Apply(doc any, p []byte) (any, error) {
	ops, err := jsonpatch.DecodePatch(p)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPatch, err)
	}
	raw, err := format.Parse(p, format.JSONFormat)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPatch, err)
	}
	vals, _ := raw.([]any)
	hints := map[string]any{}

	res := doc
	start := 0
	// the root can't be addressed by the patcher, so whole document
	// replacements split the patch.
	for i, op := range ops {
		path, err := op.Path()
		if err != nil {
			return nil, fmt.Errorf("%w: op %d: %w", ErrPatch, i, err)
		}
		v := opValue(vals, i)
		switch op.Kind() {
		case "add", "replace":
			if v != nil {
				hints[path] = v
			}
		}
		if path != "" {
			continue
		}
		if res, err = applyOps(res, ops[start:i]); err != nil {
			return nil, err
		}
		start = i + 1
		switch op.Kind() {
		case "add", "replace":
			res = v
		case "test":
			if !Equal(res, v) {
				return nil, fmt.Errorf("%w: op %d: test failed", ErrPatch, i)
			}
		default:
			return nil, fmt.Errorf("%w: op %d: cannot %s the whole document", ErrPatch, i, op.Kind())
		}
	}
	if res, err = applyOps(res, ops[start:]); err != nil {
		return nil, err
	}
	return order(nil, res, hints, doc), nil
}

func opValue(vals []any, i int) any {
	if i >= len(vals) {
		return nil
	}
	m, ok := vals[i].(*format.Map)
	if !ok {
		return nil
	}
	v, _ := m.Get("value")
	return v
}

func applyOps(doc any, ops jsonpatch.Patch) (any, error) {
	if len(ops) == 0 {
		return doc, nil
	}
	in, err := format.Marshal(doc, format.JSONFormat)
	if err != nil {
		return nil, err
	}
	out, err := ops.Apply(in)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPatch, err)
	}
	return format.Parse(out, format.JSONFormat)
}

// ApplyMerge applies the merge patch p to the normalized payload doc.
func ApplyMerge(doc any, p []byte) (any, error) {
	mp, err := format.Parse(p, format.JSONFormat)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPatch, err)
	}
	in, err := format.Marshal(doc, format.JSONFormat)
	if err != nil {
		return nil, err
	}
	out, err := jsonpatch.MergePatch(in, p)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPatch, err)
	}
	res, err := format.Parse(out, format.JSONFormat)
	if err != nil {
		return nil, err
	}
	return order(nil, res, nil, doc, mp), nil
}

// Make returns a JSON patch turning from into to.
func Make(from, to any) ([]byte, error) {
	return libdiff.ToPatch(libdiff.Diff(from, to))
}

// MakeMerge returns a merge patch turning from into to. Merge patches
// cannot express key order.
func MakeMerge(from, to any) ([]byte, error) {
	a, err := format.Marshal(from, format.JSONFormat)
	if err != nil {
		return nil, err
	}
	b, err := format.Marshal(to, format.JSONFormat)
	if err != nil {
		return nil, err
	}
	return jsonpatch.CreateMergePatch(a, b)
}

// Equal reports whether a and b are the same payload, ignoring key order.
func Equal(a, b any) bool {
	da, err := format.Marshal(a, format.JSONFormat)
	if err != nil {
		return false
	}
	db, err := format.Marshal(b, format.JSONFormat)
	if err != nil {
		return false
	}
	return jsonpatch.Equal(da, db)
}

// order rebuilds the mappings in v with key order taken from srcs, in
// priority order, and then from v itself. A value added or replaced by the
// patch at path takes priority over srcs.
func order(path []any, v any, hints map[string]any, srcs ...any) any {
	if h, ok := hints[libdiff.Pointer(path)]; ok {
		srcs = append([]any{h}, srcs...)
	}
	switch x := v.(type) {
	case *format.Map:
		res := format.NewMap()
		add := func(k string) {
			if res.Has(k) || !x.Has(k) {
				return
			}
			kv, _ := x.Get(k)
			var sub []any
			for _, s := range srcs {
				if sm, ok := s.(*format.Map); ok {
					sv, _ := sm.Get(k)
					sub = append(sub, sv)
				}
			}
			res.Set(k, order(slices.Concat(path, []any{k}), kv, hints, sub...))
		}
		for _, s := range srcs {
			if sm, ok := s.(*format.Map); ok {
				for _, k := range sm.Keys {
					add(k)
				}
			}
		}
		for _, k := range x.Keys {
			add(k)
		}
		return res
	case []any:
		res := make([]any, len(x))
		for i := range x {
			var sub []any
			for _, s := range srcs {
				if sa, ok := s.([]any); ok && i < len(sa) {
					sub = append(sub, sa[i])
				}
			}
			res[i] = order(slices.Concat(path, []any{i}), x[i], hints, sub...)
		}
		return res
	default:
		return v
	}
}
