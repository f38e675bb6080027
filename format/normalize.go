package format

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/goccy/go-yaml"
)

// Normalize returns a copy of v in payload normal form. Integers of any Go
// type become int64, floats become float64, and mappings become *Map.
// Plain Go maps are ordered by key.
func Normalize(v any) (any, error) {
	switch x := v.(type) {
	case nil, bool, string, int64, float64:
		return x, nil
	case int:
		return int64(x), nil
	case int8:
		return int64(x), nil
	case int16:
		return int64(x), nil
	case int32:
		return int64(x), nil
	case uint:
		return normUint(uint64(x))
	case uint8:
		return int64(x), nil
	case uint16:
		return int64(x), nil
	case uint32:
		return int64(x), nil
	case uint64:
		return normUint(x)
	case float32:
		return float64(x), nil
	case json.Number:
		return normNumber(string(x))
	case *Map:
		res := &Map{Keys: make([]string, 0, len(x.Keys)), Values: make(map[string]any, len(x.Keys))}
		for _, k := range x.Keys {
			nv, err := Normalize(x.Values[k])
			if err != nil {
				return nil, err
			}
			res.Set(k, nv)
		}
		return res, nil
	case map[string]any:
		return Normalize(FromGoMap(x))
	case map[any]any:
		m := make(map[string]any, len(x))
		for k, v := range x {
			ks, ok := k.(string)
			if !ok {
				return nil, fmt.Errorf("%w: non-string key %v (%T)", ErrBadPayload, k, k)
			}
			m[ks] = v
		}
		return Normalize(FromGoMap(m))
	case yaml.MapSlice:
		res := NewMap()
		for _, item := range x {
			ks, ok := item.Key.(string)
			if !ok {
				ks = fmt.Sprint(item.Key)
			}
			nv, err := Normalize(item.Value)
			if err != nil {
				return nil, err
			}
			res.Set(ks, nv)
		}
		return res, nil
	case []any:
		res := make([]any, len(x))
		for i := range x {
			nv, err := Normalize(x[i])
			if err != nil {
				return nil, fmt.Errorf("index %d: %w", i, err)
			}
			res[i] = nv
		}
		return res, nil
	case []string:
		res := make([]any, len(x))
		for i := range x {
			res[i] = x[i]
		}
		return res, nil
	default:
		return nil, fmt.Errorf("%w: unsupported value of type %T", ErrBadPayload, v)
	}
}

func normUint(u uint64) (any, error) {
	if u > math.MaxInt64 {
		return float64(u), nil
	}
	return int64(u), nil
}

func normNumber(s string) (any, error) {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: number %q: %w", ErrBadPayload, s, err)
	}
	return f, nil
}
