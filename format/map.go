package format

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
)

// Map is an insertion ordered mapping from string keys to payload values.
// Keys and Values must be kept in sync; use Set to add entries.
type Map struct {
	Keys   []string
	Values map[string]any
}

func NewMap() *Map {
	return &Map{Values: map[string]any{}}
}

// MapOf builds a Map from alternating keys and values. It panics if kvs has
// odd length or a key is not a string.
func MapOf(kvs ...any) *Map {
	if len(kvs)%2 != 0 {
		panic("format.MapOf: odd number of arguments")
	}
	m := NewMap()
	for i := 0; i < len(kvs); i += 2 {
		k, ok := kvs[i].(string)
		if !ok {
			panic(fmt.Sprintf("format.MapOf: key %v is not a string", kvs[i]))
		}
		m.Set(k, kvs[i+1])
	}
	return m
}

// FromGoMap converts m to a Map with keys in sorted order.
func FromGoMap(m map[string]any) *Map {
	res := &Map{
		Keys:   slices.Sorted(maps.Keys(m)),
		Values: make(map[string]any, len(m)),
	}
	for k, v := range m {
		res.Values[k] = v
	}
	return res
}

// Set associates v with k. Setting an existing key keeps its position.
func (m *Map) Set(k string, v any) {
	if m.Values == nil {
		m.Values = map[string]any{}
	}
	if _, ok := m.Values[k]; !ok {
		m.Keys = append(m.Keys, k)
	}
	m.Values[k] = v
}

func (m *Map) Get(k string) (any, bool) {
	if m == nil {
		return nil, false
	}
	v, ok := m.Values[k]
	return v, ok
}

func (m *Map) Has(k string) bool {
	_, ok := m.Get(k)
	return ok
}

func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.Keys)
}

// MarshalJSON writes m as a JSON object in insertion order.
func (m *Map) MarshalJSON() ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	buf.WriteByte('{')
	for i, k := range m.Keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kd, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kd)
		buf.WriteByte(':')
		vd, err := json.Marshal(m.Values[k])
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", k, err)
		}
		buf.Write(vd)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Plain converts every Map in v to a map[string]any, dropping order.
func Plain(v any) any {
	switch x := v.(type) {
	case *Map:
		res := make(map[string]any, len(x.Keys))
		for _, k := range x.Keys {
			res[k] = Plain(x.Values[k])
		}
		return res
	case []any:
		res := make([]any, len(x))
		for i := range x {
			res[i] = Plain(x[i])
		}
		return res
	default:
		return v
	}
}
