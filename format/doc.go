// Package format reads and writes raw document payloads.
//
// A raw payload is the weakly typed tree that docgraph decodes: it is built
// only from
//
//   - nil
//   - bool
//   - int64 and float64
//   - string
//   - []any
//   - *Map, an insertion ordered string keyed mapping
//
// Parse produces payloads in this normal form from JSON, JSONC, YAML and
// CBOR input. Normalize converts other Go values (map[string]any, plain ints,
// json.Number, YAML ordered maps) into it. Mapping order matters because
// dictionaries preserve insertion order; JSON, JSONC and YAML keep source
// order, while CBOR maps come back with sorted keys.
//
// Locate maps a payload address, as reported by decode diagnostics, back to
// a line and column in YAML or JSON source text.
package format
