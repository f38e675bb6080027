package ir

import (
	"testing"

	"github.com/signadot/docgraph/format"
	"github.com/signadot/docgraph/schema"
)

// chainSchema has a dictionary of types linked by a successor field.
func chainSchema() *schema.Schema {
	return schema.MustNew("chain", "root", map[string]*schema.Type{
		"root": schema.Record(
			schema.F("types", schema.Dictionary(schema.Named("type"), schema.O("chain", "type"))),
		),
		"type": schema.Record(
			schema.F("type", schema.Successor("types")),
		),
	})
}

// ifaceSchema exercises every kind.
func ifaceSchema() *schema.Schema {
	return schema.MustNew("iface", "interface", map[string]*schema.Type{
		"interface": schema.Record(
			schema.F("name", schema.Text()),
			schema.F("types", schema.Dictionary(schema.Named("type"), schema.O("decl", "next"))),
		),
		"type": schema.Record(
			schema.F("next", schema.Successor("types")),
			schema.F("shape", schema.StateGroup(
				schema.V("scalar", schema.Record(schema.F("size", schema.Number()))),
				schema.V("alias", schema.Record(schema.F("of", schema.Reference("types")))),
				schema.V("opaque", nil),
			)),
			schema.F("tags", schema.Set(schema.Text())),
			schema.F("exported", schema.Bool()),
		),
	})
}

func scalar(next any, size int) *format.Map {
	return format.MapOf(
		"next", next,
		"shape", []any{"scalar", format.MapOf("size", int64(size))},
		"tags", []any{},
		"exported", true,
	)
}

func alias(next any, of string) *format.Map {
	return format.MapOf(
		"next", next,
		"shape", []any{"alias", format.MapOf("of", of)},
		"tags", []any{"generated"},
		"exported", false,
	)
}

func yes(key string) []any {
	return []any{"yes", format.MapOf("next", key)}
}

// ifacePayload declares u8, then id aliasing u8 and name aliasing id, with
// the decl ordering u8 -> id -> name.
func ifacePayload() *format.Map {
	return format.MapOf(
		"name", "example",
		"types", format.MapOf(
			"name", alias("no", "id"),
			"u8", scalar(yes("id"), 8),
			"id", alias(yes("name"), "u8"),
		),
	)
}

func mustDecode(t *testing.T, s *schema.Schema, raw any, opts ...DecodeOption) *Document {
	t.Helper()
	doc, diags := Decode(s, raw, opts...)
	if diags.HasErrors() {
		t.Fatalf("decode: %v", diags.Err())
	}
	if doc == nil {
		t.Fatalf("decode returned no document")
	}
	return doc
}

func mustFind(t *testing.T, n Node, path string) Node {
	t.Helper()
	res, err := Find(n, path)
	if err != nil {
		t.Fatalf("find %q: %v", path, err)
	}
	return res
}

func mustTarget(t *testing.T, n Node) Node {
	t.Helper()
	r, err := n.Reference()
	if err != nil {
		t.Fatal(err)
	}
	target, err := r.Target()
	if err != nil {
		t.Fatalf("target of %s: %v", n, err)
	}
	return target
}
