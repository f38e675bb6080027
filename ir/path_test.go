package ir

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/signadot/docgraph/format"
	"github.com/signadot/docgraph/schema"
)

func TestNodePaths(t *testing.T) {
	raw := ifacePayload()
	raw.Values["types"].(*format.Map).Set("odd.key ['x']", alias("no", "u8"))
	doc := mustDecode(t, ifaceSchema(), raw)
	tests := []struct {
		find string
		path string
		wire []any
	}{
		{"", "", []any{}},
		{"name", "name", []any{"name"}},
		{"types[u8]", "types[u8]", []any{"types", "u8"}},
		{"types[u8].shape?scalar.size", "types[u8].shape?scalar.size", []any{"types", "u8", "shape", 1, "size"}},
		{"types[name].next", "types[name].next", []any{"types", "name", "next"}},
		{"types[id].tags{0}", "types[id].tags{0}", []any{"types", "id", "tags", 0}},
		{"types['odd.key [\\'x\\']'].shape", "types['odd.key [\\'x\\']'].shape", []any{"types", "odd.key ['x']", "shape"}},
	}
	for _, tc := range tests {
		t.Run(tc.find, func(t *testing.T) {
			n := mustFind(t, doc.Root(), tc.find)
			if got := n.Path(); got != tc.path {
				t.Errorf("path: got %q want %q", got, tc.path)
			}
			if diff := cmp.Diff(tc.wire, n.WirePath()); diff != "" {
				t.Errorf("wire (-want +got):\n%s", diff)
			}
			if !n.Root().Is(doc.Root()) {
				t.Errorf("root of %s is not the document root", n)
			}
		})
	}
}

func TestNodeParentLinks(t *testing.T) {
	doc := mustDecode(t, ifaceSchema(), ifacePayload())
	n := mustFind(t, doc.Root(), "types[id].shape?alias.of")
	var kinds []schema.Kind
	for p := n; p.Valid(); p = p.Parent() {
		kinds = append(kinds, p.Kind())
	}
	want := []schema.Kind{
		schema.ReferenceKind,
		schema.RecordKind,
		schema.StateGroupKind,
		schema.RecordKind,
		schema.DictionaryKind,
		schema.RecordKind,
	}
	if diff := cmp.Diff(want, kinds); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	if !doc.Root().IsRoot() || n.IsRoot() {
		t.Error("IsRoot")
	}
	tag := mustFind(t, doc.Root(), "types[id].tags{0}")
	tags, _ := tag.Parent().Set()
	if tag.Index() != 0 || !tags.Has(tag) || tags.Has(n) {
		t.Errorf("set membership of %s", tag)
	}
}

func TestParsePath(t *testing.T) {
	tests := []struct {
		path string
		want []Step
		err  bool
	}{
		{path: "", want: nil},
		{path: "a", want: []Step{{Kind: FieldStep, Name: "a"}}},
		{path: ".a.b", want: []Step{{Kind: FieldStep, Name: "a"}, {Kind: FieldStep, Name: "b"}}},
		{path: "d[k]?v{3}", want: []Step{
			{Kind: FieldStep, Name: "d"},
			{Kind: EntryStep, Name: "k"},
			{Kind: VariantStep, Name: "v"},
			{Kind: MemberStep, Index: 3},
		}},
		{path: "d['a]b']", want: []Step{{Kind: FieldStep, Name: "d"}, {Kind: EntryStep, Name: "a]b"}}},
		{path: "d[k", err: true},
		{path: "d{x}", err: true},
		{path: "d['open", err: true},
		{path: "a..b", err: true},
	}
	for _, tc := range tests {
		t.Run(tc.path, func(t *testing.T) {
			got, err := ParsePath(tc.path)
			if tc.err {
				if !errors.Is(err, ErrPath) {
					t.Errorf("got %v want %v", err, ErrPath)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("(-want +got):\n%s", diff)
			}
		})
	}
}

func TestFindCastsVariants(t *testing.T) {
	doc := mustDecode(t, ifaceSchema(), ifacePayload())
	_, err := Find(doc.Root(), "types[u8].shape?alias")
	if !errors.Is(err, ErrInvalidCast) {
		t.Errorf("got %v want %v", err, ErrInvalidCast)
	}
	_, err = Find(doc.Root(), "types[u8].tags{4}")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("got %v want %v", err, ErrNotFound)
	}
}
