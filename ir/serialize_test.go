package ir

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/signadot/docgraph/format"
	"github.com/signadot/docgraph/schema"
)

func TestSerializeRoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		schema  func() *schema.Schema
		payload any
	}{
		{
			name:    "interface",
			schema:  ifaceSchema,
			payload: ifacePayload(),
		},
		{
			name:    "chain with bare variants",
			schema:  chainSchema,
			payload: chain("c", "", "a", "b", "b", "c"),
		},
		{
			name:    "zero size and empty set",
			schema:  ifaceSchema,
			payload: format.MapOf("name", "f", "types", format.MapOf("t", scalar("no", 0))),
		},
	}
	for _, tc := range tests {
		for _, lazy := range []bool{false, true} {
			t.Run(tc.name, func(t *testing.T) {
				want, err := format.Normalize(tc.payload)
				if err != nil {
					t.Fatal(err)
				}
				doc := mustDecode(t, tc.schema(), tc.payload, Lazy(lazy))
				got, err := Serialize(doc.Root())
				if err != nil {
					t.Fatal(err)
				}
				if diff := cmp.Diff(want, got); diff != "" {
					t.Errorf("round trip (-want +got):\n%s", diff)
				}
			})
		}
	}
}

func TestSerializeDoesNotResolveOrForce(t *testing.T) {
	doc := mustDecode(t, chainSchema(), chain("a", "", "b", "a"), Lazy(true))
	before := doc.Len()
	if _, err := Serialize(doc.Root()); err != nil {
		t.Fatal(err)
	}
	if doc.Len() != before {
		t.Errorf("serialize materialized %d nodes", doc.Len()-before)
	}
	r, _ := mustFind(t, doc.Root(), "types[b].type?yes.next").Reference()
	v, err := Serialize(r.Node)
	if err != nil {
		t.Fatal(err)
	}
	if v != "a" || r.State() != RefUnresolved {
		t.Errorf("got %v in state %s", v, r.State())
	}
}

func TestSerializeFailedLazyCell(t *testing.T) {
	raw := format.MapOf("types", format.MapOf("a", format.MapOf("type", 7)))
	doc := mustDecode(t, chainSchema(), raw, Lazy(true))
	if _, err := mustFind(t, doc.Root(), "types[a]").Field("type"); !errors.Is(err, ErrShape) {
		t.Fatalf("got %v want %v", err, ErrShape)
	}
	if _, err := Serialize(doc.Root()); !errors.Is(err, ErrShape) {
		t.Errorf("got %v want %v", err, ErrShape)
	}
	if len(doc.Diagnostics()) != 1 {
		t.Errorf("diagnostics: %v", doc.Diagnostics().Err())
	}
}

func TestLazyEagerEquivalence(t *testing.T) {
	s := ifaceSchema()
	eager := mustDecode(t, s, ifacePayload())
	lazy := mustDecode(t, s, ifacePayload(), Lazy(true))
	if lazy.Phase() != Decoding {
		t.Errorf("lazy phase before resolve: %s", lazy.Phase())
	}
	if diags := lazy.Resolve(); diags.HasErrors() {
		t.Fatal(diags.Err())
	}
	if lazy.Phase() != Done {
		t.Errorf("lazy phase after resolve: %s", lazy.Phase())
	}
	if eager.Len() != lazy.Len() {
		t.Errorf("node count: eager %d lazy %d", eager.Len(), lazy.Len())
	}
	if diff := cmp.Diff(summarize(t, eager), summarize(t, lazy)); diff != "" {
		t.Errorf("(-eager +lazy):\n%s", diff)
	}
}

type nodeSummary struct {
	Kind    string
	Variant string
	Keys    []string
	Target  string
	Refs    int
}

// summarize describes every node by path: kind, state group variant,
// dictionary keys, reference target and reference count.
func summarize(t *testing.T, doc *Document) map[string]nodeSummary {
	t.Helper()
	res := map[string]nodeSummary{}
	err := Visit(doc.Root(), func(n Node) (bool, error) {
		s := nodeSummary{Kind: n.Kind().String(), Refs: n.RefCount()}
		switch n.Kind() {
		case schema.StateGroupKind:
			sg, _ := n.StateGroup()
			s.Variant = sg.Variant()
		case schema.DictionaryKind:
			dict, _ := n.Dictionary()
			s.Keys = dict.Keys()
		case schema.ReferenceKind:
			r, _ := n.Reference()
			target, err := r.Target()
			if err != nil {
				return false, err
			}
			s.Target = target.Path()
		}
		res[n.Path()] = s
		return true, nil
	})
	if err != nil {
		t.Fatal(err)
	}
	return res
}
