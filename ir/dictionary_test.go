package ir

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/signadot/docgraph/format"
)

// chain builds a chain schema payload from key, successor pairs; an empty
// successor is "no".
func chain(pairs ...string) *format.Map {
	types := format.NewMap()
	for i := 0; i < len(pairs); i += 2 {
		var next any = "no"
		if pairs[i+1] != "" {
			next = []any{"yes", format.MapOf("next", pairs[i+1])}
		}
		types.Set(pairs[i], format.MapOf("type", next))
	}
	return format.MapOf("types", types)
}

func chainTypes(t *testing.T, doc *Document) Dictionary {
	t.Helper()
	dict, err := mustFind(t, doc.Root(), "types").Dictionary()
	if err != nil {
		t.Fatal(err)
	}
	return dict
}

func TestDictionaryOrdering(t *testing.T) {
	tests := []struct {
		name    string
		payload *format.Map
		head    string
		ordered []string
	}{
		{
			name:    "single chain out of insertion order",
			payload: chain("c", "", "a", "b", "b", "c"),
			head:    "a",
			ordered: []string{"a", "b", "c"},
		},
		{
			name:    "already in order",
			payload: chain("a", "b", "b", "c", "c", ""),
			head:    "a",
			ordered: []string{"a", "b", "c"},
		},
		{
			name:    "single entry",
			payload: chain("a", ""),
			head:    "a",
			ordered: []string{"a"},
		},
		{
			name:    "disjoint chains pick the last started",
			payload: chain("x", "y", "y", "", "p", "q", "q", ""),
			head:    "p",
			ordered: []string{"p", "q"},
		},
		{
			name:    "cycle picks the first entry",
			payload: chain("b", "c", "a", "b", "c", "a"),
			head:    "b",
			ordered: []string{"b", "c", "a"},
		},
	}
	for _, tc := range tests {
		for _, lazy := range []bool{false, true} {
			t.Run(tc.name, func(t *testing.T) {
				doc := mustDecode(t, chainSchema(), tc.payload, Lazy(lazy))
				dict := chainTypes(t, doc)
				head, err := dict.Head("chain")
				if err != nil {
					t.Fatal(err)
				}
				if head != tc.head {
					t.Errorf("head: got %q want %q", head, tc.head)
				}
				got, err := dict.Ordered("chain", "")
				if err != nil {
					t.Fatal(err)
				}
				if diff := cmp.Diff(tc.ordered, got); diff != "" {
					t.Errorf("ordered (-want +got):\n%s", diff)
				}
			})
		}
	}
}

func TestDictionaryChainVisitsAllKeys(t *testing.T) {
	doc := mustDecode(t, chainSchema(), chain("d", "", "b", "c", "a", "b", "c", "d"))
	dict := chainTypes(t, doc)
	ordered, err := dict.Ordered("chain", "")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"a", "b", "c", "d"}, ordered); diff != "" {
		t.Errorf("graph order (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"d", "b", "a", "c"}, dict.Keys()); diff != "" {
		t.Errorf("insertion order (-want +got):\n%s", diff)
	}
}

func TestDictionaryWalkFromStart(t *testing.T) {
	doc := mustDecode(t, chainSchema(), chain("a", "b", "b", "c", "c", "a"))
	dict := chainTypes(t, doc)
	got, err := dict.Ordered("chain", "c")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"c", "a", "b"}, got); diff != "" {
		t.Errorf("walk from c (-want +got):\n%s", diff)
	}
	if _, err := dict.Ordered("chain", "z"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing start: got %v want %v", err, ErrNotFound)
	}
	if _, err := dict.Ordered("nope", ""); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing ordering: got %v want %v", err, ErrNotFound)
	}
}

func TestDictionaryWalkStops(t *testing.T) {
	doc := mustDecode(t, chainSchema(), chain("a", "b", "b", "c", "c", ""))
	dict := chainTypes(t, doc)
	stop := errors.New("stop")
	var seen []string
	err := dict.Walk("chain", "", func(k string, _ Node) error {
		seen = append(seen, k)
		if k == "b" {
			return stop
		}
		return nil
	})
	if !errors.Is(err, stop) {
		t.Errorf("got %v want %v", err, stop)
	}
	if diff := cmp.Diff([]string{"a", "b"}, seen); diff != "" {
		t.Errorf("seen (-want +got):\n%s", diff)
	}
}

func TestDictionaryDanglingSuccessor(t *testing.T) {
	doc, diags := Decode(chainSchema(), chain("a", "b", "b", "zz"))
	if doc == nil {
		t.Fatalf("no document: %v", diags.Err())
	}
	if len(diags.Filter(ErrUnresolvedReference)) != 1 {
		t.Errorf("want one unresolved reference, got %v", diags.Err())
	}
	dict := chainTypes(t, doc)
	if _, err := dict.Ordered("chain", "a"); !errors.Is(err, ErrUnresolvedReference) {
		t.Errorf("got %v want %v", err, ErrUnresolvedReference)
	}
}

func TestDictionaryEmpty(t *testing.T) {
	doc := mustDecode(t, chainSchema(), format.MapOf("types", format.MapOf()))
	dict := chainTypes(t, doc)
	if dict.Len() != 0 {
		t.Errorf("len: got %d", dict.Len())
	}
	if _, err := dict.Head("chain"); !errors.Is(err, ErrNotFound) {
		t.Errorf("head of empty: got %v want %v", err, ErrNotFound)
	}
	got, err := dict.Ordered("chain", "")
	if err != nil || len(got) != 0 {
		t.Errorf("ordered empty: got %v, %v", got, err)
	}
}

func TestDictionaryLazyEntriesForcedOnce(t *testing.T) {
	doc := mustDecode(t, chainSchema(), chain("a", "", "b", ""), Lazy(true))
	dict := chainTypes(t, doc)
	before := doc.Len()
	first, err := dict.Get("b")
	if err != nil {
		t.Fatal(err)
	}
	if doc.Len() == before {
		t.Fatal("get did not materialize the entry")
	}
	after := doc.Len()
	second, err := dict.Get("b")
	if err != nil {
		t.Fatal(err)
	}
	if !first.Is(second) || doc.Len() != after {
		t.Errorf("entry decoded twice: %s vs %s, %d nodes vs %d", first, second, after, doc.Len())
	}
	if _, err := dict.Get("c"); !errors.Is(err, ErrNotFound) {
		t.Errorf("got %v want %v", err, ErrNotFound)
	}
}

func TestMapDictionary(t *testing.T) {
	doc := mustDecode(t, ifaceSchema(), ifacePayload())
	dict, err := mustFind(t, doc.Root(), "types").Dictionary()
	if err != nil {
		t.Fatal(err)
	}
	got, err := MapDictionary(dict, func(k string, n Node) (string, error) {
		sg, err := mustFind(t, n, "shape").StateGroup()
		if err != nil {
			return "", err
		}
		return k + ":" + sg.Variant(), nil
	})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"name:alias", "u8:scalar", "id:alias"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}
