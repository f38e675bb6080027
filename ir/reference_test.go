package ir

import (
	"errors"
	"strconv"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/signadot/docgraph/format"
	"github.com/signadot/docgraph/schema"
)

// viaSchema has two references each looked up through the other.
func viaSchema() *schema.Schema {
	return schema.MustNew("via", "root", map[string]*schema.Type{
		"root": schema.Record(
			schema.F("nodes", schema.Dictionary(schema.Named("node"))),
		),
		"node": schema.Record(
			schema.F("a", schema.ReferenceVia("b", "children")),
			schema.F("b", schema.ReferenceVia("a", "children")),
			schema.F("children", schema.Dictionary(schema.Named("leaf"))),
		),
		"leaf": schema.Record(),
	})
}

func TestReferenceCycle(t *testing.T) {
	raw := format.MapOf("nodes", format.MapOf(
		"x", format.MapOf("a", "y", "b", "y", "children", format.MapOf("y", format.MapOf())),
	))
	for _, lazy := range []bool{false, true} {
		doc, diags := Decode(viaSchema(), raw, Lazy(lazy))
		if doc == nil {
			t.Fatalf("lazy=%t: no document: %v", lazy, diags.Err())
		}
		a := mustFind(t, doc.Root(), "nodes[x].a")
		ra, _ := a.Reference()
		_, err := ra.Target()
		if !errors.Is(err, ErrCyclicDependency) {
			t.Errorf("lazy=%t: got %v want %v", lazy, err, ErrCyclicDependency)
		}
		if !errors.Is(err, ErrUnresolvedReference) {
			t.Errorf("lazy=%t: got %v want %v", lazy, err, ErrUnresolvedReference)
		}
		if ra.State() != RefFailed {
			t.Errorf("lazy=%t: state %s want %s", lazy, ra.State(), RefFailed)
		}
		doc.Resolve()
		got := doc.Diagnostics().Filter(ErrCyclicDependency)
		var paths []string
		for _, d := range got {
			paths = append(paths, d.Path)
		}
		want := []string{"nodes[x].b", "nodes[x].a"}
		if diff := cmp.Diff(want, paths); diff != "" {
			t.Errorf("lazy=%t: cycle diagnostics (-want +got):\n%s", lazy, diff)
		}
	}
}

func TestReferenceVia(t *testing.T) {
	s := schema.MustNew("via", "root", map[string]*schema.Type{
		"root": schema.Record(
			schema.F("nodes", schema.Dictionary(schema.Named("node"))),
			schema.F("pick", schema.Reference("nodes")),
			schema.F("child", schema.ReferenceVia("pick", "children")),
		),
		"node": schema.Record(
			schema.F("children", schema.Dictionary(schema.Record())),
		),
	})
	raw := format.MapOf(
		"nodes", format.MapOf(
			"x", format.MapOf("children", format.MapOf("c1", format.MapOf())),
			"y", format.MapOf("children", format.MapOf("c1", format.MapOf())),
		),
		"pick", "y",
		"child", "c1",
	)
	doc := mustDecode(t, s, raw)
	got := mustTarget(t, mustFind(t, doc.Root(), "child"))
	if got.Path() != "nodes[y].children[c1]" {
		t.Errorf("got %s want nodes[y].children[c1]", got)
	}
}

func TestReferenceCompound(t *testing.T) {
	s := schema.MustNew("pkgs", "root", map[string]*schema.Type{
		"root": schema.Record(
			schema.F("pkgs", schema.Dictionary(schema.Named("pkg"))),
			schema.F("uses", schema.Set(schema.Reference("pkgs", "types"))),
		),
		"pkg": schema.Record(
			schema.F("types", schema.Dictionary(schema.Record())),
		),
	})
	raw := format.MapOf(
		"pkgs", format.MapOf(
			"io", format.MapOf("types", format.MapOf("Reader", format.MapOf(), "Writer", format.MapOf())),
			"os", format.MapOf("types", format.MapOf("File", format.MapOf())),
		),
		"uses", []any{[]any{"os", "File"}, []any{"io", "Writer"}, []any{"io", "Closer"}},
	)
	doc, diags := Decode(s, raw)
	if doc == nil {
		t.Fatalf("no document: %v", diags.Err())
	}
	var targets []string
	uses, _ := mustFind(t, doc.Root(), "uses").Set()
	for _, m := range uses.Members() {
		r, _ := m.Reference()
		if target, err := r.Target(); err == nil {
			targets = append(targets, target.Path())
		}
	}
	want := []string{"pkgs[os].types[File]", "pkgs[io].types[Writer]"}
	if diff := cmp.Diff(want, targets); diff != "" {
		t.Errorf("targets (-want +got):\n%s", diff)
	}
	bad := diags.Filter(ErrUnresolvedReference)
	if len(bad) != 1 || bad[0].Path != "uses{2}" {
		t.Fatalf("got %v", diags.Err())
	}
	var re *ReferenceError
	if !errors.As(bad[0].Err, &re) || re.Entry != "Closer" {
		t.Errorf("got %#v", bad[0].Err)
	}
	r, _ := mustFind(t, doc.Root(), "uses{1}").Reference()
	if diff := cmp.Diff([]string{"io", "Writer"}, r.Entries()); diff != "" {
		t.Errorf("entries (-want +got):\n%s", diff)
	}
}

func TestReferenceParam(t *testing.T) {
	lib := mustDecode(t, chainSchema(), chain("base", ""))
	libTypes := chainTypes(t, lib)

	s := schema.MustNew("user", "root", map[string]*schema.Type{
		"root": schema.Record(schema.F("uses", schema.Reference("types"))),
	})
	doc := mustDecode(t, s, format.MapOf("uses", "base"), Param("types", libTypes.Node))
	target := mustTarget(t, mustFind(t, doc.Root(), "uses"))
	if target.Document() != lib || target.Path() != "types[base]" {
		t.Errorf("got %s in %p want types[base] in %p", target, target.Document(), lib)
	}
	if target.RefCount() != 1 {
		t.Errorf("refs: got %d want 1", target.RefCount())
	}

	_, diags := Decode(s, format.MapOf("uses", "base"))
	if len(diags.Filter(ErrUnresolvedReference)) != 1 || !errors.Is(diags.Err(), ErrNotFound) {
		t.Errorf("without param: got %v", diags.Err())
	}
}

func TestReferenceDetach(t *testing.T) {
	doc := mustDecode(t, chainSchema(), chain("a", "", "b", "a"), Lazy(true))
	a := mustFind(t, doc.Root(), "types[a]")
	r, err := mustFind(t, doc.Root(), "types[b].type?yes.next").Reference()
	if err != nil {
		t.Fatal(err)
	}
	if r.Detach() {
		t.Error("detached an unresolved reference")
	}
	mustTarget(t, r.Node)
	if !r.Detach() {
		t.Fatal("detach of resolved reference reported nothing")
	}
	if r.State() != RefDetached || a.RefCount() != 0 {
		t.Errorf("after detach: state %s refs %d", r.State(), a.RefCount())
	}
	mustTarget(t, r.Node)
	if r.State() != RefResolved || a.RefCount() != 1 {
		t.Errorf("after re-resolve: state %s refs %d", r.State(), a.RefCount())
	}
}

func TestDestroy(t *testing.T) {
	doc := mustDecode(t, chainSchema(), chain("a", "", "b", "a", "c", "a"), Lazy(true))
	a := mustFind(t, doc.Root(), "types[a]")
	mustTarget(t, mustFind(t, doc.Root(), "types[b].type?yes.next"))
	if a.RefCount() != 1 {
		t.Fatalf("refs: got %d want 1", a.RefCount())
	}
	b := mustFind(t, doc.Root(), "types[b]")
	b.Destroy()
	if !b.Destroyed() || a.RefCount() != 0 {
		t.Errorf("after destroy: destroyed=%t refs=%d", b.Destroyed(), a.RefCount())
	}
	// c's successor field was never forced and cannot be once c is
	// destroyed.
	c := mustFind(t, doc.Root(), "types[c]")
	c.Destroy()
	if _, err := c.Field("type"); !errors.Is(err, ErrDestroyed) {
		t.Errorf("forcing under destroyed node: got %v want %v", err, ErrDestroyed)
	}
	if diags := doc.Resolve(); diags.HasErrors() {
		t.Errorf("resolve: %v", diags.Err())
	}
	if a.RefCount() != 0 {
		t.Errorf("destroyed references resolved again: refs=%d", a.RefCount())
	}
	if doc.Resolve() != nil {
		t.Error("second resolve reported again")
	}
}

func TestSwitchAndCast(t *testing.T) {
	doc := mustDecode(t, ifaceSchema(), ifacePayload())
	sg, err := mustFind(t, doc.Root(), "types[u8].shape").StateGroup()
	if err != nil {
		t.Fatal(err)
	}
	got, err := Switch(sg, Cases[string]{
		"scalar": func(n Node) (string, error) {
			size, err := mustFind(t, n, "size").Int()
			if err != nil {
				return "", err
			}
			return "scalar " + strconv.FormatInt(size, 10), nil
		},
		"alias":  Const("alias"),
		"opaque": Const("opaque"),
	})
	if err != nil || got != "scalar 8" {
		t.Errorf("switch: got %q, %v", got, err)
	}

	_, err = Switch(sg, Cases[string]{"scalar": Const("s"), "alias": Const("a")})
	if !errors.Is(err, ErrNonExhaustive) {
		t.Errorf("missing case: got %v want %v", err, ErrNonExhaustive)
	}
	_, err = Switch(sg, Cases[string]{"scalar": Const("s"), "alias": Const("a"), "opaque": Const("o"), "enum": Const("e")})
	if !errors.Is(err, ErrNonExhaustive) {
		t.Errorf("undeclared case: got %v want %v", err, ErrNonExhaustive)
	}

	if _, err := sg.Cast("scalar"); err != nil {
		t.Errorf("cast to active variant: %v", err)
	}
	_, err = sg.Cast("alias")
	var ce *CastError
	if !errors.As(err, &ce) || !errors.Is(err, ErrInvalidCast) {
		t.Fatalf("got %v want %v", err, ErrInvalidCast)
	}
	want := &CastError{Path: "types[u8].shape", Actual: "scalar", Requested: "alias"}
	if diff := cmp.Diff(want, ce); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestKindErrors(t *testing.T) {
	doc := mustDecode(t, ifaceSchema(), ifacePayload())
	name := mustFind(t, doc.Root(), "name")
	if _, err := name.Dictionary(); !errors.Is(err, ErrKind) {
		t.Errorf("got %v want %v", err, ErrKind)
	}
	if _, err := name.Bool(); !errors.Is(err, ErrKind) {
		t.Errorf("got %v want %v", err, ErrKind)
	}
	if _, err := doc.Root().Field("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("got %v want %v", err, ErrNotFound)
	}
}
