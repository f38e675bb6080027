package format

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
		err  bool
	}{
		{in: "j", want: JSONFormat},
		{in: "json", want: JSONFormat},
		{in: "jsonc", want: JSONCFormat},
		{in: "yaml", want: YAMLFormat},
		{in: "y", want: YAMLFormat},
		{in: "cbor", want: CBORFormat},
		{in: "toml", err: true},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseFormat(tc.in)
			if tc.err {
				if !errors.Is(err, ErrBadFormat) {
					t.Errorf("got %v want %v", err, ErrBadFormat)
				}
				return
			}
			if err != nil || got != tc.want {
				t.Errorf("got %s, %v want %s", got, err, tc.want)
			}
		})
	}
}

func TestFromPath(t *testing.T) {
	for path, want := range map[string]Format{
		"a.json":       JSONFormat,
		"dir/b.jsonc":  JSONCFormat,
		"c.yaml":       YAMLFormat,
		"c.yml":        YAMLFormat,
		"d.cbor":       CBORFormat,
		"/x/y/doc.YML": YAMLFormat,
	} {
		got, err := FromPath(path)
		if err != nil || got != want {
			t.Errorf("%s: got %s, %v want %s", path, got, err, want)
		}
	}
	if _, err := FromPath("noext"); !errors.Is(err, ErrBadFormat) {
		t.Errorf("got %v want %v", err, ErrBadFormat)
	}
}

func payload() *Map {
	return MapOf(
		"zeta", int64(1),
		"alpha", MapOf("b", true, "a", nil),
		"list", []any{"x", 2.5, MapOf("k", "v")},
	)
}

func TestParseKeepsOrder(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		src    string
	}{
		{
			name:   "json",
			format: JSONFormat,
			src:    `{"zeta": 1, "alpha": {"b": true, "a": null}, "list": ["x", 2.5, {"k": "v"}]}`,
		},
		{
			name:   "jsonc",
			format: JSONCFormat,
			src: `{
  // comment
  "zeta": 1,
  "alpha": {"b": true, "a": null,},
  "list": ["x", 2.5, {"k": "v"}], /* trailing */
}`,
		},
		{
			name:   "yaml",
			format: YAMLFormat,
			src: `zeta: 1
alpha:
  b: true
  a: null
list:
- x
- 2.5
- k: v
`,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Parse([]byte(tc.src), tc.format)
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(payload(), got); diff != "" {
				t.Errorf("(-want +got):\n%s", diff)
			}
		})
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	for _, f := range AllFormats() {
		t.Run(f.String(), func(t *testing.T) {
			d, err := Marshal(payload(), f)
			if err != nil {
				t.Fatal(err)
			}
			got, err := Parse(d, f)
			if err != nil {
				t.Fatal(err)
			}
			want := any(payload())
			if f.IsCBOR() {
				// CBOR maps decode with sorted keys.
				want, _ = Normalize(Plain(payload()))
			}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("(-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		src    string
	}{
		{"json trailing data", JSONFormat, `{} {}`},
		{"json truncated", JSONFormat, `{"a": [1, 2`},
		{"yaml unclosed flow", YAMLFormat, "a: [1, 2\n"},
		{"cbor garbage", CBORFormat, "\xff\xff"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Parse([]byte(tc.src), tc.format); !errors.Is(err, ErrBadPayload) {
				t.Errorf("got %v want %v", err, ErrBadPayload)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	got, err := Normalize(map[string]any{
		"b": []string{"x"},
		"a": map[any]any{"n": uint8(3), "f": float32(0.5)},
	})
	if err != nil {
		t.Fatal(err)
	}
	want := MapOf(
		"a", MapOf("f", 0.5, "n", int64(3)),
		"b", []any{"x"},
	)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	if _, err := Normalize(map[any]any{1: "x"}); !errors.Is(err, ErrBadPayload) {
		t.Errorf("got %v want %v", err, ErrBadPayload)
	}
	if _, err := Normalize(struct{}{}); !errors.Is(err, ErrBadPayload) {
		t.Errorf("got %v want %v", err, ErrBadPayload)
	}
}

func TestMapSetKeepsPosition(t *testing.T) {
	m := MapOf("a", 1, "b", 2)
	m.Set("a", 3)
	m.Set("c", 4)
	if diff := cmp.Diff([]string{"a", "b", "c"}, m.Keys); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	d, err := m.MarshalJSON()
	if err != nil {
		t.Fatal(err)
	}
	if string(d) != `{"a":3,"b":2,"c":4}` {
		t.Errorf("got %s", d)
	}
}

func TestLocate(t *testing.T) {
	src := []byte(`name: x
types:
  a:
    next: no
  b:
    next: [yes, {next: a}]
`)
	tests := []struct {
		wire     []any
		min, max int
	}{
		{[]any{"name"}, 1, 1},
		{[]any{"types", "a", "next"}, 4, 4},
		{[]any{"types", "b", "next", 1}, 6, 6},
		// falls back to the closest ancestor
		{[]any{"types", "missing"}, 2, 3},
	}
	for _, tc := range tests {
		line, _, err := Locate(src, tc.wire)
		if err != nil {
			t.Fatal(err)
		}
		if line < tc.min || line > tc.max {
			t.Errorf("%v: got line %d want %d..%d", tc.wire, line, tc.min, tc.max)
		}
	}
}
