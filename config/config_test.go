package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/signadot/docgraph/format"
)

const sample = `
[[documents]]
pattern = "*.iface.yaml"
schema = "schemas/iface.yaml"
lazy = true

[[documents]]
pattern = "gen/*.json"
schema = "/abs/gen.yaml"
format = "jsonc"

[[documents]]
pattern = "*.yaml"
schema = "any.yaml"
`

func write(t *testing.T, dir, content string) string {
	t.Helper()
	p := filepath.Join(dir, FileName)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoadMatch(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(write(t, dir, sample))
	if err != nil {
		t.Fatal(err)
	}
	if len(cfg.Documents) != 3 {
		t.Fatalf("got %d documents", len(cfg.Documents))
	}
	tests := []struct {
		file   string
		schema string
		lazy   bool
		format format.Format
		none   bool
	}{
		{file: "a.iface.yaml", schema: filepath.Join(dir, "schemas", "iface.yaml"), lazy: true, format: format.YAMLFormat},
		{file: "sub/b.iface.yaml", schema: filepath.Join(dir, "schemas", "iface.yaml"), lazy: true, format: format.YAMLFormat},
		{file: "gen/x.json", schema: "/abs/gen.yaml", format: format.JSONCFormat},
		{file: "other/gen/x.json", none: true},
		{file: "c.yaml", schema: filepath.Join(dir, "any.yaml"), format: format.YAMLFormat},
		{file: "d.cbor", none: true},
	}
	for _, tc := range tests {
		t.Run(tc.file, func(t *testing.T) {
			d, ok := cfg.Match(filepath.Join(dir, tc.file))
			if tc.none {
				if ok {
					t.Errorf("matched %+v", d)
				}
				return
			}
			if !ok {
				t.Fatal("no match")
			}
			if got := cfg.SchemaPath(d); got != tc.schema {
				t.Errorf("schema: got %q want %q", got, tc.schema)
			}
			if d.Lazy != tc.lazy {
				t.Errorf("lazy: got %t", d.Lazy)
			}
			f, err := d.InputFormat(tc.file)
			if err != nil || f != tc.format {
				t.Errorf("format: got %s, %v want %s", f, err, tc.format)
			}
		})
	}
}

func TestLoadErrors(t *testing.T) {
	tests := map[string]string{
		"unknown key":    "[[documents]]\npattern = \"*\"\nschema = \"s\"\nextra = 1\n",
		"missing schema": "[[documents]]\npattern = \"*\"\n",
		"bad pattern":    "[[documents]]\npattern = \"[\"\nschema = \"s\"\n",
		"bad format":     "[[documents]]\npattern = \"*\"\nschema = \"s\"\nformat = \"xml\"\n",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := Load(write(t, t.TempDir(), content)); !errors.Is(err, ErrConfig) {
				t.Errorf("got %v want %v", err, ErrConfig)
			}
		})
	}
	if _, err := Load(write(t, t.TempDir(), "[[documents]\n")); err == nil {
		t.Error("loaded invalid toml")
	}
}

func TestFind(t *testing.T) {
	dir := t.TempDir()
	want := write(t, dir, sample)
	sub := filepath.Join(dir, "a", "b")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	got, err := Find(sub)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}
