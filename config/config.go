// Package config loads docgraph.toml project files, which map document
// files to the schemas they are decoded with.
//
//	[[documents]]
//	pattern = "*.iface.yaml"
//	schema = "schemas/iface.yaml"
//	lazy = true
//
// Patterns without a slash match file base names; patterns with one match
// paths relative to the directory holding the config file. The first
// matching entry wins.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/signadot/docgraph/format"
)

const FileName = "docgraph.toml"

var (
	ErrConfig   = errors.New("config error")
	ErrNotFound = errors.New("no " + FileName + " found")
)

type Document struct {
	Pattern string `toml:"pattern"`
	Schema  string `toml:"schema"`
	Lazy    bool   `toml:"lazy"`
	// Format overrides the format implied by the file extension.
	Format string `toml:"format"`
}

type Config struct {
	// Dir is the directory of the config file. Relative schema paths and
	// patterns are relative to it.
	Dir       string     `toml:"-"`
	Documents []Document `toml:"documents"`
}

func Load(path string) (*Config, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	if keys := meta.Undecoded(); len(keys) != 0 {
		return nil, fmt.Errorf("%w: %s: unknown keys %v", ErrConfig, path, keys)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	cfg.Dir = filepath.Dir(abs)
	for i := range cfg.Documents {
		d := &cfg.Documents[i]
		d.Pattern = strings.TrimSpace(d.Pattern)
		d.Schema = strings.TrimSpace(d.Schema)
		if d.Pattern == "" || d.Schema == "" {
			return nil, fmt.Errorf("%w: %s: documents[%d] needs a pattern and a schema", ErrConfig, path, i)
		}
		if _, err := filepath.Match(d.Pattern, ""); err != nil {
			return nil, fmt.Errorf("%w: %s: documents[%d]: %w", ErrConfig, path, i, err)
		}
		if d.Format != "" {
			if _, err := format.ParseFormat(d.Format); err != nil {
				return nil, fmt.Errorf("%w: %s: documents[%d]: %w", ErrConfig, path, i, err)
			}
		}
	}
	return &cfg, nil
}

// Find looks for FileName in dir and its ancestors.
func Find(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	for {
		p := filepath.Join(dir, FileName)
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrNotFound
		}
		dir = parent
	}
}

// Match returns the first document entry matching file.
func (c *Config) Match(file string) (*Document, bool) {
	abs, err := filepath.Abs(file)
	if err != nil {
		return nil, false
	}
	rel, err := filepath.Rel(c.Dir, abs)
	if err != nil {
		rel = abs
	}
	rel = filepath.ToSlash(rel)
	base := filepath.Base(abs)
	for i := range c.Documents {
		d := &c.Documents[i]
		name := base
		if strings.Contains(d.Pattern, "/") {
			name = rel
		}
		if ok, _ := filepath.Match(d.Pattern, name); ok {
			return d, true
		}
	}
	return nil, false
}

// SchemaPath returns the schema file of d, resolved against c.Dir.
func (c *Config) SchemaPath(d *Document) string {
	if filepath.IsAbs(d.Schema) {
		return d.Schema
	}
	return filepath.Join(c.Dir, filepath.FromSlash(d.Schema))
}

// InputFormat returns the format of file under d.
func (d *Document) InputFormat(file string) (format.Format, error) {
	if d.Format != "" {
		return format.ParseFormat(d.Format)
	}
	return format.FromPath(file)
}
