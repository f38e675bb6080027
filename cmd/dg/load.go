package main

import (
	"fmt"
	"io"
	"os"

	"github.com/scott-cotton/cli"

	"github.com/signadot/docgraph/config"
	"github.com/signadot/docgraph/encode"
	"github.com/signadot/docgraph/format"
	"github.com/signadot/docgraph/ir"
	"github.com/signadot/docgraph/schema"
)

// input is one document read from a file or stdin.
type input struct {
	name   string
	src    []byte
	format format.Format
	raw    any

	schema *schema.Schema
	entry  *config.Document
}

// loadInput reads and parses file, choosing its schema from the -s flag or
// the project config.
func loadInput(cfg *MainConfig, schemaFile string, cc *cli.Context, file string) (*input, error) {
	in := &input{name: file}
	if err := in.pickSchema(cfg, schemaFile); err != nil {
		return nil, err
	}
	var (
		err error
		r   io.Reader
	)
	if file == "-" {
		in.name = "<stdin>"
		r = cc.In
	} else {
		f, err := os.Open(file)
		if err != nil {
			return nil, fmt.Errorf("error opening %s: %w", file, err)
		}
		defer f.Close()
		r = f
	}
	in.src, err = io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("error reading %s: %w", in.name, err)
	}
	in.format, err = cfg.inFormat(file, in.entry)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", cli.ErrUsage, err)
	}
	in.raw, err = format.Parse(in.src, in.format)
	if err != nil {
		return nil, fmt.Errorf("error parsing %s: %w", in.name, err)
	}
	return in, nil
}

func (in *input) pickSchema(cfg *MainConfig, schemaFile string) error {
	pc, err := cfg.projectConfig()
	if err != nil {
		return err
	}
	if pc != nil && in.name != "-" {
		in.entry, _ = pc.Match(in.name)
	}
	path := schemaFile
	if path == "" {
		if in.entry == nil {
			return fmt.Errorf("%w: no schema given and no project config entry matches %s", cli.ErrUsage, in.name)
		}
		path = pc.SchemaPath(in.entry)
	}
	in.schema, err = cfg.schemas().Load(path)
	if err != nil {
		return fmt.Errorf("error loading schema %s: %w", path, err)
	}
	return nil
}

func (cfg *MainConfig) inFormat(file string, entry *config.Document) (format.Format, error) {
	switch {
	case cfg.InFormat != nil:
		return *cfg.InFormat, nil
	case entry != nil:
		return entry.InputFormat(file)
	case file == "-":
		// YAML reads JSON too
		return format.YAMLFormat, nil
	default:
		return format.FromPath(file)
	}
}

func (cfg *MainConfig) outFormat(in *input) format.Format {
	if cfg.OutFormat != nil {
		return *cfg.OutFormat
	}
	return in.format
}

// decode decodes and fully resolves in. The document is nil when the
// payload has the wrong shape.
func (in *input) decode(cfg *MainConfig) (*ir.Document, ir.Diagnostics) {
	doc, diags := ir.Decode(in.schema, in.raw, cfg.decOpts(in.entry)...)
	if doc != nil && doc.IsLazy() {
		doc.Resolve()
		diags = doc.Diagnostics()
	}
	return doc, diags
}

// report writes diags located in the source of in.
func (in *input) report(cfg *MainConfig, w io.Writer, diags ir.Diagnostics) error {
	src := in.src
	if !in.format.IsText() {
		src = nil
	}
	return encode.Diagnostics(w, in.name, src, diags, cfg.encOpts(w)...)
}

// files defaults to stdin.
func files(args []string) []string {
	if len(args) == 0 {
		return []string{"-"}
	}
	return args
}
