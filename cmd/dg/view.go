package main

import (
	"fmt"
	"io"
	"os"

	"github.com/scott-cotton/cli"

	"github.com/signadot/docgraph/encode"
	"github.com/signadot/docgraph/ir"
)

func view(cfg *ViewConfig, cc *cli.Context, args []string) error {
	args, err := cfg.View.Parse(cc, args)
	if err != nil {
		cfg.View.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	fs := files(args)
	for i, file := range fs {
		if err := viewFile(cfg, cc, cc.Out, file); err != nil {
			return err
		}
		if i < len(fs)-1 {
			if _, err := io.WriteString(cc.Out, "\n"); err != nil {
				return err
			}
		}
	}
	return nil
}

func viewFile(cfg *ViewConfig, cc *cli.Context, w io.Writer, file string) error {
	in, err := loadInput(cfg.MainConfig, cfg.Schema, cc, file)
	if err != nil {
		return err
	}
	doc, diags := in.decode(cfg.MainConfig)
	if diags.HasErrors() {
		if err := in.report(cfg.MainConfig, os.Stderr, diags); err != nil {
			return err
		}
	}
	if doc == nil {
		return fmt.Errorf("could not decode %s", in.name)
	}
	n, err := ir.Find(doc.Root(), cfg.Path)
	if err != nil {
		return fmt.Errorf("%w: %w", cli.ErrUsage, err)
	}
	opts := cfg.encOpts(w,
		encode.Depth(cfg.Depth),
		encode.EncodeRefs(cfg.Refs),
		encode.EncodeCounts(cfg.Counts))
	if err := encode.Tree(n, w, opts...); err != nil {
		return fmt.Errorf("error encoding %s: %w", in.name, err)
	}
	return nil
}
