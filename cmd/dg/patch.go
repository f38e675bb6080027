package main

import (
	"fmt"
	"os"

	"github.com/scott-cotton/cli"

	"github.com/signadot/docgraph/format"
	"github.com/signadot/docgraph/ir"
	"github.com/signadot/docgraph/patch"
)

func patchDoc(cfg *PatchConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Patch.Parse(cc, args)
	if err != nil {
		cfg.Patch.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) < 1 || len(args) > 2 {
		return fmt.Errorf("%w: patch requires a patch file and at most one document file", cli.ErrUsage)
	}
	p, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("%w: %w", cli.ErrUsage, err)
	}
	in, err := loadInput(cfg.MainConfig, cfg.Schema, cc, files(args[1:])[0])
	if err != nil {
		return err
	}
	apply := patch.Apply
	if cfg.Merge {
		apply = patch.ApplyMerge
	}
	res, err := apply(in.raw, p)
	if err != nil {
		return fmt.Errorf("error patching %s: %w", in.name, err)
	}
	// diagnostics refer to the patched payload, which has no source
	in.raw, in.src = res, nil
	doc, diags := in.decode(cfg.MainConfig)
	if diags.HasErrors() {
		if err := in.report(cfg.MainConfig, cc.Out, diags); err != nil {
			return err
		}
		return cli.ExitCodeErr(1)
	}
	out, err := ir.Serialize(doc.Root())
	if err != nil {
		return err
	}
	d, err := format.Marshal(out, cfg.outFormat(in))
	if err != nil {
		return fmt.Errorf("error encoding result: %w", err)
	}
	_, err = cc.Out.Write(d)
	return err
}
