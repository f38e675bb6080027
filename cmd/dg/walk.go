package main

import (
	"fmt"

	"github.com/scott-cotton/cli"

	"github.com/signadot/docgraph/ir"
)

func walk(cfg *WalkConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Walk.Parse(cc, args)
	if err != nil {
		cfg.Walk.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) < 2 || len(args) > 3 {
		return fmt.Errorf("%w: walk requires a dictionary path, an ordering and at most one file", cli.ErrUsage)
	}
	dictPath, ordering := args[0], args[1]
	in, err := loadInput(cfg.MainConfig, cfg.Schema, cc, files(args[2:])[0])
	if err != nil {
		return err
	}
	doc, diags := in.decode(cfg.MainConfig)
	if doc == nil {
		if err := in.report(cfg.MainConfig, cc.Out, diags); err != nil {
			return err
		}
		return cli.ExitCodeErr(1)
	}
	n, err := ir.Find(doc.Root(), dictPath)
	if err != nil {
		return fmt.Errorf("%w: %w", cli.ErrUsage, err)
	}
	dict, err := n.Dictionary()
	if err != nil {
		return fmt.Errorf("%w: %w", cli.ErrUsage, err)
	}
	return dict.Walk(ordering, cfg.Start, func(key string, _ ir.Node) error {
		_, err := fmt.Fprintln(cc.Out, key)
		return err
	})
}
