package main

import (
	"fmt"

	"github.com/scott-cotton/cli"

	"github.com/signadot/docgraph/format"
	"github.com/signadot/docgraph/ir"
	"github.com/signadot/docgraph/libdiff"
	"github.com/signadot/docgraph/patch"
)

func roundTrip(cfg *RoundTripConfig, cc *cli.Context, args []string) error {
	args, err := cfg.RoundTrip.Parse(cc, args)
	if err != nil {
		cfg.RoundTrip.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	differ := 0
	for _, file := range files(args) {
		same, err := roundTripFile(cfg, cc, file)
		if err != nil {
			return err
		}
		if !same {
			differ++
		}
	}
	if differ != 0 {
		return cli.ExitCodeErr(1)
	}
	return nil
}

func roundTripFile(cfg *RoundTripConfig, cc *cli.Context, file string) (bool, error) {
	in, err := loadInput(cfg.MainConfig, cfg.Schema, cc, file)
	if err != nil {
		return false, err
	}
	doc, diags := in.decode(cfg.MainConfig)
	if diags.HasErrors() {
		return false, in.report(cfg.MainConfig, cc.Out, diags)
	}
	out, err := ir.Serialize(doc.Root())
	if err != nil {
		return false, fmt.Errorf("error serializing %s: %w", in.name, err)
	}
	if cfg.Patch {
		p, err := patch.Make(in.raw, out)
		if err != nil {
			return false, err
		}
		if string(p) == "[]\n" {
			fmt.Fprintf(cc.Out, "%s: ok\n", in.name)
			return true, nil
		}
		_, err = cc.Out.Write(p)
		return false, err
	}
	f := cfg.outFormat(in)
	if !f.IsText() {
		f = format.YAMLFormat
	}
	diff, err := libdiff.Payloads(in.raw, out, f)
	if err != nil {
		return false, err
	}
	if diff == "" {
		fmt.Fprintf(cc.Out, "%s: ok\n", in.name)
		return true, nil
	}
	fmt.Fprintf(cc.Out, "--- %s\n+++ %s (serialized)\n%s", in.name, in.name, diff)
	if patch.Equal(in.raw, out) {
		fmt.Fprintf(cc.Out, "%s: key order differs\n", in.name)
	}
	return false, nil
}
