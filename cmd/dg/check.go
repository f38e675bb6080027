package main

import (
	"fmt"

	"github.com/scott-cotton/cli"
)

func check(cfg *CheckConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Check.Parse(cc, args)
	if err != nil {
		cfg.Check.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	failed := 0
	for _, file := range files(args) {
		in, err := loadInput(cfg.MainConfig, cfg.Schema, cc, file)
		if err != nil {
			return err
		}
		_, diags := in.decode(cfg.MainConfig)
		if !diags.HasErrors() {
			fmt.Fprintf(cc.Out, "%s: ok\n", in.name)
			continue
		}
		failed++
		if err := in.report(cfg.MainConfig, cc.Out, diags); err != nil {
			return err
		}
	}
	if failed != 0 {
		return cli.ExitCodeErr(1)
	}
	return nil
}
