package main

import (
	"github.com/scott-cotton/cli"
)

func MainCommand() *cli.Command {
	cfg := &MainConfig{}
	sOpts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	opts := append(sOpts, []*cli.Opt{
		&cli.Opt{
			Name:        "o",
			Description: "output file (default stdout)",
			Type:        cli.NamedFuncOpt(cfg.outOpt, "(filepath)"),
		},
		&cli.Opt{
			Name:        "I",
			Aliases:     []string{"ifmt"},
			Description: "input format: json/j, jsonc/jc, yaml/y, cbor/c",
			Type:        cli.NamedFuncOpt(cfg.fmtFunc(&cfg.InFormat), "(format)"),
		}, &cli.Opt{
			Name:        "O",
			Aliases:     []string{"ofmt"},
			Description: "output format: json/j, jsonc/jc, yaml/y, cbor/c",
			Type:        cli.NamedFuncOpt(cfg.fmtFunc(&cfg.OutFormat), "(format)"),
		}}...)

	return cli.NewCommandAt(&cfg.Main, "dg").
		WithSynopsis("dg [opts] command [opts]").
		WithDescription("dg decodes, checks and inspects schema typed document graphs.").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return dgMain(cfg, cc, args)
		}).
		WithSubs(
			CheckCommand(cfg),
			ViewCommand(cfg),
			WalkCommand(cfg),
			RoundTripCommand(cfg),
			PatchCommand(cfg))
}

func CheckCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &CheckConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	cmd := cli.NewCommand("check").
		WithAliases("c").
		WithOpts(opts...).
		WithSynopsis("check [-s schema] [files]").
		WithDescription("decode and resolve documents, reporting diagnostics").
		WithRun(func(cc *cli.Context, args []string) error {
			return check(cfg, cc, args)
		})
	cfg.Check = cmd
	return cmd
}

func ViewCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &ViewConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	cmd := cli.NewCommand("view").
		WithAliases("v").
		WithOpts(opts...).
		WithSynopsis("view [-s schema] [-p path] [files]").
		WithDescription("view the decoded graph of documents").
		WithRun(func(cc *cli.Context, args []string) error {
			return view(cfg, cc, args)
		})
	cfg.View = cmd
	return cmd
}

func WalkCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &WalkConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	cmd := cli.NewCommand("walk").
		WithAliases("w").
		WithOpts(opts...).
		WithSynopsis("walk [-s schema] <dictionary-path> <ordering> [file]").
		WithDescription("list the keys of a dictionary in the order of one of its orderings").
		WithRun(func(cc *cli.Context, args []string) error {
			return walk(cfg, cc, args)
		})
	cfg.Walk = cmd
	return cmd
}

func RoundTripCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &RoundTripConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	cmd := cli.NewCommand("roundtrip").
		WithAliases("rt").
		WithOpts(opts...).
		WithSynopsis("roundtrip [-s schema] [-patch] [files]").
		WithDescription("decode and serialize documents, showing any difference from the input").
		WithRun(func(cc *cli.Context, args []string) error {
			return roundTrip(cfg, cc, args)
		})
	cfg.RoundTrip = cmd
	return cmd
}

func PatchCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &PatchConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	cmd := cli.NewCommand("patch").
		WithAliases("p").
		WithOpts(opts...).
		WithSynopsis("patch [-s schema] [-merge] <patch-file> [file]").
		WithDescription("apply a JSON patch to a document and decode the result").
		WithRun(func(cc *cli.Context, args []string) error {
			return patchDoc(cfg, cc, args)
		})
	cfg.Patch = cmd
	return cmd
}
