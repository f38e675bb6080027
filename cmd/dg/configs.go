package main

import (
	"errors"
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

type MainConfig struct {
	Color   bool   `cli:"name=color desc='encode with color'"`
	Lazy    bool   `cli:"name=lazy desc='decode lazily, resolving afterwards'"`
	Project string `cli:"name=config desc='project config file (default: nearest docgraph.toml)'"`

	InFormat, OutFormat *format.Format

	Out      string
	CloseOut func() error

	Main *cli.Command

	registry *schema.Registry
	project  *config.Config
}

func (cfg *MainConfig) fmtFunc(fps ...**format.Format) cli.FuncOpt {
	return cli.FuncOpt(func(_ *cli.Context, v string) (any, error) {
		f, err := format.ParseFormat(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", cli.ErrUsage, err)
		}
		for _, fp := range fps {
			*fp = &f
		}
		return f, nil
	})
}

func (cfg *MainConfig) encOpts(w io.Writer, opts ...encode.EncodeOption) []encode.EncodeOption {
	if cfg.Color {
		return append(opts, encode.EncodeColors(encode.NewColors()))
	}
	colorsSet := false
	for _, opt := range cfg.Main.Opts {
		if opt.Name != "color" {
			continue
		}
		colorsSet = opt.Value != nil
		break
	}
	if colorsSet {
		return opts
	}
	f, ok := w.(*os.File)
	if !ok {
		return opts
	}
	if c := encode.AutoColors(f); c != nil {
		opts = append(opts, encode.EncodeColors(c))
	}
	return opts
}

func (cfg *MainConfig) schemas() *schema.Registry {
	if cfg.registry == nil {
		cfg.registry = schema.NewRegistry()
	}
	return cfg.registry
}

// projectConfig loads the -config file, or the nearest docgraph.toml. It
// returns nil when there is none.
func (cfg *MainConfig) projectConfig() (*config.Config, error) {
	if cfg.project != nil {
		return cfg.project, nil
	}
	path := cfg.Project
	if path == "" {
		p, err := config.Find(".")
		if errors.Is(err, config.ErrNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		path = p
	}
	pc, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	cfg.project = pc
	return pc, nil
}

func (cfg *MainConfig) decOpts(entry *config.Document) []ir.DecodeOption {
	return []ir.DecodeOption{ir.Lazy(cfg.Lazy || (entry != nil && entry.Lazy))}
}

type CheckConfig struct {
	*MainConfig
	Schema string `cli:"name=s aliases=schema desc='schema file (default: from the project config)'"`

	Check *cli.Command
}

type ViewConfig struct {
	*MainConfig
	Schema string `cli:"name=s aliases=schema desc='schema file (default: from the project config)'"`

	Path   string `cli:"name=p aliases=path desc='view the node at path'"`
	Depth  int    `cli:"name=depth desc='maximum depth to show'"`
	Refs   bool   `cli:"name=refs desc='show reference targets'"`
	Counts bool   `cli:"name=counts desc='show reference counts'"`

	View *cli.Command
}

type WalkConfig struct {
	*MainConfig
	Schema string `cli:"name=s aliases=schema desc='schema file (default: from the project config)'"`

	Start string `cli:"name=start desc='key to start from (default: the head)'"`

	Walk *cli.Command
}

type RoundTripConfig struct {
	*MainConfig
	Schema string `cli:"name=s aliases=schema desc='schema file (default: from the project config)'"`

	Patch bool `cli:"name=patch desc='show differences as a JSON patch'"`

	RoundTrip *cli.Command
}

type PatchConfig struct {
	*MainConfig
	Schema string `cli:"name=s aliases=schema desc='schema file (default: from the project config)'"`

	Merge bool `cli:"name=merge desc='the patch is a JSON merge patch'"`

	Patch *cli.Command
}
