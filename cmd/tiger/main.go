package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"nikand.dev/go/cli"
	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/slowlang/tiger/compiler"
	"github.com/slowlang/tiger/compiler/config"
	"github.com/slowlang/tiger/compiler/format"
	"github.com/slowlang/tiger/compiler/parse"
)

func main() {
	flags := []*cli.Flag{
		cli.NewFlag("config", "", "yaml config file"),
		cli.NewFlag("lenient", false, "drop unrecognized characters instead of failing"),
		cli.NewFlag("no-scope", false, "do not check names are declared before use"),
		cli.NewFlag("declare", "", "comma separated list of predeclared names"),
		cli.NewFlag("verbosity,v", "", "logger verbosity topics"),
		cli.HelpFlag,
	}

	parseCmd := &cli.Command{
		Name:        "parse",
		Description: "parse files and print syntax trees",
		Action:      parseAct,
		Args:        cli.Args{},
		Flags:       flags,
	}

	tokensCmd := &cli.Command{
		Name:        "tokens",
		Description: "print file tokens one per line",
		Action:      tokensAct,
		Args:        cli.Args{},
		Flags:       flags,
	}

	app := &cli.Command{
		Name:        "tiger",
		Description: "tiger is a tool for managing tiger source code",
		Commands: []*cli.Command{
			parseCmd,
			tokensCmd,
		},
	}

	cli.RunAndExit(app, os.Args, os.Environ())
}

func parseAct(c *cli.Command) (err error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	ctx := context.Background()
	ctx = tlog.ContextWithSpan(ctx, tlog.Root())

	for _, a := range c.Args {
		tree, err := compiler.ParseFile(ctx, a, cfg)
		var pe *parse.Error
		if errors.As(err, &pe) {
			return pe
		}
		if err != nil {
			return errors.Wrap(err, "parse %v", a)
		}

		b, err := format.Format(ctx, nil, tree.Arena, tree.Root)
		if err != nil {
			return errors.Wrap(err, "format %v", a)
		}

		fmt.Printf("%s", b)
	}

	return nil
}

func tokensAct(c *cli.Command) (err error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	ctx := context.Background()
	ctx = tlog.ContextWithSpan(ctx, tlog.Root())

	for _, a := range c.Args {
		ts, err := compiler.TokenizeFile(ctx, a, cfg)
		if err != nil {
			return errors.Wrap(err, "tokenize %v", a)
		}

		for _, tk := range ts {
			fmt.Printf("%-12v %s\n", tk.Kind, tk.Text)
		}
	}

	return nil
}

func loadConfig(c *cli.Command) (cfg config.Config, err error) {
	cfg = config.Default()

	if f := c.String("config"); f != "" {
		cfg, err = config.Load(f)
		if err != nil {
			return cfg, errors.Wrap(err, "load config")
		}
	}

	if c.Bool("lenient") {
		cfg.Strict = false
	}

	if c.Bool("no-scope") {
		cfg.CheckScope = false
	}

	if d := c.String("declare"); d != "" {
		cfg.Predeclared = append(cfg.Predeclared, strings.Split(d, ",")...)
	}

	if v := c.String("verbosity"); v != "" {
		cfg.Verbosity = v
	}

	if cfg.Verbosity != "" {
		tlog.SetVerbosity(cfg.Verbosity)
	}

	return cfg, nil
}
