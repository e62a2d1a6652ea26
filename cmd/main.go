package main

import (
	"fmt"
	"os"

	"framestack/internal/config"
	"framestack/internal/diagnostics"
	"framestack/internal/driver"
	"framestack/internal/logger"
	"framestack/pkg/color"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v2"
)

// Run using
//  go run ./cmd generate <flags>

var (
	configFlag = cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "path of the TOML configuration file, " + config.FileName + " in the working directory if unset",
	}
	verboseFlag = cli.BoolFlag{
		Name:    "verbose",
		Aliases: []string{"v"},
		Usage:   "print every generated stack and debug logs",
	}
	noColorFlag = cli.BoolFlag{
		Name:    "no-color",
		Aliases: []string{"n"},
		Usage:   "disable colored output",
	}
	seedFlag = cli.Uint64Flag{
		Name:  "seed",
		Usage: "seed of the random type sequence",
	}
	depthFlag = cli.IntFlag{
		Name:  "depth",
		Usage: "number of branching levels",
	}
	outputFlag = cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "file the arena dump is written to",
	}
	formatFlag = cli.StringFlag{
		Name:  "format",
		Usage: "dump format, dot or yaml",
	}
	typesFlag = cli.StringSliceFlag{
		Name:  "types",
		Usage: "restrict drawn data types (Int, Ptr, Bool)",
	}
	noRenderFlag = cli.BoolFlag{
		Name:  "no-render",
		Usage: "skip invoking the external renderer",
	}
)

var generateCmd = cli.Command{
	Name:   "generate",
	Usage:  "grows a forest of shared stacks and dumps the frame arena",
	Action: diagnostics.Wrap(generate),
	Flags: []cli.Flag{
		&configFlag,
		&seedFlag,
		&depthFlag,
		&outputFlag,
		&formatFlag,
		&typesFlag,
		&noRenderFlag,
	},
}

// Main entry point for the framestack demonstration.
func main() {
	app := &cli.App{
		Name:  "framestack",
		Usage: "reference-counted persistent stacks",
		Flags: []cli.Flag{
			&verboseFlag,
			&noColorFlag,
			&diagnostics.CpuProfileFlag,
			&diagnostics.TraceFlag,
		},
		Before: func(ctx *cli.Context) error {
			logger.Init(ctx.Bool(verboseFlag.Name), ctx.Bool(noColorFlag.Name))
			if ctx.Bool(noColorFlag.Name) {
				color.EnableColor(false)
			}
			return nil
		},
		Commands: []*cli.Command{
			&generateCmd,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func generate(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	d := driver.Driver{
		Config:  cfg,
		Verbose: ctx.Bool(verboseFlag.Name),
	}
	report, err := d.Run(ctx.Context)
	if err != nil {
		log.Error("Run failed", "error", err)
		return err
	}
	log.Info("Done", "stacks", report.Stacks, "frames", report.Frames, "output", cfg.Output.Path)
	return nil
}

func loadConfig(ctx *cli.Context) (config.Config, error) {
	var (
		cfg config.Config
		err error
	)
	if path := ctx.String(configFlag.Name); path != "" {
		cfg, err = config.Load(path)
	} else {
		cfg, err = config.LoadOrDefault(".")
	}
	if err != nil {
		return cfg, err
	}

	if ctx.IsSet(seedFlag.Name) {
		cfg.Tree.Seed = ctx.Uint64(seedFlag.Name)
	}
	if ctx.IsSet(depthFlag.Name) {
		cfg.Tree.Depth = ctx.Int(depthFlag.Name)
	}
	if ctx.IsSet(outputFlag.Name) {
		cfg.Output.Path = ctx.String(outputFlag.Name)
	}
	if ctx.IsSet(formatFlag.Name) {
		cfg.Output.Format = ctx.String(formatFlag.Name)
	}
	if ctx.IsSet(typesFlag.Name) {
		cfg.Tree.Types = ctx.StringSlice(typesFlag.Name)
	}
	if ctx.Bool(noRenderFlag.Name) {
		cfg.Render.Enabled = false
	}
	return cfg, nil
}
