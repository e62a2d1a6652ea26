package driver

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"framestack/internal/config"
	"framestack/internal/generator"
	"framestack/internal/render"
	"framestack/internal/rng"
	"framestack/pkg/arena"
	"framestack/pkg/color"
	"framestack/pkg/stack"

	"github.com/charmbracelet/log"
)

type Driver struct {
	Config   config.Config
	Verbose  bool            // Print every generated stack
	Renderer render.Renderer // Nil selects Graphviz from Config.Render
	Out      io.Writer       // Destination of verbose output, stdout if nil
}

// Report summarises a finished run.
type Report struct {
	Stacks    int // leaf handles generated
	Frames    int // live frames at dump time
	Reclaimed int // frames freed by dropping every handle
}

// Run grows the stack forest, dumps the arena, renders the dump and finally
// drops every handle, checking that the arena is left empty.
func (d *Driver) Run(ctx context.Context) (Report, error) {
	var report Report
	cfg := d.Config
	if err := cfg.Validate(); err != nil {
		return report, fmt.Errorf("invalid configuration: %w", err)
	}

	types, err := cfg.Tree.DataTypes()
	if err != nil {
		return report, fmt.Errorf("invalid configuration: %w", err)
	}

	a := arena.New()
	gen := generator.New(a, rng.New(cfg.Tree.Seed), generator.Options{
		Pushes: cfg.Tree.Pushes,
		Pops:   cfg.Tree.Pops,
		Clones: cfg.Tree.Clones,
		Types:  types,
	})
	log.Info("Generating stacks", "seed", cfg.Tree.Seed, "depth", cfg.Tree.Depth)
	gen.Grow(&stack.Stack{}, cfg.Tree.Depth)

	report.Stacks = len(gen.Handles())
	report.Frames = a.Live()
	log.Info("Generated stacks", "stacks", report.Stacks, "frames", report.Frames, "slots", a.Len())

	if d.Verbose {
		d.printStacks(a, gen.Handles())
	}

	if err := d.writeDump(a); err != nil {
		return report, err
	}

	if cfg.Render.Enabled && cfg.Output.Format == "dot" {
		renderer := d.Renderer
		if renderer == nil {
			renderer = render.Graphviz{Command: cfg.Render.Command, Format: cfg.Render.Format}
		}
		log.Info("Rendering dump", "file", cfg.Output.Path, "command", cfg.Render.Command)
		if err := renderer.Render(ctx, cfg.Output.Path); err != nil {
			return report, fmt.Errorf("rendering failed: %w", err)
		}
	}

	gen.DropAll()
	report.Reclaimed = report.Frames - a.Live()
	log.Info("Dropped all stacks", "reclaimed", report.Reclaimed, "free", a.Free())
	if live := a.Live(); live != 0 {
		return report, fmt.Errorf("%d frames still live after dropping every stack", live)
	}
	return report, nil
}

func (d *Driver) writeDump(a *arena.Arena) error {
	path := d.Config.Output.Path
	log.Info("Writing dump", "file", path, "format", d.Config.Output.Format)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	switch d.Config.Output.Format {
	case "yaml":
		err = a.DumpYAML(f)
	default:
		err = a.DumpDOT(f)
	}
	if err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	return nil
}

func (d *Driver) printStacks(a *arena.Arena, handles []*stack.Stack) {
	out := d.Out
	if out == nil {
		out = os.Stdout
	}
	fmt.Fprintln(out, color.GreenText("=== Stacks (top to bottom) ==="))
	for i, h := range handles {
		var b strings.Builder
		for t := range h.Dump(a) {
			b.WriteString(color.Kind(t))
		}
		top, _ := h.Top()
		fmt.Fprintf(out, "%s %s %s\n",
			color.CyanText(fmt.Sprintf("%3d", i)),
			color.GrayText(fmt.Sprintf("top=%d", top)),
			b.String())
	}
}
