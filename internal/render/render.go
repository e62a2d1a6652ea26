package render

//go:generate mockgen -source render.go -destination render_mocks.go -package render

import (
	"context"
	"fmt"
	"os/exec"
)

// Renderer turns a graph description file into an image.
type Renderer interface {
	Render(ctx context.Context, path string) error
}

// Graphviz renders DOT files by running the Graphviz command line tool.
// Output is written next to the input with the format appended
// (out.dot -> out.dot.svg).
type Graphviz struct {
	Command string // executable, "dot" if empty
	Format  string // output format, "svg" if empty
}

// Args returns the command line used to render path.
func (g Graphviz) Args(path string) []string {
	command, format := g.Command, g.Format
	if command == "" {
		command = "dot"
	}
	if format == "" {
		format = "svg"
	}
	return []string{command, "-T" + format, "-O", path}
}

// Render runs the renderer on path and waits for it to finish.
func (g Graphviz) Render(ctx context.Context, path string) error {
	args := g.Args(path)
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s failed: %w\nOutput: %s", args[0], err, output)
	}
	return nil
}
