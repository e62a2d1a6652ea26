// Package config handles framestack.toml run configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"framestack/pkg/arena"

	"github.com/BurntSushi/toml"
)

// FileName is the configuration file looked up by default.
const FileName = "framestack.toml"

// Config describes one demonstration run.
type Config struct {
	Tree   Tree   `toml:"tree"`
	Output Output `toml:"output"`
	Render Render `toml:"render"`
}

// Tree configures the shape of the generated stack forest.
type Tree struct {
	Seed   uint64 `toml:"seed"`
	Depth  int    `toml:"depth"`
	Pushes int    `toml:"pushes"`
	Pops   int    `toml:"pops"`
	Clones int    `toml:"clones"`
	// Types restricts the drawn payload tags; empty means all of them.
	Types []string `toml:"types"`
}

// DataTypes parses Types. A nil result selects every tag.
func (t Tree) DataTypes() ([]arena.DataType, error) {
	if len(t.Types) == 0 {
		return nil, nil
	}
	types := make([]arena.DataType, 0, len(t.Types))
	for _, name := range t.Types {
		dt, err := arena.ParseDataType(name)
		if err != nil {
			return nil, fmt.Errorf("tree.types: %w", err)
		}
		types = append(types, dt)
	}
	return types, nil
}

// Output configures where the arena dump goes.
type Output struct {
	Path   string `toml:"path"`
	Format string `toml:"format"` // "dot" or "yaml"
}

// Render configures the external graph renderer.
type Render struct {
	Enabled bool   `toml:"enabled"`
	Command string `toml:"command"`
	Format  string `toml:"format"`
}

// Default returns the configuration of the reference run.
func Default() Config {
	return Config{
		Tree: Tree{
			Seed:   69,
			Depth:  4,
			Pushes: 3,
			Pops:   0,
			Clones: 2,
		},
		Output: Output{
			Path:   "out.dot",
			Format: "dot",
		},
		Render: Render{
			Enabled: true,
			Command: "dot",
			Format:  "svg",
		},
	}
}

// Load parses a configuration file on top of the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("cannot read %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse error in %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid %s: %w", path, err)
	}
	return cfg, nil
}

// LoadOrDefault loads FileName from dir, falling back to the defaults when
// the file does not exist.
func LoadOrDefault(dir string) (Config, error) {
	path := filepath.Join(dir, FileName)
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Validate checks the configuration for values the generator cannot use.
func (c Config) Validate() error {
	switch {
	case c.Tree.Depth < 0:
		return fmt.Errorf("tree.depth must not be negative, got %d", c.Tree.Depth)
	case c.Tree.Pushes < 0:
		return fmt.Errorf("tree.pushes must not be negative, got %d", c.Tree.Pushes)
	case c.Tree.Pops < 0:
		return fmt.Errorf("tree.pops must not be negative, got %d", c.Tree.Pops)
	case c.Tree.Clones < 0:
		return fmt.Errorf("tree.clones must not be negative, got %d", c.Tree.Clones)
	}
	if _, err := c.Tree.DataTypes(); err != nil {
		return err
	}
	switch c.Output.Format {
	case "dot", "yaml":
	default:
		return fmt.Errorf("output.format must be dot or yaml, got %q", c.Output.Format)
	}
	if c.Output.Path == "" {
		return errors.New("output.path must not be empty")
	}
	if c.Render.Enabled && c.Render.Command == "" {
		return errors.New("render.command must not be empty when rendering is enabled")
	}
	return nil
}
