// Package generator grows a forest of stacks that share their prefixes,
// driving the arena with a deterministic random sequence.
package generator

import (
	"framestack/internal/rng"
	"framestack/pkg/arena"
	"framestack/pkg/stack"

	"github.com/charmbracelet/log"
)

// Options shapes the generated forest.
type Options struct {
	Pushes int              // frames pushed at every level
	Pops   int              // frames popped again after pushing
	Clones int              // extra branches forked at every level
	Types  []arena.DataType // tags to draw from, all of them if empty
}

// Generator grows stack trees and keeps every leaf handle alive until DropAll.
type Generator struct {
	arena   *arena.Arena
	rand    *rng.LCG
	opts    Options
	handles []*stack.Stack
}

// New creates a generator working on a.
func New(a *arena.Arena, rand *rng.LCG, opts Options) *Generator {
	return &Generator{arena: a, rand: rand, opts: opts}
}

// Grow pushes random frames onto s, forks it Clones times and recurses
// into every branch until level reaches zero. s and every clone end up
// retained by the generator.
func (g *Generator) Grow(s *stack.Stack, level int) {
	if level <= 0 {
		g.handles = append(g.handles, s)
		return
	}

	for i := 0; i < g.opts.Pushes; i++ {
		s.Push(g.arena, g.draw())
	}
	for i := 0; i < g.opts.Pops; i++ {
		s.Pop(g.arena)
	}

	branches := make([]*stack.Stack, g.opts.Clones)
	for i := range branches {
		c := s.Clone(g.arena)
		branches[i] = &c
	}
	log.Debug("Grew level", "level", level, "depth", s.Depth(g.arena), "branches", len(branches)+1)

	g.Grow(s, level-1)
	for _, b := range branches {
		g.Grow(b, level-1)
	}
}

func (g *Generator) draw() arena.DataType {
	if len(g.opts.Types) == 0 {
		return g.rand.DataType()
	}
	return g.rand.Pick(g.opts.Types)
}

// Handles returns the retained leaf handles in generation order.
func (g *Generator) Handles() []*stack.Stack {
	return g.handles
}

// DropAll releases every retained handle.
func (g *Generator) DropAll() {
	for _, h := range g.handles {
		h.Drop(g.arena)
	}
	g.handles = nil
}
