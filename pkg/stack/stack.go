package stack

import (
	"iter"
	"slices"

	"framestack/pkg/arena"
)

// Stack is a handle onto a chain of frames in an arena. Handles may share
// suffixes with each other; the zero value is an empty stack.
//
// Every non-empty handle owns one reference to its top frame and must be
// given back with Drop (or emptied with Pop) before it is discarded.
// A second handle must come from Clone: copying a Stack by assignment does
// not take a reference, and dropping both copies underflows the count.
type Stack struct {
	top  arena.Index
	held bool
}

// Push adds an element to the top of the stack. The new frame takes over
// the handle's reference to the old top.
func (s *Stack) Push(a *arena.Arena, t arena.DataType) {
	frame := arena.Frame{Type: t}
	if s.held {
		frame = arena.Above(t, s.top)
	}
	s.top = a.Allocate(frame)
	s.held = true
}

// Pop removes the top element of the stack. Popping an empty stack does nothing.
func (s *Stack) Pop(a *arena.Arena) {
	if !s.held {
		return
	}

	frame, ok := a.Deref(s.top)
	if !ok {
		panic(arena.ErrInvalidIndex)
	}
	// prev must be acquired before top is released, otherwise the cascade
	// could free it while top is its only holder.
	prev, hasPrev := frame.Previous()
	if hasPrev {
		a.Acquire(prev)
	}
	a.Release(s.top)

	s.top = prev
	s.held = hasPrev
}

// Clone returns a new handle sharing every frame of s.
func (s *Stack) Clone(a *arena.Arena) Stack {
	if s.held {
		a.Acquire(s.top)
	}
	return Stack{top: s.top, held: s.held}
}

// Drop gives up the handle's reference and leaves s empty.
func (s *Stack) Drop(a *arena.Arena) {
	if !s.held {
		return
	}
	a.Release(s.top)
	s.top = arena.Nil
	s.held = false
}

// Dump yields the element types from top to bottom.
func (s Stack) Dump(a *arena.Arena) iter.Seq[arena.DataType] {
	return func(yield func(arena.DataType) bool) {
		idx, ok := s.Top()
		for ok {
			frame, found := a.Deref(idx)
			if !found {
				return
			}
			if !yield(frame.Type) {
				return
			}
			idx, ok = frame.Previous()
		}
	}
}

// Types returns the element types from top to bottom.
func (s Stack) Types(a *arena.Arena) []arena.DataType {
	return slices.Collect(s.Dump(a))
}

// Peek returns the top element type without removing it
func (s Stack) Peek(a *arena.Arena) (arena.DataType, bool) {
	if !s.held {
		return 0, false
	}
	frame, ok := a.Deref(s.top)
	return frame.Type, ok
}

// Top returns the index of the top frame.
func (s Stack) Top() (arena.Index, bool) {
	if !s.held {
		return arena.Nil, false
	}
	return s.top, true
}

// IsEmpty reports whether the stack has no elements.
func (s Stack) IsEmpty() bool {
	return !s.held
}

// Depth counts the elements of the stack.
func (s Stack) Depth(a *arena.Arena) int {
	n := 0
	for range s.Dump(a) {
		n++
	}
	return n
}
