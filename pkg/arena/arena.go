package arena

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidIndex is raised when a live slot is expected at an index that
	// is out of bounds or already free.
	ErrInvalidIndex = errors.New("invalid frame index")
	// ErrRefCountUnderflow is raised when releasing a slot whose count is zero.
	ErrRefCountUnderflow = errors.New("reference count underflow")
)

type slot struct {
	frame Frame
	refs  int
}

// Arena owns every frame of every stack. Slots are reference counted and
// recycled through a free list once their count drops to zero.
//
// An Arena is not safe for concurrent use.
type Arena struct {
	slots []slot
	free  []Index // free-list (stack)
}

// New creates an empty arena.
func New() *Arena {
	return &Arena{
		slots: make([]slot, 0),
		free:  make([]Index, 0),
	}
}

// Allocate stores a frame with a reference count of one and returns its index.
// The most recently freed index is reused first.
func (a *Arena) Allocate(frame Frame) Index {
	var idx Index

	if n := len(a.free); n > 0 {
		idx = a.free[n-1]
		a.free = a.free[:n-1]
	} else {
		idx = Index(len(a.slots))
		a.slots = append(a.slots, slot{})
	}

	a.slots[idx] = slot{frame: frame, refs: 1}
	return idx
}

// Acquire adds one reference to a live slot.
func (a *Arena) Acquire(idx Index) {
	a.live(idx).refs++
}

// Release drops one reference from a slot. When the count reaches zero the
// frame's back-link is released in turn and the slot joins the free list.
func (a *Arena) Release(idx Index) {
	// Indices die top-down but are freed bottom-up, leaving the released
	// index at the end of the free list.
	var dead []Index
	for {
		if !a.inBounds(idx) {
			panic(fmt.Errorf("release of %d: %w", idx, ErrInvalidIndex))
		}
		s := &a.slots[idx]
		if s.refs == 0 {
			panic(fmt.Errorf("release of %d: %w", idx, ErrRefCountUnderflow))
		}
		s.refs--
		if s.refs > 0 {
			break
		}
		dead = append(dead, idx)
		prev, ok := s.frame.Previous()
		if !ok {
			break
		}
		idx = prev
	}
	for i := len(dead) - 1; i >= 0; i-- {
		a.free = append(a.free, dead[i])
	}
}

// Deref returns the frame stored at idx. Liveness is not checked.
func (a *Arena) Deref(idx Index) (Frame, bool) {
	if !a.inBounds(idx) {
		return Frame{}, false
	}
	return a.slots[idx].frame, true
}

// DerefMut returns a pointer to the frame stored at idx. The pointer is
// invalidated by the next Allocate.
func (a *Arena) DerefMut(idx Index) (*Frame, bool) {
	if !a.inBounds(idx) {
		return nil, false
	}
	return &a.slots[idx].frame, true
}

// RefCount returns the current count of the slot at idx.
func (a *Arena) RefCount(idx Index) (int, bool) {
	if !a.inBounds(idx) {
		return 0, false
	}
	return a.slots[idx].refs, true
}

// IsLive reports whether idx holds a frame with at least one owner.
func (a *Arena) IsLive(idx Index) bool {
	return a.inBounds(idx) && a.slots[idx].refs > 0
}

// Len returns the size of the slot table, live and free slots alike.
func (a *Arena) Len() int {
	return len(a.slots)
}

// Live returns the number of live slots.
func (a *Arena) Live() int {
	return len(a.slots) - len(a.free)
}

// Free returns the number of slots waiting for reuse.
func (a *Arena) Free() int {
	return len(a.free)
}

func (a *Arena) inBounds(idx Index) bool {
	return idx >= 0 && int(idx) < len(a.slots)
}

func (a *Arena) live(idx Index) *slot {
	if !a.inBounds(idx) || a.slots[idx].refs == 0 {
		panic(fmt.Errorf("slot %d: %w", idx, ErrInvalidIndex))
	}
	return &a.slots[idx]
}
