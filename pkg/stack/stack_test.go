package stack

import (
	"slices"
	"testing"

	"framestack/internal/rng"
	"framestack/pkg/arena"

	"github.com/stretchr/testify/require"
)

func refs(t *testing.T, a *arena.Arena, s Stack) int {
	t.Helper()
	top, ok := s.Top()
	require.True(t, ok)
	n, ok := a.RefCount(top)
	require.True(t, ok)
	return n
}

func TestStack_ZeroValueIsEmpty(t *testing.T) {
	a := arena.New()
	var s Stack
	require.True(t, s.IsEmpty())
	require.Empty(t, s.Types(a))
	require.Zero(t, s.Depth(a))

	_, ok := s.Peek(a)
	require.False(t, ok)
	top, ok := s.Top()
	require.False(t, ok)
	require.Equal(t, arena.Nil, top)
}

func TestStack_Push_ChainsFrames(t *testing.T) {
	a := arena.New()
	var s Stack
	s.Push(a, arena.Int)
	s.Push(a, arena.Ptr)
	s.Push(a, arena.Bool)

	require.Equal(t, []arena.DataType{arena.Bool, arena.Ptr, arena.Int}, s.Types(a))
	require.Equal(t, 3, s.Depth(a))
	top, ok := s.Peek(a)
	require.True(t, ok)
	require.Equal(t, arena.Bool, top)
	require.Equal(t, 3, a.Live())
	for i := arena.Index(0); i < 3; i++ {
		n, _ := a.RefCount(i)
		require.Equal(t, 1, n)
	}
}

func TestStack_Clone_SharesTop(t *testing.T) {
	a := arena.New()
	var s Stack
	s.Push(a, arena.Int)
	s.Push(a, arena.Ptr)

	c := s.Clone(a)
	require.Equal(t, s.Types(a), c.Types(a))
	require.Equal(t, 2, refs(t, a, s))
	require.Equal(t, 2, a.Live())

	sTop, _ := s.Top()
	cTop, _ := c.Top()
	require.Equal(t, sTop, cTop)
}

func TestStack_Clone_OfEmptyIsEmpty(t *testing.T) {
	a := arena.New()
	var s Stack
	c := s.Clone(a)
	require.True(t, c.IsEmpty())
	require.Zero(t, a.Len())
}

func TestStack_Pop_OfEmptyIsNoOp(t *testing.T) {
	a := arena.New()
	var other Stack
	other.Push(a, arena.Int)

	var s Stack
	s.Pop(a)
	require.True(t, s.IsEmpty())
	require.Equal(t, 1, a.Live())
	require.Equal(t, 1, refs(t, a, other))
}

func TestStack_Pop_FreesUnsharedTop(t *testing.T) {
	a := arena.New()
	var s Stack
	s.Push(a, arena.Int)
	s.Push(a, arena.Ptr)
	popped, _ := s.Top()

	s.Pop(a)
	require.Equal(t, []arena.DataType{arena.Int}, s.Types(a))
	require.False(t, a.IsLive(popped))
	require.Equal(t, 1, refs(t, a, s))

	s.Pop(a)
	require.True(t, s.IsEmpty())
	require.Zero(t, a.Live())
}

func TestStack_Pop_KeepsPreviousWhenTopIsItsOnlyHolder(t *testing.T) {
	a := arena.New()
	var s Stack
	s.Push(a, arena.Bool)
	s.Push(a, arena.Int)
	s.Push(a, arena.Ptr)

	s.Pop(a)
	s.Pop(a)
	require.Equal(t, []arena.DataType{arena.Bool}, s.Types(a))
	require.Equal(t, 1, a.Live())
	require.Equal(t, 1, refs(t, a, s))
}

func TestStack_Scenario_CloneThenPopTwice(t *testing.T) {
	a := arena.New()
	var s Stack
	s.Push(a, arena.Int)
	s.Push(a, arena.Ptr)
	s.Push(a, arena.Bool)
	require.Equal(t, []arena.DataType{arena.Bool, arena.Ptr, arena.Int}, s.Types(a))

	c := s.Clone(a)
	c.Pop(a)
	c.Pop(a)

	require.Equal(t, []arena.DataType{arena.Int}, c.Types(a))
	require.Equal(t, []arena.DataType{arena.Bool, arena.Ptr, arena.Int}, s.Types(a))

	counts := map[arena.DataType]int{}
	for _, info := range a.Snapshot() {
		dt, err := arena.ParseDataType(info.Type)
		require.NoError(t, err)
		counts[dt] = info.Refs
	}
	require.Equal(t, map[arena.DataType]int{arena.Bool: 1, arena.Ptr: 1, arena.Int: 2}, counts)
}

func TestStack_Drop_OfOneSharerLeavesOtherIntact(t *testing.T) {
	a := arena.New()
	var s Stack
	s.Push(a, arena.Int)
	s.Push(a, arena.Ptr)
	c := s.Clone(a)
	c.Push(a, arena.Bool)
	want := c.Types(a)

	s.Pop(a)
	s.Pop(a)
	require.True(t, s.IsEmpty())
	require.Equal(t, want, c.Types(a))

	c.Drop(a)
	require.True(t, c.IsEmpty())
	require.Zero(t, a.Live())
}

func TestStack_Clone_HandlesDropIndependently(t *testing.T) {
	a := arena.New()
	var s Stack
	s.Push(a, arena.Int)
	c := s.Clone(a)

	s.Drop(a)
	require.Equal(t, []arena.DataType{arena.Int}, c.Types(a))
	require.Equal(t, 1, refs(t, a, c))
	c.Drop(a)
	require.Zero(t, a.Live())
}

func TestStack_Drop_ReleasedSlotsAreReused(t *testing.T) {
	a := arena.New()
	var s Stack
	s.Push(a, arena.Int)
	s.Push(a, arena.Ptr)
	s.Drop(a)
	require.Equal(t, 2, a.Free())

	var r Stack
	r.Push(a, arena.Bool)
	r.Push(a, arena.Bool)
	require.Equal(t, 2, a.Len())
	require.Zero(t, a.Free())
	require.Equal(t, []arena.DataType{arena.Bool, arena.Bool}, r.Types(a))
}

func TestStack_Dump_IsRestartable(t *testing.T) {
	a := arena.New()
	var s Stack
	s.Push(a, arena.Ptr)
	s.Push(a, arena.Int)

	seq := s.Dump(a)
	first := slices.Collect(seq)
	second := slices.Collect(seq)
	require.Equal(t, first, second)
	require.Equal(t, 1, refs(t, a, s))
}

func TestStack_Dump_StopsEarly(t *testing.T) {
	a := arena.New()
	var s Stack
	for i := 0; i < 5; i++ {
		s.Push(a, arena.Int)
	}
	n := 0
	for range s.Dump(a) {
		n++
		if n == 2 {
			break
		}
	}
	require.Equal(t, 2, n)
}

// requireCountsMatchHolders checks that every live slot is counted exactly
// once per handle pointing at it and once per frame linking to it, and that
// no slot without holders stays live.
func requireCountsMatchHolders(t *testing.T, a *arena.Arena, handles []Stack, step int) {
	t.Helper()
	holders := map[arena.Index]int{}
	for _, h := range handles {
		if top, ok := h.Top(); ok {
			holders[top]++
		}
	}
	live := map[arena.Index]int{}
	for _, info := range a.Snapshot() {
		live[info.Index] = info.Refs
		if info.Prev != nil {
			holders[*info.Prev]++
		}
	}
	require.Equal(t, holders, live, "step %d", step)
	require.Equal(t, len(live), a.Live(), "step %d", step)
}

// TestStack_RandomOperations_MatchModel compares a forest of shared stacks
// against plain slices under random push, pop, clone and drop operations.
func TestStack_RandomOperations_MatchModel(t *testing.T) {
	a := arena.New()
	r := rng.New(rng.DefaultSeed)

	handles := []Stack{{}}
	model := [][]arena.DataType{{}}

	for step := 0; step < 5000; step++ {
		i := r.Intn(len(handles))
		switch op := r.Intn(10); {
		case op < 4:
			dt := r.DataType()
			handles[i].Push(a, dt)
			model[i] = append([]arena.DataType{dt}, model[i]...)
		case op < 7:
			handles[i].Pop(a)
			if len(model[i]) > 0 {
				model[i] = model[i][1:]
			}
		case op < 9 && len(handles) < 64:
			handles = append(handles, handles[i].Clone(a))
			model = append(model, slices.Clone(model[i]))
		case len(handles) > 1:
			handles[i].Drop(a)
			handles = slices.Delete(handles, i, i+1)
			model = slices.Delete(model, i, i+1)
		}

		for j := range handles {
			got := handles[j].Types(a)
			if len(model[j]) == 0 {
				require.Empty(t, got, "step %d handle %d", step, j)
			} else {
				require.Equal(t, model[j], got, "step %d handle %d", step, j)
			}
		}
		requireCountsMatchHolders(t, a, handles, step)
	}

	for i := range handles {
		handles[i].Drop(a)
	}
	requireCountsMatchHolders(t, a, nil, -1)
	require.Zero(t, a.Live())
	require.Equal(t, a.Len(), a.Free())
}
