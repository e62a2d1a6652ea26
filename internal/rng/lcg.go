package rng

import "framestack/pkg/arena"

const (
	multiplier = 6364136223846793005
	increment  = 1442695040888963407
)

// DefaultSeed reproduces the reference forest.
const DefaultSeed = 69

// LCG is a 64-bit linear congruential generator yielding the high 32 bits
// of its state. Identical seeds produce identical sequences on every platform.
type LCG struct {
	seed uint64
}

// New creates a generator starting from seed.
func New(seed uint64) *LCG {
	return &LCG{seed: seed}
}

// Next advances the state and returns the next value.
func (r *LCG) Next() uint32 {
	r.seed = multiplier*r.seed + increment
	return uint32(r.seed >> 32)
}

// Intn returns a value in [0, n). It panics if n <= 0.
func (r *LCG) Intn(n int) int {
	if n <= 0 {
		panic("rng: invalid argument to Intn")
	}
	return int(r.Next() % uint32(n))
}

// DataType draws one of the frame payload tags.
func (r *LCG) DataType() arena.DataType {
	return arena.DataType(r.Intn(arena.NumDataTypes))
}

// Pick draws one of types. It panics if types is empty.
func (r *LCG) Pick(types []arena.DataType) arena.DataType {
	return types[r.Intn(len(types))]
}
