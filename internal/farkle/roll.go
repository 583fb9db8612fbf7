package farkle

import "math/rand"

// Roller supplies die values. Implementations must return values uniformly
// distributed in [1, faces].
type Roller interface {
	Roll(faces int) int
}

// SeededRoller is a deterministic Roller backed by a seeded PRNG. Two
// rollers built from the same seed produce identical roll sequences.
type SeededRoller struct {
	rng *rand.Rand
}

// NewSeededRoller returns a roller for the given seed.
func NewSeededRoller(seed int64) *SeededRoller {
	return &SeededRoller{rng: rand.New(rand.NewSource(seed))}
}

// Roll returns a uniform value in [1, faces].
func (r *SeededRoller) Roll(faces int) int {
	return r.rng.Intn(faces) + 1
}
