package cluster

import (
	"math/rand/v2"
	"time"
)

// Source supplies every bit of nondeterminism the adaptive strategy
// consumes, including the clock behind its time-based signal.
type Source interface {
	Float64() float64
	IntN(n int) int
	Now() time.Time
}

type randSource struct {
	*rand.Rand
	now func() time.Time
}

func (s *randSource) Now() time.Time { return s.now() }

// NewSeededSource returns a reproducible source whose clock is frozen
// at epoch. Two sources with equal seed and epoch yield equal streams.
func NewSeededSource(seed uint64, epoch time.Time) Source {
	return &randSource{
		Rand: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		now:  func() time.Time { return epoch },
	}
}

// NewRandomSource returns a randomly seeded source on the wall clock.
func NewRandomSource() Source {
	return &randSource{
		Rand: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		now:  time.Now,
	}
}
