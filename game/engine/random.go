package engine

import (
	"math/rand"
	"sync"
)

// RandomSource supplies uniform values in [0,1). It is the only source of
// randomness in the simulation: obstacle spawn positions are drawn from it.
type RandomSource interface {
	Float64() float64
}

// NewRandomSource returns a seeded source; equal seeds give equal spawn sequences
func NewRandomSource(seed int64) RandomSource {
	return rand.New(rand.NewSource(seed))
}

// SequenceSource replays a fixed list of values, cycling when exhausted
type SequenceSource struct {
	mu     sync.Mutex
	values []float64
	next   int
}

// NewSequenceSource creates a source that returns values in order.
// Values outside [0,1) are clamped into range.
func NewSequenceSource(values ...float64) *SequenceSource {
	if len(values) == 0 {
		values = []float64{0}
	}
	clamped := make([]float64, len(values))
	for i, v := range values {
		switch {
		case v < 0:
			v = 0
		case v >= 1:
			v = 0.999999
		}
		clamped[i] = v
	}
	return &SequenceSource{values: clamped}
}

// Float64 returns the next value in the sequence
func (s *SequenceSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := s.values[s.next]
	s.next = (s.next + 1) % len(s.values)
	return v
}
