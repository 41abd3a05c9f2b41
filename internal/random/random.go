// Package random provides the randomness used by the simulation engines.
//
// Every engine draws from a Source so a playthrough can be replayed from a
// seed and tests can script exact draws.
package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand"
)

// Source yields uniform draws. Float64 returns a value in [0,1).
type Source interface {
	Float64() float64
	Intn(n int) int
}

// Rand is a seeded pseudo-random Source.
type Rand struct {
	seed int64
	rng  *rand.Rand
}

func New(seed int64) *Rand {
	return &Rand{seed: seed, rng: rand.New(rand.NewSource(seed))}
}

func (r *Rand) Seed() int64 { return r.seed }

func (r *Rand) Float64() float64 { return r.rng.Float64() }

func (r *Rand) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return r.rng.Intn(n)
}

// NewSeed generates a random seed using crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}

	return int64(binary.LittleEndian.Uint64(b[:])), nil
}

// Scripted replays a fixed list of draws. Once the list is exhausted it keeps
// returning Fallback, which defaults to a value that fails every probability
// check of the form draw < p.
type Scripted struct {
	values   []float64
	pos      int
	Fallback float64
}

func NewScripted(values ...float64) *Scripted {
	return &Scripted{values: values, Fallback: 0.999999}
}

func (s *Scripted) Float64() float64 {
	if s.pos >= len(s.values) {
		return s.Fallback
	}
	v := s.values[s.pos]
	s.pos++
	return v
}

// Intn maps the next draw onto [0,n).
func (s *Scripted) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	v := int(s.Float64() * float64(n))
	if v >= n {
		v = n - 1
	}
	return v
}

// Remaining reports how many scripted draws have not been consumed.
func (s *Scripted) Remaining() int {
	return len(s.values) - s.pos
}
