package random

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandIsDeterministicForSeed(t *testing.T) {
	a, b := New(42), New(42)
	for i := 0; i < 20; i++ {
		require.Equal(t, a.Float64(), b.Float64())
		require.Equal(t, a.Intn(80), b.Intn(80))
	}
	assert.Equal(t, int64(42), a.Seed())
	assert.Equal(t, 0, a.Intn(0))
}

func TestScripted(t *testing.T) {
	s := NewScripted(0.1, 0.5, 1.0)
	assert.Equal(t, 0.1, s.Float64())
	assert.Equal(t, 5, s.Intn(10))
	assert.Equal(t, 9, s.Intn(10))
	assert.Equal(t, 0, s.Remaining())
	assert.Equal(t, s.Fallback, s.Float64())
}

func TestNewSeed(t *testing.T) {
	_, err := NewSeed()
	require.NoError(t, err)
}
