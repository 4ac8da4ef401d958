package trigger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProbability_Extremes(t *testing.T) {
	never := NewProbability(0, 42)
	always := NewProbability(1, 42)

	for i := 0; i < 100; i++ {
		assert.False(t, never.Fire())
		assert.True(t, always.Fire())
	}
}

func TestProbability_SeededIsRepeatable(t *testing.T) {
	first := NewProbability(0.5, 7)
	second := NewProbability(0.5, 7)

	for i := 0; i < 50; i++ {
		assert.Equal(t, first.Fire(), second.Fire())
	}
}

func TestProbability_ClampsRange(t *testing.T) {
	assert.False(t, NewProbability(-0.5, 1).Fire())
	assert.True(t, NewProbability(1.5, 1).Fire())
}

func TestSequence_ReplaysThenStops(t *testing.T) {
	seq := NewSequence(true, false, true)

	assert.True(t, seq.Fire())
	assert.False(t, seq.Fire())
	assert.True(t, seq.Fire())
	assert.Equal(t, 0, seq.Remaining())

	// Exhausted sequences never fire again.
	for i := 0; i < 5; i++ {
		assert.False(t, seq.Fire())
	}
}

func TestFunc_Adapter(t *testing.T) {
	calls := 0
	policy := Func(func() bool {
		calls++
		return calls%2 == 1
	})

	assert.True(t, policy.Fire())
	assert.False(t, policy.Fire())
}
