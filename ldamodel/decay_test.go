package ldamodel

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewDecayTableStartsAtZero(t *testing.T) {
	d := newDecayTable()
	assert.Equal(t, float32(0), d.last())
	assert.Equal(t, 0, d.lastIndex())
	assert.Equal(t, float32(1), d.factor(0, 0))
}

func TestDecayTableAppendIsMonotoneNonIncreasing(t *testing.T) {
	d := newDecayTable()
	mus := []float32{0.95, 0.9, 0.99, 0.5}
	for _, mu := range mus {
		d.append(logf(mu))
	}
	for i := 1; i < len(d.levels); i++ {
		assert.LessOrEqual(t, d.levels[i], d.levels[i-1])
	}
}

func TestDecayTableFactorMatchesExpOfDelta(t *testing.T) {
	d := newDecayTable()
	d.append(logf(0.9))
	d.append(logf(0.8))
	d.append(logf(0.7))

	got := d.factor(3, 1)
	want := float32(math.Exp(float64(d.levels[3] - d.levels[1])))
	assert.InDelta(t, want, got, 1e-6)
	assert.LessOrEqual(t, got, float32(1))
}

func TestDecayTableFactorClampsToOne(t *testing.T) {
	d := newDecayTable()
	d.append(logf(0.5))
	// atIndex < fromIndex would overshoot exp() above 1; factor clamps.
	got := d.factor(0, 1)
	assert.Equal(t, float32(1), got)
}

func TestDecayTableAtPanicsOutOfRange(t *testing.T) {
	d := newDecayTable()
	assert.Panics(t, func() { d.at(-1) })
	assert.Panics(t, func() { d.at(1) })
}

// TestDecayTableAtBaseIndexesAbsolutely covers a learner handed off at a
// non-zero initial_t (spec.md §6): the first valid index is base itself,
// not 0, and appends keep advancing from there.
func TestDecayTableAtBaseIndexesAbsolutely(t *testing.T) {
	d := newDecayTableAt(5)
	assert.Equal(t, 5, d.lastIndex())
	assert.Equal(t, float32(0), d.at(5))
	assert.Panics(t, func() { d.at(4) })
	assert.Panics(t, func() { d.at(6) })

	d.append(logf(0.5))
	assert.Equal(t, 6, d.lastIndex())
	assert.InDelta(t, logf(0.5), d.at(6), 1e-6)
	assert.Equal(t, float32(1), d.factor(5, 5))
}
