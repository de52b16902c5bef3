package ldamodel

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bobonovski/ldavb/ldamath"
)

// TestDocLoopTrivialSingleTopic covers spec.md §8 scenario A: K=1 collapses
// the whole variational loop, since elogtheta[0] is always digamma(g) -
// digamma(g) == 0, so expElogtheta is always 1 and gamma converges in a
// single extra iteration to Σx + alpha exactly.
func TestDocLoopTrivialSingleTopic(t *testing.T) {
	k := ldamath.New(ldamath.ModePrecise)
	alpha := float32(0.1)

	doc := Document{Features: []Feature{
		{TermHash: 1, X: 3},
		{TermHash: 2, X: 4},
	}}
	rows := map[uint32][]float32{
		1: {2.0},
		2: {0.5},
	}
	u := func(termHash uint32) []float32 { return rows[termHash] }

	gammaNew := make([]float32, 1)
	gammaOld := make([]float32, 1)
	v := make([]float32, 1)
	elogtheta := make([]float32, 1)
	predicted := make([]float32, 1)

	score := docLoop(k, alpha, 1e-3, doc, u, gammaNew, gammaOld, v, elogtheta, predicted)

	assert.InDelta(t, doc.TotalWeight()+alpha, predicted[0], 1e-4)
	assert.False(t, math.IsNaN(float64(score)))
	assert.False(t, math.IsInf(float64(score), 0))
}

func TestDocLoopConvergesForMultiTopic(t *testing.T) {
	k := ldamath.New(ldamath.ModePrecise)
	alpha := float32(0.1)
	K := 3

	doc := Document{Features: []Feature{
		{TermHash: 1, X: 2},
		{TermHash: 2, X: 1},
		{TermHash: 3, X: 5},
	}}
	rows := map[uint32][]float32{
		1: {3.0, 0.2, 0.1},
		2: {0.1, 2.0, 0.3},
		3: {0.2, 0.3, 1.5},
	}
	u := func(termHash uint32) []float32 { return rows[termHash] }

	gammaNew := make([]float32, K)
	gammaOld := make([]float32, K)
	v := make([]float32, K)
	elogtheta := make([]float32, K)
	predicted := make([]float32, K)

	score := docLoop(k, alpha, 1e-4, doc, u, gammaNew, gammaOld, v, elogtheta, predicted)

	for _, g := range predicted {
		assert.Greater(t, g, float32(0))
	}
	assert.False(t, math.IsNaN(float64(score)))
}

func TestAverageDiffIsRelativeL1(t *testing.T) {
	old := []float32{1, 1, 1}
	next := []float32{2, 1, 1}
	got := averageDiff(old, next)
	assert.InDelta(t, float32(1.0/4.0), got, 1e-6)
}
