package ldamath

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpDigammifyFloorsAtEpsilon(t *testing.T) {
	k := New(ModeFastApprox)
	g := []float32{1e-8, 1e-8, 1e-8}
	k.ExpDigammify(g)
	for _, v := range g {
		assert.GreaterOrEqual(t, float64(v), underflowThreshold)
	}
}

func TestExpDigammify2NoReduction(t *testing.T) {
	k := New(ModePrecise)
	g := []float32{1.0, 2.0, 3.0}
	norm := []float32{0.1, 0.2, 0.3}
	want := make([]float32, len(g))
	for i := range g {
		want[i] = maxf32(underflowThreshold, k.Exp(k.Digamma(g[i])-norm[i]))
	}
	k.ExpDigammify2(g, norm)
	assert.Equal(t, want, g)
}

// Property 4: for randomly drawn positive float vectors, the scalar
// fast-approx and simd paths of expdigammify/expdigammify_2 agree to
// within 1e-5 relative error elementwise.
func TestLaneEquivalenceExpDigammify(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for trial := 0; trial < 20; trial++ {
		n := 1 + rng.Intn(37) // exercise prologue/body/tail boundaries
		g1 := make([]float32, n)
		g2 := make([]float32, n)
		for i := range g1 {
			v := float32(0.01 + rng.Float64()*50)
			g1[i] = v
			g2[i] = v
		}

		fast := New(ModeFastApprox)
		simd := New(ModeSIMD)
		fast.ExpDigammify(g1)
		simd.ExpDigammify(g2)

		for i := range g1 {
			relErr := abs32(g1[i]-g2[i]) / maxf32(abs32(g1[i]), 1e-12)
			assert.LessOrEqual(t, float64(relErr), 1e-5, "index %d: fast=%v simd=%v", i, g1[i], g2[i])
		}
	}
}

func TestLaneEquivalenceExpDigammify2(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 20; trial++ {
		n := 1 + rng.Intn(37)
		g1 := make([]float32, n)
		g2 := make([]float32, n)
		norm := make([]float32, n)
		for i := range g1 {
			v := float32(0.01 + rng.Float64()*50)
			g1[i] = v
			g2[i] = v
			norm[i] = float32(rng.Float64() * 5)
		}

		fast := New(ModeFastApprox)
		simd := New(ModeSIMD)
		fast.ExpDigammify2(g1, norm)
		simd.ExpDigammify2(g2, norm)

		for i := range g1 {
			relErr := abs32(g1[i]-g2[i]) / maxf32(abs32(g1[i]), 1e-12)
			assert.LessOrEqual(t, float64(relErr), 1e-5, "index %d: fast=%v simd=%v", i, g1[i], g2[i])
		}
	}
}

func abs32(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
