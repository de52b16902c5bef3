package ldamath

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseMode(t *testing.T) {
	cases := map[string]Mode{
		"simd":        ModeSIMD,
		"accuracy":    ModePrecise,
		"precise":     ModePrecise,
		"fast-approx": ModeFastApprox,
		"approx":      ModeFastApprox,
	}
	for token, want := range cases {
		got, err := ParseMode(token)
		assert.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := ParseMode("bogus")
	assert.Error(t, err)
}

func TestKernelDispatchAgreesAcrossModes(t *testing.T) {
	precise := New(ModePrecise)
	fast := New(ModeFastApprox)
	simd := New(ModeSIMD)

	x := float32(3.25)
	assert.InDelta(t, float64(precise.Digamma(x)), float64(fast.Digamma(x)), 5e-3)
	assert.InDelta(t, float64(fast.Digamma(x)), float64(simd.Digamma(x)), 1e-6)
	assert.InDelta(t, float64(fast.LogGamma(x)), float64(simd.LogGamma(x)), 1e-6)
	assert.InDelta(t, float64(fast.Exp(x)), float64(simd.Exp(x)), 1e-6)
}

func TestUnrecognisedModePanics(t *testing.T) {
	k := Kernel{mode: Mode(99)}
	assert.Panics(t, func() { k.Digamma(1.0) })
}
