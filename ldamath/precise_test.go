package ldamath

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPreciseDigammaKnownValues(t *testing.T) {
	// psi(1) = -Euler-Mascheroni constant.
	assert.InDelta(t, -0.5772156649, preciseDigamma(1.0), 1e-5)
	assert.InDelta(t, 0.7031566406452054, preciseDigamma(2.5), 1e-5)
}

func TestPreciseLogGammaMatchesFactorials(t *testing.T) {
	// lgamma(5) = log(4!) = log(24).
	assert.InDelta(t, 3.1780538303479458, preciseLogGamma(5.0), 1e-5)
}

func TestPreciseExpPow(t *testing.T) {
	assert.InDelta(t, 7.38905609893065, preciseExp(2.0), 1e-5)
	assert.InDelta(t, 8.0, precisePow(2.0, 3.0), 1e-5)
}
