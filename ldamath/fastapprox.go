package ldamath

import "math"

// fastapprox.go reproduces the closed-form rational/log approximations over
// IEEE-754 binary32 pinned by spec.md §4.1, grounded on
// original_source/vowpalwabbit/lda_core.cc's ldamath::fastlog2/fastpow2/
// fastdigamma/fastlgamma. The constants are part of the contract: tests
// pin their numerical output, so none of them may be "cleaned up".

func fastlog2(x float32) float32 {
	bits := math.Float32bits(x)
	mx := (bits & 0x007FFFFF) | (0x7e << 23)
	mxF := math.Float32frombits(mx)

	vx := float32(bits) * (1.0 / float32(1<<23))

	return vx - 124.22544637 - 1.498030302*mxF - 1.72587999/(0.3520887068+mxF)
}

func fastlog(x float32) float32 {
	return 0.69314718 * fastlog2(x)
}

func fastpow2(p float32) float32 {
	var offset float32
	if p < 0 {
		offset = 1.0
	}
	clipp := p
	if clipp < -126.0 {
		clipp = -126.0
	}
	w := int32(clipp)
	z := clipp - float32(w) + offset

	approx := uint32((1 << 23) * (clipp + 121.2740838 + 27.7280233/(4.84252568-z) - 1.49012907*z))
	return math.Float32frombits(approx)
}

func fastexp(p float32) float32 {
	return fastpow2(1.442695040 * p)
}

func fastpow(x, p float32) float32 {
	return fastpow2(p * fastlog2(x))
}

func fastdigamma(x float32) float32 {
	t := 2 + x
	return -(1+2*x)/(x*(1+x)) - (13+6*x)/(12*t*t) + fastlog(t)
}

func fastlgamma(x float32) float32 {
	logterm := fastlog(x * (1 + x) * (2 + x))
	q := 3 + x
	return -2.081061466 - x + 0.0833333/q - logterm + (2.5+x)*fastlog(q)
}

func fastExp(x float32) float32      { return fastexp(x) }
func fastPow(x, p float32) float32   { return fastpow(x, p) }
func fastDigamma(x float32) float32  { return fastdigamma(x) }
func fastLgamma(x float32) float32   { return fastlgamma(x) }
