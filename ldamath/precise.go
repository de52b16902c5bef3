package ldamath

import "math"

// precise.go is the library-quality math pathway (spec.md §4.1 "precise").
// The standard library's math package has no digamma, so preciseDigamma
// hand-rolls the usual recurrence-plus-asymptotic-series evaluation found
// in numerical libraries (e.g. Cephes' psi): shift x above the recurrence
// threshold with psi(x) = psi(x+1) - 1/x, then apply the standard
// asymptotic expansion in 1/x^2. log-gamma, exp and pow all already have
// library-grade implementations in math, so those forward directly.

func preciseDigamma(x32 float32) float32 {
	x := float64(x32)
	var result float64
	for x < 6 {
		result -= 1 / x
		x++
	}
	f := 1 / (x * x)
	result += math.Log(x) - 0.5/x -
		f*(1.0/12-f*(1.0/120-f*(1.0/252-f*(1.0/240-f*(1.0/132-f*(691.0/32760-f*1.0/12))))))
	return float32(result)
}

func preciseLogGamma(x float32) float32 {
	lg, _ := math.Lgamma(float64(x))
	return float32(lg)
}

func preciseExp(x float32) float32 {
	return float32(math.Exp(float64(x)))
}

func precisePow(x, p float32) float32 {
	return float32(math.Pow(float64(x), float64(p)))
}
