package ldamodel

import "math"

// expf/logf are the plain (non math-mode-dispatched) exp/log calls used
// by the decay bookkeeping and eta computation, mirroring lda_core.cc's
// direct std::exp/std::log calls in learn_batch and end_examples — only
// the four primitives named in spec.md §4.1 (digamma, log-gamma, exp,
// pow used for hyperparameter scaling) go through ldamath.Kernel.
func expf(x float32) float32 {
	return float32(math.Exp(float64(x)))
}

func logf(x float32) float32 {
	return float32(math.Log(float64(x)))
}

func minf32(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}
