package ldamath

// transform.go implements the two gamma transforms of spec.md §4.2 on top
// of the scalar/vector kernels.

// ExpDigammify replaces each g[i] with max(ε, exp(ψ(g[i]) − ψ(Σg))).
func (k Kernel) ExpDigammify(g []float32) {
	if k.mode == ModeSIMD {
		simdExpdigammify(g)
		return
	}

	var sum float32
	for _, v := range g {
		sum += v
	}
	sPsi := k.Digamma(sum)

	for i, v := range g {
		g[i] = maxf32(underflowThreshold, k.Exp(k.Digamma(v)-sPsi))
	}
}

// ExpDigammify2 replaces each g[i] with max(ε, exp(ψ(g[i]) − norm[i])).
// len(norm) must be >= len(g).
func (k Kernel) ExpDigammify2(g, norm []float32) {
	if k.mode == ModeSIMD {
		simdExpdigammify2(g, norm)
		return
	}

	for i, v := range g {
		g[i] = maxf32(underflowThreshold, k.Exp(k.Digamma(v)-norm[i]))
	}
}
