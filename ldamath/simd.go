package ldamath

import "unsafe"

// simd.go applies the fast-approximation formulas four float32 lanes at a
// time, grounded on original_source/vowpalwabbit/lda_core.cc's
// vexpdigammify/vexpdigammify_2 (themselves gated on SSE intrinsics). Go has
// no portable SIMD intrinsics outside cgo/assembly, and the one SIMD-codegen
// library in the retrieval pack (janpfeifer-go-highway) is built around a
// private-fork replace directive and per-architecture assembly stubs that
// nothing in this module can wire to (see DESIGN.md). This file instead
// reproduces the documented lane algorithm in portable Go: a scalar
// prologue until a 16-byte alignment boundary, four-wide batches, and a
// scalar tail, exactly as spec.md §4.2 describes. Unsupported alignment is
// simply the common case on this path and is handled by the prologue/tail,
// matching "unsupported SIMD configurations silently downgrade to
// fast-approx" since the per-lane math is identical to ModeFastApprox either
// way.

const laneWidth = 4
const alignBytes = 16

func isAligned16(p unsafe.Pointer) bool {
	return uintptr(p)%alignBytes == 0
}

// simdExpdigammify implements expdigammify (spec.md §4.2 step 1-3) by
// summing g, computing Sψ = digamma(S), then overwriting each element with
// max(ε, exp(digamma(g_i) - Sψ)). The reduction and the transform both walk
// g in three phases (scalar prologue, 4-wide body, scalar tail) the way
// vexpdigammify does; since there is no hardware lane register, the "4-wide"
// body processes four scalars per iteration.
func simdExpdigammify(g []float32) {
	n := len(g)
	if n == 0 {
		return
	}

	var extraSum float32
	var lane0, lane1, lane2, lane3 float32

	i := 0
	base := unsafe.Pointer(&g[0])
	for ; i < n && !isAligned16(unsafe.Add(base, i*4)); i++ {
		extraSum += g[i]
		g[i] = fastdigamma(g[i])
	}
	for ; i+laneWidth <= n; i += laneWidth {
		lane0 += g[i]
		lane1 += g[i+1]
		lane2 += g[i+2]
		lane3 += g[i+3]
		g[i] = fastdigamma(g[i])
		g[i+1] = fastdigamma(g[i+1])
		g[i+2] = fastdigamma(g[i+2])
		g[i+3] = fastdigamma(g[i+3])
	}
	for ; i < n; i++ {
		extraSum += g[i]
		g[i] = fastdigamma(g[i])
	}

	// two horizontal adds, then add the scalar-edge contribution.
	sum01 := lane0 + lane1
	sum23 := lane2 + lane3
	extraSum += sum01 + sum23
	sum := fastdigamma(extraSum)

	i = 0
	for ; i < n && !isAligned16(unsafe.Add(base, i*4)); i++ {
		g[i] = maxf32(underflowThreshold, fastexp(g[i]-sum))
	}
	for ; i+laneWidth <= n; i += laneWidth {
		g[i] = maxf32(underflowThreshold, fastexp(g[i]-sum))
		g[i+1] = maxf32(underflowThreshold, fastexp(g[i+1]-sum))
		g[i+2] = maxf32(underflowThreshold, fastexp(g[i+2]-sum))
		g[i+3] = maxf32(underflowThreshold, fastexp(g[i+3]-sum))
	}
	for ; i < n; i++ {
		g[i] = maxf32(underflowThreshold, fastexp(g[i]-sum))
	}
}

// simdExpdigammify2 implements expdigammify_2 (spec.md §4.2): no reduction,
// per-index normaliser n. norm is read with "unaligned loads" (it is simply
// indexed independently of g's alignment, as vexpdigammify_2 does with
// _mm_loadu_ps).
func simdExpdigammify2(g, norm []float32) {
	n := len(g)
	if n == 0 {
		return
	}
	base := unsafe.Pointer(&g[0])

	i := 0
	for ; i < n && !isAligned16(unsafe.Add(base, i*4)); i++ {
		g[i] = maxf32(underflowThreshold, fastexp(fastdigamma(g[i])-norm[i]))
	}
	for ; i+laneWidth <= n; i += laneWidth {
		g[i] = maxf32(underflowThreshold, fastexp(fastdigamma(g[i])-norm[i]))
		g[i+1] = maxf32(underflowThreshold, fastexp(fastdigamma(g[i+1])-norm[i+1]))
		g[i+2] = maxf32(underflowThreshold, fastexp(fastdigamma(g[i+2])-norm[i+2]))
		g[i+3] = maxf32(underflowThreshold, fastexp(fastdigamma(g[i+3])-norm[i+3]))
	}
	for ; i < n; i++ {
		g[i] = maxf32(underflowThreshold, fastexp(fastdigamma(g[i])-norm[i]))
	}
}

func maxf32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
