// Package table implements the fixed-size, hash-addressed term-topic
// weight table that ldamodel's learner treats as an opaque contiguous
// array indexed by a mask (spec.md §3), adapted from the teacher's
// sstable.Float32Matrix / matrix.denseMatrix row-major float stores.
package table

import (
	"errors"
	"math"
	"math/rand"
)

// ErrBadShape mirrors the teacher's sstable.ErrBadShape/matrix.ErrBadShape:
// a non-positive dimension is a programmer error, not a recoverable one.
var ErrBadShape = errors.New("table: non-positive dimension not allowed")

// ErrIndexOutOfRange mirrors matrix.ErrIndexOutOfRange.
var ErrIndexOutOfRange = errors.New("table: index out of range")

// nextPow2 returns the smallest power of two >= x (x > 0).
func nextPow2(x uint32) uint32 {
	if x == 0 {
		return 1
	}
	p := uint32(1)
	for p < x {
		p <<= 1
	}
	return p
}

// WeightTable is the flat W*stride row store of spec.md §3: each row is
// [lambda_0..lambda_{K-1} | t_last | u_0..u_{K-1} | pad], contiguous so
// per-term work stays cache-local (spec.md §9 "Aliased scratch in each
// row"). W is forced to a power of two so Mask() can replace a modulo
// with a bitwise AND, and Stride is forced to a power of two >= 2K+1 so
// SIMD row access can assume a 16-byte-friendly layout.
type WeightTable struct {
	k      uint32
	w      uint32
	mask   uint32
	stride uint32
	data   []float32
}

// New allocates a WeightTable for k topics and (at least) w rows, rounding
// w up to a power of two. Panics (ErrBadShape) on non-positive dimensions,
// the same contract the teacher's matrix constructors use.
func New(k, w uint32) *WeightTable {
	if k == 0 || w == 0 {
		panic(ErrBadShape)
	}
	rows := nextPow2(w)
	stride := nextPow2(2*k + 1)
	return &WeightTable{
		k:      k,
		w:      rows,
		mask:   rows - 1,
		stride: stride,
		data:   make([]float32, uint64(rows)*uint64(stride)),
	}
}

// Topics returns K.
func (t *WeightTable) Topics() uint32 { return t.k }

// Rows returns W.
func (t *WeightTable) Rows() uint32 { return t.w }

// Mask returns W-1.
func (t *WeightTable) Mask() uint32 { return t.mask }

// Stride returns the row width.
func (t *WeightTable) Stride() uint32 { return t.stride }

// Index maps a term hash to its row index via the mask, per spec.md §3's
// "input contract": the hash is already reduced upstream, so no further
// hashing happens here.
func (t *WeightTable) Index(termHash uint32) uint32 {
	return termHash & t.mask
}

func (t *WeightTable) rowOffset(w uint32) int {
	if w >= t.w {
		panic(ErrIndexOutOfRange)
	}
	return int(w) * int(t.stride)
}

// Lambda returns the K-wide lambda slice of row w, in place over the
// backing array (no copy).
func (t *WeightTable) Lambda(w uint32) []float32 {
	off := t.rowOffset(w)
	return t.data[off : off+int(t.k) : off+int(t.k)]
}

// TLast returns the example-counter at which row w was last decayed.
func (t *WeightTable) TLast(w uint32) float32 {
	off := t.rowOffset(w)
	return t.data[off+int(t.k)]
}

// SetTLast sets the example-counter at which row w was last decayed.
func (t *WeightTable) SetTLast(w uint32, v float32) {
	off := t.rowOffset(w)
	t.data[off+int(t.k)] = v
}

// U returns the K-wide per-minibatch scratch slice of row w.
func (t *WeightTable) U(w uint32) []float32 {
	off := t.rowOffset(w)
	start := off + int(t.k) + 1
	return t.data[start : start+int(t.k) : start+int(t.k)]
}

// ForEachRow calls fn once per row index 0..W-1.
func (t *WeightTable) ForEachRow(fn func(w uint32)) {
	for w := uint32(0); w < t.w; w++ {
		fn(w)
	}
}

// Randomize fills every row's lambda with a random positive pseudocount
// scaled so the prior mass roughly matches lda_D/K, mirroring
// lda_core.cc's save_load random-initialisation branch
// (all.random_weights), and sets t_last to initialT so the lazy-decay
// bookkeeping starts from a consistent synchronisation point (spec.md §9:
// the Open Question on exact integer representability of t_last).
func (t *WeightTable) Randomize(rng *rand.Rand, ldaD float32, initialT float32) {
	scale := ldaD / float32(t.k) / float32(t.w) * 200
	t.ForEachRow(func(w uint32) {
		lambda := t.Lambda(w)
		for k := range lambda {
			u := rng.Float64()
			if u <= 0 {
				u = 1e-12
			}
			lambda[k] = float32(-math.Log(u)+1.0) * scale
		}
		t.SetTLast(w, initialT)
	})
}
