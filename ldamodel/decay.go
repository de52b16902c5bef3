package ldamodel

import "fmt"

// decayTable is the lazy-decay bookkeeping of spec.md §4.4: an append-only,
// strictly non-increasing sequence of cumulative log-decay, so any row
// last synchronised at counter t can be brought current to counter t'
// with a single multiply by exp(levels[t'] - levels[t]) instead of
// touching every row on every minibatch (spec.md §9 "Row decay as a
// prefix-sum trick"). levels[0] always represents base (the state
// before any minibatch has run); base is example_t's starting point,
// i.e. config.InitialT, so callers can index at/factor/lastIndex by the
// *real* example_t counter (spec.md §9's Open Question on t_last's exact
// integer representability is about that real counter, not an
// internally-renumbered one) without decayTable ever needing a slot for
// every unreached counter value below InitialT.
type decayTable struct {
	base   int
	levels []float32
}

func newDecayTable() *decayTable {
	return newDecayTableAt(0)
}

// newDecayTableAt starts the table's absolute indexing at base, for a
// learner whose example_t begins at config.InitialT instead of 0.
func newDecayTableAt(base int) *decayTable {
	return &decayTable{base: base, levels: []float32{0}}
}

// last returns the most recently appended cumulative level.
func (d *decayTable) last() float32 {
	return d.levels[len(d.levels)-1]
}

// lastIndex returns the absolute index of the most recently appended level.
func (d *decayTable) lastIndex() int {
	return d.base + len(d.levels) - 1
}

// append records the next cumulative level: last() + logMu.
func (d *decayTable) append(logMu float32) {
	d.levels = append(d.levels, d.last()+logMu)
}

// at returns the level at absolute index i. Per spec.md §9's Open
// Question, the sequence is append-only and must be indexed by an
// in-range absolute counter; an out-of-range index is an internal
// invariant violation, not a recoverable condition, so it fails loudly
// rather than silently wrapping.
func (d *decayTable) at(i int) float32 {
	idx := i - d.base
	if idx < 0 || idx >= len(d.levels) {
		panic(fmt.Sprintf("ldamodel: decay table index %d out of range [%d,%d)", i, d.base, d.base+len(d.levels)))
	}
	return d.levels[idx]
}

// factor returns the correction multiplier min(1, exp(levels[atIndex] -
// levels[fromIndex])) used to bring a row synchronised at fromIndex
// current to atIndex (spec.md §4.4).
func (d *decayTable) factor(atIndex, fromIndex int) float32 {
	decayComponent := d.at(atIndex) - d.at(fromIndex)
	e := expf(decayComponent)
	if e > 1 {
		return 1
	}
	return e
}
