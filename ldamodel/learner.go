package ldamodel

import (
	"fmt"
	"io"
	"math/rand"
	"sort"

	"github.com/golang/glog"

	"github.com/bobonovski/ldavb/ldamath"
	"github.com/bobonovski/ldavb/table"
)

// sortedFeature is the (doc_index, term_hash, value) triple of spec.md §3
// "sorted_features", adapted from the teacher's index_feature-equivalent
// sort-then-coalesce idiom (sstable.SortedMap's packed run-length entries,
// generalised here to a plain sortable slice since the minibatch list is
// transient rather than a persistent structure).
type sortedFeature struct {
	Doc      uint32
	TermHash uint32
	X        float32
}

// Learner is the streaming online-VB LDA learner of spec.md §4.5/§4.6: a
// single-threaded, synchronous pipeline (spec.md §5) that owns the hashed
// weight table, the pending-minibatch buffers, and the lazy-decay history.
type Learner struct {
	cfg    Config
	kernel ldamath.Kernel
	table  *table.WeightTable

	decayLevels    *decayTable
	exampleT       int64
	totalLambda    []float32
	totalLambdaSet bool
	digammas       []float32
	totalNew       []float32

	gammaNew  []float32
	gammaOld  []float32
	elogtheta []float32
	v         []float32

	examples       []Document
	docLengths     []float32
	sortedFeatures []sortedFeature

	lastPredictions [][]float32

	// SumLoss and SumLossSinceLastDump accumulate the negative held-out
	// likelihood estimate across non-empty documents, mirroring
	// lda_core.cc's all->sd->sum_loss bookkeeping (SPEC_FULL §5.4).
	SumLoss              float64
	SumLossSinceLastDump float64

	auditWriter io.Writer
}

// NewLearner validates cfg, allocates the weight table, and randomly
// initialises it (lda_core.cc's save_load random-initialisation branch;
// SPEC_FULL §5.1).
func NewLearner(cfg Config) (*Learner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	tbl := table.New(cfg.K, cfg.W)
	seed := cfg.Seed
	if seed == 0 {
		seed = 1
	}
	rng := rand.New(rand.NewSource(seed))
	tbl.Randomize(rng, cfg.D, cfg.InitialT)

	l := &Learner{
		cfg:    cfg,
		kernel: ldamath.New(cfg.Mode),
		table:  tbl,
		// decayLevels is based at InitialT, so every row's t_last (also
		// seeded to InitialT by Randomize above) is already a valid
		// absolute index into it, however far InitialT has advanced.
		decayLevels: newDecayTableAt(int(cfg.InitialT)),
		exampleT:    int64(cfg.InitialT),
		totalLambda: make([]float32, cfg.K),
		totalNew:    make([]float32, cfg.K),
		digammas:    make([]float32, cfg.K),
		gammaNew:    make([]float32, cfg.K),
		gammaOld:    make([]float32, cfg.K),
		elogtheta:   make([]float32, cfg.K),
		v:           make([]float32, uint64(cfg.K)*uint64(cfg.Minibatch)),
	}
	return l, nil
}

// Table exposes the underlying weight table, e.g. for saving a model.
func (l *Learner) Table() *table.WeightTable { return l.table }

// ExampleT returns the example counter: Config.InitialT plus the number
// of minibatches processed so far.
func (l *Learner) ExampleT() int64 { return l.exampleT }

// LastPredictions returns one length-K gamma slice per document processed
// in the most recently completed learnBatch (spec.md §6 "Output
// contract"). The slices are owned by the Learner and are only valid
// until the next Accept call that triggers another minibatch.
func (l *Learner) LastPredictions() [][]float32 { return l.lastPredictions }

// SetAuditWriter enables per-document audit tracing (SPEC_FULL §5.3):
// when non-nil, Accept writes one line per accepted document's
// (term, weight) pairs before it is queued.
func (l *Learner) SetAuditWriter(w io.Writer) { l.auditWriter = w }

// ResetSinceLastDump zeroes SumLossSinceLastDump, the way a periodic
// progress dump would after reporting a loss delta.
func (l *Learner) ResetSinceLastDump() { l.SumLossSinceLastDump = 0 }

func (l *Learner) writeAudit(doc Document) {
	for _, f := range doc.Features {
		fmt.Fprintf(l.auditWriter, "%d:%g ", f.TermHash, f.X)
	}
	fmt.Fprintln(l.auditWriter)
}

// Accept implements spec.md §4.6: push the example, flatten its features
// into sortedFeatures, accumulate doc length, and trigger a minibatch
// update once the pending count reaches Minibatch.
func (l *Learner) Accept(doc Document) {
	if l.auditWriter != nil {
		l.writeAudit(doc)
	}

	docIdx := uint32(len(l.examples))
	l.examples = append(l.examples, doc)
	l.docLengths = append(l.docLengths, doc.TotalWeight())
	for _, f := range doc.Features {
		l.sortedFeatures = append(l.sortedFeatures, sortedFeature{
			Doc:      docIdx,
			TermHash: f.TermHash,
			X:        f.X,
		})
	}

	if uint32(len(l.examples)) == l.cfg.Minibatch {
		l.learnBatch()
	}
}

// EndPass implements spec.md §4.6: flush any pending partial minibatch.
func (l *Learner) EndPass() {
	if len(l.examples) > 0 {
		l.learnBatch()
	}
}

// EndExamples implements spec.md §4.4/§4.6: bring every row current using
// the final decay level, and fast-forward its synchronisation point so a
// second call is a no-op (testable property 6, "idempotent end").
func (l *Learner) EndExamples() {
	lastIdx := l.decayLevels.lastIndex()
	l.table.ForEachRow(func(w uint32) {
		tlast := int(l.table.TLast(w))
		decay := l.decayLevels.factor(lastIdx, tlast)
		lambda := l.table.Lambda(w)
		for k := range lambda {
			lambda[k] *= decay
		}
		l.table.SetTLast(w, float32(lastIdx))
	})
}

func (l *Learner) rowU(termHash uint32) []float32 {
	return l.table.U(l.table.Index(termHash))
}

// learnBatch implements spec.md §4.5.
func (l *Learner) learnBatch() {
	if len(l.sortedFeatures) == 0 {
		// spec.md §7 "Empty minibatch": release with zero loss, not an
		// error.
		l.examples = l.examples[:0]
		l.docLengths = l.docLengths[:0]
		l.sortedFeatures = l.sortedFeatures[:0]
		l.lastPredictions = nil
		return
	}

	if !l.totalLambdaSet {
		for k := range l.totalLambda {
			l.totalLambda[k] = 0
		}
		l.table.ForEachRow(func(w uint32) {
			lambda := l.table.Lambda(w)
			for k, v := range lambda {
				l.totalLambda[k] += v
			}
		})
		l.totalLambdaSet = true
	}

	l.exampleT++
	n := int(l.exampleT)
	for k := range l.totalNew {
		l.totalNew[k] = 0
	}

	batchSize := len(l.examples)

	sort.Slice(l.sortedFeatures, func(i, j int) bool {
		return l.sortedFeatures[i].TermHash < l.sortedFeatures[j].TermHash
	})

	// spec.md §4.4's own min(1, eta) clamp, applied before D/batch_size
	// scaling — distinct from Config.Validate's one-time "learning rate
	// too high" warning on the configured base rate. mu is taken from the
	// unscaled eta, before the D/batch_size blow-up, exactly as
	// lda_core.cc computes minuseta before rescaling eta for the
	// gradient step.
	eta := l.kernel.Pow(float32(l.exampleT), -l.cfg.PowerT) * l.cfg.Eta0
	if eta > 1 {
		eta = 1
	}
	mu := 1 - eta
	l.decayLevels.append(logf(mu))
	eta *= l.cfg.D / float32(batchSize)

	additional := float32(l.table.Rows()) * l.cfg.Rho
	for k := range l.digammas {
		l.digammas[k] = l.kernel.Digamma(l.totalLambda[k] + additional)
	}

	// First pass: per-term (coalesced) lazy decay + expElogbeta.
	haveLast := false
	var lastTerm uint32
	for i := range l.sortedFeatures {
		term := l.sortedFeatures[i].TermHash
		if haveLast && term == lastTerm {
			continue
		}
		haveLast = true
		lastTerm = term

		row := l.table.Index(term)
		tlast := int(l.table.TLast(row))
		decay := l.decayLevels.factor(n-1, tlast)

		lambda := l.table.Lambda(row)
		u := l.table.U(row)
		for k := range lambda {
			lambda[k] *= decay
			u[k] = lambda[k] + l.cfg.Rho
		}
		l.table.SetTLast(row, float32(n))
		l.kernel.ExpDigammify2(u, l.digammas)
	}

	// Per-document inference against the snapshot taken above.
	K := int(l.cfg.K)
	predictions := make([][]float32, batchSize)
	glog.V(2).Infof("ldamodel: learnBatch minibatch=%d docs=%d terms=%d", n, batchSize, len(l.sortedFeatures))
	for d := 0; d < batchSize; d++ {
		doc := l.examples[d]
		vSlice := l.v[d*K : (d+1)*K]
		predicted := make([]float32, K)
		score := docLoop(l.kernel, l.cfg.Alpha, l.cfg.Epsilon, doc, l.rowU,
			l.gammaNew, l.gammaOld, vSlice, l.elogtheta, predicted)
		predictions[d] = predicted

		if l.docLengths[d] > 0 {
			l.SumLoss -= float64(score)
			l.SumLossSinceLastDump -= float64(score)
		}
	}
	l.lastPredictions = predictions

	// Second pass: per-term (coalesced) shrink + gradient accumulation.
	i := 0
	for i < len(l.sortedFeatures) {
		term := l.sortedFeatures[i].TermHash
		row := l.table.Index(term)
		lambda := l.table.Lambda(row)
		u := l.table.U(row)
		for k := range lambda {
			lambda[k] *= mu
		}

		j := i
		for j < len(l.sortedFeatures) && l.sortedFeatures[j].TermHash == term {
			sf := l.sortedFeatures[j]
			vSlice := l.v[int(sf.Doc)*K : (int(sf.Doc)+1)*K]

			var dot float32
			for k := range u {
				dot += u[k] * vSlice[k]
			}
			c := eta * sf.X / dot

			for k := range lambda {
				add := u[k] * vSlice[k] * c
				lambda[k] += add
				l.totalNew[k] += add
			}
			j++
		}
		i = j
	}

	for k := range l.totalLambda {
		l.totalLambda[k] = mu*l.totalLambda[k] + l.totalNew[k]
	}

	l.sortedFeatures = l.sortedFeatures[:0]
	l.examples = l.examples[:0]
	l.docLengths = l.docLengths[:0]
}
