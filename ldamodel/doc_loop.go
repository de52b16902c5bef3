package ldamodel

import (
	"github.com/bobonovski/ldavb/ldamath"
)

// Feature is one (term, weight) occurrence inside a document.
type Feature struct {
	TermHash uint32
	X        float32
}

// Document is an unordered multiset of document features (spec.md §6
// "Input contract"): a bag of (term_hash, positive real weight) pairs,
// with the term hash already reduced by the upstream feature source.
type Document struct {
	Features []Feature
}

// TotalWeight returns Σx over the document's features.
func (d Document) TotalWeight() float32 {
	var sum float32
	for _, f := range d.Features {
		sum += f.X
	}
	return sum
}

// rowU looks up the per-minibatch expElogbeta scratch for a term hash,
// produced by the minibatch's first pass (spec.md §4.5 step 7).
type rowU func(termHash uint32) []float32

// averageDiff implements spec.md §4.3 step 3's termination test:
// Σ_k |gamma_new[k] - gamma_old[k]| / Σ_k gamma_new[k].
func averageDiff(oldGamma, newGamma []float32) float32 {
	var diff, norm float32
	for i := range newGamma {
		d := newGamma[i] - oldGamma[i]
		if d < 0 {
			d = -d
		}
		diff += d
		norm += newGamma[i]
	}
	return diff / norm
}

// thetaKL returns E_q[log p(theta)] - E_q[log q(theta)] for the document's
// posterior gamma (spec.md §4.3 "theta_kl").
func thetaKL(k ldamath.Kernel, alpha float32, gamma, elogthetaScratch []float32) float32 {
	var gammasum float32
	for i, g := range gamma {
		elogthetaScratch[i] = k.Digamma(g)
		gammasum += g
	}
	digammasum := k.Digamma(gammasum)
	lgammasum := k.LogGamma(gammasum)

	K := float32(len(gamma))
	kl := -(K * k.LogGamma(alpha))
	kl += k.LogGamma(alpha*K) - lgammasum
	for i, g := range gamma {
		elogthetaScratch[i] -= digammasum
		kl += (alpha - g) * elogthetaScratch[i]
		kl += k.LogGamma(g)
	}
	return kl
}

// docLoop runs the fixed-point per-document inner variational loop of
// spec.md §4.3. gammaNew/gammaOld/v/elogtheta are caller-owned length-K
// scratch slices, reused across documents in a minibatch instead of the
// teacher's file-level new_gamma/old_gamma globals (spec.md §9 "Global
// scratch elimination"). On return v holds the document's final
// expElogtheta (consumed by the minibatch's second pass) and predicted
// holds a copy of the document's final gamma (spec.md §4.3 step 4,
// "Output contract" in spec.md §6). The returned score is the
// contribution described by spec.md §4.3 steps 3-5, already divided by
// the document's total weight; for an empty document that division is by
// zero, so learnBatch leaves such documents out of the loss sums.
func docLoop(k ldamath.Kernel, alpha, epsilonConv float32, doc Document, u rowU,
	gammaNew, gammaOld, v, elogtheta, predicted []float32) float32 {

	for i := range gammaNew {
		gammaNew[i] = 1
		gammaOld[i] = 0
	}

	var score float32
	for {
		copy(v, gammaNew)
		k.ExpDigammify(v)

		copy(gammaOld, gammaNew)
		for i := range gammaNew {
			gammaNew[i] = 0
		}

		score = 0
		for _, f := range doc.Features {
			uw := u(f.TermHash)
			var dot float32
			for i := range uw {
				dot += uw[i] * v[i]
			}
			cw := 1.0 / dot
			score -= f.X * logf(cw)
			xcw := f.X * cw
			for i := range gammaNew {
				gammaNew[i] += xcw * uw[i]
			}
		}
		for i := range gammaNew {
			gammaNew[i] = gammaNew[i]*v[i] + alpha
		}

		if averageDiff(gammaOld, gammaNew) <= epsilonConv {
			break
		}
	}

	copy(predicted, gammaNew)

	score += thetaKL(k, alpha, gammaNew, elogtheta)

	total := doc.TotalWeight()
	return score / total
}
