package streamfeat

import (
	"github.com/cheggaaa/pb/v3"

	"github.com/bobonovski/ldavb/ldamodel"
)

// ProgressReader wraps a Source with a terminal progress bar over a
// known document count, the same pb.StartNew/bar.Increment idiom the
// example pack's batch trainers use to report pass progress.
type ProgressReader struct {
	src *Source
	bar *pb.ProgressBar
}

// NewProgressReader starts a progress bar sized to total documents.
func NewProgressReader(src *Source, total int) *ProgressReader {
	return &ProgressReader{src: src, bar: pb.StartNew(total)}
}

// Next delegates to the wrapped Source and advances the bar by one.
func (p *ProgressReader) Next() (ldamodel.Document, error) {
	d, err := p.src.Next()
	if err != nil {
		return ldamodel.Document{}, err
	}
	p.bar.Increment()
	return d, nil
}

// Finish stops the progress bar, printing the final line.
func (p *ProgressReader) Finish() {
	p.bar.Finish()
}
