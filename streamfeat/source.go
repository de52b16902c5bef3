// Package streamfeat turns a line-oriented document file into the stream
// of ldamodel.Document values a Learner consumes, adapted from the
// teacher's corpus.Corpus.Load — but document-at-a-time instead of
// slurping the whole corpus into a map, since an online learner is not
// allowed to assume the input fits in memory (spec.md §6 "Input
// contract").
package streamfeat

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/bobonovski/ldavb/ldamodel"
)

// Source reads "docId termHash:weight termHash:weight ..." lines, the
// same wire format as the teacher's corpus loader, and yields one
// ldamodel.Document per line. Malformed lines are skipped with a warning,
// exactly as corpus.Corpus.Load does, rather than aborting the stream.
type Source struct {
	scanner   *bufio.Scanner
	onBadLine func(line string, err error)
	lineNo    int
}

// NewSource wraps r. onBadLine may be nil, in which case bad lines are
// silently skipped.
func NewSource(r io.Reader, onBadLine func(line string, err error)) *Source {
	return &Source{
		scanner:   bufio.NewScanner(r),
		onBadLine: onBadLine,
	}
}

// Next returns the next document, or io.EOF once the underlying reader is
// exhausted. It keeps scanning past malformed lines rather than failing
// the whole stream.
func (s *Source) Next() (ldamodel.Document, error) {
	for s.scanner.Scan() {
		s.lineNo++
		line := s.scanner.Text()
		doc, err := parseLine(line)
		if err != nil {
			if s.onBadLine != nil {
				s.onBadLine(line, err)
			}
			continue
		}
		return doc, nil
	}
	if err := s.scanner.Err(); err != nil {
		return ldamodel.Document{}, err
	}
	return ldamodel.Document{}, io.EOF
}

func parseLine(line string) (ldamodel.Document, error) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return ldamodel.Document{}, fmt.Errorf("streamfeat: bad document line %q", line)
	}

	// fields[0] is the document id; it is validated and then discarded,
	// since the learner itself is stateless across documents (spec.md §5).
	if _, err := strconv.ParseUint(fields[0], 10, 32); err != nil {
		return ldamodel.Document{}, fmt.Errorf("streamfeat: bad document id %q: %w", fields[0], err)
	}

	doc := ldamodel.Document{Features: make([]ldamodel.Feature, 0, len(fields)-1)}
	for _, kv := range fields[1:] {
		parts := strings.SplitN(kv, ":", 2)
		if len(parts) != 2 {
			return ldamodel.Document{}, fmt.Errorf("streamfeat: bad feature %q", kv)
		}
		term, err := strconv.ParseUint(parts[0], 10, 32)
		if err != nil {
			return ldamodel.Document{}, fmt.Errorf("streamfeat: bad term hash %q: %w", parts[0], err)
		}
		weight, err := strconv.ParseFloat(parts[1], 32)
		if err != nil {
			return ldamodel.Document{}, fmt.Errorf("streamfeat: bad weight %q: %w", parts[1], err)
		}
		doc.Features = append(doc.Features, ldamodel.Feature{
			TermHash: uint32(term),
			X:        float32(weight),
		})
	}
	return doc, nil
}

// RecommendedRingSize returns the smallest power of two at least as large
// as minibatch, for sizing a buffered channel between a Source and a
// Learner (SPEC_FULL §5.2; the same next-power-of-two rounding as the
// table package's nextPow2). A zero minibatch yields 1.
func RecommendedRingSize(minibatch uint32) uint32 {
	want := minibatch
	if want == 0 {
		want = 1
	}
	size := uint32(1)
	for size < want {
		size <<= 1
	}
	return size
}
