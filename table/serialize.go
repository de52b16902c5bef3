package table

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
)

// serialize.go implements the persisted model layout of spec.md §6, adapted
// from the teacher's sstable.Float32Matrix.Serialize/Deserialize (shape
// header + per-cell rows) and lda_core.cc's save_load binary/text duality
// (spec.md supplement §5.1): one row per w = 0..W-1, each holding
// lambda(w,k) + rho for k = 0..K-1. Callers are responsible for calling a
// learner's EndExamples first so rows reflect the effective, not merely
// stored, value (spec.md §6).

// SaveBinary writes the table in the binary row layout: per row, a
// little-endian uint32 index followed by K little-endian float32 values
// (lambda(w,k) + rho).
func (t *WeightTable) SaveBinary(w io.Writer, rho float32) error {
	bw := bufio.NewWriter(w)
	var idxBuf [4]byte
	var valBuf [4]byte
	for i := uint32(0); i < t.w; i++ {
		binary.LittleEndian.PutUint32(idxBuf[:], i)
		if _, err := bw.Write(idxBuf[:]); err != nil {
			return err
		}
		lambda := t.Lambda(i)
		for _, l := range lambda {
			binary.LittleEndian.PutUint32(valBuf[:], math.Float32bits(l+rho))
			if _, err := bw.Write(valBuf[:]); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}

// SaveText writes the text variant: each row is "<i> f0 f1 ... f{K-1}\n".
func (t *WeightTable) SaveText(w io.Writer, rho float32) error {
	bw := bufio.NewWriter(w)
	for i := uint32(0); i < t.w; i++ {
		if _, err := fmt.Fprintf(bw, "%d ", i); err != nil {
			return err
		}
		lambda := t.Lambda(i)
		for k, l := range lambda {
			sep := " "
			if k == len(lambda)-1 {
				sep = ""
			}
			if _, err := fmt.Fprintf(bw, "%e%s", l+rho, sep); err != nil {
				return err
			}
		}
		if _, err := bw.WriteString("\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// SaveBinaryFile opens fn and writes the binary layout to it.
func (t *WeightTable) SaveBinaryFile(fn string, rho float32) error {
	f, err := os.Create(fn)
	if err != nil {
		return fmt.Errorf("table: open %s: %w", fn, err)
	}
	defer f.Close()
	if err := t.SaveBinary(f, rho); err != nil {
		return fmt.Errorf("table: write %s: %w", fn, err)
	}
	return nil
}

// SaveTextFile opens fn and writes the text layout to it.
func (t *WeightTable) SaveTextFile(fn string, rho float32) error {
	f, err := os.Create(fn)
	if err != nil {
		return fmt.Errorf("table: open %s: %w", fn, err)
	}
	defer f.Close()
	if err := t.SaveText(f, rho); err != nil {
		return fmt.Errorf("table: write %s: %w", fn, err)
	}
	return nil
}

// LoadBinary reads rows written by SaveBinary back into t, subtracting rho
// to recover stored lambda. t must already be sized to match (k, w).
func (t *WeightTable) LoadBinary(r io.Reader, rho float32) error {
	br := bufio.NewReader(r)
	var idxBuf [4]byte
	var valBuf [4]byte
	for {
		if _, err := io.ReadFull(br, idxBuf[:]); err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		idx := binary.LittleEndian.Uint32(idxBuf[:])
		if idx >= t.w {
			return fmt.Errorf("table: row index %d out of range (W=%d)", idx, t.w)
		}
		lambda := t.Lambda(idx)
		for k := range lambda {
			if _, err := io.ReadFull(br, valBuf[:]); err != nil {
				return fmt.Errorf("table: truncated row %d: %w", idx, err)
			}
			lambda[k] = math.Float32frombits(binary.LittleEndian.Uint32(valBuf[:])) - rho
		}
	}
}

// LoadBinaryFile opens fn and loads the binary layout from it.
func (t *WeightTable) LoadBinaryFile(fn string, rho float32) error {
	f, err := os.Open(fn)
	if err != nil {
		return fmt.Errorf("table: open %s: %w", fn, err)
	}
	defer f.Close()
	if err := t.LoadBinary(f, rho); err != nil {
		return fmt.Errorf("table: read %s: %w", fn, err)
	}
	return nil
}
