package table

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewRoundsToPowerOfTwo(t *testing.T) {
	tbl := New(3, 10)
	assert.Equal(t, uint32(16), tbl.Rows())
	assert.Equal(t, uint32(15), tbl.Mask())
	// stride >= 2*3+1=7, next pow2 == 8
	assert.Equal(t, uint32(8), tbl.Stride())
}

func TestNewPanicsOnBadShape(t *testing.T) {
	assert.Panics(t, func() { New(0, 10) })
	assert.Panics(t, func() { New(3, 0) })
}

func TestRowLayoutDoesNotAlias(t *testing.T) {
	tbl := New(3, 4)
	lambda := tbl.Lambda(0)
	u := tbl.U(0)
	for i := range lambda {
		lambda[i] = 1.0
	}
	for i := range u {
		u[i] = 2.0
	}
	for i := range lambda {
		assert.Equal(t, float32(1.0), lambda[i])
	}
	for i := range u {
		assert.Equal(t, float32(2.0), u[i])
	}
	tbl.SetTLast(0, 5)
	assert.Equal(t, float32(5), tbl.TLast(0))
	// lambda/u untouched by the t_last write
	for i := range lambda {
		assert.Equal(t, float32(1.0), lambda[i])
	}
}

func TestIndexMasksHash(t *testing.T) {
	tbl := New(2, 8)
	assert.Equal(t, uint32(3), tbl.Index(11)) // 11 & 7 == 3
	assert.Equal(t, uint32(3), tbl.Index(11+8))
}

func TestBinarySaveLoadRoundTrip(t *testing.T) {
	tbl := New(2, 4)
	for w := uint32(0); w < tbl.Rows(); w++ {
		lambda := tbl.Lambda(w)
		for k := range lambda {
			lambda[k] = float32(w)*10 + float32(k)
		}
	}

	var buf bytes.Buffer
	assert.NoError(t, tbl.SaveBinary(&buf, 0.1))

	loaded := New(2, 4)
	assert.NoError(t, loaded.LoadBinary(&buf, 0.1))

	for w := uint32(0); w < tbl.Rows(); w++ {
		assert.InDeltaSlice(t, tbl.Lambda(w), loaded.Lambda(w), 1e-4)
	}
}

func TestSaveTextProducesOneLinePerRow(t *testing.T) {
	tbl := New(2, 2)
	var buf bytes.Buffer
	assert.NoError(t, tbl.SaveText(&buf, 0.1))
	lines := bytes.Count(buf.Bytes(), []byte("\n"))
	assert.Equal(t, int(tbl.Rows()), lines)
}

func TestRandomizeSetsTLastAndPositiveLambda(t *testing.T) {
	tbl := New(4, 8)
	rng := rand.New(rand.NewSource(1))
	tbl.Randomize(rng, 10000, 3)
	tbl.ForEachRow(func(w uint32) {
		assert.Equal(t, float32(3), tbl.TLast(w))
		for _, v := range tbl.Lambda(w) {
			assert.Greater(t, v, float32(0))
		}
	})
}
