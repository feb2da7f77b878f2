package bitmap_test

import (
	"testing"

	"github.com/newhook/memsearch/bitmap"
	"github.com/stretchr/testify/assert"
)

func TestSetClearGet(t *testing.T) {
	b := bitmap.New(10)
	assert.False(t, b.Get(3))
	b.Set(3)
	assert.True(t, b.Get(3))
	b.Clear(3)
	assert.False(t, b.Get(3))
}

func TestPopCount(t *testing.T) {
	b := bitmap.New(200)
	b.Set(0)
	b.Set(63)
	b.Set(64)
	b.Set(199)
	assert.Equal(t, 4, b.PopCount())
}

func TestScanFirstLastEmpty(t *testing.T) {
	b := bitmap.New(64)
	assert.Equal(t, -1, b.ScanFirst())
	assert.Equal(t, -1, b.ScanLast())
}

func TestScanFirstLast(t *testing.T) {
	b := bitmap.New(200)
	b.Set(5)
	b.Set(150)
	assert.Equal(t, 5, b.ScanFirst())
	assert.Equal(t, 150, b.ScanLast())
}

func TestSetAllRespectsTailBits(t *testing.T) {
	b := bitmap.New(70)
	b.SetAll()
	assert.Equal(t, 70, b.PopCount())
	assert.Equal(t, 69, b.ScanLast())
}

func TestScanAcrossAllZeroWords(t *testing.T) {
	b := bitmap.New(256)
	b.Set(200)
	assert.Equal(t, 200, b.ScanFirst())
	assert.Equal(t, 200, b.ScanLast())
}
