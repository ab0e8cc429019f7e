package xhash_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kvtable/kvtable/xhash"
)

func TestSum32Empty(t *testing.T) {
	// Known xxHash32 digest of the empty string with seed 0.
	assert.Equal(t, uint32(0x02cc5d05), xhash.Sum32(0, nil))
}

func TestSum32Deterministic(t *testing.T) {
	data := []byte("the quick brown fox jumps over the lazy dog")
	a := xhash.Sum32(xhash.DefaultSeed, data)
	b := xhash.Sum32(xhash.DefaultSeed, data)
	assert.Equal(t, a, b)
}

func TestSum32DifferentSeedsDiffer(t *testing.T) {
	data := []byte("some key")
	a := xhash.Sum32(1, data)
	b := xhash.Sum32(2, data)
	assert.NotEqual(t, a, b)
}

func TestSum32WordMatchesGeneralPath(t *testing.T) {
	var x uint32 = 0xdeadbeef
	buf := []byte{byte(x), byte(x >> 8), byte(x >> 16), byte(x >> 24)}
	assert.Equal(t, xhash.Sum32(xhash.DefaultSeed, buf), xhash.Sum32Word(xhash.DefaultSeed, x))
}

func TestSum32DoublewordMatchesGeneralPath(t *testing.T) {
	var x uint64 = 0x0123456789abcdef
	buf := make([]byte, 8)
	for i := 0; i < 8; i++ {
		buf[i] = byte(x >> (8 * i))
	}
	assert.Equal(t, xhash.Sum32(xhash.DefaultSeed, buf), xhash.Sum32Doubleword(xhash.DefaultSeed, x))
}

func TestSum32LongInputExercisesMainLoop(t *testing.T) {
	data := make([]byte, 257)
	for i := range data {
		data[i] = byte(i)
	}
	h := xhash.Sum32(xhash.DefaultSeed, data)
	assert.Equal(t, h, xhash.Sum32(xhash.DefaultSeed, data))
	assert.NotEqual(t, uint32(0), h)
}
