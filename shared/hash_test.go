package shared_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kvtable/kvtable/shared"
)

func TestDefaultHasherDeterministic(t *testing.T) {
	h := shared.Default[int]()
	assert.Equal(t, h(42), h(42))
	assert.NotEqual(t, h(42), h(43))
}

func TestDefaultHasherString(t *testing.T) {
	h := shared.Default[string]()
	assert.Equal(t, h("hello"), h("hello"))
	assert.NotEqual(t, h("hello"), h("world"))
}

func TestDefaultHasherUint8(t *testing.T) {
	h := shared.Default[uint8]()
	assert.Equal(t, h(7), h(7))
}

func TestDefaultHasherUint64(t *testing.T) {
	h := shared.Default[uint64]()
	assert.Equal(t, h(1<<40), h(1<<40))
	assert.NotEqual(t, h(1), h(2))
}

func TestEndSentinel(t *testing.T) {
	assert.Equal(t, shared.Pos(0xFFFFFFFF), shared.End)
}
