package robinhood_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kvtable/kvtable/robinhood"
	"github.com/kvtable/kvtable/shared"
)

func TestEmptyFind(t *testing.T) {
	tbl := robinhood.New[int, string]()
	assert.Equal(t, shared.End, tbl.Find(1))
	assert.Equal(t, 0, tbl.Size())
}

func TestInsertFindSingle(t *testing.T) {
	tbl := robinhood.New[string, int]()
	pos, created := tbl.Insert("k")
	require.True(t, created)
	tbl.SetValue(pos, 11)

	found := tbl.Find("k")
	require.NotEqual(t, shared.End, found)
	assert.Equal(t, "k", tbl.GetKey(found))
	assert.Equal(t, 11, tbl.GetValue(found))
}

func TestInsertDuplicateRejected(t *testing.T) {
	tbl := robinhood.New[int, int]()
	_, created1 := tbl.Insert(5)
	require.True(t, created1)
	_, created2 := tbl.Insert(5)
	assert.False(t, created2)
	assert.Equal(t, 1, tbl.Size())
}

func TestEraseAndEraseAt(t *testing.T) {
	tbl := robinhood.New[int, int]()
	pos, _ := tbl.Insert(2)
	tbl.SetValue(pos, 20)
	require.True(t, tbl.Erase(2))
	assert.Equal(t, shared.End, tbl.Find(2))

	pos2, _ := tbl.Insert(6)
	tbl.EraseAt(pos2)
	assert.Equal(t, shared.End, tbl.Find(6))
}

func TestEraseAtPanicsOnEmptySlot(t *testing.T) {
	tbl := robinhood.New[int, int]()
	pos, _ := tbl.Insert(1)
	tbl.Erase(1)
	assert.Panics(t, func() { tbl.EraseAt(pos) })
}

func TestForcedGrowthPreservesAllEntries(t *testing.T) {
	tbl := robinhood.New[int, int]()
	const n = 200
	for i := 0; i < n; i++ {
		pos, created := tbl.Insert(i)
		require.True(t, created)
		tbl.SetValue(pos, i+1)
	}
	for i := 0; i < n; i++ {
		pos := tbl.Find(i)
		require.NotEqual(t, shared.End, pos)
		assert.Equal(t, i+1, tbl.GetValue(pos))
	}
}

// TestDisplacementChainAfterDeletion drives a long probe chain by forcing
// many keys to share the same home bucket, then deletes the key at the head
// of the chain and checks that every displaced survivor is still reachable
// with its value -- which needs the full backward shift, not a single step.
func TestDisplacementChainAfterDeletion(t *testing.T) {
	tbl := robinhood.NewWithHasher[int, int](func(k int) uint32 { return 0 })

	const n = 20
	for i := 0; i < n; i++ {
		pos, created := tbl.Insert(i)
		require.True(t, created)
		tbl.SetValue(pos, i)
	}

	require.True(t, tbl.Erase(0))
	assert.Equal(t, n-1, tbl.Size())

	for i := 1; i < n; i++ {
		pos := tbl.Find(i)
		require.NotEqual(t, shared.End, pos)
		assert.Equal(t, i, tbl.GetValue(pos))
	}
}

func TestNewWithCapacityPreallocates(t *testing.T) {
	tbl := robinhood.NewWithCapacity[int, int](100)
	assert.True(t, tbl.Capacity() >= 100)
	assert.Equal(t, 0, tbl.Size())
}

func TestInitializeResetsAndResizes(t *testing.T) {
	tbl := robinhood.New[int, int]()
	for i := 0; i < 10; i++ {
		tbl.Insert(i)
	}

	tbl.Initialize(50)
	assert.Equal(t, 0, tbl.Size())
	assert.True(t, tbl.Capacity() >= 50)
	assert.Equal(t, shared.End, tbl.Find(3))

	tbl.Initialize(0)
	assert.Equal(t, 0, tbl.Capacity())
}

func TestIterationVisitsEveryEntry(t *testing.T) {
	tbl := robinhood.New[int, int]()
	want := map[int]int{}
	for i := 0; i < 50; i++ {
		pos, _ := tbl.Insert(i)
		tbl.SetValue(pos, i)
		want[i] = i
	}

	got := map[int]int{}
	for pos := tbl.Begin(); pos != tbl.End(); pos = tbl.Next(pos) {
		got[tbl.GetKey(pos)] = tbl.GetValue(pos)
	}
	assert.Equal(t, want, got)
}

func TestClear(t *testing.T) {
	tbl := robinhood.New[int, int]()
	for i := 0; i < 20; i++ {
		tbl.Insert(i)
	}
	tbl.Clear()
	assert.Equal(t, 0, tbl.Size())
	assert.Equal(t, shared.End, tbl.Find(0))
}

func TestSwapAndClone(t *testing.T) {
	a := robinhood.New[int, int]()
	a.Insert(1)
	b := robinhood.New[int, int]()
	b.Insert(2)
	b.Insert(3)

	a.Swap(b)
	assert.Equal(t, 2, a.Size())
	assert.Equal(t, 1, b.Size())

	clone := a.Clone()
	clone.Erase(2)
	assert.Equal(t, 2, a.Size())
	assert.Equal(t, 1, clone.Size())
}

func TestCrossCheckAgainstNativeMap(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	reference := map[int]int{}
	tbl := robinhood.New[int, int]()

	for i := 0; i < 5000; i++ {
		key := rng.Intn(500)
		switch rng.Intn(3) {
		case 0, 1:
			pos, created := tbl.Insert(key)
			if created {
				tbl.SetValue(pos, key*2)
			}
			if _, present := reference[key]; !present {
				reference[key] = key * 2
			}
		case 2:
			tbl.Erase(key)
			delete(reference, key)
		}

		pos := tbl.Find(key)
		v, present := reference[key]
		if present {
			require.NotEqual(t, shared.End, pos)
			require.Equal(t, v, tbl.GetValue(pos))
		} else {
			require.Equal(t, shared.End, pos)
		}
	}

	require.Equal(t, len(reference), tbl.Size())
}
