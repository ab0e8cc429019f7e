// Package hopscotch implements hopscotch hashing: every entry lives within a
// fixed-width neighborhood of its home bucket, found by a backward-shifting
// "move the empty slot closer" probe. Ported from HashMapHopInfo and
// HopscotchHashMap in the reference C++ implementation, which use a fixed
// neighborhood width for the table's lifetime rather than one that grows
// dynamically (see neighborhoodSize in bucket.go).
package hopscotch

import (
	"math/bits"

	"github.com/kvtable/kvtable/primes"
	"github.com/kvtable/kvtable/shared"
)

// Table is a hash table using hopscotch hashing.
type Table[K comparable, V any] struct {
	buckets []bucket[K, V]
	length  uint32
	hasher  shared.HashFn[K]
}

// New constructs a ready-to-use table with the default hasher for K.
func New[K comparable, V any]() *Table[K, V] {
	return NewWithHasher[K, V](shared.Default[K]())
}

// NewWithHasher constructs a ready-to-use table with the given hash
// function. The table starts at capacity 0 and allocates its first backing
// array lazily, on the first Insert.
func NewWithHasher[K comparable, V any](hasher shared.HashFn[K]) *Table[K, V] {
	return &Table[K, V]{hasher: hasher}
}

// NewWithCapacity constructs a table with the default hasher for K,
// pre-allocated to a capacity of at least primes.NextPrime(n) slots.
// Inserting n entries can still grow the table when an entry cannot be
// placed within its home bucket's neighborhood.
func NewWithCapacity[K comparable, V any](n uint32) *Table[K, V] {
	return NewWithHasherAndCapacity[K, V](shared.Default[K](), n)
}

// NewWithHasherAndCapacity constructs a table with the given hash function,
// pre-allocated to a capacity of at least primes.NextPrime(n) slots.
func NewWithHasherAndCapacity[K comparable, V any](hasher shared.HashFn[K], n uint32) *Table[K, V] {
	t := &Table[K, V]{hasher: hasher}
	t.Initialize(n)
	return t
}

// Initialize discards every entry and reallocates the table from scratch at
// a capacity of at least primes.NextPrime(n) slots, or at capacity 0 (lazy
// allocation on first Insert) if n is 0.
func (t *Table[K, V]) Initialize(n uint32) {
	t.length = 0

	if n == 0 {
		t.buckets = nil
		return
	}

	t.buckets = make([]bucket[K, V], primes.NextPrime(n))
}

// Capacity returns the number of slots currently backing the table.
func (t *Table[K, V]) Capacity() int {
	return len(t.buckets)
}

// Size returns the number of key-value pairs currently stored.
func (t *Table[K, V]) Size() int {
	return int(t.length)
}

// Clear removes every key-value pair but keeps the current backing array.
func (t *Table[K, V]) Clear() {
	for i := range t.buckets {
		t.buckets[i].reset()
	}
	t.length = 0
}

func distance(home, idx, capacity uint32) uint32 {
	return (idx + capacity - home) % capacity
}

// Find returns the position of key, or shared.End if it is not present.
func (t *Table[K, V]) Find(key K) shared.Pos {
	if len(t.buckets) == 0 {
		return shared.End
	}
	return t.findIn(t.buckets, t.hasher(key), key)
}

func (t *Table[K, V]) findIn(buckets []bucket[K, V], hash uint32, key K) shared.Pos {
	capacity := uint32(len(buckets))
	home := hash % capacity
	hop := buckets[home].hop

	for hop != 0 {
		i := uint32(bits.TrailingZeros32(hop))
		idx := (home + i) % capacity
		if buckets[idx].key == key {
			return shared.Pos(idx)
		}
		hop &= hop - 1
	}

	return shared.End
}

// Insert adds key with a zero value if not already present, growing the
// table as needed. Returns the key's position and whether a new entry was
// created.
func (t *Table[K, V]) Insert(key K) (shared.Pos, bool) {
	if len(t.buckets) == 0 {
		t.grow()
	}

	for {
		hash := t.hasher(key)
		if pos := t.findIn(t.buckets, hash, key); pos != shared.End {
			return pos, false
		}

		if idx, ok := placeInto(t.buckets, hash, key, *new(V)); ok {
			t.length++
			return shared.Pos(idx), true
		}

		t.grow()
	}
}

// placeInto finds an empty slot for hash within neighborhoodSize of its home
// bucket, shifting an existing empty slot closer via moveCloser as needed.
// The initial forward probe for any empty slot is bounded to
// min(capacity, 8*neighborhoodSize) positions; beyond that the table is
// considered too dense at this capacity. It reports false if no empty slot
// could be found within that bound, or none could be brought close enough,
// meaning the caller must grow and retry.
func placeInto[K comparable, V any](buckets []bucket[K, V], hash uint32, key K, val V) (uint32, bool) {
	capacity := uint32(len(buckets))
	home := hash % capacity

	limit := capacity
	if bound := uint32(8 * neighborhoodSize); bound < limit {
		limit = bound
	}

	free := uint32(0)
	found := false
	for probe := uint32(0); probe < limit; probe++ {
		idx := (home + probe) % capacity
		if !buckets[idx].occupied {
			free = idx
			found = true
			break
		}
	}
	if !found {
		return 0, false
	}

	for distance(home, free, capacity) >= neighborhoodSize {
		next, ok := moveCloser(buckets, free, capacity)
		if !ok {
			return 0, false
		}
		free = next
	}

	buckets[free].occupied = true
	buckets[free].key = key
	buckets[free].val = val
	buckets[home].hop |= 1 << distance(home, free, capacity)
	return free, true
}

// moveCloser finds an occupied bucket whose neighborhood includes an entry
// that can legally move into free (i.e. free is still within that entry's
// home's neighborhood after the move), performs the move, and returns the
// slot the moved entry vacated -- which is now the new empty slot, strictly
// closer to the original home than free was. It reports false if no such
// entry exists anywhere within reach, meaning the table must grow.
func moveCloser[K comparable, V any](buckets []bucket[K, V], free, capacity uint32) (uint32, bool) {
	for back := neighborhoodSize - 1; back >= 1; back-- {
		candidateHome := (free + capacity - uint32(back)) % capacity
		hop := buckets[candidateHome].hop

		for j := uint32(0); j < uint32(back); j++ {
			if hop&(1<<j) == 0 {
				continue
			}

			source := (candidateHome + j) % capacity
			buckets[free].occupied = true
			buckets[free].key = buckets[source].key
			buckets[free].val = buckets[source].val
			buckets[candidateHome].hop &^= 1 << j
			buckets[candidateHome].hop |= 1 << uint32(back)
			hop := buckets[source].hop
			buckets[source].reset()
			buckets[source].hop = hop
			return source, true
		}
	}

	return 0, false
}

func (t *Table[K, V]) grow() {
	capacity := uint32(len(t.buckets))
	for {
		next := primes.NextPrime(capacity + 1)
		newBuckets, ok := t.rehash(next)
		if ok {
			t.buckets = newBuckets
			return
		}
		if next == capacity {
			panic("hopscotch: table exhausted available capacity")
		}
		capacity = next
	}
}

func (t *Table[K, V]) rehash(capacity uint32) ([]bucket[K, V], bool) {
	newBuckets := make([]bucket[K, V], capacity)
	for i := range t.buckets {
		if !t.buckets[i].occupied {
			continue
		}
		hash := t.hasher(t.buckets[i].key)
		if _, ok := placeInto(newBuckets, hash, t.buckets[i].key, t.buckets[i].val); !ok {
			return nil, false
		}
	}
	return newBuckets, true
}

// Erase removes key if present, returning whether it was found.
func (t *Table[K, V]) Erase(key K) bool {
	pos := t.Find(key)
	if pos == shared.End {
		return false
	}
	t.eraseAt(pos, t.hasher(key))
	return true
}

// EraseAt removes the entry at pos, recomputing its home bucket from the
// stored key. Passing a position that is out of range, or that does not
// currently hold a live entry, is a programmer error and panics.
func (t *Table[K, V]) EraseAt(pos shared.Pos) {
	if !t.buckets[pos].occupied {
		panic("hopscotch: EraseAt on an empty position")
	}
	t.eraseAt(pos, t.hasher(t.buckets[pos].key))
}

func (t *Table[K, V]) eraseAt(pos shared.Pos, hash uint32) {
	capacity := uint32(len(t.buckets))
	home := hash % capacity
	d := distance(home, uint32(pos), capacity)

	t.buckets[home].hop &^= 1 << d
	hop := t.buckets[pos].hop
	t.buckets[pos].reset()
	t.buckets[pos].hop = hop
	t.length--
}

// GetKey returns the key stored at pos. Passing an out-of-range pos panics.
func (t *Table[K, V]) GetKey(pos shared.Pos) K {
	return t.buckets[pos].key
}

// GetValue returns the value stored at pos. Passing an out-of-range pos
// panics.
func (t *Table[K, V]) GetValue(pos shared.Pos) V {
	return t.buckets[pos].val
}

// SetValue overwrites the value stored at pos.
func (t *Table[K, V]) SetValue(pos shared.Pos, value V) {
	t.buckets[pos].val = value
}

// Begin returns the position of an arbitrary first entry, or shared.End if
// the table is empty.
func (t *Table[K, V]) Begin() shared.Pos {
	return t.Next(shared.End)
}

// Next returns the position of the next live entry strictly after pos, or
// shared.End if there is none.
func (t *Table[K, V]) Next(pos shared.Pos) shared.Pos {
	for i := int64(int32(pos)) + 1; i < int64(len(t.buckets)); i++ {
		if t.buckets[i].occupied {
			return shared.Pos(i)
		}
	}
	return shared.End
}

// End returns the sentinel position meaning "no such entry."
func (t *Table[K, V]) End() shared.Pos {
	return shared.End
}

// Swap exchanges the entire contents of t and other in constant time.
func (t *Table[K, V]) Swap(other *Table[K, V]) {
	*t, *other = *other, *t
}

// Clone returns an independent copy of t.
func (t *Table[K, V]) Clone() *Table[K, V] {
	clone := &Table[K, V]{
		buckets: make([]bucket[K, V], len(t.buckets)),
		length:  t.length,
		hasher:  t.hasher,
	}
	copy(clone.buckets, t.buckets)
	return clone
}

// Each calls fn for every key-value pair in no particular order. If fn
// returns false, iteration stops early.
func (t *Table[K, V]) Each(fn func(key K, value V) bool) {
	for i := range t.buckets {
		if t.buckets[i].occupied {
			if !fn(t.buckets[i].key, t.buckets[i].val) {
				return
			}
		}
	}
}
