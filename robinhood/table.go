// Package robinhood implements Robin Hood hashing: linear probing where an
// entry displaces whichever occupant has traveled a shorter distance from
// its own home bucket ("takes from the rich, gives to the poor"), bounding
// the worst-case probe length to O(log n). Ported from RHHashMap in the
// reference C++ implementation; emplace follows the classic swap-on-lower-PSL
// formulation, and the deletion loop below performs a full backward shift
// rather than a single step. Unlike a power-of-two, masked-wraparound probe
// sequence, probing here never wraps around the backing array -- a fixed
// pad of maxDistance extra slots past the logical capacity absorbs every
// possible probe chain instead, matching RHHashMap's padded_capacity.
package robinhood

import (
	"github.com/kvtable/kvtable/primes"
	"github.com/kvtable/kvtable/shared"
)

const emptyPSL = -1

type bucket[K comparable, V any] struct {
	key K
	val V
	psl int32
}

// Table is a hash table using Robin Hood hashing with non-wrapping, padded
// linear probing.
type Table[K comparable, V any] struct {
	buckets     []bucket[K, V]
	capacity    uint32 // logical capacity; home = hash % capacity
	maxDistance uint32 // no entry's psl ever reaches this; buckets is padded by this much
	length      uint32
	hasher      shared.HashFn[K]
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
// pre-allocated to a logical capacity of at least primes.NextPrime(n) slots.
// Inserting n entries can still grow the table when a probe chain would
// reach maxDistance.
func NewWithCapacity[K comparable, V any](n uint32) *Table[K, V] {
	return NewWithHasherAndCapacity[K, V](shared.Default[K](), n)
}

// NewWithHasherAndCapacity constructs a table with the given hash function,
// pre-allocated to a logical capacity of at least primes.NextPrime(n) slots.
func NewWithHasherAndCapacity[K comparable, V any](hasher shared.HashFn[K], n uint32) *Table[K, V] {
	t := &Table[K, V]{hasher: hasher}
	t.Initialize(n)
	return t
}

// Initialize discards every entry and reallocates the table from scratch at
// a logical capacity of at least primes.NextPrime(n) slots, or at capacity 0
// (lazy allocation on first Insert) if n is 0.
func (t *Table[K, V]) Initialize(n uint32) {
	t.length = 0

	if n == 0 {
		t.buckets = nil
		t.capacity = 0
		t.maxDistance = 0
		return
	}

	capacity := primes.NextPrime(n)
	maxDistance := primes.Log2Ceil(capacity)
	if maxDistance == 0 {
		maxDistance = 1
	}

	t.buckets = newBucketArray[K, V](capacity + maxDistance)
	t.capacity = capacity
	t.maxDistance = maxDistance
}

func newBucketArray[K comparable, V any](size uint32) []bucket[K, V] {
	buckets := make([]bucket[K, V], size)
	for i := range buckets {
		buckets[i].psl = emptyPSL
	}
	return buckets
}

// Capacity returns the number of logical slots currently backing the table
// (not counting the non-wrapping pad past that capacity).
func (t *Table[K, V]) Capacity() int {
	return int(t.capacity)
}

// Size returns the number of key-value pairs currently stored.
func (t *Table[K, V]) Size() int {
	return int(t.length)
}

// Clear removes every key-value pair but keeps the current backing array.
func (t *Table[K, V]) Clear() {
	for i := range t.buckets {
		var zero bucket[K, V]
		zero.psl = emptyPSL
		t.buckets[i] = zero
	}
	t.length = 0
}

// Find returns the position of key, or shared.End if it is not present.
func (t *Table[K, V]) Find(key K) shared.Pos {
	if t.capacity == 0 {
		return shared.End
	}

	idx := t.hasher(key) % t.capacity
	for psl := int32(0); psl <= t.buckets[idx].psl; psl++ {
		if t.buckets[idx].key == key {
			return shared.Pos(idx)
		}
		idx++
	}

	return shared.End
}

// Insert adds key with a zero value if not already present, growing the
// table as needed. Returns the key's position and whether a new entry was
// created.
func (t *Table[K, V]) Insert(key K) (shared.Pos, bool) {
	if t.capacity == 0 {
		t.grow()
	}

	for {
		home := t.hasher(key) % t.capacity
		idx := home
		psl := int32(0)

		for psl <= t.buckets[idx].psl {
			if t.buckets[idx].key == key {
				return shared.Pos(idx), false
			}
			idx++
			psl++
		}

		placed := bucket[K, V]{key: key, psl: psl}
		if pos, ok := emplace(t.buckets, t.maxDistance, placed, idx); ok {
			t.length++
			return shared.Pos(pos), true
		}

		t.grow()
	}
}

// emplace applies the Robin Hood creed starting at idx: the incoming bucket
// displaces any occupant with a smaller psl, carrying the displaced entry
// forward until it reaches an empty slot, and returns the slot where the
// incoming bucket itself ends up. It reports false, leaving buckets
// unchanged, if the chain would need to travel maxDistance slots, meaning the
// caller must grow.
func emplace[K comparable, V any](buckets []bucket[K, V], maxDistance uint32, current bucket[K, V], idx uint32) (uint32, bool) {
	for i, psl := idx, current.psl; ; i, psl = i+1, psl+1 {
		if uint32(psl) >= maxDistance {
			return 0, false
		}
		if buckets[i].psl == emptyPSL {
			break
		}
		if psl > buckets[i].psl {
			psl = buckets[i].psl
		}
	}

	var at uint32
	moved := false
	for {
		if uint32(current.psl) >= maxDistance {
			return 0, false
		}
		if buckets[idx].psl == emptyPSL {
			buckets[idx] = current
			if !moved {
				at = idx
			}
			return at, true
		}
		if current.psl > buckets[idx].psl {
			current, buckets[idx] = buckets[idx], current
			if !moved {
				at, moved = idx, true
			}
		}
		idx++
		current.psl++
	}
}

func (t *Table[K, V]) grow() {
	capacity := t.capacity
	for {
		capacity = primes.NextPrime(capacity + 1)
		maxDistance := primes.Log2Ceil(capacity)
		if maxDistance == 0 {
			maxDistance = 1
		}

		newBuckets := newBucketArray[K, V](capacity + maxDistance)
		if t.rehashInto(newBuckets, capacity, maxDistance) {
			t.buckets = newBuckets
			t.capacity = capacity
			t.maxDistance = maxDistance
			return
		}
	}
}

func (t *Table[K, V]) rehashInto(newBuckets []bucket[K, V], capacity, maxDistance uint32) bool {
	for i := range t.buckets {
		if t.buckets[i].psl == emptyPSL {
			continue
		}
		home := t.hasher(t.buckets[i].key) % capacity
		placed := bucket[K, V]{key: t.buckets[i].key, val: t.buckets[i].val}
		if _, ok := emplace(newBuckets, maxDistance, placed, home); !ok {
			return false
		}
	}
	return true
}

// Erase removes key if present, returning whether it was found.
func (t *Table[K, V]) Erase(key K) bool {
	pos := t.Find(key)
	if pos == shared.End {
		return false
	}
	t.eraseAt(uint32(pos))
	return true
}

// EraseAt removes the entry at pos. Passing a position that is out of
// range, or that does not currently hold a live entry, is a programmer
// error and panics.
func (t *Table[K, V]) EraseAt(pos shared.Pos) {
	if t.buckets[pos].psl == emptyPSL {
		panic("robinhood: EraseAt on an empty position")
	}
	t.eraseAt(uint32(pos))
}

// eraseAt empties idx and backward-shifts every following entry that still
// has a nonzero psl, each gaining one step closer to its own home bucket --
// the full correction of the reference implementation's one-step deletion.
func (t *Table[K, V]) eraseAt(idx uint32) {
	var empty bucket[K, V]
	empty.psl = emptyPSL
	t.buckets[idx] = empty

	next := idx + 1
	for next < uint32(len(t.buckets)) && t.buckets[next].psl > 0 {
		t.buckets[next].psl--
		t.buckets[idx], t.buckets[next] = t.buckets[next], t.buckets[idx]
		idx = next
		next++
	}

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
		if t.buckets[i].psl != emptyPSL {
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
		buckets:     make([]bucket[K, V], len(t.buckets)),
		capacity:    t.capacity,
		maxDistance: t.maxDistance,
		length:      t.length,
		hasher:      t.hasher,
	}
	copy(clone.buckets, t.buckets)
	return clone
}

// Each calls fn for every key-value pair in no particular order. If fn
// returns false, iteration stops early.
func (t *Table[K, V]) Each(fn func(key K, value V) bool) {
	for i := range t.buckets {
		if t.buckets[i].psl != emptyPSL {
			if !fn(t.buckets[i].key, t.buckets[i].val) {
				return
			}
		}
	}
}
