// Package chained implements separate-chaining collision resolution over an
// arena of index-addressed slots: buckets hold a slot index instead of a
// pointer, and slots form a singly linked list through integer "next"
// fields, both for live chains and for the free list of reclaimed slots.
// This trades the more common chaining layout of real *node pointers for an
// index-addressed one; the layout is ported from HashMapKeyBucket and
// HashMap::insert_ in the reference C++ implementation.
package chained

import (
	"github.com/kvtable/kvtable/primes"
	"github.com/kvtable/kvtable/shared"
)

const nilIdx int32 = -1

type slot[K comparable, V any] struct {
	key   K
	value V
	next  int32
	hash  uint32
	used  bool
}

// Table is a hash table using separate chaining. Every bucket holds the
// index of the head of its chain, or nilIdx if empty; every slot not
// currently storing a key-value pair sits on a LIFO free list threaded
// through the same next field, so Insert never allocates once capacity has
// been grown to fit.
type Table[K comparable, V any] struct {
	buckets []int32
	slots   []slot[K, V]
	free    int32
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
	return &Table[K, V]{
		free:   nilIdx,
		hasher: hasher,
	}
}

// NewWithCapacity constructs a table with the default hasher for K,
// pre-allocated to hold at least n entries without growing.
func NewWithCapacity[K comparable, V any](n uint32) *Table[K, V] {
	return NewWithHasherAndCapacity[K, V](shared.Default[K](), n)
}

// NewWithHasherAndCapacity constructs a table with the given hash function,
// pre-allocated to a capacity of at least primes.NextPrime(n) slots.
func NewWithHasherAndCapacity[K comparable, V any](hasher shared.HashFn[K], n uint32) *Table[K, V] {
	t := &Table[K, V]{free: nilIdx, hasher: hasher}
	t.Initialize(n)
	return t
}

// Initialize discards every entry and reallocates the table from scratch at
// a capacity of at least primes.NextPrime(n) slots, or at capacity 0 (lazy
// allocation on first Insert) if n is 0.
func (t *Table[K, V]) Initialize(n uint32) {
	t.length = 0

	if n == 0 {
		t.slots = nil
		t.buckets = nil
		t.free = nilIdx
		return
	}

	capacity := primes.NextPrime(n)
	t.slots = make([]slot[K, V], capacity)
	t.buckets = make([]int32, capacity)
	for i := range t.buckets {
		t.buckets[i] = nilIdx
	}

	t.free = nilIdx
	for i := int32(capacity) - 1; i >= 0; i-- {
		t.slots[i].next = t.free
		t.free = i
	}
}

// Capacity returns the number of slots currently backing the table.
func (t *Table[K, V]) Capacity() int {
	return len(t.slots)
}

// Size returns the number of key-value pairs currently stored.
func (t *Table[K, V]) Size() int {
	return int(t.length)
}

// Clear removes every key-value pair but keeps the current backing arrays.
func (t *Table[K, V]) Clear() {
	for i := range t.buckets {
		t.buckets[i] = nilIdx
	}
	for i := range t.slots {
		var zero slot[K, V]
		t.slots[i] = zero
		if i+1 < len(t.slots) {
			t.slots[i].next = int32(i + 1)
		} else {
			t.slots[i].next = nilIdx
		}
	}
	if len(t.slots) > 0 {
		t.free = 0
	} else {
		t.free = nilIdx
	}
	t.length = 0
}

func (t *Table[K, V]) bucketOf(hash uint32) uint32 {
	return hash % uint32(len(t.buckets))
}

func (t *Table[K, V]) search(key K, hash uint32) int32 {
	if len(t.buckets) == 0 {
		return nilIdx
	}
	for i := t.buckets[t.bucketOf(hash)]; i != nilIdx; i = t.slots[i].next {
		if t.slots[i].key == key {
			return i
		}
	}
	return nilIdx
}

// Find returns the position of key, or shared.End if it is not present.
func (t *Table[K, V]) Find(key K) shared.Pos {
	idx := t.search(key, t.hasher(key))
	if idx == nilIdx {
		return shared.End
	}
	return shared.Pos(idx)
}

// Insert adds key with a zero value if not already present, growing the
// table if no free slot remains. Returns the key's position and whether a
// new entry was created.
func (t *Table[K, V]) Insert(key K) (shared.Pos, bool) {
	if len(t.buckets) == 0 {
		t.grow()
	}

	hash := t.hasher(key)
	if idx := t.search(key, hash); idx != nilIdx {
		return shared.Pos(idx), false
	}

	if t.free == nilIdx {
		t.grow()
	}

	idx := t.free
	t.free = t.slots[idx].next

	bucket := t.bucketOf(hash)
	t.slots[idx] = slot[K, V]{key: key, next: t.buckets[bucket], hash: hash, used: true}
	t.buckets[bucket] = idx
	t.length++

	return shared.Pos(idx), true
}

// grow reshapes the table to the next prime capacity above its current
// size, rehashing every live slot into the new bucket array and threading
// every other slot onto a fresh free list. Live slot indices below the old
// capacity are preserved across growth, so existing Pos values stay valid.
func (t *Table[K, V]) grow() {
	oldSlots := t.slots
	newCap := primes.NextPrime(uint32(len(oldSlots)) + 1)

	t.slots = make([]slot[K, V], newCap)
	copy(t.slots, oldSlots)

	t.buckets = make([]int32, newCap)
	for i := range t.buckets {
		t.buckets[i] = nilIdx
	}

	t.free = nilIdx
	for i := int32(newCap) - 1; i >= 0; i-- {
		if int(i) < len(oldSlots) && oldSlots[i].used {
			bucket := t.bucketOf(t.slots[i].hash)
			t.slots[i].next = t.buckets[bucket]
			t.buckets[bucket] = i
		} else {
			var zero slot[K, V]
			t.slots[i] = zero
			t.slots[i].next = t.free
			t.free = i
		}
	}
}

func (t *Table[K, V]) unlink(idx int32) {
	s := &t.slots[idx]
	bucket := t.bucketOf(s.hash)

	if t.buckets[bucket] == idx {
		t.buckets[bucket] = s.next
	} else {
		prev := t.buckets[bucket]
		for t.slots[prev].next != idx {
			prev = t.slots[prev].next
		}
		t.slots[prev].next = s.next
	}

	var zero slot[K, V]
	*s = zero
	s.next = t.free
	t.free = idx
	t.length--
}

// Erase removes key if present, returning whether it was found.
func (t *Table[K, V]) Erase(key K) bool {
	idx := t.search(key, t.hasher(key))
	if idx == nilIdx {
		return false
	}
	t.unlink(idx)
	return true
}

// EraseAt removes the entry at pos, finding its bucket from the hash stored
// with the entry rather than requiring the caller to know it. Passing a position that
// is out of range, or that does not currently hold a live entry, is a
// programmer error and panics.
func (t *Table[K, V]) EraseAt(pos shared.Pos) {
	if !t.slots[pos].used {
		panic("chained: EraseAt on an empty position")
	}
	t.unlink(int32(pos))
}

// GetKey returns the key stored at pos. Passing an out-of-range pos panics.
func (t *Table[K, V]) GetKey(pos shared.Pos) K {
	return t.slots[pos].key
}

// GetValue returns the value stored at pos. Passing an out-of-range pos
// panics.
func (t *Table[K, V]) GetValue(pos shared.Pos) V {
	return t.slots[pos].value
}

// SetValue overwrites the value stored at pos.
func (t *Table[K, V]) SetValue(pos shared.Pos, value V) {
	t.slots[pos].value = value
}

// Begin returns the position of an arbitrary first entry, or shared.End if
// the table is empty.
func (t *Table[K, V]) Begin() shared.Pos {
	return t.Next(shared.End)
}

// Next returns the position of the next live entry strictly after pos, or
// shared.End if there is none. Passing shared.End via Begin starts the scan
// from slot 0.
func (t *Table[K, V]) Next(pos shared.Pos) shared.Pos {
	for i := int32(pos) + 1; i < int32(len(t.slots)); i++ {
		if t.slots[i].used {
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
		buckets: make([]int32, len(t.buckets)),
		slots:   make([]slot[K, V], len(t.slots)),
		free:    t.free,
		length:  t.length,
		hasher:  t.hasher,
	}
	copy(clone.buckets, t.buckets)
	copy(clone.slots, t.slots)
	return clone
}

// Each calls fn for every key-value pair in no particular order. If fn
// returns false, iteration stops early.
func (t *Table[K, V]) Each(fn func(key K, value V) bool) {
	for i := range t.slots {
		if t.slots[i].used {
			if !fn(t.slots[i].key, t.slots[i].value) {
				return
			}
		}
	}
}
