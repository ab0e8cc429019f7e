package hopscotch

// neighborhoodSize (H) is the fixed width of a bucket's neighborhood bitmap,
// rather than one that grows adaptively over the table's lifetime (e.g.
// 4 -> 32 -> 63). HashMapHopInfo in the reference C++ implementation uses a
// fixed-width bitmap, so this port follows that fixed layout.
const neighborhoodSize = 31

type bucket[K comparable, V any] struct {
	hop      uint32 // bit i set: the entry whose home is this bucket sits i slots away
	occupied bool
	key      K
	val      V
}

// reset clears a bucket back to empty, dropping any references held by its
// key or value so they do not keep memory reachable after erase/clear.
func (b *bucket[K, V]) reset() {
	var zero bucket[K, V]
	*b = zero
}
