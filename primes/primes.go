// Package primes provides the fixed ascending prime sequence used to size
// every table variant's backing storage, plus the small amount of integer
// math the Robin-Hood variant needs to compute its padding.
package primes

import "sort"

// table is the hard-coded ascending sequence of capacities a table may take.
// It ends at the largest prime below 2^32, ported from the reference
// implementation's hash_detail::PrimeList.
var table = [40]uint32{
	5, 11, 17, 29, 37, 53, 67, 79,
	97, 131, 193, 257, 389, 521, 769,
	1031, 1543, 2053, 3079, 6151, 12289, 24593,
	49157, 98317, 196613, 393241, 786433,
	1572869, 3145739, 6291469, 12582917, 25165843,
	50331653, 100663319, 201326611, 402653189, 805306457,
	1610612741, 3221225473, 4294967291,
}

// Smallest is the capacity a freshly allocated table takes on its first
// insertion, i.e. table[0].
const Smallest = 5

// NextPrime returns the smallest prime in table that is >= n. If n exceeds
// every entry, the largest prime is returned instead; a caller that keeps
// requesting growth past that ceiling makes no further progress. This
// boundary is deliberate, not a bug: see spec.md §4.1.
func NextPrime(n uint32) uint32 {
	idx := sort.Search(len(table), func(i int) bool { return table[i] >= n })
	if idx == len(table) {
		idx--
	}
	return table[idx]
}

// Log2Ceil returns ceil(log2(n)) for n >= 1, the number of bits needed to
// address n distinct values. The Robin-Hood variant uses it to size
// max_distance from a table's capacity, ported from hash_detail::log2.
func Log2Ceil(n uint32) uint32 {
	var (
		x uint32 = 1
		p uint32
	)
	for x < n {
		x <<= 1
		p++
	}
	return p
}
