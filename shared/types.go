// Package shared holds the substrate every table variant is built on: the
// position type returned by Find/Begin/Next, the hash-function contract, and
// a default hasher good enough to use without supplying one.
package shared

// Pos identifies a slot within a table's backing storage. It is returned by
// Find, Begin and Next, and is only valid until the next structural mutation
// of the table it came from (insert, erase, or clear may invalidate it).
type Pos = uint32

// End is the sentinel Pos value meaning "no such position" — returned by
// Find on a miss and by Next/Begin on an exhausted table.
const End Pos = ^Pos(0)

// HashFn computes a 32-bit hash for a key. All three table variants treat
// the hash purely as an opaque collaborator: they never inspect its bit
// pattern beyond taking it modulo a capacity or masking a neighborhood
// offset, so any HashFn that is deterministic for equal keys is safe to use.
type HashFn[K comparable] func(key K) uint32
