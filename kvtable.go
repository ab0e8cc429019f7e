// Package kvtable collects several hash-table engines behind one uniform,
// position-based contract.
package kvtable

import (
	"github.com/kvtable/kvtable/chained"
	"github.com/kvtable/kvtable/hopscotch"
	"github.com/kvtable/kvtable/robinhood"
	"github.com/kvtable/kvtable/shared"
)

// Table is the hash-table interface as a set of function pointers, built by
// New from the variant named in a Config.
type Table[K comparable, V any] struct {
	Capacity   func() int
	Size       func() int
	Clear      func()
	Initialize func(n uint32)
	Insert     func(key K) (shared.Pos, bool)
	Erase      func(key K) bool
	EraseAt    func(pos shared.Pos)
	Find       func(key K) shared.Pos
	GetKey     func(pos shared.Pos) K
	GetValue   func(pos shared.Pos) V
	SetValue   func(pos shared.Pos, value V)
	Begin      func() shared.Pos
	Next       func(pos shared.Pos) shared.Pos
	End        func() shared.Pos
	Each       func(fn func(key K, value V) bool)
}

// Variant selects the collision-resolution strategy used by New.
type Variant int

const (
	Chained Variant = iota
	Hopscotch
	RobinHood
)

// Config configures the factory's choice of table.
type Config[K comparable, V any] struct {
	Variant Variant
	// Hasher is used to distribute keys across buckets. If unset, a default
	// hasher is used for Go's builtin comparable kinds.
	Hasher shared.HashFn[K]
	// Capacity, if nonzero, pre-allocates the table to a capacity of at
	// least this many slots, instead of starting at capacity 0. The chained
	// variant then holds this many entries without growing; the hopscotch
	// and Robin Hood variants can still grow earlier.
	Capacity uint32
}

// New is a factory function instantiating one of the table variants behind
// the uniform Table interface. In most cases using the dedicated package
// (chained, hopscotch, robinhood) directly is preferable; Table exists for
// callers that need to select the variant dynamically, e.g. from
// configuration.
func New[K comparable, V any](cfg Config[K, V]) *Table[K, V] {
	if cfg.Hasher == nil {
		cfg.Hasher = shared.Default[K]()
	}

	res := &Table[K, V]{}

	switch cfg.Variant {
	case Hopscotch:
		var m *hopscotch.Table[K, V]
		if cfg.Capacity > 0 {
			m = hopscotch.NewWithHasherAndCapacity[K, V](cfg.Hasher, cfg.Capacity)
		} else {
			m = hopscotch.NewWithHasher[K, V](cfg.Hasher)
		}
		res.Capacity = m.Capacity
		res.Size = m.Size
		res.Clear = m.Clear
		res.Initialize = m.Initialize
		res.Insert = m.Insert
		res.Erase = m.Erase
		res.EraseAt = m.EraseAt
		res.Find = m.Find
		res.GetKey = m.GetKey
		res.GetValue = m.GetValue
		res.SetValue = m.SetValue
		res.Begin = m.Begin
		res.Next = m.Next
		res.End = m.End
		res.Each = m.Each

	case RobinHood:
		var m *robinhood.Table[K, V]
		if cfg.Capacity > 0 {
			m = robinhood.NewWithHasherAndCapacity[K, V](cfg.Hasher, cfg.Capacity)
		} else {
			m = robinhood.NewWithHasher[K, V](cfg.Hasher)
		}
		res.Capacity = m.Capacity
		res.Size = m.Size
		res.Clear = m.Clear
		res.Initialize = m.Initialize
		res.Insert = m.Insert
		res.Erase = m.Erase
		res.EraseAt = m.EraseAt
		res.Find = m.Find
		res.GetKey = m.GetKey
		res.GetValue = m.GetValue
		res.SetValue = m.SetValue
		res.Begin = m.Begin
		res.Next = m.Next
		res.End = m.End
		res.Each = m.Each

	default: // Chained
		var m *chained.Table[K, V]
		if cfg.Capacity > 0 {
			m = chained.NewWithHasherAndCapacity[K, V](cfg.Hasher, cfg.Capacity)
		} else {
			m = chained.NewWithHasher[K, V](cfg.Hasher)
		}
		res.Capacity = m.Capacity
		res.Size = m.Size
		res.Clear = m.Clear
		res.Initialize = m.Initialize
		res.Insert = m.Insert
		res.Erase = m.Erase
		res.EraseAt = m.EraseAt
		res.Find = m.Find
		res.GetKey = m.GetKey
		res.GetValue = m.GetValue
		res.SetValue = m.SetValue
		res.Begin = m.Begin
		res.Next = m.Next
		res.End = m.End
		res.Each = m.Each
	}

	return res
}
