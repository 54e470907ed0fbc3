// Package ipdata implements the longest-prefix-match index used to attribute
// an IP address to a preloaded attribute (company name, country/city) over a
// static, sorted set of subnet entries.
package ipdata

import (
	"sort"

	"github.com/turborat/pacmon/internal/addr"
)

// entry is one (subnet_base, prefix_bits, value) triple.
type entry[V any] struct {
	base  addr.Addr
	bits  uint32
	value V
}

// Index is a sorted-floor longest-prefix-match table keyed on a 128-bit
// address. It is built once and never mutated after Build.
//
// Lookup locates the greatest base <= query and applies that entry's mask.
// If the mask-match fails, the result is "no match" — Lookup never walks
// backward through earlier entries, even if one of them would cover the
// query. This is a deliberate narrowing of the classical LPM contract: the
// input data is assumed disjoint or fully containing at each base boundary.
type Index[V any] struct {
	entries []entry[V]
}

// NewIndex returns an empty Index. Entries are added with Add, which panics
// when bits exceeds the address width implied by base (32 for an address
// <= 2^32-1, 128 otherwise), and sorted once with Build.
func NewIndex[V any]() *Index[V] {
	return &Index[V]{}
}

// Add inserts one subnet entry. Entries may be added in any order; Build
// sorts them once. Panics if bits exceeds the address family's width.
func (idx *Index[V]) Add(base addr.Addr, bits uint32, value V) {
	if bits > base.Width() {
		panic("ipdata: prefix_bits exceeds address width")
	}
	idx.entries = append(idx.entries, entry[V]{base: base, bits: bits, value: value})
}

// Build sorts the accumulated entries by subnet_base, ascending. Must be
// called once after all Add calls and before any Lookup.
func (idx *Index[V]) Build() {
	sort.Slice(idx.entries, func(i, j int) bool {
		return idx.entries[i].base.Less(idx.entries[j].base)
	})
}

// Lookup returns the value of the most-specific entry whose base is <= query
// and whose mask matches, or the zero value and false if the floor entry's
// mask-match fails (or the index is empty).
func (idx *Index[V]) Lookup(query addr.Addr) (V, bool) {
	var zero V
	n := len(idx.entries)
	if n == 0 {
		return zero, false
	}
	// floor: greatest index i such that entries[i].base <= query
	i := sort.Search(n, func(i int) bool {
		return query.Less(idx.entries[i].base)
	}) - 1
	if i < 0 {
		return zero, false
	}
	e := idx.entries[i]
	m := addr.Mask(e.bits, e.base.Width())
	if !query.And(m).Equal(e.base.And(m)) {
		return zero, false
	}
	return e.value, true
}

// Len reports the number of loaded entries.
func (idx *Index[V]) Len() int { return len(idx.entries) }
