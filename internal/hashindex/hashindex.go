// Package hashindex implements the key lookup structure backing the cache:
// a separate-chaining hash table over string keys with power-of-two sizing.
//
// The table is deliberately hand-rolled instead of wrapping the runtime map.
// Bucket count is always a power of two, so the bucket index is a mask over
// the hash. Collisions chain through singly linked entries; new entries are
// prepended. The table doubles when size reaches 3/4 of the bucket count.
//
// Not safe for concurrent use. Synchronization is owned by the caller
// (the cache serializes every operation behind its own lock).
package hashindex

import (
	"github.com/cespare/xxhash/v2"
)

const (
	// minBuckets keeps tiny hint values from producing a degenerate table.
	minBuckets = 16

	// maxBuckets caps growth; past this point chains are allowed to lengthen.
	maxBuckets = 1 << 30
)

type entry[V any] struct {
	hash  uint64
	key   string
	value V
	next  *entry[V]
}

// Index is a separate-chaining hash table mapping string keys to values of
// type V. The zero value is not usable; construct with New.
type Index[V any] struct {
	buckets   []*entry[V]
	size      int
	threshold int
}

// New returns an Index pre-sized so that hint entries fit without an
// immediate resize pass. hint <= 0 yields the minimum table.
func New[V any](hint int) *Index[V] {
	n := bucketsFor(hint)
	return &Index[V]{
		buckets:   make([]*entry[V], n),
		threshold: n * 3 / 4,
	}
}

// bucketsFor returns the next power of two >= hint, clamped to
// [minBuckets, maxBuckets].
func bucketsFor(hint int) int {
	n := minBuckets
	for n < hint && n < maxBuckets {
		n <<= 1
	}
	return n
}

// hashKey computes the bucket hash for key. xxhash distributes well already,
// but the bucket index only ever looks at the low bits, so the high half is
// folded down to keep short-key runs from clustering.
func hashKey(key string) uint64 {
	h := xxhash.Sum64String(key)
	return h ^ (h >> 32)
}

// Get returns the value stored under key.
func (ix *Index[V]) Get(key string) (V, bool) {
	h := hashKey(key)
	for e := ix.buckets[h&uint64(len(ix.buckets)-1)]; e != nil; e = e.next {
		if e.hash == h && e.key == key {
			return e.value, true
		}
	}
	var zero V
	return zero, false
}

// Put stores value under key and returns the previous value if the key was
// already present. Inserting may grow the table.
func (ix *Index[V]) Put(key string, value V) (prev V, existed bool) {
	h := hashKey(key)
	idx := h & uint64(len(ix.buckets)-1)

	for e := ix.buckets[idx]; e != nil; e = e.next {
		if e.hash == h && e.key == key {
			prev = e.value
			e.value = value
			return prev, true
		}
	}

	ix.buckets[idx] = &entry[V]{hash: h, key: key, value: value, next: ix.buckets[idx]}
	ix.size++
	if ix.size >= ix.threshold {
		ix.grow()
	}
	return prev, false
}

// Remove deletes key and returns the removed value if it was present.
func (ix *Index[V]) Remove(key string) (V, bool) {
	h := hashKey(key)
	idx := h & uint64(len(ix.buckets)-1)

	var prev *entry[V]
	for e := ix.buckets[idx]; e != nil; e = e.next {
		if e.hash == h && e.key == key {
			if prev == nil {
				ix.buckets[idx] = e.next
			} else {
				prev.next = e.next
			}
			ix.size--
			return e.value, true
		}
		prev = e
	}
	var zero V
	return zero, false
}

// Clear drops every entry but keeps the current table size.
func (ix *Index[V]) Clear() {
	for i := range ix.buckets {
		ix.buckets[i] = nil
	}
	ix.size = 0
}

// Len returns the number of stored entries.
func (ix *Index[V]) Len() int { return ix.size }

// LoadFactor returns size divided by bucket count.
func (ix *Index[V]) LoadFactor() float64 {
	return float64(ix.size) / float64(len(ix.buckets))
}

// grow doubles the table and rehashes every entry. Chain order within a
// bucket is not preserved; entries land prepended in their new bucket.
func (ix *Index[V]) grow() {
	oldBuckets := ix.buckets
	n := len(oldBuckets)
	if n >= maxBuckets {
		// Table is as large as it gets; let chains absorb further growth.
		ix.threshold = int(^uint(0) >> 1)
		return
	}
	n <<= 1

	buckets := make([]*entry[V], n)
	mask := uint64(n - 1)
	for _, e := range oldBuckets {
		for e != nil {
			next := e.next
			idx := e.hash & mask
			e.next = buckets[idx]
			buckets[idx] = e
			e = next
		}
	}
	ix.buckets = buckets
	ix.threshold = n * 3 / 4
}

// Stats describes table shape for monitoring.
type Stats struct {
	Size        int
	Buckets     int
	UsedBuckets int
	MaxChain    int
	AvgChain    float64
	LoadFactor  float64
}

// Stats walks the table and reports chain distribution. O(buckets + size);
// intended for STATS-style introspection, not hot paths.
func (ix *Index[V]) Stats() Stats {
	st := Stats{
		Size:       ix.size,
		Buckets:    len(ix.buckets),
		LoadFactor: ix.LoadFactor(),
	}
	total := 0
	for _, e := range ix.buckets {
		if e == nil {
			continue
		}
		st.UsedBuckets++
		n := 0
		for ; e != nil; e = e.next {
			n++
		}
		total += n
		if n > st.MaxChain {
			st.MaxChain = n
		}
	}
	if st.UsedBuckets > 0 {
		st.AvgChain = float64(total) / float64(st.UsedBuckets)
	}
	return st
}
