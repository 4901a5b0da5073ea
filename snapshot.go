package lrustore

import (
	"os"
	"time"

	"github.com/unkn0wn-root/lrustore/codec"
)

// SnapshotEntry is one key-value pair in a dump, ordered most to least
// recently used.
type SnapshotEntry struct {
	Key   string `json:"key" msgpack:"key"`
	Value string `json:"value" msgpack:"value"`
}

// Snapshot is a point-in-time dump of cache contents.
//
// Snapshots are best-effort: they exist so an operator can inspect what the
// cache held, not as a durability mechanism. Nothing in this package loads
// a snapshot back, and no recovery guarantee is made or implied.
type Snapshot struct {
	SavedAt  time.Time       `json:"saved_at" msgpack:"saved_at"`
	Capacity int             `json:"capacity" msgpack:"capacity"`
	Entries  []SnapshotEntry `json:"entries" msgpack:"entries"`
}

// Snapshot captures every entry under one critical section, so the dump is
// internally consistent even under concurrent traffic.
func (c *Cache) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Snapshot{
		SavedAt:  time.Now(),
		Capacity: c.capacity,
		Entries:  make([]SnapshotEntry, 0, c.index.Len()),
	}
	for i := c.arena[headSlot].next; i != tailSlot; i = c.arena[i].next {
		s.Entries = append(s.Entries, SnapshotEntry{
			Key:   c.arena[i].key,
			Value: c.arena[i].value,
		})
	}
	return s
}

// WriteSnapshot encodes s with cc and writes it to path. Failures surface
// as *SnapshotError; the cache state is never affected.
func WriteSnapshot(path string, s Snapshot, cc codec.Codec[Snapshot]) error {
	b, err := cc.Encode(s)
	if err != nil {
		return &SnapshotError{Path: path, Err: err}
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return &SnapshotError{Path: path, Err: err}
	}
	return nil
}
