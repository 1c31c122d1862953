package directory

import "github.com/aretw0/roomtag/pkg/core"

// store is a keyed record index holding at most one record per key.
// It is not synchronized; Directory guards it.
type store[K comparable] struct {
	entries map[K]*core.Record
}

func newStore[K comparable]() *store[K] {
	return &store[K]{entries: make(map[K]*core.Record)}
}

func (s *store[K]) get(k K) (*core.Record, bool) {
	rec, ok := s.entries[k]
	return rec, ok
}

// getOrCreate returns the record under k, creating a default one if needed.
func (s *store[K]) getOrCreate(k K) (rec *core.Record, created bool) {
	if rec, ok := s.entries[k]; ok {
		return rec, false
	}
	rec = core.NewRecord()
	s.entries[k] = rec
	return rec, true
}

// putIfAbsent stores rec under k unless a record is already there, and returns the
// record that ends up indexed.
func (s *store[K]) putIfAbsent(k K, rec *core.Record) *core.Record {
	if existing, ok := s.entries[k]; ok {
		return existing
	}
	s.entries[k] = rec
	return rec
}

// keys returns a copy of the current keys, safe to iterate while the store changes.
func (s *store[K]) keys() []K {
	out := make([]K, 0, len(s.entries))
	for k := range s.entries {
		out = append(out, k)
	}
	return out
}

func (s *store[K]) len() int {
	return len(s.entries)
}

func (s *store[K]) reset() {
	s.entries = make(map[K]*core.Record)
}
