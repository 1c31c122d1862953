package core

// Anchor is the durable handle carried by a physical object.
// It shares the record with the directory so the record outlives a lost index entry.
type Anchor struct {
	record *Record
}

// NewAnchor returns an anchor holding rec, which may be nil.
func NewAnchor(rec *Record) *Anchor {
	return &Anchor{record: rec}
}

// Record returns the referenced record or nil.
func (a *Anchor) Record() *Record {
	if a == nil {
		return nil
	}
	return a.record
}

// Set points the anchor at rec. It reports whether the reference changed.
func (a *Anchor) Set(rec *Record) bool {
	if a == nil || a.record == rec {
		return false
	}
	a.record = rec
	return true
}
