package directory

import (
	"fmt"

	"github.com/aretw0/roomtag/pkg/core"
)

// Snapshot returns a deep copy of both indexes in their durable form.
func (d *Directory) Snapshot() core.LabelState {
	d.mu.RLock()
	defer d.mu.RUnlock()

	s := core.LabelState{
		Zones: make(map[int]*core.Record, d.zones.len()),
		Rooms: make(map[string]*core.Record, d.rooms.len()),
	}
	for id, rec := range d.zones.entries {
		s.Zones[id] = rec.Clone()
	}
	for key, rec := range d.rooms.entries {
		s.Rooms[key.String()] = rec.Clone()
	}
	return s
}

// Restore replaces both indexes with copies of the records in s.
// A malformed room key aborts the restore and leaves the directory unchanged.
func (d *Directory) Restore(s core.LabelState) error {
	rooms := newStore[core.Cell]()
	for raw, rec := range s.Rooms {
		if rec == nil {
			continue
		}
		key, err := core.ParseCell(raw)
		if err != nil {
			return fmt.Errorf("failed to restore room labels: %w", err)
		}
		rooms.entries[key] = rec.Clone()
	}

	zones := newStore[int]()
	for id, rec := range s.Zones {
		if rec == nil {
			continue
		}
		zones.entries[id] = rec.Clone()
	}

	d.mu.Lock()
	d.zones = zones
	d.rooms = rooms
	d.mu.Unlock()
	return nil
}

// Clear drops every entry. Anchors keep their records.
func (d *Directory) Clear() {
	d.mu.Lock()
	d.zones.reset()
	d.rooms.reset()
	d.mu.Unlock()
}
