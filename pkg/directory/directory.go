// Package directory maps regions to annotation records and keeps that mapping correct
// while rooms are destroyed, recreated and relocated by the host world.
//
// Zones have a stable integer identity and use a plain keyed index. Rooms do not:
// they are keyed by a proxy cell, and on an index miss the directory scans the anchors
// carried by objects inside the room to recover a record that lost its index entry.
//
// Read APIs are total: an invalid region or an unrecoverable room yields nil, which
// callers treat as "use defaults".
package directory

import (
	"log/slog"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/aretw0/roomtag/pkg/core"
)

// Directory is the container-scoped owner of annotation records.
type Directory struct {
	mu        sync.RWMutex
	zones     *store[int]
	rooms     *store[core.Cell]
	resolving map[core.Cell]struct{}

	owner   string
	logger  *slog.Logger
	metrics *Metrics
	events  chan<- core.Event

	reconciles    uint64
	lastReconcile *time.Time
}

// New creates an empty directory.
func New(opts ...Option) *Directory {
	d := &Directory{
		zones:     newStore[int](),
		rooms:     newStore[core.Cell](),
		resolving: make(map[core.Cell]struct{}),
		logger:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// --- Zones (stable keys) ---

// Zone returns the record of zone id, or nil.
func (d *Directory) Zone(id int) *core.Record {
	d.mu.RLock()
	rec, ok := d.zones.get(id)
	d.mu.RUnlock()

	if ok {
		d.metrics.lookup(core.KindZone, outcomeHit)
		return rec
	}
	d.metrics.lookup(core.KindZone, outcomeMiss)
	return nil
}

// ZoneOrCreate returns the record of zone id, creating a default one if needed.
func (d *Directory) ZoneOrCreate(id int) *core.Record {
	d.mu.Lock()
	rec, created := d.zones.getOrCreate(id)
	d.mu.Unlock()

	if created {
		d.metrics.create(core.KindZone)
		d.emit(core.EventCreate, strconv.Itoa(id), 0)
		d.logger.Debug("zone record created", "container", d.owner, "zone", id)
	}
	return rec
}

// --- Rooms (proxy keys) ---

// Room returns the record of room, or nil.
//
// On an index miss it scans the anchors inside the room and adopts the first record
// carrying a name or description, re-indexing it under the current proxy key.
// It never creates a record.
func (d *Directory) Room(room core.Room) *core.Record {
	key, ok := roomKey(room)
	if !ok {
		d.metrics.lookup(core.KindRoom, outcomeInvalid)
		return nil
	}

	d.mu.RLock()
	rec, hit := d.rooms.get(key)
	d.mu.RUnlock()
	if hit {
		d.metrics.lookup(core.KindRoom, outcomeHit)
		return rec
	}

	if rec := d.recover(room, key); rec != nil {
		d.metrics.lookup(core.KindRoom, outcomeRecovered)
		return rec
	}

	d.metrics.lookup(core.KindRoom, outcomeMiss)
	return nil
}

// RoomOrCreate returns the record of room, creating a default one if neither the index
// nor the anchors know it. Every eligible anchor in the room ends up pointing at the
// returned record. Invalid rooms yield nil.
func (d *Directory) RoomOrCreate(room core.Room) *core.Record {
	key, ok := roomKey(room)
	if !ok {
		return nil
	}

	if rec := d.Room(room); rec != nil {
		d.Synchronize(room, rec)
		return rec
	}

	d.mu.Lock()
	rec, created := d.rooms.getOrCreate(key)
	d.mu.Unlock()

	n := d.Synchronize(room, rec)
	if created {
		d.metrics.create(core.KindRoom)
		d.emit(core.EventCreate, key.String(), n)
		d.logger.Debug("room record created", "container", d.owner, "key", key.String(), "anchors", n)
	}
	return rec
}

// recover scans the room's anchors for an orphaned record.
// The scan for a given key is never re-entered: a nested resolution returns nil.
func (d *Directory) recover(room core.Room, key core.Cell) *core.Record {
	if !d.enter(key) {
		return nil
	}
	defer d.leave(key)

	c := room.Container()
	for _, cell := range room.Cells() {
		for _, t := range c.ThingsAt(cell) {
			if !eligible(t) {
				continue
			}
			found := t.Anchor().Record()
			if !found.HasText() {
				continue
			}

			d.mu.Lock()
			rec := d.rooms.putIfAbsent(key, found)
			d.mu.Unlock()

			n := d.Synchronize(room, rec)
			d.emit(core.EventRecover, key.String(), n)
			d.logger.Info("room record recovered from anchor",
				"container", d.owner,
				"key", key.String(),
				"thing", t.ID(),
				"name", rec.CustomName,
				"anchors", n,
			)
			return rec
		}
	}
	return nil
}

func (d *Directory) enter(key core.Cell) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, busy := d.resolving[key]; busy {
		return false
	}
	d.resolving[key] = struct{}{}
	return true
}

func (d *Directory) leave(key core.Cell) {
	d.mu.Lock()
	delete(d.resolving, key)
	d.mu.Unlock()
}

// Synchronize points every eligible anchor in the room at rec and returns how many
// anchors changed. Repeating the call with the same pair changes nothing.
func (d *Directory) Synchronize(room core.Room, rec *core.Record) int {
	if rec == nil || room == nil {
		return 0
	}
	c := room.Container()
	if c == nil {
		return 0
	}

	changed := 0
	for _, cell := range room.Cells() {
		for _, t := range c.ThingsAt(cell) {
			if eligible(t) && t.Anchor().Set(rec) {
				changed++
			}
		}
	}
	d.metrics.synced(changed)
	return changed
}

// --- Variant dispatch ---

// Get resolves a region without ever creating a record.
func (d *Directory) Get(r core.Region) *core.Record {
	switch r.Kind {
	case core.KindZone:
		if r.Zone == nil {
			return nil
		}
		return d.Zone(r.Zone.ID())
	case core.KindRoom:
		return d.Room(r.Room)
	default:
		return nil
	}
}

// GetOrCreate resolves a region, creating its record if needed.
// Invalid regions yield nil.
func (d *Directory) GetOrCreate(r core.Region) *core.Record {
	switch r.Kind {
	case core.KindZone:
		if r.Zone == nil {
			return nil
		}
		return d.ZoneOrCreate(r.Zone.ID())
	case core.KindRoom:
		return d.RoomOrCreate(r.Room)
	default:
		return nil
	}
}

// --- Inspection ---

// Len returns the number of zone and room entries.
func (d *Directory) Len() (zones, rooms int) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.zones.len(), d.rooms.len()
}

// TrackedRooms returns the proxy keys currently indexed, in canonical order.
func (d *Directory) TrackedRooms() []core.Cell {
	d.mu.RLock()
	keys := d.rooms.keys()
	d.mu.RUnlock()

	slices.SortFunc(keys, func(a, b core.Cell) int {
		switch {
		case a.Less(b):
			return -1
		case b.Less(a):
			return 1
		default:
			return 0
		}
	})
	return keys
}

func (d *Directory) emit(t core.EventType, key string, anchors int) {
	if d.events == nil {
		return
	}
	e := core.Event{
		Type:      t,
		Container: d.owner,
		Key:       key,
		Anchors:   anchors,
		Timestamp: time.Now().Unix(),
	}
	select {
	case d.events <- e:
	default:
	}
}

// roomKey validates a room and computes its proxy key.
func roomKey(room core.Room) (core.Cell, bool) {
	if room == nil || room.Container() == nil || room.Outdoors() {
		return core.Cell{}, false
	}
	return core.ProxyKey(room)
}

// eligible reports whether t may carry the room's record.
func eligible(t core.Thing) bool {
	return t != nil && !t.Door() && t.Anchor() != nil
}
