package world

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/aretw0/roomtag/pkg/core"
	"github.com/aretw0/roomtag/pkg/directory"
	"github.com/aretw0/roomtag/pkg/schedule"
)

// Map is a container: a grid of things with its own label directory.
type Map struct {
	world  *World
	id     string
	width  int
	height int

	things map[core.Cell][]*Thing
	byID   map[string]*Thing
	zones  map[int]*Zone
	zoneAt map[core.Cell]int
	fog    map[core.Cell]bool

	rooms      []*Room
	roomAt     map[core.Cell]*Room
	generation uint64

	labels   *directory.Directory
	sched    *schedule.Scheduler
	loadedAt time.Time
}

func newMap(w *World, id string, width, height int) *Map {
	m := &Map{
		world:    w,
		id:       id,
		width:    width,
		height:   height,
		things:   make(map[core.Cell][]*Thing),
		byID:     make(map[string]*Thing),
		zones:    make(map[int]*Zone),
		zoneAt:   make(map[core.Cell]int),
		fog:      make(map[core.Cell]bool),
		roomAt:   make(map[core.Cell]*Room),
		loadedAt: w.now(),
	}
	logger := w.logger.With("map", id)
	m.labels = directory.New(
		directory.WithOwner(id),
		directory.WithLogger(logger),
		directory.WithMetrics(w.metrics),
		directory.WithEvents(w.events),
	)
	m.sched = schedule.New(schedule.WithLogger(logger))
	m.rebuildRooms()
	return m
}

// ID implements core.Container.
func (m *Map) ID() string { return m.id }

// Size returns the grid dimensions.
func (m *Map) Size() (width, height int) { return m.width, m.height }

// Labels returns the map's label directory.
func (m *Map) Labels() *directory.Directory { return m.labels }

// Scheduler returns the map's housekeeping scheduler.
func (m *Map) Scheduler() *schedule.Scheduler { return m.sched }

// LoadedAt returns when the map was created or restored.
func (m *Map) LoadedAt() time.Time { return m.loadedAt }

// Generation counts room rebuilds.
func (m *Map) Generation() uint64 { return m.generation }

// InBounds reports whether c lies on the grid.
func (m *Map) InBounds(c core.Cell) bool {
	return c.X >= 0 && c.Z >= 0 && c.X < m.width && c.Z < m.height
}

// ThingsAt implements core.Container.
func (m *Map) ThingsAt(c core.Cell) []core.Thing {
	list := m.things[c]
	if len(list) == 0 {
		return nil
	}
	out := make([]core.Thing, len(list))
	for i, t := range list {
		out[i] = t
	}
	return out
}

// RoomAt implements core.Container.
func (m *Map) RoomAt(c core.Cell) core.Room {
	if r, ok := m.roomAt[c]; ok {
		return r
	}
	return nil
}

// Room returns the concrete room at c, or nil.
func (m *Map) Room(c core.Cell) *Room {
	return m.roomAt[c]
}

// Rooms returns the current rooms, doorways included, in canonical order of their
// first cell.
func (m *Map) Rooms() []core.Room {
	out := make([]core.Room, len(m.rooms))
	for i, r := range m.rooms {
		out[i] = r
	}
	return out
}

// Thing returns a thing by id.
func (m *Map) Thing(id string) (*Thing, bool) {
	t, ok := m.byID[id]
	return t, ok
}

// Things returns every thing ordered by cell, then id.
func (m *Map) Things() []*Thing {
	out := make([]*Thing, 0, len(m.byID))
	for _, t := range m.byID {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].cell != out[j].cell {
			return out[i].cell.Less(out[j].cell)
		}
		return out[i].id < out[j].id
	})
	return out
}

// Spawn places a new thing. Walls and doors trigger a room rebuild.
func (m *Map) Spawn(def string, kind Kind, c core.Cell) (*Thing, error) {
	t := newThing(uuid.NewString(), def, kind, c, nil)
	if err := m.place(t); err != nil {
		return nil, err
	}
	if kind.Structural() {
		m.rebuildRooms()
	}
	return t, nil
}

// Despawn removes a thing. Its anchor goes with it.
func (m *Map) Despawn(id string) error {
	t, ok := m.byID[id]
	if !ok {
		return fmt.Errorf("thing %s not found on map %s", id, m.id)
	}
	m.remove(t)
	if t.kind.Structural() {
		m.rebuildRooms()
	}
	return nil
}

func (m *Map) place(t *Thing) error {
	if !m.InBounds(t.cell) {
		return fmt.Errorf("cell %s out of bounds on map %s", t.cell, m.id)
	}
	if _, dup := m.byID[t.id]; dup {
		return fmt.Errorf("thing %s already on map %s", t.id, m.id)
	}
	if t.kind.Structural() {
		if m.wallAt(t.cell) || m.doorAt(t.cell) {
			return fmt.Errorf("cell %s already has a wall or door", t.cell)
		}
		if id, zoned := m.zoneAt[t.cell]; zoned {
			return fmt.Errorf("cell %s belongs to zone %d", t.cell, id)
		}
	}
	m.things[t.cell] = append(m.things[t.cell], t)
	m.byID[t.id] = t
	return nil
}

func (m *Map) remove(t *Thing) {
	list := m.things[t.cell]
	for i, other := range list {
		if other == t {
			list = append(list[:i], list[i+1:]...)
			break
		}
	}
	if len(list) == 0 {
		delete(m.things, t.cell)
	} else {
		m.things[t.cell] = list
	}
	delete(m.byID, t.id)
}

func (m *Map) wallAt(c core.Cell) bool {
	for _, t := range m.things[c] {
		if t.kind == Wall {
			return true
		}
	}
	return false
}

func (m *Map) doorAt(c core.Cell) bool {
	for _, t := range m.things[c] {
		if t.kind == Door {
			return true
		}
	}
	return false
}

// SetFogged hides or reveals cells.
func (m *Map) SetFogged(fogged bool, cells ...core.Cell) {
	for _, c := range cells {
		if fogged {
			m.fog[c] = true
		} else {
			delete(m.fog, c)
		}
	}
}

// Fogged reports whether c is hidden.
func (m *Map) Fogged(c core.Cell) bool {
	return m.fog[c]
}

// --- Zones ---

// Zones returns every zone ordered by id.
func (m *Map) Zones() []core.Zone {
	ids := make([]int, 0, len(m.zones))
	for id := range m.zones {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	out := make([]core.Zone, len(ids))
	for i, id := range ids {
		out[i] = m.zones[id]
	}
	return out
}

// Zone returns a zone by id.
func (m *Map) Zone(id int) (*Zone, bool) {
	z, ok := m.zones[id]
	return z, ok
}

// ZoneAt returns the zone covering c, or nil.
func (m *Map) ZoneAt(c core.Cell) *Zone {
	if id, ok := m.zoneAt[c]; ok {
		return m.zones[id]
	}
	return nil
}

// RemoveZone deletes a zone. Its label record stays in the directory, harmless since
// zone ids are never reused.
func (m *Map) RemoveZone(id int) error {
	z, ok := m.zones[id]
	if !ok {
		return fmt.Errorf("zone %d not found on map %s", id, m.id)
	}
	for _, c := range z.cells {
		delete(m.zoneAt, c)
	}
	delete(m.zones, id)
	return nil
}

func (m *Map) putZone(z *Zone) {
	m.zones[z.id] = z
	for _, c := range z.cells {
		m.zoneAt[c] = z.id
	}
}

// RegionAt returns the zone covering c or, failing that, the room at c.
// A zone takes precedence over the room beneath it.
func (m *Map) RegionAt(c core.Cell) (core.Region, bool) {
	if z := m.ZoneAt(c); z != nil {
		return core.ZoneRegion(z), true
	}
	if r := m.roomAt[c]; r != nil {
		return core.RoomRegion(r), true
	}
	return core.Region{}, false
}
