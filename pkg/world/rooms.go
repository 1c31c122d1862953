package world

import (
	"slices"
	"strings"

	"github.com/aretw0/roomtag/pkg/core"
)

// Room is one enclosed area of a map at one generation.
type Room struct {
	m          *Map
	cells      []core.Cell
	outdoors   bool
	doorway    bool
	generation uint64
}

// Container implements core.Room. A room replaced by a rebuild is detached and
// returns nil.
func (r *Room) Container() core.Container {
	if r == nil || r.m == nil {
		return nil
	}
	return r.m
}

func (r *Room) Outdoors() bool     { return r.outdoors }
func (r *Room) Doorway() bool      { return r.doorway }
func (r *Room) Cells() []core.Cell { return r.cells }

// Generation is the rebuild that created this room.
func (r *Room) Generation() uint64 { return r.generation }

// Fogged reports whether the room's first cell is hidden.
func (r *Room) Fogged() bool {
	if r.m == nil || len(r.cells) == 0 {
		return false
	}
	return r.m.fog[r.cells[0]]
}

// Role describes the room from its contents.
func (r *Room) Role() string {
	if r.doorway {
		return "doorway"
	}
	if r.outdoors {
		return "outdoors"
	}
	if r.m == nil {
		return "room"
	}
	beds, tables := 0, 0
	for _, c := range r.cells {
		for _, t := range r.m.things[c] {
			switch {
			case strings.Contains(t.def, "bed"):
				beds++
			case strings.Contains(t.def, "table"):
				tables++
			}
		}
	}
	switch {
	case beds > 1:
		return "barracks"
	case beds == 1:
		return "bedroom"
	case tables > 0:
		return "dining room"
	default:
		return "room"
	}
}

// rebuildRooms discards every room and recomputes them from walls and doors.
// Doors become single-cell doorway rooms; open areas are 4-connected regions of the
// remaining cells and are outdoors when they touch the map edge.
func (m *Map) rebuildRooms() {
	m.detachRooms()
	m.generation++

	m.rooms = nil
	m.roomAt = make(map[core.Cell]*Room)
	visited := make(map[core.Cell]bool)

	for z := 0; z < m.height; z++ {
		for x := 0; x < m.width; x++ {
			start := core.Cell{X: x, Z: z}
			if visited[start] || m.wallAt(start) {
				continue
			}
			if m.doorAt(start) {
				visited[start] = true
				m.addRoom(&Room{cells: []core.Cell{start}, doorway: true})
				continue
			}
			m.addRoom(m.flood(start, visited))
		}
	}
}

func (m *Map) flood(start core.Cell, visited map[core.Cell]bool) *Room {
	r := &Room{}
	queue := []core.Cell{start}
	visited[start] = true
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		r.cells = append(r.cells, c)
		if c.X == 0 || c.Z == 0 || c.X == m.width-1 || c.Z == m.height-1 {
			r.outdoors = true
		}
		for _, d := range neighbours {
			n := c.Add(d)
			if !m.InBounds(n) || visited[n] || m.wallAt(n) || m.doorAt(n) {
				continue
			}
			visited[n] = true
			queue = append(queue, n)
		}
	}
	sortCells(r.cells)
	return r
}

func (m *Map) addRoom(r *Room) {
	r.m = m
	r.generation = m.generation
	m.rooms = append(m.rooms, r)
	for _, c := range r.cells {
		m.roomAt[c] = r
	}
}

func (m *Map) detachRooms() {
	for _, r := range m.rooms {
		r.m = nil
	}
}

var neighbours = []core.Cell{{X: 1}, {X: -1}, {Z: 1}, {Z: -1}}

func sortCells(cells []core.Cell) {
	slices.SortFunc(cells, func(a, b core.Cell) int {
		switch {
		case a.Less(b):
			return -1
		case b.Less(a):
			return 1
		default:
			return 0
		}
	})
}
