package directory

import (
	"fmt"

	"github.com/aretw0/roomtag/pkg/core"
)

type fakeThing struct {
	id     string
	door   bool
	anchor *core.Anchor
}

func (t *fakeThing) ID() string           { return t.id }
func (t *fakeThing) Door() bool           { return t.door }
func (t *fakeThing) Anchor() *core.Anchor { return t.anchor }

type fakeContainer struct {
	id      string
	things  map[core.Cell][]core.Thing
	rooms   map[core.Cell]*fakeRoom
	next    int
	scans   int
	onVisit func(c core.Cell)
}

func newFakeContainer(id string) *fakeContainer {
	return &fakeContainer{
		id:     id,
		things: make(map[core.Cell][]core.Thing),
		rooms:  make(map[core.Cell]*fakeRoom),
	}
}

func (c *fakeContainer) ID() string { return c.id }

func (c *fakeContainer) ThingsAt(cell core.Cell) []core.Thing {
	c.scans++
	if c.onVisit != nil {
		c.onVisit(cell)
	}
	return c.things[cell]
}

func (c *fakeContainer) RoomAt(cell core.Cell) core.Room {
	if r, ok := c.rooms[cell]; ok {
		return r
	}
	return nil
}

// place adds a thing with an empty anchor (or none for doors) at cell.
func (c *fakeContainer) place(cell core.Cell, door bool) *fakeThing {
	c.next++
	t := &fakeThing{id: fmt.Sprintf("thing-%d", c.next), door: door}
	if !door {
		t.anchor = core.NewAnchor(nil)
	}
	c.things[cell] = append(c.things[cell], t)
	return t
}

// build creates a new room object over cells, replacing any previous one.
func (c *fakeContainer) build(cells ...core.Cell) *fakeRoom {
	r := &fakeRoom{c: c, cells: cells}
	for _, cell := range cells {
		c.rooms[cell] = r
	}
	return r
}

type fakeRoom struct {
	c        *fakeContainer
	cells    []core.Cell
	outdoors bool
	doorway  bool
}

func (r *fakeRoom) Container() core.Container {
	if r.c == nil {
		return nil
	}
	return r.c
}
func (r *fakeRoom) Outdoors() bool     { return r.outdoors }
func (r *fakeRoom) Doorway() bool      { return r.doorway }
func (r *fakeRoom) Cells() []core.Cell { return r.cells }

type fakeZone struct {
	id    int
	kind  core.ZoneKind
	label string
	cells []core.Cell
}

func (z *fakeZone) ID() int             { return z.id }
func (z *fakeZone) Kind() core.ZoneKind { return z.kind }
func (z *fakeZone) Label() string       { return z.label }
func (z *fakeZone) Cells() []core.Cell  { return z.cells }

func row(z int, xs ...int) []core.Cell {
	out := make([]core.Cell, 0, len(xs))
	for _, x := range xs {
		out = append(out, core.Cell{X: x, Z: z})
	}
	return out
}
