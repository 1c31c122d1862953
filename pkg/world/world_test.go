package world

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/roomtag/pkg/core"
)

var interior = []core.Cell{{X: 3, Z: 3}, {X: 4, Z: 3}, {X: 5, Z: 3}, {X: 3, Z: 4}, {X: 4, Z: 4}, {X: 5, Z: 4}}

// buildHouse walls in a 3x2 room with a door at (4,2), a bed and a table.
func buildHouse(t *testing.T, m *Map) (bed, table *Thing) {
	t.Helper()
	spawn := func(def string, kind Kind, x, z int) *Thing {
		th, err := m.Spawn(def, kind, core.Cell{X: x, Z: z})
		require.NoError(t, err)
		return th
	}
	for x := 2; x <= 6; x++ {
		if x == 4 {
			spawn("door", Door, x, 2)
		} else {
			spawn("wall", Wall, x, 2)
		}
		spawn("wall", Wall, x, 5)
	}
	for z := 3; z <= 4; z++ {
		spawn("wall", Wall, 2, z)
		spawn("wall", Wall, 6, z)
	}
	return spawn("bed", Item, 3, 3), spawn("table", Item, 5, 4)
}

func newTestMap(t *testing.T, w *World, id string) *Map {
	t.Helper()
	m, err := w.NewMap(id, 10, 8)
	require.NoError(t, err)
	return m
}

func TestRooms_Rebuild(t *testing.T) {
	w := New()
	m := newTestMap(t, w, "home")
	buildHouse(t, m)

	r := m.Room(core.Cell{X: 4, Z: 4})
	require.NotNil(t, r)
	assert.Equal(t, interior, r.Cells())
	assert.False(t, r.Outdoors())
	assert.False(t, r.Doorway())
	assert.Equal(t, "bedroom", r.Role())
	assert.Same(t, m, r.Container())

	door := m.Room(core.Cell{X: 4, Z: 2})
	require.NotNil(t, door)
	assert.True(t, door.Doorway())
	assert.Equal(t, []core.Cell{{X: 4, Z: 2}}, door.Cells())

	outside := m.Room(core.Cell{X: 0, Z: 0})
	require.NotNil(t, outside)
	assert.True(t, outside.Outdoors())

	assert.Nil(t, m.RoomAt(core.Cell{X: 2, Z: 2}), "walls belong to no room")
}

func TestRooms_ChurnDetachesOldRooms(t *testing.T) {
	w := New()
	m := newTestMap(t, w, "home")
	buildHouse(t, m)

	before := m.Room(core.Cell{X: 3, Z: 3})
	rec := m.Labels().RoomOrCreate(before)
	rec.CustomName = "Master bedroom"
	gen := m.Generation()

	// An unrelated wall far away still rebuilds every room.
	_, err := m.Spawn("wall", Wall, core.Cell{X: 9, Z: 7})
	require.NoError(t, err)

	after := m.Room(core.Cell{X: 3, Z: 3})
	assert.NotSame(t, before, after)
	assert.Greater(t, m.Generation(), gen)
	assert.Nil(t, before.Container())
	assert.Nil(t, m.Labels().Room(before), "a detached room is invalid")
	assert.Same(t, rec, m.Labels().Room(after))
}

func TestRooms_Roles(t *testing.T) {
	w := New()
	m := newTestMap(t, w, "home")
	bed, _ := buildHouse(t, m)
	room := m.Room(interior[0])

	require.NoError(t, m.Despawn(bed.ID()))
	assert.Equal(t, "dining room", room.Role())

	_, err := m.Spawn("bed", Item, interior[1])
	require.NoError(t, err)
	_, err = m.Spawn("bed", Item, interior[2])
	require.NoError(t, err)
	assert.Equal(t, "barracks", room.Role())
}

func TestRooms_Fogged(t *testing.T) {
	w := New()
	m := newTestMap(t, w, "home")
	buildHouse(t, m)

	m.SetFogged(true, interior[1])
	assert.False(t, m.Room(interior[0]).Fogged(), "only the first cell counts")
	m.SetFogged(true, interior[0])
	assert.True(t, m.Room(interior[0]).Fogged())
	m.SetFogged(false, interior[0])
	assert.False(t, m.Room(interior[0]).Fogged())
}

func TestMap_SpawnValidation(t *testing.T) {
	w := New()
	m := newTestMap(t, w, "home")

	_, err := m.Spawn("bed", Item, core.Cell{X: 10, Z: 0})
	assert.Error(t, err)

	_, err = m.Spawn("wall", Wall, core.Cell{X: 1, Z: 1})
	require.NoError(t, err)
	_, err = m.Spawn("door", Door, core.Cell{X: 1, Z: 1})
	assert.Error(t, err, "one structure per cell")

	_, err = m.Spawn("chair", Item, core.Cell{X: 1, Z: 1})
	assert.NoError(t, err)

	assert.Error(t, m.Despawn("missing"))
}

func TestThing_Anchors(t *testing.T) {
	w := New()
	m := newTestMap(t, w, "home")

	door, err := m.Spawn("door", Door, core.Cell{X: 1, Z: 1})
	require.NoError(t, err)
	wall, err := m.Spawn("wall", Wall, core.Cell{X: 2, Z: 1})
	require.NoError(t, err)

	assert.Nil(t, door.Anchor())
	assert.True(t, door.Door())
	assert.NotNil(t, wall.Anchor())
	assert.Nil(t, wall.Anchor().Record())
	assert.NotEmpty(t, wall.ID())
}

func TestWorld_Maps(t *testing.T) {
	w := New()
	newTestMap(t, w, "b")
	newTestMap(t, w, "a")

	_, err := w.NewMap("a", 5, 5)
	assert.Error(t, err)
	_, err = w.NewMap("c", 0, 5)
	assert.Error(t, err)

	anon, err := w.NewMap("", 3, 3)
	require.NoError(t, err)
	assert.Len(t, anon.ID(), 36)

	_, err = w.Map("zzz")
	assert.ErrorIs(t, err, core.ErrUnknownContainer)

	w.RemoveMap(anon.ID())
	ids := []string{}
	for _, m := range w.Maps() {
		ids = append(ids, m.ID())
	}
	assert.Equal(t, []string{"a", "b"}, ids)
}

func TestWorld_Zones(t *testing.T) {
	w := New()
	a := newTestMap(t, w, "a")
	b := newTestMap(t, w, "b")

	z1, err := w.AddZone(a, core.ZoneGrowing, "", []core.Cell{{X: 1, Z: 1}, {X: 0, Z: 1}})
	require.NoError(t, err)
	z2, err := w.AddZone(b, core.ZoneStorage, "Food", []core.Cell{{X: 1, Z: 1}})
	require.NoError(t, err)

	assert.Equal(t, 1, z1.ID())
	assert.Equal(t, 2, z2.ID())
	assert.Equal(t, "Growing zone 1", z1.Label())
	assert.Equal(t, []core.Cell{{X: 0, Z: 1}, {X: 1, Z: 1}}, z1.Cells())

	require.NoError(t, a.RemoveZone(z1.ID()))
	z3, err := w.AddZone(a, core.ZoneStorage, "", []core.Cell{{X: 1, Z: 1}})
	require.NoError(t, err)
	assert.Equal(t, 3, z3.ID(), "ids are never reused")
	assert.Equal(t, "Stockpile zone 3", z3.Label())

	_, err = w.AddZone(a, core.ZoneStorage, "", []core.Cell{{X: 1, Z: 1}})
	assert.Error(t, err, "overlap")
	_, err = w.AddZone(a, core.ZoneStorage, "", nil)
	assert.Error(t, err)
	_, err = w.AddZone(a, core.ZoneKind(9), "", []core.Cell{{X: 2, Z: 2}})
	assert.Error(t, err)
}

func TestMap_RegionAt(t *testing.T) {
	w := New()
	m := newTestMap(t, w, "home")
	buildHouse(t, m)
	zone, err := w.AddZone(m, core.ZoneStorage, "", []core.Cell{interior[0]})
	require.NoError(t, err)

	r, ok := m.RegionAt(interior[0])
	require.True(t, ok)
	assert.Equal(t, core.KindZone, r.Kind)
	assert.Equal(t, zone.ID(), r.Zone.ID())

	r, ok = m.RegionAt(interior[1])
	require.True(t, ok)
	assert.Equal(t, core.KindRoom, r.Kind)

	_, ok = m.RegionAt(core.Cell{X: 2, Z: 2})
	assert.False(t, ok)
}

func TestWorld_TickReconciles(t *testing.T) {
	w := New(WithReconcileEvery(2))
	m := newTestMap(t, w, "home")
	bed, table := buildHouse(t, m)

	rec := m.Labels().RoomOrCreate(m.Room(interior[0]))
	bed.Anchor().Set(rec.Clone())
	table.Anchor().Set(nil)

	ctx := context.Background()
	require.NoError(t, w.Tick(ctx))
	assert.Nil(t, table.Anchor().Record(), "not due yet")

	require.NoError(t, w.Tick(ctx))
	assert.Same(t, rec, bed.Anchor().Record())
	assert.Same(t, rec, table.Anchor().Record())
	assert.Equal(t, uint64(2), m.Scheduler().Current())

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	assert.ErrorIs(t, w.Tick(cancelled), context.Canceled)
}

func TestWorld_Clock(t *testing.T) {
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	w := New(WithClock(func() time.Time { return at }))
	m := newTestMap(t, w, "home")
	assert.Equal(t, at, m.LoadedAt())
}
