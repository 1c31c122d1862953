package platform

import (
	"fmt"

	"github.com/aretw0/roomtag/pkg/core"
	"github.com/aretw0/roomtag/pkg/world"
)

// Demo map size.
const (
	DemoWidth  = 14
	DemoHeight = 10
)

// SeedDemo builds a small colony on a new map: a house split into a bedroom and a
// dining room by an inner wall with a door, and a growing and a storage zone outside.
//
//	  x 1 2 3 4 5 6 7 8 9
//	z1  # # D # # # # # #
//	z2  # . . . # . . . #
//	z3  # . . . D . T . #
//	z4  # . B . # . . . #
//	z5  # . . . # . . . #
//	z6  # # # # # # # # #
func SeedDemo(w *world.World, id string) (*world.Map, error) {
	m, err := w.NewMap(id, DemoWidth, DemoHeight)
	if err != nil {
		return nil, err
	}

	type spawn struct {
		def  string
		kind world.Kind
		x, z int
	}
	var plan []spawn
	for x := 1; x <= 9; x++ {
		top := spawn{"wall", world.Wall, x, 1}
		if x == 3 {
			top = spawn{"door", world.Door, x, 1}
		}
		plan = append(plan, top, spawn{"wall", world.Wall, x, 6})
	}
	for z := 2; z <= 5; z++ {
		inner := spawn{"wall", world.Wall, 5, z}
		if z == 3 {
			inner = spawn{"door", world.Door, 5, z}
		}
		plan = append(plan, spawn{"wall", world.Wall, 1, z}, spawn{"wall", world.Wall, 9, z}, inner)
	}
	plan = append(plan,
		spawn{"bed", world.Item, 3, 4},
		spawn{"lamp", world.Item, 2, 2},
		spawn{"table", world.Item, 7, 3},
		spawn{"chair", world.Item, 6, 3},
		spawn{"shelf", world.Item, 8, 5},
	)
	for _, s := range plan {
		if _, err := m.Spawn(s.def, s.kind, core.Cell{X: s.x, Z: s.z}); err != nil {
			return nil, fmt.Errorf("seed %s at %d,%d: %w", s.def, s.x, s.z, err)
		}
	}

	if _, err := w.AddZone(m, core.ZoneGrowing, "", rect(11, 1, 12, 3)); err != nil {
		return nil, err
	}
	if _, err := w.AddZone(m, core.ZoneStorage, "", rect(11, 6, 12, 8)); err != nil {
		return nil, err
	}
	return m, nil
}

func rect(x0, z0, x1, z1 int) []core.Cell {
	var cells []core.Cell
	for z := z0; z <= z1; z++ {
		for x := x0; x <= x1; x++ {
			cells = append(cells, core.Cell{X: x, Z: z})
		}
	}
	return cells
}
