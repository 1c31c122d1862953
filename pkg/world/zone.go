package world

import (
	"slices"

	"github.com/aretw0/roomtag/pkg/core"
)

// Zone is a user-defined area with a stable id.
type Zone struct {
	id    int
	kind  core.ZoneKind
	label string
	cells []core.Cell
}

func newZone(id int, kind core.ZoneKind, label string, cells []core.Cell) *Zone {
	sorted := slices.Clone(cells)
	sortCells(sorted)
	return &Zone{id: id, kind: kind, label: label, cells: slices.Compact(sorted)}
}

func (z *Zone) ID() int             { return z.id }
func (z *Zone) Kind() core.ZoneKind { return z.kind }
func (z *Zone) Label() string       { return z.label }
func (z *Zone) Cells() []core.Cell  { return z.cells }

// Rename changes the zone's own label, not its annotation.
func (z *Zone) Rename(label string) {
	if label != "" {
		z.label = label
	}
}
