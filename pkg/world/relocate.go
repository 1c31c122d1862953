package world

import (
	"errors"
	"fmt"

	"github.com/aretw0/roomtag/pkg/core"
)

// Relocate moves every thing inside area from src to dst, shifted by offset. Things
// keep their anchors, and with them their records; neither map's directory is
// touched. Zones and fog stay behind.
//
// Nothing moves unless every target cell is on dst and free of structure.
func (w *World) Relocate(src, dst *Map, area core.CellRect, offset core.Cell) (int, error) {
	if src == dst {
		return 0, fmt.Errorf("relocation needs two different maps")
	}

	var moving []*Thing
	for _, t := range src.Things() {
		if area.Contains(t.cell) {
			moving = append(moving, t)
		}
	}

	structural := make(map[core.Cell]bool)
	for _, t := range moving {
		target := t.cell.Add(offset)
		if !dst.InBounds(target) {
			return 0, fmt.Errorf("cell %s out of bounds on map %s", target, dst.id)
		}
		if t.kind.Structural() {
			if dst.wallAt(target) || dst.doorAt(target) || structural[target] {
				return 0, fmt.Errorf("%w: %s on map %s", ErrBlocked, target, dst.id)
			}
			if _, zoned := dst.zoneAt[target]; zoned {
				return 0, fmt.Errorf("%w: %s is zoned on map %s", ErrBlocked, target, dst.id)
			}
			structural[target] = true
		}
		if _, dup := dst.byID[t.id]; dup {
			return 0, fmt.Errorf("thing %s already on map %s", t.id, dst.id)
		}
	}

	for _, t := range moving {
		src.remove(t)
		t.cell = t.cell.Add(offset)
		if err := dst.place(t); err != nil {
			panic(fmt.Sprintf("relocate: checked target rejected: %v", err))
		}
	}
	if len(moving) > 0 {
		src.rebuildRooms()
		dst.rebuildRooms()
	}

	w.logger.Info("things relocated", "from", src.id, "to", dst.id, "count", len(moving))
	return len(moving), nil
}

// ErrBlocked reports a relocation target already occupied by structure.
var ErrBlocked = errors.New("target cell is blocked")
