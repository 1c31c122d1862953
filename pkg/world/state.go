package world

import (
	"fmt"

	"github.com/aretw0/roomtag/pkg/core"
	"github.com/aretw0/roomtag/pkg/directory"
)

// State returns the durable form of the map. Anchors are copied per thing, so the
// saved records are independent of the directory's copies.
func (m *Map) State() core.ContainerState {
	s := core.ContainerState{
		Version: core.CurrentStateVersion,
		ID:      m.id,
		Width:   m.width,
		Height:  m.height,
		Labels:  m.labels.Snapshot(),
	}
	for _, t := range m.Things() {
		s.Things = append(s.Things, core.ThingState{
			ID:     t.id,
			Def:    t.def,
			Cell:   t.cell,
			Wall:   t.kind == Wall,
			Door:   t.kind == Door,
			Anchor: t.anchor.Record().Clone(),
		})
	}
	for _, z := range m.Zones() {
		zone := z.(*Zone)
		s.Zones = append(s.Zones, core.ZoneState{
			ID:    zone.id,
			Kind:  zone.kind,
			Label: zone.label,
			Cells: zone.cells,
		})
	}
	for z := 0; z < m.height; z++ {
		for x := 0; x < m.width; x++ {
			if c := (core.Cell{X: x, Z: z}); m.fog[c] {
				s.Fogged = append(s.Fogged, c)
			}
		}
	}
	return s
}

// RestoreMap loads a saved map into the world. After loading, one reconciliation
// pass points the anchors of every tracked room back at the directory's records.
func (w *World) RestoreMap(s core.ContainerState) (*Map, directory.ReconcileReport, error) {
	var report directory.ReconcileReport
	if s.Version > core.CurrentStateVersion {
		return nil, report, fmt.Errorf("map %q: unsupported state version %d", s.ID, s.Version)
	}
	if s.ID == "" {
		return nil, report, fmt.Errorf("map state has no id")
	}
	if _, exists := w.maps[s.ID]; exists {
		return nil, report, fmt.Errorf("map %q already exists", s.ID)
	}
	if s.Width <= 0 || s.Height <= 0 {
		return nil, report, fmt.Errorf("map %q: invalid size %dx%d", s.ID, s.Width, s.Height)
	}

	m := newMap(w, s.ID, s.Width, s.Height)
	for _, ts := range s.Things {
		kind := Item
		switch {
		case ts.Door:
			kind = Door
		case ts.Wall:
			kind = Wall
		}
		if err := m.place(newThing(ts.ID, ts.Def, kind, ts.Cell, ts.Anchor.Clone())); err != nil {
			return nil, report, fmt.Errorf("map %q: %w", s.ID, err)
		}
	}
	for _, zs := range s.Zones {
		if _, dup := m.zones[zs.ID]; dup {
			return nil, report, fmt.Errorf("map %q: duplicate zone %d", s.ID, zs.ID)
		}
		m.putZone(newZone(zs.ID, zs.Kind, zs.Label, zs.Cells))
		if zs.ID >= w.nextZone {
			w.nextZone = zs.ID + 1
		}
	}
	m.SetFogged(true, s.Fogged...)
	if err := m.labels.Restore(s.Labels); err != nil {
		return nil, report, fmt.Errorf("map %q: %w", s.ID, err)
	}

	m.rebuildRooms()
	if err := m.sched.Every(w.reconcileEvery, directory.ReconcileTask{Directory: m.labels, Container: m}); err != nil {
		return nil, report, err
	}
	w.maps[s.ID] = m

	report = m.labels.Reconcile(m)
	w.logger.Info("map restored",
		"map", s.ID,
		"things", len(s.Things),
		"zones", len(s.Zones),
		"anchors", report.Anchors,
		"stale", report.Stale,
	)
	return m, report, nil
}
