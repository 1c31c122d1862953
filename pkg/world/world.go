// Package world is a small host simulation for the label directory.
//
// A World owns maps. Each map is a grid of cells holding things (furniture, walls and
// doors), user-defined zones and fog. Rooms are rebuilt from scratch on every
// structural change, so no Room value survives a wall being placed or removed; this
// is the churn the directory has to cope with.
package world

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/aretw0/roomtag/pkg/core"
	"github.com/aretw0/roomtag/pkg/directory"
)

// World owns every map and hands out zone identities.
type World struct {
	maps     map[string]*Map
	nextZone int

	logger         *slog.Logger
	metrics        *directory.Metrics
	events         chan<- core.Event
	reconcileEvery uint64
	now            func() time.Time
}

// Option configures a World.
type Option func(*World)

// WithLogger sets the logger shared by maps, directories and schedulers.
func WithLogger(l *slog.Logger) Option {
	return func(w *World) {
		if l != nil {
			w.logger = l
		}
	}
}

// WithMetrics shares m between the directories of every map.
func WithMetrics(m *directory.Metrics) Option {
	return func(w *World) {
		w.metrics = m
	}
}

// WithEvents forwards directory events of every map to ch.
func WithEvents(ch chan<- core.Event) Option {
	return func(w *World) {
		w.events = ch
	}
}

// WithReconcileEvery sets the reconciliation cadence in ticks.
func WithReconcileEvery(n uint64) Option {
	return func(w *World) {
		if n > 0 {
			w.reconcileEvery = n
		}
	}
}

// WithClock overrides the time source used to stamp map loads.
func WithClock(now func() time.Time) Option {
	return func(w *World) {
		if now != nil {
			w.now = now
		}
	}
}

// New creates an empty world.
func New(opts ...Option) *World {
	w := &World{
		maps:           make(map[string]*Map),
		nextZone:       1,
		logger:         slog.New(slog.DiscardHandler),
		reconcileEvery: core.DefaultSettings().ReconcileEveryTicks,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// NewMap creates a width × height map. An empty id gets a random one.
func (w *World) NewMap(id string, width, height int) (*Map, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid map size %dx%d", width, height)
	}
	if id == "" {
		id = uuid.NewString()
	}
	if _, exists := w.maps[id]; exists {
		return nil, fmt.Errorf("map %q already exists", id)
	}

	m := newMap(w, id, width, height)
	if err := m.sched.Every(w.reconcileEvery, directory.ReconcileTask{Directory: m.labels, Container: m}); err != nil {
		return nil, err
	}
	w.maps[id] = m
	w.logger.Debug("map created", "map", id, "width", width, "height", height)
	return m, nil
}

// Map returns the map with the given id.
func (w *World) Map(id string) (*Map, error) {
	m, ok := w.maps[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrUnknownContainer, id)
	}
	return m, nil
}

// Maps returns every map ordered by id.
func (w *World) Maps() []*Map {
	out := make([]*Map, 0, len(w.maps))
	for _, m := range w.maps {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].id < out[j].id })
	return out
}

// RemoveMap discards a map together with its directory.
func (w *World) RemoveMap(id string) {
	if m, ok := w.maps[id]; ok {
		m.detachRooms()
		delete(w.maps, id)
	}
}

// Tick advances every map's scheduler by one tick.
func (w *World) Tick(ctx context.Context) error {
	var errs []error
	for _, m := range w.Maps() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := m.sched.Tick(ctx); err != nil {
			errs = append(errs, fmt.Errorf("map %s: %w", m.id, err))
		}
	}
	return errors.Join(errs...)
}

// AddZone creates a zone on m. The identity is unique across the world and never
// reused. An empty label gets a generated one.
func (w *World) AddZone(m *Map, kind core.ZoneKind, label string, cells []core.Cell) (*Zone, error) {
	if kind != core.ZoneGrowing && kind != core.ZoneStorage {
		return nil, fmt.Errorf("invalid zone kind %d", kind)
	}
	if len(cells) == 0 {
		return nil, errors.New("zone needs at least one cell")
	}
	for _, c := range cells {
		if !m.InBounds(c) {
			return nil, fmt.Errorf("zone cell %s out of bounds", c)
		}
		if m.wallAt(c) || m.doorAt(c) {
			return nil, fmt.Errorf("zone cell %s is blocked", c)
		}
		if id, taken := m.zoneAt[c]; taken {
			return nil, fmt.Errorf("zone cell %s already belongs to zone %d", c, id)
		}
	}

	id := w.nextZone
	w.nextZone++
	if label == "" {
		label = defaultZoneLabel(kind, id)
	}
	z := newZone(id, kind, label, cells)
	m.putZone(z)
	w.logger.Debug("zone created", "map", m.id, "zone", id, "kind", kind.String())
	return z, nil
}

func defaultZoneLabel(kind core.ZoneKind, id int) string {
	if kind == core.ZoneGrowing {
		return fmt.Sprintf("Growing zone %d", id)
	}
	return fmt.Sprintf("Stockpile zone %d", id)
}
