package platform

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/aretw0/roomtag/pkg/core"
	"github.com/aretw0/roomtag/pkg/dialog"
	"github.com/aretw0/roomtag/pkg/directory"
	"github.com/aretw0/roomtag/pkg/render"
	"github.com/aretw0/roomtag/pkg/schedule"
	"github.com/aretw0/roomtag/pkg/textctx"
	"github.com/aretw0/roomtag/pkg/world"
)

// Service ties a save repository to a live world and the label consumers.
// Every operation is serialized; the world itself is not safe for concurrent use.
type Service struct {
	mu       sync.Mutex
	repo     core.Repository
	world    *world.World
	renderer *render.Renderer
	logger   *slog.Logger
}

// NewService wraps an initialized repository.
func NewService(repo core.Repository, opts ...Option) (*Service, error) {
	return newService(repo, collect(opts))
}

func newService(repo core.Repository, o *options) (*Service, error) {
	settings := core.DefaultSettings()
	if o.settings != nil {
		settings = *o.settings
	}
	if o.reconcileEvery > 0 {
		settings.ReconcileEveryTicks = o.reconcileEvery
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	wopts := []world.Option{
		world.WithLogger(o.logger),
		world.WithReconcileEvery(settings.ReconcileEveryTicks),
	}
	if o.registry != nil {
		wopts = append(wopts, world.WithMetrics(directory.NewMetrics(o.registry)))
	}
	if o.events != nil {
		wopts = append(wopts, world.WithEvents(o.events))
	}

	return &Service{
		repo:     repo,
		world:    world.New(wopts...),
		renderer: render.New(settings, render.WithLogger(o.logger)),
		logger:   o.logger,
	}, nil
}

// Repository returns the underlying save repository.
func (s *Service) Repository() core.Repository { return s.repo }

// Settings returns the display settings in effect.
func (s *Service) Settings() core.Settings { return s.renderer.Settings() }

// SetSettings validates and applies new display settings.
// The reconciliation cadence only applies to maps loaded afterwards.
func (s *Service) SetSettings(settings core.Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	s.renderer.SetSettings(settings)
	s.logger.Debug("settings applied", "rooms", settings.ShowRoomLabels, "zones", settings.ShowZoneLabels)
	return nil
}

// ToggleVisibility flips room and zone labels together and returns the new state.
func (s *Service) ToggleVisibility() bool {
	settings := s.renderer.Settings()
	on := settings.ToggleVisibility()
	s.renderer.SetSettings(settings)
	return on
}

// --- Maps ---

// Seed creates the demo colony under id and saves it.
func (s *Service) Seed(ctx context.Context, id string) (*world.Map, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.repo.Get(ctx, id); err == nil {
		return nil, fmt.Errorf("save %q already exists", id)
	} else if !errors.Is(err, core.ErrNotFound) {
		return nil, err
	}
	m, err := SeedDemo(s.world, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, m.State()); err != nil {
		s.world.RemoveMap(id)
		return nil, err
	}
	s.logger.Info("demo colony created", "map", m.ID())
	return m, nil
}

// Load returns the live map with the given id, restoring it from its save on first
// use. Restoring runs a reconciliation pass.
func (s *Service) Load(ctx context.Context, id string) (*world.Map, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx, id)
}

func (s *Service) load(ctx context.Context, id string) (*world.Map, error) {
	if m, err := s.world.Map(id); err == nil {
		return m, nil
	}
	state, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	m, _, err := s.world.RestoreMap(state)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Save writes the live map with the given id.
func (s *Service) Save(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(ctx, id)
}

func (s *Service) save(ctx context.Context, id string) error {
	m, err := s.world.Map(id)
	if err != nil {
		return err
	}
	return s.repo.Save(ctx, m.State())
}

// SaveAll writes every live map.
func (s *Service) SaveAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var errs []error
	for _, m := range s.world.Maps() {
		if err := s.repo.Save(ctx, m.State()); err != nil {
			errs = append(errs, fmt.Errorf("save %s: %w", m.ID(), err))
		}
	}
	return errors.Join(errs...)
}

// Summaries lists saves whose id matches the glob (empty matches all).
// Repositories that cannot catalog themselves are summarized save by save.
func (s *Service) Summaries(ctx context.Context, match string) ([]core.Summary, error) {
	if c, ok := s.repo.(core.Cataloger); ok {
		return c.Summaries(ctx, match)
	}
	if match != "" && !doublestar.ValidatePattern(match) {
		return nil, fmt.Errorf("invalid pattern %q", match)
	}
	ids, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	var out []core.Summary
	for _, id := range ids {
		if match != "" {
			if ok, _ := doublestar.Match(match, id); !ok {
				continue
			}
		}
		state, err := s.repo.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, core.Summarize(state))
	}
	return out, nil
}

// --- Labels ---

// Edit changes a record through an editing session.
type Edit func(*dialog.Session) error

// Label opens an editing session on the region at c, applies the edits and saves the
// map. The edited record is validated before it is saved.
func (s *Service) Label(ctx context.Context, id string, c core.Cell, edits ...Edit) (*dialog.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	session, err := dialog.Open(m, c, m.Labels())
	if err != nil {
		return nil, err
	}
	// Edits go straight to the shared record; a failed edit puts the old values back
	// in place so anchors keep pointing at the same instance.
	rec := session.Record()
	before := rec.Clone()
	for _, edit := range edits {
		if err := edit(session); err != nil {
			*rec = *before
			return nil, err
		}
	}
	if err := rec.Validate(); err != nil {
		*rec = *before
		return nil, err
	}
	if err := s.save(ctx, id); err != nil {
		return nil, err
	}
	s.logger.Info("label updated",
		"map", id,
		"region", session.Region().Kind.String(),
		"title", session.Title(),
		"name", session.Record().CustomName,
	)
	return session, nil
}

// Frame computes the labels of a map. A nil view covers the whole map.
func (s *Service) Frame(ctx context.Context, id string, view *core.CellRect) ([]render.Label, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	area := fullView(m)
	if view != nil {
		area = *view
	}
	return s.renderer.Frame(m, area, m.Labels()), nil
}

func fullView(m *world.Map) core.CellRect {
	w, h := m.Size()
	return core.CellRect{Max: core.Cell{X: w - 1, Z: h - 1}}
}

// Inspection is the label view of one cell.
type Inspection struct {
	Kind   core.RegionKind `json:"kind" yaml:"kind"`
	Title  string          `json:"title" yaml:"title"`
	Record *core.Record    `json:"record,omitempty" yaml:"record,omitempty"`
	Text   string          `json:"text" yaml:"text"`
}

// Inspect reports the record of the region at c without creating one, together with
// the text a host would show for it. For rooms, text is rewritten with the custom
// name and description; an empty text becomes "In the <role>.".
func (s *Service) Inspect(ctx context.Context, id string, c core.Cell, text string) (Inspection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.load(ctx, id)
	if err != nil {
		return Inspection{}, err
	}
	region, ok := m.RegionAt(c)
	if !ok {
		return Inspection{}, fmt.Errorf("%w: %s", core.ErrNoTarget, c)
	}

	labels := m.Labels()
	out := Inspection{Kind: region.Kind, Record: labels.Get(region)}
	switch region.Kind {
	case core.KindZone:
		out.Title = region.Zone.Label()
		out.Text = textctx.ZoneInspect(region.Zone.Label(), region.Zone, labels)
	case core.KindRoom:
		role := "room"
		if r, ok := region.Room.(*world.Room); ok {
			role = r.Role()
		}
		out.Title = role
		if text == "" {
			text = "In the " + role + "."
		}
		out.Text = textctx.LocationContext(text, region.Room, role, labels)
	}
	return out, nil
}

// Relocate moves the things inside area from src to dst, shifted by offset, then
// saves both maps. A missing dst is created with the size of src.
func (s *Service) Relocate(ctx context.Context, src, dst string, area core.CellRect, offset core.Cell) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	from, err := s.load(ctx, src)
	if err != nil {
		return 0, err
	}
	to, err := s.load(ctx, dst)
	created := false
	if errors.Is(err, core.ErrNotFound) {
		w, h := from.Size()
		to, err = s.world.NewMap(dst, w, h)
		created = err == nil
	}
	if err != nil {
		return 0, err
	}

	n, err := s.world.Relocate(from, to, area, offset)
	if err != nil {
		if created {
			s.world.RemoveMap(dst)
		}
		return 0, err
	}
	if err := s.save(ctx, src); err != nil {
		return n, err
	}
	if err := s.save(ctx, dst); err != nil {
		return n, err
	}
	s.logger.Info("things relocated", "from", src, "to", dst, "count", n)
	return n, nil
}

// Reconcile runs a reconciliation pass on a map and saves it.
func (s *Service) Reconcile(ctx context.Context, id string) (directory.ReconcileReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.load(ctx, id)
	if err != nil {
		return directory.ReconcileReport{}, err
	}
	report := m.Labels().Reconcile(m)
	if err := s.save(ctx, id); err != nil {
		return report, err
	}
	return report, nil
}

// Tick advances every live map by one tick.
func (s *Service) Tick(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.world.Tick(ctx)
}

// Run ticks the world every interval until ctx ends or ticks have elapsed (zero
// means no limit), then saves every live map.
func (s *Service) Run(ctx context.Context, ticks uint64, interval time.Duration) error {
	runner := schedule.Runner{
		Target:   s,
		Interval: interval,
		MaxTicks: ticks,
		Logger:   s.logger,
	}
	if err := runner.Run(ctx); err != nil {
		return err
	}
	return s.SaveAll(context.WithoutCancel(ctx))
}

// Close releases the repository when it holds resources.
func (s *Service) Close() error {
	if c, ok := s.repo.(core.Closer); ok {
		return c.Close()
	}
	return nil
}
