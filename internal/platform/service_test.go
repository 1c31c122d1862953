package platform_test

import (
	"context"
	"errors"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/roomtag/internal/platform"
	"github.com/aretw0/roomtag/pkg/core"
	"github.com/aretw0/roomtag/pkg/dialog"
)

var (
	bedroomCell = core.Cell{X: 3, Z: 3}
	diningCell  = core.Cell{X: 7, Z: 4}
	houseArea   = core.CellRect{Min: core.Cell{X: 1, Z: 1}, Max: core.Cell{X: 9, Z: 6}}
)

func noGrace() core.Settings {
	s := core.DefaultSettings()
	s.LoadGrace = 0
	return s
}

// setupService opens a service on a fresh directory of the given adapter.
func setupService(t *testing.T, dir, adapter string, opts ...platform.Option) *platform.Service {
	t.Helper()
	base := []platform.Option{
		platform.WithAdapter(adapter),
		platform.WithSettings(noGrace()),
	}
	svc, err := platform.New(dir, append(base, opts...)...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = svc.Close() })
	return svc
}

func named(name string) platform.Edit {
	return func(s *dialog.Session) error {
		s.SetName(name)
		return nil
	}
}

func TestService_SeedAndList(t *testing.T) {
	for _, adapter := range []string{platform.AdapterFS, platform.AdapterBadger} {
		t.Run(adapter, func(t *testing.T) {
			ctx := context.Background()
			svc := setupService(t, t.TempDir(), adapter)

			_, err := svc.Seed(ctx, "colony")
			require.NoError(t, err)
			_, err = svc.Seed(ctx, "colony")
			assert.Error(t, err, "seeding over a save is refused")

			sums, err := svc.Summaries(ctx, "col*")
			require.NoError(t, err)
			require.Len(t, sums, 1)
			assert.Equal(t, platform.DemoWidth, sums[0].Width)
			assert.Equal(t, 2, sums[0].Zones)
		})
	}
}

func TestService_LabelAndFrame(t *testing.T) {
	ctx := context.Background()
	svc := setupService(t, t.TempDir(), platform.AdapterFS)
	_, err := svc.Seed(ctx, "colony")
	require.NoError(t, err)

	session, err := svc.Label(ctx, "colony", bedroomCell, named("Master bedroom"))
	require.NoError(t, err)
	assert.Equal(t, "Bedroom", session.Title())

	labels, err := svc.Frame(ctx, "colony", nil)
	require.NoError(t, err)

	texts := map[string]string{}
	for _, l := range labels {
		texts[l.Key] = l.Text
	}
	assert.Equal(t, map[string]string{
		"zone:1":   "Growing zone 1",
		"zone:2":   "Stockpile zone 2",
		"room:2,2": "Master bedroom",
		"room:6,2": "Dining room",
	}, texts)

	t.Run("View Culls Regions", func(t *testing.T) {
		view := core.CellRect{Max: core.Cell{X: 4, Z: 4}}
		labels, err := svc.Frame(ctx, "colony", &view)
		require.NoError(t, err)
		require.Len(t, labels, 1)
		assert.Equal(t, "room:2,2", labels[0].Key)
	})

	t.Run("Toggle Hides Everything", func(t *testing.T) {
		assert.False(t, svc.ToggleVisibility())
		labels, err := svc.Frame(ctx, "colony", nil)
		require.NoError(t, err)
		assert.Empty(t, labels)
		assert.True(t, svc.ToggleVisibility())
	})
}

func TestService_LabelTargets(t *testing.T) {
	ctx := context.Background()
	svc := setupService(t, t.TempDir(), platform.AdapterFS)
	_, err := svc.Seed(ctx, "colony")
	require.NoError(t, err)

	_, err = svc.Label(ctx, "colony", core.Cell{X: 5, Z: 3}, named("x"))
	assert.ErrorIs(t, err, core.ErrDoorway)

	_, err = svc.Label(ctx, "colony", core.Cell{X: 0, Z: 9}, named("x"))
	assert.ErrorIs(t, err, core.ErrNoTarget, "outdoors is not a target")

	session, err := svc.Label(ctx, "colony", core.Cell{X: 11, Z: 2}, named("Herb garden"))
	require.NoError(t, err)
	assert.Equal(t, core.KindZone, session.Region().Kind)

	_, err = svc.Label(ctx, "missing", bedroomCell, named("x"))
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestService_Inspect(t *testing.T) {
	ctx := context.Background()
	svc := setupService(t, t.TempDir(), platform.AdapterFS)
	_, err := svc.Seed(ctx, "colony")
	require.NoError(t, err)

	before, err := svc.Inspect(ctx, "colony", diningCell, "")
	require.NoError(t, err)
	assert.Nil(t, before.Record, "inspection never creates a record")
	assert.Equal(t, "In the dining room.", before.Text)

	_, err = svc.Label(ctx, "colony", diningCell, named("Kitchen"), func(s *dialog.Session) error {
		s.SetDescription("smells of stew")
		return nil
	})
	require.NoError(t, err)

	after, err := svc.Inspect(ctx, "colony", diningCell, "")
	require.NoError(t, err)
	require.NotNil(t, after.Record)
	assert.Equal(t, "In the Kitchen.\n(Location Context: smells of stew)", after.Text)

	_, err = svc.Label(ctx, "colony", core.Cell{X: 12, Z: 7}, named("Pantry"))
	require.NoError(t, err)
	zone, err := svc.Inspect(ctx, "colony", core.Cell{X: 12, Z: 7}, "")
	require.NoError(t, err)
	assert.Equal(t, "Stockpile zone 2\nName: Pantry", zone.Text)
}

func TestService_RecoversLostIndex(t *testing.T) {
	for _, adapter := range []string{platform.AdapterFS, platform.AdapterBadger} {
		t.Run(adapter, func(t *testing.T) {
			ctx := context.Background()
			dir := filepath.Join(t.TempDir(), "saves")

			first := setupService(t, dir, adapter)
			_, err := first.Seed(ctx, "colony")
			require.NoError(t, err)
			_, err = first.Label(ctx, "colony", bedroomCell, named("Master bedroom"))
			require.NoError(t, err)

			// Drop the directory from the save; only the anchors remember the name.
			state, err := first.Repository().Get(ctx, "colony")
			require.NoError(t, err)
			state.Labels = core.LabelState{}
			require.NoError(t, first.Repository().Save(ctx, state))
			require.NoError(t, first.Close())

			second := setupService(t, dir, adapter)
			got, err := second.Inspect(ctx, "colony", bedroomCell, "")
			require.NoError(t, err)
			require.NotNil(t, got.Record)
			assert.Equal(t, "Master bedroom", got.Record.CustomName)
		})
	}
}

func TestService_RelocateKeepsNames(t *testing.T) {
	ctx := context.Background()
	svc := setupService(t, t.TempDir(), platform.AdapterFS)
	_, err := svc.Seed(ctx, "colony")
	require.NoError(t, err)
	_, err = svc.Label(ctx, "colony", diningCell, named("Kitchen"))
	require.NoError(t, err)

	n, err := svc.Relocate(ctx, "colony", "outpost", houseArea, core.Cell{X: 2, Z: 2})
	require.NoError(t, err)
	assert.Equal(t, 35, n, "the whole house moves: 30 walls and doors plus 5 items")

	got, err := svc.Inspect(ctx, "outpost", diningCell.Add(core.Cell{X: 2, Z: 2}), "")
	require.NoError(t, err)
	require.NotNil(t, got.Record)
	assert.Equal(t, "Kitchen", got.Record.CustomName)

	ids, err := svc.Repository().List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"colony", "outpost"}, ids)
}

func TestService_RelocateFailureLeavesNoMap(t *testing.T) {
	ctx := context.Background()
	svc := setupService(t, t.TempDir(), platform.AdapterFS)
	_, err := svc.Seed(ctx, "colony")
	require.NoError(t, err)

	_, err = svc.Relocate(ctx, "colony", "ghost", houseArea, core.Cell{X: 50})
	require.Error(t, err)

	_, err = svc.Load(ctx, "ghost")
	assert.ErrorIs(t, err, core.ErrNotFound)

	require.NoError(t, svc.SaveAll(ctx))
	ids, err := svc.Repository().List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"colony"}, ids)
}

func TestService_LabelRollsBackFailedEdits(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	svc := setupService(t, dir, platform.AdapterFS)
	_, err := svc.Seed(ctx, "colony")
	require.NoError(t, err)
	_, err = svc.Label(ctx, "colony", diningCell, named("Kitchen"))
	require.NoError(t, err)

	tests := []struct {
		name string
		edit platform.Edit
	}{
		{"invalid record", func(s *dialog.Session) error {
			s.SetName("Poisoned")
			s.Record().Opacity = math.NaN()
			return nil
		}},
		{"failing edit", func(s *dialog.Session) error {
			s.SetName("Poisoned")
			return errors.New("edit failed")
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before, err := svc.Inspect(ctx, "colony", diningCell, "")
			require.NoError(t, err)

			_, err = svc.Label(ctx, "colony", diningCell, tt.edit)
			require.Error(t, err)

			after, err := svc.Inspect(ctx, "colony", diningCell, "")
			require.NoError(t, err)
			assert.Same(t, before.Record, after.Record, "the record keeps its identity")
			assert.Equal(t, "Kitchen", after.Record.CustomName)
			assert.Equal(t, 0.5, after.Record.Opacity)
		})
	}

	require.NoError(t, svc.SaveAll(ctx))
	require.NoError(t, svc.Close())

	reopened := setupService(t, dir, platform.AdapterFS)
	got, err := reopened.Inspect(ctx, "colony", diningCell, "")
	require.NoError(t, err)
	require.NotNil(t, got.Record)
	assert.Equal(t, "Kitchen", got.Record.CustomName)
	assert.Equal(t, 0.5, got.Record.Opacity)
}

func TestService_Reconcile(t *testing.T) {
	ctx := context.Background()
	svc := setupService(t, t.TempDir(), platform.AdapterFS)
	_, err := svc.Seed(ctx, "colony")
	require.NoError(t, err)
	_, err = svc.Label(ctx, "colony", bedroomCell, named("Master bedroom"))
	require.NoError(t, err)

	report, err := svc.Reconcile(ctx, "colony")
	require.NoError(t, err)
	assert.Equal(t, 1, report.Tracked)
	assert.Equal(t, 1, report.Synced)
	assert.Equal(t, 0, report.Stale)
	assert.Equal(t, 0, report.Anchors, "anchors already point at the record")
}

func TestService_Run(t *testing.T) {
	ctx := context.Background()
	reg := prometheus.NewRegistry()
	svc := setupService(t, t.TempDir(), platform.AdapterFS,
		platform.WithReconcileEvery(1),
		platform.WithMetrics(reg),
	)
	_, err := svc.Seed(ctx, "colony")
	require.NoError(t, err)
	_, err = svc.Label(ctx, "colony", bedroomCell, named("Master bedroom"))
	require.NoError(t, err)

	require.NoError(t, svc.Run(ctx, 3, time.Millisecond))

	families, err := reg.Gather()
	require.NoError(t, err)
	var runs float64
	for _, f := range families {
		if f.GetName() == "roomtag_directory_reconcile_runs_total" {
			runs = f.GetMetric()[0].GetCounter().GetValue()
		}
	}
	assert.Equal(t, float64(3), runs)

	st := svc.State().(platform.ServiceState)
	assert.Equal(t, []string{"colony"}, st.Maps)
	assert.NotNil(t, st.Repository)
}

func TestService_SetSettings(t *testing.T) {
	svc := setupService(t, t.TempDir(), platform.AdapterFS)

	bad := core.DefaultSettings()
	bad.ReconcileEveryTicks = 0
	assert.Error(t, svc.SetSettings(bad))

	good := noGrace()
	good.ShowGrowingZoneLabels = false
	require.NoError(t, svc.SetSettings(good))
	assert.False(t, svc.Settings().ShowGrowingZoneLabels)
}
