package badger_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/roomtag/pkg/adapters/badger"
	"github.com/aretw0/roomtag/pkg/core"
)

func openRepo(t *testing.T, cfg badger.Config) *badger.Repository {
	t.Helper()
	repo, err := badger.NewRepository(cfg)
	require.NoError(t, err)
	require.NoError(t, repo.Initialize(context.Background()))
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func sample(id string) core.ContainerState {
	study := core.NewRecord()
	study.CustomName = "Study"
	return core.ContainerState{
		ID:     id,
		Width:  6,
		Height: 6,
		Things: []core.ThingState{
			{ID: "w1", Def: "wall", Cell: core.Cell{X: 1, Z: 1}, Wall: true, Anchor: study.Clone()},
			{ID: "c1", Def: "chair", Cell: core.Cell{X: 2, Z: 2}, Anchor: study.Clone()},
			{ID: "d1", Def: "door", Cell: core.Cell{X: 1, Z: 2}, Door: true},
		},
		Zones: []core.ZoneState{{ID: 1, Kind: core.ZoneGrowing, Label: "Growing zone 1", Cells: []core.Cell{{X: 5, Z: 5}}}},
		Labels: core.LabelState{
			Rooms: map[string]*core.Record{"2,2": study},
		},
	}
}

func TestNewRepository_NeedsLocation(t *testing.T) {
	_, err := badger.NewRepository(badger.Config{})
	assert.Error(t, err)
}

func TestNotInitialized(t *testing.T) {
	repo, err := badger.NewRepository(badger.Config{InMemory: true})
	require.NoError(t, err)
	_, err = repo.List(context.Background())
	assert.Error(t, err)
	assert.NoError(t, repo.Close())
}

func TestSaveAndGet(t *testing.T) {
	repo := openRepo(t, badger.Config{InMemory: true})
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, sample("colony")))
	got, err := repo.Get(ctx, "colony")
	require.NoError(t, err)

	assert.Equal(t, core.CurrentStateVersion, got.Version)
	assert.Len(t, got.Things, 3)
	assert.Equal(t, "Study", got.Labels.Rooms["2,2"].CustomName)
	assert.Equal(t, "Study", got.Things[1].Anchor.CustomName)
	assert.Nil(t, got.Things[2].Anchor)
	assert.Equal(t, core.ZoneGrowing, got.Zones[0].Kind)

	_, err = repo.Get(ctx, "missing")
	assert.ErrorIs(t, err, core.ErrNotFound)
	_, err = repo.Get(ctx, "a/b")
	assert.Error(t, err)
}

func TestListAndSummaries(t *testing.T) {
	repo := openRepo(t, badger.Config{InMemory: true})
	ctx := context.Background()
	for _, id := range []string{"north-2", "south", "north-1"} {
		require.NoError(t, repo.Save(ctx, sample(id)))
	}

	ids, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"north-1", "north-2", "south"}, ids)

	all, err := repo.Summaries(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, core.Summary{
		ID: "north-1", Width: 6, Height: 6, Things: 3, Zones: 1, RoomLabels: 1, Anchored: 2,
	}, all[0])

	north, err := repo.Summaries(ctx, "north-*")
	require.NoError(t, err)
	require.Len(t, north, 2)
	assert.Equal(t, "north-2", north[1].ID)

	_, err = repo.Summaries(ctx, "[")
	assert.Error(t, err)
}

func TestSave_ReplacesSummary(t *testing.T) {
	repo := openRepo(t, badger.Config{InMemory: true})
	ctx := context.Background()

	s := sample("colony")
	require.NoError(t, repo.Save(ctx, s))
	s.Things = s.Things[:1]
	require.NoError(t, repo.Save(ctx, s))

	sums, err := repo.Summaries(ctx, "")
	require.NoError(t, err)
	require.Len(t, sums, 1)
	assert.Equal(t, 1, sums[0].Things)
}

func TestDelete(t *testing.T) {
	repo := openRepo(t, badger.Config{InMemory: true})
	ctx := context.Background()
	require.NoError(t, repo.Save(ctx, sample("colony")))

	require.NoError(t, repo.Delete(ctx, "colony"))
	_, err := repo.Get(ctx, "colony")
	assert.ErrorIs(t, err, core.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, "colony"), core.ErrNotFound)

	sums, err := repo.Summaries(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, sums)
}

func TestReadOnly(t *testing.T) {
	repo := openRepo(t, badger.Config{InMemory: true, ReadOnly: true})
	ctx := context.Background()
	assert.ErrorIs(t, repo.Save(ctx, sample("colony")), core.ErrReadOnly)
	assert.ErrorIs(t, repo.Delete(ctx, "colony"), core.ErrReadOnly)
}

func TestPersistsAcrossReopen(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "db")
	ctx := context.Background()

	first, err := badger.NewRepository(badger.Config{Path: dir, SyncWrites: true})
	require.NoError(t, err)
	require.NoError(t, first.Initialize(ctx))
	require.NoError(t, first.Save(ctx, sample("colony")))
	require.NoError(t, first.Close())

	second := openRepo(t, badger.Config{Path: dir})
	got, err := second.Get(ctx, "colony")
	require.NoError(t, err)
	assert.Equal(t, "Study", got.Labels.Rooms["2,2"].CustomName)
}

func TestCancelledContext(t *testing.T) {
	repo := openRepo(t, badger.Config{InMemory: true})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, repo.Save(ctx, sample("colony")), context.Canceled)
	_, err := repo.List(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestState(t *testing.T) {
	repo := openRepo(t, badger.Config{InMemory: true})
	st, ok := repo.State().(badger.RepositoryState)
	require.True(t, ok)
	assert.True(t, st.Open)
	assert.True(t, st.InMemory)
	assert.Nil(t, st.LastSave)

	require.NoError(t, repo.Save(context.Background(), sample("colony")))
	st = repo.State().(badger.RepositoryState)
	assert.NotNil(t, st.LastSave)
	assert.Equal(t, "repository", repo.ComponentType())
}
