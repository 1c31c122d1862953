package platform_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/roomtag/internal/platform"
	"github.com/aretw0/roomtag/pkg/adapters/badger"
	"github.com/aretw0/roomtag/pkg/adapters/fs"
	"github.com/aretw0/roomtag/pkg/core"
)

func TestInit(t *testing.T) {
	t.Run("FS Creates Directory", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "saves")

		repo, err := platform.Init(path, platform.WithFormat("json"))
		require.NoError(t, err)

		fsRepo, ok := repo.(*fs.Repository)
		require.True(t, ok, "expected fs repository")
		assert.Equal(t, path, fsRepo.Path)

		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	})

	t.Run("MustExist Fails If Directory Missing", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "missing")
		_, err := platform.Init(path, platform.WithMustExist(true))
		assert.Error(t, err)
	})

	t.Run("Badger", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "db")
		repo, err := platform.Init(path, platform.WithAdapter(platform.AdapterBadger))
		require.NoError(t, err)
		b, ok := repo.(*badger.Repository)
		require.True(t, ok, "expected badger repository")
		t.Cleanup(func() { _ = b.Close() })
		assert.True(t, repo.(interface{ State() any }).State().(badger.RepositoryState).Open)
	})

	t.Run("Unknown Adapter", func(t *testing.T) {
		_, err := platform.Init(t.TempDir(), platform.WithAdapter("s3"))
		assert.ErrorContains(t, err, "unknown adapter")
	})

	t.Run("Bad Format", func(t *testing.T) {
		_, err := platform.Init(t.TempDir(), platform.WithFormat("toml"))
		assert.Error(t, err)
	})

	t.Run("Injected Repository Wins", func(t *testing.T) {
		injected, err := badger.NewRepository(badger.Config{InMemory: true})
		require.NoError(t, err)
		repo, err := platform.Init("ignored", platform.WithRepository(injected))
		require.NoError(t, err)
		assert.Same(t, injected, repo)
	})
}

func TestNew_RejectsInvalidSettings(t *testing.T) {
	settings := core.DefaultSettings()
	settings.DefaultFontScale = 10
	_, err := platform.New(t.TempDir(), platform.WithSettings(settings))
	assert.Error(t, err)
}
