// Package fs stores container saves as YAML or JSON files in one directory.
package fs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/aretw0/roomtag/pkg/core"
)

// DefaultSystemDir holds the listing cache inside the save directory.
const DefaultSystemDir = ".roomtag"

// Repository implements core.Repository using the filesystem.
type Repository struct {
	Path        string
	config      Config
	ext         string
	serializers map[string]Serializer
	cache       *cache

	mu       sync.RWMutex
	lastSave *time.Time
}

// Config holds the configuration for the filesystem repository.
type Config struct {
	Path      string
	Format    string // "yaml" (default) or "json"; decides the extension of new saves
	MustExist bool
	ReadOnly  bool
	Strict    bool // reject unknown fields when decoding
	SystemDir string
	Logger    *slog.Logger
}

// NewRepository creates a new filesystem-backed repository.
func NewRepository(config Config) (*Repository, error) {
	ext, err := ExtensionFor(config.Format)
	if err != nil {
		return nil, err
	}
	if config.SystemDir == "" {
		config.SystemDir = DefaultSystemDir
	}
	if config.Logger == nil {
		config.Logger = slog.New(slog.DiscardHandler)
	}
	return &Repository{
		Path:        config.Path,
		config:      config,
		ext:         ext,
		serializers: DefaultSerializers(config.Strict),
		cache:       newCache(config.Path, config.SystemDir),
	}, nil
}

// Initialize prepares the save directory and loads the listing cache.
func (r *Repository) Initialize(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if r.config.MustExist || r.config.ReadOnly {
		info, err := os.Stat(r.Path)
		if os.IsNotExist(err) {
			return fmt.Errorf("save path does not exist: %s", r.Path)
		}
		if err != nil {
			return fmt.Errorf("failed to stat save path: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("save path is not a directory: %s", r.Path)
		}
	} else if err := os.MkdirAll(r.Path, 0755); err != nil {
		return fmt.Errorf("failed to create save directory: %w", err)
	}
	return r.cache.Load()
}

// Save writes the container to <id><ext>, replacing a save of the same id in any
// other format.
func (r *Repository) Save(ctx context.Context, s core.ContainerState) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if r.config.ReadOnly {
		return core.ErrReadOnly
	}
	if err := validateID(s.ID); err != nil {
		return err
	}
	if s.Version == 0 {
		s.Version = core.CurrentStateVersion
	}

	data, err := r.serializers[r.ext].Encode(s)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", s.ID, err)
	}

	name := s.ID + r.ext
	if err := writeFileAtomic(filepath.Join(r.Path, name), data, 0644); err != nil {
		return err
	}
	for ext := range r.serializers {
		if ext == r.ext {
			continue
		}
		if err := os.Remove(filepath.Join(r.Path, s.ID+ext)); err == nil {
			r.cache.Delete(s.ID + ext)
		}
	}

	now := time.Now()
	r.mu.Lock()
	r.lastSave = &now
	r.mu.Unlock()

	r.config.Logger.Debug("container saved", "id", s.ID, "file", name, "bytes", len(data))
	return nil
}

// Get reads the container with the given id.
func (r *Repository) Get(ctx context.Context, id string) (core.ContainerState, error) {
	if err := ctx.Err(); err != nil {
		return core.ContainerState{}, err
	}
	if err := validateID(id); err != nil {
		return core.ContainerState{}, err
	}
	path, ok := r.find(id)
	if !ok {
		return core.ContainerState{}, fmt.Errorf("%w: %s", core.ErrNotFound, id)
	}
	return r.read(path, id)
}

func (r *Repository) read(path, id string) (core.ContainerState, error) {
	f, err := os.Open(path)
	if err != nil {
		return core.ContainerState{}, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	s, err := r.serializers[filepath.Ext(path)].Decode(f)
	if err != nil {
		return core.ContainerState{}, fmt.Errorf("failed to decode %s: %w", filepath.Base(path), err)
	}
	if s.ID == "" {
		s.ID = id
	}
	if s.ID != id {
		return core.ContainerState{}, fmt.Errorf("save %s holds container %q", filepath.Base(path), s.ID)
	}
	return s, nil
}

// find locates the file of id, preferring the configured format.
func (r *Repository) find(id string) (string, bool) {
	exts := []string{r.ext}
	for ext := range r.serializers {
		if ext != r.ext {
			exts = append(exts, ext)
		}
	}
	sort.Strings(exts[1:])
	for _, ext := range exts {
		path := filepath.Join(r.Path, id+ext)
		if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
			return path, true
		}
	}
	return "", false
}

// List returns the sorted ids of every save in the directory.
func (r *Repository) List(ctx context.Context) ([]string, error) {
	files, err := r.files(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(files))
	for id := range files {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// files maps each id to its file name, preferring the configured format.
func (r *Repository) files(ctx context.Context) (map[string]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(r.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read save directory: %w", err)
	}

	out := make(map[string]string)
	for _, e := range entries {
		name := e.Name()
		if !e.Type().IsRegular() || isTempFile(name) || strings.HasPrefix(name, ".") {
			continue
		}
		ext := filepath.Ext(name)
		if _, ok := r.serializers[ext]; !ok {
			continue
		}
		id := strings.TrimSuffix(name, ext)
		if prev, seen := out[id]; seen && filepath.Ext(prev) == r.ext {
			continue
		}
		out[id] = name
	}
	return out, nil
}

// Summaries lists saves whose id matches the glob (empty matches all).
// Summaries are served from the listing cache while the file is unchanged.
func (r *Repository) Summaries(ctx context.Context, match string) ([]core.Summary, error) {
	if match != "" && !doublestar.ValidatePattern(match) {
		return nil, fmt.Errorf("invalid pattern %q", match)
	}
	files, err := r.files(ctx)
	if err != nil {
		return nil, err
	}

	keep := make(map[string]bool, len(files))
	var out []core.Summary
	for id, name := range files {
		keep[name] = true
		if match != "" {
			if ok, _ := doublestar.Match(match, id); !ok {
				continue
			}
		}

		path := filepath.Join(r.Path, name)
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", name, err)
		}
		if entry, hit := r.cache.Get(name, info); hit {
			out = append(out, entry.Summary)
			continue
		}

		s, err := r.read(path, id)
		if err != nil {
			return nil, err
		}
		sum := core.Summarize(s)
		r.cache.Set(name, info, sum)
		out = append(out, sum)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	r.cache.Prune(keep)
	if !r.config.ReadOnly {
		if err := r.cache.Save(); err != nil {
			r.config.Logger.Warn("failed to persist listing cache", "error", err)
		}
	}
	return out, nil
}

// Delete removes every file of the given id.
func (r *Repository) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if r.config.ReadOnly {
		return core.ErrReadOnly
	}
	if err := validateID(id); err != nil {
		return err
	}

	removed := false
	for ext := range r.serializers {
		err := os.Remove(filepath.Join(r.Path, id+ext))
		switch {
		case err == nil:
			removed = true
			r.cache.Delete(id + ext)
		case !errors.Is(err, os.ErrNotExist):
			return fmt.Errorf("failed to delete %s: %w", id, err)
		}
	}
	if !removed {
		return fmt.Errorf("%w: %s", core.ErrNotFound, id)
	}
	r.config.Logger.Debug("container deleted", "id", id)
	return nil
}

func validateID(id string) error {
	if id == "" {
		return errors.New("container has no id")
	}
	if filepath.Base(id) != id || strings.ContainsAny(id, `/\`) || strings.HasPrefix(id, ".") {
		return fmt.Errorf("invalid container id %q", id)
	}
	return nil
}

var _ core.Repository = (*Repository)(nil)
var _ core.Cataloger = (*Repository)(nil)
