// Package badger stores container saves in an embedded BadgerDB key-value store.
//
// Each container occupies two keys written in the same transaction:
//
//	container/<id>  the JSON-encoded ContainerState
//	summary/<id>    the JSON-encoded Summary, so listings never decode full saves
package badger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/dgraph-io/badger/v4"

	"github.com/aretw0/roomtag/pkg/core"
)

const (
	containerPrefix = "container/"
	summaryPrefix   = "summary/"
)

// Config holds the configuration for the BadgerDB repository.
type Config struct {
	// Path is the database directory. Ignored when InMemory is set.
	Path string

	// InMemory keeps everything in RAM; nothing survives Close.
	InMemory bool

	// SyncWrites fsyncs every commit.
	SyncWrites bool

	// ReadOnly rejects Save and Delete.
	ReadOnly bool

	// GCInterval enables periodic value-log garbage collection when positive.
	GCInterval time.Duration

	// GCDiscardRatio is passed to RunValueLogGC. Defaults to 0.5.
	GCDiscardRatio float64

	Logger *slog.Logger
}

// Repository implements core.Repository on top of BadgerDB.
type Repository struct {
	config Config

	mu       sync.RWMutex
	db       *badger.DB
	gc       *gcRunner
	lastSave *time.Time
}

// NewRepository creates a repository. The database is opened by Initialize.
func NewRepository(config Config) (*Repository, error) {
	if !config.InMemory && config.Path == "" {
		return nil, errors.New("badger repository needs a path or InMemory")
	}
	if config.GCDiscardRatio <= 0 || config.GCDiscardRatio >= 1 {
		config.GCDiscardRatio = 0.5
	}
	if config.Logger == nil {
		config.Logger = slog.New(slog.DiscardHandler)
	}
	return &Repository{config: config}, nil
}

// Initialize opens the database. Calling it twice is a no-op.
func (r *Repository) Initialize(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.db != nil {
		return nil
	}

	var opts badger.Options
	if r.config.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(r.config.Path, 0750); err != nil {
			return fmt.Errorf("failed to create database directory %s: %w", r.config.Path, err)
		}
		opts = badger.DefaultOptions(r.config.Path)
	}
	opts = opts.
		WithSyncWrites(r.config.SyncWrites).
		WithNumVersionsToKeep(1).
		WithLogger(&badgerLogger{logger: r.config.Logger})

	db, err := badger.Open(opts)
	if err != nil {
		return fmt.Errorf("failed to open badger database: %w", err)
	}
	r.db = db

	if r.config.GCInterval > 0 && !r.config.InMemory {
		r.gc = startGC(db, r.config.GCInterval, r.config.GCDiscardRatio, r.config.Logger)
	}
	r.config.Logger.Debug("badger database opened", "path", r.config.Path, "in_memory", r.config.InMemory)
	return nil
}

// Close stops garbage collection and closes the database.
func (r *Repository) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.db == nil {
		return nil
	}
	if r.gc != nil {
		r.gc.stop()
		r.gc = nil
	}
	err := r.db.Close()
	r.db = nil
	return err
}

func (r *Repository) handle(ctx context.Context) (*badger.DB, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	db := r.db
	r.mu.RUnlock()
	if db == nil {
		return nil, errors.New("badger repository is not initialized")
	}
	return db, nil
}

// Save stores the container and its summary atomically.
func (r *Repository) Save(ctx context.Context, s core.ContainerState) error {
	if r.config.ReadOnly {
		return core.ErrReadOnly
	}
	if err := validateID(s.ID); err != nil {
		return err
	}
	db, err := r.handle(ctx)
	if err != nil {
		return err
	}
	if s.Version == 0 {
		s.Version = core.CurrentStateVersion
	}

	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", s.ID, err)
	}
	sum, err := json.Marshal(core.Summarize(s))
	if err != nil {
		return fmt.Errorf("failed to encode summary of %s: %w", s.ID, err)
	}

	err = db.Update(func(txn *badger.Txn) error {
		if err := txn.Set([]byte(containerPrefix+s.ID), data); err != nil {
			return err
		}
		return txn.Set([]byte(summaryPrefix+s.ID), sum)
	})
	if err != nil {
		return fmt.Errorf("failed to save %s: %w", s.ID, err)
	}

	now := time.Now()
	r.mu.Lock()
	r.lastSave = &now
	r.mu.Unlock()

	r.config.Logger.Debug("container saved", "id", s.ID, "bytes", len(data))
	return nil
}

// Get reads the container with the given id.
func (r *Repository) Get(ctx context.Context, id string) (core.ContainerState, error) {
	if err := validateID(id); err != nil {
		return core.ContainerState{}, err
	}
	db, err := r.handle(ctx)
	if err != nil {
		return core.ContainerState{}, err
	}

	var s core.ContainerState
	err = db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(containerPrefix + id))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &s)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return core.ContainerState{}, fmt.Errorf("%w: %s", core.ErrNotFound, id)
	}
	if err != nil {
		return core.ContainerState{}, fmt.Errorf("failed to read %s: %w", id, err)
	}
	return s, nil
}

// List returns the sorted ids of every stored container.
func (r *Repository) List(ctx context.Context) ([]string, error) {
	db, err := r.handle(ctx)
	if err != nil {
		return nil, err
	}

	var ids []string
	err = db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(containerPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			key := it.Item().Key()
			ids = append(ids, string(bytes.TrimPrefix(key, opts.Prefix)))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(ids)
	return ids, nil
}

// Summaries lists containers whose id matches the glob (empty matches all).
func (r *Repository) Summaries(ctx context.Context, match string) ([]core.Summary, error) {
	if match != "" && !doublestar.ValidatePattern(match) {
		return nil, fmt.Errorf("invalid pattern %q", match)
	}
	db, err := r.handle(ctx)
	if err != nil {
		return nil, err
	}

	var out []core.Summary
	err = db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(summaryPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			id := string(bytes.TrimPrefix(item.Key(), opts.Prefix))
			if match != "" {
				if ok, _ := doublestar.Match(match, id); !ok {
					continue
				}
			}
			var sum core.Summary
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &sum)
			}); err != nil {
				return fmt.Errorf("failed to decode summary of %s: %w", id, err)
			}
			out = append(out, sum)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Delete removes a container and its summary.
func (r *Repository) Delete(ctx context.Context, id string) error {
	if r.config.ReadOnly {
		return core.ErrReadOnly
	}
	if err := validateID(id); err != nil {
		return err
	}
	db, err := r.handle(ctx)
	if err != nil {
		return err
	}

	err = db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get([]byte(containerPrefix + id)); err != nil {
			return err
		}
		if err := txn.Delete([]byte(containerPrefix + id)); err != nil {
			return err
		}
		return txn.Delete([]byte(summaryPrefix + id))
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return fmt.Errorf("%w: %s", core.ErrNotFound, id)
	}
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", id, err)
	}
	r.config.Logger.Debug("container deleted", "id", id)
	return nil
}

func validateID(id string) error {
	if id == "" {
		return errors.New("container has no id")
	}
	if strings.ContainsAny(id, "/\\") {
		return fmt.Errorf("invalid container id %q", id)
	}
	return nil
}

var _ core.Repository = (*Repository)(nil)
var _ core.Cataloger = (*Repository)(nil)
var _ core.Closer = (*Repository)(nil)
