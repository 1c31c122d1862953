package roomtag

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/roomtag/internal/platform"
	"github.com/aretw0/roomtag/pkg/core"
)

// --- Types ---

// Service is the label service bound to one save repository.
type Service = platform.Service

// Edit changes a record through an editing session.
type Edit = platform.Edit

// Inspection is the label view of one cell.
type Inspection = platform.Inspection

// --- Configuration ---

// Option defines a functional option for configuring roomtag.
type Option = platform.Option

const (
	// AdapterFS stores one file per map.
	AdapterFS = platform.AdapterFS
	// AdapterBadger stores maps in an embedded BadgerDB database.
	AdapterBadger = platform.AdapterBadger
)

// ConfigFile is the settings file looked up next to the saves.
const ConfigFile = platform.ConfigFile

// WithLogger sets the logger for the service.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithRepository allows injecting a custom storage adapter.
func WithRepository(repo core.Repository) Option {
	return platform.WithRepository(repo)
}

// WithAdapter selects the storage adapter by name.
func WithAdapter(name string) Option {
	return platform.WithAdapter(name)
}

// WithFormat sets the file format of the fs adapter ("yaml" or "json").
func WithFormat(format string) Option {
	return platform.WithFormat(format)
}

// WithSystemDir sets the hidden directory name (e.g. ".roomtag").
func WithSystemDir(name string) Option {
	return platform.WithSystemDir(name)
}

// WithMustExist ensures the save directory must already exist.
func WithMustExist(must bool) Option {
	return platform.WithMustExist(must)
}

// WithReadOnly rejects every write to the saves.
func WithReadOnly(enabled bool) Option {
	return platform.WithReadOnly(enabled)
}

// WithStrict makes the fs adapter reject unknown fields in save files.
func WithStrict(strict bool) Option {
	return platform.WithStrict(strict)
}

// WithForceTemp forces the use of a temporary directory (useful for testing).
func WithForceTemp(force bool) Option {
	return platform.WithForceTemp(force)
}

// WithDevSafety redirects saves to a temporary directory under `go run` and `go test`.
func WithDevSafety(enabled bool) Option {
	return platform.WithDevSafety(enabled)
}

// WithInMemory keeps a badger database in RAM.
func WithInMemory(enabled bool) Option {
	return platform.WithInMemory(enabled)
}

// WithGCInterval enables periodic badger value-log collection.
func WithGCInterval(d time.Duration) Option {
	return platform.WithGCInterval(d)
}

// WithMetrics registers directory metrics on reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return platform.WithMetrics(reg)
}

// WithSettings sets the initial display settings.
func WithSettings(s core.Settings) Option {
	return platform.WithSettings(s)
}

// WithReconcileEvery overrides the reconciliation cadence in ticks.
func WithReconcileEvery(ticks uint64) Option {
	return platform.WithReconcileEvery(ticks)
}

// WithEvents reports directory changes on ch. Sends never block.
func WithEvents(ch chan<- core.Event) Option {
	return platform.WithEvents(ch)
}

// --- Factory ---

// New creates a service on the saves at uri.
func New(uri string, opts ...Option) (*Service, error) {
	return platform.New(uri, opts...)
}

// Init initializes a repository explicitly.
func Init(uri string, opts ...Option) (core.Repository, error) {
	return platform.Init(uri, opts...)
}

// --- Safety & Utils ---

// ResolveSavePath determines the actual save directory based on safety rules.
func ResolveSavePath(userPath string, forceTemp bool) string {
	return platform.ResolveSavePath(userPath, forceTemp)
}

// IsDevRun checks if the current process is running via `go run` or `go test`.
func IsDevRun() bool {
	return platform.IsDevRun()
}

// FindRoot looks upwards for a directory holding saves or a settings file.
func FindRoot(startDir string) (string, error) {
	return platform.FindRoot(startDir)
}
