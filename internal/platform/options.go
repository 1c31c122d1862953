package platform

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/roomtag/pkg/core"
)

// Adapter names accepted by WithAdapter.
const (
	AdapterFS     = "fs"
	AdapterBadger = "badger"
)

// options holds the internal configuration for the service.
type options struct {
	repository core.Repository
	logger     *slog.Logger
	adapter    string
	format     string
	systemDir  string
	mustExist  bool
	readOnly   bool
	strict     bool
	forceTemp  bool
	devSafety  bool
	inMemory   bool
	gcInterval time.Duration

	registry       prometheus.Registerer
	settings       *core.Settings
	reconcileEvery uint64
	events         chan<- core.Event
}

// Option defines a functional option for configuring the service.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		adapter:   AdapterFS,
		format:    "yaml",
		devSafety: true,
	}
}

func collect(opts []Option) *options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = slog.New(slog.DiscardHandler)
	}
	return o
}

// WithLogger sets the logger for the service.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithRepository injects a storage adapter. The named adapter is then skipped.
func WithRepository(repo core.Repository) Option {
	return func(o *options) {
		o.repository = repo
	}
}

// WithAdapter selects the storage adapter by name ("fs" or "badger"). Defaults to "fs".
func WithAdapter(name string) Option {
	return func(o *options) {
		o.adapter = name
	}
}

// WithFormat selects the save format of the fs adapter ("yaml" or "json").
func WithFormat(format string) Option {
	return func(o *options) {
		o.format = format
	}
}

// WithSystemDir sets the hidden directory of the fs adapter. Defaults to ".roomtag".
func WithSystemDir(name string) Option {
	return func(o *options) {
		o.systemDir = name
	}
}

// WithMustExist requires the save location to exist already.
func WithMustExist(must bool) Option {
	return func(o *options) {
		o.mustExist = must
	}
}

// WithReadOnly rejects every write. Read-only runs also bypass the dev sandbox.
func WithReadOnly(enabled bool) Option {
	return func(o *options) {
		o.readOnly = enabled
	}
}

// WithStrict rejects unknown fields when decoding saves.
func WithStrict(strict bool) Option {
	return func(o *options) {
		o.strict = strict
	}
}

// WithForceTemp redirects the save location into the temporary directory.
func WithForceTemp(force bool) Option {
	return func(o *options) {
		o.forceTemp = force
	}
}

// WithDevSafety controls the sandbox applied under `go run` and `go test`.
// By default saves are redirected into the temporary directory in those runs.
func WithDevSafety(enabled bool) Option {
	return func(o *options) {
		o.devSafety = enabled
	}
}

// WithInMemory keeps the badger adapter in RAM.
func WithInMemory(enabled bool) Option {
	return func(o *options) {
		o.inMemory = enabled
	}
}

// WithGCInterval enables periodic value-log collection in the badger adapter.
func WithGCInterval(d time.Duration) Option {
	return func(o *options) {
		o.gcInterval = d
	}
}

// WithMetrics registers the directory counters on reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(o *options) {
		o.registry = reg
	}
}

// WithSettings sets the initial display settings. Defaults to core.DefaultSettings.
func WithSettings(s core.Settings) Option {
	return func(o *options) {
		o.settings = &s
	}
}

// WithReconcileEvery overrides the reconciliation cadence of the settings.
func WithReconcileEvery(ticks uint64) Option {
	return func(o *options) {
		o.reconcileEvery = ticks
	}
}

// WithEvents forwards directory events to ch. Sends never block.
func WithEvents(ch chan<- core.Event) Option {
	return func(o *options) {
		o.events = ch
	}
}
