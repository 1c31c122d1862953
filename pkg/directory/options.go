package directory

import (
	"log/slog"

	"github.com/aretw0/roomtag/pkg/core"
)

// Option configures a Directory.
type Option func(*Directory)

// WithLogger sets the logger. Without it the directory logs nothing.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Directory) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithMetrics attaches prometheus counters.
func WithMetrics(m *Metrics) Option {
	return func(d *Directory) {
		d.metrics = m
	}
}

// WithEvents makes the directory report creations, recoveries and reconciliations.
// Sends never block: events are dropped when the channel is full.
func WithEvents(events chan<- core.Event) Option {
	return func(d *Directory) {
		d.events = events
	}
}

// WithOwner names the container the directory belongs to, for logs and events.
func WithOwner(id string) Option {
	return func(d *Directory) {
		d.owner = id
	}
}
