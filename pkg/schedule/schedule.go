// Package schedule runs periodic housekeeping tasks on a tick counter.
package schedule

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/aretw0/introspection"
)

// Task is a unit of periodic work.
type Task interface {
	Name() string
	Run(ctx context.Context, tick uint64) error
}

// TaskFunc adapts a function to Task.
type TaskFunc struct {
	Label string
	Fn    func(ctx context.Context, tick uint64) error
}

func (f TaskFunc) Name() string { return f.Label }

func (f TaskFunc) Run(ctx context.Context, tick uint64) error { return f.Fn(ctx, tick) }

type entry struct {
	every    uint64
	task     Task
	runs     uint64
	failures uint64
	lastErr  error
}

// Scheduler counts ticks and runs every registered task whose period divides the tick.
type Scheduler struct {
	mu      sync.Mutex
	tick    uint64
	entries []*entry
	logger  *slog.Logger
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithLogger sets the logger used for task failures.
func WithLogger(l *slog.Logger) Option {
	return func(s *Scheduler) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates a scheduler at tick 0.
func New(opts ...Option) *Scheduler {
	s := &Scheduler{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Every registers t to run on every n-th tick.
func (s *Scheduler) Every(n uint64, t Task) error {
	if n == 0 {
		return fmt.Errorf("task %q: period must be positive", t.Name())
	}
	s.mu.Lock()
	s.entries = append(s.entries, &entry{every: n, task: t})
	s.mu.Unlock()
	return nil
}

// Tick advances the counter and runs the due tasks in registration order.
// A failing task does not stop the others; all failures are joined.
func (s *Scheduler) Tick(ctx context.Context) error {
	s.mu.Lock()
	s.tick++
	tick := s.tick
	due := make([]*entry, 0, len(s.entries))
	for _, e := range s.entries {
		if tick%e.every == 0 {
			due = append(due, e)
		}
	}
	s.mu.Unlock()

	var errs []error
	for _, e := range due {
		err := e.task.Run(ctx, tick)

		s.mu.Lock()
		e.runs++
		e.lastErr = err
		if err != nil {
			e.failures++
		}
		s.mu.Unlock()

		if err != nil {
			s.logger.Warn("task failed", "task", e.task.Name(), "tick", tick, "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", e.task.Name(), err))
		}
	}
	return errors.Join(errs...)
}

// Current returns the last completed tick.
func (s *Scheduler) Current() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tick
}

// TaskState describes one registered task.
type TaskState struct {
	Name      string `json:"name"`
	Every     uint64 `json:"every"`
	Runs      uint64 `json:"runs"`
	Failures  uint64 `json:"failures"`
	LastError string `json:"last_error,omitempty"`
}

// State is the introspection view of a scheduler.
type State struct {
	Tick  uint64      `json:"tick"`
	Tasks []TaskState `json:"tasks"`
}

// State implements introspection.Introspectable.
func (s *Scheduler) State() any {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := State{Tick: s.tick, Tasks: make([]TaskState, 0, len(s.entries))}
	for _, e := range s.entries {
		ts := TaskState{Name: e.task.Name(), Every: e.every, Runs: e.runs, Failures: e.failures}
		if e.lastErr != nil {
			ts.LastError = e.lastErr.Error()
		}
		st.Tasks = append(st.Tasks, ts)
	}
	return st
}

// ComponentType implements introspection.Component.
func (s *Scheduler) ComponentType() string {
	return "scheduler"
}

var _ introspection.Introspectable = (*Scheduler)(nil)
var _ introspection.Component = (*Scheduler)(nil)
