package schedule

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/lifecycle"
)

// Ticker is anything advanced one step at a time, such as a world or a Scheduler.
type Ticker interface {
	Tick(ctx context.Context) error
}

// Runner drives a Ticker from wall-clock time.
type Runner struct {
	Target   Ticker
	Interval time.Duration
	// MaxTicks stops the runner after that many ticks; zero means run until cancelled.
	MaxTicks uint64
	// StopOnError makes a failing tick end the run. By default failures are logged.
	StopOnError bool
	Logger      *slog.Logger
}

// Run blocks until ctx is cancelled, MaxTicks is reached, or a tick fails with
// StopOnError set. Cancellation is not an error.
func (r *Runner) Run(ctx context.Context) error {
	if r.Target == nil {
		return errors.New("runner has no target")
	}
	if r.Interval <= 0 {
		return fmt.Errorf("invalid tick interval %s", r.Interval)
	}
	logger := r.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	ticker := time.NewTicker(r.Interval)
	defer ticker.Stop()

	var n uint64
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			n++
			if err := r.Target.Tick(ctx); err != nil {
				if r.StopOnError {
					return fmt.Errorf("tick %d: %w", n, err)
				}
				logger.Warn("tick failed", "tick", n, "error", err)
			}
			if r.MaxTicks > 0 && n >= r.MaxTicks {
				logger.Debug("runner reached tick limit", "ticks", n)
				return nil
			}
		}
	}
}

// Start runs the loop in a tracked goroutine. The returned channel yields the result
// of Run once and is then closed.
func (r *Runner) Start(ctx context.Context) <-chan error {
	done := make(chan error, 1)
	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(done)
		err := r.Run(ctx)
		done <- err
		return err
	}, lifecycle.WithErrorHandler(func(err error) {
		if r.Logger != nil {
			r.Logger.Error("runner stopped", "error", err)
		}
	}))
	return done
}
