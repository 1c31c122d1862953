package badger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/dgraph-io/badger/v4"
)

// badgerLogger routes BadgerDB's own logging through slog.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

// gcRunner reclaims value-log space on a fixed interval until stopped.
type gcRunner struct {
	cancel context.CancelFunc
	done   chan struct{}
}

func startGC(db *badger.DB, interval time.Duration, ratio float64, logger *slog.Logger) *gcRunner {
	ctx, cancel := context.WithCancel(context.Background())
	g := &gcRunner{cancel: cancel, done: make(chan struct{})}

	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(g.done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				collect(db, ratio, logger)
			}
		}
	}, lifecycle.WithErrorHandler(func(err error) {
		logger.Error("badger gc stopped", "error", err)
	}))
	return g
}

func (g *gcRunner) stop() {
	g.cancel()
	<-g.done
}

// collect runs one GC pass. ErrNoRewrite only means there was nothing to reclaim.
func collect(db *badger.DB, ratio float64, logger *slog.Logger) {
	err := db.RunValueLogGC(ratio)
	switch {
	case err == nil:
		logger.Debug("badger value log gc completed")
	case !errors.Is(err, badger.ErrNoRewrite):
		logger.Warn("badger value log gc failed", "error", err)
	}
}
