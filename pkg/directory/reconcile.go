package directory

import (
	"context"
	"time"

	"github.com/aretw0/roomtag/pkg/core"
)

// ReconcileReport summarizes one reconciliation pass.
type ReconcileReport struct {
	Tracked int // room entries in the snapshot
	Synced  int // entries whose room was found and re-synchronized
	Stale   int // entries whose key no longer resolves to a valid room
	Anchors int // anchors that were re-pointed
}

// Reconcile re-propagates every tracked room record to the anchors of the room that
// currently occupies its proxy key. It iterates a snapshot of the keys, never creates
// or deletes entries, and leaves stale entries in place for later recovery.
//
// A room only counts as found when its own proxy key is the tracked key; a merged or
// reshaped room whose first cell moved is left to recovery instead, so two entries
// never fight over the same anchors.
func (d *Directory) Reconcile(c core.Container) ReconcileReport {
	var report ReconcileReport
	if c == nil {
		return report
	}

	d.mu.RLock()
	keys := d.rooms.keys()
	d.mu.RUnlock()
	report.Tracked = len(keys)

	for _, key := range keys {
		d.mu.RLock()
		rec, ok := d.rooms.get(key)
		d.mu.RUnlock()
		if !ok {
			continue
		}

		room := c.RoomAt(key)
		current, valid := roomKey(room)
		if !valid || current != key {
			report.Stale++
			d.logger.Debug("stale room entry skipped", "container", d.owner, "key", key.String())
			continue
		}

		report.Synced++
		report.Anchors += d.Synchronize(room, rec)
	}

	now := time.Now()
	d.mu.Lock()
	d.reconciles++
	d.lastReconcile = &now
	d.mu.Unlock()

	d.metrics.reconciled(report)
	if report.Anchors > 0 {
		d.emit(core.EventReconcile, "*", report.Anchors)
		d.logger.Debug("reconciled",
			"container", d.owner,
			"tracked", report.Tracked,
			"synced", report.Synced,
			"stale", report.Stale,
			"anchors", report.Anchors,
		)
	}
	return report
}

// ReconcileTask adapts Reconcile to a periodic task.
type ReconcileTask struct {
	Directory *Directory
	Container core.Container
}

// Name identifies the task in scheduler logs.
func (t ReconcileTask) Name() string {
	return "reconcile-labels"
}

// Run performs one reconciliation pass.
func (t ReconcileTask) Run(ctx context.Context, tick uint64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t.Directory.Reconcile(t.Container)
	return nil
}
