package directory

import (
	"time"

	"github.com/aretw0/introspection"
)

// State exposes internal state for observability.
type State struct {
	Owner         string     `json:"owner"`
	Zones         int        `json:"zones"`
	Rooms         int        `json:"rooms"`
	Resolving     int        `json:"resolving"`
	Reconciles    uint64     `json:"reconciles"`
	LastReconcile *time.Time `json:"last_reconcile,omitempty"`
}

// State implements introspection.Introspectable.
func (d *Directory) State() any {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return State{
		Owner:         d.owner,
		Zones:         d.zones.len(),
		Rooms:         d.rooms.len(),
		Resolving:     len(d.resolving),
		Reconciles:    d.reconciles,
		LastReconcile: d.lastReconcile,
	}
}

// ComponentType implements introspection.Component.
func (d *Directory) ComponentType() string {
	return "directory"
}

var _ introspection.Introspectable = (*Directory)(nil)
var _ introspection.Component = (*Directory)(nil)
