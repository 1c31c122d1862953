package badger

import (
	"time"

	"github.com/aretw0/introspection"
)

// RepositoryState exposes internal state for observability.
type RepositoryState struct {
	Path     string     `json:"path,omitempty"`
	InMemory bool       `json:"in_memory"`
	Open     bool       `json:"open"`
	ReadOnly bool       `json:"read_only"`
	GC       bool       `json:"gc"`
	LastSave *time.Time `json:"last_save,omitempty"`
}

// State implements introspection.Introspectable.
func (r *Repository) State() any {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return RepositoryState{
		Path:     r.config.Path,
		InMemory: r.config.InMemory,
		Open:     r.db != nil,
		ReadOnly: r.config.ReadOnly,
		GC:       r.gc != nil,
		LastSave: r.lastSave,
	}
}

// ComponentType implements introspection.Component.
func (r *Repository) ComponentType() string {
	return "repository"
}

var _ introspection.Introspectable = (*Repository)(nil)
var _ introspection.Component = (*Repository)(nil)
