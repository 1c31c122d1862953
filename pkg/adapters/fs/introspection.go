package fs

import (
	"sort"
	"time"

	"github.com/aretw0/introspection"
)

// RepositoryState exposes internal state for observability.
type RepositoryState struct {
	Path        string     `json:"path"`
	SystemDir   string     `json:"system_dir"`
	Extension   string     `json:"extension"`
	CacheSize   int        `json:"cache_size"`
	ReadOnly    bool       `json:"read_only"`
	Strict      bool       `json:"strict"`
	Serializers []string   `json:"serializers"`
	LastSave    *time.Time `json:"last_save,omitempty"`
}

// State implements introspection.Introspectable.
func (r *Repository) State() any {
	r.mu.RLock()
	defer r.mu.RUnlock()

	serializers := make([]string, 0, len(r.serializers))
	for ext := range r.serializers {
		serializers = append(serializers, ext)
	}
	sort.Strings(serializers)

	return RepositoryState{
		Path:        r.Path,
		SystemDir:   r.config.SystemDir,
		Extension:   r.ext,
		CacheSize:   r.cache.Len(),
		ReadOnly:    r.config.ReadOnly,
		Strict:      r.config.Strict,
		Serializers: serializers,
		LastSave:    r.lastSave,
	}
}

// ComponentType implements introspection.Component.
func (r *Repository) ComponentType() string {
	return "repository"
}

var _ introspection.Introspectable = (*Repository)(nil)
var _ introspection.Component = (*Repository)(nil)
