package platform

import (
	"github.com/aretw0/introspection"

	"github.com/aretw0/roomtag/pkg/core"
)

// ServiceState exposes internal state for observability.
type ServiceState struct {
	Maps       []string      `json:"maps"`
	Settings   core.Settings `json:"settings"`
	Repository any           `json:"repository,omitempty"`
}

// State implements introspection.Introspectable.
func (s *Service) State() any {
	s.mu.Lock()
	maps := s.world.Maps()
	s.mu.Unlock()

	st := ServiceState{Settings: s.renderer.Settings()}
	for _, m := range maps {
		st.Maps = append(st.Maps, m.ID())
	}
	if in, ok := s.repo.(introspection.Introspectable); ok {
		st.Repository = in.State()
	}
	return st
}

// ComponentType implements introspection.Component.
func (s *Service) ComponentType() string {
	return "service"
}

var _ introspection.Introspectable = (*Service)(nil)
var _ introspection.Component = (*Service)(nil)
