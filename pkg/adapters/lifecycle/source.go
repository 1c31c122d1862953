// Package lifecycle exposes directory events as a lifecycle.Source.
package lifecycle

import (
	"context"
	"slices"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/roomtag/pkg/core"
)

type labelSource struct {
	events <-chan core.Event
	types  []core.EventType
	out    chan lifecycle.Event
}

// NewSource creates a lifecycle.Source that forwards directory events.
// When types are given only events of those types are forwarded.
// The output closes when the input closes or the start context ends.
func NewSource(events <-chan core.Event, types ...core.EventType) lifecycle.Source {
	return &labelSource{
		events: events,
		types:  types,
		out:    make(chan lifecycle.Event),
	}
}

func (s *labelSource) Events() <-chan lifecycle.Event {
	return s.out
}

func (s *labelSource) Start(ctx context.Context) error {
	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(s.out)
		for {
			select {
			case <-ctx.Done():
				return nil
			case e, ok := <-s.events:
				if !ok {
					return nil
				}
				if len(s.types) > 0 && !slices.Contains(s.types, e.Type) {
					continue
				}
				select {
				case s.out <- e:
				case <-ctx.Done():
					return nil
				}
			}
		}
	})
	return nil
}
