package core

import "fmt"

// EventType represents the kind of change in a directory.
type EventType string

const (
	EventCreate    EventType = "CREATE"
	EventRecover   EventType = "RECOVER"
	EventReconcile EventType = "RECONCILE"
)

// Event describes a directory change worth reporting to observers.
type Event struct {
	Type      EventType
	Container string
	Key       string // zone ID or proxy cell
	Anchors   int    // anchors updated by the change
	Timestamp int64  // Unix timestamp
}

func (e Event) String() string {
	return fmt.Sprintf("%s %s/%s (%d anchors)", e.Type, e.Container, e.Key, e.Anchors)
}
