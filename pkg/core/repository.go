package core

import "context"

// Repository defines the contract for storing and retrieving container saves.
// Adhering to this interface keeps the world independent of the storage mechanism.
type Repository interface {
	// Save persists a container. It creates if not exists, or replaces if it does.
	Save(ctx context.Context, s ContainerState) error

	// Get retrieves a container by its ID. Returns ErrNotFound when absent.
	Get(ctx context.Context, id string) (ContainerState, error)

	// List returns the IDs of all stored containers, sorted.
	List(ctx context.Context) ([]string, error)

	// Delete removes a container by its ID.
	Delete(ctx context.Context, id string) error

	// Initialize ensures the underlying storage is ready.
	Initialize(ctx context.Context) error
}

// Closer is implemented by repositories holding resources (e.g. an open database).
type Closer interface {
	Close() error
}

// ContainerState is the durable form of one container.
// Labels is the container-scoped directory; every thing stores its own anchor record
// independently, which is what recovery relies on when Labels is lost.
type ContainerState struct {
	Version int          `json:"version" yaml:"version"`
	ID      string       `json:"id" yaml:"id"`
	Width   int          `json:"width" yaml:"width"`
	Height  int          `json:"height" yaml:"height"`
	Things  []ThingState `json:"things,omitempty" yaml:"things,omitempty"`
	Zones   []ZoneState  `json:"zones,omitempty" yaml:"zones,omitempty"`
	Fogged  []Cell       `json:"fogged,omitempty" yaml:"fogged,omitempty"`
	Labels  LabelState   `json:"labels" yaml:"labels"`
}

// ThingState is the durable form of one physical object.
type ThingState struct {
	ID     string  `json:"id" yaml:"id"`
	Def    string  `json:"def" yaml:"def"`
	Cell   Cell    `json:"cell" yaml:"cell"`
	Wall   bool    `json:"wall,omitempty" yaml:"wall,omitempty"`
	Door   bool    `json:"door,omitempty" yaml:"door,omitempty"`
	Anchor *Record `json:"anchor,omitempty" yaml:"anchor,omitempty"`
}

// ZoneState is the durable form of one zone.
type ZoneState struct {
	ID    int      `json:"id" yaml:"id"`
	Kind  ZoneKind `json:"kind" yaml:"kind"`
	Label string   `json:"label" yaml:"label"`
	Cells []Cell   `json:"cells" yaml:"cells"`
}

// LabelState is the durable form of a directory.
// Room keys are proxy cells in "x,z" form.
type LabelState struct {
	Zones map[int]*Record    `json:"zones,omitempty" yaml:"zones,omitempty"`
	Rooms map[string]*Record `json:"rooms,omitempty" yaml:"rooms,omitempty"`
}

// CurrentStateVersion is written into every saved container.
const CurrentStateVersion = 1
