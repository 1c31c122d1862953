package core

import "fmt"

// Container is the owner of things and rooms (a map in the host world).
type Container interface {
	ID() string
	// ThingsAt returns the physical objects located at c.
	ThingsAt(c Cell) []Thing
	// RoomAt returns the room currently occupying c, or nil.
	RoomAt(c Cell) Room
}

// Thing is a physical object placed in a container.
type Thing interface {
	ID() string
	// Door reports whether the object is a passage. Passages never carry anchors.
	Door() bool
	// Anchor returns the object's anchor, or nil when it cannot carry one.
	Anchor() *Anchor
}

// Room is an enclosed area. The host destroys and recreates rooms on any structural
// change, so a Room value must never be used as a key.
type Room interface {
	// Container returns the owning container, or nil once detached.
	Container() Container
	// Outdoors reports whether the area is open to the outside.
	Outdoors() bool
	// Doorway reports whether the area is a single passage cell.
	Doorway() bool
	// Cells returns the footprint in canonical order (Z, then X).
	Cells() []Cell
}

// ZoneKind distinguishes the user-defined zone flavours.
type ZoneKind uint8

const (
	ZoneGrowing ZoneKind = iota + 1
	ZoneStorage
)

func (k ZoneKind) String() string {
	switch k {
	case ZoneGrowing:
		return "growing"
	case ZoneStorage:
		return "storage"
	default:
		return "unknown"
	}
}

// MarshalText writes the kind by name.
func (k ZoneKind) MarshalText() ([]byte, error) {
	if k != ZoneGrowing && k != ZoneStorage {
		return nil, fmt.Errorf("invalid zone kind %d", k)
	}
	return []byte(k.String()), nil
}

// UnmarshalText parses a kind written by MarshalText.
func (k *ZoneKind) UnmarshalText(b []byte) error {
	switch string(b) {
	case "growing":
		*k = ZoneGrowing
	case "storage":
		*k = ZoneStorage
	default:
		return fmt.Errorf("invalid zone kind %q", b)
	}
	return nil
}

// Zone is a user-defined area whose identity is stable for its lifetime.
type Zone interface {
	ID() int
	Kind() ZoneKind
	Label() string
	Cells() []Cell
}

// RegionKind tags the Region variant.
type RegionKind uint8

const (
	KindZone RegionKind = iota + 1
	KindRoom
)

func (k RegionKind) String() string {
	switch k {
	case KindZone:
		return "zone"
	case KindRoom:
		return "room"
	default:
		return "none"
	}
}

// Region is a closed variant: exactly one of Zone or Room is set, as named by Kind.
type Region struct {
	Kind RegionKind
	Zone Zone
	Room Room
}

// ZoneRegion wraps a zone.
func ZoneRegion(z Zone) Region {
	return Region{Kind: KindZone, Zone: z}
}

// RoomRegion wraps a room.
func RoomRegion(r Room) Region {
	return Region{Kind: KindRoom, Room: r}
}

// ProxyKey returns the stand-in identity of a room: its first cell in canonical order.
func ProxyKey(r Room) (Cell, bool) {
	if r == nil {
		return Cell{}, false
	}
	cells := r.Cells()
	if len(cells) == 0 {
		return Cell{}, false
	}
	return cells[0], true
}
