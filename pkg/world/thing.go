package world

import "github.com/aretw0/roomtag/pkg/core"

// Kind classifies things by how they affect rooms.
type Kind uint8

const (
	Item Kind = iota
	Wall
	Door
)

// Structural reports whether placing or removing the thing reshapes rooms.
func (k Kind) Structural() bool {
	return k == Wall || k == Door
}

func (k Kind) String() string {
	switch k {
	case Wall:
		return "wall"
	case Door:
		return "door"
	default:
		return "item"
	}
}

// Thing is a physical object. Every non-door thing carries an anchor.
type Thing struct {
	id     string
	def    string
	kind   Kind
	cell   core.Cell
	anchor *core.Anchor
}

func newThing(id, def string, kind Kind, c core.Cell, rec *core.Record) *Thing {
	t := &Thing{id: id, def: def, kind: kind, cell: c}
	if kind != Door {
		t.anchor = core.NewAnchor(rec)
	}
	return t
}

// ID implements core.Thing.
func (t *Thing) ID() string { return t.id }

// Door implements core.Thing.
func (t *Thing) Door() bool { return t.kind == Door }

// Anchor implements core.Thing. Doors return nil.
func (t *Thing) Anchor() *core.Anchor { return t.anchor }

// Def returns the thing's definition name, e.g. "bed".
func (t *Thing) Def() string { return t.def }

// Kind returns the structural class.
func (t *Thing) Kind() Kind { return t.kind }

// Cell returns the current position.
func (t *Thing) Cell() core.Cell { return t.cell }
