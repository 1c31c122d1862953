// Package dialog is the editing session behind the label configuration window.
// A session edits the shared record in place; there is no save step.
package dialog

import (
	"fmt"
	"math"
	"strings"

	"github.com/aretw0/roomtag/pkg/core"
)

// Slider ranges.
const (
	MinOpacity    = 0.1
	MaxOpacity    = 1.0
	MaxFontSize   = 60
	MinCustomFont = 8 // smaller sizes fall back to the global default
	MaxOffset     = 3.0
)

// Presets is the color palette offered by the window.
var Presets = []core.Color{
	core.RGB(1, 1, 1), core.RGB(0.5, 0.5, 0.5), core.RGB(0, 0, 0), core.RGB(1, 0, 0),
	core.RGB(0, 1, 0), core.RGB(0, 0, 1), core.RGB(0, 1, 1), core.RGB(1, 0, 1),
	core.RGB(1, 0.92, 0.016), core.RGB(1, 0.5, 0), core.RGB(0.5, 0, 0.5), core.RGB(0, 0.5, 0),
	core.RGB(0.5, 0.25, 0), core.RGB(1, 0.8, 0.8), core.RGB(0.6, 0.8, 1), core.RGB(0.8, 1, 0.6),
}

// Targeter finds the region under a cell.
type Targeter interface {
	RegionAt(c core.Cell) (core.Region, bool)
}

// Store hands out records for editing.
type Store interface {
	GetOrCreate(r core.Region) *core.Record
}

// Session edits the record of one region.
type Session struct {
	region core.Region
	rec    *core.Record
	title  string
}

// Open starts a session on the region at c. Zones win over the room beneath them.
// Outdoor areas are not targets and doorways are rejected.
func Open(target Targeter, c core.Cell, store Store) (*Session, error) {
	region, ok := target.RegionAt(c)
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrNoTarget, c)
	}

	var title string
	switch region.Kind {
	case core.KindZone:
		title = region.Zone.Label()
	case core.KindRoom:
		if region.Room.Outdoors() {
			return nil, fmt.Errorf("%w: %s", core.ErrNoTarget, c)
		}
		if region.Room.Doorway() {
			return nil, fmt.Errorf("%w: %s", core.ErrDoorway, c)
		}
		title = roomTitle(region.Room)
	default:
		return nil, fmt.Errorf("%w: %s", core.ErrNoTarget, c)
	}

	rec := store.GetOrCreate(region)
	if rec == nil {
		return nil, fmt.Errorf("%w: %s", core.ErrNoTarget, c)
	}
	return &Session{region: region, rec: rec, title: title}, nil
}

func roomTitle(r core.Room) string {
	n, ok := r.(interface{ Role() string })
	if !ok || n.Role() == "" {
		return "Room"
	}
	role := n.Role()
	return strings.ToUpper(role[:1]) + role[1:]
}

// Title names the region being edited.
func (s *Session) Title() string { return s.title }

// Region returns the edited region.
func (s *Session) Region() core.Region { return s.region }

// Record returns the shared record.
func (s *Session) Record() *core.Record { return s.rec }

func (s *Session) SetName(name string)        { s.rec.CustomName = name }
func (s *Session) SetDescription(desc string) { s.rec.CustomDescription = desc }
func (s *Session) SetVisible(visible bool)    { s.rec.Hidden = !visible }
func (s *Session) SetShowIcon(show bool)      { s.rec.ShowIcon = show }

// SetOpacity clamps v to the slider range.
func (s *Session) SetOpacity(v float64) {
	s.rec.Opacity = clamp(v, MinOpacity, MaxOpacity)
}

// SetFontSize clamps n to the slider range. Sizes below MinCustomFont mean
// "use the global size" and are stored as 0.
func (s *Session) SetFontSize(n int) {
	n = min(max(n, 0), MaxFontSize)
	if n < MinCustomFont {
		n = 0
	}
	s.rec.FontSize = n
}

// SetOffset clamps both components to ±MaxOffset.
func (s *Session) SetOffset(x, y float64) {
	s.rec.Offset = core.Vec2{
		X: clamp(x, -MaxOffset, MaxOffset),
		Y: clamp(y, -MaxOffset, MaxOffset),
	}
}

// SetColor sets a custom color; nil restores the kind's default.
func (s *Session) SetColor(c *core.Color) {
	if c == nil {
		s.rec.CustomColor = nil
		return
	}
	col := c.WithAlpha(1)
	s.rec.CustomColor = &col
}

// UsePreset picks a palette entry.
func (s *Session) UsePreset(i int) error {
	if i < 0 || i >= len(Presets) {
		return fmt.Errorf("preset %d out of range [0,%d)", i, len(Presets))
	}
	s.SetColor(&Presets[i])
	return nil
}

// SelectedPreset returns the palette entry matching the current color, or -1.
// Without a custom color, white is reported as selected.
func (s *Session) SelectedPreset() int {
	current := Presets[0]
	if s.rec.CustomColor != nil {
		current = *s.rec.CustomColor
	}
	for i, p := range Presets {
		if p.Similar(current) {
			return i
		}
	}
	return -1
}

// Reset restores every field to its default, keeping the record shared.
func (s *Session) Reset() { s.rec.Reset() }

// clamp maps NaN to lo.
func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return min(max(v, lo), hi)
}
