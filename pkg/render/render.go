// Package render computes where and how region labels appear in a frame.
// It stops at placement: drawing text is up to the host.
package render

import (
	"fmt"
	"log/slog"
	"math"
	"strings"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/aretw0/roomtag/pkg/core"
)

const (
	baseFontSize    = 12
	centroidSamples = 60
	zoneNudge       = 0.3
)

// Icon identifies the glyph shown next to a label.
type Icon uint8

const (
	IconNone Icon = iota
	IconRoom
	IconGrowing
	IconStorage
)

func (i Icon) String() string {
	switch i {
	case IconRoom:
		return "room"
	case IconGrowing:
		return "growing"
	case IconStorage:
		return "storage"
	default:
		return "none"
	}
}

// Label is one placed label.
type Label struct {
	Key      string          `json:"key" yaml:"key"`
	Kind     core.RegionKind `json:"kind" yaml:"kind"`
	Text     string          `json:"text" yaml:"text"`
	X        float64         `json:"x" yaml:"x"`
	Z        float64         `json:"z" yaml:"z"`
	Color    core.Color      `json:"color" yaml:"color"` // alpha carries the opacity
	FontSize int             `json:"fontSize" yaml:"fontSize"`
	Icon     Icon            `json:"icon" yaml:"icon"`
}

// Scene is what a frame is computed from.
type Scene interface {
	Zones() []core.Zone
	Rooms() []core.Room
	LoadedAt() time.Time
}

// Records is the read-only side of a label directory.
type Records interface {
	Get(r core.Region) *core.Record
}

// Rooms may describe themselves; others are labeled "Room".
type roleNamer interface {
	Role() string
}

// Rooms may be hidden by fog; others never are.
type fogger interface {
	Fogged() bool
}

// Renderer turns a scene into labels. It is safe for concurrent use.
type Renderer struct {
	mu       sync.RWMutex
	settings core.Settings

	logger *slog.Logger
	faults *gocache.Cache
	now    func() time.Time
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithLogger sets the logger for render faults.
func WithLogger(l *slog.Logger) Option {
	return func(r *Renderer) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithClock overrides the time source used for the load grace period.
func WithClock(now func() time.Time) Option {
	return func(r *Renderer) {
		if now != nil {
			r.now = now
		}
	}
}

// WithFaultWindow sets how long a region fault stays silenced after being logged.
func WithFaultWindow(d time.Duration) Option {
	return func(r *Renderer) {
		if d > 0 {
			r.faults = gocache.New(d, 2*d)
		}
	}
}

// New creates a renderer with the given settings.
func New(settings core.Settings, opts ...Option) *Renderer {
	r := &Renderer{
		settings: settings,
		logger:   slog.New(slog.DiscardHandler),
		faults:   gocache.New(time.Minute, 2*time.Minute),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// SetSettings replaces the settings used by subsequent frames.
func (r *Renderer) SetSettings(s core.Settings) {
	r.mu.Lock()
	r.settings = s
	r.mu.Unlock()
}

// Settings returns the current settings.
func (r *Renderer) Settings() core.Settings {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.settings
}

// Frame computes the labels visible in view. Records are only read, never created.
// A region that fails is skipped; the rest of the frame is still produced.
func (r *Renderer) Frame(scene Scene, view core.CellRect, records Records) []Label {
	s := r.Settings()
	if scene == nil || !s.AnyLabels() {
		return nil
	}
	if r.now().Sub(scene.LoadedAt()) < s.LoadGrace {
		return nil
	}

	var out []Label
	if s.ShowZoneLabels {
		for _, z := range scene.Zones() {
			if !zoneShown(s, z) {
				continue
			}
			key := fmt.Sprintf("zone:%d", z.ID())
			r.guard(key, func() {
				if l, ok := r.zoneLabel(s, key, z, view, records); ok {
					out = append(out, l)
				}
			})
		}
	}
	if s.ShowRoomLabels {
		for _, room := range scene.Rooms() {
			cells := room.Cells()
			if len(cells) == 0 {
				continue
			}
			key := "room:" + cells[0].String()
			r.guard(key, func() {
				if l, ok := r.roomLabel(s, key, room, view, records); ok {
					out = append(out, l)
				}
			})
		}
	}
	return out
}

func zoneShown(s core.Settings, z core.Zone) bool {
	switch z.Kind() {
	case core.ZoneGrowing:
		return s.ShowGrowingZoneLabels
	case core.ZoneStorage:
		return s.ShowStorageZoneLabels
	default:
		return true
	}
}

func (r *Renderer) zoneLabel(s core.Settings, key string, z core.Zone, view core.CellRect, records Records) (Label, bool) {
	cells := z.Cells()
	if len(cells) == 0 || !view.Contains(cells[0]) {
		return Label{}, false
	}
	rec := records.Get(core.ZoneRegion(z))

	st := style{color: s.ColorStorageDefault, icon: IconStorage, iconOn: s.ShowStorageIcon}
	if z.Kind() == core.ZoneGrowing {
		st = style{color: s.ColorGrowingDefault, icon: IconGrowing, iconOn: s.ShowGrowingIcon}
	}
	return place(s, key, core.KindZone, cells, z.Label(), rec, st)
}

func (r *Renderer) roomLabel(s core.Settings, key string, room core.Room, view core.CellRect, records Records) (Label, bool) {
	if room.Outdoors() || room.Doorway() {
		return Label{}, false
	}
	if f, ok := room.(fogger); ok && f.Fogged() {
		return Label{}, false
	}
	cells := room.Cells()
	if !view.Contains(cells[0]) {
		return Label{}, false
	}
	rec := records.Get(core.RoomRegion(room))

	text := "Room"
	if n, ok := room.(roleNamer); ok {
		text = capitalize(n.Role())
	}
	return place(s, key, core.KindRoom, cells, text, rec, style{
		color:  s.ColorRoomDefault,
		icon:   IconRoom,
		iconOn: s.ShowRoomIcon,
	})
}

type style struct {
	color  core.Color
	icon   Icon
	iconOn bool
}

// place applies the record, or the defaults when rec is nil.
func place(s core.Settings, key string, kind core.RegionKind, cells []core.Cell, text string, rec *core.Record, st style) (Label, bool) {
	if rec != nil && rec.Hidden {
		return Label{}, false
	}

	x, z := centroid(cells)
	if rec != nil {
		x += rec.Offset.X
		z += rec.Offset.Y
	}
	if kind == core.KindZone && (rec == nil || rec.Offset.IsZero()) {
		z -= zoneNudge
	}

	color := st.color
	opacity := core.DefaultOpacity
	fontSize := 0
	showIcon := true
	if rec != nil {
		if rec.CustomName != "" {
			text = rec.CustomName
		}
		if rec.CustomColor != nil {
			color = *rec.CustomColor
		}
		opacity = rec.Opacity
		fontSize = rec.FontSize
		showIcon = rec.ShowIcon
	}
	if text == "" {
		return Label{}, false
	}
	if fontSize <= 0 {
		fontSize = int(math.Round(baseFontSize * s.DefaultFontScale))
	}

	icon := IconNone
	if showIcon && st.iconOn {
		icon = st.icon
	}
	return Label{
		Key:      key,
		Kind:     kind,
		Text:     text,
		X:        x,
		Z:        z,
		Color:    color.WithAlpha(opacity),
		FontSize: fontSize,
		Icon:     icon,
	}, true
}

// centroid averages the first cells of a region and centers the result on a cell.
func centroid(cells []core.Cell) (x, z float64) {
	n := min(len(cells), centroidSamples)
	for _, c := range cells[:n] {
		x += float64(c.X)
		z += float64(c.Z)
	}
	return x/float64(n) + 0.5, z/float64(n) + 0.5
}

// guard runs fn and contains a panic to the region it was drawing. Each failing
// region is logged once per fault window.
func (r *Renderer) guard(key string, fn func()) {
	defer func() {
		if p := recover(); p != nil {
			if r.faults.Add(key, struct{}{}, gocache.DefaultExpiration) == nil {
				r.logger.Error("label render failed", "region", key, "panic", fmt.Sprint(p))
			}
		}
	}()
	fn()
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
