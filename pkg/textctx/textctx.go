// Package textctx feeds custom labels into generated text about places.
package textctx

import (
	"strings"

	"github.com/aretw0/roomtag/pkg/core"
)

// Records is the read-only side of a label directory.
type Records interface {
	Room(r core.Room) *core.Record
	Zone(id int) *core.Record
}

// LocationContext rewrites a location description for a subject standing in room.
//
// The room's role label (as written, or in lower case) is replaced by the custom
// name; when neither occurs and the name is not already present, "; name" is
// appended. A custom description is appended on its own line. Outdoor areas and
// unlabeled rooms leave text untouched.
func LocationContext(text string, room core.Room, roleLabel string, records Records) string {
	if text == "" || room == nil || room.Outdoors() {
		return text
	}
	rec := records.Room(room)
	if !rec.HasText() {
		return text
	}

	var b strings.Builder
	b.WriteString(text)

	if name := rec.CustomName; name != "" {
		replaced := false
		for _, label := range []string{capitalize(roleLabel), strings.ToLower(roleLabel)} {
			if label != "" && strings.Contains(text, label) {
				b.Reset()
				b.WriteString(strings.ReplaceAll(text, label, name))
				replaced = true
				break
			}
		}
		if !replaced && !strings.Contains(text, name) {
			b.WriteString("; ")
			b.WriteString(name)
		}
	}

	if desc := rec.CustomDescription; desc != "" {
		b.WriteString("\n(Location Context: ")
		b.WriteString(desc)
		b.WriteString(")")
	}
	return b.String()
}

// ZoneInspect appends the zone's custom name and description to its inspect text,
// one line each.
func ZoneInspect(base string, zone core.Zone, records Records) string {
	if zone == nil {
		return base
	}
	rec := records.Zone(zone.ID())
	if rec == nil {
		return base
	}

	out := base
	appendLine := func(line string) {
		if out != "" {
			out += "\n"
		}
		out += line
	}
	if rec.CustomName != "" {
		appendLine("Name: " + rec.CustomName)
	}
	if rec.CustomDescription != "" {
		appendLine("Description: " + rec.CustomDescription)
	}
	return out
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
