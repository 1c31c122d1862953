package core

import "context"

// Summary is the listing view of a saved container.
type Summary struct {
	ID         string `json:"id" yaml:"id"`
	Width      int    `json:"width" yaml:"width"`
	Height     int    `json:"height" yaml:"height"`
	Things     int    `json:"things" yaml:"things"`
	Zones      int    `json:"zones" yaml:"zones"`
	ZoneLabels int    `json:"zoneLabels" yaml:"zoneLabels"`
	RoomLabels int    `json:"roomLabels" yaml:"roomLabels"`
	Anchored   int    `json:"anchored" yaml:"anchored"` // things whose anchor carries text
}

// Summarize computes the listing view of s.
func Summarize(s ContainerState) Summary {
	sum := Summary{
		ID:         s.ID,
		Width:      s.Width,
		Height:     s.Height,
		Things:     len(s.Things),
		Zones:      len(s.Zones),
		ZoneLabels: len(s.Labels.Zones),
		RoomLabels: len(s.Labels.Rooms),
	}
	for _, t := range s.Things {
		if t.Anchor.HasText() {
			sum.Anchored++
		}
	}
	return sum
}

// Cataloger is implemented by repositories that can list summaries, optionally
// filtered by a glob over container IDs.
type Cataloger interface {
	Summaries(ctx context.Context, match string) ([]Summary, error)
}
