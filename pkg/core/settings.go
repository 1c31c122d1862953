package core

import (
	"fmt"
	"time"
)

// Settings holds the display and housekeeping configuration.
// A single instance is owned by the top level and passed to consumers explicitly.
type Settings struct {
	ShowRoomLabels        bool `mapstructure:"show_room_labels" yaml:"show_room_labels"`
	ShowZoneLabels        bool `mapstructure:"show_zone_labels" yaml:"show_zone_labels"`
	ShowGrowingZoneLabels bool `mapstructure:"show_growing_zone_labels" yaml:"show_growing_zone_labels"`
	ShowStorageZoneLabels bool `mapstructure:"show_storage_zone_labels" yaml:"show_storage_zone_labels"`
	ShowMainTab           bool `mapstructure:"show_main_tab" yaml:"show_main_tab"`

	// DefaultFontScale multiplies the base font size of labels without an override.
	DefaultFontScale float64 `mapstructure:"default_font_scale" yaml:"default_font_scale" validate:"gte=0.5,lte=3"`

	ShowRoomIcon    bool `mapstructure:"show_room_icon" yaml:"show_room_icon"`
	ShowGrowingIcon bool `mapstructure:"show_growing_icon" yaml:"show_growing_icon"`
	ShowStorageIcon bool `mapstructure:"show_storage_icon" yaml:"show_storage_icon"`

	ColorRoomDefault    Color `mapstructure:"color_room_default" yaml:"color_room_default"`
	ColorGrowingDefault Color `mapstructure:"color_growing_default" yaml:"color_growing_default"`
	ColorStorageDefault Color `mapstructure:"color_storage_default" yaml:"color_storage_default"`

	// ReconcileEveryTicks is the reconciliation cadence.
	ReconcileEveryTicks uint64 `mapstructure:"reconcile_every_ticks" yaml:"reconcile_every_ticks" validate:"gte=1"`

	// LoadGrace suppresses labels right after a container is loaded.
	LoadGrace time.Duration `mapstructure:"load_grace" yaml:"load_grace" validate:"gte=0"`
}

// Default per-kind colors.
var (
	DefaultRoomColor    = RGB(1, 0.88, 0.6)
	DefaultGrowingColor = RGB(0.8, 1, 0.6)
	DefaultStorageColor = RGB(0.6, 0.9, 1)
)

// DefaultSettings returns the built-in configuration.
func DefaultSettings() Settings {
	return Settings{
		ShowRoomLabels:        true,
		ShowZoneLabels:        true,
		ShowGrowingZoneLabels: true,
		ShowStorageZoneLabels: true,
		ShowMainTab:           true,
		DefaultFontScale:      1.0,
		ShowRoomIcon:          true,
		ShowGrowingIcon:       true,
		ShowStorageIcon:       true,
		ColorRoomDefault:      DefaultRoomColor,
		ColorGrowingDefault:   DefaultGrowingColor,
		ColorStorageDefault:   DefaultStorageColor,
		ReconcileEveryTicks:   250,
		LoadGrace:             3 * time.Second,
	}
}

// Validate checks the field ranges.
func (s Settings) Validate() error {
	if err := validatorInstance().Struct(s); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	return nil
}

// ToggleVisibility flips room and zone labels together and returns the new state.
// Room visibility decides the direction so both switches always end up equal.
func (s *Settings) ToggleVisibility() bool {
	next := !s.ShowRoomLabels
	s.ShowRoomLabels = next
	s.ShowZoneLabels = next
	return next
}

// AnyLabels reports whether any label layer is enabled.
func (s Settings) AnyLabels() bool {
	return s.ShowRoomLabels || s.ShowZoneLabels
}
