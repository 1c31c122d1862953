// Package config loads and stores the display settings file.
//
// Settings are read with viper from a YAML file, overridden by ROOMTAG_* environment
// variables, and validated before use. A missing file yields the defaults.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/roomtag/pkg/core"
)

// EnvPrefix prefixes the environment overrides, e.g. ROOMTAG_SHOW_ROOM_LABELS=false.
const EnvPrefix = "ROOMTAG"

// Load reads the settings at path. An empty path or a missing file yields the
// defaults, still subject to environment overrides.
func Load(path string) (core.Settings, error) {
	v := viper.New()
	setDefaults(v, core.DefaultSettings())
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil && !missing(err) {
			return core.Settings{}, fmt.Errorf("reading settings %s: %w", path, err)
		}
	}

	var s core.Settings
	if err := v.Unmarshal(&s); err != nil {
		return core.Settings{}, fmt.Errorf("decoding settings: %w", err)
	}
	if err := s.Validate(); err != nil {
		return core.Settings{}, err
	}
	return s, nil
}

func missing(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist)
}

// Save writes s to path as YAML, creating the parent directory if needed.
func Save(path string, s core.Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("creating settings directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing settings file: %w", err)
	}
	return nil
}

// setDefaults registers every leaf key so that files may override single color
// components and environment variables are picked up by Unmarshal.
func setDefaults(v *viper.Viper, s core.Settings) {
	v.SetDefault("show_room_labels", s.ShowRoomLabels)
	v.SetDefault("show_zone_labels", s.ShowZoneLabels)
	v.SetDefault("show_growing_zone_labels", s.ShowGrowingZoneLabels)
	v.SetDefault("show_storage_zone_labels", s.ShowStorageZoneLabels)
	v.SetDefault("show_main_tab", s.ShowMainTab)
	v.SetDefault("default_font_scale", s.DefaultFontScale)
	v.SetDefault("show_room_icon", s.ShowRoomIcon)
	v.SetDefault("show_growing_icon", s.ShowGrowingIcon)
	v.SetDefault("show_storage_icon", s.ShowStorageIcon)
	setColor(v, "color_room_default", s.ColorRoomDefault)
	setColor(v, "color_growing_default", s.ColorGrowingDefault)
	setColor(v, "color_storage_default", s.ColorStorageDefault)
	v.SetDefault("reconcile_every_ticks", s.ReconcileEveryTicks)
	v.SetDefault("load_grace", s.LoadGrace)
}

func setColor(v *viper.Viper, key string, c core.Color) {
	v.SetDefault(key+".r", c.R)
	v.SetDefault(key+".g", c.G)
	v.SetDefault(key+".b", c.B)
	v.SetDefault(key+".a", c.A)
}
