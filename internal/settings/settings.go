// Package settings persists user preferences to a YAML file in the user's
// config directory.
package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"dockview/internal/history"
	"dockview/internal/service"
	"dockview/internal/slideshow"

	"gopkg.in/yaml.v3"
)

// EnvConfig overrides the settings file location.
const EnvConfig = "DOCKVIEW_CONFIG"

const (
	ThemeDark  = "dark"
	ThemeLight = "light"

	DefaultWidth  = 1000
	DefaultHeight = 700

	minWindowSide = 200
	maxThumbSize  = 512
)

type AppearanceSettings struct {
	Theme string `yaml:"theme"` // "dark" | "light"
}

type WindowSettings struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

type ViewSettings struct {
	FitToWindow bool `yaml:"fit_to_window"`
}

type SlideshowSettings struct {
	IntervalMs int `yaml:"interval_ms"`
}

type ThumbnailSettings struct {
	Size  int  `yaml:"size"`
	Cache bool `yaml:"cache"`
}

type LoggingSettings struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

// Settings is the whole settings file.
type Settings struct {
	ConfigVersion int                `yaml:"config_version"`
	Appearance    AppearanceSettings `yaml:"appearance"`
	Window        WindowSettings     `yaml:"window"`
	View          ViewSettings       `yaml:"view"`
	Slideshow     SlideshowSettings  `yaml:"slideshow"`
	Thumbnails    ThumbnailSettings  `yaml:"thumbnails"`
	Recent        []string           `yaml:"recent"`
	Logging       LoggingSettings    `yaml:"logging"`
}

// Defaults returns the application defaults.
func Defaults() Settings {
	return Settings{
		ConfigVersion: 1,
		Appearance:    AppearanceSettings{Theme: ThemeDark},
		Window:        WindowSettings{Width: DefaultWidth, Height: DefaultHeight},
		Slideshow:     SlideshowSettings{IntervalMs: int(slideshow.DefaultInterval / time.Millisecond)},
		Thumbnails:    ThumbnailSettings{Size: service.DefaultThumbnailSize, Cache: true},
		Logging:       LoggingSettings{Level: "info", Format: "console"},
	}
}

// DefaultPath returns $DOCKVIEW_CONFIG, or settings.yaml in the user config dir.
func DefaultPath() (string, error) {
	if p := strings.TrimSpace(os.Getenv(EnvConfig)); p != "" {
		return p, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("cannot resolve config directory: %w", err)
	}
	return filepath.Join(dir, "dockview", "settings.yaml"), nil
}

// Load reads the settings at path. A missing file yields the defaults; a file
// that cannot be parsed yields the defaults and an error. Out-of-range values
// are replaced by their defaults.
func Load(path string) (Settings, error) {
	s := Defaults()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return s, fmt.Errorf("failed to read settings %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Defaults(), fmt.Errorf("failed to parse settings %s: %w", path, err)
	}
	s.Normalize()
	return s, nil
}

// Save writes s to path, replacing the old file atomically.
func Save(path string, s Settings) error {
	s.Normalize()
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".settings-*.yaml")
	if err != nil {
		return fmt.Errorf("failed to create temp settings file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write settings: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace settings %s: %w", path, err)
	}
	return nil
}

// Normalize replaces invalid values with defaults.
func (s *Settings) Normalize() {
	d := Defaults()
	if s.ConfigVersion <= 0 {
		s.ConfigVersion = d.ConfigVersion
	}
	switch t := strings.ToLower(strings.TrimSpace(s.Appearance.Theme)); t {
	case ThemeDark, ThemeLight:
		s.Appearance.Theme = t
	default:
		s.Appearance.Theme = d.Appearance.Theme
	}
	if s.Window.Width < minWindowSide {
		s.Window.Width = d.Window.Width
	}
	if s.Window.Height < minWindowSide {
		s.Window.Height = d.Window.Height
	}
	if s.Slideshow.IntervalMs <= 0 {
		s.Slideshow.IntervalMs = d.Slideshow.IntervalMs
	}
	if s.Thumbnails.Size <= 0 || s.Thumbnails.Size > maxThumbSize {
		s.Thumbnails.Size = d.Thumbnails.Size
	}
	s.Recent = history.NewRecentList(history.DefaultCapacity, s.Recent...).List()
	s.Logging.Level = strings.ToLower(strings.TrimSpace(s.Logging.Level))
	if s.Logging.Level == "" {
		s.Logging.Level = d.Logging.Level
	}
	s.Logging.Format = strings.ToLower(strings.TrimSpace(s.Logging.Format))
	if s.Logging.Format != "json" {
		s.Logging.Format = d.Logging.Format
	}
	s.Logging.File = strings.TrimSpace(s.Logging.File)
}

// SlideshowInterval returns the slideshow interval as a duration.
func (s Settings) SlideshowInterval() time.Duration {
	return time.Duration(s.Slideshow.IntervalMs) * time.Millisecond
}
