package settings

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Defaults(), s)
	assert.Equal(t, 3*time.Second, s.SlideshowInterval())
	assert.Equal(t, 160, s.Thumbnails.Size)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "settings.yaml")
	s := Defaults()
	s.Appearance.Theme = ThemeLight
	s.Window = WindowSettings{Width: 1280, Height: 800}
	s.View.FitToWindow = true
	s.Recent = []string{"/pics", "/pics/a.png"}

	require.NoError(t, Save(path, s))
	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, s, got)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("appearance:\n  theme: light\n"), 0o644))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ThemeLight, s.Appearance.Theme)
	assert.Equal(t, DefaultWidth, s.Window.Width)
	assert.True(t, s.Thumbnails.Cache)
}

func TestLoadNormalizesInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	body := `
appearance: {theme: purple}
window: {width: 10, height: -5}
slideshow: {interval_ms: 0}
thumbnails: {size: 9000, cache: false}
recent: [/a, /b, /a, ""]
logging: {level: " DEBUG ", format: xml}
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ThemeDark, s.Appearance.Theme)
	assert.Equal(t, DefaultWidth, s.Window.Width)
	assert.Equal(t, DefaultHeight, s.Window.Height)
	assert.Equal(t, 3000, s.Slideshow.IntervalMs)
	assert.Equal(t, 160, s.Thumbnails.Size)
	assert.False(t, s.Thumbnails.Cache)
	assert.Equal(t, []string{"/a", "/b"}, s.Recent)
	assert.Equal(t, "debug", s.Logging.Level)
	assert.Equal(t, "console", s.Logging.Format)
}

func TestLoadBrokenYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("window: [unclosed"), 0o644))

	s, err := Load(path)
	assert.Error(t, err)
	assert.Equal(t, Defaults(), s)
}

func TestDefaultPathEnvOverride(t *testing.T) {
	t.Setenv(EnvConfig, "/tmp/custom.yaml")
	p, err := DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/custom.yaml", p)

	t.Setenv(EnvConfig, "")
	t.Setenv("XDG_CONFIG_HOME", "/cfg")
	t.Setenv("HOME", "/home/u")
	p, err = DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, "settings.yaml", filepath.Base(p))
	assert.Equal(t, "dockview", filepath.Base(filepath.Dir(p)))
}
