package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"dockview/internal/settings"
	"dockview/internal/ui"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runRoot(t *testing.T, args ...string) (ui.Config, bool, error) {
	t.Helper()
	var got ui.Config
	launched := false
	root := NewRootCmd(func(cfg ui.Config) {
		got = cfg
		launched = true
	})
	root.SetOut(new(bytes.Buffer))
	root.SetErr(new(bytes.Buffer))
	root.SetArgs(args)
	err := root.Execute()
	return got, launched, err
}

func TestRootLaunchesWithSettings(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "settings.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("appearance:\n  theme: light\nslideshow:\n  interval_ms: 1500\n"), 0o644))

	cfg, launched, err := runRoot(t, "--config", cfgPath, "--fullscreen", "--slideshow", dir)
	require.NoError(t, err)
	require.True(t, launched)

	assert.Equal(t, dir, cfg.Path)
	assert.Equal(t, cfgPath, cfg.SettingsPath)
	assert.True(t, cfg.Fullscreen)
	assert.True(t, cfg.StartShow)
	assert.Equal(t, settings.ThemeLight, cfg.Settings.Appearance.Theme)
	assert.Equal(t, 1500, cfg.Settings.Slideshow.IntervalMs)
}

func TestRootIntervalFlagOverridesSettings(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "missing.yaml")

	cfg, launched, err := runRoot(t, "--config", cfgPath, "--slideshow-interval", "7s")
	require.NoError(t, err)
	require.True(t, launched)
	assert.Empty(t, cfg.Path)
	assert.Equal(t, 7000, cfg.Settings.Slideshow.IntervalMs)
}

func TestRootRejectsBadInput(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "missing.yaml")

	_, launched, err := runRoot(t, "--config", cfgPath, "--slideshow-interval", "-1s")
	assert.Error(t, err)
	assert.False(t, launched)

	_, launched, err = runRoot(t, "--config", cfgPath, "a", "b")
	assert.Error(t, err)
	assert.False(t, launched)
}

func TestRootBrokenSettingsStillLaunches(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("window: [::"), 0o644))

	cfg, launched, err := runRoot(t, "--config", cfgPath)
	require.NoError(t, err)
	require.True(t, launched)
	assert.Equal(t, settings.Defaults(), cfg.Settings)
}
