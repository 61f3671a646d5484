package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFillsMissingKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "punchlog.yaml")
	require.NoError(t, os.WriteFile(path,
		[]byte("default_position: R\nmin_duration_lunch_break: 45\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "R", cfg.DefaultPosition)
	assert.Equal(t, 45, cfg.MinLunchBreak)
	assert.Equal(t, 90, cfg.MaxLunchBreak)
	assert.Equal(t, "8h", cfg.WorkDuration)
	assert.Equal(t, "12:00", cfg.LunchWindowStart)
	assert.Equal(t, "14:30", cfg.LunchWindowEnd)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "punchlog.yaml")
	require.NoError(t, os.WriteFile(path, []byte("default_position: [unclosed"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "punchlog.yaml")

	want := Default()
	want.DefaultPosition = "C"
	want.WorkDuration = "7h36m"
	require.NoError(t, want.Save(path))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
