package storage

import (
	"os"
	"path/filepath"
	"testing"

	"focusquest/internal/core/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSettingsMissingFile(t *testing.T) {
	settings, err := LoadSettings(filepath.Join(t.TempDir(), "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, model.DefaultSettings(), settings)
}

func TestSaveAndLoadSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "FocusQuest", "config.yaml")
	want := model.Settings{
		DataDir:        "/tmp/quest",
		StorageBackend: model.BackendSQLite,
		Notifications:  false,
		LogLevel:       "debug",
	}

	require.NoError(t, SaveSettings(path, want))
	got, err := LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLoadSettingsPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_level: warn\n"), 0o644))

	settings, err := LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, "warn", settings.LogLevel)
	assert.True(t, settings.Notifications)
	assert.Equal(t, model.BackendFile, settings.StorageBackend)
}

func TestLoadSettingsRejectsInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("storage_backend: floppy\n"), 0o644))

	settings, err := LoadSettings(path)
	assert.ErrorIs(t, err, model.ErrInvalidSettings)
	assert.Equal(t, model.DefaultSettings(), settings)
}

func TestLoadSettingsRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_level: [unterminated\n"), 0o644))

	_, err := LoadSettings(path)
	assert.Error(t, err)
}
