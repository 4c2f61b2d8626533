package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidSettings is returned by Settings.Validate.
var ErrInvalidSettings = errors.New("invalid settings")

const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Settings defines user preferences that live outside the fixed presets.
type Settings struct {
	DataDir        string
	StorageBackend string
	Notifications  bool
	LogLevel       string
}

// DefaultSettings returns default settings for FocusQuest.
func DefaultSettings() Settings {
	return Settings{
		StorageBackend: BackendFile,
		Notifications:  true,
		LogLevel:       "info",
	}
}

// Validate normalizes empty values and rejects unknown ones.
func (settings *Settings) Validate() error {
	settings.StorageBackend = strings.ToLower(strings.TrimSpace(settings.StorageBackend))
	switch settings.StorageBackend {
	case "":
		settings.StorageBackend = BackendFile
	case BackendFile, BackendSQLite, BackendMemory:
	default:
		return fmt.Errorf("%w: storage backend %q", ErrInvalidSettings, settings.StorageBackend)
	}

	settings.LogLevel = strings.ToLower(strings.TrimSpace(settings.LogLevel))
	switch settings.LogLevel {
	case "":
		settings.LogLevel = "info"
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: log level %q", ErrInvalidSettings, settings.LogLevel)
	}
	return nil
}
