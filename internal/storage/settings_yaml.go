package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"focusquest/internal/core/model"
	"focusquest/internal/platform"

	"gopkg.in/yaml.v3"
)

const settingsFileName = "config.yaml"

type yamlSettings struct {
	DataDir        string `yaml:"data_dir"`
	StorageBackend string `yaml:"storage_backend"`
	Notifications  *bool  `yaml:"notifications"`
	LogLevel       string `yaml:"log_level"`
}

// SettingsPath returns the default location of the YAML config file.
func SettingsPath(appName string) (string, error) {
	configDir, err := platform.ConfigDir(appName)
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, settingsFileName), nil
}

// LoadSettings reads user preferences from YAML at path.
// If the file does not exist, default settings are returned.
func LoadSettings(path string) (model.Settings, error) {
	settings := model.DefaultSettings()

	rawData, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return settings, fmt.Errorf("read settings file: %w", err)
	}

	var fileData yamlSettings
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return settings, fmt.Errorf("parse settings yaml: %w", err)
	}

	applyYamlSettings(&settings, fileData)
	if err := settings.Validate(); err != nil {
		return model.DefaultSettings(), err
	}
	return settings, nil
}

// SaveSettings writes user preferences to YAML at path.
func SaveSettings(path string, settings model.Settings) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	notifications := settings.Notifications
	fileData := yamlSettings{
		DataDir:        settings.DataDir,
		StorageBackend: settings.StorageBackend,
		Notifications:  &notifications,
		LogLevel:       settings.LogLevel,
	}

	serialized, err := yaml.Marshal(fileData)
	if err != nil {
		return fmt.Errorf("marshal settings yaml: %w", err)
	}

	if err := os.WriteFile(path, serialized, 0o644); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}
	return nil
}

func applyYamlSettings(settings *model.Settings, fileData yamlSettings) {
	if fileData.DataDir != "" {
		settings.DataDir = fileData.DataDir
	}
	if fileData.StorageBackend != "" {
		settings.StorageBackend = fileData.StorageBackend
	}
	if fileData.Notifications != nil {
		settings.Notifications = *fileData.Notifications
	}
	if fileData.LogLevel != "" {
		settings.LogLevel = fileData.LogLevel
	}
}
