package main

import (
	"context"
	"fmt"
	"os"

	"focusquest/internal/core/model"
	"focusquest/internal/platform"
	"focusquest/internal/platform/clock"
	"focusquest/internal/storage"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const appName = "FocusQuest"

type options struct {
	configPath string
	dataDir    string
	storage    string
	verbose    bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "focusquest",
		Short:         "Pomodoro timer that levels you up",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			settings, settingsPath, err := loadSettings(opts)
			if err != nil {
				return err
			}
			logger, err := newLogger(settings.LogLevel, opts.verbose)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()
			return runApp(settings, settingsPath, logger)
		},
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default <user config dir>/FocusQuest/config.yaml)")
	root.PersistentFlags().StringVar(&opts.dataDir, "data-dir", "", "directory holding progress data")
	root.PersistentFlags().StringVar(&opts.storage, "storage", "", "storage backend: file|sqlite|memory")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newStatsCmd(opts))
	root.AddCommand(newBadgesCmd(opts))
	return root
}

// loadSettings reads the YAML config and applies command line overrides.
func loadSettings(opts *options) (model.Settings, string, error) {
	path := opts.configPath
	if path == "" {
		resolved, err := storage.SettingsPath(appName)
		if err != nil {
			return model.Settings{}, "", err
		}
		path = resolved
	}

	settings, err := storage.LoadSettings(path)
	if err != nil {
		return settings, path, fmt.Errorf("load settings %s: %w", path, err)
	}
	if opts.dataDir != "" {
		settings.DataDir = opts.dataDir
	}
	if opts.storage != "" {
		settings.StorageBackend = opts.storage
	}
	if err := settings.Validate(); err != nil {
		return settings, path, err
	}
	return settings, path, nil
}

// storedSettings returns the settings as written in the config file, without
// command line overrides.
func storedSettings(path string, logger *zap.Logger) model.Settings {
	settings, err := storage.LoadSettings(path)
	if err != nil {
		logger.Warn("config file unreadable, editing defaults", zap.String("path", path), zap.Error(err))
		return model.DefaultSettings()
	}
	return settings
}

type slotOpener func(backend, dataDir string) (storage.Slot, error)

// openProgress opens the configured slot and loads the progress record.
func openProgress(ctx context.Context, settings model.Settings, open slotOpener, logger *zap.Logger) (*storage.ProgressStore, storage.Slot, error) {
	dataDir, err := platform.DataDir(appName, settings.DataDir)
	if err != nil {
		return nil, nil, err
	}
	slot, err := open(settings.StorageBackend, dataDir)
	if err != nil {
		return nil, nil, fmt.Errorf("open progress storage: %w", err)
	}

	store := storage.NewProgressStore(slot, model.DefaultQuestConfig(), clock.SystemClock{}, logger)
	state := store.Load(ctx)
	logger.Debug("progress loaded",
		zap.String("backend", settings.StorageBackend),
		zap.String("data_dir", dataDir),
		zap.Int("xp", state.XP),
		zap.Int("completed", state.CompletedSessions))
	return store, slot, nil
}
