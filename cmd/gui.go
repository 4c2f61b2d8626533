package main

import (
	"context"
	"errors"
	"time"

	"focusquest/internal/core/model"
	"focusquest/internal/core/session"
	"focusquest/internal/core/timekeeper"
	"focusquest/internal/platform"
	"focusquest/internal/storage"
	"focusquest/internal/ui/notice"
	"focusquest/internal/ui/preferences"
	"focusquest/internal/ui/tray"
	"focusquest/internal/ui/view"
	"focusquest/internal/ui/window"
	"focusquest/resources"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
	"go.uber.org/zap"
)

func runApp(settings model.Settings, settingsPath string, logger *zap.Logger) error {
	dataDir, err := platform.DataDir(appName, settings.DataDir)
	if err != nil {
		return err
	}
	guard, err := platform.AcquireSingleInstance(appName, dataDir)
	if err != nil {
		if errors.Is(err, platform.ErrAlreadyRunning) {
			logger.Warn("another FocusQuest instance is running", zap.String("data_dir", dataDir))
		}
		return err
	}
	defer func() {
		_ = guard.Release()
	}()

	resolved := settings
	resolved.DataDir = dataDir
	store, slot, err := openProgress(context.Background(), resolved, storage.OpenSlot, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := slot.Close(); err != nil {
			logger.Warn("close progress storage", zap.Error(err))
		}
	}()

	fyneApp := app.NewWithID("io.focusquest.app")
	fyneApp.SetIcon(resources.MustIcon(resources.IconActive))

	config := model.DefaultQuestConfig()
	keeper := timekeeper.New(config, timekeeper.Config{TickInterval: time.Second})
	defer keeper.Close()

	notifier := notice.New(fyneApp, settings.Notifications)

	var mainWindow *window.Window
	refresh := func() {
		fyne.Do(mainWindow.Refresh)
	}
	sessions := session.NewService(store, notifier, config, refresh, logger)
	keeper.SetCompletionHandler(sessions.CompletionHandler())

	mainWindow = window.New(fyneApp, window.Controls{
		OnStart:      keeper.Start,
		OnPause:      keeper.Pause,
		OnReset:      keeper.Reset,
		OnSelectMode: keeper.SelectMode,
	}, func() view.Snapshot {
		return view.Snapshot{
			Progress: store.Snapshot(),
			Timer:    keeper.Snapshot(),
			Config:   config,
		}
	})
	notifier.AttachWindow(mainWindow.FyneWindow(), mainWindow.Visible)

	// Command line overrides apply to this run only and never reach the file.
	prefsWindow := preferences.New(fyneApp, storedSettings(settingsPath, logger), func(updated model.Settings) {
		if err := updated.Validate(); err != nil {
			logger.Warn("rejecting settings", zap.Error(err))
			return
		}
		if err := storage.SaveSettings(settingsPath, updated); err != nil {
			logger.Error("save settings", zap.Error(err))
			return
		}
		notifier.SetEnabled(updated.Notifications)
		logger.Info("settings saved", zap.String("path", settingsPath))
	})

	var trayManager *tray.Manager
	if desktopApp, ok := fyneApp.(desktop.App); ok {
		trayManager = tray.New(desktopApp, tray.Callbacks{
			OnShow: mainWindow.Show,
			OnToggleStart: func() {
				if keeper.Snapshot().Running {
					keeper.Pause()
					return
				}
				keeper.Start()
			},
			OnReset:       keeper.Reset,
			OnSelectMode:  keeper.SelectMode,
			OnPreferences: prefsWindow.Show,
			OnQuit: func() {
				keeper.Close()
				fyneApp.Quit()
			},
		})
		desktopApp.SetSystemTrayIcon(resources.MustIcon(resources.IconPaused))
		mainWindow.HideOnClose()
	} else {
		logger.Info("system tray unsupported on this platform")
		mainWindow.FyneWindow().SetMaster()
	}

	events := keeper.Subscribe(16)
	go func() {
		for event := range events {
			event := event
			fyne.Do(func() {
				mainWindow.Refresh()
				if trayManager != nil {
					syncTray(fyneApp, trayManager, event)
				}
			})
		}
	}()

	mainWindow.Refresh()
	mainWindow.Show()
	fyneApp.Run()
	return nil
}

func syncTray(fyneApp fyne.App, trayManager *tray.Manager, event timekeeper.Event) {
	trayManager.SetTimer(event.Mode, event.Running)
	trayManager.SetStatus(view.FormatClock(int(event.Remaining / time.Second)))

	desktopApp, ok := fyneApp.(desktop.App)
	if !ok || event.Type == timekeeper.EventProgress {
		return
	}
	switch {
	case !event.Running:
		desktopApp.SetSystemTrayIcon(resources.MustIcon(resources.IconPaused))
	case event.Mode == model.ModeFocus:
		desktopApp.SetSystemTrayIcon(resources.MustIcon(resources.IconActive))
	default:
		desktopApp.SetSystemTrayIcon(resources.MustIcon(resources.IconBreak))
	}
}
