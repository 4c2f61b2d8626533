package tray

import (
	"fmt"

	"focusquest/internal/core/model"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
)

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnShow        func()
	OnToggleStart func()
	OnReset       func()
	OnSelectMode  func(model.Mode)
	OnPreferences func()
	OnQuit        func()
}

// Manager handles system tray state.
type Manager struct {
	app         desktop.App
	statusItem  *fyne.MenuItem
	startItem   *fyne.MenuItem
	modeItems   map[model.Mode]*fyne.MenuItem
	callbacks   Callbacks
	running     bool
	mode        model.Mode
	statusLabel string
}

// New creates a tray manager with the provided callbacks.
func New(app desktop.App, callbacks Callbacks) *Manager {
	manager := &Manager{
		app:       app,
		callbacks: callbacks,
		mode:      model.ModeFocus,
		modeItems: make(map[model.Mode]*fyne.MenuItem, len(model.Modes)),
	}

	manager.statusItem = fyne.NewMenuItem("Status: ready", nil)
	manager.statusItem.Disabled = true

	manager.startItem = fyne.NewMenuItem("Start", func() {
		if manager.callbacks.OnToggleStart != nil {
			manager.callbacks.OnToggleStart()
		}
	})

	for _, mode := range model.Modes {
		mode := mode
		manager.modeItems[mode] = fyne.NewMenuItem(mode.Label(), func() {
			if manager.callbacks.OnSelectMode != nil {
				manager.callbacks.OnSelectMode(mode)
			}
		})
	}
	manager.modeItems[manager.mode].Checked = true

	manager.refreshMenu()
	return manager
}

// SetStatus updates the status label.
func (manager *Manager) SetStatus(status string) {
	manager.statusLabel = status
	manager.refreshStatus()
	manager.refreshMenu()
}

// SetTimer syncs the start item and mode checkmarks with the countdown.
func (manager *Manager) SetTimer(mode model.Mode, running bool) {
	if manager.mode == mode && manager.running == running {
		return
	}
	manager.running = running
	manager.mode = mode
	if running {
		manager.startItem.Label = "Pause"
	} else {
		manager.startItem.Label = "Start"
	}
	for itemMode, item := range manager.modeItems {
		item.Checked = itemMode == mode
	}
	manager.refreshStatus()
	manager.refreshMenu()
}

// Running reports whether the tray shows the countdown as running.
func (manager *Manager) Running() bool {
	return manager.running
}

func (manager *Manager) refreshStatus() {
	status := manager.statusLabel
	if status == "" {
		status = "ready"
	}
	if !manager.running {
		status = fmt.Sprintf("%s (paused)", status)
	}
	manager.statusItem.Label = fmt.Sprintf("%s: %s", manager.mode.Label(), status)
}

func (manager *Manager) refreshMenu() {
	if manager.app == nil {
		return
	}

	modes := fyne.NewMenuItem("Mode", nil)
	modeItems := make([]*fyne.MenuItem, 0, len(model.Modes))
	for _, mode := range model.Modes {
		modeItems = append(modeItems, manager.modeItems[mode])
	}
	modes.ChildMenu = fyne.NewMenu("", modeItems...)

	manager.app.SetSystemTrayMenu(fyne.NewMenu("FocusQuest",
		manager.statusItem,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Show FocusQuest", func() {
			if manager.callbacks.OnShow != nil {
				manager.callbacks.OnShow()
			}
		}),
		manager.startItem,
		fyne.NewMenuItem("Reset", func() {
			if manager.callbacks.OnReset != nil {
				manager.callbacks.OnReset()
			}
		}),
		modes,
		fyne.NewMenuItem("Preferences", func() {
			if manager.callbacks.OnPreferences != nil {
				manager.callbacks.OnPreferences()
			}
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() {
			if manager.callbacks.OnQuit != nil {
				manager.callbacks.OnQuit()
			}
		}),
	))
}
