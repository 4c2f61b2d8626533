package preferences

import (
	"strings"

	"focusquest/internal/core/model"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

// Window handles the preferences UI. Timer presets are fixed and not shown.
type Window struct {
	window        fyne.Window
	settings      model.Settings
	onSave        func(model.Settings)
	dataDir       *widget.Entry
	backend       *widget.Select
	notifications *widget.Check
	logLevel      *widget.Select
}

// New creates a preferences window.
func New(app fyne.App, settings model.Settings, onSave func(model.Settings)) *Window {
	window := app.NewWindow("FocusQuest Settings")

	dataDir := widget.NewEntry()
	dataDir.SetPlaceHolder("default location")

	backend := widget.NewSelect([]string{model.BackendFile, model.BackendSQLite}, nil)
	logLevel := widget.NewSelect([]string{"debug", "info", "warn", "error"}, nil)
	notifications := widget.NewCheck("Desktop notifications", nil)

	form := container.NewVBox(
		widget.NewLabelWithStyle("Storage", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewBorder(nil, nil, widget.NewLabel("Data directory"), nil, dataDir),
		container.NewHBox(widget.NewLabel("Backend"), backend),
		widget.NewLabelWithStyle("Storage changes apply after restart.", fyne.TextAlignLeading, fyne.TextStyle{Italic: true}),
		widget.NewLabelWithStyle("General", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		notifications,
		container.NewHBox(widget.NewLabel("Log level"), logLevel),
	)

	saveButton := widget.NewButton("Save", nil)
	cancelButton := widget.NewButton("Cancel", nil)
	buttons := container.NewHBox(saveButton, layout.NewSpacer(), cancelButton)

	window.SetContent(container.NewBorder(nil, buttons, nil, nil, form))
	window.Resize(fyne.NewSize(420, 300))
	window.SetCloseIntercept(window.Hide)

	prefs := &Window{
		window:        window,
		onSave:        onSave,
		dataDir:       dataDir,
		backend:       backend,
		notifications: notifications,
		logLevel:      logLevel,
	}
	prefs.UpdateSettings(settings)

	saveButton.OnTapped = prefs.handleSave
	cancelButton.OnTapped = func() {
		prefs.UpdateSettings(prefs.settings)
		window.Hide()
	}
	return prefs
}

// Show displays the preferences window.
func (prefs *Window) Show() {
	prefs.window.Show()
	prefs.window.RequestFocus()
}

// UpdateSettings replaces window values.
func (prefs *Window) UpdateSettings(settings model.Settings) {
	prefs.settings = settings
	prefs.dataDir.SetText(settings.DataDir)
	prefs.backend.SetSelected(settings.StorageBackend)
	prefs.notifications.SetChecked(settings.Notifications)
	prefs.logLevel.SetSelected(settings.LogLevel)
}

func (prefs *Window) handleSave() {
	settings := prefs.collect()
	prefs.settings = settings
	if prefs.onSave != nil {
		prefs.onSave(settings)
	}
	prefs.window.Hide()
}

func (prefs *Window) collect() model.Settings {
	settings := prefs.settings
	settings.DataDir = strings.TrimSpace(prefs.dataDir.Text)
	// Only persistent backends are offered; anything else is saved as file.
	settings.StorageBackend = prefs.backend.Selected
	if settings.StorageBackend == "" {
		settings.StorageBackend = model.BackendFile
	}
	if prefs.logLevel.Selected != "" {
		settings.LogLevel = prefs.logLevel.Selected
	}
	settings.Notifications = prefs.notifications.Checked
	return settings
}
