// Package window builds the main FocusQuest window: home, timer and
// achievements tabs, each bound through its own view.Binder.
package window

import (
	"sync/atomic"

	"focusquest/internal/core/model"
	"focusquest/internal/core/progress"
	"focusquest/internal/ui/view"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// Controls are the user actions wired to the timer.
type Controls struct {
	OnStart      func()
	OnPause      func()
	OnReset      func()
	OnSelectMode func(model.Mode)
}

// Window is the main application window.
type Window struct {
	window  fyne.Window
	tabs    *container.AppTabs
	timer   view.Regions
	binders []*view.Binder
	source  func() view.Snapshot
	visible atomic.Bool
}

// New creates the main window. source is read on every Refresh.
func New(app fyne.App, controls Controls, source func() view.Snapshot) *Window {
	mainWindow := &Window{
		window: app.NewWindow("FocusQuest"),
		source: source,
	}
	if app.Icon() != nil {
		mainWindow.window.SetIcon(app.Icon())
	}

	homeRegions, home := buildHome()
	timerRegions, timer := buildTimer(controls)
	achievementRegions, achievements := buildAchievements()
	mainWindow.timer = timerRegions
	mainWindow.binders = []*view.Binder{
		view.NewBinder(view.PageHome, homeRegions),
		view.NewBinder(view.PageTimer, timerRegions),
		view.NewBinder(view.PageAchievements, achievementRegions),
	}

	timerTab := container.NewTabItem("Timer", timer)
	mainWindow.tabs = container.NewAppTabs(
		container.NewTabItem("Home", container.NewVBox(home, widget.NewButton("Start focusing", func() {
			mainWindow.tabs.Select(timerTab)
		}))),
		timerTab,
		container.NewTabItem("Achievements", achievements),
	)
	mainWindow.tabs.Select(timerTab)

	mainWindow.window.SetContent(mainWindow.tabs)
	mainWindow.window.Resize(fyne.NewSize(560, 520))
	return mainWindow
}

// Refresh re-renders every tab from the current snapshot. It must run on
// the Fyne UI goroutine.
func (mainWindow *Window) Refresh() {
	snapshot := mainWindow.source()
	for _, binder := range mainWindow.binders {
		binder.Apply(view.Render(snapshot, binder.Page()))
	}
}

// Show displays the window.
func (mainWindow *Window) Show() {
	mainWindow.visible.Store(true)
	mainWindow.window.Show()
	mainWindow.window.RequestFocus()
}

// Visible reports whether the window is shown rather than hidden in the tray.
func (mainWindow *Window) Visible() bool {
	return mainWindow.visible.Load()
}

// HideOnClose keeps the app alive in the tray when the window is closed.
func (mainWindow *Window) HideOnClose() {
	mainWindow.window.SetCloseIntercept(mainWindow.hide)
}

func (mainWindow *Window) hide() {
	mainWindow.visible.Store(false)
	mainWindow.window.Hide()
}

// FyneWindow exposes the underlying window for dialogs.
func (mainWindow *Window) FyneWindow() fyne.Window {
	return mainWindow.window
}

func buildHome() (view.Regions, fyne.CanvasObject) {
	regions := view.Regions{
		XP:       widget.NewLabel(""),
		Level:    widget.NewLabel(""),
		Sessions: widget.NewLabel(""),
	}
	content := container.NewVBox(
		widget.NewLabelWithStyle("FocusQuest", fyne.TextAlignCenter, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("Focus, earn XP, collect badges.", fyne.TextAlignCenter, fyne.TextStyle{Italic: true}),
		container.NewHBox(layout.NewSpacer(), regions.XP, regions.Level, regions.Sessions, layout.NewSpacer()),
	)
	return regions, content
}

func buildTimer(controls Controls) (view.Regions, fyne.CanvasObject) {
	regions := view.Regions{
		Time:        widget.NewLabelWithStyle("", fyne.TextAlignCenter, fyne.TextStyle{Monospace: true}),
		Start:       widget.NewButton("Start", callback(controls.OnStart)),
		Pause:       widget.NewButton("Pause", callback(controls.OnPause)),
		Reset:       widget.NewButton("Reset", callback(controls.OnReset)),
		ModeButtons: make(map[model.Mode]*widget.Button, len(model.Modes)),
		XP:          widget.NewLabel(""),
		Level:       widget.NewLabel(""),
		ProgressBar: widget.NewProgressBar(),
		Sessions:    widget.NewLabel(""),
		Badges:      container.NewGridWithColumns(len(progress.Badges)),
	}
	regions.Time.SizeName = theme.SizeNameHeadingText
	regions.ProgressBar.TextFormatter = func() string { return "" }

	tabs := make([]fyne.CanvasObject, 0, len(model.Modes))
	for _, mode := range model.Modes {
		mode := mode
		button := widget.NewButton(mode.Label(), func() {
			if controls.OnSelectMode != nil {
				controls.OnSelectMode(mode)
			}
		})
		regions.ModeButtons[mode] = button
		tabs = append(tabs, button)
	}

	content := container.NewVBox(
		container.NewGridWithColumns(len(tabs), tabs...),
		regions.Time,
		container.NewGridWithColumns(3, regions.Start, regions.Pause, regions.Reset),
		widget.NewSeparator(),
		container.NewHBox(regions.XP, layout.NewSpacer(), regions.Level),
		regions.ProgressBar,
		container.NewHBox(widget.NewLabel("Completed pomodoros:"), regions.Sessions),
		widget.NewLabelWithStyle("Badges", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		regions.Badges,
	)
	return regions, content
}

func buildAchievements() (view.Regions, fyne.CanvasObject) {
	regions := view.Regions{
		XP:       widget.NewLabel(""),
		Level:    widget.NewLabel(""),
		Sessions: widget.NewLabel(""),
		Badges:   container.NewGridWithColumns(3),
	}
	content := container.NewVBox(
		container.NewHBox(regions.XP, layout.NewSpacer(), regions.Level),
		container.NewHBox(widget.NewLabel("Sessions completed:"), regions.Sessions),
		widget.NewSeparator(),
		regions.Badges,
	)
	return regions, container.NewVScroll(content)
}

func callback(fn func()) func() {
	return func() {
		if fn != nil {
			fn()
		}
	}
}
