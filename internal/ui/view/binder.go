package view

import (
	"slices"

	"focusquest/internal/core/model"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// Regions are the widgets a page exposes. Any of them may be nil.
type Regions struct {
	Time        *widget.Label
	Start       *widget.Button
	Pause       *widget.Button
	Reset       *widget.Button
	ModeButtons map[model.Mode]*widget.Button
	XP          *widget.Label
	Level       *widget.Label
	ProgressBar *widget.ProgressBar
	Sessions    *widget.Label
	Badges      *fyne.Container
}

// Binder writes a Display into one page's regions. Apply must run on the
// Fyne UI goroutine.
type Binder struct {
	page    Page
	regions Regions
	shown   []BadgeTile
}

// NewBinder creates a Binder for regions styled as page.
func NewBinder(page Page, regions Regions) *Binder {
	if regions.ProgressBar != nil {
		regions.ProgressBar.Min = 0
		regions.ProgressBar.Max = 100
	}
	return &Binder{page: page, regions: regions}
}

// Page returns the text style this binder renders with.
func (binder *Binder) Page() Page {
	return binder.page
}

// Apply updates every present region. Calling it again with the same
// display leaves the widgets unchanged.
func (binder *Binder) Apply(display Display) {
	regions := binder.regions

	setText(regions.Time, display.Time)
	setText(regions.XP, display.XP)
	setText(regions.Level, display.Level)
	setText(regions.Sessions, display.Sessions)

	if regions.ProgressBar != nil && regions.ProgressBar.Value != display.ProgressPercent {
		regions.ProgressBar.SetValue(display.ProgressPercent)
	}

	setEnabled(regions.Start, !display.Running)
	setEnabled(regions.Pause, display.Running)

	for mode, button := range regions.ModeButtons {
		if button == nil {
			continue
		}
		importance := widget.MediumImportance
		if mode == display.Mode {
			importance = widget.HighImportance
		}
		if button.Importance != importance {
			button.Importance = importance
			button.Refresh()
		}
	}

	if regions.Badges != nil && !slices.Equal(binder.shown, display.Badges) {
		objects := make([]fyne.CanvasObject, 0, len(display.Badges))
		for _, tile := range display.Badges {
			objects = append(objects, badgeCard(tile))
		}
		regions.Badges.Objects = objects
		regions.Badges.Refresh()
		binder.shown = slices.Clone(display.Badges)
	}
}

func badgeCard(tile BadgeTile) fyne.CanvasObject {
	icon := widget.NewLabelWithStyle(tile.Icon, fyne.TextAlignCenter, fyne.TextStyle{})
	name := widget.NewLabelWithStyle(tile.Name, fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
	caption := widget.NewLabelWithStyle(tile.Caption, fyne.TextAlignCenter, fyne.TextStyle{Italic: true})
	if !tile.Unlocked {
		icon.Importance = widget.LowImportance
		name.Importance = widget.LowImportance
		caption.Importance = widget.LowImportance
	}
	return container.NewVBox(icon, name, caption)
}

func setText(label *widget.Label, text string) {
	if label == nil || label.Text == text {
		return
	}
	label.SetText(text)
}

func setEnabled(button *widget.Button, enabled bool) {
	if button == nil || button.Disabled() == !enabled {
		return
	}
	if enabled {
		button.Enable()
		return
	}
	button.Disable()
}
