package notice

import (
	"sync/atomic"

	"focusquest/internal/core/session"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
)

// Notifier shows completion notices as desktop notifications and, while the
// attached window is visible, as an in-window dialog.
type Notifier struct {
	app     fyne.App
	window  fyne.Window
	visible func() bool
	enabled atomic.Bool
}

// New creates a notifier. Desktop notifications are skipped when disabled.
func New(app fyne.App, enabled bool) *Notifier {
	notifier := &Notifier{app: app}
	notifier.enabled.Store(enabled)
	return notifier
}

// AttachWindow sets the window used for in-app dialogs. visible reports
// whether the window is on screen; a nil func treats it as always visible.
func (notifier *Notifier) AttachWindow(window fyne.Window, visible func() bool) {
	notifier.window = window
	notifier.visible = visible
}

// SetEnabled toggles desktop notifications.
func (notifier *Notifier) SetEnabled(enabled bool) {
	notifier.enabled.Store(enabled)
}

// Notify implements session.Notifier. It may be called from any goroutine.
func (notifier *Notifier) Notify(notice session.Notice) {
	fyne.Do(func() {
		if notifier.enabled.Load() && notifier.app != nil {
			notifier.app.SendNotification(fyne.NewNotification(notice.Title, notice.Message))
		}
		if notifier.window != nil && (notifier.visible == nil || notifier.visible()) {
			dialog.ShowInformation(notice.Title, notice.Message, notifier.window)
		}
	})
}
