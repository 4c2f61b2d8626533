// Package session turns finished countdowns into progress and notices.
package session

import (
	"context"
	"fmt"
	"time"

	"focusquest/internal/core/model"
	"focusquest/internal/core/progress"

	"go.uber.org/zap"
)

// Notice is an informational message shown to the user.
type Notice struct {
	Title   string
	Message string
}

// Notifier surfaces notices to the user.
type Notifier interface {
	Notify(notice Notice)
}

// Recorder credits completed focus sessions.
type Recorder interface {
	RecordSessionCompletion(ctx context.Context) (model.ProgressState, error)
}

const saveTimeout = 5 * time.Second

// Service is the completion handler wired into the TimeKeeper.
type Service struct {
	recorder Recorder
	notifier Notifier
	config   model.QuestConfig
	refresh  func()
	logger   *zap.Logger
}

// NewService creates a Service. refresh is called after progress changes
// and may be nil.
func NewService(recorder Recorder, notifier Notifier, config model.QuestConfig, refresh func(), logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		recorder: recorder,
		notifier: notifier,
		config:   config,
		refresh:  refresh,
		logger:   logger,
	}
}

// HandleCompletion reacts to a countdown that reached zero in mode.
func (service *Service) HandleCompletion(ctx context.Context, mode model.Mode) {
	if mode != model.ModeFocus {
		service.logger.Info("break finished", zap.String("mode", string(mode)))
		service.notify(BreakOverNotice())
		return
	}

	state, err := service.recorder.RecordSessionCompletion(ctx)
	if err != nil {
		service.logger.Error("persist session completion", zap.Error(err))
	}
	before := state.CompletedSessions - 1

	service.logger.Info("focus session completed",
		zap.Int("xp", state.XP),
		zap.Int("completed", state.CompletedSessions),
		zap.Int("level", progress.Level(state.XP, service.config.XPPerLevel)))
	for _, badge := range progress.Badges {
		if badge.Unlocked(state.CompletedSessions) && !badge.Unlocked(before) {
			service.logger.Info("badge unlocked", zap.String("badge", badge.ID))
		}
	}

	service.notify(FocusCompleteNotice(service.config.XPPerSession))
	if service.refresh != nil {
		service.refresh()
	}
}

// CompletionHandler adapts the service to the TimeKeeper callback.
func (service *Service) CompletionHandler() func(model.Mode) {
	return func(mode model.Mode) {
		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		defer cancel()
		service.HandleCompletion(ctx, mode)
	}
}

func (service *Service) notify(notice Notice) {
	if service.notifier != nil {
		service.notifier.Notify(notice)
	}
}

// FocusCompleteNotice is shown when a focus session finishes.
func FocusCompleteNotice(xp int) Notice {
	return Notice{
		Title:   "Pomodoro complete!",
		Message: fmt.Sprintf("Pomodoro complete! +%d XP 🌸", xp),
	}
}

// BreakOverNotice is shown when a break finishes.
func BreakOverNotice() Notice {
	return Notice{
		Title:   "Break is over",
		Message: "Break is over — back to focus!",
	}
}
