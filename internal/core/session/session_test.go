package session

import (
	"context"
	"testing"
	"time"

	"focusquest/internal/core/model"
	"focusquest/internal/core/timekeeper"
	"focusquest/internal/platform/clock"
	"focusquest/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingNotifier struct {
	notices []Notice
}

func (notifier *recordingNotifier) Notify(notice Notice) {
	notifier.notices = append(notifier.notices, notice)
}

func newStore(t *testing.T) *storage.ProgressStore {
	t.Helper()
	store := storage.NewProgressStore(storage.NewMemorySlot(), model.DefaultQuestConfig(),
		clock.Fixed(time.Date(2026, time.May, 2, 8, 0, 0, 0, time.UTC)), zap.NewNop())
	store.Load(context.Background())
	return store
}

func TestFocusCompletionRecordsAndNotifies(t *testing.T) {
	store := newStore(t)
	notifier := &recordingNotifier{}
	refreshes := 0
	service := NewService(store, notifier, model.DefaultQuestConfig(), func() { refreshes++ }, zap.NewNop())

	service.HandleCompletion(context.Background(), model.ModeFocus)

	state := store.Snapshot()
	assert.Equal(t, 50, state.XP)
	assert.Equal(t, 1, state.CompletedSessions)
	assert.Equal(t, []Notice{FocusCompleteNotice(50)}, notifier.notices)
	assert.Equal(t, 1, refreshes)
}

func TestBreakCompletionOnlyNotifies(t *testing.T) {
	store := newStore(t)
	notifier := &recordingNotifier{}
	service := NewService(store, notifier, model.DefaultQuestConfig(), nil, zap.NewNop())

	service.HandleCompletion(context.Background(), model.ModeLongBreak)

	assert.Equal(t, model.ProgressState{}, store.Snapshot())
	assert.Equal(t, []Notice{BreakOverNotice()}, notifier.notices)
}

func TestCountdownToZeroCompletesExactlyOnce(t *testing.T) {
	config := model.DefaultQuestConfig()
	store := newStore(t)
	notifier := &recordingNotifier{}
	service := NewService(store, notifier, config, nil, zap.NewNop())

	source := timekeeper.NewManualSource()
	keeper := timekeeper.New(config, timekeeper.Config{Source: source})
	defer keeper.Close()
	keeper.SetCompletionHandler(service.CompletionHandler())

	keeper.Start()
	source.Fire(config.Seconds(model.ModeFocus) - 1)
	require.Equal(t, 1, keeper.Snapshot().RemainingSeconds)
	require.Empty(t, notifier.notices)

	source.Fire(1)

	assert.Len(t, notifier.notices, 1)
	assert.Equal(t, 1, store.Snapshot().CompletedSessions)
	state := keeper.Snapshot()
	assert.Equal(t, model.ModeFocus, state.Mode)
	assert.Equal(t, 1500, state.RemainingSeconds)
	assert.False(t, state.Running)
}

func TestModeSwitchDoesNotTouchProgress(t *testing.T) {
	config := model.DefaultQuestConfig()
	store := newStore(t)
	service := NewService(store, &recordingNotifier{}, config, nil, zap.NewNop())

	source := timekeeper.NewManualSource()
	keeper := timekeeper.New(config, timekeeper.Config{Source: source})
	defer keeper.Close()
	keeper.SetCompletionHandler(service.CompletionHandler())

	keeper.Start()
	source.Fire(1499)
	keeper.SelectMode(model.ModeShortBreak)

	assert.Equal(t, model.ProgressState{}, store.Snapshot())
	assert.Equal(t, 300, keeper.Snapshot().RemainingSeconds)
}
