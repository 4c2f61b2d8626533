package timekeeper

import (
	"testing"
	"time"

	"focusquest/internal/core/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newManualKeeper(t *testing.T) (*TimeKeeper, *ManualSource) {
	t.Helper()
	source := NewManualSource()
	keeper := New(model.DefaultQuestConfig(), Config{Source: source})
	t.Cleanup(keeper.Close)
	return keeper, source
}

func TestNewStartsInFocusMode(t *testing.T) {
	keeper, source := newManualKeeper(t)

	state := keeper.Snapshot()
	assert.Equal(t, model.ModeFocus, state.Mode)
	assert.Equal(t, 1500, state.RemainingSeconds)
	assert.False(t, state.Running)
	assert.False(t, source.Active())
}

func TestStartIsNoOpWhileRunning(t *testing.T) {
	keeper, source := newManualKeeper(t)

	keeper.Start()
	keeper.Start()

	assert.True(t, keeper.Snapshot().Running)
	assert.Equal(t, 1, source.Starts())
}

func TestTickDecrementsOnlyWhileRunning(t *testing.T) {
	keeper, source := newManualKeeper(t)

	keeper.Tick()
	assert.Equal(t, 1500, keeper.Snapshot().RemainingSeconds)

	keeper.Start()
	source.Fire(3)
	assert.Equal(t, 1497, keeper.Snapshot().RemainingSeconds)
}

func TestPauseAndResumePreservesRemaining(t *testing.T) {
	keeper, source := newManualKeeper(t)

	keeper.Start()
	source.Fire(42)
	keeper.Pause()

	paused := keeper.Snapshot()
	assert.False(t, paused.Running)
	assert.Equal(t, 1458, paused.RemainingSeconds)
	assert.False(t, source.Active())

	source.Fire(10)
	keeper.Tick()
	assert.Equal(t, 1458, keeper.Snapshot().RemainingSeconds)

	keeper.Start()
	assert.Equal(t, 1458, keeper.Snapshot().RemainingSeconds)
	source.Fire(1)
	assert.Equal(t, 1457, keeper.Snapshot().RemainingSeconds)
}

func TestSelectModeWhileRunningStopsAndReloads(t *testing.T) {
	keeper, source := newManualKeeper(t)
	completions := 0
	keeper.SetCompletionHandler(func(model.Mode) { completions++ })

	keeper.Start()
	source.Fire(5)
	keeper.SelectMode(model.ModeShortBreak)

	state := keeper.Snapshot()
	assert.Equal(t, model.ModeShortBreak, state.Mode)
	assert.Equal(t, 300, state.RemainingSeconds)
	assert.False(t, state.Running)
	assert.False(t, source.Active())
	assert.Zero(t, completions)
}

func TestSelectModeIgnoresUnknownMode(t *testing.T) {
	keeper, _ := newManualKeeper(t)

	keeper.SelectMode(model.ModeLongBreak)
	keeper.SelectMode(model.Mode("siesta"))

	state := keeper.Snapshot()
	assert.Equal(t, model.ModeLongBreak, state.Mode)
	assert.Equal(t, 900, state.RemainingSeconds)
}

func TestResetKeepsModeAndReloadsDuration(t *testing.T) {
	keeper, source := newManualKeeper(t)

	keeper.SelectMode(model.ModeLongBreak)
	keeper.Start()
	source.Fire(100)
	keeper.Reset()

	state := keeper.Snapshot()
	assert.Equal(t, model.ModeLongBreak, state.Mode)
	assert.Equal(t, 900, state.RemainingSeconds)
	assert.False(t, state.Running)
}

func TestFocusCompletionReturnsToFocus(t *testing.T) {
	config := model.DefaultQuestConfig()
	config.Focus = time.Second
	source := NewManualSource()
	keeper := New(config, Config{Source: source})
	defer keeper.Close()

	var finished []model.Mode
	keeper.SetCompletionHandler(func(mode model.Mode) {
		finished = append(finished, mode)
	})

	keeper.Start()
	source.Fire(5)

	assert.Equal(t, []model.Mode{model.ModeFocus}, finished)
	state := keeper.Snapshot()
	assert.Equal(t, model.ModeFocus, state.Mode)
	assert.Equal(t, 1, state.RemainingSeconds)
	assert.False(t, state.Running)
	assert.False(t, source.Active())
}

func TestBreakCompletionReturnsToFocus(t *testing.T) {
	config := model.DefaultQuestConfig()
	config.ShortBreak = 2 * time.Second
	source := NewManualSource()
	keeper := New(config, Config{Source: source})
	defer keeper.Close()

	var finished []model.Mode
	keeper.SetCompletionHandler(func(mode model.Mode) {
		finished = append(finished, mode)
	})

	keeper.SelectMode(model.ModeShortBreak)
	keeper.Start()
	source.Fire(2)

	assert.Equal(t, []model.Mode{model.ModeShortBreak}, finished)
	state := keeper.Snapshot()
	assert.Equal(t, model.ModeFocus, state.Mode)
	assert.Equal(t, 1500, state.RemainingSeconds)
}

func TestEventsFollowTransitions(t *testing.T) {
	config := model.DefaultQuestConfig()
	config.Focus = 2 * time.Second
	source := NewManualSource()
	keeper := New(config, Config{Source: source})
	events := keeper.Subscribe(16)

	keeper.Start()
	source.Fire(2)
	keeper.Close()

	var types []EventType
	for event := range events {
		types = append(types, event.Type)
	}
	assert.Equal(t, []EventType{
		EventStateChange,
		EventProgress,
		EventCompleted,
		EventStateChange,
	}, types)
}

func TestSubscribeAfterCloseReturnsClosedChannel(t *testing.T) {
	keeper, _ := newManualKeeper(t)
	keeper.Close()

	_, ok := <-keeper.Subscribe(1)
	assert.False(t, ok)
}

func TestTickerSourceDrivesCountdown(t *testing.T) {
	keeper := New(model.DefaultQuestConfig(), Config{TickInterval: 5 * time.Millisecond})
	defer keeper.Close()
	events := keeper.Subscribe(64)

	keeper.Start()
	require.Eventually(t, func() bool {
		return keeper.Snapshot().RemainingSeconds <= 1497
	}, time.Second, 5*time.Millisecond)
	keeper.Pause()

	paused := keeper.Snapshot().RemainingSeconds
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, paused, keeper.Snapshot().RemainingSeconds)
	assert.NotEmpty(t, events)
}
