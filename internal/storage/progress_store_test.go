package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"focusquest/internal/core/model"
	"focusquest/internal/core/progress"
	"focusquest/internal/platform/clock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

var completedAt = time.Date(2026, time.March, 14, 9, 30, 0, 0, time.UTC)

func newTestStore(slot Slot) *ProgressStore {
	return NewProgressStore(slot, model.DefaultQuestConfig(), clock.Fixed(completedAt), zap.NewNop())
}

func TestLoadMissingRecordReturnsDefaults(t *testing.T) {
	store := newTestStore(NewMemorySlot())

	state := store.Load(context.Background())
	assert.Equal(t, model.ProgressState{}, state)
}

func TestLoadCorruptRecordReturnsDefaultsAndLogs(t *testing.T) {
	ctx := context.Background()
	core, logs := observer.New(zapcore.WarnLevel)
	slot := NewMemorySlot()
	require.NoError(t, slot.Set(ctx, ProgressKey, []byte("{not json")))

	store := NewProgressStore(slot, model.DefaultQuestConfig(), clock.Fixed(completedAt), zap.New(core))
	state := store.Load(ctx)

	assert.Equal(t, model.ProgressState{}, state)
	assert.Equal(t, 1, logs.Len())
}

func TestLoadWrongTypeDefaultsOnlyThatField(t *testing.T) {
	ctx := context.Background()
	core, logs := observer.New(zapcore.WarnLevel)
	slot := NewMemorySlot()
	require.NoError(t, slot.Set(ctx, ProgressKey, []byte(`{"xp":"lots","completed":2}`)))

	store := NewProgressStore(slot, model.DefaultQuestConfig(), clock.Fixed(completedAt), zap.New(core))
	state := store.Load(ctx)

	assert.Zero(t, state.XP)
	assert.Equal(t, 2, state.CompletedSessions)
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "xp", logs.All()[0].ContextMap()["field"])
}

func TestMalformedTimestampKeepsEarnedProgress(t *testing.T) {
	ctx := context.Background()
	slot := NewMemorySlot()
	require.NoError(t, slot.Set(ctx, ProgressKey,
		[]byte(`{"xp":450,"completed":9,"lastCompletedAt":"2026-03-01T09:00:00Z"}`)))
	store := newTestStore(slot)

	state := store.Load(ctx)
	assert.Equal(t, 450, state.XP)
	assert.Equal(t, 9, state.CompletedSessions)
	assert.Nil(t, state.LastCompletedAt)

	_, err := store.RecordSessionCompletion(ctx)
	require.NoError(t, err)
	raw, ok, err := slot.Get(ctx, ProgressKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `{"xp":500,"completed":10,"lastCompletedAt":1773480600000}`, string(raw))
}

func TestLoadNonObjectReturnsDefaults(t *testing.T) {
	ctx := context.Background()
	slot := NewMemorySlot()
	require.NoError(t, slot.Set(ctx, ProgressKey, []byte(`[450, 9]`)))

	state := newTestStore(slot).Load(ctx)
	assert.Equal(t, model.ProgressState{}, state)
}

func TestLoadMergesPartialRecord(t *testing.T) {
	ctx := context.Background()
	slot := NewMemorySlot()
	require.NoError(t, slot.Set(ctx, ProgressKey, []byte(`{"xp":250,"theme":"pink"}`)))

	state := newTestStore(slot).Load(ctx)
	assert.Equal(t, 250, state.XP)
	assert.Zero(t, state.CompletedSessions)
	assert.Nil(t, state.LastCompletedAt)
}

func TestLoadClampsNegativeCounters(t *testing.T) {
	ctx := context.Background()
	slot := NewMemorySlot()
	require.NoError(t, slot.Set(ctx, ProgressKey, []byte(`{"xp":-10,"completed":-1,"lastCompletedAt":null}`)))

	state := newTestStore(slot).Load(ctx)
	assert.Equal(t, model.ProgressState{}, state)
}

func TestRecordSessionCompletion(t *testing.T) {
	ctx := context.Background()
	slot := NewMemorySlot()
	store := newTestStore(slot)
	store.Load(ctx)

	state, err := store.RecordSessionCompletion(ctx)
	require.NoError(t, err)

	assert.Equal(t, 50, state.XP)
	assert.Equal(t, 1, state.CompletedSessions)
	require.NotNil(t, state.LastCompletedAt)
	assert.Equal(t, completedAt, *state.LastCompletedAt)
	assert.Equal(t, 1, progress.Level(state.XP, 200))
	assert.Len(t, progress.UnlockedBadges(state.CompletedSessions), 1)

	rawData, ok, err := slot.Get(ctx, ProgressKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `{"xp":50,"completed":1,"lastCompletedAt":1773480600000}`, string(rawData))
}

func TestSaveDropsUnknownFields(t *testing.T) {
	ctx := context.Background()
	slot := NewMemorySlot()
	require.NoError(t, slot.Set(ctx, ProgressKey, []byte(`{"xp":100,"completed":2,"lastCompletedAt":null,"extra":true}`)))
	store := newTestStore(slot)

	state := store.Load(ctx)
	require.NoError(t, store.Save(ctx, state))

	rawData, _, err := slot.Get(ctx, ProgressKey)
	require.NoError(t, err)
	assert.JSONEq(t, `{"xp":100,"completed":2,"lastCompletedAt":null}`, string(rawData))
}

func TestProgressSurvivesReload(t *testing.T) {
	ctx := context.Background()
	slot := NewFileSlot(t.TempDir())

	first := newTestStore(slot)
	first.Load(ctx)
	for i := 0; i < 3; i++ {
		_, err := first.RecordSessionCompletion(ctx)
		require.NoError(t, err)
	}

	second := newTestStore(slot)
	state := second.Load(ctx)
	assert.Equal(t, 150, state.XP)
	assert.Equal(t, 3, state.CompletedSessions)
	require.NotNil(t, state.LastCompletedAt)
	assert.True(t, completedAt.Equal(*state.LastCompletedAt))
}

type failingSlot struct {
	*MemorySlot
}

func (slot *failingSlot) Set(context.Context, string, []byte) error {
	return errors.New("disk full")
}

func TestRecordKeepsStateWhenWriteFails(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(&failingSlot{MemorySlot: NewMemorySlot()})

	state, err := store.RecordSessionCompletion(ctx)
	assert.Error(t, err)
	assert.Equal(t, 1, state.CompletedSessions)
	assert.Equal(t, 1, store.Snapshot().CompletedSessions)
}
