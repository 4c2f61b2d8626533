package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sync"
	"time"

	"focusquest/internal/core/model"
	"focusquest/internal/platform/clock"

	"go.uber.org/zap"
)

// ProgressKey is the slot key holding the progress record.
const ProgressKey = "focusquest_state_v1"

type progressOutput struct {
	XP              int    `json:"xp"`
	Completed       int    `json:"completed"`
	LastCompletedAt *int64 `json:"lastCompletedAt"`
}

// ProgressStore owns the ProgressState and persists it after every change.
type ProgressStore struct {
	mu     sync.Mutex
	slot   Slot
	config model.QuestConfig
	clock  clock.Clock
	logger *zap.Logger
	state  model.ProgressState
}

// NewProgressStore creates a store with default state; call Load to read the slot.
func NewProgressStore(slot Slot, config model.QuestConfig, clk clock.Clock, logger *zap.Logger) *ProgressStore {
	if clk == nil {
		clk = clock.SystemClock{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProgressStore{
		slot:   slot,
		config: config,
		clock:  clk,
		logger: logger,
	}
}

// Load reads the persisted record. Missing or corrupt data yields the
// default state; the failure is logged and never returned.
func (store *ProgressStore) Load(ctx context.Context) model.ProgressState {
	state := store.read(ctx)

	store.mu.Lock()
	store.state = state
	store.mu.Unlock()
	return state.Clone()
}

// Save replaces the current state and overwrites the slot.
func (store *ProgressStore) Save(ctx context.Context, state model.ProgressState) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.state = state.Clone()
	return store.writeLocked(ctx)
}

// RecordSessionCompletion credits one completed focus session and persists it.
// The in-memory state advances even if the write fails.
func (store *ProgressStore) RecordSessionCompletion(ctx context.Context) (model.ProgressState, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	now := store.clock.Now()
	store.state.CompletedSessions++
	store.state.LastCompletedAt = &now
	store.state.XP += store.config.XPPerSession

	err := store.writeLocked(ctx)
	return store.state.Clone(), err
}

// Snapshot returns a copy of the current state.
func (store *ProgressStore) Snapshot() model.ProgressState {
	store.mu.Lock()
	defer store.mu.Unlock()
	return store.state.Clone()
}

func (store *ProgressStore) read(ctx context.Context) model.ProgressState {
	rawData, ok, err := store.slot.Get(ctx, ProgressKey)
	if err != nil {
		store.logger.Warn("load progress failed, using defaults", zap.Error(err))
		return model.ProgressState{}
	}
	if !ok || len(rawData) == 0 {
		return model.ProgressState{}
	}

	state, skipped, err := decodeProgress(rawData)
	if err != nil {
		store.logger.Warn("progress record is corrupt, using defaults",
			zap.String("key", ProgressKey),
			zap.Error(err))
		return model.ProgressState{}
	}
	for _, field := range skipped {
		store.logger.Warn("progress field is malformed, using default",
			zap.String("key", ProgressKey),
			zap.String("field", field))
	}
	return state
}

func (store *ProgressStore) writeLocked(ctx context.Context) error {
	serialized, err := encodeProgress(store.state)
	if err != nil {
		return err
	}
	if err := store.slot.Set(ctx, ProgressKey, serialized); err != nil {
		return fmt.Errorf("save progress: %w", err)
	}
	return nil
}

// decodeProgress merges the stored fields over the default state one by one.
// A malformed field keeps its default and is reported in skipped; only a
// blob that is not a JSON object fails as a whole.
func decodeProgress(rawData []byte) (model.ProgressState, []string, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(rawData, &fields); err != nil {
		return model.ProgressState{}, nil, fmt.Errorf("parse progress json: %w", err)
	}

	var state model.ProgressState
	var skipped []string
	if raw, ok := fields["xp"]; ok {
		if xp, ok := decodeCount(raw); ok {
			state.XP = xp
		} else {
			skipped = append(skipped, "xp")
		}
	}
	if raw, ok := fields["completed"]; ok {
		if completed, ok := decodeCount(raw); ok {
			state.CompletedSessions = completed
		} else {
			skipped = append(skipped, "completed")
		}
	}
	if raw, ok := fields["lastCompletedAt"]; ok && !isJSONNull(raw) {
		var millis float64
		if err := json.Unmarshal(raw, &millis); err == nil {
			at := time.UnixMilli(int64(millis)).UTC()
			state.LastCompletedAt = &at
		} else {
			skipped = append(skipped, "lastCompletedAt")
		}
	}
	return state, skipped, nil
}

// decodeCount reads a non-negative counter. Null counts as zero, negative
// values clamp to zero and fractions are truncated.
func decodeCount(raw json.RawMessage) (int, bool) {
	if isJSONNull(raw) {
		return 0, true
	}
	var value float64
	if err := json.Unmarshal(raw, &value); err != nil {
		return 0, false
	}
	if value <= 0 {
		return 0, true
	}
	if value > math.MaxInt32 {
		return 0, false
	}
	return int(value), true
}

func isJSONNull(raw json.RawMessage) bool {
	return string(bytes.TrimSpace(raw)) == "null"
}

func encodeProgress(state model.ProgressState) ([]byte, error) {
	output := progressOutput{
		XP:        state.XP,
		Completed: state.CompletedSessions,
	}
	if state.LastCompletedAt != nil {
		millis := state.LastCompletedAt.UnixMilli()
		output.LastCompletedAt = &millis
	}
	serialized, err := json.Marshal(output)
	if err != nil {
		return nil, fmt.Errorf("marshal progress json: %w", err)
	}
	return serialized, nil
}
