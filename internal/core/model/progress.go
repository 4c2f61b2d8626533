package model

import "time"

// ProgressState is the persisted record of a user's achievements.
type ProgressState struct {
	XP                int
	CompletedSessions int
	LastCompletedAt   *time.Time
}

// Clone returns a copy that shares no pointers with state.
func (state ProgressState) Clone() ProgressState {
	if state.LastCompletedAt != nil {
		at := *state.LastCompletedAt
		state.LastCompletedAt = &at
	}
	return state
}
