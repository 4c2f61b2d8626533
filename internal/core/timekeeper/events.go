package timekeeper

import (
	"time"

	"focusquest/internal/core/model"
)

// EventType defines the type of TimeKeeper event.
type EventType string

const (
	EventStateChange EventType = "state_change"
	EventProgress    EventType = "progress"
	EventCompleted   EventType = "completed"
)

// Event represents a TimeKeeper update for observers.
type Event struct {
	Type      EventType
	Mode      model.Mode
	Remaining time.Duration
	Running   bool
	Progress  float64
	At        time.Time
}

// State is a point-in-time copy of the countdown.
type State struct {
	Mode             model.Mode
	RemainingSeconds int
	Running          bool
}

// Remaining returns the remaining time as a duration.
func (state State) Remaining() time.Duration {
	return time.Duration(state.RemainingSeconds) * time.Second
}
