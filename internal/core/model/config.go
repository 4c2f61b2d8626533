package model

import "time"

// Mode identifies one of the three countdown presets.
type Mode string

const (
	ModeFocus      Mode = "pomodoro"
	ModeShortBreak Mode = "short"
	ModeLongBreak  Mode = "long"
)

// Modes lists the presets in display order.
var Modes = []Mode{ModeFocus, ModeShortBreak, ModeLongBreak}

// Valid reports whether mode is one of the known presets.
func (mode Mode) Valid() bool {
	switch mode {
	case ModeFocus, ModeShortBreak, ModeLongBreak:
		return true
	}
	return false
}

// Label returns the human readable name of the mode.
func (mode Mode) Label() string {
	switch mode {
	case ModeFocus:
		return "Focus"
	case ModeShortBreak:
		return "Short break"
	case ModeLongBreak:
		return "Long break"
	default:
		return string(mode)
	}
}

// QuestConfig contains the fixed timer presets and XP rates.
type QuestConfig struct {
	Focus      time.Duration
	ShortBreak time.Duration
	LongBreak  time.Duration

	XPPerSession int
	XPPerLevel   int
}

// DefaultQuestConfig returns the compiled-in presets.
func DefaultQuestConfig() QuestConfig {
	return QuestConfig{
		Focus:        25 * time.Minute,
		ShortBreak:   5 * time.Minute,
		LongBreak:    15 * time.Minute,
		XPPerSession: 50,
		XPPerLevel:   200,
	}
}

// Duration returns the configured countdown length of mode.
func (config QuestConfig) Duration(mode Mode) time.Duration {
	switch mode {
	case ModeShortBreak:
		return config.ShortBreak
	case ModeLongBreak:
		return config.LongBreak
	default:
		return config.Focus
	}
}

// Seconds returns the configured countdown length of mode in whole seconds.
func (config QuestConfig) Seconds(mode Mode) int {
	return int(config.Duration(mode) / time.Second)
}
