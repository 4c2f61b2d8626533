// Package view maps progress and timer state onto display regions.
package view

import (
	"fmt"
	"strconv"

	"focusquest/internal/core/model"
	"focusquest/internal/core/progress"
	"focusquest/internal/core/timekeeper"
)

// Page selects the text style of a group of regions.
type Page int

const (
	PageTimer Page = iota
	PageAchievements
	PageHome
)

// Snapshot is the state a render reads from.
type Snapshot struct {
	Progress model.ProgressState
	Timer    timekeeper.State
	Config   model.QuestConfig
}

// BadgeTile describes one catalog entry in the badge grid.
type BadgeTile struct {
	ID       string
	Icon     string
	Name     string
	Caption  string
	Unlocked bool
}

// Display holds everything a page shows.
type Display struct {
	Time            string
	Mode            model.Mode
	Running         bool
	XP              string
	Level           string
	ProgressPercent float64
	Sessions        string
	Badges          []BadgeTile
}

// Render builds the display for page from snapshot. It has no side effects.
func Render(snapshot Snapshot, page Page) Display {
	xp := snapshot.Progress.XP
	completed := snapshot.Progress.CompletedSessions
	level := progress.Level(xp, snapshot.Config.XPPerLevel)

	display := Display{
		Time:            FormatClock(snapshot.Timer.RemainingSeconds),
		Mode:            snapshot.Timer.Mode,
		Running:         snapshot.Timer.Running,
		ProgressPercent: progress.ProgressPercent(xp, snapshot.Config.XPPerLevel),
	}

	switch page {
	case PageAchievements:
		display.XP = fmt.Sprintf("XP: %d", xp)
		display.Level = fmt.Sprintf("Level %d", level)
		display.Sessions = strconv.Itoa(completed)
	case PageHome:
		display.XP = fmt.Sprintf("XP: %d", xp)
		display.Level = fmt.Sprintf("Lvl: %d", level)
		display.Sessions = fmt.Sprintf("Pomos: %d", completed)
	default:
		display.XP = fmt.Sprintf("%d XP", xp)
		display.Level = fmt.Sprintf("Lvl %d", level)
		display.Sessions = strconv.Itoa(completed)
	}

	display.Badges = make([]BadgeTile, 0, len(progress.Badges))
	for _, badge := range progress.Badges {
		unlocked := badge.Unlocked(completed)
		display.Badges = append(display.Badges, BadgeTile{
			ID:       badge.ID,
			Icon:     badge.Icon,
			Name:     badge.Name,
			Caption:  badgeCaption(page, badge, unlocked),
			Unlocked: unlocked,
		})
	}
	return display
}

// FormatClock renders seconds as MM:SS.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

func badgeCaption(page Page, badge progress.Badge, unlocked bool) string {
	if unlocked {
		return "Unlocked"
	}
	if page == PageTimer {
		return fmt.Sprintf("Requires %d", badge.Threshold)
	}
	return "Locked"
}
