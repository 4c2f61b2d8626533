package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"focusquest/internal/core/model"
	"focusquest/internal/core/progress"
	"focusquest/internal/storage"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#f06b8a"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6a4f72"))
	lockedStyle = lipgloss.NewStyle().Faint(true)
	cardStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#f5a9c0")).Padding(0, 1)
)

const barWidth = 20

type statsOutput struct {
	XP              int        `json:"xp"`
	Level           int        `json:"level"`
	XPIntoLevel     int        `json:"xpIntoLevel"`
	ProgressPercent float64    `json:"progressPercent"`
	Completed       int        `json:"completed"`
	LastCompletedAt *time.Time `json:"lastCompletedAt"`
	Badges          []string   `json:"badges"`
}

func newStatsCmd(opts *options) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show XP, level and completed sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			state, err := readProgress(cmd.Context(), opts)
			if err != nil {
				return err
			}
			if asJSON {
				return writeStatsJSON(cmd.OutOrStdout(), state)
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), renderStats(state, model.DefaultQuestConfig()))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print machine readable JSON")
	return cmd
}

func newBadgesCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "badges",
		Short: "List badges and their unlock requirements",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			state, err := readProgress(cmd.Context(), opts)
			if err != nil {
				return err
			}
			for _, badge := range progress.Badges {
				line := fmt.Sprintf("%s %-16s requires %2d", badge.Icon, badge.Name, badge.Threshold)
				if badge.Unlocked(state.CompletedSessions) {
					line = titleStyle.Render(line + "  unlocked")
				} else {
					line = lockedStyle.Render(line + "  locked")
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			return nil
		},
	}
}

func readProgress(ctx context.Context, opts *options) (model.ProgressState, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	settings, _, err := loadSettings(opts)
	if err != nil {
		return model.ProgressState{}, err
	}
	logger, err := newLogger(settings.LogLevel, opts.verbose)
	if err != nil {
		return model.ProgressState{}, err
	}
	defer func() { _ = logger.Sync() }()

	store, slot, err := openProgress(ctx, settings, storage.OpenReadOnlySlot, logger)
	if err != nil {
		return model.ProgressState{}, err
	}
	defer func() {
		if err := slot.Close(); err != nil {
			logger.Warn("close progress storage", zap.Error(err))
		}
	}()
	return store.Snapshot(), nil
}

func renderStats(state model.ProgressState, config model.QuestConfig) string {
	level := progress.Level(state.XP, config.XPPerLevel)
	into := progress.XPIntoLevel(state.XP, config.XPPerLevel)
	percent := progress.ProgressPercent(state.XP, config.XPPerLevel)

	filled := int(percent / 100 * barWidth)
	bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)

	lines := []string{
		titleStyle.Render("FocusQuest"),
		fmt.Sprintf("%s %d   %s %d", labelStyle.Render("Level"), level, labelStyle.Render("XP"), state.XP),
		fmt.Sprintf("%s %d/%d", bar, into, config.XPPerLevel),
		fmt.Sprintf("%s %d", labelStyle.Render("Pomodoros"), state.CompletedSessions),
	}
	if state.LastCompletedAt != nil {
		lines = append(lines, fmt.Sprintf("%s %s", labelStyle.Render("Last session"),
			state.LastCompletedAt.Local().Format("2006-01-02 15:04")))
	}

	var icons []string
	for _, badge := range progress.UnlockedBadges(state.CompletedSessions) {
		icons = append(icons, badge.Icon)
	}
	if len(icons) > 0 {
		lines = append(lines, strings.Join(icons, " "))
	}
	if next, ok := progress.NextBadge(state.CompletedSessions); ok {
		lines = append(lines, lockedStyle.Render(fmt.Sprintf("next: %s %s in %d sessions",
			next.Icon, next.Name, next.Threshold-state.CompletedSessions)))
	}
	return cardStyle.Render(strings.Join(lines, "\n"))
}

func writeStatsJSON(out io.Writer, state model.ProgressState) error {
	config := model.DefaultQuestConfig()
	output := statsOutput{
		XP:              state.XP,
		Level:           progress.Level(state.XP, config.XPPerLevel),
		XPIntoLevel:     progress.XPIntoLevel(state.XP, config.XPPerLevel),
		ProgressPercent: progress.ProgressPercent(state.XP, config.XPPerLevel),
		Completed:       state.CompletedSessions,
		LastCompletedAt: state.LastCompletedAt,
		Badges:          []string{},
	}
	for _, badge := range progress.UnlockedBadges(state.CompletedSessions) {
		output.Badges = append(output.Badges, badge.ID)
	}

	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}
