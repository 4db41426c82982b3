// Package ui renders progress, statistics and session results for the
// command line.
package ui

import (
	"fmt"
	"strings"
	"time"

	"skillarcade/internal/levels"
	"skillarcade/internal/progress"
	"skillarcade/internal/session"

	"charm.land/lipgloss/v2"
)

// Level markers used in the progress track.
const (
	markDone     = "●"
	markUnlocked = "○"
	markLocked   = "·"
)

// RenderProgress draws one panel per tier with a level track.
func RenderProgress(th Theme, game levels.Variant, overall float64, tiers []progress.TierSummary) string {
	header := th.Header.Render(fmt.Sprintf("%s  %3.0f%%", game.Title(), overall*100))
	blocks := []string{header}
	for _, sum := range tiers {
		var track strings.Builder
		for i := range sum.Completed {
			switch {
			case sum.Completed[i]:
				track.WriteString(th.Pass.Render(markDone))
			case sum.Unlocked[i]:
				track.WriteString(th.Pending.Render(markUnlocked))
			default:
				track.WriteString(th.Muted.Render(markLocked))
			}
		}
		body := lipgloss.JoinVertical(lipgloss.Left,
			th.Title.Render(sum.Tier.ID()),
			track.String(),
			th.Muted.Render(fmt.Sprintf("%d/%d cleared  %d %s  %s played",
				sum.Game.LevelsCompletedCount, sum.Tier.LevelCount(),
				sum.Game.TotalRewards, game.RewardUnit(),
				formatDuration(sum.Game.TotalPlayTime))),
		)
		blocks = append(blocks, th.Panel.Render(body))
	}
	return lipgloss.JoinVertical(lipgloss.Left, blocks...)
}

func RenderStats(th Theme, stats progress.OverallStatistics) string {
	rows := []string{
		th.Title.Render("Overall"),
		fmt.Sprintf("games completed   %s", th.Accent.Render(fmt.Sprint(stats.GamesCompletedCount))),
		fmt.Sprintf("levels cleared    %s", th.Accent.Render(fmt.Sprint(stats.LevelsClearedCount))),
		fmt.Sprintf("rewards collected %s", th.Accent.Render(fmt.Sprint(stats.RewardsCollectedCount))),
		fmt.Sprintf("time played       %s", th.Accent.Render(formatDuration(stats.TotalPlayTime))),
	}
	return th.Panel.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

// RenderResult summarises a finished session.
func RenderResult(th Theme, res session.Result) string {
	cfg := res.Config
	var verdict string
	switch {
	case res.Completed:
		verdict = th.Pass.Render("cleared")
	case res.Exited:
		verdict = th.Pending.Render("abandoned")
	default:
		verdict = th.Fail.Render("failed")
	}
	rows := []string{
		th.Title.Render(fmt.Sprintf("%s %s %d", cfg.Variant.Title(), cfg.Tier.ID(), cfg.Level)),
		fmt.Sprintf("%s  %d/%d rounds", verdict, res.Outcome.RoundsCleared, res.Outcome.Rounds),
		fmt.Sprintf("score %d", res.Score),
	}
	if res.Reward > 0 {
		rows = append(rows, th.Accent.Render(fmt.Sprintf("+%d %s", res.Reward, cfg.Variant.RewardUnit())))
	}
	rows = append(rows, th.Muted.Render(formatDuration(res.Elapsed)))
	return th.Panel.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return d.Truncate(100 * time.Millisecond).String()
	}
	return d.Truncate(time.Second).String()
}
