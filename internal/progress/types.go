package progress

import (
	"time"

	"skillarcade/internal/levels"
)

// LevelProgress is the persisted state of one (game, tier, level).
type LevelProgress struct {
	Completed    bool `json:"completed"`
	BestScore    int  `json:"best_score"`
	AttemptCount int  `json:"attempt_count"`
}

// GameProgress is the persisted state of one (game, tier) pair.
type GameProgress struct {
	CurrentUnlockedLevel int           `json:"current_unlocked_level"`
	TotalRewards         int           `json:"total_rewards"`
	LevelsCompletedCount int           `json:"levels_completed_count"`
	TotalPlayTime        time.Duration `json:"total_play_time_ns"`
}

// OverallStatistics aggregates every game and tier.
type OverallStatistics struct {
	GamesCompletedCount   int           `json:"games_completed_count"`
	LevelsClearedCount    int           `json:"levels_cleared_count"`
	TotalPlayTime         time.Duration `json:"total_play_time_ns"`
	RewardsCollectedCount int           `json:"rewards_collected_count"`
}

// TierSummary is a read-only view of one tier used by progress screens.
type TierSummary struct {
	Tier      levels.Tier
	Game      GameProgress
	Unlocked  []bool
	Completed []bool
}

func defaultLevelProgress() LevelProgress { return LevelProgress{} }

func defaultGameProgress() GameProgress { return GameProgress{CurrentUnlockedLevel: 1} }

const overallKey = "overall"
