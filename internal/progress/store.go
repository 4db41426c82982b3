package progress

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"skillarcade/internal/levels"
	"skillarcade/internal/state"
	"skillarcade/internal/telemetry"
)

var ErrUnknownLevel = errors.New("unknown level")

// Store owns completion state and unlock gating. Reads fall back to default
// records on any storage or decode failure; writes report their error.
type Store struct {
	mu      sync.RWMutex
	backend state.Backend
	logger  *telemetry.Logger
}

func NewStore(backend state.Backend, logger *telemetry.Logger) *Store {
	return &Store{backend: backend, logger: logger}
}

func validLevel(game levels.Variant, diff levels.Tier, level int) bool {
	return game.Valid() && diff.Valid() && level >= 1 && level <= diff.LevelCount()
}

// GetLevelProgress returns the record for a level, persisting a default one
// on first read.
func (s *Store) GetLevelProgress(ctx context.Context, game levels.Variant, diff levels.Tier, level int) LevelProgress {
	if !validLevel(game, diff, level) {
		return defaultLevelProgress()
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	key := levels.LevelKey(game, diff, level)
	out := defaultLevelProgress()
	err := s.backend.Update(ctx, func(tx state.Tx) error {
		var found bool
		out, found = s.readLevel(tx, key)
		if found {
			return nil
		}
		return s.put(tx, state.LevelProgressBucket, key, out)
	})
	if err != nil {
		s.logger.Error("progress.level_read_failed", map[string]any{"key": key, "error": err.Error()})
	}
	return out
}

// GetGameProgress returns the record for a (game, tier) pair, persisting a
// default one on first read.
func (s *Store) GetGameProgress(ctx context.Context, game levels.Variant, diff levels.Tier) GameProgress {
	if !game.Valid() || !diff.Valid() {
		return defaultGameProgress()
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	key := levels.GameKey(game, diff)
	out := defaultGameProgress()
	err := s.backend.Update(ctx, func(tx state.Tx) error {
		var found bool
		out, found = s.readGame(tx, key)
		if found {
			return nil
		}
		return s.put(tx, state.GameProgressBucket, key, out)
	})
	if err != nil {
		s.logger.Error("progress.game_read_failed", map[string]any{"key": key, "error": err.Error()})
	}
	return out
}

// IsLevelUnlocked reports whether level 1 or the previous level is completed.
func (s *Store) IsLevelUnlocked(ctx context.Context, game levels.Variant, diff levels.Tier, level int) bool {
	if !validLevel(game, diff, level) {
		return false
	}
	if level == 1 {
		return true
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	prev := defaultLevelProgress()
	s.view(ctx, func(tx state.Tx) error {
		prev, _ = s.readLevel(tx, levels.LevelKey(game, diff, level-1))
		return nil
	})
	return prev.Completed
}

// CompleteLevel records a successful level run. Completion flags are
// idempotent; rewards and attempts are additive. All three aggregates are
// written in one transaction.
func (s *Store) CompleteLevel(ctx context.Context, game levels.Variant, diff levels.Tier, level, score, reward int) error {
	if !validLevel(game, diff, level) {
		return fmt.Errorf("%w: %s_%s_%d", ErrUnknownLevel, game.ID(), diff.ID(), level)
	}
	score = max(0, score)
	reward = max(0, reward)

	s.mu.Lock()
	defer s.mu.Unlock()

	levelKey := levels.LevelKey(game, diff, level)
	gameKey := levels.GameKey(game, diff)
	var gameCompleted bool
	err := s.backend.Update(ctx, func(tx state.Tx) error {
		allBefore := s.allCompleted(tx, game, diff)

		rec, _ := s.readLevel(tx, levelKey)
		wasAlreadyCompleted := rec.Completed
		rec.Completed = true
		rec.AttemptCount++
		rec.BestScore = max(rec.BestScore, score)
		if err := s.put(tx, state.LevelProgressBucket, levelKey, rec); err != nil {
			return err
		}

		gp, _ := s.readGame(tx, gameKey)
		gp.TotalRewards += reward
		if !wasAlreadyCompleted {
			gp.LevelsCompletedCount = min(gp.LevelsCompletedCount+1, diff.LevelCount())
		}
		if level >= gp.CurrentUnlockedLevel && level < diff.LevelCount() {
			gp.CurrentUnlockedLevel = level + 1
		}
		if err := s.put(tx, state.GameProgressBucket, gameKey, gp); err != nil {
			return err
		}

		stats := s.readOverall(tx)
		stats.RewardsCollectedCount += reward
		if !wasAlreadyCompleted {
			stats.LevelsClearedCount++
		}
		if !allBefore && s.allCompleted(tx, game, diff) {
			stats.GamesCompletedCount++
			gameCompleted = true
		}
		return s.put(tx, state.OverallStatsBucket, overallKey, stats)
	})
	if err != nil {
		s.logger.Error("progress.complete_failed", map[string]any{"key": levelKey, "error": err.Error()})
		return fmt.Errorf("complete level %s: %w", levelKey, err)
	}
	s.logger.Info("progress.level_completed", map[string]any{
		"key":            levelKey,
		"score":          score,
		"reward":         reward,
		"game_completed": gameCompleted,
	})
	return nil
}

// AddPlayTime adds d to the per-game and overall play time totals.
func (s *Store) AddPlayTime(ctx context.Context, game levels.Variant, diff levels.Tier, d time.Duration) error {
	if d <= 0 || !game.Valid() || !diff.Valid() {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	gameKey := levels.GameKey(game, diff)
	err := s.backend.Update(ctx, func(tx state.Tx) error {
		gp, _ := s.readGame(tx, gameKey)
		gp.TotalPlayTime += d
		if err := s.put(tx, state.GameProgressBucket, gameKey, gp); err != nil {
			return err
		}
		stats := s.readOverall(tx)
		stats.TotalPlayTime += d
		return s.put(tx, state.OverallStatsBucket, overallKey, stats)
	})
	if err != nil {
		s.logger.Error("progress.play_time_failed", map[string]any{"key": gameKey, "error": err.Error()})
		return fmt.Errorf("add play time %s: %w", gameKey, err)
	}
	return nil
}

// ResetAll clears every record in a single transaction.
func (s *Store) ResetAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.backend.Update(ctx, func(tx state.Tx) error {
		for _, b := range state.Buckets {
			if err := tx.Clear(b); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Error("progress.reset_failed", map[string]any{"error": err.Error()})
		return fmt.Errorf("reset progress: %w", err)
	}
	s.logger.Info("progress.reset", nil)
	return nil
}

// GetOverallProgress returns completed levels over total levels for a game,
// across every tier.
func (s *Store) GetOverallProgress(ctx context.Context, game levels.Variant) float64 {
	if !game.Valid() {
		return 0
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	completed := 0
	s.view(ctx, func(tx state.Tx) error {
		for _, t := range levels.Tiers {
			completed += s.countCompleted(tx, game, t)
		}
		return nil
	})
	total := levels.TotalLevels()
	if total == 0 {
		return 0
	}
	return min(1, float64(completed)/float64(total))
}

// Statistics returns the overall statistics singleton.
func (s *Store) Statistics(ctx context.Context) OverallStatistics {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out OverallStatistics
	s.view(ctx, func(tx state.Tx) error {
		out = s.readOverall(tx)
		return nil
	})
	return out
}

// Summary returns unlock and completion state for every tier of a game.
func (s *Store) Summary(ctx context.Context, game levels.Variant) []TierSummary {
	if !game.Valid() {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]TierSummary, 0, len(levels.Tiers))
	s.view(ctx, func(tx state.Tx) error {
		for _, t := range levels.Tiers {
			sum := TierSummary{
				Tier:      t,
				Unlocked:  make([]bool, t.LevelCount()),
				Completed: make([]bool, t.LevelCount()),
			}
			sum.Game, _ = s.readGame(tx, levels.GameKey(game, t))
			for i := range t.LevelCount() {
				rec, _ := s.readLevel(tx, levels.LevelKey(game, t, i+1))
				sum.Completed[i] = rec.Completed
				sum.Unlocked[i] = i == 0 || sum.Completed[i-1]
			}
			out = append(out, sum)
		}
		return nil
	})
	return out
}

func (s *Store) view(ctx context.Context, fn func(state.Tx) error) {
	if err := s.backend.View(ctx, fn); err != nil {
		s.logger.Error("progress.view_failed", map[string]any{"error": err.Error()})
	}
}

func (s *Store) allCompleted(tx state.Tx, game levels.Variant, diff levels.Tier) bool {
	return s.countCompleted(tx, game, diff) == diff.LevelCount()
}

func (s *Store) countCompleted(tx state.Tx, game levels.Variant, diff levels.Tier) int {
	n := 0
	for l := 1; l <= diff.LevelCount(); l++ {
		if rec, _ := s.readLevel(tx, levels.LevelKey(game, diff, l)); rec.Completed {
			n++
		}
	}
	return n
}

func (s *Store) readLevel(tx state.Tx, key string) (LevelProgress, bool) {
	out := defaultLevelProgress()
	found := s.read(tx, state.LevelProgressBucket, key, &out)
	if !found {
		out = defaultLevelProgress()
	}
	out.BestScore = max(0, out.BestScore)
	out.AttemptCount = max(0, out.AttemptCount)
	return out, found
}

func (s *Store) readGame(tx state.Tx, key string) (GameProgress, bool) {
	out := defaultGameProgress()
	found := s.read(tx, state.GameProgressBucket, key, &out)
	if !found {
		out = defaultGameProgress()
	}
	out.CurrentUnlockedLevel = max(1, out.CurrentUnlockedLevel)
	return out, found
}

func (s *Store) readOverall(tx state.Tx) OverallStatistics {
	var out OverallStatistics
	if !s.read(tx, state.OverallStatsBucket, overallKey, &out) {
		out = OverallStatistics{}
	}
	return out
}

// read decodes a payload into v. A missing, unreadable or corrupt payload
// reports false and counts as no prior data.
func (s *Store) read(tx state.Tx, bucket state.Bucket, key string, v any) bool {
	payload, err := tx.Get(bucket, key)
	if err != nil {
		s.logger.Error("progress.read_failed", map[string]any{"bucket": string(bucket), "key": key, "error": err.Error()})
		return false
	}
	if payload == nil {
		return false
	}
	if err := json.Unmarshal(payload, v); err != nil {
		s.logger.Error("progress.decode_failed", map[string]any{"bucket": string(bucket), "key": key, "error": err.Error()})
		return false
	}
	return true
}

func (s *Store) put(tx state.Tx, bucket state.Bucket, key string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s/%s: %w", bucket, key, err)
	}
	return tx.Put(bucket, key, payload)
}
