package session

import (
	"context"
	"time"

	"skillarcade/internal/levels"
)

// Recorder is the slice of the progress store a session needs.
type Recorder interface {
	IsLevelUnlocked(ctx context.Context, game levels.Variant, diff levels.Tier, level int) bool
	CompleteLevel(ctx context.Context, game levels.Variant, diff levels.Tier, level, score, reward int) error
	AddPlayTime(ctx context.Context, game levels.Variant, diff levels.Tier, d time.Duration) error
}

// Clock returns the current time. Elapsed play time is measured with
// time.Since semantics, so readings should carry a monotonic component.
type Clock func() time.Time
