package app

import (
	"context"

	"skillarcade/internal/devtools"
	"skillarcade/internal/levels"
	"skillarcade/internal/progress"
	"skillarcade/internal/session"
)

// Progress is the store surface the application exposes to its commands.
type Progress interface {
	session.Recorder
	ResetAll(ctx context.Context) error
	Statistics(ctx context.Context) progress.OverallStatistics
	Summary(ctx context.Context, game levels.Variant) []progress.TierSummary
	GetOverallProgress(ctx context.Context, game levels.Variant) float64
}

var _ Progress = (*progress.Store)(nil)

var _ devtools.Driver = (*session.Controller)(nil)
