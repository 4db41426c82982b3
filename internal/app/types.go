package app

import (
	"skillarcade/internal/devtools"
	"skillarcade/internal/levels"
	"skillarcade/internal/progress"
	"skillarcade/internal/session"
)

// GameReport is the progress view of one game across its tiers.
type GameReport struct {
	Variant levels.Variant
	Overall float64
	Tiers   []progress.TierSummary
}

// SimulationResult pairs a session result with what the autopilot did.
type SimulationResult struct {
	Session session.Result
	Pilot   devtools.Report
}
