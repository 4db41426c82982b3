package round

import (
	"errors"
	"fmt"

	"skillarcade/internal/challenge"
	"skillarcade/internal/levels"
	"skillarcade/internal/schedule"
)

var ErrNoScheduler = errors.New("round engine requires a scheduler")

type Deps struct {
	Scheduler schedule.Scheduler
	// Generator defaults to a crypto-seeded random generator.
	Generator challenge.Generator
	Handlers  Handlers
}

// New builds the engine for cfg.Variant in the Ready state.
func New(cfg levels.Config, deps Deps) (Engine, error) {
	if deps.Scheduler == nil {
		return nil, ErrNoScheduler
	}
	if deps.Generator == nil {
		seed, err := challenge.NewSeed()
		if err != nil {
			return nil, err
		}
		deps.Generator = challenge.NewSeeded(seed)
	}
	switch cfg.Variant {
	case levels.Timing:
		return newTiming(cfg, deps), nil
	case levels.PatternMemory:
		return newPattern(cfg, deps), nil
	case levels.GridRouting:
		return newGrid(cfg, deps), nil
	}
	return nil, fmt.Errorf("%w %d", levels.ErrUnknownVariant, int(cfg.Variant))
}
