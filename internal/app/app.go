package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"skillarcade/internal/challenge"
	"skillarcade/internal/devtools"
	"skillarcade/internal/levels"
	"skillarcade/internal/progress"
	"skillarcade/internal/round"
	"skillarcade/internal/schedule"
	"skillarcade/internal/session"
	"skillarcade/internal/state"
	"skillarcade/internal/telemetry"
	"skillarcade/internal/ui"

	"github.com/google/uuid"
)

type App struct {
	cfg Config

	logger  *telemetry.Logger
	backend state.Backend
	store   *progress.Store
	loader  *levels.FSLoader
	tuning  levels.Tuning

	runID string
}

func New(ctx context.Context, cfg Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, err
	}

	logger, err := telemetry.NewJSONLogger(cfg.LogPath, cfg.Debug)
	if err != nil {
		return nil, err
	}

	loader := levels.NewLoader()
	tuning, err := loader.LoadTuning(ctx, cfg.TuningPath)
	if err != nil {
		_ = logger.Close()
		return nil, err
	}

	backend, err := openBackend(ctx, Backend(cfg.Backend), filepath.Join(cfg.DataDir, Backend(cfg.Backend).fileName()))
	if err != nil {
		_ = logger.Close()
		return nil, err
	}

	a := &App{
		cfg:     cfg,
		logger:  logger,
		backend: backend,
		store:   progress.NewStore(backend, logger),
		loader:  loader,
		tuning:  tuning,
		runID:   uuid.NewString(),
	}
	a.logger.Info("app.start", map[string]any{"run": a.runID, "backend": cfg.Backend, "data_dir": cfg.DataDir})
	return a, nil
}

func openBackend(ctx context.Context, kind Backend, path string) (state.Backend, error) {
	switch kind {
	case BackendBolt:
		return state.OpenBolt(path)
	default:
		store, err := state.NewSQLite(path)
		if err != nil {
			return nil, err
		}
		if err := store.EnsureSchema(ctx); err != nil {
			_ = store.Close()
			return nil, err
		}
		return store, nil
	}
}

func (a *App) Close() error {
	a.logger.Info("app.stop", map[string]any{"run": a.runID})
	err := a.backend.Close()
	if cerr := a.logger.Close(); err == nil {
		err = cerr
	}
	return err
}

func (a *App) Config() Config { return a.cfg }

func (a *App) Progress() Progress { return a.store }

func (a *App) Tuning() levels.Tuning { return a.tuning }

// LevelConfig resolves a game, tier and level from their CLI spelling.
func (a *App) LevelConfig(game, tier string, level int) (levels.Config, error) {
	v, err := levels.ParseVariant(game)
	if err != nil {
		return levels.Config{}, err
	}
	t, err := levels.ParseTier(tier)
	if err != nil {
		return levels.Config{}, err
	}
	return levels.NewConfig(v, t, level, a.tuning)
}

func (a *App) generator() (challenge.Generator, error) {
	if a.cfg.Seed != 0 {
		return challenge.NewSeeded(a.cfg.Seed), nil
	}
	seed, err := challenge.NewSeed()
	if err != nil {
		return nil, err
	}
	return challenge.NewSeeded(seed), nil
}

// NewSession opens a session on sched. onRound may be nil.
func (a *App) NewSession(ctx context.Context, cfg levels.Config, sched schedule.Scheduler, onRound func(round.RoundResult)) (*session.Controller, error) {
	gen, err := a.generator()
	if err != nil {
		return nil, err
	}
	return session.New(ctx, session.Options{
		Config:    cfg,
		Recorder:  a.store,
		Scheduler: sched,
		Generator: gen,
		Logger:    a.logger,
		OnRound:   onRound,
	})
}

// Simulate plays one session on a virtual clock with the autopilot. The
// result is recorded like any other session.
func (a *App) Simulate(ctx context.Context, cfg levels.Config, scenario string) (SimulationResult, error) {
	clock := schedule.NewManual()
	return a.simulate(ctx, cfg, scenario, clock, devtools.NewPilot(clock, cfg.Tuning.TickInterval.D()))
}

func (a *App) simulate(ctx context.Context, cfg levels.Config, scenario string, clock schedule.Scheduler, pilot devtools.Autopilot) (SimulationResult, error) {
	ctrl, err := a.NewSession(ctx, cfg, clock, nil)
	if err != nil {
		return SimulationResult{}, err
	}
	rep, err := pilot.Play(ctrl, pilot.Resolve(scenario))
	if err != nil {
		return SimulationResult{}, fmt.Errorf("simulate %s: %w", cfg.Key(), err)
	}
	a.logger.Info("simulate.done", map[string]any{
		"session":  ctrl.ID(),
		"scenario": rep.Scenario,
		"inputs":   rep.Inputs,
	})
	return SimulationResult{Session: ctrl.Result(), Pilot: rep}, nil
}

// Report collects per-tier progress for one game.
func (a *App) Report(ctx context.Context, game levels.Variant) GameReport {
	return GameReport{
		Variant: game,
		Overall: a.store.GetOverallProgress(ctx, game),
		Tiers:   a.store.Summary(ctx, game),
	}
}

func (a *App) Statistics(ctx context.Context) progress.OverallStatistics {
	return a.store.Statistics(ctx)
}

func (a *App) Reset(ctx context.Context) error {
	if err := a.store.ResetAll(ctx); err != nil {
		return err
	}
	a.logger.Info("progress.reset", map[string]any{"run": a.runID})
	return nil
}

func (a *App) Theme() ui.Theme { return ui.ThemeForVariant(a.cfg.UI.StyleVariant) }
