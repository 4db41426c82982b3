package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"skillarcade/internal/challenge"
	"skillarcade/internal/levels"
	"skillarcade/internal/round"
	"skillarcade/internal/schedule"
	"skillarcade/internal/telemetry"

	"github.com/google/uuid"
)

var (
	ErrLevelLocked = errors.New("level is locked")
	ErrNoRecorder  = errors.New("session requires a progress recorder")
)

type Options struct {
	Config    levels.Config
	Recorder  Recorder
	Scheduler schedule.Scheduler
	// Generator defaults to a crypto-seeded random generator.
	Generator challenge.Generator
	Logger    *telemetry.Logger
	// Clock defaults to time.Now.
	Clock Clock
	// OnRound observes every settled round.
	OnRound func(round.RoundResult)
}

// Result summarises a finished session.
type Result struct {
	ID        string
	Config    levels.Config
	Completed bool
	Exited    bool
	Score     int
	Reward    int
	Elapsed   time.Duration
	Outcome   round.Outcome
}

// Controller binds one engine to the progress store. It is driven from the
// scheduler's goroutine; only Done and Result are safe to call elsewhere.
type Controller struct {
	id       string
	ctx      context.Context
	cfg      levels.Config
	engine   round.Engine
	recorder Recorder
	logger   *telemetry.Logger
	clock    Clock
	onRound  func(round.RoundResult)

	startedAt time.Time
	started   bool

	mu     sync.Mutex
	result Result
	closed bool
	done   chan struct{}
}

// New checks the level is unlocked and builds its engine. The session does
// not start until Start is called.
func New(ctx context.Context, opts Options) (*Controller, error) {
	if opts.Recorder == nil {
		return nil, ErrNoRecorder
	}
	cfg := opts.Config
	if !opts.Recorder.IsLevelUnlocked(ctx, cfg.Variant, cfg.Tier, cfg.Level) {
		return nil, fmt.Errorf("%w: %s", ErrLevelLocked, cfg.Key())
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	c := &Controller{
		id:       uuid.NewString(),
		ctx:      context.WithoutCancel(ctx),
		cfg:      cfg,
		recorder: opts.Recorder,
		logger:   opts.Logger,
		clock:    clock,
		onRound:  opts.OnRound,
		done:     make(chan struct{}),
	}
	engine, err := round.New(cfg, round.Deps{
		Scheduler: opts.Scheduler,
		Generator: opts.Generator,
		Handlers: round.Handlers{
			OnComplete: c.handleComplete,
			OnExit:     c.handleExit,
			OnRound:    c.handleRound,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("build %s engine: %w", cfg.Variant, err)
	}
	c.engine = engine
	return c, nil
}

func (c *Controller) ID() string { return c.id }

func (c *Controller) Config() levels.Config { return c.cfg }

// Engine exposes the running engine for rendering.
func (c *Controller) Engine() round.Engine { return c.engine }

// Start begins round 1 and the play-time clock.
func (c *Controller) Start() {
	if c.started {
		return
	}
	c.started = true
	c.startedAt = c.clock()
	c.logger.Info("session.start", map[string]any{
		"session":   c.id,
		"game":      c.cfg.Variant.ID(),
		"tier":      c.cfg.Tier.ID(),
		"level_num": c.cfg.Level,
	})
	c.engine.Start()
}

func (c *Controller) Submit(in round.Input) {
	c.engine.SubmitInput(in)
}

// Exit abandons the session. Play time is still recorded.
func (c *Controller) Exit() {
	c.engine.Exit()
}

// Done is closed once the session has finished and progress is recorded.
func (c *Controller) Done() <-chan struct{} { return c.done }

// Result is meaningful after Done is closed.
func (c *Controller) Result() Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.result
}

func (c *Controller) handleRound(res round.RoundResult) {
	c.logger.Debug("session.round", map[string]any{
		"session": c.id,
		"round":   res.Round,
		"success": res.Success,
		"score":   res.Score,
	})
	if c.onRound != nil {
		c.onRound(res)
	}
}

func (c *Controller) handleComplete(score, reward int) {
	elapsed := c.elapsed()
	if err := c.recorder.CompleteLevel(c.ctx, c.cfg.Variant, c.cfg.Tier, c.cfg.Level, score, reward); err != nil {
		c.logger.Error("session.complete_failed", map[string]any{"session": c.id, "error": err.Error()})
	}
	c.addPlayTime(elapsed)
	c.logger.Info("session.complete", map[string]any{
		"session": c.id,
		"score":   score,
		"reward":  reward,
		"elapsed": elapsed.String(),
	})
	c.close(true, elapsed)
}

func (c *Controller) handleExit() {
	elapsed := c.elapsed()
	c.addPlayTime(elapsed)
	out := c.engine.Outcome()
	c.logger.Info("session.exit", map[string]any{
		"session": c.id,
		"exited":  out.Exited,
		"score":   out.Score,
		"elapsed": elapsed.String(),
	})
	c.close(false, elapsed)
}

func (c *Controller) addPlayTime(d time.Duration) {
	if err := c.recorder.AddPlayTime(c.ctx, c.cfg.Variant, c.cfg.Tier, d); err != nil {
		c.logger.Error("session.play_time_failed", map[string]any{"session": c.id, "error": err.Error()})
	}
}

func (c *Controller) elapsed() time.Duration {
	if !c.started {
		return 0
	}
	return max(0, c.clock().Sub(c.startedAt))
}

func (c *Controller) close(completed bool, elapsed time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	out := c.engine.Outcome()
	c.result = Result{
		ID:        c.id,
		Config:    c.cfg,
		Completed: completed,
		Exited:    out.Exited,
		Score:     out.Score,
		Reward:    out.Reward,
		Elapsed:   elapsed,
		Outcome:   out,
	}
	close(c.done)
}
