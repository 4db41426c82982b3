package round

import (
	"errors"
	"testing"
	"time"

	"skillarcade/internal/challenge"
	"skillarcade/internal/levels"
	"skillarcade/internal/schedule"
)

func TestFactorySelectsVariant(t *testing.T) {
	gen := fixedGen{timing: spanZone, pattern: fivePattern, grid: openGrid(10)}
	for _, v := range levels.Variants {
		h := newHarness(t, v, levels.Adept, 2)
		e := h.engine(t, gen)
		if e.Variant() != v {
			t.Fatalf("expected %s engine, got %s", v, e.Variant())
		}
		switch v {
		case levels.Timing:
			if _, ok := e.(*TimingEngine); !ok {
				t.Fatalf("expected *TimingEngine, got %T", e)
			}
		case levels.PatternMemory:
			if _, ok := e.(*PatternEngine); !ok {
				t.Fatalf("expected *PatternEngine, got %T", e)
			}
		case levels.GridRouting:
			if _, ok := e.(*GridEngine); !ok {
				t.Fatalf("expected *GridEngine, got %T", e)
			}
		}
	}
}

func TestFactoryErrors(t *testing.T) {
	cfg, err := levels.NewConfig(levels.Timing, levels.Initiate, 1, levels.Tuning{})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := New(cfg, Deps{}); !errors.Is(err, ErrNoScheduler) {
		t.Fatalf("expected ErrNoScheduler, got %v", err)
	}
	cfg.Variant = levels.Variant(42)
	if _, err := New(cfg, Deps{Scheduler: schedule.NewManual()}); !errors.Is(err, levels.ErrUnknownVariant) {
		t.Fatalf("expected ErrUnknownVariant, got %v", err)
	}
}

func TestExitCancelsTimersAndFiresOnce(t *testing.T) {
	h := newHarness(t, levels.PatternMemory, levels.Initiate, 1)
	e := h.engine(t, fixedGen{pattern: fivePattern})
	e.Start()
	if h.sched.Pending() == 0 {
		t.Fatalf("expected pending reveal timer")
	}
	e.Exit()
	if h.sched.Pending() != 0 {
		t.Fatalf("exit left %d pending timers", h.sched.Pending())
	}
	e.Exit()
	h.sched.Advance(time.Minute)
	if h.rec.exits != 1 || len(h.rec.completes) != 0 {
		t.Fatalf("expected exactly one exit, got exits=%d completes=%v", h.rec.exits, h.rec.completes)
	}
	if e.State() != Finished || !e.Outcome().Exited {
		t.Fatalf("unexpected state after exit: %s %#v", e.State(), e.Outcome())
	}
	e.Start()
	if e.State() != Finished {
		t.Fatalf("restart after exit changed state to %s", e.State())
	}
}

func TestExitDuringSettleSkipsNextRound(t *testing.T) {
	h := newHarness(t, levels.GridRouting, levels.Initiate, 1)
	e := h.engine(t, fixedGen{grid: openGrid(10)})
	e.Start()
	for _, dir := range []challenge.Direction{challenge.Right, challenge.Right, challenge.Right, challenge.Down, challenge.Down, challenge.Down} {
		e.SubmitInput(Move{Dir: dir})
	}
	if e.State() != RoundSuccess {
		t.Fatalf("expected settle state, got %s", e.State())
	}
	e.Exit()
	h.settle()
	if e.Round() != 1 || e.State() != Finished {
		t.Fatalf("stale settle callback advanced the session: round %d state %s", e.Round(), e.State())
	}
	if e.Outcome().Score != 105 {
		t.Fatalf("expected partial score 105, got %d", e.Outcome().Score)
	}
	if h.rec.callbacks() != 1 {
		t.Fatalf("expected a single callback, got %d", h.rec.callbacks())
	}
}

func TestExitFromRoundHandlerStopsSession(t *testing.T) {
	cfg, err := levels.NewConfig(levels.Timing, levels.Initiate, 1, levels.Tuning{})
	if err != nil {
		t.Fatal(err)
	}
	sched := schedule.NewManual()
	var e Engine
	exits := 0
	e, err = New(cfg, Deps{
		Scheduler: sched,
		Generator: fixedGen{timing: spanZone},
		Handlers: Handlers{
			OnRound: func(RoundResult) { e.Exit() },
			OnExit:  func() { exits++ },
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	e.Start()
	sched.Advance(time.Minute)
	if exits != 1 || e.Round() != 1 || sched.Pending() != 0 {
		t.Fatalf("expected a single exit after round 1, got exits=%d round=%d pending=%d", exits, e.Round(), sched.Pending())
	}
}

func TestSeededSessionsEndWithOneCallback(t *testing.T) {
	for _, v := range levels.Variants {
		h := newHarness(t, v, levels.Master, 3)
		e, err := New(h.cfg, Deps{Scheduler: h.sched, Generator: challenge.NewSeeded(5), Handlers: h.rec.handlers()})
		if err != nil {
			t.Fatal(err)
		}
		e.Start()
		// Timing runs out on its own; the others wait for input until exit.
		h.sched.Advance(time.Minute)
		e.Exit()
		if h.rec.callbacks() != 1 {
			t.Fatalf("%s: expected exactly one callback, got %d", v, h.rec.callbacks())
		}
	}
}
