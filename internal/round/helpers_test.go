package round

import (
	"testing"
	"time"

	"skillarcade/internal/challenge"
	"skillarcade/internal/levels"
	"skillarcade/internal/schedule"
)

// fixedGen hands out the same content every round.
type fixedGen struct {
	timing  challenge.Timing
	pattern challenge.Pattern
	grid    challenge.Grid
}

func (g fixedGen) Timing(levels.Config, int) challenge.Timing   { return g.timing }
func (g fixedGen) Pattern(levels.Config, int) challenge.Pattern { return g.pattern }
func (g fixedGen) Grid(levels.Config, int) challenge.Grid       { return g.grid }

type recorder struct {
	completes []([2]int)
	exits     int
	rounds    []RoundResult
}

func (r *recorder) handlers() Handlers {
	return Handlers{
		OnComplete: func(score, reward int) { r.completes = append(r.completes, [2]int{score, reward}) },
		OnExit:     func() { r.exits++ },
		OnRound:    func(res RoundResult) { r.rounds = append(r.rounds, res) },
	}
}

func (r *recorder) callbacks() int { return len(r.completes) + r.exits }

type harness struct {
	sched *schedule.Manual
	rec   *recorder
	cfg   levels.Config
}

func newHarness(t *testing.T, v levels.Variant, tier levels.Tier, level int) *harness {
	t.Helper()
	cfg, err := levels.NewConfig(v, tier, level, levels.Tuning{})
	if err != nil {
		t.Fatalf("new config: %v", err)
	}
	return &harness{sched: schedule.NewManual(), rec: &recorder{}, cfg: cfg}
}

func (h *harness) engine(t *testing.T, gen challenge.Generator) Engine {
	t.Helper()
	e, err := New(h.cfg, Deps{Scheduler: h.sched, Generator: gen, Handlers: h.rec.handlers()})
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return e
}

func (h *harness) settle() {
	h.sched.Advance(h.cfg.Tuning.SettleDelay.D())
}

func at(d time.Duration, frac float64) time.Duration {
	return time.Duration(float64(d) * frac)
}
