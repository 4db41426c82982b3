package round

import (
	"time"

	"skillarcade/internal/challenge"
	"skillarcade/internal/levels"
	"skillarcade/internal/schedule"
	"skillarcade/internal/scoring"
)

// variant is the round-specific half of an engine.
type variant interface {
	begin(round int)
	input(in Input)
	end()
}

// machine is the state machine shared by every variant:
// Ready -> Active -> RoundSuccess|RoundFailure -> Active ... -> Finished.
type machine struct {
	cfg      levels.Config
	sched    schedule.Scheduler
	gen      challenge.Generator
	handlers Handlers
	v        variant

	state     State
	round     int
	rounds    int
	threshold int
	total     int
	cleared   int
	results   []RoundResult
	outcome   Outcome
	notified  bool

	// epoch invalidates callbacks scheduled before the last cleanup.
	epoch  uint64
	timers []schedule.Handle
}

func newMachine(cfg levels.Config, deps Deps) *machine {
	return &machine{
		cfg:       cfg,
		sched:     deps.Scheduler,
		gen:       deps.Generator,
		handlers:  deps.Handlers,
		rounds:    scoring.Rounds(cfg.Variant),
		threshold: scoring.Threshold(cfg),
	}
}

func (m *machine) Start() {
	if m.state != Ready {
		return
	}
	m.nextRound()
}

func (m *machine) SubmitInput(in Input) {
	if m.state != Active || in == nil {
		return
	}
	m.v.input(in)
}

func (m *machine) Exit() {
	if m.state == Finished {
		return
	}
	m.cancelTimers()
	if m.state == Active {
		m.v.end()
	}
	m.state = Finished
	m.outcome = Outcome{
		Finished:      true,
		Exited:        true,
		Score:         m.total,
		RoundsCleared: m.cleared,
		Rounds:        m.rounds,
	}
	m.notify(false)
}

func (m *machine) IsActive() bool { return m.state == Active }

func (m *machine) State() State { return m.state }

func (m *machine) Round() int { return m.round }

func (m *machine) Variant() levels.Variant { return m.cfg.Variant }

func (m *machine) Outcome() Outcome { return m.outcome }

func (m *machine) Results() []RoundResult {
	out := make([]RoundResult, len(m.results))
	copy(out, m.results)
	return out
}

func (m *machine) nextRound() {
	m.cancelTimers()
	m.round++
	m.state = Active
	m.v.begin(m.round)
}

// settle closes the active round and schedules what comes next.
func (m *machine) settle(res RoundResult) {
	if m.state != Active {
		return
	}
	m.cancelTimers()
	m.v.end()
	res.Round = m.round
	if res.Success {
		m.state = RoundSuccess
		m.cleared++
	} else {
		m.state = RoundFailure
	}
	m.total += res.Score
	m.results = append(m.results, res)
	if m.handlers.OnRound != nil {
		m.handlers.OnRound(res)
		if m.state == Finished {
			return
		}
	}
	m.after(m.cfg.Tuning.SettleDelay.D(), func() {
		if m.round < m.rounds {
			m.nextRound()
			return
		}
		m.finish()
	})
}

func (m *machine) finish() {
	m.cancelTimers()
	success := m.cleared >= m.threshold
	m.state = Finished
	m.outcome = Outcome{
		Finished:      true,
		Success:       success,
		Score:         m.total,
		Reward:        scoring.Reward(m.cfg, success),
		RoundsCleared: m.cleared,
		Rounds:        m.rounds,
	}
	m.notify(success)
}

func (m *machine) notify(complete bool) {
	if m.notified {
		return
	}
	m.notified = true
	if complete {
		if m.handlers.OnComplete != nil {
			m.handlers.OnComplete(m.outcome.Score, m.outcome.Reward)
		}
		return
	}
	if m.handlers.OnExit != nil {
		m.handlers.OnExit()
	}
}

// after schedules fn for the current round only.
func (m *machine) after(d time.Duration, fn func()) {
	epoch := m.epoch
	h := m.sched.After(d, func() {
		if m.epoch != epoch {
			return
		}
		fn()
	})
	m.timers = append(m.timers, h)
}

func (m *machine) cancelTimers() {
	for _, h := range m.timers {
		h.Cancel()
	}
	m.timers = m.timers[:0]
	m.epoch++
}
