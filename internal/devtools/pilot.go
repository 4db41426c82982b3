package devtools

import (
	"errors"
	"time"

	"skillarcade/internal/challenge"
	"skillarcade/internal/round"
	"skillarcade/internal/schedule"
	"skillarcade/internal/scoring"
)

var ErrStalled = errors.New("autopilot: session did not finish")

// Report counts what the autopilot did during one session.
type Report struct {
	Scenario string
	Inputs   int
	Elapsed  time.Duration
}

// Pilot plays sessions on a virtual clock. It advances the clock in small
// steps and reacts to the engine state after each one.
type Pilot struct {
	clock *schedule.Manual
	step  time.Duration
	// budget bounds the virtual time a session may take.
	budget time.Duration
}

var _ Autopilot = (*Pilot)(nil)

func NewPilot(clock *schedule.Manual, step time.Duration) *Pilot {
	if step <= 0 {
		step = 16 * time.Millisecond
	}
	return &Pilot{clock: clock, step: step, budget: 10 * time.Minute}
}

func (p *Pilot) Play(d Driver, sc Scenario) (Report, error) {
	rep := Report{Scenario: sc.Name}
	start := p.clock.Now()
	d.Start()
	for !finished(d) {
		if p.clock.Now()-start > p.budget {
			d.Exit()
			return rep, ErrStalled
		}
		e := d.Engine()
		if e.IsActive() {
			if sc.ExitAtRound > 0 && e.Round() >= sc.ExitAtRound {
				d.Exit()
				break
			}
			rep.Inputs += p.act(d, e, sc.fails(e.Round()))
		}
		if !finished(d) {
			p.clock.Advance(p.step)
		}
	}
	rep.Elapsed = p.clock.Now() - start
	return rep, nil
}

// act submits whatever inputs the current moment calls for and returns how
// many it sent.
func (p *Pilot) act(d Driver, e round.Engine, fail bool) int {
	switch e := e.(type) {
	case *round.TimingEngine:
		return p.actTiming(d, e, fail)
	case *round.PatternEngine:
		return p.actPattern(d, e, fail)
	case *round.GridEngine:
		return p.actGrid(d, e, fail)
	}
	return 0
}

func (p *Pilot) actTiming(d Driver, e *round.TimingEngine, fail bool) int {
	if fail {
		// Let the marker run out.
		return 0
	}
	if scoring.GradeHit(e.LiveProgress(), e.Zone()) != scoring.Perfect {
		return 0
	}
	d.Submit(round.Hit{})
	return 1
}

func (p *Pilot) actPattern(d Driver, e *round.PatternEngine, fail bool) int {
	if !e.Accepting() {
		return 0
	}
	pat := e.Pattern()
	if fail {
		want := pat.Sequence[e.Entered()]
		d.Submit(round.Tap{Cell: (want + 1) % pat.Cells()})
		return 1
	}
	n := 0
	for _, cell := range pat.Sequence[e.Entered():] {
		d.Submit(round.Tap{Cell: cell})
		n++
	}
	return n
}

func (p *Pilot) actGrid(d Driver, e *round.GridEngine, fail bool) int {
	g := e.Grid()
	if fail {
		return wander(d, e, g)
	}
	n := 0
	for _, dir := range g.Route(e.Position()) {
		d.Submit(round.Move{Dir: dir})
		n++
	}
	return n
}

// wander burns the move budget without touching the target.
func wander(d Driver, e *round.GridEngine, g challenge.Grid) int {
	n := 0
	for e.IsActive() && e.MovesRemaining() > 0 {
		moved := false
		for _, dir := range challenge.Directions {
			next, ok := g.Neighbor(e.Position(), dir)
			if !ok || next == g.Target {
				continue
			}
			d.Submit(round.Move{Dir: dir})
			n++
			moved = true
			break
		}
		if !moved {
			break
		}
	}
	return n
}

func finished(d Driver) bool {
	select {
	case <-d.Done():
		return true
	default:
		return false
	}
}
