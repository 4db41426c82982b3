package round

import (
	"time"

	"skillarcade/internal/challenge"
	"skillarcade/internal/levels"
	"skillarcade/internal/scoring"
)

// TimingEngine sweeps a marker across [0,1]; one hit per round is graded
// against the target zone. Reaching 1 without a hit is a Miss.
type TimingEngine struct {
	*machine

	zone      challenge.Timing
	startedAt time.Duration
	progress  float64
	lastGrade scoring.Grade
}

func newTiming(cfg levels.Config, deps Deps) *TimingEngine {
	e := &TimingEngine{machine: newMachine(cfg, deps)}
	e.v = e
	return e
}

func (e *TimingEngine) begin(round int) {
	e.zone = e.gen.Timing(e.cfg, round)
	e.startedAt = e.sched.Now()
	e.progress = 0
	e.scheduleTick()
	e.after(e.zone.Duration, e.timeout)
}

func (e *TimingEngine) input(in Input) {
	if _, ok := in.(Hit); !ok {
		return
	}
	e.resolve(e.progressAt(e.sched.Now()))
}

func (e *TimingEngine) end() {}

func (e *TimingEngine) scheduleTick() {
	e.after(e.cfg.Tuning.TickInterval.D(), e.tick)
}

func (e *TimingEngine) tick() {
	e.progress = e.progressAt(e.sched.Now())
	if e.progress >= 1 {
		e.timeout()
		return
	}
	e.scheduleTick()
}

func (e *TimingEngine) timeout() {
	e.resolve(1)
}

func (e *TimingEngine) resolve(p float64) {
	e.progress = p
	grade := scoring.GradeHit(p, e.zone)
	e.lastGrade = grade
	e.settle(RoundResult{Success: grade != scoring.Miss, Score: grade.Points(), Grade: grade})
}

func (e *TimingEngine) progressAt(now time.Duration) float64 {
	if e.zone.Duration <= 0 {
		return 1
	}
	p := float64(now-e.startedAt) / float64(e.zone.Duration)
	return min(max(p, 0), 1)
}

// Zone is the current round's target zone.
func (e *TimingEngine) Zone() challenge.Timing { return e.zone }

// Progress is the marker position as of the last tick or hit.
func (e *TimingEngine) Progress() float64 { return e.progress }

// LiveProgress is the marker position at the scheduler's current time.
func (e *TimingEngine) LiveProgress() float64 {
	if e.state != Active {
		return e.progress
	}
	return e.progressAt(e.sched.Now())
}

func (e *TimingEngine) LastGrade() scoring.Grade { return e.lastGrade }
