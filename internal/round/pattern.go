package round

import (
	"skillarcade/internal/challenge"
	"skillarcade/internal/levels"
	"skillarcade/internal/scoring"
)

// PatternEngine reveals a sequence one cell at a time, then checks taps in
// order. The first wrong tap fails the round.
type PatternEngine struct {
	*machine

	pattern   challenge.Pattern
	revealed  int
	showing   int
	accepting bool
	inputPos  int
}

func newPattern(cfg levels.Config, deps Deps) *PatternEngine {
	e := &PatternEngine{machine: newMachine(cfg, deps), showing: -1}
	e.v = e
	return e
}

func (e *PatternEngine) begin(round int) {
	e.pattern = e.gen.Pattern(e.cfg, round)
	e.revealed = 0
	e.showing = -1
	e.accepting = false
	e.inputPos = 0
	e.revealNext()
}

func (e *PatternEngine) revealNext() {
	if e.revealed >= len(e.pattern.Sequence) {
		e.showing = -1
		e.accepting = true
		return
	}
	e.showing = e.pattern.Sequence[e.revealed]
	e.revealed++
	e.after(e.pattern.RevealDelay, e.revealNext)
}

func (e *PatternEngine) input(in Input) {
	tap, ok := in.(Tap)
	if !ok || !e.accepting {
		return
	}
	if tap.Cell < 0 || tap.Cell >= e.pattern.Cells() {
		return
	}
	if tap.Cell != e.pattern.Sequence[e.inputPos] {
		e.settle(RoundResult{Success: false})
		return
	}
	e.inputPos++
	if e.inputPos == len(e.pattern.Sequence) {
		score := scoring.PatternRoundScore(len(e.pattern.Sequence), e.round, e.cfg.Complexity())
		e.settle(RoundResult{Success: true, Score: score})
	}
}

func (e *PatternEngine) end() {
	e.accepting = false
	e.showing = -1
}

func (e *PatternEngine) Pattern() challenge.Pattern { return e.pattern }

// Showing returns the cell highlighted by the reveal phase, if any.
func (e *PatternEngine) Showing() (int, bool) { return e.showing, e.showing >= 0 }

// Accepting reports whether the reveal phase is over and taps count.
func (e *PatternEngine) Accepting() bool { return e.accepting }

// Entered is the number of correct taps so far this round.
func (e *PatternEngine) Entered() int { return e.inputPos }
