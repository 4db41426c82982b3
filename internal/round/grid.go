package round

import (
	"skillarcade/internal/challenge"
	"skillarcade/internal/levels"
	"skillarcade/internal/scoring"
)

// GridEngine moves a token across a 4×4 board toward the target within a
// move budget. Illegal moves are ignored and cost nothing.
type GridEngine struct {
	*machine

	grid      challenge.Grid
	pos       int
	movesUsed int
}

func newGrid(cfg levels.Config, deps Deps) *GridEngine {
	e := &GridEngine{machine: newMachine(cfg, deps)}
	e.v = e
	return e
}

func (e *GridEngine) begin(round int) {
	e.grid = e.gen.Grid(e.cfg, round)
	e.pos = e.grid.Start
	e.movesUsed = 0
}

func (e *GridEngine) input(in Input) {
	mv, ok := in.(Move)
	if !ok {
		return
	}
	next, ok := e.grid.Neighbor(e.pos, mv.Dir)
	if !ok {
		return
	}
	e.pos = next
	e.movesUsed++
	remaining := e.MovesRemaining()
	switch {
	case e.pos == e.grid.Target:
		score := scoring.GridRoundScore(remaining, e.round, e.cfg.Complexity())
		e.settle(RoundResult{Success: true, Score: score})
	case remaining <= 0:
		e.settle(RoundResult{Success: false})
	}
}

func (e *GridEngine) end() {}

func (e *GridEngine) Grid() challenge.Grid { return e.grid }

func (e *GridEngine) Position() int { return e.pos }

func (e *GridEngine) MovesRemaining() int { return max(0, e.grid.MoveBudget-e.movesUsed) }
