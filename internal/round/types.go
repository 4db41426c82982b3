package round

import (
	"skillarcade/internal/challenge"
	"skillarcade/internal/levels"
	"skillarcade/internal/scoring"
)

type State int

const (
	Ready State = iota
	Active
	RoundSuccess
	RoundFailure
	Finished
)

func (s State) String() string {
	switch s {
	case Ready:
		return "ready"
	case Active:
		return "active"
	case RoundSuccess:
		return "round_success"
	case RoundFailure:
		return "round_failure"
	case Finished:
		return "finished"
	}
	return "unknown"
}

// Input is a player event. Each variant reacts to its own kind and ignores
// the rest.
type Input interface{ isInput() }

// Hit stops the Timing marker.
type Hit struct{}

// Tap selects a cell on the PatternMemory board.
type Tap struct{ Cell int }

// Move steps the GridRouting token one node.
type Move struct{ Dir challenge.Direction }

func (Hit) isInput()  {}
func (Tap) isInput()  {}
func (Move) isInput() {}

// Handlers receive engine notifications. OnComplete and OnExit are mutually
// exclusive and fire at most once.
type Handlers struct {
	OnComplete func(score, reward int)
	OnExit     func()
	OnRound    func(RoundResult)
}

// RoundResult describes one settled round.
type RoundResult struct {
	Round   int
	Success bool
	Score   int
	Grade   scoring.Grade
}

// Outcome is the session result, meaningful once the engine is Finished.
type Outcome struct {
	Finished      bool
	Exited        bool
	Success       bool
	Score         int
	Reward        int
	RoundsCleared int
	Rounds        int
}

type Engine interface {
	Start()
	SubmitInput(in Input)
	// Exit abandons the session. Pending timers are cancelled and OnExit
	// fires unless the engine already finished.
	Exit()
	IsActive() bool
	State() State
	Round() int
	Variant() levels.Variant
	Outcome() Outcome
	Results() []RoundResult
}
