package devtools

import "skillarcade/internal/round"

// Driver is a running session the autopilot can play. *session.Controller
// satisfies it.
type Driver interface {
	Start()
	Submit(in round.Input)
	Exit()
	Engine() round.Engine
	Done() <-chan struct{}
}

type Autopilot interface {
	Resolve(name string) Scenario
	Play(d Driver, sc Scenario) (Report, error)
}
