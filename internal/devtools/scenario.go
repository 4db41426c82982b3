package devtools

// Scenario decides how the autopilot plays each round.
type Scenario struct {
	Name string
	// FailFirst fails this many opening rounds before playing well.
	FailFirst int
	// FailAll fails every round.
	FailAll bool
	// ExitAtRound abandons the session once this round is active.
	ExitAtRound int
}

func (s Scenario) fails(round int) bool {
	return s.FailAll || round <= s.FailFirst
}

// Scenarios lists the names Resolve understands.
var Scenarios = []string{"perfect", "comeback", "miss", "quit"}

func (p *Pilot) Resolve(name string) Scenario {
	switch name {
	case "comeback":
		return Scenario{Name: name, FailFirst: 1}
	case "miss":
		return Scenario{Name: name, FailAll: true}
	case "quit":
		return Scenario{Name: name, ExitAtRound: 2}
	default:
		return Scenario{Name: "perfect"}
	}
}
