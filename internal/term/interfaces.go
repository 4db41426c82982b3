package term

import (
	"skillarcade/internal/round"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
)

// Action is what a key press means for the running session.
type Action struct {
	Input round.Input
	Quit  bool
}

// Keymap turns key presses into session actions and lists its bindings for
// the help footer.
type Keymap interface {
	Decode(msg tea.KeyPressMsg) (Action, bool)
	ShortHelp() []key.Binding
	FullHelp() [][]key.Binding
}
