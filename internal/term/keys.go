package term

import (
	"strings"
	"unicode"

	"skillarcade/internal/challenge"
	"skillarcade/internal/levels"
	"skillarcade/internal/round"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
)

// cellRows lays PatternMemory cells out on the keyboard, row-major.
var cellRows = []string{"1234", "qwer", "asdf", "zxcv"}

var (
	quitKey = key.NewBinding(key.WithKeys("esc", "ctrl+c"), key.WithHelp("esc", "quit"))
	hitKey  = key.NewBinding(key.WithKeys("space", "enter"), key.WithHelp("space", "hit"))
)

type moveBinding struct {
	key.Binding
	dir challenge.Direction
}

var moveKeys = []moveBinding{
	{key.NewBinding(key.WithKeys("up", "w", "k"), key.WithHelp("↑/w", "up")), challenge.Up},
	{key.NewBinding(key.WithKeys("down", "s", "j"), key.WithHelp("↓/s", "down")), challenge.Down},
	{key.NewBinding(key.WithKeys("left", "a", "h"), key.WithHelp("←/a", "left")), challenge.Left},
	{key.NewBinding(key.WithKeys("right", "d", "l"), key.WithHelp("→/d", "right")), challenge.Right},
}

// VariantKeys maps keys for one variant. Pattern keys depend on the board
// size, so the keymap is rebuilt when it changes.
type VariantKeys struct {
	Variant  levels.Variant
	GridSize int
}

var _ Keymap = VariantKeys{}

func NewKeymap(v levels.Variant, gridSize int) VariantKeys {
	return VariantKeys{Variant: v, GridSize: gridSize}
}

// Decode maps msg to an action. Escape and Ctrl-C always quit. Letter keys
// match regardless of shift.
func (k VariantKeys) Decode(msg tea.KeyPressMsg) (Action, bool) {
	if key.Matches(msg, quitKey) {
		return Action{Quit: true}, true
	}
	plain := tea.KeyPressMsg{Code: unicode.ToLower(msg.Code), Mod: msg.Mod &^ tea.ModShift}
	switch k.Variant {
	case levels.Timing:
		if key.Matches(plain, hitKey) {
			return Action{Input: round.Hit{}}, true
		}
	case levels.PatternMemory:
		if plain.Mod != 0 {
			break
		}
		if cell, ok := CellForRune(plain.Code, k.GridSize); ok {
			return Action{Input: round.Tap{Cell: cell}}, true
		}
	case levels.GridRouting:
		for _, mk := range moveKeys {
			if key.Matches(plain, mk.Binding) {
				return Action{Input: round.Move{Dir: mk.dir}}, true
			}
		}
	}
	return Action{}, false
}

func (k VariantKeys) ShortHelp() []key.Binding {
	var out []key.Binding
	switch k.Variant {
	case levels.Timing:
		out = append(out, hitKey)
	case levels.PatternMemory:
		out = append(out, k.tapKey())
	case levels.GridRouting:
		for _, mk := range moveKeys {
			out = append(out, mk.Binding)
		}
	}
	return append(out, quitKey)
}

func (k VariantKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

func (k VariantKeys) tapKey() key.Binding {
	n := max(0, min(k.GridSize, len(cellRows)))
	rows := make([]string, 0, n)
	var keys []string
	for row := range n {
		rows = append(rows, cellRows[row][:n])
		for _, r := range cellRows[row][:n] {
			keys = append(keys, string(r))
		}
	}
	return key.NewBinding(key.WithKeys(keys...), key.WithHelp(strings.Join(rows, "/"), "tap"))
}

// CellForRune returns the PatternMemory cell bound to r on an n×n board.
func CellForRune(r rune, n int) (int, bool) {
	if n <= 0 || n > len(cellRows) {
		return 0, false
	}
	for row := range n {
		col := strings.IndexRune(cellRows[row][:n], r)
		if col >= 0 {
			return row*n + col, true
		}
	}
	return 0, false
}

// RuneForCell is the inverse of CellForRune.
func RuneForCell(cell, n int) rune {
	if n <= 0 || n > len(cellRows) || cell < 0 || cell >= n*n {
		return '?'
	}
	return rune(cellRows[cell/n][cell%n])
}
