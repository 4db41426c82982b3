package ui

import (
	"image/color"
	"slices"

	"charm.land/lipgloss/v2"
)

type Theme struct {
	Header  lipgloss.Style
	Title   lipgloss.Style
	Panel   lipgloss.Style
	Accent  lipgloss.Style
	Pass    lipgloss.Style
	Fail    lipgloss.Style
	Pending lipgloss.Style
	Muted   lipgloss.Style

	meterFrom color.Color
	meterTo   color.Color
}

type palette struct {
	name       string
	background string
	foreground string
	title      string
	accent     string
	pass       string
	fail       string
	pending    string
	muted      string
	frame      string
	border     lipgloss.Border
}

// palettes is ordered; the first entry is the default.
var palettes = []palette{
	{
		name: "modern_arcade", background: "#1B0F2E", foreground: "#F5E9FF",
		title: "#FF4FD8", accent: "#3DF5FF", pass: "#7CFF6B", fail: "#FF5C5C",
		pending: "#FFD23F", muted: "#8E7BAE", frame: "#6C3BD1",
		border: lipgloss.ThickBorder(),
	},
	{
		name: "cozy_clean", background: "#FBF3E4", foreground: "#3B3A36",
		title: "#C8553D", accent: "#2A9D8F", pass: "#588157", fail: "#BC4749",
		pending: "#E9C46A", muted: "#8D8A80", frame: "#D6CCC2",
		border: lipgloss.RoundedBorder(),
	},
	{
		name: "retro_terminal", background: "#000000", foreground: "#FFB000",
		title: "#FFCC00", accent: "#FFE08A", pass: "#33FF33", fail: "#FF3300",
		pending: "#FF8800", muted: "#996A00", frame: "#664400",
		border: lipgloss.NormalBorder(),
	},
}

// Styles lists the names ThemeForVariant understands.
var Styles = func() []string {
	out := make([]string, 0, len(palettes))
	for _, p := range palettes {
		out = append(out, p.name)
	}
	return out
}()

// ValidStyle reports whether name is one of Styles.
func ValidStyle(name string) bool {
	return slices.Contains(Styles, name)
}

func DefaultTheme() Theme {
	return palettes[0].theme()
}

// ThemeForVariant falls back to the default for unknown names.
func ThemeForVariant(variant string) Theme {
	for _, p := range palettes {
		if p.name == variant {
			return p.theme()
		}
	}
	return DefaultTheme()
}

func (p palette) theme() Theme {
	fg := func(hex string) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(hex))
	}
	return Theme{
		Header: lipgloss.NewStyle().
			Background(lipgloss.Color(p.background)).
			Foreground(lipgloss.Color(p.foreground)).
			Bold(true).
			Padding(0, 1),
		Title: fg(p.title).Bold(true),
		Panel: lipgloss.NewStyle().
			Border(p.border).
			BorderForeground(lipgloss.Color(p.frame)).
			Padding(0, 1),
		Accent:    fg(p.accent),
		Pass:      fg(p.pass).Bold(true),
		Fail:      fg(p.fail).Bold(true),
		Pending:   fg(p.pending),
		Muted:     fg(p.muted).Italic(true),
		meterFrom: lipgloss.Color(p.accent),
		meterTo:   lipgloss.Color(p.title),
	}
}
