package term

import (
	"fmt"
	"strings"

	"skillarcade/internal/challenge"
	"skillarcade/internal/round"
	"skillarcade/internal/scoring"
)

// MarkerWidth is the number of columns the Timing track spans.
const MarkerWidth = 40

// Frame renders the engine as plain text lines: a header, a blank line, then
// the variant's board.
func Frame(e round.Engine) []string {
	lines := []string{header(e), ""}
	switch e := e.(type) {
	case *round.TimingEngine:
		lines = append(lines, timingLines(e)...)
	case *round.PatternEngine:
		lines = append(lines, patternLines(e)...)
	case *round.GridEngine:
		lines = append(lines, gridLines(e)...)
	}
	return lines
}

func header(e round.Engine) string {
	score := 0
	for _, r := range e.Results() {
		score += r.Score
	}
	return fmt.Sprintf("%s  round %d/%d  score %d  [%s]", e.Variant().Title(), e.Round(), scoring.Rounds(e.Variant()), score, e.State())
}

func timingLines(e *round.TimingEngine) []string {
	zone := e.Zone()
	track := []rune(strings.Repeat("-", MarkerWidth))
	from := int(zone.ZoneStart * MarkerWidth)
	to := min(MarkerWidth, int(zone.ZoneEnd()*MarkerWidth+0.5))
	for i := from; i < to; i++ {
		track[i] = '='
	}
	pos := min(MarkerWidth-1, int(e.LiveProgress()*MarkerWidth))
	track[pos] = '|'
	lines := []string{"[" + string(track) + "]"}
	if e.State() != round.Active && e.Round() > 0 {
		lines = append(lines, "last: "+e.LastGrade().String())
	}
	return lines
}

func patternLines(e *round.PatternEngine) []string {
	pat := e.Pattern()
	shown, showing := e.Showing()
	var lines []string
	for row := range pat.GridSize {
		var b strings.Builder
		for col := range pat.GridSize {
			cell := row*pat.GridSize + col
			if showing && cell == shown {
				b.WriteString(" [#]")
				continue
			}
			fmt.Fprintf(&b, " [%c]", RuneForCell(cell, pat.GridSize))
		}
		lines = append(lines, b.String())
	}
	switch {
	case e.Accepting():
		lines = append(lines, fmt.Sprintf("repeat: %d/%d", e.Entered(), len(pat.Sequence)))
	case e.IsActive():
		lines = append(lines, "watch...")
	}
	return lines
}

func gridLines(e *round.GridEngine) []string {
	g := e.Grid()
	var lines []string
	for row := range challenge.GridSide {
		var b strings.Builder
		for col := range challenge.GridSide {
			node := row*challenge.GridSide + col
			switch {
			case node == e.Position():
				b.WriteString(" @")
			case node == g.Target:
				b.WriteString(" X")
			case g.Blocked[node]:
				b.WriteString(" #")
			default:
				b.WriteString(" .")
			}
		}
		lines = append(lines, b.String())
	}
	return append(lines, fmt.Sprintf("moves left: %d", e.MovesRemaining()))
}
