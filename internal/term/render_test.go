package term

import (
	"strings"
	"testing"
	"time"

	"skillarcade/internal/challenge"
	"skillarcade/internal/levels"
	"skillarcade/internal/round"
	"skillarcade/internal/schedule"
)

type stubGen struct{}

func (stubGen) Timing(levels.Config, int) challenge.Timing {
	return challenge.Timing{ZoneStart: 0.5, ZoneWidth: 0.25, Duration: time.Second}
}
func (stubGen) Pattern(levels.Config, int) challenge.Pattern {
	return challenge.Pattern{GridSize: 3, Sequence: []int{4, 0}, RevealDelay: 100 * time.Millisecond}
}
func (stubGen) Grid(levels.Config, int) challenge.Grid {
	var blocked [challenge.GridNodes]bool
	blocked[5] = true
	return challenge.NewGrid(blocked, 0, 15, 8)
}

func started(t *testing.T, v levels.Variant) (round.Engine, *schedule.Manual) {
	t.Helper()
	cfg, err := levels.NewConfig(v, levels.Initiate, 1, levels.Tuning{})
	if err != nil {
		t.Fatal(err)
	}
	sched := schedule.NewManual()
	e, err := round.New(cfg, round.Deps{Scheduler: sched, Generator: stubGen{}})
	if err != nil {
		t.Fatal(err)
	}
	e.Start()
	return e, sched
}

func TestFrameTiming(t *testing.T) {
	e, sched := started(t, levels.Timing)
	sched.Advance(250 * time.Millisecond)
	lines := Frame(e)
	if !strings.HasPrefix(lines[0], "Pulse Strike") || !strings.Contains(lines[0], "round 1/5") {
		t.Fatalf("unexpected header %q", lines[0])
	}
	track := lines[2]
	if len(track) != MarkerWidth+2 {
		t.Fatalf("unexpected track width %d: %q", len(track), track)
	}
	if track[1+10] != '|' {
		t.Fatalf("expected marker at column 10: %q", track)
	}
	if track[1+20] != '=' || track[1+29] != '=' || track[1+30] != '-' {
		t.Fatalf("unexpected zone rendering: %q", track)
	}
}

func TestFramePatternReveal(t *testing.T) {
	e, sched := started(t, levels.PatternMemory)
	lines := Frame(e)
	if lines[3] != " [q] [#] [e]" {
		t.Fatalf("expected centre cell highlighted, got %q", lines[3])
	}
	if lines[5] != "watch..." {
		t.Fatalf("expected reveal hint, got %q", lines[5])
	}
	sched.Advance(200 * time.Millisecond)
	lines = Frame(e)
	if lines[5] != "repeat: 0/2" {
		t.Fatalf("expected input prompt, got %q", lines[5])
	}
}

func TestFrameGrid(t *testing.T) {
	e, _ := started(t, levels.GridRouting)
	lines := Frame(e)
	want := []string{" @ . . .", " . # . .", " . . . .", " . . . X", "moves left: 8"}
	for i, w := range want {
		if lines[2+i] != w {
			t.Fatalf("line %d: got %q, want %q", 2+i, lines[2+i], w)
		}
	}
}
