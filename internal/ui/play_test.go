package ui

import (
	"context"
	"strings"
	"testing"
	"time"

	"skillarcade/internal/challenge"
	"skillarcade/internal/levels"
	"skillarcade/internal/round"
	"skillarcade/internal/schedule"
	"skillarcade/internal/session"

	tea "charm.land/bubbletea/v2"
)

type memRecorder struct {
	completed int
	played    time.Duration
}

func (m *memRecorder) IsLevelUnlocked(context.Context, levels.Variant, levels.Tier, int) bool {
	return true
}

func (m *memRecorder) CompleteLevel(context.Context, levels.Variant, levels.Tier, int, int, int) error {
	m.completed++
	return nil
}

func (m *memRecorder) AddPlayTime(_ context.Context, _ levels.Variant, _ levels.Tier, d time.Duration) error {
	m.played += d
	return nil
}

type boardGen struct{}

func (boardGen) Timing(levels.Config, int) challenge.Timing {
	return challenge.Timing{ZoneStart: 0.4, ZoneWidth: 0.3, Duration: 2 * time.Second}
}

func (boardGen) Pattern(levels.Config, int) challenge.Pattern {
	return challenge.Pattern{GridSize: 3, Sequence: []int{4, 0}, RevealDelay: 5 * time.Millisecond}
}

func (boardGen) Grid(levels.Config, int) challenge.Grid {
	return challenge.NewGrid([challenge.GridNodes]bool{}, 0, 15, 10)
}

func newPlay(t *testing.T, v levels.Variant) (*Play, *memRecorder) {
	t.Helper()
	cfg, err := levels.NewConfig(v, levels.Initiate, 1, levels.Tuning{})
	if err != nil {
		t.Fatalf("new config: %v", err)
	}
	rec := &memRecorder{}
	sched := schedule.NewProgram()
	ctrl, err := session.New(context.Background(), session.Options{
		Config:    cfg,
		Recorder:  rec,
		Scheduler: sched,
		Generator: boardGen{},
	})
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	return NewPlay(ctrl, sched, DefaultTheme(), 30), rec
}

func press(p *Play, code rune, mod tea.KeyMod) tea.Cmd {
	_, cmd := p.Update(tea.KeyPressMsg{Code: code, Mod: mod})
	return cmd
}

// fires runs cmd and collects the engine timers it produces. Frame ticks are
// dropped.
func fires(cmd tea.Cmd) []schedule.FireMsg {
	if cmd == nil {
		return nil
	}
	switch msg := cmd().(type) {
	case schedule.FireMsg:
		return []schedule.FireMsg{msg}
	case tea.BatchMsg:
		var out []schedule.FireMsg
		for _, c := range msg {
			out = append(out, fires(c)...)
		}
		return out
	}
	return nil
}

func TestPlayEscapeExitsSessionAndQuits(t *testing.T) {
	p, rec := newPlay(t, levels.GridRouting)
	p.Init()
	cmd := press(p, tea.KeyEsc, 0)
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected QuitMsg")
	}
	if !p.Finished() {
		t.Fatalf("expected finished session")
	}
	res := p.ctrl.Result()
	if !res.Exited || res.Completed || rec.completed != 0 {
		t.Fatalf("expected exited session, got %#v", res)
	}
}

func TestPlayMovesOnKeys(t *testing.T) {
	p, _ := newPlay(t, levels.GridRouting)
	p.Init()
	ge := p.ctrl.Engine().(*round.GridEngine)
	press(p, 'd', 0)
	press(p, tea.KeyDown, 0)
	press(p, 'x', 0)
	if ge.Position() != 5 || ge.MovesRemaining() != 8 {
		t.Fatalf("expected position 5 with 8 moves left, got %d/%d", ge.Position(), ge.MovesRemaining())
	}
	if got := meterPercent(ge); got != 0.8 {
		t.Fatalf("expected meter at 0.8, got %v", got)
	}
}

func TestPlayRunsRevealTicksThroughUpdate(t *testing.T) {
	p, _ := newPlay(t, levels.PatternMemory)
	pe := p.ctrl.Engine().(*round.PatternEngine)
	pending := fires(p.Init())
	if cell, ok := pe.Showing(); !ok || cell != 4 {
		t.Fatalf("expected cell 4 revealed, got %d (%v)", cell, ok)
	}
	for range 2 {
		if len(pending) != 1 {
			t.Fatalf("expected one pending reveal tick, got %d", len(pending))
		}
		_, cmd := p.Update(pending[0])
		pending = fires(cmd)
	}
	if !pe.Accepting() {
		t.Fatalf("expected taps to be accepted after the reveal")
	}

	// Cell 4 is the centre key, cell 0 the top-left.
	press(p, 'w', 0)
	if pe.Entered() != 1 {
		t.Fatalf("expected one correct tap, got %d", pe.Entered())
	}
	press(p, '1', 0)
	results := pe.Results()
	if len(results) != 1 || !results[0].Success {
		t.Fatalf("expected first round cleared, got %#v", results)
	}
}

func TestPlayIgnoresCancelledTicks(t *testing.T) {
	p, _ := newPlay(t, levels.PatternMemory)
	pending := fires(p.Init())
	press(p, tea.KeyEsc, 0)
	if len(pending) != 1 {
		t.Fatalf("expected one pending reveal tick, got %d", len(pending))
	}
	if pending[0].Run() {
		t.Fatalf("tick scheduled before exit should be cancelled")
	}
}

func TestPlayRenderShowsBoardAndHelp(t *testing.T) {
	p, _ := newPlay(t, levels.PatternMemory)
	p.Init()
	out := p.render()
	for _, want := range []string{"Echo Grid", "round 1/3", "[#]", "watch...", "tap", "quit"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in view:\n%s", want, out)
		}
	}
}
