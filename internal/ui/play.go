package ui

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"skillarcade/internal/round"
	"skillarcade/internal/schedule"
	"skillarcade/internal/session"
	"skillarcade/internal/term"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/progress"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
)

type applyMsg struct {
	fn func()
}

type frameMsg time.Time

// Play is the Bubble Tea model for one interactive session. Engine timers,
// key presses and outside requests all reach the session through Update.
type Play struct {
	theme   Theme
	ctrl    *session.Controller
	sched   *schedule.Program
	help    help.Model
	meter   progress.Model
	fps     int
	started time.Time
	cols    int

	mu      sync.Mutex
	program *tea.Program
	running bool
}

func NewPlay(ctrl *session.Controller, sched *schedule.Program, theme Theme, fps int) *Play {
	h := help.New()
	h.Styles = help.DefaultDarkStyles()
	meter := progress.New(
		progress.WithWidth(term.MarkerWidth+2),
		progress.WithColors(theme.meterFrom, theme.meterTo),
		progress.WithoutPercentage(),
	)
	return &Play{
		theme: theme,
		ctrl:  ctrl,
		sched: sched,
		help:  h,
		meter: meter,
		fps:   max(1, fps),
		cols:  80,
	}
}

func (p *Play) Init() tea.Cmd {
	p.started = time.Now()
	p.ctrl.Start()
	return tea.Batch(p.sched.Commands(), frameTickCmd(p.fps))
}

func (p *Play) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.cols = msg.Width
		p.help.SetWidth(msg.Width)
	case applyMsg:
		if msg.fn != nil {
			msg.fn()
		}
	case schedule.FireMsg:
		msg.Run()
	case frameMsg:
		cmds = append(cmds, frameTickCmd(p.fps))
	case tea.KeyPressMsg:
		p.handleKey(msg)
	}
	return p, p.next(cmds...)
}

func (p *Play) next(cmds ...tea.Cmd) tea.Cmd {
	pending := p.sched.Commands()
	if p.Finished() {
		return tea.Quit
	}
	return tea.Batch(append(cmds, pending)...)
}

func (p *Play) handleKey(msg tea.KeyPressMsg) {
	act, ok := p.keymap().Decode(msg)
	if !ok {
		return
	}
	if act.Quit {
		p.ctrl.Exit()
		return
	}
	p.ctrl.Submit(act.Input)
}

func (p *Play) keymap() term.VariantKeys {
	e := p.ctrl.Engine()
	size := 0
	if pe, ok := e.(*round.PatternEngine); ok {
		size = pe.Pattern().GridSize
	}
	return term.NewKeymap(e.Variant(), size)
}

// Finished reports whether the session has ended.
func (p *Play) Finished() bool {
	select {
	case <-p.ctrl.Done():
		return true
	default:
		return false
	}
}

func (p *Play) View() tea.View {
	v := tea.NewView(p.render())
	v.AltScreen = true
	return v
}

func (p *Play) render() string {
	lines := term.Frame(p.ctrl.Engine())
	width := max(1, p.cols)
	board := p.theme.Panel.Render(strings.Join(lines[2:], "\n"))
	status := fmt.Sprintf("elapsed %s", p.elapsed().Truncate(100*time.Millisecond))
	return lipgloss.JoinVertical(lipgloss.Left,
		p.theme.Header.Width(width).Render(lines[0]),
		board,
		p.meter.ViewAs(meterPercent(p.ctrl.Engine())),
		p.theme.Muted.Render(status),
		p.help.View(p.keymap()),
	)
}

func (p *Play) elapsed() time.Duration {
	if p.started.IsZero() {
		return 0
	}
	return time.Since(p.started)
}

// Run drives the program until the session finishes. Cancelling ctx exits
// the session through Update, so play time is still recorded.
func (p *Play) Run(ctx context.Context, opts ...tea.ProgramOption) error {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return nil
	}
	prog := tea.NewProgram(p, opts...)
	p.program = prog
	p.running = true
	p.mu.Unlock()

	stop := context.AfterFunc(ctx, func() { p.apply(p.ctrl.Exit) })
	defer stop()
	_, err := prog.Run()

	p.mu.Lock()
	p.program = nil
	p.running = false
	p.mu.Unlock()
	return err
}

// apply queues fn on the program goroutine. It is dropped once the program
// has stopped; the caller then owns the session.
func (p *Play) apply(fn func()) {
	p.mu.Lock()
	prog := p.program
	running := p.running
	p.mu.Unlock()
	if !running || prog == nil {
		return
	}
	prog.Send(applyMsg{fn: fn})
}

// meterPercent is the marker position for Timing, the share of the sequence
// entered for PatternMemory and the move budget left for GridRouting.
func meterPercent(e round.Engine) float64 {
	switch e := e.(type) {
	case *round.TimingEngine:
		return e.LiveProgress()
	case *round.PatternEngine:
		if n := len(e.Pattern().Sequence); n > 0 {
			return float64(e.Entered()) / float64(n)
		}
	case *round.GridEngine:
		if budget := e.Grid().MoveBudget; budget > 0 {
			return float64(e.MovesRemaining()) / float64(budget)
		}
	}
	return 0
}

func frameTickCmd(fps int) tea.Cmd {
	return tea.Tick(time.Second/time.Duration(fps), func(t time.Time) tea.Msg { return frameMsg(t) })
}

var _ tea.Model = (*Play)(nil)
