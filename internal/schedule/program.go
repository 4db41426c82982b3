package schedule

import (
	"sync"
	"time"

	tea "charm.land/bubbletea/v2"
)

// Program schedules engine timers as Bubble Tea tick commands. After only
// queues the command; the model returns Commands from Update and runs the
// resulting FireMsg on the program goroutine.
type Program struct {
	start time.Time

	mu      sync.Mutex
	pending []tea.Cmd
}

func NewProgram() *Program {
	return &Program{start: time.Now()}
}

// Now is measured from a monotonic reading taken at construction.
func (p *Program) Now() time.Duration { return time.Since(p.start) }

func (p *Program) After(d time.Duration, fn func()) Handle {
	h := &tickHandle{}
	cmd := tea.Tick(max(0, d), func(time.Time) tea.Msg {
		return FireMsg{handle: h, fn: fn}
	})
	p.mu.Lock()
	p.pending = append(p.pending, cmd)
	p.mu.Unlock()
	return h
}

// Commands drains the ticks queued since the last call. It returns nil when
// nothing is pending.
func (p *Program) Commands() tea.Cmd {
	p.mu.Lock()
	cmds := p.pending
	p.pending = nil
	p.mu.Unlock()
	return tea.Batch(cmds...)
}

// FireMsg carries an elapsed timer back into Update.
type FireMsg struct {
	handle *tickHandle
	fn     func()
}

// Run invokes the callback unless its handle was cancelled. It reports
// whether the callback ran.
func (m FireMsg) Run() bool {
	if m.handle == nil || !m.handle.fire() {
		return false
	}
	m.fn()
	return true
}

// tickHandle cannot stop the underlying tea.Tick; a cancelled handle turns
// the eventual FireMsg into a no-op.
type tickHandle struct {
	mu        sync.Mutex
	cancelled bool
	fired     bool
}

func (h *tickHandle) Cancel() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.cancelled || h.fired {
		return false
	}
	h.cancelled = true
	return true
}

func (h *tickHandle) fire() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.cancelled || h.fired {
		return false
	}
	h.fired = true
	return true
}
