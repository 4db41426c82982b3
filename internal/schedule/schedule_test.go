package schedule

import (
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
)

func TestManualRunsTasksInOrder(t *testing.T) {
	m := NewManual()
	var got []string
	m.After(30*time.Millisecond, func() { got = append(got, "c") })
	m.After(10*time.Millisecond, func() { got = append(got, "a") })
	m.After(10*time.Millisecond, func() { got = append(got, "b") })

	m.Advance(20 * time.Millisecond)
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("unexpected order after 20ms: %v", got)
	}
	if m.Now() != 20*time.Millisecond {
		t.Fatalf("expected clock at 20ms, got %s", m.Now())
	}
	m.Advance(10 * time.Millisecond)
	if len(got) != 3 || got[2] != "c" {
		t.Fatalf("expected c to run at 30ms, got %v", got)
	}
}

func TestManualCancel(t *testing.T) {
	m := NewManual()
	ran := false
	h := m.After(5*time.Millisecond, func() { ran = true })
	if !h.Cancel() {
		t.Fatalf("first cancel should succeed")
	}
	if h.Cancel() {
		t.Fatalf("second cancel should report false")
	}
	m.Advance(time.Second)
	if ran {
		t.Fatalf("cancelled task ran")
	}
	if m.Pending() != 0 {
		t.Fatalf("expected no pending tasks, got %d", m.Pending())
	}
}

func TestManualChainedTasksWithinWindow(t *testing.T) {
	m := NewManual()
	ticks := 0
	var tick func()
	tick = func() {
		ticks++
		m.After(10*time.Millisecond, tick)
	}
	m.After(10*time.Millisecond, tick)
	m.Advance(55 * time.Millisecond)
	if ticks != 5 {
		t.Fatalf("expected 5 ticks, got %d", ticks)
	}
	done := m.After(0, func() {})
	m.Advance(0)
	if done.Cancel() {
		t.Fatalf("cancel after run should report false")
	}
}

func TestManualRunUntilIdle(t *testing.T) {
	m := NewManual()
	count := 0
	m.After(time.Second, func() {
		count++
		m.After(time.Second, func() { count++ })
	})
	used := m.RunUntilIdle(time.Minute)
	if count != 2 || used != 2*time.Second {
		t.Fatalf("expected 2 tasks over 2s, got %d over %s", count, used)
	}
}

func TestProgramRunsTicksThroughFireMsg(t *testing.T) {
	p := NewProgram()
	ran := 0
	p.After(time.Millisecond, func() { ran++ })
	cmd := p.Commands()
	if cmd == nil {
		t.Fatalf("expected a pending tick")
	}
	msg, ok := cmd().(FireMsg)
	if !ok {
		t.Fatalf("expected FireMsg")
	}
	if !msg.Run() || ran != 1 {
		t.Fatalf("expected tick to run once, ran %d", ran)
	}
	if msg.Run() || ran != 1 {
		t.Fatalf("tick ran twice")
	}
	if p.Commands() != nil {
		t.Fatalf("expected queue to be drained")
	}
	if p.Now() <= 0 {
		t.Fatalf("expected program clock to advance")
	}
}

func TestProgramCancelledTickIsDropped(t *testing.T) {
	p := NewProgram()
	h := p.After(time.Millisecond, func() { t.Fatalf("cancelled tick ran") })
	if !h.Cancel() {
		t.Fatalf("cancel pending tick")
	}
	if h.Cancel() {
		t.Fatalf("second cancel should report false")
	}
	msg, ok := p.Commands()().(FireMsg)
	if !ok {
		t.Fatalf("expected FireMsg")
	}
	if msg.Run() {
		t.Fatalf("cancelled tick reported running")
	}
}

func TestProgramBatchesPendingTicks(t *testing.T) {
	p := NewProgram()
	p.After(time.Millisecond, func() {})
	p.After(2*time.Millisecond, func() {})
	batch, ok := p.Commands()().(tea.BatchMsg)
	if !ok || len(batch) != 2 {
		t.Fatalf("expected a batch of 2 ticks, got %#v", batch)
	}
}
