package schedule

import (
	"container/heap"
	"time"
)

// Manual is a virtual-time scheduler. Tasks run on the goroutine that calls
// Advance, in due-time order, ties broken by scheduling order.
type Manual struct {
	now   time.Duration
	seq   uint64
	queue taskQueue
}

func NewManual() *Manual { return &Manual{} }

func (m *Manual) Now() time.Duration { return m.now }

func (m *Manual) After(d time.Duration, fn func()) Handle {
	if d < 0 {
		d = 0
	}
	m.seq++
	t := &task{at: m.now + d, seq: m.seq, fn: fn}
	heap.Push(&m.queue, t)
	return t
}

// Advance moves the clock forward by d, running every task that falls due.
// Tasks scheduled by running tasks are honoured if they fall inside the window.
func (m *Manual) Advance(d time.Duration) {
	target := m.now + d
	for {
		t := m.next(target)
		if t == nil {
			break
		}
		m.now = t.at
		t.done = true
		t.fn()
	}
	m.now = target
}

// RunUntilIdle advances until no tasks remain or limit elapses. It returns
// the virtual time consumed.
func (m *Manual) RunUntilIdle(limit time.Duration) time.Duration {
	start := m.now
	deadline := m.now + limit
	for {
		t := m.next(deadline)
		if t == nil {
			break
		}
		m.now = t.at
		t.done = true
		t.fn()
	}
	return m.now - start
}

// Pending reports the number of live tasks.
func (m *Manual) Pending() int {
	n := 0
	for _, t := range m.queue {
		if !t.cancelled {
			n++
		}
	}
	return n
}

func (m *Manual) next(limit time.Duration) *task {
	for m.queue.Len() > 0 {
		t := m.queue[0]
		if t.cancelled {
			heap.Pop(&m.queue)
			continue
		}
		if t.at > limit {
			return nil
		}
		heap.Pop(&m.queue)
		return t
	}
	return nil
}

type task struct {
	at        time.Duration
	seq       uint64
	fn        func()
	cancelled bool
	done      bool
}

func (t *task) Cancel() bool {
	if t.cancelled || t.done {
		return false
	}
	t.cancelled = true
	return true
}

type taskQueue []*task

func (q taskQueue) Len() int { return len(q) }

func (q taskQueue) Less(i, j int) bool {
	if q[i].at == q[j].at {
		return q[i].seq < q[j].seq
	}
	return q[i].at < q[j].at
}

func (q taskQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *taskQueue) Push(x any) { *q = append(*q, x.(*task)) }

func (q *taskQueue) Pop() any {
	old := *q
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return t
}
