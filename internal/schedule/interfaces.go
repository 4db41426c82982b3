// Package schedule provides cooperative, single-threaded task scheduling for
// round engines. Every delayed callback returns a Handle that can be
// cancelled before it fires.
package schedule

import "time"

type Scheduler interface {
	// After runs fn once d has elapsed on the scheduler's clock.
	After(d time.Duration, fn func()) Handle
	// Now reports the scheduler's monotonic clock.
	Now() time.Duration
}

type Handle interface {
	// Cancel stops the task. It reports false when the task already ran or
	// was already cancelled.
	Cancel() bool
}
