package service

import "time"

// Task is a handle on a recurring scheduled callback
type Task interface {
	// Cancel stops future invocations. Calling it more than once is a no-op.
	Cancel()
}

// Scheduler is the clock abstraction every timed component depends on
type Scheduler interface {
	// Now returns the current wall-clock time
	Now() time.Time

	// Every invokes fn once per interval until the returned task is cancelled.
	// The first invocation happens one interval after the call.
	Every(interval time.Duration, fn func()) Task
}
