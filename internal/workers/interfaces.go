// Package workers manages the engine's background workers. It defines the
// Worker interface and a Workers aggregate that starts and stops a set of
// workers as one unit.
package workers

import "context"

// Worker is a long-running background task. Run must not block: it launches
// the worker's goroutines and returns, leaving ctx cancellation and Stop as
// the two ways to terminate them.
type Worker interface {
	Run(ctx context.Context)

	// Stop terminates the worker and blocks until its goroutines have
	// exited. Safe to call on a worker that is not running.
	Stop()
}
