package workers

import (
	"context"
	"time"
)

// Workers aggregates background workers so callers start and stop them as
// one unit.
type Workers struct {
	workers []Worker
}

func New(workers ...Worker) *Workers {
	return &Workers{workers: workers}
}

// Run starts every worker in registration order.
func (w *Workers) Run(ctx context.Context) {
	for _, worker := range w.workers {
		worker.Run(ctx)
	}
}

// Stop stops the workers in reverse registration order, so later workers
// that depend on earlier ones go down first.
func (w *Workers) Stop() {
	for i := len(w.workers) - 1; i >= 0; i-- {
		w.workers[i].Stop()
	}
}

// syncJob is the subset of the sync engine's background job the worker
// wrapper needs.
type syncJob interface {
	Start(ctx context.Context, interval time.Duration)
	Stop()
}

type syncWorker struct {
	job      syncJob
	interval time.Duration
}

// NewSyncWorker adapts the periodic push job to the Worker interface with a
// fixed interval.
func NewSyncWorker(job syncJob, interval time.Duration) Worker {
	return &syncWorker{job: job, interval: interval}
}

func (w *syncWorker) Run(ctx context.Context) {
	w.job.Start(ctx, w.interval)
}

func (w *syncWorker) Stop() {
	w.job.Stop()
}
