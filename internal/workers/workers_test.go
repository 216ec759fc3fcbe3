package workers

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// fakeWorker records its start and stop order in a shared trace.
type fakeWorker struct {
	name  string
	trace *[]string
}

func (w *fakeWorker) Run(ctx context.Context) {
	*w.trace = append(*w.trace, w.name+":run")
}

func (w *fakeWorker) Stop() {
	*w.trace = append(*w.trace, w.name+":stop")
}

func TestWorkers_RunAndStopOrder(t *testing.T) {
	var trace []string
	ws := New(
		&fakeWorker{name: "first", trace: &trace},
		&fakeWorker{name: "second", trace: &trace},
	)

	ws.Run(context.Background())
	ws.Stop()

	assert.Equal(t, []string{"first:run", "second:run", "second:stop", "first:stop"}, trace)
}

func TestWorkers_Empty(t *testing.T) {
	ws := New()
	ws.Run(context.Background())
	ws.Stop()
}

type fakeJob struct {
	started  bool
	stopped  bool
	interval time.Duration
}

func (j *fakeJob) Start(ctx context.Context, interval time.Duration) {
	j.started = true
	j.interval = interval
}

func (j *fakeJob) Stop() { j.stopped = true }

func TestSyncWorker(t *testing.T) {
	job := &fakeJob{}
	w := NewSyncWorker(job, time.Minute)

	w.Run(context.Background())
	assert.True(t, job.started)
	assert.Equal(t, time.Minute, job.interval)

	w.Stop()
	assert.True(t, job.stopped)
}
