package service

import (
	"context"
	"sync"
	"time"

	"github.com/offsync/offsync/internal/logger"
)

type syncJob struct {
	syncService SyncService
	log         *logger.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewSyncJob creates a background job that pushes pending operations on a
// ticker. The job is idle until Start is called.
func NewSyncJob(syncService SyncService, log *logger.Logger) SyncJob {
	return &syncJob{
		syncService: syncService,
		log:         log.Component("sync-job"),
	}
}

// Start implements SyncJob. It stops any previously running job, then
// launches a goroutine that pushes every interval. If interval is zero or
// negative it defaults to 5 minutes. The goroutine exits when ctx is
// cancelled or Stop is called.
func (j *syncJob) Start(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	j.Stop()

	j.mu.Lock()
	jobCtx, cancel := context.WithCancel(ctx)
	j.cancel = cancel
	j.wg.Add(1)
	j.mu.Unlock()

	go func() {
		defer j.wg.Done()
		t := time.NewTicker(interval)
		defer t.Stop()

		for {
			select {
			case <-jobCtx.Done():
				return
			case <-t.C:
				j.push(jobCtx)
			}
		}
	}()
}

// Stop implements SyncJob. It cancels the background goroutine's context and
// blocks until the goroutine has fully exited. Safe to call when the job is
// not running (no-op in that case).
func (j *syncJob) Stop() {
	j.mu.Lock()
	cancel := j.cancel
	j.cancel = nil
	j.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	j.wg.Wait()
}

func (j *syncJob) push(ctx context.Context) {
	results, err := j.syncService.Push(ctx, nil)
	if err != nil {
		j.log.Warn().Err(err).Msg("background push failed")
		return
	}

	failed := 0
	for _, result := range results {
		if result.Err != nil {
			failed++
		}
	}
	j.log.Info().
		Int("pushed", len(results)-failed).
		Int("failed", failed).
		Msg("background push finished")
}
