package service

import (
	"context"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"github.com/offsync/offsync/internal/logger"
	"github.com/offsync/offsync/internal/mock"
	"github.com/offsync/offsync/models"
)

func TestSyncJob_StartPushesOnTicker(t *testing.T) {
	syncSvc := mock.NewMockSyncService(gomock.NewController(t))
	pushed := make(chan struct{}, 16)
	syncSvc.EXPECT().
		Push(gomock.Any(), gomock.Nil()).
		DoAndReturn(func(context.Context, *models.Query) ([]models.SyncResult, error) {
			pushed <- struct{}{}
			return []models.SyncResult{}, nil
		}).
		MinTimes(1)

	job := NewSyncJob(syncSvc, logger.Nop())
	job.Start(context.Background(), 10*time.Millisecond)
	defer job.Stop()

	select {
	case <-pushed:
	case <-time.After(2 * time.Second):
		t.Fatal("background push never ran")
	}
}

func TestSyncJob_StopTerminatesTheGoroutine(t *testing.T) {
	syncSvc := mock.NewMockSyncService(gomock.NewController(t))
	syncSvc.EXPECT().
		Push(gomock.Any(), gomock.Nil()).
		Return([]models.SyncResult{}, nil).
		AnyTimes()

	job := NewSyncJob(syncSvc, logger.Nop())
	job.Start(context.Background(), time.Millisecond)
	job.Stop()

	// stopping an idle job is a no-op
	job.Stop()
}

func TestSyncJob_RestartReplacesThePreviousRun(t *testing.T) {
	syncSvc := mock.NewMockSyncService(gomock.NewController(t))
	syncSvc.EXPECT().
		Push(gomock.Any(), gomock.Nil()).
		Return(nil, context.Canceled).
		AnyTimes()

	job := NewSyncJob(syncSvc, logger.Nop())
	job.Start(context.Background(), time.Millisecond)
	job.Start(context.Background(), time.Millisecond)
	job.Stop()
}

func TestSyncJob_ParentContextCancellation(t *testing.T) {
	syncSvc := mock.NewMockSyncService(gomock.NewController(t))
	syncSvc.EXPECT().
		Push(gomock.Any(), gomock.Nil()).
		Return([]models.SyncResult{}, nil).
		AnyTimes()

	ctx, cancel := context.WithCancel(context.Background())
	job := NewSyncJob(syncSvc, logger.Nop())
	job.Start(ctx, time.Millisecond)

	cancel()

	// Stop still returns promptly after the context already stopped
	// the goroutine
	done := make(chan struct{})
	go func() {
		job.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return after context cancellation")
	}
}
