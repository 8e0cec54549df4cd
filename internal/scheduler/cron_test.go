package scheduler

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amaumene/videosync/internal/controllers"
	"github.com/amaumene/videosync/internal/models"
	"github.com/amaumene/videosync/internal/progress"
)

type blockingRunner struct {
	started chan struct{}
	release chan struct{}
}

func (r *blockingRunner) Run(ctx context.Context, req controllers.SyncRequest, ch *progress.Channel) (*models.SyncRun, error) {
	close(r.started)
	select {
	case <-r.release:
		return &models.SyncRun{ID: "run-1", Status: models.RunStatusCompleted}, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

type discardSink struct{}

func (discardSink) Emit(string, any) error { return nil }
func (discardSink) Flush() error           { return nil }

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestTrigger_SingleRun(t *testing.T) {
	runner := &blockingRunner{started: make(chan struct{}), release: make(chan struct{})}
	s := NewScheduler(runner, "@every 1h", controllers.SyncRequest{}, quietLogger())

	done := make(chan error, 1)
	go func() {
		_, err := s.Trigger(context.Background(), s.Request(), progress.NewChannel(discardSink{}))
		done <- err
	}()
	<-runner.started
	assert.True(t, s.Running())

	_, err := s.Trigger(context.Background(), s.Request(), progress.NewChannel(discardSink{}))
	assert.ErrorIs(t, err, ErrRunInProgress)

	close(runner.release)
	require.NoError(t, <-done)
	assert.False(t, s.Running())
}

func TestStop_CancelsActiveRun(t *testing.T) {
	runner := &blockingRunner{started: make(chan struct{}), release: make(chan struct{})}
	s := NewScheduler(runner, "@every 1h", controllers.SyncRequest{}, quietLogger())

	done := make(chan error, 1)
	go func() {
		_, err := s.Trigger(context.Background(), s.Request(), progress.NewChannel(discardSink{}))
		done <- err
	}()
	<-runner.started

	s.Stop()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("run was not cancelled")
	}
}

func TestStart_InvalidSchedule(t *testing.T) {
	s := NewScheduler(&blockingRunner{}, "not a schedule", controllers.SyncRequest{}, quietLogger())
	assert.Error(t, s.Start())
}
