package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/amaumene/videosync/internal/controllers"
	"github.com/amaumene/videosync/internal/models"
	"github.com/amaumene/videosync/internal/progress"
)

// ErrRunInProgress is returned when a run is requested while another one is active
var ErrRunInProgress = errors.New("a sync run is already in progress")

// Runner executes synchronization runs
type Runner interface {
	Run(ctx context.Context, req controllers.SyncRequest, ch *progress.Channel) (*models.SyncRun, error)
}

// Scheduler triggers runs on a cron schedule and guards against concurrent
// runs, whether started by cron or on demand
type Scheduler struct {
	cron     *cron.Cron
	runner   Runner
	request  controllers.SyncRequest
	schedule string
	logger   *logrus.Logger

	mu      sync.Mutex
	running bool
	ctx     context.Context
	cancel  context.CancelFunc
}

// NewScheduler creates a new scheduler
func NewScheduler(runner Runner, schedule string, request controllers.SyncRequest, logger *logrus.Logger) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron:     cron.New(),
		runner:   runner,
		request:  request,
		schedule: schedule,
		logger:   logger,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start starts the scheduler and runs an initial sync in the background
func (s *Scheduler) Start() error {
	s.logger.WithField("schedule", s.schedule).Info("Starting scheduler")

	_, err := s.cron.AddFunc(s.schedule, func() {
		s.runSync()
	})
	if err != nil {
		return fmt.Errorf("failed to add sync job: %w", err)
	}

	s.cron.Start()
	s.logger.Info("Scheduler started")

	go s.runSync()

	return nil
}

// Stop stops the scheduler and cancels the active run
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping scheduler")
	s.cancel()
	<-s.cron.Stop().Done()
}

// Request returns the default run request
func (s *Scheduler) Request() controllers.SyncRequest {
	return s.request
}

// Running reports whether a run is active
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Trigger runs req on ch unless another run is active. It blocks until the
// run finishes; ctx cancellation (a subscriber going away) stops the run.
func (s *Scheduler) Trigger(ctx context.Context, req controllers.SyncRequest, ch *progress.Channel) (*models.SyncRun, error) {
	if !s.acquire() {
		return nil, ErrRunInProgress
	}
	defer s.release()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(s.ctx, cancel)
	defer stop()

	return s.runner.Run(ctx, req, ch)
}

// runSync executes the scheduled sync job with progress going to the log
func (s *Scheduler) runSync() {
	s.logger.Info("Running scheduled sync")

	ch := progress.NewChannel(progress.NewLogSink(s.logger, logrus.Fields{"trigger": "cron"}))
	run, err := s.Trigger(s.ctx, s.request, ch)
	switch {
	case errors.Is(err, ErrRunInProgress):
		s.logger.Warn("Previous sync still running, skipping")
	case err != nil:
		s.logger.WithError(err).Error("Sync job failed")
	default:
		s.logger.WithField("run_id", run.ID).Info("Sync job completed successfully")
	}
}

func (s *Scheduler) acquire() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return false
	}
	s.running = true
	return true
}

func (s *Scheduler) release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = false
}
