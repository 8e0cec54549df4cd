package controllers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/amaumene/videosync/internal/categories"
	"github.com/amaumene/videosync/internal/metrics"
	"github.com/amaumene/videosync/internal/models"
	"github.com/amaumene/videosync/internal/normalize"
	"github.com/amaumene/videosync/internal/progress"
	"github.com/amaumene/videosync/internal/services/providers"
	"github.com/amaumene/videosync/internal/synth"
	"github.com/amaumene/videosync/internal/utils"
)

const tracerName = "github.com/amaumene/videosync/internal/controllers"

var errInterrupted = errors.New("run interrupted by process exit")

// Clients maps each configured origin to its provider client
type Clients map[models.Origin]providers.Client

// PostStore persists posts in their flat storage shape
type PostStore interface {
	SavePost(ctx context.Context, record map[string]any) (string, error)
	LoadPost(ctx context.Context, id string) (map[string]any, error)
}

// SyncRequest selects what a run synchronizes
type SyncRequest struct {
	Origins []models.Origin
	Limit   int // records per origin, 0 means provider default
}

// SyncController runs provider records through normalization and synthesis
// into post storage
type SyncController struct {
	db          *models.Database
	clients     Clients
	store       PostStore
	synthesizer *synth.Synthesizer
	blacklist   *utils.Blacklist
	metrics     *metrics.Metrics
	tracer      trace.Tracer
	logger      *logrus.Logger
}

// NewSyncController creates a new sync controller
func NewSyncController(
	db *models.Database,
	clients Clients,
	store PostStore,
	synthesizer *synth.Synthesizer,
	blacklist *utils.Blacklist,
	m *metrics.Metrics,
	logger *logrus.Logger,
) *SyncController {
	if blacklist == nil {
		blacklist = utils.NewBlacklist()
	}
	return &SyncController{
		db:          db,
		clients:     clients,
		store:       store,
		synthesizer: synthesizer,
		blacklist:   blacklist,
		metrics:     m,
		tracer:      otel.Tracer(tracerName),
		logger:      logger,
	}
}

// Run executes one synchronization run, one progress step per origin. The
// channel is opened here and always closed before returning: with the run
// error as a terminal error event, or with the final 100% snapshot.
func (c *SyncController) Run(ctx context.Context, req SyncRequest, ch *progress.Channel) (*models.SyncRun, error) {
	ctx, span := c.tracer.Start(ctx, "sync.run", trace.WithAttributes(
		attribute.Int("sync.origins", len(req.Origins)),
		attribute.Int("sync.limit", req.Limit),
	))
	defer span.End()

	if err := ch.Open(); err != nil {
		return nil, err
	}

	if err := c.checkOrigins(req.Origins); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.closeChannel(ch, err)
		return nil, err
	}

	run := &models.SyncRun{
		ID:      uuid.NewString(),
		Status:  models.RunStatusRunning,
		Origins: req.Origins,
	}
	if err := c.db.CreateRun(run); err != nil {
		err = fmt.Errorf("failed to record run: %w", err)
		c.closeChannel(ch, err)
		return nil, err
	}
	span.SetAttributes(attribute.String("sync.run_id", run.ID))

	log := c.logger.WithField("run_id", run.ID)
	log.WithField("origins", req.Origins).Info("Starting sync run")

	c.metrics.Running.Set(1)
	defer c.metrics.Running.Set(0)
	start := time.Now()

	runErr := c.runSteps(ctx, req, run, ch)
	c.metrics.RunDuration.Observe(time.Since(start).Seconds())

	status := models.RunStatusCompleted
	switch {
	case errors.Is(runErr, context.Canceled), errors.Is(runErr, context.DeadlineExceeded):
		status = models.RunStatusCancelled
	case runErr != nil:
		status = models.RunStatusFailed
	}
	c.metrics.Runs.WithLabelValues(string(status)).Inc()

	if err := c.db.FinishRun(run, status, runErr); err != nil {
		log.WithError(err).Error("Failed to record run result")
	}

	if runErr != nil {
		span.RecordError(runErr)
		span.SetStatus(codes.Error, runErr.Error())
	}
	c.closeChannel(ch, runErr)

	log.WithFields(logrus.Fields{
		"status":  status,
		"created": run.Created,
		"updated": run.Updated,
		"skipped": run.Skipped,
		"failed":  run.Failed,
	}).Info("Sync run finished")

	return run, runErr
}

// RecoverInterrupted marks runs left in the running state by a previous
// process as failed
func (c *SyncController) RecoverInterrupted() error {
	runs, err := c.db.GetRunsByStatus(models.RunStatusRunning)
	if err != nil {
		return fmt.Errorf("failed to list running runs: %w", err)
	}

	for _, run := range runs {
		if err := c.db.FinishRun(run, models.RunStatusFailed, errInterrupted); err != nil {
			return fmt.Errorf("failed to close run %s: %w", run.ID, err)
		}
		c.logger.WithField("run_id", run.ID).Warn("Marked interrupted run as failed")
	}
	return nil
}

// Preview synthesizes posts for an origin without persisting anything.
// Categories are resolved in memory.
func (c *SyncController) Preview(ctx context.Context, origin models.Origin, limit int) ([]*models.Post, error) {
	if err := c.checkOrigins([]models.Origin{origin}); err != nil {
		return nil, err
	}

	records, err := c.clients[origin].Fetch(ctx, providers.Query{Limit: limit})
	if err != nil {
		return nil, err
	}

	var posts []*models.Post
	for _, raw := range records {
		video, err := normalize.Normalize(origin, raw)
		if err != nil {
			c.logger.WithError(err).WithField("origin", origin).Warn("Skipping malformed record")
			continue
		}
		post, err := c.synthesizer.FromVideo(ctx, video, categories.ModeInMemory)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, nil
}

func (c *SyncController) checkOrigins(origins []models.Origin) error {
	if len(origins) == 0 {
		return fmt.Errorf("no origins to synchronize: %w", models.ErrInvalidArgument)
	}
	for _, origin := range origins {
		if _, ok := c.clients[origin]; !ok {
			return fmt.Errorf("origin %q is not configured: %w", origin, models.ErrInvalidArgument)
		}
	}
	return nil
}

func (c *SyncController) runSteps(ctx context.Context, req SyncRequest, run *models.SyncRun, ch *progress.Channel) error {
	if err := ch.SetTotalSteps(len(req.Origins)); err != nil {
		return err
	}

	for _, origin := range req.Origins {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := ch.NextStep(); err != nil {
			return err
		}
		if err := c.syncOrigin(ctx, origin, req.Limit, run, ch); err != nil {
			return err
		}
		if err := c.db.UpdateRun(run); err != nil {
			c.logger.WithError(err).WithField("run_id", run.ID).Warn("Failed to update run counters")
		}
	}
	return nil
}

// syncOrigin is one step: fetch the origin's records, then process them as
// the step's tasks
func (c *SyncController) syncOrigin(ctx context.Context, origin models.Origin, limit int, run *models.SyncRun, ch *progress.Channel) error {
	ctx, span := c.tracer.Start(ctx, "sync.origin", trace.WithAttributes(
		attribute.String("sync.origin", string(origin)),
	))
	defer span.End()

	log := c.logger.WithFields(logrus.Fields{
		"run_id": run.ID,
		"origin": origin,
	})

	fetchStart := time.Now()
	records, err := c.clients[origin].Fetch(ctx, providers.Query{Limit: limit})
	c.metrics.FetchDuration.WithLabelValues(string(origin)).Observe(time.Since(fetchStart).Seconds())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("fetching %s: %w", origin, err)
	}
	span.SetAttributes(attribute.Int("sync.records", len(records)))
	log.WithField("count", len(records)).Info("Fetched records")

	if err := ch.SetStepTasks(len(records)); err != nil {
		return err
	}

	for i, raw := range records {
		if err := ctx.Err(); err != nil {
			return err
		}

		result, err := c.syncRecord(ctx, origin, raw)
		c.metrics.Records.WithLabelValues(string(origin), result).Inc()
		switch result {
		case metrics.ResultCreated:
			run.Created++
		case metrics.ResultUpdated:
			run.Updated++
		case metrics.ResultSkipped:
			run.Skipped++
		case metrics.ResultFailed:
			run.Failed++
		}
		if err != nil {
			return err
		}

		if err := ch.SetReadyStepTasks(i + 1); err != nil {
			return err
		}
	}

	return nil
}

// syncRecord processes one raw record. Malformed records are counted as
// failed without aborting the run; synthesis and storage errors abort it.
func (c *SyncController) syncRecord(ctx context.Context, origin models.Origin, raw models.RawRecord) (string, error) {
	ctx, span := c.tracer.Start(ctx, "sync.record")
	defer span.End()

	video, err := normalize.Normalize(origin, raw)
	if err != nil {
		c.logger.WithError(err).WithField("origin", origin).Warn("Skipping malformed record")
		return metrics.ResultFailed, nil
	}
	span.SetAttributes(attribute.String("sync.video", video.Key()))

	log := c.logger.WithFields(logrus.Fields{
		"video": video.Key(),
		"title": video.Title,
	})

	if blocked, term := c.blacklist.IsBlacklisted(video.Title, video.TitleAlt); blocked {
		log.WithField("term", term).Debug("Video is blacklisted, skipping")
		return metrics.ResultSkipped, nil
	}

	settings := c.synthesizer.Settings()

	link, err := c.db.GetLink(video.Key())
	switch {
	case errors.Is(err, models.ErrNotFound):
		link = nil
	case err != nil:
		return metrics.ResultFailed, fmt.Errorf("reading journal: %w", err)
	}

	if link != nil && !settings.UpdateExisting {
		log.WithField("post_id", link.PostID).Debug("Video already synced, skipping")
		return metrics.ResultSkipped, nil
	}

	post, err := c.synthesizer.FromVideo(ctx, video, settings.Categories.Mode)
	if err != nil {
		span.RecordError(err)
		return metrics.ResultFailed, fmt.Errorf("synthesizing %s: %w", video.Key(), err)
	}

	result := metrics.ResultCreated
	if link != nil {
		stored, err := c.loadStored(ctx, link.PostID)
		if err != nil {
			return metrics.ResultFailed, err
		}
		if stored != nil {
			if post, err = synth.Merge(stored, post); err != nil {
				return metrics.ResultFailed, fmt.Errorf("merging %s into post %s: %w", video.Key(), link.PostID, err)
			}
			result = metrics.ResultUpdated
		} else {
			log.WithField("post_id", link.PostID).Warn("Linked post is gone, creating a new one")
		}
	}

	c.dropUnpersisted(post, log)

	record, err := synth.ToStorage(post)
	if err != nil {
		return metrics.ResultFailed, err
	}
	postID, err := c.store.SavePost(ctx, record)
	if err != nil {
		return metrics.ResultFailed, fmt.Errorf("saving post: %w", err)
	}

	if err := c.db.SaveLink(&models.VideoLink{
		Key:     video.Key(),
		Origin:  video.Origin,
		VideoID: video.ID,
		PostID:  postID,
	}); err != nil {
		return metrics.ResultFailed, fmt.Errorf("recording link: %w", err)
	}

	log.WithFields(logrus.Fields{
		"post_id": postID,
		"result":  result,
	}).Debug("Video synced")
	return result, nil
}

// loadStored returns the stored post, or nil when it no longer exists
func (c *SyncController) loadStored(ctx context.Context, postID string) (*models.Post, error) {
	record, err := c.store.LoadPost(ctx, postID)
	if errors.Is(err, models.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading post %s: %w", postID, err)
	}
	return c.synthesizer.FromStorage(ctx, record)
}

// dropUnpersisted removes categories that were resolved in memory only;
// the storage shape references categories by id.
func (c *SyncController) dropUnpersisted(post *models.Post, log *logrus.Entry) {
	kept := post.Categories[:0]
	for _, category := range post.Categories {
		if category.Persisted() {
			kept = append(kept, category)
			continue
		}
		log.WithField("category", category.Name).Warn("Category is not stored, leaving it out")
	}
	post.Categories = kept
}

func (c *SyncController) closeChannel(ch *progress.Channel, cause error) {
	if err := ch.Close(cause); err != nil {
		c.logger.WithError(err).Warn("Failed to close progress channel")
	}
}
