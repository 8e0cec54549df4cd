package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/amaumene/videosync/internal/models"
)

const defaultRecentRuns = 10

// PostCounter reports the number of stored posts
type PostCounter interface {
	CountPosts(ctx context.Context) (int64, error)
}

// StatusHandler reports the run journal
type StatusHandler struct {
	db      *models.Database
	posts   PostCounter
	trigger Trigger
	logger  *logrus.Logger
}

// NewStatusHandler creates a new status handler
func NewStatusHandler(db *models.Database, posts PostCounter, trigger Trigger, logger *logrus.Logger) *StatusHandler {
	return &StatusHandler{
		db:      db,
		posts:   posts,
		trigger: trigger,
		logger:  logger,
	}
}

// RunSummary is one journal entry in the status response
type RunSummary struct {
	ID         string          `json:"id"`
	Status     string          `json:"status"`
	Origins    []models.Origin `json:"origins"`
	Created    int             `json:"created"`
	Updated    int             `json:"updated"`
	Skipped    int             `json:"skipped"`
	Failed     int             `json:"failed"`
	Error      string          `json:"error,omitempty"`
	StartedAt  time.Time       `json:"started_at"`
	FinishedAt *time.Time      `json:"finished_at,omitempty"`
}

// StatusResponse represents the status response
type StatusResponse struct {
	Running        bool           `json:"running"`
	Posts          int64          `json:"posts"`
	VideosByOrigin map[string]int `json:"videos_by_origin"`
	Runs           []RunSummary   `json:"runs"`
	ByState        map[string]int `json:"runs_by_status"`
}

// Handle serves the status endpoint; ?limit=n bounds the run list
func (h *StatusHandler) Handle(c *gin.Context) {
	limit := defaultRecentRuns
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = n
	}

	runs, err := h.db.RecentRuns(limit)
	if err != nil {
		h.logger.WithError(err).Error("Failed to get runs")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	posts, err := h.posts.CountPosts(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to count posts")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	response := StatusResponse{
		Running:        h.trigger.Running(),
		Posts:          posts,
		VideosByOrigin: make(map[string]int),
		Runs:           make([]RunSummary, 0, len(runs)),
		ByState:        make(map[string]int),
	}

	for _, origin := range models.Origins() {
		links, err := h.db.GetLinksByOrigin(origin)
		if err != nil {
			h.logger.WithError(err).WithField("origin", origin).Error("Failed to get links")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
		if len(links) > 0 {
			response.VideosByOrigin[string(origin)] = len(links)
		}
	}
	for _, run := range runs {
		response.ByState[string(run.Status)]++
		response.Runs = append(response.Runs, RunSummary{
			ID:         run.ID,
			Status:     string(run.Status),
			Origins:    run.Origins,
			Created:    run.Created,
			Updated:    run.Updated,
			Skipped:    run.Skipped,
			Failed:     run.Failed,
			Error:      run.Error,
			StartedAt:  run.StartedAt,
			FinishedAt: run.FinishedAt,
		})
	}

	c.JSON(http.StatusOK, response)
}
