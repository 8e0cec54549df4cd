package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/amaumene/videosync/internal/controllers"
	"github.com/amaumene/videosync/internal/models"
	"github.com/amaumene/videosync/internal/progress"
	"github.com/amaumene/videosync/internal/scheduler"
	"github.com/amaumene/videosync/internal/synth"
)

// Trigger starts a run on a progress channel
type Trigger interface {
	Trigger(ctx context.Context, req controllers.SyncRequest, ch *progress.Channel) (*models.SyncRun, error)
	Request() controllers.SyncRequest
	Running() bool
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// SyncHandler streams an on-demand run to its subscriber
type SyncHandler struct {
	trigger Trigger
	logger  *logrus.Logger
}

// NewSyncHandler creates a new sync handler
func NewSyncHandler(trigger Trigger, logger *logrus.Logger) *SyncHandler {
	return &SyncHandler{
		trigger: trigger,
		logger:  logger,
	}
}

// Stream runs a sync and pushes progress as server-sent events. The run is
// cancelled when the client disconnects.
func (h *SyncHandler) Stream(c *gin.Context) {
	req, ctx, ok := h.prepare(c)
	if !ok {
		return
	}

	ch := progress.NewChannel(progress.MultiSink{
		progress.NewSSESink(c),
		progress.NewLogSink(h.logger, logrus.Fields{"trigger": "sse"}),
	})
	h.run(ctx, req, ch)
}

// WebSocket runs a sync and pushes progress as JSON frames
func (h *SyncHandler) WebSocket(c *gin.Context) {
	req, ctx, ok := h.prepare(c)
	if !ok {
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.WithError(err).Warn("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// incoming frames are ignored; a read error means the client is gone
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ch := progress.NewChannel(progress.MultiSink{
		progress.NewWSSink(conn),
		progress.NewLogSink(h.logger, logrus.Fields{"trigger": "websocket"}),
	})
	h.run(ctx, req, ch)

	_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

func (h *SyncHandler) run(ctx context.Context, req controllers.SyncRequest, ch *progress.Channel) {
	run, err := h.trigger.Trigger(ctx, req, ch)
	if err != nil {
		h.logger.WithError(err).Warn("On-demand sync failed")
		// runs rejected before the channel opened still end with an error event
		if !ch.Opened() && ch.Open() == nil {
			_ = ch.Close(err)
		}
		return
	}
	h.logger.WithField("run_id", run.ID).Info("On-demand sync completed")
}

// prepare validates the query before any streaming starts
func (h *SyncHandler) prepare(c *gin.Context) (controllers.SyncRequest, context.Context, bool) {
	req, err := parseRequest(c, h.trigger.Request())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": models.ErrorCode(err)})
		return req, nil, false
	}
	if h.trigger.Running() {
		c.JSON(http.StatusConflict, gin.H{"error": scheduler.ErrRunInProgress.Error()})
		return req, nil, false
	}

	ctx := c.Request.Context()
	if author := strings.TrimSpace(c.Query("author")); author != "" {
		ctx = synth.WithAuthor(ctx, author)
	}
	return req, ctx, true
}

// parseRequest reads ?origins=a,b&limit=n over the defaults
func parseRequest(c *gin.Context, defaults controllers.SyncRequest) (controllers.SyncRequest, error) {
	req := defaults

	if raw := strings.TrimSpace(c.Query("origins")); raw != "" {
		req.Origins = nil
		for _, name := range strings.Split(raw, ",") {
			origin, err := models.ParseOrigin(strings.ToLower(strings.TrimSpace(name)))
			if err != nil {
				return req, err
			}
			req.Origins = append(req.Origins, origin)
		}
	}

	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return req, fmt.Errorf("limit %q: %w", raw, models.ErrInvalidArgument)
		}
		req.Limit = limit
	}

	if len(req.Origins) == 0 {
		return req, fmt.Errorf("no origins requested: %w", models.ErrInvalidArgument)
	}
	return req, nil
}
