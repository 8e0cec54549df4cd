package progress

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// SSESink streams events as server-sent events on a gin response
type SSESink struct {
	c *gin.Context
}

// NewSSESink prepares the response headers for a persistent event stream
func NewSSESink(c *gin.Context) *SSESink {
	h := c.Writer.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	c.Status(200)
	return &SSESink{c: c}
}

// Emit writes one event; the payload is JSON-encoded
func (s *SSESink) Emit(event string, payload any) error {
	if err := s.c.Request.Context().Err(); err != nil {
		return err
	}
	s.c.SSEvent(event, payload)
	return nil
}

// Flush pushes the buffered events. It reports a gone subscriber.
func (s *SSESink) Flush() error {
	s.c.Writer.Flush()
	return s.c.Request.Context().Err()
}

// wsWriteTimeout bounds a single frame write
const wsWriteTimeout = 10 * time.Second

// WSMessage is the frame written by WSSink
type WSMessage struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// WSSink writes events as JSON text frames on a websocket connection
type WSSink struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

// NewWSSink wraps an upgraded connection
func NewWSSink(conn *websocket.Conn) *WSSink {
	return &WSSink{conn: conn}
}

// Emit writes one frame
func (s *WSSink) Emit(event string, payload any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout)); err != nil {
		return err
	}
	return s.conn.WriteJSON(WSMessage{Event: event, Data: payload})
}

// Flush is a no-op: every frame is written immediately
func (s *WSSink) Flush() error {
	return nil
}

// LogSink reports events through the logger for runs without a subscriber
type LogSink struct {
	logger *logrus.Entry
}

// NewLogSink creates a sink logging with the given fields
func NewLogSink(logger *logrus.Logger, fields logrus.Fields) *LogSink {
	return &LogSink{logger: logger.WithFields(fields)}
}

// Emit logs one event
func (s *LogSink) Emit(event string, payload any) error {
	switch p := payload.(type) {
	case Snapshot:
		entry := s.logger.WithFields(logrus.Fields{
			"event":    event,
			"progress": p.Progress,
			"step":     p.CurrentStep,
			"steps":    p.TotalSteps,
			"ready":    p.ReadyStepTasks,
			"tasks":    p.StepTasks,
		})
		if event == EventProgress {
			entry.Debug("Sync progress")
		} else {
			entry.Info("Sync " + event)
		}
	case ErrorPayload:
		s.logger.WithFields(logrus.Fields{
			"event": event,
			"code":  p.Code,
		}).Error(p.Message)
	default:
		s.logger.WithField("event", event).Info("Sync event")
	}
	return nil
}

// Flush is a no-op
func (s *LogSink) Flush() error {
	return nil
}

// MultiSink fans events out to several sinks; the first error wins
type MultiSink []Sink

// Emit writes to every sink
func (m MultiSink) Emit(event string, payload any) error {
	var first error
	for _, s := range m {
		if err := s.Emit(event, payload); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Flush flushes every sink
func (m MultiSink) Flush() error {
	var first error
	for _, s := range m {
		if err := s.Flush(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
