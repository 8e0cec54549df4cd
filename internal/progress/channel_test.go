package progress

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amaumene/videosync/internal/models"
)

type recordedEvent struct {
	name    string
	payload any
}

type recordingSink struct {
	events  []recordedEvent
	flushes int
	failing error
}

func (r *recordingSink) Emit(event string, payload any) error {
	if r.failing != nil {
		return r.failing
	}
	r.events = append(r.events, recordedEvent{event, payload})
	return nil
}

func (r *recordingSink) Flush() error {
	r.flushes++
	return nil
}

func (r *recordingSink) last() recordedEvent {
	return r.events[len(r.events)-1]
}

func openChannel(t *testing.T) (*Channel, *recordingSink) {
	t.Helper()
	sink := &recordingSink{}
	ch := NewChannel(sink)
	require.NoError(t, ch.Open())
	return ch, sink
}

func TestChannel_Example(t *testing.T) {
	ch, sink := openChannel(t)

	require.NoError(t, ch.SetTotalSteps(2))
	require.NoError(t, ch.SetCurrentStep(1))
	require.NoError(t, ch.SetStepTasks(300))
	require.NoError(t, ch.SetReadyStepTasks(150))

	assert.Equal(t, 25, ch.Percentage())
	last := sink.last()
	assert.Equal(t, EventProgress, last.name)
	assert.Equal(t, Snapshot{Progress: 25, TotalSteps: 2, CurrentStep: 1, StepTasks: 300, ReadyStepTasks: 150}, last.payload)
	assert.Len(t, sink.events, 5)
	assert.Equal(t, 5, sink.flushes)
}

func TestChannel_OpenTwice(t *testing.T) {
	ch, sink := openChannel(t)
	assert.Equal(t, EventOpen, sink.events[0].name)
	assert.ErrorIs(t, ch.Open(), models.ErrAlreadyConnected)
}

func TestChannel_NotConnected(t *testing.T) {
	ch := NewChannel(&recordingSink{})

	assert.ErrorIs(t, ch.SetTotalSteps(1), models.ErrNotConnected)
	assert.ErrorIs(t, ch.SetCurrentStep(0), models.ErrNotConnected)
	assert.ErrorIs(t, ch.SetStepTasks(1), models.ErrNotConnected)
	assert.ErrorIs(t, ch.SetReadyStepTasks(1), models.ErrNotConnected)
	assert.ErrorIs(t, ch.NextStep(), models.ErrNotConnected)
	assert.ErrorIs(t, ch.Close(nil), models.ErrNotConnected)
}

func TestChannel_NextStepOverflow(t *testing.T) {
	for _, total := range []int{0, 1, 3, 7} {
		t.Run(fmt.Sprint(total), func(t *testing.T) {
			ch, _ := openChannel(t)
			require.NoError(t, ch.SetTotalSteps(total))
			for i := 0; i < total; i++ {
				require.NoError(t, ch.NextStep())
			}
			assert.ErrorIs(t, ch.NextStep(), models.ErrOverflow)
			assert.Equal(t, total, ch.Snapshot().CurrentStep)
		})
	}
}

func TestChannel_NextStepResetsTasks(t *testing.T) {
	ch, _ := openChannel(t)
	require.NoError(t, ch.SetTotalSteps(2))
	require.NoError(t, ch.SetStepTasks(10))
	require.NoError(t, ch.SetReadyStepTasks(4))
	require.NoError(t, ch.NextStep())

	snap := ch.Snapshot()
	assert.Equal(t, 1, snap.CurrentStep)
	assert.Zero(t, snap.StepTasks)
	assert.Zero(t, snap.ReadyStepTasks)
}

func TestChannel_SetCurrentStepOverflow(t *testing.T) {
	ch, sink := openChannel(t)
	require.NoError(t, ch.SetTotalSteps(2))
	emitted := len(sink.events)

	assert.ErrorIs(t, ch.SetCurrentStep(3), models.ErrOverflow)
	assert.Len(t, sink.events, emitted)
	require.NoError(t, ch.SetCurrentStep(2))
}

func TestChannel_ReadyClamped(t *testing.T) {
	ch, _ := openChannel(t)
	require.NoError(t, ch.SetTotalSteps(1))
	require.NoError(t, ch.SetStepTasks(5))
	require.NoError(t, ch.SetReadyStepTasks(50))
	assert.Equal(t, 5, ch.Snapshot().ReadyStepTasks)

	require.NoError(t, ch.SetStepTasks(3))
	assert.Equal(t, 3, ch.Snapshot().ReadyStepTasks)
}

func TestChannel_MonotonicWithinStep(t *testing.T) {
	for _, total := range []int{1, 2, 3, 6, 9} {
		for current := 0; current <= total; current++ {
			ch, _ := openChannel(t)
			require.NoError(t, ch.SetTotalSteps(total))
			require.NoError(t, ch.SetCurrentStep(current))
			require.NoError(t, ch.SetStepTasks(37))

			prev := -1
			for ready := 0; ready <= 37; ready++ {
				require.NoError(t, ch.SetReadyStepTasks(ready))
				p := ch.Percentage()
				assert.GreaterOrEqual(t, p, prev, "total=%d current=%d ready=%d", total, current, ready)
				assert.LessOrEqual(t, p, 99)
				assert.GreaterOrEqual(t, p, 0)
				prev = p
			}
		}
	}
}

func TestChannel_ZeroSteps(t *testing.T) {
	ch, _ := openChannel(t)
	assert.Equal(t, 0, ch.Percentage())
}

func TestChannel_CloseSuccess(t *testing.T) {
	ch, sink := openChannel(t)
	require.NoError(t, ch.SetTotalSteps(1))
	require.NoError(t, ch.NextStep())
	require.NoError(t, ch.SetStepTasks(2))
	require.NoError(t, ch.SetReadyStepTasks(2))
	assert.Equal(t, 99, ch.Percentage())

	require.NoError(t, ch.Close(nil))
	last := sink.last()
	assert.Equal(t, EventClose, last.name)
	assert.Equal(t, 100, last.payload.(Snapshot).Progress)
	assert.False(t, ch.Connected())
	assert.ErrorIs(t, ch.SetTotalSteps(1), models.ErrNotConnected)
}

func TestChannel_CloseError(t *testing.T) {
	ch, sink := openChannel(t)

	require.NoError(t, ch.Close(fmt.Errorf("kodik: %w", models.ErrInvalidToken)))
	last := sink.last()
	assert.Equal(t, EventError, last.name)
	payload := last.payload.(ErrorPayload)
	assert.Contains(t, payload.Message, "kodik")
	assert.Equal(t, models.ErrorCode(models.ErrInvalidToken), payload.Code)
	assert.ErrorIs(t, ch.Close(nil), models.ErrNotConnected)
}

func TestChannel_Opened(t *testing.T) {
	ch := NewChannel(&recordingSink{})
	assert.False(t, ch.Opened())
	require.NoError(t, ch.Open())
	require.NoError(t, ch.Close(nil))
	assert.False(t, ch.Connected())
	assert.True(t, ch.Opened())
}

func TestChannel_SinkFailure(t *testing.T) {
	sink := &recordingSink{}
	ch := NewChannel(sink)
	require.NoError(t, ch.Open())

	boom := errors.New("broken pipe")
	sink.failing = boom
	assert.ErrorIs(t, ch.SetTotalSteps(1), boom)
}

func TestSSESink(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/sync/stream", nil)

	ch := NewChannel(NewSSESink(c))
	require.NoError(t, ch.Open())
	require.NoError(t, ch.SetTotalSteps(4))
	require.NoError(t, ch.Close(nil))

	assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))
	body := w.Body.String()
	assert.Contains(t, body, "event:open")
	assert.Contains(t, body, "event:progress")
	assert.Contains(t, body, `"totalSteps":4`)
	assert.Contains(t, body, "event:close")
	assert.Contains(t, body, `"progress":100`)
	assert.True(t, strings.Index(body, "event:open") < strings.Index(body, "event:close"))
}

func TestWSSink(t *testing.T) {
	upgrader := websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		ch := NewChannel(NewWSSink(conn))
		_ = ch.Open()
		_ = ch.Close(models.ErrHostNotFound)
	}))
	defer server.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(server.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.Close()

	var open, failure map[string]any
	require.NoError(t, conn.ReadJSON(&open))
	require.NoError(t, conn.ReadJSON(&failure))
	assert.Equal(t, EventOpen, open["event"])
	assert.Equal(t, EventError, failure["event"])
	data := failure["data"].(map[string]any)
	assert.Equal(t, float64(models.ErrorCode(models.ErrHostNotFound)), data["code"])
}

func TestLogSink(t *testing.T) {
	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)
	logger.SetLevel(logrus.DebugLevel)

	ch := NewChannel(MultiSink{NewLogSink(logger, logrus.Fields{"run": "r1"}), &recordingSink{}})
	require.NoError(t, ch.Open())
	require.NoError(t, ch.SetTotalSteps(2))
	require.NoError(t, ch.Close(errors.New("provider down")))

	out := buf.String()
	assert.Contains(t, out, "Sync open")
	assert.Contains(t, out, "Sync progress")
	assert.Contains(t, out, "provider down")
	assert.Contains(t, out, "run=r1")
}
