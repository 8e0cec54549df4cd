// Package progress tracks step/task progress of a synchronization run and
// pushes every state change to a Sink.
package progress

import (
	"fmt"
	"math"
	"sync"

	"github.com/amaumene/videosync/internal/models"
)

// Event names written to the sink
const (
	EventOpen     = "open"
	EventProgress = "progress"
	EventClose    = "close"
	EventError    = "error"
)

// Sink is a push-capable stream. Emit writes one named event with a JSON
// payload; Flush pushes buffered events to the subscriber.
type Sink interface {
	Emit(event string, payload any) error
	Flush() error
}

// Snapshot is the payload of open, progress and close events
type Snapshot struct {
	Progress       int `json:"progress"`
	TotalSteps     int `json:"totalSteps"`
	CurrentStep    int `json:"currentStep"`
	StepTasks      int `json:"stepTasks"`
	ReadyStepTasks int `json:"readyStepTasks"`
}

// ErrorPayload is the payload of the terminal error event
type ErrorPayload struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// Channel is the progress state machine. It starts disconnected; Open
// connects it and Close disconnects it for good.
type Channel struct {
	mu   sync.Mutex
	sink Sink

	connected      bool
	opened         bool
	totalSteps     int
	currentStep    int
	stepTasks      int
	readyStepTasks int
}

// NewChannel creates a disconnected channel writing to sink
func NewChannel(sink Sink) *Channel {
	return &Channel{sink: sink}
}

// Open connects the channel and emits an open snapshot
func (c *Channel) Open() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.connected {
		return fmt.Errorf("progress channel: %w", models.ErrAlreadyConnected)
	}
	c.connected = true
	c.opened = true
	return c.emit(EventOpen, c.snapshot())
}

// Opened reports whether the channel was ever opened
func (c *Channel) Opened() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.opened
}

// Connected reports whether the channel is open
func (c *Channel) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

// SetTotalSteps sets the number of steps in the run
func (c *Channel) SetTotalSteps(v int) error {
	return c.mutate(func() error {
		if v < 0 {
			return fmt.Errorf("total steps %d: %w", v, models.ErrInvalidArgument)
		}
		c.totalSteps = v
		if c.currentStep > v {
			c.currentStep = v
		}
		return nil
	})
}

// SetCurrentStep jumps to step v
func (c *Channel) SetCurrentStep(v int) error {
	return c.mutate(func() error {
		if v < 0 {
			return fmt.Errorf("current step %d: %w", v, models.ErrInvalidArgument)
		}
		if v > c.totalSteps {
			return fmt.Errorf("current step %d of %d: %w", v, c.totalSteps, models.ErrOverflow)
		}
		c.currentStep = v
		return nil
	})
}

// SetStepTasks sets the number of tasks in the current step
func (c *Channel) SetStepTasks(v int) error {
	return c.mutate(func() error {
		if v < 0 {
			return fmt.Errorf("step tasks %d: %w", v, models.ErrInvalidArgument)
		}
		c.stepTasks = v
		if c.readyStepTasks > v {
			c.readyStepTasks = v
		}
		return nil
	})
}

// SetReadyStepTasks sets the finished task count, clamped to the step tasks
func (c *Channel) SetReadyStepTasks(v int) error {
	return c.mutate(func() error {
		if v < 0 {
			return fmt.Errorf("ready step tasks %d: %w", v, models.ErrInvalidArgument)
		}
		c.readyStepTasks = min(v, c.stepTasks)
		return nil
	})
}

// NextStep advances to the next step and resets the task counters
func (c *Channel) NextStep() error {
	return c.mutate(func() error {
		if c.currentStep >= c.totalSteps {
			return fmt.Errorf("step %d of %d: %w", c.currentStep, c.totalSteps, models.ErrOverflow)
		}
		c.currentStep++
		c.stepTasks = 0
		c.readyStepTasks = 0
		return nil
	})
}

// Close disconnects the channel. A nil cause emits a final close snapshot at
// 100%; otherwise a single error event carries the message and code.
func (c *Channel) Close(cause error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.connected {
		return fmt.Errorf("progress channel: %w", models.ErrNotConnected)
	}
	c.connected = false

	if cause != nil {
		return c.emit(EventError, ErrorPayload{
			Message: cause.Error(),
			Code:    models.ErrorCode(cause),
		})
	}
	snap := c.snapshot()
	snap.Progress = 100
	return c.emit(EventClose, snap)
}

// Percentage returns the blended progress of the run
func (c *Channel) Percentage() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.percentage()
}

// Snapshot returns the current state
func (c *Channel) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot()
}

func (c *Channel) mutate(apply func() error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.connected {
		return fmt.Errorf("progress channel: %w", models.ErrNotConnected)
	}
	if err := apply(); err != nil {
		return err
	}
	return c.emit(EventProgress, c.snapshot())
}

func (c *Channel) emit(event string, payload any) error {
	if err := c.sink.Emit(event, payload); err != nil {
		return fmt.Errorf("failed to emit %s event: %w", event, err)
	}
	if err := c.sink.Flush(); err != nil {
		return fmt.Errorf("failed to flush %s event: %w", event, err)
	}
	return nil
}

func (c *Channel) snapshot() Snapshot {
	return Snapshot{
		Progress:       c.percentage(),
		TotalSteps:     c.totalSteps,
		CurrentStep:    c.currentStep,
		StepTasks:      c.stepTasks,
		ReadyStepTasks: c.readyStepTasks,
	}
}

// percentage blends finished steps with the share of the current step:
//
//	weight = round(100/totalSteps)
//	done   = round(100*currentStep/totalSteps)
//	inStep = round(weight*ready/stepTasks)
//	result = max(0, done-weight+inStep), capped at 99 while connected
func (c *Channel) percentage() int {
	if c.totalSteps == 0 {
		return 0
	}
	total := float64(c.totalSteps)
	weight := math.Round(100 / total)
	done := math.Round(100 * float64(c.currentStep) / total)
	inStep := 0.0
	if c.stepTasks > 0 {
		inStep = math.Round(weight * float64(c.readyStepTasks) / float64(c.stepTasks))
	}

	p := int(math.Max(0, done-weight+inStep))
	if c.connected && p > 99 {
		p = 99
	}
	return p
}
