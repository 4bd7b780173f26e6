package animation

import (
	"fmt"
	"time"
)

// Status is the state of an AnimationController.
//
//	              Forward()
//	Dismissed ────────────────► Completed
//	    ▲                           │
//	    │        Reverse()          │
//	    └───────────────────────────┘
//
// While running, status is StatusForward or StatusReverse.
type Status int

const (
	// StatusDismissed means the controller is stopped at 0.
	StatusDismissed Status = iota
	// StatusForward means the controller is running toward 1.
	StatusForward
	// StatusReverse means the controller is running toward 0.
	StatusReverse
	// StatusCompleted means the controller is stopped at 1.
	StatusCompleted
)

func (s Status) String() string {
	switch s {
	case StatusDismissed:
		return "dismissed"
	case StatusForward:
		return "forward"
	case StatusReverse:
		return "reverse"
	case StatusCompleted:
		return "completed"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// AnimationController produces a Value moving between 0 and 1 over Duration,
// advanced by the frame loop through StepTickers. Transition runners use one
// controller per transition and listen for the terminal status.
type AnimationController struct {
	// Value is the current progress in [0, 1], after Curve is applied.
	Value float64

	// Duration is the length of a full 0 to 1 run.
	Duration time.Duration

	// Curve eases linear progress. Nil means linear.
	Curve func(float64) float64

	status          Status
	ticker          *Ticker
	from, to        float64
	listeners       map[int]func()
	statusListeners map[int]func(Status)
	nextListenerID  int
}

// NewAnimationController creates a dismissed controller.
func NewAnimationController(duration time.Duration) *AnimationController {
	return &AnimationController{
		Duration:        duration,
		Curve:           LinearCurve,
		listeners:       make(map[int]func()),
		statusListeners: make(map[int]func(Status)),
	}
}

// Forward runs the controller toward 1.
func (c *AnimationController) Forward() {
	c.animateTo(1, StatusForward)
}

// Reverse runs the controller toward 0.
func (c *AnimationController) Reverse() {
	c.animateTo(0, StatusReverse)
}

// Play runs forward or in reverse and calls done once the run settles.
// A zero or negative duration settles synchronously.
func (c *AnimationController) Play(forward bool, done func()) {
	terminal := StatusDismissed
	if forward {
		terminal = StatusCompleted
	}
	var unsubscribe func()
	unsubscribe = c.AddStatusListener(func(s Status) {
		if s != terminal {
			return
		}
		unsubscribe()
		if done != nil {
			done()
		}
	})
	if forward {
		c.Forward()
	} else {
		c.Reverse()
	}
}

func (c *AnimationController) animateTo(target float64, direction Status) {
	c.Stop()
	c.from = c.Value
	c.to = target
	c.setStatus(direction)

	if c.Duration <= 0 {
		c.Value = target
		c.notifyListeners()
		c.settle()
		return
	}
	c.ticker = NewTicker(c.tick)
	c.ticker.Start()
}

func (c *AnimationController) tick(elapsed time.Duration) {
	progress := float64(elapsed) / float64(c.Duration)
	if progress > 1 {
		progress = 1
	}
	eased := progress
	if c.Curve != nil {
		eased = c.Curve(progress)
	}
	c.Value = c.from + (c.to-c.from)*eased
	c.notifyListeners()

	if progress >= 1 {
		c.Value = c.to
		c.Stop()
		c.settle()
	}
}

func (c *AnimationController) settle() {
	if c.Value >= 1 {
		c.setStatus(StatusCompleted)
	} else if c.Value <= 0 {
		c.setStatus(StatusDismissed)
	}
}

// Stop halts the controller at its current value without changing status.
func (c *AnimationController) Stop() {
	if c.ticker != nil {
		c.ticker.Stop()
		c.ticker = nil
	}
}

// Status returns the current status.
func (c *AnimationController) Status() Status {
	return c.status
}

// IsAnimating reports whether the controller is running.
func (c *AnimationController) IsAnimating() bool {
	return c.ticker != nil && c.ticker.IsActive()
}

// AddListener registers fn for value changes and returns an unsubscribe function.
func (c *AnimationController) AddListener(fn func()) func() {
	id := c.nextListenerID
	c.nextListenerID++
	c.listeners[id] = fn
	return func() {
		delete(c.listeners, id)
	}
}

// AddStatusListener registers fn for status changes and returns an
// unsubscribe function.
func (c *AnimationController) AddStatusListener(fn func(Status)) func() {
	id := c.nextListenerID
	c.nextListenerID++
	c.statusListeners[id] = fn
	return func() {
		delete(c.statusListeners, id)
	}
}

func (c *AnimationController) setStatus(status Status) {
	if c.status == status {
		return
	}
	c.status = status
	for _, listener := range c.statusListeners {
		listener(status)
	}
}

func (c *AnimationController) notifyListeners() {
	for _, listener := range c.listeners {
		listener()
	}
}

// Dispose stops the controller and drops its listeners.
func (c *AnimationController) Dispose() {
	c.Stop()
	c.listeners = make(map[int]func())
	c.statusListeners = make(map[int]func(Status))
}
