package testing

import (
	"errors"
	"testing"
	"time"

	"github.com/go-drift/containment/pkg/animation"
)

// FrameDuration is the clock advance applied by each settle frame.
const FrameDuration = 16 * time.Millisecond

// ErrSettleTimeout is returned when tickers are still active at the timeout.
var ErrSettleTimeout = errors.New("transitions did not settle before timeout")

// FrameTester drives animation tickers with a fake clock.
type FrameTester struct {
	clock *FakeClock
	prev  animation.Clock
}

// NewFrameTester installs a fake animation clock. The previous clock is
// restored when the test finishes.
func NewFrameTester(t testing.TB) *FrameTester {
	ft := NewFrameTesterWithoutT()
	t.Cleanup(ft.Cleanup)
	return ft
}

// NewFrameTesterWithoutT installs a fake animation clock; call Cleanup when done.
func NewFrameTesterWithoutT() *FrameTester {
	clock := NewFakeClock()
	return &FrameTester{clock: clock, prev: animation.SetClock(clock)}
}

// Cleanup restores the previous animation clock.
func (f *FrameTester) Cleanup() {
	if f.prev != nil {
		animation.SetClock(f.prev)
		f.prev = nil
	}
}

// Clock returns the fake clock.
func (f *FrameTester) Clock() *FakeClock {
	return f.clock
}

// Pump runs a single frame without advancing time.
func (f *FrameTester) Pump() {
	animation.StepTickers()
}

// Advance moves time forward by d and runs one frame.
func (f *FrameTester) Advance(d time.Duration) {
	f.clock.Advance(d)
	animation.StepTickers()
}

// PumpAndSettle runs frames, advancing the clock by FrameDuration between
// them, until no ticker is active.
func (f *FrameTester) PumpAndSettle(timeout time.Duration) error {
	var elapsed time.Duration
	for elapsed <= timeout {
		animation.StepTickers()
		if !animation.HasActiveTickers() {
			return nil
		}
		f.clock.Advance(FrameDuration)
		elapsed += FrameDuration
	}
	return ErrSettleTimeout
}
