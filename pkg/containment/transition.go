package containment

import (
	"fmt"
	"time"
)

// DefaultDuration is the reserved duration meaning "use the transition kind's
// default duration".
const DefaultDuration time.Duration = -1

// TransitionKind selects how a child's resource enters and leaves a stack view.
type TransitionKind int

const (
	// TransitionNone shows and hides the resource without animation.
	TransitionNone TransitionKind = iota
	// TransitionCrossDissolve fades the incoming resource over the outgoing one.
	TransitionCrossDissolve
	// TransitionFlipLeft flips around the vertical axis, leftwards.
	TransitionFlipLeft
	// TransitionFlipRight flips around the vertical axis, rightwards.
	TransitionFlipRight
	// TransitionSlideFromRight slides the resource in from the right edge.
	TransitionSlideFromRight
	// TransitionSlideFromLeft slides the resource in from the left edge.
	TransitionSlideFromLeft
	// TransitionSlideFromBottom slides the resource in from the bottom edge.
	TransitionSlideFromBottom
	// TransitionSlideFromTop slides the resource in from the top edge.
	TransitionSlideFromTop
)

var transitionNames = map[TransitionKind]string{
	TransitionNone:            "none",
	TransitionCrossDissolve:   "cross-dissolve",
	TransitionFlipLeft:        "flip-left",
	TransitionFlipRight:       "flip-right",
	TransitionSlideFromRight:  "slide-from-right",
	TransitionSlideFromLeft:   "slide-from-left",
	TransitionSlideFromBottom: "slide-from-bottom",
	TransitionSlideFromTop:    "slide-from-top",
}

// String returns the kebab-case name of the kind.
func (k TransitionKind) String() string {
	if name, ok := transitionNames[k]; ok {
		return name
	}
	return fmt.Sprintf("TransitionKind(%d)", int(k))
}

// ParseTransitionKind returns the kind with the given String name.
func ParseTransitionKind(name string) (TransitionKind, error) {
	for kind, n := range transitionNames {
		if n == name {
			return kind, nil
		}
	}
	return TransitionNone, fmt.Errorf("unknown transition kind %q", name)
}

// DefaultDuration returns the duration used when DefaultDuration is requested.
func (k TransitionKind) DefaultDuration() time.Duration {
	switch k {
	case TransitionNone:
		return 0
	case TransitionCrossDissolve:
		return 400 * time.Millisecond
	case TransitionFlipLeft, TransitionFlipRight:
		return 700 * time.Millisecond
	default:
		return 450 * time.Millisecond
	}
}

// Transition describes the animation used when a resource is inserted into or
// removed from a stack view. Transitions are immutable values.
type Transition struct {
	kind     TransitionKind
	duration time.Duration
}

// NewTransition creates a transition. Pass DefaultDuration to use the kind's
// default duration.
func NewTransition(kind TransitionKind, duration time.Duration) Transition {
	return Transition{kind: kind, duration: duration}
}

// Kind returns the transition kind.
func (t Transition) Kind() TransitionKind {
	return t.kind
}

// Duration returns the duration as requested, which may be DefaultDuration.
func (t Transition) Duration() time.Duration {
	return t.duration
}

// UsesDefaultDuration reports whether the duration is the reserved sentinel.
func (t Transition) UsesDefaultDuration() bool {
	return t.duration == DefaultDuration
}

// EffectiveDuration resolves the DefaultDuration sentinel.
func (t Transition) EffectiveDuration() time.Duration {
	if t.UsesDefaultDuration() {
		return t.kind.DefaultDuration()
	}
	return t.duration
}

// IsAnimated reports whether running the transition takes any time.
func (t Transition) IsAnimated() bool {
	return t.kind != TransitionNone && t.EffectiveDuration() > 0
}

func (t Transition) String() string {
	return fmt.Sprintf("%s(%s)", t.kind, t.EffectiveDuration())
}

// Direction tells a TransitionRunner whether a resource is entering or leaving.
type Direction int

const (
	// DirectionIn animates a resource into view.
	DirectionIn Direction = iota
	// DirectionOut animates a resource out of view.
	DirectionOut
)

func (d Direction) String() string {
	if d == DirectionOut {
		return "out"
	}
	return "in"
}

// TransitionRunner plays transitions. Run must call done exactly once, either
// synchronously or when the animation completes.
type TransitionRunner interface {
	Run(t Transition, d Direction, done func())
}

// ImmediateRunner completes every transition synchronously.
type ImmediateRunner struct{}

// Run calls done immediately.
func (ImmediateRunner) Run(_ Transition, _ Direction, done func()) {
	if done != nil {
		done()
	}
}
