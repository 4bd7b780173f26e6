package navigation

import (
	"github.com/go-drift/containment/pkg/animation"
	"github.com/go-drift/containment/pkg/containment"
)

// AnimatedRunner plays transitions with an animation controller per run.
// The frame loop must call animation.StepTickers for runs to progress.
type AnimatedRunner struct {
	// OnProgress, if set, is called with the eased progress on every frame.
	// Progress runs from 0 to 1 for DirectionIn and from 1 to 0 for DirectionOut.
	OnProgress func(t containment.Transition, d containment.Direction, progress float64)
}

// Run starts the transition and calls done when it settles. Transitions that
// take no time complete synchronously.
func (r AnimatedRunner) Run(t containment.Transition, d containment.Direction, done func()) {
	if !t.IsAnimated() {
		if done != nil {
			done()
		}
		return
	}

	controller := animation.NewAnimationController(t.EffectiveDuration())
	controller.Curve = CurveFor(t.Kind())
	if d == containment.DirectionOut {
		controller.Value = 1
	}
	if r.OnProgress != nil {
		controller.AddListener(func() {
			r.OnProgress(t, d, controller.Value)
		})
	}
	controller.Play(d == containment.DirectionIn, func() {
		controller.Dispose()
		if done != nil {
			done()
		}
	})
}

// CurveFor returns the easing curve used for a transition kind.
func CurveFor(kind containment.TransitionKind) func(float64) float64 {
	switch kind {
	case containment.TransitionNone:
		return animation.LinearCurve
	case containment.TransitionCrossDissolve, containment.TransitionFlipLeft, containment.TransitionFlipRight:
		return animation.EaseInOut
	default:
		return animation.IOSNavigationCurve
	}
}
