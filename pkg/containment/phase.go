package containment

import "fmt"

// Phase is the lifecycle phase of embedded content.
type Phase int

const (
	// PhaseDetached means the child's resource has not been materialized.
	PhaseDetached Phase = iota
	// PhaseMaterialized means the resource exists but has never appeared.
	PhaseMaterialized
	// PhaseAppearing means WillAppear was forwarded and DidAppear is pending.
	PhaseAppearing
	// PhaseAppeared means the resource is on screen.
	PhaseAppeared
	// PhaseDisappearing means WillDisappear was forwarded and DidDisappear is pending.
	PhaseDisappearing
	// PhaseDisappeared means the resource left the screen but is still materialized.
	PhaseDisappeared
)

func (p Phase) String() string {
	switch p {
	case PhaseDetached:
		return "detached"
	case PhaseMaterialized:
		return "materialized"
	case PhaseAppearing:
		return "appearing"
	case PhaseAppeared:
		return "appeared"
	case PhaseDisappearing:
		return "disappearing"
	case PhaseDisappeared:
		return "disappeared"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// IsVisible reports whether the resource is on screen or on its way.
func (p Phase) IsVisible() bool {
	return p == PhaseAppearing || p == PhaseAppeared || p == PhaseDisappearing
}

type lifecycleCall int

const (
	callWillAppear lifecycleCall = iota
	callDidAppear
	callWillDisappear
	callDidDisappear
)

func (c lifecycleCall) String() string {
	switch c {
	case callWillAppear:
		return "WillAppear"
	case callDidAppear:
		return "DidAppear"
	case callWillDisappear:
		return "WillDisappear"
	case callDidDisappear:
		return "DidDisappear"
	default:
		return fmt.Sprintf("lifecycleCall(%d)", int(c))
	}
}

// phaseTransitions lists, per call, the phases it is legal from and where it
// leads. Anything missing is ignored.
var phaseTransitions = map[lifecycleCall]map[Phase]Phase{
	callWillAppear: {
		PhaseMaterialized: PhaseAppearing,
		PhaseDisappeared:  PhaseAppearing,
	},
	callDidAppear: {
		PhaseAppearing: PhaseAppeared,
	},
	callWillDisappear: {
		PhaseAppeared: PhaseDisappearing,
	},
	callDidDisappear: {
		PhaseDisappearing: PhaseDisappeared,
	},
}

// nextPhase returns the phase reached by applying call in current, and false
// when the call is not legal there.
func nextPhase(current Phase, call lifecycleCall) (Phase, bool) {
	next, ok := phaseTransitions[call][current]
	return next, ok
}
