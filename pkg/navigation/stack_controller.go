// Package navigation provides containers built on the containment package.
//
// [StackController] keeps an ordered stack of child units. Pushing a unit
// embeds it through a [containment.Content], inserts its resource on top of
// the controller's stack view and plays the unit's transition; popping plays
// the transition in reverse and releases the unit:
//
//	stack, err := navigation.NewStackController(home,
//	    navigation.WithRunner(navigation.AnimatedRunner{}),
//	    navigation.WithFrame(graphics.RectFromLTWH(0, 0, 390, 844)),
//	)
//	stack.Push(details, containment.TransitionSlideFromRight, containment.DefaultDuration)
//	stack.Pop()
//
// A StackController is itself a unit, so it can be embedded in another
// container. Children find it with containment.FindAncestor.
package navigation

import (
	"fmt"
	"time"

	"github.com/go-drift/containment/pkg/containment"
	drifterrors "github.com/go-drift/containment/pkg/errors"
	"github.com/go-drift/containment/pkg/graphics"
)

// StackObserver is notified when the stack changes.
type StackObserver interface {
	// DidPush is called after unit was pushed on top of previous.
	DidPush(unit, previous containment.Unit)
	// DidPop is called after unit was removed, uncovering previous.
	DidPop(unit, previous containment.Unit)
}

// Option configures a StackController.
type Option func(*StackController)

// WithRunner sets the transition runner. The default completes every
// transition immediately.
func WithRunner(r containment.TransitionRunner) Option {
	return func(s *StackController) {
		s.runner = r
	}
}

// WithFrame sets the frame of the controller's stack view.
func WithFrame(frame graphics.Rect) Option {
	return func(s *StackController) {
		s.frame = frame
	}
}

// WithObserver adds a stack observer.
func WithObserver(o StackObserver) Option {
	return func(s *StackController) {
		s.observers = append(s.observers, o)
	}
}

// WithRootTransition sets the transition of the root unit.
func WithRootTransition(kind containment.TransitionKind, duration time.Duration) Option {
	return func(s *StackController) {
		s.rootKind = kind
		s.rootDuration = duration
	}
}

// StackController is a container presenting a stack of units, only the top
// one being visible.
type StackController struct {
	runner    containment.TransitionRunner
	frame     graphics.Rect
	observers []StackObserver

	rootKind     containment.TransitionKind
	rootDuration time.Duration

	contents []*containment.Content
	stack    *containment.Stack
	// exiting holds a popped content until its transition completes.
	exiting []*containment.Content
	// running holds the transitions whose completion is still pending.
	running  []*pendingTransition
	visible  bool
	disposed bool
}

// pendingTransition is a transition handed to the runner. Its completion runs
// at most once, either when the runner finishes or when the controller jumps
// to the end of it.
type pendingTransition struct {
	complete func()
	done     bool
}

// NewStackController creates a controller whose bottom unit is root. The
// root cannot be popped.
func NewStackController(root containment.Unit, opts ...Option) (*StackController, error) {
	s := &StackController{
		runner:       containment.ImmediateRunner{},
		frame:        graphics.RectFromLTWH(0, 0, 320, 480),
		rootKind:     containment.TransitionNone,
		rootDuration: containment.DefaultDuration,
	}
	for _, opt := range opts {
		opt(s)
	}
	content, err := containment.NewContent(root, s, s.rootKind, s.rootDuration)
	if err != nil {
		return nil, err
	}
	s.contents = append(s.contents, content)
	return s, nil
}

// Count returns the number of units on the stack.
func (s *StackController) Count() int {
	return len(s.contents)
}

// Top returns the top unit, or nil once disposed.
func (s *StackController) Top() containment.Unit {
	if len(s.contents) == 0 {
		return nil
	}
	return s.top().Child()
}

// Root returns the bottom unit, or nil once disposed.
func (s *StackController) Root() containment.Unit {
	if len(s.contents) == 0 {
		return nil
	}
	return s.contents[0].Child()
}

// Units returns the stacked units, bottom first.
func (s *StackController) Units() []containment.Unit {
	units := make([]containment.Unit, len(s.contents))
	for i, c := range s.contents {
		units[i] = c.Child()
	}
	return units
}

// ContentFor returns the content wrapping unit, or nil if unit is not on the
// stack.
func (s *StackController) ContentFor(unit containment.Unit) *containment.Content {
	for _, c := range s.contents {
		if c.Child() == unit {
			return c
		}
	}
	return nil
}

// IsVisible reports whether the controller itself has appeared.
func (s *StackController) IsVisible() bool {
	return s.visible
}

// IsTransitioning reports whether a push or pop transition is still running.
func (s *StackController) IsTransitioning() bool {
	return len(s.running) > 0
}

// IsDisposed reports whether Dispose has been called.
func (s *StackController) IsDisposed() bool {
	return s.disposed
}

// StackView returns the controller's stack view, or nil if not loaded.
func (s *StackController) StackView() *containment.Stack {
	return s.stack
}

func (s *StackController) top() *containment.Content {
	return s.contents[len(s.contents)-1]
}

// Push embeds unit on top of the stack. If the controller is visible the
// unit's transition is played; otherwise the unit appears with the
// controller. A transition still running is finished first. Pushing a unit
// owned by another container, or pushing onto a disposed controller, fails.
func (s *StackController) Push(unit containment.Unit, kind containment.TransitionKind, duration time.Duration) error {
	if s.disposed {
		return drifterrors.New("navigation.StackController.Push", drifterrors.KindPrecondition, drifterrors.ErrDisposed)
	}
	s.finishTransitions()
	content, err := containment.NewContent(unit, s, kind, duration)
	if err != nil {
		return err
	}
	previous := s.top()
	s.contents = append(s.contents, content)

	if s.stack != nil {
		if err := content.AddInto(s.stack); err != nil {
			s.contents = s.contents[:len(s.contents)-1]
			content.Release()
			return err
		}
	}

	if s.visible && s.stack != nil {
		animated := content.Transition().IsAnimated()
		previous.WillDisappear(animated, false)
		content.WillAppear(animated, true)
		s.play(content.Transition(), containment.DirectionIn, func() {
			previous.DidDisappear(animated, false)
			content.DidAppear(animated, true)
		})
	}

	for _, o := range s.observers {
		o.DidPush(unit, previous.Child())
	}
	return nil
}

// Pop removes the top unit and returns it, or returns nil when only the
// root is left. The popped unit is released from the controller once its
// transition completes. A transition still running is finished first.
func (s *StackController) Pop() containment.Unit {
	if len(s.contents) <= 1 {
		return nil
	}
	s.finishTransitions()
	popped := s.top()
	s.contents = s.contents[:len(s.contents)-1]
	below := s.top()
	s.remove(popped, below)

	for _, o := range s.observers {
		o.DidPop(popped.Child(), below.Child())
	}
	return popped.Child()
}

// PopToRoot pops every unit above the root and returns them, top first.
// Only the top unit transitions; the others are released directly.
func (s *StackController) PopToRoot() []containment.Unit {
	if len(s.contents) <= 1 {
		return nil
	}
	s.finishTransitions()
	var popped []containment.Unit
	top := s.top()
	for len(s.contents) > 2 {
		hidden := s.contents[len(s.contents)-2]
		s.contents = append(s.contents[:len(s.contents)-2], top)
		hidden.Release()
		popped = append(popped, hidden.Child())
	}
	unit := s.Pop()
	return append([]containment.Unit{unit}, popped...)
}

func (s *StackController) remove(popped, below *containment.Content) {
	if !s.visible || s.stack == nil {
		popped.Release()
		return
	}
	animated := popped.Transition().IsAnimated()
	s.exiting = append(s.exiting, popped)
	popped.WillDisappear(animated, true)
	below.WillAppear(animated, false)
	s.play(popped.Transition(), containment.DirectionOut, func() {
		popped.DidDisappear(animated, true)
		below.DidAppear(animated, false)
		popped.Release()
		s.dropExiting(popped)
	})
}

// play hands t to the runner and tracks it until complete has run.
func (s *StackController) play(t containment.Transition, d containment.Direction, complete func()) {
	p := &pendingTransition{complete: complete}
	s.running = append(s.running, p)
	s.runner.Run(t, d, func() { s.settle(p) })
}

func (s *StackController) settle(p *pendingTransition) {
	if p.done {
		return
	}
	p.done = true
	for i, r := range s.running {
		if r == p {
			s.running = append(s.running[:i], s.running[i+1:]...)
			break
		}
	}
	p.complete()
}

// finishTransitions runs the completion of every running transition now, so
// the next lifecycle calls start from settled phases. The runner's own
// completion is ignored when it fires later.
func (s *StackController) finishTransitions() {
	for len(s.running) > 0 {
		s.settle(s.running[0])
	}
}

// abandonTransitions drops running transitions without completing them.
func (s *StackController) abandonTransitions() {
	for _, p := range s.running {
		p.done = true
	}
	s.running = nil
}

// Dispose releases every unit the controller holds, including the root and
// units still leaving the screen, so they can be embedded elsewhere. Running
// transitions are abandoned and no appearance callbacks are sent. A disposed
// controller keeps its units list empty and refuses pushes.
func (s *StackController) Dispose() {
	if s.disposed {
		return
	}
	s.disposed = true
	s.abandonTransitions()
	for _, c := range s.exiting {
		c.Release()
	}
	s.exiting = nil
	for i := len(s.contents) - 1; i >= 0; i-- {
		s.contents[i].Release()
	}
	s.contents = nil
	s.stack = nil
	s.visible = false
}

func (s *StackController) dropExiting(c *containment.Content) {
	for i, e := range s.exiting {
		if e == c {
			s.exiting = append(s.exiting[:i], s.exiting[i+1:]...)
			return
		}
	}
}

// LoadResource creates the controller's stack view and inserts every stacked
// unit's resource into it, including units pushed before the controller was
// displayed.
func (s *StackController) LoadResource() containment.Resource {
	s.stack = containment.NewStack(s.frame)
	for _, c := range s.contents {
		if err := c.AddInto(s.stack); err != nil {
			// AddInto only fails for nil stack views or bad indices.
			panic(err)
		}
	}
	return s.stack
}

// ResourceDidLoad is a no-op.
func (s *StackController) ResourceDidLoad() {}

// ResourceDidUnload releases every child resource along with the stack view.
func (s *StackController) ResourceDidUnload() {
	s.abandonTransitions()
	for _, c := range s.exiting {
		c.Release()
	}
	s.exiting = nil
	for _, c := range s.contents {
		c.ReleaseResources()
	}
	s.stack = nil
	s.visible = false
}

// childMovingToParent reports whether the top content is appearing for the
// first time, which makes its appearance part of its insertion.
func childMovingToParent(c *containment.Content) bool {
	return c.Phase() == containment.PhaseMaterialized
}

// WillAppear forwards the controller's appearance to the top unit.
func (s *StackController) WillAppear(e containment.AppearanceEvent) {
	if s.disposed {
		return
	}
	s.finishTransitions()
	top := s.top()
	top.WillAppear(e.Animated, childMovingToParent(top))
}

// DidAppear forwards the end of the controller's appearance to the top unit.
func (s *StackController) DidAppear(e containment.AppearanceEvent) {
	if s.disposed {
		return
	}
	s.visible = true
	top := s.top()
	top.DidAppear(e.Animated, top.IsMovingToParent())
}

// WillDisappear forwards the controller's disappearance to the top unit.
func (s *StackController) WillDisappear(e containment.AppearanceEvent) {
	if s.disposed {
		return
	}
	s.finishTransitions()
	s.visible = false
	s.top().WillDisappear(e.Animated, false)
}

// DidDisappear forwards the end of the controller's disappearance to the top
// unit.
func (s *StackController) DidDisappear(e containment.AppearanceEvent) {
	if s.disposed {
		return
	}
	s.top().DidDisappear(e.Animated, false)
}

// ShouldAutorotate allows an orientation only if every stacked unit does.
func (s *StackController) ShouldAutorotate(to containment.Orientation) bool {
	for _, c := range s.contents {
		if !c.ShouldAutorotate(to) {
			return false
		}
	}
	return true
}

// WillRotate forwards to every stacked unit.
func (s *StackController) WillRotate(to containment.Orientation, duration time.Duration) {
	for _, c := range s.contents {
		c.WillRotate(to, duration)
	}
}

// WillAnimateRotation forwards to every stacked unit.
func (s *StackController) WillAnimateRotation(to containment.Orientation, duration time.Duration) {
	for _, c := range s.contents {
		c.WillAnimateRotation(to, duration)
	}
}

// DidRotate forwards to every stacked unit.
func (s *StackController) DidRotate(from containment.Orientation) {
	for _, c := range s.contents {
		c.DidRotate(from)
	}
}

func (s *StackController) String() string {
	return fmt.Sprintf("StackController(%d units)", len(s.contents))
}
