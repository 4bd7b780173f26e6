package containment

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	drifterrors "github.com/go-drift/containment/pkg/errors"
)

// ResourceHolder is implemented by units that keep their resource alive
// between embeddings. A content adopts a held resource instead of loading a
// new one, and does not repeat the ResourceDidLoad callback for it.
type ResourceHolder interface {
	LoadedResource() Resource
}

// Content wraps a child unit for as long as it is embedded in a container.
//
// All interaction with an embedded child goes through its Content, so the
// child's resource is only created when a container really needs it and
// lifecycle events reach the child in a coherent order. A Content is used from
// the UI goroutine only.
type Content struct {
	id         uuid.UUID
	child      Unit
	container  any
	transition Transition

	resource  Resource
	stackView StackView
	geometry  GeometrySnapshot

	movingToParent   bool
	movingFromParent bool
	phase            Phase
	released         bool
}

// NewContent takes ownership of child on behalf of container. The container
// reference is only used for identity and capability queries; the content
// never manages the container's lifetime. Pass DefaultDuration to use the
// transition kind's default duration.
func NewContent(child Unit, container any, kind TransitionKind, duration time.Duration) (*Content, error) {
	const op = "containment.NewContent"
	if isNil(child) {
		return nil, drifterrors.New(op, drifterrors.KindPrecondition, drifterrors.ErrNilChild)
	}
	if !isComparable(child) {
		return nil, drifterrors.New(op, drifterrors.KindPrecondition, drifterrors.ErrIncomparableChild)
	}
	if container == nil {
		return nil, drifterrors.New(op, drifterrors.KindPrecondition, drifterrors.ErrNilContainer)
	}
	if duration < 0 && duration != DefaultDuration {
		return nil, drifterrors.New(op, drifterrors.KindPrecondition,
			fmt.Errorf("%w: %s", drifterrors.ErrInvalidDuration, duration))
	}

	c := &Content{
		id:         uuid.New(),
		child:      child,
		container:  container,
		transition: NewTransition(kind, duration),
	}
	if err := claim(c); err != nil {
		return nil, err
	}
	return c, nil
}

// ID identifies the content in diagnostics.
func (c *Content) ID() uuid.UUID {
	return c.id
}

// Child returns the embedded unit. Do not ask the child for its resource
// directly; use ResourceIfLoaded so the resource is never created by
// accident.
func (c *Content) Child() Unit {
	return c.child
}

// Container returns the container the child is embedded in.
func (c *Content) Container() any {
	return c.container
}

// Transition returns the transition used to show and hide the child.
func (c *Content) Transition() Transition {
	return c.transition
}

// Phase returns the current lifecycle phase.
func (c *Content) Phase() Phase {
	return c.phase
}

// IsReleased reports whether Release has been called.
func (c *Content) IsReleased() bool {
	return c.released
}

// IsAddedToContainer reports whether the child's resource currently sits in
// a stack view.
func (c *Content) IsAddedToContainer() bool {
	return c.stackView != nil
}

// StackView returns the stack view hosting the resource, or nil.
func (c *Content) StackView() StackView {
	return c.stackView
}

// IsMovingToParent is true between WillAppear and the end of DidAppear when
// the appearance inserts the child into its container.
func (c *Content) IsMovingToParent() bool {
	return c.movingToParent
}

// IsMovingFromParent is true between WillDisappear and the end of
// DidDisappear when the disappearance removes the child from its container.
func (c *Content) IsMovingFromParent() bool {
	return c.movingFromParent
}

// OriginalGeometry returns the geometry captured when the resource was
// materialized. The second result is false while nothing is materialized.
func (c *Content) OriginalGeometry() (GeometrySnapshot, bool) {
	return c.geometry, c.resource != nil
}

// ResourceIfLoaded returns the child's resource without creating it.
func (c *Content) ResourceIfLoaded() Resource {
	return c.resource
}

// MaterializeIfNeeded creates the child's resource on first use and captures
// its geometry. Later calls return the same resource.
func (c *Content) MaterializeIfNeeded() Resource {
	if c.released {
		c.reportIgnored("MaterializeIfNeeded")
		return nil
	}
	if c.resource != nil {
		return c.resource
	}

	var r Resource
	adopted := false
	if holder, ok := c.child.(ResourceHolder); ok {
		if r = holder.LoadedResource(); r != nil {
			adopted = true
		}
	}
	if r == nil {
		r = c.child.LoadResource()
	}
	if r == nil {
		panic(fmt.Sprintf("containment: %T.LoadResource returned nil", c.child))
	}

	c.resource = r
	c.geometry = CaptureGeometry(r)
	c.phase = PhaseMaterialized
	if !adopted {
		if obs, ok := c.child.(ResourceObserver); ok {
			obs.ResourceDidLoad()
		}
	}
	return r
}

// AddInto appends the child's resource on top of sv.
func (c *Content) AddInto(sv StackView) error {
	if sv == nil {
		return drifterrors.New("containment.Content.AddInto", drifterrors.KindPrecondition, drifterrors.ErrNilStackView)
	}
	return c.InsertInto(sv, sv.Count())
}

// InsertInto materializes the child's resource if needed, fits it to sv's
// bounds and inserts it at index, which must lie in [0, sv.Count()].
// Inserting content that is already added is ignored.
func (c *Content) InsertInto(sv StackView, index int) error {
	const op = "containment.Content.InsertInto"
	if c.released {
		c.reportIgnored("InsertInto")
		return nil
	}
	if sv == nil {
		return drifterrors.New(op, drifterrors.KindPrecondition, drifterrors.ErrNilStackView)
	}
	if c.stackView != nil {
		c.reportIgnored("InsertInto")
		return nil
	}
	if count := sv.Count(); index < 0 || index > count {
		return drifterrors.New(op, drifterrors.KindIndex,
			fmt.Errorf("%w: %d not in [0, %d]", drifterrors.ErrIndexOutOfRange, index, count))
	}

	r := c.MaterializeIfNeeded()
	r.SetFrame(sv.Bounds())
	r.SetResizingMask(FillBounds)
	sv.Insert(r, index)
	c.stackView = sv
	return nil
}

// ReleaseResources restores the resource's original geometry, detaches it
// from its stack view and drops it, notifying the child. It does nothing if
// the resource is not materialized.
func (c *Content) ReleaseResources() {
	if c.resource == nil {
		return
	}
	c.detach()
	c.resource = nil
	c.geometry = GeometrySnapshot{}
	c.movingToParent = false
	c.movingFromParent = false
	c.phase = PhaseDetached
	if obs, ok := c.child.(ResourceObserver); ok {
		obs.ResourceDidUnload()
	}
}

// Release ends the embedding and returns the child. The resource is removed
// from its stack view with its original geometry restored but is not
// unloaded, so a caller retaining the child can embed it again elsewhere.
// Every later call on the content is ignored.
func (c *Content) Release() Unit {
	if c.released {
		return c.child
	}
	c.detach()
	c.resource = nil
	c.geometry = GeometrySnapshot{}
	c.movingToParent = false
	c.movingFromParent = false
	c.phase = PhaseDetached
	c.released = true
	relinquish(c)
	return c.child
}

// detach takes the resource out of its stack view and restores its geometry.
func (c *Content) detach() {
	if c.resource == nil {
		return
	}
	c.geometry.Restore(c.resource)
	if c.stackView != nil {
		c.stackView.Remove(c.resource)
		c.stackView = nil
	}
}

// WillAppear forwards the appearance start to the child. It is ignored unless
// the content is materialized and not visible.
func (c *Content) WillAppear(animated, movingToParent bool) {
	if !c.advance(callWillAppear) {
		return
	}
	c.movingToParent = movingToParent
	if obs, ok := c.child.(AppearanceObserver); ok {
		obs.WillAppear(AppearanceEvent{Animated: animated, MovingToParent: movingToParent})
	}
}

// DidAppear forwards the end of an appearance. It is ignored unless
// WillAppear was forwarded before.
func (c *Content) DidAppear(animated, movingToParent bool) {
	if !c.advance(callDidAppear) {
		return
	}
	if obs, ok := c.child.(AppearanceObserver); ok {
		obs.DidAppear(AppearanceEvent{Animated: animated, MovingToParent: movingToParent})
	}
	c.movingToParent = false
}

// WillDisappear forwards the disappearance start. It is ignored unless the
// content has appeared.
func (c *Content) WillDisappear(animated, movingFromParent bool) {
	if !c.advance(callWillDisappear) {
		return
	}
	c.movingFromParent = movingFromParent
	if obs, ok := c.child.(AppearanceObserver); ok {
		obs.WillDisappear(AppearanceEvent{Animated: animated, MovingFromParent: movingFromParent})
	}
}

// DidDisappear forwards the end of a disappearance. It is ignored unless
// WillDisappear was forwarded before.
func (c *Content) DidDisappear(animated, movingFromParent bool) {
	if !c.advance(callDidDisappear) {
		return
	}
	if obs, ok := c.child.(AppearanceObserver); ok {
		obs.DidDisappear(AppearanceEvent{Animated: animated, MovingFromParent: movingFromParent})
	}
	c.movingFromParent = false
}

// advance moves the phase machine for call, reporting ignored calls.
func (c *Content) advance(call lifecycleCall) bool {
	if c.released {
		c.reportIgnored(call.String())
		return false
	}
	next, ok := nextPhase(c.phase, call)
	if !ok {
		c.reportIgnored(call.String())
		return false
	}
	c.phase = next
	return true
}

func (c *Content) reportIgnored(op string) {
	phase := c.phase.String()
	if c.released {
		phase = "released"
	}
	drifterrors.ReportSequencing(&drifterrors.SequencingAnomaly{
		ContentID: c.id.String(),
		Op:        op,
		Phase:     phase,
	})
}

// ShouldAutorotate asks the child whether it accepts the orientation. Content
// without a materialized resource, or a child without an opinion, allows it.
func (c *Content) ShouldAutorotate(to Orientation) bool {
	if obs, ok := c.rotationObserver(); ok {
		return obs.ShouldAutorotate(to)
	}
	return true
}

// WillRotate forwards the rotation start.
func (c *Content) WillRotate(to Orientation, duration time.Duration) {
	if obs, ok := c.rotationObserver(); ok {
		obs.WillRotate(to, duration)
	}
}

// WillAnimateRotation forwards the rotation animation setup.
func (c *Content) WillAnimateRotation(to Orientation, duration time.Duration) {
	if obs, ok := c.rotationObserver(); ok {
		obs.WillAnimateRotation(to, duration)
	}
}

// DidRotate forwards the rotation end.
func (c *Content) DidRotate(from Orientation) {
	if obs, ok := c.rotationObserver(); ok {
		obs.DidRotate(from)
	}
}

func (c *Content) rotationObserver() (RotationObserver, bool) {
	if c.released || c.resource == nil {
		return nil, false
	}
	obs, ok := c.child.(RotationObserver)
	return obs, ok
}

func (c *Content) String() string {
	return fmt.Sprintf("Content(%T, %s, %s)", c.child, c.phase, c.transition)
}
