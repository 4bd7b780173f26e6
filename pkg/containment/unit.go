package containment

import (
	"fmt"
	"time"

	"github.com/go-drift/containment/pkg/graphics"
)

// Resource is the visual resource of a unit: the thing a stack view hosts.
type Resource interface {
	Frame() graphics.Rect
	SetFrame(frame graphics.Rect)
	ResizingMask() ResizingMask
	SetResizingMask(mask ResizingMask)
}

// Unit is a child presentational unit that can be embedded in a container.
//
// Units must be comparable (typically pointers); ownership is tracked by
// identity. LoadResource is called at most once per materialization and
// should return a fresh resource.
type Unit interface {
	LoadResource() Resource
}

// ResourceObserver is implemented by units that want to know when their
// resource is created and released.
type ResourceObserver interface {
	ResourceDidLoad()
	ResourceDidUnload()
}

// AppearanceEvent carries the flags forwarded with an appearance callback.
type AppearanceEvent struct {
	// Animated is true when the change is animated.
	Animated bool
	// MovingToParent is true when the unit is being inserted into its container.
	MovingToParent bool
	// MovingFromParent is true when the unit is being removed from its container.
	MovingFromParent bool
}

// AppearanceObserver is implemented by units that react to appearance
// changes.
type AppearanceObserver interface {
	WillAppear(e AppearanceEvent)
	DidAppear(e AppearanceEvent)
	WillDisappear(e AppearanceEvent)
	DidDisappear(e AppearanceEvent)
}

// Orientation is an interface orientation.
type Orientation int

const (
	// OrientationPortrait is the upright portrait orientation.
	OrientationPortrait Orientation = iota
	// OrientationPortraitUpsideDown is portrait rotated by 180 degrees.
	OrientationPortraitUpsideDown
	// OrientationLandscapeLeft is landscape with the top edge on the left.
	OrientationLandscapeLeft
	// OrientationLandscapeRight is landscape with the top edge on the right.
	OrientationLandscapeRight
)

func (o Orientation) String() string {
	switch o {
	case OrientationPortrait:
		return "portrait"
	case OrientationPortraitUpsideDown:
		return "portrait-upside-down"
	case OrientationLandscapeLeft:
		return "landscape-left"
	case OrientationLandscapeRight:
		return "landscape-right"
	default:
		return fmt.Sprintf("Orientation(%d)", int(o))
	}
}

// ParseOrientation returns the orientation with the given String name.
func ParseOrientation(name string) (Orientation, error) {
	for o := OrientationPortrait; o <= OrientationLandscapeRight; o++ {
		if o.String() == name {
			return o, nil
		}
	}
	return OrientationPortrait, fmt.Errorf("unknown orientation %q", name)
}

// RotationObserver is implemented by units that take part in interface
// rotations.
type RotationObserver interface {
	ShouldAutorotate(to Orientation) bool
	WillRotate(to Orientation, duration time.Duration)
	WillAnimateRotation(to Orientation, duration time.Duration)
	DidRotate(from Orientation)
}

// BaseUnit provides no-op implementations of every optional unit callback.
// Embed it and override the callbacks you need.
type BaseUnit struct{}

// ResourceDidLoad is a no-op by default.
func (BaseUnit) ResourceDidLoad() {}

// ResourceDidUnload is a no-op by default.
func (BaseUnit) ResourceDidUnload() {}

// WillAppear is a no-op by default.
func (BaseUnit) WillAppear(AppearanceEvent) {}

// DidAppear is a no-op by default.
func (BaseUnit) DidAppear(AppearanceEvent) {}

// WillDisappear is a no-op by default.
func (BaseUnit) WillDisappear(AppearanceEvent) {}

// DidDisappear is a no-op by default.
func (BaseUnit) DidDisappear(AppearanceEvent) {}

// ShouldAutorotate allows every orientation by default.
func (BaseUnit) ShouldAutorotate(Orientation) bool { return true }

// WillRotate is a no-op by default.
func (BaseUnit) WillRotate(Orientation, time.Duration) {}

// WillAnimateRotation is a no-op by default.
func (BaseUnit) WillAnimateRotation(Orientation, time.Duration) {}

// DidRotate is a no-op by default.
func (BaseUnit) DidRotate(Orientation) {}

// View is a plain Resource implementation.
type View struct {
	frame graphics.Rect
	mask  ResizingMask
}

// NewView creates a view with the given frame and no resizing policy.
func NewView(frame graphics.Rect) *View {
	return &View{frame: frame}
}

// Frame returns the view's frame in its host's coordinates.
func (v *View) Frame() graphics.Rect {
	return v.frame
}

// SetFrame sets the view's frame.
func (v *View) SetFrame(frame graphics.Rect) {
	v.frame = frame
}

// ResizingMask returns the view's resizing policy.
func (v *View) ResizingMask() ResizingMask {
	return v.mask
}

// SetResizingMask sets the view's resizing policy.
func (v *View) SetResizingMask(mask ResizingMask) {
	v.mask = mask
}
