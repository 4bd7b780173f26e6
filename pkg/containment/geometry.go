package containment

import (
	"strings"

	"github.com/go-drift/containment/pkg/graphics"
)

// ResizingMask describes how a resource's frame follows changes to its
// stack view's bounds.
type ResizingMask uint8

// ResizingNone keeps the frame fixed.
const ResizingNone ResizingMask = 0

const (
	// FlexibleLeftMargin lets the left margin absorb width changes.
	FlexibleLeftMargin ResizingMask = 1 << iota
	// FlexibleWidth lets the width absorb width changes.
	FlexibleWidth
	// FlexibleRightMargin lets the right margin absorb width changes.
	FlexibleRightMargin
	// FlexibleTopMargin lets the top margin absorb height changes.
	FlexibleTopMargin
	// FlexibleHeight lets the height absorb height changes.
	FlexibleHeight
	// FlexibleBottomMargin lets the bottom margin absorb height changes.
	FlexibleBottomMargin
)

// FillBounds is the policy applied to resources inserted into a stack view.
const FillBounds = FlexibleWidth | FlexibleHeight

var maskNames = []struct {
	mask ResizingMask
	name string
}{
	{FlexibleLeftMargin, "left-margin"},
	{FlexibleWidth, "width"},
	{FlexibleRightMargin, "right-margin"},
	{FlexibleTopMargin, "top-margin"},
	{FlexibleHeight, "height"},
	{FlexibleBottomMargin, "bottom-margin"},
}

func (m ResizingMask) String() string {
	if m == ResizingNone {
		return "none"
	}
	var parts []string
	for _, entry := range maskNames {
		if m&entry.mask != 0 {
			parts = append(parts, entry.name)
		}
	}
	return strings.Join(parts, "|")
}

// GeometrySnapshot records a resource's frame and resizing policy before it
// is embedded so both can be restored when it leaves the container.
type GeometrySnapshot struct {
	Frame    graphics.Rect
	Resizing ResizingMask
}

// CaptureGeometry snapshots the current geometry of r.
func CaptureGeometry(r Resource) GeometrySnapshot {
	return GeometrySnapshot{Frame: r.Frame(), Resizing: r.ResizingMask()}
}

// Restore writes the snapshot back onto r.
func (g GeometrySnapshot) Restore(r Resource) {
	r.SetResizingMask(g.Resizing)
	r.SetFrame(g.Frame)
}

// Autoresize computes the frame a resource should take when its host bounds
// change from oldBounds to newBounds. Along each axis the size delta is split
// evenly among the flexible components, the way a layout system
// distributes slack among flexible children.
func Autoresize(frame graphics.Rect, mask ResizingMask, oldBounds, newBounds graphics.Rect) graphics.Rect {
	left, width, _ := resizeAxis(
		frame.Left-oldBounds.Left, frame.Width(), oldBounds.Right-frame.Right,
		newBounds.Width()-oldBounds.Width(),
		mask&FlexibleLeftMargin != 0, mask&FlexibleWidth != 0, mask&FlexibleRightMargin != 0,
	)
	top, height, _ := resizeAxis(
		frame.Top-oldBounds.Top, frame.Height(), oldBounds.Bottom-frame.Bottom,
		newBounds.Height()-oldBounds.Height(),
		mask&FlexibleTopMargin != 0, mask&FlexibleHeight != 0, mask&FlexibleBottomMargin != 0,
	)
	return graphics.RectFromLTWH(newBounds.Left+left, newBounds.Top+top, width, height)
}

func resizeAxis(lead, size, trail, delta float64, flexLead, flexSize, flexTrail bool) (float64, float64, float64) {
	flexible := 0
	for _, f := range []bool{flexLead, flexSize, flexTrail} {
		if f {
			flexible++
		}
	}
	if flexible == 0 {
		// A fully rigid axis keeps its leading margin.
		return lead, size, trail + delta
	}
	share := delta / float64(flexible)
	if flexLead {
		lead += share
	}
	if flexSize {
		size += share
	}
	if flexTrail {
		trail += share
	}
	return lead, size, trail
}
