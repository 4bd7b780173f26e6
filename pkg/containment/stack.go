package containment

import (
	"fmt"

	"github.com/go-drift/containment/pkg/graphics"
)

// StackView is the ordered visual surface a container exposes to its
// children. Index 0 is the bottom of the stack.
type StackView interface {
	// Count returns the number of hosted resources.
	Count() int
	// Insert places r at index, shifting later resources up.
	// Callers guarantee 0 <= index <= Count().
	Insert(r Resource, index int)
	// Remove detaches r. Removing an absent resource is a no-op.
	Remove(r Resource)
	// Bounds returns the rectangle resources are fitted to.
	Bounds() graphics.Rect
}

// Stack is an in-memory StackView. A Stack is itself a Resource, so a
// container can use one as the resource it hands to its own parent.
type Stack struct {
	frame     graphics.Rect
	mask      ResizingMask
	resources []Resource
}

// NewStack creates an empty stack occupying frame.
func NewStack(frame graphics.Rect) *Stack {
	return &Stack{frame: frame}
}

// Count returns the number of hosted resources.
func (s *Stack) Count() int {
	return len(s.resources)
}

// Insert places r at index. It panics if index is out of range, which is a
// caller bug; Content validates indices before calling.
func (s *Stack) Insert(r Resource, index int) {
	if index < 0 || index > len(s.resources) {
		panic(fmt.Sprintf("containment: stack insert index %d out of range [0, %d]", index, len(s.resources)))
	}
	s.resources = append(s.resources, nil)
	copy(s.resources[index+1:], s.resources[index:])
	s.resources[index] = r
}

// Remove detaches r if present.
func (s *Stack) Remove(r Resource) {
	i := s.IndexOf(r)
	if i < 0 {
		return
	}
	copy(s.resources[i:], s.resources[i+1:])
	s.resources[len(s.resources)-1] = nil
	s.resources = s.resources[:len(s.resources)-1]
}

// IndexOf returns the position of r, or -1.
func (s *Stack) IndexOf(r Resource) int {
	for i, existing := range s.resources {
		if existing == r {
			return i
		}
	}
	return -1
}

// At returns the resource at index.
func (s *Stack) At(index int) Resource {
	return s.resources[index]
}

// Resources returns a copy of the hosted resources, bottom first.
func (s *Stack) Resources() []Resource {
	out := make([]Resource, len(s.resources))
	copy(out, s.resources)
	return out
}

// Bounds returns the stack's local bounds, anchored at the origin.
func (s *Stack) Bounds() graphics.Rect {
	return graphics.RectFromLTWH(0, 0, s.frame.Width(), s.frame.Height())
}

// Frame returns the stack's frame in its host's coordinates.
func (s *Stack) Frame() graphics.Rect {
	return s.frame
}

// SetFrame moves the stack. When the size changes, hosted resources are
// resized according to their resizing masks.
func (s *Stack) SetFrame(frame graphics.Rect) {
	oldBounds := s.Bounds()
	s.frame = frame
	newBounds := s.Bounds()
	if oldBounds.ApproxEqual(newBounds) {
		return
	}
	for _, r := range s.resources {
		r.SetFrame(Autoresize(r.Frame(), r.ResizingMask(), oldBounds, newBounds))
	}
}

// ResizingMask returns the stack's own resizing policy.
func (s *Stack) ResizingMask() ResizingMask {
	return s.mask
}

// SetResizingMask sets the stack's own resizing policy.
func (s *Stack) SetResizingMask(mask ResizingMask) {
	s.mask = mask
}
