package containment

import (
	"reflect"
	"sync"

	drifterrors "github.com/go-drift/containment/pkg/errors"
)

var (
	ownersMu sync.Mutex
	owners   = make(map[Unit]*Content)
)

// claim registers c as the sole owner of its child.
func claim(c *Content) error {
	ownersMu.Lock()
	defer ownersMu.Unlock()
	if existing, ok := owners[c.child]; ok && existing != c {
		return drifterrors.New("containment.NewContent", drifterrors.KindPrecondition, drifterrors.ErrAlreadyOwned)
	}
	owners[c.child] = c
	return nil
}

// relinquish clears c's ownership slot. It is a no-op if c is not the owner.
func relinquish(c *Content) {
	ownersMu.Lock()
	defer ownersMu.Unlock()
	if owners[c.child] == c {
		delete(owners, c.child)
	}
}

// ContentOf returns the content currently owning u, or nil.
func ContentOf(u Unit) *Content {
	if u == nil || !isComparable(u) {
		return nil
	}
	ownersMu.Lock()
	defer ownersMu.Unlock()
	return owners[u]
}

// IsOwned reports whether u is embedded in a container.
func IsOwned(u Unit) bool {
	return ContentOf(u) != nil
}

// IsMovingToParent reports whether u is being inserted into its container as
// part of the current appearance transaction.
func IsMovingToParent(u Unit) bool {
	if c := ContentOf(u); c != nil {
		return c.IsMovingToParent()
	}
	return false
}

// IsMovingFromParent reports whether u is being removed from its container as
// part of the current disappearance transaction.
func IsMovingFromParent(u Unit) bool {
	if c := ContentOf(u); c != nil {
		return c.IsMovingFromParent()
	}
	return false
}

func isNil(u Unit) bool {
	if u == nil {
		return true
	}
	v := reflect.ValueOf(u)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return v.IsNil()
	}
	return false
}

func isComparable(u Unit) bool {
	return reflect.TypeOf(u).Comparable()
}
