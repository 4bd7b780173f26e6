// Package errors provides structured error handling for containers and the
// content they embed.
package errors

import (
	"errors"
	"fmt"
	"time"
)

// ErrorKind identifies the category of an error.
type ErrorKind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown ErrorKind = iota
	// KindPrecondition indicates a caller contract violation, such as
	// embedding a nil child or a child that is already owned.
	KindPrecondition
	// KindIndex indicates an insertion index outside a stack view's range.
	KindIndex
	// KindSequencing indicates a lifecycle call made from an incompatible phase.
	KindSequencing
	// KindPanic indicates a recovered panic.
	KindPanic
	// KindConfig indicates an invalid or unreadable configuration.
	KindConfig
)

func (k ErrorKind) String() string {
	switch k {
	case KindPrecondition:
		return "precondition"
	case KindIndex:
		return "index"
	case KindSequencing:
		return "sequencing"
	case KindPanic:
		return "panic"
	case KindConfig:
		return "config"
	default:
		return "unknown"
	}
}

// Sentinel causes wrapped by ContainmentError. Compare with errors.Is.
var (
	ErrNilChild          = errors.New("child is nil")
	ErrIncomparableChild = errors.New("child type is not comparable")
	ErrNilContainer      = errors.New("container is nil")
	ErrAlreadyOwned      = errors.New("child is already owned by another content")
	ErrInvalidDuration   = errors.New("transition duration is negative")
	ErrIndexOutOfRange   = errors.New("index out of stack view range")
	ErrNilStackView      = errors.New("stack view is nil")
	ErrDisposed          = errors.New("container is disposed")
)

// ContainmentError represents a structured error raised by a containment
// operation.
type ContainmentError struct {
	// Op is the operation that failed (e.g., "containment.NewContent").
	Op string
	// Kind categorizes the error.
	Kind ErrorKind
	// Err is the underlying error.
	Err error
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

// New returns a ContainmentError stamped with the current time.
func New(op string, kind ErrorKind, err error) *ContainmentError {
	return &ContainmentError{Op: op, Kind: kind, Err: err, Timestamp: time.Now()}
}

func (e *ContainmentError) Error() string {
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *ContainmentError) Unwrap() error {
	return e.Err
}

// IsKind reports whether err is, or wraps, a ContainmentError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var ce *ContainmentError
	if errors.As(err, &ce) {
		return ce.Kind == kind
	}
	return false
}

// PanicError represents a recovered panic.
type PanicError struct {
	// Op is the operation that panicked (e.g., "navigation.StackController.Push").
	Op string
	// Value is the value passed to panic().
	Value any
	// StackTrace contains the call stack at the time of the panic.
	StackTrace string
	// Timestamp is when the panic occurred.
	Timestamp time.Time
}

func (e *PanicError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("panic in %s: %v", e.Op, e.Value)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// SequencingAnomaly describes a lifecycle or insertion call that was ignored
// because the content was not in a compatible phase. Anomalies never change
// behavior; they only feed diagnostics.
type SequencingAnomaly struct {
	// ContentID identifies the content that ignored the call.
	ContentID string
	// Op is the ignored call (e.g., "DidAppear").
	Op string
	// Phase is the content's phase when the call arrived.
	Phase string
	// Timestamp is when the call arrived.
	Timestamp time.Time
}

func (a *SequencingAnomaly) Error() string {
	return fmt.Sprintf("content %s ignored %s in phase %s", a.ContentID, a.Op, a.Phase)
}

// ErrorHandler receives errors and diagnostics reported by containers.
type ErrorHandler interface {
	// HandleError is called when an operation fails.
	HandleError(err *ContainmentError)
	// HandlePanic is called when a panic is recovered.
	HandlePanic(err *PanicError)
	// HandleSequencing is called when an out-of-phase call is ignored.
	HandleSequencing(anomaly *SequencingAnomaly)
}
