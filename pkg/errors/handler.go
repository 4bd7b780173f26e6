package errors

import (
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"
)

var (
	// DefaultHandler receives every contract violation, recovered panic and
	// ignored lifecycle call. It starts as a LogHandler writing to stderr.
	DefaultHandler ErrorHandler = NewLogHandler(nil, false)

	handlerMu sync.RWMutex
)

// SetHandler replaces DefaultHandler. A nil handler restores the stderr
// LogHandler.
func SetHandler(h ErrorHandler) {
	handlerMu.Lock()
	defer handlerMu.Unlock()
	if h == nil {
		DefaultHandler = NewLogHandler(nil, false)
	} else {
		DefaultHandler = h
	}
}

// getHandler returns the current error handler.
func getHandler() ErrorHandler {
	handlerMu.RLock()
	defer handlerMu.RUnlock()
	return DefaultHandler
}

// Report hands a containment error to DefaultHandler, stamping it with the
// current time if it has none.
func Report(err *ContainmentError) {
	if err == nil {
		return
	}
	if err.Timestamp.IsZero() {
		err.Timestamp = time.Now()
	}
	if h := getHandler(); h != nil {
		h.HandleError(err)
	}
}

// ReportPanic hands a recovered panic to DefaultHandler.
func ReportPanic(err *PanicError) {
	if err == nil {
		return
	}
	if h := getHandler(); h != nil {
		h.HandlePanic(err)
	}
}

// ReportSequencing sends an ignored-call diagnostic to the global handler.
func ReportSequencing(anomaly *SequencingAnomaly) {
	if anomaly == nil {
		return
	}
	if anomaly.Timestamp.IsZero() {
		anomaly.Timestamp = time.Now()
	}
	if h := getHandler(); h != nil {
		h.HandleSequencing(anomaly)
	}
}

// Recover reports a panic raised by a child unit's callback under op. It must
// be deferred directly:
//
//	defer errors.Recover("navigation.Push")
func Recover(op string) {
	if r := recover(); r != nil {
		reportRecovered(op, r, CaptureStack())
	}
}

// RecoverWithCallback reports a recovered panic like Recover, then hands the
// panic value to callback so the caller can turn it into a result.
func RecoverWithCallback(op string, callback func(r any)) {
	if r := recover(); r != nil {
		reportRecovered(op, r, CaptureStack())
		if callback != nil {
			callback(r)
		}
	}
}

func reportRecovered(op string, value any, stack string) {
	ReportPanic(&PanicError{
		Op:         op,
		Value:      value,
		StackTrace: stack,
		Timestamp:  time.Now(),
	})
}

// CaptureStack formats the stack of its caller's caller, one function and
// file:line pair per frame, at most 32 frames deep.
func CaptureStack() string {
	const maxDepth = 32
	var pcs [maxDepth]uintptr
	n := runtime.Callers(3, pcs[:])
	if n == 0 {
		return ""
	}

	frames := runtime.CallersFrames(pcs[:n])
	var sb strings.Builder
	for {
		frame, more := frames.Next()
		sb.WriteString(frame.Function)
		sb.WriteString("\n\t")
		sb.WriteString(frame.File)
		sb.WriteString(":")
		sb.WriteString(strconv.Itoa(frame.Line))
		sb.WriteString("\n")
		if !more {
			break
		}
	}
	return sb.String()
}
