package errors

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// LogHandler is an ErrorHandler that writes structured log records.
type LogHandler struct {
	// Verbose enables stack traces and sequencing diagnostics.
	Verbose bool

	logger *log.Logger
}

// NewLogHandler creates a LogHandler writing to w (stderr when nil).
// Sequencing anomalies are logged at debug level, so they only appear
// when verbose is set.
func NewLogHandler(w io.Writer, verbose bool) *LogHandler {
	if w == nil {
		w = os.Stderr
	}
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	return &LogHandler{
		Verbose: verbose,
		logger: log.NewWithOptions(w, log.Options{
			Prefix: "containment",
			Level:  level,
		}),
	}
}

// NewLogHandlerWithLogger creates a LogHandler around an existing logger.
func NewLogHandlerWithLogger(l *log.Logger, verbose bool) *LogHandler {
	return &LogHandler{Verbose: verbose, logger: l}
}

// HandleError logs a ContainmentError.
func (h *LogHandler) HandleError(err *ContainmentError) {
	if err == nil {
		return
	}
	h.logger.Error(err.Err, "op", err.Op, "kind", err.Kind.String())
}

// HandlePanic logs a PanicError.
func (h *LogHandler) HandlePanic(err *PanicError) {
	if err == nil {
		return
	}
	if err.Op != "" {
		h.logger.Error("panic", "op", err.Op, "value", err.Value)
	} else {
		h.logger.Error("panic", "value", err.Value)
	}
	if h.Verbose && err.StackTrace != "" {
		h.logger.Debug("stack trace\n" + err.StackTrace)
	}
}

// HandleSequencing logs an ignored out-of-phase call.
func (h *LogHandler) HandleSequencing(anomaly *SequencingAnomaly) {
	if anomaly == nil {
		return
	}
	h.logger.Debug("ignored lifecycle call",
		"content", anomaly.ContentID,
		"op", anomaly.Op,
		"phase", anomaly.Phase,
	)
}
