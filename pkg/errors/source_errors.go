package errors

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// SourceError is a structured error raised by an observation source or
// by the pipeline stage processing its output.
type SourceError struct {
	SourceName  string                 `json:"source_name"`
	ErrorType   string                 `json:"error_type"`
	Message     string                 `json:"message"`
	Details     map[string]interface{} `json:"details,omitempty"`
	Timestamp   time.Time              `json:"timestamp"`
	Severity    Severity               `json:"severity"`
	Recoverable bool                   `json:"recoverable"`
	Cause       error                  `json:"-"`
}

type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// Error implements the error interface.
func (se *SourceError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", se.SourceName, se.ErrorType, se.Message)
}

// Unwrap returns the underlying cause.
func (se *SourceError) Unwrap() error {
	return se.Cause
}

// Handler logs source errors at a level matching their severity. A single
// handler is shared by all source loops; errors never cross loop
// boundaries, so handling one can never affect a sibling source.
type Handler struct {
	logger zerolog.Logger
}

// NewHandler creates a new error handler.
func NewHandler(logger zerolog.Logger) *Handler {
	return &Handler{logger: logger}
}

// Handle logs a source error with its structured context.
func (h *Handler) Handle(err *SourceError) {
	logEvent := h.logEvent(err.Severity).
		Str("source", err.SourceName).
		Str("error_type", err.ErrorType).
		Str("message", err.Message).
		Bool("recoverable", err.Recoverable)

	if err.Details != nil {
		logEvent = logEvent.Interface("details", err.Details)
	}
	if err.Cause != nil {
		logEvent = logEvent.AnErr("cause", err.Cause)
	}

	logEvent.Msg("Source error occurred")
}

func (h *Handler) logEvent(severity Severity) *zerolog.Event {
	switch severity {
	case SeverityCritical, SeverityHigh:
		return h.logger.Error()
	case SeverityMedium:
		return h.logger.Warn()
	case SeverityLow:
		return h.logger.Info()
	default:
		return h.logger.Info()
	}
}

// NewPollError wraps a transient per-cycle failure during signal polling.
// The cycle is skipped; the source loop keeps running.
func NewPollError(sourceName string, cause error) *SourceError {
	return &SourceError{
		SourceName:  sourceName,
		ErrorType:   "poll",
		Message:     "Signal polling failed for this cycle",
		Timestamp:   time.Now(),
		Severity:    SeverityMedium,
		Recoverable: true,
		Cause:       cause,
	}
}

// NewContractError wraps an invariant violation in a produced observation,
// such as a confidence outside [0,1]. This is a programming-contract
// failure, fatal for the current cycle only.
func NewContractError(sourceName string, cause error) *SourceError {
	return &SourceError{
		SourceName:  sourceName,
		ErrorType:   "contract",
		Message:     "Observation violated its construction contract",
		Timestamp:   time.Now(),
		Severity:    SeverityHigh,
		Recoverable: false,
		Cause:       cause,
	}
}

// NewPanicError wraps a recovered panic from a source cycle. The panicking
// source's loop terminates; sibling sources are unaffected.
func NewPanicError(sourceName string, recovered interface{}) *SourceError {
	return &SourceError{
		SourceName: sourceName,
		ErrorType:  "panic",
		Message:    "Source cycle panicked",
		Details: map[string]interface{}{
			"panic": fmt.Sprintf("%v", recovered),
		},
		Timestamp:   time.Now(),
		Severity:    SeverityCritical,
		Recoverable: false,
	}
}

// NewValidationError wraps a rejected event append, such as a rate-limited
// or malformed security event.
func NewValidationError(sourceName string, cause error) *SourceError {
	return &SourceError{
		SourceName:  sourceName,
		ErrorType:   "validation",
		Message:     "Security event failed validation",
		Timestamp:   time.Now(),
		Severity:    SeverityMedium,
		Recoverable: true,
		Cause:       cause,
	}
}
