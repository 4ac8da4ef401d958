package event

import (
	"fmt"
	"strings"
	"sync"

	"golang.org/x/time/rate"
)

const maxDescriptionLength = 512

// Validator checks security events before they reach the log. Besides
// field validation it rate-limits appends per source identifier so a
// runaway source cannot flood the history.
type Validator struct {
	mu           sync.Mutex
	rateLimiters map[string]*rate.Limiter
	eventsPerSec rate.Limit
	burst        int
}

// NewValidator creates a validator allowing eventsPerSec sustained appends
// per source identifier with the given burst.
func NewValidator(eventsPerSec float64, burst int) *Validator {
	if eventsPerSec <= 0 {
		eventsPerSec = 50
	}
	if burst <= 0 {
		burst = 100
	}
	return &Validator{
		rateLimiters: make(map[string]*rate.Limiter),
		eventsPerSec: rate.Limit(eventsPerSec),
		burst:        burst,
	}
}

// ValidateEvent validates and sanitizes an event in place.
func (v *Validator) ValidateEvent(ev *SecurityEvent) error {
	if ev.EventType == "" {
		return fmt.Errorf("event type is required")
	}
	if ev.SourceIdentifier == "" {
		return fmt.Errorf("event source identifier is required")
	}
	if !ev.Level.Valid() {
		return fmt.Errorf("invalid threat level: %d", int(ev.Level))
	}
	if ev.Confidence < 0 || ev.Confidence > 1 {
		return fmt.Errorf("event confidence %.3f outside [0,1]", ev.Confidence)
	}

	ev.Description = sanitizeString(ev.Description)

	if !v.allow(ev.SourceIdentifier) {
		return fmt.Errorf("rate limit exceeded for source identifier: %s", ev.SourceIdentifier)
	}
	return nil
}

func (v *Validator) allow(identifier string) bool {
	v.mu.Lock()
	limiter, exists := v.rateLimiters[identifier]
	if !exists {
		limiter = rate.NewLimiter(v.eventsPerSec, v.burst)
		v.rateLimiters[identifier] = limiter
	}
	v.mu.Unlock()

	return limiter.Allow()
}

// sanitizeString strips control characters and truncates over-long text.
func sanitizeString(s string) string {
	cleaned := strings.Map(func(r rune) rune {
		if r < 32 && r != '\t' {
			return -1
		}
		return r
	}, s)

	if len(cleaned) > maxDescriptionLength {
		cleaned = cleaned[:maxDescriptionLength]
	}
	return strings.TrimSpace(cleaned)
}
