package event

import (
	"fmt"
	"time"

	"github.com/argus-sec/argus/pkg/threat"
	"github.com/google/uuid"
)

// SecurityEvent is the durable record derived from a classified
// observation plus the mitigating action taken for it. Events are
// immutable once appended to the log.
type SecurityEvent struct {
	ID               string       `json:"id"`
	Timestamp        time.Time    `json:"timestamp"`
	EventType        string       `json:"event_type"`
	SourceIdentifier string       `json:"source_identifier"`
	SourceKind       string       `json:"source_kind"`
	Level            threat.Level `json:"threat_level"`
	Description      string       `json:"description"`
	Confidence       float64      `json:"confidence"`
	ActionTaken      string       `json:"action_taken"`
}

// New builds a security event stamped with the current time and a fresh ID.
func New(obs *threat.Observation, level threat.Level, actionTaken string) SecurityEvent {
	return SecurityEvent{
		ID:               uuid.NewString(),
		Timestamp:        time.Now(),
		EventType:        obs.EventType,
		SourceIdentifier: obs.Identifier,
		SourceKind:       obs.Kind.String(),
		Level:            level,
		Description:      obs.Description,
		Confidence:       obs.Confidence,
		ActionTaken:      actionTaken,
	}
}

// Render produces the single-line human-readable form of the event.
func (e SecurityEvent) Render() string {
	return fmt.Sprintf("[%s] %s - %s | source=%s | %s | confidence=%.2f%% | action=%s",
		e.Timestamp.Format("15:04:05"),
		e.Level,
		e.EventType,
		e.SourceIdentifier,
		e.Description,
		e.Confidence*100,
		e.ActionTaken,
	)
}
