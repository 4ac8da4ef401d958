package event

import (
	"sort"
	"sync"
	"time"

	"github.com/argus-sec/argus/pkg/threat"
)

// Log is the append-only, bounded history of security events for a run.
// Appends from distinct source goroutines are serialized; each record is
// appended atomically as a whole, so readers never observe a torn event.
type Log struct {
	mu        sync.RWMutex
	events    []SecurityEvent
	maxEvents int
}

// NewLog creates a log capped at maxEvents records. When full, the oldest
// records are dropped on append. A cap of zero disables the bound, which
// is acceptable for a single bounded-duration run.
func NewLog(maxEvents int) *Log {
	return &Log{maxEvents: maxEvents}
}

// Append adds an event to the log.
func (l *Log) Append(ev SecurityEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.events = append(l.events, ev)
	if l.maxEvents > 0 && len(l.events) > l.maxEvents {
		overflow := len(l.events) - l.maxEvents
		l.events = append(l.events[:0:0], l.events[overflow:]...)
	}
}

// SnapshotSince returns a copy of all events whose timestamp falls within
// the trailing window, ordered by timestamp. Append order across sources
// is only weakly ordered by scheduling, so the recorded timestamp is
// authoritative here.
func (l *Log) SnapshotSince(window time.Duration) []SecurityEvent {
	cutoff := time.Now().Add(-window)

	l.mu.RLock()
	snapshot := make([]SecurityEvent, 0, len(l.events))
	for _, ev := range l.events {
		if !ev.Timestamp.Before(cutoff) {
			snapshot = append(snapshot, ev)
		}
	}
	l.mu.RUnlock()

	sort.SliceStable(snapshot, func(i, j int) bool {
		return snapshot[i].Timestamp.Before(snapshot[j].Timestamp)
	})
	return snapshot
}

// Len returns the number of retained events.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return len(l.events)
}

// CountByLevel returns how many retained events carry the given level.
func (l *Log) CountByLevel(level threat.Level) int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	count := 0
	for _, ev := range l.events {
		if ev.Level == level {
			count++
		}
	}
	return count
}
