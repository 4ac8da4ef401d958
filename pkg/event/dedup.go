package event

import (
	"fmt"
	"time"

	"github.com/argus-sec/argus/pkg/threat"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

const defaultDedupEntries = 1024

// Deduplicator suppresses repeated observations of the same signal within
// a time window. Entries expire out of the backing LRU on their own, so
// no sweeping goroutine is needed.
type Deduplicator struct {
	seen *expirable.LRU[string, time.Time]
}

// NewDeduplicator creates a deduplicator with the given suppression window
// and maximum number of tracked signals.
func NewDeduplicator(window time.Duration, maxEntries int) *Deduplicator {
	if maxEntries <= 0 {
		maxEntries = defaultDedupEntries
	}
	return &Deduplicator{
		seen: expirable.NewLRU[string, time.Time](maxEntries, nil, window),
	}
}

// IsDuplicate reports whether an equivalent observation was already seen
// within the window. Suppressed repeats do not refresh the entry, so a
// signal that keeps firing is re-emitted once per window rather than
// silenced indefinitely.
func (d *Deduplicator) IsDuplicate(obs *threat.Observation) bool {
	key := observationKey(obs)
	if _, seen := d.seen.Get(key); seen {
		return true
	}
	d.seen.Add(key, time.Now())
	return false
}

func observationKey(obs *threat.Observation) string {
	return fmt.Sprintf("%s:%s:%s", obs.Kind, obs.Identifier, obs.Subtype)
}
