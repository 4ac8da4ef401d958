package report

import (
	"time"

	"github.com/argus-sec/argus/pkg/blocklist"
	"github.com/argus-sec/argus/pkg/event"
	"github.com/argus-sec/argus/pkg/metrics"
	"github.com/argus-sec/argus/pkg/threat"
	"github.com/rs/zerolog"
)

// Summary is the final accounting of an engine run.
type Summary struct {
	TotalEvents   int `json:"total_events"`
	BlockedCount  int `json:"blocked_count"`
	CriticalCount int `json:"critical_count"`
}

// Reporter periodically summarizes the recent slice of the event log into
// an intelligence report. It reads shared state but never mutates it.
type Reporter struct {
	log       *event.Log
	blocklist *blocklist.BlockList
	period    time.Duration
	window    time.Duration
	metrics   *metrics.Metrics
	logger    zerolog.Logger
}

// NewReporter creates a reporter over the shared event log and blocklist.
// metrics may be nil when the engine runs without a metrics registry.
func NewReporter(log *event.Log, bl *blocklist.BlockList, period, window time.Duration, m *metrics.Metrics, logger zerolog.Logger) *Reporter {
	return &Reporter{
		log:       log,
		blocklist: bl,
		period:    period,
		window:    window,
		metrics:   m,
		logger:    logger.With().Str("component", "reporter").Logger(),
	}
}

// Period returns the reporting cadence.
func (r *Reporter) Period() time.Duration { return r.period }

// Emit runs one report cycle. An empty window is a silent skip, not an
// error; Emit reports whether a summary was produced.
func (r *Reporter) Emit() bool {
	recent := r.log.SnapshotSince(r.window)
	if len(recent) == 0 {
		return false
	}

	counts := countByLevel(recent)
	blocked := r.blocklist.Len()

	logEvent := r.logger.Info().
		Int("window_events", len(recent)).
		Int("blocked_identifiers", blocked)
	for _, level := range []threat.Level{threat.LevelLow, threat.LevelMedium, threat.LevelHigh, threat.LevelCritical} {
		if counts[level] > 0 {
			logEvent = logEvent.Int(level.String(), counts[level])
		}
	}
	logEvent.Msg("THREAT INTELLIGENCE REPORT")

	if r.metrics != nil {
		r.metrics.ReportCycles.Inc()
		r.metrics.BlockedIdentifiers.Set(float64(blocked))
	}
	return true
}

// Summarize builds the run-level summary from the full event log.
func (r *Reporter) Summarize() Summary {
	return Summary{
		TotalEvents:   r.log.Len(),
		BlockedCount:  r.blocklist.Len(),
		CriticalCount: r.log.CountByLevel(threat.LevelCritical),
	}
}

func countByLevel(events []event.SecurityEvent) map[threat.Level]int {
	counts := make(map[threat.Level]int, 4)
	for _, ev := range events {
		counts[ev.Level]++
	}
	return counts
}
