package report

import (
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/argus-sec/argus/pkg/blocklist"
	"github.com/argus-sec/argus/pkg/event"
	"github.com/argus-sec/argus/pkg/metrics"
	"github.com/argus-sec/argus/pkg/threat"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// LogCapture is a helper to capture zerolog output for testing.
type LogCapture struct {
	sync.Mutex
	logs []string
}

func (lc *LogCapture) Write(p []byte) (n int, err error) {
	lc.Lock()
	defer lc.Unlock()
	lc.logs = append(lc.logs, string(p))
	return len(p), nil
}

func (lc *LogCapture) Joined() string {
	lc.Lock()
	defer lc.Unlock()
	return strings.Join(lc.logs, "")
}

func seedEvent(log *event.Log, ts time.Time, level threat.Level) {
	log.Append(event.SecurityEvent{
		ID:               "ev",
		Timestamp:        ts,
		EventType:        "suspicious_traffic_ddos",
		SourceIdentifier: "192.168.1.2",
		Level:            level,
		Confidence:       0.7,
		ActionTaken:      "logged for monitoring",
	})
}

func TestReporter_EmitSkipsEmptyWindow(t *testing.T) {
	lc := &LogCapture{}
	logger := zerolog.New(lc)

	eventLog := event.NewLog(0)
	reporter := NewReporter(eventLog, blocklist.New(), 10*time.Second, time.Minute, nil, logger)

	assert.False(t, reporter.Emit(), "an empty window is a silent skip")
	assert.Empty(t, lc.Joined())

	// Events outside the window do not count either.
	seedEvent(eventLog, time.Now().Add(-2*time.Minute), threat.LevelHigh)
	assert.False(t, reporter.Emit())
}

func TestReporter_EmitCountsByLevel(t *testing.T) {
	lc := &LogCapture{}
	logger := zerolog.New(lc)

	eventLog := event.NewLog(0)
	bl := blocklist.New()
	bl.Add("192.168.1.2")

	now := time.Now()
	seedEvent(eventLog, now, threat.LevelLow)
	seedEvent(eventLog, now, threat.LevelCritical)
	seedEvent(eventLog, now, threat.LevelCritical)

	reporter := NewReporter(eventLog, bl, 10*time.Second, time.Minute, metrics.New(), logger)
	require.True(t, reporter.Emit())

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lc.Joined()), &entry))
	assert.Equal(t, float64(1), entry["low"])
	assert.Equal(t, float64(2), entry["critical"])
	assert.Equal(t, float64(3), entry["window_events"])
	assert.Equal(t, float64(1), entry["blocked_identifiers"])
	assert.NotContains(t, entry, "medium", "levels with no events are omitted")
}

func TestReporter_Summarize(t *testing.T) {
	eventLog := event.NewLog(0)
	bl := blocklist.New()

	now := time.Now()
	seedEvent(eventLog, now, threat.LevelCritical)
	seedEvent(eventLog, now, threat.LevelMedium)
	seedEvent(eventLog, now.Add(-5*time.Minute), threat.LevelCritical)
	bl.Add("a")
	bl.Add("b")

	reporter := NewReporter(eventLog, bl, 10*time.Second, time.Minute, nil, zerolog.Nop())
	summary := reporter.Summarize()

	// The summary spans the whole run, not just the report window.
	assert.Equal(t, 3, summary.TotalEvents)
	assert.Equal(t, 2, summary.BlockedCount)
	assert.Equal(t, 2, summary.CriticalCount)
}
