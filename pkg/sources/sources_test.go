package sources

import (
	"context"
	"testing"
	"time"

	"github.com/argus-sec/argus/pkg/bruteforce"
	"github.com/argus-sec/argus/pkg/config"
	"github.com/argus-sec/argus/pkg/threat"
	"github.com/argus-sec/argus/pkg/trigger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sourceConfig(name string, interval time.Duration) config.SourceConfig {
	return config.SourceConfig{
		Name:               name,
		Enabled:            true,
		Interval:           interval,
		TriggerProbability: 0.3,
		Seed:               42,
	}
}

func TestNetworkSource_Poll(t *testing.T) {
	src := NewNetworkSource(sourceConfig("network", 2*time.Second), trigger.NewSequence(false, true))
	ctx := context.Background()

	obs, err := src.Poll(ctx)
	require.NoError(t, err)
	assert.Nil(t, obs, "a cycle without a trigger emits nothing")

	obs, err = src.Poll(ctx)
	require.NoError(t, err)
	require.NotNil(t, obs)

	assert.Equal(t, threat.KindNetwork, obs.Kind)
	assert.Contains(t, networkSubtypes, obs.Subtype)
	assert.Equal(t, "suspicious_traffic_"+obs.Subtype, obs.EventType)
	assert.Regexp(t, `^192\.168\.1\.\d+$`, obs.Identifier)
	assert.GreaterOrEqual(t, obs.Confidence, 0.4)
	assert.Less(t, obs.Confidence, 0.95)
	assert.NoError(t, obs.Validate())
	assert.Equal(t, 2*time.Second, src.Interval())
}

func TestLoginSource_GenericFailure(t *testing.T) {
	counter := bruteforce.NewCounter(5)
	src := NewLoginSource(sourceConfig("login", 3*time.Second), trigger.NewSequence(true), counter)
	src.pickIdentifier = func() string { return "10.0.0.1" }

	obs, err := src.Poll(context.Background())
	require.NoError(t, err)
	require.NotNil(t, obs)

	assert.Equal(t, "failed_login", obs.EventType)
	assert.Nil(t, obs.Forced)
	assert.Equal(t, 1, counter.Attempts("10.0.0.1"))
	assert.Less(t, obs.Confidence, 0.6, "generic login failures never classify above medium")
}

func TestLoginSource_BruteForceEscalation(t *testing.T) {
	counter := bruteforce.NewCounter(5)
	src := NewLoginSource(sourceConfig("login", 3*time.Second),
		trigger.NewSequence(true, true, true, true, true, true), counter)
	src.pickIdentifier = func() string { return "10.0.0.77" }
	ctx := context.Background()

	var escalations []*threat.Observation
	for i := 0; i < 6; i++ {
		obs, err := src.Poll(ctx)
		require.NoError(t, err)
		require.NotNil(t, obs)
		if obs.Forced != nil {
			escalations = append(escalations, obs)
		}
	}

	// Exactly one brute-force observation, on the fifth consecutive failure.
	require.Len(t, escalations, 1)
	escalated := escalations[0]
	assert.Equal(t, "brute_force_attack", escalated.EventType)
	assert.Equal(t, threat.LevelHigh, *escalated.Forced)
	assert.Equal(t, 0.9, escalated.Confidence)
	assert.Equal(t, threat.LevelHigh, escalated.Level())

	// The sixth failure restarted the streak from 1.
	assert.Equal(t, 1, counter.Attempts("10.0.0.77"))
}

func TestFilesystemSource_Poll(t *testing.T) {
	src := NewFilesystemSource(sourceConfig("filesystem", 4*time.Second), trigger.NewSequence(true))

	obs, err := src.Poll(context.Background())
	require.NoError(t, err)
	require.NotNil(t, obs)

	assert.Equal(t, threat.KindFilesystem, obs.Kind)
	assert.Equal(t, "localhost", obs.Identifier)
	assert.Contains(t, criticalFiles, obs.Subtype)
	assert.Equal(t, "unauthorized_file_change", obs.EventType)
	assert.GreaterOrEqual(t, obs.Confidence, 0.5)
	assert.Less(t, obs.Confidence, 0.8)
}

func TestDataAccessSource_Poll(t *testing.T) {
	src := NewDataAccessSource(sourceConfig("data_access", 5*time.Second), trigger.NewSequence(true))

	obs, err := src.Poll(context.Background())
	require.NoError(t, err)
	require.NotNil(t, obs)

	assert.Equal(t, threat.KindDataAccess, obs.Kind)
	assert.Contains(t, querySubtypes, obs.Subtype)
	assert.Equal(t, "suspicious_db_query_"+obs.Subtype, obs.EventType)
	assert.Regexp(t, `^172\.16\.0\.\d+$`, obs.Identifier)
	assert.GreaterOrEqual(t, obs.Confidence, 0.6)
	assert.Less(t, obs.Confidence, 0.9)
}

func TestSources_SeededSamplingIsRepeatable(t *testing.T) {
	first := NewNetworkSource(sourceConfig("network", time.Second), trigger.NewSequence(true, true, true))
	second := NewNetworkSource(sourceConfig("network", time.Second), trigger.NewSequence(true, true, true))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		a, err := first.Poll(ctx)
		require.NoError(t, err)
		b, err := second.Poll(ctx)
		require.NoError(t, err)
		assert.Equal(t, a, b)
	}
}
