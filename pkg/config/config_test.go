package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig(t *testing.T) {
	testConfigContent := `
log_level: debug
api_port: "9090"
run_duration: 45s
sources:
  - name: network
    enabled: true
    interval: 1s
    trigger_probability: 0.5
  - name: login
    enabled: false
    interval: 2s
    trigger_probability: 0.1
reporter:
  period: 5s
  window: 30s
brute_force:
  threshold: 3
`

	err := os.WriteFile("config.yaml", []byte(testConfigContent), 0644)
	assert.NoError(t, err)
	defer os.Remove("config.yaml")

	cfg, err := LoadConfig()
	assert.NoError(t, err)
	assert.NotNil(t, cfg)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "9090", cfg.APIPort)
	assert.Equal(t, 45*time.Second, cfg.RunDuration)
	assert.Len(t, cfg.Sources, 2)

	network := cfg.GetSourceConfig("network")
	assert.NotNil(t, network)
	assert.True(t, network.Enabled)
	assert.Equal(t, time.Second, network.Interval)
	assert.Equal(t, 0.5, network.TriggerProbability)

	login := cfg.GetSourceConfig("login")
	assert.NotNil(t, login)
	assert.False(t, login.Enabled)

	assert.Nil(t, cfg.GetSourceConfig("unknown"))

	assert.Equal(t, 5*time.Second, cfg.Reporter.Period)
	assert.Equal(t, 30*time.Second, cfg.Reporter.Window)
	assert.Equal(t, 3, cfg.BruteForce.Threshold)

	// Environment variable override.
	os.Setenv("ARGUS_API_PORT", "9091")
	defer os.Unsetenv("ARGUS_API_PORT")

	cfg, err = LoadConfig()
	assert.NoError(t, err)
	assert.Equal(t, "9091", cfg.APIPort)
}

func TestLoadConfig_Defaults(t *testing.T) {
	os.Remove("config.yaml")

	cfg, err := LoadConfig()
	assert.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 30*time.Second, cfg.RunDuration)
	assert.Equal(t, 10*time.Second, cfg.Reporter.Period)
	assert.Equal(t, time.Minute, cfg.Reporter.Window)
	assert.Equal(t, 5, cfg.BruteForce.Threshold)

	// The built-in source set applies when no sources are configured.
	assert.Len(t, cfg.Sources, 4)
	assert.Equal(t, 2*time.Second, cfg.GetSourceConfig("network").Interval)
	assert.Equal(t, 0.3, cfg.GetSourceConfig("network").TriggerProbability)
	assert.Equal(t, 5*time.Second, cfg.GetSourceConfig("data_access").Interval)
	assert.Equal(t, 0.1, cfg.GetSourceConfig("data_access").TriggerProbability)
}
