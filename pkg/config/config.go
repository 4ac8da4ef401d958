package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// Config is the top-level configuration struct for the engine. It holds
// settings for logging, the API, the observation sources, the reporter,
// and the shared detection state. Tags are used by Viper to map YAML keys
// to struct fields.
type Config struct {
	LogLevel    string        `mapstructure:"log_level"`
	APIPort     string        `mapstructure:"api_port"`
	RunDuration time.Duration `mapstructure:"run_duration"`

	Sources    []SourceConfig   `mapstructure:"sources"`
	Reporter   ReporterConfig   `mapstructure:"reporter"`
	BruteForce BruteForceConfig `mapstructure:"brute_force"`
	EventLog   EventLogConfig   `mapstructure:"event_log"`
	Dedup      DedupConfig      `mapstructure:"deduplication"`
	Validation ValidationConfig `mapstructure:"validation"`
	Actions    ActionsConfig    `mapstructure:"actions"`

	// AlertThresholds is retained for compatibility with older deployment
	// configs. Classification does not consult it; the cutoffs live in the
	// threat package.
	AlertThresholds map[string]float64 `mapstructure:"alert_thresholds"`

	v *viper.Viper
}

// SourceConfig defines the configuration for a single observation source:
// its name, whether it is enabled, its polling interval, and the per-cycle
// trigger probability of its default policy.
type SourceConfig struct {
	Name               string        `mapstructure:"name"`
	Enabled            bool          `mapstructure:"enabled"`
	Interval           time.Duration `mapstructure:"interval"`
	TriggerProbability float64       `mapstructure:"trigger_probability"`
	Seed               int64         `mapstructure:"seed"`
}

// ReporterConfig configures the periodic intelligence reporter.
type ReporterConfig struct {
	Period time.Duration `mapstructure:"period"`
	Window time.Duration `mapstructure:"window"`
}

// BruteForceConfig configures the consecutive-failure escalation path.
type BruteForceConfig struct {
	Threshold int `mapstructure:"threshold"`
}

// EventLogConfig configures event retention. MaxEvents of zero keeps the
// log unbounded for the run.
type EventLogConfig struct {
	MaxEvents int `mapstructure:"max_events"`
}

// DedupConfig configures observation deduplication.
type DedupConfig struct {
	Enabled    bool          `mapstructure:"enabled"`
	Window     time.Duration `mapstructure:"window"`
	MaxEntries int           `mapstructure:"max_entries"`
}

// ValidationConfig configures the per-identifier append rate limit.
type ValidationConfig struct {
	EventsPerSecond float64 `mapstructure:"events_per_second"`
	Burst           int     `mapstructure:"burst"`
}

// ActionsConfig holds the global switch for mitigation action dispatch.
type ActionsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// DefaultSources returns the built-in source set with the design-default
// intervals and trigger probabilities.
func DefaultSources() []SourceConfig {
	return []SourceConfig{
		{Name: "network", Enabled: true, Interval: 2 * time.Second, TriggerProbability: 0.3},
		{Name: "login", Enabled: true, Interval: 3 * time.Second, TriggerProbability: 0.2},
		{Name: "filesystem", Enabled: true, Interval: 4 * time.Second, TriggerProbability: 0.15},
		{Name: "data_access", Enabled: true, Interval: 5 * time.Second, TriggerProbability: 0.1},
	}
}

// LoadConfig reads the configuration from a YAML file (config.yaml) and
// environment variables. It uses Viper for robust configuration
// management, allowing for defaults and environment variable overrides.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config") // config.yaml
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/argus/")

	v.SetDefault("log_level", "info")
	v.SetDefault("api_port", "8080")
	v.SetDefault("run_duration", "30s")
	v.SetDefault("reporter.period", "10s")
	v.SetDefault("reporter.window", "1m")
	v.SetDefault("brute_force.threshold", 5)
	v.SetDefault("event_log.max_events", 0)
	v.SetDefault("deduplication.enabled", false)
	v.SetDefault("deduplication.window", "30s")
	v.SetDefault("deduplication.max_entries", 1024)
	v.SetDefault("validation.events_per_second", 50)
	v.SetDefault("validation.burst", 100)
	v.SetDefault("actions.enabled", true)

	v.SetEnvPrefix("ARGUS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Info().Msg("Config file not found, using defaults and environment variables.")
		} else {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if len(cfg.Sources) == 0 {
		cfg.Sources = DefaultSources()
	}
	cfg.v = v

	return &cfg, nil
}

// GetSourceConfig returns the configuration block for the named source,
// or nil when the source is not configured.
func (c *Config) GetSourceConfig(name string) *SourceConfig {
	for i := range c.Sources {
		if c.Sources[i].Name == name {
			return &c.Sources[i]
		}
	}
	return nil
}

// WatchLogLevel re-reads the config file on change and invokes the
// callback with the new log level. Only the log level is hot-reloaded;
// source topology changes require a restart.
func (c *Config) WatchLogLevel(onChange func(level string)) {
	if c.v == nil {
		return
	}
	c.v.OnConfigChange(func(e fsnotify.Event) {
		log.Info().Str("file", e.Name).Msg("Config file changed, reloading log level")
		onChange(c.v.GetString("log_level"))
	})
	c.v.WatchConfig()
}
