// Package config loads and validates trackers CLI configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures all CLI configuration knobs loaded via Viper.
type Config struct {
	Logging  LoggingConfig  `mapstructure:"logging"`
	Output   OutputConfig   `mapstructure:"output"`
	Progress ProgressConfig `mapstructure:"progress"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Demo     DemoConfig     `mapstructure:"demo"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// OutputConfig controls how progress lines are rendered.
type OutputConfig struct {
	Color    bool `mapstructure:"color"`
	ForceTTY bool `mapstructure:"force_tty"`
}

// ProgressConfig controls hub buffering and batching.
type ProgressConfig struct {
	BufferSize     int           `mapstructure:"buffer_size"`
	MaxBatchEvents int           `mapstructure:"max_batch_events"`
	MaxBatchWait   time.Duration `mapstructure:"max_batch_wait"`
	SinkTimeout    time.Duration `mapstructure:"sink_timeout"`
}

// MetricsConfig toggles the Prometheus sink.
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// DemoConfig governs the demo subcommands.
type DemoConfig struct {
	Steps     int           `mapstructure:"steps"`
	StepDelay time.Duration `mapstructure:"step_delay"`
	Duration  time.Duration `mapstructure:"duration"`
	Interval  time.Duration `mapstructure:"interval"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("TRACKERS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.development", true)
	v.SetDefault("output.color", false)
	v.SetDefault("output.force_tty", false)
	v.SetDefault("progress.buffer_size", 1024)
	v.SetDefault("progress.max_batch_events", 256)
	v.SetDefault("progress.max_batch_wait", "200ms")
	v.SetDefault("progress.sink_timeout", "5s")
	v.SetDefault("metrics.enabled", false)
	v.SetDefault("demo.steps", 10)
	v.SetDefault("demo.step_delay", "200ms")
	v.SetDefault("demo.duration", "2s")
	v.SetDefault("demo.interval", "100ms")
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Progress.BufferSize <= 0 {
		return fmt.Errorf("progress.buffer_size must be > 0")
	}
	if c.Progress.MaxBatchEvents <= 0 {
		return fmt.Errorf("progress.max_batch_events must be > 0")
	}
	if c.Progress.MaxBatchWait <= 0 {
		return fmt.Errorf("progress.max_batch_wait must be > 0")
	}
	if c.Progress.SinkTimeout <= 0 {
		return fmt.Errorf("progress.sink_timeout must be > 0")
	}
	if c.Demo.Steps <= 0 {
		return fmt.Errorf("demo.steps must be > 0")
	}
	if c.Demo.Interval <= 0 {
		return fmt.Errorf("demo.interval must be > 0")
	}
	return nil
}
