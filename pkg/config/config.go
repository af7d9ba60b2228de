// Copyright 2025 ChainCodec Authors
//
// Package config is chaincodec's bootstrap configuration loader: a
// YAML-struct-tag tree with ${VAR_NAME} / ${VAR_NAME:-default}
// environment substitution via a pre-compiled regexp, and a
// Load/applyDefaults shape covering which CSDL schema sources to
// ingest and the batch/stream engines' tunables.
package config

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/chaincodec/chaincodec/pkg/batch"
	"github.com/chaincodec/chaincodec/pkg/stream"
)

// Config is the top-level bootstrap document.
type Config struct {
	Environment string `yaml:"environment"`

	CSDL    CSDLSettings    `yaml:"csdl"`
	Batch   BatchSettings   `yaml:"batch"`
	Stream  StreamSettings  `yaml:"stream"`
	Metrics MetricsSettings `yaml:"metrics"`
	Logging LoggingSettings `yaml:"logging"`
}

// CSDLSettings names the schema documents the registry loads at
// startup. Sources may be individual file paths or directories; Load
// callers walk directories themselves (see LoadRegistry).
type CSDLSettings struct {
	Sources []string `yaml:"sources"`
}

// BatchSettings carries batch.Run's tunable defaults.
type BatchSettings struct {
	ChunkSize int    `yaml:"chunk_size"`
	ErrorMode string `yaml:"error_mode"` // "skip", "collect", or "throw"
}

// StreamSettings carries stream.Config's tunable defaults.
type StreamSettings struct {
	RawQueueSize      int      `yaml:"raw_queue_size"`
	SubscriberBufSize int      `yaml:"subscriber_buf_size"`
	HandshakeTimeout  Duration `yaml:"handshake_timeout"`
	BackoffBase       Duration `yaml:"backoff_base"`
	BackoffCap        Duration `yaml:"backoff_cap"`
	AllowList         []string `yaml:"allow_list"`
}

// MetricsSettings selects the observability backend: it only toggles
// whether pkg/metrics.NewPrometheusRecorder gets wired in by the
// caller, not how the collector itself is run.
type MetricsSettings struct {
	Enabled bool   `yaml:"enabled"`
	Port    int    `yaml:"port"`
	Path    string `yaml:"path"`
}

// LoggingSettings configures the level and output format for
// chaincodec's log.Logger-based components.
type LoggingSettings struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Duration wraps time.Duration for YAML unmarshaling as a parsed
// duration string ("30s", "5m") rather than a raw integer of
// ambiguous unit.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

func (d Duration) Duration() time.Duration { return time.Duration(d) }

// envVarPattern matches ${VAR_NAME} or ${VAR_NAME:-default}.
var envVarPattern = regexp.MustCompile(`\$\{([^}:]+)(:-([^}]*))?\}`)

// substituteEnvVars replaces ${VAR_NAME} with its environment value,
// or the :-default fallback when the variable is unset or empty.
func substituteEnvVars(content string) string {
	return envVarPattern.ReplaceAllStringFunc(content, func(match string) string {
		groups := envVarPattern.FindStringSubmatch(match)
		if len(groups) < 2 {
			return match
		}
		varName := groups[1]
		defaultValue := ""
		if len(groups) >= 4 {
			defaultValue = groups[3]
		}
		if v := os.Getenv(varName); v != "" {
			return v
		}
		return defaultValue
	})
}

// Load reads path, substitutes ${VAR_NAME} references, parses the
// result as YAML, and fills in defaults for anything left unset.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	expanded := substituteEnvVars(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.Batch.ChunkSize <= 0 {
		c.Batch.ChunkSize = 50
	}
	if c.Batch.ErrorMode == "" {
		c.Batch.ErrorMode = "collect"
	}
	if c.Stream.RawQueueSize <= 0 {
		c.Stream.RawQueueSize = 256
	}
	if c.Stream.SubscriberBufSize <= 0 {
		c.Stream.SubscriberBufSize = 64
	}
	if c.Stream.HandshakeTimeout <= 0 {
		c.Stream.HandshakeTimeout = Duration(30 * time.Second)
	}
	if c.Stream.BackoffBase <= 0 {
		c.Stream.BackoffBase = Duration(500 * time.Millisecond)
	}
	if c.Stream.BackoffCap <= 0 {
		c.Stream.BackoffCap = Duration(64 * time.Second)
	}
	if c.Metrics.Port == 0 {
		c.Metrics.Port = 9090
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
}

// BatchErrorMode translates the configured string into batch.ErrorMode,
// defaulting to ErrorModeCollect for an unrecognized value.
func (c *Config) BatchErrorMode() batch.ErrorMode {
	switch batch.ErrorMode(c.Batch.ErrorMode) {
	case batch.ErrorModeSkip, batch.ErrorModeCollect, batch.ErrorModeThrow:
		return batch.ErrorMode(c.Batch.ErrorMode)
	default:
		return batch.ErrorModeCollect
	}
}

// StreamConfig builds a stream.Config from the loaded defaults.
// recorder may be nil (treated as metrics.NoOp by stream.Config).
func (c *Config) StreamConfig() stream.Config {
	return stream.Config{
		RawQueueSize:      c.Stream.RawQueueSize,
		SubscriberBufSize: c.Stream.SubscriberBufSize,
		HandshakeTimeout:  c.Stream.HandshakeTimeout.Duration(),
		BackoffBase:       c.Stream.BackoffBase.Duration(),
		BackoffCap:        c.Stream.BackoffCap.Duration(),
		AllowList:         c.Stream.AllowList,
	}
}
