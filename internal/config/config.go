// Package config loads chronokv host configuration from YAML, following the
// same load-defaults-validate shape as the teacher's storage-node config.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ServerConfig holds host-process configuration for the cmd/chronokv binary.
type ServerConfig struct {
	NodeID          string        `yaml:"node_id"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// StorageConfig locates the WAL directory on disk.
type StorageConfig struct {
	DataDir string `yaml:"data_dir"`
	WALDir  string `yaml:"wal_dir"`
}

// WALConfig controls durability behavior of the write-ahead log.
type WALConfig struct {
	SyncWrites bool `yaml:"sync_writes"`
}

// RetentionConfig configures the store's initial retention policy.
type RetentionConfig struct {
	// Mode is one of "full", "last_n", "last_t".
	Mode string        `yaml:"mode"`
	N    int           `yaml:"n"`
	T    time.Duration `yaml:"t"`
}

// PolicyConfig sets the store's initial decision policy name.
type PolicyConfig struct {
	Name string `yaml:"name"`
}

// MetricsConfig controls whether Prometheus metrics are registered and
// served.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// LoggingConfig holds the configured log level (default "info"). The
// cmd/chronokv binary does not apply it: its logger always runs at info
// level.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Config is the complete configuration for the chronokv host process.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Storage   StorageConfig   `yaml:"storage"`
	WAL       WALConfig       `yaml:"wal"`
	Retention RetentionConfig `yaml:"retention"`
	Policy    PolicyConfig    `yaml:"policy"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// LoadConfig reads and validates configuration from a YAML file.
func LoadConfig(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	setDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func setDefaults(cfg *Config) {
	if cfg.Server.NodeID == "" {
		cfg.Server.NodeID = "chronokv-0"
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10 * time.Second
	}

	if cfg.Storage.DataDir == "" {
		cfg.Storage.DataDir = "/var/lib/chronokv"
	}
	if cfg.Storage.WALDir == "" {
		cfg.Storage.WALDir = cfg.Storage.DataDir + "/wal"
	}

	if cfg.Retention.Mode == "" {
		cfg.Retention.Mode = "full"
	}

	if cfg.Policy.Name == "" {
		cfg.Policy.Name = "SAFE_DEFAULT"
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}

	if cfg.Metrics.Addr == "" {
		cfg.Metrics.Addr = ":9090"
	}
}

// Validate checks structural invariants of the loaded configuration.
func (c *Config) Validate() error {
	switch c.Retention.Mode {
	case "full":
	case "last_n":
		if c.Retention.N <= 0 {
			return fmt.Errorf("retention.n must be > 0 when retention.mode is last_n")
		}
	case "last_t":
		if c.Retention.T <= 0 {
			return fmt.Errorf("retention.t must be > 0 when retention.mode is last_t")
		}
	default:
		return fmt.Errorf("retention.mode must be one of full, last_n, last_t")
	}

	switch c.Policy.Name {
	case "DEV_FRIENDLY", "SAFE_DEFAULT", "STRICT":
	default:
		return fmt.Errorf("policy.name must be one of DEV_FRIENDLY, SAFE_DEFAULT, STRICT")
	}

	return nil
}
