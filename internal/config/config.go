package config

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store   StoreConfig   `yaml:"store" mapstructure:"store"`
	Scoring ScoringConfig `yaml:"scoring" mapstructure:"scoring"`
	Batch   BatchConfig   `yaml:"batch" mapstructure:"batch"`
	Cache   CacheConfig   `yaml:"cache" mapstructure:"cache"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// StoreConfig selects where requirement tables are read from.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"` // sqlite, postgres or file
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	TablesPath  string `yaml:"tables_path" mapstructure:"tables_path"` // workbook, JSON or CSV for the file driver
	MaxConns    int32  `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns    int32  `yaml:"min_conns" mapstructure:"min_conns"`

	// Reads that fail with transient errors are retried.
	RetryAttempts  int `yaml:"retry_attempts" mapstructure:"retry_attempts"`
	RetryBackoffMs int `yaml:"retry_backoff_ms" mapstructure:"retry_backoff_ms"`
}

// ScoringConfig holds scoring defaults.
type ScoringConfig struct {
	WeightScheme          int     `yaml:"weight_scheme" mapstructure:"weight_scheme"`
	Normalization         string  `yaml:"normalization" mapstructure:"normalization"`
	DefaultReferenceDepth float64 `yaml:"default_reference_depth" mapstructure:"default_reference_depth"`
}

// BatchConfig configures batch processing.
type BatchConfig struct {
	MaxConcurrentProfiles int `yaml:"max_concurrent_profiles" mapstructure:"max_concurrent_profiles"`
}

// CacheConfig toggles the in-process requirement cache.
type CacheConfig struct {
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("GAEZ")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "gaez.db")
	v.SetDefault("store.tables_path", "")
	v.SetDefault("store.max_conns", 4)
	v.SetDefault("store.min_conns", 1)
	v.SetDefault("store.retry_attempts", 3)
	v.SetDefault("store.retry_backoff_ms", 200)
	v.SetDefault("scoring.weight_scheme", 1)
	v.SetDefault("scoring.normalization", "weight_sum")
	v.SetDefault("scoring.default_reference_depth", 120.0)
	v.SetDefault("batch.max_concurrent_profiles", 8)
	v.SetDefault("cache.enabled", true)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the fields a command mode depends on. Modes are "score"
// (single profile and batch scoring) and "tables" (requirement table
// maintenance).
func (c *Config) Validate(mode string) error {
	var problems []string

	switch mode {
	case "score":
		problems = append(problems, c.validateStore()...)
		if c.Scoring.WeightScheme != 1 && c.Scoring.WeightScheme != 2 {
			problems = append(problems, fmt.Sprintf("scoring.weight_scheme must be 1 or 2, got %d", c.Scoring.WeightScheme))
		}
		switch c.Scoring.Normalization {
		case "weight_sum", "layer_count":
		default:
			problems = append(problems, fmt.Sprintf("scoring.normalization must be weight_sum or layer_count, got %q", c.Scoring.Normalization))
		}
		if c.Scoring.DefaultReferenceDepth <= 0 {
			problems = append(problems, "scoring.default_reference_depth must be positive")
		}
		if c.Batch.MaxConcurrentProfiles < 1 || c.Batch.MaxConcurrentProfiles > 256 {
			problems = append(problems, "batch.max_concurrent_profiles must be between 1 and 256")
		}
	case "tables":
		problems = append(problems, c.validateStore()...)
		if c.Store.Driver == "file" {
			problems = append(problems, "store.driver file is read-only; use sqlite or postgres")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(problems) > 0 {
		return eris.Errorf("config: invalid for %s: %s", mode, strings.Join(problems, "; "))
	}
	return nil
}

func (c *Config) validateStore() []string {
	switch c.Store.Driver {
	case "sqlite", "postgres":
		if c.Store.DatabaseURL == "" {
			return []string{"store.database_url is required for driver " + c.Store.Driver}
		}
	case "file":
		if c.Store.TablesPath == "" {
			return []string{"store.tables_path is required for driver file"}
		}
	default:
		return []string{fmt.Sprintf("store.driver must be sqlite, postgres or file, got %q", c.Store.Driver)}
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
