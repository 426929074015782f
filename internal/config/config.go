package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	configPathEnv     = "ARTICLE_SCORER_CONFIG"
	databaseDriverEnv = "DATABASE_DRIVER"
	databaseDSNEnv    = "DATABASE_DSN"
	autoMigrateEnv    = "DATABASE_AUTO_MIGRATE"
	httpAddrEnv       = "HTTP_ADDR"
	logLevelEnv       = "LOG_LEVEL"
	logFormatEnv      = "LOG_FORMAT"
	rubricFileEnv     = "SCORING_RUBRIC_FILE"
)

// Config holds high-level settings required across the application.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	HTTP     HTTPConfig     `yaml:"http"`
	Logging  LoggingConfig  `yaml:"logging"`
	Scoring  ScoringConfig  `yaml:"scoring"`
}

// DatabaseConfig selects the SQL driver and connection string.
type DatabaseConfig struct {
	Driver      string `yaml:"driver"`
	DSN         string `yaml:"dsn"`
	AutoMigrate *bool  `yaml:"autoMigrate"`
}

// Migrate reports whether the schema should be applied on startup.
func (d DatabaseConfig) Migrate() bool {
	return d.AutoMigrate == nil || *d.AutoMigrate
}

// HTTPConfig configures the API listener.
type HTTPConfig struct {
	Addr           string        `yaml:"addr"`
	AllowedOrigins []string      `yaml:"allowedOrigins"`
	ReadTimeout    time.Duration `yaml:"readTimeout"`
}

// LoggingConfig picks the slog level and handler.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// ScoringConfig points at an optional rubric file imported by the CLI.
type ScoringConfig struct {
	RubricFile string `yaml:"rubricFile"`
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(databaseDriverEnv); v != "" {
		c.Database.Driver = v
	}
	if v := os.Getenv(databaseDSNEnv); v != "" {
		c.Database.DSN = v
	}
	if v := os.Getenv(autoMigrateEnv); v != "" {
		if b, err := strconv.ParseBool(v); err != nil {
			log.Printf("config: ignoring %s=%q: %v", autoMigrateEnv, v, err)
		} else {
			c.Database.AutoMigrate = &b
		}
	}

	if v := os.Getenv(httpAddrEnv); v != "" {
		c.HTTP.Addr = v
	}

	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv(logFormatEnv); v != "" {
		c.Logging.Format = strings.ToLower(v)
	}

	if v := os.Getenv(rubricFileEnv); v != "" {
		c.Scoring.RubricFile = v
	}
}

func mergeConfig(base, override Config) Config {
	if override.Database.Driver != "" {
		base.Database.Driver = override.Database.Driver
	}
	if override.Database.DSN != "" {
		base.Database.DSN = override.Database.DSN
	}
	if override.Database.AutoMigrate != nil {
		base.Database.AutoMigrate = override.Database.AutoMigrate
	}

	if override.HTTP.Addr != "" {
		base.HTTP.Addr = override.HTTP.Addr
	}
	if len(override.HTTP.AllowedOrigins) > 0 {
		base.HTTP.AllowedOrigins = override.HTTP.AllowedOrigins
	}
	if override.HTTP.ReadTimeout > 0 {
		base.HTTP.ReadTimeout = override.HTTP.ReadTimeout
	}

	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}
	if override.Logging.Format != "" {
		base.Logging.Format = override.Logging.Format
	}

	if override.Scoring.RubricFile != "" {
		base.Scoring.RubricFile = override.Scoring.RubricFile
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Database: DatabaseConfig{
			Driver: "sqlite",
			DSN:    "file:articlescorer.db",
		},
		HTTP: HTTPConfig{
			Addr:           ":8080",
			AllowedOrigins: []string{"*"},
			ReadTimeout:    10 * time.Second,
		},
		Logging: LoggingConfig{Level: "info", Format: "text"},
	}
}
