package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

const FileName = "gridbase.config.json"

type Config struct {
	Version    string     `json:"version" mapstructure:"version"`
	Database   Database   `json:"database" mapstructure:"database"`
	Server     Server     `json:"server" mapstructure:"server"`
	Pagination Pagination `json:"pagination" mapstructure:"pagination"`
	Log        Log        `json:"log" mapstructure:"log"`
	Seed       Seed       `json:"seed" mapstructure:"seed"`
}

type Database struct {
	Provider string `json:"provider" mapstructure:"provider"`
	URLEnv   string `json:"url_env" mapstructure:"url_env"`
	MaxConns int    `json:"max_conns,omitempty" mapstructure:"max_conns"`
}

type Server struct {
	Port        int           `json:"port,omitempty" mapstructure:"port"`
	ReadTimeout time.Duration `json:"read_timeout,omitempty" mapstructure:"read_timeout"`
}

type Pagination struct {
	DefaultPageSize int    `json:"default_page_size,omitempty" mapstructure:"default_page_size"`
	MaxPageSize     int    `json:"max_page_size,omitempty" mapstructure:"max_page_size"`
	KeysetMode      string `json:"keyset_mode,omitempty" mapstructure:"keyset_mode"`
}

type Log struct {
	Level  string `json:"level,omitempty" mapstructure:"level"`
	Format string `json:"format,omitempty" mapstructure:"format"`
}

type Seed struct {
	BatchSize int `json:"batch_size,omitempty" mapstructure:"batch_size"`
}

// DefaultConfig is what `gridbase init` writes and what Load falls back to
// for every unset field.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func Load() (*Config, error) {
	var cfg Config

	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Version == "" {
		c.Version = "1"
	}
	if c.Database.Provider == "" {
		c.Database.Provider = "postgresql"
	}
	if c.Database.URLEnv == "" {
		c.Database.URLEnv = "DATABASE_URL"
	}
	if c.Database.MaxConns == 0 {
		c.Database.MaxConns = 4
	}
	if c.Server.Port == 0 {
		c.Server.Port = 5555
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 15 * time.Second
	}
	if c.Pagination.DefaultPageSize == 0 {
		c.Pagination.DefaultPageSize = 20
	}
	if c.Pagination.MaxPageSize == 0 {
		c.Pagination.MaxPageSize = 100
	}
	if c.Pagination.KeysetMode == "" {
		c.Pagination.KeysetMode = "full"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.Seed.BatchSize == 0 {
		c.Seed.BatchSize = 1000
	}
}

func (c *Config) GetDatabaseURL() (string, error) {
	dbURL := os.Getenv(c.Database.URLEnv)
	if dbURL == "" {
		return "", fmt.Errorf("database URL not found in environment variable %s", c.Database.URLEnv)
	}
	return dbURL, nil
}

func (c *Config) Validate() error {
	supportedProviders := []string{"postgresql", "postgres", "mysql", "sqlite", "sqlite3"}
	supported := false
	for _, provider := range supportedProviders {
		if c.Database.Provider == provider {
			supported = true
			break
		}
	}
	if !supported {
		return fmt.Errorf("unsupported database provider: %s. Supported providers: %v", c.Database.Provider, supportedProviders)
	}

	if c.Database.MaxConns < 0 {
		return fmt.Errorf("database.max_conns cannot be negative")
	}

	if c.Pagination.DefaultPageSize <= 0 || c.Pagination.MaxPageSize <= 0 {
		return fmt.Errorf("pagination page sizes must be positive")
	}

	if c.Pagination.DefaultPageSize > c.Pagination.MaxPageSize {
		return fmt.Errorf("pagination.default_page_size (%d) exceeds max_page_size (%d)",
			c.Pagination.DefaultPageSize, c.Pagination.MaxPageSize)
	}

	switch c.Pagination.KeysetMode {
	case "full", "first_key":
	default:
		return fmt.Errorf("unknown pagination.keyset_mode: %s", c.Pagination.KeysetMode)
	}

	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log.format: %s", c.Log.Format)
	}

	if c.Seed.BatchSize <= 0 {
		return fmt.Errorf("seed.batch_size must be positive")
	}

	return nil
}

// IsSQLite reports whether the configured provider is an embedded SQLite file.
func (c *Config) IsSQLite() bool {
	return c.Database.Provider == "sqlite" || c.Database.Provider == "sqlite3"
}

func IsInitialized() bool {
	_, err := os.Stat(FileName)
	return err == nil
}
