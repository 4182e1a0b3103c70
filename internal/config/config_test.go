package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.Database.Provider != "postgresql" {
		t.Errorf("Expected database provider to be 'postgresql', got '%s'", config.Database.Provider)
	}

	if config.Database.URLEnv != "DATABASE_URL" {
		t.Errorf("Expected database url_env to be 'DATABASE_URL', got '%s'", config.Database.URLEnv)
	}

	if config.Server.Port != 5555 {
		t.Errorf("Expected server port to be 5555, got %d", config.Server.Port)
	}

	if config.Server.ReadTimeout != 15*time.Second {
		t.Errorf("Expected read timeout to be 15s, got %s", config.Server.ReadTimeout)
	}

	if config.Pagination.DefaultPageSize != 20 || config.Pagination.MaxPageSize != 100 {
		t.Errorf("Expected page sizes 20/100, got %d/%d",
			config.Pagination.DefaultPageSize, config.Pagination.MaxPageSize)
	}

	if config.Pagination.KeysetMode != "full" {
		t.Errorf("Expected keyset mode 'full', got '%s'", config.Pagination.KeysetMode)
	}

	if err := config.Validate(); err != nil {
		t.Errorf("Expected default config to validate, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"unknown provider", func(c *Config) { c.Database.Provider = "oracle" }},
		{"default above max", func(c *Config) { c.Pagination.DefaultPageSize = 500 }},
		{"negative page size", func(c *Config) { c.Pagination.MaxPageSize = -1 }},
		{"unknown keyset mode", func(c *Config) { c.Pagination.KeysetMode = "offset" }},
		{"unknown log format", func(c *Config) { c.Log.Format = "xml" }},
		{"negative batch size", func(c *Config) { c.Seed.BatchSize = -5 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultConfig()
			tt.mutate(c)
			if err := c.Validate(); err == nil {
				t.Errorf("Expected validation to fail for %s", tt.name)
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, FileName)
	content := `{
		"database": {"provider": "sqlite", "url_env": "GRID_DB"},
		"pagination": {"max_page_size": 50, "keyset_mode": "first_key"},
		"server": {"read_timeout": "5s"}
	}`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	viper.Reset()
	defer viper.Reset()
	viper.SetConfigFile(configPath)
	if err := viper.ReadInConfig(); err != nil {
		t.Fatalf("Failed to read config: %v", err)
	}

	config, err := Load()
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if !config.IsSQLite() {
		t.Errorf("Expected sqlite provider, got '%s'", config.Database.Provider)
	}
	if config.Pagination.MaxPageSize != 50 {
		t.Errorf("Expected max page size 50, got %d", config.Pagination.MaxPageSize)
	}
	if config.Pagination.DefaultPageSize != 20 {
		t.Errorf("Expected default page size to fall back to 20, got %d", config.Pagination.DefaultPageSize)
	}
	if config.Pagination.KeysetMode != "first_key" {
		t.Errorf("Expected keyset mode 'first_key', got '%s'", config.Pagination.KeysetMode)
	}
	if config.Server.ReadTimeout != 5*time.Second {
		t.Errorf("Expected read timeout 5s, got %s", config.Server.ReadTimeout)
	}

	t.Setenv("GRID_DB", "file.db")
	url, err := config.GetDatabaseURL()
	if err != nil || url != "file.db" {
		t.Errorf("Expected database URL 'file.db', got '%s' (%v)", url, err)
	}
}

func TestIsInitialized(t *testing.T) {
	tempDir := t.TempDir()

	originalDir, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get current directory: %v", err)
	}
	defer os.Chdir(originalDir)

	if err := os.Chdir(tempDir); err != nil {
		t.Fatalf("Failed to change to temp directory: %v", err)
	}

	if IsInitialized() {
		t.Error("Expected project to not be initialized, but it was")
	}

	if err := os.WriteFile(filepath.Join(tempDir, FileName), []byte("{}"), 0644); err != nil {
		t.Fatalf("Failed to create config file: %v", err)
	}

	if !IsInitialized() {
		t.Error("Expected project to be initialized, but it wasn't")
	}
}

func TestValidateAcceptsEveryStore(t *testing.T) {
	for _, provider := range []string{"postgresql", "postgres", "mysql", "sqlite", "sqlite3"} {
		c := DefaultConfig()
		c.Database.Provider = provider
		if err := c.Validate(); err != nil {
			t.Errorf("Expected provider %s to validate, got %v", provider, err)
		}
	}
}
