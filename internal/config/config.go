// Package config loads the board server configuration.
//
// Values are layered: built-in defaults, then an optional YAML file, then an
// optional .env file, then the process environment. A variable already set
// in the environment always wins over the same key in the .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variable names.
const (
	EnvAPIURL       = "MCP_API_URL"
	EnvAPIKey       = "MCP_API_KEY"
	EnvBoardID      = "MCP_BOARD_ID"
	EnvDatabasePath = "MCP_DATABASE_PATH"
	EnvLogLevel     = "MCP_LOG_LEVEL"
	EnvHTTPTimeout  = "MCP_HTTP_TIMEOUT"
)

// DefaultDatabasePath is where the web application keeps its SQLite file.
const DefaultDatabasePath = "./prisma/dev.db"

// Mode selects the data source.
type Mode string

const (
	// ModeRemote reads and writes through the REST API.
	ModeRemote Mode = "remote"
	// ModeStore reads the SQLite database directly; writes are disabled.
	ModeStore Mode = "store"
)

// Config holds all server settings.
type Config struct {
	APIURL       string `yaml:"api_url"`
	APIKey       string `yaml:"api_key"`
	BoardID      string `yaml:"board_id"`
	DatabasePath string `yaml:"database_path"`
	LogLevel     string `yaml:"log_level"`    // debug, info, warn, error
	HTTPTimeout  string `yaml:"http_timeout"` // Go duration; empty means none
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		DatabasePath: DefaultDatabasePath,
		LogLevel:     "info",
	}
}

// LoadOptions points Load at optional files.
type LoadOptions struct {
	// File is a YAML config file. Empty means DefaultFile() if it exists.
	File string
	// EnvFile is a dotenv file. Empty means ".env" in the working directory
	// if it exists.
	EnvFile string
}

// DefaultFile returns ~/.board-mcp/config.yaml, or "" when the home
// directory is unknown.
func DefaultFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".board-mcp", "config.yaml")
}

// Load builds the effective configuration. Explicitly named files must
// exist; implicit defaults are skipped when absent.
func Load(opts LoadOptions) (*Config, error) {
	cfg := Default()

	file, required := opts.File, true
	if file == "" {
		file, required = DefaultFile(), false
	}
	if file != "" {
		if err := cfg.loadYAML(file, required); err != nil {
			return nil, err
		}
	}

	envFile, required := opts.EnvFile, true
	if envFile == "" {
		envFile, required = ".env", false
	}
	dotenv, err := readDotenv(envFile, required)
	if err != nil {
		return nil, err
	}

	cfg.applyEnvOverrides(func(key string) string {
		if v := os.Getenv(key); v != "" {
			return v
		}
		return dotenv[key]
	})

	if _, err := cfg.Timeout(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadYAML(path string, required bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !required {
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return nil
}

// readDotenv parses a dotenv file without touching the process environment.
func readDotenv(path string, required bool) (map[string]string, error) {
	values, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !required {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read env file %s: %w", path, err)
	}
	return values, nil
}

// applyEnvOverrides copies every non-empty variable onto c.
func (c *Config) applyEnvOverrides(getenv func(string) string) {
	if v := getenv(EnvAPIURL); v != "" {
		c.APIURL = v
	}
	if v := getenv(EnvAPIKey); v != "" {
		c.APIKey = v
	}
	if v := getenv(EnvBoardID); v != "" {
		c.BoardID = v
	}
	if v := getenv(EnvDatabasePath); v != "" {
		c.DatabasePath = v
	}
	if v := getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := getenv(EnvHTTPTimeout); v != "" {
		c.HTTPTimeout = v
	}
}

// Mode is ModeRemote when both the API URL and key are set.
func (c *Config) Mode() Mode {
	if c.APIURL != "" && c.APIKey != "" {
		return ModeRemote
	}
	return ModeStore
}

// Timeout parses HTTPTimeout. Empty yields zero.
func (c *Config) Timeout() (time.Duration, error) {
	if c.HTTPTimeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.HTTPTimeout)
	if err != nil {
		return 0, fmt.Errorf("invalid http_timeout %q: %w", c.HTTPTimeout, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid http_timeout %q: must not be negative", c.HTTPTimeout)
	}
	return d, nil
}
