// Package common provides shared utilities for the stock dashboard
package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for the dashboard backend
type Config struct {
	Environment string        `toml:"environment"`
	Server      ServerConfig  `toml:"server"`
	Store       StoreConfig   `toml:"store"`
	Clients     ClientsConfig `toml:"clients"`
	Logging     LoggingConfig `toml:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host        string `toml:"host"`
	Port        int    `toml:"port"`
	FrontendDir string `toml:"frontend_dir"` // static frontend root; "" disables serving
}

// StoreConfig selects and configures the document store backend.
type StoreConfig struct {
	Backend string        `toml:"backend"` // "github" or "file"
	GitHub  GitHubConfig  `toml:"github"`
	File    FileConfig    `toml:"file"`
	Paths   DocumentPaths `toml:"paths"`
}

// GitHubConfig holds GitHub Contents API configuration. The data repository
// is used purely as a versioned JSON document store; commit messages carry
// the change descriptions.
type GitHubConfig struct {
	BaseURL        string `toml:"base_url"`
	Owner          string `toml:"owner"`
	Repo           string `toml:"repo"`
	Branch         string `toml:"branch"`
	Token          string `toml:"token"`
	CommitterName  string `toml:"committer_name"`
	CommitterEmail string `toml:"committer_email"`
	RateLimit      int    `toml:"rate_limit"`
	Timeout        string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *GitHubConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 10 * time.Second
	}
	return d
}

// FileConfig holds local file store configuration.
type FileConfig struct {
	Path string `toml:"path"`
}

// DocumentPaths holds the logical store paths of the persisted documents.
type DocumentPaths struct {
	Watchlist string `toml:"watchlist"`
	Portfolio string `toml:"portfolio"`
	Manifest  string `toml:"manifest"`
	StocksDir string `toml:"stocks_dir"`
}

// StockPath returns the analysis document path for a code.
func (p DocumentPaths) StockPath(code string) string {
	return p.StocksDir + "/" + strings.ToUpper(code) + ".json"
}

// ClientsConfig holds API client configurations
type ClientsConfig struct {
	Yahoo YahooConfig `toml:"yahoo"`
}

// YahooConfig holds Yahoo Finance API configuration
type YahooConfig struct {
	BaseURL      string `toml:"base_url"`
	SymbolSuffix string `toml:"symbol_suffix"` // exchange suffix appended to codes, e.g. ".T"
	RateLimit    int    `toml:"rate_limit"`
	Timeout      string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *YahooConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 8 * time.Second
	}
	return d
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `toml:"level"`
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Host:        "0.0.0.0",
			Port:        8080,
			FrontendDir: "frontend",
		},
		Store: StoreConfig{
			Backend: "github",
			GitHub: GitHubConfig{
				BaseURL:        "https://api.github.com",
				Owner:          "bi-al1",
				Repo:           "stok-analyzer",
				Branch:         "master",
				CommitterName:  "Dashboard Bot",
				CommitterEmail: "bot@stock-dashboard",
				RateLimit:      5,
				Timeout:        "10s",
			},
			File: FileConfig{
				Path: "data/store",
			},
			Paths: DocumentPaths{
				Watchlist: "watchlist/data/watchlist.json",
				Portfolio: "portfolio-health/data/portfolio.json",
				Manifest:  "webapp/manifest.json",
				StocksDir: "webapp/data/stocks",
			},
		},
		Clients: ClientsConfig{
			Yahoo: YahooConfig{
				BaseURL:      "https://query1.finance.yahoo.com",
				SymbolSuffix: ".T",
				RateLimit:    5,
				Timeout:      "8s",
			},
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadConfig loads configuration from files with environment overrides
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	// Load and merge each config file in order (later files override earlier)
	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue // Skip missing files
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("KABU_ENV"); env != "" {
		config.Environment = env
	}

	if host := os.Getenv("KABU_HOST"); host != "" {
		config.Server.Host = host
	}

	if port := os.Getenv("KABU_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if level := os.Getenv("KABU_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if backend := os.Getenv("KABU_STORE_BACKEND"); backend != "" {
		config.Store.Backend = backend
	}

	if path := os.Getenv("KABU_DATA_PATH"); path != "" {
		config.Store.File.Path = path
	}

	// GITHUB_TOKEN is the conventional name; KABU_GITHUB_TOKEN wins if both set
	if v := os.Getenv("GITHUB_TOKEN"); v != "" {
		config.Store.GitHub.Token = v
	}
	if v := os.Getenv("KABU_GITHUB_TOKEN"); v != "" {
		config.Store.GitHub.Token = v
	}
	if v := os.Getenv("KABU_GITHUB_OWNER"); v != "" {
		config.Store.GitHub.Owner = v
	}
	if v := os.Getenv("KABU_GITHUB_REPO"); v != "" {
		config.Store.GitHub.Repo = v
	}
	if v := os.Getenv("KABU_GITHUB_BRANCH"); v != "" {
		config.Store.GitHub.Branch = v
	}

	if v := os.Getenv("KABU_SYMBOL_SUFFIX"); v != "" {
		config.Clients.Yahoo.SymbolSuffix = v
	}
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}
