package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// DefaultDatasetURL is the published hotel reviews CSV
const DefaultDatasetURL = "https://github.com/melody-10/Proyecto_Hoteles_California/blob/main/final_database.csv?raw=true"

// ConfigFileEnv names the environment variable pointing at an optional TOML file
const ConfigFileEnv = "HOTEL_REVIEWS_CONFIG"

var tableNameRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// Config holds all application-level configuration
type Config struct {
	// Source
	DatasetURL      string `toml:"dataset_url"`
	SourceDSN       string `toml:"source_dsn"` // empty means fetch DatasetURL
	SourceTable     string `toml:"source_table"`
	FetchTimeoutSec int    `toml:"fetch_timeout_sec"`
	MaxRetries      int    `toml:"max_retries"` // 1 = a single attempt
	ShowProgress    bool   `toml:"show_progress"`

	// Dashboard
	HTTPAddr   string `toml:"http_addr"`
	MaxReviews int    `toml:"max_reviews"`

	// Output
	ExportPath       string `toml:"export_path"`
	CSVExportPath    string `toml:"csv_export_path"`
	SnapshotPath     string `toml:"snapshot_path"`
	ChromeTimeoutSec int    `toml:"chrome_timeout_sec"`

	LogLevel string `toml:"log_level"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		DatasetURL:       DefaultDatasetURL,
		SourceTable:      "reviews",
		FetchTimeoutSec:  60,
		MaxRetries:       1,
		ShowProgress:     true,
		HTTPAddr:         ":8080",
		MaxReviews:       5,
		ExportPath:       "output/hotel_averages.xlsx",
		CSVExportPath:    "output/hotel_averages.csv",
		SnapshotPath:     "output/dashboard.png",
		ChromeTimeoutSec: 60,
		LogLevel:         "info",
	}
}

// Load layers defaults, the TOML file at path (or $HOTEL_REVIEWS_CONFIG when
// path is empty), then environment variables, and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv(ConfigFileEnv)
	}
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.DatasetURL = getEnv("DATASET_URL", c.DatasetURL)
	c.SourceDSN = getEnv("SOURCE_DSN", c.SourceDSN)
	c.SourceTable = getEnv("SOURCE_TABLE", c.SourceTable)
	c.FetchTimeoutSec = getEnvInt("FETCH_TIMEOUT_SEC", c.FetchTimeoutSec)
	c.MaxRetries = getEnvInt("MAX_RETRIES", c.MaxRetries)
	c.ShowProgress = getEnvBool("SHOW_PROGRESS", c.ShowProgress)
	c.HTTPAddr = getEnv("HTTP_ADDR", c.HTTPAddr)
	c.MaxReviews = getEnvInt("MAX_REVIEWS", c.MaxReviews)
	c.ExportPath = getEnv("EXPORT_PATH", c.ExportPath)
	c.CSVExportPath = getEnv("CSV_EXPORT_PATH", c.CSVExportPath)
	c.SnapshotPath = getEnv("SNAPSHOT_PATH", c.SnapshotPath)
	c.ChromeTimeoutSec = getEnvInt("CHROME_TIMEOUT_SEC", c.ChromeTimeoutSec)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
}

// Validate rejects settings the loaders cannot work with
func (c *Config) Validate() error {
	if strings.TrimSpace(c.DatasetURL) == "" && strings.TrimSpace(c.SourceDSN) == "" {
		return fmt.Errorf("either dataset_url or source_dsn must be set")
	}
	if c.MaxRetries < 1 {
		return fmt.Errorf("max_retries must be >= 1, got %d", c.MaxRetries)
	}
	if c.FetchTimeoutSec <= 0 {
		return fmt.Errorf("fetch_timeout_sec must be > 0, got %d", c.FetchTimeoutSec)
	}
	if c.ChromeTimeoutSec <= 0 {
		return fmt.Errorf("chrome_timeout_sec must be > 0, got %d", c.ChromeTimeoutSec)
	}
	if c.MaxReviews < 1 || c.MaxReviews > 20 {
		return fmt.Errorf("max_reviews must be between 1 and 20, got %d", c.MaxReviews)
	}
	if !tableNameRegex.MatchString(c.SourceTable) {
		return fmt.Errorf("source_table %q is not a plain table name", c.SourceTable)
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info":
	default:
		return fmt.Errorf("log_level must be debug or info, got %q", c.LogLevel)
	}
	return nil
}

// Debug reports whether debug logging is on
func (c *Config) Debug() bool {
	return strings.EqualFold(c.LogLevel, "debug")
}

// FetchTimeout is the deadline for the one-time dataset load
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutSec) * time.Second
}

// ChromeTimeout is the deadline for one headless Chrome capture
func (c *Config) ChromeTimeout() time.Duration {
	return time.Duration(c.ChromeTimeoutSec) * time.Second
}

// ValidTableName reports whether name can be interpolated into a query
func ValidTableName(name string) bool {
	return tableNameRegex.MatchString(name)
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultVal
}
