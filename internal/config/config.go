// Package config provides application configuration management with support for environment variables, command-line flags, and .env files.
package config

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Config holds the application configuration.
type Config struct {
	App     AppConfig
	Logger  LoggerConfig
	Storage StorageConfig
	Server  ServerConfig
	Health  HealthConfig
	Dedup   DedupConfig
	Enrich  EnrichConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
	// DefaultOwner is the username provisioned at startup for
	// single-user deployments. Empty disables bootstrap provisioning.
	DefaultOwner string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
}

// StorageConfig holds persistent storage configuration.
type StorageConfig struct {
	// BasePath is the directory holding the SQLite database and the
	// search index (default: ~/BookMeUp/data).
	BasePath string
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Name         string
	Port         string        // Server port (default: 8080)
	ReadTimeout  time.Duration // HTTP read timeout (default: 15s)
	WriteTimeout time.Duration // HTTP write timeout (default: 15s)
	IdleTimeout  time.Duration // HTTP idle timeout (default: 60s)
}

// HealthConfig holds link-health prober configuration.
type HealthConfig struct {
	// Timeout bounds every outbound probe request (default: 10s).
	Timeout time.Duration
	// MaxRedirects bounds redirect following per probe (default: 5).
	MaxRedirects int
	// Workers is the probe worker pool size per batch (default: 5).
	Workers int
	// BatchSize is the default number of bookmarks per batch run (default: 50).
	BatchSize int
	// CheckInterval is how often the background job looks for due
	// bookmarks (default: 15m). Zero disables the job.
	CheckInterval time.Duration
	// UserAgent sent with probe and archive lookups.
	UserAgent string
	// ArchiveBaseURL is the web-archive availability service root.
	ArchiveBaseURL string
	// ArchiveRPS throttles archive availability lookups (default: 1).
	ArchiveRPS float64

	// Recheck backoff policy. The curve is deliberately configuration,
	// not code: intervals by last status, widened per consecutive check.
	OKInterval         time.Duration // default: 168h (weekly)
	RedirectedInterval time.Duration // default: 72h
	BrokenInterval     time.Duration // default: 24h
	BackoffMultiplier  float64       // default: 1.5 per check beyond the first
	MaxInterval        time.Duration // default: 720h (30 days)
}

// DedupConfig holds duplicate-detection configuration.
type DedupConfig struct {
	// TitleThreshold is the minimum trigram similarity for a title match (default: 0.8).
	TitleThreshold float64
	// IndexCutoff is the collection size above which duplicate candidate
	// pairs come from a trigram index instead of exhaustive pairwise
	// comparison (default: 50). Both paths produce the same groups.
	IndexCutoff int
}

// EnrichConfig holds page-metadata enrichment configuration.
type EnrichConfig struct {
	Timeout          time.Duration // default: 10s
	MaxContentLength int64         // default: 1 MiB
	BlockedDomains   []string      // comma-separated in env
}

// LoadConfig loads configuration from multiple sources with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. Default values (lowest priority).
func LoadConfig() (*Config, error) {
	env := flag.String("env", "", "Environment (development, staging, production)")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error)")
	dataPath := flag.String("data-path", "", "Base path for data storage")
	defaultOwner := flag.String("default-owner", "", "Username provisioned at startup")
	serverName := flag.String("server-name", "", "Name for the server")

	serverPort := flag.String("port", "", "Server port (default: 8080)")
	readTimeout := flag.String("read-timeout", "", "HTTP read timeout (default: 15s)")
	writeTimeout := flag.String("write-timeout", "", "HTTP write timeout (default: 15s)")
	idleTimeout := flag.String("idle-timeout", "", "HTTP idle timeout (default: 60s)")

	healthTimeout := flag.String("health-timeout", "", "Link probe timeout (default: 10s)")
	healthRedirects := flag.String("health-max-redirects", "", "Max redirects per probe (default: 5)")
	healthWorkers := flag.String("health-workers", "", "Probe worker pool size (default: 5)")
	healthBatch := flag.String("health-batch-size", "", "Bookmarks per health batch (default: 50)")

	envFile := flag.String("env-file", ".env", "Path to .env file")

	flag.Parse()

	// Load .env file if it exists (silently ignore if not found).
	_ = loadEnvFile(*envFile)

	cfg := &Config{
		App: AppConfig{
			Environment:  getConfigValue(*env, "ENV", "development"),
			DefaultOwner: getConfigValue(*defaultOwner, "DEFAULT_OWNER", "bookmeup"),
		},
		Logger: LoggerConfig{
			Level: getConfigValue(*logLevel, "LOG_LEVEL", "info"),
		},
		Storage: StorageConfig{
			BasePath: getConfigValue(*dataPath, "DATA_PATH", ""),
		},
		Server: ServerConfig{
			Name: getConfigValue(*serverName, "SERVER_NAME", "BookMeUp Server"),
			Port: getConfigValue(*serverPort, "SERVER_PORT", "8080"),
		},
		Health: HealthConfig{
			MaxRedirects:      getIntConfigValue(*healthRedirects, "LINK_CHECK_MAX_REDIRECTS", 5),
			Workers:           getIntConfigValue(*healthWorkers, "LINK_CHECK_WORKERS", 5),
			BatchSize:         getIntConfigValue(*healthBatch, "LINK_CHECK_BATCH_SIZE", 50),
			UserAgent:         getConfigValue("", "LINK_CHECK_USER_AGENT", "Mozilla/5.0 (compatible; BookMeUp-LinkChecker/1.0; +https://bookmeup.io)"),
			ArchiveBaseURL:    getConfigValue("", "WEB_ARCHIVE_URL", "https://web.archive.org"),
			ArchiveRPS:        getFloatConfigValue("", "WEB_ARCHIVE_RPS", 1.0),
			BackoffMultiplier: getFloatConfigValue("", "LINK_CHECK_BACKOFF_MULTIPLIER", 1.5),
		},
		Dedup: DedupConfig{
			TitleThreshold: getFloatConfigValue("", "DEDUP_TITLE_THRESHOLD", 0.8),
			IndexCutoff:    getIntConfigValue("", "DEDUP_INDEX_CUTOFF", 50),
		},
		Enrich: EnrichConfig{
			MaxContentLength: int64(getIntConfigValue("", "ENRICH_MAX_CONTENT_LENGTH", 1024*1024)),
			BlockedDomains:   splitList(getConfigValue("", "ENRICH_BLOCKED_DOMAINS", "")),
		},
	}

	// Parse durations.
	durations := []struct {
		dst      *time.Duration
		flagVal  string
		envKey   string
		fallback string
	}{
		{&cfg.Server.ReadTimeout, *readTimeout, "SERVER_READ_TIMEOUT", "15s"},
		{&cfg.Server.WriteTimeout, *writeTimeout, "SERVER_WRITE_TIMEOUT", "15s"},
		{&cfg.Server.IdleTimeout, *idleTimeout, "SERVER_IDLE_TIMEOUT", "60s"},
		{&cfg.Health.Timeout, *healthTimeout, "LINK_CHECK_TIMEOUT", "10s"},
		{&cfg.Health.CheckInterval, "", "LINK_CHECK_INTERVAL", "15m"},
		{&cfg.Health.OKInterval, "", "LINK_CHECK_OK_INTERVAL", "168h"},
		{&cfg.Health.RedirectedInterval, "", "LINK_CHECK_REDIRECTED_INTERVAL", "72h"},
		{&cfg.Health.BrokenInterval, "", "LINK_CHECK_BROKEN_INTERVAL", "24h"},
		{&cfg.Health.MaxInterval, "", "LINK_CHECK_MAX_INTERVAL", "720h"},
		{&cfg.Enrich.Timeout, "", "ENRICH_TIMEOUT", "10s"},
	}
	for _, d := range durations {
		raw := getConfigValue(d.flagVal, d.envKey, d.fallback)
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid duration %q for %s: %w", raw, d.envKey, err)
		}
		*d.dst = parsed
	}

	// Expand and validate the data path.
	if err := cfg.expandDataPath(); err != nil {
		return nil, fmt.Errorf("invalid data path: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required config values are present and valid.
func (c *Config) Validate() error {
	if c.App.Environment == "" {
		return errors.New("ENV is required")
	}

	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
	}
	if !validEnvs[c.App.Environment] {
		return fmt.Errorf("invalid environment: %s (must be development, staging, or production)", c.App.Environment)
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[strings.ToLower(c.Logger.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Storage.BasePath == "" {
		return errors.New("data base path cannot be empty after expansion")
	}

	if c.Health.MaxRedirects < 0 {
		return errors.New("health max redirects cannot be negative")
	}
	if c.Health.Workers < 1 {
		return errors.New("health workers must be at least 1")
	}
	if c.Dedup.TitleThreshold <= 0 || c.Dedup.TitleThreshold > 1 {
		return fmt.Errorf("dedup title threshold must be in (0,1], got %v", c.Dedup.TitleThreshold)
	}

	return nil
}

// expandDataPath expands ~ and makes the path absolute.
func (c *Config) expandDataPath() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}
	defaultPath := filepath.Join(homeDir, "BookMeUp", "data")

	expanded, err := expandPath(c.Storage.BasePath, defaultPath)
	if err != nil {
		return err
	}
	c.Storage.BasePath = expanded
	return nil
}

// expandPath expands ~ and makes the path absolute.
// If path is empty and defaultPath is provided, uses the default.
func expandPath(path, defaultPath string) (string, error) {
	if path == "" {
		return defaultPath, nil
	}

	// Expand tilde.
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	}

	// Make absolute if needed.
	if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("failed to get absolute path: %w", err)
		}
		path = absPath
	}

	return filepath.Clean(path), nil
}

// getConfigValue returns the first non-empty value from flag, env var, or default.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	// Priority 1: Command-line flag.
	if flagValue != "" {
		return flagValue
	}

	// Priority 2: Environment variable.
	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}

	// Priority 3: Default value.
	return defaultValue
}

// getIntConfigValue returns an int from flag, env var, or default.
func getIntConfigValue(flagValue, envKey string, defaultValue int) int {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	var result int
	if _, err := fmt.Sscanf(strValue, "%d", &result); err != nil {
		return defaultValue
	}
	return result
}

// getFloatConfigValue returns a float64 from flag, env var, or default.
func getFloatConfigValue(flagValue, envKey string, defaultValue float64) float64 {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	var result float64
	if _, err := fmt.Sscanf(strValue, "%g", &result); err != nil {
		return defaultValue
	}
	return result
}

// splitList splits a comma-separated list, trimming whitespace and dropping empties.
func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// loadEnvFile loads environment variables from a .env file.
// Format: KEY=value (one per line, # for comments).
func loadEnvFile(path string) error {
	file, err := os.Open(path) //#nosec G304 -- Config file path from user input is expected
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments.
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Parse KEY=value.
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.Trim(strings.TrimSpace(parts[1]), `"'`)

		// Don't override existing environment variables.
		if os.Getenv(key) == "" {
			os.Setenv(key, value)
		}
	}

	return scanner.Err()
}
