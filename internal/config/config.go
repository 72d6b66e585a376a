// Package config contains everything related to configuration
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// ErrConfig marks configuration problems. They are always fatal.
var ErrConfig = errors.New("config error")

// Default values
const (
	DefaultRRDBase = "/opt/observium/rrd"

	defaultDBPort      = 3306
	defaultDBTimeout   = 10 * time.Second
	defaultSMTPHost    = "localhost"
	defaultSMTPPort    = 25
	defaultSMTPSender  = "billing@yourdomain.net"
	defaultSMTPTimeout = 30 * time.Second
	defaultRRDTool     = "rrdtool"
)

// Options are the values supplied on the command line.
type Options struct {
	ObserviumConfigPath string
	// RRDBase overrides the RRD directory when non-empty.
	RRDBase     string
	Email       string
	PrevMonth   bool
	Graph       bool
	MetricsFile string
}

// Database holds the Observium MySQL connection parameters.
type Database struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	Timeout  time.Duration
}

// SMTP holds mail delivery settings. They come from the environment, never
// from flags.
type SMTP struct {
	Host     string
	Port     int
	Sender   string
	Username string
	Password string
	Timeout  time.Duration
}

// RRDTool holds settings for invoking the rrdtool binary.
type RRDTool struct {
	Binary string
	// Daemon is an rrdcached address passed as --daemon when set.
	Daemon string
}

// Config holds the application configuration.
type Config struct {
	ObserviumConfigPath string
	RRDBase             string
	Email               string
	PrevMonth           bool
	Graph               bool
	MetricsFile         string

	Database Database
	SMTP     SMTP
	RRDTool  RRDTool
}

// Load reads configuration from .env files, environment variables and the
// Observium config file named in opts.
func Load(opts Options) (*Config, error) {
	// Try loading .env from multiple locations
	for _, path := range getEnvPaths() {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			break
		}
	}

	if strings.TrimSpace(opts.ObserviumConfigPath) == "" {
		return nil, fmt.Errorf("%w: observium config path is required", ErrConfig)
	}

	observium, err := LoadObserviumConfig(opts.ObserviumConfigPath)
	if err != nil {
		return nil, err
	}
	observium.Database.Timeout = getEnvDuration("BILL95_DB_TIMEOUT", defaultDBTimeout)

	cfg := &Config{
		ObserviumConfigPath: opts.ObserviumConfigPath,
		RRDBase:             resolveRRDBase(opts.RRDBase, observium.RRDDir),
		Email:               strings.TrimSpace(opts.Email),
		PrevMonth:           opts.PrevMonth,
		Graph:               opts.Graph,
		MetricsFile:         opts.MetricsFile,
		Database:            observium.Database,
		SMTP: SMTP{
			Host:     getEnvString("BILL95_SMTP_HOST", defaultSMTPHost),
			Port:     getEnvInt("BILL95_SMTP_PORT", defaultSMTPPort),
			Sender:   getEnvString("BILL95_SMTP_SENDER", defaultSMTPSender),
			Username: getEnvString("BILL95_SMTP_USERNAME", ""),
			Password: getEnvString("BILL95_SMTP_PASSWORD", ""),
			Timeout:  getEnvDuration("BILL95_SMTP_TIMEOUT", defaultSMTPTimeout),
		},
		RRDTool: RRDTool{
			Binary: getEnvString("BILL95_RRDTOOL", defaultRRDTool),
			Daemon: getEnvString("BILL95_RRDCACHED", ""),
		},
	}

	if cfg.Email != "" && !strings.Contains(cfg.Email, "@") {
		return nil, fmt.Errorf("%w: invalid email address %q", ErrConfig, cfg.Email)
	}

	return cfg, nil
}

// resolveRRDBase applies flag > rrd_dir > default precedence.
func resolveRRDBase(flagValue, rrdDir string) string {
	if v := strings.TrimSpace(flagValue); v != "" {
		return v
	}
	if v := strings.TrimSpace(rrdDir); v != "" {
		return v
	}
	return DefaultRRDBase
}

// getEnvPaths returns a list of paths to check for .env files.
func getEnvPaths() []string {
	var paths []string

	// Current directory
	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(cwd, ".env"))
	}

	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "bill95", ".env"))
	}

	paths = append(paths, filepath.Join("/etc", "bill95", ".env"))

	return paths
}

// getEnvString retrieves a string environment variable or returns the default.
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt retrieves an integer environment variable or returns the default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

// getEnvDuration retrieves a duration environment variable or returns the default.
// Accepts values like "30s", "1m", "500ms".
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		// Try parsing as seconds if no unit specified
		if secs, err := strconv.Atoi(value); err == nil {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultValue
}
