package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Config holds everything the binary reads from the environment.
type Config struct {
	// Database
	DBPath string

	// Maintenance
	BackupDir string
	ExportDir string

	// Logging
	LogLevel string
}

// Load reads configuration from environment variables, falling back to
// defaults suitable for a local single-operator installation.
func Load() *Config {
	return &Config{
		DBPath:    getEnv("MEDLEDGER_DB_PATH", "./data/medledger.db"),
		BackupDir: getEnv("MEDLEDGER_BACKUP_DIR", "./backups"),
		ExportDir: getEnv("MEDLEDGER_EXPORT_DIR", "./exports"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
	}
}

// Validate validates the configuration and returns an error if invalid.
func (c *Config) Validate() error {
	var errs []string

	if c.DBPath == "" {
		errs = append(errs, "database path cannot be empty")
	} else if err := ensureDir(filepath.Dir(c.DBPath)); err != nil {
		errs = append(errs, fmt.Sprintf("cannot create database directory: %v", err))
	}

	if c.BackupDir == "" {
		errs = append(errs, "backup directory cannot be empty")
	}
	if c.ExportDir == "" {
		errs = append(errs, "export directory cannot be empty")
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Sprintf("invalid log level '%s': must be one of debug, info, warn, error", c.LogLevel))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

func ensureDir(dir string) error {
	if dir == "." || dir == "" {
		return nil
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return os.MkdirAll(dir, 0755)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
