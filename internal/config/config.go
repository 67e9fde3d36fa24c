package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// HTTP server
	Port string

	// Database
	SQLiteDBPath string

	// AMQP (optional; empty URL disables async processing)
	AMQPURL           string
	AMQPExchange      string
	AMQPProgressQueue string
	AMQPReportQueue   string

	// Google Sheets report export (optional)
	GoogleSpreadsheetID string
	ReportSheetName     string

	// Query cache
	CacheSize int
	CacheTTL  time.Duration

	// List presentation defaults
	DefaultPageSize  int
	DefaultRangeDays int
}

func Load() *Config {
	return &Config{
		Port:         getEnv("PORT", "8080"),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/financas.db"),

		AMQPURL:           getEnv("AMQP_URL", ""),
		AMQPExchange:      getEnv("AMQP_EXCHANGE", "financas"),
		AMQPProgressQueue: getEnv("AMQP_PROGRESS_QUEUE", "goal_progress"),
		AMQPReportQueue:   getEnv("AMQP_REPORT_QUEUE", "report_export"),

		GoogleSpreadsheetID: getEnv("GOOGLE_SPREADSHEET_ID", ""),
		ReportSheetName:     getEnv("REPORT_SHEET_NAME", "Relatório"),

		CacheSize: getEnvInt("CACHE_SIZE", 200),
		CacheTTL:  getEnvDuration("CACHE_TTL", 5*time.Minute),

		DefaultPageSize:  getEnvInt("DEFAULT_PAGE_SIZE", 10),
		DefaultRangeDays: getEnvInt("DEFAULT_RANGE_DAYS", 30),
	}
}

// Validate checks the configuration, collecting every problem into one
// error so a bad deployment fails with the full picture.
func (c *Config) Validate() error {
	var errs []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.SQLiteDBPath == "" {
		errs = append(errs, "SQLite database path cannot be empty")
	} else {
		dir := filepath.Dir(c.SQLiteDBPath)
		if dir != "." && dir != "" {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				if err := os.MkdirAll(dir, 0755); err != nil {
					errs = append(errs, fmt.Sprintf("cannot create database directory '%s': %v", dir, err))
				}
			}
		}
	}

	if c.AMQPURL != "" {
		if parsed, err := url.Parse(c.AMQPURL); err != nil {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsed.Scheme != "amqp" && parsed.Scheme != "amqps" {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsed.Scheme))
		}
		if c.AMQPExchange == "" {
			errs = append(errs, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPProgressQueue == "" {
			errs = append(errs, "AMQP progress queue name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPReportQueue == "" {
			errs = append(errs, "AMQP report queue name cannot be empty when AMQP URL is provided")
		}
	}

	if c.CacheSize < 1 {
		errs = append(errs, fmt.Sprintf("invalid cache size %d: must be at least 1", c.CacheSize))
	}
	if c.CacheTTL < time.Second {
		errs = append(errs, fmt.Sprintf("invalid cache TTL %v: must be at least 1 second", c.CacheTTL))
	}

	if c.DefaultPageSize < 1 || c.DefaultPageSize > 100 {
		errs = append(errs, fmt.Sprintf("invalid default page size %d: must be between 1 and 100", c.DefaultPageSize))
	}
	if c.DefaultRangeDays < 1 || c.DefaultRangeDays > 366 {
		errs = append(errs, fmt.Sprintf("invalid default range days %d: must be between 1 and 366", c.DefaultRangeDays))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
