package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

type Config struct {
	// Workbook ingestion
	WorkbookDir string

	// Database
	SQLiteDBPath string

	// AMQP
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Normalization. The bank lists name the workbook columns that
	// become the Banco dimension; everything else on a daily sheet
	// is treated as an artifact column.
	LedgerBanks  []string
	BalanceBanks []string

	// Pipeline
	Parallelism int

	// Logging
	LogLevel  string
	LogFormat string
}

func Load() *Config {
	cfg := &Config{
		WorkbookDir:  getEnv("WORKBOOK_DIR", "./data/workbooks"),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/fluxo.db"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "fluxo"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "run_completed"),

		LedgerBanks:  getEnvList("LEDGER_BANKS", defaultBanks()),
		BalanceBanks: getEnvList("BALANCE_BANKS", defaultBanks()),

		Parallelism: getEnvInt("PARALLELISM", 4),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),
	}

	return cfg
}

func defaultBanks() []string {
	return []string{
		"Itaú",
		"Bradesco",
		"Santander",
		"Banco do Brasil",
		"Caixa",
		"Safra",
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if c.WorkbookDir == "" {
		errors = append(errors, "workbook directory cannot be empty")
	}

	if c.SQLiteDBPath == "" {
		errors = append(errors, "SQLite database path cannot be empty")
	} else {
		dir := filepath.Dir(c.SQLiteDBPath)
		if dir != "." && dir != "" {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				if err := os.MkdirAll(dir, 0755); err != nil {
					errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
				}
			}
		}
	}

	// Validate AMQP URL if provided
	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}

		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if len(c.LedgerBanks) == 0 {
		errors = append(errors, "ledger bank column list cannot be empty")
	}
	if len(c.BalanceBanks) == 0 {
		errors = append(errors, "balance bank column list cannot be empty")
	}

	if c.Parallelism < 1 {
		errors = append(errors, fmt.Sprintf("invalid parallelism %d: must be at least 1", c.Parallelism))
	} else if c.Parallelism > 64 {
		errors = append(errors, fmt.Sprintf("invalid parallelism %d: must be at most 64", c.Parallelism))
	}

	// Return combined errors
	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
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

func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
