package common

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Extract  ExtractConfig  `yaml:"extract"`
	Amounts  AmountsConfig  `yaml:"amounts"`
	Batch    BatchConfig    `yaml:"batch"`
}

// DatabaseConfig holds batch-store configuration. A postgres:// DSN selects
// the pgx driver; anything else is treated as a SQLite path (":memory:" for
// in-memory).
type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

// ExtractConfig holds extraction thresholds.
type ExtractConfig struct {
	MinConfidence int `yaml:"min_confidence"` // default 60
}

// AmountsConfig holds amount-verification tuning.
type AmountsConfig struct {
	Tolerance     float64 `yaml:"tolerance"`       // default 0.10
	TaxRate       float64 `yaml:"tax_rate"`        // default 0.10
	MaxLineAmount float64 `yaml:"max_line_amount"` // default 1000000
}

// BatchConfig holds pipeline behavior flags.
type BatchConfig struct {
	Workers int `yaml:"workers"` // default 1 (synchronous)
}

// LoadConfig loads configuration from environment variables.
func LoadConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			DSN: getEnv("DB_URL", ":memory:"),
		},
		Extract: ExtractConfig{
			MinConfidence: getEnvAsInt("EXTRACT_MIN_CONFIDENCE", 60),
		},
		Amounts: AmountsConfig{
			Tolerance:     getEnvAsFloat64("AMOUNT_TOLERANCE", 0.10),
			TaxRate:       getEnvAsFloat64("TAX_RATE", 0.10),
			MaxLineAmount: getEnvAsFloat64("MAX_LINE_AMOUNT", 1_000_000),
		},
		Batch: BatchConfig{
			Workers: getEnvAsInt("BATCH_WORKERS", 1),
		},
	}
}

// ApplyFile overlays values from a YAML config file onto c. Zero values in
// the file leave the existing (env/default) values untouched.
func (c *Config) ApplyFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	var overlay Config
	if err := yaml.Unmarshal(raw, &overlay); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	if overlay.Database.DSN != "" {
		c.Database.DSN = overlay.Database.DSN
	}
	if overlay.Extract.MinConfidence != 0 {
		c.Extract.MinConfidence = overlay.Extract.MinConfidence
	}
	if overlay.Amounts.Tolerance != 0 {
		c.Amounts.Tolerance = overlay.Amounts.Tolerance
	}
	if overlay.Amounts.TaxRate != 0 {
		c.Amounts.TaxRate = overlay.Amounts.TaxRate
	}
	if overlay.Amounts.MaxLineAmount != 0 {
		c.Amounts.MaxLineAmount = overlay.Amounts.MaxLineAmount
	}
	if overlay.Batch.Workers != 0 {
		c.Batch.Workers = overlay.Batch.Workers
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat64(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration.
func (c *Config) Validate() error {
	if c.Amounts.Tolerance < 0 {
		return NewAppError("CONFIG_ERROR", "AMOUNT_TOLERANCE must be >= 0", ErrInvalidInput)
	}
	if c.Amounts.TaxRate < 0 || c.Amounts.TaxRate >= 1 {
		return NewAppError("CONFIG_ERROR", "TAX_RATE must be in [0,1)", ErrInvalidInput)
	}
	if c.Batch.Workers < 1 {
		return NewAppError("CONFIG_ERROR", "BATCH_WORKERS must be >= 1", ErrInvalidInput)
	}
	return nil
}
