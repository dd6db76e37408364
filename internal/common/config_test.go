package common

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{"DB_URL", "EXTRACT_MIN_CONFIDENCE", "AMOUNT_TOLERANCE", "TAX_RATE", "MAX_LINE_AMOUNT", "BATCH_WORKERS"} {
		t.Setenv(key, "")
	}
	cfg := LoadConfig()

	assert.Equal(t, ":memory:", cfg.Database.DSN)
	assert.Equal(t, 60, cfg.Extract.MinConfidence)
	assert.Equal(t, 0.10, cfg.Amounts.Tolerance)
	assert.Equal(t, 0.10, cfg.Amounts.TaxRate)
	assert.Equal(t, 1_000_000.0, cfg.Amounts.MaxLineAmount)
	assert.Equal(t, 1, cfg.Batch.Workers)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("DB_URL", "postgres://localhost/invoices")
	t.Setenv("AMOUNT_TOLERANCE", "0.25")
	t.Setenv("BATCH_WORKERS", "4")

	cfg := LoadConfig()

	assert.Equal(t, "postgres://localhost/invoices", cfg.Database.DSN)
	assert.Equal(t, 0.25, cfg.Amounts.Tolerance)
	assert.Equal(t, 4, cfg.Batch.Workers)
}

func TestLoadConfigIgnoresUnparseableEnv(t *testing.T) {
	t.Setenv("BATCH_WORKERS", "many")
	t.Setenv("TAX_RATE", "ten percent")

	cfg := LoadConfig()

	assert.Equal(t, 1, cfg.Batch.Workers)
	assert.Equal(t, 0.10, cfg.Amounts.TaxRate)
}

func TestApplyFileOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"amounts:\n  tolerance: 0.5\nbatch:\n  workers: 8\n"), 0o600))

	cfg := LoadConfig()
	require.NoError(t, cfg.ApplyFile(path))

	assert.Equal(t, 0.5, cfg.Amounts.Tolerance)
	assert.Equal(t, 8, cfg.Batch.Workers)
	// untouched sections keep their defaults
	assert.Equal(t, ":memory:", cfg.Database.DSN)
	assert.Equal(t, 0.10, cfg.Amounts.TaxRate)
}

func TestApplyFileMissing(t *testing.T) {
	cfg := LoadConfig()
	assert.Error(t, cfg.ApplyFile(filepath.Join(t.TempDir(), "nope.yaml")))
}

func TestApplyFileMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("amounts: [not: a: map"), 0o600))

	cfg := LoadConfig()
	assert.Error(t, cfg.ApplyFile(path))
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative tolerance", func(c *Config) { c.Amounts.Tolerance = -0.01 }},
		{"tax rate at one", func(c *Config) { c.Amounts.TaxRate = 1.0 }},
		{"zero workers", func(c *Config) { c.Batch.Workers = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := LoadConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)

			var appErr *AppError
			require.True(t, errors.As(err, &appErr))
			assert.Equal(t, "CONFIG_ERROR", appErr.Code)
			assert.True(t, errors.Is(err, ErrInvalidInput))
		})
	}
}
