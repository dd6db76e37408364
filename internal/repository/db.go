package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // postgres driver
	_ "modernc.org/sqlite"             // embedded sqlite driver

	"github.com/ledgerline/invoice-importer/internal/common"
)

// Open connects the batch store. A postgres:// (or postgresql://) DSN uses
// the pgx stdlib driver; anything else is treated as a SQLite path, with
// ":memory:" selecting an in-memory database.
func Open(ctx context.Context, cfg common.DatabaseConfig, logger *slog.Logger) (*sql.DB, error) {
	if logger == nil {
		logger = slog.Default()
	}

	driver := "sqlite"
	dsn := cfg.DSN
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		driver = "pgx"
	}

	logger.Info("connecting to batch store", "driver", driver)
	db, err := sql.Open(driver, dsn)
	if err != nil {
		logger.Error("failed to open batch store", "error", err)
		return nil, fmt.Errorf("open batch store: %w: %w", common.ErrDatabase, err)
	}
	if driver == "sqlite" && strings.Contains(dsn, ":memory:") {
		// every pooled connection would otherwise see its own empty database
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		logger.Error("failed to reach batch store", "error", err)
		return nil, fmt.Errorf("ping batch store: %w: %w", common.ErrDatabase, err)
	}
	if err := migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	logger.Info("batch store ready")
	return db, nil
}

// Close closes the store gracefully.
func Close(db *sql.DB, logger *slog.Logger) {
	if db == nil {
		return
	}
	if err := db.Close(); err != nil {
		logger.Error("failed to close batch store", "error", err)
		return
	}
	logger.Info("batch store closed")
}

// HealthCheck pings the store to catch DSN issues early.
func HealthCheck(ctx context.Context, db *sql.DB, timeout time.Duration) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return db.PingContext(ctx)
}

// migrate applies the DDL; statements are idempotent.
func migrate(ctx context.Context, db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS batches (
			id              TEXT PRIMARY KEY,
			created_at      TIMESTAMP NOT NULL,
			document_count  INTEGER NOT NULL,
			record_count    INTEGER NOT NULL,
			row_count       INTEGER NOT NULL,
			error_count     INTEGER NOT NULL,
			warning_count   INTEGER NOT NULL,
			duplicate_count INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS invoices (
			id             TEXT PRIMARY KEY,
			batch_id       TEXT NOT NULL,
			source_id      TEXT NOT NULL,
			invoice_number TEXT NOT NULL,
			contact_name   TEXT NOT NULL,
			invoice_date   TEXT NOT NULL,
			due_date       TEXT NOT NULL,
			total_amount   TEXT NOT NULL,
			confidence     INTEGER NOT NULL,
			fingerprint    TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_invoices_batch ON invoices (batch_id)`,
		`CREATE INDEX IF NOT EXISTS idx_invoices_fingerprint ON invoices (fingerprint)`,
	}
	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate batch store: %w: %w", common.ErrDatabase, err)
		}
	}
	return nil
}
