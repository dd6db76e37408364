package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ledgerline/invoice-importer/internal/common"
	"github.com/ledgerline/invoice-importer/internal/pipeline"
)

// BatchRepository persists batch summaries and the invoices they produced.
// The stored fingerprints are history for audits; the duplicate detector
// never consults them (duplicate scope is one batch run).
type BatchRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewBatchRepository(db *sql.DB, logger *slog.Logger) *BatchRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &BatchRepository{db: db, logger: logger}
}

// BatchSummary is one stored batch run.
type BatchSummary struct {
	ID             uuid.UUID
	CreatedAt      time.Time
	DocumentCount  int
	RecordCount    int
	RowCount       int
	ErrorCount     int
	WarningCount   int
	DuplicateCount int
}

// SaveBatch stores the batch summary and one row per extracted invoice.
func (r *BatchRepository) SaveBatch(ctx context.Context, res pipeline.BatchResult) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save batch: %w: %w", common.ErrDatabase, err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO batches (id, created_at, document_count, record_count, row_count, error_count, warning_count, duplicate_count)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		res.BatchID.String(), time.Now().UTC(), res.Documents, len(res.Records), len(res.Rows),
		len(res.Validation.Errors), len(res.Validation.Warnings), res.Duplicates.TotalDuplicateCount,
	)
	if err != nil {
		return fmt.Errorf("insert batch: %w", err)
	}

	for i, rec := range res.Records {
		fp := res.Fingerprints[i]
		_, err = tx.ExecContext(ctx,
			`INSERT INTO invoices (id, batch_id, source_id, invoice_number, contact_name, invoice_date, due_date, total_amount, confidence, fingerprint)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			uuid.New().String(), res.BatchID.String(), rec.SourceID, rec.InvoiceNumber,
			rec.ContactName, rec.InvoiceDate, rec.DueDate, fp.TotalAmount,
			rec.OverallConfidence, fp.Hash,
		)
		if err != nil {
			return fmt.Errorf("insert invoice %s: %w", rec.InvoiceNumber, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save batch: %w: %w", common.ErrDatabase, err)
	}

	r.logger.Info("repository.batch.saved",
		"batch_id", res.BatchID,
		"invoices", len(res.Records),
	)
	return nil
}

// GetBatch returns one stored batch summary by id.
func (r *BatchRepository) GetBatch(ctx context.Context, id uuid.UUID) (*BatchSummary, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, created_at, document_count, record_count, row_count, error_count, warning_count, duplicate_count
		 FROM batches WHERE id = $1`, id.String())

	var b BatchSummary
	var raw string
	err := row.Scan(&raw, &b.CreatedAt, &b.DocumentCount, &b.RecordCount, &b.RowCount,
		&b.ErrorCount, &b.WarningCount, &b.DuplicateCount)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("batch %s: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get batch: %w: %w", common.ErrDatabase, err)
	}
	if parsed, err := uuid.Parse(raw); err == nil {
		b.ID = parsed
	}
	return &b, nil
}

// ListBatches returns stored batch summaries, newest first.
func (r *BatchRepository) ListBatches(ctx context.Context, limit int) ([]BatchSummary, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, created_at, document_count, record_count, row_count, error_count, warning_count, duplicate_count
		 FROM batches ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list batches: %w: %w", common.ErrDatabase, err)
	}
	defer func() { _ = rows.Close() }()

	var out []BatchSummary
	for rows.Next() {
		var b BatchSummary
		var id string
		if err := rows.Scan(&id, &b.CreatedAt, &b.DocumentCount, &b.RecordCount, &b.RowCount,
			&b.ErrorCount, &b.WarningCount, &b.DuplicateCount); err != nil {
			return nil, fmt.Errorf("scan batch: %w", err)
		}
		if parsed, err := uuid.Parse(id); err == nil {
			b.ID = parsed
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
