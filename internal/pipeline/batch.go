package pipeline

import (
	"context"
	"log/slog"
	"strconv"
	"sync"

	"github.com/google/uuid"

	"github.com/ledgerline/invoice-importer/internal/amounts"
	"github.com/ledgerline/invoice-importer/internal/dedupe"
	"github.com/ledgerline/invoice-importer/internal/entity"
	"github.com/ledgerline/invoice-importer/internal/export"
	"github.com/ledgerline/invoice-importer/internal/schema"
)

// DocumentError records a per-document failure; it never aborts the batch.
type DocumentError struct {
	SourceID string
	Err      string
}

// BatchResult is the full outcome of one batch run.
type BatchResult struct {
	BatchID      uuid.UUID
	Documents    int
	Results      []DocumentResult
	Records      []*entity.InvoiceRecord
	Fingerprints []entity.Fingerprint
	Duplicates   dedupe.DetectionResult
	Verification amounts.BatchVerification
	Validation   *entity.ValidationResult
	Rows         []entity.CanonicalRow
	Errors       []DocumentError
}

// Coordinator owns the batch-scoped state: the duplicate detector (reset at
// the start of every run) and the per-batch reduction over worker output.
// Documents are independent, so the per-document stages may fan out across
// workers; fingerprinting stays a single reduction on the coordinator
// goroutine and is never touched concurrently.
type Coordinator struct {
	logger    *slog.Logger
	processor *Processor
	detector  *dedupe.Detector
	validator *schema.Validator
	formatter *export.Formatter
	workers   int
}

func NewCoordinator(logger *slog.Logger, processor *Processor, workers int) *Coordinator {
	if logger == nil {
		logger = slog.Default()
	}
	if processor == nil {
		processor = NewProcessor(logger, nil, nil, nil)
	}
	if workers < 1 {
		workers = 1
	}
	return &Coordinator{
		logger:    logger,
		processor: processor,
		detector:  dedupe.NewDetector(logger),
		validator: schema.NewValidator(logger),
		formatter: export.NewFormatter(logger),
		workers:   workers,
	}
}

// ProcessBatch runs the per-document stages (fanned out when workers > 1),
// then the batch-wide reduction: duplicate detection, batch validation, row
// formatting and row validation. Cancellation is cooperative: the context is
// checked between documents, and documents already processed are preserved
// in the returned result.
func (c *Coordinator) ProcessBatch(ctx context.Context, docs []Document) BatchResult {
	res := BatchResult{
		BatchID:    uuid.New(),
		Documents:  len(docs),
		Validation: entity.NewValidationResult(),
	}
	c.detector.Reset()

	c.logger.Info("pipeline.batch.start", "batch_id", res.BatchID, "documents", len(docs), "workers", c.workers)

	results := make([]*DocumentResult, len(docs))
	errs := make([]*DocumentError, len(docs))
	if c.workers == 1 {
		for i, doc := range docs {
			if ctx.Err() != nil {
				errs[i] = &DocumentError{SourceID: doc.SourceID, Err: ctx.Err().Error()}
				continue
			}
			c.runOne(ctx, doc, i, results, errs)
		}
	} else {
		jobs := make(chan int)
		var wg sync.WaitGroup
		for w := 0; w < c.workers; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := range jobs {
					c.runOne(ctx, docs[i], i, results, errs)
				}
			}()
		}
		for i, doc := range docs {
			if ctx.Err() != nil {
				errs[i] = &DocumentError{SourceID: doc.SourceID, Err: ctx.Err().Error()}
				continue
			}
			jobs <- i
		}
		close(jobs)
		wg.Wait()
	}

	// single-threaded reduction over worker output, in input order
	for i := range docs {
		if errs[i] != nil {
			res.Errors = append(res.Errors, *errs[i])
			continue
		}
		r := results[i]
		res.Results = append(res.Results, *r)
		res.Records = append(res.Records, r.Record)
		res.Fingerprints = append(res.Fingerprints, dedupe.Fingerprint(r.Record))
		res.Validation.Merge(r.Validation)

		if r.Verification.IsValid {
			res.Verification.ValidCount++
		} else {
			res.Verification.InvalidCount++
		}
		res.Verification.TotalDiscrepancy = res.Verification.TotalDiscrepancy.Add(r.Verification.Discrepancy.Abs())
		res.Verification.Results = append(res.Verification.Results, r.Verification)
	}

	res.Duplicates = c.detector.Detect(res.Records)
	for _, g := range res.Duplicates.Groups {
		res.Validation.AddWarning(entity.ValidationIssue{
			Field:         "InvoiceNumber",
			Message:       "duplicate invoice content detected across " + pluralDocs(len(g.Entries)),
			InvoiceNumber: g.Entries[0].InvoiceNumber,
		})
	}

	res.Validation.Merge(c.validator.ValidateBatch(res.Records))

	res.Rows = c.formatter.ToRows(res.Records)
	res.Validation.Merge(c.validator.ValidateRows(res.Rows))

	c.logger.Info("pipeline.batch.ok",
		"batch_id", res.BatchID,
		"records", len(res.Records),
		"rows", len(res.Rows),
		"failures", len(res.Errors),
		"duplicates", res.Duplicates.TotalDuplicateCount,
		"errors", len(res.Validation.Errors),
		"warnings", len(res.Validation.Warnings),
	)
	return res
}

func (c *Coordinator) runOne(ctx context.Context, doc Document, i int, results []*DocumentResult, errs []*DocumentError) {
	r, err := c.processor.ProcessDocument(ctx, doc)
	if err != nil {
		c.logger.Error("pipeline.document.failed", "source_id", doc.SourceID, "err", err)
		errs[i] = &DocumentError{SourceID: doc.SourceID, Err: err.Error()}
		return
	}
	results[i] = &r
}

func pluralDocs(n int) string {
	return strconv.Itoa(n) + " source documents"
}
