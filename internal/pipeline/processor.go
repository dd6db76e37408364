package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ledgerline/invoice-importer/internal/amounts"
	"github.com/ledgerline/invoice-importer/internal/entity"
	"github.com/ledgerline/invoice-importer/internal/extract"
	"github.com/ledgerline/invoice-importer/internal/schema"
)

// Document is one unit of batch input: raw text from the native-text
// collaborator, or the text of a validated OCR payload.
type Document struct {
	SourceID string
	Text     string
	// OCRConfidence is the engine's own 0..100 confidence when the text came
	// from OCR; nil for native text.
	OCRConfidence *float64
}

// DocumentResult is the outcome of the per-document stages (extraction,
// confidence, amount verification, record validation).
type DocumentResult struct {
	Record       *entity.InvoiceRecord
	Verification amounts.VerificationResult
	Validation   *entity.ValidationResult
}

// Processor coordinates extract -> verify -> validate for one document at a
// time. It holds no cross-document state; batch-scoped stages (duplicate
// detection, batch validation) live in the coordinator.
type Processor struct {
	logger    *slog.Logger
	extractor *extract.Extractor
	verifier  *amounts.Verifier
	validator *schema.Validator
}

func NewProcessor(logger *slog.Logger, extractor *extract.Extractor, verifier *amounts.Verifier, validator *schema.Validator) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	if extractor == nil {
		extractor = extract.NewExtractor(logger)
	}
	if verifier == nil {
		verifier = amounts.NewVerifier(logger)
	}
	if validator == nil {
		validator = schema.NewValidator(logger)
	}
	return &Processor{
		logger:    logger,
		extractor: extractor,
		verifier:  verifier,
		validator: validator,
	}
}

// ProcessDocument runs the synchronous per-document pipeline. Extraction
// gaps and validation findings are values on the result; an error is
// returned only for unrecoverable conditions (cancelled context, empty
// input).
func (p *Processor) ProcessDocument(ctx context.Context, doc Document) (DocumentResult, error) {
	if err := ctx.Err(); err != nil {
		return DocumentResult{}, err
	}
	if doc.Text == "" {
		return DocumentResult{}, fmt.Errorf("document %s has no text", doc.SourceID)
	}

	rec := p.extractor.Extract(doc.Text, doc.SourceID)
	if doc.OCRConfidence != nil && *doc.OCRConfidence < float64(rec.OverallConfidence) {
		// recognition confidence caps the heuristic score
		rec.OverallConfidence = int(*doc.OCRConfidence)
		rec.AddWarning("recognition engine reported low confidence for this document")
	}

	verification := p.verifier.Verify(rec)
	validation := p.validator.ValidateRecord(rec)

	p.logger.Info("pipeline.document.ok",
		"source_id", doc.SourceID,
		"invoice_number", rec.InvoiceNumber,
		"confidence", rec.OverallConfidence,
		"amounts_valid", verification.IsValid,
		"errors", len(validation.Errors),
		"warnings", len(validation.Warnings),
	)

	return DocumentResult{
		Record:       rec,
		Verification: verification,
		Validation:   validation,
	}, nil
}
