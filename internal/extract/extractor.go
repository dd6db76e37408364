package extract

import (
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ledgerline/invoice-importer/constants"
	"github.com/ledgerline/invoice-importer/internal/entity"
)

// Extractor recovers an InvoiceRecord from raw document text using ordered
// pattern-strategy cascades. It never fails for a missing field: the field
// is emitted empty with confidence 0 and a warning is appended.
type Extractor struct {
	logger *slog.Logger
}

func NewExtractor(logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{logger: logger}
}

// Extract recovers all target fields from text for one source document.
func (e *Extractor) Extract(text, sourceID string) *entity.InvoiceRecord {
	rec := &entity.InvoiceRecord{
		SourceID: sourceID,
		Fields:   make(map[string]entity.ExtractedField, 6),
	}

	rec.InvoiceNumber = e.field(rec, constants.ColInvoiceNumber, text, invoiceNumberStrategies)
	rec.InvoiceDate = e.dateField(rec, constants.ColInvoiceDate, text, invoiceDateStrategies)
	rec.DueDate = e.dateField(rec, constants.ColDueDate, text, dueDateStrategies)
	rec.ContactName = e.field(rec, constants.ColContactName, text, contactNameStrategies)
	rec.Reference = e.optionalField(rec, constants.ColReference, text, referenceStrategies)

	if raw, _, _, _, ok := runCascade(text, totalStrategies); ok {
		if total, err := decimal.NewFromString(strings.ReplaceAll(raw, ",", "")); err == nil {
			t := total.Round(2)
			rec.DetectedTotal = &t
		}
	}

	items, tier, warnings := extractLineItems(text, rec.DetectedTotal)
	rec.LineItems = items
	rec.Fields[constants.ColDescription] = lineItemProvenance(tier)
	for _, w := range warnings {
		rec.AddWarning(w)
	}

	rec.OverallConfidence = AggregateConfidence(rec)
	if rec.OverallConfidence < constants.LowConfidenceThreshold {
		rec.AddWarning("overall extraction confidence is low; manual review recommended")
	}

	e.logger.Debug("extract.ok",
		"source_id", sourceID,
		"invoice_number", rec.InvoiceNumber,
		"line_items", len(rec.LineItems),
		"line_item_tier", tier,
		"confidence", rec.OverallConfidence,
	)
	return rec
}

// field runs a cascade for a required field and records the outcome.
func (e *Extractor) field(rec *entity.InvoiceRecord, column, text string, strategies []strategy) string {
	value, conf, src, name, ok := runCascade(text, strategies)
	rec.Fields[column] = entity.ExtractedField{Value: value, Confidence: conf, Source: src}
	if !ok {
		rec.AddWarning(column + " could not be extracted from document text")
		return ""
	}
	e.logger.Debug("extract.field", "column", column, "strategy", name, "confidence", conf)
	return value
}

// optionalField is field without the missing-value warning.
func (e *Extractor) optionalField(rec *entity.InvoiceRecord, column, text string, strategies []strategy) string {
	value, conf, src, _, _ := runCascade(text, strategies)
	rec.Fields[column] = entity.ExtractedField{Value: value, Confidence: conf, Source: src}
	return value
}

// lineItemProvenance records how the line items were recovered, keyed under
// the Description column: structured lines and table rows are pattern
// matches, a tier-3 item is synthesized rather than read from the text.
func lineItemProvenance(tier int) entity.ExtractedField {
	switch tier {
	case 1:
		return entity.ExtractedField{Confidence: 85, Source: constants.SourcePattern}
	case 2:
		return entity.ExtractedField{Confidence: 75, Source: constants.SourcePattern}
	case 3:
		return entity.ExtractedField{Confidence: 50, Source: constants.SourceSynthetic}
	}
	return entity.ExtractedField{Source: constants.SourceNone}
}

// dateField runs a cascade, then normalizes the captured token to
// DD/MM/YYYY. A token that does not normalize passes through unchanged with
// a warning; the schema validator decides its fate.
func (e *Extractor) dateField(rec *entity.InvoiceRecord, column, text string, strategies []strategy) string {
	raw := e.field(rec, column, text, strategies)
	if raw == "" {
		return ""
	}
	normalized, ok := NormalizeDate(raw)
	if !ok {
		rec.AddWarning(column + " value " + raw + " is not in a recognized date format")
		return raw
	}
	if normalized != raw {
		f := rec.Fields[column]
		rec.Fields[column] = entity.ExtractedField{Value: normalized, Confidence: f.Confidence, Source: f.Source}
	}
	return normalized
}
