package entity

import (
	"github.com/shopspring/decimal"

	"github.com/ledgerline/invoice-importer/constants"
)

// ExtractedField is one field as recovered from document text. Immutable
// once produced by the extractor.
type ExtractedField struct {
	Value      string
	Confidence int // 0..100
	Source     constants.FieldSource
}

// LineItem is a single billable line on an invoice.
type LineItem struct {
	Description string
	Quantity    decimal.Decimal
	UnitAmount  decimal.Decimal
	AccountCode string
	TaxType     string
}

// InvoiceRecord is the structured result of extracting one source document.
// Dates are carried as DD/MM/YYYY strings; malformed values pass through
// extraction unchanged and are rejected later by the schema validator.
type InvoiceRecord struct {
	InvoiceNumber string
	InvoiceDate   string
	DueDate       string
	ContactName   string
	Reference     string
	LineItems     []LineItem

	// DetectedTotal is an invoice total opportunistically recovered from
	// free text ("Total: $X"), used by the amount verifier as the expected
	// value. Nil when no total was found.
	DetectedTotal *decimal.Decimal

	SourceID          string
	OverallConfidence int // 0..100
	Warnings          []string

	// Fields keeps the per-field extraction detail (confidence + source tag)
	// keyed by canonical column name.
	Fields map[string]ExtractedField
}

// AddWarning appends a human-readable extraction warning.
func (r *InvoiceRecord) AddWarning(msg string) {
	r.Warnings = append(r.Warnings, msg)
}

// HasLineItems reports whether any line item was recovered.
func (r *InvoiceRecord) HasLineItems() bool {
	return len(r.LineItems) > 0
}
