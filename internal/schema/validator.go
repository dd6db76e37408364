package schema

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/ledgerline/invoice-importer/constants"
	"github.com/ledgerline/invoice-importer/internal/entity"
)

// Validator enforces the canonical row schema: required-field presence, date
// format, numeric well-formedness, and structural header match. Findings are
// collected as values, never thrown.
type Validator struct {
	logger *slog.Logger
}

func NewValidator(logger *slog.Logger) *Validator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Validator{logger: logger}
}

// ValidateRecord checks one extracted record before formatting.
func (v *Validator) ValidateRecord(rec *entity.InvoiceRecord) *entity.ValidationResult {
	res := entity.NewValidationResult()

	v.requireField(res, constants.ColInvoiceNumber, rec.InvoiceNumber, rec.InvoiceNumber)
	v.requireField(res, constants.ColContactName, rec.ContactName, rec.InvoiceNumber)
	v.requireDate(res, constants.ColInvoiceDate, rec.InvoiceDate, rec.InvoiceNumber)
	v.requireDate(res, constants.ColDueDate, rec.DueDate, rec.InvoiceNumber)

	for i, item := range rec.LineItems {
		if !item.Quantity.IsPositive() {
			res.AddError(entity.ValidationIssue{
				Field:         constants.ColQuantity,
				Message:       fmt.Sprintf("line %d: quantity must be positive, got %s", i+1, item.Quantity.String()),
				InvoiceNumber: rec.InvoiceNumber,
			})
		}
		if strings.TrimSpace(item.Description) == "" {
			res.AddWarning(entity.ValidationIssue{
				Field:         constants.ColDescription,
				Message:       fmt.Sprintf("line %d: description is missing", i+1),
				InvoiceNumber: rec.InvoiceNumber,
			})
		} else if len(strings.TrimSpace(item.Description)) < 3 {
			res.AddWarning(entity.ValidationIssue{
				Field:         constants.ColDescription,
				Message:       fmt.Sprintf("line %d: description %q is unusually short", i+1, item.Description),
				InvoiceNumber: rec.InvoiceNumber,
			})
		}
		if item.AccountCode == "" || item.AccountCode == constants.DefaultAccountCode {
			res.AddWarning(entity.ValidationIssue{
				Field:         constants.ColAccountCode,
				Message:       fmt.Sprintf("line %d: account code defaulted to %s; confirm the coding", i+1, constants.DefaultAccountCode),
				InvoiceNumber: rec.InvoiceNumber,
			})
		}
	}

	if len(rec.LineItems) > constants.MaxLinesPerInvoice {
		res.AddWarning(entity.ValidationIssue{
			Field:         constants.ColInvoiceNumber,
			Message:       fmt.Sprintf("invoice %s has %d line items (more than %d); confirm the document was split correctly", rec.InvoiceNumber, len(rec.LineItems), constants.MaxLinesPerInvoice),
			InvoiceNumber: rec.InvoiceNumber,
		})
	}

	if rec.OverallConfidence < constants.LowConfidenceThreshold {
		res.AddWarning(entity.ValidationIssue{
			Field:         constants.ColInvoiceNumber,
			Message:       fmt.Sprintf("extraction confidence %d is below %d; manual review recommended", rec.OverallConfidence, constants.LowConfidenceThreshold),
			InvoiceNumber: rec.InvoiceNumber,
		})
	}

	return res
}

// ValidateRow checks one canonical row. rowIndex is 1-based and reported on
// every issue.
func (v *Validator) ValidateRow(row entity.CanonicalRow, rowIndex int) *entity.ValidationResult {
	res := entity.NewValidationResult()

	for _, col := range constants.RequiredColumns() {
		if strings.TrimSpace(row.Get(col)) == "" {
			res.AddError(entity.ValidationIssue{
				Field:         col,
				Message:       "required field is empty",
				Row:           rowIndex,
				InvoiceNumber: row.InvoiceNumber,
			})
		}
	}

	for _, col := range []string{constants.ColInvoiceDate, constants.ColDueDate} {
		if val := row.Get(col); val != "" && !ValidDate(val) {
			res.AddError(entity.ValidationIssue{
				Field:         col,
				Message:       fmt.Sprintf("%q is not a valid DD/MM/YYYY date", val),
				Row:           rowIndex,
				InvoiceNumber: row.InvoiceNumber,
			})
		}
	}

	if row.Quantity != "" {
		if q, err := strconv.ParseFloat(row.Quantity, 64); err != nil {
			res.AddError(entity.ValidationIssue{
				Field:         constants.ColQuantity,
				Message:       fmt.Sprintf("%q is not numeric", row.Quantity),
				Row:           rowIndex,
				InvoiceNumber: row.InvoiceNumber,
			})
		} else if q <= 0 {
			res.AddError(entity.ValidationIssue{
				Field:         constants.ColQuantity,
				Message:       fmt.Sprintf("quantity must be positive, got %q", row.Quantity),
				Row:           rowIndex,
				InvoiceNumber: row.InvoiceNumber,
			})
		}
	}
	if row.UnitAmount != "" {
		if _, err := strconv.ParseFloat(row.UnitAmount, 64); err != nil {
			res.AddError(entity.ValidationIssue{
				Field:         constants.ColUnitAmount,
				Message:       fmt.Sprintf("%q is not numeric", row.UnitAmount),
				Row:           rowIndex,
				InvoiceNumber: row.InvoiceNumber,
			})
		}
	}

	return res
}

// ValidateHeaders requires exact column count, identity, and order against
// the canonical schema. The first mismatch is reported as a single error
// naming the 1-based position and the expected column; reporting every
// shifted position after a missing column would only bury the cause.
func (v *Validator) ValidateHeaders(headers []string) *entity.ValidationResult {
	res := entity.NewValidationResult()
	expected := constants.CanonicalColumns()

	for i, want := range expected {
		if i >= len(headers) {
			res.AddError(entity.ValidationIssue{
				Field:   want,
				Message: fmt.Sprintf("column %d is missing; expected %q", i+1, want),
			})
			return res
		}
		if headers[i] != want {
			res.AddError(entity.ValidationIssue{
				Field:   want,
				Message: fmt.Sprintf("column %d is %q; expected %q", i+1, headers[i], want),
			})
			return res
		}
	}
	if len(headers) > len(expected) {
		res.AddError(entity.ValidationIssue{
			Field:   headers[len(expected)],
			Message: fmt.Sprintf("unexpected extra column %q at position %d", headers[len(expected)], len(expected)+1),
		})
	}
	return res
}

// ValidateRows runs per-row validation and flags unusually high per-invoice
// row counts. Multi-row invoices are legitimate, so a high count is a
// warning, never an error.
func (v *Validator) ValidateRows(rows []entity.CanonicalRow) *entity.ValidationResult {
	res := entity.NewValidationResult()

	counts := make(map[string]int)
	var order []string
	for i, row := range rows {
		res.Merge(v.ValidateRow(row, i+1))
		if row.InvoiceNumber != "" {
			if _, seen := counts[row.InvoiceNumber]; !seen {
				order = append(order, row.InvoiceNumber)
			}
			counts[row.InvoiceNumber]++
		}
	}

	for _, num := range order {
		if counts[num] > constants.MaxLinesPerInvoice {
			res.AddWarning(entity.ValidationIssue{
				Field:         constants.ColInvoiceNumber,
				Message:       fmt.Sprintf("invoice %s spans %d rows (more than %d); confirm this is one invoice", num, counts[num], constants.MaxLinesPerInvoice),
				InvoiceNumber: num,
			})
		}
	}

	return res
}

// ValidateBatch flags duplicate invoice numbers across distinct records as
// warnings (legitimate multi-line invoices share a number, so never an
// error).
func (v *Validator) ValidateBatch(records []*entity.InvoiceRecord) *entity.ValidationResult {
	res := entity.NewValidationResult()

	counts := make(map[string]int)
	var order []string
	for _, rec := range records {
		if rec.InvoiceNumber == "" {
			continue
		}
		if _, seen := counts[rec.InvoiceNumber]; !seen {
			order = append(order, rec.InvoiceNumber)
		}
		counts[rec.InvoiceNumber]++
	}
	for _, num := range order {
		if counts[num] > 1 {
			res.AddWarning(entity.ValidationIssue{
				Field:         constants.ColInvoiceNumber,
				Message:       fmt.Sprintf("invoice number %s appears on %d records in this batch", num, counts[num]),
				InvoiceNumber: num,
			})
		}
	}
	return res
}

func (v *Validator) requireField(res *entity.ValidationResult, field, value, invoiceNumber string) {
	if strings.TrimSpace(value) == "" {
		res.AddError(entity.ValidationIssue{
			Field:         field,
			Message:       "required field is empty",
			InvoiceNumber: invoiceNumber,
		})
	}
}

func (v *Validator) requireDate(res *entity.ValidationResult, field, value, invoiceNumber string) {
	if strings.TrimSpace(value) == "" {
		res.AddError(entity.ValidationIssue{
			Field:         field,
			Message:       "required field is empty",
			InvoiceNumber: invoiceNumber,
		})
		return
	}
	if !ValidDate(value) {
		res.AddError(entity.ValidationIssue{
			Field:         field,
			Message:       fmt.Sprintf("%q is not a valid DD/MM/YYYY date", value),
			InvoiceNumber: invoiceNumber,
		})
	}
}
