package entity

import (
	"fmt"

	"github.com/ledgerline/invoice-importer/constants"
)

// ValidationIssue is one finding against a record, row, or header set.
type ValidationIssue struct {
	Severity      constants.Severity
	Field         string
	Message       string
	Row           int    // 1-based row index; 0 when not row-scoped
	InvoiceNumber string // set when the issue is attributable to one invoice
}

func (i ValidationIssue) String() string {
	if i.Row > 0 {
		return fmt.Sprintf("row %d: %s: %s", i.Row, i.Field, i.Message)
	}
	return fmt.Sprintf("%s: %s", i.Field, i.Message)
}

// ValidationResult collects issues; errors block import, warnings do not.
type ValidationResult struct {
	IsValid  bool
	Errors   []ValidationIssue
	Warnings []ValidationIssue
}

// NewValidationResult returns an empty, valid result.
func NewValidationResult() *ValidationResult {
	return &ValidationResult{IsValid: true}
}

// AddError records an error and marks the result invalid.
func (v *ValidationResult) AddError(issue ValidationIssue) {
	issue.Severity = constants.SeverityError
	v.Errors = append(v.Errors, issue)
	v.IsValid = false
}

// AddWarning records a warning; validity is unaffected.
func (v *ValidationResult) AddWarning(issue ValidationIssue) {
	issue.Severity = constants.SeverityWarning
	v.Warnings = append(v.Warnings, issue)
}

// Merge folds another result into this one.
func (v *ValidationResult) Merge(other *ValidationResult) {
	if other == nil {
		return
	}
	v.Errors = append(v.Errors, other.Errors...)
	v.Warnings = append(v.Warnings, other.Warnings...)
	if !other.IsValid {
		v.IsValid = false
	}
}
