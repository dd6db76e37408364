package amounts

import (
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/ledgerline/invoice-importer/internal/entity"
)

// Verifier recomputes invoice totals in integer cents and cross-checks them
// against any total detected in the document text.
type Verifier struct {
	// Tolerance is the maximum acceptable |calculated - expected| before a
	// record is flagged invalid.
	Tolerance decimal.Decimal
	// TaxRate drives the embedded-tax suggestion when a discrepancy matches
	// the computed tax amount.
	TaxRate decimal.Decimal
	// MaxLineAmount is the per-line sanity ceiling.
	MaxLineAmount decimal.Decimal

	logger *slog.Logger
}

// NewVerifier applies the defaults: tolerance 0.10, tax rate 10%, ceiling
// 1,000,000.
func NewVerifier(logger *slog.Logger) *Verifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Verifier{
		Tolerance:     decimal.New(10, -2),
		TaxRate:       decimal.New(10, -2),
		MaxLineAmount: decimal.NewFromInt(1_000_000),
		logger:        logger,
	}
}

// LineCheck is the per-line detail of a verification.
type LineCheck struct {
	Index       int
	Description string
	LineTotal   decimal.Decimal
	Issues      []string
}

// VerificationResult reports one invoice's amount cross-check.
type VerificationResult struct {
	SourceID        string
	InvoiceNumber   string
	CalculatedTotal decimal.Decimal
	ExpectedTotal   *decimal.Decimal
	Discrepancy     decimal.Decimal
	IsValid         bool
	Lines           []LineCheck
	Suggestions     []string
}

// BatchVerification aggregates verification across a batch. A single
// record's invalidity never stops verification of the rest.
type BatchVerification struct {
	Results          []VerificationResult
	ValidCount       int
	InvalidCount     int
	TotalDiscrepancy decimal.Decimal
}

// Verify recomputes the invoice total and compares it to any detected total.
// With no expected total the check is vacuously valid.
func (v *Verifier) Verify(rec *entity.InvoiceRecord) VerificationResult {
	res := VerificationResult{
		SourceID:      rec.SourceID,
		InvoiceNumber: rec.InvoiceNumber,
		IsValid:       true,
	}

	totalCents := decimal.Zero
	for i, item := range rec.LineItems {
		check := LineCheck{Index: i, Description: item.Description}

		if !item.Quantity.IsPositive() {
			check.Issues = append(check.Issues, fmt.Sprintf("quantity %s is not positive", item.Quantity.String()))
		}
		if item.UnitAmount.IsNegative() {
			check.Issues = append(check.Issues, fmt.Sprintf("unit amount %s is negative", FormatAmount(item.UnitAmount)))
		}
		if item.UnitAmount.Abs().GreaterThan(v.MaxLineAmount) {
			check.Issues = append(check.Issues, fmt.Sprintf("unit amount %s exceeds the sanity ceiling %s",
				FormatAmount(item.UnitAmount), FormatAmount(v.MaxLineAmount)))
		}

		lineCents := lineTotalCents(item.Quantity, item.UnitAmount)
		check.LineTotal = lineCents.Shift(-2)
		totalCents = totalCents.Add(lineCents)

		res.Suggestions = append(res.Suggestions, misreadSuggestions(i, item)...)
		res.Lines = append(res.Lines, check)
	}
	res.CalculatedTotal = totalCents.Shift(-2)

	if rec.DetectedTotal != nil {
		expected := rec.DetectedTotal.Round(2)
		res.ExpectedTotal = &expected
		res.Discrepancy = res.CalculatedTotal.Sub(expected)

		if res.Discrepancy.Abs().GreaterThan(v.Tolerance) {
			res.IsValid = false
			res.Suggestions = append(res.Suggestions, v.taxSuggestion(res.CalculatedTotal, res.Discrepancy)...)
			v.logger.Warn("amounts.discrepancy",
				"source_id", rec.SourceID,
				"invoice_number", rec.InvoiceNumber,
				"calculated", FormatAmount(res.CalculatedTotal),
				"expected", FormatAmount(expected),
				"discrepancy", FormatAmount(res.Discrepancy),
			)
		}
	}

	return res
}

// taxSuggestion flags a discrepancy that equals the computed tax amount,
// which usually means tax was already embedded in the unit prices.
func (v *Verifier) taxSuggestion(calculated, discrepancy decimal.Decimal) []string {
	taxOnCalculated := calculated.Mul(v.TaxRate).Round(2)
	margin := decimal.New(5, -2)
	if discrepancy.Abs().Sub(taxOnCalculated).Abs().LessThanOrEqual(margin) {
		return []string{fmt.Sprintf(
			"discrepancy %s matches %s%% tax on the calculated total; unit prices may already include tax",
			FormatAmount(discrepancy.Abs()), v.TaxRate.Mul(decimal.NewFromInt(100)).String())}
	}
	return nil
}

// VerifyBatch verifies every record and rolls up validity counts and total
// absolute discrepancy.
func (v *Verifier) VerifyBatch(records []*entity.InvoiceRecord) BatchVerification {
	batch := BatchVerification{TotalDiscrepancy: decimal.Zero}
	for _, rec := range records {
		res := v.Verify(rec)
		if res.IsValid {
			batch.ValidCount++
		} else {
			batch.InvalidCount++
		}
		batch.TotalDiscrepancy = batch.TotalDiscrepancy.Add(res.Discrepancy.Abs())
		batch.Results = append(batch.Results, res)
	}
	return batch
}
