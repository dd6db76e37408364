package schema

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerline/invoice-importer/constants"
	"github.com/ledgerline/invoice-importer/internal/entity"
)

func validRecord() *entity.InvoiceRecord {
	return &entity.InvoiceRecord{
		InvoiceNumber:     "INV-001",
		InvoiceDate:       "15/03/2024",
		DueDate:           "15/04/2024",
		ContactName:       "ABC Pty Ltd",
		SourceID:          "doc-1",
		OverallConfidence: 90,
		LineItems: []entity.LineItem{{
			Description: "Widget assembly",
			Quantity:    decimal.NewFromInt(2),
			UnitAmount:  decimal.RequireFromString("50.00"),
			AccountCode: "400",
		}},
	}
}

func validRow(num string) entity.CanonicalRow {
	return entity.CanonicalRow{
		ContactName:   "ABC Pty Ltd",
		InvoiceNumber: num,
		InvoiceDate:   "15/03/2024",
		DueDate:       "15/04/2024",
		Description:   "Widget assembly",
		Quantity:      "2",
		UnitAmount:    "50.00",
		AccountCode:   "200",
		TaxType:       "GST on Income",
	}
}

func daysInMonth(month, year int) int {
	switch month {
	case 1, 3, 5, 7, 8, 10, 12:
		return 31
	case 4, 6, 9, 11:
		return 30
	}
	if (year%4 == 0 && year%100 != 0) || year%400 == 0 {
		return 29
	}
	return 28
}

func TestValidDateAcceptsAllCalendarDates(t *testing.T) {
	for year := constants.MinYear; year <= constants.MaxYear; year += 7 {
		for month := 1; month <= 12; month++ {
			for day := 1; day <= daysInMonth(month, year); day++ {
				s := fmt.Sprintf("%02d/%02d/%04d", day, month, year)
				if !ValidDate(s) {
					t.Fatalf("expected %s to validate", s)
				}
			}
			// one past the end of the month always fails
			s := fmt.Sprintf("%02d/%02d/%04d", daysInMonth(month, year)+1, month, year)
			if ValidDate(s) {
				t.Fatalf("expected %s to fail", s)
			}
		}
	}
}

func TestValidDateEdgeCases(t *testing.T) {
	tests := []struct {
		in string
		ok bool
	}{
		{"29/02/2024", true},  // leap year
		{"29/02/2023", false}, // not a leap year
		{"29/02/2000", true},  // divisible by 400
		{"29/02/1900", false}, // divisible by 100 but not 400
		{"31/04/2024", false},
		{"00/01/2024", false},
		{"01/13/2024", false},
		{"01/00/2024", false},
		{"01/01/1899", false},
		{"01/01/2101", false},
		{"01/01/1900", true},
		{"31/12/2100", true},
		{"15/3/2024", false}, // shape requires zero padding
		{"15-03-2024", false},
		{"2024/03/15", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.ok, ValidDate(tt.in), "input %q", tt.in)
	}
}

func TestValidateRecordHappyPath(t *testing.T) {
	v := NewValidator(nil)
	res := v.ValidateRecord(validRecord())

	assert.True(t, res.IsValid)
	assert.Empty(t, res.Errors)
}

func TestValidateRecordErrors(t *testing.T) {
	v := NewValidator(nil)
	rec := validRecord()
	rec.InvoiceNumber = ""
	rec.InvoiceDate = "31/02/2024"
	rec.LineItems[0].Quantity = decimal.Zero

	res := v.ValidateRecord(rec)

	require.False(t, res.IsValid)
	fields := make(map[string]bool)
	for _, e := range res.Errors {
		fields[e.Field] = true
	}
	assert.True(t, fields[constants.ColInvoiceNumber])
	assert.True(t, fields[constants.ColInvoiceDate])
	assert.True(t, fields[constants.ColQuantity])
}

func TestValidateRecordWarnings(t *testing.T) {
	v := NewValidator(nil)
	rec := validRecord()
	rec.OverallConfidence = 40
	rec.LineItems[0].AccountCode = ""
	rec.LineItems[0].Description = "ab"

	res := v.ValidateRecord(rec)

	assert.True(t, res.IsValid, "warnings never block")
	assert.Len(t, res.Warnings, 3)
}

func TestValidateRowNumericChecks(t *testing.T) {
	v := NewValidator(nil)

	row := validRow("INV-001")
	row.Quantity = "two"
	row.UnitAmount = "$50"
	res := v.ValidateRow(row, 3)

	require.Len(t, res.Errors, 2)
	for _, e := range res.Errors {
		assert.Equal(t, 3, e.Row)
	}
}

func TestValidateRowRequiredFields(t *testing.T) {
	v := NewValidator(nil)
	row := validRow("INV-001")
	row.ContactName = "   "
	res := v.ValidateRow(row, 1)

	require.Len(t, res.Errors, 1)
	assert.Equal(t, constants.ColContactName, res.Errors[0].Field)
}

func TestValidateHeadersExactMatch(t *testing.T) {
	v := NewValidator(nil)
	res := v.ValidateHeaders(constants.CanonicalColumns())
	assert.True(t, res.IsValid)
	assert.Empty(t, res.Errors)
}

func TestValidateHeadersMissingColumnSeven(t *testing.T) {
	headers := []string{
		"ContactName", "InvoiceNumber", "InvoiceDate", "DueDate",
		"Description", "Quantity", "AccountCode", "TaxType", "Reference",
	}
	v := NewValidator(nil)
	res := v.ValidateHeaders(headers)

	require.Len(t, res.Errors, 1, "exactly one error, not a cascade")
	assert.Contains(t, res.Errors[0].Message, "column 7")
	assert.Contains(t, res.Errors[0].Message, "UnitAmount")
}

func TestValidateHeadersTruncated(t *testing.T) {
	v := NewValidator(nil)
	res := v.ValidateHeaders(constants.CanonicalColumns()[:6])

	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0].Message, "column 7")
	assert.Contains(t, res.Errors[0].Message, "UnitAmount")
}

func TestValidateHeadersExtraColumn(t *testing.T) {
	v := NewValidator(nil)
	res := v.ValidateHeaders(append(constants.CanonicalColumns(), "Extra"))

	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0].Message, "Extra")
}

func TestValidateRowsHighLineCountWarning(t *testing.T) {
	var rows []entity.CanonicalRow
	for i := 0; i < 51; i++ {
		rows = append(rows, validRow("INV-9"))
	}
	v := NewValidator(nil)
	res := v.ValidateRows(rows)

	assert.Empty(t, res.Errors, "a high line count alone is never an error")
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, "INV-9", res.Warnings[0].InvoiceNumber)
	assert.Contains(t, res.Warnings[0].Message, "INV-9")
}

func TestValidateRowsAtThresholdNoWarning(t *testing.T) {
	var rows []entity.CanonicalRow
	for i := 0; i < 50; i++ {
		rows = append(rows, validRow("INV-9"))
	}
	v := NewValidator(nil)
	res := v.ValidateRows(rows)
	assert.Empty(t, res.Warnings)
}

func TestValidateBatchDuplicateInvoiceNumbersWarn(t *testing.T) {
	v := NewValidator(nil)
	a := validRecord()
	b := validRecord()
	b.SourceID = "doc-2"
	c := validRecord()
	c.InvoiceNumber = "INV-002"

	res := v.ValidateBatch([]*entity.InvoiceRecord{a, b, c})

	assert.True(t, res.IsValid)
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, "INV-001", res.Warnings[0].InvoiceNumber)
}
