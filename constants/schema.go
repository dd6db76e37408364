package constants

// Canonical import schema for the accounting system. The column set and
// order are fixed; importers reject anything else.
const (
	ColContactName   = "ContactName"
	ColInvoiceNumber = "InvoiceNumber"
	ColInvoiceDate   = "InvoiceDate"
	ColDueDate       = "DueDate"
	ColDescription   = "Description"
	ColQuantity      = "Quantity"
	ColUnitAmount    = "UnitAmount"
	ColAccountCode   = "AccountCode"
	ColTaxType       = "TaxType"
	ColReference     = "Reference"
)

var canonicalColumns = []string{
	ColContactName,
	ColInvoiceNumber,
	ColInvoiceDate,
	ColDueDate,
	ColDescription,
	ColQuantity,
	ColUnitAmount,
	ColAccountCode,
	ColTaxType,
	ColReference,
}

var requiredColumns = []string{
	ColContactName,
	ColInvoiceNumber,
	ColInvoiceDate,
	ColDueDate,
}

// CanonicalColumns returns the ten column names in import order.
func CanonicalColumns() []string {
	out := make([]string, len(canonicalColumns))
	copy(out, canonicalColumns)
	return out
}

// RequiredColumns returns the columns that must be non-empty on every row.
func RequiredColumns() []string {
	out := make([]string, len(requiredColumns))
	copy(out, requiredColumns)
	return out
}

// Defaults applied by the formatter when a record does not carry a value.
const (
	DefaultQuantity    = "1"
	DefaultAccountCode = "200"
	DefaultTaxType     = "GST on Income"
)

// DateFormat is the import date layout (day/month/year).
const DateFormat = "02/01/2006"

const (
	MinYear = 1900
	MaxYear = 2100
)

// LowConfidenceThreshold marks records for manual review; it never blocks.
const LowConfidenceThreshold = 60

// MaxLinesPerInvoice is the row count above which a per-invoice line count
// is flagged for review.
const MaxLinesPerInvoice = 50
