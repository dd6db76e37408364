package entity

import "github.com/ledgerline/invoice-importer/constants"

// CanonicalRow is one import row in the fixed ten-column schema. The column
// set never gains, loses, or renames members; rows are recomputed on every
// formatting pass rather than cached.
type CanonicalRow struct {
	ContactName   string
	InvoiceNumber string
	InvoiceDate   string
	DueDate       string
	Description   string
	Quantity      string
	UnitAmount    string
	AccountCode   string
	TaxType       string
	Reference     string
}

// Values returns the column values in canonical order.
func (r CanonicalRow) Values() []string {
	return []string{
		r.ContactName,
		r.InvoiceNumber,
		r.InvoiceDate,
		r.DueDate,
		r.Description,
		r.Quantity,
		r.UnitAmount,
		r.AccountCode,
		r.TaxType,
		r.Reference,
	}
}

// Get returns the value for a canonical column name.
func (r CanonicalRow) Get(column string) string {
	switch column {
	case constants.ColContactName:
		return r.ContactName
	case constants.ColInvoiceNumber:
		return r.InvoiceNumber
	case constants.ColInvoiceDate:
		return r.InvoiceDate
	case constants.ColDueDate:
		return r.DueDate
	case constants.ColDescription:
		return r.Description
	case constants.ColQuantity:
		return r.Quantity
	case constants.ColUnitAmount:
		return r.UnitAmount
	case constants.ColAccountCode:
		return r.AccountCode
	case constants.ColTaxType:
		return r.TaxType
	case constants.ColReference:
		return r.Reference
	}
	return ""
}
