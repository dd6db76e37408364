package export

import (
	"encoding/csv"
	"log/slog"
	"strings"
	"unicode"

	"github.com/ledgerline/invoice-importer/constants"
	"github.com/ledgerline/invoice-importer/internal/entity"
)

// Formatter maps validated records into canonical import rows and renders
// them as CSV or XLSX. Rows are recomputed on every pass, never cached.
type Formatter struct {
	logger *slog.Logger
}

func NewFormatter(logger *slog.Logger) *Formatter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Formatter{logger: logger}
}

// ToRows expands each record into one row per line item, repeating the
// invoice-level fields. Defaults are applied where a value is absent:
// Quantity=1, AccountCode=200, TaxType="GST on Income".
func (f *Formatter) ToRows(records []*entity.InvoiceRecord) []entity.CanonicalRow {
	var rows []entity.CanonicalRow
	for _, rec := range records {
		base := entity.CanonicalRow{
			ContactName:   Sanitize(rec.ContactName),
			InvoiceNumber: Sanitize(rec.InvoiceNumber),
			InvoiceDate:   rec.InvoiceDate,
			DueDate:       rec.DueDate,
			Reference:     Sanitize(rec.Reference),
		}
		for _, item := range rec.LineItems {
			row := base
			row.Description = Sanitize(item.Description)
			if item.Quantity.IsZero() {
				row.Quantity = constants.DefaultQuantity
			} else {
				row.Quantity = item.Quantity.String()
			}
			row.UnitAmount = item.UnitAmount.StringFixed(2)
			row.AccountCode = item.AccountCode
			if row.AccountCode == "" {
				row.AccountCode = constants.DefaultAccountCode
			}
			row.TaxType = item.TaxType
			if row.TaxType == "" {
				row.TaxType = constants.DefaultTaxType
			}
			rows = append(rows, row)
		}
	}
	return rows
}

// Sanitize prepares a text value for spreadsheet import: whitespace is
// collapsed and trimmed, control characters stripped, and any value whose
// first character could start a formula (=, +, -, @) is prefixed with a
// single quote. Idempotent: a prefixed value starts with ' and is never
// prefixed again.
func Sanitize(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsControl(r) {
			b.WriteRune(' ')
			continue
		}
		b.WriteRune(r)
	}
	collapsed := strings.Join(strings.Fields(b.String()), " ")
	if collapsed == "" {
		return ""
	}
	switch collapsed[0] {
	case '=', '+', '-', '@':
		return "'" + collapsed
	}
	return collapsed
}

// ToCSVText renders rows as a CSV blob: UTF-8 with a leading byte-order
// marker (spreadsheet compatibility), a canonical header row, and fields
// quoted with doubled internal quotes whenever they contain a comma, quote,
// or newline.
func (f *Formatter) ToCSVText(rows []entity.CanonicalRow) (string, error) {
	var sb strings.Builder
	sb.WriteString("\uFEFF")

	w := csv.NewWriter(&sb)
	if err := w.Write(constants.CanonicalColumns()); err != nil {
		return "", err
	}
	for _, row := range rows {
		if err := w.Write(row.Values()); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}

	f.logger.Info("export.csv.ok", "rows", len(rows), "bytes", sb.Len())
	return sb.String(), nil
}
