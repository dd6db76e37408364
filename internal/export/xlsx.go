package export

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/ledgerline/invoice-importer/constants"
	"github.com/ledgerline/invoice-importer/internal/entity"
)

// ToXLSX returns an XLSX workbook (as bytes) holding the canonical rows,
// for users who import through a spreadsheet instead of CSV.
func (f *Formatter) ToXLSX(rows []entity.CanonicalRow) ([]byte, error) {
	start := time.Now()

	wb := excelize.NewFile()
	const sheet = "Invoices"
	if index, _ := wb.GetSheetIndex(sheet); index == -1 {
		if _, err := wb.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := wb.GetSheetIndex(sheet)
	wb.SetActiveSheet(activeIndex)

	for i, h := range constants.CanonicalColumns() {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = wb.SetCellValue(sheet, cell, h)
	}

	for r, row := range rows {
		for c, v := range row.Values() {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			_ = wb.SetCellValue(sheet, cell, v)
		}
	}

	// Widen a few columns
	_ = wb.SetColWidth(sheet, "A", "A", 28) // contact
	_ = wb.SetColWidth(sheet, "B", "B", 16) // invoice number
	_ = wb.SetColWidth(sheet, "C", "D", 12) // dates
	_ = wb.SetColWidth(sheet, "E", "E", 48) // description
	_ = wb.SetColWidth(sheet, "F", "G", 12) // quantity, unit amount
	_ = wb.SetColWidth(sheet, "I", "I", 18) // tax type

	buf, err := wb.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	f.logger.Info("export.xlsx.ok",
		"rows", len(rows),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}
