package extract

import (
	"math"

	"github.com/ledgerline/invoice-importer/constants"
	"github.com/ledgerline/invoice-importer/internal/entity"
)

// Fixed field weights for the overall record confidence. Line-item presence
// contributes a flat 90 when any item exists.
const (
	weightInvoiceNumber = 0.25
	weightInvoiceDate   = 0.20
	weightDueDate       = 0.15
	weightContactName   = 0.25
	weightLineItems     = 0.15

	lineItemPresenceScore = 90
)

// AggregateConfidence combines per-field confidences into one 0..100 record
// score using the fixed weights. Pure; no side effects.
func AggregateConfidence(rec *entity.InvoiceRecord) int {
	fieldConf := func(column string) float64 {
		return float64(rec.Fields[column].Confidence)
	}

	itemScore := 0.0
	if rec.HasLineItems() {
		itemScore = lineItemPresenceScore
	}

	score := weightInvoiceNumber*fieldConf(constants.ColInvoiceNumber) +
		weightInvoiceDate*fieldConf(constants.ColInvoiceDate) +
		weightDueDate*fieldConf(constants.ColDueDate) +
		weightContactName*fieldConf(constants.ColContactName) +
		weightLineItems*itemScore

	return int(math.Round(score))
}
