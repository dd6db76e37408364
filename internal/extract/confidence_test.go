package extract

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/ledgerline/invoice-importer/constants"
	"github.com/ledgerline/invoice-importer/internal/entity"
)

func recordWith(confidences map[string]int, items int) *entity.InvoiceRecord {
	rec := &entity.InvoiceRecord{Fields: make(map[string]entity.ExtractedField)}
	for col, conf := range confidences {
		rec.Fields[col] = entity.ExtractedField{Confidence: conf}
	}
	for i := 0; i < items; i++ {
		rec.LineItems = append(rec.LineItems, entity.LineItem{
			Description: "item",
			Quantity:    decimal.NewFromInt(1),
			UnitAmount:  decimal.NewFromInt(10),
		})
	}
	return rec
}

func TestAggregateConfidenceWeights(t *testing.T) {
	tests := []struct {
		name        string
		confidences map[string]int
		items       int
		want        int
	}{
		{
			name: "all fields perfect with items",
			confidences: map[string]int{
				constants.ColInvoiceNumber: 100,
				constants.ColInvoiceDate:   100,
				constants.ColDueDate:       100,
				constants.ColContactName:   100,
			},
			items: 1,
			// 0.85*100 + 0.15*90
			want: 99,
		},
		{
			name:        "nothing extracted",
			confidences: map[string]int{},
			items:       0,
			want:        0,
		},
		{
			name: "items alone contribute a flat 90 at weight 0.15",
			confidences: map[string]int{},
			items:       3,
			want:        14, // round(0.15*90)
		},
		{
			name: "typical labeled extraction",
			confidences: map[string]int{
				constants.ColInvoiceNumber: 95,
				constants.ColInvoiceDate:   90,
				constants.ColDueDate:       90,
				constants.ColContactName:   90,
			},
			items: 1,
			// 23.75 + 18 + 13.5 + 22.5 + 13.5 = 91.25
			want: 91,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := recordWith(tt.confidences, tt.items)
			assert.Equal(t, tt.want, AggregateConfidence(rec))
		})
	}
}

func TestAggregateConfidenceIsPure(t *testing.T) {
	rec := recordWith(map[string]int{constants.ColInvoiceNumber: 80}, 1)
	first := AggregateConfidence(rec)
	second := AggregateConfidence(rec)
	assert.Equal(t, first, second)
	assert.Len(t, rec.Warnings, 0, "aggregation must not mutate the record")
}
