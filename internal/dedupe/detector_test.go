package dedupe

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerline/invoice-importer/internal/entity"
)

func record(num, contact, date, sourceID string) *entity.InvoiceRecord {
	return &entity.InvoiceRecord{
		InvoiceNumber: num,
		ContactName:   contact,
		InvoiceDate:   date,
		SourceID:      sourceID,
		LineItems: []entity.LineItem{{
			Description: "thing",
			Quantity:    decimal.NewFromInt(2),
			UnitAmount:  decimal.RequireFromString("50.00"),
		}},
	}
}

func TestFingerprintNormalization(t *testing.T) {
	a := record("INV-001", "ABC Pty Ltd", "15/03/2024", "doc-a")
	b := record("  inv-001 ", "abc pty ltd  ", "15/03/2024", "doc-b")

	fpA := Fingerprint(a)
	fpB := Fingerprint(b)

	assert.Equal(t, fpA.Hash, fpB.Hash, "case and whitespace must not change the fingerprint")
	assert.Equal(t, "100.00", fpA.TotalAmount)
	assert.NotEqual(t, fpA.SourceID, fpB.SourceID)
}

func TestFingerprintSensitivity(t *testing.T) {
	base := Fingerprint(record("INV-001", "ABC", "15/03/2024", "doc"))

	assert.NotEqual(t, base.Hash, Fingerprint(record("INV-002", "ABC", "15/03/2024", "doc")).Hash)
	assert.NotEqual(t, base.Hash, Fingerprint(record("INV-001", "XYZ", "15/03/2024", "doc")).Hash)
	assert.NotEqual(t, base.Hash, Fingerprint(record("INV-001", "ABC", "16/03/2024", "doc")).Hash)

	other := record("INV-001", "ABC", "15/03/2024", "doc")
	other.LineItems[0].UnitAmount = decimal.RequireFromString("50.01")
	assert.NotEqual(t, base.Hash, Fingerprint(other).Hash)
}

func TestDetectGroupsDuplicates(t *testing.T) {
	d := NewDetector(nil)
	records := []*entity.InvoiceRecord{
		record("INV-001", "ABC", "15/03/2024", "doc-a"),
		record("INV-002", "ABC", "16/03/2024", "doc-b"),
		record("INV-001", "ABC", "15/03/2024", "doc-c"),
	}
	res := d.Detect(records)

	assert.True(t, res.HasDuplicates)
	assert.Equal(t, 1, res.TotalDuplicateCount)
	assert.Equal(t, 2, res.UniqueCount)
	require.Len(t, res.Groups, 1)
	assert.Len(t, res.Groups[0].Entries, 2)
	assert.Equal(t, "INV-001", res.Groups[0].Entries[0].InvoiceNumber)
}

func TestDetectNoDuplicates(t *testing.T) {
	d := NewDetector(nil)
	res := d.Detect([]*entity.InvoiceRecord{
		record("INV-001", "ABC", "15/03/2024", "doc-a"),
		record("INV-002", "ABC", "15/03/2024", "doc-b"),
	})

	assert.False(t, res.HasDuplicates)
	assert.Empty(t, res.Groups)
	assert.Equal(t, 2, res.UniqueCount)
}

func TestIsDuplicateRequiresDifferentSource(t *testing.T) {
	d := NewDetector(nil)
	first := record("INV-001", "ABC", "15/03/2024", "doc-a")
	d.Track(first)

	// re-processing the same source document is not a duplicate
	assert.False(t, d.IsDuplicate(record("INV-001", "ABC", "15/03/2024", "doc-a")))
	// the same content from another source is
	assert.True(t, d.IsDuplicate(record("INV-001", "ABC", "15/03/2024", "doc-b")))
}

func TestRemoveDuplicatesKeepsFirstSeenInOrder(t *testing.T) {
	d := NewDetector(nil)
	a := record("INV-001", "ABC", "15/03/2024", "doc-a")
	b := record("INV-002", "ABC", "16/03/2024", "doc-b")
	dup := record("INV-001", "ABC", "15/03/2024", "doc-c")
	c := record("INV-003", "ABC", "17/03/2024", "doc-d")

	kept := d.RemoveDuplicates([]*entity.InvoiceRecord{a, b, dup, c})

	require.Len(t, kept, 3)
	assert.Same(t, a, kept[0])
	assert.Same(t, b, kept[1])
	assert.Same(t, c, kept[2])
}

func TestResetClearsTrackedState(t *testing.T) {
	d := NewDetector(nil)
	d.Track(record("INV-001", "ABC", "15/03/2024", "doc-a"))
	require.True(t, d.IsDuplicate(record("INV-001", "ABC", "15/03/2024", "doc-b")))

	d.Reset()
	assert.False(t, d.IsDuplicate(record("INV-001", "ABC", "15/03/2024", "doc-b")),
		"state must not leak across batch runs")
}
