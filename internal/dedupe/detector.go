package dedupe

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ledgerline/invoice-importer/internal/amounts"
	"github.com/ledgerline/invoice-importer/internal/entity"
)

// Detector groups identical invoice fingerprints within one batch run. Its
// state is owned by exactly one batch invocation: callers Reset (or build a
// fresh detector) at the start of each run, so fingerprints never leak
// across independent runs.
type Detector struct {
	seen   map[string][]entity.Fingerprint
	logger *slog.Logger
}

func NewDetector(logger *slog.Logger) *Detector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Detector{
		seen:   make(map[string][]entity.Fingerprint),
		logger: logger,
	}
}

// Group is one set of records sharing a fingerprint.
type Group struct {
	Hash    string
	Entries []entity.Fingerprint
}

// DetectionResult summarizes duplicate grouping across a batch.
type DetectionResult struct {
	HasDuplicates       bool
	Groups              []Group
	TotalDuplicateCount int
	UniqueCount         int
}

// Fingerprint derives the batch-scoped identity of a record. The hash is a
// pure function of the normalized inputs (case-folded, trimmed identifiers
// plus the two-decimal calculated total), so two records with identical
// contents always collide regardless of source document.
func Fingerprint(rec *entity.InvoiceRecord) entity.Fingerprint {
	total := recordTotal(rec)
	key := strings.Join([]string{
		normalize(rec.InvoiceNumber),
		normalize(rec.ContactName),
		rec.InvoiceDate,
		total,
	}, "|")
	sum := sha256.Sum256([]byte(key))
	return entity.Fingerprint{
		Hash:          hex.EncodeToString(sum[:]),
		InvoiceNumber: rec.InvoiceNumber,
		ContactName:   rec.ContactName,
		InvoiceDate:   rec.InvoiceDate,
		TotalAmount:   total,
		SourceID:      rec.SourceID,
	}
}

// Detect groups the batch by fingerprint. A group of size 1 is not a
// duplicate.
func (d *Detector) Detect(records []*entity.InvoiceRecord) DetectionResult {
	byHash := make(map[string][]entity.Fingerprint, len(records))
	var order []string
	for _, rec := range records {
		fp := Fingerprint(rec)
		if _, ok := byHash[fp.Hash]; !ok {
			order = append(order, fp.Hash)
		}
		byHash[fp.Hash] = append(byHash[fp.Hash], fp)
		d.track(fp)
	}

	res := DetectionResult{UniqueCount: len(byHash)}
	for _, hash := range order {
		entries := byHash[hash]
		if len(entries) < 2 {
			continue
		}
		res.HasDuplicates = true
		res.TotalDuplicateCount += len(entries) - 1
		res.Groups = append(res.Groups, Group{Hash: hash, Entries: entries})
	}

	if res.HasDuplicates {
		d.logger.Info("dedupe.found",
			"groups", len(res.Groups),
			"duplicates", res.TotalDuplicateCount,
			"unique", res.UniqueCount,
		)
	}
	return res
}

// IsDuplicate reports whether a record's fingerprint was already tracked by
// an entry from a different source document. Re-processing the same source
// is not itself a duplicate.
func (d *Detector) IsDuplicate(rec *entity.InvoiceRecord) bool {
	fp := Fingerprint(rec)
	for _, prev := range d.seen[fp.Hash] {
		if prev.SourceID != rec.SourceID {
			return true
		}
	}
	return false
}

// Track registers a record's fingerprint for later IsDuplicate checks.
func (d *Detector) Track(rec *entity.InvoiceRecord) entity.Fingerprint {
	fp := Fingerprint(rec)
	d.track(fp)
	return fp
}

// RemoveDuplicates keeps the first-seen record per fingerprint, preserving
// input order.
func (d *Detector) RemoveDuplicates(records []*entity.InvoiceRecord) []*entity.InvoiceRecord {
	kept := make([]*entity.InvoiceRecord, 0, len(records))
	seen := make(map[string]struct{}, len(records))
	for _, rec := range records {
		fp := Fingerprint(rec)
		if _, dup := seen[fp.Hash]; dup {
			continue
		}
		seen[fp.Hash] = struct{}{}
		kept = append(kept, rec)
	}
	return kept
}

// Reset discards all tracked fingerprints. Called at the start of each batch
// run.
func (d *Detector) Reset() {
	d.seen = make(map[string][]entity.Fingerprint)
}

func (d *Detector) track(fp entity.Fingerprint) {
	d.seen[fp.Hash] = append(d.seen[fp.Hash], fp)
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// recordTotal is the two-decimal calculated total of the record's line
// items, computed with the same fixed-point rules as the verifier.
func recordTotal(rec *entity.InvoiceRecord) string {
	total := decimal.Zero
	for _, item := range rec.LineItems {
		total = total.Add(amounts.LineTotal(item.Quantity, item.UnitAmount))
	}
	return amounts.FormatAmount(total)
}
