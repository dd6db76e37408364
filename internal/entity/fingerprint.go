package entity

// Fingerprint identifies an invoice by its normalized content for duplicate
// grouping within one batch. The hash is a pure function of the normalized
// inputs: two records with identical contents always collide.
type Fingerprint struct {
	Hash          string
	InvoiceNumber string
	ContactName   string
	InvoiceDate   string
	TotalAmount   string // two-decimal string
	SourceID      string
}
