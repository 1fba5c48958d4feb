package models

// Sentinels written into the worklist instead of blank cells.
const (
	NotAvailable = "N/A"       // data the source simply did not have
	NeedsReview  = "VERIFICAR" // data a human must check by hand
)

// TransactionRecord is one carrier/delivery event after the Transactions
// adapter has mapped it onto the canonical partial schema. InvoiceID is
// already normalized; every other field is optional raw text.
type TransactionRecord struct {
	InvoiceID      string
	Carrier        string
	Marketplace    string
	DeliveryStatus string
	Region         string // UF pass-through, untouched by remaps
}

// OrderRecord is one order-maintenance row after the Order-Records adapter:
// the normalized invoice id plus the two fields the merge takes from the
// system of record. Missing values default to N/A at adaptation time.
type OrderRecord struct {
	InvoiceID      string
	OrderReference string
	DocumentKey    string
}

// ReconciledRecord is the post-merge row. All eight output fields are
// non-empty (sentinel-defaulted) and nothing mutates a record after the
// engine emits it.
type ReconciledRecord struct {
	Carrier        string
	DocumentKey    string
	InvoiceID      string
	Region         string
	ProcessedDate  string // dd/mm/yyyy, identical for every row of a run
	Marketplace    string
	OrderReference string
	DeliveryStatus string
}

// HistorySet holds the normalized invoice ids of a prior worklist. It is
// only ever used as a membership filter, never merged structurally.
type HistorySet map[string]struct{}

// Contains reports whether the id is in the prior worklist.
func (h HistorySet) Contains(invoiceID string) bool {
	_, ok := h[invoiceID]
	return ok
}

// Add records an id. Empty ids are kept out so a blank cell in the history
// file can never match the unmatched rows of a new run.
func (h HistorySet) Add(invoiceID string) {
	if invoiceID != "" {
		h[invoiceID] = struct{}{}
	}
}

// Summary is the three numbers surfaced to the collaborator UI.
// Total == Excluded + New holds for every run.
type Summary struct {
	Total    int
	Excluded int
	New      int
}

// Result is everything one run produces.
type Result struct {
	New        []ReconciledRecord
	Historical []ReconciledRecord
	Summary    Summary
}
