package adapter

import (
	"tratativas/internal/models"
	"tratativas/internal/table"
)

// LoadHistory extracts the set of normalized invoice ids from a prior
// worklist. The history file is optional and best-effort: a table without
// a recognizable invoice column yields an empty set rather than an error,
// so a malformed history never blocks a run.
func LoadHistory(t *table.Table) models.HistorySet {
	set := make(models.HistorySet)
	if t == nil {
		return set
	}
	invoiceCol, ok := t.Resolve(invoiceCandidates...)
	if !ok {
		return set
	}
	for _, row := range t.Rows {
		set.Add(table.NormalizeInvoiceID(row[invoiceCol]))
	}
	return set
}
