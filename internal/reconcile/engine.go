// Package reconcile joins the two adapted feeds into the final worklist:
// left outer join on the normalized invoice id, vocabulary remaps, the run
// date stamp, and the history partition.
package reconcile

import (
	"time"

	"tratativas/internal/models"
	"tratativas/internal/vocab"
)

// Engine holds the read-only vocabularies for one deployment. It is
// stateless across runs; Reconcile is a single pass with no retry state.
type Engine struct {
	vocab *vocab.Vocabulary
}

// New creates an engine over the given vocabularies.
func New(v *vocab.Vocabulary) *Engine {
	return &Engine{vocab: v}
}

// Reconcile left-joins the transactions onto the order records, applies
// the remaps, stamps every row with the run date and partitions the result
// by history membership. Every transaction lands in exactly one of
// new/historical, so Total == Excluded + New by construction.
func (e *Engine) Reconcile(txns []models.TransactionRecord, orders []models.OrderRecord, history models.HistorySet, runDate time.Time) *models.Result {
	// Last occurrence wins when the maintenance export repeats an invoice:
	// deterministic, and matches a single sequential pass over the source.
	ordersByID := make(map[string]models.OrderRecord, len(orders))
	for _, o := range orders {
		ordersByID[o.InvoiceID] = o
	}

	stamp := runDate.Format("02/01/2006")

	res := &models.Result{}
	for _, txn := range txns {
		rec := models.ReconciledRecord{
			Carrier:        defaultNA(e.vocab.CarrierFor(txn.Carrier)),
			DocumentKey:    models.NotAvailable,
			InvoiceID:      defaultNA(txn.InvoiceID),
			Region:         defaultNA(txn.Region),
			ProcessedDate:  stamp,
			Marketplace:    e.vocab.MarketplaceFor(txn.Marketplace),
			OrderReference: models.NotAvailable,
			DeliveryStatus: defaultNA(e.vocab.StatusFor(txn.DeliveryStatus)),
		}

		// The maintenance system is the system of record for these two
		// fields, so a matched order record always supplies them.
		if o, ok := ordersByID[txn.InvoiceID]; ok {
			rec.OrderReference = o.OrderReference
			rec.DocumentKey = o.DocumentKey
		}

		if history.Contains(txn.InvoiceID) {
			res.Historical = append(res.Historical, rec)
		} else {
			res.New = append(res.New, rec)
		}
	}

	res.Summary = models.Summary{
		Total:    len(res.New) + len(res.Historical),
		Excluded: len(res.Historical),
		New:      len(res.New),
	}
	return res
}

// defaultNA keeps the output schema complete: no blank cells, sentinels
// instead.
func defaultNA(s string) string {
	if s == "" {
		return models.NotAvailable
	}
	return s
}
