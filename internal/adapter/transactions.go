package adapter

import (
	"strings"

	"tratativas/internal/models"
	"tratativas/internal/table"
)

var (
	marketplaceCandidates = []string{"Canal de Vendas", "Marketplace"}
	statusCandidates      = []string{"MicroStatus", "Ocorrência de Entrega", "Status"}
	carrierCandidates     = []string{"Transportadora", "Transportador"}
	regionCandidates      = []string{"UF", "Estado"}

	// The carrier feed sometimes carries the fiscal number under the
	// customer-order header instead.
	transactionInvoiceCandidates = []string{"Nota Fiscal", "NF", "Pedido do Cliente"}
)

// AdaptTransactions maps the carrier/delivery-event export onto canonical
// transaction records. Delivery statuses are upper-cased, and rows whose
// status marks them as delay or informational noise are dropped here,
// before the merge ever sees them.
func AdaptTransactions(t *table.Table) ([]models.TransactionRecord, error) {
	invoiceCol, ok := t.Resolve(transactionInvoiceCandidates...)
	if !ok {
		return nil, ErrMissingInvoiceColumn
	}

	marketplaceCol, hasMarketplace := t.Resolve(marketplaceCandidates...)
	statusCol, hasStatus := t.Resolve(statusCandidates...)
	carrierCol, hasCarrier := t.Resolve(carrierCandidates...)
	regionCol, hasRegion := t.Resolve(regionCandidates...)

	var records []models.TransactionRecord
	for _, row := range t.Rows {
		rec := models.TransactionRecord{
			InvoiceID: table.NormalizeInvoiceID(row[invoiceCol]),
		}
		if hasStatus {
			rec.DeliveryStatus = strings.ToUpper(strings.TrimSpace(row[statusCol]))
			if strings.Contains(rec.DeliveryStatus, "ATRASO") ||
				strings.Contains(rec.DeliveryStatus, "INFORMATIVO") {
				continue
			}
		}
		if hasMarketplace {
			rec.Marketplace = row[marketplaceCol]
		}
		if hasCarrier {
			rec.Carrier = row[carrierCol]
		}
		if hasRegion {
			rec.Region = row[regionCol]
		}
		records = append(records, rec)
	}
	return records, nil
}
