package adapter

import (
	"math"
	"strconv"
	"strings"

	"tratativas/internal/models"
	"tratativas/internal/table"
	"tratativas/internal/vocab"
)

var documentKeyCandidates = []string{"Chave NFe", "Chave NF", "Chave"}

// AdaptOrders maps the order-maintenance export onto canonical order
// records. Rows are gated on the accepted company codes before anything
// else: the export mixes several operations and only ours feed the merge.
func AdaptOrders(t *table.Table, v *vocab.Vocabulary) ([]models.OrderRecord, error) {
	companyCol, ok := findCompanyColumn(t, v)
	if !ok {
		return nil, ErrMissingCompanyColumn
	}

	var rows []table.Row
	for _, row := range t.Rows {
		if code, ok := companyCode(row[companyCol]); ok && v.AcceptsCompanyCode(code) {
			rows = append(rows, row)
		}
	}
	if len(rows) == 0 {
		return nil, ErrEmptyAfterFilter
	}

	invoiceCol, ok := t.Resolve(invoiceCandidates...)
	if !ok {
		return nil, ErrMissingInvoiceColumn
	}

	documentKeyCol, hasDocumentKey := t.Resolve(documentKeyCandidates...)
	orderRefCol, hasOrderRef := findOrderReferenceColumn(t)

	records := make([]models.OrderRecord, 0, len(rows))
	for _, row := range rows {
		rec := models.OrderRecord{
			InvoiceID:      table.NormalizeInvoiceID(row[invoiceCol]),
			OrderReference: models.NotAvailable,
			DocumentKey:    models.NotAvailable,
		}
		if hasDocumentKey {
			if s := table.CleanText(row[documentKeyCol]); s != "" {
				rec.DocumentKey = s
			}
		}
		if hasOrderRef {
			if s := table.CleanText(row[orderRefCol]); s != "" {
				rec.OrderReference = s
			}
		}
		records = append(records, rec)
	}
	return records, nil
}

// findCompanyColumn scans every header that looks like a company column
// and picks the first one where at least one cell numerically coerces into
// the accepted-code set. Export revisions duplicate the header ("Empresa",
// "Empresa.1"), so the name alone is not enough.
func findCompanyColumn(t *table.Table, v *vocab.Vocabulary) (string, bool) {
	for _, col := range t.HeadersContaining("EMPRESA") {
		for _, row := range t.Rows {
			if code, ok := companyCode(row[col]); ok && v.AcceptsCompanyCode(code) {
				return col, true
			}
		}
	}
	return "", false
}

// companyCode coerces a cell to a whole number. Non-numeric cells simply
// do not match; they are not an error.
func companyCode(cell string) (int, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
	if err != nil || f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}

// findOrderReferenceColumn prefers the exact marketplace-order header,
// then any header carrying both tokens, then the generic order column.
func findOrderReferenceColumn(t *table.Table) (string, bool) {
	for _, h := range t.Headers {
		if h == "Pedido Marketplace" {
			return h, true
		}
	}
	for _, h := range t.Headers {
		upper := strings.ToUpper(h)
		if strings.Contains(upper, "PEDIDO") && strings.Contains(upper, "MARKETPLACE") {
			return h, true
		}
	}
	return t.Resolve("Pedido")
}
