package adapter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tratativas/internal/models"
	"tratativas/internal/table"
	"tratativas/internal/vocab"
)

func ordersTable(headers []string, records [][]string) *table.Table {
	return table.New(headers, records)
}

func TestAdaptOrders(t *testing.T) {
	tab := ordersTable(
		[]string{"Empresa", "Nota Fiscal", "Chave NFe", "Pedido Marketplace"},
		[][]string{
			{"16", "200.0", "31250112345.0", "PED-9"},
			{"99", "300", "key-ignored", "other-operation"},
			{"18", "400", "nan", "nan"},
		},
	)

	records, err := AdaptOrders(tab, vocab.Default())
	require.NoError(t, err)
	require.Len(t, records, 2, "company filter keeps only accepted codes")

	assert.Equal(t, models.OrderRecord{
		InvoiceID:      "200",
		OrderReference: "PED-9",
		DocumentKey:    "31250112345",
	}, records[0])

	assert.Equal(t, models.OrderRecord{
		InvoiceID:      "400",
		OrderReference: models.NotAvailable,
		DocumentKey:    models.NotAvailable,
	}, records[1], "nan cells fall back to the sentinel")
}

func TestAdaptOrdersPicksCompanyColumnByContent(t *testing.T) {
	// The first Empresa-looking column holds names; the duplicate-header
	// variant holds the codes. Content, not position, decides.
	tab := ordersTable(
		[]string{"Empresa", "Empresa.1", "Nota Fiscal"},
		[][]string{
			{"WAP Eletro", "16", "100"},
			{"WAP Eletro", "21.0", "101"},
			{"Other", "99", "102"},
		},
	)

	records, err := AdaptOrders(tab, vocab.Default())
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "100", records[0].InvoiceID)
	assert.Equal(t, "101", records[1].InvoiceID, "16.0-style numeric coercion accepts whole floats")
}

func TestAdaptOrdersMissingCompanyColumn(t *testing.T) {
	tab := ordersTable(
		[]string{"Filial", "Nota Fiscal"},
		[][]string{{"16", "100"}},
	)
	_, err := AdaptOrders(tab, vocab.Default())
	assert.ErrorIs(t, err, ErrMissingCompanyColumn)
}

func TestAdaptOrdersCompanyColumnWithoutAcceptedCodes(t *testing.T) {
	tab := ordersTable(
		[]string{"Empresa", "Nota Fiscal"},
		[][]string{{"99", "100"}, {"not a number", "101"}},
	)
	_, err := AdaptOrders(tab, vocab.Default())
	assert.ErrorIs(t, err, ErrMissingCompanyColumn)
}

func TestAdaptOrdersMissingInvoiceColumn(t *testing.T) {
	tab := ordersTable(
		[]string{"Empresa", "Chave NFe"},
		[][]string{{"16", "key"}},
	)
	_, err := AdaptOrders(tab, vocab.Default())
	assert.ErrorIs(t, err, ErrMissingInvoiceColumn)
}

func TestAdaptOrdersOrderReferenceFallbacks(t *testing.T) {
	t.Run("tokenized marketplace header", func(t *testing.T) {
		tab := ordersTable(
			[]string{"Empresa", "Nota Fiscal", "Nº PEDIDO MARKETPLACE"},
			[][]string{{"19", "100", "MKP-1"}},
		)
		records, err := AdaptOrders(tab, vocab.Default())
		require.NoError(t, err)
		assert.Equal(t, "MKP-1", records[0].OrderReference)
	})

	t.Run("generic order header", func(t *testing.T) {
		tab := ordersTable(
			[]string{"Empresa", "Nota Fiscal", "Pedido"},
			[][]string{{"19", "100", "PED-2"}},
		)
		records, err := AdaptOrders(tab, vocab.Default())
		require.NoError(t, err)
		assert.Equal(t, "PED-2", records[0].OrderReference)
	})

	t.Run("no order column at all", func(t *testing.T) {
		tab := ordersTable(
			[]string{"Empresa", "Nota Fiscal"},
			[][]string{{"19", "100"}},
		)
		records, err := AdaptOrders(tab, vocab.Default())
		require.NoError(t, err)
		assert.Equal(t, models.NotAvailable, records[0].OrderReference)
	})
}
