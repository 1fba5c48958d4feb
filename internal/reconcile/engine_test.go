package reconcile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tratativas/internal/adapter"
	"tratativas/internal/models"
	"tratativas/internal/table"
	"tratativas/internal/vocab"
)

var runDate = time.Date(2026, time.August, 30, 10, 0, 0, 0, time.UTC)

func TestReconcileJoinAndRemap(t *testing.T) {
	// End-to-end over adapted feeds: transaction "200" matches an order
	// record from an accepted company; the maintenance side supplies
	// order reference and document key.
	txns := []models.TransactionRecord{{
		InvoiceID:      "200",
		Carrier:        "JadLog",
		Marketplace:    "shopee",
		DeliveryStatus: "AVARIA",
		Region:         "MG",
	}}
	orders := []models.OrderRecord{{
		InvoiceID:      "200",
		OrderReference: "PED-9",
		DocumentKey:    "CHAVE-1",
	}}

	res := New(vocab.Default()).Reconcile(txns, orders, make(models.HistorySet), runDate)

	require.Len(t, res.New, 1)
	require.Empty(t, res.Historical)
	assert.Equal(t, models.ReconciledRecord{
		Carrier:        "JADLOG",
		DocumentKey:    "CHAVE-1",
		InvoiceID:      "200",
		Region:         "MG",
		ProcessedDate:  "30/08/2026",
		Marketplace:    "SHOPEE",
		OrderReference: "PED-9",
		DeliveryStatus: "AVARIA",
	}, res.New[0])
	assert.Equal(t, models.Summary{Total: 1, Excluded: 0, New: 1}, res.Summary)
}

func TestReconcileUnmatchedTransactionGetsSentinels(t *testing.T) {
	txns := []models.TransactionRecord{{InvoiceID: "999", Marketplace: "shopee"}}

	res := New(vocab.Default()).Reconcile(txns, nil, make(models.HistorySet), runDate)

	require.Len(t, res.New, 1)
	rec := res.New[0]
	assert.Equal(t, models.NotAvailable, rec.OrderReference)
	assert.Equal(t, models.NotAvailable, rec.DocumentKey)
	assert.Equal(t, models.NotAvailable, rec.Carrier)
	assert.Equal(t, models.NotAvailable, rec.Region)
	assert.Equal(t, models.NotAvailable, rec.DeliveryStatus)
}

func TestReconcileMarketplaceDefaulting(t *testing.T) {
	txns := []models.TransactionRecord{
		{InvoiceID: "1"},                              // missing channel
		{InvoiceID: "2", Marketplace: "Loja Própria"}, // unmapped channel
	}

	res := New(vocab.Default()).Reconcile(txns, nil, make(models.HistorySet), runDate)

	require.Len(t, res.New, 2)
	assert.Equal(t, models.NeedsReview, res.New[0].Marketplace)
	assert.Equal(t, "Loja Própria", res.New[1].Marketplace, "present-but-unmapped is preserved verbatim")
}

func TestReconcileHistoryPartition(t *testing.T) {
	txns := []models.TransactionRecord{
		{InvoiceID: "100"},
		{InvoiceID: "200"},
		{InvoiceID: "300"},
	}
	history := make(models.HistorySet)
	history.Add("200")

	res := New(vocab.Default()).Reconcile(txns, nil, history, runDate)

	// Partition completeness: every record in exactly one side.
	assert.Len(t, res.New, 2)
	assert.Len(t, res.Historical, 1)
	assert.Equal(t, "200", res.Historical[0].InvoiceID)
	assert.Equal(t, res.Summary.Total, res.Summary.Excluded+res.Summary.New)
	assert.Equal(t, models.Summary{Total: 3, Excluded: 1, New: 2}, res.Summary)
}

func TestReconcileDuplicateOrdersLastWins(t *testing.T) {
	txns := []models.TransactionRecord{{InvoiceID: "200"}}
	orders := []models.OrderRecord{
		{InvoiceID: "200", OrderReference: "FIRST", DocumentKey: "K1"},
		{InvoiceID: "200", OrderReference: "SECOND", DocumentKey: "K2"},
	}

	res := New(vocab.Default()).Reconcile(txns, orders, make(models.HistorySet), runDate)

	require.Len(t, res.New, 1)
	assert.Equal(t, "SECOND", res.New[0].OrderReference)
	assert.Equal(t, "K2", res.New[0].DocumentKey)
}

func TestReconcileSameStampForWholeRun(t *testing.T) {
	txns := []models.TransactionRecord{{InvoiceID: "1"}, {InvoiceID: "2"}, {InvoiceID: "3"}}
	res := New(vocab.Default()).Reconcile(txns, nil, make(models.HistorySet), runDate)
	for _, rec := range append(res.New, res.Historical...) {
		assert.Equal(t, "30/08/2026", rec.ProcessedDate)
	}
}

// Scenario A from the worklist playbook: the only transaction is a delay
// notice and the maintenance file has no accepted company code. The status
// filter drops the row before the merge, so the run yields zero new
// records no matter what the maintenance side did.
func TestScenarioDelayRowAndUnusableOrders(t *testing.T) {
	txnTable := table.New(
		[]string{"Nota Fiscal", "MicroStatus"},
		[][]string{{"55.0", "ATRASO ENTREGA"}},
	)
	txns, err := adapter.AdaptTransactions(txnTable)
	require.NoError(t, err)
	assert.Empty(t, txns, "the delay row is gone before the merge")

	orderTable := table.New(
		[]string{"Empresa", "Nota Fiscal"},
		[][]string{{"99", "55"}},
	)
	_, err = adapter.AdaptOrders(orderTable, vocab.Default())
	assert.ErrorIs(t, err, adapter.ErrMissingCompanyColumn)

	res := New(vocab.Default()).Reconcile(txns, nil, make(models.HistorySet), runDate)
	assert.Equal(t, 0, res.Summary.New)
	assert.Equal(t, 0, res.Summary.Total)
}

// Scenario B: a damaged-cargo transaction matches a maintained order
// record; history is empty, so the row is new.
func TestScenarioMatchedDamageRow(t *testing.T) {
	txnTable := table.New(
		[]string{"Nota Fiscal", "Canal de Vendas", "MicroStatus"},
		[][]string{{"200", "shopee", "AVARIA"}},
	)
	txns, err := adapter.AdaptTransactions(txnTable)
	require.NoError(t, err)

	orderTable := table.New(
		[]string{"Empresa", "Nota Fiscal", "Pedido Marketplace"},
		[][]string{{"16", "200", "PED-9"}},
	)
	orders, err := adapter.AdaptOrders(orderTable, vocab.Default())
	require.NoError(t, err)

	res := New(vocab.Default()).Reconcile(txns, orders, make(models.HistorySet), runDate)

	require.Len(t, res.New, 1)
	rec := res.New[0]
	assert.Equal(t, "SHOPEE", rec.Marketplace)
	assert.Equal(t, "AVARIA", rec.DeliveryStatus, "already-canonical status is unchanged")
	assert.Equal(t, "PED-9", rec.OrderReference)
	assert.Equal(t, models.Summary{Total: 1, Excluded: 0, New: 1}, res.Summary)
}

// Same as scenario B but the invoice is already in the prior worklist.
func TestScenarioHistoryExclusion(t *testing.T) {
	txns := []models.TransactionRecord{{InvoiceID: "200", Marketplace: "shopee", DeliveryStatus: "AVARIA"}}
	orders := []models.OrderRecord{{InvoiceID: "200", OrderReference: "PED-9", DocumentKey: "K"}}
	history := make(models.HistorySet)
	history.Add("200")

	res := New(vocab.Default()).Reconcile(txns, orders, history, runDate)

	assert.Equal(t, 0, res.Summary.New)
	assert.Equal(t, 1, res.Summary.Excluded)
	require.Len(t, res.Historical, 1)
	assert.Equal(t, "PED-9", res.Historical[0].OrderReference, "excluded rows are still fully reconciled")
}
