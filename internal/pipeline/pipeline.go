// Package pipeline is the run orchestrator: it loads the uploaded tables,
// runs the adapters and the reconciliation engine, and is the single place
// that turns typed failures into user-facing messages.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"tratativas/internal/adapter"
	"tratativas/internal/loader"
	"tratativas/internal/logger"
	"tratativas/internal/models"
	"tratativas/internal/reconcile"
	"tratativas/internal/vocab"
)

// Source is one uploaded input: the original filename (the loader
// dispatches on its extension) and its content.
type Source struct {
	Name   string
	Reader io.Reader
}

// Input is everything one run consumes. History is optional; Vocabulary
// and RunDate must be set by the caller so a run is fully determined by
// its input.
type Input struct {
	Transactions Source
	Orders       Source
	History      *Source
	Vocabulary   *vocab.Vocabulary
	RunDate      time.Time
}

// Run executes one reconciliation batch to completion. It either returns
// a full result or an error; there is no partial output.
func Run(ctx context.Context, in Input) (*models.Result, error) {
	l := logger.FromContext(ctx)
	start := time.Now()

	txnTable, err := loader.Load(in.Transactions.Reader, in.Transactions.Name)
	if err != nil {
		return nil, fmt.Errorf("transactions %s: %w", in.Transactions.Name, err)
	}
	orderTable, err := loader.Load(in.Orders.Reader, in.Orders.Name)
	if err != nil {
		return nil, fmt.Errorf("order records %s: %w", in.Orders.Name, err)
	}

	// History is best-effort: a history that cannot be read just means
	// nothing gets excluded, exactly as if it had not been uploaded.
	history := make(models.HistorySet)
	if in.History != nil {
		historyTable, err := loader.Load(in.History.Reader, in.History.Name)
		if err != nil {
			l.Warn("history_unreadable", "file", in.History.Name, "error", err.Error())
		} else {
			history = adapter.LoadHistory(historyTable)
		}
	}

	txns, err := adapter.AdaptTransactions(txnTable)
	if err != nil {
		return nil, fmt.Errorf("transactions %s: %w", in.Transactions.Name, err)
	}
	orders, err := adapter.AdaptOrders(orderTable, in.Vocabulary)
	if err != nil {
		return nil, fmt.Errorf("order records %s: %w", in.Orders.Name, err)
	}

	res := reconcile.New(in.Vocabulary).Reconcile(txns, orders, history, in.RunDate)

	l.Info("run_completed",
		"transactions", len(txns),
		"orders", len(orders),
		"history", len(history),
		"total", res.Summary.Total,
		"excluded", res.Summary.Excluded,
		"new", res.Summary.New,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return res, nil
}

// UserMessage translates a run failure into the message shown to the
// operator. Anything outside the known taxonomy gets a generic message;
// the full error stays in the logs.
func UserMessage(err error) string {
	switch {
	case errors.Is(err, loader.ErrUnreadableFile):
		return "The file could not be read. Export it again as .xlsx or .csv and retry."
	case errors.Is(err, adapter.ErrMissingCompanyColumn):
		return "No column with the accepted company codes (16, 18, 19, 21) was found in the order-records file."
	case errors.Is(err, adapter.ErrMissingInvoiceColumn):
		return "The invoice number column (Nota Fiscal / NF) was not found."
	case errors.Is(err, adapter.ErrEmptyAfterFilter):
		return "The company-code filter removed every order record. Check that the right file was uploaded."
	default:
		return "Processing failed unexpectedly. Check the logs for details."
	}
}
