// Package adapter maps each source's raw schema onto the canonical partial
// schema. Each source gets its own adapter; all of them locate columns
// through the shared resolver so matching rules cannot drift between
// sources.
package adapter

import "errors"

// Adapter failures are signaled as typed errors, never as silent wrong
// data. The run orchestrator decides the user-facing message.
var (
	// ErrMissingCompanyColumn means no column of the order-maintenance
	// export contained any of the accepted company codes.
	ErrMissingCompanyColumn = errors.New("no column with accepted company codes")

	// ErrMissingInvoiceColumn means the invoice-identifier column could
	// not be resolved.
	ErrMissingInvoiceColumn = errors.New("invoice column not found")

	// ErrEmptyAfterFilter means the company-code filter removed every row.
	ErrEmptyAfterFilter = errors.New("no rows left after company filter")
)

// invoiceCandidates is the ranked synonym list for the invoice column as
// it appears across maintenance and history export revisions.
var invoiceCandidates = []string{"Nota Fiscal", "NF", "Numero NF"}
