// Package report renders a run's result as the downloadable workbook.
package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"tratativas/internal/models"
)

// Sheet names of the exported workbook.
const (
	NewSheet        = "Tratativas (Novas)"
	HistoricalSheet = "Removidas (No Histórico)"
)

// columns is the fixed eight-column projection, in export order.
var columns = []string{
	"Transportadora",
	"Chave NF",
	"Nota Fiscal",
	"UF",
	"Data Tratativa",
	"Marketplace",
	"Pedido",
	"Ocorrência de Entrega",
}

// Options control the workbook layout.
type Options struct {
	// HistoricalSheet adds a second sheet with the rows excluded by the
	// history filter. Whether the team wants those exported is a product
	// choice, so it stays configurable.
	HistoricalSheet bool
}

// Write renders the workbook to w. The workbook is assembled fully in
// memory before a single byte reaches w, so a failed run never produces
// partial output.
func Write(w io.Writer, res *models.Result, opts Options) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", NewSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := writeSheet(f, NewSheet, res.New); err != nil {
		return err
	}

	if opts.HistoricalSheet {
		if _, err := f.NewSheet(HistoricalSheet); err != nil {
			return fmt.Errorf("add sheet %s: %w", HistoricalSheet, err)
		}
		if err := writeSheet(f, HistoricalSheet, res.Historical); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, records []models.ReconciledRecord) error {
	header := make([]interface{}, len(columns))
	for i, c := range columns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write header on %s: %w", sheet, err)
	}

	for i, r := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("row address: %w", err)
		}
		row := []interface{}{
			r.Carrier,
			r.DocumentKey,
			r.InvoiceID,
			r.Region,
			r.ProcessedDate,
			r.Marketplace,
			r.OrderReference,
			r.DeliveryStatus,
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d on %s: %w", i+2, sheet, err)
		}
	}
	return nil
}
