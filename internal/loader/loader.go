// Package loader reads an uploaded spreadsheet into a raw table. Delimited
// text is tried with the two encoding/delimiter conventions common in the
// source locale's exports; binary workbooks are self-describing and parsed
// directly.
package loader

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/shakinm/xlsReader/xls"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"tratativas/internal/table"
)

// ErrUnreadableFile means no strategy managed to parse the input. The run
// must abort without partial output.
var ErrUnreadableFile = errors.New("unreadable file")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Load reads one uploaded file into a table, dispatching on the file
// extension. The whole input is materialized in memory first: runs are
// bounded spreadsheet-sized batches, not streams.
func Load(r io.Reader, filename string) (*table.Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filename, err)
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv", ".txt":
		return loadDelimited(data)
	case ".xls":
		return loadLegacyWorkbook(data)
	default:
		return loadWorkbook(data)
	}
}

// loadDelimited tries, in order: UTF-8 with comma, Latin-1 with semicolon,
// Latin-1 with comma. First successful parse wins.
func loadDelimited(data []byte) (*table.Table, error) {
	strategies := []struct {
		name   string
		latin1 bool
		comma  rune
	}{
		{"utf8/comma", false, ','},
		{"latin1/semicolon", true, ';'},
		{"latin1/comma", true, ','},
	}

	var firstErr error
	for _, s := range strategies {
		text := bytes.TrimPrefix(data, utf8BOM)
		if s.latin1 {
			decoded, _, err := transform.Bytes(charmap.ISO8859_1.NewDecoder(), text)
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				continue
			}
			text = decoded
		} else if !utf8.Valid(text) {
			if firstErr == nil {
				firstErr = fmt.Errorf("%s: not valid UTF-8", s.name)
			}
			continue
		}

		t, err := parseDelimited(text, s.comma)
		if err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("%s: %w", s.name, err)
			}
			continue
		}
		return t, nil
	}

	return nil, fmt.Errorf("%w: %v", ErrUnreadableFile, firstErr)
}

func parseDelimited(text []byte, comma rune) (*table.Table, error) {
	reader := csv.NewReader(bytes.NewReader(text))
	reader.Comma = comma
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, errors.New("no header row")
	}

	// Go's csv never fails on a wrong delimiter, it just yields one fat
	// column. Detect that so the next strategy gets its turn, while still
	// allowing genuinely single-column files (a bare history list).
	if len(records[0]) == 1 && strings.ContainsRune(records[0][0], otherDelimiter(comma)) {
		return nil, fmt.Errorf("single column header containing %q, likely wrong delimiter", otherDelimiter(comma))
	}

	return table.New(records[0], records[1:]), nil
}

func otherDelimiter(comma rune) rune {
	if comma == ',' {
		return ';'
	}
	return ','
}

// loadWorkbook parses an xlsx workbook and reads its first sheet.
func loadWorkbook(data []byte) (*table.Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: open workbook: %v", ErrUnreadableFile, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrUnreadableFile)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: read sheet %s: %v", ErrUnreadableFile, sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: sheet %s has no header row", ErrUnreadableFile, sheets[0])
	}

	return table.New(rows[0], rows[1:]), nil
}

// loadLegacyWorkbook parses a pre-2007 xls file. The xls library only
// opens paths, so the bytes go through a transient temp file that is
// removed before returning.
func loadLegacyWorkbook(data []byte) (*table.Table, error) {
	tmp, err := os.CreateTemp("", "upload-*.xls")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("close temp file: %w", err)
	}

	workbook, err := xls.OpenFile(tmp.Name())
	if err != nil {
		return nil, fmt.Errorf("%w: open xls: %v", ErrUnreadableFile, err)
	}

	sheet, err := workbook.GetSheet(0)
	if err != nil || sheet == nil {
		return nil, fmt.Errorf("%w: xls has no readable sheet", ErrUnreadableFile)
	}

	var records [][]string
	for i := 0; i <= int(sheet.GetNumberRows()); i++ {
		row, err := sheet.GetRow(i)
		if err != nil || row == nil {
			continue
		}
		var rec []string
		for _, col := range row.GetCols() {
			if col != nil {
				rec = append(rec, col.GetString())
			} else {
				rec = append(rec, "")
			}
		}
		records = append(records, rec)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: xls sheet has no header row", ErrUnreadableFile)
	}

	return table.New(records[0], records[1:]), nil
}
