package table

import "strings"

// Row maps a source header to the raw cell text for one spreadsheet row.
// Cells that were empty in the source are either absent or "".
type Row map[string]string

// Table is an ordered sequence of rows read from one spreadsheet, keyed by
// the headers exactly as they appeared in the source. There is no fixed
// schema: exports rename and reorder columns between revisions, so callers
// locate columns through Resolve instead of by position.
type Table struct {
	Headers []string
	Rows    []Row
}

// New builds a table from a header row and data rows. Data rows shorter
// than the header are padded with empty cells; longer rows are truncated.
func New(headers []string, records [][]string) *Table {
	t := &Table{Headers: headers}
	for _, rec := range records {
		row := make(Row, len(headers))
		for i, h := range headers {
			if i < len(rec) {
				row[h] = rec[i]
			} else {
				row[h] = ""
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// Resolve finds the actual header for a ranked list of candidate names.
//
// Pass 1 is an exact match in candidate order. Pass 2 retries with case and
// whitespace (surrounding and internal) normalized, still candidate-major so
// a higher-ranked candidate beats a lower-ranked exact spelling. Returns
// ok=false when nothing matches; callers decide whether that is fatal.
func (t *Table) Resolve(candidates ...string) (string, bool) {
	for _, cand := range candidates {
		for _, h := range t.Headers {
			if h == cand {
				return h, true
			}
		}
	}
	for _, cand := range candidates {
		want := foldHeader(cand)
		for _, h := range t.Headers {
			if foldHeader(h) == want {
				return h, true
			}
		}
	}
	return "", false
}

// HeadersContaining returns, in header order, every header whose folded
// form contains the folded token. Used for the "any column that looks like
// Empresa" style scans.
func (t *Table) HeadersContaining(token string) []string {
	want := foldHeader(token)
	var out []string
	for _, h := range t.Headers {
		if strings.Contains(foldHeader(h), want) {
			out = append(out, h)
		}
	}
	return out
}

// foldHeader upper-cases a header and collapses all whitespace, so
// "Nota  Fiscal " and "NOTA FISCAL" compare equal.
func foldHeader(s string) string {
	return strings.ToUpper(strings.Join(strings.Fields(s), " "))
}
