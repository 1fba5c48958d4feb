package table

import "strings"

// NormalizeInvoiceID canonicalizes a raw invoice-number cell into the join
// key used on both sides of the merge. It is pure and idempotent: feeding
// its own output back in returns the same string.
//
// Handled artifacts, in order: surrounding whitespace, a literal "nan"
// left over from a null cell, a comma (locale decimal or multi-value
// cell) of which only the prefix is kept, and a trailing ".0" from
// numeric-to-text coercion of whole numbers. The comma cut runs first so
// a ".0" exposed by it is still stripped.
func NormalizeInvoiceID(v string) string {
	s := strings.TrimSpace(v)
	if s == "" || strings.EqualFold(s, "nan") {
		return ""
	}
	if i := strings.IndexByte(s, ','); i >= 0 {
		s = s[:i]
	}
	s = strings.TrimSuffix(s, ".0")
	return strings.TrimSpace(s)
}

// CleanText tidies a free-text cell the way the maintenance export needs:
// strips the ".0" coercion suffix, turns a literal "nan" into "", and
// trims whitespace. Unlike NormalizeInvoiceID it leaves commas alone.
func CleanText(v string) string {
	s := strings.TrimSpace(v)
	if strings.EqualFold(s, "nan") {
		return ""
	}
	s = strings.TrimSuffix(s, ".0")
	return strings.TrimSpace(s)
}
