// Package normalize turns raw workbook cell grids into the three typed
// fact tables: ledger entries, balance records and investment positions.
//
// The daily sheets are human-authored and wide: one row per entry type,
// one column per bank. Each normalizer filters the rows it owns and
// reshapes the bank columns to long form, one output row per
// (row, bank) pair.
package normalize

import (
	"errors"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"fluxo/internal/core"
)

// ErrNoBankColumns signals a fundamentally malformed configuration: none
// of the configured bank columns exist in any sheet of the run. This is
// the one case that fails loudly instead of producing a silently empty
// table.
var ErrNoBankColumns = errors.New("none of the configured bank columns exist in any sheet")

var accentFold = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// foldHeader normalizes a header cell for matching: trimmed, lower-cased
// and accent-stripped, so "Aplicação" matches "aplicacao".
func foldHeader(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if out, _, err := transform.String(accentFold, s); err == nil {
		return out
	}
	return s
}

// isArtifactColumn reports spreadsheet artifacts that are never data:
// unnamed filler columns and row-total columns.
func isArtifactColumn(header string) bool {
	h := foldHeader(header)
	return strings.HasPrefix(h, "unnamed") || strings.Contains(h, "total")
}

// bankColumn ties a header index to its canonical bank key.
type bankColumn struct {
	idx  int
	bank string
}

// mapBankColumns locates each configured bank column in a header row.
// Matching ignores case and accents; artifact columns are dropped before
// matching. Banks absent from this sheet's header are simply not mapped.
func mapBankColumns(header []string, banks []string) []bankColumn {
	byName := make(map[string]int, len(header))
	for i, h := range header {
		if h == "" || isArtifactColumn(h) {
			continue
		}
		byName[foldHeader(h)] = i
	}

	var cols []bankColumn
	for _, bank := range banks {
		if i, ok := byName[foldHeader(bank)]; ok {
			cols = append(cols, bankColumn{idx: i, bank: core.CanonicalBank(bank)})
		}
	}
	return cols
}

// cell reads a column from a possibly ragged row.
func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}
