package normalize

import (
	"log/slog"
	"time"

	"fluxo/internal/core"
	"fluxo/internal/workbook"
)

// Ledger extracts coded cash movements from the daily sheets.
//
// A row is in scope when its first cell matches "<1-3 digits> - <text>";
// everything else on the sheet (headers, section titles, totals) is
// structural noise and dropped silently. The classification join happens
// downstream in the report package, so unresolvable codes survive
// normalization intact.
type Ledger struct {
	banks []string
}

// NewLedger builds a ledger normalizer over the configured bank column
// list for the daily sheets.
func NewLedger(banks []string) *Ledger {
	return &Ledger{banks: banks}
}

// Normalize reads every (workbook, day) pair and concatenates the long
// rows. Row order is not significant downstream. A failed workbook or
// sheet is logged and skipped; an empty concatenation is a valid result.
// It fails only when none of the configured bank columns were found in
// any sheet that was read.
func (n *Ledger) Normalize(books []workbook.Workbook) ([]core.LedgerEntry, error) {
	var entries []core.LedgerEntry
	sheets, matched := 0, 0

	for _, book := range books {
		f, err := workbook.Open(book.Path)
		if err != nil {
			slog.Warn("Skipping unreadable workbook", "file", book.Name, "error", err)
			continue
		}
		for _, day := range book.Days {
			if !f.HasSheet(day) {
				continue
			}
			rows, err := f.Rows(day)
			if err != nil {
				slog.Warn("Skipping unreadable sheet", "file", book.Name, "sheet", day, "error", err)
				continue
			}
			date, err := workbook.ParseDay(day)
			if err != nil {
				continue
			}
			sheets++
			dayEntries, banksFound := n.normalizeSheet(rows, date)
			if banksFound > 0 {
				matched++
			}
			entries = append(entries, dayEntries...)
		}
		f.Close()
	}

	if sheets > 0 && matched == 0 {
		return nil, ErrNoBankColumns
	}
	return entries, nil
}

// normalizeSheet reshapes one day's grid into long entries and reports
// how many configured bank columns the header carried.
func (n *Ledger) normalizeSheet(rows [][]string, date time.Time) ([]core.LedgerEntry, int) {
	if len(rows) == 0 {
		return nil, 0
	}
	cols := mapBankColumns(rows[0], n.banks)
	if len(cols) == 0 {
		return nil, 0
	}

	var entries []core.LedgerEntry
	for _, row := range rows[1:] {
		code, err := core.EntryTypeCodeFromLabel(cell(row, 0))
		if err != nil {
			continue
		}
		for _, col := range cols {
			entries = append(entries, core.LedgerEntry{
				Code:   code,
				Date:   date,
				Bank:   col.bank,
				Amount: core.CoerceAmount(cell(row, col.idx)),
			})
		}
	}
	return entries, len(cols)
}
