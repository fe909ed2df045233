package normalize

import (
	"log/slog"
	"time"

	"fluxo/internal/core"
	"fluxo/internal/workbook"
)

// Balance extracts the opening and closing balance rows from the daily
// sheets. It shares the reshape mechanics and bank canonicalization with
// the ledger normalizer; only the row predicate and output shape differ.
// The row match is exact and case-sensitive against "SALDO INICIAL" and
// "SALDO FINAL".
type Balance struct {
	banks []string
}

// NewBalance builds a balance normalizer over the bank column list for
// the balance section of the daily sheets.
func NewBalance(banks []string) *Balance {
	return &Balance{banks: banks}
}

// Normalize reads every (workbook, day) pair and concatenates the
// balance records. Unreadable units are logged and skipped; it fails
// only when no configured bank column exists in any sheet read.
func (n *Balance) Normalize(books []workbook.Workbook) ([]core.BalanceRecord, error) {
	var records []core.BalanceRecord
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
			dayRecords, banksFound := n.normalizeSheet(rows, date)
			if banksFound > 0 {
				matched++
			}
			records = append(records, dayRecords...)
		}
		f.Close()
	}

	if sheets > 0 && matched == 0 {
		return nil, ErrNoBankColumns
	}
	return records, nil
}

func (n *Balance) normalizeSheet(rows [][]string, date time.Time) ([]core.BalanceRecord, int) {
	if len(rows) == 0 {
		return nil, 0
	}
	cols := mapBankColumns(rows[0], n.banks)
	if len(cols) == 0 {
		return nil, 0
	}

	var records []core.BalanceRecord
	for _, row := range rows[1:] {
		kind, ok := core.BalanceKindFromLabel(cell(row, 0))
		if !ok {
			continue
		}
		for _, col := range cols {
			amount := core.CoerceAmount(cell(row, col.idx))
			if amount.Valid {
				amount.Decimal = core.Round2(amount.Decimal)
			}
			records = append(records, core.BalanceRecord{
				Kind:   kind,
				Date:   date,
				Bank:   col.bank,
				Amount: amount,
			})
		}
	}
	return records, len(cols)
}
