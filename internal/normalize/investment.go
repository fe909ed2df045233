package normalize

import (
	"log/slog"
	"time"

	"fluxo/internal/core"
	"fluxo/internal/workbook"
)

// Column names of the Investimentos sheet after header folding. The
// sheet carries two "data" columns; the second one holds the row's own
// date and is the one the range filter uses.
const (
	colBank          = "banco"
	colModality      = "modalidade"
	colApplied       = "aplicacao"
	colRedeemed      = "resgate"
	colGrossYield    = "rendimento bruto"
	colNetYield      = "rendimento liquido"
	colCurrent       = "saldo atual"
	colProfitability = "rentabilidade"
	colDailyProfit   = "rentabilidade dia"
	colBlockType     = "tipo de bloqueio"
	colBlocked       = "saldo bloqueado"
	colAvailable     = "saldo disponivel"
)

// auxiliaryColumns are rate/coefficient/index columns the treasury keeps
// on the sheet but reporting never needs. Listed for documentation; the
// typed output drops them by construction, and exact header matching
// keeps "% saldo bloqueado" from shadowing "saldo bloqueado".
var auxiliaryColumns = []string{
	"dia da semana",
	"coluna",
	"taxa carteira geral",
	"taxa carteira cdb",
	"taxa carteira compr",
	"coeficiente",
	"b3",
	"ipca",
	"juros mensal",
	"100% cdi",
	"rendimento 100% cdi",
	"% saldo bloqueado",
}

// rowDateLayouts are the cell formats seen for the sheet's date column.
var rowDateLayouts = []string{
	"02-01-2006",
	"02/01/2006",
	"2006-01-02",
	"02/01/06",
}

// Investment extracts positions from each workbook's single
// Investimentos sheet. Rows are restricted to the workbook's own month
// (first day through rolled-forward month end) using the sheet's date
// column, which guards against stray rows from adjacent months.
type Investment struct{}

// NewInvestment builds an investment normalizer.
func NewInvestment() *Investment {
	return &Investment{}
}

// Normalize reads the Investimentos sheet of every workbook and
// concatenates the positions. Workbooks without the sheet are skipped;
// zero valid rows across all workbooks is a valid empty table.
func (n *Investment) Normalize(books []workbook.Workbook) ([]core.InvestmentPosition, error) {
	var positions []core.InvestmentPosition

	for _, book := range books {
		f, err := workbook.Open(book.Path)
		if err != nil {
			slog.Warn("Skipping unreadable workbook", "file", book.Name, "error", err)
			continue
		}
		if !f.HasSheet(workbook.InvestmentsSheet) {
			slog.Warn("Workbook has no investments sheet", "file", book.Name)
			f.Close()
			continue
		}
		rows, err := f.Rows(workbook.InvestmentsSheet)
		f.Close()
		if err != nil {
			slog.Warn("Skipping unreadable investments sheet", "file", book.Name, "error", err)
			continue
		}
		positions = append(positions, n.normalizeSheet(rows, book.Month)...)
	}
	return positions, nil
}

// normalizeSheet coerces one sheet's grid. Monetary columns fill
// coercion failures with zero and round to 2 decimals; percentage
// columns coerce without rounding; missing profitability and blocked
// balance default to zero so downstream sums stay total-preserving.
func (n *Investment) normalizeSheet(rows [][]string, month time.Time) []core.InvestmentPosition {
	if len(rows) < 2 {
		return nil
	}

	header := rows[0]
	idx := make(map[string]int, len(header))
	dateIdx := -1
	for i, h := range header {
		folded := foldHeader(h)
		if folded == "data" {
			// the second data column is the row's own date
			dateIdx = i
			continue
		}
		if _, seen := idx[folded]; !seen {
			idx[folded] = i
		}
	}
	if dateIdx == -1 {
		slog.Warn("Investments sheet has no date column; dropping sheet")
		return nil
	}

	col := func(name string) int {
		if i, ok := idx[name]; ok {
			return i
		}
		return -1
	}

	from := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.UTC)
	to := workbook.MonthEnd(from)

	var positions []core.InvestmentPosition
	for _, row := range rows[1:] {
		date, ok := parseRowDate(cell(row, dateIdx))
		if !ok || date.Before(from) || date.After(to) {
			continue
		}
		positions = append(positions, core.InvestmentPosition{
			Date:               date,
			Bank:               core.CanonicalBank(cell(row, col(colBank))),
			Modality:           cell(row, col(colModality)),
			Applied:            core.Round2(core.CoerceAmountOrZero(cell(row, col(colApplied)))),
			Redeemed:           core.Round2(core.CoerceAmountOrZero(cell(row, col(colRedeemed)))),
			GrossYield:         core.Round2(core.CoerceAmountOrZero(cell(row, col(colGrossYield)))),
			NetYield:           core.Round2(core.CoerceAmountOrZero(cell(row, col(colNetYield)))),
			CurrentBalance:     core.Round2(core.CoerceAmountOrZero(cell(row, col(colCurrent)))),
			Profitability:      core.CoerceAmountOrZero(cell(row, col(colProfitability))),
			DailyProfitability: core.CoerceAmountOrZero(cell(row, col(colDailyProfit))),
			BlockType:          cell(row, col(colBlockType)),
			BlockedBalance:     core.Round2(core.CoerceAmountOrZero(cell(row, col(colBlocked)))),
			AvailableBalance:   core.Round2(core.CoerceAmountOrZero(cell(row, col(colAvailable)))),
		})
	}
	return positions
}

func parseRowDate(s string) (time.Time, bool) {
	for _, layout := range rowDateLayouts {
		if d, err := time.Parse(layout, s); err == nil {
			return d, true
		}
	}
	return time.Time{}, false
}
