package report

import (
	"time"

	"github.com/shopspring/decimal"

	"fluxo/internal/core"
)

// TotalsBank labels the synthetic totals row of the per-bank cash-flow
// summary; it is always ordered last.
const TotalsBank = "Totais"

// BankAmount is one row of a per-bank table, sorted descending by
// amount.
type BankAmount struct {
	Bank   string
	Date   time.Time
	Amount decimal.Decimal
}

// CategoryAmount is one row of a per-category table.
type CategoryAmount struct {
	Category string
	Amount   decimal.Decimal
}

// CashFlowRow composes a bank's opening balance, inflow, outflow and
// closing balance for the window.
type CashFlowRow struct {
	Bank    string
	Opening decimal.Decimal
	Inflow  decimal.Decimal
	Outflow decimal.Decimal
	Closing decimal.Decimal
}

// CurrentInvestmentBalances lists each bank's investment balance at the
// latest date in the table. Rows whose balance is exactly zero are
// dropped before grouping; each group keeps its first observed date;
// the result is sorted descending by balance.
func CurrentInvestmentBalances(positions []core.InvestmentPosition) []BankAmount {
	max := maxInvestmentDate(positions)

	sums := map[string]decimal.Decimal{}
	dates := map[string]time.Time{}
	var order []string
	for _, p := range positions {
		if !p.Date.Equal(max) || p.CurrentBalance.IsZero() {
			continue
		}
		if _, seen := sums[p.Bank]; !seen {
			order = append(order, p.Bank)
			dates[p.Bank] = p.Date
		}
		sums[p.Bank] = sums[p.Bank].Add(p.CurrentBalance)
	}

	rows := make([]BankAmount, 0, len(order))
	for _, bank := range order {
		rows = append(rows, BankAmount{Bank: bank, Date: dates[bank], Amount: core.Round2(sums[bank])})
	}
	sortByAmountDesc(rows, func(r BankAmount) decimal.Decimal { return r.Amount }, func(r BankAmount) string { return r.Bank })
	return rows
}

// BlockedBalancesByBank lists each bank's blocked balance at the latest
// date, zero rows dropped, sorted descending.
func BlockedBalancesByBank(positions []core.InvestmentPosition) []BankAmount {
	max := maxInvestmentDate(positions)

	sums := map[string]decimal.Decimal{}
	dates := map[string]time.Time{}
	var order []string
	for _, p := range positions {
		blocked := core.Round2(p.BlockedBalance)
		if !p.Date.Equal(max) || blocked.IsZero() {
			continue
		}
		if _, seen := sums[p.Bank]; !seen {
			order = append(order, p.Bank)
			dates[p.Bank] = p.Date
		}
		sums[p.Bank] = sums[p.Bank].Add(blocked)
	}

	rows := make([]BankAmount, 0, len(order))
	for _, bank := range order {
		rows = append(rows, BankAmount{Bank: bank, Date: dates[bank], Amount: core.Round2(sums[bank])})
	}
	sortByAmountDesc(rows, func(r BankAmount) decimal.Decimal { return r.Amount }, func(r BankAmount) string { return r.Bank })
	return rows
}

// AvailableBalanceByBank outer-joins the closing balance per bank with
// the available investment balance per bank, both at the latest balance
// date, filling the missing side with zero and summing. Sorted
// descending by the combined amount.
func AvailableBalanceByBank(balances []core.BalanceRecord, positions []core.InvestmentPosition) []BankAmount {
	max := maxBalanceDate(balances)

	sums := map[string]decimal.Decimal{}
	var order []string
	add := func(bank string, v decimal.Decimal) {
		if _, seen := sums[bank]; !seen {
			order = append(order, bank)
		}
		sums[bank] = sums[bank].Add(v)
	}

	for _, b := range balances {
		if b.Kind == core.Closing && b.Date.Equal(max) && b.Amount.Valid {
			add(b.Bank, b.Amount.Decimal)
		}
	}
	for _, p := range positions {
		if p.Date.Equal(max) {
			add(p.Bank, p.AvailableBalance)
		}
	}

	rows := make([]BankAmount, 0, len(order))
	for _, bank := range order {
		rows = append(rows, BankAmount{Bank: bank, Date: max, Amount: core.Round2(sums[bank])})
	}
	sortByAmountDesc(rows, func(r BankAmount) decimal.Decimal { return r.Amount }, func(r BankAmount) string { return r.Bank })
	return rows
}

// EntriesByCategory joins ledger entries to the classification table and
// sums inflow amounts per category label, dropping zero-sum categories,
// sorted descending.
func EntriesByCategory(entries []core.LedgerEntry, cls core.Classification) []CategoryAmount {
	return byCategory(entries, cls, core.Inflow)
}

// ExitsByCategory is the outflow counterpart of EntriesByCategory.
func ExitsByCategory(entries []core.LedgerEntry, cls core.Classification) []CategoryAmount {
	return byCategory(entries, cls, core.Outflow)
}

func byCategory(entries []core.LedgerEntry, cls core.Classification, flow core.Flow) []CategoryAmount {
	sums := map[string]decimal.Decimal{}
	var order []string
	for _, e := range entries {
		if !e.Amount.Valid {
			continue
		}
		category, f := cls.CategoryOf(e.Code)
		if f != flow {
			continue
		}
		if _, seen := sums[category]; !seen {
			order = append(order, category)
		}
		sums[category] = sums[category].Add(e.Amount.Decimal)
	}

	rows := make([]CategoryAmount, 0, len(order))
	for _, category := range order {
		sum := core.Round2(sums[category])
		if sum.IsZero() {
			continue
		}
		rows = append(rows, CategoryAmount{Category: category, Amount: sum})
	}
	sortByAmountDesc(rows, func(r CategoryAmount) decimal.Decimal { return r.Amount }, func(r CategoryAmount) string { return r.Category })
	return rows
}

// CashFlowByBank composes {opening, inflow, outflow, closing} for every
// bank appearing in the balance table, with missing components zero.
// Inflow and outflow use the FULL code sets, no exclusions. A synthetic
// Totais row sums each column; ordering is inflow descending with Totais
// always last.
func CashFlowByBank(entries []core.LedgerEntry, balances []core.BalanceRecord, cls core.Classification) []CashFlowRow {
	inflows := map[string]decimal.Decimal{}
	outflows := map[string]decimal.Decimal{}
	for _, e := range entries {
		if !e.Amount.Valid {
			continue
		}
		switch cls.FlowOf(e.Code) {
		case core.Inflow:
			inflows[e.Bank] = inflows[e.Bank].Add(e.Amount.Decimal)
		case core.Outflow:
			outflows[e.Bank] = outflows[e.Bank].Add(e.Amount.Decimal)
		}
	}

	openings := map[string]decimal.Decimal{}
	closings := map[string]decimal.Decimal{}
	var banks []string
	seen := map[string]bool{}
	for _, b := range balances {
		if !seen[b.Bank] {
			seen[b.Bank] = true
			banks = append(banks, b.Bank)
		}
		if !b.Amount.Valid {
			continue
		}
		switch b.Kind {
		case core.Opening:
			openings[b.Bank] = openings[b.Bank].Add(b.Amount.Decimal)
		case core.Closing:
			closings[b.Bank] = closings[b.Bank].Add(b.Amount.Decimal)
		}
	}

	rows := make([]CashFlowRow, 0, len(banks)+1)
	totals := CashFlowRow{Bank: TotalsBank}
	for _, bank := range banks {
		row := CashFlowRow{
			Bank:    bank,
			Opening: core.Round2(openings[bank]),
			Inflow:  core.Round2(inflows[bank]),
			Outflow: core.Round2(outflows[bank]),
			Closing: core.Round2(closings[bank]),
		}
		totals.Opening = totals.Opening.Add(row.Opening)
		totals.Inflow = totals.Inflow.Add(row.Inflow)
		totals.Outflow = totals.Outflow.Add(row.Outflow)
		totals.Closing = totals.Closing.Add(row.Closing)
		rows = append(rows, row)
	}
	sortByAmountDesc(rows, func(r CashFlowRow) decimal.Decimal { return r.Inflow }, func(r CashFlowRow) string { return r.Bank })
	if len(rows) > 0 {
		rows = append(rows, totals)
	}
	return rows
}
