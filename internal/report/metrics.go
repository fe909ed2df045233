// Package report computes the derived financial aggregates for the daily
// panel from the three normalized fact tables. Every function is pure:
// it reads the tables it is given and never mutates them. All monetary
// results are rounded to 2 decimal places at finalization only, so
// rounding error never compounds across groupings, and every aggregate
// returns zero or an empty slice on empty input.
package report

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"fluxo/internal/core"
)

// NetInflow sums ledger amounts classified as inflow, excluding the
// internal-transfer codes of the headline inflow exclusion set. The
// per-bank and per-category breakdowns use the full code set instead;
// see DESIGN.md.
func NetInflow(entries []core.LedgerEntry, cls core.Classification) decimal.Decimal {
	excl := core.HeadlineInflowExclusions()
	total := decimal.Zero
	for _, e := range entries {
		if !e.Amount.Valid || cls.FlowOf(e.Code) != core.Inflow || excl.Contains(e.Code) {
			continue
		}
		total = total.Add(e.Amount.Decimal)
	}
	return core.Round2(total)
}

// NetOutflow sums ledger amounts classified as outflow, excluding the
// headline outflow exclusion set, reported as a positive magnitude
// regardless of how the sheet author signed the rows.
func NetOutflow(entries []core.LedgerEntry, cls core.Classification) decimal.Decimal {
	excl := core.HeadlineOutflowExclusions()
	total := decimal.Zero
	for _, e := range entries {
		if !e.Amount.Valid || cls.FlowOf(e.Code) != core.Outflow || excl.Contains(e.Code) {
			continue
		}
		total = total.Add(e.Amount.Decimal)
	}
	return core.Round2(total).Abs()
}

// UnclassifiedTotal sums ledger amounts whose code has no classification.
// Unresolvable codes are reported here instead of silently vanishing
// from the panel.
func UnclassifiedTotal(entries []core.LedgerEntry, cls core.Classification) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		if e.Amount.Valid && cls.FlowOf(e.Code) == core.Unclassified {
			total = total.Add(e.Amount.Decimal)
		}
	}
	return core.Round2(total)
}

// OpeningBalance sums the opening records at the earliest date in the
// balance table.
func OpeningBalance(balances []core.BalanceRecord) decimal.Decimal {
	return balanceAt(balances, core.Opening, minBalanceDate(balances))
}

// ClosingBalance sums the closing records at the latest date in the
// balance table.
func ClosingBalance(balances []core.BalanceRecord) decimal.Decimal {
	return balanceAt(balances, core.Closing, maxBalanceDate(balances))
}

func balanceAt(balances []core.BalanceRecord, kind core.BalanceKind, date time.Time) decimal.Decimal {
	total := decimal.Zero
	for _, b := range balances {
		if b.Kind == kind && b.Date.Equal(date) && b.Amount.Valid {
			total = total.Add(b.Amount.Decimal)
		}
	}
	return core.Round2(total)
}

// InflowMinusOutflow is the net movement across all banks using the FULL
// inflow and outflow code sets, without the headline exclusions that
// NetInflow and NetOutflow apply.
func InflowMinusOutflow(entries []core.LedgerEntry, cls core.Classification) decimal.Decimal {
	in, out := decimal.Zero, decimal.Zero
	for _, e := range entries {
		if !e.Amount.Valid {
			continue
		}
		switch cls.FlowOf(e.Code) {
		case core.Inflow:
			in = in.Add(e.Amount.Decimal)
		case core.Outflow:
			out = out.Add(e.Amount.Decimal)
		}
	}
	return core.Round2(in.Sub(out))
}

// RedemptionMinusApplication is sum(redeemed) - sum(applied) over all
// investment rows in the window.
func RedemptionMinusApplication(positions []core.InvestmentPosition) decimal.Decimal {
	redeemed, applied := decimal.Zero, decimal.Zero
	for _, p := range positions {
		redeemed = redeemed.Add(p.Redeemed)
		applied = applied.Add(p.Applied)
	}
	return core.Round2(redeemed.Sub(applied))
}

// AppliedBalance sums current investment balances at the latest date in
// the investment table.
func AppliedBalance(positions []core.InvestmentPosition) decimal.Decimal {
	max := maxInvestmentDate(positions)
	total := decimal.Zero
	for _, p := range positions {
		if p.Date.Equal(max) {
			total = total.Add(p.CurrentBalance)
		}
	}
	return core.Round2(total)
}

// TotalBalance is the closing balance plus the applied investment
// balance.
func TotalBalance(balances []core.BalanceRecord, positions []core.InvestmentPosition) decimal.Decimal {
	return core.Round2(ClosingBalance(balances).Add(AppliedBalance(positions)))
}

// BlockedBalance sums blocked balances across every row it is given,
// whole window, not just the latest date. The per-bank blocked table is
// the only consumer of the latest-date filter; see DESIGN.md.
func BlockedBalance(positions []core.InvestmentPosition) decimal.Decimal {
	total := decimal.Zero
	for _, p := range positions {
		total = total.Add(p.BlockedBalance)
	}
	return core.Round2(total)
}

func minBalanceDate(balances []core.BalanceRecord) time.Time {
	var min time.Time
	for _, b := range balances {
		if min.IsZero() || b.Date.Before(min) {
			min = b.Date
		}
	}
	return min
}

func maxBalanceDate(balances []core.BalanceRecord) time.Time {
	var max time.Time
	for _, b := range balances {
		if b.Date.After(max) {
			max = b.Date
		}
	}
	return max
}

func maxInvestmentDate(positions []core.InvestmentPosition) time.Time {
	var max time.Time
	for _, p := range positions {
		if p.Date.After(max) {
			max = p.Date
		}
	}
	return max
}

func sortByAmountDesc[T any](items []T, amount func(T) decimal.Decimal, key func(T) string) {
	sort.Slice(items, func(i, j int) bool {
		a, b := amount(items[i]), amount(items[j])
		if !a.Equal(b) {
			return a.GreaterThan(b)
		}
		return key(items[i]) < key(items[j])
	})
}
