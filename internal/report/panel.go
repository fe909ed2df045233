package report

import (
	"time"

	"github.com/shopspring/decimal"

	"fluxo/internal/core"
)

// Panel is the full metric set for one reporting run. The values are
// derived, never persisted; each run recomputes them from the fact
// tables.
type Panel struct {
	Date time.Time

	NetInflow                decimal.Decimal
	NetOutflow               decimal.Decimal
	Unclassified             decimal.Decimal
	OpeningBalance           decimal.Decimal
	ClosingBalance           decimal.Decimal
	InflowMinusOutflow       decimal.Decimal
	RedemptionMinusApp       decimal.Decimal
	AppliedBalance           decimal.Decimal
	TotalBalance             decimal.Decimal
	BlockedBalance           decimal.Decimal
	InvestmentBalancesByBank []BankAmount
	BlockedByBank            []BankAmount
	AvailableByBank          []BankAmount
	EntriesByCategory        []CategoryAmount
	ExitsByCategory          []CategoryAmount
	CashFlowByBank           []CashFlowRow
	Trend                    []TrendPoint
}

// Compute derives the whole panel for the target date from the given
// window of fact tables. trendEntries may span a wider window than
// entries (the 7-day series needs more history than the day's figures);
// passing the same slice for both is also valid.
func Compute(
	entries []core.LedgerEntry,
	balances []core.BalanceRecord,
	positions []core.InvestmentPosition,
	trendEntries []core.LedgerEntry,
	cls core.Classification,
	target time.Time,
) Panel {
	return Panel{
		Date:                     target,
		NetInflow:                NetInflow(entries, cls),
		NetOutflow:               NetOutflow(entries, cls),
		Unclassified:             UnclassifiedTotal(entries, cls),
		OpeningBalance:           OpeningBalance(balances),
		ClosingBalance:           ClosingBalance(balances),
		InflowMinusOutflow:       InflowMinusOutflow(entries, cls),
		RedemptionMinusApp:       RedemptionMinusApplication(positions),
		AppliedBalance:           AppliedBalance(positions),
		TotalBalance:             TotalBalance(balances, positions),
		BlockedBalance:           BlockedBalance(positions),
		InvestmentBalancesByBank: CurrentInvestmentBalances(positions),
		BlockedByBank:            BlockedBalancesByBank(positions),
		AvailableByBank:          AvailableBalanceByBank(balances, positions),
		EntriesByCategory:        EntriesByCategory(entries, cls),
		ExitsByCategory:          ExitsByCategory(entries, cls),
		CashFlowByBank:           CashFlowByBank(entries, balances, cls),
		Trend:                    TrendSeries(trendEntries, cls, target),
	}
}
