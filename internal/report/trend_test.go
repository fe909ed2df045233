package report

import (
	"testing"

	"fluxo/internal/core"
)

func TestTrendSeries(t *testing.T) {
	cls := testClassification()
	entries := []core.LedgerEntry{
		entry("101", 1, "A", "100"), // outside window
		entry("101", 3, "A", "300"),
		entry("205", 3, "A", "120"),
		entry("101", 7, "A", "50"),
		entry("11", 7, "A", "999"), // excluded from the trend inflows
		entry("94", 5, "A", "888"), // excluded from the trend outflows
	}

	points := TrendSeries(entries, cls, date(8))
	// Window is day 2..8; day 1 is out, day 5 only carries an excluded
	// code so it contributes nothing.
	if len(points) != 2 {
		t.Fatalf("expected 2 points, got %d: %+v", len(points), points)
	}
	if !points[0].Date.Equal(date(3)) || !points[1].Date.Equal(date(7)) {
		t.Errorf("series must be chronologically ascending: %+v", points)
	}
	if !points[0].Value.Equal(d("180")) {
		t.Errorf("day 3 net = %s, want 180", points[0].Value)
	}
	if !points[1].Value.Equal(d("50")) {
		t.Errorf("day 7 net = %s, want 50", points[1].Value)
	}
}

func TestTrendWindowBoundaries(t *testing.T) {
	cls := testClassification()
	entries := []core.LedgerEntry{
		entry("101", 2, "A", "10"), // exactly 6 days before target
		entry("101", 8, "A", "20"), // target day itself
		entry("101", 9, "A", "30"), // after target
	}
	points := TrendSeries(entries, cls, date(8))
	if len(points) != 2 {
		t.Fatalf("expected inclusive 7-day window, got %d points", len(points))
	}
}

func TestComputePanel(t *testing.T) {
	cls := testClassification()
	entries := []core.LedgerEntry{
		entry("101", 5, "A", "1000"),
		entry("205", 5, "A", "400"),
	}
	balances := []core.BalanceRecord{
		balance(core.Opening, 5, "A", "500"),
		balance(core.Closing, 5, "A", "1100"),
	}
	positions := []core.InvestmentPosition{
		{Date: date(5), Bank: "A", Applied: d("300"), Redeemed: d("100"), CurrentBalance: d("250"), BlockedBalance: d("25")},
	}

	p := Compute(entries, balances, positions, entries, cls, date(5))
	if !p.NetInflow.Equal(d("1000")) || !p.NetOutflow.Equal(d("400")) {
		t.Errorf("net flows: %s / %s", p.NetInflow, p.NetOutflow)
	}
	if !p.TotalBalance.Equal(d("1350")) {
		t.Errorf("total balance = %s, want 1350", p.TotalBalance)
	}
	if len(p.CashFlowByBank) != 2 || len(p.Trend) != 1 {
		t.Errorf("panel tables incomplete: %d cash-flow rows, %d trend points",
			len(p.CashFlowByBank), len(p.Trend))
	}
	if !p.BlockedBalance.Equal(d("25")) {
		t.Errorf("blocked = %s", p.BlockedBalance)
	}
}

func TestComputePanelOnEmptyTables(t *testing.T) {
	p := Compute(nil, nil, nil, nil, testClassification(), date(5))
	if !p.NetInflow.IsZero() || !p.ClosingBalance.IsZero() || !p.TotalBalance.IsZero() {
		t.Error("a day with no reconciled data is a legitimate zero-valued panel")
	}
	if len(p.CashFlowByBank) != 0 || len(p.Trend) != 0 {
		t.Error("empty tables should produce empty panel tables")
	}
}
