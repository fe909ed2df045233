package report

import (
	"testing"

	"github.com/shopspring/decimal"

	"fluxo/internal/core"
)

func TestCurrentInvestmentBalances(t *testing.T) {
	positions := []core.InvestmentPosition{
		{Date: date(5), Bank: "SAFRA", CurrentBalance: d("100")},
		{Date: date(5), Bank: "SAFRA", CurrentBalance: d("50")},
		{Date: date(5), Bank: "ITAÚ", CurrentBalance: d("700")},
		{Date: date(5), Bank: "CAIXA", CurrentBalance: decimal.Zero}, // dropped
		{Date: date(4), Bank: "BTG", CurrentBalance: d("9999")},      // stale date
	}
	rows := CurrentInvestmentBalances(positions)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Bank != "ITAÚ" || !rows[0].Amount.Equal(d("700")) {
		t.Errorf("row 0 = %+v", rows[0])
	}
	if rows[1].Bank != "SAFRA" || !rows[1].Amount.Equal(d("150")) {
		t.Errorf("row 1 = %+v", rows[1])
	}
	if !rows[1].Date.Equal(date(5)) {
		t.Errorf("group date should be first observed, got %v", rows[1].Date)
	}
}

func TestAvailableBalanceByBankOuterJoin(t *testing.T) {
	balances := []core.BalanceRecord{
		balance(core.Closing, 5, "A", "100"),
		balance(core.Closing, 5, "B", "200"),
		balance(core.Opening, 5, "C", "999"), // opening rows do not join
	}
	positions := []core.InvestmentPosition{
		{Date: date(5), Bank: "B", AvailableBalance: d("50")},
		{Date: date(5), Bank: "D", AvailableBalance: d("400")},
	}
	rows := AvailableBalanceByBank(balances, positions)
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows (A, B, D), got %d", len(rows))
	}
	// Outer join, missing side 0: D=400, B=250, A=100, descending.
	want := []struct {
		bank   string
		amount string
	}{{"D", "400"}, {"B", "250"}, {"A", "100"}}
	for i, w := range want {
		if rows[i].Bank != w.bank || !rows[i].Amount.Equal(d(w.amount)) {
			t.Errorf("row %d = %+v, want %s %s", i, rows[i], w.bank, w.amount)
		}
	}
}

func TestCategoriesDropZeroSums(t *testing.T) {
	cls := testClassification()
	entries := []core.LedgerEntry{
		entry("101", 5, "A", "100"),
		entry("102", 5, "A", "70"),
		entry("102", 5, "B", "-70"), // nets to zero, dropped
	}
	rows := EntriesByCategory(entries, cls)
	if len(rows) != 1 || rows[0].Category != "Cobrança" {
		t.Errorf("zero-sum categories should be dropped: %+v", rows)
	}
}

// Scenario D plus the sum invariant: per-bank columns (excluding Totais)
// must equal the Totais row within 0.01.
func TestCashFlowByBank(t *testing.T) {
	cls := testClassification()
	entries := []core.LedgerEntry{
		entry("101", 5, "A", "200.00"),
		entry("101", 5, "B", "50.00"),
		entry("205", 5, "A", "30.00"),
		entry("11", 5, "B", "15.00"), // full set: internal transfers count here
	}
	balances := []core.BalanceRecord{
		balance(core.Opening, 5, "A", "1000"),
		balance(core.Closing, 5, "A", "1170"),
		balance(core.Opening, 5, "B", "500"),
		balance(core.Closing, 5, "B", "565"),
	}

	rows := CashFlowByBank(entries, balances, cls)
	if len(rows) != 3 {
		t.Fatalf("expected 2 banks + Totais, got %d", len(rows))
	}
	if rows[0].Bank != "A" || rows[1].Bank != "B" {
		t.Errorf("ordering should be inflow descending: %s, %s", rows[0].Bank, rows[1].Bank)
	}
	if rows[2].Bank != TotalsBank {
		t.Fatalf("Totais must be last, got %s", rows[2].Bank)
	}
	if !rows[1].Inflow.Equal(d("65")) {
		t.Errorf("bank B inflow should use the full code set: %s", rows[1].Inflow)
	}

	totals := rows[2]
	tolerance := d("0.01")
	sums := CashFlowRow{Bank: TotalsBank}
	for _, r := range rows[:2] {
		sums.Opening = sums.Opening.Add(r.Opening)
		sums.Inflow = sums.Inflow.Add(r.Inflow)
		sums.Outflow = sums.Outflow.Add(r.Outflow)
		sums.Closing = sums.Closing.Add(r.Closing)
	}
	for name, pair := range map[string][2]decimal.Decimal{
		"opening": {sums.Opening, totals.Opening},
		"inflow":  {sums.Inflow, totals.Inflow},
		"outflow": {sums.Outflow, totals.Outflow},
		"closing": {sums.Closing, totals.Closing},
	} {
		if pair[0].Sub(pair[1]).Abs().GreaterThan(tolerance) {
			t.Errorf("%s: column sum %s != totals %s", name, pair[0], pair[1])
		}
	}
}

func TestCashFlowByBankMissingComponentsDefaultToZero(t *testing.T) {
	cls := testClassification()
	// Bank appears in balances only; no ledger rows at all.
	balances := []core.BalanceRecord{
		balance(core.Closing, 5, "SOLO", "10"),
	}
	rows := CashFlowByBank(nil, balances, cls)
	if len(rows) != 2 {
		t.Fatalf("expected bank + Totais, got %d", len(rows))
	}
	r := rows[0]
	if !r.Opening.IsZero() || !r.Inflow.IsZero() || !r.Outflow.IsZero() {
		t.Errorf("missing components should be zero: %+v", r)
	}
	if !r.Closing.Equal(d("10")) {
		t.Errorf("closing = %s", r.Closing)
	}
}
