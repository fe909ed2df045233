package services

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"fluxo/internal/config"
	"fluxo/internal/core"
	"fluxo/internal/storage"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		WorkbookDir:  t.TempDir(),
		SQLiteDBPath: filepath.Join(t.TempDir(), "fluxo.db"),
		LedgerBanks:  []string{"Itaú", "Bradesco"},
		BalanceBanks: []string{"Itaú", "Bradesco"},
		Parallelism:  4,
	}
}

// writeWorkbook builds a monthly workbook with the given daily sheets.
func writeWorkbook(t *testing.T, dir, name string, sheets map[string][][]interface{}) {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	first := true
	for sheet, rows := range sheets {
		if first {
			if err := f.SetSheetName("Sheet1", sheet); err != nil {
				t.Fatal(err)
			}
			first = false
		} else {
			if _, err := f.NewSheet(sheet); err != nil {
				t.Fatal(err)
			}
		}
		for i, row := range rows {
			cellRef, err := excelize.CoordinatesToCellName(1, i+1)
			if err != nil {
				t.Fatal(err)
			}
			if err := f.SetSheetRow(sheet, cellRef, &row); err != nil {
				t.Fatal(err)
			}
		}
	}
	if err := f.SaveAs(filepath.Join(dir, name)); err != nil {
		t.Fatal(err)
	}
}

func TestPipelineRunEndToEnd(t *testing.T) {
	cfg := testConfig(t)
	writeWorkbook(t, cfg.WorkbookDir, "Fluxo de Caixa Diário 11-2024.xlsx", map[string][][]interface{}{
		"05-11-2024": {
			{"Compromisso", "Itaú", "Bradesco"},
			{"SALDO INICIAL", 500.00, 200.00},
			{"101 - Cobrança", 1000.00, 250.50},
			{"94 - Fornecedores", -400.00, 0.0},
			{"SALDO FINAL", 1100.00, 450.50},
			{"TOTAL", 1200.50, 250.50},
		},
	})

	repo, err := storage.NewRepository(cfg.SQLiteDBPath)
	if err != nil {
		t.Fatal(err)
	}

	p := NewPipeline(cfg, repo, nil)
	defer p.Close()

	summary, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if summary.Workbooks != 1 {
		t.Errorf("Workbooks = %d, want 1", summary.Workbooks)
	}
	// Two coded rows over two banks.
	if summary.LedgerRows != 4 {
		t.Errorf("LedgerRows = %d, want 4", summary.LedgerRows)
	}
	// Opening and closing over two banks.
	if summary.BalanceRows != 4 {
		t.Errorf("BalanceRows = %d, want 4", summary.BalanceRows)
	}
	if summary.InvestmentRows != 0 {
		t.Errorf("InvestmentRows = %d, want 0", summary.InvestmentRows)
	}

	day := time.Date(2024, 11, 5, 0, 0, 0, 0, time.UTC)
	entries, err := repo.LedgerBetween(context.Background(), day, day)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 4 {
		t.Fatalf("persisted ledger rows = %d", len(entries))
	}
}

func TestPipelineRunIsIdempotent(t *testing.T) {
	cfg := testConfig(t)
	writeWorkbook(t, cfg.WorkbookDir, "Fluxo de Caixa Diário 11-2024.xlsx", map[string][][]interface{}{
		"05-11-2024": {
			{"Compromisso", "Itaú"},
			{"101 - Cobrança", 1000.00},
		},
	})

	repo, err := storage.NewRepository(cfg.SQLiteDBPath)
	if err != nil {
		t.Fatal(err)
	}

	p := NewPipeline(cfg, repo, nil)
	defer p.Close()

	first, err := p.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	second, err := p.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if first.LedgerRows != second.LedgerRows {
		t.Errorf("rerun changed row count: %d vs %d", first.LedgerRows, second.LedgerRows)
	}

	day := time.Date(2024, 11, 5, 0, 0, 0, 0, time.UTC)
	entries, err := repo.LedgerBetween(context.Background(), day, day)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != first.LedgerRows {
		t.Errorf("rerun duplicated rows: %d persisted", len(entries))
	}
}

func TestPipelineEmptyDirectoryIsValidRun(t *testing.T) {
	cfg := testConfig(t)

	repo, err := storage.NewRepository(cfg.SQLiteDBPath)
	if err != nil {
		t.Fatal(err)
	}

	p := NewPipeline(cfg, repo, nil)
	defer p.Close()

	summary, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("empty directory must not fail the run: %v", err)
	}
	if summary.Workbooks != 0 || summary.LedgerRows != 0 {
		t.Errorf("unexpected summary: %+v", summary)
	}
}

func TestPanelServiceComputeForDate(t *testing.T) {
	cfg := testConfig(t)
	writeWorkbook(t, cfg.WorkbookDir, "Fluxo de Caixa Diário 11-2024.xlsx", map[string][][]interface{}{
		"05-11-2024": {
			{"Compromisso", "Itaú", "Bradesco"},
			{"SALDO INICIAL", 500.00, 200.00},
			{"101 - Cobrança", 1000.00, 250.50},
			{"95 - Fornecedores", -400.00, 0.0},
			{"SALDO FINAL", 1100.00, 450.50},
		},
	})

	repo, err := storage.NewRepository(cfg.SQLiteDBPath)
	if err != nil {
		t.Fatal(err)
	}

	p := NewPipeline(cfg, repo, nil)
	defer p.Close()
	if _, err := p.Run(context.Background()); err != nil {
		t.Fatal(err)
	}

	svc := NewPanelService(repo, core.DefaultClassification())
	panel, err := svc.ComputeForDate(context.Background(), time.Date(2024, 11, 5, 12, 30, 0, 0, time.UTC))
	if err != nil {
		t.Fatal(err)
	}

	if !panel.NetInflow.Equal(decimal.RequireFromString("1250.5")) {
		t.Errorf("NetInflow = %s, want 1250.5", panel.NetInflow)
	}
	if !panel.NetOutflow.Equal(decimal.RequireFromString("400")) {
		t.Errorf("NetOutflow = %s, want 400", panel.NetOutflow)
	}
	if !panel.OpeningBalance.Equal(decimal.RequireFromString("700")) {
		t.Errorf("OpeningBalance = %s, want 700", panel.OpeningBalance)
	}
	if !panel.ClosingBalance.Equal(decimal.RequireFromString("1550.5")) {
		t.Errorf("ClosingBalance = %s, want 1550.5", panel.ClosingBalance)
	}
	if len(panel.Trend) != 1 {
		t.Errorf("trend points = %d, want 1", len(panel.Trend))
	}
}

func TestPanelServiceComputeForMonth(t *testing.T) {
	cfg := testConfig(t)
	writeWorkbook(t, cfg.WorkbookDir, "Fluxo de Caixa Diário 11-2024.xlsx", map[string][][]interface{}{
		"05-11-2024": {
			{"Compromisso", "Itaú"},
			{"SALDO INICIAL", 500.00},
			{"101 - Cobrança", 1000.00},
			{"SALDO FINAL", 1500.00},
		},
		"20-11-2024": {
			{"Compromisso", "Itaú"},
			{"SALDO INICIAL", 1500.00},
			{"101 - Cobrança", 200.00},
			{"SALDO FINAL", 1700.00},
		},
	})

	repo, err := storage.NewRepository(cfg.SQLiteDBPath)
	if err != nil {
		t.Fatal(err)
	}

	p := NewPipeline(cfg, repo, nil)
	defer p.Close()
	if _, err := p.Run(context.Background()); err != nil {
		t.Fatal(err)
	}

	svc := NewPanelService(repo, core.DefaultClassification())
	panel, err := svc.ComputeForMonth(context.Background(), time.Date(2024, 11, 15, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatal(err)
	}

	if !panel.NetInflow.Equal(decimal.RequireFromString("1200")) {
		t.Errorf("monthly NetInflow = %s, want 1200", panel.NetInflow)
	}
	// Opening at the month's earliest date, closing at its latest.
	if !panel.OpeningBalance.Equal(decimal.RequireFromString("500")) {
		t.Errorf("monthly OpeningBalance = %s, want 500", panel.OpeningBalance)
	}
	if !panel.ClosingBalance.Equal(decimal.RequireFromString("1700")) {
		t.Errorf("monthly ClosingBalance = %s, want 1700", panel.ClosingBalance)
	}
}

func TestPanelServiceEmptyWindow(t *testing.T) {
	cfg := testConfig(t)

	repo, err := storage.NewRepository(cfg.SQLiteDBPath)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { repo.Close() })

	svc := NewPanelService(repo, core.DefaultClassification())
	panel, err := svc.ComputeForDate(context.Background(), time.Date(2024, 11, 5, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("empty window must compute a zero panel: %v", err)
	}
	if !panel.NetInflow.IsZero() || !panel.TotalBalance.IsZero() {
		t.Errorf("expected zero metrics, got %+v", panel)
	}
	if len(panel.CashFlowByBank) != 0 {
		t.Errorf("expected empty tables")
	}
}
