package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"fluxo/internal/core"
	"fluxo/internal/report"
	"fluxo/internal/storage"
)

// PanelService loads the fact-table window for a target day and
// computes the derived panel.
type PanelService struct {
	repo *storage.Repository
	cls  core.Classification
}

func NewPanelService(repo *storage.Repository, cls core.Classification) *PanelService {
	return &PanelService{
		repo: repo,
		cls:  cls,
	}
}

// ComputeForDate builds the panel for one target date. The day's
// figures use the single-day window; the trend series reads the seven
// days ending at the target.
func (s *PanelService) ComputeForDate(ctx context.Context, target time.Time) (report.Panel, error) {
	target = truncateDay(target)
	trendFrom := target.AddDate(0, 0, -6)

	entries, err := s.repo.LedgerBetween(ctx, target, target)
	if err != nil {
		return report.Panel{}, fmt.Errorf("load ledger entries: %w", err)
	}
	balances, err := s.repo.BalancesBetween(ctx, target, target)
	if err != nil {
		return report.Panel{}, fmt.Errorf("load balances: %w", err)
	}
	positions, err := s.repo.InvestmentsBetween(ctx, target, target)
	if err != nil {
		return report.Panel{}, fmt.Errorf("load investments: %w", err)
	}
	trendEntries, err := s.repo.LedgerBetween(ctx, trendFrom, target)
	if err != nil {
		return report.Panel{}, fmt.Errorf("load trend window: %w", err)
	}

	panel := report.Compute(entries, balances, positions, trendEntries, s.cls, target)

	slog.InfoContext(ctx, "Computed panel",
		"date", target.Format("2006-01-02"),
		"ledger_rows", len(entries),
		"balance_rows", len(balances),
		"investment_rows", len(positions))

	return panel, nil
}

// ComputeForMonth builds the panel over a whole month, the same scope
// one workbook covers. The trend still ends at the month's last day.
func (s *PanelService) ComputeForMonth(ctx context.Context, month time.Time) (report.Panel, error) {
	first := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)

	entries, err := s.repo.LedgerBetween(ctx, first, last)
	if err != nil {
		return report.Panel{}, fmt.Errorf("load ledger entries: %w", err)
	}
	balances, err := s.repo.BalancesBetween(ctx, first, last)
	if err != nil {
		return report.Panel{}, fmt.Errorf("load balances: %w", err)
	}
	positions, err := s.repo.InvestmentsBetween(ctx, first, last)
	if err != nil {
		return report.Panel{}, fmt.Errorf("load investments: %w", err)
	}

	return report.Compute(entries, balances, positions, entries, s.cls, last), nil
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
