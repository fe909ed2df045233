package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"fluxo/internal/amqp"
	"fluxo/internal/config"
	"fluxo/internal/core"
	"fluxo/internal/normalize"
	"fluxo/internal/storage"
	"fluxo/internal/workbook"
)

// Pipeline orchestrates one full run: discover workbooks, normalize
// the three fact tables, replace them in storage and announce the run.
type Pipeline struct {
	repo       *storage.Repository
	amqpClient *amqp.Client

	workbookDir string
	parallelism int

	ledger     *normalize.Ledger
	balance    *normalize.Balance
	investment *normalize.Investment
}

// RunSummary reports what one pipeline run produced.
type RunSummary struct {
	RunDate        time.Time
	Workbooks      int
	LedgerRows     int
	BalanceRows    int
	InvestmentRows int
}

func NewPipeline(cfg *config.Config, repo *storage.Repository, amqpClient *amqp.Client) *Pipeline {
	return &Pipeline{
		repo:        repo,
		amqpClient:  amqpClient,
		workbookDir: cfg.WorkbookDir,
		parallelism: cfg.Parallelism,
		ledger:      normalize.NewLedger(cfg.LedgerBanks),
		balance:     normalize.NewBalance(cfg.BalanceBanks),
		investment:  normalize.NewInvestment(),
	}
}

// Run executes a full ingestion. Each run rebuilds the fact tables
// from scratch; nothing from a previous run survives.
func (p *Pipeline) Run(ctx context.Context) (RunSummary, error) {
	books, err := workbook.Discover(p.workbookDir)
	if err != nil {
		return RunSummary{}, fmt.Errorf("discover workbooks: %w", err)
	}
	slog.InfoContext(ctx, "Discovered workbooks", "dir", p.workbookDir, "count", len(books))

	var (
		entries   []core.LedgerEntry
		balances  []core.BalanceRecord
		positions []core.InvestmentPosition
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.parallelism)

	g.Go(func() error {
		var err error
		entries, err = p.ledger.Normalize(books)
		if err != nil {
			return fmt.Errorf("normalize ledger: %w", err)
		}
		return gctx.Err()
	})
	g.Go(func() error {
		var err error
		balances, err = p.balance.Normalize(books)
		if err != nil {
			return fmt.Errorf("normalize balances: %w", err)
		}
		return gctx.Err()
	})
	g.Go(func() error {
		var err error
		positions, err = p.investment.Normalize(books)
		if err != nil {
			return fmt.Errorf("normalize investments: %w", err)
		}
		return gctx.Err()
	})

	if err := g.Wait(); err != nil {
		return RunSummary{}, err
	}

	if err := p.repo.ReplaceLedger(ctx, entries); err != nil {
		return RunSummary{}, fmt.Errorf("replace ledger: %w", err)
	}
	if err := p.repo.ReplaceBalances(ctx, balances); err != nil {
		return RunSummary{}, fmt.Errorf("replace balances: %w", err)
	}
	if err := p.repo.ReplaceInvestments(ctx, positions); err != nil {
		return RunSummary{}, fmt.Errorf("replace investments: %w", err)
	}

	summary := RunSummary{
		RunDate:        time.Now().UTC(),
		Workbooks:      len(books),
		LedgerRows:     len(entries),
		BalanceRows:    len(balances),
		InvestmentRows: len(positions),
	}

	if err := p.publishRunCompleted(ctx, summary); err != nil {
		slog.ErrorContext(ctx, "Failed to publish run completed message", "error", err)
		// The fact tables are already replaced, the run still counts
		// as successful.
	}

	slog.InfoContext(ctx, "Pipeline run completed",
		"workbooks", summary.Workbooks,
		"ledger_rows", summary.LedgerRows,
		"balance_rows", summary.BalanceRows,
		"investment_rows", summary.InvestmentRows)

	return summary, nil
}

func (p *Pipeline) publishRunCompleted(ctx context.Context, s RunSummary) error {
	if p.amqpClient == nil {
		slog.WarnContext(ctx, "AMQP client not available, skipping run announcement")
		return nil
	}

	msg := amqp.NewRunCompletedMessage(s.RunDate, s.Workbooks, s.LedgerRows, s.BalanceRows, s.InvestmentRows)
	return p.amqpClient.PublishRunCompleted(ctx, msg)
}

// Close closes storage and AMQP connections
func (p *Pipeline) Close() error {
	var errs []error

	if p.repo != nil {
		if err := p.repo.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	if p.amqpClient != nil {
		if err := p.amqpClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close pipeline: %v", errs)
	}

	return nil
}
