// Package storage persists the three normalized fact tables in SQLite.
// Every pipeline run replaces each table wholesale; the store never
// merges increments, so readers always see one run's complete,
// consistent output.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"

	"fluxo/internal/core"

	_ "modernc.org/sqlite"
)

const dateLayout = "2006-01-02"

type Repository struct {
	db *sql.DB
}

// NewRepository opens (creating if needed) the SQLite database and runs
// migrations.
func NewRepository(dbPath string) (*Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// ReplaceLedger overwrites the ledger fact table with one run's rows.
func (r *Repository) ReplaceLedger(ctx context.Context, entries []core.LedgerEntry) error {
	err := r.replace(ctx, "fluxo_lancamentos",
		"INSERT INTO fluxo_lancamentos (tipo_de_compromisso, data, banco, valor) VALUES (?, ?, ?, ?)",
		len(entries),
		func(i int) []any {
			e := entries[i]
			return []any{e.Code.String(), e.Date.Format(dateLayout), e.Bank, nullAmount(e.Amount)}
		})
	if err != nil {
		return fmt.Errorf("replace ledger: %w", err)
	}
	slog.InfoContext(ctx, "Ledger table replaced", "rows", len(entries))
	return nil
}

// ReplaceBalances overwrites the balance fact table.
func (r *Repository) ReplaceBalances(ctx context.Context, records []core.BalanceRecord) error {
	err := r.replace(ctx, "fluxo_saldos",
		"INSERT INTO fluxo_saldos (saldo_final_inicial, data, banco, valor) VALUES (?, ?, ?, ?)",
		len(records),
		func(i int) []any {
			b := records[i]
			return []any{string(b.Kind), b.Date.Format(dateLayout), b.Bank, nullAmount(b.Amount)}
		})
	if err != nil {
		return fmt.Errorf("replace balances: %w", err)
	}
	slog.InfoContext(ctx, "Balance table replaced", "rows", len(records))
	return nil
}

// ReplaceInvestments overwrites the investment fact table.
func (r *Repository) ReplaceInvestments(ctx context.Context, positions []core.InvestmentPosition) error {
	err := r.replace(ctx, "fluxo_investimentos",
		`INSERT INTO fluxo_investimentos (
			data, banco, modalidade, aplicacao, resgate, rendimento_bruto,
			rendimento_liquido, saldo_atual, rentabilidade, rentabilidade_dia,
			tipo_de_bloqueio, saldo_bloqueado, saldo_disponivel
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		len(positions),
		func(i int) []any {
			p := positions[i]
			return []any{
				p.Date.Format(dateLayout), p.Bank, p.Modality,
				p.Applied.String(), p.Redeemed.String(), p.GrossYield.String(),
				p.NetYield.String(), p.CurrentBalance.String(), p.Profitability.String(),
				p.DailyProfitability.String(), p.BlockType, p.BlockedBalance.String(),
				p.AvailableBalance.String(),
			}
		})
	if err != nil {
		return fmt.Errorf("replace investments: %w", err)
	}
	slog.InfoContext(ctx, "Investment table replaced", "rows", len(positions))
	return nil
}

// replace deletes a fact table's contents and inserts the new rows in a
// single transaction.
func (r *Repository) replace(ctx context.Context, table, insert string, n int, args func(int) []any) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
		return fmt.Errorf("clear %s: %w", table, err)
	}

	stmt, err := tx.PrepareContext(ctx, insert)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i := 0; i < n; i++ {
		if _, err := stmt.ExecContext(ctx, args(i)...); err != nil {
			return fmt.Errorf("insert row %d into %s: %w", i, table, err)
		}
	}

	return tx.Commit()
}

// LedgerBetween loads ledger entries with from <= date <= to.
func (r *Repository) LedgerBetween(ctx context.Context, from, to time.Time) ([]core.LedgerEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT tipo_de_compromisso, data, banco, valor FROM fluxo_lancamentos WHERE data BETWEEN ? AND ?",
		from.Format(dateLayout), to.Format(dateLayout))
	if err != nil {
		return nil, fmt.Errorf("query ledger: %w", err)
	}
	defer rows.Close()

	var entries []core.LedgerEntry
	for rows.Next() {
		var (
			code, day, bank string
			valor           sql.NullString
		)
		if err := rows.Scan(&code, &day, &bank, &valor); err != nil {
			return nil, fmt.Errorf("scan ledger row: %w", err)
		}
		date, err := time.Parse(dateLayout, day)
		if err != nil {
			return nil, fmt.Errorf("parse ledger date %q: %w", day, err)
		}
		entries = append(entries, core.LedgerEntry{
			Code:   core.EntryTypeCode(code),
			Date:   date,
			Bank:   bank,
			Amount: parseAmount(valor),
		})
	}
	return entries, rows.Err()
}

// BalancesBetween loads balance records with from <= date <= to.
func (r *Repository) BalancesBetween(ctx context.Context, from, to time.Time) ([]core.BalanceRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT saldo_final_inicial, data, banco, valor FROM fluxo_saldos WHERE data BETWEEN ? AND ?",
		from.Format(dateLayout), to.Format(dateLayout))
	if err != nil {
		return nil, fmt.Errorf("query balances: %w", err)
	}
	defer rows.Close()

	var records []core.BalanceRecord
	for rows.Next() {
		var (
			kind, day, bank string
			valor           sql.NullString
		)
		if err := rows.Scan(&kind, &day, &bank, &valor); err != nil {
			return nil, fmt.Errorf("scan balance row: %w", err)
		}
		date, err := time.Parse(dateLayout, day)
		if err != nil {
			return nil, fmt.Errorf("parse balance date %q: %w", day, err)
		}
		records = append(records, core.BalanceRecord{
			Kind:   core.BalanceKind(kind),
			Date:   date,
			Bank:   bank,
			Amount: parseAmount(valor),
		})
	}
	return records, rows.Err()
}

// InvestmentsBetween loads investment positions with from <= date <= to.
func (r *Repository) InvestmentsBetween(ctx context.Context, from, to time.Time) ([]core.InvestmentPosition, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT data, banco, modalidade, aplicacao, resgate, rendimento_bruto,
			rendimento_liquido, saldo_atual, rentabilidade, rentabilidade_dia,
			tipo_de_bloqueio, saldo_bloqueado, saldo_disponivel
		FROM fluxo_investimentos WHERE data BETWEEN ? AND ?`,
		from.Format(dateLayout), to.Format(dateLayout))
	if err != nil {
		return nil, fmt.Errorf("query investments: %w", err)
	}
	defer rows.Close()

	var positions []core.InvestmentPosition
	for rows.Next() {
		var day, bank, modality, blockType string
		var applied, redeemed, gross, net, current, prof, daily, blocked, available string
		if err := rows.Scan(&day, &bank, &modality, &applied, &redeemed, &gross,
			&net, &current, &prof, &daily, &blockType, &blocked, &available); err != nil {
			return nil, fmt.Errorf("scan investment row: %w", err)
		}
		date, err := time.Parse(dateLayout, day)
		if err != nil {
			return nil, fmt.Errorf("parse investment date %q: %w", day, err)
		}
		positions = append(positions, core.InvestmentPosition{
			Date:               date,
			Bank:               bank,
			Modality:           modality,
			Applied:            mustDecimal(applied),
			Redeemed:           mustDecimal(redeemed),
			GrossYield:         mustDecimal(gross),
			NetYield:           mustDecimal(net),
			CurrentBalance:     mustDecimal(current),
			Profitability:      mustDecimal(prof),
			DailyProfitability: mustDecimal(daily),
			BlockType:          blockType,
			BlockedBalance:     mustDecimal(blocked),
			AvailableBalance:   mustDecimal(available),
		})
	}
	return positions, rows.Err()
}

// nullAmount maps a missing amount to SQL NULL; amounts are stored as
// exact decimal strings.
func nullAmount(d decimal.NullDecimal) any {
	if !d.Valid {
		return nil
	}
	return d.Decimal.String()
}

func parseAmount(s sql.NullString) decimal.NullDecimal {
	if !s.Valid {
		return decimal.NullDecimal{}
	}
	d, err := decimal.NewFromString(s.String)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}
}

func mustDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
