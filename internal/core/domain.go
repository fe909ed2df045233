package core

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	// Raw first-cell labels used by the daily balance sheets. Matching is
	// case-sensitive against the spreadsheet content.
	OpeningLabel = "SALDO INICIAL"
	ClosingLabel = "SALDO FINAL"
)

type (
	// BalanceKind distinguishes opening from closing balance rows.
	BalanceKind string

	// EntryTypeCode is the 1-3 digit code that labels a kind of cash
	// movement, e.g. the "101" in "101 - Recebimento de Clientes". It is
	// string-typed because the workbooks carry leading zeros, but joins
	// compare numerically.
	EntryTypeCode string

	// LedgerEntry is one (entry type, day, bank) cash movement.
	// Amount is invalid when the source cell failed numeric coercion;
	// such entries must not contribute to sums as zero.
	LedgerEntry struct {
		Code   EntryTypeCode
		Date   time.Time
		Bank   string
		Amount decimal.NullDecimal
	}

	// BalanceRecord is a bank's opening or closing balance for one day.
	BalanceRecord struct {
		Kind   BalanceKind
		Date   time.Time
		Bank   string
		Amount decimal.NullDecimal
	}

	// InvestmentPosition is one row of the monthly Investimentos sheet.
	// Monetary fields default to zero so downstream sums stay
	// total-preserving; BlockedBalance and AvailableBalance are tracked
	// independently and need not sum to CurrentBalance.
	InvestmentPosition struct {
		Date               time.Time
		Bank               string
		Modality           string
		Applied            decimal.Decimal
		Redeemed           decimal.Decimal
		GrossYield         decimal.Decimal
		NetYield           decimal.Decimal
		CurrentBalance     decimal.Decimal
		Profitability      decimal.Decimal
		DailyProfitability decimal.Decimal
		BlockType          string
		BlockedBalance     decimal.Decimal
		AvailableBalance   decimal.Decimal
	}
)

const (
	Opening BalanceKind = BalanceKind(OpeningLabel)
	Closing BalanceKind = BalanceKind(ClosingLabel)
)

var (
	ErrInvalidEntryTypeCode = errors.New("invalid entry type code")
	ErrNotALedgerLabel      = errors.New("label is not a coded ledger row")
)

var (
	codePattern  = regexp.MustCompile(`^\d{1,3}$`)
	labelPattern = regexp.MustCompile(`^(\d{1,3}) - .+`)
)

// ParseEntryTypeCode validates a bare 1-3 digit code.
func ParseEntryTypeCode(s string) (EntryTypeCode, error) {
	s = strings.TrimSpace(s)
	if !codePattern.MatchString(s) {
		return "", ErrInvalidEntryTypeCode
	}
	return EntryTypeCode(s), nil
}

// EntryTypeCodeFromLabel truncates a ledger first-column label of the form
// "<code> - <description>" to its leading code. Labels that do not match
// the pattern (headers, section titles, totals) return ErrNotALedgerLabel.
func EntryTypeCodeFromLabel(label string) (EntryTypeCode, error) {
	m := labelPattern.FindStringSubmatch(strings.TrimSpace(label))
	if m == nil {
		return "", ErrNotALedgerLabel
	}
	return EntryTypeCode(m[1]), nil
}

// IsLedgerLabel reports whether a first-column cell carries a coded
// ledger row.
func IsLedgerLabel(label string) bool {
	return labelPattern.MatchString(strings.TrimSpace(label))
}

// Num returns the numeric value of the code, so "08" joins with "8".
// Returns -1 for a malformed code.
func (c EntryTypeCode) Num() int {
	n, err := strconv.Atoi(string(c))
	if err != nil {
		return -1
	}
	return n
}

func (c EntryTypeCode) String() string { return string(c) }

// BalanceKindFromLabel maps the raw first-cell label to a kind.
// The match is exact and case-sensitive.
func BalanceKindFromLabel(label string) (BalanceKind, bool) {
	switch label {
	case OpeningLabel:
		return Opening, true
	case ClosingLabel:
		return Closing, true
	}
	return "", false
}

// CanonicalBank upper-cases a bank column name into the join key shared
// by all three fact tables.
func CanonicalBank(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}
