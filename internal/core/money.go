// Package core holds the fact-table row types, the entry classification
// table and the money coercion rules shared by all three normalizers.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Round2 rounds a monetary value to 2 decimal places. Aggregates call it
// at finalization only, never on intermediate sums.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// CoerceAmount parses a spreadsheet cell into a monetary value.
//
// Cells arrive as cell-formatted strings, so both "1234.56" and the
// pt-BR rendering "1.234,56" occur. A cell that cannot be parsed yields
// Valid=false; the caller decides whether missing means skip (ledger,
// balances) or zero (investment money columns).
func CoerceAmount(s string) decimal.NullDecimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.NullDecimal{}
	}
	if d, err := decimal.NewFromString(s); err == nil {
		return decimal.NullDecimal{Decimal: d, Valid: true}
	}
	if strings.Contains(s, ",") {
		// pt-BR formatting: dot thousands separator, comma decimals.
		t := strings.ReplaceAll(s, ".", "")
		t = strings.ReplaceAll(t, ",", ".")
		if d, err := decimal.NewFromString(t); err == nil {
			return decimal.NullDecimal{Decimal: d, Valid: true}
		}
	}
	return decimal.NullDecimal{}
}

// CoerceAmountOrZero is CoerceAmount with the investment-table policy:
// failures become zero so sums stay total-preserving.
func CoerceAmountOrZero(s string) decimal.Decimal {
	if v := CoerceAmount(s); v.Valid {
		return v.Decimal
	}
	return decimal.Zero
}
