package core

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestCoerceAmount(t *testing.T) {
	cases := []struct {
		in    string
		want  string
		valid bool
	}{
		{"1234.56", "1234.56", true},
		{"-400", "-400", true},
		{"0", "0", true},
		{"1.234,56", "1234.56", true},
		{"12,5", "12.5", true},
		{" 900.00 ", "900", true},
		{"", "", false},
		{"n/d", "", false},
		{"SALDO", "", false},
	}
	for _, c := range cases {
		got := CoerceAmount(c.in)
		if got.Valid != c.valid {
			t.Errorf("CoerceAmount(%q).Valid = %v, want %v", c.in, got.Valid, c.valid)
			continue
		}
		if c.valid {
			want, _ := decimal.NewFromString(c.want)
			if !got.Decimal.Equal(want) {
				t.Errorf("CoerceAmount(%q) = %s, want %s", c.in, got.Decimal, want)
			}
		}
	}
}

func TestCoerceAmountOrZero(t *testing.T) {
	if !CoerceAmountOrZero("garbage").IsZero() {
		t.Error("coercion failure should become zero for investment columns")
	}
	if !CoerceAmountOrZero("10.5").Equal(decimal.NewFromFloat(10.5)) {
		t.Error("valid cell should parse")
	}
}

func TestRound2(t *testing.T) {
	d := decimal.RequireFromString("10.005")
	if got := Round2(d); got.String() != "10.01" {
		t.Errorf("Round2(10.005) = %s", got)
	}
	d = decimal.RequireFromString("10.004")
	if got := Round2(d); got.String() != "10" {
		t.Errorf("Round2(10.004) = %s", got)
	}
}
