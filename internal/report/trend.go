package report

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"fluxo/internal/core"
)

// TrendPoint is one day of the inflow-minus-outflow series.
type TrendPoint struct {
	Date  time.Time
	Value decimal.Decimal
}

// TrendSeries computes the daily net movement for the 7-day window
// ending at target (inclusive): per-day inflow minus per-day outflow,
// each side using the classification join with its own headline
// exclusion set. Days without any contributing row are omitted; the
// series is sorted chronologically ascending.
func TrendSeries(entries []core.LedgerEntry, cls core.Classification, target time.Time) []TrendPoint {
	from := target.AddDate(0, 0, -6)
	inExcl := core.HeadlineInflowExclusions()
	outExcl := core.HeadlineOutflowExclusions()

	type daySums struct {
		in, out decimal.Decimal
		any     bool
	}
	days := map[time.Time]*daySums{}

	for _, e := range entries {
		if !e.Amount.Valid || e.Date.Before(from) || e.Date.After(target) {
			continue
		}
		var contributes bool
		d, ok := days[e.Date]
		if !ok {
			d = &daySums{}
		}
		switch cls.FlowOf(e.Code) {
		case core.Inflow:
			if !inExcl.Contains(e.Code) {
				d.in = d.in.Add(e.Amount.Decimal)
				contributes = true
			}
		case core.Outflow:
			if !outExcl.Contains(e.Code) {
				d.out = d.out.Add(e.Amount.Decimal)
				contributes = true
			}
		}
		if contributes {
			d.any = true
			days[e.Date] = d
		}
	}

	points := make([]TrendPoint, 0, len(days))
	for date, d := range days {
		if !d.any {
			continue
		}
		points = append(points, TrendPoint{Date: date, Value: core.Round2(d.in.Sub(d.out))})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })
	return points
}
