// Package workbook locates monthly cash-flow workbooks on disk and reads
// their sheets as raw cell grids.
package workbook

import (
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"time"
)

// DayLayout is the sheet-name format of the daily sheets.
const DayLayout = "02-01-2006"

// InvestmentsSheet is the fixed per-workbook investments sheet name.
const InvestmentsSheet = "Investimentos"

// filePattern scopes a directory entry into the pipeline: the monthly
// report name, a two-digit month, a four-digit year and an optional
// "atualizado" revision suffix.
var filePattern = regexp.MustCompile(`^Fluxo de Caixa Diário (\d{2})-(\d{4})( atualizado)?\.xlsx$`)

// Workbook is one in-scope monthly file.
type Workbook struct {
	Path  string
	Name  string
	Month time.Time // first day of the workbook's month, UTC midnight
	Days  []string  // DD-MM-YYYY sheet labels, 1st through month end
}

// Discover scans dir for workbooks matching the monthly naming pattern
// and enumerates each one's calendar days, rolled forward to the true
// month end. A directory with no matching files yields an empty slice,
// not an error. A month present both with and without the "atualizado"
// suffix is returned twice; de-duplication is the caller's policy.
func Discover(dir string) ([]Workbook, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var books []Workbook
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		m := filePattern.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		month, err := time.Parse("01-2006", m[1]+"-"+m[2])
		if err != nil {
			slog.Warn("Skipping workbook with unparsable month", "file", e.Name(), "error", err)
			continue
		}
		books = append(books, Workbook{
			Path:  filepath.Join(dir, e.Name()),
			Name:  e.Name(),
			Month: month,
			Days:  MonthDays(month),
		})
	}

	sort.Slice(books, func(i, j int) bool {
		if !books[i].Month.Equal(books[j].Month) {
			return books[i].Month.Before(books[j].Month)
		}
		return books[i].Name < books[j].Name
	})
	return books, nil
}

// MonthEnd returns the last calendar day of t's month at UTC midnight.
func MonthEnd(t time.Time) time.Time {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	return first.AddDate(0, 1, -1)
}

// MonthDays enumerates the DD-MM-YYYY labels from the first day of t's
// month through the rolled-forward month end.
func MonthDays(t time.Time) []string {
	day := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := MonthEnd(day)

	var days []string
	for !day.After(end) {
		days = append(days, day.Format(DayLayout))
		day = day.AddDate(0, 0, 1)
	}
	return days
}

// ParseDay parses a DD-MM-YYYY sheet label into a UTC date.
func ParseDay(label string) (time.Time, error) {
	return time.Parse(DayLayout, label)
}
