package workbook

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// File wraps an open xlsx workbook. The normalizers only ever need the
// raw cell grid of one sheet at a time.
type File struct {
	f *excelize.File
}

// Open opens a workbook for reading.
func Open(path string) (*File, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	return &File{f: f}, nil
}

// HasSheet reports whether the workbook contains a sheet with the given
// name. Day sheets come and go with the calendar, so a missing sheet is
// expected and handled by callers as skip-and-continue.
func (w *File) HasSheet(name string) bool {
	idx, err := w.f.GetSheetIndex(name)
	return err == nil && idx >= 0
}

// Rows returns the sheet's cells as formatted strings, one slice per
// row. Trailing empty cells are absent, so rows are ragged and callers
// must bounds-check column indexes.
func (w *File) Rows(sheet string) ([][]string, error) {
	rows, err := w.f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	return rows, nil
}

// Close releases the underlying file.
func (w *File) Close() error {
	if w.f == nil {
		return nil
	}
	return w.f.Close()
}
