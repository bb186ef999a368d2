package excel

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// SheetReader exposes the raw cell values of the source worksheet. The
// transform engine consumes it alongside the metadata index; it never sees
// styles or images through this interface.
type SheetReader interface {
	GetString(row, col int) string
	GetFloat(row, col int) (float64, bool)
	RowCount() int
	ColCount() int
	IsEmpty(row, col int) bool
}

// GridSheet is a SheetReader over an in-memory string grid.
type GridSheet struct {
	rows [][]string
	cols int
}

// OpenFirstSheet reads the first sheet of the workbook at path into memory.
func OpenFirstSheet(path string) (*GridSheet, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open workbook %s: %v", ErrFile, path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook %s has no sheets", ErrFile, path)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: read sheet %q: %v", ErrFile, sheets[0], err)
	}
	return NewGridSheet(rows), nil
}

// NewGridSheet wraps a raw string grid. Rows may be ragged; missing cells
// read as empty.
func NewGridSheet(rows [][]string) *GridSheet {
	cols := 0
	for _, row := range rows {
		if len(row) > cols {
			cols = len(row)
		}
	}
	return &GridSheet{rows: rows, cols: cols}
}

func (s *GridSheet) cell(row, col int) string {
	if row < 0 || row >= len(s.rows) {
		return ""
	}
	r := s.rows[row]
	if col < 0 || col >= len(r) {
		return ""
	}
	return r[col]
}

// GetString returns the raw string at a coordinate, "" when empty.
func (s *GridSheet) GetString(row, col int) string { return s.cell(row, col) }

// GetFloat parses the cell as a float; ok is false for empty or non-numeric
// cells.
func (s *GridSheet) GetFloat(row, col int) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s.cell(row, col)), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// RowCount returns the sheet's structural row extent.
func (s *GridSheet) RowCount() int { return len(s.rows) }

// ColCount returns the widest row's column extent.
func (s *GridSheet) ColCount() int { return s.cols }

// IsEmpty reports whether the cell holds no value.
func (s *GridSheet) IsEmpty(row, col int) bool { return s.cell(row, col) == "" }
