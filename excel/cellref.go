package excel

import (
	"fmt"
	"strings"
)

// ParseCellRef parses an A1-style cell reference into 0-based row and column
// indexes: "A1"→(0,0), "B2"→(1,1), "Z10"→(9,25), "AA1"→(0,26).
func ParseCellRef(ref string) (row, col int, err error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return 0, 0, fmt.Errorf("empty cell reference")
	}

	i := 0
	for i < len(ref) && isAlpha(ref[i]) {
		i++
	}
	if i == 0 || i == len(ref) {
		return 0, 0, fmt.Errorf("invalid cell reference: %q", ref)
	}

	col, err = NameToCol(ref[:i])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid cell reference %q: %w", ref, err)
	}

	rowNum := 0
	for _, ch := range ref[i:] {
		if ch < '0' || ch > '9' {
			return 0, 0, fmt.Errorf("invalid row in cell reference: %q", ref)
		}
		rowNum = rowNum*10 + int(ch-'0')
	}
	if rowNum < 1 {
		return 0, 0, fmt.Errorf("invalid row number in cell reference: %q", ref)
	}

	return rowNum - 1, col, nil // 1-based row to 0-based
}

// ParseCellRange parses a range reference like "A1:B3" into a MergedRegion
// with 0-based inclusive bounds (rows 0-2, cols 0-1 for "A1:B3").
func ParseCellRange(s string) (MergedRegion, error) {
	parts := strings.SplitN(strings.TrimSpace(s), ":", 2)
	if len(parts) != 2 {
		return MergedRegion{}, fmt.Errorf("invalid range reference (missing ':'): %q", s)
	}

	startRow, startCol, err := ParseCellRef(parts[0])
	if err != nil {
		return MergedRegion{}, fmt.Errorf("invalid range reference %q: %w", s, err)
	}
	endRow, endCol, err := ParseCellRef(parts[1])
	if err != nil {
		return MergedRegion{}, fmt.Errorf("invalid range reference %q: %w", s, err)
	}

	return MergedRegion{
		StartRow: startRow,
		StartCol: startCol,
		EndRow:   endRow,
		EndCol:   endCol,
	}, nil
}

func isAlpha(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

// ColToName converts a 0-based column index to a column name.
// 0→"A", 25→"Z", 26→"AA", 702→"AAA"
func ColToName(col int) string {
	result := ""
	col++ // 1-based for the base-26 walk
	for col > 0 {
		col--
		result = string(rune('A'+col%26)) + result
		col /= 26
	}
	return result
}

// NameToCol converts a column name to a 0-based column index.
// "A"→0, "Z"→25, "AA"→26
func NameToCol(name string) (int, error) {
	name = strings.ToUpper(name)
	if name == "" {
		return 0, fmt.Errorf("empty column name")
	}
	col := 0
	for _, ch := range name {
		if ch < 'A' || ch > 'Z' {
			return 0, fmt.Errorf("invalid column name: %q", name)
		}
		col = col*26 + int(ch-'A') + 1
	}
	return col - 1, nil
}
