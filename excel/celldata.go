package excel

import "strconv"

// Coord addresses a single cell with 0-based row and column indexes.
type Coord struct {
	Row int
	Col int
}

// CellStyle holds the presentation facts preserved from a source cell.
// Only non-default styles are recorded, to bound memory.
type CellStyle struct {
	NumberFormat    string // number format code; "General" or "" means default
	BackgroundColor string // fill color as 6-digit RGB hex, "" when none
}

// IsDefault reports whether the style carries nothing worth preserving.
func (s CellStyle) IsDefault() bool {
	return (s.NumberFormat == "" || s.NumberFormat == generalFormat) && s.BackgroundColor == ""
}

// EmbeddedImage is a resolved source image ready for re-embedding.
type EmbeddedImage struct {
	ID        string
	Data      []byte
	Extension string // container extension without the dot: png, jpg, ...
}

// MergedRegion is a rectangular block of cells presented as one visual cell,
// data-anchored at its top-left coordinate. Bounds are 0-based and inclusive.
// Regions are assumed non-overlapping; this is not enforced.
type MergedRegion struct {
	StartRow int
	StartCol int
	EndRow   int
	EndCol   int
}

// Contains reports whether the coordinate lies inside the region.
func (m MergedRegion) Contains(row, col int) bool {
	return row >= m.StartRow && row <= m.EndRow &&
		col >= m.StartCol && col <= m.EndCol
}

// CellKind discriminates the value carried by a CellValue.
type CellKind int

const (
	CellEmpty CellKind = iota
	CellString
	CellNumber
	CellInteger
	CellFormula
)

// CellValue is a typed output cell value.
type CellValue struct {
	Kind CellKind
	Str  string  // CellString and CellFormula payload
	Num  float64 // CellNumber payload
	Int  int64   // CellInteger payload
}

// EmptyValue returns a CellValue holding nothing.
func EmptyValue() CellValue { return CellValue{Kind: CellEmpty} }

// StringValue returns a CellValue holding a string.
func StringValue(s string) CellValue { return CellValue{Kind: CellString, Str: s} }

// NumberValue returns a CellValue holding a float.
func NumberValue(f float64) CellValue { return CellValue{Kind: CellNumber, Num: f} }

// IntegerValue returns a CellValue holding an integer.
func IntegerValue(i int64) CellValue { return CellValue{Kind: CellInteger, Int: i} }

// FormulaValue returns a CellValue holding a formula (with or without the
// leading "=").
func FormulaValue(f string) CellValue { return CellValue{Kind: CellFormula, Str: f} }

// CellValueFromString sniffs the type of a raw cell string: integer first,
// then float, then non-empty string; an empty string is an empty cell.
func CellValueFromString(s string) CellValue {
	if s == "" {
		return EmptyValue()
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return IntegerValue(i)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return NumberValue(f)
	}
	return StringValue(s)
}

// StyledCellValue is one output grid cell: the computed value plus the
// presentation preserved from the source.
type StyledCellValue struct {
	Value        CellValue
	Style        *CellStyle
	IsWeightCell bool // forces the 2-decimal weight format on write
	Image        *EmbeddedImage
}

// NewStyledCell pairs a value with a preserved style.
func NewStyledCell(value CellValue, style *CellStyle) StyledCellValue {
	return StyledCellValue{Value: value, Style: style}
}

// WeightCell builds a redistributed-weight cell.
func WeightCell(value float64, style *CellStyle) StyledCellValue {
	return StyledCellValue{Value: NumberValue(value), Style: style, IsWeightCell: true}
}

// ImageCell builds an empty cell tagged with an image to embed.
func ImageCell(style *CellStyle, image *EmbeddedImage) StyledCellValue {
	return StyledCellValue{Value: EmptyValue(), Style: style, Image: image}
}
