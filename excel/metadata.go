package excel

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"
)

const (
	worksheetPart = "xl/worksheets/sheet1.xml"
	stylesPart    = "xl/styles.xml"

	// Excel's stock column width in character units, used when the sheet
	// declares no default of its own.
	fallbackColumnWidth = 8.43
)

// SheetMetadata aggregates everything a plain value reader cannot see about
// the first worksheet: merged regions, column widths, per-cell styles,
// formulas and images, plus the media-conversion diagnostics. It is built
// once per request and treated as immutable afterwards.
type SheetMetadata struct {
	MergedRegions      []MergedRegion
	ColumnWidths       map[int]float64 // 0-based column → explicit width
	DefaultColumnWidth float64
	CellStyles         map[Coord]CellStyle
	CellFormulas       map[Coord]string // verbatim formula, leading "=" normalized on
	CellImages         map[Coord]*EmbeddedImage
	ConvertedImages    []string
	UnsupportedImages  []string
}

// FindMergedRegion returns the merged region containing the coordinate, or
// nil when the cell is unmerged.
func (m *SheetMetadata) FindMergedRegion(row, col int) *MergedRegion {
	for i := range m.MergedRegions {
		if m.MergedRegions[i].Contains(row, col) {
			return &m.MergedRegions[i]
		}
	}
	return nil
}

// ColumnWidth returns the explicit width for a column, else the sheet-wide
// default.
func (m *SheetMetadata) ColumnWidth(col int) float64 {
	if w, ok := m.ColumnWidths[col]; ok {
		return w
	}
	return m.DefaultColumnWidth
}

// ParseSheetMetadata extracts the presentation metadata for the first
// worksheet, combining the styles, media and image subsystems over the one
// shared archive handle. Only the worksheet part is required; every other
// part is optional and degrades to an empty result.
func ParseSheetMetadata(pkg *Package) (*SheetMetadata, error) {
	styles := newStylesCatalog()
	if pkg.HasPart(stylesPart) {
		data, err := pkg.Part(stylesPart)
		if err != nil {
			return nil, err
		}
		styles, err = ParseStyles(data)
		if err != nil {
			return nil, err
		}
	}

	media, converted, unsupported := ScanMedia(pkg)

	graph, err := BuildImageGraph(pkg, media)
	if err != nil {
		return nil, err
	}

	sheetXML, err := pkg.Part(worksheetPart)
	if err != nil {
		return nil, fmt.Errorf("required worksheet part: %w", err)
	}
	meta, err := parseWorksheet(sheetXML, styles)
	if err != nil {
		return nil, err
	}

	graph.LinkFormulaImages(meta.CellFormulas, meta.CellImages)
	graph.LinkFloatingImages(meta.CellImages)

	meta.ConvertedImages = converted
	meta.UnsupportedImages = unsupported
	return meta, nil
}

// parseWorksheet streams the worksheet XML and collects merged regions,
// column widths, per-cell style indexes (resolved through the catalog and
// recorded only when non-default) and per-cell formulas.
func parseWorksheet(data []byte, styles *StylesCatalog) (*SheetMetadata, error) {
	meta := &SheetMetadata{
		ColumnWidths:       make(map[int]float64),
		DefaultColumnWidth: fallbackColumnWidth,
		CellStyles:         make(map[Coord]CellStyle),
		CellFormulas:       make(map[Coord]string),
		CellImages:         make(map[Coord]*EmbeddedImage),
	}

	var (
		cellRef    string
		styleIndex int
		hasStyle   bool
		formula    strings.Builder
		inFormula  bool
	)

	v := &xmlVisitor{
		Start: func(el xml.StartElement, stack []string) {
			switch el.Name.Local {
			case "mergeCell":
				if region, err := ParseCellRange(attr(el, "ref")); err == nil {
					meta.MergedRegions = append(meta.MergedRegions, region)
				}
			case "sheetFormatPr":
				if w, err := strconv.ParseFloat(attr(el, "defaultColWidth"), 64); err == nil {
					meta.DefaultColumnWidth = w
				}
			case "col":
				if !stackHas(stack, "cols") {
					return
				}
				min, errMin := strconv.Atoi(attr(el, "min"))
				max, errMax := strconv.Atoi(attr(el, "max"))
				width, errWidth := strconv.ParseFloat(attr(el, "width"), 64)
				if errMin != nil || errMax != nil || errWidth != nil {
					return
				}
				for c := min; c <= max; c++ {
					meta.ColumnWidths[c-1] = width // attrs are 1-based
				}
			case "c":
				if !stackHas(stack, "sheetData") {
					return
				}
				cellRef = attr(el, "r")
				styleIndex, hasStyle = 0, false
				if s := attr(el, "s"); s != "" {
					if idx, err := strconv.Atoi(s); err == nil {
						styleIndex, hasStyle = idx, true
					}
				}
				formula.Reset()
				inFormula = false
			case "f":
				if stackHas(stack, "c") {
					formula.Reset()
					inFormula = true
				}
			}
		},
		Text: func(text string, stack []string) {
			if inFormula && top(stack) == "f" {
				formula.WriteString(text)
			}
		},
		End: func(name string, stack []string) {
			switch name {
			case "f":
				inFormula = false
			case "c":
				if !stackHas(stack, "sheetData") || cellRef == "" {
					return
				}
				row, col, err := ParseCellRef(cellRef)
				if err != nil {
					return
				}
				at := Coord{Row: row, Col: col}
				if hasStyle {
					if style := styles.Resolve(styleIndex); !style.IsDefault() {
						meta.CellStyles[at] = style
					}
				}
				if f := formula.String(); f != "" {
					meta.CellFormulas[at] = "=" + f
				}
				cellRef = ""
				formula.Reset()
			}
		},
	}
	if err := v.walk(data); err != nil {
		return nil, fmt.Errorf("parse worksheet part: %w", err)
	}
	return meta, nil
}
