package excel

import (
	"math"
	"strings"
)

// Transform turns the source sheet into the output grid, applying weight
// redistribution, the box-column rule and merged-region flattening. Rows are
// consumed top to bottom until one with an empty first column is reached.
func Transform(sheet SheetReader, meta *SheetMetadata, cfg ProcessConfig, progress *Progress) ([][]StyledCellValue, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	weightCol := cfg.WeightColumn - 1
	boxCol := cfg.BoxColumn - 1

	distributions := precomputeWeightDistributions(sheet, meta, weightCol)

	var grid [][]StyledCellValue
	cols := sheet.ColCount()
	for row := 0; row < sheet.RowCount(); row++ {
		if sheet.IsEmpty(row, 0) {
			progress.Logf("row %d has an empty first column, stopping", row+1)
			break
		}
		out := make([]StyledCellValue, cols)
		for col := 0; col < cols; col++ {
			at := Coord{Row: row, Col: col}
			if region := meta.FindMergedRegion(row, col); region != nil {
				out[col] = transformMergedCell(sheet, meta, at, region, weightCol, boxCol, distributions)
			} else {
				out[col] = transformCell(sheet, meta, at, weightCol, distributions)
			}
		}
		grid = append(grid, out)
	}
	progress.Logf("processed %d data rows", len(grid))
	return grid, nil
}

// transformCell handles an unmerged cell. Image cells become empty cells
// carrying the image; image-display formulas without a resolved image vanish;
// other formulas are kept verbatim.
func transformCell(sheet SheetReader, meta *SheetMetadata, at Coord, weightCol int, distributions map[Coord]float64) StyledCellValue {
	style := styleAt(meta, at)

	if img, ok := meta.CellImages[at]; ok {
		return ImageCell(style, img)
	}
	if formula, ok := meta.CellFormulas[at]; ok {
		if isImageFormula(formula) {
			return NewStyledCell(EmptyValue(), style)
		}
		return NewStyledCell(FormulaValue(formula), style)
	}
	if at.Col == weightCol {
		if w, ok := distributions[at]; ok {
			return WeightCell(w, style)
		}
	}
	return NewStyledCell(CellValueFromString(sheet.GetString(at.Row, at.Col)), style)
}

// transformMergedCell flattens a merged-region member into a standalone cell.
// The weight column gets its redistributed share, the box column repeats the
// region's count on the first row and zero after, and every other column
// copies the region start's value and style.
func transformMergedCell(sheet SheetReader, meta *SheetMetadata, at Coord, region *MergedRegion, weightCol, boxCol int, distributions map[Coord]float64) StyledCellValue {
	start := Coord{Row: region.StartRow, Col: region.StartCol}
	startStyle := styleAt(meta, Coord{Row: region.StartRow, Col: at.Col})

	if at.Col == weightCol {
		if w, ok := distributions[at]; ok {
			return WeightCell(w, startStyle)
		}
		if w, ok := sheet.GetFloat(region.StartRow, at.Col); ok {
			return WeightCell(w, startStyle)
		}
		return WeightCell(0, startStyle)
	}

	if at.Col == boxCol {
		if at.Row == region.StartRow {
			raw := sheet.GetString(region.StartRow, at.Col)
			if raw != "" {
				return NewStyledCell(CellValueFromString(raw), startStyle)
			}
		}
		return NewStyledCell(IntegerValue(0), startStyle)
	}

	if img, ok := meta.CellImages[at]; ok {
		return ImageCell(startStyle, img)
	}
	if img, ok := meta.CellImages[start]; ok {
		return ImageCell(startStyle, img)
	}

	if formula, ok := meta.CellFormulas[at]; ok && !isImageFormula(formula) {
		return NewStyledCell(FormulaValue(formula), startStyle)
	}
	if formula, ok := meta.CellFormulas[start]; ok && !isImageFormula(formula) {
		return NewStyledCell(FormulaValue(formula), startStyle)
	}

	return NewStyledCell(CellValueFromString(sheet.GetString(region.StartRow, region.StartCol)), startStyle)
}

// precomputeWeightDistributions splits each merged weight region's total
// across its rows proportionally to the quantity column (one left of the
// weight column). A zero quantity sum distributes zeros.
func precomputeWeightDistributions(sheet SheetReader, meta *SheetMetadata, weightCol int) map[Coord]float64 {
	distributions := make(map[Coord]float64)
	quantityCol := weightCol - 1

	for _, region := range meta.MergedRegions {
		if !region.Contains(region.StartRow, weightCol) {
			continue
		}
		total, ok := sheet.GetFloat(region.StartRow, weightCol)
		if !ok {
			continue
		}

		var sum float64
		for row := region.StartRow; row <= region.EndRow; row++ {
			if q, ok := sheet.GetFloat(row, quantityCol); ok {
				sum += q
			}
		}
		if sum == 0 {
			for row := region.StartRow; row <= region.EndRow; row++ {
				distributions[Coord{Row: row, Col: weightCol}] = 0
			}
			continue
		}

		unit := total / sum
		for row := region.StartRow; row <= region.EndRow; row++ {
			q, _ := sheet.GetFloat(row, quantityCol)
			distributions[Coord{Row: row, Col: weightCol}] = roundTo2(unit * q)
		}
	}
	return distributions
}

// roundTo2 rounds half away from zero to two decimal places.
func roundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}

func styleAt(meta *SheetMetadata, at Coord) *CellStyle {
	if style, ok := meta.CellStyles[at]; ok {
		return &style
	}
	return nil
}

func isImageFormula(formula string) bool {
	return strings.Contains(formula, dispimgFunction)
}
