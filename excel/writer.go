package excel

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"

	"github.com/xuri/excelize/v2"
)

const (
	// Embedded images are scaled down to fit this square, in pixels.
	imageTargetPx = 18.0
	imageOffsetX  = 21
	imageOffsetY  = 4

	outputRowHeight    = 20.0
	weightNumberFormat = "0.00"
)

// WorkbookWriter renders a transformed grid into a fresh workbook, recreating
// preserved styles and re-embedding images cell by cell.
type WorkbookWriter struct {
	file       *excelize.File
	sheet      string
	styleCache map[string]int
}

// NewWorkbookWriter creates a workbook with a single named sheet.
func NewWorkbookWriter(sheet string) (*WorkbookWriter, error) {
	f := excelize.NewFile()
	if sheet != "Sheet1" {
		if err := f.SetSheetName("Sheet1", sheet); err != nil {
			f.Close()
			return nil, fmt.Errorf("%w: rename sheet: %v", ErrWrite, err)
		}
	}
	return &WorkbookWriter{file: f, sheet: sheet, styleCache: make(map[string]int)}, nil
}

// WriteGrid writes the full grid: column widths first, then per row a fixed
// height and each cell's value, style and image. Image embedding failures are
// logged and the cell degrades to empty.
func (w *WorkbookWriter) WriteGrid(grid [][]StyledCellValue, meta *SheetMetadata, progress *Progress) error {
	if len(grid) == 0 {
		return nil
	}

	cols := 0
	for _, row := range grid {
		if len(row) > cols {
			cols = len(row)
		}
	}
	for col := 0; col < cols; col++ {
		name := ColToName(col)
		if err := w.file.SetColWidth(w.sheet, name, name, meta.ColumnWidth(col)); err != nil {
			return fmt.Errorf("%w: set width of column %s: %v", ErrWrite, name, err)
		}
	}

	for rowIdx, row := range grid {
		if err := w.file.SetRowHeight(w.sheet, rowIdx+1, outputRowHeight); err != nil {
			return fmt.Errorf("%w: set height of row %d: %v", ErrWrite, rowIdx+1, err)
		}
		for colIdx, cell := range row {
			if cell.Image != nil {
				if err := w.embedImage(rowIdx, colIdx, cell.Image); err != nil {
					progress.Logf("embed image at (%d, %d) failed: %v", rowIdx+1, colIdx+1, err)
				}
			}
			if err := w.writeCell(rowIdx, colIdx, cell); err != nil {
				return err
			}
		}
	}
	return nil
}

func (w *WorkbookWriter) writeCell(row, col int, cell StyledCellValue) error {
	ref := ColToName(col) + fmt.Sprint(row+1)

	styleID, err := w.styleID(cell)
	if err != nil {
		return err
	}
	if err := w.file.SetCellStyle(w.sheet, ref, ref, styleID); err != nil {
		return fmt.Errorf("%w: style cell %s: %v", ErrWrite, ref, err)
	}

	switch cell.Value.Kind {
	case CellString:
		err = w.file.SetCellStr(w.sheet, ref, cell.Value.Str)
	case CellNumber:
		err = w.file.SetCellFloat(w.sheet, ref, cell.Value.Num, -1, 64)
	case CellInteger:
		err = w.file.SetCellInt(w.sheet, ref, cell.Value.Int)
	case CellFormula:
		err = w.file.SetCellFormula(w.sheet, ref, strings.TrimPrefix(cell.Value.Str, "="))
	default:
		err = w.file.SetCellStr(w.sheet, ref, "")
	}
	if err != nil {
		return fmt.Errorf("%w: write cell %s: %v", ErrWrite, ref, err)
	}
	return nil
}

// styleID builds (or reuses) the workbook style for a cell: centered wrapped
// alignment, thin borders on all sides, the preserved number format and fill.
// Weight cells force the 2-decimal format regardless of the source format.
func (w *WorkbookWriter) styleID(cell StyledCellValue) (int, error) {
	var numFmt, bg string
	if cell.Style != nil {
		numFmt = cell.Style.NumberFormat
		bg = cell.Style.BackgroundColor
	}
	if cell.IsWeightCell {
		numFmt = weightNumberFormat
	}
	if numFmt == generalFormat {
		numFmt = ""
	}

	key := numFmt + "|" + bg
	if id, ok := w.styleCache[key]; ok {
		return id, nil
	}

	style := &excelize.Style{
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
			WrapText:   true,
		},
		Border: []excelize.Border{
			{Type: "left", Style: 1, Color: "000000"},
			{Type: "right", Style: 1, Color: "000000"},
			{Type: "top", Style: 1, Color: "000000"},
			{Type: "bottom", Style: 1, Color: "000000"},
		},
	}
	if numFmt != "" {
		style.CustomNumFmt = &numFmt
	}
	if bg != "" {
		style.Fill = excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{bg}}
	}

	id, err := w.file.NewStyle(style)
	if err != nil {
		return 0, fmt.Errorf("%w: build style: %v", ErrWrite, err)
	}
	w.styleCache[key] = id
	return id, nil
}

// embedImage anchors the image at the cell, scaled to fit the target square.
func (w *WorkbookWriter) embedImage(row, col int, img *EmbeddedImage) error {
	if len(img.Data) < minImageBytes {
		return fmt.Errorf("%w: image %s is too small to embed", ErrImage, img.ID)
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(img.Data))
	if err != nil {
		return fmt.Errorf("%w: decode image %s: %v", ErrImage, img.ID, err)
	}
	scale := 1.0
	if cfg.Width > 0 && cfg.Height > 0 {
		scale = imageTargetPx / float64(cfg.Width)
		if s := imageTargetPx / float64(cfg.Height); s < scale {
			scale = s
		}
	}

	ref := ColToName(col) + fmt.Sprint(row+1)
	err = w.file.AddPictureFromBytes(w.sheet, ref, &excelize.Picture{
		Extension: "." + img.Extension,
		File:      img.Data,
		Format: &excelize.GraphicOptions{
			ScaleX:  scale,
			ScaleY:  scale,
			OffsetX: imageOffsetX,
			OffsetY: imageOffsetY,
		},
	})
	if err != nil {
		return fmt.Errorf("%w: embed image %s at %s: %v", ErrImage, img.ID, ref, err)
	}
	return nil
}

// SaveAs writes the workbook to disk.
func (w *WorkbookWriter) SaveAs(path string) error {
	if err := w.file.SaveAs(path); err != nil {
		return fmt.Errorf("%w: save workbook %s: %v", ErrWrite, path, err)
	}
	return nil
}

// Write streams the workbook to an io.Writer.
func (w *WorkbookWriter) Write(out io.Writer) error {
	if err := w.file.Write(out); err != nil {
		return fmt.Errorf("%w: write workbook: %v", ErrWrite, err)
	}
	return nil
}

// Close releases the underlying workbook resources.
func (w *WorkbookWriter) Close() error {
	return w.file.Close()
}
