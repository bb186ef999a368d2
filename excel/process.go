package excel

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ProcessResult reports a completed run.
type ProcessResult struct {
	OutputPath string
	Logs       []string
}

// ProcessFile runs the full pipeline on one workbook: read values, extract
// metadata, transform, and write the split file next to the input.
func ProcessFile(path string, cfg ProcessConfig) (*ProcessResult, error) {
	progress := &Progress{}
	progress.Logf("processing %s", path)
	progress.Logf("process type: %s", cfg.ProcessType)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	sheet, err := OpenFirstSheet(path)
	if err != nil {
		return nil, err
	}
	progress.Logf("source sheet: %d rows x %d columns", sheet.RowCount(), sheet.ColCount())

	pkg, err := OpenPackage(path)
	if err != nil {
		return nil, err
	}
	meta, err := ParseSheetMetadata(pkg)
	if err != nil {
		return nil, err
	}
	progress.Logf("found %d merged regions", len(meta.MergedRegions))
	progress.Logf("found %d embedded images", len(meta.CellImages))
	for _, c := range meta.ConvertedImages {
		progress.Logf("converted image %s", c)
	}
	for _, u := range meta.UnsupportedImages {
		progress.Logf("skipped unsupported image %s", u)
	}
	if !cfg.CopyImages && len(meta.CellImages) > 0 {
		progress.Logf("image copying disabled, dropping %d images", len(meta.CellImages))
		meta.CellImages = make(map[Coord]*EmbeddedImage)
	}

	grid, err := Transform(sheet, meta, cfg, progress)
	if err != nil {
		return nil, err
	}

	outputPath, err := outputPathFor(path)
	if err != nil {
		return nil, err
	}
	progress.Logf("output file: %s", outputPath)

	writer, err := NewWorkbookWriter("Sheet1")
	if err != nil {
		return nil, err
	}
	defer writer.Close()

	images := 0
	for _, row := range grid {
		for _, cell := range row {
			if cell.Image != nil {
				images++
			}
		}
	}
	progress.Logf("%d images to embed", images)

	if err := writer.WriteGrid(grid, meta, progress); err != nil {
		return nil, err
	}
	progress.Logf("saving file")
	if err := writer.SaveAs(outputPath); err != nil {
		return nil, err
	}
	progress.Logf("done")

	return &ProcessResult{OutputPath: outputPath, Logs: progress.Lines()}, nil
}

// outputPathFor places the split file next to the input, suffixing the stem.
func outputPathFor(inputPath string) (string, error) {
	dir := filepath.Dir(inputPath)
	base := filepath.Base(inputPath)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	if stem == "" {
		return "", fmt.Errorf("%w: input path %q has no file name", ErrValidation, inputPath)
	}
	if ext == "" {
		ext = ".xlsx"
	}
	return filepath.Join(dir, stem+"_拆分表"+ext), nil
}
