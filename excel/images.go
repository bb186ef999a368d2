package excel

import (
	"encoding/xml"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Image-bearing parts. All of them are optional: a container without them
// simply produces an empty graph.
const (
	cellImagesPart     = "xl/cellimages.xml"
	cellImagesRelsPart = "xl/_rels/cellimages.xml.rels"
	drawingPart        = "xl/drawings/drawing1.xml"
	drawingRelsPart    = "xl/drawings/_rels/drawing1.xml.rels"
)

// dispimgFunction names the image-display formula whose only effect is to
// render an image by an opaque identifier.
const dispimgFunction = "DISPIMG"

// ImageGraph merges the container's two image-embedding subsystems: cell
// images referenced by DISPIMG formulas, and floating drawings anchored over
// the grid. Each image id resolves to bytes through an
// id→relationship→filename chain.
type ImageGraph struct {
	idToRel          map[string]string // image id → relationship id
	relToFile        map[string]string // relationship id → media filename
	drawingRelToFile map[string]string // drawing rels, used for floating anchors
	floating         []floatingImage
	media            map[string]MediaFile
	dispimgPattern   *regexp.Regexp
}

type floatingImage struct {
	row   int
	col   int
	relID string
}

// BuildImageGraph parses the optional cell-image and drawing parts of the
// container. The cell-image subsystem is preferred for both the id map and
// the relationship map; the drawing-derived maps are the fallback when the
// former is empty.
func BuildImageGraph(pkg *Package, media map[string]MediaFile) (*ImageGraph, error) {
	cellIDs, err := parseCellImages(pkg)
	if err != nil {
		return nil, err
	}
	cellRels, err := parseRelationships(pkg, cellImagesRelsPart)
	if err != nil {
		return nil, err
	}
	drawIDs, floating, err := parseDrawing(pkg)
	if err != nil {
		return nil, err
	}
	drawRels, err := parseRelationships(pkg, drawingRelsPart)
	if err != nil {
		return nil, err
	}

	g := &ImageGraph{
		idToRel:          cellIDs,
		relToFile:        cellRels,
		drawingRelToFile: drawRels,
		floating:         floating,
		media:            media,
		dispimgPattern:   regexp.MustCompile(`DISPIMG\("([^"]+)"`),
	}
	if len(g.idToRel) == 0 {
		g.idToRel = drawIDs
	}
	if len(g.relToFile) == 0 {
		g.relToFile = drawRels
	}
	return g, nil
}

// ResolveFormulaImage resolves the image referenced by an image-display
// formula. It returns nil when the formula carries no DISPIMG token, when
// any link of the id→relationship→filename→bytes chain is missing, or when
// the resolved bytes fail the minimum-size check.
func (g *ImageGraph) ResolveFormulaImage(formula string) *EmbeddedImage {
	m := g.dispimgPattern.FindStringSubmatch(formula)
	if m == nil {
		return nil
	}
	id := m[1]
	relID, ok := g.idToRel[id]
	if !ok {
		return nil
	}
	filename, ok := g.relToFile[relID]
	if !ok {
		return nil
	}
	mf, ok := g.media[filename]
	if !ok || len(mf.Data) < minImageBytes {
		return nil
	}
	return &EmbeddedImage{ID: id, Data: mf.Data, Extension: mf.Extension}
}

// LinkFormulaImages resolves every DISPIMG formula into the cell image map.
func (g *ImageGraph) LinkFormulaImages(formulas map[Coord]string, images map[Coord]*EmbeddedImage) {
	if len(g.media) == 0 {
		return
	}
	for at, formula := range formulas {
		if !strings.Contains(formula, dispimgFunction) {
			continue
		}
		if img := g.ResolveFormulaImage(formula); img != nil {
			images[at] = img
		}
	}
}

// LinkFloatingImages attaches anchored drawings at their grid coordinates,
// resolved through the drawing relationship map. A cell already holding a
// formula-resolved image keeps it.
func (g *ImageGraph) LinkFloatingImages(images map[Coord]*EmbeddedImage) {
	if len(g.media) == 0 {
		return
	}
	for _, fi := range g.floating {
		at := Coord{Row: fi.row, Col: fi.col}
		if _, taken := images[at]; taken {
			continue
		}
		filename, ok := g.drawingRelToFile[fi.relID]
		if !ok {
			continue
		}
		mf, ok := g.media[filename]
		if !ok || len(mf.Data) < minImageBytes {
			continue
		}
		images[at] = &EmbeddedImage{
			ID:        fmt.Sprintf("floating_%d_%d_%s", fi.row, fi.col, fi.relID),
			Data:      mf.Data,
			Extension: mf.Extension,
		}
	}
}

// parseCellImages maps image ids to relationship ids from the cell-image
// part: <cellImage> carries the id on cNvPr@name and the relationship on
// blip@r:embed.
func parseCellImages(pkg *Package) (map[string]string, error) {
	idToRel := make(map[string]string)
	if !pkg.HasPart(cellImagesPart) {
		return idToRel, nil
	}
	data, err := pkg.Part(cellImagesPart)
	if err != nil {
		return nil, err
	}

	var name, embed string
	v := &xmlVisitor{
		Start: func(el xml.StartElement, stack []string) {
			switch el.Name.Local {
			case "cellImage":
				name, embed = "", ""
			case "cNvPr":
				if stackHas(stack, "cellImage") {
					name = attr(el, "name")
				}
			case "blip":
				if stackHas(stack, "cellImage") {
					embed = attr(el, "embed")
				}
			}
		},
		End: func(elName string, stack []string) {
			if elName == "cellImage" && name != "" && embed != "" {
				idToRel[name] = embed
			}
		},
	}
	if err := v.walk(data); err != nil {
		return nil, fmt.Errorf("parse cell images part: %w", err)
	}
	return idToRel, nil
}

// parseDrawing reads the drawing anchor part: floating image positions from
// the anchors' from/row and from/col, plus the drawing's own id→relationship
// map for DISPIMG fallback (ids are recognized by their ID_ prefix).
func parseDrawing(pkg *Package) (map[string]string, []floatingImage, error) {
	idToRel := make(map[string]string)
	var floating []floatingImage
	if !pkg.HasPart(drawingPart) {
		return idToRel, nil, nil
	}
	data, err := pkg.Part(drawingPart)
	if err != nil {
		return nil, nil, err
	}

	var (
		name, embed      string
		row, col         int
		haveRow, haveCol bool
	)
	inAnchor := func(stack []string) bool {
		return stackHas(stack, "twoCellAnchor") || stackHas(stack, "oneCellAnchor")
	}

	v := &xmlVisitor{
		Start: func(el xml.StartElement, stack []string) {
			switch el.Name.Local {
			case "twoCellAnchor", "oneCellAnchor":
				name, embed = "", ""
				row, col = 0, 0
				haveRow, haveCol = false, false
			case "cNvPr":
				if inAnchor(stack) && stackHas(stack, "pic") {
					name = attr(el, "name")
				}
			case "blip":
				if inAnchor(stack) && stackHas(stack, "pic") {
					embed = attr(el, "embed")
				}
			}
		},
		Text: func(text string, stack []string) {
			if !inAnchor(stack) || !stackHas(stack, "from") {
				return
			}
			text = strings.TrimSpace(text)
			if text == "" {
				return
			}
			switch top(stack) {
			case "row":
				if n, err := strconv.Atoi(text); err == nil {
					row, haveRow = n, true
				}
			case "col":
				if n, err := strconv.Atoi(text); err == nil {
					col, haveCol = n, true
				}
			}
		},
		End: func(elName string, stack []string) {
			if elName != "twoCellAnchor" && elName != "oneCellAnchor" {
				return
			}
			if haveRow && haveCol && embed != "" {
				floating = append(floating, floatingImage{row: row, col: col, relID: embed})
			}
			if strings.HasPrefix(name, "ID_") && embed != "" {
				idToRel[name] = embed
			}
		},
	}
	if err := v.walk(data); err != nil {
		return nil, nil, fmt.Errorf("parse drawing part: %w", err)
	}
	return idToRel, floating, nil
}

// parseRelationships maps relationship ids to target filenames for an
// optional rels part. Targets are reduced to their base filename so they key
// directly into the media map.
func parseRelationships(pkg *Package, partName string) (map[string]string, error) {
	relToFile := make(map[string]string)
	if !pkg.HasPart(partName) {
		return relToFile, nil
	}
	data, err := pkg.Part(partName)
	if err != nil {
		return nil, err
	}

	v := &xmlVisitor{
		Start: func(el xml.StartElement, stack []string) {
			if el.Name.Local != "Relationship" {
				return
			}
			id := attr(el, "Id")
			target := attr(el, "Target")
			if id == "" || target == "" {
				return
			}
			relToFile[id] = target[strings.LastIndex(target, "/")+1:]
		},
	}
	if err := v.walk(data); err != nil {
		return nil, fmt.Errorf("parse relationships part %s: %w", partName, err)
	}
	return relToFile, nil
}
