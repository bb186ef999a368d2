package excel

import (
	"encoding/xml"
	"fmt"
	"strconv"
)

const generalFormat = "General"

// StylesCatalog resolves a worksheet style index into the number format and
// fill color it carries. Only solid/foreground RGB fills are resolved; theme
// and indexed colors are not.
type StylesCatalog struct {
	numberFormats map[int]string
	fills         []string // fill id → 6-digit RGB hex, "" when unresolvable
	cellXfs       []cellXf
}

type cellXf struct {
	numFmtID int
	fillID   int
}

func newStylesCatalog() *StylesCatalog {
	return &StylesCatalog{
		// Built-in formats the reference documents preload.
		numberFormats: map[int]string{
			0:  generalFormat,
			1:  "0",
			2:  "0.00",
			49: "@",
		},
	}
}

// ParseStyles parses the styles part. Empty input yields a catalog holding
// only the built-in formats, so a missing styles part degrades gracefully.
func ParseStyles(data []byte) (*StylesCatalog, error) {
	cat := newStylesCatalog()
	if len(data) == 0 {
		return cat, nil
	}

	var fillColor string

	v := &xmlVisitor{
		Start: func(el xml.StartElement, stack []string) {
			switch el.Name.Local {
			case "numFmt":
				if !stackHas(stack, "numFmts") {
					return
				}
				id, err := strconv.Atoi(attr(el, "numFmtId"))
				code := attr(el, "formatCode")
				if err == nil && code != "" {
					cat.numberFormats[id] = code
				}
			case "fill":
				if stackHas(stack, "fills") {
					fillColor = ""
				}
			case "patternFill":
				if stackHas(stack, "fills") && attr(el, "patternType") == "none" {
					fillColor = ""
				}
			case "fgColor":
				if !stackHas(stack, "fills") {
					return
				}
				// ARGB → keep the trailing RGB. Theme and indexed colors
				// carry no rgb attribute and stay unresolved.
				if rgb := attr(el, "rgb"); len(rgb) >= 6 {
					fillColor = rgb[len(rgb)-6:]
				}
			case "xf":
				if !stackHas(stack, "cellXfs") {
					return
				}
				var xf cellXf
				xf.numFmtID, _ = strconv.Atoi(attr(el, "numFmtId"))
				xf.fillID, _ = strconv.Atoi(attr(el, "fillId"))
				cat.cellXfs = append(cat.cellXfs, xf)
			}
		},
		End: func(name string, stack []string) {
			if name == "fill" && stackHas(stack, "fills") {
				cat.fills = append(cat.fills, fillColor)
				fillColor = ""
			}
		},
	}
	if err := v.walk(data); err != nil {
		return nil, fmt.Errorf("parse styles part: %w", err)
	}
	return cat, nil
}

// Resolve returns the concrete presentation record for a style index.
// Index 0 and any out-of-range index yield the "General" format and no
// background color.
func (c *StylesCatalog) Resolve(styleIndex int) CellStyle {
	style := CellStyle{NumberFormat: generalFormat}
	if styleIndex < 0 || styleIndex >= len(c.cellXfs) {
		return style
	}
	xf := c.cellXfs[styleIndex]
	if code, ok := c.numberFormats[xf.numFmtID]; ok {
		style.NumberFormat = code
	}
	if xf.fillID >= 0 && xf.fillID < len(c.fills) {
		style.BackgroundColor = c.fills[xf.fillID]
	}
	return style
}
