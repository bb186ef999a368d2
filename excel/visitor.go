package excel

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
)

// xmlVisitor walks an XML document as a token stream while tracking the stack
// of open element local names. Handlers receive the stack with the current
// element last. One visitor serves every document part, replacing the
// per-part boolean state machines a naive port would carry.
type xmlVisitor struct {
	Start func(el xml.StartElement, stack []string)
	Text  func(text string, stack []string)
	End   func(name string, stack []string)
}

// walk streams the document through the handlers. Malformed XML yields an
// ErrParse-wrapped error.
func (v *xmlVisitor) walk(data []byte) error {
	dec := xml.NewDecoder(bytes.NewReader(data))
	var stack []string
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%w: %v", ErrParse, err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			stack = append(stack, t.Name.Local)
			if v.Start != nil {
				v.Start(t, stack)
			}
		case xml.CharData:
			if v.Text != nil && len(stack) > 0 {
				v.Text(string(t), stack)
			}
		case xml.EndElement:
			if v.End != nil {
				v.End(t.Name.Local, stack)
			}
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		}
	}
}

// attr returns the value of the named attribute, matching on the local name
// so namespace prefixes (r:embed vs embed) don't matter.
func attr(el xml.StartElement, name string) string {
	for _, a := range el.Attr {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

// stackHas reports whether an element with the given local name is open.
func stackHas(stack []string, name string) bool {
	for _, s := range stack {
		if s == name {
			return true
		}
	}
	return false
}

// top returns the innermost open element name, or "".
func top(stack []string) string {
	if len(stack) == 0 {
		return ""
	}
	return stack[len(stack)-1]
}
