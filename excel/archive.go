package excel

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
)

// Package is a zip-based spreadsheet container opened once into memory and
// indexed by part name. All metadata sub-parsers borrow the same read-only
// handle; the package outlives its borrowers within a request.
type Package struct {
	reader *zip.Reader
	index  map[string]*zip.File
}

// OpenPackage opens the container at path.
func OpenPackage(path string) (*Package, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrFile, path, err)
	}
	pkg, err := NewPackage(data)
	if err != nil {
		return nil, fmt.Errorf("%w: read container %s: %v", ErrFile, path, err)
	}
	return pkg, nil
}

// NewPackage indexes an in-memory zip container.
func NewPackage(data []byte) (*Package, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: read zip container: %v", ErrFile, err)
	}
	index := make(map[string]*zip.File, len(reader.File))
	for _, part := range reader.File {
		index[part.Name] = part
	}
	return &Package{reader: reader, index: index}, nil
}

// Part returns the named part's bytes. A missing part is a file error;
// callers probe optional parts with HasPart first.
func (p *Package) Part(name string) ([]byte, error) {
	part, ok := p.index[name]
	if !ok {
		return nil, fmt.Errorf("%w: part %q not found", ErrFile, name)
	}
	rc, err := part.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: read part %q: %v", ErrFile, name, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("%w: read part %q: %v", ErrFile, name, err)
	}
	return data, nil
}

// HasPart reports whether the named part exists.
func (p *Package) HasPart(name string) bool {
	_, ok := p.index[name]
	return ok
}

// PartNames returns every part name in archive order.
func (p *Package) PartNames() []string {
	names := make([]string, 0, len(p.reader.File))
	for _, part := range p.reader.File {
		names = append(names, part.Name)
	}
	return names
}
