package excel

import (
	"archive/zip"
	"bytes"
	"image"
	"image/color"
	"image/png"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

// buildZip assembles an in-memory zip container from the given parts, in
// deterministic name order.
func buildZip(t *testing.T, parts map[string][]byte) []byte {
	t.Helper()

	names := make([]string, 0, len(parts))
	for name := range parts {
		names = append(names, name)
	}
	sort.Strings(names)

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, name := range names {
		f, err := w.Create(name)
		require.NoError(t, err)
		_, err = f.Write(parts[name])
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

// tinyPNG encodes a small opaque PNG for image fixtures.
func tinyPNG(t *testing.T) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: 30, B: 30, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}
