package excel

import (
	"bytes"
	"fmt"
	"image/png"
	"strings"

	"golang.org/x/image/webp"
)

// minImageBytes is the smallest blob we attempt to treat as an image; the
// same floor applies again when resolving references and when embedding.
const minImageBytes = 8

// MediaFile is one accepted media part, possibly format-converted.
type MediaFile struct {
	Data      []byte
	Extension string // without the dot
}

// ScanMedia reads every image stored under the container's media directories.
// Containers the writer can embed (PNG, JPEG, GIF, BMP) pass through
// unchanged; WebP is decoded and re-encoded to PNG and recorded in the
// converted list; anything else lands in the unsupported list and is
// excluded. Blobs shorter than minImageBytes are skipped outright.
func ScanMedia(pkg *Package) (map[string]MediaFile, []string, []string) {
	media := make(map[string]MediaFile)
	var converted, unsupported []string

	for _, name := range pkg.PartNames() {
		if !isMediaPart(name) {
			continue
		}
		data, err := pkg.Part(name)
		if err != nil || len(data) < minImageBytes {
			continue
		}
		filename := name[strings.LastIndex(name, "/")+1:]

		if sniffImage(data) != "" {
			media[filename] = MediaFile{Data: data, Extension: extensionOf(filename)}
			continue
		}
		if converted2, srcFormat, err := convertToPNG(data); err == nil {
			media[filename] = MediaFile{Data: converted2, Extension: "png"}
			converted = append(converted, fmt.Sprintf("%s (%s->PNG)", filename, srcFormat))
		} else {
			unsupported = append(unsupported, filename)
		}
	}
	return media, converted, unsupported
}

func isMediaPart(name string) bool {
	return strings.HasPrefix(name, "xl/media/") ||
		strings.HasPrefix(name, "xl/embeddings/") ||
		strings.Contains(name, "/media/")
}

func extensionOf(filename string) string {
	if i := strings.LastIndex(filename, "."); i >= 0 && i+1 < len(filename) {
		return filename[i+1:]
	}
	return "png"
}

// sniffImage returns the container name for magic numbers the writer embeds
// directly, or "" for everything else.
func sniffImage(data []byte) string {
	switch {
	case bytes.HasPrefix(data, []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}):
		return "PNG"
	case bytes.HasPrefix(data, []byte{0xFF, 0xD8, 0xFF}):
		return "JPEG"
	case bytes.HasPrefix(data, []byte("GIF87a")), bytes.HasPrefix(data, []byte("GIF89a")):
		return "GIF"
	case bytes.HasPrefix(data, []byte("BM")):
		return "BMP"
	}
	return ""
}

func isWebP(data []byte) bool {
	return len(data) > 12 &&
		bytes.HasPrefix(data, []byte("RIFF")) &&
		bytes.Equal(data[8:12], []byte("WEBP"))
}

// convertToPNG re-encodes a recognized-but-unembeddable raster container as
// PNG. Only WebP is recognized today; vector and metafile containers are not
// convertible and surface as unsupported.
func convertToPNG(data []byte) ([]byte, string, error) {
	if !isWebP(data) {
		return nil, "", fmt.Errorf("%w: unrecognized image container", ErrImage)
	}
	img, err := webp.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("%w: decode webp: %v", ErrImage, err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, "", fmt.Errorf("%w: encode png: %v", ErrImage, err)
	}
	return buf.Bytes(), "WebP", nil
}
