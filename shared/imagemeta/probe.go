// Package imagemeta extracts the metadata picshelf caches for an image:
// pixel dimensions, format, color mode, and any embedded textual fields
// (EXIF tags, PNG text chunks).
package imagemeta

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"strings"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
)

// Info is the result of probing a single image file.
type Info struct {
	Width  int
	Height int

	// Format is the decoded format name, upper-cased: PNG, JPEG, GIF, BMP.
	Format string

	// Mode names the color model: RGB, RGBA, L, P, CMYK or YCbCr.
	Mode string

	// Fields flattens every embedded textual key/value pair found in the
	// file. EXIF tag names and PNG text chunk keywords share one namespace.
	Fields map[string]string
}

// Probe opens the image at path and extracts its metadata. An unreadable or
// corrupt file is an error; the caller gets no partial Info.
func Probe(path string) (*Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image %s: %w", path, err)
	}
	defer f.Close()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", path, err)
	}

	info := &Info{
		Width:  cfg.Width,
		Height: cfg.Height,
		Format: strings.ToUpper(format),
		Mode:   colorMode(cfg.ColorModel),
		Fields: make(map[string]string),
	}

	// Embedded text extraction is best effort: most files carry none, and
	// a file with undecodable EXIF is still a valid image.
	switch info.Format {
	case "JPEG":
		collectExif(f, info.Fields)
	case "PNG":
		collectPNGText(f, info.Fields)
	}

	return info, nil
}

// colorMode maps a decoded color model to a short mode name.
func colorMode(m color.Model) string {
	switch m {
	case color.GrayModel, color.Gray16Model:
		return "L"
	case color.CMYKModel:
		return "CMYK"
	case color.YCbCrModel:
		return "YCbCr"
	case color.RGBAModel, color.RGBA64Model:
		return "RGBA"
	case color.NRGBAModel, color.NRGBA64Model:
		return "RGBA"
	}

	if _, ok := m.(color.Palette); ok {
		return "P"
	}

	return "RGB"
}

// fieldCollector gathers EXIF tags into a flat string map.
type fieldCollector map[string]string

func (c fieldCollector) Walk(name exif.FieldName, tag *tiff.Tag) error {
	if s, err := tag.StringVal(); err == nil {
		c[string(name)] = s
		return nil
	}
	c[string(name)] = tag.String()
	return nil
}

// collectExif reads EXIF tags from r into fields. Errors are swallowed:
// a JPEG without EXIF is the common case, not a failure.
func collectExif(r *os.File, fields map[string]string) {
	if _, err := r.Seek(0, 0); err != nil {
		return
	}

	x, err := exif.Decode(r)
	if err != nil {
		return
	}

	x.Walk(fieldCollector(fields))
}
