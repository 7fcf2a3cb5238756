package sink

import (
	"bufio"
	"image"
	"image/png"
	"io"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/matzehuels/iconatlas/pkg/errors"
)

// Sheet image formats.
const (
	FormatPNG  = "png"
	FormatBMP  = "bmp"
	FormatTIFF = "tiff"
)

// ValidFormats is the set of supported sheet formats.
var ValidFormats = map[string]bool{FormatPNG: true, FormatBMP: true, FormatTIFF: true}

// FormatFromPath returns the sheet format implied by path's extension,
// falling back to PNG for unknown or missing extensions.
func FormatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".bmp":
		return FormatBMP
	case ".tif", ".tiff":
		return FormatTIFF
	default:
		return FormatPNG
	}
}

// SheetOption configures [EncodeSheet].
type SheetOption func(*sheetEncoder)

type sheetEncoder struct {
	format      string
	compression png.CompressionLevel
}

// WithFormat selects the output format (default "png").
func WithFormat(format string) SheetOption {
	return func(e *sheetEncoder) { e.format = format }
}

// WithCompression sets the PNG compression level (default png.DefaultCompression).
func WithCompression(level png.CompressionLevel) SheetOption {
	return func(e *sheetEncoder) { e.compression = level }
}

// EncodeSheet writes img to w. Non-premultiplied alpha is preserved by every
// format, so distance field texels with partial coverage survive unchanged.
func EncodeSheet(w io.Writer, img *image.NRGBA, opts ...SheetOption) error {
	e := sheetEncoder{format: FormatPNG, compression: png.DefaultCompression}
	for _, opt := range opts {
		opt(&e)
	}
	if !ValidFormats[e.format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid sheet format: %q (must be one of: png, bmp, tiff)", e.format)
	}

	bw := bufio.NewWriter(w)
	var err error
	switch e.format {
	case FormatBMP:
		err = bmp.Encode(bw, img)
	case FormatTIFF:
		err = tiff.Encode(bw, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		enc := png.Encoder{CompressionLevel: e.compression}
		err = enc.Encode(bw, img)
	}
	if err != nil {
		return err
	}
	return bw.Flush()
}
