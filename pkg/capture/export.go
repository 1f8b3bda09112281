package capture

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

// ExportOptions controls how captured bitmaps are saved.
type ExportOptions struct {
	// Format specifies the output format: "png", "jpeg", "gif", "tiff", "bmp".
	Format string

	// Quality for JPEG (1-100)
	Quality int

	// Compression for PNG (0-9, where 0 is no compression)
	Compression int

	// MaxWidth and MaxHeight bound the exported size, preserving aspect
	// ratio. Zero means unbounded.
	MaxWidth  int
	MaxHeight int
}

// DefaultExportOptions returns default export options.
func DefaultExportOptions() ExportOptions {
	return ExportOptions{
		Format:      "png",
		Quality:     90,
		Compression: 6,
	}
}

// PNG returns export options for PNG format.
func PNG() ExportOptions {
	return ExportOptions{
		Format:      "png",
		Compression: 6,
	}
}

// JPEG returns export options for JPEG format with quality.
func JPEG(quality int) ExportOptions {
	if quality < 1 {
		quality = 1
	}
	if quality > 100 {
		quality = 100
	}
	return ExportOptions{
		Format:  "jpeg",
		Quality: quality,
	}
}

// FormatForPath picks export options from a file extension, keeping the
// quality settings of base.
func FormatForPath(path string, base ExportOptions) ExportOptions {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if _, err := imaging.FormatFromExtension(ext); err == nil {
		base.Format = ext
	}
	return base
}

func (o ExportOptions) format() (imaging.Format, error) {
	f := o.Format
	if f == "" {
		f = "png"
	}
	format, err := imaging.FormatFromExtension(f)
	if err != nil {
		return 0, fmt.Errorf("unsupported export format %q: %w", o.Format, err)
	}
	return format, nil
}

func (o ExportOptions) pngLevel() png.CompressionLevel {
	switch {
	case o.Compression <= 0:
		return png.NoCompression
	case o.Compression <= 3:
		return png.BestSpeed
	case o.Compression <= 6:
		return png.DefaultCompression
	default:
		return png.BestCompression
	}
}

func (o ExportOptions) quality() int {
	if o.Quality < 1 || o.Quality > 100 {
		return 90
	}
	return o.Quality
}

// Fit scales img down to the options' max box. Images already inside it
// are returned unchanged.
func (o ExportOptions) Fit(img image.Image) image.Image {
	if o.MaxWidth <= 0 && o.MaxHeight <= 0 {
		return img
	}
	w, h := o.MaxWidth, o.MaxHeight
	b := img.Bounds()
	if w <= 0 {
		w = b.Dx()
	}
	if h <= 0 {
		h = b.Dy()
	}
	return imaging.Fit(img, w, h, imaging.Lanczos)
}

// Encode writes img to w according to opts.
func Encode(w io.Writer, img image.Image, opts ExportOptions) error {
	format, err := opts.format()
	if err != nil {
		return err
	}
	return imaging.Encode(w, opts.Fit(img), format,
		imaging.JPEGQuality(opts.quality()),
		imaging.PNGCompressionLevel(opts.pngLevel()),
	)
}

// SaveFile encodes img into path, creating parent directories.
func SaveFile(path string, img image.Image, opts ExportOptions) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	if err := Encode(f, img, opts); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return f.Close()
}
