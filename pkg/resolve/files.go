package resolve

import (
	"context"
	"fmt"
	"image"
	"log"
	"os"
	"strings"

	"paperview/pkg/geom"
)

// Files resolves local paths and file:// URIs.
type Files struct{}

func filePath(src string) string {
	return strings.TrimPrefix(src, "file://")
}

func (Files) open(ctx context.Context, src string) (*os.File, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(filePath(src))
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	return f, nil
}

func closeFile(f *os.File) {
	if err := f.Close(); err != nil {
		log.Printf("could not close the opened file: %v", err)
	}
}

// Resolve reads only the image header.
func (fs Files) Resolve(ctx context.Context, src string) (geom.Size, error) {
	f, err := fs.open(ctx, src)
	if err != nil {
		return geom.Size{}, err
	}
	defer closeFile(f)

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return geom.Size{}, fmt.Errorf("failed to read image header: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return geom.Size{}, fmt.Errorf("%s image %s has empty size %dx%d", format, src, cfg.Width, cfg.Height)
	}
	return sizeOf(cfg), nil
}

// Decode reads and decodes the whole image.
func (fs Files) Decode(ctx context.Context, src string) (image.Image, error) {
	f, err := fs.open(ctx, src)
	if err != nil {
		return nil, err
	}
	defer closeFile(f)

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}
