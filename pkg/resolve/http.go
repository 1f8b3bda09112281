package resolve

import (
	"bufio"
	"context"
	"fmt"
	"image"
	"io"
	"net/http"
	"strings"

	"paperview/pkg/geom"
)

// HTTP fetches http(s) sources.
type HTTP struct {
	Client *http.Client

	// MaxBytes caps the downloaded body. Zero means 64 MiB.
	MaxBytes int64
}

// NewHTTP creates an HTTP resolver. A nil client uses http.DefaultClient.
func NewHTTP(client *http.Client) *HTTP {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTP{Client: client}
}

func (h *HTTP) limit() int64 {
	if h.MaxBytes > 0 {
		return h.MaxBytes
	}
	return 64 << 20
}

// fetch issues the request and returns a buffered body whose first bytes
// have been checked to look like an image.
func (h *HTTP) fetch(ctx context.Context, src string) (*bufio.Reader, io.Closer, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid image URI %s: %w", src, err)
	}
	res, err := h.Client.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("unable to download image file from URI %s: %w", src, err)
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		res.Body.Close()
		return nil, nil, fmt.Errorf("unable to download image file from URI %s: status %s", src, res.Status)
	}

	br := bufio.NewReaderSize(io.LimitReader(res.Body, h.limit()), 512)
	// Only the first 512 bytes are used to sniff the content type.
	head, err := br.Peek(512)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		res.Body.Close()
		return nil, nil, fmt.Errorf("unable to read response body: %w", err)
	}
	// TIFF is not sniffed and comes back as octet-stream; the decoder
	// has the final say there.
	ctype := http.DetectContentType(head)
	if !strings.HasPrefix(ctype, "image/") && ctype != "application/octet-stream" {
		res.Body.Close()
		return nil, nil, fmt.Errorf("the downloaded file is not a valid image type: %s", ctype)
	}
	return br, res.Body, nil
}

// Resolve implements Resolver. Only the image header is read.
func (h *HTTP) Resolve(ctx context.Context, src string) (geom.Size, error) {
	r, body, err := h.fetch(ctx, src)
	if err != nil {
		return geom.Size{}, err
	}
	defer body.Close()

	cfg, _, err := image.DecodeConfig(r)
	if err != nil {
		return geom.Size{}, fmt.Errorf("failed to read image header: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return geom.Size{}, fmt.Errorf("image %s has empty size %dx%d", src, cfg.Width, cfg.Height)
	}
	return sizeOf(cfg), nil
}

// Decode implements Resolver.
func (h *HTTP) Decode(ctx context.Context, src string) (image.Image, error) {
	r, body, err := h.fetch(ctx, src)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}
