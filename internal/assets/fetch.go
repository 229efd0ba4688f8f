// Package assets loads and caches the images a level needs before it can be
// played.
package assets

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"io/fs"
	"net/http"
	"strings"
	"time"

	_ "golang.org/x/image/webp"
)

// maxImageBytes bounds a single image read.
const maxImageBytes = 16 << 20

// Fetcher loads one image by path.
type Fetcher interface {
	Fetch(ctx context.Context, path string) (image.Image, error)
}

// SourceFetcher reads images from a file system, or over HTTP when the path
// is an http(s) URL. PNG, JPEG, GIF and WebP are decoded.
type SourceFetcher struct {
	FS     fs.FS
	Client *http.Client
}

// NewSourceFetcher returns a fetcher resolving relative paths in fsys.
func NewSourceFetcher(fsys fs.FS) *SourceFetcher {
	return &SourceFetcher{
		FS:     fsys,
		Client: &http.Client{Timeout: 15 * time.Second},
	}
}

func isURL(path string) bool {
	return strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://")
}

func (f *SourceFetcher) Fetch(ctx context.Context, path string) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var r io.ReadCloser
	if isURL(path) {
		body, err := f.get(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("assets: fetch %s: %w", path, err)
		}
		r = body
	} else {
		if f.FS == nil {
			return nil, fmt.Errorf("assets: open %s: no file system", path)
		}
		file, err := f.FS.Open(path)
		if err != nil {
			return nil, fmt.Errorf("assets: open %s: %w", path, err)
		}
		r = file
	}
	defer r.Close()

	img, _, err := image.Decode(io.LimitReader(r, maxImageBytes))
	if err != nil {
		return nil, fmt.Errorf("assets: decode %s: %w", path, err)
	}
	return img, nil
}

func (f *SourceFetcher) get(ctx context.Context, url string) (io.ReadCloser, error) {
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	return resp.Body, nil
}
