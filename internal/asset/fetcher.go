package asset

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/microresearch/svgo/internal/catalog"
)

// MaxAssetSize bounds a single icon source. Larger bodies are rejected as
// malformed.
const MaxAssetSize = 4 << 20

// Fetcher retrieves the raw source for one icon.
type Fetcher interface {
	Fetch(ctx context.Context, name string) ([]byte, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, name string) ([]byte, error)

// Fetch calls f.
func (f FetcherFunc) Fetch(ctx context.Context, name string) ([]byte, error) {
	return f(ctx, name)
}

// HTTPFetcher GETs <Base>/<name>.svg.
type HTTPFetcher struct {
	Base      string
	Client    *http.Client
	UserAgent string
}

// URL returns the asset URL for name.
func (f *HTTPFetcher) URL(name string) string {
	return strings.TrimRight(f.Base, "/") + "/" + url.PathEscape(name) + ".svg"
}

// Fetch performs the GET. Any non-2xx status and any transport failure is
// reported as ErrAssetNotFound.
func (f *HTTPFetcher) Fetch(ctx context.Context, name string) ([]byte, error) {
	if !catalog.ValidName(name) {
		return nil, &FetchError{Name: name, Err: fmt.Errorf("%w: invalid name", ErrAssetNotFound)}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.URL(name), nil)
	if err != nil {
		return nil, &FetchError{Name: name, Err: fmt.Errorf("%w: %v", ErrAssetNotFound, err)}
	}
	req.Header.Set("Accept", "image/svg+xml, text/plain;q=0.8, */*;q=0.5")
	if f.UserAgent != "" {
		req.Header.Set("User-Agent", f.UserAgent)
	}

	client := f.Client
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, &FetchError{Name: name, Err: fmt.Errorf("%w: %v", ErrAssetNotFound, err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		return nil, &FetchError{Name: name, Status: resp.StatusCode, Err: ErrAssetNotFound}
	}
	return readLimited(name, resp.Body)
}

// DirFetcher reads <Dir>/<name>.svg from the local filesystem.
type DirFetcher struct {
	Dir string
}

// Fetch reads the file. A missing file is ErrAssetNotFound.
func (f *DirFetcher) Fetch(ctx context.Context, name string) ([]byte, error) {
	if !catalog.ValidName(name) {
		return nil, &FetchError{Name: name, Err: fmt.Errorf("%w: invalid name", ErrAssetNotFound)}
	}
	file, err := os.Open(filepath.Join(f.Dir, name+".svg"))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, &FetchError{Name: name, Err: ErrAssetNotFound}
	}
	if err != nil {
		return nil, &FetchError{Name: name, Err: fmt.Errorf("%w: %v", ErrAssetNotFound, err)}
	}
	defer file.Close()
	return readLimited(name, file)
}

func readLimited(name string, r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxAssetSize+1))
	if err != nil {
		return nil, &FetchError{Name: name, Err: fmt.Errorf("%w: read body: %v", ErrAssetNotFound, err)}
	}
	if len(data) > MaxAssetSize {
		return nil, &FetchError{Name: name, Err: fmt.Errorf("%w: source exceeds %d bytes", ErrAssetMalformed, MaxAssetSize)}
	}
	return data, nil
}

// NewFetcher returns an HTTPFetcher for http(s) bases and a DirFetcher for
// file:// URLs and plain directories.
func NewFetcher(base string, client *http.Client, userAgent string) Fetcher {
	if u, err := url.Parse(base); err == nil {
		switch strings.ToLower(u.Scheme) {
		case "http", "https":
			return &HTTPFetcher{Base: base, Client: client, UserAgent: userAgent}
		case "file":
			return &DirFetcher{Dir: u.Path}
		}
	}
	return &DirFetcher{Dir: base}
}
