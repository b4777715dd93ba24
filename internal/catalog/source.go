package catalog

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

// Source opens the raw catalog document.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
}

// HTTPSource retrieves the catalog with a single GET.
type HTTPSource struct {
	URL       string
	Client    *http.Client
	UserAgent string
}

// Open performs the GET. Non-2xx responses are errors.
func (s *HTTPSource) Open(ctx context.Context) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("catalog: new request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if s.UserAgent != "" {
		req.Header.Set("User-Agent", s.UserAgent)
	}

	client := s.Client
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog: get %s: %w", s.URL, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, fmt.Errorf("catalog: get %s: status %d", s.URL, resp.StatusCode)
	}
	return resp.Body, nil
}

// FileSource reads the catalog from a local file.
type FileSource struct {
	Path string
}

// Open opens the file.
func (s *FileSource) Open(ctx context.Context) (io.ReadCloser, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	return f, nil
}

// NewSource returns an HTTPSource for http(s) URLs, a FileSource for
// file:// URLs and plain paths.
func NewSource(location string, client *http.Client, userAgent string) Source {
	if u, err := url.Parse(location); err == nil {
		switch strings.ToLower(u.Scheme) {
		case "http", "https":
			return &HTTPSource{URL: location, Client: client, UserAgent: userAgent}
		case "file":
			return &FileSource{Path: u.Path}
		}
	}
	return &FileSource{Path: location}
}

// Load retrieves and decodes the catalog. Every failure wraps
// ErrCatalogUnavailable.
func Load(ctx context.Context, src Source) (*Catalog, error) {
	rc, err := src.Open(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}
	defer rc.Close()

	c, err := Decode(rc)
	if err != nil {
		return nil, err
	}
	slog.Info("catalog loaded", "records", c.Len(), "total", c.Total())
	return c, nil
}
