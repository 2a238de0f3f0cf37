package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// StatusError is returned when an HTTP fetch answers with a non-200 status
type StatusError struct {
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetching %s: status %d: %s", e.URL, e.StatusCode, e.Body)
}

// Fetcher opens the raw bytes behind a location
type Fetcher interface {
	Fetch(ctx context.Context, location string) (io.ReadCloser, error)
}

// DefaultFetcher reads http(s) URLs over the network and everything else from disk
type DefaultFetcher struct {
	Client  *http.Client
	BaseDir string        // relative file paths are resolved against this directory
	Timeout time.Duration // zero means the fetch is bounded only by ctx
}

// NewFetcher creates a fetcher with a plain HTTP client
func NewFetcher(baseDir string, timeout time.Duration) *DefaultFetcher {
	return &DefaultFetcher{
		Client:  &http.Client{},
		BaseDir: baseDir,
		Timeout: timeout,
	}
}

// Fetch opens the location for reading; the caller closes the returned reader
func (f *DefaultFetcher) Fetch(ctx context.Context, location string) (io.ReadCloser, error) {
	if location == "" {
		return nil, fmt.Errorf("empty data location")
	}

	if isHTTP(location) {
		return f.fetchHTTP(ctx, location)
	}

	path := strings.TrimPrefix(location, "file://")
	if !filepath.IsAbs(path) && f.BaseDir != "" {
		path = filepath.Join(f.BaseDir, path)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	return file, nil
}

func (f *DefaultFetcher) fetchHTTP(ctx context.Context, location string) (io.ReadCloser, error) {
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}

	cancel := context.CancelFunc(func() {})
	if f.Timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, f.Timeout)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "text/csv, text/plain;q=0.9, */*;q=0.1")

	resp, err := client.Do(req)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("making request: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		resp.Body.Close()
		cancel()
		return nil, &StatusError{URL: location, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	return &cancelOnClose{ReadCloser: resp.Body, cancel: cancel}, nil
}

// cancelOnClose releases the request context once the body is done with
type cancelOnClose struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (c *cancelOnClose) Close() error {
	err := c.ReadCloser.Close()
	c.cancel()
	return err
}

func isHTTP(location string) bool {
	lower := strings.ToLower(location)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
