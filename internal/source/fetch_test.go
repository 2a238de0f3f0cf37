package source

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchLocalFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "data.csv"), []byte("Date,Random Data\n"), 0644))

	f := NewFetcher(dir, 0)

	for _, loc := range []string{"data.csv", "./data.csv", "file://" + filepath.Join(dir, "data.csv")} {
		rc, err := f.Fetch(context.Background(), loc)
		require.NoError(t, err, loc)
		body, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
		assert.Equal(t, "Date,Random Data\n", string(body))
	}
}

func TestFetchMissingFile(t *testing.T) {
	_, err := NewFetcher(t.TempDir(), 0).Fetch(context.Background(), "missing.csv")
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestFetchHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/data.csv" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/csv")
		_, _ = io.WriteString(w, "Date,Random Data\n2020-01-01 00:00:00,10\n")
	}))
	defer srv.Close()

	f := NewFetcher("", time.Second)

	rc, err := f.Fetch(context.Background(), srv.URL+"/data.csv")
	require.NoError(t, err)
	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Contains(t, string(body), "2020-01-01")

	_, err = f.Fetch(context.Background(), srv.URL+"/other.csv")
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
}

func TestFetchHTTPHonoursContext(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := NewFetcher("", 0).Fetch(ctx, srv.URL)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestFetchEmptyLocation(t *testing.T) {
	_, err := NewFetcher("", 0).Fetch(context.Background(), "")
	assert.Error(t, err)
}
