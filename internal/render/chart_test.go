package render

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jgoulah/csvchart/internal/logging"
	"github.com/jgoulah/csvchart/internal/metrics"
	"github.com/jgoulah/csvchart/internal/source"
	"github.com/jgoulah/csvchart/pkg/models"
)

const twoRows = "Date,Random Data\n2020-01-01 00:00:00,10\n2020-01-02 00:00:00,20\n"

type stringFetcher struct {
	body string
	err  error
}

func (f stringFetcher) Fetch(ctx context.Context, location string) (io.ReadCloser, error) {
	if f.err != nil {
		return nil, f.err
	}
	return io.NopCloser(strings.NewReader(f.body)), nil
}

func csvLoader(body string) source.Loader {
	opts := source.DefaultParseOptions()
	opts.Location = time.UTC
	return source.NewCSV(stringFetcher{body: body}, "data.csv", opts, nil)
}

func TestNewLayout(t *testing.T) {
	l := NewLayout(1000, 1000)

	assert.Equal(t, Margin{Top: 50, Right: 50, Bottom: 50, Left: 50}, l.Margin)
	assert.Equal(t, 900.0, l.Width)
	assert.Equal(t, 700.0, l.Height)
	assert.Equal(t, 1000.0, l.OuterWidth())
	assert.Equal(t, 800.0, l.OuterHeight())
}

func TestNewLayoutClampsTinyViewport(t *testing.T) {
	l := NewLayout(1000, 100)
	assert.Equal(t, 0.0, l.Height)
}

func TestLoadTwoRows(t *testing.T) {
	r := New(Options{Layout: NewLayout(1000, 1000), Loader: csvLoader(twoRows)})

	c, err := r.Load(context.Background())
	require.NoError(t, err)

	require.Len(t, c.Markers, 2)
	assert.Equal(t, "M0,700L900,0", c.Line)

	t0, t1 := c.X.Domain()
	assert.Equal(t, 24*time.Hour, t1.Sub(t0))
	v0, v1 := c.Y.Domain()
	assert.Equal(t, 10.0, v0)
	assert.Equal(t, 20.0, v1)

	assert.Equal(t, 0.0, c.X.Scale(t0))
	assert.Equal(t, 900.0, c.X.Scale(t1))
	assert.Equal(t, 700.0, c.Y.Scale(10))
	assert.Equal(t, 0.0, c.Y.Scale(20))

	assert.Equal(t, 0.0, c.Markers[0].CX)
	assert.Equal(t, 700.0, c.Markers[0].CY)
	assert.Equal(t, 6.0, c.Markers[0].R)
	assert.NotEmpty(t, c.XTicks)
	assert.NotEmpty(t, c.YTicks)
}

func TestMarkerCountMatchesRecords(t *testing.T) {
	body := "Date,Random Data\n" +
		"2020-01-01 00:00:00,10\n" +
		"2020-01-01 01:00:00,12.5\n" +
		"2020-01-01 02:00:00,not-a-number\n" +
		"2020-01-01 03:00:00,9\n" +
		"2020-01-01 04:00:00,15\n"
	r := New(Options{Layout: NewLayout(1000, 1000), Loader: csvLoader(body)})

	c, err := r.Load(context.Background())
	require.NoError(t, err)

	assert.Len(t, c.Series, 4)
	assert.Len(t, c.Markers, 4)
	assert.True(t, strings.HasPrefix(c.Line, "M0,"))
	assert.Equal(t, 3, strings.Count(c.Line, "C"))
}

func TestLoadFailureLogsOnce(t *testing.T) {
	var logs bytes.Buffer
	m := metrics.New()
	loader := source.NewCSV(stringFetcher{err: errors.New("connection refused")}, "http://example.invalid/data.csv",
		source.DefaultParseOptions(), nil)
	r := New(Options{
		Layout:  NewLayout(1000, 1000),
		Loader:  loader,
		Logger:  logging.New("debug", logging.WithWriter(&logs)),
		Metrics: m,
	})

	var c *Chart
	var err error
	assert.NotPanics(t, func() {
		c, err = r.Load(context.Background())
	})

	require.Error(t, err)
	assert.Nil(t, c)
	assert.True(t, errors.Is(err, ErrLoad))
	assert.Contains(t, err.Error(), "connection refused")

	lines := strings.Split(strings.TrimSpace(logs.String()), "\n")
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "level=ERROR")
	assert.Contains(t, lines[0], "error loading data")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.LoadsTotal.WithLabelValues("failure")))
}

func TestLoadMissingColumnFails(t *testing.T) {
	r := New(Options{Layout: NewLayout(1000, 1000), Loader: csvLoader("When,Value\n2020-01-01 00:00:00,1\n")})

	_, err := r.Load(context.Background())
	assert.ErrorIs(t, err, ErrLoad)
}

func TestBuildEmptySeries(t *testing.T) {
	c := Build(nil, Options{Layout: NewLayout(1000, 1000)})

	assert.Empty(t, c.Markers)
	assert.Empty(t, c.XTicks)
	assert.Empty(t, c.YTicks)
	assert.Empty(t, c.Line)
}

func TestBuildSinglePoint(t *testing.T) {
	at := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	c := Build(models.Series{{Date: at, Value: 42}}, Options{Layout: NewLayout(1000, 1000)})

	require.Len(t, c.Markers, 1)
	assert.Equal(t, 450.0, c.Markers[0].CX)
	assert.Equal(t, 350.0, c.Markers[0].CY)
	assert.Equal(t, "M450,350Z", c.Line)
}

func TestMarkerAtPrefersTopmost(t *testing.T) {
	at := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	series := models.Series{
		{Date: at, Value: 10},
		{Date: at.Add(time.Second), Value: 10},
		{Date: at.Add(time.Hour), Value: 20},
	}
	c := Build(series, Options{Layout: NewLayout(1000, 1000)})

	m, ok := c.MarkerAt(c.Markers[0].CX, c.Markers[0].CY)
	require.True(t, ok)
	assert.Equal(t, 1, m.Index)

	_, ok = c.MarkerAt(450, 10)
	assert.False(t, ok)
}
