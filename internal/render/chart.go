// Package render turns a loaded series into a chart and writes it as SVG,
// an interactive HTML page, or PNG.
package render

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jgoulah/csvchart/internal/logging"
	"github.com/jgoulah/csvchart/internal/metrics"
	"github.com/jgoulah/csvchart/internal/scale"
	"github.com/jgoulah/csvchart/internal/source"
	"github.com/jgoulah/csvchart/internal/tooltip"
	"github.com/jgoulah/csvchart/pkg/models"
)

// ErrLoad wraps every failure to fetch or parse the series
var ErrLoad = errors.New("error loading data")

// Labels are the axis titles
type Labels struct {
	X string
	Y string
}

// Options are the explicit inputs of a Renderer
type Options struct {
	Layout       Layout
	Loader       source.Loader
	Labels       Labels
	MarkerRadius float64
	Tooltip      tooltip.Options
	TickCount    int // approximate ticks per axis (fallback: 10)
	Logger       *slog.Logger
	Metrics      *metrics.Metrics
}

// Renderer loads a series and lays it out as a chart
type Renderer struct {
	opts Options
}

// New creates a renderer, filling in defaults for unset options
func New(opts Options) *Renderer {
	return &Renderer{opts: withDefaults(opts)}
}

func withDefaults(opts Options) Options {
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	if opts.MarkerRadius <= 0 {
		opts.MarkerRadius = 6
	}
	if opts.TickCount <= 0 {
		opts.TickCount = 10
	}

	def := tooltip.DefaultOptions()
	if opts.Tooltip.Unit == "" {
		opts.Tooltip.Unit = def.Unit
	}
	if opts.Tooltip.Fade <= 0 {
		opts.Tooltip.Fade = def.Fade
	}
	if opts.Tooltip.OffsetX == 0 && opts.Tooltip.OffsetY == 0 {
		opts.Tooltip.OffsetX, opts.Tooltip.OffsetY = def.OffsetX, def.OffsetY
	}
	if opts.Tooltip.FontSize <= 0 {
		opts.Tooltip.FontSize = def.FontSize
	}
	return opts
}

// Load fetches the series and builds the chart. A failure is logged once and
// returned wrapped in ErrLoad; there is no retry.
func (r *Renderer) Load(ctx context.Context) (*Chart, error) {
	start := time.Now()

	series, err := r.opts.Loader.Load(ctx)
	r.opts.Metrics.ObserveLoad(start, len(series), err)
	if err != nil {
		r.opts.Logger.Error("error loading data", "error", err)
		return nil, fmt.Errorf("%w: %w", ErrLoad, err)
	}

	if len(series) > 0 {
		r.opts.Logger.Debug("series loaded",
			"records", len(series),
			"first", series[0].Date,
			"last", series[len(series)-1].Date,
			"took", time.Since(start),
		)
	} else {
		r.opts.Logger.Debug("series loaded", "records", 0)
	}

	return Build(series, r.opts), nil
}

// Chart is a fully laid out, read-only chart
type Chart struct {
	Layout  Layout
	Labels  Labels
	Tooltip tooltip.Options
	Series  models.Series
	X       *scale.Time
	Y       *scale.Linear
	XTicks  []scale.Tick
	YTicks  []scale.Tick
	Line    string // SVG path data in plot coordinates
	Markers []Marker
}

// Marker is the circle drawn for one record
type Marker struct {
	Index  int
	Record models.Record
	CX, CY float64 // plot coordinates
	R      float64
}

// Build lays out a series without loading anything
func Build(series models.Series, opts Options) *Chart {
	opts = withDefaults(opts)

	l := opts.Layout
	t0, t1, _ := series.TimeExtent()
	v0, v1, _ := series.ValueExtent()

	c := &Chart{
		Layout:  l,
		Labels:  opts.Labels,
		Tooltip: opts.Tooltip,
		Series:  series,
		X:       scale.NewTime(t0, t1, 0, l.Width),
		Y:       scale.NewLinear(v0, v1, l.Height, 0),
		Markers: make([]Marker, 0, len(series)),
	}

	if len(series) == 0 {
		return c
	}

	c.XTicks = c.X.Ticks(opts.TickCount)
	c.YTicks = c.Y.Ticks(opts.TickCount)

	points := make([]point, 0, len(series))
	for i, rec := range series {
		p := point{X: c.X.Scale(rec.Date), Y: c.Y.Scale(rec.Value)}
		points = append(points, p)
		c.Markers = append(c.Markers, Marker{
			Index:  i,
			Record: rec,
			CX:     p.X,
			CY:     p.Y,
			R:      opts.MarkerRadius,
		})
	}
	c.Line = catmullRomPath(points)

	return c
}

// MarkerAt returns the topmost marker under a point in plot coordinates
func (c *Chart) MarkerAt(x, y float64) (Marker, bool) {
	// Later markers are drawn on top, so search from the end
	for i := len(c.Markers) - 1; i >= 0; i-- {
		m := c.Markers[i]
		dx, dy := x-m.CX, y-m.CY
		if dx*dx+dy*dy <= m.R*m.R {
			return m, true
		}
	}
	return Marker{}, false
}
