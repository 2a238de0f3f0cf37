package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/jgoulah/csvchart/internal/scale"
)

// WritePNG rasterizes the chart. The line is drawn with straight segments; the
// smoothed path is only available in the vector outputs.
func (c *Chart) WritePNG(w io.Writer) error {
	width := int(math.Round(c.Layout.OuterWidth()))
	height := int(math.Round(c.Layout.OuterHeight()))
	if width <= 0 || height <= 0 {
		return fmt.Errorf("rendering png: empty drawing surface %dx%d", width, height)
	}

	var img image.Image
	if len(c.Series) == 0 {
		img = drawHint(blank(width, height), "No data")
	} else {
		var buf bytes.Buffer
		if err := c.rasterChart(width, height).Render(chart.PNG, &buf); err != nil {
			return fmt.Errorf("rendering png: %w", err)
		}
		decoded, err := png.Decode(&buf)
		if err != nil {
			return fmt.Errorf("decoding rendered png: %w", err)
		}
		img = decoded
	}

	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("writing png: %w", err)
	}
	return nil
}

func (c *Chart) rasterChart(width, height int) chart.Chart {
	xs := make([]time.Time, 0, len(c.Series))
	ys := make([]float64, 0, len(c.Series))
	for _, r := range c.Series {
		xs = append(xs, r.Date)
		ys = append(ys, r.Value)
	}
	// go-chart needs two points to draw a series
	if len(xs) == 1 {
		xs = append(xs, xs[0].Add(time.Second))
		ys = append(ys, ys[0])
	}

	t0, t1 := c.X.Domain()
	xMin, xMax := chart.TimeToFloat64(t0), chart.TimeToFloat64(t1)
	if xMin == xMax {
		xMax = chart.TimeToFloat64(t1.Add(time.Second))
	}
	yMin, yMax := c.Y.Domain()
	if yMin == yMax {
		yMin, yMax = yMin-1, yMax+1
	}

	// go-chart derives the axis range from explicit ticks, so fewer than two
	// would collapse the padded range; let it pick its own instead
	var xTicks, yTicks []chart.Tick
	if distinctTicks(c.XTicks) {
		for _, t := range c.XTicks {
			at := time.Unix(0, int64(t.Value*float64(time.Second)))
			xTicks = append(xTicks, chart.Tick{Value: chart.TimeToFloat64(at), Label: t.Label})
		}
	}
	if distinctTicks(c.YTicks) {
		for _, t := range c.YTicks {
			yTicks = append(yTicks, chart.Tick{Value: t.Value, Label: t.Label})
		}
	}

	m := c.Layout.Margin
	r := c.markerRadius()
	return chart.Chart{
		Width:  width,
		Height: height,
		Background: chart.Style{Padding: chart.Box{
			Top:    int(m.Top),
			Left:   int(m.Left),
			Right:  int(m.Right),
			Bottom: int(m.Bottom),
		}},
		XAxis: chart.XAxis{
			Name:  c.Labels.X,
			Ticks: xTicks,
			Range: &chart.ContinuousRange{Min: xMin, Max: xMax},
		},
		YAxis: chart.YAxis{
			Name:  c.Labels.Y,
			Ticks: yTicks,
			Range: &chart.ContinuousRange{Min: yMin, Max: yMax},
		},
		Series: []chart.Series{
			// Line plus dark dots as the marker outline
			chart.TimeSeries{
				XValues: xs,
				YValues: ys,
				Style: chart.Style{
					StrokeColor: drawing.ColorBlack,
					StrokeWidth: 1.5,
					DotWidth:    r,
					DotColor:    drawing.ColorBlack,
				},
			},
			// White fill inside each outline
			chart.TimeSeries{
				XValues: xs,
				YValues: ys,
				Style: chart.Style{
					StrokeWidth: chart.Disabled,
					DotWidth:    math.Max(r-1.5, 0.5),
					DotColor:    drawing.ColorWhite,
				},
			},
		},
	}
}

func distinctTicks(ticks []scale.Tick) bool {
	if len(ticks) < 2 {
		return false
	}
	for _, t := range ticks[1:] {
		if t.Value != ticks[0].Value {
			return true
		}
	}
	return false
}

func (c *Chart) markerRadius() float64 {
	if len(c.Markers) == 0 {
		return 0
	}
	return c.Markers[0].R
}

func blank(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	return img
}

// drawHint writes a short message near the bottom-left corner of img
func drawHint(img image.Image, text string) image.Image {
	b := img.Bounds()
	rgba := image.NewRGBA(b)
	draw.Draw(rgba, b, img, b.Min, draw.Src)

	face := basicfont.Face7x13
	dr := &font.Drawer{Dst: rgba, Src: image.NewUniform(color.Black), Face: face}
	dr.Dot = fixed.Point26_6{X: fixed.I(b.Min.X + 8), Y: fixed.I(b.Max.Y - 6)}
	dr.DrawString(text)
	return rgba
}
