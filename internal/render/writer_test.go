package render

import (
	"bytes"
	"image/png"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/jgoulah/csvchart/internal/scale"
	"github.com/jgoulah/csvchart/pkg/models"
)

func TestWriteSVG(t *testing.T) {
	c := loadTwoRows(t)
	c.Labels = Labels{X: "Date/Time", Y: "Temp <F>"}

	var buf bytes.Buffer
	require.NoError(t, c.WriteSVG(&buf))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, `<svg xmlns="http://www.w3.org/2000/svg" width="1000" height="800">`))
	assert.Contains(t, out, `<g transform="translate(50,50)">`)
	assert.Equal(t, 2, strings.Count(out, `<circle class="dot"`))
	assert.Contains(t, out, `d="M0,700L900,0"`)
	assert.Contains(t, out, `data-value="20"`)
	assert.Contains(t, out, `class="axis axis--x" transform="translate(0,700)"`)
	assert.Contains(t, out, "Temp &lt;F&gt;")
	assert.NotContains(t, out, "Temp <F>")
	assert.True(t, strings.HasSuffix(out, "</g></svg>"))
}

func TestWriteHTML(t *testing.T) {
	c := loadTwoRows(t)

	var buf bytes.Buffer
	require.NoError(t, c.WriteHTML(&buf))
	out := buf.String()

	assert.Contains(t, out, `<div class="data__container">`)
	assert.Contains(t, out, `<div id="chart-container"><svg`)
	assert.Contains(t, out, `<div class="tooltip"></div>`)
	assert.Regexp(t, `var fadeMS = \s*100\s*;`, out)
	assert.Contains(t, out, "toFixed(2)")
}

func TestWritePageWithoutChart(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePage(&buf, nil))
	out := buf.String()

	assert.Contains(t, out, `<div id="chart-container"></div>`)
	assert.NotContains(t, out, "<svg")
	assert.NotContains(t, out, "<script>")
}

func TestWritePNG(t *testing.T) {
	c := loadTwoRows(t)

	var buf bytes.Buffer
	require.NoError(t, c.WritePNG(&buf))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 1000, img.Bounds().Dx())
	assert.Equal(t, 800, img.Bounds().Dy())
}

func TestWritePNGEmptySeries(t *testing.T) {
	c := Build(nil, Options{Layout: NewLayout(400, 500)})

	var buf bytes.Buffer
	require.NoError(t, c.WritePNG(&buf))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 400, img.Bounds().Dx())
}

func TestWritePNGSinglePoint(t *testing.T) {
	at := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	c := Build(models.Series{{Date: at, Value: 5}}, Options{Layout: NewLayout(1000, 1000)})
	require.Len(t, c.XTicks, 1)

	var buf bytes.Buffer
	require.NoError(t, c.WritePNG(&buf))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 1000, img.Bounds().Dx())
}

func TestWritePNGFlatSeries(t *testing.T) {
	at := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	c := Build(models.Series{{Date: at, Value: 5}, {Date: at.Add(time.Hour), Value: 5}},
		Options{Layout: NewLayout(1000, 1000)})

	var buf bytes.Buffer
	require.NoError(t, c.WritePNG(&buf))
}

func TestRasterMarkersHaveOutline(t *testing.T) {
	c := loadTwoRows(t)
	ch := c.rasterChart(1000, 800)
	require.Len(t, ch.Series, 2)

	outline := ch.Series[0].(chart.TimeSeries).Style
	fill := ch.Series[1].(chart.TimeSeries).Style

	assert.Equal(t, drawing.ColorBlack, outline.DotColor)
	assert.Equal(t, 6.0, outline.DotWidth)
	assert.Equal(t, drawing.ColorWhite, fill.DotColor)
	assert.Less(t, fill.DotWidth, outline.DotWidth)
	assert.Equal(t, float64(chart.Disabled), fill.StrokeWidth)
}

func TestDistinctTicks(t *testing.T) {
	assert.False(t, distinctTicks(nil))
	assert.False(t, distinctTicks([]scale.Tick{{Value: 1}}))
	assert.False(t, distinctTicks([]scale.Tick{{Value: 1}, {Value: 1}}))
	assert.True(t, distinctTicks([]scale.Tick{{Value: 1}, {Value: 2}}))
}
