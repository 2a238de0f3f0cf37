package render

import (
	"fmt"
	"html/template"
	"io"
)

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { margin: 0; font-family: sans-serif; }
.data__container { width: 100%; }
.dot { cursor: pointer; }
.tooltip {
  position: absolute;
  pointer-events: none;
  opacity: 0;
  left: 0;
  top: 0;
  padding: 4px 8px;
  background: rgba(255, 255, 255, 0.9);
  border: 1px solid #333;
  border-radius: 4px;
}
</style>
</head>
<body>
<div class="data__container">
<div id="chart-container">{{.SVG}}</div>
</div>
{{- if .Interactive}}
<div class="tooltip"></div>
<script>
(function () {
  var unit = {{.Unit}};
  var fadeMS = {{.FadeMS}};
  var offsetX = {{.OffsetX}};
  var offsetY = {{.OffsetY}};
  var fontSize = {{.FontSize}};
  var tip = document.querySelector(".tooltip");

  document.querySelectorAll("#chart-container circle.dot").forEach(function (dot) {
    dot.addEventListener("mouseover", function () {
      tip.style.transition = "none";
      tip.style.opacity = 1;
    });
    dot.addEventListener("mousemove", function (ev) {
      var value = parseFloat(dot.getAttribute("data-value"));
      tip.style.transition = "none";
      tip.style.opacity = 1;
      tip.textContent = value.toFixed(2) + unit;
      tip.style.left = (ev.pageX + offsetX) + "px";
      tip.style.top = (ev.pageY + offsetY) + "px";
      tip.style.fontSize = fontSize + "px";
    });
    dot.addEventListener("mouseleave", function () {
      var ease = " " + fadeMS + "ms cubic-bezier(0.645, 0.045, 0.355, 1)";
      tip.style.transition = "opacity" + ease + ", left" + ease + ", top" + ease;
      tip.style.opacity = 0;
      tip.style.left = "0px";
      tip.style.top = "0px";
    });
  });
})();
</script>
{{- end}}
</body>
</html>
`))

type pageData struct {
	Title       string
	SVG         template.HTML
	Interactive bool
	Unit        string
	FadeMS      int64
	OffsetX     float64
	OffsetY     float64
	FontSize    float64
}

// WriteHTML writes a page holding the chart, the tooltip overlay and the
// hover handlers that drive it
func (c *Chart) WriteHTML(w io.Writer) error {
	return WritePage(w, c)
}

// WritePage writes the chart page. A nil chart yields the empty container,
// which is what a viewer sees after a failed load.
func WritePage(w io.Writer, c *Chart) error {
	data := pageData{Title: "Chart"}
	if c != nil {
		if c.Labels.Y != "" {
			data.Title = c.Labels.Y
		}
		data.SVG = template.HTML(c.SVG())
		data.Interactive = len(c.Markers) > 0
		data.Unit = c.Tooltip.Unit
		data.FadeMS = c.Tooltip.Fade.Milliseconds()
		data.OffsetX = c.Tooltip.OffsetX
		data.OffsetY = c.Tooltip.OffsetY
		data.FontSize = c.Tooltip.FontSize
	}

	if err := pageTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("writing html: %w", err)
	}
	return nil
}
