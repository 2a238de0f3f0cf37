package render

import (
	"bytes"
	"fmt"
	"html"
	"io"
	"strconv"
	"time"
)

const (
	tickSize    = 6
	tickPadding = 3
	labelSize   = "32px"
)

// WriteSVG writes the chart as a standalone SVG document
func (c *Chart) WriteSVG(w io.Writer) error {
	var buf bytes.Buffer
	c.writeSVG(&buf)
	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("writing svg: %w", err)
	}
	return nil
}

// SVG returns the chart markup as a string
func (c *Chart) SVG() string {
	var buf bytes.Buffer
	c.writeSVG(&buf)
	return buf.String()
}

func (c *Chart) writeSVG(b *bytes.Buffer) {
	l := c.Layout

	fmt.Fprintf(b, `<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s">`,
		num(l.OuterWidth()), num(l.OuterHeight()))
	fmt.Fprintf(b, `<g transform="translate(%s,%s)">`, num(l.Margin.Left), num(l.Margin.Top))

	c.writeXAxis(b)
	c.writeYAxis(b)

	if c.Line != "" {
		fmt.Fprintf(b, `<path class="line" fill="none" stroke="black" stroke-width="1.5" d="%s"></path>`, c.Line)
	}

	for _, m := range c.Markers {
		fmt.Fprintf(b,
			`<circle class="dot" cx="%s" cy="%s" r="%s" fill="white" stroke="black" data-index="%d" data-value="%s" data-date="%s"></circle>`,
			num(m.CX), num(m.CY), num(m.R), m.Index,
			strconv.FormatFloat(m.Record.Value, 'f', -1, 64),
			html.EscapeString(m.Record.Date.Format(time.RFC3339)),
		)
	}

	b.WriteString(`</g></svg>`)
}

func (c *Chart) writeXAxis(b *bytes.Buffer) {
	l := c.Layout

	fmt.Fprintf(b, `<g class="axis axis--x" transform="translate(0,%s)" fill="none" font-size="10" font-family="sans-serif" text-anchor="middle">`, num(l.Height))
	fmt.Fprintf(b, `<path class="domain" stroke="currentColor" d="M0,%dV0H%sV%d"></path>`, tickSize, num(l.Width), tickSize)

	for _, t := range c.XTicks {
		fmt.Fprintf(b, `<g class="tick" opacity="1" transform="translate(%s,0)">`, num(t.Pos))
		fmt.Fprintf(b, `<line stroke="currentColor" y2="%d"></line>`, tickSize)
		fmt.Fprintf(b, `<text fill="currentColor" y="%d" dy="0.71em">%s</text>`, tickSize+tickPadding, html.EscapeString(t.Label))
		b.WriteString(`</g>`)
	}

	if c.Labels.X != "" {
		fmt.Fprintf(b, `<text x="%spx" y="-8px" font-weight="bold" text-anchor="end" fill="currentColor" font-size="%s">%s</text>`,
			num(l.Width-4), labelSize, html.EscapeString(c.Labels.X))
	}

	b.WriteString(`</g>`)
}

func (c *Chart) writeYAxis(b *bytes.Buffer) {
	l := c.Layout

	b.WriteString(`<g class="axis axis--y" fill="none" font-size="10" font-family="sans-serif" text-anchor="end">`)
	fmt.Fprintf(b, `<path class="domain" stroke="currentColor" d="M-%d,%sH0V0H-%d"></path>`, tickSize, num(l.Height), tickSize)

	for _, t := range c.YTicks {
		fmt.Fprintf(b, `<g class="tick" opacity="1" transform="translate(0,%s)">`, num(t.Pos))
		fmt.Fprintf(b, `<line stroke="currentColor" x2="-%d"></line>`, tickSize)
		fmt.Fprintf(b, `<text fill="currentColor" x="-%d" dy="0.32em">%s</text>`, tickSize+tickPadding, html.EscapeString(t.Label))
		b.WriteString(`</g>`)
	}

	if c.Labels.Y != "" {
		fmt.Fprintf(b, `<text x="-32px" y="-16px" font-weight="bold" text-anchor="start" fill="currentColor" font-size="%s">%s</text>`,
			labelSize, html.EscapeString(c.Labels.Y))
	}

	b.WriteString(`</g>`)
}
