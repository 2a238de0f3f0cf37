package render

import (
	"math"
	"strconv"
	"strings"
)

type point struct {
	X, Y float64
}

const curveEpsilon = 1e-12

// catmullRomPath builds SVG path data for a centripetal Catmull-Rom spline
// (alpha 0.5) through every point, emitted as cubic Bézier segments.
func catmullRomPath(points []point) string {
	switch len(points) {
	case 0:
		return ""
	case 1:
		return "M" + num(points[0].X) + "," + num(points[0].Y) + "Z"
	case 2:
		return "M" + num(points[0].X) + "," + num(points[0].Y) +
			"L" + num(points[1].X) + "," + num(points[1].Y)
	}

	var b strings.Builder
	b.WriteString("M" + num(points[0].X) + "," + num(points[0].Y))

	// Duplicate the end points so the first and last segments have neighbours
	n := len(points)
	for i := 0; i < n-1; i++ {
		p0 := points[max(i-1, 0)]
		p1 := points[i]
		p2 := points[i+1]
		p3 := points[min(i+2, n-1)]

		c1, c2 := catmullRomControls(p0, p1, p2, p3)
		b.WriteString("C" + num(c1.X) + "," + num(c1.Y) + "," +
			num(c2.X) + "," + num(c2.Y) + "," +
			num(p2.X) + "," + num(p2.Y))
	}
	return b.String()
}

// catmullRomControls returns the Bézier control points for the segment p1→p2
func catmullRomControls(p0, p1, p2, p3 point) (point, point) {
	l01, l01a := alphaDistance(p0, p1)
	l12, l12a := alphaDistance(p1, p2)
	l23, l23a := alphaDistance(p2, p3)

	c1 := p1
	if l01a > curveEpsilon {
		a := 2*l01 + 3*l01a*l12a + l12
		n := 3 * l01a * (l01a + l12a)
		c1 = point{
			X: (p1.X*a - p0.X*l12 + p2.X*l01) / n,
			Y: (p1.Y*a - p0.Y*l12 + p2.Y*l01) / n,
		}
	}

	c2 := p2
	if l23a > curveEpsilon {
		b := 2*l23 + 3*l23a*l12a + l12
		m := 3 * l23a * (l23a + l12a)
		c2 = point{
			X: (p2.X*b + p1.X*l23 - p3.X*l12) / m,
			Y: (p2.Y*b + p1.Y*l23 - p3.Y*l12) / m,
		}
	}

	return c1, c2
}

// alphaDistance returns d^(2·alpha) and d^alpha for alpha = 0.5
func alphaDistance(a, b point) (float64, float64) {
	dx, dy := b.X-a.X, b.Y-a.Y
	d2a := math.Sqrt(dx*dx + dy*dy)
	return d2a, math.Sqrt(d2a)
}

// num formats a coordinate with at most three decimals
func num(v float64) string {
	r := math.Round(v*1000) / 1000
	if r == 0 {
		r = 0 // drop negative zero
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}
