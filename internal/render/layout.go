package render

// Margin is the space between the drawing surface edge and the plot area
type Margin struct {
	Top, Right, Bottom, Left float64
}

// Layout sizes the drawing surface and the plot area inside it
type Layout struct {
	Margin Margin
	Width  float64 // plot area width
	Height float64 // plot area height
}

// NewLayout derives the chart geometry from the host container: margins are
// 5% of the container width and the surface is 80% of the viewport tall.
func NewLayout(containerWidth, viewportHeight float64) Layout {
	m := containerWidth * 0.05
	l := Layout{
		Margin: Margin{Top: m, Right: m, Bottom: m, Left: m},
		Width:  containerWidth - 2*m,
		Height: viewportHeight*0.8 - 2*m,
	}
	if l.Width < 0 {
		l.Width = 0
	}
	if l.Height < 0 {
		l.Height = 0
	}
	return l
}

// OuterWidth is the full drawing surface width
func (l Layout) OuterWidth() float64 {
	return l.Width + l.Margin.Left + l.Margin.Right
}

// OuterHeight is the full drawing surface height
func (l Layout) OuterHeight() float64 {
	return l.Height + l.Margin.Top + l.Margin.Bottom
}
