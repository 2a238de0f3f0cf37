package render

import (
	"sync"

	"github.com/jgoulah/csvchart/internal/tooltip"
)

// Tracker turns raw pointer positions into Enter/Move/Leave calls on a Hover,
// the way a browser fires mouseover/mousemove/mouseleave on chart markers.
type Tracker struct {
	mu     sync.Mutex
	chart  *Chart
	hover  tooltip.Hover
	origin tooltip.Point
	active int
}

// Track starts dispatching pointer events for c to h. origin is the page
// position of the drawing surface's top-left corner.
func (c *Chart) Track(h tooltip.Hover, origin tooltip.Point) *Tracker {
	return &Tracker{chart: c, hover: h, origin: origin, active: -1}
}

// PointerMove handles the pointer moving to a page position
func (t *Tracker) PointerMove(at tooltip.Point) {
	t.mu.Lock()
	defer t.mu.Unlock()

	x := at.X - t.origin.X - t.chart.Layout.Margin.Left
	y := at.Y - t.origin.Y - t.chart.Layout.Margin.Top

	m, ok := t.chart.MarkerAt(x, y)
	if !ok {
		t.leave()
		return
	}

	if m.Index != t.active {
		t.leave()
		t.active = m.Index
		t.hover.Enter(m.Record, at)
	}
	t.hover.Move(m.Record, at)
}

// PointerOut handles the pointer leaving the drawing surface
func (t *Tracker) PointerOut() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.leave()
}

// Active returns the index of the hovered marker, or -1
func (t *Tracker) Active() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active
}

func (t *Tracker) leave() {
	if t.active < 0 {
		return
	}
	t.hover.Leave(t.chart.Markers[t.active].Record)
	t.active = -1
}
