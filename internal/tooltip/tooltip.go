// Package tooltip models the hover feedback shown next to chart markers.
package tooltip

import (
	"fmt"
	"sync"
	"time"

	"github.com/jgoulah/csvchart/pkg/models"
)

// Point is a pointer position in page coordinates
type Point struct {
	X, Y float64
}

// Hover receives pointer events for a marker
type Hover interface {
	Enter(r models.Record, at Point)
	Move(r models.Record, at Point)
	Leave(r models.Record)
}

// Clock supplies the current time
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// Options configures a Tooltip
type Options struct {
	Unit     string        // appended to the formatted value, e.g. "°F"
	Fade     time.Duration // leave transition length
	OffsetX  float64
	OffsetY  float64
	FontSize float64
	Clock    Clock
}

// DefaultOptions mirrors the original page: 100ms fade, 16px offset, 18px text
func DefaultOptions() Options {
	return Options{
		Unit:     "°F",
		Fade:     100 * time.Millisecond,
		OffsetX:  16,
		OffsetY:  -16,
		FontSize: 18,
	}
}

// State is what the overlay looks like at a given instant
type State struct {
	Opacity  float64
	Text     string
	Left     float64
	Top      float64
	FontSize float64
	Fading   bool
}

// Tooltip is a Hover that tracks overlay state; safe for concurrent callers
type Tooltip struct {
	mu    sync.Mutex
	opts  Options
	clock Clock

	opacity float64
	text    string
	left    float64
	top     float64

	fading    bool
	fadeStart time.Time
	fadeFrom  State
}

// New creates a hidden tooltip
func New(opts Options) *Tooltip {
	clock := opts.Clock
	if clock == nil {
		clock = realClock{}
	}
	if opts.Fade < 0 {
		opts.Fade = 0
	}
	return &Tooltip{opts: opts, clock: clock}
}

// Enter shows the tooltip and cancels any running fade
func (t *Tooltip) Enter(r models.Record, at Point) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.settle()
	t.fading = false
	t.opacity = 1
}

// Move updates the text and follows the pointer
func (t *Tooltip) Move(r models.Record, at Point) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.fading = false
	t.opacity = 1
	t.text = FormatValue(r.Value, t.opts.Unit)
	t.left = at.X + t.opts.OffsetX
	t.top = at.Y + t.opts.OffsetY
}

// Leave starts fading the tooltip out and sliding it back to the origin
func (t *Tooltip) Leave(r models.Record) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.settle()
	t.fadeFrom = State{Opacity: t.opacity, Left: t.left, Top: t.top}
	t.fadeStart = t.clock.Now()
	t.fading = true
}

// State evaluates the overlay at the current clock time
func (t *Tooltip) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.settle()
	return State{
		Opacity:  t.opacity,
		Text:     t.text,
		Left:     t.left,
		Top:      t.top,
		FontSize: t.opts.FontSize,
		Fading:   t.fading,
	}
}

// Visible reports whether any part of the tooltip can be seen
func (t *Tooltip) Visible() bool {
	return t.State().Opacity > 0
}

// settle applies the fade at the current time; callers hold mu
func (t *Tooltip) settle() {
	if !t.fading {
		return
	}
	p := t.progress()
	k := 1 - easeCubicInOut(p)
	t.opacity = t.fadeFrom.Opacity * k
	t.left = t.fadeFrom.Left * k
	t.top = t.fadeFrom.Top * k
	if p >= 1 {
		t.fading = false
	}
}

func (t *Tooltip) progress() float64 {
	if t.opts.Fade <= 0 {
		return 1
	}
	elapsed := t.clock.Now().Sub(t.fadeStart)
	p := float64(elapsed) / float64(t.opts.Fade)
	if p > 1 {
		return 1
	}
	if p < 0 {
		return 0
	}
	return p
}

// FormatValue renders a measurement the way the tooltip shows it
func FormatValue(v float64, unit string) string {
	return fmt.Sprintf("%.2f%s", v, unit)
}

func easeCubicInOut(t float64) float64 {
	t *= 2
	if t <= 1 {
		return t * t * t / 2
	}
	t -= 2
	return (t*t*t + 2) / 2
}
