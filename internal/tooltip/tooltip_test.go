package tooltip

import (
	"sync"
	"testing"
	"time"

	"github.com/jgoulah/csvchart/pkg/models"
	"github.com/stretchr/testify/assert"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestTooltip() (*Tooltip, *fakeClock) {
	clock := &fakeClock{now: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)}
	opts := DefaultOptions()
	opts.Clock = clock
	return New(opts), clock
}

func TestTooltipStartsHidden(t *testing.T) {
	tip, _ := newTestTooltip()
	s := tip.State()
	assert.Zero(t, s.Opacity)
	assert.False(t, tip.Visible())
}

func TestTooltipEnterShows(t *testing.T) {
	tip, _ := newTestTooltip()
	tip.Enter(models.Record{Value: 10}, Point{X: 100, Y: 200})

	assert.Equal(t, 1.0, tip.State().Opacity)
	assert.True(t, tip.Visible())
}

func TestTooltipMoveUpdatesTextAndPosition(t *testing.T) {
	tip, _ := newTestTooltip()
	rec := models.Record{Value: 72.456}

	tip.Enter(rec, Point{X: 100, Y: 200})
	tip.Move(rec, Point{X: 120, Y: 210})

	s := tip.State()
	assert.Equal(t, 1.0, s.Opacity)
	assert.Equal(t, "72.46°F", s.Text)
	assert.Equal(t, 136.0, s.Left)
	assert.Equal(t, 194.0, s.Top)
	assert.Equal(t, 18.0, s.FontSize)
}

func TestTooltipLeaveFadesWithinDuration(t *testing.T) {
	tip, clock := newTestTooltip()
	rec := models.Record{Value: 20}

	tip.Enter(rec, Point{})
	tip.Move(rec, Point{X: 84, Y: 116})
	tip.Leave(rec)

	s := tip.State()
	assert.True(t, s.Fading)
	assert.Equal(t, 1.0, s.Opacity)

	clock.Advance(50 * time.Millisecond)
	s = tip.State()
	assert.InDelta(t, 0.5, s.Opacity, 1e-9)
	assert.InDelta(t, 50.0, s.Left, 1e-9)
	assert.InDelta(t, 50.0, s.Top, 1e-9)

	clock.Advance(50 * time.Millisecond)
	s = tip.State()
	assert.False(t, s.Fading)
	assert.Zero(t, s.Opacity)
	assert.Zero(t, s.Left)
	assert.Zero(t, s.Top)
	assert.Equal(t, "20.00°F", s.Text)
}

func TestTooltipEnterCancelsFade(t *testing.T) {
	tip, clock := newTestTooltip()
	rec := models.Record{Value: 1}

	tip.Enter(rec, Point{})
	tip.Leave(rec)
	clock.Advance(30 * time.Millisecond)
	tip.Enter(rec, Point{})
	clock.Advance(time.Second)

	s := tip.State()
	assert.False(t, s.Fading)
	assert.Equal(t, 1.0, s.Opacity)
}

func TestTooltipZeroFadeHidesImmediately(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	tip := New(Options{Clock: clock})
	rec := models.Record{Value: 1}

	tip.Enter(rec, Point{})
	tip.Leave(rec)
	assert.False(t, tip.Visible())
}

func TestTooltipConcurrentCallers(t *testing.T) {
	tip := New(DefaultOptions())
	rec := models.Record{Value: 3}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				tip.Enter(rec, Point{})
				tip.Move(rec, Point{X: float64(i), Y: float64(j)})
				tip.Leave(rec)
				_ = tip.State()
			}
		}(i)
	}
	wg.Wait()
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "10.00°F", FormatValue(10, "°F"))
	assert.Equal(t, "-0.50 kWh", FormatValue(-0.5, " kWh"))
	assert.Equal(t, "3.14", FormatValue(3.14159, ""))
}
