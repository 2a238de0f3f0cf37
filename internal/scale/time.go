package scale

import (
	"math"
	"sort"
	"time"
)

// Time maps a time domain onto a pixel range
type Time struct {
	lin    *Linear
	t0, t1 time.Time
	loc    *time.Location
}

// NewTime creates a time scale from domain [t0, t1] onto range [r0, r1]
func NewTime(t0, t1 time.Time, r0, r1 float64) *Time {
	return &Time{
		lin: NewLinear(toSeconds(t0), toSeconds(t1), r0, r1),
		t0:  t0,
		t1:  t1,
		loc: t0.Location(),
	}
}

// Domain returns the input extent
func (s *Time) Domain() (time.Time, time.Time) {
	return s.t0, s.t1
}

// Range returns the output extent
func (s *Time) Range() (float64, float64) { return s.lin.Range() }

// Scale maps a timestamp to the range
func (s *Time) Scale(t time.Time) float64 {
	return s.lin.Scale(toSeconds(t))
}

// Invert maps a range value back to a timestamp
func (s *Time) Invert(px float64) time.Time {
	return fromSeconds(s.lin.Invert(px), s.loc)
}

// Ticks returns roughly count ticks on calendar-aligned boundaries
func (s *Time) Ticks(count int) []Tick {
	start, stop := s.Domain()
	if stop.Before(start) {
		start, stop = stop, start
	}

	var times []time.Time
	if start.Equal(stop) {
		times = []time.Time{start}
	} else {
		times = chooseInterval(start, stop, count).between(start, stop)
	}

	ticks := make([]Tick, 0, len(times))
	for _, t := range times {
		ticks = append(ticks, Tick{Value: toSeconds(t), Pos: s.Scale(t), Label: FormatTime(t)})
	}
	return ticks
}

type unit int

const (
	unitMillisecond unit = iota
	unitSecond
	unitMinute
	unitHour
	unitDay
	unitWeek
	unitMonth
	unitYear
)

type interval struct {
	unit   unit
	every  int
	approx time.Duration
}

const (
	day   = 24 * time.Hour
	week  = 7 * day
	month = 30 * day
	year  = 365 * day
)

var tickIntervals = []interval{
	{unitSecond, 1, time.Second},
	{unitSecond, 5, 5 * time.Second},
	{unitSecond, 15, 15 * time.Second},
	{unitSecond, 30, 30 * time.Second},
	{unitMinute, 1, time.Minute},
	{unitMinute, 5, 5 * time.Minute},
	{unitMinute, 15, 15 * time.Minute},
	{unitMinute, 30, 30 * time.Minute},
	{unitHour, 1, time.Hour},
	{unitHour, 3, 3 * time.Hour},
	{unitHour, 6, 6 * time.Hour},
	{unitHour, 12, 12 * time.Hour},
	{unitDay, 1, day},
	{unitDay, 2, 2 * day},
	{unitWeek, 1, week},
	{unitMonth, 1, month},
	{unitMonth, 3, 3 * month},
	{unitYear, 1, year},
}

func chooseInterval(start, stop time.Time, count int) interval {
	if count < 1 {
		count = 1
	}
	span := stop.Sub(start)
	target := span / time.Duration(count)

	i := sort.Search(len(tickIntervals), func(i int) bool {
		return tickIntervals[i].approx > target
	})

	switch i {
	case len(tickIntervals):
		years := tickIncrement(0, span.Hours()/year.Hours(), count)
		return interval{unit: unitYear, every: int(math.Max(1, math.Round(years))), approx: year}
	case 0:
		ms := tickIncrement(0, float64(span.Milliseconds()), count)
		return interval{unit: unitMillisecond, every: int(math.Max(1, math.Round(ms))), approx: time.Millisecond}
	}

	prev, next := tickIntervals[i-1], tickIntervals[i]
	if float64(target)/float64(prev.approx) < float64(next.approx)/float64(target) {
		return prev
	}
	return next
}

func (iv interval) between(start, stop time.Time) []time.Time {
	var out []time.Time
	t := floorTo(iv.unit, start)
	if t.Before(start) {
		t = stepOnce(iv.unit, t)
	}
	for !t.After(stop) {
		if iv.keep(t) {
			out = append(out, t)
		}
		t = stepOnce(iv.unit, t)
	}
	return out
}

func (iv interval) keep(t time.Time) bool {
	if iv.every <= 1 {
		return true
	}
	switch iv.unit {
	case unitMillisecond:
		return (t.Nanosecond()/int(time.Millisecond))%iv.every == 0
	case unitSecond:
		return t.Second()%iv.every == 0
	case unitMinute:
		return t.Minute()%iv.every == 0
	case unitHour:
		return t.Hour()%iv.every == 0
	case unitDay:
		return (t.Day()-1)%iv.every == 0
	case unitMonth:
		return (int(t.Month())-1)%iv.every == 0
	case unitYear:
		return t.Year()%iv.every == 0
	}
	return true
}

func floorTo(u unit, t time.Time) time.Time {
	y, mo, d := t.Date()
	loc := t.Location()
	switch u {
	case unitMillisecond:
		return time.Date(y, mo, d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond()/1e6*1e6, loc)
	case unitSecond:
		return time.Date(y, mo, d, t.Hour(), t.Minute(), t.Second(), 0, loc)
	case unitMinute:
		return time.Date(y, mo, d, t.Hour(), t.Minute(), 0, 0, loc)
	case unitHour:
		return time.Date(y, mo, d, t.Hour(), 0, 0, 0, loc)
	case unitDay:
		return time.Date(y, mo, d, 0, 0, 0, 0, loc)
	case unitWeek:
		return time.Date(y, mo, d-int(t.Weekday()), 0, 0, 0, 0, loc)
	case unitMonth:
		return time.Date(y, mo, 1, 0, 0, 0, 0, loc)
	default:
		return time.Date(y, time.January, 1, 0, 0, 0, 0, loc)
	}
}

func stepOnce(u unit, t time.Time) time.Time {
	switch u {
	case unitMillisecond:
		return t.Add(time.Millisecond)
	case unitSecond:
		return t.Add(time.Second)
	case unitMinute:
		return t.Add(time.Minute)
	case unitHour:
		return t.Add(time.Hour)
	case unitDay:
		return t.AddDate(0, 0, 1)
	case unitWeek:
		return t.AddDate(0, 0, 7)
	case unitMonth:
		return t.AddDate(0, 1, 0)
	default:
		return t.AddDate(1, 0, 0)
	}
}

// FormatTime picks the coarsest label that still identifies the tick
func FormatTime(t time.Time) string {
	switch {
	case floorTo(unitSecond, t).Before(t):
		return t.Format(".000")
	case floorTo(unitMinute, t).Before(t):
		return t.Format(":05")
	case floorTo(unitHour, t).Before(t):
		return t.Format("03:04")
	case floorTo(unitDay, t).Before(t):
		return t.Format("03 PM")
	case floorTo(unitMonth, t).Before(t):
		if floorTo(unitWeek, t).Before(t) {
			return t.Format("Mon 02")
		}
		return t.Format("Jan 02")
	case floorTo(unitYear, t).Before(t):
		return t.Format("January")
	default:
		return t.Format("2006")
	}
}

func toSeconds(t time.Time) float64 {
	return float64(t.UnixNano()) / 1e9
}

func fromSeconds(s float64, loc *time.Location) time.Time {
	sec, frac := math.Modf(s)
	return time.Unix(int64(sec), int64(math.Round(frac*1e9))).In(loc)
}
