package scale

import (
	"math"

	"github.com/dustin/go-humanize"
)

// Tick is a labelled position on an axis
type Tick struct {
	Value float64 // domain value (unix seconds for time scales)
	Pos   float64 // pixel position within the range
	Label string
}

// Linear maps a continuous numeric domain onto a pixel range
type Linear struct {
	d0, d1 float64
	r0, r1 float64
}

// NewLinear creates a linear scale from domain [d0, d1] onto range [r0, r1]
func NewLinear(d0, d1, r0, r1 float64) *Linear {
	return &Linear{d0: d0, d1: d1, r0: r0, r1: r1}
}

// Domain returns the input extent
func (s *Linear) Domain() (float64, float64) { return s.d0, s.d1 }

// Range returns the output extent
func (s *Linear) Range() (float64, float64) { return s.r0, s.r1 }

// Scale maps a domain value to the range; a zero-width domain maps to the range midpoint
func (s *Linear) Scale(v float64) float64 {
	return interpolate(s.d0, s.d1, s.r0, s.r1, v)
}

// Invert maps a range value back into the domain
func (s *Linear) Invert(px float64) float64 {
	return interpolate(s.r0, s.r1, s.d0, s.d1, px)
}

// Ticks returns roughly count evenly spaced, human-friendly ticks
func (s *Linear) Ticks(count int) []Tick {
	values, step := niceTicks(s.d0, s.d1, count)
	prec := precision(step)

	ticks := make([]Tick, 0, len(values))
	for _, v := range values {
		ticks = append(ticks, Tick{Value: v, Pos: s.Scale(v), Label: formatNumber(v, prec)})
	}
	return ticks
}

func interpolate(d0, d1, r0, r1, v float64) float64 {
	if d1 == d0 {
		return (r0 + r1) / 2
	}
	t := (v - d0) / (d1 - d0)
	return r0*(1-t) + r1*t
}

// tickIncrement returns the 1/2/5 x 10^k step that yields about count ticks
func tickIncrement(lo, hi float64, count int) float64 {
	if count < 1 {
		count = 1
	}
	step := (hi - lo) / float64(count)
	power := math.Floor(math.Log10(step))
	errRatio := step / math.Pow(10, power)

	factor := 1.0
	switch {
	case errRatio >= math.Sqrt(50):
		factor = 10
	case errRatio >= math.Sqrt(10):
		factor = 5
	case errRatio >= math.Sqrt(2):
		factor = 2
	}
	return factor * math.Pow(10, power)
}

const (
	maxExactInt = 1 << 53
	maxTicks    = 1000
)

func niceTicks(d0, d1 float64, count int) ([]float64, float64) {
	lo, hi := math.Min(d0, d1), math.Max(d0, d1)
	if math.IsNaN(lo) || math.IsNaN(hi) || count <= 0 {
		return nil, 0
	}
	if lo == hi {
		return []float64{lo}, 0
	}

	step := tickIncrement(lo, hi, count)
	if step <= 0 || math.IsInf(step, 0) || math.IsNaN(step) {
		return []float64{lo, hi}, 0
	}

	// Count in integer multiples of the step; sub-unit steps divide by an
	// integer inverse so 0.1 steps don't drift
	var i0, i1 float64
	var at func(i float64) float64
	if step < 1 {
		inv := math.Round(1 / step)
		i0, i1 = math.Ceil(lo*inv), math.Floor(hi*inv)
		at = func(i float64) float64 { return i / inv }
	} else {
		i0, i1 = math.Ceil(lo/step), math.Floor(hi/step)
		at = func(i float64) float64 { return i * step }
	}

	// Past 2^53 consecutive multiples are no longer distinct floats
	if math.IsNaN(i0) || math.IsNaN(i1) ||
		math.Abs(i0) > maxExactInt || math.Abs(i1) > maxExactInt ||
		i1-i0+1 > maxTicks {
		return []float64{lo, hi}, step
	}

	n := int(i1-i0) + 1
	if n < 0 {
		n = 0
	}
	values := make([]float64, 0, n)
	for k := 0; k < n; k++ {
		values = append(values, cleanZero(at(i0+float64(k))))
	}
	if d0 > d1 {
		for i, j := 0, len(values)-1; i < j; i, j = i+1, j-1 {
			values[i], values[j] = values[j], values[i]
		}
	}
	return values, step
}

func precision(step float64) int {
	if step <= 0 {
		return 0
	}
	p := -int(math.Floor(math.Log10(step)))
	if p < 0 {
		return 0
	}
	return p
}

// formatNumber renders a tick with thousands separators and the step's precision
func formatNumber(v float64, prec int) string {
	return humanize.CommafWithDigits(v, prec)
}

func cleanZero(v float64) float64 {
	if v == 0 {
		return 0
	}
	return v
}
