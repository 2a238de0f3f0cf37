package models

import "time"

// Record represents a single row of a time series
type Record struct {
	ID        int64     `json:"id,omitempty"`
	Series    string    `json:"series,omitempty"`
	Date      time.Time `json:"date"`
	Value     float64   `json:"value"`
	Published bool      `json:"published,omitempty"`
}

// Series is an ordered collection of records, kept in input order
type Series []Record

// TimeExtent returns the earliest and latest timestamps in the series
func (s Series) TimeExtent() (time.Time, time.Time, bool) {
	if len(s) == 0 {
		return time.Time{}, time.Time{}, false
	}
	lo, hi := s[0].Date, s[0].Date
	for _, r := range s[1:] {
		if r.Date.Before(lo) {
			lo = r.Date
		}
		if r.Date.After(hi) {
			hi = r.Date
		}
	}
	return lo, hi, true
}

// ValueExtent returns the smallest and largest values in the series
func (s Series) ValueExtent() (float64, float64, bool) {
	if len(s) == 0 {
		return 0, 0, false
	}
	lo, hi := s[0].Value, s[0].Value
	for _, r := range s[1:] {
		if r.Value < lo {
			lo = r.Value
		}
		if r.Value > hi {
			hi = r.Value
		}
	}
	return lo, hi, true
}
