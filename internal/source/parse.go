package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/jgoulah/csvchart/pkg/models"
)

const maxReportedRows = 5

// ParseOptions controls how CSV rows become records
type ParseOptions struct {
	DateColumn  string
	ValueColumn string
	DateLayout  string
	Location    *time.Location
	Strict      bool // fail on the first malformed row instead of skipping it
}

// DefaultParseOptions matches the `Date` / `Random Data` export format
func DefaultParseOptions() ParseOptions {
	return ParseOptions{
		DateColumn:  "Date",
		ValueColumn: "Random Data",
		DateLayout:  "2006-01-02 15:04:05",
		Location:    time.Local,
	}
}

// RowError describes a row that could not be turned into a record
type RowError struct {
	Line   int // 1-based line in the file, header included
	Column string
	Value  string
	Err    error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("line %d: column %q: invalid value %q: %v", e.Line, e.Column, e.Value, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// Report summarizes a parse
type Report struct {
	Rows    int
	Parsed  int
	Skipped int
	Errors  []*RowError // first few skipped rows
}

// Parse reads a CSV stream into a series, keeping input order
func Parse(r io.Reader, opts ParseOptions) (models.Series, Report, error) {
	var report Report

	opts = withDefaults(opts)

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	// Read header to find column indices
	header, err := reader.Read()
	if err == io.EOF {
		return nil, report, fmt.Errorf("reading CSV header: empty input")
	}
	if err != nil {
		return nil, report, fmt.Errorf("reading CSV header: %w", err)
	}

	dateCol := findColumn(header, opts.DateColumn)
	valueCol := findColumn(header, opts.ValueColumn)
	if dateCol == -1 || valueCol == -1 {
		return nil, report, fmt.Errorf("could not find required columns (%q and %q) in CSV. Header: %v", opts.DateColumn, opts.ValueColumn, header)
	}

	series := models.Series{}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, report, fmt.Errorf("reading CSV row: %w", err)
		}

		report.Rows++
		line, _ := reader.FieldPos(0)

		rec, rowErr := parseRow(record, line, dateCol, valueCol, opts)
		if rowErr != nil {
			if opts.Strict {
				return nil, report, rowErr
			}
			report.Skipped++
			if len(report.Errors) < maxReportedRows {
				report.Errors = append(report.Errors, rowErr)
			}
			continue
		}

		series = append(series, rec)
		report.Parsed++
	}

	return series, report, nil
}

func parseRow(record []string, line, dateCol, valueCol int, opts ParseOptions) (models.Record, *RowError) {
	for _, col := range []struct {
		index int
		name  string
	}{{dateCol, opts.DateColumn}, {valueCol, opts.ValueColumn}} {
		if len(record) <= col.index {
			return models.Record{}, &RowError{
				Line:   line,
				Column: col.name,
				Err:    fmt.Errorf("row has %d fields", len(record)),
			}
		}
	}

	dateStr := strings.TrimSpace(record[dateCol])
	date, err := time.ParseInLocation(opts.DateLayout, dateStr, opts.Location)
	if err != nil {
		return models.Record{}, &RowError{Line: line, Column: opts.DateColumn, Value: dateStr, Err: err}
	}

	valueStr := strings.TrimSpace(record[valueCol])
	value, err := parseValue(valueStr)
	if err != nil {
		return models.Record{}, &RowError{Line: line, Column: opts.ValueColumn, Value: valueStr, Err: err}
	}

	return models.Record{Date: date, Value: value}, nil
}

var errNotFinite = errors.New("value is not a finite number")

// parseValue parses a measurement, rejecting empty strings, NaN and infinities
func parseValue(s string) (float64, error) {
	if s == "" {
		return 0, fmt.Errorf("empty string")
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errNotFinite
	}
	return v, nil
}

func findColumn(header []string, name string) int {
	want := strings.TrimSpace(name)
	for i, col := range header {
		// Excel exports sometimes carry a BOM on the first header cell
		col = strings.TrimPrefix(strings.TrimSpace(col), "\ufeff")
		if strings.EqualFold(col, want) {
			return i
		}
	}
	return -1
}

func withDefaults(opts ParseOptions) ParseOptions {
	def := DefaultParseOptions()
	if opts.DateColumn == "" {
		opts.DateColumn = def.DateColumn
	}
	if opts.ValueColumn == "" {
		opts.ValueColumn = def.ValueColumn
	}
	if opts.DateLayout == "" {
		opts.DateLayout = def.DateLayout
	}
	if opts.Location == nil {
		opts.Location = def.Location
	}
	return opts
}
