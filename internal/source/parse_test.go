package source

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func utcOptions() ParseOptions {
	opts := DefaultParseOptions()
	opts.Location = time.UTC
	return opts
}

func TestParseTwoRows(t *testing.T) {
	input := "Date,Random Data\n2020-01-01 00:00:00,10\n2020-01-02 00:00:00,20\n"

	series, report, err := Parse(strings.NewReader(input), utcOptions())
	require.NoError(t, err)
	require.Len(t, series, 2)

	assert.Equal(t, time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), series[0].Date)
	assert.Equal(t, 10.0, series[0].Value)
	assert.Equal(t, time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC), series[1].Date)
	assert.Equal(t, 20.0, series[1].Value)

	assert.Equal(t, 2, report.Rows)
	assert.Equal(t, 2, report.Parsed)
	assert.Zero(t, report.Skipped)
}

func TestParseKeepsInputOrderAndExtraColumns(t *testing.T) {
	input := "id,random data,date\n" +
		"a,3.5,2021-06-01 12:00:00\n" +
		"b,-1,2021-05-01 12:00:00\n"

	series, _, err := Parse(strings.NewReader(input), utcOptions())
	require.NoError(t, err)
	require.Len(t, series, 2)

	assert.Equal(t, 3.5, series[0].Value)
	assert.Equal(t, time.June, series[0].Date.Month())
	assert.Equal(t, -1.0, series[1].Value)
	assert.Equal(t, time.May, series[1].Date.Month())
}

func TestParseSkipsMalformedRows(t *testing.T) {
	input := "Date,Random Data\n" +
		"2020-01-01 00:00:00,10\n" +
		"not a date,11\n" +
		"2020-01-03 00:00:00,abc\n" +
		"2020-01-04 00:00:00,\n" +
		"2020-01-05 00:00:00,NaN\n" +
		"2020-01-06 00:00:00\n" +
		"2020-01-07 00:00:00,12\n"

	series, report, err := Parse(strings.NewReader(input), utcOptions())
	require.NoError(t, err)

	require.Len(t, series, 2)
	assert.Equal(t, 10.0, series[0].Value)
	assert.Equal(t, 12.0, series[1].Value)

	assert.Equal(t, 7, report.Rows)
	assert.Equal(t, 2, report.Parsed)
	assert.Equal(t, 5, report.Skipped)
	require.Len(t, report.Errors, 5)
	assert.Equal(t, 3, report.Errors[0].Line)
	assert.Equal(t, "Date", report.Errors[0].Column)
	assert.Equal(t, "Random Data", report.Errors[1].Column)
}

func TestParseStrictAbortsOnMalformedRow(t *testing.T) {
	input := "Date,Random Data\n2020-01-01 00:00:00,10\n2020-01-02 00:00:00,oops\n"

	opts := utcOptions()
	opts.Strict = true

	series, _, err := Parse(strings.NewReader(input), opts)
	assert.Nil(t, series)

	var rowErr *RowError
	require.True(t, errors.As(err, &rowErr))
	assert.Equal(t, 3, rowErr.Line)
	assert.Equal(t, "oops", rowErr.Value)
}

func TestParseMissingColumn(t *testing.T) {
	_, _, err := Parse(strings.NewReader("Date,Temperature\n2020-01-01 00:00:00,1\n"), utcOptions())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Random Data")
}

func TestParseEmptyInput(t *testing.T) {
	_, _, err := Parse(strings.NewReader(""), utcOptions())
	assert.Error(t, err)
}

func TestParseHeaderOnly(t *testing.T) {
	series, report, err := Parse(strings.NewReader("Date,Random Data\n"), utcOptions())
	require.NoError(t, err)
	assert.Empty(t, series)
	assert.Zero(t, report.Rows)
}

func TestParseCustomColumnsAndLayout(t *testing.T) {
	opts := ParseOptions{
		DateColumn:  "when",
		ValueColumn: "kwh",
		DateLayout:  "01/02/2006",
		Location:    time.UTC,
	}
	series, _, err := Parse(strings.NewReader("when,kwh\n03/15/2024,1.25\n"), opts)
	require.NoError(t, err)
	require.Len(t, series, 1)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), series[0].Date)
}

func TestParseShortRowNamesMissingColumn(t *testing.T) {
	opts := utcOptions()
	opts.Strict = true

	cases := []struct {
		name   string
		input  string
		column string
	}{
		{"date missing", "Random Data,Note,Date\n5\n", "Date"},
		{"value missing", "Date,Random Data\n2020-01-01 00:00:00\n", "Random Data"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := Parse(strings.NewReader(tc.input), opts)

			var rowErr *RowError
			require.True(t, errors.As(err, &rowErr))
			assert.Equal(t, tc.column, rowErr.Column)
			assert.Equal(t, 2, rowErr.Line)
		})
	}
}
