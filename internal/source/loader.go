package source

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jgoulah/csvchart/internal/logging"
	"github.com/jgoulah/csvchart/pkg/models"
)

// Loader produces the series a chart is drawn from
type Loader interface {
	Load(ctx context.Context) (models.Series, error)
}

// CSV loads a series by fetching and parsing a CSV resource
type CSV struct {
	Fetcher  Fetcher
	Location string
	Options  ParseOptions
	Logger   *slog.Logger
}

// NewCSV creates a CSV loader for the given location
func NewCSV(fetcher Fetcher, location string, opts ParseOptions, logger *slog.Logger) *CSV {
	if logger == nil {
		logger = logging.Discard()
	}
	return &CSV{
		Fetcher:  fetcher,
		Location: location,
		Options:  opts,
		Logger:   logger,
	}
}

// Load fetches the resource and parses every row
func (c *CSV) Load(ctx context.Context) (models.Series, error) {
	body, err := c.Fetcher.Fetch(ctx, c.Location)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", c.Location, err)
	}
	defer body.Close()

	series, report, err := Parse(body, c.Options)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", c.Location, err)
	}

	if report.Skipped > 0 {
		first := ""
		if len(report.Errors) > 0 {
			first = report.Errors[0].Error()
		}
		c.Logger.Warn("skipped malformed rows",
			"source", c.Location,
			"skipped", report.Skipped,
			"rows", report.Rows,
			"first_error", first,
		)
	}

	return series, nil
}
