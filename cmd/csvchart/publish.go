package main

import (
	"fmt"
	"time"

	"github.com/jgoulah/csvchart/internal/database"
	"github.com/jgoulah/csvchart/internal/publisher"
	"github.com/spf13/cobra"
)

var (
	publishSeries string
	publishSince  string
	publishUntil  string
	publishAll    bool
	publishLimit  int
)

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Publish stored readings to MQTT",
	Long: `Reads stored readings from the database and publishes each one as JSON to
<topic_prefix>/<series> on the configured MQTT broker.`,
	RunE: runPublish,
}

func init() {
	publishCmd.Flags().StringVar(&publishSeries, "series", "", "Series to publish (default: all series)")
	publishCmd.Flags().StringVar(&publishSince, "since", "", "Only publish data since this date (YYYY-MM-DD or relative like 7d)")
	publishCmd.Flags().StringVar(&publishUntil, "until", "", "Only publish data until this date (YYYY-MM-DD)")
	publishCmd.Flags().BoolVar(&publishAll, "all", false, "Force republish all records (ignore published flag)")
	publishCmd.Flags().IntVar(&publishLimit, "limit", 0, "Limit number of records to publish per series (0 = no limit)")
	rootCmd.AddCommand(publishCmd)
}

func runPublish(cmd *cobra.Command, args []string) error {
	fmt.Printf("=== Publish started at %s ===\n", time.Now().Format("2006-01-02 15:04:05 MST"))
	ctx := cmd.Context()

	// Load config
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	filter := database.Filter{Unpublished: !publishAll, Limit: publishLimit}
	if publishSince != "" {
		if filter.Since, err = parseDate(publishSince); err != nil {
			return fmt.Errorf("parsing --since date: %w", err)
		}
	}
	if publishUntil != "" {
		if filter.Until, err = parseDate(publishUntil); err != nil {
			return fmt.Errorf("parsing --until date: %w", err)
		}
	}

	// Open database
	db, err := openDB()
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	// Determine which series to publish
	series := []string{}
	if publishSeries != "" {
		series = append(series, publishSeries)
	} else {
		summaries, err := db.ListSeries(ctx)
		if err != nil {
			return fmt.Errorf("listing series: %w", err)
		}
		for _, s := range summaries {
			series = append(series, s.Name)
		}
	}

	if len(series) == 0 {
		fmt.Println("No series stored")
		return nil
	}

	// Create publisher
	pub, err := publisher.New(cfg.MQTT)
	if err != nil {
		return fmt.Errorf("creating publisher: %w", err)
	}
	defer pub.Close()

	totalPublished := 0
	for _, name := range series {
		data, err := db.ListReadings(ctx, name, filter)
		if err != nil {
			return fmt.Errorf("listing data for %s: %w", name, err)
		}

		if len(data) == 0 {
			if publishAll {
				fmt.Printf("No data found for %s\n", name)
			} else {
				fmt.Printf("No unpublished data found for %s\n", name)
			}
			continue
		}

		// Publish each record
		fmt.Printf("Publishing %d records for %s to %s...\n", len(data), name, pub.Topic(name))
		published := 0
		for i, record := range data {
			fmt.Printf("[%d/%d] Publishing %s (%.2f)... ", i+1, len(data), record.Date.Format("2006-01-02 15:04:05"), record.Value)
			if err := pub.Publish(record); err != nil {
				fmt.Printf("FAILED: %v\n", err)
				continue
			}

			// Mark record as published in database
			if err := db.MarkPublished(ctx, record.ID); err != nil {
				fmt.Printf("✓ (warning: failed to mark as published: %v)\n", err)
			} else {
				fmt.Printf("✓\n")
			}
			published++
		}

		fmt.Printf("Successfully published %d/%d records for %s\n", published, len(data), name)
		totalPublished += published
	}

	fmt.Printf("\nTotal records published: %d\n", totalPublished)
	return nil
}

// parseDate parses a date string in either YYYY-MM-DD format or relative format (e.g., "7d")
func parseDate(dateStr string) (time.Time, error) {
	// Try absolute date format first
	t, err := time.ParseInLocation("2006-01-02", dateStr, time.Local)
	if err == nil {
		return t, nil
	}

	// Try relative format (e.g., "7d" for 7 days ago)
	if len(dateStr) > 1 && dateStr[len(dateStr)-1] == 'd' {
		daysStr := dateStr[:len(dateStr)-1]
		var days int
		if _, err := fmt.Sscanf(daysStr, "%d", &days); err == nil {
			return time.Now().AddDate(0, 0, -days), nil
		}
	}

	return time.Time{}, fmt.Errorf("invalid date format: %s (use YYYY-MM-DD or Nd for N days ago)", dateStr)
}
