package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var importSeries string

var importCmd = &cobra.Command{
	Use:   "import [source]",
	Short: "Import a CSV series into the database",
	Long: `Loads a CSV file or URL (default chart.data_url) and stores every reading in the
local SQLite database under the given series name. Readings already stored for
the same timestamp are left untouched.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().StringVar(&importSeries, "series", "", "Series name to store the readings under (required)")
	importCmd.MarkFlagRequired("series")
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	// Load config
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	logger := newLogger(cfg)

	location := cfg.Chart.GetDataURL()
	if len(args) > 0 {
		location = args[0]
	}

	loader, err := newCSVLoader(cfg, location, logger)
	if err != nil {
		return err
	}

	fmt.Printf("Loading %s...\n", location)
	series, err := loader.Load(cmd.Context())
	if err != nil {
		return fmt.Errorf("loading %s: %w", location, err)
	}

	// Open database
	db, err := openDB()
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	inserted := 0
	for _, record := range series {
		record.Series = importSeries
		ok, err := db.InsertReading(cmd.Context(), record)
		if err != nil {
			return fmt.Errorf("storing reading at %s: %w", record.Date.Format("2006-01-02 15:04:05"), err)
		}
		if ok {
			inserted++
		}
	}

	fmt.Printf("✓ Imported %s new readings into %q (%s already stored)\n",
		humanize.Comma(int64(inserted)), importSeries, humanize.Comma(int64(len(series)-inserted)))
	return nil
}
