package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/jgoulah/csvchart/internal/database"
	"github.com/spf13/cobra"
)

var listSeries string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored series or readings",
	Long:  `Without --series, summarizes every stored series. With --series, prints its readings.`,
	RunE:  runList,
}

func init() {
	listCmd.Flags().StringVar(&listSeries, "series", "", "Show the readings of one series")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	// Open database
	db, err := openDB()
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	if listSeries == "" {
		return listAllSeries(cmd, db)
	}

	data, err := db.ListReadings(cmd.Context(), listSeries, database.Filter{})
	if err != nil {
		return fmt.Errorf("listing readings for %s: %w", listSeries, err)
	}

	if len(data) == 0 {
		fmt.Printf("No data found for %s\n", listSeries)
		return nil
	}

	fmt.Printf("\n%s Readings:\n", listSeries)
	fmt.Println("----------------------------------------")
	fmt.Printf("%-20s  %10s  %s\n", "Date", "Value", "Pub")
	fmt.Println("----------------------------------------")

	var total float64
	for _, record := range data {
		published := ""
		if record.Published {
			published = "✓"
		}
		fmt.Printf("%-20s  %10.2f  %s\n", record.Date.Format("2006-01-02 15:04:05"), record.Value, published)
		total += record.Value
	}

	fmt.Println("----------------------------------------")
	fmt.Printf("Average: %.2f (%s records)\n", total/float64(len(data)), humanize.Comma(int64(len(data))))
	return nil
}

func listAllSeries(cmd *cobra.Command, db *database.DB) error {
	summaries, err := db.ListSeries(cmd.Context())
	if err != nil {
		return fmt.Errorf("listing series: %w", err)
	}

	if len(summaries) == 0 {
		fmt.Println("No series stored. Run 'csvchart import --series NAME' first.")
		return nil
	}

	fmt.Printf("%-20s  %10s  %-20s  %s\n", "Series", "Readings", "First", "Last")
	fmt.Println("--------------------------------------------------------------------------")
	for _, s := range summaries {
		fmt.Printf("%-20s  %10s  %-20s  %s (%s)\n",
			s.Name,
			humanize.Comma(int64(s.Count)),
			s.First.Format("2006-01-02 15:04:05"),
			s.Last.Format("2006-01-02 15:04:05"),
			humanize.Time(s.Last),
		)
	}
	return nil
}
