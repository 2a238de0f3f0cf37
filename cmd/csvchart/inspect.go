package main

import (
	"encoding/json"
	"fmt"

	"github.com/jgoulah/csvchart/internal/browser"
	"github.com/spf13/cobra"
)

var (
	inspectIndex   int
	inspectVisible bool
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [url]",
	Short: "Inspect the tooltip by programmatically triggering hover",
	Long: `Opens a served chart page in Chrome, hovers one marker, and reports the
tooltip before and after the pointer leaves. The URL defaults to the local
'csvchart serve' address.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInspect,
}

func init() {
	inspectCmd.Flags().IntVar(&inspectIndex, "index", 0, "Marker to hover (0-based)")
	inspectCmd.Flags().BoolVar(&inspectVisible, "visible", false, "Show browser window")
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	// Load config
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	url := localURL(cfg.Server.GetAddr())
	if len(args) > 0 {
		url = args[0]
	}

	ctx, cancel := browser.NewContext(cmd.Context(), browser.Options{
		Visible: inspectVisible,
		Width:   int64(cfg.Chart.GetContainerWidth()),
		Height:  int64(cfg.Chart.GetViewportHeight()),
		Timeout: browserTimeout,
	})
	defer cancel()

	fmt.Printf("Inspecting marker %d on %s...\n", inspectIndex, url)
	report, err := browser.InspectTooltip(ctx, url, inspectIndex, cfg.Chart.GetFade())
	if err != nil {
		return err
	}

	// Pretty print the result
	fmt.Println("\n=== TOOLTIP INSPECTION RESULTS ===")
	jsonBytes, _ := json.MarshalIndent(report, "", "  ")
	fmt.Println(string(jsonBytes))
	fmt.Println("==================================")

	return nil
}
