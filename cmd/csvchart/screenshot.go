package main

import (
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jgoulah/csvchart/internal/browser"
	"github.com/spf13/cobra"
)

const browserTimeout = 2 * time.Minute

var (
	screenshotOutput string
	screenshotHover  int
)

var screenshotCmd = &cobra.Command{
	Use:   "screenshot [url]",
	Short: "Capture a served chart page as PNG",
	Long:  `Opens a served chart page in headless Chrome and saves a full-page screenshot.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runScreenshot,
}

func init() {
	screenshotCmd.Flags().StringVarP(&screenshotOutput, "output", "o", "chart.png", "Output PNG file")
	screenshotCmd.Flags().IntVar(&screenshotHover, "hover", -1, "Hover this marker before capturing (-1 = none)")
	rootCmd.AddCommand(screenshotCmd)
}

func runScreenshot(cmd *cobra.Command, args []string) error {
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
		Width:   int64(cfg.Chart.GetContainerWidth()),
		Height:  int64(cfg.Chart.GetViewportHeight()),
		Timeout: browserTimeout,
	})
	defer cancel()

	buf, err := browser.Screenshot(ctx, url, screenshotHover)
	if err != nil {
		return err
	}

	if err := os.WriteFile(screenshotOutput, buf, 0644); err != nil {
		return fmt.Errorf("writing screenshot: %w", err)
	}

	fmt.Printf("✓ Saved %s screenshot of %s to %s\n", humanize.Bytes(uint64(len(buf))), url, screenshotOutput)
	return nil
}
