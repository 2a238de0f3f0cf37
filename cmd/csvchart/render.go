package main

import (
	"fmt"
	"io"
	"os"

	"github.com/jgoulah/csvchart/internal/render"
	"github.com/spf13/cobra"
)

var (
	renderFormat string
	renderOutput string
	renderFromDB string
)

var renderCmd = &cobra.Command{
	Use:   "render [source]",
	Short: "Render the chart to a file",
	Long: `Loads the series and writes the chart as SVG, HTML (with the hover tooltip)
or PNG. The source is a CSV file path or http(s) URL; it defaults to chart.data_url
from the config. Use --from-db to chart a series stored with 'csvchart import'.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRender,
}

func init() {
	renderCmd.Flags().StringVar(&renderFormat, "format", "html", "Output format: svg, html or png")
	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "-", "Output file (- for stdout)")
	renderCmd.Flags().StringVar(&renderFromDB, "from-db", "", "Chart a stored series instead of a CSV source")
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	var write func(*render.Chart, io.Writer) error
	switch renderFormat {
	case "svg":
		write = (*render.Chart).WriteSVG
	case "html":
		write = (*render.Chart).WriteHTML
	case "png":
		write = (*render.Chart).WritePNG
	default:
		return fmt.Errorf("unknown format: %s (available: svg, html, png)", renderFormat)
	}

	// Load config
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	logger := newLogger(cfg)

	loader, closeLoader, err := chartLoader(cfg, args, renderFromDB, logger)
	if err != nil {
		return err
	}
	defer closeLoader()

	chart, err := newRenderer(cfg, loader, logger, nil).Load(cmd.Context())
	if err != nil {
		return err
	}

	if renderOutput == "-" {
		return write(chart, os.Stdout)
	}

	f, err := os.Create(renderOutput)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	if err := write(chart, f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing output file: %w", err)
	}

	fmt.Printf("✓ Wrote %s chart with %d points to %s\n", renderFormat, len(chart.Markers), renderOutput)
	return nil
}
