package main

import (
	"fmt"

	"github.com/jgoulah/csvchart/internal/metrics"
	"github.com/jgoulah/csvchart/internal/server"
	"github.com/spf13/cobra"
)

var (
	serveAddr   string
	serveFromDB string
)

var serveCmd = &cobra.Command{
	Use:   "serve [source]",
	Short: "Serve the interactive chart over HTTP",
	Long: `Starts an HTTP server with the chart page at /, the raw chart at /chart.svg
and /chart.png, the parsed series at /data.json, and Prometheus metrics at
/metrics. The series is reloaded on every request.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from config, or :8080)")
	serveCmd.Flags().StringVar(&serveFromDB, "from-db", "", "Serve a stored series instead of a CSV source")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	// Load config
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	logger := newLogger(cfg)

	loader, closeLoader, err := chartLoader(cfg, args, serveFromDB, logger)
	if err != nil {
		return err
	}
	defer closeLoader()

	addr := serveAddr
	if addr == "" {
		addr = cfg.Server.GetAddr()
	}

	m := metrics.New()
	srv := server.New(newRenderer(cfg, loader, logger, m), logger, m)

	fmt.Printf("Serving chart at %s (Ctrl+C to stop)\n", localURL(addr))
	return srv.Run(cmd.Context(), addr)
}
