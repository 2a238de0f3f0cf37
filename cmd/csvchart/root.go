package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/jgoulah/csvchart/internal/config"
	"github.com/jgoulah/csvchart/internal/database"
	"github.com/jgoulah/csvchart/internal/logging"
	"github.com/jgoulah/csvchart/internal/metrics"
	"github.com/jgoulah/csvchart/internal/render"
	"github.com/jgoulah/csvchart/internal/source"
	"github.com/jgoulah/csvchart/internal/tooltip"
	"github.com/spf13/cobra"
)

var (
	cfgFile  string
	dbPath   string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "csvchart",
	Short: "Chart a CSV time series with hover tooltips",
	Long: `csvchart loads a CSV time series (Date, Random Data) and draws it as a
smoothed line chart with one marker per reading and a hover tooltip.
Charts can be written as SVG, HTML or PNG, or served over HTTP. Readings can
also be imported into a local SQLite database and published over MQTT.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "database file (default is ./data.db)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error (overrides config)")
}

// getConfigPath returns the config file path
func getConfigPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	return config.DefaultConfigPath()
}

// getDBPath returns the database file path (local directory)
func getDBPath() string {
	if dbPath != "" {
		return dbPath
	}
	return "data.db"
}

// loadConfig loads the configuration file
func loadConfig() (*config.Config, error) {
	return config.Load(getConfigPath())
}

// saveConfig saves the configuration file
func saveConfig(cfg *config.Config) error {
	return config.Save(getConfigPath(), cfg)
}

// openDB opens the database connection
func openDB() (*database.DB, error) {
	path := getDBPath()

	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	return database.New(path)
}

// newLogger builds the diagnostics logger; --log-level wins over the config file
func newLogger(cfg *config.Config) *slog.Logger {
	level := cfg.GetLogLevel()
	if logLevel != "" {
		level = logLevel
	}
	return logging.New(level)
}

// newCSVLoader builds a loader for a CSV file path or URL using the chart config
func newCSVLoader(cfg *config.Config, location string, logger *slog.Logger) (*source.CSV, error) {
	loc, err := cfg.Chart.GetLocation()
	if err != nil {
		return nil, err
	}
	timeout, err := cfg.Chart.GetFetchTimeout()
	if err != nil {
		return nil, err
	}

	opts := source.ParseOptions{
		DateColumn:  cfg.Chart.GetDateColumn(),
		ValueColumn: cfg.Chart.GetValueColumn(),
		DateLayout:  cfg.Chart.GetDateLayout(),
		Location:    loc,
		Strict:      cfg.Chart.Strict,
	}

	// Relative paths in the config file are resolved next to it
	baseDir := ""
	if location == cfg.Chart.GetDataURL() {
		baseDir = filepath.Dir(getConfigPath())
	}

	return source.NewCSV(source.NewFetcher(baseDir, timeout), location, opts, logger), nil
}

// newRenderer wires a renderer from the chart config
func newRenderer(cfg *config.Config, loader source.Loader, logger *slog.Logger, m *metrics.Metrics) *render.Renderer {
	tip := tooltip.DefaultOptions()
	tip.Unit = cfg.Chart.GetUnit()
	tip.Fade = cfg.Chart.GetFade()

	return render.New(render.Options{
		Layout: render.NewLayout(cfg.Chart.GetContainerWidth(), cfg.Chart.GetViewportHeight()),
		Loader: loader,
		Labels: render.Labels{
			X: cfg.Chart.GetXLabel(),
			Y: cfg.Chart.GetYLabel(),
		},
		MarkerRadius: cfg.Chart.GetMarkerRadius(),
		Tooltip:      tip,
		Logger:       logger,
		Metrics:      m,
	})
}

// chartLoader picks the series source: a stored series, an explicit
// location, or the configured data_url
func chartLoader(cfg *config.Config, args []string, fromDB string, logger *slog.Logger) (source.Loader, func(), error) {
	if fromDB != "" {
		db, err := openDB()
		if err != nil {
			return nil, nil, fmt.Errorf("opening database: %w", err)
		}
		return db.Loader(fromDB), func() { db.Close() }, nil
	}

	location := cfg.Chart.GetDataURL()
	if len(args) > 0 {
		location = args[0]
	}
	loader, err := newCSVLoader(cfg, location, logger)
	if err != nil {
		return nil, nil, err
	}
	return loader, func() {}, nil
}

// localURL turns a listen address into a URL a local browser can open
func localURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}
	return "http://" + addr + "/"
}
