package main

import (
	"fmt"
	"os"

	"github.com/jgoulah/csvchart/internal/config"
	"github.com/spf13/cobra"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with the default settings",
	RunE:  runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing config file")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	path := getConfigPath()
	if _, err := os.Stat(path); err == nil && !initForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	cfg := &config.Config{
		Chart: config.ChartConfig{
			DataURL:        "./data.csv",
			ContainerWidth: 1200,
			ViewportHeight: 900,
			XLabel:         "Date/Time",
			YLabel:         "Temperature",
			Unit:           "°F",
			MarkerRadius:   6,
			FadeMS:         100,
			DateColumn:     "Date",
			ValueColumn:    "Random Data",
			DateLayout:     "2006-01-02 15:04:05",
		},
		Server:   config.ServerConfig{Addr: ":8080"},
		MQTT:     config.MQTTConfig{Broker: "localhost:1883", TopicPrefix: "csvchart"},
		LogLevel: "info",
	}

	if err := saveConfig(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("✓ Wrote default config to %s\n", path)
	return nil
}
