package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration
type Config struct {
	Chart    ChartConfig  `yaml:"chart"`
	Server   ServerConfig `yaml:"server,omitempty"`
	MQTT     MQTTConfig   `yaml:"mqtt,omitempty"`
	LogLevel string       `yaml:"log_level,omitempty"` // debug, info, warn, error (fallback: info)
}

// ChartConfig holds the data source and the drawing parameters
type ChartConfig struct {
	DataURL        string  `yaml:"data_url,omitempty"`        // file path or http(s) URL (fallback: ./data.csv)
	ContainerWidth float64 `yaml:"container_width,omitempty"` // px (fallback: 1200)
	ViewportHeight float64 `yaml:"viewport_height,omitempty"` // px (fallback: 900)
	XLabel         string  `yaml:"x_label,omitempty"`
	YLabel         string  `yaml:"y_label,omitempty"`
	Unit           string  `yaml:"unit,omitempty"`
	MarkerRadius   float64 `yaml:"marker_radius,omitempty"`
	FadeMS         int     `yaml:"fade_ms,omitempty"`
	DateColumn     string  `yaml:"date_column,omitempty"`
	ValueColumn    string  `yaml:"value_column,omitempty"`
	DateLayout     string  `yaml:"date_layout,omitempty"` // Go time layout
	Timezone       string  `yaml:"timezone,omitempty"`    // IANA name, empty means local time
	Strict         bool    `yaml:"strict,omitempty"`      // abort the load on the first malformed row
	FetchTimeout   string  `yaml:"fetch_timeout,omitempty"`
}

// ServerConfig holds the HTTP server settings
type ServerConfig struct {
	Addr string `yaml:"addr,omitempty"` // e.g., ":8080"
}

// MQTTConfig holds MQTT broker settings for publishing readings
type MQTTConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Broker      string `yaml:"broker"`                 // host:port
	Username    string `yaml:"username,omitempty"`
	Password    string `yaml:"password,omitempty"`
	TopicPrefix string `yaml:"topic_prefix,omitempty"` // fallback: csvchart
}

// Load reads the config file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			// Return empty config if file doesn't exist
			return &Config{}, nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	return &cfg, nil
}

// Save writes the config to file
func Save(configPath string, cfg *Config) error {
	// Ensure directory exists
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// DefaultConfigPath returns the default config file path (local directory)
func DefaultConfigPath() string {
	return "config.yaml"
}

// GetDataURL returns the CSV location, defaulting to ./data.csv
func (c *ChartConfig) GetDataURL() string {
	if c.DataURL == "" {
		return "./data.csv"
	}
	return c.DataURL
}

// GetContainerWidth returns the container width in pixels
func (c *ChartConfig) GetContainerWidth() float64 {
	if c.ContainerWidth <= 0 {
		return 1200
	}
	return c.ContainerWidth
}

// GetViewportHeight returns the viewport height in pixels
func (c *ChartConfig) GetViewportHeight() float64 {
	if c.ViewportHeight <= 0 {
		return 900
	}
	return c.ViewportHeight
}

// GetXLabel returns the x axis title
func (c *ChartConfig) GetXLabel() string {
	if c.XLabel == "" {
		return "Date/Time"
	}
	return c.XLabel
}

// GetYLabel returns the y axis title
func (c *ChartConfig) GetYLabel() string {
	if c.YLabel == "" {
		return "Temperature"
	}
	return c.YLabel
}

// GetUnit returns the suffix appended to tooltip values
func (c *ChartConfig) GetUnit() string {
	if c.Unit == "" {
		return "°F"
	}
	return c.Unit
}

// GetMarkerRadius returns the marker radius in pixels
func (c *ChartConfig) GetMarkerRadius() float64 {
	if c.MarkerRadius <= 0 {
		return 6
	}
	return c.MarkerRadius
}

// GetFade returns the tooltip fade-out duration
func (c *ChartConfig) GetFade() time.Duration {
	if c.FadeMS <= 0 {
		return 100 * time.Millisecond
	}
	return time.Duration(c.FadeMS) * time.Millisecond
}

// GetDateColumn returns the header name of the timestamp column
func (c *ChartConfig) GetDateColumn() string {
	if c.DateColumn == "" {
		return "Date"
	}
	return c.DateColumn
}

// GetValueColumn returns the header name of the measurement column
func (c *ChartConfig) GetValueColumn() string {
	if c.ValueColumn == "" {
		return "Random Data"
	}
	return c.ValueColumn
}

// GetDateLayout returns the layout used to parse the timestamp column
func (c *ChartConfig) GetDateLayout() string {
	if c.DateLayout == "" {
		return "2006-01-02 15:04:05"
	}
	return c.DateLayout
}

// GetLocation resolves the configured timezone, defaulting to local time
func (c *ChartConfig) GetLocation() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("loading timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// GetFetchTimeout returns the fetch timeout, or 0 when fetches may run unbounded
func (c *ChartConfig) GetFetchTimeout() (time.Duration, error) {
	if c.FetchTimeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.FetchTimeout)
	if err != nil {
		return 0, fmt.Errorf("parsing fetch_timeout: %w", err)
	}
	return d, nil
}

// GetAddr returns the listen address for the HTTP server
func (s *ServerConfig) GetAddr() string {
	if s.Addr == "" {
		return ":8080"
	}
	return s.Addr
}

// GetTopicPrefix returns the MQTT topic prefix
func (m *MQTTConfig) GetTopicPrefix() string {
	if m.TopicPrefix == "" {
		return "csvchart"
	}
	return m.TopicPrefix
}

// GetLogLevel returns the configured log level
func (c *Config) GetLogLevel() string {
	if c.LogLevel == "" {
		return "info"
	}
	return c.LogLevel
}
