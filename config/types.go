package config

import "time"

// Config represents the complete configuration structure
type Config struct {
	DIP     DIPConfig     `mapstructure:"dip"`
	Output  OutputConfig  `mapstructure:"output"`
	Filter  FilterConfig  `mapstructure:"filter"`
	Logging LoggingConfig `mapstructure:"logging"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Update  UpdateConfig  `mapstructure:"update"`
}

// DIPConfig holds the DIP API connection details
type DIPConfig struct {
	URL    string `mapstructure:"url"`
	APIKey string `mapstructure:"api_key"`
	// DemoKey is the public key published by the Bundestag, valid until DemoKeyExpires (YYYY-MM-DD)
	DemoKey        string          `mapstructure:"demo_key"`
	DemoKeyExpires string          `mapstructure:"demo_key_expires"`
	Timeout        time.Duration   `mapstructure:"timeout"`
	Retry          RetryConfig     `mapstructure:"retry"`
	RateLimit      RateLimitConfig `mapstructure:"rate_limit"`
	// PageLimit is the default number of records a search returns
	PageLimit int `mapstructure:"page_limit"`
}

// RetryConfig contains the retry policy for failed requests
type RetryConfig struct {
	Max     int           `mapstructure:"max"`
	WaitMin time.Duration `mapstructure:"wait_min"`
	WaitMax time.Duration `mapstructure:"wait_max"`
}

// RateLimitConfig throttles outgoing requests; zero disables throttling
type RateLimitConfig struct {
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

// OutputConfig contains output settings
type OutputConfig struct {
	Format       string `mapstructure:"format"`
	ShowDetails  bool   `mapstructure:"show_details"`
	MaxCellWidth int    `mapstructure:"max_cell_width"`
}

// FilterConfig contains named filter expressions
type FilterConfig struct {
	Presets map[string]string `mapstructure:"presets"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}

// MetricsConfig controls query metrics. When Textfile is set the metrics are
// written there in the Prometheus text format after each command.
type MetricsConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Textfile string `mapstructure:"textfile"`
}

// UpdateConfig contains self-update settings
type UpdateConfig struct {
	Repository string `mapstructure:"repository"`
}
