package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/s0up4200/dipctl/dip"
)

// EnvPrefix prefixes environment overrides, e.g. DIPCTL_DIP_API_KEY
const EnvPrefix = "DIPCTL"

// OutputFormats lists the accepted output.format values
var OutputFormats = []string{"tree", "table", "csv", "json"}

// Load loads the configuration. Without an explicit path a missing config
// file is not an error; defaults and environment variables apply.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		// Check current directory first
		v.AddConfigPath(".")

		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".dipctl"))
		}

		v.AddConfigPath("/etc/dipctl/")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || configPath != "" {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// DIP defaults
	v.SetDefault("dip.url", dip.DefaultBaseURL)
	v.SetDefault("dip.api_key", "")
	v.SetDefault("dip.demo_key", "")
	v.SetDefault("dip.demo_key_expires", "")
	v.SetDefault("dip.timeout", 30*time.Second)
	v.SetDefault("dip.retry.max", dip.DefaultRetryPolicy.MaxRetries)
	v.SetDefault("dip.retry.wait_min", dip.DefaultRetryPolicy.WaitMin)
	v.SetDefault("dip.retry.wait_max", dip.DefaultRetryPolicy.WaitMax)
	v.SetDefault("dip.rate_limit.requests_per_second", 0)
	v.SetDefault("dip.rate_limit.burst", 1)
	v.SetDefault("dip.page_limit", 50)

	// Output defaults
	v.SetDefault("output.format", "tree")
	v.SetDefault("output.show_details", false)
	v.SetDefault("output.max_cell_width", 40)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", true)

	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.textfile", "")

	v.SetDefault("update.repository", "s0up4200/dipctl")
}

// validate checks if the configuration is valid
func validate(cfg *Config) error {
	if cfg.DIP.URL == "" {
		return fmt.Errorf("dip.url is required")
	}

	if cfg.DIP.Timeout <= 0 {
		return fmt.Errorf("dip.timeout must be positive, got %s", cfg.DIP.Timeout)
	}

	if cfg.DIP.Retry.Max < 0 {
		return fmt.Errorf("dip.retry.max must not be negative, got %d", cfg.DIP.Retry.Max)
	}
	if cfg.DIP.Retry.WaitMin > cfg.DIP.Retry.WaitMax {
		return fmt.Errorf("dip.retry.wait_min (%s) must not exceed dip.retry.wait_max (%s)", cfg.DIP.Retry.WaitMin, cfg.DIP.Retry.WaitMax)
	}

	if cfg.DIP.RateLimit.RequestsPerSecond < 0 {
		return fmt.Errorf("dip.rate_limit.requests_per_second must not be negative")
	}

	if cfg.DIP.PageLimit <= 0 {
		return fmt.Errorf("dip.page_limit must be larger than zero, got %d", cfg.DIP.PageLimit)
	}

	if cfg.DIP.DemoKeyExpires != "" {
		if _, err := time.Parse(dip.DateLayout, cfg.DIP.DemoKeyExpires); err != nil {
			return fmt.Errorf("invalid dip.demo_key_expires %q (expected YYYY-MM-DD)", cfg.DIP.DemoKeyExpires)
		}
	}

	validOutput := false
	for _, f := range OutputFormats {
		if cfg.Output.Format == f {
			validOutput = true
			break
		}
	}
	if !validOutput {
		return fmt.Errorf("invalid output format: %s (must be one of %s)", cfg.Output.Format, strings.Join(OutputFormats, ", "))
	}

	// Validate logging level
	validLevels := map[string]bool{
		"trace": true,
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s", cfg.Logging.Level)
	}

	// Validate logging format
	validFormats := map[string]bool{
		"console": true,
		"json":    true,
	}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("invalid logging format: %s", cfg.Logging.Format)
	}

	return nil
}

// Credentials returns the configured keys for dip.Credentials.Resolve
func (c DIPConfig) Credentials() dip.Credentials {
	creds := dip.Credentials{
		APIKey:  c.APIKey,
		DemoKey: c.DemoKey,
	}
	// validated in Load
	if t, err := time.Parse(dip.DateLayout, c.DemoKeyExpires); err == nil {
		creds.DemoKeyExpires = t
	}
	return creds
}

// RetryPolicy converts the retry section
func (c DIPConfig) RetryPolicy() dip.RetryPolicy {
	return dip.RetryPolicy{
		MaxRetries: c.Retry.Max,
		WaitMin:    c.Retry.WaitMin,
		WaitMax:    c.Retry.WaitMax,
	}
}
