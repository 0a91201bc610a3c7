package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/s0up4200/dipctl/config"
	"github.com/s0up4200/dipctl/dip"
	"github.com/s0up4200/dipctl/filter"
)

// commands annotated with skipClient run without an API key
const skipClient = "skip-client"

var (
	cfgFile   string
	cfg       *config.Config
	logger    zerolog.Logger
	apiKey    string
	client    *dip.Client
	metrics   *dip.Metrics
	registry  *prometheus.Registry
	filters   *filter.Manager
	formatter = dip.NewConsoleFormatter()

	// Command flags
	apiKeyFlag   string
	outputFormat string
	showDetails  bool
	noColor      bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "dipctl",
	Short: "Search the documentation and information system of the German Bundestag",
	Long: `dipctl queries the DIP API (search.dip.bundestag.de) for procedures, procedure
steps, documents, plenary protocols, activities and persons. Results can be
filtered client-side with expressions and rendered as a tree, a table, CSV or JSON.`,
	SilenceUsage:       true,
	PersistentPreRunE:  initializeApp,
	PersistentPostRunE: writeMetrics,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().StringVar(&apiKeyFlag, "api-key", "", "DIP API key (overrides dip.api_key)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "", "output format: tree, table, csv or json (default from config)")
	rootCmd.PersistentFlags().BoolVar(&showDetails, "details", false, "show record details in tree output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(testCmd)
}

// initializeApp loads the configuration and creates the shared client
func initializeApp(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger = setupLogger(cfg.Logging)

	if cmd.Flags().Changed("output") {
		cfg.Output.Format = outputFormat
	}
	if cmd.Flags().Changed("details") {
		cfg.Output.ShowDetails = showDetails
	}

	filters = filter.NewManager()
	if err := filters.RegisterFilters(cfg.Filter.Presets); err != nil {
		return fmt.Errorf("invalid filter preset: %w", err)
	}

	if cmd.Annotations[skipClient] != "" {
		return nil
	}

	creds := cfg.DIP.Credentials()
	if apiKeyFlag != "" {
		creds.APIKey = apiKeyFlag
	}
	apiKey, err = creds.Resolve(time.Now())
	if err != nil {
		return fmt.Errorf("%w (set dip.api_key, %s_DIP_API_KEY or --api-key)", err, config.EnvPrefix)
	}

	if cfg.Metrics.Enabled {
		registry = prometheus.NewRegistry()
		metrics = dip.NewMetrics(registry)
	}

	client, err = newClient()
	if err != nil {
		return fmt.Errorf("failed to create DIP client: %w", err)
	}

	return nil
}

// newClient creates a client from the loaded configuration. Clients are not
// shared between goroutines; concurrent commands create one each.
func newClient() (*dip.Client, error) {
	opts := []dip.Option{
		dip.WithBaseURL(cfg.DIP.URL),
		dip.WithTimeout(cfg.DIP.Timeout),
		dip.WithRetryPolicy(cfg.DIP.RetryPolicy()),
	}
	if cfg.DIP.RateLimit.RequestsPerSecond > 0 {
		opts = append(opts, dip.WithRateLimit(cfg.DIP.RateLimit.RequestsPerSecond, cfg.DIP.RateLimit.Burst))
	}
	if metrics != nil {
		opts = append(opts, dip.WithMetrics(metrics))
	}
	return dip.NewClient(apiKey, logger, opts...)
}

// writeMetrics dumps the collected metrics for the node exporter textfile collector
func writeMetrics(cmd *cobra.Command, args []string) error {
	if registry == nil || cfg.Metrics.Textfile == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(cfg.Metrics.Textfile, registry); err != nil {
		return fmt.Errorf("failed to write metrics: %w", err)
	}
	logger.Debug().Str("path", cfg.Metrics.Textfile).Msg("Metrics written")
	return nil
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	// Set log level
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "trace":
		level = zerolog.TraceLevel
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	zerolog.SetGlobalLevel(level)

	// Configure output format
	if cfg.Format == "json" {
		return zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	// Console format
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !cfg.Color || noColor || !isTerminal(os.Stderr),
	}

	return zerolog.New(output).With().Timestamp().Logger()
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// formatOptions builds the console formatter options for stdout
func formatOptions() dip.FormatOptions {
	return dip.FormatOptions{
		ShowDetails:  cfg.Output.ShowDetails,
		MaxCellWidth: cfg.Output.MaxCellWidth,
		Color:        !noColor && isTerminal(os.Stdout),
	}
}
