package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/s0up4200/dipctl/dip"
)

var (
	exportFlags    queryFlags
	exportDir      string
	exportParallel int
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export <resource>...",
	Short: "Export search results of several resources to files",
	Long: `Run the same search against several resources concurrently and write one file
per resource into the output directory. Use "all" to export every resource.`,
	Example: `  dipctl export procedure document --date-start 2024-01-01 -o csv --dir ./out
  dipctl export all --date-start 2024-06-01 --limit 500`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportFlags.register(exportCmd.Flags())
	exportCmd.Flags().StringVar(&exportDir, "dir", ".", "output directory")
	exportCmd.Flags().IntVar(&exportParallel, "parallel", 4, "number of resources queried concurrently")
}

// exportKinds resolves the command arguments into resource kinds
func exportKinds(args []string) ([]dip.ResourceKind, error) {
	if len(args) == 1 && args[0] == "all" {
		return dip.ResourceKinds, nil
	}

	seen := make(map[dip.ResourceKind]bool, len(args))
	kinds := make([]dip.ResourceKind, 0, len(args))
	for _, arg := range args {
		kind, err := dip.ParseResourceKind(arg)
		if err != nil {
			return nil, err
		}
		if !seen[kind] {
			seen[kind] = true
			kinds = append(kinds, kind)
		}
	}
	return kinds, nil
}

func runExport(cmd *cobra.Command, args []string) error {
	kinds, err := exportKinds(args)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(exportDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	// Validate all resources before the first request
	for _, kind := range kinds {
		if err := dip.Validate(kind, exportFlags.filters(), exportFlags.effectiveLimit(), dip.FormatJSON); err != nil {
			return err
		}
	}

	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(max(exportParallel, 1))

	for _, kind := range kinds {
		g.Go(func() error {
			return exportResource(ctx, kind)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	fmt.Printf("✓ Exported %d resources to %s\n", len(kinds), exportDir)
	return nil
}

// exportResource queries one resource with its own client and writes the file
func exportResource(ctx context.Context, kind dip.ResourceKind) error {
	c, err := newClient()
	if err != nil {
		return err
	}

	result, err := runQuery(ctx, c, kind, &exportFlags)
	if err != nil {
		return fmt.Errorf("%s: %w", kind, err)
	}

	path := filepath.Join(exportDir, kind.String()+fileExtension(cfg.Output.Format))
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	opts := formatOptions()
	opts.Color = false
	if err := render(f, kind, result.Records, cfg.Output.Format, opts); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	logger.Info().
		Str("resource", kind.String()).
		Int("records", result.Len()).
		Str("path", path).
		Msg("Exported")

	return f.Close()
}
