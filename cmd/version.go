package cmd

import (
	"fmt"

	"github.com/blang/semver"
	"github.com/spf13/cobra"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

// SetVersion sets the version reported by the version and update commands
func SetVersion(v, built string) {
	version = v
	buildTime = built
	rootCmd.Version = v
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",

	// runs without a config file
	PersistentPreRunE:  func(cmd *cobra.Command, args []string) error { return nil },
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Printf("dipctl %s (built %s)\n", version, buildTime)
		if _, err := parseVersion(version); err != nil {
			fmt.Println("development build, self-update disabled")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

// parseVersion parses a release version such as "v1.2.3"
func parseVersion(v string) (semver.Version, error) {
	parsed, err := semver.ParseTolerant(v)
	if err != nil {
		return semver.Version{}, fmt.Errorf("not a release version %q: %w", v, err)
	}
	return parsed, nil
}
