package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// testCmd represents the test command
var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Test connection to the DIP API",
	Long:  `Test the connection to the DIP API and check that the configured API key is accepted.`,
	RunE:  runTest,
}

func runTest(cmd *cobra.Command, args []string) error {
	fmt.Printf("Testing connection to DIP at %s...\n", cfg.DIP.URL)

	keySource := "api key"
	if apiKeyFlag == "" && cfg.DIP.APIKey == "" {
		keySource = "demo key"
		if cfg.DIP.DemoKeyExpires != "" {
			keySource += " (valid until " + cfg.DIP.DemoKeyExpires + ")"
		}
	}
	fmt.Printf("- Using %s\n", keySource)

	if err := client.TestConnection(cmd.Context()); err != nil {
		return err
	}

	fmt.Println("✓ Connection successful!")
	return nil
}
