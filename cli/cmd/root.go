package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	authToken string
	jsonOut   bool
	debug     bool
)

var rootCmd = &cobra.Command{
	Use:   "setpush",
	Short: "Deliver security event tokens over HTTP",
	Long: `setpush delivers signed security event tokens (SETs) to receiver
endpoints using the push-based delivery profile: one token per HTTP POST,
with retries for transient failures and plain reporting of receiver
rejections.

Authentication can be provided via a flag or environment variables:
  - SETPUSH_AUTH_TOKEN: Bearer credential for the receiver
  - SSF_AUTH_TOKEN:     Shared signals framework credential`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags available to all commands
	rootCmd.PersistentFlags().StringVar(&authToken, "auth-token", "", "Bearer credential for the receiver")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Log every delivery attempt to stderr")
}

// getOutputFormat returns "json" if json flag is set, otherwise "human"
func getOutputFormat() string {
	if jsonOut {
		return "json"
	}
	return "human"
}

// exitWithError prints an error and exits with code 1
func exitWithError(err error) {
	if jsonOut {
		fmt.Fprintf(os.Stderr, `{"error": "%s"}`+"\n", err.Error())
	} else {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(1)
}
