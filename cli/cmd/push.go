package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/setpush/setpush"
	"github.com/setpush/setpush/cli/internal/auth"
	"github.com/setpush/setpush/cli/internal/client"
	"github.com/setpush/setpush/cli/internal/output"
	"github.com/spf13/cobra"
)

var (
	pushTokenFile   string
	pushTimeout     time.Duration
	pushMaxAttempts int
	pushBackoff     time.Duration
	pushMaxBackoff  time.Duration
	pushMultiplier  float64
	pushStatuses    []int
	pushHeaders     []string
	pushGzip        bool
	pushRawBody     bool
)

var pushCmd = &cobra.Command{
	Use:   "push <url>",
	Short: "Deliver a security event token to a receiver",
	Long: `Deliver a single security event token to a receiver endpoint.

The token is read from --token-file, or from standard input when no file
is given. Transient failures are retried according to the retry flags; a
receiver rejection is reported once and the command exits with code 1.

Examples:
  # Deliver a token from a file
  setpush push https://receiver.example.com/events --token-file token.jwt

  # Deliver a token from stdin with authentication
  cat token.jwt | setpush push https://receiver.example.com/events --auth-token secret

  # Tune the retry policy
  setpush push https://receiver.example.com/events --token-file token.jwt \
    --max-attempts 5 --backoff 500ms --max-backoff 15s

  # JSON output
  setpush push https://receiver.example.com/events --token-file token.jwt --json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		destination := args[0]

		token, err := readToken()
		if err != nil {
			return err
		}

		// Setup authentication
		authConfig := auth.FromEnvironment()
		authConfig.Merge(authToken)

		opts, err := deliveryOptions()
		if err != nil {
			return err
		}

		// Create transmitter
		sender, err := client.New(authConfig, opts...)
		if err != nil {
			return err
		}

		result, err := sender.Transmit(context.Background(), token, destination)
		if err != nil {
			exitWithError(err)
		}

		// Output results
		formatter := output.Get(getOutputFormat())
		if err := formatter.FormatResult(result); err != nil {
			return err
		}
		if !result.Success {
			os.Exit(1)
		}
		return nil
	},
}

// readToken loads the token from the configured file, falling back to stdin.
func readToken() (string, error) {
	if pushTokenFile != "" {
		data, err := os.ReadFile(pushTokenFile)
		if err != nil {
			return "", fmt.Errorf("read token file: %w", err)
		}
		return strings.TrimSpace(string(data)), nil
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("read token from stdin: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// deliveryOptions translates the push flags into delivery options. Flags
// left at their zero value fall through to the library defaults.
func deliveryOptions() ([]setpush.Option, error) {
	var opts []setpush.Option

	if pushTimeout > 0 {
		opts = append(opts, setpush.WithTimeout(pushTimeout))
	}
	if pushMaxAttempts > 0 {
		opts = append(opts, setpush.WithMaxAttempts(pushMaxAttempts))
	}
	if pushBackoff > 0 {
		opts = append(opts, setpush.WithBackoff(pushBackoff))
	}
	if pushMaxBackoff > 0 {
		opts = append(opts, setpush.WithMaxBackoff(pushMaxBackoff))
	}
	if pushMultiplier > 0 {
		opts = append(opts, setpush.WithBackoffMultiplier(pushMultiplier))
	}
	if len(pushStatuses) > 0 {
		opts = append(opts, setpush.WithRetryableStatuses(pushStatuses...))
	}

	for _, header := range pushHeaders {
		name, value, ok := strings.Cut(header, ":")
		if !ok {
			return nil, fmt.Errorf("invalid header %q, expected \"Name: Value\"", header)
		}
		opts = append(opts, setpush.WithHeader(strings.TrimSpace(name), strings.TrimSpace(value)))
	}

	if pushGzip {
		opts = append(opts, setpush.WithGzipCompression())
	}
	if pushRawBody {
		opts = append(opts, setpush.WithoutResponseParsing())
	}
	if debug {
		opts = append(opts, setpush.WithLogger(newDebugLogger()))
	}

	return opts, nil
}

func init() {
	pushCmd.Flags().StringVar(&pushTokenFile, "token-file", "", "File containing the token to deliver (default: stdin)")
	pushCmd.Flags().DurationVar(&pushTimeout, "timeout", 0, "Per-attempt timeout (default 30s)")
	pushCmd.Flags().IntVar(&pushMaxAttempts, "max-attempts", 0, "Maximum delivery attempts (default 3)")
	pushCmd.Flags().DurationVar(&pushBackoff, "backoff", 0, "Initial delay between attempts (default 1s)")
	pushCmd.Flags().DurationVar(&pushMaxBackoff, "max-backoff", 0, "Upper bound for the delay between attempts (default 10s)")
	pushCmd.Flags().Float64Var(&pushMultiplier, "backoff-multiplier", 0, "Growth factor for the delay between attempts (default 2)")
	pushCmd.Flags().IntSliceVar(&pushStatuses, "retry-status", nil, "Status codes to retry (default 429,502,503,504)")
	pushCmd.Flags().StringArrayVar(&pushHeaders, "header", nil, "Extra request header as \"Name: Value\" (repeatable)")
	pushCmd.Flags().BoolVar(&pushGzip, "gzip", false, "Compress the request body with gzip")
	pushCmd.Flags().BoolVar(&pushRawBody, "raw-body", false, "Report the response body as a raw string")
	rootCmd.AddCommand(pushCmd)
}
