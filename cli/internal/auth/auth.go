package auth

import (
	"os"

	"github.com/setpush/setpush"
)

// Config holds authentication configuration
type Config struct {
	Token string
}

// FromEnvironment reads authentication from environment variables.
// Priority: SETPUSH_AUTH_TOKEN > SSF_AUTH_TOKEN
func FromEnvironment() *Config {
	// Try the setpush-specific credential first
	token := os.Getenv("SETPUSH_AUTH_TOKEN")
	if token == "" {
		// Fallback to the shared signals framework convention
		token = os.Getenv("SSF_AUTH_TOKEN")
	}

	return &Config{
		Token: token,
	}
}

// Merge combines environment auth with command-line flags.
// Command-line flags take precedence over environment variables.
func (c *Config) Merge(flagToken string) {
	if flagToken != "" {
		c.Token = flagToken
	}
}

// ToOptions converts authentication config to delivery options.
func (c *Config) ToOptions() []setpush.Option {
	var opts []setpush.Option

	if c.Token != "" {
		opts = append(opts, setpush.WithAuthToken(c.Token))
	}

	return opts
}

// HasAuth returns true if a credential is configured
func (c *Config) HasAuth() bool {
	return c.Token != ""
}
