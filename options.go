package setpush

import (
	"errors"
	"fmt"
	"net/http"
	"slices"
	"time"

	"github.com/setpush/setpush/retry"
)

// WithAuthToken sets the bearer credential sent in the Authorization header.
// The "Bearer " prefix is added for you when missing, so both raw credentials
// and already-prefixed values are accepted.
func WithAuthToken(token string) Option {
	return func(c *transmitConfig) error {
		if token == "" {
			return errors.New("auth token cannot be empty")
		}
		c.authToken = token
		return nil
	}
}

// WithHeader sets a single header override for outgoing requests.
// Overrides win over the fixed base headers on key collision.
func WithHeader(name, value string) Option {
	return func(c *transmitConfig) error {
		if name == "" {
			return errors.New("header name cannot be empty")
		}
		if c.headers == nil {
			c.headers = make(map[string]string)
		}
		c.headers[name] = value
		return nil
	}
}

// WithHeaders merges a set of header overrides for outgoing requests.
// Later options win over earlier ones on key collision.
func WithHeaders(headers map[string]string) Option {
	return func(c *transmitConfig) error {
		for name := range headers {
			if name == "" {
				return errors.New("header name cannot be empty")
			}
		}
		if c.headers == nil {
			c.headers = make(map[string]string, len(headers))
		}
		for name, value := range headers {
			c.headers[name] = value
		}
		return nil
	}
}

// WithTimeout sets the per-attempt timeout. An attempt that produces no
// response within this window is cancelled and treated as a transport
// failure. The default is 30 seconds.
func WithTimeout(timeout time.Duration) Option {
	return func(c *transmitConfig) error {
		if timeout <= 0 {
			return fmt.Errorf("timeout must be positive, got %v", timeout)
		}
		c.timeout = timeout
		return nil
	}
}

// WithUserAgent overrides the default User-Agent header.
func WithUserAgent(agent string) Option {
	return func(c *transmitConfig) error {
		c.userAgent = agent
		return nil
	}
}

// WithHTTPClient overrides the default http.Client.
// This allows customization of transport settings, proxies, and TLS.
// It will return an error if the provided http.Client is nil.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *transmitConfig) error {
		if httpClient == nil {
			return errors.New("httpClient is nil")
		}

		c.client = httpClient
		return nil
	}
}

// WithStatusValidator replaces the acceptance predicate applied to response
// status codes. The default accepts every status below 400.
func WithStatusValidator(validate func(statusCode int) bool) Option {
	return func(c *transmitConfig) error {
		if validate == nil {
			return errors.New("status validator cannot be nil")
		}
		c.validateStatus = validate
		return nil
	}
}

// WithoutResponseParsing disables JSON interpretation of response bodies;
// Result.Body carries the raw text instead.
func WithoutResponseParsing() Option {
	return func(c *transmitConfig) error {
		c.parseResponse = false
		return nil
	}
}

// WithRetryPolicy replaces the whole retry configuration. For adjusting a
// single knob, the field-level options (WithMaxAttempts, WithBackoff, ...)
// compose with the defaults instead.
func WithRetryPolicy(cfg retry.Config) Option {
	return func(c *transmitConfig) error {
		if cfg.MaxAttempts < 1 {
			return errors.New("retry policy must allow at least one attempt")
		}
		cfg.RetryableStatuses = slices.Clone(cfg.RetryableStatuses)
		c.retry = cfg
		return nil
	}
}

// WithMaxAttempts sets the attempt cap, the initial attempt included.
func WithMaxAttempts(attempts int) Option {
	return func(c *transmitConfig) error {
		if attempts < 1 {
			return fmt.Errorf("maxAttempts must be at least 1, got %d", attempts)
		}
		c.retry.MaxAttempts = attempts
		return nil
	}
}

// WithRetryableStatuses replaces the set of status codes that trigger a
// retry. An empty set means only transport failures are retried.
func WithRetryableStatuses(statuses ...int) Option {
	return func(c *transmitConfig) error {
		c.retry.RetryableStatuses = slices.Clone(statuses)
		return nil
	}
}

// WithBackoff sets the base delay before the first retry. Zero disables
// waiting between attempts.
func WithBackoff(backoff time.Duration) Option {
	return func(c *transmitConfig) error {
		if backoff < 0 {
			return fmt.Errorf("backoff cannot be negative, got %v", backoff)
		}
		c.retry.Backoff = backoff
		return nil
	}
}

// WithMaxBackoff caps the delay between attempts, server hints included.
func WithMaxBackoff(maxBackoff time.Duration) Option {
	return func(c *transmitConfig) error {
		if maxBackoff < 0 {
			return fmt.Errorf("maxBackoff cannot be negative, got %v", maxBackoff)
		}
		c.retry.MaxBackoff = maxBackoff
		return nil
	}
}

// WithBackoffMultiplier sets the exponential backoff multiplier.
func WithBackoffMultiplier(multiplier float64) Option {
	return func(c *transmitConfig) error {
		if multiplier <= 0 {
			return fmt.Errorf("backoff multiplier must be positive, got %v", multiplier)
		}
		c.retry.Multiplier = multiplier
		return nil
	}
}

// WithGzipCompression gzip-compresses the token body and marks it with
// Content-Encoding: gzip. Only enable this for receivers known to decode
// compressed request bodies; it is off by default.
func WithGzipCompression() Option {
	return func(c *transmitConfig) error {
		c.compress = true
		return nil
	}
}
