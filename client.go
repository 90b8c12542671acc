package setpush

import (
	"context"
	"net/http"
	"time"

	"github.com/setpush/setpush/retry"
)

// Transmitter delivers signed security event tokens to HTTP receivers.
// A Transmitter resolves its options once at construction; every Transmit
// call merges call-time options on top of those defaults. Transmitters are
// safe for concurrent use.
type Transmitter interface {
	// Transmit delivers one token to the destination and returns the
	// delivery outcome. See the package-level Transmit for the full
	// contract.
	Transmit(ctx context.Context, token, destination string, opts ...Option) (*Result, error)
}

// Option is a function that configures a delivery during transmitter
// creation or for a single Transmit call. Options allow customization of
// authentication, headers, timeouts, retry behavior, and logging.
type Option func(*transmitConfig) error

// transmitConfig is the resolved configuration for one delivery. It is built
// once per call by layering options over the defaults and never mutated
// after the delivery starts.
type transmitConfig struct {
	authToken      string
	headers        map[string]string
	timeout        time.Duration
	userAgent      string
	client         *http.Client
	logger         Logger
	validateStatus func(statusCode int) bool
	parseResponse  bool
	compress       bool
	retry          retry.Config
}

// defaultTransmitConfig returns the delivery defaults: a 30 second
// per-attempt timeout, response parsing enabled, any status below 400
// accepted, and the retry defaults from retry.DefaultConfig.
func defaultTransmitConfig() *transmitConfig {
	return &transmitConfig{
		timeout:        30 * time.Second,
		userAgent:      defaultUserAgent,
		client:         &http.Client{},
		logger:         &noopLogger{}, // No-op logger by default
		validateStatus: func(statusCode int) bool { return statusCode < 400 },
		parseResponse:  true,
		retry:          retry.DefaultConfig(),
	}
}

// clone returns a copy that call-time options can mutate without touching
// the transmitter's defaults.
func (c *transmitConfig) clone() *transmitConfig {
	clone := *c
	if c.headers != nil {
		clone.headers = make(map[string]string, len(c.headers))
		for name, value := range c.headers {
			clone.headers[name] = value
		}
	}
	return &clone
}

// apply runs options in order, skipping nil entries.
func (c *transmitConfig) apply(opts []Option) error {
	for _, opt := range opts {
		if opt == nil { // allow for easy optional options
			continue
		}
		if err := opt(c); err != nil {
			return err
		}
	}
	return nil
}

// transmitter is the private implementation of the Transmitter interface.
type transmitter struct {
	defaults *transmitConfig
}

// New returns a Transmitter whose options become the defaults for every
// Transmit call made through it.
func New(opts ...Option) (Transmitter, error) {
	cfg := defaultTransmitConfig()
	if err := cfg.apply(opts); err != nil {
		return nil, err
	}

	return &transmitter{defaults: cfg}, nil
}

func (t *transmitter) Transmit(ctx context.Context, token, destination string, opts ...Option) (*Result, error) {
	cfg := t.defaults.clone()
	if err := cfg.apply(opts); err != nil {
		return nil, err
	}

	return transmit(ctx, token, destination, cfg)
}
