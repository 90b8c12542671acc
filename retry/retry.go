// Package retry implements the retry policy and backoff schedule for
// security event token delivery.
//
// The package is deliberately small and pure: Config carries the policy
// knobs, Delay computes a wait without sleeping, and Wait performs the
// context-aware sleep. Randomness is injectable through Config.Rand so
// backoff schedules can be pinned in tests.
//
// Example usage:
//
//	cfg := retry.DefaultConfig()
//	if cfg.ShouldRetry(resp.StatusCode, attempt) {
//	    hint, _ := retry.ParseRetryAfter(resp.Header.Get("Retry-After"), time.Now())
//	    if err := retry.Wait(ctx, cfg.Delay(attempt, hint)); err != nil {
//	        return err
//	    }
//	}
package retry

import (
	"context"
	"math"
	"math/rand"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"
)

// jitterFactor is the symmetric randomization band applied to computed
// delays: ±25% of the clamped exponential value, drawn uniformly.
const jitterFactor = 0.25

// Config describes when failed delivery attempts are retried and how long to
// wait between them. Config values are read-only once built and safe for
// concurrent use by any number of deliveries.
type Config struct {
	// MaxAttempts is the maximum number of attempts, including the initial
	// attempt. Default is 3.
	MaxAttempts int

	// RetryableStatuses lists the HTTP status codes worth retrying.
	// Default is 429, 502, 503 and 504.
	RetryableStatuses []int

	// Backoff is the base delay before the first retry.
	// Default is 1 second.
	Backoff time.Duration

	// MaxBackoff caps the delay between attempts, server hints included.
	// Default is 10 seconds.
	MaxBackoff time.Duration

	// Multiplier is the exponential backoff multiplier.
	// Default is 2.0.
	Multiplier float64

	// Rand is the randomness source for jitter, returning values in [0, 1).
	// nil means the shared math/rand source is used.
	Rand func() float64
}

// DefaultConfig returns the delivery retry defaults: 3 attempts, retries on
// 429, 502, 503 and 504, exponential backoff starting at 1 second and
// doubling up to a 10 second cap.
func DefaultConfig() Config {
	return Config{
		MaxAttempts:       3,
		RetryableStatuses: []int{429, 502, 503, 504},
		Backoff:           time.Second,
		MaxBackoff:        10 * time.Second,
		Multiplier:        2.0,
	}
}

// RetryableStatus reports whether a status code belongs to the configured
// retryable set.
func (c Config) RetryableStatus(statusCode int) bool {
	return slices.Contains(c.RetryableStatuses, statusCode)
}

// ShouldRetry reports whether another attempt should follow the one that just
// completed. attempt is 1-based and names the attempt that just finished, so
// the answer is false once attempt reaches MaxAttempts. statusCode 0 means
// the attempt produced no HTTP response at all (timeout or connection
// failure); those are always retryable under the attempt cap. Any other
// status code is retryable only by membership in RetryableStatuses.
func (c Config) ShouldRetry(statusCode, attempt int) bool {
	if attempt >= c.MaxAttempts {
		return false
	}
	if statusCode == 0 {
		return true
	}
	return c.RetryableStatus(statusCode)
}

// Delay computes the wait after a failed attempt (1-based). A positive server
// hint is honored verbatim, clamped to MaxBackoff, with no jitter applied:
// the server said when to come back. Otherwise the delay is
// Backoff × Multiplier^(attempt-1), clamped to MaxBackoff, with ±25% uniform
// jitter, floored to an integer duration. A zero Backoff yields zero
// regardless of the attempt number.
func (c Config) Delay(attempt int, hint time.Duration) time.Duration {
	if hint > 0 {
		if hint > c.MaxBackoff {
			return c.MaxBackoff
		}
		return hint
	}

	delay := float64(c.Backoff) * math.Pow(c.Multiplier, float64(attempt-1))
	if delay > float64(c.MaxBackoff) {
		delay = float64(c.MaxBackoff)
	}
	if delay <= 0 {
		return 0
	}

	jitter := delay * jitterFactor
	delay = delay - jitter + c.rand()*2*jitter

	return time.Duration(delay)
}

func (c Config) rand() float64 {
	if c.Rand != nil {
		return c.Rand()
	}
	return rand.Float64()
}

// ParseRetryAfter interprets a Retry-After header value as either an integer
// count of seconds or an HTTP-date. The boolean is false when the value is
// empty, malformed, negative, or a date that is not in the future — callers
// treat all of those the same as no hint at all.
func ParseRetryAfter(value string, now time.Time) (time.Duration, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}

	if seconds, err := strconv.ParseInt(value, 10, 64); err == nil {
		if seconds < 0 {
			return 0, false
		}
		return time.Duration(seconds) * time.Second, true
	}

	if date, err := http.ParseTime(value); err == nil {
		until := date.Sub(now)
		if until <= 0 {
			return 0, false
		}
		return until, true
	}

	return 0, false
}

// Wait blocks for d or until the context is done, whichever comes first.
// A non-positive d returns immediately.
func Wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
