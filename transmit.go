package setpush

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/klauspost/compress/gzip"

	"github.com/setpush/setpush/retry"
)

// Transmit delivers a single signed security event token to an HTTP receiver.
//
// The token is POSTed as the raw request body with Content-Type
// application/secevent+jwt. Failed attempts are retried with exponential
// backoff and jitter, honoring Retry-After hints from the receiver, up to the
// configured attempt cap.
//
// The outcome is reported on two channels. A non-nil error means the delivery
// never produced a usable HTTP response: the inputs failed validation
// (ErrInvalidToken, ErrInvalidDestination), every attempt failed at the
// transport level (ErrTransportFailure), or ctx was cancelled. Whenever the
// receiver did respond — acceptance or rejection — the outcome is a Result
// with a nil error, and callers inspect Result.Success.
func Transmit(ctx context.Context, token, destination string, opts ...Option) (*Result, error) {
	cfg := defaultTransmitConfig()
	if err := cfg.apply(opts); err != nil {
		return nil, err
	}

	return transmit(ctx, token, destination, cfg)
}

// transmit runs the delivery loop over a resolved configuration.
func transmit(ctx context.Context, token, destination string, cfg *transmitConfig) (*Result, error) {
	logger := cfg.logger
	if ctxLogger := getContextLogger(ctx); ctxLogger != nil {
		logger = ctxLogger
	}

	if err := ValidateToken(token); err != nil {
		logger.Error("rejecting malformed token", "error", err)
		return nil, err
	}
	if err := validateDestination(destination); err != nil {
		logger.Error("rejecting malformed destination", "destination", destination, "error", err)
		return nil, err
	}

	headers := buildHeaders(cfg.authToken, cfg.userAgent, cfg.headers)

	body := []byte(token)
	if cfg.compress {
		compressed, err := gzipBody(body)
		if err != nil {
			return nil, fmt.Errorf("compressing token body: %w", err)
		}
		body = compressed
		headers["Content-Encoding"] = "gzip"
	}

	var lastErr error
	for attempt := 1; attempt <= cfg.retry.MaxAttempts; attempt++ {
		logger.Debug("dispatching token",
			"destination", destination,
			"attempt", attempt,
			"max_attempts", cfg.retry.MaxAttempts)

		res, err := dispatch(ctx, destination, body, headers, cfg)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}

			lastErr = err
			logger.Warn("attempt failed at transport level",
				"destination", destination,
				"attempt", attempt,
				"error", err)

			if !cfg.retry.ShouldRetry(0, attempt) {
				return nil, NewTransportError(destination, attempt, lastErr)
			}
			if err := retry.Wait(ctx, cfg.retry.Delay(attempt, 0)); err != nil {
				return nil, err
			}
			continue
		}

		normalized := normalizeHeaders(res.header)
		parsed := parseBody(res.body, normalized["content-type"], cfg.parseResponse)

		if cfg.validateStatus(res.statusCode) {
			logger.Info("token accepted",
				"destination", destination,
				"status", res.statusCode,
				"attempts", attempt)
			return &Result{
				Success:    true,
				StatusCode: res.statusCode,
				Body:       parsed,
				Headers:    normalized,
				Attempts:   attempt,
			}, nil
		}

		retryable := cfg.retry.RetryableStatus(res.statusCode)
		if !cfg.retry.ShouldRetry(res.statusCode, attempt) {
			logger.Error("token rejected",
				"destination", destination,
				"status", res.statusCode,
				"attempts", attempt,
				"retryable", retryable)
			return &Result{
				Success:      false,
				StatusCode:   res.statusCode,
				Body:         parsed,
				Headers:      normalized,
				ErrorMessage: fmt.Sprintf("got status code %d: %s", res.statusCode, res.status),
				Retryable:    retryable,
				Attempts:     attempt,
			}, nil
		}

		hint, _ := retry.ParseRetryAfter(normalized["retry-after"], time.Now())
		delay := cfg.retry.Delay(attempt, hint)
		logger.Debug("backing off before retry",
			"destination", destination,
			"attempt", attempt,
			"status", res.statusCode,
			"delay", delay,
			"server_hint", hint > 0)

		if err := retry.Wait(ctx, delay); err != nil {
			return nil, err
		}
	}

	// Every iteration ends in a return; only a MaxAttempts below 1 reaches
	// here, and the options reject that.
	return nil, NewTransportError(destination, 0, lastErr)
}

// attemptResponse is one attempt's response with the body fully read, so the
// underlying connection can be reused across attempts.
type attemptResponse struct {
	statusCode int
	status     string
	header     http.Header
	body       []byte
}

// dispatch performs one POST attempt under the per-attempt timeout. A non-nil
// error means no usable HTTP response was obtained; when the timeout fires
// before a response arrives, the in-flight request is cancelled to release
// the connection.
func dispatch(ctx context.Context, destination string, body []byte, headers map[string]string, cfg *transmitConfig) (*attemptResponse, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, cfg.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodPost, destination, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	for name, value := range headers {
		req.Header.Set(name, value)
	}

	res, err := cfg.client.Do(req)
	if err != nil {
		return nil, err
	}

	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}

	return &attemptResponse{
		statusCode: res.StatusCode,
		status:     res.Status,
		header:     res.Header,
		body:       raw,
	}, nil
}

// gzipBody compresses the token body for receivers that accept
// Content-Encoding: gzip on push requests.
func gzipBody(body []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(body); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
