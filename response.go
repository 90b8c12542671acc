package setpush

import (
	"encoding/json"
	"net/http"
	"strings"
)

// Result is the outcome of one delivery. Exactly one Result is produced per
// call and it is never mutated afterwards.
//
// A Result is only returned when the receiver produced an HTTP response:
// acceptance is a Result with Success true, rejection is a Result with
// Success false and a nil error. Deliveries that never obtained a response
// (validation failure, transport exhaustion, cancellation) return an error
// and no Result.
type Result struct {
	// Success reports whether the final status code passed the acceptance
	// predicate.
	Success bool

	// StatusCode is the HTTP status code of the final attempt.
	StatusCode int

	// Body is the interpreted response body: decoded JSON when the response
	// declared application/json and parsing is enabled, the raw text
	// otherwise.
	Body any

	// Headers is the response header map with lower-cased names. Repeated
	// headers are joined with ", " so every raw occurrence stays visible.
	Headers map[string]string

	// ErrorMessage describes the rejection on failed results; empty on
	// success.
	ErrorMessage string

	// Retryable reports whether the final status code belongs to the
	// configured retryable set. It is set even when the attempt cap ended
	// the delivery: it tells the caller "this class of rejection is
	// transient", not "another retry would have run".
	Retryable bool

	// Attempts is the number of delivery attempts made, the final one
	// included.
	Attempts int
}

// normalizeHeaders lower-cases response header names. Values are kept
// verbatim; repeated headers are joined with ", ".
func normalizeHeaders(h http.Header) map[string]string {
	headers := make(map[string]string, len(h))
	for name, values := range h {
		headers[strings.ToLower(name)] = strings.Join(values, ", ")
	}
	return headers
}

// parseBody interprets a raw response body. The text is returned unchanged
// when parsing is disabled, the body is empty, or the content type is not
// JSON. A JSON content type is parsed; anything unparseable falls back to
// the raw text rather than failing the delivery.
func parseBody(raw []byte, contentType string, parse bool) any {
	text := string(raw)
	if !parse || text == "" || !strings.Contains(strings.ToLower(contentType), "application/json") {
		return text
	}

	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return text
	}
	return parsed
}
