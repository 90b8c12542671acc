package settest

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Delivery records a single token received by the Receiver.
//
// All fields are populated when the request is accepted for processing:
//   - ID: Unique delivery identifier assigned by the receiver
//   - Token: Raw token body, decompressed if the caller sent gzip
//   - Headers: Request headers exactly as received
//   - Compressed: Whether the body arrived gzip-encoded
//   - ReceivedAt: Server-side receive timestamp
type Delivery struct {
	ID         string      // Unique delivery identifier
	Token      string      // Raw token body
	Headers    http.Header // Request headers as received
	Compressed bool        // Body arrived gzip-encoded
	ReceivedAt time.Time   // Receive timestamp
}

// Claims decodes the payload segment of the delivered token.
//
// It returns an error when the token does not have three segments or the
// payload is not base64url-encoded JSON. Useful for asserting on claims
// such as jti or iss:
//
//	claims, err := delivery.Claims()
//	// claims["jti"], claims["iss"], ...
func (d Delivery) Claims() (map[string]any, error) {
	segments := strings.Split(d.Token, ".")
	if len(segments) != 3 {
		return nil, fmt.Errorf("token has %d segments, want 3", len(segments))
	}

	payload, err := base64.RawURLEncoding.DecodeString(segments[1])
	if err != nil {
		return nil, fmt.Errorf("decoding payload segment: %w", err)
	}

	var claims map[string]any
	if err := json.Unmarshal(payload, &claims); err != nil {
		return nil, fmt.Errorf("parsing payload claims: %w", err)
	}
	return claims, nil
}

// Response is a scripted receiver response.
//
// Scripted responses are consumed in order, one per delivery. Once the
// script is exhausted the receiver acknowledges every delivery with
// 202 Accepted and a JSON body carrying the delivery identifier.
type Response struct {
	Status  int               // HTTP status code
	Body    string            // Response body, empty for the default acknowledgement
	Headers map[string]string // Extra response headers (e.g. Retry-After)
}

// Accepted returns a scripted 202 acknowledgement.
func Accepted() Response {
	return Response{Status: http.StatusAccepted}
}

// Rejected returns a scripted rejection with the given status and a JSON
// error body in the shape used by RFC 8935 receivers.
func Rejected(status int, description string) Response {
	return Response{
		Status:  status,
		Body:    fmt.Sprintf(`{"err":"invalid_request","description":%q}`, description),
		Headers: map[string]string{"Content-Type": "application/json"},
	}
}

// Throttled returns a scripted 429 carrying a Retry-After hint. The hint
// is passed through verbatim, so both delay-seconds and HTTP-date forms
// can be exercised.
func Throttled(retryAfter string) Response {
	return Response{
		Status:  http.StatusTooManyRequests,
		Headers: map[string]string{"Retry-After": retryAfter},
	}
}

// Unavailable returns a scripted 503.
func Unavailable() Response {
	return Response{Status: http.StatusServiceUnavailable}
}

// Config holds configuration for the test receiver.
type Config struct {
	Logger        Logger
	Authorization string
	Responses     []Response
}

// defaultConfig returns a Config with sensible defaults.
func defaultConfig() *Config {
	return &Config{
		Logger: NoopLogger(),
	}
}
