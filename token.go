package setpush

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// tokenSegment matches one segment of a compact serialized token. The
// URL-safe base64 alphabet is the only one allowed between the dots.
var tokenSegment = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// ValidateToken checks that a security event token has the compact serialized
// shape of a signed token: exactly three non-empty dot-separated segments of
// URL-safe base64 characters. It performs no signature or claims
// verification; a structurally well-formed token is accepted even if it is
// not cryptographically meaningful.
func ValidateToken(token string) error {
	if token == "" {
		return NewInvalidTokenError("token cannot be empty")
	}

	segments := strings.Split(token, ".")
	if len(segments) != 3 {
		return NewInvalidTokenError(fmt.Sprintf("expected 3 dot-separated segments, got %d", len(segments)))
	}

	for i, segment := range segments {
		if segment == "" {
			return NewInvalidTokenError(fmt.Sprintf("segment %d is empty", i+1))
		}
		if !tokenSegment.MatchString(segment) {
			return NewInvalidTokenError(fmt.Sprintf("segment %d contains characters outside the URL-safe base64 alphabet", i+1))
		}
	}

	return nil
}

// validateDestination checks that the destination is an absolute HTTP or
// HTTPS URL with a host. Anything else cannot receive a POST from this
// transmitter.
func validateDestination(destination string) error {
	if destination == "" {
		return NewInvalidDestinationError("destination cannot be empty")
	}

	u, err := url.Parse(destination)
	if err != nil {
		return NewInvalidDestinationError(fmt.Sprintf("parsing url: %v", err))
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return NewInvalidDestinationError("only HTTP and HTTPS URLs are supported")
	}

	if u.Host == "" {
		return NewInvalidDestinationError("destination has no host")
	}

	return nil
}
