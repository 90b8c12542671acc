package setpush

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidToken is returned when a security event token does not have the
	// compact serialized shape of a signed token (three non-empty dot-separated
	// base64url segments). This error is returned by Transmit before any network
	// activity takes place.
	ErrInvalidToken = errors.New("invalid security event token")

	// ErrInvalidDestination is returned when the destination is not an absolute
	// http or https URL. This error is returned by Transmit before any network
	// activity takes place.
	ErrInvalidDestination = errors.New("invalid destination URL")

	// ErrTransportFailure is returned when every delivery attempt failed at the
	// transport level (timeout, connection refused, DNS failure) and no HTTP
	// response was ever obtained. This error should only be used with
	// errors.Is() for comparison, not for type assertions.
	ErrTransportFailure = errors.New("transport failure")
)

// ValidationError provides structured information about input rejected before
// dispatch. It implements the error interface and supports errors.Is/As for
// the underlying ErrInvalidToken or ErrInvalidDestination.
type ValidationError struct {
	// Field is the rejected input ("token" or "destination").
	Field string
	// Reason is a human-readable description of why the input was rejected.
	Reason string
	// Err is the matching sentinel error.
	Err error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewInvalidTokenError creates a new ValidationError for a malformed token.
func NewInvalidTokenError(reason string) *ValidationError {
	return &ValidationError{
		Field:  "token",
		Reason: reason,
		Err:    ErrInvalidToken,
	}
}

// NewInvalidDestinationError creates a new ValidationError for a malformed
// destination URL.
func NewInvalidDestinationError(reason string) *ValidationError {
	return &ValidationError{
		Field:  "destination",
		Reason: reason,
		Err:    ErrInvalidDestination,
	}
}

// TransportError provides structured information about a delivery that
// exhausted every attempt without obtaining an HTTP response.
type TransportError struct {
	// Destination is the receiver URL the delivery was addressed to.
	Destination string
	// Attempts is the number of attempts made before giving up.
	Attempts int
	// Err is the transport error from the final attempt.
	Err error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("transmission to %s failed after %d attempts: %v", e.Destination, e.Attempts, e.Err)
	}
	return fmt.Sprintf("transmission to %s failed after %d attempts", e.Destination, e.Attempts)
}

// Unwrap returns the final attempt's transport error, preserving the error
// chain so callers can inspect the root cause (e.g. context.DeadlineExceeded).
func (e *TransportError) Unwrap() error {
	return e.Err
}

// Is enables errors.Is() compatibility with ErrTransportFailure.
func (e *TransportError) Is(target error) bool {
	return target == ErrTransportFailure
}

// NewTransportError creates a new TransportError with the specified
// destination, attempt count, and final underlying error.
func NewTransportError(destination string, attempts int, err error) *TransportError {
	return &TransportError{
		Destination: destination,
		Attempts:    attempts,
		Err:         err,
	}
}
