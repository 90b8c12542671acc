// Package setpush delivers signed security event tokens to HTTP
// receivers, following the push-style delivery model of RFC 8935.
//
// A delivery POSTs the compact JWS serialization of the token with the
// application/secevent+jwt media type, retries transient failures with
// exponentially growing, jittered backoff, and honors Retry-After hints
// from the receiver.
//
// Basic usage:
//
//	result, err := setpush.Transmit(ctx, token, "https://receiver.example.com/events",
//	    setpush.WithAuthToken(credential))
//	if err != nil {
//	    // Validation failure, transport exhaustion or cancellation.
//	    log.Fatal(err)
//	}
//
//	if !result.Success {
//	    // The receiver rejected the token; details are in the result.
//	    log.Printf("rejected: %s (retryable: %v)", result.ErrorMessage, result.Retryable)
//	}
//
// Callers delivering many tokens can bake their configuration into a
// reusable Transmitter:
//
//	sender, err := setpush.New(
//	    setpush.WithAuthToken(credential),
//	    setpush.WithMaxAttempts(5),
//	)
//	// ...
//	result, err := sender.Transmit(ctx, token, destination)
package setpush
