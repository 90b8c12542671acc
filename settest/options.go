package settest

// ReceiverOption configures a Receiver instance.
type ReceiverOption func(*Config)

// WithLogger sets the logger for receiver operations.
func WithLogger(logger Logger) ReceiverOption {
	return func(c *Config) {
		c.Logger = logger
	}
}

// WithAuthorization makes the receiver reject deliveries whose bearer
// credential does not match the given one. The credential is the bare
// token, without the "Bearer " prefix.
func WithAuthorization(credential string) ReceiverOption {
	return func(c *Config) {
		c.Authorization = credential
	}
}

// WithResponses scripts the receiver's responses. Responses are consumed
// in order, one per delivery; after the script runs out, deliveries are
// acknowledged with 202 Accepted.
func WithResponses(responses ...Response) ReceiverOption {
	return func(c *Config) {
		c.Responses = append(c.Responses, responses...)
	}
}
