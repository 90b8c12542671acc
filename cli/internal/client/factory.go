package client

import (
	"github.com/setpush/setpush"
	"github.com/setpush/setpush/cli/internal/auth"
)

// New creates a transmitter with the provided authentication and options.
// Authentication options come first so explicit delivery options can
// override them.
func New(authConfig *auth.Config, opts ...setpush.Option) (setpush.Transmitter, error) {
	merged := append(authConfig.ToOptions(), opts...)
	return setpush.New(merged...)
}
