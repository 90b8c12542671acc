package cmd

import (
	"log/slog"
	"os"

	"github.com/setpush/setpush"
)

// slogAdapter bridges the delivery Logger interface to log/slog so that
// --debug output lands on stderr without touching stdout formatting.
type slogAdapter struct {
	logger *slog.Logger
}

func newDebugLogger() setpush.Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})
	return &slogAdapter{logger: slog.New(handler)}
}

func (a *slogAdapter) Debug(msg string, keysAndValues ...any) {
	a.logger.Debug(msg, keysAndValues...)
}

func (a *slogAdapter) Info(msg string, keysAndValues ...any) {
	a.logger.Info(msg, keysAndValues...)
}

func (a *slogAdapter) Warn(msg string, keysAndValues ...any) {
	a.logger.Warn(msg, keysAndValues...)
}

func (a *slogAdapter) Error(msg string, keysAndValues ...any) {
	a.logger.Error(msg, keysAndValues...)
}
