package settest

import (
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/setpush/setpush"
)

// Logger is a minimal logging interface for test output.
//
// This simple interface allows settest to work with any testing framework
// by accepting different logging implementations. Built-in implementations:
//   - NoopLogger: Discards all output (default, zero overhead)
//   - NewTestLogger: Logs to testing.TB (standard Go tests)
//   - NewWriterLogger: Logs to io.Writer (e.g., Ginkgo's GinkgoWriter)
//
// Custom implementations can be provided for other frameworks or use cases.
type Logger interface {
	Logf(format string, args ...any)
}

// noopLogger is a logger that discards all output.
type noopLogger struct{}

func (noopLogger) Logf(format string, args ...any) {}

// NoopLogger returns a logger that discards all output.
//
// This is the default logger if none is specified. It has zero overhead
// and is suitable for CI environments or when you don't need log output.
func NoopLogger() Logger {
	return noopLogger{}
}

// testLogger wraps a testing.TB for standard Go test output.
type testLogger struct {
	t testing.TB
}

func (l *testLogger) Logf(format string, args ...any) {
	l.t.Logf(format, args...)
}

// NewTestLogger creates a logger that outputs to testing.TB.
//
// This is the standard logger for Go tests using the testing package.
// Output appears in test logs and is captured by `go test -v`.
//
// Example:
//
//	receiver := settest.NewReceiver(
//		settest.WithLogger(settest.NewTestLogger(t)),
//	)
func NewTestLogger(t testing.TB) Logger {
	return &testLogger{t: t}
}

// writerLogger writes to an io.Writer (useful for Ginkgo's GinkgoWriter).
type writerLogger struct {
	w io.Writer
}

func (l *writerLogger) Logf(format string, args ...any) {
	fmt.Fprintf(l.w, format+"\n", args...)
}

// NewWriterLogger creates a logger that writes to an io.Writer.
// Useful for Ginkgo tests with GinkgoWriter.
func NewWriterLogger(w io.Writer) Logger {
	return &writerLogger{w: w}
}

// structuredLogger adapts a Logger to the structured interface setpush expects.
type structuredLogger struct {
	logger Logger
}

func (l *structuredLogger) Debug(msg string, keysAndValues ...any) {
	l.log("DEBUG", msg, keysAndValues)
}

func (l *structuredLogger) Info(msg string, keysAndValues ...any) {
	l.log("INFO", msg, keysAndValues)
}

func (l *structuredLogger) Warn(msg string, keysAndValues ...any) {
	l.log("WARN", msg, keysAndValues)
}

func (l *structuredLogger) Error(msg string, keysAndValues ...any) {
	l.log("ERROR", msg, keysAndValues)
}

func (l *structuredLogger) log(level, msg string, args []any) {
	formattedMsg := msg
	if len(args) > 0 {
		var pairs []string
		for i := 0; i < len(args); i += 2 {
			if i+1 < len(args) {
				pairs = append(pairs, fmt.Sprintf("%s=%v", args[i], args[i+1]))
			}
		}
		formattedMsg = fmt.Sprintf("%s (%s)", msg, strings.Join(pairs, ", "))
	}

	l.logger.Logf("[%s] %s", level, formattedMsg)
}

// NewStructuredLogger wraps a Logger to provide structured logging methods.
// The returned logger can be passed to setpush.WithLogger, so transmitter
// diagnostics end up in the same sink as receiver output.
func NewStructuredLogger(logger Logger) setpush.Logger {
	return &structuredLogger{logger: logger}
}
