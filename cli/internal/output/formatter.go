package output

import (
	"github.com/setpush/setpush"
)

// Formatter defines the interface for different output formats
type Formatter interface {
	// FormatResult outputs the outcome of a delivery
	FormatResult(result *setpush.Result) error
}

// Get returns the appropriate formatter based on format type
func Get(format string) Formatter {
	switch format {
	case "json":
		return NewJSONFormatter()
	default:
		return NewHumanFormatter()
	}
}
