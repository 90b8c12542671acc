package output

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/setpush/setpush"
)

// HumanFormatter outputs in human-readable format with colors
type HumanFormatter struct {
	success *color.Color
	failure *color.Color
	dim     *color.Color
}

// NewHumanFormatter creates a new human-readable formatter
func NewHumanFormatter() *HumanFormatter {
	return &HumanFormatter{
		success: color.New(color.FgGreen),
		failure: color.New(color.FgRed),
		dim:     color.New(color.Faint),
	}
}

// FormatResult outputs the delivery outcome in human-readable format
func (f *HumanFormatter) FormatResult(result *setpush.Result) error {
	noun := "attempt"
	if result.Attempts != 1 {
		noun = "attempts"
	}

	if result.Success {
		f.success.Printf("✓ Token accepted (status %d, %d %s)\n", result.StatusCode, result.Attempts, noun)
	} else {
		f.failure.Printf("✗ Token rejected (status %d, %d %s)\n", result.StatusCode, result.Attempts, noun)
		if result.ErrorMessage != "" {
			fmt.Printf("  %s\n", result.ErrorMessage)
		}
		if result.Retryable {
			fmt.Println(f.dim.Sprint("  the receiver reported a transient condition; a later retry may succeed"))
		}
	}

	if id, ok := result.Headers["x-delivery-id"]; ok {
		fmt.Printf("  %s %s\n", f.dim.Sprint("delivery id:"), id)
	}
	return nil
}
