package output

import (
	"encoding/json"
	"os"

	"github.com/setpush/setpush"
)

// JSONFormatter outputs in JSON format
type JSONFormatter struct {
	encoder *json.Encoder
}

// NewJSONFormatter creates a new JSON formatter
func NewJSONFormatter() *JSONFormatter {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return &JSONFormatter{
		encoder: enc,
	}
}

// resultOutput represents a delivery outcome for JSON output
type resultOutput struct {
	Success    bool              `json:"success"`
	StatusCode int               `json:"status_code"`
	Attempts   int               `json:"attempts"`
	Retryable  bool              `json:"retryable"`
	Error      string            `json:"error,omitempty"`
	Body       any               `json:"body,omitempty"`
	Headers    map[string]string `json:"headers,omitempty"`
}

// FormatResult outputs the delivery outcome in JSON format
func (f *JSONFormatter) FormatResult(result *setpush.Result) error {
	output := resultOutput{
		Success:    result.Success,
		StatusCode: result.StatusCode,
		Attempts:   result.Attempts,
		Retryable:  result.Retryable,
		Error:      result.ErrorMessage,
		Body:       result.Body,
		Headers:    result.Headers,
	}
	return f.encoder.Encode(output)
}
